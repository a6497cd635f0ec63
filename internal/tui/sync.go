package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/hy4ri/todoist-tree/internal/api"
	"github.com/hy4ri/todoist-tree/internal/cache"
	"github.com/hy4ri/todoist-tree/internal/tree"
)

var errOfflineNoSnapshot = errors.New("offline and nothing cached; run once without --offline")

// loadSnapshot reads the cached snapshot.
func (a *App) loadSnapshot() tea.Cmd {
	store := a.cache
	return func() tea.Msg {
		snap, err := store.Load()
		return snapshotLoadedMsg{snap: snap, err: err}
	}
}

// fetchData loads tasks, projects and sections concurrently.
func (a *App) fetchData() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		var msg dataLoadedMsg
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			tasks, err := client.GetTasks(ctx, api.TaskFilter{})
			if err != nil {
				return fmt.Errorf("fetch tasks: %w", err)
			}
			msg.tasks = tasks
			return nil
		})
		g.Go(func() error {
			projects, err := client.GetProjects(ctx)
			if err != nil {
				return fmt.Errorf("fetch projects: %w", err)
			}
			msg.projects = projects
			return nil
		})
		g.Go(func() error {
			sections, err := client.GetSections(ctx, "")
			if err != nil {
				return fmt.Errorf("fetch sections: %w", err)
			}
			msg.sections = sections
			return nil
		})

		if err := g.Wait(); err != nil {
			if apiErr, ok := api.IsAPIError(err); ok && apiErr.IsUnauthorized() {
				err = fmt.Errorf("%w (run todoist-tree --login)", err)
			}
			return errMsg{err}
		}
		return msg
	}
}

// startSync issues a resync unless one is in flight or the app is offline.
func (a *App) startSync() tea.Cmd {
	if a.offline || a.client == nil {
		a.syncing = false
		return nil
	}
	if a.syncing {
		return nil
	}
	a.syncing = true
	return a.fetchData()
}

// handleSnapshotLoaded restores the last session and kicks off the first sync.
func (a *App) handleSnapshotLoaded(msg snapshotLoadedMsg) tea.Cmd {
	switch {
	case msg.err == nil && msg.snap != nil:
		a.applySnapshot(msg.snap)
	case errors.Is(msg.err, cache.ErrNoSnapshot):
		if a.offline {
			a.err = errOfflineNoSnapshot
		}
	default:
		a.logger.Warn("snapshot unreadable", "err", msg.err)
	}

	if a.offline || a.client == nil {
		a.syncing = false
		return nil
	}
	a.syncing = true
	return a.fetchData()
}

// applySnapshot renders a cached snapshot and restores the saved selection.
func (a *App) applySnapshot(snap *cache.Snapshot) {
	a.setProjects(snap.Projects, snap.Sections)

	if !a.filterOverride {
		if f, err := tree.ParseFilter(snap.Filter); err == nil && snap.Filter != "" {
			a.model.SetFilter(f, false)
		}
	}
	if !a.sortOverride {
		if c, err := tree.ParseSort(snap.Sort); err == nil && snap.Sort != "" {
			a.model.SetSort(c)
		}
	}

	a.model.Load(tree.FromAPIList(snap.Tasks), true)
	if !a.model.SelectTask(snap.SelectedTaskID) {
		a.model.SelectPosition(snap.CursorPosition)
	}

	a.loaded = true
	a.syncedAt = snap.SavedAt
	a.refreshSidebar()

	age := humanize.Time(snap.SavedAt)
	if snap.Fresh(a.config.Cache.MaxAge.Duration, a.now()) {
		a.statusMsg = "Loaded snapshot from " + age
	} else {
		a.statusMsg = "Snapshot is stale (saved " + age + ")"
	}
	a.logger.Debug("snapshot restored", "tasks", len(snap.Tasks), "saved", snap.SavedAt)
}

// handleDataLoaded replaces local state with a fresh fetch.
func (a *App) handleDataLoaded(msg dataLoadedMsg) tea.Cmd {
	a.syncing = false
	a.err = nil

	a.setProjects(msg.projects, msg.sections)
	a.model.Load(tree.FromAPIList(msg.tasks), !a.loaded)

	a.loaded = true
	a.syncedAt = a.now()
	a.refreshSidebar()
	a.statusMsg = fmt.Sprintf("Synced %d tasks", a.model.Store().Len())
	a.logger.Info("synced", "tasks", a.model.Store().Len(), "projects", len(msg.projects))

	return a.saveSnapshot()
}

func (a *App) setProjects(projects []api.Project, sections []api.Section) {
	a.projects = projects
	a.sections = sections
	a.sectionNames = make(map[string]string, len(sections))
	for _, s := range sections {
		a.sectionNames[s.ID] = s.Name
	}
}

// dayCheckInterval is how often the clock is polled for a date change.
const dayCheckInterval = time.Minute

func checkDay() tea.Cmd {
	return tea.Tick(dayCheckInterval, func(time.Time) tea.Msg {
		return dayCheckMsg{}
	})
}

// handleDayCheck rebuilds once the date has changed, so the Today and
// Overdue filters, due labels and sidebar counts follow the new day.
func (a *App) handleDayCheck() {
	today := a.model.Today()
	if today == a.day {
		return
	}
	a.logger.Debug("date changed", "from", a.day, "to", today)
	a.day = today
	a.model.Refresh()
	a.refreshSidebar()
}

// refreshSidebar recounts root tasks per filter and project.
func (a *App) refreshSidebar() {
	today := a.model.Today()
	counts := make(map[string]int)
	for _, t := range a.model.Store().Tasks() {
		if !t.IsRoot() {
			continue
		}
		counts[tree.AllTasks().String()]++
		if tree.DueToday().Matches(t, today) {
			counts[tree.DueToday().String()]++
		}
		if tree.Overdue().Matches(t, today) {
			counts[tree.Overdue().String()]++
		}
		counts[t.ProjectID]++
	}
	a.sidebar.SetProjects(a.projects, counts)
	a.sidebar.SetActive(a.model.Filter())
}

// snapshot captures the current state for the cache.
func (a *App) snapshot() *cache.Snapshot {
	snap := &cache.Snapshot{
		Projects: a.projects,
		Sections: a.sections,
		Tasks:    tree.ToAPIList(a.model.Store().Tasks()),
		Filter:   a.model.Filter().String(),
		Sort:     a.model.Sort().String(),
	}
	if id, ok := a.model.SelectedID(); ok {
		snap.SelectedTaskID = id
	}
	if pos, ok := a.model.Selection().Position(); ok {
		snap.CursorPosition = pos
	}
	if f := a.model.Filter(); f.Kind == tree.FilterProject {
		snap.SelectedProjectID = f.ProjectID
	}
	return snap
}

// saveSnapshot writes the current state in the background.
func (a *App) saveSnapshot() tea.Cmd {
	snap := a.snapshot()
	store := a.cache
	return func() tea.Msg {
		if err := store.Save(snap); err != nil {
			return errMsg{fmt.Errorf("save snapshot: %w", err)}
		}
		return nil
	}
}

// SaveSnapshot writes the current state synchronously. It is a no-op until
// a snapshot or fetch has loaded.
func (a *App) SaveSnapshot() error {
	if !a.loaded {
		return nil
	}
	return a.cache.Save(a.snapshot())
}
