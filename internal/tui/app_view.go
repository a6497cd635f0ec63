package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/hy4ri/todoist-tree/internal/tree"
	"github.com/hy4ri/todoist-tree/internal/tui/components"
	"github.com/hy4ri/todoist-tree/internal/tui/styles"
)

// View implements tea.Model.
func (a *App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	if a.showHelp {
		return a.helpComp.View()
	}

	content := a.renderMainView()
	if a.taskForm != nil {
		content = a.renderTaskForm()
	}

	return lipgloss.JoinVertical(lipgloss.Left, content, a.renderStatusBar())
}

// renderMainView lays out the sidebar next to the task tree.
func (a *App) renderMainView() string {
	statusBarHeight := 2
	contentHeight := a.height - statusBarHeight

	sidebarWidth := min(30, a.width/3)
	taskListWidth := max(a.width-sidebarWidth-2, 20)

	a.sidebar.SetSize(sidebarWidth, contentHeight)
	a.taskList.SetSize(taskListWidth, contentHeight)
	a.taskList.SetTitle(a.listTitle())
	a.taskList.SetEmptyMessage(a.emptyMessage())
	a.taskList.SetLoading(a.syncing && !a.loaded)
	a.taskList.SetData(components.TaskListData{
		List:           a.model.List(),
		Store:          a.model.Store(),
		Selection:      a.model.Selection(),
		Today:          a.model.Today(),
		Sections:       a.sectionNames,
		ShowChildCount: a.config.UI.ShowChildCount,
	})

	return lipgloss.JoinHorizontal(lipgloss.Top, a.sidebar.View(), " ", a.taskList.View())
}

// listTitle names the active filter and sort.
func (a *App) listTitle() string {
	f := a.model.Filter()
	title := f.Title()
	if f.Kind == tree.FilterProject {
		if name, ok := a.sidebar.ProjectName(f.ProjectID); ok {
			title = name
		}
	}
	return fmt.Sprintf("%s · by %s", title, a.model.Sort())
}

func (a *App) emptyMessage() string {
	switch a.model.Filter().Kind {
	case tree.FilterDueToday:
		return "Nothing due today"
	case tree.FilterOverdue:
		return "Nothing overdue"
	default:
		return "No tasks found"
	}
}

// renderTaskForm centers the task form over the screen.
func (a *App) renderTaskForm() string {
	dialog := styles.Dialog.Render(a.taskForm.View())
	return lipgloss.Place(a.width, a.height-2, lipgloss.Center, lipgloss.Center, dialog)
}

// renderStatusBar shows the status message on the left and sync state with
// key hints on the right.
func (a *App) renderStatusBar() string {
	var rightParts []string
	if a.syncing {
		rightParts = append(rightParts, a.spinner.View())
	}
	if a.dispatcher != nil {
		if n := a.dispatcher.Pending(); n > 0 {
			rightParts = append(rightParts, styles.StatusBarWarning.Render(fmt.Sprintf("%d pending", n)))
		}
	}
	if a.offline {
		rightParts = append(rightParts, styles.StatusBarWarning.Render("offline"))
	}
	if !a.syncedAt.IsZero() {
		rightParts = append(rightParts, styles.StatusBarText.Render("synced "+humanize.Time(a.syncedAt)))
	}
	rightParts = append(rightParts, a.help.ShortHelpView(a.keymap.ShortHelp()))

	right := strings.Join(rightParts, "  ")
	rightWidth := lipgloss.Width(right)
	padding := styles.StatusBar.GetHorizontalFrameSize()

	// Truncate before styling so escape codes are never cut.
	maxLeftWidth := a.width - rightWidth - padding - 4
	clip := func(s string) string {
		s = strings.ReplaceAll(s, "\n", " ")
		if maxLeftWidth > 10 {
			s = runewidth.Truncate(s, maxLeftWidth, "…")
		}
		return s
	}

	left := ""
	if a.err != nil {
		left = styles.StatusBarError.Render(clip("Error: " + a.err.Error()))
	} else if a.statusMsg != "" {
		left = styles.StatusBarSuccess.Render(clip(a.statusMsg))
	}

	spacing := max(a.width-lipgloss.Width(left)-rightWidth-padding, 0)

	return styles.StatusBar.Width(a.width - padding).Render(left + strings.Repeat(" ", spacing) + right)
}
