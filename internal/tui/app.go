// Package tui provides the terminal user interface for the task tree.
package tui

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/hy4ri/todoist-tree/internal/api"
	"github.com/hy4ri/todoist-tree/internal/cache"
	"github.com/hy4ri/todoist-tree/internal/config"
	"github.com/hy4ri/todoist-tree/internal/dispatch"
	"github.com/hy4ri/todoist-tree/internal/tree"
	"github.com/hy4ri/todoist-tree/internal/tui/components"
	"github.com/hy4ri/todoist-tree/internal/tui/styles"
)

// fetchTimeout bounds a full resync.
const fetchTimeout = 30 * time.Second

// Fetcher loads the full remote state.
type Fetcher interface {
	GetTasks(ctx context.Context, filter api.TaskFilter) ([]api.Task, error)
	GetProjects(ctx context.Context) ([]api.Project, error)
	GetSections(ctx context.Context, projectID string) ([]api.Section, error)
}

// Dispatcher queues remote mutations. *dispatch.Dispatcher implements it.
type Dispatcher interface {
	Submit(jobs ...dispatch.Job) error
	Results() <-chan dispatch.Result
	Pending() int
}

// Options wires the App to its collaborators. Only Client and Dispatcher
// are required.
type Options struct {
	Client     Fetcher
	Dispatcher Dispatcher
	Cache      cache.Store
	Config     *config.Config
	Logger     *log.Logger
	Clock      tree.Clock

	// Offline renders the cached snapshot only.
	Offline bool
	// Filter and Sort override both the config and the snapshot.
	Filter *tree.Filter
	Sort   *tree.SortCriterion
}

// App is the main Bubble Tea model for the application.
type App struct {
	// Dependencies
	client     Fetcher
	dispatcher Dispatcher
	cache      cache.Store
	config     *config.Config
	logger     *log.Logger
	now        func() time.Time

	offline        bool
	filterOverride bool
	sortOverride   bool

	// Data
	model        *tree.Model
	projects     []api.Project
	sections     []api.Section
	sectionNames map[string]string

	// day is the date the display list was last built for.
	day tree.Date

	// selectOnCreate is the create job whose task gets selected on arrival.
	selectOnCreate uuid.UUID

	// UI state
	focusedPane components.Pane
	showHelp    bool
	taskForm    *TaskForm
	loaded      bool
	syncing     bool
	syncedAt    time.Time
	err         error
	statusMsg   string
	width       int
	height      int

	spinner  spinner.Model
	help     help.Model
	keyState KeyState
	keymap   Keymap

	sidebar  *components.SidebarModel
	taskList *components.TaskListModel
	helpComp *components.HelpModel
}

// New creates the App.
func New(opts Options) *App {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	store := opts.Cache
	if store == nil {
		store = cache.Nop{}
	}
	clock := opts.Clock
	if clock == nil {
		clock = tree.SystemClock{}
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	h := help.New()
	h.Styles.ShortKey = styles.StatusBarKey
	h.Styles.ShortDesc = styles.StatusBarText
	h.Styles.ShortSeparator = styles.StatusBarText

	a := &App{
		client:      opts.Client,
		dispatcher:  opts.Dispatcher,
		cache:       store,
		config:      cfg,
		logger:      logger,
		now:         time.Now,
		offline:     opts.Offline,
		model:       tree.NewModel(clock),
		focusedPane: components.PaneMain,
		syncing:     !opts.Offline,
		spinner:     s,
		help:        h,
		keymap:      DefaultKeymap(cfg.UI.VimMode),
		sidebar:     components.NewSidebar(),
		taskList:    components.NewTaskList(),
		helpComp:    components.NewHelp(),
	}
	a.helpComp.SetKeyMap(a.keymap, helpSections...)
	a.day = a.model.Today()

	if f, err := tree.ParseFilter(cfg.UI.DefaultFilter); err == nil {
		a.model.SetFilter(f, false)
	}
	if c, err := tree.ParseSort(cfg.UI.DefaultSort); err == nil {
		a.model.SetSort(c)
	}
	if opts.Filter != nil {
		a.model.SetFilter(*opts.Filter, false)
		a.filterOverride = true
	}
	if opts.Sort != nil {
		a.model.SetSort(*opts.Sort)
		a.sortOverride = true
	}
	a.sidebar.SetActive(a.model.Filter())
	a.taskList.Focus()

	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.spinner.Tick,
		a.loadSnapshot(),
		a.waitForResult(),
		checkDay(),
	)
}

// Model exposes the task tree state.
func (a *App) Model() *tree.Model {
	return a.model
}
