package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hy4ri/todoist-tree/internal/tree"
	"github.com/hy4ri/todoist-tree/internal/tui/styles"
)

// indentWidth is the number of columns per tree level.
const indentWidth = 2

// TaskListData is everything the task list renders from.
type TaskListData struct {
	List           tree.DisplayList
	Store          *tree.Store
	Selection      tree.Selection
	Today          tree.Date
	Sections       map[string]string // section ID to name
	ShowChildCount bool
}

// TaskListModel renders the display list in a scrollable viewport. It owns
// no task state; the app pushes a fresh TaskListData after every change.
type TaskListModel struct {
	data          TaskListData
	childCounts   map[string]int
	width, height int
	focused       bool
	viewportReady bool
	viewport      viewport.Model
	title         string
	emptyMessage  string
	loading       bool
}

var _ DataReceiver[TaskListData] = (*TaskListModel)(nil)

// NewTaskList creates a new TaskListModel.
func NewTaskList() *TaskListModel {
	return &TaskListModel{
		title:        "Tasks",
		emptyMessage: "No tasks found",
	}
}

// Init implements Component.
func (t *TaskListModel) Init() tea.Cmd {
	return nil
}

// Update implements Component. Navigation is driven by the app through
// the tree model, so only mouse scrolling is handled here.
func (t *TaskListModel) Update(msg tea.Msg) (Component, tea.Cmd) {
	if !t.viewportReady {
		return t, nil
	}
	if _, ok := msg.(tea.MouseMsg); ok {
		var cmd tea.Cmd
		t.viewport, cmd = t.viewport.Update(msg)
		return t, cmd
	}
	return t, nil
}

// View implements Component.
func (t *TaskListModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render(t.title))
	b.WriteString("\n")

	switch {
	case t.loading && t.data.List.Len() == 0:
		b.WriteString(styles.HelpDesc.Render("Loading..."))
	case t.data.List.Len() == 0:
		b.WriteString(styles.HelpDesc.Render(t.emptyMessage))
	default:
		b.WriteString(t.renderRows())
	}

	containerStyle := styles.MainContent
	if t.focused {
		containerStyle = styles.MainContentFocused
	}
	return containerStyle.Width(t.width).Height(max(t.height-2, 3)).Render(b.String())
}

// renderRows renders every display entry and scrolls the viewport to the
// selected row.
func (t *TaskListModel) renderRows() string {
	lines := make([]string, 0, t.data.List.Len())
	for i, e := range t.data.List.Entries() {
		lines = append(lines, t.renderTask(i, e))
	}
	content := strings.Join(lines, "\n")

	if !t.viewportReady {
		return content
	}
	t.viewport.SetContent(content)
	if pos, ok := t.data.Selection.Position(); ok {
		t.syncViewportToCursor(pos)
	}
	return t.viewport.View()
}

// renderTask renders a single task row.
func (t *TaskListModel) renderTask(pos int, e tree.Entry) string {
	task, ok := t.data.Store.Get(e.ID)
	if !ok {
		return ""
	}

	selPos, selected := t.data.Selection.Position()
	selected = selected && selPos == pos

	cursor := "  "
	if selected && t.focused {
		cursor = "> "
	}
	indent := strings.Repeat(" ", e.Depth*indentWidth)

	var suffix strings.Builder
	if t.data.ShowChildCount {
		if n := t.childCounts[task.ID]; n > 0 {
			suffix.WriteString(styles.TaskChildCount.Render(fmt.Sprintf(" (%d)", n)))
		}
	}
	if label := task.DueLabel(t.data.Today); label != "" {
		style := styles.TaskDue
		switch {
		case task.IsOverdue(t.data.Today):
			style = styles.TaskDueOverdue
		case task.IsDueToday(t.data.Today):
			style = styles.TaskDueToday
		}
		suffix.WriteString(style.Render("| " + label))
		if task.Due.Recurring {
			suffix.WriteString(styles.TaskRecurring.Render("↻"))
		}
	}
	if len(task.Labels) > 0 {
		labels := make([]string, len(task.Labels))
		for i, l := range task.Labels {
			labels[i] = "@" + l
		}
		suffix.WriteString(styles.TaskLabel.Render(strings.Join(labels, " ")))
	}
	if name, ok := t.data.Sections[task.SectionID]; ok && e.Depth == 0 {
		suffix.WriteString(styles.TaskSection.Render("/" + name))
	}

	prefix := cursor + indent + styles.CheckboxUnchecked + " "
	avail := t.width - 6 - lipgloss.Width(prefix) - lipgloss.Width(suffix.String())
	content := styles.GetPriorityStyle(task.Priority).Render(truncateString(task.Content, max(avail, 8)))

	style := styles.TaskItem
	if selected && t.focused {
		style = styles.TaskSelected
	}
	return style.Render(prefix + content + suffix.String())
}

// syncViewportToCursor ensures the viewport shows the cursor line.
func (t *TaskListModel) syncViewportToCursor(cursorLine int) {
	vpHeight := t.viewport.Height
	if vpHeight <= 0 {
		return
	}

	currentTop := t.viewport.YOffset
	currentBottom := currentTop + vpHeight - 1

	if cursorLine < currentTop {
		t.viewport.SetYOffset(cursorLine)
	} else if cursorLine > currentBottom {
		t.viewport.SetYOffset(cursorLine - vpHeight + 1)
	}
}

// SetSize implements Component.
func (t *TaskListModel) SetSize(width, height int) {
	t.width = width
	t.height = height

	// Borders(2) and title(1) come off the viewport.
	vpHeight := max(height-5, 1)
	if !t.viewportReady {
		t.viewport = viewport.New(width-4, vpHeight)
		t.viewport.Style = lipgloss.NewStyle()
		t.viewport.MouseWheelEnabled = true
		t.viewportReady = true
	} else {
		t.viewport.Width = width - 4
		t.viewport.Height = vpHeight
	}
}

// SetData implements DataReceiver.
func (t *TaskListModel) SetData(data TaskListData) {
	t.data = data
	t.childCounts = nil
	if data.ShowChildCount && data.Store != nil {
		t.childCounts = data.Store.ChildCounts()
	}
}

// Focus sets focus on the task list.
func (t *TaskListModel) Focus() {
	t.focused = true
}

// Blur removes focus.
func (t *TaskListModel) Blur() {
	t.focused = false
}

// Focused returns focus state.
func (t *TaskListModel) Focused() bool {
	return t.focused
}

// SetTitle sets the title header.
func (t *TaskListModel) SetTitle(title string) {
	t.title = title
}

// SetEmptyMessage sets the message shown when no tasks exist.
func (t *TaskListModel) SetEmptyMessage(msg string) {
	t.emptyMessage = msg
}

// SetLoading sets loading state.
func (t *TaskListModel) SetLoading(loading bool) {
	t.loading = loading
}

// ScrollOffset returns the first visible row.
func (t *TaskListModel) ScrollOffset() int {
	return t.viewport.YOffset
}
