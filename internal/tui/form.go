package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hy4ri/todoist-tree/internal/api"
	"github.com/hy4ri/todoist-tree/internal/tree"
	"github.com/hy4ri/todoist-tree/internal/tui/styles"
)

// FormField identifies a row of the task form.
type FormField int

const (
	FormFieldContent FormField = iota
	FormFieldDescription
	FormFieldDue
	FormFieldPriority
	FormFieldProject
	FormFieldSubmit
)

var fieldLabels = map[FormField]string{
	FormFieldContent:     "Task Name",
	FormFieldDescription: "Description",
	FormFieldDue:         "Due Date",
	FormFieldPriority:    "Priority",
	FormFieldProject:     "Project",
}

// FormMode says what submitting the form does.
type FormMode int

const (
	FormModeAdd FormMode = iota
	FormModeSubtask
	FormModeEdit
)

func (m FormMode) title() string {
	switch m {
	case FormModeSubtask:
		return "Add Subtask"
	case FormModeEdit:
		return "Edit Task"
	default:
		return "Add Task"
	}
}

// clearDue is the due string the service reads as "remove the due date".
const clearDue = "no date"

// projectPicker is the dropdown on the project row.
type projectPicker struct {
	projects []api.Project
	cursor   int
	open     bool
}

func (p *projectPicker) selected() (api.Project, bool) {
	if p.cursor < 0 || p.cursor >= len(p.projects) {
		return api.Project{}, false
	}
	return p.projects[p.cursor], true
}

// update moves the cursor or closes the list. picked is set when enter
// chose a project.
func (p *projectPicker) update(msg tea.KeyMsg) (picked bool) {
	switch msg.String() {
	case "j", "down":
		p.cursor = min(p.cursor+1, len(p.projects)-1)
	case "k", "up":
		p.cursor = max(p.cursor-1, 0)
	case "enter":
		p.open = false
		_, picked = p.selected()
	case "esc", "q":
		p.open = false
	}
	return picked
}

func (p *projectPicker) view() string {
	rows := make([]string, len(p.projects))
	for i, proj := range p.projects {
		if i == p.cursor {
			rows[i] = styles.ProjectSelected.Render("> " + proj.Name)
		} else {
			rows[i] = styles.ProjectItem.Render("  " + proj.Name)
		}
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Highlight).
		Padding(0, 1).
		Render(strings.Join(rows, "\n"))
}

// TaskForm is the dialog used to add a task or subtask and to edit one.
type TaskForm struct {
	Mode       FormMode
	TaskID     string // edit mode
	ParentID   string // subtask mode
	ParentName string

	ContentInput     textinput.Model
	DescriptionInput textinput.Model
	DueInput         textinput.Model

	Priority    int // 1 is highest
	ProjectID   string
	ProjectName string
	picker      projectPicker

	FocusedField FormField
	hadDue       bool
	width        int
}

func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Width = 50
	return in
}

// NewTaskForm creates a form for a new root task in projectID. An empty
// projectID falls back to the inbox.
func NewTaskForm(projects []api.Project, projectID string) *TaskForm {
	f := &TaskForm{
		Mode:             FormModeAdd,
		ContentInput:     newInput("Task name", 500),
		DescriptionInput: newInput("Description (optional)", 1000),
		DueInput:         newInput("Due date (e.g., tomorrow, next monday)", 100),
		Priority:         tree.PriorityLowest,
		ProjectID:        projectID,
		picker:           projectPicker{projects: projects},
	}
	f.ContentInput.Focus()

	i := slices.IndexFunc(projects, func(p api.Project) bool {
		if projectID == "" {
			return p.InboxProject
		}
		return p.ID == projectID
	})
	if i >= 0 {
		f.picker.cursor = i
		f.setProject(projects[i])
	}
	return f
}

// NewSubtaskForm creates a form for a child of parent. The subtask always
// lands in the parent's project.
func NewSubtaskForm(parent tree.Task, projects []api.Project) *TaskForm {
	f := NewTaskForm(projects, parent.ProjectID)
	f.Mode = FormModeSubtask
	f.ParentID = parent.ID
	f.ParentName = parent.Content
	return f
}

// NewEditTaskForm creates a form pre-populated from task.
func NewEditTaskForm(task tree.Task, projects []api.Project) *TaskForm {
	f := NewTaskForm(projects, task.ProjectID)
	f.Mode = FormModeEdit
	f.TaskID = task.ID
	f.Priority = tree.ClampPriority(task.Priority)

	f.ContentInput.SetValue(task.Content)
	f.DescriptionInput.SetValue(task.Description)
	if task.Due != nil {
		f.DueInput.SetValue(task.Due.String)
		f.hadDue = true
	}
	return f
}

func (f *TaskForm) setProject(p api.Project) {
	f.ProjectID = p.ID
	f.ProjectName = p.Name
}

// SetWidth fits the inputs to the screen.
func (f *TaskForm) SetWidth(width int) {
	f.width = width
	w := min(max(width-10, 30), 60)
	for _, in := range f.inputs() {
		in.Width = w
	}
}

func (f *TaskForm) inputs() []*textinput.Model {
	return []*textinput.Model{&f.ContentInput, &f.DescriptionInput, &f.DueInput}
}

// input returns the text input behind field, or nil for the other rows.
func (f *TaskForm) input(field FormField) *textinput.Model {
	switch field {
	case FormFieldContent:
		return &f.ContentInput
	case FormFieldDescription:
		return &f.DescriptionInput
	case FormFieldDue:
		return &f.DueInput
	}
	return nil
}

// fields lists the rows in tab order. Subtasks follow their parent and
// edits never move a task, so only a new root task shows the project row.
func (f *TaskForm) fields() []FormField {
	fields := []FormField{FormFieldContent, FormFieldDescription, FormFieldDue, FormFieldPriority}
	if f.projectEditable() {
		fields = append(fields, FormFieldProject)
	}
	return append(fields, FormFieldSubmit)
}

func (f *TaskForm) projectEditable() bool {
	return f.Mode == FormModeAdd && len(f.picker.projects) > 0
}

// PickerOpen reports whether the project dropdown has the keyboard.
func (f *TaskForm) PickerOpen() bool {
	return f.picker.open
}

// ConsumesEnter reports whether enter acts inside the form instead of
// submitting it.
func (f *TaskForm) ConsumesEnter() bool {
	return f.picker.open || f.FocusedField == FormFieldProject
}

// Update handles input for the form.
func (f *TaskForm) Update(msg tea.Msg) (*TaskForm, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		if f.picker.open {
			if f.picker.update(key) {
				p, _ := f.picker.selected()
				f.setProject(p)
			}
			return f, nil
		}

		switch key.String() {
		case "tab":
			f.moveField(1)
			return f, nil
		case "shift+tab":
			f.moveField(-1)
			return f, nil
		}

		switch f.FocusedField {
		case FormFieldProject:
			if key.String() == "enter" {
				f.picker.open = true
			}
			return f, nil
		case FormFieldPriority:
			f.updatePriority(key.String())
			return f, nil
		}
	}

	in := f.input(f.FocusedField)
	if in == nil {
		return f, nil
	}
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	return f, cmd
}

func (f *TaskForm) updatePriority(k string) {
	switch k {
	case "1", "2", "3", "4":
		f.Priority = int(k[0] - '0')
	case "h", "left":
		f.Priority = tree.ClampPriority(f.Priority - 1)
	case "l", "right":
		f.Priority = tree.ClampPriority(f.Priority + 1)
	}
}

// moveField steps focus through fields(), wrapping at both ends.
func (f *TaskForm) moveField(delta int) {
	order := f.fields()
	i := max(slices.Index(order, f.FocusedField), 0)
	next := order[(i+delta+len(order))%len(order)]

	if in := f.input(f.FocusedField); in != nil {
		in.Blur()
	}
	f.FocusedField = next
	if in := f.input(next); in != nil {
		in.Focus()
	}
}

// IsValid reports whether the form can be submitted.
func (f *TaskForm) IsValid() bool {
	return strings.TrimSpace(f.ContentInput.Value()) != ""
}

func (f *TaskForm) values() (content, desc, due string) {
	return strings.TrimSpace(f.ContentInput.Value()),
		strings.TrimSpace(f.DescriptionInput.Value()),
		strings.TrimSpace(f.DueInput.Value())
}

// ToCreateRequest builds the request for a new task or subtask.
func (f *TaskForm) ToCreateRequest() api.CreateTaskRequest {
	content, desc, due := f.values()
	return api.CreateTaskRequest{
		Content:     content,
		Description: desc,
		ProjectID:   f.ProjectID,
		ParentID:    f.ParentID,
		Priority:    tree.APIPriority(f.Priority),
		DueString:   due,
	}
}

// ToUpdateRequest builds the request for an edit. Emptying a due date that
// was set sends clearDue; a due that was never set is left out.
func (f *TaskForm) ToUpdateRequest() api.UpdateTaskRequest {
	content, desc, due := f.values()
	req := api.UpdateTaskRequest{
		Content:     &content,
		Description: &desc,
		Priority:    api.IntPtr(tree.APIPriority(f.Priority)),
	}

	switch {
	case due != "":
		req.DueString = &due
	case f.hadDue:
		req.DueString = api.StringPtr(clearDue)
	}
	return req
}

// Apply copies the edits that can be made locally onto t. A changed due
// string is resolved by the service and arrives with the update result.
func (f *TaskForm) Apply(t *tree.Task) {
	content, desc, due := f.values()
	t.Content = content
	t.Description = desc
	t.Priority = f.Priority
	if due == "" {
		t.Due = nil
	}
}

// View renders the form.
func (f *TaskForm) View() string {
	parts := []string{styles.DialogTitle.Render(f.Mode.title())}
	if f.Mode == FormModeSubtask {
		parts = append(parts, styles.Subtitle.Render("under: "+f.ParentName))
	}
	parts = append(parts, "")

	for _, field := range f.fields() {
		if field == FormFieldSubmit {
			parts = append(parts, f.renderSubmit(), "")
			continue
		}
		parts = append(parts, f.label(field), f.renderValue(field), "")
	}

	parts = append(parts, styles.HelpDesc.Render(f.hint()))
	return strings.Join(parts, "\n")
}

func (f *TaskForm) label(field FormField) string {
	style := styles.InputLabel
	if f.FocusedField == field {
		style = style.Foreground(styles.Highlight)
	}
	return style.Render(fieldLabels[field])
}

func (f *TaskForm) renderValue(field FormField) string {
	focused := f.FocusedField == field
	switch field {
	case FormFieldPriority:
		opts := make([]string, 0, tree.PriorityLowest)
		for p := tree.PriorityHighest; p <= tree.PriorityLowest; p++ {
			style := styles.GetPriorityStyle(p)
			if p == f.Priority {
				style = style.Bold(true).Underline(true)
			}
			opts = append(opts, style.Render(fmt.Sprintf("P%d", p)))
		}
		row := strings.Join(opts, "  ")
		if focused {
			row = "[ " + row + " ]"
		}
		return row
	case FormFieldProject:
		if f.picker.open {
			return f.picker.view()
		}
		name := f.ProjectName
		if name == "" {
			name = "Select project..."
		}
		if focused {
			return "[ " + name + " ] (press Enter to change)"
		}
		return name
	}
	return f.input(field).View()
}

func (f *TaskForm) renderSubmit() string {
	text := "[ Submit ]"
	if f.Mode == FormModeEdit {
		text = "[ Save Changes ]"
	}
	if f.FocusedField == FormFieldSubmit {
		return styles.HelpKey.Render(text)
	}
	return styles.HelpDesc.Render(text)
}

func (f *TaskForm) hint() string {
	switch f.FocusedField {
	case FormFieldPriority:
		return "1-4: set priority | h/l: adjust | Tab: next field"
	case FormFieldProject:
		return "Enter: open list | Tab: next field"
	}
	return "Tab: next field | Shift+Tab: previous | Enter: submit | Esc: cancel"
}
