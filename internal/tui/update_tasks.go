package tui

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"
	"github.com/google/uuid"

	"github.com/hy4ri/todoist-tree/internal/api"
	"github.com/hy4ri/todoist-tree/internal/dispatch"
	"github.com/hy4ri/todoist-tree/internal/tree"
)

const appTitle = "todoist-tree"

var errReadOnly = errors.New("offline: changes are disabled")

// writable reports whether mutations may be queued, setting the status
// error when they may not.
func (a *App) writable() bool {
	if a.offline || a.dispatcher == nil {
		a.err = errReadOnly
		return false
	}
	return true
}

// submit queues jobs, surfacing a closed dispatcher as an error.
func (a *App) submit(jobs ...dispatch.Job) bool {
	if err := a.dispatcher.Submit(jobs...); err != nil {
		a.err = err
		a.logger.Error("submit failed", "err", err)
		return false
	}
	return true
}

// handleAdd opens the form for a new root task, defaulting to the project
// being viewed.
func (a *App) handleAdd() (tea.Model, tea.Cmd) {
	if !a.writable() {
		return a, nil
	}
	projectID := ""
	if f := a.model.Filter(); f.Kind == tree.FilterProject {
		projectID = f.ProjectID
	}
	a.taskForm = NewTaskForm(a.projects, projectID)
	a.taskForm.SetWidth(a.width)
	return a, nil
}

// handleAddSubtask opens the form for a child of the selected task.
func (a *App) handleAddSubtask() (tea.Model, tea.Cmd) {
	parent, ok := a.model.Selected()
	if !ok || !a.writable() {
		return a, nil
	}
	a.taskForm = NewSubtaskForm(parent, a.projects)
	a.taskForm.SetWidth(a.width)
	return a, nil
}

// handleEdit opens the form for the selected task.
func (a *App) handleEdit() (tea.Model, tea.Cmd) {
	task, ok := a.model.Selected()
	if !ok || !a.writable() {
		return a, nil
	}
	a.taskForm = NewEditTaskForm(task, a.projects)
	a.taskForm.SetWidth(a.width)
	return a, nil
}

// submitForm applies an edit locally and queues the request. New tasks
// only appear once the service has assigned their id.
func (a *App) submitForm() (tea.Model, tea.Cmd) {
	form := a.taskForm
	if !form.IsValid() {
		a.statusMsg = "Task name is required"
		return a, nil
	}
	a.taskForm = nil

	if form.Mode == FormModeEdit {
		if err := a.model.Edit(form.TaskID, form.Apply); err != nil {
			a.err = err
			return a, nil
		}
		if a.submit(dispatch.UpdateJob(form.TaskID, form.ToUpdateRequest())) {
			a.statusMsg = "Task saved"
		}
		return a, nil
	}

	job := dispatch.CreateJob(form.ToCreateRequest())
	if a.submit(job) {
		a.selectOnCreate = job.ID
		a.statusMsg = "Adding task..."
	}
	return a, nil
}

// handleCascade completes or deletes the selected task with its whole
// subtree. The tree changes at once; one request per task follows.
func (a *App) handleCascade(op dispatch.Op) (tea.Model, tea.Cmd) {
	task, ok := a.model.Selected()
	if !ok || !a.writable() {
		return a, nil
	}

	ids, err := a.model.Cascade(task.ID)
	if err != nil {
		a.err = fmt.Errorf("%s %q: %w", op, task.Content, err)
		a.logger.Error("cascade refused", "op", op, "task", task.ID, "err", err)
		return a, nil
	}
	a.refreshSidebar()
	a.logger.Info("cascade", "op", op, "task", task.ID, "count", len(ids))

	if !a.submit(dispatch.CascadeJobs(op, ids)...) {
		return a, nil
	}

	verb := "Completed"
	if op == dispatch.OpDelete {
		verb = "Deleted"
	}
	if len(ids) > 1 {
		a.statusMsg = fmt.Sprintf("%s %q and %d subtasks", verb, task.Content, len(ids)-1)
	} else {
		a.statusMsg = fmt.Sprintf("%s %q", verb, task.Content)
	}
	return a, nil
}

// handlePriority sets the selected task's priority, 1 being highest.
func (a *App) handlePriority(p int) (tea.Model, tea.Cmd) {
	task, ok := a.model.Selected()
	if !ok || task.Priority == p || !a.writable() {
		return a, nil
	}

	if err := a.model.Edit(task.ID, func(t *tree.Task) { t.Priority = p }); err != nil {
		a.err = err
		return a, nil
	}
	req := api.UpdateTaskRequest{Priority: api.IntPtr(tree.APIPriority(p))}
	if a.submit(dispatch.UpdateJob(task.ID, req)) {
		a.statusMsg = fmt.Sprintf("Priority %d", p)
	}
	return a, nil
}

// handleCopy copies task content to clipboard.
func (a *App) handleCopy() (tea.Model, tea.Cmd) {
	task, ok := a.model.Selected()
	if !ok {
		return a, nil
	}

	content := task.Content
	return a, func() tea.Msg {
		if err := clipboard.WriteAll(content); err != nil {
			return statusMsg{msg: "Failed to copy: " + err.Error()}
		}
		return statusMsg{msg: "Copied: " + content}
	}
}

// waitForResult blocks on the dispatcher's next result.
func (a *App) waitForResult() tea.Cmd {
	if a.dispatcher == nil {
		return nil
	}
	results := a.dispatcher.Results()
	return func() tea.Msg {
		r, ok := <-results
		if !ok {
			return nil
		}
		return resultMsg{result: r}
	}
}

// handleResult folds a finished job back into the tree. Failures leave the
// local state alone and schedule a resync so the service wins.
func (a *App) handleResult(r dispatch.Result) tea.Cmd {
	if r.Failed() {
		a.err = fmt.Errorf("%s failed: %w", r.Job, r.Err)
		a.logger.Error("job failed", "job", r.Job.ID, "op", r.Job.Op, "task", r.Job.TaskID, "err", r.Err)
		return tea.Batch(a.notify(a.err.Error()), a.startSync())
	}

	a.logger.Debug("job done", "job", r.Job.ID, "op", r.Job.Op, "task", r.Job.TaskID)
	if r.Task == nil || r.Task.Checked {
		return nil
	}

	switch r.Job.Op {
	case dispatch.OpCreate:
		a.model.Upsert(tree.FromAPI(*r.Task))
		if r.Job.ID == a.selectOnCreate {
			a.model.SelectTask(r.Task.ID)
			a.selectOnCreate = uuid.Nil
		}
		a.statusMsg = "Added: " + r.Task.Content
	case dispatch.OpUpdate:
		// The task may have been removed while the update was in flight.
		if a.model.Store().Has(r.Task.ID) {
			a.model.Upsert(tree.FromAPI(*r.Task))
		}
	}
	a.refreshSidebar()
	return nil
}

// notify raises a desktop notification when enabled.
func (a *App) notify(text string) tea.Cmd {
	if !a.config.UI.NotifyFailures {
		return nil
	}
	logger := a.logger
	return func() tea.Msg {
		if err := beeep.Notify(appTitle, text, ""); err != nil {
			logger.Warn("notification failed", "err", err)
		}
		return nil
	}
}
