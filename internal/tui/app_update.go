package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hy4ri/todoist-tree/internal/dispatch"
	"github.com/hy4ri/todoist-tree/internal/tui/components"
)

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.MouseMsg:
		_, cmd := a.taskList.Update(msg)
		return a, cmd

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.helpComp.SetSize(msg.Width, msg.Height)
		a.help.Width = msg.Width
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case errMsg:
		a.syncing = false
		a.err = msg.err
		a.logger.Error("request failed", "err", msg.err)
		return a, nil

	case statusMsg:
		a.statusMsg = msg.msg
		return a, nil

	case snapshotLoadedMsg:
		return a, a.handleSnapshotLoaded(msg)

	case dataLoadedMsg:
		return a, a.handleDataLoaded(msg)

	case resultMsg:
		return a, tea.Batch(a.handleResult(msg.result), a.waitForResult())

	case components.FilterSelectedMsg:
		// Projects never auto select; the special filters select the first row.
		a.model.SetFilter(msg.Filter, !msg.Project)
		a.sidebar.SetActive(msg.Filter)
		a.setFocus(components.PaneMain)
		return a, nil

	case dayCheckMsg:
		a.handleDayCheck()
		return a, checkDay()

	case components.CloseHelpMsg:
		a.showHelp = false
		return a, nil
	}

	return a, nil
}

// handleKeyMsg routes a key press to the form, the help view, the sidebar
// or the task tree.
func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	if a.taskForm != nil {
		return a.handleFormKeyMsg(msg)
	}

	if a.showHelp {
		_, cmd := a.helpComp.Update(msg)
		return a, cmd
	}

	action, ok := a.keyState.HandleKey(msg, a.keymap)

	if a.focusedPane == components.PaneSidebar {
		switch action {
		case actionSwitchPane, actionQuit, actionHelp, actionRefresh, actionSort, actionFilter:
		default:
			// The sidebar runs its own cursor.
			a.keyState.Reset()
			_, cmd := a.sidebar.Update(msg)
			return a, cmd
		}
	}

	if !ok || action == "" {
		return a, nil
	}
	return a.handleAction(action)
}

// handleAction performs a key action on the task tree.
func (a *App) handleAction(action string) (tea.Model, tea.Cmd) {
	switch action {
	case actionUp:
		a.model.Previous()
	case actionDown:
		a.model.Next()
	case actionTop:
		a.model.First()
	case actionBottom:
		a.model.Last()
	case actionBack:
		a.model.ClearSelection()
	case actionSwitchPane:
		if a.focusedPane == components.PaneMain {
			a.setFocus(components.PaneSidebar)
		} else {
			a.setFocus(components.PaneMain)
		}

	case actionSelect:
		return a.handleEdit()
	case actionAdd:
		return a.handleAdd()
	case actionAddSubtask:
		return a.handleAddSubtask()
	case actionComplete:
		return a.handleCascade(dispatch.OpClose)
	case actionDelete:
		return a.handleCascade(dispatch.OpDelete)
	case actionCopy:
		return a.handleCopy()
	case actionPriority1:
		return a.handlePriority(1)
	case actionPriority2:
		return a.handlePriority(2)
	case actionPriority3:
		return a.handlePriority(3)
	case actionPriority4:
		return a.handlePriority(4)

	case actionSort:
		a.model.SetSort(a.model.Sort().Toggle())
		a.statusMsg = "Sorted by " + a.model.Sort().String()
	case actionFilter:
		a.model.SetFilter(a.model.Filter().Next(), true)
		a.sidebar.SetActive(a.model.Filter())
		a.statusMsg = "Showing " + a.model.Filter().Title()
	case actionRefresh:
		a.statusMsg = "Syncing..."
		return a, a.startSync()
	case actionHelp:
		a.showHelp = true
	case actionQuit:
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) setFocus(p components.Pane) {
	a.focusedPane = p
	if p == components.PaneSidebar {
		a.sidebar.Focus()
		a.taskList.Blur()
	} else {
		a.sidebar.Blur()
		a.taskList.Focus()
	}
}

// handleFormKeyMsg handles input while the task form is open.
func (a *App) handleFormKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if !a.taskForm.PickerOpen() {
			a.taskForm = nil
			return a, nil
		}
	case "enter":
		if !a.taskForm.ConsumesEnter() {
			return a.submitForm()
		}
	}

	var cmd tea.Cmd
	a.taskForm, cmd = a.taskForm.Update(msg)
	return a, cmd
}
