package tui

import (
	"github.com/hy4ri/todoist-tree/internal/api"
	"github.com/hy4ri/todoist-tree/internal/cache"
	"github.com/hy4ri/todoist-tree/internal/dispatch"
)

type errMsg struct{ err error }
type statusMsg struct{ msg string }

type snapshotLoadedMsg struct {
	snap *cache.Snapshot
	err  error
}

type dataLoadedMsg struct {
	tasks    []api.Task
	projects []api.Project
	sections []api.Section
}

type resultMsg struct{ result dispatch.Result }

// dayCheckMsg asks the app to look for a date change.
type dayCheckMsg struct{}
