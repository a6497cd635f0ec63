// Package dispatch runs remote task mutations in the background. Callers
// submit jobs without blocking and learn the outcome from a result channel.
package dispatch

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/hy4ri/todoist-tree/internal/api"
)

// Op is the kind of remote mutation a job performs.
type Op int

const (
	OpCreate Op = iota
	OpUpdate
	OpClose
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpClose:
		return "complete"
	case OpDelete:
		return "delete"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// Job is one outbound request.
type Job struct {
	ID     uuid.UUID
	Op     Op
	TaskID string

	// Group ties together the jobs of one cascade.
	Group uuid.UUID

	Create *api.CreateTaskRequest
	Update *api.UpdateTaskRequest
}

func (j Job) String() string {
	if j.TaskID == "" {
		return fmt.Sprintf("%s %s", j.Op, j.ID)
	}
	return fmt.Sprintf("%s task %s", j.Op, j.TaskID)
}

// CreateJob builds a job that creates a task.
func CreateJob(req api.CreateTaskRequest) Job {
	return Job{ID: uuid.New(), Op: OpCreate, Create: &req}
}

// UpdateJob builds a job that updates task id.
func UpdateJob(id string, req api.UpdateTaskRequest) Job {
	return Job{ID: uuid.New(), Op: OpUpdate, TaskID: id, Update: &req}
}

// CascadeJobs builds one op job per id, in order, sharing a group id.
func CascadeJobs(op Op, ids []string) []Job {
	group := uuid.New()
	jobs := make([]Job, len(ids))
	for i, id := range ids {
		jobs[i] = Job{ID: uuid.New(), Op: op, TaskID: id, Group: group}
	}
	return jobs
}

// Result reports how a job went. Task is set for successful creates and
// updates.
type Result struct {
	Job  Job
	Task *api.Task
	Err  error
}

// Failed reports whether the job did not take effect remotely.
func (r Result) Failed() bool {
	return r.Err != nil
}
