package api

import (
	"context"
	"fmt"
)

// GetTasks returns all active tasks, optionally filtered by project/section/parent.
// Handles v1 API pagination automatically, fetching all pages.
func (c *Client) GetTasks(ctx context.Context, filter TaskFilter) ([]Task, error) {
	tasks, err := getAll[Task](ctx, c, "/tasks", filterQuery(filter))
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks: %w", err)
	}
	return tasks, nil
}

// CreateTask creates a new task.
func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (*Task, error) {
	var task Task
	if err := c.post(ctx, "/tasks", req, &task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return &task, nil
}

// UpdateTask updates an existing task.
func (c *Client) UpdateTask(ctx context.Context, id string, req UpdateTaskRequest) (*Task, error) {
	var task Task
	if err := c.post(ctx, "/tasks/"+id, req, &task); err != nil {
		return nil, fmt.Errorf("failed to update task %s: %w", id, err)
	}
	return &task, nil
}

// CloseTask marks a task as completed.
func (c *Client) CloseTask(ctx context.Context, id string) error {
	if err := c.post(ctx, "/tasks/"+id+"/close", nil, nil); err != nil {
		return fmt.Errorf("failed to close task %s: %w", id, err)
	}
	return nil
}


// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	if err := c.delete(ctx, "/tasks/"+id); err != nil {
		return fmt.Errorf("failed to delete task %s: %w", id, err)
	}
	return nil
}
