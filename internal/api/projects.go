package api

import (
	"context"
	"fmt"
)

// GetProjects returns all projects.
// Handles v1 API pagination automatically, fetching all pages.
func (c *Client) GetProjects(ctx context.Context) ([]Project, error) {
	projects, err := getAll[Project](ctx, c, "/projects", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get projects: %w", err)
	}
	return projects, nil
}

// GetProject returns a single project by ID.
func (c *Client) GetProject(ctx context.Context, id string) (*Project, error) {
	var project Project
	if err := c.get(ctx, "/projects/"+id, nil, &project); err != nil {
		return nil, fmt.Errorf("failed to get project %s: %w", id, err)
	}
	return &project, nil
}
