package api

import (
	"context"
	"fmt"
	"net/url"
)

// GetSections returns all sections, optionally filtered by project.
func (c *Client) GetSections(ctx context.Context, projectID string) ([]Section, error) {
	query := url.Values{}
	if projectID != "" {
		query.Set("project_id", projectID)
	}
	sections, err := getAll[Section](ctx, c, "/sections", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get sections: %w", err)
	}
	return sections, nil
}
