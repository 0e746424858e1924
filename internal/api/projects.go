package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// GetProjectsOptions filters GetProjects.
type GetProjectsOptions struct {
	Limit  int
	Cursor string
	Status string
}

// GetProjects fetches a page of projects.
func (c *Client) GetProjects(ctx context.Context, opts GetProjectsOptions) (*ProjectsResponse, error) {
	query := url.Values{}

	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Cursor != "" {
		query.Set("cursor", opts.Cursor)
	}
	if opts.Status != "" {
		query.Set("status", opts.Status)
	}

	var resp ProjectsResponse
	if err := c.get(ctx, "/projects", query, &resp); err != nil {
		return nil, fmt.Errorf("get projects: %w", err)
	}

	return &resp, nil
}

// GetAllProjects fetches all projects by paginating through results.
func (c *Client) GetAllProjects(ctx context.Context) ([]APIProject, error) {
	var all []APIProject
	opts := GetProjectsOptions{Limit: 200}

	for {
		resp, err := c.GetProjects(ctx, opts)
		if err != nil {
			return nil, err
		}

		all = append(all, resp.Projects...)

		if resp.Cursor == "" {
			break
		}
		opts.Cursor = resp.Cursor
	}

	return all, nil
}

// GetProject fetches a single project by ID.
func (c *Client) GetProject(ctx context.Context, id string) (*APIProject, error) {
	var resp SingleProjectResponse
	if err := c.get(ctx, "/projects/"+id, nil, &resp); err != nil {
		return nil, fmt.Errorf("get project %s: %w", id, err)
	}
	return &resp.Project, nil
}
