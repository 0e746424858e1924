package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// GetJobsOptions filters GetJobs.
type GetJobsOptions struct {
	Limit     int
	Cursor    string
	ProjectID string
	Status    string
}

// GetJobs fetches a page of jobs.
func (c *Client) GetJobs(ctx context.Context, opts GetJobsOptions) (*JobsResponse, error) {
	query := url.Values{}

	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Cursor != "" {
		query.Set("cursor", opts.Cursor)
	}
	if opts.ProjectID != "" {
		query.Set("project_id", opts.ProjectID)
	}
	if opts.Status != "" {
		query.Set("status", opts.Status)
	}

	var resp JobsResponse
	if err := c.get(ctx, "/jobs", query, &resp); err != nil {
		return nil, fmt.Errorf("get jobs: %w", err)
	}

	return &resp, nil
}

// GetJob fetches a single job by ID.
func (c *Client) GetJob(ctx context.Context, id string) (*APIJob, error) {
	var resp SingleJobResponse
	if err := c.get(ctx, "/jobs/"+id, nil, &resp); err != nil {
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}
	return &resp.Job, nil
}
