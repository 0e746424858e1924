package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// GetMemoriesOptions filters GetMemories.
type GetMemoriesOptions struct {
	Limit  int
	Cursor string
}

// GetMemories fetches a page of memories for a project.
func (c *Client) GetMemories(ctx context.Context, projectID string, opts GetMemoriesOptions) (*MemoriesResponse, error) {
	query := url.Values{}

	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Cursor != "" {
		query.Set("cursor", opts.Cursor)
	}

	var resp MemoriesResponse
	if err := c.get(ctx, "/projects/"+projectID+"/memories", query, &resp); err != nil {
		return nil, fmt.Errorf("get memories for %s: %w", projectID, err)
	}

	return &resp, nil
}

// GetMemory fetches a single memory by ID.
func (c *Client) GetMemory(ctx context.Context, projectID, memoryID string) (*APIMemory, error) {
	var resp struct {
		Memory APIMemory `json:"memory"`
	}
	if err := c.get(ctx, "/projects/"+projectID+"/memories/"+memoryID, nil, &resp); err != nil {
		return nil, fmt.Errorf("get memory %s: %w", memoryID, err)
	}
	return &resp.Memory, nil
}
