package api

// ProjectsResponse from GET /projects
type ProjectsResponse struct {
	Projects []APIProject `json:"projects"`
	Cursor   string       `json:"cursor"`
}

// APIProject represents a project from the Recall API.
type APIProject struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`

	MemoryCount int64 `json:"memory_count"`
	JobCount    int64 `json:"job_count"`

	// Timestamps (ISO 8601)
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// SingleProjectResponse from GET /projects/{id}
type SingleProjectResponse struct {
	Project APIProject `json:"project"`
}

// JobsResponse from GET /jobs
type JobsResponse struct {
	Jobs   []APIJob `json:"jobs"`
	Cursor string   `json:"cursor"`
}

// APIJob represents an indexing or extraction job from the Recall API.
type APIJob struct {
	ID        string  `json:"id"`
	ProjectID string  `json:"project_id"`
	Kind      string  `json:"kind"`
	Status    string  `json:"status"`
	Progress  float64 `json:"progress"`
	Error     string  `json:"error,omitempty"`

	CreatedAt   string `json:"created_at"`
	StartedAt   string `json:"started_at,omitempty"`
	CompletedAt string `json:"completed_at,omitempty"`
}

// SingleJobResponse from GET /jobs/{id}
type SingleJobResponse struct {
	Job APIJob `json:"job"`
}

// MemoriesResponse from GET /projects/{id}/memories
type MemoriesResponse struct {
	Memories []APIMemory `json:"memories"`
	Cursor   string      `json:"cursor"`
}

// APIMemory represents a stored memory from the Recall API.
type APIMemory struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Content   string `json:"content"`
	Source    string `json:"source"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
