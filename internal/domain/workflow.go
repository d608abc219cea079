package domain

import (
	"time"
)

type WorkflowStatus string

const (
	WorkflowStatusDraft    WorkflowStatus = "draft"
	WorkflowStatusActive   WorkflowStatus = "active"
	WorkflowStatusPaused   WorkflowStatus = "paused"
	WorkflowStatusArchived WorkflowStatus = "archived"
)

type ExecutionStatus string

const (
	ExecutionStatusPending   ExecutionStatus = "pending"
	ExecutionStatusRunning   ExecutionStatus = "running"
	ExecutionStatusPaused    ExecutionStatus = "paused"
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusFailed    ExecutionStatus = "failed"
	ExecutionStatusCancelled ExecutionStatus = "cancelled"
)

// IsTerminal reports whether an execution can no longer change state.
func (s ExecutionStatus) IsTerminal() bool {
	switch s {
	case ExecutionStatusCompleted, ExecutionStatusFailed, ExecutionStatusCancelled:
		return true
	}
	return false
}

type ExecutionMode string

const (
	ExecutionModeSequential ExecutionMode = "sequential"
	ExecutionModeParallel   ExecutionMode = "parallel"
)

type ErrorHandlingMode string

const (
	ErrorHandlingStop     ErrorHandlingMode = "stop"
	ErrorHandlingContinue ErrorHandlingMode = "continue"
)

type WorkflowSettings struct {
	ExecutionMode    ExecutionMode     `json:"execution_mode"`
	MaxExecutionTime time.Duration     `json:"max_execution_time"`
	Retry            *RetryPolicy      `json:"retry,omitempty"`
	ErrorHandling    ErrorHandlingMode `json:"error_handling"`
	Timezone         string            `json:"timezone"`
	Embed            *EmbedSettings    `json:"embed,omitempty"`
}

// EmbedSettings controls public, unauthenticated execution of the
// workflow (form triggers embedded on external pages).
type EmbedSettings struct {
	Enabled        bool     `json:"enabled"`
	AllowedOrigins []string `json:"allowed_origins,omitempty"`
}

func DefaultSettings() WorkflowSettings {
	return WorkflowSettings{
		ExecutionMode:    ExecutionModeSequential,
		MaxExecutionTime: 5 * time.Minute,
		ErrorHandling:    ErrorHandlingStop,
		Timezone:         "UTC",
	}
}

type Viewport struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

// WorkflowStats are aggregate execution counts maintained by the
// external runtime. Read-only here.
type WorkflowStats struct {
	TotalExecutions  int        `json:"total_executions"`
	FailedExecutions int        `json:"failed_executions"`
	LastExecutedAt   *time.Time `json:"last_executed_at,omitempty"`
}

type Workflow struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Description      string           `json:"description,omitempty"`
	Tags             []string         `json:"tags,omitempty"`
	Nodes            []Node           `json:"nodes"`
	Edges            []Edge           `json:"edges"`
	Viewport         Viewport         `json:"viewport"`
	Settings         WorkflowSettings `json:"settings"`
	Status           WorkflowStatus   `json:"status"`
	Version          int64            `json:"version"`
	PublishedVersion *int64           `json:"published_version,omitempty"`
	Stats            WorkflowStats    `json:"stats"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// HasUnpublishedChanges reports whether the saved version has advanced
// past the last published one.
func (w *Workflow) HasUnpublishedChanges() bool {
	if w.PublishedVersion == nil {
		return true
	}
	return w.Version > *w.PublishedVersion
}

func (w *Workflow) Clone() *Workflow {
	out := *w
	out.Nodes = make([]Node, len(w.Nodes))
	for i := range w.Nodes {
		out.Nodes[i] = w.Nodes[i].Clone()
	}
	out.Edges = make([]Edge, len(w.Edges))
	for i := range w.Edges {
		out.Edges[i] = w.Edges[i].Clone()
	}
	if w.Tags != nil {
		out.Tags = append([]string(nil), w.Tags...)
	}
	if w.PublishedVersion != nil {
		v := *w.PublishedVersion
		out.PublishedVersion = &v
	}
	if w.Settings.Retry != nil {
		r := *w.Settings.Retry
		out.Settings.Retry = &r
	}
	if w.Settings.Embed != nil {
		e := *w.Settings.Embed
		e.AllowedOrigins = append([]string(nil), w.Settings.Embed.AllowedOrigins...)
		out.Settings.Embed = &e
	}
	if w.Stats.LastExecutedAt != nil {
		t := *w.Stats.LastExecutedAt
		out.Stats.LastExecutedAt = &t
	}
	return &out
}

// Execution is the run record owned by the external runtime. The
// editor only reads it; it never mutates one.
type Execution struct {
	ID             string          `json:"id"`
	WorkflowID     string          `json:"workflow_id"`
	Status         ExecutionStatus `json:"status"`
	StartedAt      time.Time       `json:"started_at"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty"`
	CompletedNodes []string        `json:"completed_nodes,omitempty"`
	FailedNodes    []string        `json:"failed_nodes,omitempty"`
	SkippedNodes   []string        `json:"skipped_nodes,omitempty"`
	Error          string          `json:"error,omitempty"`
}
