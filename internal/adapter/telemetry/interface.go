// Package telemetry provides the client for the upstream execution
// telemetry API.
package telemetry

import (
	"context"
	"encoding/json"
)

// API defines the interface for telemetry backend operations. All
// methods return the raw JSON body; normalization happens downstream.
type API interface {
	// ListExecutions fetches a page of executions for a project.
	ListExecutions(ctx context.Context, projectID string, limit, offset *int) (json.RawMessage, error)

	// GetExecution fetches the detail payload for one trace.
	GetExecution(ctx context.Context, projectID, traceID string) (json.RawMessage, error)

	// GetTimeline fetches the timeline events for one trace.
	GetTimeline(ctx context.Context, projectID, traceID string) (json.RawMessage, error)
}

// Ensure Client implements the API interface.
var _ API = (*Client)(nil)
