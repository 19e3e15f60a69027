package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/promptlens/promptlens/internal/execution"
	"github.com/promptlens/promptlens/internal/timeline"
)

// ListExecutions fetches and normalizes a page of executions. The raw
// upstream body may be a bare array or an envelope in either field
// casing; the normalizer flattens both into one shape.
func (s *Service) ListExecutions(ctx context.Context, projectID string, limit, offset *int) (execution.List, error) {
	raw, err := s.telemetry.ListExecutions(ctx, projectID, limit, offset)
	if err != nil {
		return execution.List{}, fmt.Errorf("failed to fetch executions: %w", err)
	}
	return execution.NormalizeList(raw, execution.ListFilters{Limit: limit, Offset: offset}), nil
}

// GetExecution fetches and reconciles one execution detail, then runs
// the redaction policy over legacy metadata before it leaves the
// service.
func (s *Service) GetExecution(ctx context.Context, projectID, traceID string) (execution.Detail, error) {
	raw, err := s.telemetry.GetExecution(ctx, projectID, traceID)
	if err != nil {
		return execution.Detail{}, fmt.Errorf("failed to fetch execution %s: %w", traceID, err)
	}
	detail := execution.Reconcile(raw, traceID)
	if detail.Legacy != nil && s.redaction != nil {
		detail.Legacy.Metadata = s.redaction.Apply(ctx, detail.Legacy.Metadata)
	}
	return detail, nil
}

// GetTimeline fetches a trace's timeline events and normalizes them
// into messages. The upstream serves either a bare event array or an
// {events: [...]} envelope.
func (s *Service) GetTimeline(ctx context.Context, projectID, traceID string) ([]timeline.Message, error) {
	raw, err := s.telemetry.GetTimeline(ctx, projectID, traceID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch timeline for %s: %w", traceID, err)
	}
	return timeline.Normalize(decodeEvents(raw)), nil
}

// decodeEvents tolerates both timeline response shapes. Undecodable
// bodies yield no events rather than an error, matching the
// normalization layer's degrade-don't-fail policy.
func decodeEvents(raw json.RawMessage) []timeline.Event {
	var elements []json.RawMessage
	var envelope struct {
		Events []json.RawMessage `json:"events"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Events != nil {
		elements = envelope.Events
	} else if err := json.Unmarshal(raw, &elements); err != nil {
		return nil
	}

	events := make([]timeline.Event, 0, len(elements))
	for _, el := range elements {
		var ev timeline.Event
		if err := json.Unmarshal(el, &ev); err != nil {
			continue
		}
		events = append(events, ev)
	}
	return events
}
