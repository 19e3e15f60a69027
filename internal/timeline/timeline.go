// Package timeline converts raw telemetry timeline events into the
// canonical message sequence the dashboard renders.
package timeline

import (
	"encoding/json"
	"fmt"
)

// EventKind tags a timeline event.
type EventKind string

const (
	KindUser       EventKind = "user"
	KindAssistant  EventKind = "assistant"
	KindToolCall   EventKind = "tool_call"
	KindToolResult EventKind = "tool_result"
	// KindTool is a composite event: a tool call and its result fused
	// into one record by the upstream collector.
	KindTool EventKind = "tool"
)

// Event is one time-ordered occurrence within a trace. Which fields are
// populated depends on Kind; unknown kinds are skipped by Normalize.
type Event struct {
	Kind       EventKind `json:"kind"`
	Ts         string    `json:"ts,omitempty"`
	Text       string    `json:"text,omitempty"`
	Role       string    `json:"role,omitempty"`
	SpanID     string    `json:"span_id,omitempty"`
	AgentName  string    `json:"agent_name,omitempty"`
	ToolCallID string    `json:"tool_call_id,omitempty"`
	Name       string    `json:"name,omitempty"`
	Arguments  any       `json:"arguments,omitempty"`
	Output     any       `json:"output,omitempty"`
}

// PartType tags a message part.
type PartType string

const (
	PartText         PartType = "text"
	PartToolCall     PartType = "tool_call"
	PartToolResponse PartType = "tool_call_response"
)

// Part is one component of a message.
type Part struct {
	Type      PartType `json:"type"`
	Content   string   `json:"content,omitempty"`
	ID        string   `json:"id,omitempty"`
	Name      string   `json:"name,omitempty"`
	Arguments string   `json:"arguments,omitempty"`
	Response  string   `json:"response,omitempty"`
}

// Message is the canonical render-ready unit: one role, one or more
// ordered parts, and a sequence index unique within its timeline.
// SpanID, SpanType and AgentName are null for plain user messages.
type Message struct {
	Role      string  `json:"role"`
	Parts     []Part  `json:"parts"`
	MsgIndex  int     `json:"msg_index"`
	SpanID    *string `json:"span_id"`
	SpanType  *string `json:"span_type"`
	AgentName *string `json:"agent_name"`
}

const (
	spanTypeChat = "chat"
	spanTypeTool = "tool"
)

// Normalize converts an already time-ordered event sequence into messages.
// It never reorders events: one event yields exactly one message (the
// composite tool kind yields one message with up to two parts), and
// msg_index increases by one per emitted message starting at zero.
// Events with an unrecognized kind are dropped so future collector
// versions cannot break rendering.
func Normalize(events []Event) []Message {
	messages := make([]Message, 0, len(events))
	for _, ev := range events {
		var msg Message
		switch ev.Kind {
		case KindUser:
			role := ev.Role
			if role == "" {
				role = "user"
			}
			msg = Message{
				Role:  role,
				Parts: []Part{{Type: PartText, Content: ev.Text}},
			}
		case KindAssistant:
			msg = Message{
				Role:      "assistant",
				Parts:     []Part{{Type: PartText, Content: ev.Text}},
				SpanID:    optional(ev.SpanID),
				SpanType:  ptr(spanTypeChat),
				AgentName: optional(ev.AgentName),
			}
		case KindToolCall:
			// The call is the model's decision, so it renders on the
			// assistant side of the conversation.
			msg = Message{
				Role: "assistant",
				Parts: []Part{{
					Type:      PartToolCall,
					ID:        ev.ToolCallID,
					Name:      ev.Name,
					Arguments: stringify(ev.Arguments),
				}},
				SpanID:    optional(ev.SpanID),
				SpanType:  ptr(spanTypeTool),
				AgentName: optional(ev.AgentName),
			}
		case KindToolResult:
			msg = Message{
				Role: "tool",
				Parts: []Part{{
					Type:     PartToolResponse,
					ID:       ev.ToolCallID,
					Response: stringify(ev.Output),
				}},
				SpanID:    optional(ev.SpanID),
				SpanType:  ptr(spanTypeTool),
				AgentName: optional(ev.AgentName),
			}
		case KindTool:
			parts := []Part{{
				Type:      PartToolCall,
				ID:        ev.ToolCallID,
				Name:      ev.Name,
				Arguments: stringify(ev.Arguments),
			}}
			// A missing output means the result is still pending or was
			// never recorded; the call alone is a valid message.
			if ev.Output != nil {
				parts = append(parts, Part{
					Type:     PartToolResponse,
					ID:       ev.ToolCallID,
					Response: stringify(ev.Output),
				})
			}
			msg = Message{
				Role:      "tool",
				Parts:     parts,
				SpanID:    optional(ev.SpanID),
				SpanType:  ptr(spanTypeTool),
				AgentName: optional(ev.AgentName),
			}
		default:
			continue
		}
		msg.MsgIndex = len(messages)
		messages = append(messages, msg)
	}
	return messages
}

// stringify renders tool arguments/outputs for display. Strings pass
// through untouched, everything else is JSON-encoded, and values that
// cannot be encoded degrade to fmt formatting rather than an error.
func stringify(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func ptr(s string) *string {
	return &s
}
