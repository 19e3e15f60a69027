package execution

import (
	"encoding/json"

	"github.com/promptlens/promptlens/internal/timeline"
)

// Schema discriminates the two incompatible wire shapes the telemetry
// backend serves for an execution detail.
type Schema string

const (
	SchemaLegacy  Schema = "legacy"
	SchemaCurrent Schema = "current"
)

// Detail is the reconciled execution detail. Exactly one of Legacy and
// Current is set, matching Schema; the two shapes are never merged
// because several fields only exist in one of them (parentTraceId is
// legacy-only, child_spans is current-only).
type Detail struct {
	Schema  Schema         `json:"schema"`
	Legacy  *LegacyDetail  `json:"legacy,omitempty"`
	Current *CurrentDetail `json:"current,omitempty"`
}

// TokenUsage holds the legacy nested token counts.
type TokenUsage struct {
	In    *float64 `json:"in"`
	Out   *float64 `json:"out"`
	Total *float64 `json:"total"`
}

// ConversationTurn is one role/content pair from the legacy
// conversation history.
type ConversationTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TemplateUsage records one prompt template applied during the execution.
type TemplateUsage struct {
	TemplateID *string        `json:"templateId"`
	Name       *string        `json:"name"`
	Version    *float64       `json:"version"`
	Inputs     map[string]any `json:"inputs"`
	Position   int            `json:"position"`
}

// LegacyDetail is the reconciled form of the legacy flat-field schema.
type LegacyDetail struct {
	TraceID             string             `json:"traceId"`
	SessionID           *string            `json:"sessionId"`
	ParentTraceID       *string            `json:"parentTraceId"`
	CreatedAt           *string            `json:"createdAt"`
	CostUSD             *float64           `json:"costUsd"`
	LatencyMs           *float64           `json:"latencyMs"`
	Tokens              TokenUsage         `json:"tokens"`
	ConversationHistory []ConversationTurn `json:"conversationHistory"`
	Metadata            map[string]any     `json:"metadata"`
	TemplateUsages      []TemplateUsage    `json:"templateUsages"`
}

// ChildSpan is one sub-span of a current-schema execution.
type ChildSpan struct {
	SpanID    *string  `json:"span_id"`
	SpanType  *string  `json:"span_type"`
	AgentName *string  `json:"agent_name"`
	Status    *string  `json:"status"`
	LatencyMs *float64 `json:"latency_ms"`
	CostUSD   *float64 `json:"cost_usd"`
	TokensIn  *float64 `json:"tokens_in"`
	TokensOut *float64 `json:"tokens_out"`
}

// TemplateInfo summarizes the template behind a current-schema execution.
type TemplateInfo struct {
	TemplateID *string  `json:"template_id"`
	Name       *string  `json:"name"`
	Version    *float64 `json:"version"`
}

// CurrentDetail is the reconciled form of the current span-based schema.
// The message and span slices are always non-nil so rendering code can
// iterate unconditionally.
type CurrentDetail struct {
	TraceID        string             `json:"trace_id"`
	SpanID         *string            `json:"span_id"`
	AgentName      *string            `json:"agent_name"`
	CreatedAt      *string            `json:"created_at"`
	TotalCostUSD   *float64           `json:"total_cost_usd"`
	LatencyMs      *float64           `json:"latency_ms"`
	TokensIn       *float64           `json:"tokens_in"`
	TokensOut      *float64           `json:"tokens_out"`
	InputMessages  []timeline.Message `json:"input_messages"`
	OutputMessages []timeline.Message `json:"output_messages"`
	ChildSpans     []ChildSpan        `json:"child_spans"`
	TemplateUsages []TemplateUsage    `json:"template_usages"`
	TemplateInfo   *TemplateInfo      `json:"template_info"`
}

// IsCurrentSchema reports whether a raw detail payload uses the current
// span-based schema. Payloads with neither marker take the legacy path;
// that default mirrors the historical dashboards and is a compatibility
// choice, not a schema property.
func IsCurrentSchema(m map[string]any) bool {
	if v, ok := m["input_messages"]; ok && v != nil {
		return true
	}
	if v, ok := m["output_messages"]; ok && v != nil {
		return true
	}
	return false
}

// Reconcile normalizes a raw execution-detail payload from either
// backend schema. raw may be a json.RawMessage/[]byte or an
// already-decoded value. fallbackTraceID is the trace id the caller
// already knows (typically the route parameter) and is used only when
// the payload itself carries none. Reconcile never fails: the worst
// input yields a legacy detail with maximal defaults.
func Reconcile(raw any, fallbackTraceID string) Detail {
	m := asMap(decodeValue(raw))
	if m == nil {
		m = map[string]any{}
	}
	if IsCurrentSchema(m) {
		cur := reconcileCurrent(m, fallbackTraceID)
		return Detail{Schema: SchemaCurrent, Current: &cur}
	}
	leg := reconcileLegacy(m, fallbackTraceID)
	return Detail{Schema: SchemaLegacy, Legacy: &leg}
}

func reconcileLegacy(m map[string]any, fallbackTraceID string) LegacyDetail {
	d := LegacyDetail{
		TraceID:             fallbackTraceID,
		SessionID:           pickString(m, "sessionId", "session_id"),
		ParentTraceID:       pickString(m, "parentTraceId", "parent_trace_id"),
		CreatedAt:           pickTimestamp(m, "createdAt", "created_at", "timestamp"),
		CostUSD:             pickNumber(m, "costUsd", "cost_usd"),
		LatencyMs:           pickNumber(m, "latencyMs", "latency_ms"),
		Tokens:              reconcileTokens(asMap(m["tokens"])),
		ConversationHistory: []ConversationTurn{},
		Metadata:            map[string]any{},
		TemplateUsages:      []TemplateUsage{},
	}
	if id := pickString(m, "traceId", "trace_id"); id != nil {
		d.TraceID = *id
	}
	if meta := asMap(m["metadata"]); meta != nil {
		d.Metadata = meta
	}
	history, _ := pick(m, "conversationHistory", "conversation_history")
	for _, entry := range asSlice(history) {
		em := asMap(entry)
		if em == nil {
			continue
		}
		turn := ConversationTurn{Role: "user"}
		if role := pickString(em, "role", "speaker"); role != nil {
			turn.Role = *role
		}
		if content, ok := pick(em, "content", "message"); ok {
			turn.Content = jsonString(content)
		}
		d.ConversationHistory = append(d.ConversationHistory, turn)
	}
	usages, _ := pick(m, "templateUsages", "template_usages")
	d.TemplateUsages = reconcileTemplateUsages(asSlice(usages))
	return d
}

// reconcileTokens computes an explicit or derived total: the total is
// summed from in/out only when the payload carries no total of its own
// and at least one of the two counts is present.
func reconcileTokens(m map[string]any) TokenUsage {
	usage := TokenUsage{
		In:    pickNumber(m, "in", "input", "prompt"),
		Out:   pickNumber(m, "out", "output", "completion"),
		Total: pickNumber(m, "total"),
	}
	if usage.Total == nil && (usage.In != nil || usage.Out != nil) {
		total := 0.0
		if usage.In != nil {
			total += *usage.In
		}
		if usage.Out != nil {
			total += *usage.Out
		}
		usage.Total = &total
	}
	return usage
}

func reconcileTemplateUsages(raw []any) []TemplateUsage {
	usages := make([]TemplateUsage, 0, len(raw))
	for i, entry := range raw {
		em := asMap(entry)
		if em == nil {
			continue
		}
		u := TemplateUsage{
			TemplateID: pickString(em, "templateId", "template_id", "TemplateId"),
			Name:       pickString(em, "name", "templateName", "template_name"),
			Version:    pickNumber(em, "version", "templateVersion", "template_version"),
			Inputs:     reconcileInputs(em["inputs"]),
			Position:   i,
		}
		if pos := pickNumber(em, "position"); pos != nil {
			u.Position = int(*pos)
		}
		usages = append(usages, u)
	}
	return usages
}

// reconcileInputs tolerates string-encoded inputs: a JSON object parses
// normally, anything unparsable is wrapped so the raw text still shows.
func reconcileInputs(v any) map[string]any {
	switch inputs := v.(type) {
	case map[string]any:
		return inputs
	case string:
		var parsed map[string]any
		if err := json.Unmarshal([]byte(inputs), &parsed); err == nil && parsed != nil {
			return parsed
		}
		return map[string]any{"value": inputs}
	default:
		return map[string]any{}
	}
}

func reconcileCurrent(m map[string]any, fallbackTraceID string) CurrentDetail {
	d := CurrentDetail{
		TraceID:        fallbackTraceID,
		SpanID:         pickString(m, "span_id", "spanId"),
		AgentName:      pickString(m, "agent_name", "agentName"),
		CreatedAt:      pickTimestamp(m, "created_at", "createdAt", "timestamp"),
		TotalCostUSD:   pickNumber(m, "total_cost_usd", "totalCostUsd"),
		LatencyMs:      pickNumber(m, "latency_ms", "latencyMs"),
		TokensIn:       pickNumber(m, "tokens_in", "tokensIn"),
		TokensOut:      pickNumber(m, "tokens_out", "tokensOut"),
		InputMessages:  reconcileMessages(asSlice(m["input_messages"])),
		OutputMessages: reconcileMessages(asSlice(m["output_messages"])),
		ChildSpans:     reconcileChildSpans(asSlice(m["child_spans"])),
		TemplateUsages: reconcileTemplateUsages(asSlice(anyOf(m, "template_usages", "templateUsages"))),
	}
	if id := pickString(m, "trace_id", "traceId"); id != nil {
		d.TraceID = *id
	}
	if info := asMap(m["template_info"]); info != nil {
		d.TemplateInfo = &TemplateInfo{
			TemplateID: pickString(info, "template_id", "templateId"),
			Name:       pickString(info, "name"),
			Version:    pickNumber(info, "version"),
		}
	}
	return d
}

// reconcileMessages decodes the current schema's message arrays. Each
// element carries its own msg_index for merge-ordering between the
// input and output sides; entries that are not objects are dropped.
func reconcileMessages(raw []any) []timeline.Message {
	messages := make([]timeline.Message, 0, len(raw))
	for _, entry := range raw {
		em := asMap(entry)
		if em == nil {
			continue
		}
		msg := timeline.Message{
			Parts:     []timeline.Part{},
			SpanID:    pickString(em, "span_id", "spanId"),
			SpanType:  pickString(em, "span_type", "spanType"),
			AgentName: pickString(em, "agent_name", "agentName"),
		}
		if role := pickString(em, "role"); role != nil {
			msg.Role = *role
		}
		if idx := pickNumber(em, "msg_index", "msgIndex"); idx != nil {
			msg.MsgIndex = int(*idx)
		}
		for _, part := range asSlice(em["parts"]) {
			pm := asMap(part)
			if pm == nil {
				continue
			}
			p := timeline.Part{}
			if t := pickString(pm, "type"); t != nil {
				p.Type = timeline.PartType(*t)
			}
			if v, ok := pick(pm, "content"); ok {
				p.Content = jsonString(v)
			}
			if id := pickString(pm, "id", "tool_call_id"); id != nil {
				p.ID = *id
			}
			if name := pickString(pm, "name"); name != nil {
				p.Name = *name
			}
			if v, ok := pick(pm, "arguments"); ok {
				p.Arguments = jsonString(v)
			}
			if v, ok := pick(pm, "response", "output"); ok {
				p.Response = jsonString(v)
			}
			msg.Parts = append(msg.Parts, p)
		}
		messages = append(messages, msg)
	}
	return messages
}

func reconcileChildSpans(raw []any) []ChildSpan {
	spans := make([]ChildSpan, 0, len(raw))
	for _, entry := range raw {
		em := asMap(entry)
		if em == nil {
			continue
		}
		spans = append(spans, ChildSpan{
			SpanID:    pickString(em, "span_id", "spanId"),
			SpanType:  pickString(em, "span_type", "spanType"),
			AgentName: pickString(em, "agent_name", "agentName"),
			Status:    pickString(em, "status"),
			LatencyMs: pickNumber(em, "latency_ms", "latencyMs"),
			CostUSD:   pickNumber(em, "cost_usd", "costUsd"),
			TokensIn:  pickNumber(em, "tokens_in", "tokensIn"),
			TokensOut: pickNumber(em, "tokens_out", "tokensOut"),
		})
	}
	return spans
}

func anyOf(m map[string]any, keys ...string) any {
	v, _ := pick(m, keys...)
	return v
}
