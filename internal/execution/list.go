package execution

// ListItem is one row of a paginated execution list. Every field reads
// its camelCase alias first and falls back to snake_case; numeric and
// timestamp fields are nullable rather than zero-defaulted.
type ListItem struct {
	TraceID       string         `json:"traceId"`
	CreatedAt     *string        `json:"createdAt"`
	Provider      *string        `json:"provider"`
	Model         *string        `json:"model"`
	TokensIn      *float64       `json:"tokensIn"`
	TokensOut     *float64       `json:"tokensOut"`
	TokensTotal   *float64       `json:"tokensTotal"`
	CostUSD       *float64       `json:"costUsd"`
	LatencyMs     *float64       `json:"latencyMs"`
	TemplateCount int            `json:"templateCount"`
	AgentID       *string        `json:"agentId"`
	SessionID     *string        `json:"sessionId"`
	ParentTraceID *string        `json:"parentTraceId"`
	ErrorMessage  *string        `json:"errorMessage"`
	SpanCount     *float64       `json:"spanCount"`
	CostBreakdown map[string]any `json:"costBreakdown"`
}

// ListFilters carries the pagination the caller requested; either field
// may be unset.
type ListFilters struct {
	Limit  *int
	Offset *int
}

// List is the normalized collection response.
type List struct {
	Items  []ListItem `json:"executions"`
	Total  int        `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}

// NormalizeList normalizes a paginated execution response. The backend
// serves either a bare array or an {executions, total, limit, offset}
// envelope; for the bare array the true total is unknown, so it is
// synthesized as offset + item count and the limit defaults to the item
// count. Like Reconcile, it never fails.
func NormalizeList(raw any, filters ListFilters) List {
	decoded := decodeValue(raw)

	var rawItems []any
	var envelope map[string]any
	switch v := decoded.(type) {
	case []any:
		rawItems = v
	case map[string]any:
		envelope = v
		rawItems = asSlice(anyOf(v, "executions", "items"))
	}

	items := make([]ListItem, 0, len(rawItems))
	for _, entry := range rawItems {
		em := asMap(entry)
		if em == nil {
			continue
		}
		items = append(items, normalizeListItem(em))
	}

	offset := 0
	if filters.Offset != nil && *filters.Offset > 0 {
		offset = *filters.Offset
	}
	limit := len(items)
	if filters.Limit != nil && *filters.Limit > 0 {
		limit = *filters.Limit
	}
	total := len(items) + offset

	if envelope != nil {
		if n := pickNumber(envelope, "offset"); n != nil && *n >= 0 {
			offset = int(*n)
			total = len(items) + offset
		}
		if n := pickNumber(envelope, "limit"); n != nil && *n > 0 {
			limit = int(*n)
		}
		if n := pickNumber(envelope, "total"); n != nil && *n >= 0 {
			total = int(*n)
		}
	}

	return List{Items: items, Total: total, Limit: limit, Offset: offset}
}

func normalizeListItem(m map[string]any) ListItem {
	item := ListItem{
		CreatedAt:     pickTimestamp(m, "createdAt", "created_at"),
		Provider:      pickString(m, "provider"),
		Model:         pickString(m, "model"),
		TokensIn:      pickNumber(m, "tokensIn", "tokens_in"),
		TokensOut:     pickNumber(m, "tokensOut", "tokens_out"),
		TokensTotal:   pickNumber(m, "tokensTotal", "tokens_total", "totalTokens", "total_tokens"),
		CostUSD:       pickNumber(m, "costUsd", "cost_usd", "totalCostUsd", "total_cost_usd"),
		LatencyMs:     pickNumber(m, "latencyMs", "latency_ms"),
		AgentID:       pickString(m, "agentId", "agent_id"),
		SessionID:     pickString(m, "sessionId", "session_id"),
		ParentTraceID: pickString(m, "parentTraceId", "parent_trace_id"),
		ErrorMessage:  pickString(m, "errorMessage", "error_message", "error"),
		SpanCount:     pickNumber(m, "spanCount", "span_count"),
	}
	if id := pickString(m, "traceId", "trace_id"); id != nil {
		item.TraceID = *id
	}
	if breakdown := asMap(anyOf(m, "costBreakdown", "cost_breakdown")); breakdown != nil {
		item.CostBreakdown = breakdown
	}
	// templateCount prefers an explicit count; otherwise the usage array
	// length stands in.
	if count, ok := pick(m, "templateCount", "template_count"); ok {
		item.TemplateCount = coerceCount(count)
	} else if usages, ok := pick(m, "templateUsages", "template_usages"); ok {
		item.TemplateCount = len(asSlice(usages))
	}
	return item
}
