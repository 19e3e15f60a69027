package execution

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNormalizeListBareArray(t *testing.T) {
	raw := json.RawMessage(`[
		{"traceId": "t1", "provider": "openai", "model": "gpt-4o", "costUsd": 0.02},
		{"trace_id": "t2", "latency_ms": "95"}
	]`)

	offset := 20
	list := NormalizeList(raw, ListFilters{Offset: &offset})
	if len(list.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(list.Items))
	}
	if list.Total != 22 {
		t.Fatalf("bare array total is offset + item count, got %d", list.Total)
	}
	if list.Limit != 2 {
		t.Fatalf("bare array limit defaults to item count, got %d", list.Limit)
	}
	if list.Offset != 20 {
		t.Fatalf("offset from filters, got %d", list.Offset)
	}
	if list.Items[1].TraceID != "t2" {
		t.Fatalf("snake_case trace id not read: %+v", list.Items[1])
	}
	if list.Items[1].LatencyMs == nil || *list.Items[1].LatencyMs != 95 {
		t.Fatalf("numeric string latency not coerced: %+v", list.Items[1])
	}
}

func TestNormalizeListEnvelope(t *testing.T) {
	raw := json.RawMessage(`{
		"executions": [{"traceId": "t1"}],
		"total": 134,
		"limit": 25,
		"offset": 50
	}`)

	list := NormalizeList(raw, ListFilters{})
	if list.Total != 134 || list.Limit != 25 || list.Offset != 50 {
		t.Fatalf("envelope pagination must be used verbatim: %+v", list)
	}
}

func TestNormalizeListEnvelopeBadPagination(t *testing.T) {
	raw := json.RawMessage(`{
		"executions": [{"traceId": "t1"}, {"traceId": "t2"}],
		"total": "not a number",
		"limit": null
	}`)

	limit := 10
	list := NormalizeList(raw, ListFilters{Limit: &limit})
	if list.Total != 2 {
		t.Fatalf("unusable total falls back to best effort, got %d", list.Total)
	}
	if list.Limit != 10 {
		t.Fatalf("unusable limit falls back to the filter, got %d", list.Limit)
	}
}

func TestNormalizeListCaseSymmetry(t *testing.T) {
	camel := json.RawMessage(`[{
		"traceId": "t1",
		"createdAt": "2026-03-01T10:30:00Z",
		"provider": "anthropic",
		"model": "claude-sonnet-4-5",
		"tokensIn": 100,
		"tokensOut": 50,
		"tokensTotal": 150,
		"costUsd": 0.05,
		"latencyMs": 820,
		"templateCount": 2,
		"agentId": "a1",
		"sessionId": "s1",
		"parentTraceId": "t0",
		"errorMessage": "boom",
		"spanCount": 4
	}]`)
	snake := json.RawMessage(`[{
		"trace_id": "t1",
		"created_at": "2026-03-01T10:30:00Z",
		"provider": "anthropic",
		"model": "claude-sonnet-4-5",
		"tokens_in": 100,
		"tokens_out": 50,
		"tokens_total": 150,
		"cost_usd": 0.05,
		"latency_ms": 820,
		"template_count": 2,
		"agent_id": "a1",
		"session_id": "s1",
		"parent_trace_id": "t0",
		"error_message": "boom",
		"span_count": 4
	}]`)

	a := NormalizeList(camel, ListFilters{})
	b := NormalizeList(snake, ListFilters{})
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("camelCase and snake_case payloads must normalize identically:\n%+v\n%+v", a.Items[0], b.Items[0])
	}
}

func TestNormalizeListTemplateCountFromUsages(t *testing.T) {
	raw := json.RawMessage(`[{"traceId": "t1", "template_usages": [{}, {}, {}]}]`)
	list := NormalizeList(raw, ListFilters{})
	if list.Items[0].TemplateCount != 3 {
		t.Fatalf("templateCount falls back to usage array length, got %d", list.Items[0].TemplateCount)
	}

	raw = json.RawMessage(`[{"traceId": "t1", "templateCount": "-3"}]`)
	list = NormalizeList(raw, ListFilters{})
	if list.Items[0].TemplateCount != 0 {
		t.Fatalf("negative counts clamp to 0, got %d", list.Items[0].TemplateCount)
	}
}

func TestNormalizeListTotality(t *testing.T) {
	for _, in := range []any{nil, json.RawMessage(`{bad`), json.RawMessage(`"str"`), json.RawMessage(`{"executions": "nope"}`), json.RawMessage(`[1, "x", null, {"traceId": "t1"}]`)} {
		list := NormalizeList(in, ListFilters{})
		if list.Items == nil {
			t.Fatalf("input %v: items must be non-nil", in)
		}
		if list.Total < 0 || list.Offset != 0 {
			t.Fatalf("input %v: unexpected pagination %+v", in, list)
		}
	}
}
