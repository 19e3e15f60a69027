package execution

import (
	"encoding/json"
	"testing"
)

func TestReconcileDetectsCurrentSchema(t *testing.T) {
	raw := json.RawMessage(`{
		"trace_id": "t1",
		"span_id": "sp1",
		"agent_name": "planner",
		"total_cost_usd": "0.042",
		"latency_ms": 812,
		"tokens_in": 120,
		"tokens_out": 64,
		"input_messages": [
			{"role": "user", "msg_index": 0, "parts": [{"type": "text", "content": "hi"}]}
		],
		"output_messages": [
			{"role": "assistant", "msg_index": 1, "span_id": "sp1", "parts": [{"type": "text", "content": "hello"}]}
		],
		"child_spans": [
			{"span_id": "sp2", "span_type": "tool", "latency_ms": "55"}
		],
		"template_info": {"template_id": "tpl1", "name": "greeting", "version": 3}
	}`)

	d := Reconcile(raw, "fallback")
	if d.Schema != SchemaCurrent || d.Current == nil || d.Legacy != nil {
		t.Fatalf("expected current schema, got %+v", d)
	}

	cur := d.Current
	if cur.TraceID != "t1" {
		t.Fatalf("trace_id from payload must win over fallback, got %q", cur.TraceID)
	}
	if cur.TotalCostUSD == nil || *cur.TotalCostUSD != 0.042 {
		t.Fatalf("numeric string cost not coerced: %v", cur.TotalCostUSD)
	}
	if len(cur.InputMessages) != 1 || len(cur.OutputMessages) != 1 {
		t.Fatalf("messages not decoded: %d in, %d out", len(cur.InputMessages), len(cur.OutputMessages))
	}
	if cur.OutputMessages[0].MsgIndex != 1 {
		t.Fatalf("msg_index must survive for merge-ordering, got %d", cur.OutputMessages[0].MsgIndex)
	}
	if len(cur.ChildSpans) != 1 || cur.ChildSpans[0].LatencyMs == nil || *cur.ChildSpans[0].LatencyMs != 55 {
		t.Fatalf("child span latency not coerced: %+v", cur.ChildSpans)
	}
	if cur.TemplateInfo == nil || cur.TemplateInfo.Name == nil || *cur.TemplateInfo.Name != "greeting" {
		t.Fatalf("template_info not decoded: %+v", cur.TemplateInfo)
	}
	if cur.TemplateUsages == nil {
		t.Fatalf("optional arrays must default to empty, not nil")
	}
}

func TestReconcileCurrentDefaultsArrays(t *testing.T) {
	d := Reconcile(json.RawMessage(`{"input_messages": []}`), "t9")
	if d.Schema != SchemaCurrent {
		t.Fatalf("empty input_messages array is still a current marker")
	}
	cur := d.Current
	if cur.TraceID != "t9" {
		t.Fatalf("missing trace_id must use fallback, got %q", cur.TraceID)
	}
	if cur.InputMessages == nil || cur.OutputMessages == nil || cur.ChildSpans == nil || cur.TemplateUsages == nil {
		t.Fatalf("all arrays must be non-nil: %+v", cur)
	}
}

func TestReconcileLegacy(t *testing.T) {
	raw := json.RawMessage(`{
		"traceId": "t1",
		"sessionId": "s1",
		"parentTraceId": "t0",
		"costUsd": "0.01",
		"latencyMs": 230,
		"tokens": {"in": 100, "out": 40},
		"conversationHistory": [
			{"role": "user", "content": "hello"},
			{"speaker": "assistant", "message": {"text": "hi"}}
		],
		"metadata": {"env": "prod"},
		"templateUsages": [
			{"template_id": "tpl1", "inputs": "{\"city\":\"SF\"}"},
			{"TemplateId": "tpl2", "inputs": "not json", "position": "7"}
		]
	}`)

	d := Reconcile(raw, "fallback")
	if d.Schema != SchemaLegacy || d.Legacy == nil || d.Current != nil {
		t.Fatalf("expected legacy schema, got %+v", d)
	}

	leg := d.Legacy
	if leg.TraceID != "t1" {
		t.Fatalf("payload trace id must win, got %q", leg.TraceID)
	}
	if leg.Tokens.Total == nil || *leg.Tokens.Total != 140 {
		t.Fatalf("total must be derived from in+out, got %v", leg.Tokens.Total)
	}
	if len(leg.ConversationHistory) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(leg.ConversationHistory))
	}
	if leg.ConversationHistory[1].Role != "assistant" {
		t.Fatalf("speaker alias not honored: %+v", leg.ConversationHistory[1])
	}
	if leg.ConversationHistory[1].Content != `{"text":"hi"}` {
		t.Fatalf("non-string content must JSON-stringify, got %q", leg.ConversationHistory[1].Content)
	}

	if len(leg.TemplateUsages) != 2 {
		t.Fatalf("expected 2 template usages, got %d", len(leg.TemplateUsages))
	}
	first := leg.TemplateUsages[0]
	if first.Inputs["city"] != "SF" {
		t.Fatalf("string-encoded inputs must parse, got %+v", first.Inputs)
	}
	if first.Position != 0 {
		t.Fatalf("position defaults to array index, got %d", first.Position)
	}
	second := leg.TemplateUsages[1]
	if second.TemplateID == nil || *second.TemplateID != "tpl2" {
		t.Fatalf("alternate casing not honored: %+v", second)
	}
	if second.Inputs["value"] != "not json" {
		t.Fatalf("unparsable inputs must wrap raw string, got %+v", second.Inputs)
	}
	if second.Position != 7 {
		t.Fatalf("numeric-string position must parse, got %d", second.Position)
	}
}

func TestReconcileLegacyExplicitTotalWins(t *testing.T) {
	d := Reconcile(json.RawMessage(`{"tokens": {"in": 10, "out": 5, "total": 99}}`), "t1")
	if d.Legacy.Tokens.Total == nil || *d.Legacy.Tokens.Total != 99 {
		t.Fatalf("explicit total must not be recomputed, got %v", d.Legacy.Tokens.Total)
	}
}

func TestReconcileLegacyNoTokens(t *testing.T) {
	d := Reconcile(json.RawMessage(`{"tokens": {}}`), "t1")
	tokens := d.Legacy.Tokens
	if tokens.In != nil || tokens.Out != nil || tokens.Total != nil {
		t.Fatalf("no counts means all null, got %+v", tokens)
	}
}

func TestReconcileFallbackTraceID(t *testing.T) {
	d := Reconcile(json.RawMessage(`{}`), "route-trace")
	if d.Schema != SchemaLegacy {
		t.Fatalf("ambiguous payloads take the legacy path, got %s", d.Schema)
	}
	if d.Legacy.TraceID != "route-trace" {
		t.Fatalf("missing trace id must fall back, got %q", d.Legacy.TraceID)
	}
}

func TestReconcileTotality(t *testing.T) {
	// None of these may panic, and all must produce a fully-defaulted
	// legacy result.
	inputs := []any{
		nil,
		json.RawMessage(`null`),
		json.RawMessage(`"just a string"`),
		json.RawMessage(`[1,2,3]`),
		json.RawMessage(`{invalid`),
		json.RawMessage(`{"costUsd": {"nested": true}, "tokens": "broken", "conversationHistory": [42], "templateUsages": ["x"], "metadata": 7}`),
	}
	for _, in := range inputs {
		d := Reconcile(in, "fb")
		if d.Schema != SchemaLegacy || d.Legacy == nil {
			t.Fatalf("input %v: expected defaulted legacy result, got %+v", in, d)
		}
		leg := d.Legacy
		if leg.TraceID != "fb" {
			t.Fatalf("input %v: fallback trace id missing", in)
		}
		if leg.ConversationHistory == nil || leg.TemplateUsages == nil || leg.Metadata == nil {
			t.Fatalf("input %v: collections must be non-nil: %+v", in, leg)
		}
		if leg.CostUSD != nil {
			t.Fatalf("input %v: unparsable cost must be nil", in)
		}
	}
}
