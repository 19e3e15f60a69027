package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/promptlens/promptlens/internal/execution"
	"github.com/promptlens/promptlens/internal/timeline"
)

// telemetryStub serves canned upstream responses and records the auth
// header it receives.
func telemetryStub(t *testing.T, gotAuth *string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/projects/p1/executions", func(w http.ResponseWriter, r *http.Request) {
		*gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"executions": [
				{"traceId": "tr_1", "status": "completed", "costUsd": 0.05, "templateCount": 2},
				{"trace_id": "tr_2", "status": "running", "template_usages": [{"template_id": "tpl_1"}]}
			],
			"total": 10, "limit": 2, "offset": 0
		}`))
	})
	mux.HandleFunc("/projects/p1/executions/tr_1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"trace_id": "tr_1",
			"session_id": "sess_9",
			"tokens": {"input": 100, "output": 50},
			"metadata": {"api_key": "sk-secret", "env": "prod"},
			"conversation_history": [{"role": "user", "content": "hi"}]
		}`))
	})
	mux.HandleFunc("/projects/p1/executions/tr_2", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"trace_id": "tr_2",
			"input_messages": [{"role": "user", "parts": [{"type": "text", "content": "hi"}], "msg_index": 0}],
			"output_messages": []
		}`))
	})
	mux.HandleFunc("/projects/p1/executions/tr_1/timeline", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"events": [
			{"kind": "user", "text": "book a flight"},
			{"kind": "tool_call", "tool_call_id": "c1", "name": "search", "arguments": {"q": "SFO"}, "span_id": "s1"},
			{"kind": "annotation", "text": "ignored"},
			{"kind": "tool_result", "tool_call_id": "c1", "output": "3 results", "span_id": "s1"}
		]}`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	return mux
}

func TestListExecutionsNormalized(t *testing.T) {
	e := echo.New()
	var gotAuth string
	handler, _ := newTestHandler(t, telemetryStub(t, &gotAuth))

	req := httptest.NewRequest(http.MethodGet, "/v1/projects/p1/executions?limit=2", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("project_id")
	c.SetParamValues("p1")

	err := handler.ListExecutions(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bearer test-token", gotAuth)

	var list execution.List
	json.Unmarshal(rec.Body.Bytes(), &list)
	assert.Equal(t, 10, list.Total)
	assert.Equal(t, 2, list.Limit)
	assert.Len(t, list.Items, 2)

	// camelCase and snake_case upstream items flatten identically.
	assert.Equal(t, "tr_1", list.Items[0].TraceID)
	assert.Equal(t, 2, list.Items[0].TemplateCount)
	assert.Equal(t, "tr_2", list.Items[1].TraceID)
	assert.Equal(t, 1, list.Items[1].TemplateCount)
}

func TestGetExecutionLegacyRedacted(t *testing.T) {
	e := echo.New()
	var gotAuth string
	handler, _ := newTestHandler(t, telemetryStub(t, &gotAuth))

	req := httptest.NewRequest(http.MethodGet, "/v1/projects/p1/executions/tr_1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("project_id", "trace_id")
	c.SetParamValues("p1", "tr_1")

	err := handler.GetExecution(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var detail execution.Detail
	json.Unmarshal(rec.Body.Bytes(), &detail)
	assert.Equal(t, execution.SchemaLegacy, detail.Schema)
	assert.NotNil(t, detail.Legacy)
	assert.Nil(t, detail.Current)
	assert.Equal(t, "tr_1", detail.Legacy.TraceID)

	// Derived total and redacted metadata survive the HTTP round trip.
	assert.NotNil(t, detail.Legacy.Tokens.Total)
	assert.Equal(t, float64(150), *detail.Legacy.Tokens.Total)
	assert.Equal(t, "[redacted]", detail.Legacy.Metadata["api_key"])
	assert.Equal(t, "prod", detail.Legacy.Metadata["env"])
}

func TestGetExecutionCurrentSchema(t *testing.T) {
	e := echo.New()
	var gotAuth string
	handler, _ := newTestHandler(t, telemetryStub(t, &gotAuth))

	req := httptest.NewRequest(http.MethodGet, "/v1/projects/p1/executions/tr_2", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("project_id", "trace_id")
	c.SetParamValues("p1", "tr_2")

	err := handler.GetExecution(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var detail execution.Detail
	json.Unmarshal(rec.Body.Bytes(), &detail)
	assert.Equal(t, execution.SchemaCurrent, detail.Schema)
	assert.NotNil(t, detail.Current)
	assert.Nil(t, detail.Legacy)
	assert.Len(t, detail.Current.InputMessages, 1)
	assert.NotNil(t, detail.Current.OutputMessages)
}

func TestGetExecutionTimelineNormalized(t *testing.T) {
	e := echo.New()
	var gotAuth string
	handler, _ := newTestHandler(t, telemetryStub(t, &gotAuth))

	req := httptest.NewRequest(http.MethodGet, "/v1/projects/p1/executions/tr_1/timeline", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("project_id", "trace_id")
	c.SetParamValues("p1", "tr_1")

	err := handler.GetExecutionTimeline(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Messages []timeline.Message `json:"messages"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)

	// The unknown "annotation" kind is skipped and indices stay contiguous.
	assert.Len(t, resp.Messages, 3)
	assert.Equal(t, []string{"user", "assistant", "tool"}, []string{
		resp.Messages[0].Role, resp.Messages[1].Role, resp.Messages[2].Role,
	})
	for i, msg := range resp.Messages {
		assert.Equal(t, i, msg.MsgIndex)
	}
	assert.Equal(t, `{"q":"SFO"}`, resp.Messages[1].Parts[0].Arguments)
	assert.Equal(t, "3 results", resp.Messages[2].Parts[0].Response)
}

func TestGetExecutionUpstreamNotFound(t *testing.T) {
	e := echo.New()
	var gotAuth string
	handler, _ := newTestHandler(t, telemetryStub(t, &gotAuth))

	req := httptest.NewRequest(http.MethodGet, "/v1/projects/p1/executions/ghost", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("project_id", "trace_id")
	c.SetParamValues("p1", "ghost")

	err := handler.GetExecution(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
