package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/promptlens/promptlens/internal/adapter/telemetry"
	"github.com/promptlens/promptlens/internal/config"
	"github.com/promptlens/promptlens/internal/domain"
	store "github.com/promptlens/promptlens/internal/repository"
	"github.com/promptlens/promptlens/internal/service"
	"github.com/promptlens/promptlens/policy"
)

// newTestHandler wires a handler against an in-memory store and, when
// upstream is non-nil, an httptest telemetry backend.
func newTestHandler(t *testing.T, upstream http.Handler) (*Handler, *store.SQLiteStore) {
	t.Helper()

	db, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	baseURL := "http://127.0.0.1:0"
	if upstream != nil {
		srv := httptest.NewServer(upstream)
		t.Cleanup(srv.Close)
		baseURL = srv.URL
	}
	telemetryClient := telemetry.NewClient(baseURL, "test-token", 5*time.Second)

	redaction, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	if err != nil {
		t.Fatalf("failed to create policy engine: %v", err)
	}

	svc := service.New(db, telemetryClient, redaction, &config.Config{})
	return NewHandler(svc), db
}

func seedProject(t *testing.T, db *store.SQLiteStore, id string) {
	t.Helper()
	p := &domain.Project{ProjectID: id, Name: "demo", CreatedAt: time.Now()}
	if err := db.CreateProject(context.Background(), p); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
}
