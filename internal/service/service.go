// Package service orchestrates the store, the telemetry client and the
// normalization layer on behalf of the HTTP handlers.
package service

import (
	"github.com/promptlens/promptlens/internal/adapter/telemetry"
	"github.com/promptlens/promptlens/internal/config"
	store "github.com/promptlens/promptlens/internal/repository"
	"github.com/promptlens/promptlens/policy"
)

type Service struct {
	store     store.Store
	telemetry telemetry.API
	redaction *policy.Engine
	config    *config.Config
}

func New(store store.Store, telemetryClient telemetry.API, redaction *policy.Engine, cfg *config.Config) *Service {
	return &Service{
		store:     store,
		telemetry: telemetryClient,
		redaction: redaction,
		config:    cfg,
	}
}
