package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/promptlens/promptlens/internal/domain"
)

const keyPrefix = "pl_"

// CreateAPIKey provisions a key and returns the record plus the raw
// key. The raw key is not stored and cannot be recovered later.
func (s *Service) CreateAPIKey(ctx context.Context, projectID, name string) (*domain.APIKey, string, error) {
	if _, err := s.store.GetProject(ctx, projectID); err != nil {
		return nil, "", err
	}

	raw, err := generateKey()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate key: %w", err)
	}
	sum := sha256.Sum256([]byte(raw))

	key := &domain.APIKey{
		KeyID:     "key_" + uuid.New().String()[:8],
		ProjectID: projectID,
		Name:      name,
		Prefix:    raw[:len(keyPrefix)+4],
		Hash:      hex.EncodeToString(sum[:]),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateAPIKey(ctx, key); err != nil {
		return nil, "", fmt.Errorf("failed to store api key: %w", err)
	}
	return key, raw, nil
}

func (s *Service) ListAPIKeys(ctx context.Context, projectID string) ([]domain.APIKey, error) {
	keys, err := s.store.ListAPIKeys(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list api keys: %w", err)
	}
	return keys, nil
}

func (s *Service) RevokeAPIKey(ctx context.Context, keyID string) error {
	return s.store.RevokeAPIKey(ctx, keyID)
}

func generateKey() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return keyPrefix + hex.EncodeToString(buf), nil
}
