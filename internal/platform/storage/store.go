// Package storage is the durable client-local key/value mirror. Values are
// JSON documents; callers treat the store as a best-effort write-through cache.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	apperrors "pairvote/internal/platform/errors"
)

const (
	KeySessionID     = "hp_session_id"
	KeyCurrentUnit   = "hp_current_pair"
	KeyDisplayStart  = "hp_pair_started_at"
	KeyHistory       = "hp_history"
	KeyHistoryCursor = "hp_history_index"
	KeyColorMode     = "hp_color_mode"
)

// SessionScopedKeys are cleared with the session identity.
var SessionScopedKeys = []string{KeySessionID, KeyCurrentUnit, KeyDisplayStart}

// ProgressKeys hold voting progress that only a full reset discards.
var ProgressKeys = []string{KeyHistory, KeyHistoryCursor}

type Store interface {
	// Get returns apperrors.ErrNotFound for a missing key.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// GetJSON decodes key into v and reports whether the key was present.
func GetJSON(ctx context.Context, s Store, key string, v any) (bool, error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func SetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}
