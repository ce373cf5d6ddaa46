package out

import (
	"context"
	"fmt"

	sessionout "pairvote/internal/modules/session/port/out"
	apperrors "pairvote/internal/platform/errors"
	"pairvote/internal/platform/storage"
)

type StorageIdentityStore struct {
	store storage.Store
}

func NewStorageIdentityStore(store storage.Store) sessionout.IdentityStore {
	return &StorageIdentityStore{store: store}
}

func (s *StorageIdentityStore) LoadID(ctx context.Context) (string, error) {
	var sessionID string
	ok, err := storage.GetJSON(ctx, s.store, storage.KeySessionID, &sessionID)
	if err != nil {
		return "", fmt.Errorf("load session id: %w", err)
	}
	if !ok || sessionID == "" {
		return "", apperrors.ErrNoSession
	}
	return sessionID, nil
}

func (s *StorageIdentityStore) SaveID(ctx context.Context, sessionID string) error {
	if err := storage.SetJSON(ctx, s.store, storage.KeySessionID, sessionID); err != nil {
		return fmt.Errorf("save session id: %w", err)
	}
	return nil
}

func (s *StorageIdentityStore) ClearIdentity(ctx context.Context) error {
	if err := s.store.Delete(ctx, storage.SessionScopedKeys...); err != nil {
		return fmt.Errorf("clear session identity: %w", err)
	}
	return nil
}

func (s *StorageIdentityStore) ClearAll(ctx context.Context) error {
	keys := append(append([]string{}, storage.SessionScopedKeys...), storage.ProgressKeys...)
	if err := s.store.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("clear session state: %w", err)
	}
	return nil
}
