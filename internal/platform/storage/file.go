package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	apperrors "pairvote/internal/platform/errors"
)

// FileStore keeps every key in one JSON document.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(stateDir string) *FileStore {
	return &FileStore{path: filepath.Join(stateDir, "client-state.json")}
}

func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	value, ok := doc[key]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return value, nil
}

func (s *FileStore) Set(_ context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("set %s: value is not json", key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return err
	}
	doc[key] = json.RawMessage(value)
	return s.write(doc)
}

func (s *FileStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return err
	}
	for _, key := range keys {
		delete(doc, key)
	}
	return s.write(doc)
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) load() (map[string]json.RawMessage, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, fmt.Errorf("read client state: %w", err)
	}
	doc := map[string]json.RawMessage{}
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("decode client state: %w", err)
	}
	return doc, nil
}

func (s *FileStore) write(doc map[string]json.RawMessage) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal client state: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write client state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace client state: %w", err)
	}
	return nil
}
