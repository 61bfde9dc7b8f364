package statestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var ErrClosed = errors.New("state store is closed")

// Store is a file-backed key-value store for small JSON documents. It stands
// in for the browser local storage of the original storefront: every mutation
// mirrors the full document set to disk, and a missing or unreadable file is
// treated as an empty store rather than an error.
type Store struct {
	mu     sync.Mutex
	path   string
	data   map[string]json.RawMessage
	closed bool
	tracer trace.Tracer
}

// Open reads the store file at path. Absent or malformed content yields an
// empty store.
func Open(path string) *Store {
	s := &Store{
		path:   path,
		data:   make(map[string]json.RawMessage),
		tracer: otel.Tracer("otakushop/statestore"),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		s.data = make(map[string]json.RawMessage)
	}
	return s
}

// Load unmarshals the document stored under key into v. It reports false when
// the key is absent or the stored document does not unmarshal; corrupt
// documents fall back to absence by contract.
func (s *Store) Load(ctx context.Context, key string, v any) (bool, error) {
	_, span := s.tracer.Start(ctx, "statestore.load",
		trace.WithAttributes(attribute.String("store.key", key)),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, ErrClosed
	}

	raw, ok := s.data[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, nil
	}
	return true, nil
}

// Save marshals v under key and mirrors the store to disk.
func (s *Store) Save(ctx context.Context, key string, v any) error {
	_, span := s.tracer.Start(ctx, "statestore.save",
		trace.WithAttributes(attribute.String("store.key", key)),
	)
	defer span.End()

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal document %q: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	s.data[key] = raw
	return s.flush()
}

// Delete removes the document under key. Deleting an absent key is a no-op.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, span := s.tracer.Start(ctx, "statestore.delete",
		trace.WithAttributes(attribute.String("store.key", key)),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	if _, ok := s.data[key]; !ok {
		return nil
	}
	delete(s.data, key)
	return s.flush()
}

// Close flushes and detaches the store from its file.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	err := s.flush()
	s.closed = true
	return err
}

// flush writes the whole document set; callers hold the lock.
func (s *Store) flush() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}
