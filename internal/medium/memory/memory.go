package memory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"famledger/internal/medium"
)

// Store keeps every key in process memory.
type Store struct {
	mu     sync.Mutex
	items  map[string][]byte
	closed bool
}

func New() *Store {
	return &Store{items: map[string][]byte{}}
}

// NewFromFiles seeds the store from every *.json file in base, keyed by the
// file name without extension. A missing directory yields an empty store.
func NewFromFiles(base string) (*Store, error) {
	s := New()
	entries, err := os.ReadDir(base)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read seed directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(base, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read seed %s: %w", e.Name(), err)
		}
		s.items[strings.TrimSuffix(e.Name(), ".json")] = data
	}
	return s, nil
}

// Load implements medium.Loader
func (s *Store) Load(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, false, medium.ErrClosed
	}
	data, ok := s.items[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

// Save implements medium.Saver
func (s *Store) Save(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return medium.ErrClosed
	}
	s.items[key] = append([]byte(nil), data...)
	return nil
}

// Keys returns the stored keys, unordered.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.items))
	for k := range s.items {
		keys = append(keys, k)
	}
	return keys
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
