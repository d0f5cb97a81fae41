// Package memory is a volatile key-value store used by tests and dry runs.
package memory

import (
	"sort"
	"sync"
)

type Store struct {
	mu   sync.RWMutex
	data map[string]string

	// FailWrites makes Set and Delete return this error when non-nil.
	FailWrites error
	// FailKeys fails writes to the listed keys only.
	FailKeys map[string]error
}

func (s *Store) writeErr(key string) error {
	if s.FailWrites != nil {
		return s.FailWrites
	}
	return s.FailKeys[key]
}

func New() *Store {
	return &Store{data: make(map[string]string)}
}

func (s *Store) Init() error  { return nil }
func (s *Store) Load() error  { return nil }
func (s *Store) Close() error { return nil }

func (s *Store) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writeErr(key); err != nil {
		return err
	}
	s.data[key] = value
	return nil
}

func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writeErr(key); err != nil {
		return err
	}
	delete(s.data, key)
	return nil
}

func (s *Store) Keys() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) GetConfigPath() string {
	return ":memory:"
}
