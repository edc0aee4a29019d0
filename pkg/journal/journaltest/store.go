// Package journaltest provides an in-memory journal.Store for tests and
// examples. It honors TTLs against an injectable clock and keeps the
// log and list families disjoint by construction.
package journaltest

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/edirooss/sdbsession/pkg/journal"
)

type logEntry struct {
	value    string
	deadline time.Time
}

// Store is an in-memory journal.Store. Safe for concurrent use.
type Store struct {
	// Now supplies the clock used for TTL expiry. Defaults to time.Now.
	Now func() time.Time

	mu    sync.Mutex
	logs  map[string]logEntry
	lists map[string][]string
}

var _ journal.Store = (*Store)(nil)

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{
		Now:   time.Now,
		logs:  make(map[string]logEntry),
		lists: make(map[string][]string),
	}
}

func (s *Store) SetWithTTL(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs[key] = logEntry{value: value, deadline: s.Now().Add(ttl)}
	return nil
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.logs[key]
	if !ok || !s.Now().Before(entry.deadline) {
		delete(s.logs, key)
		return "", journal.ErrKeyNotFound
	}
	return entry.value, nil
}

func (s *Store) TTL(_ context.Context, key string) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.logs[key]
	if !ok {
		return -2 * time.Second, nil
	}
	remaining := entry.deadline.Sub(s.Now())
	if remaining <= 0 {
		delete(s.logs, key)
		return -2 * time.Second, nil
	}
	return remaining, nil
}

func (s *Store) ListAppend(_ context.Context, key, element string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[key] = append(s.lists[key], element)
	return nil
}

func (s *Store) ListRange(_ context.Context, key string, start, stop int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.lists[key]
	n := int64(len(list))

	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if n == 0 || start > stop || start >= n {
		return []string{}, nil
	}

	out := make([]string, stop-start+1)
	copy(out, list[start:stop+1])
	return out, nil
}

func (s *Store) ListRemove(_ context.Context, key, element string, count int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.lists[key]
	out := list[:0]
	removed := int64(0)
	for _, e := range list {
		if e == element && (count <= 0 || removed < count) {
			removed++
			continue
		}
		out = append(out, e)
	}
	if len(out) == 0 {
		delete(s.lists, key)
	} else {
		s.lists[key] = out
	}
	return nil
}

func (s *Store) ListDelete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lists, key)
	return nil
}

func (s *Store) ListLength(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.lists[key])), nil
}

func (s *Store) RandomListKey(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.lists) == 0 {
		return "", nil
	}
	keys := make([]string, 0, len(s.lists))
	for key := range s.lists {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys[rand.Intn(len(keys))], nil
}

// LogLen reports how many unexpired log entries the store holds.
func (s *Store) LogLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, entry := range s.logs {
		if s.Now().Before(entry.deadline) {
			n++
		}
	}
	return n
}
