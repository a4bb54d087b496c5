// Package session holds per-user state: the artifact cache, imported
// signals, credential overrides and the last generated service context.
package session

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// StageSuffix marks keys that hold generated stage output.
const StageSuffix = "_output"

// ComputeFunc produces a value for a missing key. keep=false returns the
// value to the caller without storing it.
type ComputeFunc func(ctx context.Context) (value string, keep bool, err error)

// Store is a keyed, session-scoped artifact cache. Concurrent misses on the
// same key share a single computation.
type Store struct {
	mu         sync.RWMutex
	entries    map[string]string
	generation uint64
	group      singleflight.Group
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]string)}
}

// Get returns the cached value for key.
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	return v, ok
}

// Put stores a value unconditionally.
func (s *Store) Put(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
}

// GetOrCompute returns the cached value, or runs fn once and caches its
// result. cached reports whether the value came from the cache. A result
// computed across a ClearStages call is returned but not stored.
func (s *Store) GetOrCompute(ctx context.Context, key string, fn ComputeFunc) (value string, cached bool, err error) {
	s.mu.RLock()
	if v, ok := s.entries[key]; ok {
		s.mu.RUnlock()
		return v, true, nil
	}
	gen := s.generation
	s.mu.RUnlock()

	flightKey := strconv.FormatUint(gen, 10) + "/" + key
	res, err, _ := s.group.Do(flightKey, func() (interface{}, error) {
		v, keep, err := fn(ctx)
		if err != nil {
			return "", err
		}
		if keep {
			s.mu.Lock()
			if s.generation == gen {
				s.entries[key] = v
			}
			s.mu.Unlock()
		}
		return v, nil
	})
	if err != nil {
		return "", false, err
	}
	return res.(string), false, nil
}

// ClearStages removes every stage entry and leaves other keys untouched.
func (s *Store) ClearStages() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for k := range s.entries {
		if strings.HasSuffix(k, StageSuffix) {
			delete(s.entries, k)
			removed++
		}
	}
	s.generation++
	return removed
}

// Snapshot copies all entries.
func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

// Keys lists stored keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
