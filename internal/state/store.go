// Package state provides a small reactive store for tooling state such as
// dev-server build status. Stores are constructed explicitly and passed down;
// there is no package-level singleton, so tests never share state.
package state

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// historyLimit bounds the per-store change log.
const historyLimit = 100

// Change records one mutation.
type Change struct {
	Path      string
	Value     any
	Timestamp time.Time
}

// Callback receives the changed path and its new value. Callbacks run
// synchronously on the mutating goroutine. When several watched paths match
// one change, ancestors fire first (watched paths in lexical order); within
// one watched path, callbacks fire in subscription order.
type Callback func(path string, value any)

// Subscription identifies one registered callback for Unsubscribe.
type Subscription struct {
	id   uint64
	path string
}

type subscriber struct {
	id uint64
	cb Callback
}

// Store is a path-keyed value store with synchronous observers. A single
// mutex guards all read and write paths.
type Store struct {
	mu      sync.Mutex
	values  map[string]any
	subs    map[string][]subscriber
	history []Change
	nextID  uint64
}

// New creates an empty store.
func New() *Store {
	return &Store{
		values: make(map[string]any),
		subs:   make(map[string][]subscriber),
	}
}

// Get returns the value at path.
func (s *Store) Get(path string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.values[path]
	return v, ok
}

// Set stores value at path and notifies subscribers of the path and of every
// ancestor prefix (a watcher on "build" sees "build.status" changes).
// Delivery is synchronous, ordered as documented on Callback.
func (s *Store) Set(path string, value any) {
	s.mu.Lock()

	s.values[path] = value
	s.history = append(s.history, Change{Path: path, Value: value, Timestamp: time.Now()})
	if len(s.history) > historyLimit {
		s.history = s.history[len(s.history)-historyLimit:]
	}

	var watchedPaths []string
	for watched := range s.subs {
		if matches(watched, path) {
			watchedPaths = append(watchedPaths, watched)
		}
	}
	sort.Strings(watchedPaths)

	var pending []Callback
	for _, watched := range watchedPaths {
		for _, sub := range s.subs[watched] {
			pending = append(pending, sub.cb)
		}
	}

	s.mu.Unlock()

	// Callbacks run outside the lock so they may call back into the store.
	for _, cb := range pending {
		cb(path, value)
	}
}

// matches reports whether a subscription on watched covers path.
func matches(watched, path string) bool {
	return watched == path || strings.HasPrefix(path, watched+".")
}

// Subscribe registers cb for changes at path or below. The returned
// subscription is passed to Unsubscribe.
func (s *Store) Subscribe(path string, cb Callback) Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	sub := Subscription{id: s.nextID, path: path}
	s.subs[path] = append(s.subs[path], subscriber{id: sub.id, cb: cb})

	return sub
}

// Unsubscribe removes a previously registered callback. Unknown handles are
// ignored.
func (s *Store) Unsubscribe(sub Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subs := s.subs[sub.path]
	for i, candidate := range subs {
		if candidate.id == sub.id {
			s.subs[sub.path] = append(subs[:i], subs[i+1:]...)
			break
		}
	}

	if len(s.subs[sub.path]) == 0 {
		delete(s.subs, sub.path)
	}
}

// History returns a copy of the recorded changes, oldest first.
func (s *Store) History() []Change {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Change, len(s.history))
	copy(out, s.history)

	return out
}
