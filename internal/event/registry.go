// Logtap - Structured Event Logging and Log Tailing Pipeline
// Copyright 2026 Logtap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oasys-platform/logtap

package event

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/goccy/go-json"
)

// RegistryFileName is the registry document's name at the log root.
const RegistryFileName = "event_registry.json"

// Registry is the durable mapping from category to the set of event names
// ever observed under it. It is loaded lazily on first use, mutated in
// memory, and persisted back synchronously whenever a new (category, name)
// pair is first seen.
//
// The registry is a best-effort discovery aid, never an authority:
// concurrent processes may clobber each other's update of the file
// (last-writer-wins), which loses nothing but discovery metadata. The event
// stream's correctness never depends on it.
type Registry struct {
	path string

	mu     sync.Mutex
	loaded bool
	seen   map[Category]map[string]struct{}
}

// NewRegistry returns a registry persisted at path. The file is not touched
// until the first Register of an unseen pair.
func NewRegistry(path string) *Registry {
	return &Registry{
		path: path,
		seen: make(map[Category]map[string]struct{}),
	}
}

// Path returns the registry file location.
func (r *Registry) Path() string { return r.path }

// Register records name under category. Registering an already-known pair
// is a no-op. A non-nil error means the new pair could not be persisted;
// the in-memory registration still holds, and callers treat the error as
// diagnostic only.
func (r *Registry) Register(category Category, name string) error {
	if name == "" {
		return fmt.Errorf("empty event name for category %s", category)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadLocked()

	names, ok := r.seen[category]
	if !ok {
		names = make(map[string]struct{})
		r.seen[category] = names
	}
	if _, known := names[name]; known {
		return nil
	}
	names[name] = struct{}{}
	return r.saveLocked()
}

// Names returns the sorted event names registered under category.
func (r *Registry) Names(category Category) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadLocked()
	return sortedNames(r.seen[category])
}

// All returns every category's sorted event names. Categories with no
// registrations are included with an empty list so the full taxonomy is
// visible to inspection tooling.
func (r *Registry) All() map[Category][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadLocked()

	out := make(map[Category][]string, len(categories))
	for _, c := range categories {
		out[c] = sortedNames(r.seen[c])
	}
	return out
}

// loadLocked populates the in-memory set from disk once per process.
// A missing, corrupt, or unreadable file is treated as an empty registry;
// the registry is descriptive, so starting fresh is always safe.
func (r *Registry) loadLocked() {
	if r.loaded {
		return
	}
	r.loaded = true

	data, err := os.ReadFile(r.path)
	if err != nil {
		return
	}
	var doc map[string][]string
	if err := json.Unmarshal(data, &doc); err != nil {
		return
	}
	for key, names := range doc {
		category, err := ParseCategory(key)
		if err != nil {
			// Unknown categories in an old registry file are dropped.
			continue
		}
		set, ok := r.seen[category]
		if !ok {
			set = make(map[string]struct{}, len(names))
			r.seen[category] = set
		}
		for _, n := range names {
			set[n] = struct{}{}
		}
	}
}

func (r *Registry) saveLocked() error {
	doc := make(map[string][]string, len(r.seen))
	for category, names := range r.seen {
		doc[string(category)] = sortedNames(names)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode event registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create registry directory: %w", err)
	}
	if err := os.WriteFile(r.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write event registry: %w", err)
	}
	return nil
}

func sortedNames(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
