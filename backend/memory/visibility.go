package memory

import (
	"strings"
	"sync"

	"github.com/jmgilman/go/vfs/core"
)

// VisibilityStore tracks per-path visibility for backends whose storage has
// no native permission model. Paths without an explicit entry resolve
// through their ancestors, falling back to public. The store is safe for
// concurrent use and can be shared between adapters when several views of
// the same tree must agree.
type VisibilityStore struct {
	mu      sync.RWMutex
	entries map[string]core.Visibility
}

// NewVisibilityStore creates an empty store.
func NewVisibilityStore() *VisibilityStore {
	return &VisibilityStore{entries: make(map[string]core.Visibility)}
}

// Set records an explicit visibility for path.
func (s *VisibilityStore) Set(path string, v core.Visibility) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[path] = v
}

// Resolve returns the effective visibility for path: its own entry when one
// exists, otherwise the nearest ancestor's, otherwise public.
func (s *VisibilityStore) Resolve(path string) core.Visibility {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for {
		if v, ok := s.entries[path]; ok {
			return v
		}
		i := strings.LastIndex(path, "/")
		if i < 0 {
			return core.VisibilityPublic
		}
		path = path[:i]
	}
}

// Delete removes the entry for path and, when path named a directory, every
// entry beneath it.
func (s *VisibilityStore) Delete(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, path)
	prefix := path + "/"
	for p := range s.entries {
		if strings.HasPrefix(p, prefix) {
			delete(s.entries, p)
		}
	}
}

// Move re-keys the entry for old (and any entries beneath it) to new.
func (s *VisibilityStore) Move(oldPath, newPath string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.entries[oldPath]; ok {
		delete(s.entries, oldPath)
		s.entries[newPath] = v
	}
	prefix := oldPath + "/"
	for p, v := range s.entries {
		if strings.HasPrefix(p, prefix) {
			delete(s.entries, p)
			s.entries[newPath+"/"+strings.TrimPrefix(p, prefix)] = v
		}
	}
}

// Clear drops every entry.
func (s *VisibilityStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]core.Visibility)
}
