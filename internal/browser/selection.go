package browser

import (
	"sort"
	"sync"

	"github.com/SDRoan/Filebox-sub001/internal/metrics"
	"github.com/SDRoan/Filebox-sub001/pkg/models"
)

// Selection tracks the set of selected composite keys ("{kind}-{id}") across
// files and folders. Selection mode is derived: it is on exactly while the
// set is non-empty.
type Selection struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{keys: make(map[string]struct{})}
}

// Toggle flips membership of one key and reports whether it is now selected.
func (s *Selection) Toggle(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.keys[key]; ok {
		delete(s.keys, key)
		metrics.SetSelectionSize(len(s.keys))
		return false
	}
	s.keys[key] = struct{}{}
	metrics.SetSelectionSize(len(s.keys))
	return true
}

// SelectAll replaces the selection with every visible entry's key. Callers
// pass the post-filter view, not the raw collection.
func (s *Selection) SelectAll(folders []models.FolderEntry, files []models.FileEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = make(map[string]struct{}, len(folders)+len(files))
	for _, d := range folders {
		s.keys[d.SelectionKey()] = struct{}{}
	}
	for _, f := range files {
		s.keys[f.SelectionKey()] = struct{}{}
	}
	metrics.SetSelectionSize(len(s.keys))
}

// Clear empties the selection, turning selection mode off.
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = make(map[string]struct{})
	metrics.SetSelectionSize(0)
}

// Has reports whether a key is selected.
func (s *Selection) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.keys[key]
	return ok
}

// Active reports whether selection mode is on.
func (s *Selection) Active() bool {
	return s.Len() > 0
}

// Len returns the number of selected keys.
func (s *Selection) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}

// Keys returns the selected keys in sorted order.
func (s *Selection) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.keys))
	for k := range s.keys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Prune drops keys that are not present in the given collections. Called
// after every applied load so stale selections never reach a bulk operation.
// Returns the number of keys dropped.
func (s *Selection) Prune(folders []models.FolderEntry, files []models.FileEntry) int {
	present := make(map[string]struct{}, len(folders)+len(files))
	for _, d := range folders {
		present[d.SelectionKey()] = struct{}{}
	}
	for _, f := range files {
		present[f.SelectionKey()] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	dropped := 0
	for k := range s.keys {
		if _, ok := present[k]; !ok {
			delete(s.keys, k)
			dropped++
		}
	}
	if dropped > 0 {
		metrics.SetSelectionSize(len(s.keys))
	}
	return dropped
}
