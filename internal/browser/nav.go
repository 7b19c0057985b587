package browser

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/SDRoan/Filebox-sub001/internal/logging"
	"github.com/SDRoan/Filebox-sub001/pkg/cache"
	"github.com/SDRoan/Filebox-sub001/pkg/models"
)

// FolderSource resolves folders that are not in the loaded collection, used
// as the breadcrumb fallback.
type FolderSource interface {
	FetchFolder(ctx context.Context, id string) (*models.FolderEntry, error)
}

// Nav maintains the folder stack: folder ids from the root (exclusive) down
// to the currently open folder (inclusive); empty at the root.
type Nav struct {
	source FolderSource
	cache  *cache.FolderCache

	mu    sync.Mutex
	stack []string
}

// NewNav creates a navigation state at the root. cache may be nil.
func NewNav(source FolderSource, folderCache *cache.FolderCache) *Nav {
	return &Nav{source: source, cache: folderCache}
}

// Depth returns the current stack depth (0 at root).
func (n *Nav) Depth() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.stack)
}

// Stack returns a copy of the folder stack.
func (n *Nav) Stack() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.stack...)
}

// PushFolder descends into a folder and returns the new scope.
func (n *Nav) PushFolder(id string) models.Scope {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stack = append(n.stack, id)
	return models.ScopeFolder(id)
}

// NavigateUp pops one level and returns the new scope: the new top of the
// stack, or the root when the stack empties.
func (n *Nav) NavigateUp() models.Scope {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.stack) > 0 {
		n.stack = n.stack[:len(n.stack)-1]
	}
	return n.currentScopeLocked()
}

// JumpTo truncates the stack so that the folder at the given breadcrumb
// index becomes current, as a single state transition. A negative index
// resets to the root. Out-of-range indexes are a no-op.
func (n *Nav) JumpTo(index int) models.Scope {
	n.mu.Lock()
	defer n.mu.Unlock()
	switch {
	case index < 0:
		n.stack = nil
	case index < len(n.stack)-1:
		n.stack = n.stack[:index+1]
	}
	return n.currentScopeLocked()
}

// Reset empties the stack and returns the root scope. Used when the user
// returns to the root by any means.
func (n *Nav) Reset() models.Scope {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stack = nil
	return models.ScopeRoot()
}

// CurrentScope returns the scope for the top of the stack.
func (n *Nav) CurrentScope() models.Scope {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.currentScopeLocked()
}

func (n *Nav) currentScopeLocked() models.Scope {
	if len(n.stack) == 0 {
		return models.ScopeRoot()
	}
	return models.ScopeFolder(n.stack[len(n.stack)-1])
}

// Breadcrumbs resolves the stack into display folders, 1:1 with the stack.
// Each id is satisfied from the loaded collection first, then the folder
// cache, then a per-id fetch. Ids that cannot be resolved are logged and
// omitted; the result is never an error.
func (n *Nav) Breadcrumbs(ctx context.Context, loaded func(id string) (models.FolderEntry, bool)) []models.FolderEntry {
	stack := n.Stack()

	crumbs := make([]models.FolderEntry, 0, len(stack))
	for _, id := range stack {
		if loaded != nil {
			if folder, ok := loaded(id); ok {
				if n.cache != nil {
					n.cache.Put(folder)
				}
				crumbs = append(crumbs, folder)
				continue
			}
		}
		if n.cache != nil {
			if folder, ok := n.cache.Get(id); ok {
				crumbs = append(crumbs, folder)
				continue
			}
		}
		folder, err := n.source.FetchFolder(ctx, id)
		if err != nil {
			logging.Warn("breadcrumb folder unresolved",
				zap.String("folder_id", id), zap.Error(err))
			continue
		}
		if n.cache != nil {
			n.cache.Put(*folder)
		}
		crumbs = append(crumbs, *folder)
	}
	return crumbs
}
