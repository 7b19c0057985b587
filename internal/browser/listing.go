// Package browser implements the listing-and-synchronization engine behind
// the file browser: the listing controller, sort/filter view, selection,
// navigation, bulk dispatch, and the live update watcher.
package browser

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/SDRoan/Filebox-sub001/internal/logging"
	"github.com/SDRoan/Filebox-sub001/internal/metrics"
	"github.com/SDRoan/Filebox-sub001/pkg/models"
	"github.com/SDRoan/Filebox-sub001/pkg/protocol"
)

// ListAPI is the listing surface of the API client.
type ListAPI interface {
	ListEntries(ctx context.Context, scope models.Scope) (*protocol.ListResponse, error)
}

// ReplaceFunc is called synchronously after the entry collection is replaced
// by a completed load. Folders and files are private copies.
type ReplaceFunc func(scope models.Scope, folders []models.FolderEntry, files []models.FileEntry)

// Controller owns the authoritative file+folder collection for exactly one
// scope and keeps it consistent with the server. All mutation and push paths
// converge on Load; entries are only ever replaced wholesale.
type Controller struct {
	api      ListAPI
	debounce time.Duration

	mu          sync.Mutex
	scope       models.Scope
	generation  uint64 // bumped on every scope change
	nextSeq     uint64 // issue order of loads within a generation
	appliedSeq  uint64 // highest issue seq applied in the current generation
	loading     int
	folders     []models.FolderEntry
	files       []models.FileEntry
	loadErr     error
	reloadTimer *time.Timer
	onReplace   ReplaceFunc
}

// NewController creates a controller scoped to the root folder. debounce
// coalesces Reload triggers within the given window; 0 disables coalescing.
func NewController(api ListAPI, debounce time.Duration) *Controller {
	return &Controller{
		api:      api,
		debounce: debounce,
	}
}

// OnReplace registers the hook invoked after each applied load. Must be set
// before the controller is shared between goroutines.
func (c *Controller) OnReplace(fn ReplaceFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onReplace = fn
}

// Scope returns the currently active scope.
func (c *Controller) Scope() models.Scope {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scope
}

// Entries returns copies of the current folder and file collections.
func (c *Controller) Entries() ([]models.FolderEntry, []models.FileEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.FolderEntry(nil), c.folders...),
		append([]models.FileEntry(nil), c.files...)
}

// Err returns the error from the most recent load, or nil after a success.
// A failed load never clears previously loaded entries.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadErr
}

// Loading reports whether any load is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading > 0
}

// SetScope switches the active scope and issues an immediate load. Responses
// still in flight for the previous scope are discarded on arrival. Pending
// debounced reloads for the old scope are cancelled.
func (c *Controller) SetScope(ctx context.Context, scope models.Scope) error {
	c.mu.Lock()
	if !c.scope.Equal(scope) {
		c.scope = scope
		c.generation++
		c.appliedSeq = 0
		if c.reloadTimer != nil {
			c.reloadTimer.Stop()
			c.reloadTimer = nil
		}
	}
	c.mu.Unlock()
	return c.Load(ctx)
}

// Load fetches the entry collection for the current scope and applies it,
// unless the scope changed while the request was in flight (the response is
// then discarded) or a more recently issued load already applied (last
// issued wins). On failure the previous entries are kept.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	scope := c.scope
	gen := c.generation
	c.nextSeq++
	seq := c.nextSeq
	c.loading++
	c.mu.Unlock()

	start := time.Now()
	list, err := c.api.ListEntries(ctx, scope)
	elapsed := time.Since(start)

	c.mu.Lock()
	c.loading--

	if gen != c.generation {
		c.mu.Unlock()
		metrics.RecordStaleDiscard()
		logging.Debug("discarded stale listing response",
			zap.Stringer("scope", scope))
		return nil
	}

	if seq < c.appliedSeq {
		// A more recently issued load already applied; this response,
		// success or failure, is out of date.
		c.mu.Unlock()
		metrics.RecordStaleDiscard()
		return nil
	}

	if err != nil {
		// Stale-but-present beats empty: keep the prior entries.
		c.appliedSeq = seq
		c.loadErr = err
		c.mu.Unlock()
		metrics.RecordListingLoad(scope.Kind(), "error", elapsed.Seconds())
		logging.Error("listing load failed",
			zap.Stringer("scope", scope), zap.Error(err))
		return err
	}

	c.appliedSeq = seq
	c.folders = list.Folders
	c.files = list.Files
	c.loadErr = nil
	onReplace := c.onReplace
	folders := append([]models.FolderEntry(nil), c.folders...)
	files := append([]models.FileEntry(nil), c.files...)
	c.mu.Unlock()

	metrics.RecordListingLoad(scope.Kind(), "ok", elapsed.Seconds())
	logging.Debug("listing loaded",
		zap.Stringer("scope", scope),
		zap.Int("folders", len(folders)),
		zap.Int("files", len(files)),
		zap.Duration("elapsed", elapsed))

	if onReplace != nil {
		onReplace(scope, folders, files)
	}
	return nil
}

// Reload schedules a load for the current scope, coalescing triggers that
// arrive within the debounce window. Used by push events and other bursty
// invalidation paths.
func (c *Controller) Reload(ctx context.Context) {
	if c.debounce <= 0 {
		go c.Load(ctx)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.reloadTimer != nil {
		return // already scheduled
	}
	c.reloadTimer = time.AfterFunc(c.debounce, func() {
		c.mu.Lock()
		c.reloadTimer = nil
		c.mu.Unlock()
		c.Load(ctx)
	})
}
