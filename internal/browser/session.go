package browser

import (
	"context"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/SDRoan/Filebox-sub001/internal/config"
	"github.com/SDRoan/Filebox-sub001/internal/logging"
	"github.com/SDRoan/Filebox-sub001/pkg/cache"
	"github.com/SDRoan/Filebox-sub001/pkg/client"
	"github.com/SDRoan/Filebox-sub001/pkg/models"
	"github.com/SDRoan/Filebox-sub001/pkg/protocol"
)

// Session ties the engine components together for one signed-in user: the
// API client, the listing controller, selection, navigation, bulk dispatch,
// the change notifier, and the live update watcher.
type Session struct {
	api      *client.Client
	sse      *client.SSEClient
	ctrl     *Controller
	sel      *Selection
	nav      *Nav
	bulk     *Dispatcher
	notifier *Notifier
	folders  *cache.FolderCache

	mu       sync.Mutex
	prefs    ViewPrefs
	watchCtx context.CancelFunc
}

// NewSession wires a session from configuration. The caller sets the auth
// token on the returned session's Client before loading anything.
func NewSession(cfg *config.Config) *Session {
	api := client.New(client.Config{
		BaseURL: cfg.ServerURL,
		Timeout: cfg.RequestTimeout,
	})
	folderCache := cache.New(cfg.FolderCacheSize, cfg.FolderCacheTTL)

	s := &Session{
		api:      api,
		sse:      client.NewSSEClient(cfg.ServerURL),
		ctrl:     NewController(api, cfg.ReloadDebounce),
		sel:      NewSelection(),
		nav:      NewNav(api, folderCache),
		bulk:     NewDispatcher(api, cfg.BulkConcurrency),
		notifier: NewNotifier(),
		folders:  folderCache,
		prefs:    DefaultPrefs(),
	}

	// Every applied load flows through here: prune the selection so no key
	// dangles, warm the breadcrumb cache, and tell subscribers to re-render.
	s.ctrl.OnReplace(func(scope models.Scope, folders []models.FolderEntry, files []models.FileEntry) {
		if dropped := s.sel.Prune(folders, files); dropped > 0 {
			logging.Debug("pruned stale selections", zap.Int("dropped", dropped))
		}
		s.folders.PutAll(folders)
		s.notifier.Publish(Change{
			Scope:   scope,
			Folders: folders,
			Files:   files,
			At:      time.Now(),
		})
	})

	return s
}

// Client returns the underlying API client, for auth wiring.
func (s *Session) Client() *client.Client { return s.api }

// SetAuthToken applies the bearer token to both the API client and the event
// stream client.
func (s *Session) SetAuthToken(token string) {
	s.api.SetAuthToken(token)
	s.sse.SetAuthToken(token)
}

// Controller returns the listing controller.
func (s *Session) Controller() *Controller { return s.ctrl }

// Selection returns the selection manager.
func (s *Session) Selection() *Selection { return s.sel }

// Nav returns the navigation state.
func (s *Session) Nav() *Nav { return s.nav }

// Notifier returns the change notifier for view subscribers.
func (s *Session) Notifier() *Notifier { return s.notifier }

// Prefs returns the current view preferences.
func (s *Session) Prefs() ViewPrefs {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

// SetPrefs replaces the view preferences. Purely presentational: no reload.
func (s *Session) SetPrefs(prefs ViewPrefs) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs = prefs
}

// View returns the rendered view of the current collection under the current
// preferences.
func (s *Session) View() ([]models.FolderEntry, []models.FileEntry) {
	folders, files := s.ctrl.Entries()
	return ApplyView(folders, files, s.Prefs())
}

// Breadcrumbs resolves the current folder stack for display.
func (s *Session) Breadcrumbs(ctx context.Context) []models.FolderEntry {
	folders, _ := s.ctrl.Entries()
	byID := make(map[string]models.FolderEntry, len(folders))
	for _, f := range folders {
		byID[f.ID] = f
	}
	return s.nav.Breadcrumbs(ctx, func(id string) (models.FolderEntry, bool) {
		f, ok := byID[id]
		return f, ok
	})
}

// OpenFolder descends into a folder and loads its contents.
func (s *Session) OpenFolder(ctx context.Context, id string) error {
	return s.ctrl.SetScope(ctx, s.nav.PushFolder(id))
}

// NavigateUp moves one level up the folder stack and loads.
func (s *Session) NavigateUp(ctx context.Context) error {
	return s.ctrl.SetScope(ctx, s.nav.NavigateUp())
}

// JumpToBreadcrumb jumps directly to the folder at the given breadcrumb
// index: one stack truncation, one load.
func (s *Session) JumpToBreadcrumb(ctx context.Context, index int) error {
	return s.ctrl.SetScope(ctx, s.nav.JumpTo(index))
}

// ShowRoot returns to the drive root.
func (s *Session) ShowRoot(ctx context.Context) error {
	return s.ctrl.SetScope(ctx, s.nav.Reset())
}

// ShowTrash switches to the trash view. The folder stack is reset so that
// leaving the trash lands at the root.
func (s *Session) ShowTrash(ctx context.Context) error {
	s.nav.Reset()
	return s.ctrl.SetScope(ctx, models.ScopeTrash())
}

// ShowStarred switches to the starred view. Resets the folder stack like
// ShowTrash.
func (s *Session) ShowStarred(ctx context.Context) error {
	s.nav.Reset()
	return s.ctrl.SetScope(ctx, models.ScopeStarred())
}

// ShowTeamFolder switches to a team folder's listing.
func (s *Session) ShowTeamFolder(ctx context.Context, id string) error {
	s.nav.Reset()
	return s.ctrl.SetScope(ctx, models.ScopeTeamFolder(id))
}

// TrashedEntries returns the current collection as trash rows with recovery
// countdowns. Meaningful only in the trash scope.
func (s *Session) TrashedEntries(now time.Time) []protocol.TrashedEntry {
	folders, files := s.ctrl.Entries()
	out := make([]protocol.TrashedEntry, 0, len(folders)+len(files))
	for _, d := range folders {
		if d.DeletedAt == nil {
			continue
		}
		out = append(out, protocol.TrashedEntry{
			ID:            d.ID,
			Name:          d.Name,
			Kind:          string(models.KindFolder),
			DeletedAt:     *d.DeletedAt,
			DaysRemaining: models.DaysRemaining(d.DeletedAt, d.RecoveryPeriodDays, now),
		})
	}
	for _, f := range files {
		if f.DeletedAt == nil {
			continue
		}
		out = append(out, protocol.TrashedEntry{
			ID:            f.ID,
			Name:          f.Name,
			Kind:          string(models.KindFile),
			DeletedAt:     *f.DeletedAt,
			DaysRemaining: models.DaysRemaining(f.DeletedAt, 0, now),
		})
	}
	return out
}

// Upload sends file content into the current folder and reloads on success.
func (s *Session) Upload(ctx context.Context, name, contentType string, content io.Reader, size int64) (*models.FileEntry, error) {
	parent := s.currentParent()
	file, err := s.api.UploadFile(ctx, name, parent, contentType, content, size)
	if err != nil {
		return nil, err
	}
	s.reloadAfterMutation(ctx)
	return file, nil
}

// CreateFolder creates a folder in the current folder and reloads on success.
func (s *Session) CreateFolder(ctx context.Context, name string) (*models.FolderEntry, error) {
	folder, err := s.api.CreateFolder(ctx, name, s.currentParent())
	if err != nil {
		return nil, err
	}
	s.reloadAfterMutation(ctx)
	return folder, nil
}

func (s *Session) currentParent() models.ParentRef {
	if id, ok := s.ctrl.Scope().FolderID(); ok {
		return models.InFolder(id)
	}
	return models.Root()
}

// Delete trashes one entry and reloads on success.
func (s *Session) Delete(ctx context.Context, entry models.Entry) error {
	if err := entry.Delete(ctx, s.api); err != nil {
		return err
	}
	s.reloadAfterMutation(ctx)
	return nil
}

// Restore brings one trashed entry back and reloads on success.
func (s *Session) Restore(ctx context.Context, entry models.Entry) error {
	if err := entry.Restore(ctx, s.api); err != nil {
		return err
	}
	s.reloadAfterMutation(ctx)
	return nil
}

// Purge permanently removes one trashed entry and reloads on success.
func (s *Session) Purge(ctx context.Context, entry models.Entry) error {
	if err := entry.Purge(ctx, s.api); err != nil {
		return err
	}
	s.reloadAfterMutation(ctx)
	return nil
}

// Move relocates one entry and reloads on success.
func (s *Session) Move(ctx context.Context, entry models.Entry, dest models.ParentRef) error {
	if err := entry.Move(ctx, s.api, dest); err != nil {
		return err
	}
	s.reloadAfterMutation(ctx)
	return nil
}

// Star sets the star flag on one entry and reloads on success.
func (s *Session) Star(ctx context.Context, entry models.Entry) error {
	var err error
	switch entry.EntryKind() {
	case models.KindFolder:
		err = s.api.StarFolder(ctx, entry.EntryID())
	default:
		err = s.api.StarFile(ctx, entry.EntryID())
	}
	if err != nil {
		return err
	}
	s.reloadAfterMutation(ctx)
	return nil
}

// Unstar clears the star flag on one entry and reloads on success.
func (s *Session) Unstar(ctx context.Context, entry models.Entry) error {
	var err error
	switch entry.EntryKind() {
	case models.KindFolder:
		err = s.api.UnstarFolder(ctx, entry.EntryID())
	default:
		err = s.api.UnstarFile(ctx, entry.EntryID())
	}
	if err != nil {
		return err
	}
	s.reloadAfterMutation(ctx)
	return nil
}

// Direct mutations load immediately rather than through the debounce window
// so the user sees their own change without waiting.
func (s *Session) reloadAfterMutation(ctx context.Context) {
	if err := s.ctrl.Load(ctx); err != nil {
		logging.Warn("reload after mutation failed", zap.Error(err))
	}
}

// BulkSelected runs op over every currently selected entry, resolving keys
// against the loaded collection. The listing is reloaded afterwards whether
// or not items failed; the selection is cleared only on full success so the
// user can retry the failed remainder.
func (s *Session) BulkSelected(ctx context.Context, op Op, dest models.ParentRef) error {
	keys := s.sel.Keys()
	if len(keys) == 0 {
		return nil
	}

	folders, files := s.ctrl.Entries()
	byKey := make(map[string]models.Entry, len(folders)+len(files))
	for _, d := range folders {
		byKey[d.SelectionKey()] = d
	}
	for _, f := range files {
		byKey[f.SelectionKey()] = f
	}

	entries := make([]models.Entry, 0, len(keys))
	for _, key := range keys {
		if entry, ok := byKey[key]; ok {
			entries = append(entries, entry)
		}
	}

	err := s.bulk.Run(ctx, op, entries, dest)

	// Partial failure still changed server state; resync unconditionally.
	s.reloadAfterMutation(ctx)

	if err != nil {
		return err
	}
	s.sel.Clear()
	return nil
}

// StartWatch begins consuming the per-user event stream until StopWatch or
// the parent context ends.
func (s *Session) StartWatch(ctx context.Context, userID string) {
	s.mu.Lock()
	if s.watchCtx != nil {
		s.mu.Unlock()
		return
	}
	watchCtx, cancel := context.WithCancel(ctx)
	s.watchCtx = cancel
	s.mu.Unlock()

	w := NewWatcher(s.sse, s.ctrl)
	go w.Run(watchCtx, userID)
	logging.Info("live update watcher started", zap.String("user_id", userID))
}

// StopWatch stops the event stream consumer.
func (s *Session) StopWatch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watchCtx != nil {
		s.watchCtx()
		s.watchCtx = nil
	}
}
