package browser

import (
	"context"

	"go.uber.org/zap"

	"github.com/SDRoan/Filebox-sub001/internal/logging"
	"github.com/SDRoan/Filebox-sub001/internal/metrics"
	"github.com/SDRoan/Filebox-sub001/pkg/models"
	"github.com/SDRoan/Filebox-sub001/pkg/protocol"
)

// EventSource is the push side of the API client.
type EventSource interface {
	Subscribe(ctx context.Context, userID string) (<-chan protocol.PushEvent, <-chan error)
}

// Relevant decides whether a push event can affect the given scope's
// collection. Upload and create events are parent-scoped; delete, restore,
// rename, and star events do not carry enough location information to be
// filtered, so they always count. Unknown event types are ignored.
func Relevant(ev protocol.PushEvent, scope models.Scope) bool {
	switch ev.Type {
	case protocol.EventFileUploaded, protocol.EventFolderCreated:
		parent, ok := ev.Parent()
		return ok && scope.Contains(parent)
	case protocol.EventFileDeleted, protocol.EventFolderDeleted,
		protocol.EventFileRestored, protocol.EventFolderRestored,
		protocol.EventFileStarred, protocol.EventFileUnstarred,
		protocol.EventFileRenamed, protocol.EventFolderRenamed:
		return true
	}
	return false
}

// Watcher consumes the per-user event stream and triggers debounced reloads
// for events relevant to the controller's current scope.
type Watcher struct {
	source EventSource
	ctrl   *Controller
}

// NewWatcher creates a watcher feeding the given controller.
func NewWatcher(source EventSource, ctrl *Controller) *Watcher {
	return &Watcher{source: source, ctrl: ctrl}
}

// Run subscribes and processes events until ctx is cancelled. Stream errors
// are logged; the subscription layer handles reconnection.
func (w *Watcher) Run(ctx context.Context, userID string) {
	events, errs := w.source.Subscribe(ctx, userID)
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logging.Warn("event stream error", zap.Error(err))
		case ev, ok := <-events:
			if !ok {
				return
			}
			w.handle(ctx, ev)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, ev protocol.PushEvent) {
	relevant := Relevant(ev, w.ctrl.Scope())
	metrics.RecordPushEvent(ev.Type, relevant)
	if !relevant {
		logging.Debug("push event ignored",
			zap.String("type", ev.Type),
			zap.String("entity_id", ev.EntityID))
		return
	}
	logging.Debug("push event triggers reload",
		zap.String("type", ev.Type),
		zap.String("entity_id", ev.EntityID))
	w.ctrl.Reload(ctx)
}
