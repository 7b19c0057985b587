package browser

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/SDRoan/Filebox-sub001/internal/logging"
	"github.com/SDRoan/Filebox-sub001/pkg/models"
)

// Change describes one applied collection replacement, delivered to view
// subscribers so they can re-render.
type Change struct {
	Scope   models.Scope
	Folders []models.FolderEntry
	Files   []models.FileEntry
	At      time.Time
}

// Notifier fans collection changes out to subscribers. Sends never block:
// a subscriber that falls behind loses intermediate changes, which is fine
// because each Change carries the full collection.
type Notifier struct {
	mu   sync.RWMutex
	subs map[int]chan Change
	next int
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]chan Change)}
}

// Subscribe registers a subscriber and returns its channel and id. The
// channel is buffered; the caller must Unsubscribe when done.
func (n *Notifier) Subscribe() (int, <-chan Change) {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.next
	n.next++
	ch := make(chan Change, 8)
	n.subs[id] = ch
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (n *Notifier) Unsubscribe(id int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if ch, ok := n.subs[id]; ok {
		delete(n.subs, id)
		close(ch)
	}
}

// Publish delivers a change to every subscriber without blocking.
func (n *Notifier) Publish(change Change) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for id, ch := range n.subs {
		select {
		case ch <- change:
		default:
			logging.Debug("dropping change for slow subscriber",
				zap.Int("subscriber", id))
		}
	}
}

// Count returns the number of active subscribers.
func (n *Notifier) Count() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.subs)
}
