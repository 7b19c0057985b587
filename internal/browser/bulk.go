package browser

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/SDRoan/Filebox-sub001/internal/logging"
	"github.com/SDRoan/Filebox-sub001/internal/metrics"
	"github.com/SDRoan/Filebox-sub001/pkg/models"
)

// Op is a bulk mutation kind.
type Op string

const (
	OpDelete  Op = "delete"
	OpPurge   Op = "purge"
	OpRestore Op = "restore"
	OpMove    Op = "move"
)

// ItemError records a single failed entry within a bulk operation.
type ItemError struct {
	Key  string
	Name string
	Err  error
}

// BulkError is the aggregate outcome of a partially failed bulk operation.
// It never claims full success: any item failure surfaces here.
type BulkError struct {
	Op     Op
	Total  int
	Failed []ItemError
}

func (e *BulkError) Error() string {
	return fmt.Sprintf("bulk %s: %d of %d items failed", e.Op, len(e.Failed), e.Total)
}

// Dispatcher runs one mutation across many selected entries with bounded
// concurrency, dispatching through each entry's own kind.
type Dispatcher struct {
	api         models.MutationAPI
	concurrency int
}

// NewDispatcher creates a dispatcher. concurrency < 1 is treated as 1.
func NewDispatcher(api models.MutationAPI, concurrency int) *Dispatcher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Dispatcher{api: api, concurrency: concurrency}
}

// Run applies op to every entry concurrently and waits for all of them. dest
// is only consulted for OpMove. Individual failures do not stop the other
// items; the returned error is nil only when every item succeeded.
func (d *Dispatcher) Run(ctx context.Context, op Op, entries []models.Entry, dest models.ParentRef) error {
	if len(entries) == 0 {
		return nil
	}

	sem := make(chan struct{}, d.concurrency)
	var wg sync.WaitGroup

	var mu sync.Mutex
	var failed []ItemError

	for _, entry := range entries {
		wg.Add(1)
		sem <- struct{}{}
		go func(entry models.Entry) {
			defer wg.Done()
			defer func() { <-sem }()

			err := d.apply(ctx, op, entry, dest)
			if err != nil {
				metrics.RecordBulkItem(string(op), "error")
				logging.Warn("bulk item failed",
					zap.String("op", string(op)),
					zap.String("key", entry.SelectionKey()),
					zap.Error(err))
				mu.Lock()
				failed = append(failed, ItemError{
					Key:  entry.SelectionKey(),
					Name: entry.DisplayName(),
					Err:  err,
				})
				mu.Unlock()
				return
			}
			metrics.RecordBulkItem(string(op), "ok")
		}(entry)
	}
	wg.Wait()

	if len(failed) > 0 {
		metrics.RecordBulkOperation(string(op), "partial")
		return &BulkError{Op: op, Total: len(entries), Failed: failed}
	}
	metrics.RecordBulkOperation(string(op), "ok")
	return nil
}

func (d *Dispatcher) apply(ctx context.Context, op Op, entry models.Entry, dest models.ParentRef) error {
	switch op {
	case OpDelete:
		return entry.Delete(ctx, d.api)
	case OpPurge:
		return entry.Purge(ctx, d.api)
	case OpRestore:
		return entry.Restore(ctx, d.api)
	case OpMove:
		return entry.Move(ctx, d.api, dest)
	}
	return fmt.Errorf("unknown bulk operation %q", op)
}
