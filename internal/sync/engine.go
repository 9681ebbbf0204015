// Package sync keeps a live, role-scoped projection of the shared
// collections for one identity: one subscription per (collection, filter)
// pair, change batches folded into a View, and change notifications for
// the presentation layer.
package sync

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/nazmulrahman/young-star-app/internal/authz"
	"github.com/nazmulrahman/young-star-app/internal/model"
	"github.com/nazmulrahman/young-star-app/internal/notify"
	"github.com/nazmulrahman/young-star-app/internal/store"
	"github.com/nazmulrahman/young-star-app/pkg/logging"
)

type Engine struct {
	identity authz.Identity
	view     *View
	sink     notify.Sink
	log      *logging.Logger

	mu          sync.Mutex
	closed      bool
	cancels     []store.Unsubscribe
	failed      map[string]bool
	watchers    map[int]chan string
	nextWatcher int
}

// Open subscribes to every collection the identity may see, filters
// applied upstream so unauthorized documents never enter memory, and
// returns once the initial snapshots are loaded.
func Open(ctx context.Context, st store.DocumentStore, id authz.Identity, sink notify.Sink, log *logging.Logger) (*Engine, error) {
	e := &Engine{
		identity: id,
		view:     NewView(),
		sink:     sink,
		log:      log,
		failed:   make(map[string]bool),
		watchers: make(map[int]chan string),
	}

	for _, collection := range model.Collections {
		filters, ok := authz.SubscriptionFilters(id, collection)
		if !ok {
			continue
		}
		for i, filter := range filters {
			key := fmt.Sprintf("%s/%d", collection, i)
			coll := collection
			cancel, err := st.Subscribe(ctx, collection, filter,
				func(ch store.Change) { e.applyBatch(coll, ch) },
				func(err error) { e.subscriptionFailed(ctx, key, err) },
			)
			if err != nil {
				e.Close()
				return nil, fmt.Errorf("open %s subscription: %w", key, err)
			}
			e.mu.Lock()
			e.cancels = append(e.cancels, cancel)
			e.mu.Unlock()
		}
	}
	return e, nil
}

func (e *Engine) Identity() authz.Identity {
	return e.identity
}

func (e *Engine) View() *View {
	return e.view
}

// Watch returns a channel that carries the name of each collection whose
// view changed. Slow consumers lose notifications rather than block the
// listener path.
func (e *Engine) Watch() (<-chan string, func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextWatcher
	e.nextWatcher++
	ch := make(chan string, 16)
	if e.closed {
		close(ch)
		return ch, func() {}
	}
	e.watchers[id] = ch

	return ch, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if w, ok := e.watchers[id]; ok {
			delete(e.watchers, id)
			close(w)
		}
	}
}

// Close cancels every subscription; once it returns no further batch is
// applied and all watcher channels are closed.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	cancels := e.cancels
	e.cancels = nil
	watchers := e.watchers
	e.watchers = make(map[int]chan string)
	e.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	for _, w := range watchers {
		close(w)
	}
}

func (e *Engine) applyBatch(collection string, ch store.Change) {
	e.view.apply(collection, ch)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	for _, w := range e.watchers {
		select {
		case w <- collection:
		default:
		}
	}
}

// subscriptionFailed reports a terminal subscription error exactly once;
// the engine does not retry, the view simply goes stale for that
// collection.
func (e *Engine) subscriptionFailed(ctx context.Context, key string, err error) {
	e.mu.Lock()
	if e.closed || e.failed[key] {
		e.mu.Unlock()
		return
	}
	e.failed[key] = true
	e.mu.Unlock()

	e.log.Error(ctx, "subscription entered failed state",
		zap.String("subscription", key),
		zap.Error(err),
	)
	e.sink.Notify(ctx, "Data Fetch Error",
		fmt.Sprintf("Live updates for %s stopped: %v", key, err),
		notify.SeverityError,
	)
}
