// Package session owns the per-identity sync engines: one live engine per
// signed-in principal, created on first use and torn down on logout or
// after sitting idle.
package session

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/nazmulrahman/young-star-app/internal/authz"
	"github.com/nazmulrahman/young-star-app/internal/notify"
	"github.com/nazmulrahman/young-star-app/internal/store"
	syncengine "github.com/nazmulrahman/young-star-app/internal/sync"
	"github.com/nazmulrahman/young-star-app/pkg/logging"

	gosync "sync"
)

type entry struct {
	engine   *syncengine.Engine
	identity authz.Identity
	lastSeen time.Time
}

type Registry struct {
	st      store.DocumentStore
	sink    notify.Sink
	log     *logging.Logger
	idleTTL time.Duration

	mu       gosync.Mutex
	closed   bool
	sessions map[string]*entry
}

func NewRegistry(st store.DocumentStore, sink notify.Sink, log *logging.Logger, idleTTL time.Duration) *Registry {
	return &Registry{
		st:       st,
		sink:     sink,
		log:      log,
		idleTTL:  idleTTL,
		sessions: make(map[string]*entry),
	}
}

// Engine returns the live engine for the identity, opening one on first
// use. A role change (approval, for instance) discards the old engine so
// the subscriptions reopen with the new scope.
func (r *Registry) Engine(ctx context.Context, id authz.Identity) (*syncengine.Engine, error) {
	r.mu.Lock()
	if e, ok := r.sessions[id.ID]; ok && e.identity == id {
		e.lastSeen = time.Now()
		engine := e.engine
		r.mu.Unlock()
		return engine, nil
	}
	stale, hadStale := r.sessions[id.ID]
	delete(r.sessions, id.ID)
	r.mu.Unlock()

	if hadStale {
		stale.engine.Close()
	}

	engine, err := syncengine.Open(ctx, r.st, id, r.sink, r.log)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		engine.Close()
		return nil, context.Canceled
	}
	// A concurrent request may have won the race; keep the first engine.
	if e, ok := r.sessions[id.ID]; ok && e.identity == id {
		go engine.Close()
		e.lastSeen = time.Now()
		return e.engine, nil
	}
	r.sessions[id.ID] = &entry{engine: engine, identity: id, lastSeen: time.Now()}
	return engine, nil
}

// Drop closes the identity's engine; used on logout and profile deletion.
func (r *Registry) Drop(id string) {
	r.mu.Lock()
	e, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		e.engine.Close()
	}
}

// Run sweeps idle engines until ctx is cancelled.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.idleTTL / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *Registry) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-r.idleTTL)

	r.mu.Lock()
	var idle []*entry
	for id, e := range r.sessions {
		if e.lastSeen.Before(cutoff) {
			idle = append(idle, e)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, e := range idle {
		e.engine.Close()
		r.log.Info(ctx, "closed idle session engine", zap.String("user_id", e.identity.ID))
	}
}

func (r *Registry) Shutdown() {
	r.mu.Lock()
	r.closed = true
	sessions := r.sessions
	r.sessions = make(map[string]*entry)
	r.mu.Unlock()

	for _, e := range sessions {
		e.engine.Close()
	}
}
