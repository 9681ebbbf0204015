package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/nazmulrahman/young-star-app/internal/errdefs"
)

// MemoryStore is an embedded DocumentStore used by tests and local
// development. Subscriptions are dispatched synchronously in the mutating
// call, so every write is observed by listeners before the write returns.
type MemoryStore struct {
	mu     sync.Mutex
	schema SchemaFunc
	data   map[string]map[string]Fields
	subs   map[string][]*memSub
}

type memSub struct {
	filter   Filter
	onChange ChangeHandler

	mu      sync.Mutex
	closed  bool
	matched map[string]bool
}

func NewMemoryStore(schema SchemaFunc) *MemoryStore {
	return &MemoryStore{
		schema: schema,
		data:   make(map[string]map[string]Fields),
		subs:   make(map[string][]*memSub),
	}
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fields, ok := s.data[collection][id]
	if !ok {
		return Document{}, fmt.Errorf("%w: %s/%s", errdefs.ErrNotFound, collection, id)
	}
	return Document{ID: id, Fields: fields.Clone()}, nil
}

func (s *MemoryStore) Create(ctx context.Context, collection string, fields Fields) (string, error) {
	id := newID()
	if err := s.Put(ctx, collection, id, fields); err != nil {
		return "", err
	}
	return id, nil
}

func (s *MemoryStore) Put(ctx context.Context, collection, id string, fields Fields) error {
	if err := s.schema(collection, fields); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data[collection] == nil {
		s.data[collection] = make(map[string]Fields)
	}
	s.data[collection][id] = fields.Clone()
	s.dispatchUpsert(collection, Document{ID: id, Fields: fields.Clone()})
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, fields Fields) error {
	if err := s.schema(collection, fields); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.data[collection][id]
	if !ok {
		return fmt.Errorf("%w: %s/%s", errdefs.ErrNotFound, collection, id)
	}
	for k, v := range fields.Clone() {
		existing[k] = v
	}
	s.dispatchUpsert(collection, Document{ID: id, Fields: existing.Clone()})
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[collection][id]; !ok {
		return fmt.Errorf("%w: %s/%s", errdefs.ErrNotFound, collection, id)
	}
	delete(s.data[collection], id)
	s.dispatchDelete(collection, id)
	return nil
}

func (s *MemoryStore) Query(ctx context.Context, collection string, filter Filter) ([]Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Document
	for id, fields := range s.data[collection] {
		doc := Document{ID: id, Fields: fields}
		if filter.Matches(doc) {
			out = append(out, doc.Clone())
		}
	}
	return out, nil
}

func (s *MemoryStore) Subscribe(ctx context.Context, collection string, filter Filter, onChange ChangeHandler, onErr ErrorHandler) (Unsubscribe, error) {
	sub := &memSub{
		filter:   filter,
		onChange: onChange,
		matched:  make(map[string]bool),
	}

	s.mu.Lock()
	initial := Change{}
	for id, fields := range s.data[collection] {
		doc := Document{ID: id, Fields: fields}
		if filter.Matches(doc) {
			sub.matched[id] = true
			initial.Added = append(initial.Added, doc.Clone())
		}
	}
	s.subs[collection] = append(s.subs[collection], sub)
	sub.deliver(initial)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		sub.mu.Lock()
		sub.closed = true
		sub.mu.Unlock()
		s.subs[collection] = slices.DeleteFunc(s.subs[collection], func(x *memSub) bool { return x == sub })
	}, nil
}

// dispatchUpsert runs with s.mu held; filter transitions decide whether a
// subscriber sees the write as an add, a modify, or a removal from view.
func (s *MemoryStore) dispatchUpsert(collection string, doc Document) {
	for _, sub := range s.subs[collection] {
		matches := sub.filter.Matches(doc)
		was := sub.matched[doc.ID]
		var ch Change
		switch {
		case matches && !was:
			sub.matched[doc.ID] = true
			ch.Added = append(ch.Added, doc.Clone())
		case matches && was:
			ch.Modified = append(ch.Modified, doc.Clone())
		case !matches && was:
			delete(sub.matched, doc.ID)
			ch.Removed = append(ch.Removed, doc.ID)
		default:
			continue
		}
		sub.deliver(ch)
	}
}

func (s *MemoryStore) dispatchDelete(collection, id string) {
	for _, sub := range s.subs[collection] {
		if !sub.matched[id] {
			continue
		}
		delete(sub.matched, id)
		sub.deliver(Change{Removed: []string{id}})
	}
}

func (sub *memSub) deliver(ch Change) {
	if ch.Empty() {
		return
	}
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.closed {
		return
	}
	sub.onChange(ch)
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
