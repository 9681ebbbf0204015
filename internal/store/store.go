// Package store defines the collection-oriented persistence contract the
// sync engine is written against, together with an in-memory backend used
// by tests and a MongoDB backend used in production.
package store

import (
	"context"
	"reflect"
	"slices"
	"time"
)

// Fields is the mutable field set of a document. Field names are the wire
// names of the collection schema; values are strings, numbers, bools,
// time.Time, []string or nil.
type Fields map[string]any

func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		if ss, ok := v.([]string); ok {
			out[k] = slices.Clone(ss)
			continue
		}
		out[k] = v
	}
	return out
}

type Document struct {
	ID     string
	Fields Fields
}

func (d Document) Clone() Document {
	return Document{ID: d.ID, Fields: d.Fields.Clone()}
}

// Filter is the narrow query language the engine needs: exact field
// equality, membership of a value in a string-set field, and an explicit
// id allow-list. A zero Filter matches every document.
type Filter struct {
	IDs      []string
	Eq       map[string]any
	Contains map[string]string
}

func (f Filter) Matches(doc Document) bool {
	if f.IDs != nil && !slices.Contains(f.IDs, doc.ID) {
		return false
	}
	for field, want := range f.Eq {
		if !valueEqual(doc.Fields[field], want) {
			return false
		}
	}
	for field, member := range f.Contains {
		set, ok := doc.Fields[field].([]string)
		if !ok || !slices.Contains(set, member) {
			return false
		}
	}
	return true
}

func valueEqual(got, want any) bool {
	if gt, ok := got.(time.Time); ok {
		wt, ok := want.(time.Time)
		return ok && gt.Equal(wt)
	}
	return reflect.DeepEqual(got, want)
}

// Change is one atomic batch of updates observed on a subscription.
type Change struct {
	Added    []Document
	Modified []Document
	Removed  []string
}

func (c Change) Empty() bool {
	return len(c.Added) == 0 && len(c.Modified) == 0 && len(c.Removed) == 0
}

type (
	ChangeHandler func(Change)
	ErrorHandler  func(error)

	// Unsubscribe stops the subscription. Once it returns no further
	// handler invocations occur.
	Unsubscribe func()
)

// SchemaFunc validates a field set against the collection schema before a
// write is accepted. Unknown fields are rejected rather than merged.
type SchemaFunc func(collection string, fields Fields) error

// DocumentStore is the minimal backend contract: any compliant store
// (embedded, networked, in-memory) can back the engine.
type DocumentStore interface {
	Get(ctx context.Context, collection, id string) (Document, error)
	// Create inserts a document under a fresh server-assigned id.
	Create(ctx context.Context, collection string, fields Fields) (string, error)
	// Put replaces (or inserts) the document with the given id.
	Put(ctx context.Context, collection, id string, fields Fields) error
	// Update merges fields into an existing document.
	Update(ctx context.Context, collection, id string, fields Fields) error
	Delete(ctx context.Context, collection, id string) error
	Query(ctx context.Context, collection string, filter Filter) ([]Document, error)
	// Subscribe delivers the current matching set as an initial Added
	// batch, then incremental changes. A subscription error is reported
	// once through onErr and the subscription is terminal afterwards.
	Subscribe(ctx context.Context, collection string, filter Filter, onChange ChangeHandler, onErr ErrorHandler) (Unsubscribe, error)
}
