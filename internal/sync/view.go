package sync

import (
	"sort"
	"sync"
	"time"

	"github.com/nazmulrahman/young-star-app/internal/store"
)

type entry struct {
	doc store.Document
	// seq is assigned when a document first enters the view and kept on
	// later modifications; it breaks ordering ties by arrival order.
	seq uint64
}

// View is the authoritative in-memory projection of the synced
// collections. It is mutated only through apply (by the subscription
// manager), one whole batch at a time: readers never observe a
// half-applied batch.
type View struct {
	mu          sync.RWMutex
	seq         uint64
	collections map[string]map[string]entry
}

func NewView() *View {
	return &View{collections: make(map[string]map[string]entry)}
}

func (v *View) Get(collection, id string) (store.Document, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	e, ok := v.collections[collection][id]
	if !ok {
		return store.Document{}, false
	}
	return e.doc.Clone(), true
}

func (v *View) List(collection string, pred func(store.Document) bool) []store.Document {
	v.mu.RLock()
	defer v.mu.RUnlock()

	entries := v.sortedLocked(collection)
	out := make([]store.Document, 0, len(entries))
	for _, e := range entries {
		if pred == nil || pred(e.doc) {
			out = append(out, e.doc.Clone())
		}
	}
	return out
}

func (v *View) Len(collection string) int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.collections[collection])
}

func (v *View) apply(collection string, ch store.Change) {
	v.mu.Lock()
	defer v.mu.Unlock()

	docs := v.collections[collection]
	if docs == nil {
		docs = make(map[string]entry)
		v.collections[collection] = docs
	}
	upsert := func(doc store.Document) {
		if e, ok := docs[doc.ID]; ok {
			// Last value wins on id collision; arrival order sticks.
			e.doc = doc.Clone()
			docs[doc.ID] = e
			return
		}
		v.seq++
		docs[doc.ID] = entry{doc: doc.Clone(), seq: v.seq}
	}
	for _, doc := range ch.Added {
		upsert(doc)
	}
	for _, doc := range ch.Modified {
		upsert(doc)
	}
	for _, id := range ch.Removed {
		delete(docs, id)
	}
}

// sortedLocked orders a collection by its time field ascending, arrival
// order breaking ties; requires at least a read lock.
func (v *View) sortedLocked(collection string) []entry {
	docs := v.collections[collection]
	out := make([]entry, 0, len(docs))
	for _, e := range docs {
		out = append(out, e)
	}
	field := timeField(collection)
	sort.SliceStable(out, func(i, j int) bool {
		ti, _ := out[i].doc.Fields[field].(time.Time)
		tj, _ := out[j].doc.Fields[field].(time.Time)
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return out[i].seq < out[j].seq
	})
	return out
}

func timeField(collection string) string {
	switch collection {
	case "messages":
		return "timestamp"
	case "submissions":
		return "submittedAt"
	case "instructorApplications":
		return "appliedAt"
	default:
		return "createdAt"
	}
}
