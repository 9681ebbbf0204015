package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/nazmulrahman/young-star-app/internal/errdefs"
	"github.com/nazmulrahman/young-star-app/pkg/logging"
)

// MongoStore backs the engine with MongoDB; change streams implement
// Subscribe. Requires a replica-set deployment (change streams are not
// available on standalone servers).
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	schema SchemaFunc
	log    *logging.Logger
}

func NewMongoStore(ctx context.Context, uri, dbName string, schema SchemaFunc, log *logging.Logger) (*MongoStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %v", errdefs.ErrTransport, err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("%w: ping: %v", errdefs.ErrTransport, err)
	}
	log.Info(ctx, "connected to mongodb", zap.String("database", dbName))

	return &MongoStore{
		client: client,
		db:     client.Database(dbName),
		schema: schema,
		log:    log,
	}, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes declares the indexes the engine's filtered lookups rely
// on. The compound unique index on submissions is the backstop for the
// at-most-one-per-(task,student) invariant should a non-deterministic id
// ever be written.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	submissionIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "taskId", Value: 1}, {Key: "studentId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := s.db.Collection("submissions").Indexes().CreateOne(ctx, submissionIdx); err != nil {
		return fmt.Errorf("%w: submissions index: %v", errdefs.ErrTransport, err)
	}

	simple := map[string]string{
		"messages":               "senderId",
		"notes":                  "studentId",
		"instructorApplications": "status",
	}
	for coll, field := range simple {
		idx := mongo.IndexModel{Keys: bson.D{{Key: field, Value: 1}}}
		if _, err := s.db.Collection(coll).Indexes().CreateOne(ctx, idx); err != nil {
			return fmt.Errorf("%w: %s index: %v", errdefs.ErrTransport, coll, err)
		}
	}
	idx := mongo.IndexModel{Keys: bson.D{{Key: "receiverId", Value: 1}}}
	if _, err := s.db.Collection("messages").Indexes().CreateOne(ctx, idx); err != nil {
		return fmt.Errorf("%w: messages index: %v", errdefs.ErrTransport, err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, collection, id string) (Document, error) {
	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if err == mongo.ErrNoDocuments {
		return Document{}, fmt.Errorf("%w: %s/%s", errdefs.ErrNotFound, collection, id)
	}
	if err != nil {
		return Document{}, fmt.Errorf("%w: get %s/%s: %v", errdefs.ErrTransport, collection, id, err)
	}
	return Document{ID: id, Fields: fieldsFromBSON(raw)}, nil
}

func (s *MongoStore) Create(ctx context.Context, collection string, fields Fields) (string, error) {
	id := newID()
	if err := s.Put(ctx, collection, id, fields); err != nil {
		return "", err
	}
	return id, nil
}

func (s *MongoStore) Put(ctx context.Context, collection, id string, fields Fields) error {
	if err := s.schema(collection, fields); err != nil {
		return err
	}
	doc := bsonFromFields(fields)
	doc["_id"] = id
	_, err := s.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s/%s", errdefs.ErrConflict, collection, id)
	}
	if err != nil {
		return fmt.Errorf("%w: put %s/%s: %v", errdefs.ErrTransport, collection, id, err)
	}
	return nil
}

func (s *MongoStore) Update(ctx context.Context, collection, id string, fields Fields) error {
	if err := s.schema(collection, fields); err != nil {
		return err
	}
	res, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bsonFromFields(fields)})
	if err != nil {
		return fmt.Errorf("%w: update %s/%s: %v", errdefs.ErrTransport, collection, id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: %s/%s", errdefs.ErrNotFound, collection, id)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("%w: delete %s/%s: %v", errdefs.ErrTransport, collection, id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: %s/%s", errdefs.ErrNotFound, collection, id)
	}
	return nil
}

func (s *MongoStore) Query(ctx context.Context, collection string, filter Filter) ([]Document, error) {
	cur, err := s.db.Collection(collection).Find(ctx, bsonFromFilter(filter))
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %v", errdefs.ErrTransport, collection, err)
	}
	defer cur.Close(ctx)

	var out []Document
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: decode %s: %v", errdefs.ErrTransport, collection, err)
		}
		id, _ := raw["_id"].(string)
		out = append(out, Document{ID: id, Fields: fieldsFromBSON(raw)})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%w: cursor %s: %v", errdefs.ErrTransport, collection, err)
	}
	return out, nil
}

type mongoSub struct {
	filter   Filter
	onChange ChangeHandler
	onErr    ErrorHandler

	mu      sync.Mutex
	closed  bool
	matched map[string]bool
}

func (s *MongoStore) Subscribe(ctx context.Context, collection string, filter Filter, onChange ChangeHandler, onErr ErrorHandler) (Unsubscribe, error) {
	streamCtx, cancel := context.WithCancel(context.Background())

	// The stream is opened before the snapshot query so no write falls in
	// between; a snapshot document replayed by the stream degrades to a
	// Modified entry via the matched-id set.
	cs, err := s.db.Collection(collection).Watch(streamCtx, mongo.Pipeline{},
		options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: watch %s: %v", errdefs.ErrTransport, collection, err)
	}

	snapshot, err := s.Query(ctx, collection, filter)
	if err != nil {
		cancel()
		cs.Close(context.Background())
		return nil, err
	}

	sub := &mongoSub{
		filter:   filter,
		onChange: onChange,
		onErr:    onErr,
		matched:  make(map[string]bool),
	}
	initial := Change{}
	for _, doc := range snapshot {
		sub.matched[doc.ID] = true
		initial.Added = append(initial.Added, doc)
	}
	sub.deliver(initial)

	go sub.loop(streamCtx, collection, cs, s.log)

	return func() {
		sub.mu.Lock()
		sub.closed = true
		sub.mu.Unlock()
		cancel()
	}, nil
}

func (sub *mongoSub) loop(ctx context.Context, collection string, cs *mongo.ChangeStream, log *logging.Logger) {
	defer cs.Close(context.Background())

	for cs.Next(ctx) {
		var ev struct {
			OperationType string `bson:"operationType"`
			DocumentKey   struct {
				ID string `bson:"_id"`
			} `bson:"documentKey"`
			FullDocument bson.M `bson:"fullDocument"`
		}
		if err := cs.Decode(&ev); err != nil {
			log.Warn(ctx, "change stream decode failed", zap.String("collection", collection), zap.Error(err))
			continue
		}
		sub.deliver(sub.changeFor(ev.OperationType, ev.DocumentKey.ID, ev.FullDocument))
	}

	if err := cs.Err(); err != nil && ctx.Err() == nil {
		sub.fail(fmt.Errorf("%w: stream %s: %v", errdefs.ErrTransport, collection, err))
	}
}

func (sub *mongoSub) changeFor(op, id string, full bson.M) Change {
	var ch Change
	switch op {
	case "insert", "update", "replace":
		if full == nil {
			return ch
		}
		doc := Document{ID: id, Fields: fieldsFromBSON(full)}
		matches := sub.filter.Matches(doc)
		was := sub.matched[id]
		switch {
		case matches && !was:
			sub.matched[id] = true
			ch.Added = append(ch.Added, doc)
		case matches && was:
			ch.Modified = append(ch.Modified, doc)
		case !matches && was:
			delete(sub.matched, id)
			ch.Removed = append(ch.Removed, id)
		}
	case "delete":
		if sub.matched[id] {
			delete(sub.matched, id)
			ch.Removed = append(ch.Removed, id)
		}
	}
	return ch
}

func (sub *mongoSub) deliver(ch Change) {
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

func (sub *mongoSub) fail(err error) {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.closed {
		return
	}
	sub.closed = true
	sub.onErr(err)
}

func bsonFromFields(fields Fields) bson.M {
	out := bson.M{}
	for k, v := range fields {
		out[k] = v
	}
	return out
}

func bsonFromFilter(f Filter) bson.M {
	out := bson.M{}
	if f.IDs != nil {
		out["_id"] = bson.M{"$in": f.IDs}
	}
	for k, v := range f.Eq {
		out[k] = v
	}
	// Mongo equality on an array field matches membership, which is
	// exactly the Contains semantics.
	for k, v := range f.Contains {
		out[k] = v
	}
	return out
}

func fieldsFromBSON(raw bson.M) Fields {
	out := Fields{}
	for k, v := range raw {
		if k == "_id" {
			continue
		}
		out[k] = normalizeBSON(v)
	}
	return out
}

func normalizeBSON(v any) any {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.A:
		ss := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return t
			}
			ss = append(ss, s)
		}
		return ss
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	default:
		return v
	}
}
