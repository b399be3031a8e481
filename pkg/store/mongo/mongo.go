// Package mongo provides a MongoDB-backed snapshot store.
//
// Each snapshot is one document whose _id is the snapshot name:
//
//	{"_id": "picker", "snapshot": {...}, "updated_at": ISODate(...)}
package mongo

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/bubblecloud/pkg/errors"
	"github.com/matzehuels/bubblecloud/pkg/observability"
	"github.com/matzehuels/bubblecloud/pkg/snapshot"
	"github.com/matzehuels/bubblecloud/pkg/store"
)

// Defaults used when Config leaves them empty.
const (
	DefaultDatabase   = "bubblecloud"
	DefaultCollection = "snapshots"
)

// Config holds the connection settings.
type Config struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

type document struct {
	Name      string            `bson:"_id"`
	Snapshot  snapshot.Snapshot `bson:"snapshot"`
	UpdatedAt time.Time         `bson:"updated_at"`
}

// Store implements store.Store on a MongoDB collection.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// New connects to MongoDB and pings the primary.
func New(ctx context.Context, cfg Config) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping mongodb")
	}

	db, coll := cfg.Database, cfg.Collection
	if db == "" {
		db = DefaultDatabase
	}
	if coll == "" {
		coll = DefaultCollection
	}
	return &Store{client: client, coll: client.Database(db).Collection(coll)}, nil
}

// Save upserts the document for name.
func (s *Store) Save(ctx context.Context, name string, snap snapshot.Snapshot) (err error) {
	var size int
	defer func() { observability.Store().OnSave(ctx, "mongo", name, size, err) }()

	if err := errors.ValidateName(name); err != nil {
		return err
	}
	raw, err := encodeDocument(name, snap, time.Now().UTC())
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "encode snapshot %s", name)
	}
	size = len(raw)
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": name}, raw, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "save snapshot %s", name)
	}
	return nil
}

// encodeDocument returns the BSON document stored for name.
func encodeDocument(name string, snap snapshot.Snapshot, updated time.Time) (bson.Raw, error) {
	return bson.Marshal(document{Name: name, Snapshot: snap, UpdatedAt: updated})
}

// Load fetches the document for name.
func (s *Store) Load(ctx context.Context, name string) (snap snapshot.Snapshot, err error) {
	found := false
	defer func() { observability.Store().OnLoad(ctx, "mongo", name, found, err) }()

	if err := errors.ValidateName(name); err != nil {
		return snapshot.Snapshot{}, err
	}
	var doc document
	err = s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return snapshot.Snapshot{}, store.NotFound(name)
	}
	if err != nil {
		return snapshot.Snapshot{}, errors.Wrap(errors.ErrCodeStore, err, "load snapshot %s", name)
	}
	found = true
	if err := doc.Snapshot.Validate(); err != nil {
		return snapshot.Snapshot{}, err
	}
	return doc.Snapshot, nil
}

// List returns all document ids sorted ascending.
func (s *Store) List(ctx context.Context) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1}).SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list snapshots")
	}
	defer cur.Close(ctx)

	var names []string
	for cur.Next(ctx) {
		var doc struct {
			Name string `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "decode snapshot id")
		}
		names = append(names, doc.Name)
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list snapshots")
	}
	return names, nil
}

// Delete removes the document for name.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := errors.ValidateName(name); err != nil {
		return err
	}
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": name}); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "delete snapshot %s", name)
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ store.Store = (*Store)(nil)
