// Package redis provides a Redis-backed snapshot store.
//
// All snapshots live in a single Redis hash (default key
// "bubblecloud:snapshots") mapping names to JSON documents, so listing is a
// single HKEYS call and several hosts can share one set of saved clouds.
package redis

import (
	"context"
	stderrors "errors"
	"slices"

	goredis "github.com/redis/go-redis/v9"

	"github.com/matzehuels/bubblecloud/pkg/errors"
	"github.com/matzehuels/bubblecloud/pkg/observability"
	"github.com/matzehuels/bubblecloud/pkg/snapshot"
	"github.com/matzehuels/bubblecloud/pkg/store"
)

// DefaultKey is the hash key used when Config.Key is empty.
const DefaultKey = "bubblecloud:snapshots"

// Config holds the connection settings.
type Config struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Key      string `toml:"key"`
}

// Store implements store.Store on a Redis hash.
type Store struct {
	client goredis.UniversalClient
	key    string
}

// New connects to Redis and verifies the connection with PING.
func New(ctx context.Context, cfg Config) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to redis at %s", cfg.Addr)
	}
	return NewWithClient(client, cfg.Key), nil
}

// NewWithClient wraps an existing client. An empty key selects DefaultKey.
func NewWithClient(client goredis.UniversalClient, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{client: client, key: key}
}

// Save stores the snapshot JSON in the hash field name.
func (s *Store) Save(ctx context.Context, name string, snap snapshot.Snapshot) (err error) {
	var size int
	defer func() { observability.Store().OnSave(ctx, "redis", name, size, err) }()

	if err := errors.ValidateName(name); err != nil {
		return err
	}
	data, err := snapshot.Marshal(snap)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "encode snapshot %s", name)
	}
	size = len(data)
	if err := s.client.HSet(ctx, s.key, name, data).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "save snapshot %s", name)
	}
	return nil
}

// Load reads the hash field name.
func (s *Store) Load(ctx context.Context, name string) (snap snapshot.Snapshot, err error) {
	found := false
	defer func() { observability.Store().OnLoad(ctx, "redis", name, found, err) }()

	if err := errors.ValidateName(name); err != nil {
		return snapshot.Snapshot{}, err
	}
	data, err := s.client.HGet(ctx, s.key, name).Bytes()
	if stderrors.Is(err, goredis.Nil) {
		return snapshot.Snapshot{}, store.NotFound(name)
	}
	if err != nil {
		return snapshot.Snapshot{}, errors.Wrap(errors.ErrCodeStore, err, "load snapshot %s", name)
	}
	found = true
	return snapshot.Unmarshal(data)
}

// List returns the hash field names.
func (s *Store) List(ctx context.Context) ([]string, error) {
	names, err := s.client.HKeys(ctx, s.key).Result()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list snapshots")
	}
	slices.Sort(names)
	return names, nil
}

// Delete removes the hash field name.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := errors.ValidateName(name); err != nil {
		return err
	}
	if err := s.client.HDel(ctx, s.key, name).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "delete snapshot %s", name)
	}
	return nil
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}

var _ store.Store = (*Store)(nil)
