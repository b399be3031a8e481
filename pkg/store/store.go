// Package store persists surface snapshots under user-chosen names.
//
// Three backends implement [Store]:
//   - [FileStore]: one JSON file per snapshot, for the CLI
//   - redis.Store: a Redis hash of snapshots, for shared deployments
//   - mongo.Store: a MongoDB collection keyed by name
//
// Names are validated with errors.ValidateName before reaching a backend.
package store

import (
	"context"
	stderrors "errors"

	"github.com/matzehuels/bubblecloud/pkg/errors"
	"github.com/matzehuels/bubblecloud/pkg/snapshot"
)

// ErrNotFound is returned when a named snapshot does not exist.
var ErrNotFound = stderrors.New("snapshot not found")

// Store is the interface for snapshot storage backends.
type Store interface {
	// Save stores snap under name, replacing any previous snapshot.
	Save(ctx context.Context, name string, snap snapshot.Snapshot) error

	// Load retrieves the snapshot stored under name.
	// Returns an error wrapping ErrNotFound if there is none.
	Load(ctx context.Context, name string) (snapshot.Snapshot, error)

	// List returns the stored names in lexical order.
	List(ctx context.Context) ([]string, error)

	// Delete removes the snapshot stored under name. Deleting a missing
	// snapshot is not an error.
	Delete(ctx context.Context, name string) error

	// Close releases backend resources.
	Close() error
}

// NotFound returns the error for a missing snapshot. It carries the
// SNAPSHOT_NOT_FOUND code and wraps ErrNotFound.
func NotFound(name string) error {
	return errors.Wrap(errors.ErrCodeSnapshotNotFound, ErrNotFound, "snapshot %s", name)
}

// IsNotFound reports whether err is a missing-snapshot error.
func IsNotFound(err error) bool {
	return stderrors.Is(err, ErrNotFound)
}
