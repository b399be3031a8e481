package store

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/bubblecloud/pkg/errors"
	"github.com/matzehuels/bubblecloud/pkg/observability"
	"github.com/matzehuels/bubblecloud/pkg/snapshot"
)

const fileExt = ".json"

// FileStore keeps each snapshot as an indented JSON file in a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store in dir, creating the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "create store directory %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the storage directory.
func (s *FileStore) Dir() string { return s.dir }

// Save writes the snapshot to <dir>/<name>.json.
func (s *FileStore) Save(ctx context.Context, name string, snap snapshot.Snapshot) (err error) {
	var size int
	defer func() { observability.Store().OnSave(ctx, "file", name, size, err) }()

	if err := errors.ValidateName(name); err != nil {
		return err
	}
	data, err := snapshot.Marshal(snap)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "encode snapshot %s", name)
	}
	size = len(data)

	// Write then rename so readers never observe a partial file.
	tmp, err := os.CreateTemp(s.dir, "."+name+"-*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "save snapshot %s", name)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeStore, err, "save snapshot %s", name)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "save snapshot %s", name)
	}
	if err := os.Rename(tmp.Name(), s.path(name)); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "save snapshot %s", name)
	}
	return nil
}

// Load reads <dir>/<name>.json.
func (s *FileStore) Load(ctx context.Context, name string) (snap snapshot.Snapshot, err error) {
	found := false
	defer func() { observability.Store().OnLoad(ctx, "file", name, found, err) }()

	if err := errors.ValidateName(name); err != nil {
		return snapshot.Snapshot{}, err
	}
	data, err := os.ReadFile(s.path(name))
	if os.IsNotExist(err) {
		return snapshot.Snapshot{}, NotFound(name)
	}
	if err != nil {
		return snapshot.Snapshot{}, errors.Wrap(errors.ErrCodeStore, err, "load snapshot %s", name)
	}
	found = true
	return snapshot.Unmarshal(data)
}

// List returns the names of all stored snapshots.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list snapshots")
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, fileExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(name, fileExt))
	}
	slices.Sort(names)
	return names, nil
}

// Delete removes <dir>/<name>.json.
func (s *FileStore) Delete(ctx context.Context, name string) error {
	if err := errors.ValidateName(name); err != nil {
		return err
	}
	err := os.Remove(s.path(name))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "delete snapshot %s", name)
	}
	return nil
}

// Close does nothing for the file store.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+fileExt)
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
