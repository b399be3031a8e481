package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/bubblecloud/pkg/geom"
	"github.com/matzehuels/bubblecloud/pkg/snapshot"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if data, ok, err := c.Get(ctx, "key"); ok || data != nil || err != nil {
		t.Errorf("Get = %q, %v, %v; want miss", data, ok, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, ok, err := c.Get(ctx, "missing"); ok || err != nil {
		t.Errorf("Get(missing) = %v, %v", ok, err)
	}

	if err := c.Set(ctx, "key", []byte("<svg/>"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, ok, err := c.Get(ctx, "key")
	if err != nil || !ok || string(data) != "<svg/>" {
		t.Errorf("Get = %q, %v, %v", data, ok, err)
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "key"); ok {
		t.Error("entry survived Delete")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete twice: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, ok, _ := c.Get(ctx, "short"); ok {
		t.Error("expired entry returned")
	}
	if _, err := os.Stat(c.path("short")); !os.IsNotExist(err) {
		t.Error("expired entry not removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path := c.path("key")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, ok, err := c.Get(ctx, "key"); ok || err != nil {
		t.Errorf("Get(corrupt) = %v, %v; want miss", ok, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	if _, ok, _ := c.Get(ctx, "a"); ok {
		t.Error("entry survived Clear")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length = %d, want 64", len(h1))
	}
}

func TestSnapshotHashIgnoresCaptureTime(t *testing.T) {
	snap := snapshot.Snapshot{
		Version: snapshot.Version,
		Size:    geom.Size{Width: 300, Height: 600},
		Nodes:   []snapshot.Node{{ID: "a", X: 10, Y: 20, Radius: 30}},
	}
	later := snap
	later.CapturedAt = time.Now()
	if SnapshotHash(snap) != SnapshotHash(later) {
		t.Error("capture time changed the hash")
	}

	moved := snap
	moved.Nodes = []snapshot.Node{{ID: "a", X: 11, Y: 20, Radius: 30}}
	if SnapshotHash(snap) == SnapshotHash(moved) {
		t.Error("moving a node did not change the hash")
	}
}

func TestArtifactKey(t *testing.T) {
	svg := ArtifactKey("abc", ArtifactKeyOpts{Format: "svg"})
	if svg != ArtifactKey("abc", ArtifactKeyOpts{Format: "svg"}) {
		t.Error("ArtifactKey should be deterministic")
	}
	for _, opts := range []ArtifactKeyOpts{
		{Format: "png"},
		{Format: "svg", Theme: "dark"},
		{Format: "svg", Contacts: true},
		{Format: "svg", NoLabels: true},
	} {
		if ArtifactKey("abc", opts) == svg {
			t.Errorf("options %+v share a key with plain svg", opts)
		}
	}
	if ArtifactKey("def", ArtifactKeyOpts{Format: "svg"}) == svg {
		t.Error("different snapshots share a key")
	}
}
