package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/bubblecloud/pkg/snapshot"
)

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// SnapshotHash hashes the drawable content of snap. The capture time is
// ignored so re-saving an unchanged cloud keeps its artifacts.
func SnapshotHash(snap snapshot.Snapshot) string {
	snap.CapturedAt = time.Time{}
	data, _ := json.Marshal(snap)
	return Hash(data)
}

// ArtifactKeyOpts are the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Theme    string  `json:"theme,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
	NoLabels bool    `json:"no_labels,omitempty"`
	Contacts bool    `json:"contacts,omitempty"`
	Detailed bool    `json:"detailed,omitempty"`
}

// ArtifactKey returns the cache key for a snapshot rendered with opts.
func ArtifactKey(snapshotHash string, opts ArtifactKeyOpts) string {
	data, _ := json.Marshal(opts)
	return fmt.Sprintf("artifact:%s:%s", snapshotHash, Hash(data))
}
