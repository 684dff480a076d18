// Package cache provides a small key/value cache for chart scenes and
// rendered artifacts.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for multi-instance API deployments
//   - [NullCache]: caching disabled
//
// Keys are built by a [Keyer] so callers never format them by hand:
//
//	k := cache.NewDefaultKeyer()
//	key := k.SceneKey(cache.Hash(payloadJSON), cache.SceneKeyOpts{Theme: themeHash})
//	if data, hit, err := c.Get(ctx, key); err == nil && hit {
//	    // use data
//	}
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Default time-to-live values per entry type.
const (
	TTLScene    = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache stores opaque byte values under string keys.
// A ttl of zero means the entry does not expire.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// SceneKeyOpts holds the inputs besides the payload that change a scene.
type SceneKeyOpts struct {
	Theme  string `json:"theme,omitempty"` // Theme content hash
	Engine string `json:"engine,omitempty"`
}

// ArtifactKeyOpts holds the inputs besides the scene that change an
// artifact.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Scale  float64 `json:"scale,omitempty"`
	Engine string  `json:"engine,omitempty"`
	Flags  string  `json:"flags,omitempty"` // Sink switches, e.g. "hover,ids"
}

// Keyer builds cache keys.
type Keyer interface {
	// SceneKey keys a built scene by payload hash and build options.
	SceneKey(payloadHash string, opts SceneKeyOpts) string
	// ArtifactKey keys a rendered artifact by scene hash and render options.
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard [Keyer]. Option structs are hashed, so
// keys stay short whatever the options contain.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SceneKey implements [Keyer].
func (DefaultKeyer) SceneKey(payloadHash string, opts SceneKeyOpts) string {
	return hashKey("scene", payloadHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, sceneHash, opts)
}

// hashKey returns prefix + ":" + the SHA-256 of parts encoded as JSON.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
