package persistence

import (
	"bytes"
	"context"
	"fmt"

	"github.com/hupe1980/featgo/blobstore"
	"github.com/hupe1980/featgo/codec"
)

// Manager saves and loads feature snapshots through a blob store.
type Manager struct {
	store       blobstore.BlobStore
	codec       codec.Codec
	compression Compression
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithCodec configures the header codec used for newly written snapshots.
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) ManagerOption {
	return func(m *Manager) {
		if c == nil {
			c = codec.Default
		}
		m.codec = c
	}
}

// WithCompression configures the payload compression for newly written
// snapshots. Reads always honor the compression recorded in the file.
func WithCompression(c Compression) ManagerOption {
	return func(m *Manager) {
		m.compression = c
	}
}

// NewManager creates a Manager on top of the given blob store.
// The default is the go-json header codec with LZ4 payload compression.
func NewManager(store blobstore.BlobStore, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:       store,
		codec:       codec.Default,
		compression: CompressionLZ4,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Save writes a snapshot blob under the given name.
func (m *Manager) Save(ctx context.Context, name string, snap *Snapshot) error {
	data, err := Bytes(snap, m.codec, m.compression)
	if err != nil {
		return fmt.Errorf("encode snapshot %q: %w", name, err)
	}
	if err := m.store.Put(ctx, name, data); err != nil {
		return fmt.Errorf("put snapshot %q: %w", name, err)
	}
	return nil
}

// Load reads and verifies the snapshot blob with the given name.
func (m *Manager) Load(ctx context.Context, name string) (*Snapshot, error) {
	data, err := m.store.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get snapshot %q: %w", name, err)
	}
	snap, err := Read(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode snapshot %q: %w", name, err)
	}
	return snap, nil
}
