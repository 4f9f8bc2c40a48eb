package blobstore

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/time/rate"
)

// writeChunkSize is the granularity at which rate-limited writes are paced.
const writeChunkSize = 32 * 1024

// LocalStore implements BlobStore on the local file system.
//
// Writes go to a temp file in the target directory and are renamed into
// place, so readers never observe partial snapshots.
type LocalStore struct {
	root    string
	limiter *rate.Limiter
}

// LocalOption configures a LocalStore.
type LocalOption func(*LocalStore)

// WithWriteLimit caps Put throughput at bytesPerSec.
// Values <= 0 leave writes unlimited.
func WithWriteLimit(bytesPerSec int) LocalOption {
	return func(s *LocalStore) {
		if bytesPerSec <= 0 {
			return
		}
		// The burst must cover a full write chunk: WaitN fails outright
		// whenever n exceeds the burst, regardless of how long the caller
		// is willing to wait.
		burst := bytesPerSec
		if burst < writeChunkSize {
			burst = writeChunkSize
		}
		s.limiter = rate.NewLimiter(rate.Limit(bytesPerSec), burst)
	}
}

// NewLocalStore creates a LocalStore rooted at the given directory.
func NewLocalStore(root string, opts ...LocalOption) *LocalStore {
	s := &LocalStore{root: root}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LocalStore) path(name string) string {
	return filepath.Join(s.root, filepath.FromSlash(name))
}

// Put writes a blob atomically.
func (s *LocalStore) Put(ctx context.Context, name string, data []byte) error {
	path := s.path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := s.write(ctx, tmp, data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

func (s *LocalStore) write(ctx context.Context, f *os.File, data []byte) error {
	if s.limiter == nil {
		_, err := f.Write(data)
		return err
	}

	for len(data) > 0 {
		n := writeChunkSize
		if n > len(data) {
			n = len(data)
		}
		if err := s.limiter.WaitN(ctx, n); err != nil {
			return err
		}
		if _, err := f.Write(data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// Get returns the full contents of a blob.
func (s *LocalStore) Get(_ context.Context, name string) ([]byte, error) {
	return os.ReadFile(s.path(name))
}

// Delete removes a blob.
func (s *LocalStore) Delete(_ context.Context, name string) error {
	err := os.Remove(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// List returns all blob names with the given prefix, sorted.
func (s *LocalStore) List(_ context.Context, prefix string) ([]string, error) {
	var names []string

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(names)
	return names, nil
}
