package snapshot

import (
	"context"
	"errors"
	"fmt"
	"path"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/hupe1980/kmpar/blobstore"
	"github.com/hupe1980/kmpar/codec"
	"github.com/hupe1980/kmpar/internal/compress"
	"github.com/hupe1980/kmpar/model"
)

const (
	// CurrentFileName names the pointer blob of a destination.
	CurrentFileName = "CURRENT"

	filePrefix = "model-"
	fileSuffix = ".snap"
)

// Options configures a Store.
type Options struct {
	// Codec encodes the model. Defaults to codec.Default.
	Codec codec.Codec
	// Compression is applied to the encoded model. Defaults to ZSTD.
	Compression compress.Type
}

// Store writes versioned snapshots.
// It is safe for concurrent use.
type Store struct {
	store blobstore.BlobStore
	opts  Options

	mu  sync.Mutex
	seq map[string]uint64 // last written version per destination
}

// New creates a snapshot store on top of store.
func New(store blobstore.BlobStore, optFns ...func(o *Options)) *Store {
	opts := Options{
		Codec:       codec.Default,
		Compression: compress.ZSTD,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Codec == nil {
		opts.Codec = codec.Default
	}

	return &Store{
		store: store,
		opts:  opts,
		seq:   make(map[string]uint64),
	}
}

// Snapshot writes m as the newest version of dest and points CURRENT at it.
func (s *Store) Snapshot(ctx context.Context, dest string, m *model.Model) error {
	data, err := Encode(m, s.opts.Codec, s.opts.Compression)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seq, ok := s.seq[dest]
	if !ok {
		versions, err := s.versions(ctx, dest)
		if err != nil {
			return err
		}
		if len(versions) > 0 {
			seq = versions[len(versions)-1]
		}
	}
	seq++

	filename := versionName(seq)
	if err := s.store.Put(ctx, path.Join(dest, filename), data); err != nil {
		return fmt.Errorf("snapshot %s: %w", dest, err)
	}
	if err := s.store.Put(ctx, path.Join(dest, CurrentFileName), []byte(filename)); err != nil {
		return fmt.Errorf("snapshot %s: %w", dest, err)
	}

	s.seq[dest] = seq
	return nil
}

// Prune deletes all but the newest keep versions of dest. The version named
// by CURRENT is never deleted.
func (s *Store) Prune(ctx context.Context, dest string, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	versions, err := s.versions(ctx, dest)
	if err != nil {
		return err
	}
	current, err := readCurrent(ctx, s.store, dest)
	if err != nil && !errors.Is(err, blobstore.ErrNotFound) {
		return err
	}

	keep = max(keep, 0)
	for i := 0; i < len(versions)-keep; i++ {
		filename := versionName(versions[i])
		if filename == current {
			continue
		}
		if err := s.store.Delete(ctx, path.Join(dest, filename)); err != nil {
			return fmt.Errorf("prune %s: %w", dest, err)
		}
	}
	return nil
}

// Versions returns the stored version numbers of dest in ascending order.
func (s *Store) Versions(ctx context.Context, dest string) ([]uint64, error) {
	return s.versions(ctx, dest)
}

func (s *Store) versions(ctx context.Context, dest string) ([]uint64, error) {
	names, err := s.store.List(ctx, path.Join(dest, filePrefix))
	if err != nil {
		return nil, err
	}

	var out []uint64
	for _, name := range names {
		if path.Dir(name) != path.Clean(dest) {
			continue
		}
		if seq, ok := parseVersion(path.Base(name)); ok {
			out = append(out, seq)
		}
	}
	slices.Sort(out)
	return out, nil
}

// Load reads the model CURRENT points at.
func Load(ctx context.Context, store blobstore.BlobStore, dest string) (*model.Model, error) {
	filename, err := readCurrent(ctx, store, dest)
	if err != nil {
		return nil, err
	}

	data, err := blobstore.Get(ctx, store, path.Join(dest, filename))
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

func readCurrent(ctx context.Context, store blobstore.BlobStore, dest string) (string, error) {
	data, err := blobstore.Get(ctx, store, path.Join(dest, CurrentFileName))
	if err != nil {
		return "", err
	}
	filename := strings.TrimSpace(string(data))
	if _, ok := parseVersion(filename); !ok {
		return "", fmt.Errorf("%w: bad pointer %q", ErrCorrupt, filename)
	}
	return filename, nil
}

func versionName(seq uint64) string {
	return fmt.Sprintf("%s%08d%s", filePrefix, seq, fileSuffix)
}

func parseVersion(filename string) (uint64, bool) {
	if !strings.HasPrefix(filename, filePrefix) || !strings.HasSuffix(filename, fileSuffix) {
		return 0, false
	}
	digits := strings.TrimSuffix(strings.TrimPrefix(filename, filePrefix), fileSuffix)
	seq, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return seq, true
}
