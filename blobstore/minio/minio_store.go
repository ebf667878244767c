package minio

import (
	"bytes"
	"context"
	"errors"
	"path"
	"slices"
	"strings"

	"github.com/hupe1980/kmpar/blobstore"
	"github.com/minio/minio-go/v7"
)

// Options configures a Store.
type Options struct {
	// ContentType is set on every uploaded object.
	ContentType string
	// PartSize is the multipart part size for large uploads. Zero lets the
	// client choose.
	PartSize uint64
}

// Store implements blobstore.BlobStore for MinIO and S3-compatible storage.
type Store struct {
	client *minio.Client
	bucket string
	root   string
	opts   Options
}

var _ blobstore.BlobStore = (*Store)(nil)

// NewStore creates a new MinIO blob store. Blob names are resolved below
// rootPrefix (e.g. "kmeans/").
func NewStore(client *minio.Client, bucket, rootPrefix string, optFns ...func(*Options)) *Store {
	opts := Options{ContentType: "application/octet-stream"}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Store{
		client: client,
		bucket: bucket,
		root:   strings.Trim(rootPrefix, "/"),
		opts:   opts,
	}
}

func (s *Store) key(name string) string {
	return path.Join(s.root, name)
}

// name maps an object key back to a blob name.
func (s *Store) name(key string) string {
	if s.root == "" {
		return key
	}
	return strings.TrimPrefix(key, s.root+"/")
}

func (s *Store) putOptions() minio.PutObjectOptions {
	return minio.PutObjectOptions{ContentType: s.opts.ContentType, PartSize: s.opts.PartSize}
}

func isNotFound(err error) bool {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NotFound":
		return true
	}
	return false
}

// Open opens an existing blob. Reads are served by the object handle, which
// stays bound to ctx.
func (s *Store) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key(name), minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		if isNotFound(err) {
			return nil, blobstore.ErrNotFound
		}
		return nil, err
	}
	return &minioBlob{obj: obj, size: info.Size}, nil
}

// Put uploads data in a single request. Readers see either the old or the
// new object.
func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.key(name), bytes.NewReader(data), int64(len(data)), s.putOptions())
	return err
}

// Create buffers writes and uploads the object on Close.
func (s *Store) Create(ctx context.Context, name string) (blobstore.WritableBlob, error) {
	return &minioWritableBlob{ctx: ctx, store: s, name: name}, nil
}

// Delete removes a blob. Missing blobs are not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	err := s.client.RemoveObject(ctx, s.bucket, s.key(name), minio.RemoveObjectOptions{})
	if err != nil && !isNotFound(err) {
		return err
	}
	return nil
}

// List returns the sorted names of all blobs starting with prefix.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	keyPrefix := prefix
	if s.root != "" {
		keyPrefix = s.root + "/" + prefix
	}

	var names []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    keyPrefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		if name := s.name(obj.Key); name != "" && strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

type minioBlob struct {
	obj  *minio.Object
	size int64
}

func (b *minioBlob) ReadAt(_ context.Context, p []byte, off int64) (int, error) {
	return b.obj.ReadAt(p, off)
}

func (b *minioBlob) Size() int64 { return b.size }

func (b *minioBlob) Close() error { return b.obj.Close() }

var errClosed = errors.New("minio: blob already closed")

type minioWritableBlob struct {
	ctx    context.Context
	store  *Store
	name   string
	buf    bytes.Buffer
	closed bool
}

func (w *minioWritableBlob) Write(p []byte) (int, error) {
	if w.closed {
		return 0, errClosed
	}
	return w.buf.Write(p)
}

func (w *minioWritableBlob) Sync() error { return nil }

// Abort drops the buffered data. Nothing was sent to the server yet.
func (w *minioWritableBlob) Abort() error {
	w.closed = true
	w.buf.Reset()
	return nil
}

func (w *minioWritableBlob) Close() error {
	if w.closed {
		return errClosed
	}
	w.closed = true
	return w.store.Put(w.ctx, w.name, w.buf.Bytes())
}
