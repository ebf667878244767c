// Package blobstore is the storage abstraction behind kmpar's persisted
// artifacts: columnar frames that feed training and model snapshots written
// after every pass.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, mmap reads, atomic rename writes
//   - MemoryStore: in-process map, for tests
//   - s3.Store / s3.DDBCommitStore: Amazon S3, optionally with a DynamoDB
//     commit log for the snapshot CURRENT pointer
//   - minio.Store: MinIO and other S3-compatible services
//
// # Contract
//
// Put must replace a blob atomically: a concurrent Open observes either the
// old or the new content, never a torn write. The snapshot package relies on
// this to keep its CURRENT pointer valid at all times.
package blobstore
