// Package s3 stores kmpar frames and model snapshots in Amazon S3.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("kmeans/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//	snaps := snapshot.New(store)
//
// S3 replaces single objects atomically, so a plain Store is enough for one
// training job per destination. When several jobs may snapshot into the same
// destination, wrap the store in a DDBCommitStore: the CURRENT pointer is then
// committed through a DynamoDB conditional write and a lost race surfaces as
// ErrConcurrentModification instead of a silent overwrite.
package s3
