// Package kmpar provides scalable K-Means clustering over column-oriented,
// chunked datasets.
//
// Training seeds centers with K-Means|| (five rounds of D²-weighted
// oversampling, reduced to k with K-Means++ or furthest-first) and refines
// them with Lloyd iterations. Every pass over the data runs chunk-parallel;
// between passes only O(k·d) state is kept. Missing cells (NaN) are
// tolerated: distances are computed on observed cells and rescaled.
//
// # Quick Start
//
//	ctx := context.Background()
//	f, _ := frame.FromRows(rows, frame.WithNames("x", "y"))
//
//	m, err := kmpar.Train(ctx, f, kmpar.Config{
//	    K:              3,
//	    Initialization: kmpar.InitPlusPlus,
//	    Normalize:      true,
//	})
//	fmt.Println(m.Clusters, m.Error)
//
// # Snapshots
//
// With a destination and a snapshotter, the model is persisted after every
// oversampling round and Lloyd iteration:
//
//	store := snapshot.New(blobstore.NewLocalStore("./models"))
//	m, err := kmpar.Train(ctx, f, kmpar.Config{K: 8, Destination: "runs/42"},
//	    kmpar.WithSnapshotter(store))
//
//	latest, err := snapshot.Load(ctx, blobstore.NewLocalStore("./models"), "runs/42")
//
// Object storage works the same way through blobstore/s3 or blobstore/minio.
//
// # Cancellation
//
// Training stops after the current round or iteration when ctx is canceled
// or the WithCancel callback reports true. The last finished model is
// returned with Model.Canceled set and a nil error.
//
// # Membership
//
// Assign computes the nearest cluster of every row as roaring bitmaps:
//
//	a, err := kmpar.Assign(ctx, f, m)
//	fmt.Println(a.Counts())
package kmpar
