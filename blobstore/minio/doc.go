// Package minio stores kmpar frames and model snapshots in MinIO or any other
// S3-compatible service (Ceph, Garage, SeaweedFS) through the MinIO client.
//
// # Basic Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "ml-artifacts", "kmeans/")
//	f, err := frame.Load(ctx, store, "frames/iris.kmf")
//
// No AWS SDK is required, which keeps air-gapped deployments simple.
package minio
