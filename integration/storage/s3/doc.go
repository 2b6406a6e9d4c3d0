// Package s3 archives graph snapshots in Amazon S3 and S3-compatible services.
//
// Each snapshot is one JSON object under the configured prefix, named
// "<prefix>/<name>.json". MinIO, Wasabi, DigitalOcean Spaces and similar
// services work through Endpoint and ForcePathStyle.
//
//	archive, err := s3.New(ctx, s3.Config{
//		Bucket: "graphs",
//		Region: "us-east-1",
//		Prefix: "team-a",
//	})
//	if err != nil {
//		return err
//	}
//
//	snap, _ := engine.Store().Export(ctx)
//	if err := archive.Save(ctx, "roadmap", snap); err != nil {
//		return err
//	}
//
//	restored, err := archive.Load(ctx, "roadmap")
//
// Static credentials are optional; without them the default AWS credential
// chain (environment, shared config, IAM role) is used.
//
// # Testing
//
// WithS3Client injects a mock client. List needs a paginator, so mocks must
// also pass WithPaginatorFactory.
//
// # Errors
//
// S3 failures are classified into package sentinels: ErrSnapshotNotFound,
// ErrBucketNotFound, ErrAccessDenied, ErrRequestTimeout,
// ErrServiceUnavailable (retryable), ErrInvalidObjectState,
// ErrOperationTimeout and ErrOperationCanceled. Unknown API errors keep the
// original error in the chain.
package s3
