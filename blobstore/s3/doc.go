// Package s3 provides a blobstore.BlobStore backed by Amazon S3, for
// sharing feature snapshots between the offline build job and training
// workers.
package s3
