// Package minio provides a blobstore.BlobStore backed by MinIO or any
// S3-compatible object storage, for sharing feature snapshots between the
// offline build job and training workers.
package minio
