package network

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/op/go-logging"
)

// ObjectStoreClient is the interface the upload pipelines need from
// the object store. We define it here so tests can mock it. Workers
// need to put objects and presign reads. They do not need to create
// buckets or modify bucket policies, and we don't want them to even
// be able to perform those operations.
type ObjectStoreClient interface {
	Upload(ctx context.Context, key, localPath, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// ObjectStore stores processed video files in an S3-compatible bucket
// and issues time-limited presigned URLs for playback.
type ObjectStore struct {
	client *minio.Client
	bucket string
	logger *logging.Logger
}

// NewObjectStore returns an ObjectStore talking to the given
// S3-compatible host. Pass useSSL false only when talking to a local
// minio server in dev and test.
func NewObjectStore(host, region, keyID, secretKey, bucket string, useSSL bool, logger *logging.Logger) (*ObjectStore, error) {
	client, err := minio.New(
		host,
		&minio.Options{
			Creds:  credentials.NewStaticV4(keyID, secretKey, ""),
			Region: region,
			Secure: useSSL,
		})
	if err != nil {
		return nil, err
	}
	return &ObjectStore{
		client: client,
		bucket: bucket,
		logger: logger,
	}, nil
}

// UploadError describes a failed transfer to the object store. The
// short message is safe for clients; Detail carries the key and
// bucket for the logs.
type UploadError struct {
	Bucket string
	Err    error
	Key    string
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

func (e *UploadError) Error() string {
	return "upload to object storage failed"
}

func (e *UploadError) Detail() string {
	return fmt.Sprintf("Upload of key %s to bucket %s failed: %v",
		e.Key, e.Bucket, e.Err)
}

// Upload stores the file at localPath in the bucket under key, tagging
// the object with contentType.
func (s *ObjectStore) Upload(ctx context.Context, key, localPath, contentType string) error {
	_, err := s.client.FPutObject(
		ctx,
		s.bucket,
		key,
		localPath,
		minio.PutObjectOptions{
			ContentType: contentType,
		})
	if err != nil {
		return &UploadError{Bucket: s.bucket, Err: err, Key: key}
	}
	s.logger.Infof("Uploaded %s to bucket %s", key, s.bucket)
	return nil
}

// PresignGet returns a URL authorizing read access to key for ttl from
// now, with no further credential exchange. It does not touch stored
// state.
func (s *ObjectStore) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	signedURL, err := s.client.PresignedGetObject(ctx, s.bucket, key, ttl, url.Values{})
	if err != nil {
		return "", err
	}
	return signedURL.String(), nil
}
