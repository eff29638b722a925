package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of the S3 client used by S3Storage.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3Storage struct {
	client S3API
	bucket string
	prefix string
}

func NewS3Storage(client S3API, bucket, prefix string) *S3Storage {
	return &S3Storage{client: client, bucket: bucket, prefix: prefix}
}

func (ss *S3Storage) objectKey(key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	if ss.prefix == "" {
		return key, nil
	}
	return path.Join(ss.prefix, key), nil
}

func (ss *S3Storage) Save(ctx context.Context, key string, data io.Reader) error {
	objectKey, err := ss.objectKey(key)
	if err != nil {
		return err
	}

	_, err = ss.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(ss.bucket),
		Key:    aws.String(objectKey),
		Body:   data,
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", objectKey, err)
	}
	return nil
}

func (ss *S3Storage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	objectKey, err := ss.objectKey(key)
	if err != nil {
		return nil, err
	}

	out, err := ss.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(ss.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, key)
		}
		return nil, fmt.Errorf("get object %s: %w", objectKey, err)
	}

	return out.Body, nil
}

func (ss *S3Storage) Delete(ctx context.Context, key string) error {
	objectKey, err := ss.objectKey(key)
	if err != nil {
		return err
	}

	_, err = ss.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(ss.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", objectKey, err)
	}
	return nil
}
