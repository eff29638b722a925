package storage

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(params.Bucket)+"/"+aws.ToString(params.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(params.Bucket)+"/"+aws.ToString(params.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(params.Bucket)+"/"+aws.ToString(params.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Storage_SaveGetDelete(t *testing.T) {
	client := &fakeS3{objects: map[string][]byte{}}
	storage := NewS3Storage(client, "panel", "uploads")
	ctx := context.Background()

	require.NoError(t, storage.Save(ctx, "object_key_1", bytes.NewReader([]byte("payload"))))
	require.Contains(t, client.objects, "panel/uploads/object_key_1")

	body, err := storage.Get(ctx, "object_key_1")
	require.NoError(t, err)
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	require.Equal(t, "payload", string(data))

	require.NoError(t, storage.Delete(ctx, "object_key_1"))
	_, err = storage.Get(ctx, "object_key_1")
	require.ErrorIs(t, err, ErrBlobNotFound)
}

func TestS3Storage_RejectsInvalidKeys(t *testing.T) {
	storage := NewS3Storage(&fakeS3{objects: map[string][]byte{}}, "panel", "")

	err := storage.Save(context.Background(), "../escape", bytes.NewReader(nil))
	require.ErrorIs(t, err, ErrInvalidKey)
}
