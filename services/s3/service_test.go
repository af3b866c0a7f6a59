package s3

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	put     *s3.PutObjectInput
	body    []byte
	deleted []string
	err     error
}

func (f *fakeAPI) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.put = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeAPI) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deleted = append(f.deleted, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestUpload(t *testing.T) {
	api := &fakeAPI{}
	svc := NewWithClient(api, ClientConfig{Bucket: "civic", Endpoint: "http://minio:9000/"}, nil)

	url, err := svc.Upload(context.Background(), "reports/a.png", []byte("img"), "image/png")

	require.NoError(t, err)
	assert.Equal(t, "http://minio:9000/civic/reports/a.png", url)
	assert.Equal(t, "civic", aws.ToString(api.put.Bucket))
	assert.Equal(t, "image/png", aws.ToString(api.put.ContentType))
	assert.Equal(t, []byte("img"), api.body)
}

func TestUploadPublicURL(t *testing.T) {
	svc := NewWithClient(&fakeAPI{}, ClientConfig{Bucket: "civic", PublicURL: "https://cdn.civicfix.in/"}, nil)

	url, err := svc.Upload(context.Background(), "profiles/b.jpeg", nil, "image/jpeg")

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.civicfix.in/profiles/b.jpeg", url)
}

func TestUploadAndDeleteErrors(t *testing.T) {
	api := &fakeAPI{err: errors.New("access denied")}
	svc := NewWithClient(api, ClientConfig{Bucket: "civic"}, nil)

	_, err := svc.Upload(context.Background(), "k", nil, "image/png")
	assert.ErrorContains(t, err, "access denied")
	assert.ErrorContains(t, svc.Delete(context.Background(), "k"), "failed to delete k")
}

func TestEnabled(t *testing.T) {
	assert.False(t, ClientConfig{Bucket: "civic"}.Enabled())
	assert.True(t, ClientConfig{Bucket: "civic", AccessKey: "a", SecretKey: "s"}.Enabled())
}
