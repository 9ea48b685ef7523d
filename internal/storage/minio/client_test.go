package minio

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	minioLib "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMinio implements objectAPI for testing without network.
type fakeMinio struct {
	bucketExists    bool
	bucketExistsErr error
	makeBucketErr   error
	madeBucket      string

	putErr     error
	putKey     string
	putBody    string
	putSize    int64
	putOptions minioLib.PutObjectOptions

	statErr error
}

func (f *fakeMinio) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.bucketExists, f.bucketExistsErr
}

func (f *fakeMinio) MakeBucket(_ context.Context, bucket string, _ minioLib.MakeBucketOptions) error {
	f.madeBucket = bucket
	return f.makeBucketErr
}

func (f *fakeMinio) PutObject(_ context.Context, _ string, key string, r io.Reader, size int64, opts minioLib.PutObjectOptions) (minioLib.UploadInfo, error) {
	if f.putErr != nil {
		return minioLib.UploadInfo{}, f.putErr
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return minioLib.UploadInfo{}, err
	}
	f.putKey, f.putBody, f.putSize, f.putOptions = key, string(body), size, opts
	return minioLib.UploadInfo{Key: key, Size: size}, nil
}

func (f *fakeMinio) StatObject(_ context.Context, _ string, _ string, _ minioLib.StatObjectOptions) (minioLib.ObjectInfo, error) {
	return minioLib.ObjectInfo{}, f.statErr
}

func TestNewClientWithAPI(t *testing.T) {
	ctx := context.Background()

	t.Run("bucket exists", func(t *testing.T) {
		api := &fakeMinio{bucketExists: true}
		c, err := NewClientWithAPI(ctx, api, "b")
		require.NoError(t, err)
		assert.Equal(t, "b", c.bucket)
		assert.Empty(t, api.madeBucket)
	})

	t.Run("bucket created", func(t *testing.T) {
		api := &fakeMinio{}
		_, err := NewClientWithAPI(ctx, api, "b")
		require.NoError(t, err)
		assert.Equal(t, "b", api.madeBucket)
	})

	t.Run("bucket check fails", func(t *testing.T) {
		_, err := NewClientWithAPI(ctx, &fakeMinio{bucketExistsErr: errors.New("boom")}, "b")
		require.Error(t, err)
	})

	t.Run("bucket creation fails", func(t *testing.T) {
		_, err := NewClientWithAPI(ctx, &fakeMinio{makeBucketErr: errors.New("denied")}, "b")
		require.Error(t, err)
	})
}

func TestClient_Upload(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: true}
	c, err := NewClientWithAPI(ctx, api, "b")
	require.NoError(t, err)

	body := `{"entries":[]}`
	require.NoError(t, c.Upload(ctx, "accounts/x/roster-1.json", strings.NewReader(body), int64(len(body))))
	assert.Equal(t, "accounts/x/roster-1.json", api.putKey)
	assert.Equal(t, body, api.putBody)
	assert.Equal(t, int64(len(body)), api.putSize)
	assert.Equal(t, "application/json", api.putOptions.ContentType)

	api.putErr = errors.New("full")
	require.Error(t, c.Upload(ctx, "k", strings.NewReader("x"), 1))
}

func TestClient_Exists(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: true}
	c, err := NewClientWithAPI(ctx, api, "b")
	require.NoError(t, err)

	ok, err := c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	api.statErr = minioLib.ErrorResponse{Code: "NoSuchKey", StatusCode: 404}
	ok, err = c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	api.statErr = errors.New("network")
	_, err = c.Exists(ctx, "k")
	require.Error(t, err)
}
