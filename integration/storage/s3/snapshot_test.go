package s3_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	s3aws "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/graphedit/core/graph"
	"github.com/dmitrymomot/graphedit/integration/storage/s3"
)

type mockS3Client struct {
	mock.Mock
}

func (m *mockS3Client) PutObject(ctx context.Context, params *s3aws.PutObjectInput, _ ...func(*s3aws.Options)) (*s3aws.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*s3aws.PutObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockS3Client) GetObject(ctx context.Context, params *s3aws.GetObjectInput, _ ...func(*s3aws.Options)) (*s3aws.GetObjectOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*s3aws.GetObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockS3Client) HeadObject(ctx context.Context, params *s3aws.HeadObjectInput, _ ...func(*s3aws.Options)) (*s3aws.HeadObjectOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*s3aws.HeadObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockS3Client) ListObjectsV2(ctx context.Context, params *s3aws.ListObjectsV2Input, _ ...func(*s3aws.Options)) (*s3aws.ListObjectsV2Output, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*s3aws.ListObjectsV2Output), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockS3Client) DeleteObject(ctx context.Context, params *s3aws.DeleteObjectInput, _ ...func(*s3aws.Options)) (*s3aws.DeleteObjectOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*s3aws.DeleteObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

// pages replays canned list pages.
type pages struct {
	outs []*s3aws.ListObjectsV2Output
	err  error
}

func (p *pages) HasMorePages() bool { return len(p.outs) > 0 || p.err != nil }

func (p *pages) NextPage(context.Context, ...func(*s3aws.Options)) (*s3aws.ListObjectsV2Output, error) {
	if p.err != nil {
		err := p.err
		p.err = nil
		return nil, err
	}
	out := p.outs[0]
	p.outs = p.outs[1:]
	return out, nil
}

func newStore(t *testing.T, client s3.S3Client, opts ...s3.Option) *s3.SnapshotStore {
	t.Helper()
	opts = append([]s3.Option{s3.WithS3Client(client)}, opts...)
	store, err := s3.New(context.Background(), s3.Config{Bucket: "bucket", Region: "us-east-1", Prefix: "/graphs/"}, opts...)
	require.NoError(t, err)
	return store
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := s3.New(context.Background(), s3.Config{Region: "us-east-1"})
	assert.ErrorIs(t, err, s3.ErrInvalidConfig)

	_, err = s3.New(context.Background(), s3.Config{Bucket: "b"})
	assert.ErrorIs(t, err, s3.ErrInvalidConfig)
}

func TestSnapshotStore_SaveAndLoad(t *testing.T) {
	t.Parallel()

	client := &mockS3Client{}
	store := newStore(t, client, s3.WithTimeout(time.Second))

	snap := graph.Snapshot{
		Nodes: []graph.Node{{ID: "n1", Title: "Root"}},
		Edges: []graph.Edge{{ID: "e1", Source: "n1", Target: "n2"}},
	}

	var stored []byte
	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3aws.PutObjectInput) bool {
		return aws.ToString(in.Bucket) == "bucket" &&
			aws.ToString(in.Key) == "graphs/demo.json" &&
			aws.ToString(in.ContentType) == "application/json"
	})).Run(func(args mock.Arguments) {
		in := args.Get(1).(*s3aws.PutObjectInput)
		stored, _ = io.ReadAll(in.Body)
	}).Return(&s3aws.PutObjectOutput{}, nil).Once()

	require.NoError(t, store.Save(context.Background(), "demo", snap))
	require.NotEmpty(t, stored)

	client.On("GetObject", mock.Anything, mock.MatchedBy(func(in *s3aws.GetObjectInput) bool {
		return aws.ToString(in.Key) == "graphs/demo.json"
	})).Return(&s3aws.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(stored))}, nil).Once()

	got, err := store.Load(context.Background(), "demo")
	require.NoError(t, err)
	assert.Equal(t, snap.Nodes, got.Nodes)
	assert.Equal(t, snap.Edges, got.Edges)

	client.AssertExpectations(t)
}

func TestSnapshotStore_InvalidName(t *testing.T) {
	t.Parallel()

	store := newStore(t, &mockS3Client{})
	for _, name := range []string{"", "  ", "../etc", "a/b", `a\b`} {
		err := store.Save(context.Background(), name, graph.Snapshot{})
		assert.ErrorIs(t, err, s3.ErrInvalidName, name)

		_, err = store.Load(context.Background(), name)
		assert.ErrorIs(t, err, s3.ErrInvalidName, name)
	}
	assert.False(t, store.Exists(context.Background(), "../x"))
}

func TestSnapshotStore_Load(t *testing.T) {
	t.Parallel()

	t.Run("missing", func(t *testing.T) {
		client := &mockS3Client{}
		client.On("GetObject", mock.Anything, mock.Anything).Return(nil, &types.NoSuchKey{}).Once()

		_, err := newStore(t, client).Load(context.Background(), "nope")
		assert.ErrorIs(t, err, s3.ErrSnapshotNotFound)
	})

	t.Run("corrupt body", func(t *testing.T) {
		client := &mockS3Client{}
		client.On("GetObject", mock.Anything, mock.Anything).
			Return(&s3aws.GetObjectOutput{Body: io.NopCloser(bytes.NewBufferString("{not json"))}, nil).Once()

		_, err := newStore(t, client).Load(context.Background(), "bad")
		assert.ErrorIs(t, err, s3.ErrInvalidSnapshot)
	})
}

func TestSnapshotStore_Delete(t *testing.T) {
	t.Parallel()

	t.Run("existing", func(t *testing.T) {
		client := &mockS3Client{}
		client.On("HeadObject", mock.Anything, mock.Anything).Return(&s3aws.HeadObjectOutput{}, nil).Once()
		client.On("DeleteObject", mock.Anything, mock.MatchedBy(func(in *s3aws.DeleteObjectInput) bool {
			return aws.ToString(in.Key) == "graphs/demo.json"
		})).Return(&s3aws.DeleteObjectOutput{}, nil).Once()

		require.NoError(t, newStore(t, client).Delete(context.Background(), "demo"))
		client.AssertExpectations(t)
	})

	t.Run("missing", func(t *testing.T) {
		client := &mockS3Client{}
		client.On("HeadObject", mock.Anything, mock.Anything).Return(nil, &types.NotFound{}).Once()

		err := newStore(t, client).Delete(context.Background(), "demo")
		assert.ErrorIs(t, err, s3.ErrSnapshotNotFound)
		client.AssertNotCalled(t, "DeleteObject", mock.Anything, mock.Anything)
	})
}

func TestSnapshotStore_List(t *testing.T) {
	t.Parallel()

	t.Run("filters and sorts", func(t *testing.T) {
		p := &pages{outs: []*s3aws.ListObjectsV2Output{
			{Contents: []types.Object{
				{Key: aws.String("graphs/zeta.json"), Size: aws.Int64(20)},
				{Key: aws.String("graphs/readme.txt"), Size: aws.Int64(1)},
			}},
			{Contents: []types.Object{
				{Key: aws.String("graphs/alpha.json"), Size: aws.Int64(10)},
			}},
		}}
		store := newStore(t, &mockS3Client{}, s3.WithPaginatorFactory(
			func(_ s3.S3Client, in *s3aws.ListObjectsV2Input) s3.S3ListObjectsV2Paginator {
				assert.Equal(t, "graphs/", aws.ToString(in.Prefix))
				return p
			}))

		infos, err := store.List(context.Background())
		require.NoError(t, err)
		require.Len(t, infos, 2)
		assert.Equal(t, "alpha", infos[0].Name)
		assert.Equal(t, int64(10), infos[0].Size)
		assert.Equal(t, "zeta", infos[1].Name)
	})

	t.Run("no paginator for mock client", func(t *testing.T) {
		_, err := newStore(t, &mockS3Client{}).List(context.Background())
		assert.ErrorIs(t, err, s3.ErrPaginatorNil)
	})

	t.Run("page error is classified", func(t *testing.T) {
		store := newStore(t, &mockS3Client{}, s3.WithPaginatorFactory(
			func(s3.S3Client, *s3aws.ListObjectsV2Input) s3.S3ListObjectsV2Paginator {
				return &pages{err: &smithy.GenericAPIError{Code: "AccessDenied"}}
			}))

		_, err := store.List(context.Background())
		assert.ErrorIs(t, err, s3.ErrAccessDenied)
	})
}

func TestSnapshotStore_ErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no such bucket", &types.NoSuchBucket{}, s3.ErrBucketNotFound},
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, s3.ErrAccessDenied},
		{"slow down", &smithy.GenericAPIError{Code: "SlowDown"}, s3.ErrServiceUnavailable},
		{"request timeout", &smithy.GenericAPIError{Code: "RequestTimeout"}, s3.ErrRequestTimeout},
		{"object state", &smithy.GenericAPIError{Code: "InvalidObjectState"}, s3.ErrInvalidObjectState},
		{"deadline", context.DeadlineExceeded, s3.ErrOperationTimeout},
		{"canceled", context.Canceled, s3.ErrOperationCanceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockS3Client{}
			client.On("PutObject", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			err := newStore(t, client).Save(context.Background(), "demo", graph.Snapshot{})
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("unknown code keeps the original error", func(t *testing.T) {
		orig := &smithy.GenericAPIError{Code: "Weird"}
		client := &mockS3Client{}
		client.On("PutObject", mock.Anything, mock.Anything).Return(nil, orig).Once()

		err := newStore(t, client).Save(context.Background(), "demo", graph.Snapshot{})
		var apiErr smithy.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, "Weird", apiErr.ErrorCode())
	})
}
