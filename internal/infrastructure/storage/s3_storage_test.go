package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luestilo/gestao-api/pkg/config"
)

type fakePutter struct {
	in   *s3.PutObjectInput
	body string
	err  error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	if in.Body != nil {
		b, _ := io.ReadAll(in.Body)
		f.body = string(b)
	}
	return &s3.PutObjectOutput{}, f.err
}

func TestS3Storage_Upload_DevuelveURLPublica(t *testing.T) {
	fake := &fakePutter{}
	s := newS3Storage(fake, "imagens", "https://cdn.luestilo.com.br/")

	url, err := s.Upload(context.Background(), "products/p1/i1.png", "image/png", strings.NewReader("png"), 3)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.luestilo.com.br/products/p1/i1.png", url)
	assert.Equal(t, "imagens", aws.ToString(fake.in.Bucket))
	assert.Equal(t, "products/p1/i1.png", aws.ToString(fake.in.Key))
	assert.Equal(t, "image/png", aws.ToString(fake.in.ContentType))
	assert.Equal(t, int64(3), aws.ToInt64(fake.in.ContentLength))
	assert.Equal(t, "png", fake.body)
}

func TestS3Storage_Upload_PropagaError(t *testing.T) {
	s := newS3Storage(&fakePutter{err: errors.New("access denied")}, "imagens", "http://x")
	_, err := s.Upload(context.Background(), "k", "image/png", strings.NewReader(""), 0)
	assert.ErrorContains(t, err, "access denied")
}

func TestPublicBaseURL_SegunConfig(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com",
		publicBaseURL(config.S3Config{Bucket: "b", PublicURL: "https://cdn.example.com"}, "sa-east-1"))
	assert.Equal(t, "http://minio:9000/b",
		publicBaseURL(config.S3Config{Bucket: "b", Endpoint: "http://minio:9000/", UsePathStyle: true}, "us-east-1"))
	assert.Equal(t, "https://b.s3.sa-east-1.amazonaws.com",
		publicBaseURL(config.S3Config{Bucket: "b"}, "sa-east-1"))
}
