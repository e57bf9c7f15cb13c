package cache

import (
	"bytes"
	"context"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"testing"
)

type fakeS3 struct {
	s3iface.S3API

	objects map[string][]byte
}

func (f *fakeS3) GetObjectWithContext(_ aws.Context, in *s3.GetObjectInput, _ ...request.Option) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.StringValue(in.Bucket)+"/"+aws.StringValue(in.Key)]
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchKey, "not found", nil)
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.StringValue(in.Bucket)+"/"+aws.StringValue(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func TestS3RoundTrip(t *testing.T) {
	ctx := context.Background()
	fake := &fakeS3{objects: map[string][]byte{}}
	c := NewS3FromClient(fake, "bucket", "conversions/")

	_, ok, err := c.Get(ctx, "img")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "img", []byte("webp bytes")))
	assert.Contains(t, fake.objects, "bucket/conversions/img")

	data, ok, err := c.Get(ctx, "img")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("webp bytes"), data)
}

func TestS3PropagatesOtherErrors(t *testing.T) {
	c := NewS3FromClient(&failingS3{}, "bucket", "")

	_, _, err := c.Get(context.Background(), "img")
	assert.Error(t, err)
}

type failingS3 struct {
	s3iface.S3API
}

func (failingS3) GetObjectWithContext(aws.Context, *s3.GetObjectInput, ...request.Option) (*s3.GetObjectOutput, error) {
	return nil, awserr.New("AccessDenied", "denied", nil)
}
