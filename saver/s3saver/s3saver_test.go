package s3saver

import (
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
)

type fakePutObject struct {
	input *s3.PutObjectInput
	err   error
}

func (f *fakePutObject) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func Test_SavePutsObject(t *testing.T) {
	fake := &fakePutObject{}
	s := &s3Saver{client: fake, bucket: "exports", prefix: "sites/demo"}

	require.NoError(t, s.Save(context.Background(), "site_1.zip", []byte("PK\x03\x04")))

	require.Equal(t, "exports", *fake.input.Bucket)
	require.Equal(t, "sites/demo/site_1.zip", *fake.input.Key)
	require.Equal(t, int64(4), *fake.input.ContentLength)
	body, err := io.ReadAll(fake.input.Body)
	require.NoError(t, err)
	require.Equal(t, []byte("PK\x03\x04"), body)
}

func Test_SaveWithoutPrefix(t *testing.T) {
	fake := &fakePutObject{}
	s := &s3Saver{client: fake, bucket: "exports"}

	require.NoError(t, s.Save(context.Background(), "site_1.zip", []byte("x")))
	require.Equal(t, "site_1.zip", *fake.input.Key)
}

func Test_NewRequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Config{})
	require.Error(t, err)
}
