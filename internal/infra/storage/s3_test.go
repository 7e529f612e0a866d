package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/logging"
)

type mockS3 struct {
	bucket, key, contentType string
	body                     []byte
	err                      error
}

func (m *mockS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.bucket = *in.Bucket
	m.key = *in.Key
	m.contentType = *in.ContentType
	m.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestArchive_Put(t *testing.T) {
	mock := &mockS3{}
	a := NewArchive(mock, "clinic-exports", "exports/", logging.Discard())

	key, err := a.Put(context.Background(), "appointments.xlsx", "application/octet-stream", []byte("xlsx"))
	require.NoError(t, err)

	assert.Equal(t, "exports/appointments.xlsx", key)
	assert.Equal(t, "clinic-exports", mock.bucket)
	assert.Equal(t, key, mock.key)
	assert.Equal(t, []byte("xlsx"), mock.body)
}

func TestArchive_DisabledWithoutBucket(t *testing.T) {
	mock := &mockS3{}
	a := NewArchive(mock, "", "exports/", logging.Discard())

	assert.False(t, a.Enabled())
	key, err := a.Put(context.Background(), "x.xlsx", "", nil)
	require.NoError(t, err)
	assert.Empty(t, key)
	assert.Empty(t, mock.key)

	var nilArchive *Archive
	assert.False(t, nilArchive.Enabled())
}

func TestArchive_PutError(t *testing.T) {
	a := NewArchive(&mockS3{err: errors.New("denied")}, "b", "", logging.Discard())

	_, err := a.Put(context.Background(), "x.xlsx", "", []byte("1"))
	assert.Error(t, err)
}
