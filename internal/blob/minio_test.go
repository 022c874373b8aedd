package blob

import (
	"errors"
	"net/http"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "missing endpoint", cfg: Config{Bucket: "resumes"}, wantErr: "endpoint"},
		{name: "missing bucket", cfg: Config{Endpoint: "localhost:9000"}, wantErr: "bucket"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStore(tt.cfg, zerolog.Nop())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewStore(t *testing.T) {
	store, err := NewStore(Config{
		Endpoint:        "localhost:9000",
		AccessKeyID:     "minioadmin",
		SecretAccessKey: "minioadmin",
		Bucket:          "resumes",
	}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "resumes", store.bucket)
}

func TestConfigEnabled(t *testing.T) {
	assert.False(t, Config{}.Enabled())
	assert.True(t, Config{Endpoint: "localhost:9000"}.Enabled())
}

func TestReadError(t *testing.T) {
	s := &Store{logger: zerolog.Nop()}

	missing := s.readError("a/b.pdf", minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound})
	assert.ErrorIs(t, missing, ErrNotFound)
	assert.Contains(t, missing.Error(), "a/b.pdf")

	denied := s.readError("a/b.pdf", minio.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden})
	assert.NotErrorIs(t, denied, ErrNotFound)

	other := s.readError("a/b.pdf", errors.New("connection reset"))
	assert.NotErrorIs(t, other, ErrNotFound)
	assert.Contains(t, other.Error(), "connection reset")
}
