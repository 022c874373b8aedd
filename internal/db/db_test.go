package db

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@localhost:5432/resumes?sslmode=disable", "pgx5://u:p@localhost:5432/resumes?sslmode=disable"},
		{"postgresql://localhost/resumes", "pgx5://localhost/resumes"},
		{"pgx5://localhost/resumes", "pgx5://localhost/resumes"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, migrateURL(tt.in))
		})
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	require.NoError(t, err)

	assert.Contains(t, names, "migrations/0001_create_resumes.up.sql")
	assert.Contains(t, names, "migrations/0001_create_resumes.down.sql")
	assert.Zero(t, len(names)%2, "every up migration needs a down migration")
}
