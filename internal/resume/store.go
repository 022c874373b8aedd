package resume

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonathan/resume-analyzer/internal/analysis"
)

// Store persists resume records. Failures are returned as *PersistenceError.
type Store interface {
	// Create inserts a new record.
	Create(ctx context.Context, rec *Record) error
	// Get returns the record with id, or nil, nil when there is none.
	Get(ctx context.Context, id uuid.UUID) (*Record, error)
	// ListByUser returns the user's records newest first, without file bytes.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Record, error)
	// UpdateTitle sets the title of the record with id and leaves every other
	// field, including the version, as stored. Returns nil, nil when no record
	// has that id.
	UpdateTitle(ctx context.Context, id uuid.UUID, title string) (*Record, error)
	// SaveAnalysis writes result onto the current stored record with id and
	// returns the stored value. Only the analysis fields change. The version
	// is decided by NextVersion against the stored record, never by the
	// caller. Returns nil, nil when no record has that id.
	SaveAnalysis(ctx context.Context, id uuid.UUID, result analysis.Result) (*Record, error)
	// Delete removes the record and reports whether it existed.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// NextVersion returns the version a save of updated over current must store.
// The first analysis of a record keeps the version it was created with;
// later ones bump it when ShouldBumpVersion holds.
func NextVersion(current, updated *Record) int {
	if !current.HasAnalysis {
		return current.AnalysisVersion
	}
	if ShouldBumpVersion(current, updated) {
		return current.AnalysisVersion + 1
	}
	return current.AnalysisVersion
}
