package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-analyzer/internal/analysis"
	"github.com/jonathan/resume-analyzer/internal/resume"
)

const resumeColumns = `id, user_id, title, file_name, file_type, file_data, file_key, raw_text,
	word_count, has_analysis, analysis, analysis_version, created_at, updated_at`

// listColumns matches resumeColumns with the file bytes left out
const listColumns = `id, user_id, title, file_name, file_type, NULL::bytea, file_key, raw_text,
	word_count, has_analysis, analysis, analysis_version, created_at, updated_at`

// ResumeStore implements resume.Store on PostgreSQL
type ResumeStore struct {
	db *DB
}

// Resumes returns the resume store backed by db
func (db *DB) Resumes() *ResumeStore {
	return &ResumeStore{db: db}
}

// Create inserts a new resume record
func (s *ResumeStore) Create(ctx context.Context, rec *resume.Record) error {
	analysisJSON, err := json.Marshal(rec.Result)
	if err != nil {
		return &resume.PersistenceError{Op: "encode", Cause: err}
	}

	_, err = s.db.pool.Exec(ctx,
		`INSERT INTO resumes (id, user_id, title, file_name, file_type, file_data, file_key, raw_text,
		                      word_count, has_analysis, analysis, ats_score, analysis_version, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		rec.ID, rec.UserID, rec.Title, rec.FileName, rec.FileType, rec.FileData, rec.FileKey, rec.RawText,
		rec.WordCount, rec.HasAnalysis, analysisJSON, rec.ATSScore, rec.AnalysisVersion, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return &resume.PersistenceError{Op: "create", Cause: err}
	}
	return nil
}

// Get retrieves a resume by ID, including its file bytes
func (s *ResumeStore) Get(ctx context.Context, id uuid.UUID) (*resume.Record, error) {
	row := s.db.pool.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE id = $1`, id)

	rec, err := scanResume(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, &resume.PersistenceError{Op: "get", Cause: err}
	}
	return rec, nil
}

// ListByUser retrieves a user's resumes, newest first
func (s *ResumeStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]resume.Record, error) {
	rows, err := s.db.pool.Query(ctx,
		`SELECT `+listColumns+` FROM resumes WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, &resume.PersistenceError{Op: "list", Cause: err}
	}
	defer rows.Close()

	records := []resume.Record{}
	for rows.Next() {
		rec, err := scanResume(rows)
		if err != nil {
			return nil, &resume.PersistenceError{Op: "list", Cause: fmt.Errorf("failed to scan resume: %w", err)}
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &resume.PersistenceError{Op: "list", Cause: err}
	}
	return records, nil
}

// UpdateTitle renames a resume. No other column is written.
func (s *ResumeStore) UpdateTitle(ctx context.Context, id uuid.UUID, title string) (*resume.Record, error) {
	row := s.db.pool.QueryRow(ctx,
		`UPDATE resumes SET title = $2, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+resumeColumns, id, title)

	rec, err := scanResume(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, &resume.PersistenceError{Op: "update title of", Cause: err}
	}
	return rec, nil
}

// SaveAnalysis writes the analysis columns of a resume. The current row is
// locked while the next analysis version is decided.
func (s *ResumeStore) SaveAnalysis(ctx context.Context, id uuid.UUID, result analysis.Result) (*resume.Record, error) {
	tx, err := s.db.pool.Begin(ctx)
	if err != nil {
		return nil, &resume.PersistenceError{Op: "save analysis", Cause: err}
	}
	defer func() { _ = tx.Rollback(ctx) }()

	current, err := scanResume(tx.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, &resume.PersistenceError{Op: "save analysis", Cause: err}
	}

	updated := resume.ApplyAnalysis(current, result)
	analysisJSON, err := json.Marshal(updated.Result)
	if err != nil {
		return nil, &resume.PersistenceError{Op: "encode", Cause: err}
	}

	saved, err := scanResume(tx.QueryRow(ctx,
		`UPDATE resumes
		 SET has_analysis = TRUE, analysis = $2, ats_score = $3, analysis_version = $4, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+resumeColumns,
		id, analysisJSON, updated.ATSScore, resume.NextVersion(current, updated),
	))
	if err != nil {
		return nil, &resume.PersistenceError{Op: "save analysis", Cause: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, &resume.PersistenceError{Op: "save analysis", Cause: err}
	}
	return saved, nil
}

// Delete removes a resume and reports whether it existed
func (s *ResumeStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := s.db.pool.Exec(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		return false, &resume.PersistenceError{Op: "delete", Cause: err}
	}
	return result.RowsAffected() > 0, nil
}

// scanResume reads one row selected with resumeColumns or listColumns.
// Stored analysis JSON goes back through the normalizer so every list field
// is non-nil after a round trip.
func scanResume(row pgx.Row) (*resume.Record, error) {
	var rec resume.Record
	var analysisJSON []byte

	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.Title, &rec.FileName, &rec.FileType, &rec.FileData, &rec.FileKey, &rec.RawText,
		&rec.WordCount, &rec.HasAnalysis, &analysisJSON, &rec.AnalysisVersion, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.Result = analysis.NormalizeJSON(analysisJSON)
	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.UpdatedAt = rec.UpdatedAt.UTC()
	return &rec, nil
}

var _ resume.Store = (*ResumeStore)(nil)
