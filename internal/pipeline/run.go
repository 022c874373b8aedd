// Package pipeline runs one resume upload end to end: extract text, store the
// record, then analyze it when a model is available.
package pipeline

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jonathan/resume-analyzer/internal/analysis"
	"github.com/jonathan/resume-analyzer/internal/extract"
	"github.com/jonathan/resume-analyzer/internal/resume"
)

// Status classifies how the analysis stage of a run ended.
type Status string

const (
	// StatusAnalyzed means the record carries a fresh analysis
	StatusAnalyzed Status = "analyzed"
	// StatusSkipped means no model was configured
	StatusSkipped Status = "skipped"
	// StatusFailed means the model call or its response failed; the record
	// is still stored without analysis
	StatusFailed Status = "failed"
)

// Outcome reports the analysis stage of a run.
type Outcome struct {
	Status Status `json:"status"`
	Reason string `json:"reason,omitempty"`
	// SchemaIssues counts departures of the raw response from the schema.
	SchemaIssues int `json:"schemaIssues,omitempty"`
}

// Progress steps
const (
	StepExtracted       = "extracted"
	StepStored          = "stored"
	StepAnalysisSkipped = "analysis_skipped"
	StepAnalysisFailed  = "analysis_failed"
	StepAnalyzed        = "analyzed"
)

// ProgressEvent represents a progress update during a run
type ProgressEvent struct {
	Step     string    `json:"step"`
	Message  string    `json:"message"`
	ResumeID uuid.UUID `json:"resume_id"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// FileStore keeps original upload bytes outside the record store.
type FileStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

// Upload is one document submitted by a user.
type Upload struct {
	UserID   uuid.UUID
	FileName string
	MIMEType string
	Data     []byte
}

// Pipeline wires the stages together. A nil analyzer disables analysis.
type Pipeline struct {
	store      resume.Store
	analyzer   *analysis.Analyzer
	files      FileStore
	logger     zerolog.Logger
	now        func() time.Time
	onProgress ProgressCallback
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the pipeline logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithFileStore stores original bytes in files instead of on the record.
func WithFileStore(files FileStore) Option {
	return func(p *Pipeline) { p.files = files }
}

// WithProgress registers a progress callback.
func WithProgress(cb ProgressCallback) Option {
	return func(p *Pipeline) { p.onProgress = cb }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New creates a Pipeline. Pass a nil analyzer when no model credential is
// configured; every run then completes with StatusSkipped.
func New(store resume.Store, analyzer *analysis.Analyzer, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:    store,
		analyzer: analyzer,
		logger:   zerolog.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Observe returns a copy of p that reports progress to cb. The copy shares
// the store, analyzer and file store with p.
func (p *Pipeline) Observe(cb ProgressCallback) *Pipeline {
	c := *p
	c.onProgress = cb
	return &c
}

// AnalysisEnabled reports whether runs will call the model.
func (p *Pipeline) AnalysisEnabled() bool {
	return p.analyzer != nil
}

// Run processes one upload. Extraction and storage failures are returned as
// errors and nothing is kept. Once the record is stored, model failures are
// reported through Outcome and the stored record is returned unanalyzed.
func (p *Pipeline) Run(ctx context.Context, upload Upload) (*resume.Record, Outcome, error) {
	doc, err := extract.Extract(upload.Data, upload.MIMEType)
	if err != nil {
		return nil, Outcome{}, err
	}
	p.emit(StepExtracted, fmt.Sprintf("Extracted %d words", doc.WordCount), uuid.Nil)

	rec := resume.NewRecord(resume.NewRecordInput{
		UserID:    upload.UserID,
		FileName:  upload.FileName,
		FileType:  extract.NormalizeMIMEType(upload.MIMEType),
		FileData:  upload.Data,
		RawText:   doc.Text,
		WordCount: doc.WordCount,
	}, p.now())

	if p.files != nil {
		rec.FileKey = FileKey(rec.UserID, rec.ID, rec.FileName)
		if err := p.files.Put(ctx, rec.FileKey, upload.Data, rec.FileType); err != nil {
			return nil, Outcome{}, &resume.PersistenceError{Op: "store file for", Cause: err}
		}
		rec.FileData = nil
	}

	if err := p.store.Create(ctx, rec); err != nil {
		return nil, Outcome{}, err
	}
	p.emit(StepStored, "Stored resume", rec.ID)

	log := p.logger.With().Str("resume_id", rec.ID.String()).Logger()

	if p.analyzer == nil {
		log.Info().Msg("no AI credential configured, skipping analysis")
		p.emit(StepAnalysisSkipped, "Analysis skipped", rec.ID)
		return rec, Outcome{Status: StatusSkipped, Reason: "no AI credential configured"}, nil
	}

	return p.analyze(ctx, rec, doc.Text, log)
}

// Reanalyze runs the analysis stage again on a stored record's text.
func (p *Pipeline) Reanalyze(ctx context.Context, rec *resume.Record) (*resume.Record, Outcome, error) {
	log := p.logger.With().Str("resume_id", rec.ID.String()).Logger()
	if p.analyzer == nil {
		return rec, Outcome{Status: StatusSkipped, Reason: "no AI credential configured"}, nil
	}
	return p.analyze(ctx, rec, rec.RawText, log)
}

func (p *Pipeline) analyze(ctx context.Context, rec *resume.Record, text string, log zerolog.Logger) (*resume.Record, Outcome, error) {
	start := p.now()
	raw, err := p.analyzer.Analyze(ctx, analysis.BuildPrompt(text))
	if err != nil {
		log.Error().Err(err).Msg("AI analysis failed")
		p.emit(StepAnalysisFailed, "Analysis failed", rec.ID)
		return rec, Outcome{Status: StatusFailed, Reason: err.Error()}, nil
	}

	issues := analysis.ValidateRaw(raw)
	for _, issue := range issues {
		log.Warn().Str("field", issue.Field).Str("issue", issue.Message).Msg("analysis response departs from schema")
	}

	saved, err := p.store.SaveAnalysis(ctx, rec.ID, analysis.Normalize(raw))
	if err != nil {
		return nil, Outcome{}, err
	}
	if saved == nil {
		return nil, Outcome{}, &resume.PersistenceError{Op: "save", Cause: fmt.Errorf("resume %s no longer exists", rec.ID)}
	}

	log.Info().
		Int("ats_score", saved.ATSScore).
		Int("analysis_version", saved.AnalysisVersion).
		Dur("duration", p.now().Sub(start)).
		Msg("resume analyzed")
	p.emit(StepAnalyzed, fmt.Sprintf("Analysis complete, ATS score %d", saved.ATSScore), rec.ID)

	return saved, Outcome{Status: StatusAnalyzed, SchemaIssues: len(issues)}, nil
}

// FileKey is the object key for a record's original upload.
func FileKey(userID, resumeID uuid.UUID, fileName string) string {
	name := path.Base(path.Clean("/" + fileName))
	if name == "/" || name == "." {
		name = "resume"
	}
	return path.Join("resumes", userID.String(), resumeID.String(), name)
}

func (p *Pipeline) emit(step, message string, resumeID uuid.UUID) {
	if p.onProgress != nil {
		p.onProgress(ProgressEvent{Step: step, Message: message, ResumeID: resumeID})
	}
}
