package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-analyzer/internal/analysis"
	"github.com/jonathan/resume-analyzer/internal/extract"
	"github.com/jonathan/resume-analyzer/internal/extract/extracttest"
	"github.com/jonathan/resume-analyzer/internal/llm"
	"github.com/jonathan/resume-analyzer/internal/resume"
)

const sentence = "Experienced Python developer with AWS and Docker skills"

type fakeClient struct {
	response string
	err      error
	calls    int
}

func (f *fakeClient) GenerateContent(context.Context, string, llm.ModelTier) (string, error) {
	f.calls++
	return f.response, f.err
}

func (f *fakeClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return f.GenerateContent(ctx, prompt, tier)
}

func (f *fakeClient) GetModel(llm.ModelTier) string { return "fake-model" }
func (f *fakeClient) Close() error                  { return nil }

func newAnalyzer(t *testing.T, client llm.Client) *analysis.Analyzer {
	t.Helper()
	a, err := analysis.NewAnalyzer(client)
	require.NoError(t, err)
	return a
}

func pdfUpload(user uuid.UUID) Upload {
	return Upload{
		UserID:   user,
		FileName: "resume.pdf",
		MIMEType: extract.MIMETypePDF,
		Data:     extracttest.PDF(sentence),
	}
}

// failingStore fails Create or SaveAnalysis on demand.
type failingStore struct {
	*resume.MemoryStore
	createErr error
	saveErr   error
}

func (s *failingStore) Create(ctx context.Context, rec *resume.Record) error {
	if s.createErr != nil {
		return s.createErr
	}
	return s.MemoryStore.Create(ctx, rec)
}

func (s *failingStore) SaveAnalysis(ctx context.Context, id uuid.UUID, result analysis.Result) (*resume.Record, error) {
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	return s.MemoryStore.SaveAnalysis(ctx, id, result)
}

type memFiles map[string][]byte

func (m memFiles) Put(_ context.Context, key string, data []byte, _ string) error {
	m[key] = data
	return nil
}

func TestRun_NoCredentialSkipsAnalysis(t *testing.T) {
	store := resume.NewMemoryStore()
	p := New(store, nil)
	ctx := context.Background()
	user := uuid.New()

	rec, outcome, err := p.Run(ctx, pdfUpload(user))
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, StatusSkipped, outcome.Status)
	assert.False(t, p.AnalysisEnabled())
	assert.Equal(t, 0, rec.ATSScore)
	assert.Empty(t, rec.Skills.CurrentSkills)
	assert.NotNil(t, rec.Skills.CurrentSkills)
	assert.False(t, rec.HasAnalysis)
	assert.Equal(t, sentence, rec.RawText)
	assert.Equal(t, 8, rec.WordCount)
	assert.Equal(t, 1, rec.AnalysisVersion)

	stored, err := store.Get(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, sentence, stored.RawText)

	data, err := json.Marshal(stored)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"currentSkills":[]`)
	assert.NotContains(t, string(data), "fileData")
}

func TestRun_Analyzed(t *testing.T) {
	store := resume.NewMemoryStore()
	client := &fakeClient{response: "```json\n{\"atsScore\": 82, \"skills\": {\"currentSkills\": [\"Python\", \"AWS\"]}}\n```"}

	var events []ProgressEvent
	p := New(store, newAnalyzer(t, client), WithProgress(func(e ProgressEvent) { events = append(events, e) }))

	rec, outcome, err := p.Run(context.Background(), pdfUpload(uuid.New()))
	require.NoError(t, err)

	assert.Equal(t, StatusAnalyzed, outcome.Status)
	assert.Positive(t, outcome.SchemaIssues)
	assert.True(t, rec.HasAnalysis)
	assert.Equal(t, 82, rec.ATSScore)
	assert.Equal(t, []string{"Python", "AWS"}, rec.Skills.CurrentSkills)
	assert.Equal(t, []string{}, rec.Skills.RecommendedSkills)
	assert.Equal(t, 1, rec.AnalysisVersion)
	assert.Equal(t, 1, client.calls)

	stored, err := store.Get(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.True(t, stored.HasAnalysis)
	assert.Equal(t, 82, stored.ATSScore)

	steps := make([]string, len(events))
	for i, e := range events {
		steps[i] = e.Step
	}
	assert.Equal(t, []string{StepExtracted, StepStored, StepAnalyzed}, steps)
}

func TestRun_EmptyAnalysisKeepsVersion(t *testing.T) {
	p := New(resume.NewMemoryStore(), newAnalyzer(t, &fakeClient{response: `{}`}))

	rec, outcome, err := p.Run(context.Background(), pdfUpload(uuid.New()))
	require.NoError(t, err)

	assert.Equal(t, StatusAnalyzed, outcome.Status)
	assert.True(t, rec.HasAnalysis)
	assert.Equal(t, 1, rec.AnalysisVersion)
}

func TestRun_UpstreamFailureKeepsRecord(t *testing.T) {
	store := resume.NewMemoryStore()
	p := New(store, newAnalyzer(t, &fakeClient{err: errors.New("quota exceeded")}))

	rec, outcome, err := p.Run(context.Background(), pdfUpload(uuid.New()))
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, StatusFailed, outcome.Status)
	assert.Contains(t, outcome.Reason, "quota exceeded")
	assert.False(t, rec.HasAnalysis)
	assert.Equal(t, 0, rec.ATSScore)

	stored, err := store.Get(context.Background(), rec.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.False(t, stored.HasAnalysis)
	assert.Equal(t, sentence, stored.RawText)
}

func TestRun_MalformedResponseKeepsRecord(t *testing.T) {
	store := resume.NewMemoryStore()
	p := New(store, newAnalyzer(t, &fakeClient{response: "Sorry, I cannot do that."}))

	rec, outcome, err := p.Run(context.Background(), pdfUpload(uuid.New()))
	require.NoError(t, err)

	assert.Equal(t, StatusFailed, outcome.Status)
	assert.Contains(t, outcome.Reason, "parse error")
	assert.False(t, rec.HasAnalysis)
}

func TestRun_ExtractionErrorsStoreNothing(t *testing.T) {
	tests := []struct {
		name     string
		upload   Upload
		sentinel error
	}{
		{
			name:     "unsupported type",
			upload:   Upload{FileName: "resume.txt", MIMEType: "text/plain", Data: []byte(sentence)},
			sentinel: extract.ErrUnsupportedFormat,
		},
		{
			name:     "corrupt pdf",
			upload:   Upload{FileName: "resume.pdf", MIMEType: extract.MIMETypePDF, Data: []byte("garbage")},
			sentinel: extract.ErrExtractionFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := resume.NewMemoryStore()
			client := &fakeClient{response: `{}`}
			p := New(store, newAnalyzer(t, client))

			user := uuid.New()
			tt.upload.UserID = user
			rec, _, err := p.Run(context.Background(), tt.upload)
			require.ErrorIs(t, err, tt.sentinel)
			assert.Nil(t, rec)
			assert.Zero(t, client.calls)

			list, err := store.ListByUser(context.Background(), user)
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}
}

func TestRun_PersistenceErrorsPropagate(t *testing.T) {
	storeErr := &resume.PersistenceError{Op: "create", Cause: errors.New("connection refused")}

	t.Run("create", func(t *testing.T) {
		client := &fakeClient{response: `{}`}
		store := &failingStore{MemoryStore: resume.NewMemoryStore(), createErr: storeErr}
		p := New(store, newAnalyzer(t, client))

		rec, _, err := p.Run(context.Background(), pdfUpload(uuid.New()))
		require.ErrorIs(t, err, resume.ErrPersistence)
		assert.Nil(t, rec)
		assert.Zero(t, client.calls)
	})

	t.Run("save", func(t *testing.T) {
		store := &failingStore{MemoryStore: resume.NewMemoryStore(), saveErr: storeErr}
		p := New(store, newAnalyzer(t, &fakeClient{response: `{"atsScore": 50}`}))

		rec, _, err := p.Run(context.Background(), pdfUpload(uuid.New()))
		require.ErrorIs(t, err, resume.ErrPersistence)
		assert.Nil(t, rec)
	})
}

func TestRun_FileStore(t *testing.T) {
	files := memFiles{}
	store := resume.NewMemoryStore()
	p := New(store, nil, WithFileStore(files))
	user := uuid.New()

	rec, _, err := p.Run(context.Background(), pdfUpload(user))
	require.NoError(t, err)

	assert.Nil(t, rec.FileData)
	assert.Equal(t, FileKey(user, rec.ID, "resume.pdf"), rec.FileKey)
	assert.Equal(t, extracttest.PDF(sentence), files[rec.FileKey])
}

func TestRun_DefaultTitle(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	p := New(resume.NewMemoryStore(), nil, WithClock(func() time.Time { return now }))

	rec, _, err := p.Run(context.Background(), pdfUpload(uuid.New()))
	require.NoError(t, err)
	assert.Equal(t, "Resume 2024-06-01", rec.Title)
	assert.Equal(t, extract.MIMETypePDF, rec.FileType)
}

func TestReanalyze(t *testing.T) {
	store := resume.NewMemoryStore()
	ctx := context.Background()

	skipped := New(store, nil)
	rec, _, err := skipped.Run(ctx, pdfUpload(uuid.New()))
	require.NoError(t, err)

	_, outcome, err := skipped.Reanalyze(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, outcome.Status)

	first, outcome, err := New(store, newAnalyzer(t, &fakeClient{response: `{"atsScore": 60}`})).Reanalyze(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, StatusAnalyzed, outcome.Status)
	assert.Equal(t, 60, first.ATSScore)
	assert.Equal(t, 1, first.AnalysisVersion)

	updated, outcome, err := New(store, newAnalyzer(t, &fakeClient{response: `{"atsScore": 70}`})).Reanalyze(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, StatusAnalyzed, outcome.Status)
	assert.Equal(t, 70, updated.ATSScore)
	assert.Equal(t, 2, updated.AnalysisVersion)
}

func TestReanalyze_KeepsConcurrentRename(t *testing.T) {
	store := resume.NewMemoryStore()
	ctx := context.Background()

	rec, _, err := New(store, nil).Run(ctx, pdfUpload(uuid.New()))
	require.NoError(t, err)

	// rec is now older than the stored record
	_, err = store.UpdateTitle(ctx, rec.ID, "Renamed while analyzing")
	require.NoError(t, err)

	updated, _, err := New(store, newAnalyzer(t, &fakeClient{response: `{"atsScore": 88}`})).Reanalyze(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, "Renamed while analyzing", updated.Title)
	assert.Equal(t, 88, updated.ATSScore)
}

func TestFileKey(t *testing.T) {
	user := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	id := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	assert.Equal(t, "resumes/11111111-1111-1111-1111-111111111111/22222222-2222-2222-2222-222222222222/cv.pdf", FileKey(user, id, "cv.pdf"))
	assert.Equal(t, "resumes/11111111-1111-1111-1111-111111111111/22222222-2222-2222-2222-222222222222/passwd", FileKey(user, id, "../../etc/passwd"))
	assert.Equal(t, "resumes/11111111-1111-1111-1111-111111111111/22222222-2222-2222-2222-222222222222/resume", FileKey(user, id, ""))
}

func TestObserve(t *testing.T) {
	var base, observed []string
	p := New(resume.NewMemoryStore(), nil, WithProgress(func(e ProgressEvent) { base = append(base, e.Step) }))

	_, _, err := p.Observe(func(e ProgressEvent) { observed = append(observed, e.Step) }).Run(context.Background(), pdfUpload(uuid.New()))
	require.NoError(t, err)

	assert.Empty(t, base)
	assert.Equal(t, []string{StepExtracted, StepStored, StepAnalysisSkipped}, observed)
}
