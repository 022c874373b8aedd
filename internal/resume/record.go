// Package resume defines the stored resume record, the rule for bumping its
// analysis version, and the storage contract shared by every backend.
package resume

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-analyzer/internal/analysis"
)

// Record is one uploaded resume with its extracted text and analysis.
// The embedded analysis fields are flattened into the JSON form.
type Record struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"userId"`
	Title    string    `json:"title"`
	FileName string    `json:"fileName"`
	FileType string    `json:"fileType"`
	// FileData holds the original bytes unless they live in the blob store,
	// in which case FileKey names the object.
	FileData []byte `json:"-"`
	FileKey  string `json:"-"`

	RawText     string `json:"rawText"`
	WordCount   int    `json:"wordCount"`
	HasAnalysis bool   `json:"hasAnalysis"`

	analysis.Result

	AnalysisVersion int       `json:"analysisVersion"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// NewRecordInput holds what an upload knows before analysis.
type NewRecordInput struct {
	UserID    uuid.UUID
	FileName  string
	FileType  string
	FileData  []byte
	RawText   string
	WordCount int
}

// NewRecord builds an unanalyzed record with empty analysis fields and
// version 1.
func NewRecord(input NewRecordInput, now time.Time) *Record {
	now = now.UTC()
	return &Record{
		ID:              uuid.New(),
		UserID:          input.UserID,
		Title:           DefaultTitle(now),
		FileName:        input.FileName,
		FileType:        input.FileType,
		FileData:        input.FileData,
		RawText:         input.RawText,
		WordCount:       input.WordCount,
		HasAnalysis:     false,
		Result:          analysis.EmptyResult(),
		AnalysisVersion: 1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// DefaultTitle is the title given to a fresh upload.
func DefaultTitle(t time.Time) string {
	return "Resume " + t.Format("2006-01-02")
}

// Clone returns a deep copy of r.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	c.FileData = slices.Clone(r.FileData)

	res := &c.Result
	res.Skills.CurrentSkills = slices.Clone(r.Skills.CurrentSkills)
	res.Skills.RecommendedSkills = slices.Clone(r.Skills.RecommendedSkills)
	res.CourseRecommendations = slices.Clone(r.CourseRecommendations)
	res.Appreciation = slices.Clone(r.Appreciation)
	res.ResumeTips = slices.Clone(r.ResumeTips)
	res.MatchingJobRoles = slices.Clone(r.MatchingJobRoles)
	res.ATSKeywords = slices.Clone(r.ATSKeywords)
	res.ProjectSuggestions.ImprovementTips = slices.Clone(r.ProjectSuggestions.ImprovementTips)
	res.ProjectSuggestions.NewProjectRecommendations = slices.Clone(r.ProjectSuggestions.NewProjectRecommendations)
	res.RelevantSkillsScore = slices.Clone(r.RelevantSkillsScore)
	res.JobLevelScore = slices.Clone(r.JobLevelScore)
	if r.CareerGrowthTrajectory != nil {
		res.CareerGrowthTrajectory = make([]analysis.CareerStep, len(r.CareerGrowthTrajectory))
		for i, step := range r.CareerGrowthTrajectory {
			step.FutureRoles = slices.Clone(step.FutureRoles)
			step.Suggestions = slices.Clone(step.Suggestions)
			res.CareerGrowthTrajectory[i] = step
		}
	}
	return &c
}
