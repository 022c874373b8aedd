package resume

import (
	"slices"

	"github.com/jonathan/resume-analyzer/internal/analysis"
)

// ApplyAnalysis returns a copy of rec carrying every field of result with
// HasAnalysis set. The version is left alone; Store.SaveAnalysis decides it.
func ApplyAnalysis(rec *Record, result analysis.Result) *Record {
	updated := *rec
	updated.Result = result
	updated.HasAnalysis = true
	return updated.Clone()
}

// ShouldBumpVersion reports whether saving updated over old changes any of
// basicInfo, skills, atsScore, courseRecommendations or resumeTips. Nil and
// empty lists compare equal. A nil old record (first save) never bumps.
func ShouldBumpVersion(old, updated *Record) bool {
	if old == nil || updated == nil {
		return false
	}
	return old.BasicInfo != updated.BasicInfo ||
		!slices.Equal(old.Skills.CurrentSkills, updated.Skills.CurrentSkills) ||
		!slices.Equal(old.Skills.RecommendedSkills, updated.Skills.RecommendedSkills) ||
		old.ATSScore != updated.ATSScore ||
		!slices.Equal(old.CourseRecommendations, updated.CourseRecommendations) ||
		!slices.Equal(old.ResumeTips, updated.ResumeTips)
}
