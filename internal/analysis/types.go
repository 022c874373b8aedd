package analysis

// Raw is a decoded model response before normalization.
type Raw map[string]any

// BasicInfo holds the candidate contact details found in the resume.
type BasicInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Mobile  string `json:"mobile"`
	Address string `json:"address"`
}

// Skills splits skills the candidate has from skills worth learning.
type Skills struct {
	CurrentSkills     []string `json:"currentSkills"`
	RecommendedSkills []string `json:"recommendedSkills"`
}

// CourseRecommendation is a suggested course.
type CourseRecommendation struct {
	Platform   string `json:"platform"`
	CourseName string `json:"course_name"`
	Link       string `json:"link"`
}

// ProjectSuggestions holds advice on existing and new projects.
type ProjectSuggestions struct {
	ImprovementTips           []string `json:"improvementTips"`
	NewProjectRecommendations []string `json:"newProjectRecommendations"`
}

// SkillScore rates one skill from 0 to 100.
type SkillScore struct {
	Skill string  `json:"skill"`
	Score float64 `json:"score"`
}

// JobLevelScore rates fit for one seniority level from 0 to 100.
type JobLevelScore struct {
	Level string  `json:"level"`
	Score float64 `json:"score"`
}

// CareerStep is one suggested career trajectory.
type CareerStep struct {
	CurrentRole string   `json:"currentRole"`
	NextRole    string   `json:"nextRole"`
	FutureRoles []string `json:"futureRoles"`
	Suggestions []string `json:"suggestions"`
}

// Result is a normalized resume analysis. Every slice is non-nil once
// produced by Normalize, so it encodes as [] rather than null.
type Result struct {
	BasicInfo              BasicInfo              `json:"basicInfo"`
	Skills                 Skills                 `json:"skills"`
	CourseRecommendations  []CourseRecommendation `json:"courseRecommendations"`
	Appreciation           []string               `json:"appreciation"`
	ResumeTips             []string               `json:"resumeTips"`
	ATSScore               int                    `json:"atsScore"`
	AIResumeSummary        string                 `json:"aiResumeSummary"`
	MatchingJobRoles       []string               `json:"matchingJobRoles"`
	ATSKeywords            []string               `json:"atsKeywords"`
	ProjectSuggestions     ProjectSuggestions     `json:"projectSuggestions"`
	RelevantSkillsScore    []SkillScore           `json:"relevantSkillsScore"`
	JobLevelScore          []JobLevelScore        `json:"jobLevelScore"`
	CareerGrowthTrajectory []CareerStep           `json:"careerGrowthTrajectory"`
}

// EmptyResult returns a Result with every field set to its empty default.
func EmptyResult() Result {
	return Normalize(nil)
}
