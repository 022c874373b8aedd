package analysis

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Normalize fills every documented field of a Result from raw. It never fails:
// absent, null or ill-typed values become "", 0 or an empty list.
//
// Lists are coerced element by element. In string lists, numbers and booleans
// are formatted as strings while objects, arrays and nulls are dropped. In
// object lists, non-object elements are dropped and each field of a kept
// element is coerced the same way as a top-level field.
func Normalize(raw Raw) Result {
	obj := map[string]any(raw)

	basic := objectField(obj, "basicInfo")
	skills := objectField(obj, "skills")
	projects := objectField(obj, "projectSuggestions")

	return Result{
		BasicInfo: BasicInfo{
			Name:    stringField(basic, "name"),
			Email:   stringField(basic, "email"),
			Mobile:  stringField(basic, "mobile"),
			Address: stringField(basic, "address"),
		},
		Skills: Skills{
			CurrentSkills:     stringList(skills["currentSkills"]),
			RecommendedSkills: stringList(skills["recommendedSkills"]),
		},
		CourseRecommendations: objectList(obj["courseRecommendations"], func(m map[string]any) CourseRecommendation {
			return CourseRecommendation{
				Platform:   stringField(m, "platform"),
				CourseName: stringField(m, "course_name"),
				Link:       stringField(m, "link"),
			}
		}),
		Appreciation:     stringList(obj["appreciation"]),
		ResumeTips:       stringList(obj["resumeTips"]),
		ATSScore:         intScore(obj["atsScore"]),
		AIResumeSummary:  stringField(obj, "aiResumeSummary"),
		MatchingJobRoles: stringList(obj["matchingJobRoles"]),
		ATSKeywords:      stringList(obj["atsKeywords"]),
		ProjectSuggestions: ProjectSuggestions{
			ImprovementTips:           stringList(projects["improvementTips"]),
			NewProjectRecommendations: stringList(projects["newProjectRecommendations"]),
		},
		RelevantSkillsScore: objectList(obj["relevantSkillsScore"], func(m map[string]any) SkillScore {
			return SkillScore{
				Skill: stringField(m, "skill"),
				Score: number(m["score"]),
			}
		}),
		JobLevelScore: objectList(obj["jobLevelScore"], func(m map[string]any) JobLevelScore {
			return JobLevelScore{
				Level: stringField(m, "level"),
				Score: number(m["score"]),
			}
		}),
		CareerGrowthTrajectory: objectList(obj["careerGrowthTrajectory"], func(m map[string]any) CareerStep {
			return CareerStep{
				CurrentRole: stringField(m, "currentRole"),
				NextRole:    stringField(m, "nextRole"),
				FutureRoles: stringList(m["futureRoles"]),
				Suggestions: stringList(m["suggestions"]),
			}
		}),
	}
}

// NormalizeJSON decodes data and normalizes it. Input that is not a JSON
// object yields EmptyResult.
func NormalizeJSON(data []byte) Result {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return Normalize(nil)
	}
	return Normalize(obj)
}

func objectField(obj map[string]any, key string) map[string]any {
	if m, ok := obj[key].(map[string]any); ok {
		return m
	}
	return nil
}

func stringField(obj map[string]any, key string) string {
	s, _ := scalarString(obj[key])
	return s
}

// scalarString formats JSON scalars as strings. Objects, arrays and null
// report false.
func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	case int:
		return strconv.Itoa(t), true
	}
	return "", false
}

func stringList(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := scalarString(item); ok {
			out = append(out, s)
		}
	}
	return out
}

func objectList[T any](v any, build func(map[string]any) T) []T {
	items, _ := v.([]any)
	out := make([]T, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, build(m))
		}
	}
	return out
}

// number accepts JSON numbers and numeric strings; anything else is 0.
func number(v any) float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// intScore rounds a numeric value to the nearest integer. Values outside the
// int32 range are treated as garbage.
func intScore(v any) int {
	f := math.Round(number(v))
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0
	}
	return int(f)
}
