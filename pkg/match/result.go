package match

import "time"

// Recommendation is the coarse verdict returned alongside the numeric score.
type Recommendation string

const (
	RecommendationStrong   Recommendation = "Strong Match"
	RecommendationModerate Recommendation = "Moderate Match"
	RecommendationWeak     Recommendation = "Weak Match"
	RecommendationUnscored Recommendation = "Unscored"
)

// Source tells which path produced a Result.
type Source string

const (
	SourceExternal  Source = "external_service"
	SourceHeuristic Source = "heuristic"
)

// SkillConfidence pairs a matched skill with a confidence in [0,1].
type SkillConfidence struct {
	Skill      string  `json:"skill"`
	Confidence float64 `json:"confidence"`
}

// Result is a normalized match outcome. MatchPercentage is always in [0,100]
// and every confidence in [0,1], regardless of what the remote service sent.
type Result struct {
	MatchPercentage int               `json:"matchPercentage"`
	MatchingSkills  []SkillConfidence `json:"matchingSkills"`
	MissingSkills   []string          `json:"missingSkills"`
	Recommendation  Recommendation    `json:"recommendation"`
	AnalysisNote    string            `json:"analysis"`
	ExperienceNote  string            `json:"experienceMatch"`
	EducationNote   string            `json:"educationMatch"`
	Source          Source            `json:"source"`
	ComputedAt      time.Time         `json:"computedAt"`
}

// SkillNames returns just the names of the matching skills.
func (r Result) SkillNames() []string {
	names := make([]string, 0, len(r.MatchingSkills))
	for _, s := range r.MatchingSkills {
		names = append(names, s.Skill)
	}
	return names
}
