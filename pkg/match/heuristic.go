package match

import "time"

// heuristicConfidence is assigned to every keyword hit: plain keyword overlap
// carries no semantic grounding, so all hits weigh the same.
const heuristicConfidence = 0.8

// Heuristic is the deterministic fallback scorer: keyword overlap between the
// job description and the resume text against a fixed vocabulary.
type Heuristic struct {
	vocab *Vocabulary
}

func NewHeuristic(vocab *Vocabulary) *Heuristic {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	return &Heuristic{vocab: vocab}
}

// Vocabulary exposes the reference skill set for callers that need the raw
// keyword scan (e.g. to fill extracted skills).
func (h *Heuristic) Vocabulary() *Vocabulary { return h.vocab }

// Match scores resumeText against jobDescription. It never fails: any
// degenerate input yields a zero, unscored result rather than an error.
func (h *Heuristic) Match(resumeText, jobDescription string) Result {
	if resumeText == "" {
		return h.unscored()
	}

	required := h.vocab.Match(jobDescription)
	held := toSet(h.vocab.Match(resumeText))

	var matching []SkillConfidence
	var missing []string
	for _, skill := range required {
		if _, ok := held[skill]; ok {
			matching = append(matching, SkillConfidence{Skill: skill, Confidence: heuristicConfidence})
		} else {
			missing = append(missing, skill)
		}
	}

	denom := len(required)
	if denom < 1 {
		denom = 1
	}
	pct := len(matching) * 100 / denom

	return Result{
		MatchPercentage: pct,
		MatchingSkills:  matching,
		MissingSkills:   missing,
		Recommendation:  RecommendationForScore(pct),
		AnalysisNote:    "Basic keyword matching completed",
		Source:          SourceHeuristic,
		ComputedAt:      time.Now().UTC(),
	}
}

func (h *Heuristic) unscored() Result {
	return Result{
		MatchPercentage: 0,
		MatchingSkills:  []SkillConfidence{},
		MissingSkills:   []string{},
		Recommendation:  RecommendationUnscored,
		AnalysisNote:    "Analysis failed",
		Source:          SourceHeuristic,
		ComputedAt:      time.Now().UTC(),
	}
}

func toSet(items []string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, it := range items {
		out[it] = struct{}{}
	}
	return out
}
