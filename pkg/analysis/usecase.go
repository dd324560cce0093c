package analysis

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/vbncursed/talentgate/pkg/match"
	"github.com/vbncursed/talentgate/pkg/resume"
)

// Scorer is the external matching path. *match.Client satisfies it.
type Scorer interface {
	Score(ctx context.Context, resumeText, jobDescription string) (match.Result, error)
}

// Extracted carries the best-effort structured fields a scoring pass produced.
// Any of them may be empty.
type Extracted struct {
	Skills     []string `json:"skills"`
	Experience string   `json:"experience"`
	Education  string   `json:"education"`
}

// Result is the full analysis outcome for one document.
type Result struct {
	Extracted Extracted     `json:"extractedData"`
	Match     match.Result  `json:"aiAnalysis"`
	Status    resume.Status `json:"status"`
}

// Analyzer coordinates extraction and scoring. The external service is tried
// first; when it fails after its retries, the heuristic matcher takes over on
// the already-extracted text. Only extraction failure fails the analysis.
type Analyzer struct {
	scorer    Scorer
	heuristic *match.Heuristic
	log       *zap.Logger
}

func NewAnalyzer(scorer Scorer, heuristic *match.Heuristic, log *zap.Logger) *Analyzer {
	if heuristic == nil {
		heuristic = match.NewHeuristic(nil)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{scorer: scorer, heuristic: heuristic, log: log}
}

// Analyze extracts text from the document and scores it against the job
// description. An ExtractionError propagates to the caller; a failing external
// service never does.
func (a *Analyzer) Analyze(ctx context.Context, doc resume.Document, jobDescription string) (Result, error) {
	text, err := resume.ExtractText(doc)
	if err != nil {
		return Result{}, err
	}

	var res match.Result
	scored := false
	if a.scorer != nil {
		res, err = a.scorer.Score(ctx, text, jobDescription)
		scored = err == nil
		if !scored {
			a.log.Warn("external matching failed, falling back to heuristic", zap.Error(err))
		}
	}
	if !scored {
		res = a.heuristic.Match(text, jobDescription)
	}

	out := Result{
		Match:  res,
		Status: resume.DeriveStatus(res.MatchPercentage, res.Recommendation),
	}
	if res.Source == match.SourceExternal {
		out.Extracted = Extracted{
			Skills:     res.SkillNames(),
			Experience: res.ExperienceNote,
			Education:  res.EducationNote,
		}
	} else {
		// Keyword scan over the resume itself: the heuristic result only
		// lists skills the job description asked for.
		out.Extracted = Extracted{Skills: a.heuristic.Vocabulary().Match(text)}
	}
	if out.Extracted.Skills == nil {
		out.Extracted.Skills = []string{}
	}
	return out, nil
}

// UnscoredMatch is the placeholder stored when no analysis ran at all
// (extraction failed). Distinct from a scored-but-weak result.
func UnscoredMatch() match.Result {
	return match.Result{
		MatchPercentage: 0,
		MatchingSkills:  []match.SkillConfidence{},
		MissingSkills:   []string{},
		Recommendation:  match.RecommendationUnscored,
		AnalysisNote:    "Could not analyze resume",
		Source:          match.SourceHeuristic,
		ComputedAt:      time.Now().UTC(),
	}
}
