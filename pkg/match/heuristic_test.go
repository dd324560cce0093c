package match

import "testing"

func TestHeuristicMatchScoresOverlap(t *testing.T) {
	h := NewHeuristic(nil)
	job := "Looking for a python developer with docker and aws experience"
	res := h.Match("Python engineer, strong docker background", job)

	if res.Source != SourceHeuristic {
		t.Fatalf("expected heuristic source, got %q", res.Source)
	}
	// job mentions python, docker, aws; resume covers python and docker
	if res.MatchPercentage != 2*100/3 {
		t.Fatalf("expected 66, got %d", res.MatchPercentage)
	}
	if len(res.MatchingSkills) != 2 {
		t.Fatalf("expected 2 matching skills, got %v", res.MatchingSkills)
	}
	for _, sc := range res.MatchingSkills {
		if sc.Confidence != 0.8 {
			t.Fatalf("heuristic hits carry fixed confidence, got %v", sc.Confidence)
		}
	}
	if len(res.MissingSkills) != 1 || res.MissingSkills[0] != "aws" {
		t.Fatalf("expected missing [aws], got %v", res.MissingSkills)
	}
}

func TestHeuristicMatchZeroOverlap(t *testing.T) {
	h := NewHeuristic(nil)
	res := h.Match("I am a professional chef", "Looking for a react and typescript frontend developer")
	if res.MatchPercentage != 0 {
		t.Fatalf("expected 0, got %d", res.MatchPercentage)
	}
	if res.Recommendation != RecommendationWeak {
		t.Fatalf("expected weak match, got %q", res.Recommendation)
	}
}

func TestHeuristicMatchEmptyResumeIsUnscored(t *testing.T) {
	h := NewHeuristic(nil)
	res := h.Match("", "python developer")
	if res.Recommendation != RecommendationUnscored {
		t.Fatalf("expected unscored, got %q", res.Recommendation)
	}
	if res.MatchPercentage != 0 {
		t.Fatalf("expected 0, got %d", res.MatchPercentage)
	}
}

func TestHeuristicJobWithoutVocabularyHits(t *testing.T) {
	h := NewHeuristic(nil)
	// The job description names no known skills: nothing required,nothing matched.
	res := h.Match("python and docker everywhere", "Looking for a good communicator")
	if res.MatchPercentage != 0 {
		t.Fatalf("expected 0 when job requires no known skills, got %d", res.MatchPercentage)
	}
	if len(res.MissingSkills) != 0 {
		t.Fatalf("expected no missing skills, got %v", res.MissingSkills)
	}
}

func TestVocabularySymbolTokens(t *testing.T) {
	v := DefaultVocabulary()
	hits := toSet(v.Match("Senior C# engineer working with .NET and SQL"))
	for _, want := range []string{"c#", ".net", "sql"} {
		if _, ok := hits[want]; !ok {
			t.Fatalf("expected %q in hits %v", want, hits)
		}
	}
}

func TestVocabularyWholeTokenBoundaries(t *testing.T) {
	v := DefaultVocabulary()
	hits := toSet(v.Match("I build versatile apis with node.js"))
	if _, ok := hits["api"]; ok {
		t.Fatalf("'api' must not match inside 'apis': %v", hits)
	}
	if _, ok := hits["node"]; !ok {
		t.Fatalf("'node' should match in 'node.js': %v", hits)
	}
}
