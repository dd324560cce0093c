package match

import (
	"regexp"

	"github.com/vbncursed/talentgate/pkg/nlp"
)

// defaultSkills is the reference vocabulary for the heuristic path. It is
// deliberately small: the heuristic only has to produce a sane score when the
// external service is down, not a complete skills taxonomy.
var defaultSkills = []string{
	"javascript", "node", "react", "python", "java", "c#", ".net",
	"sql", "mongodb", "express", "aws", "docker", "typescript",
	"html", "css", "rest", "api", "backend", "frontend",
}

// Vocabulary is a read-only registry of skill tokens with precompiled
// matchers. Build it once at startup and share it between requests.
type Vocabulary struct {
	tokens   []string
	patterns []*regexp.Regexp
}

// NewVocabulary compiles a vocabulary from the given tokens.
func NewVocabulary(tokens []string) *Vocabulary {
	v := &Vocabulary{}
	for _, t := range tokens {
		t = nlp.Normalize(t)
		if t == "" {
			continue
		}
		v.tokens = append(v.tokens, t)
		v.patterns = append(v.patterns, nlp.TokenPattern(t))
	}
	return v
}

// DefaultVocabulary returns the built-in reference skill set.
func DefaultVocabulary() *Vocabulary {
	return NewVocabulary(defaultSkills)
}

// Tokens returns the vocabulary tokens in registration order.
func (v *Vocabulary) Tokens() []string {
	out := make([]string, len(v.tokens))
	copy(out, v.tokens)
	return out
}

// Match returns the vocabulary tokens present in text as whole words,
// case-insensitive, in vocabulary order.
func (v *Vocabulary) Match(text string) []string {
	var found []string
	for i, p := range v.patterns {
		if nlp.ContainsToken(text, p) {
			found = append(found, v.tokens[i])
		}
	}
	return found
}
