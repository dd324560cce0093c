package match

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vbncursed/talentgate/pkg/apperr"
	"github.com/vbncursed/talentgate/pkg/llm"
)

// Input bounds sent to the remote service. Keeps cost and latency predictable
// and avoids provider-side truncation surprises.
const (
	maxJobDescriptionChars = 2000
	maxResumeChars         = 4000
)

const (
	defaultAttempts       = 3
	defaultBaseDelay      = time.Second
	defaultAttemptTimeout = 20 * time.Second
)

// ClientConfig tunes the retry loop. Zero values fall back to defaults.
type ClientConfig struct {
	Attempts       int
	BaseDelay      time.Duration
	AttemptTimeout time.Duration
}

// Client scores a resume against a job description via the external reasoning
// service. It retries transient failures itself but never degrades silently:
// after the attempts are exhausted the error propagates, and falling back to
// the heuristic matcher is the orchestrator's call.
type Client struct {
	model          llm.ChatModel
	log            *zap.Logger
	attempts       int
	baseDelay      time.Duration
	attemptTimeout time.Duration
}

func NewClient(model llm.ChatModel, log *zap.Logger, cfg ClientConfig) *Client {
	if cfg.Attempts <= 0 {
		cfg.Attempts = defaultAttempts
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = defaultBaseDelay
	}
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = defaultAttemptTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		model:          model,
		log:            log,
		attempts:       cfg.Attempts,
		baseDelay:      cfg.BaseDelay,
		attemptTimeout: cfg.AttemptTimeout,
	}
}

const systemPrompt = "You are a resume analysis API. Return ONLY valid JSON with confidence values between 0 and 1."

func buildPrompt(resumeText, jobDescription string) string {
	return fmt.Sprintf(`Analyze this resume against the job description and return JSON with:
- matchPercentage (0-100)
- matchingSkills: [{skill: string, confidence: number (0-1 scale)}]
- missingSkills: string[]
- recommendation: "Strong Match" | "Moderate Match" | "Weak Match"
- analysis: string (max 300 chars)
- experienceMatch: string (max 200 chars)
- educationMatch: string (max 200 chars)

Job: %s
Resume: %s

Return ONLY valid JSON without any formatting or additional text.`, jobDescription, resumeText)
}

// Score runs up to Attempts sequential calls with a linear backoff
// (attempt number times the base delay) and a per-attempt timeout.
func (c *Client) Score(ctx context.Context, resumeText, jobDescription string) (Result, error) {
	jobDescription = Truncate(jobDescription, maxJobDescriptionChars)
	resumeText = Truncate(resumeText, maxResumeChars)
	prompt := buildPrompt(resumeText, jobDescription)

	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		res, err := c.attemptOnce(ctx, prompt)
		if err == nil {
			return res, nil
		}
		lastErr = err
		c.log.Warn("matching service attempt failed",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if attempt == c.attempts {
			break
		}
		select {
		case <-time.After(time.Duration(attempt) * c.baseDelay):
		case <-ctx.Done():
			return Result{}, &apperr.ExternalServiceError{Attempts: attempt, Err: ctx.Err()}
		}
	}
	return Result{}, &apperr.ExternalServiceError{Attempts: c.attempts, Err: lastErr}
}

func (c *Client) attemptOnce(ctx context.Context, prompt string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
	defer cancel()

	raw, err := c.model.Ask(ctx, systemPrompt, prompt)
	if err != nil {
		return Result{}, err
	}
	return parseResponse(raw)
}

// parseResponse tolerates explanatory prose around the JSON payload: it takes
// the first top-level {...} block and parses only that. Every field goes
// through an explicit coercion; the remote schema is never trusted verbatim.
func parseResponse(raw string) (Result, error) {
	block, ok := jsonBlock(raw)
	if !ok {
		return Result{}, errors.New("no JSON object found in response")
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(block), &payload); err != nil {
		return Result{}, fmt.Errorf("malformed JSON in response: %w", err)
	}

	pct := ClampPercentage(asFloat(payload["matchPercentage"]))
	res := Result{
		MatchPercentage: pct,
		MatchingSkills:  asSkills(payload["matchingSkills"]),
		MissingSkills:   asStringSlice(payload["missingSkills"]),
		Recommendation:  CoerceRecommendation(asString(payload["recommendation"])),
		AnalysisNote:    Truncate(asString(payload["analysis"]), maxAnalysisLen),
		ExperienceNote:  Truncate(asString(payload["experienceMatch"]), maxExperienceLen),
		EducationNote:   Truncate(asString(payload["educationMatch"]), maxEducationLen),
		Source:          SourceExternal,
		ComputedAt:      time.Now().UTC(),
	}
	return res, nil
}

func jsonBlock(raw string) (string, bool) {
	i := strings.Index(raw, "{")
	j := strings.LastIndex(raw, "}")
	if i < 0 || j <= i {
		return "", false
	}
	return raw[i : j+1], true
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func asSkills(v any) []SkillConfidence {
	items, ok := v.([]any)
	if !ok {
		return []SkillConfidence{}
	}
	out := make([]SkillConfidence, 0, len(items))
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		name := asString(m["skill"])
		if name == "" {
			continue
		}
		out = append(out, SkillConfidence{
			Skill:      name,
			Confidence: NormalizeConfidence(asFloat(m["confidence"])),
		})
	}
	return out
}
