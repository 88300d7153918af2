package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/ekalavya-cmd/studbud-backend/internal/logger"
	"github.com/ekalavya-cmd/studbud-backend/internal/utils"
)

// Mode is the suggestion flavor a request resolves to.
type Mode string

const (
	ModeStudyTip       Mode = "studyTip"
	ModeProgressReport Mode = "progressReport"
	ModeDefaultPlan    Mode = "defaultPlan"
	ModeCustom         Mode = "custom"
)

var (
	// ErrAllModelsFailed signals the whole candidate list was exhausted.
	// The formatter absorbs it by synthesizing locally.
	ErrAllModelsFailed = errors.New("all candidate models failed")
	// ErrNoAPIKey fails fast before any network attempt.
	ErrNoAPIKey = errors.New("no inference API key configured")
)

// Gateway attempts external text generation with multi-model fallback.
type Gateway interface {
	Generate(ctx context.Context, prompt string, mode Mode) (string, error)
}

// InferenceGateway calls a Hugging-Face-style hosted-inference API: one POST
// per candidate model, in preference order, each with its own timeout. No
// retries beyond the model list, no circuit breaker; every call is
// independent.
type InferenceGateway struct {
	log         *logger.Logger
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	models      []string
	timeout     time.Duration
	temperature float64
}

// generateParams is the per-attempt parameter map. Keys are the ones the
// model family recognizes; unknown keys are ignored server-side.
type generateParams struct {
	MaxLength   int     `json:"max_length"`
	MinLength   int     `json:"min_length"`
	DoSample    bool    `json:"do_sample"`
	Temperature float64 `json:"temperature"`
	NumBeams    int     `json:"num_beams"`
}

func NewInferenceGateway(log *logger.Logger) *InferenceGateway {
	serviceLog := log.With("service", "InferenceGateway")

	apiKey := strings.TrimSpace(utils.GetEnv("HUGGINGFACE_API_KEY", "", log))
	baseURL := strings.TrimRight(utils.GetEnv("INFERENCE_BASE_URL", "https://api-inference.huggingface.co", log), "/")

	modelList := utils.GetEnv("SUGGEST_MODELS", "facebook/bart-base", log)
	var models []string
	for _, m := range strings.Split(modelList, ",") {
		if m = strings.TrimSpace(m); m != "" {
			models = append(models, m)
		}
	}

	timeoutSec := utils.GetEnvAsInt("SUGGEST_TIMEOUT_SECONDS", 15, log)
	if timeoutSec < 10 {
		timeoutSec = 10
	}
	if timeoutSec > 30 {
		timeoutSec = 30
	}
	timeout := time.Duration(timeoutSec) * time.Second

	temperature := utils.GetEnvAsFloat("SUGGEST_TEMPERATURE", 0.7, log)
	if temperature <= 0 || temperature > 2 {
		serviceLog.Warn("Sampling temperature out of range, using default", "value", temperature)
		temperature = 0.7
	}

	return &InferenceGateway{
		log:         serviceLog,
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     baseURL,
		apiKey:      apiKey,
		models:      models,
		timeout:     timeout,
		temperature: temperature,
	}
}

// Generate tries each candidate model in order and returns the first
// response that survives the filter chain.
func (g *InferenceGateway) Generate(ctx context.Context, prompt string, mode Mode) (string, error) {
	if g.apiKey == "" {
		g.log.Debug("No API key found, skipping external generation")
		return "", ErrNoAPIKey
	}

	var lastErr error
	for _, model := range g.models {
		text, err := g.attempt(ctx, model, prompt, mode)
		if err != nil {
			g.log.Warn("Model attempt failed, trying next", "model", model, "error", err)
			lastErr = err
			continue
		}
		g.log.Info("Generated suggestion from external model", "model", model)
		return text, nil
	}
	if lastErr != nil {
		return "", fmt.Errorf("%w: %v", ErrAllModelsFailed, lastErr)
	}
	return "", ErrAllModelsFailed
}

func (g *InferenceGateway) attempt(ctx context.Context, model, prompt string, mode Mode) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	body, err := json.Marshal(map[string]any{
		"inputs": prompt,
		"parameters": generateParams{
			MaxLength:   300,
			MinLength:   50,
			DoSample:    true,
			Temperature: g.temperature,
			NumBeams:    4,
		},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s", g.baseURL, model)
	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("model %s returned status %d", model, resp.StatusCode)
	}

	text, err := extractGeneratedText(raw)
	if err != nil {
		return "", err
	}
	return filterCandidate(text, mode)
}

// extractGeneratedText handles the response shapes the hosted API is known
// to produce, in priority order: array of objects with generated_text, a
// bare JSON string, then an object with generated_text.
func extractGeneratedText(raw []byte) (string, error) {
	var asArray []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(raw, &asArray); err == nil && len(asArray) > 0 {
		return asArray[0].GeneratedText, nil
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString, nil
	}

	var asObject struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(raw, &asObject); err == nil && asObject.GeneratedText != "" {
		return asObject.GeneratedText, nil
	}

	return "", fmt.Errorf("unrecognized response shape")
}

// Boilerplate prefixes models habitually echo back, including our own
// prompt scaffolding for models that prepend the input.
var boilerplatePrefixes = []string{
	"As an AI language model,",
	"As a language model,",
	"Sure, here is",
	"Sure! Here is",
	"Here is a suggestion:",
	"Generate a study suggestion based on the following information:",
	"Create a study plan for today based on this information:",
}

// bannedPatterns reject promotional or news-wire language that the smaller
// hosted models occasionally hallucinate.
var bannedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)click here`),
	regexp.MustCompile(`(?i)subscribe`),
	regexp.MustCompile(`(?i)buy now`),
	regexp.MustCompile(`(?i)limited time`),
	regexp.MustCompile(`(?i)breaking news`),
	regexp.MustCompile(`(?i)sign up (now|today)`),
	regexp.MustCompile(`(?i)visit our website`),
	regexp.MustCompile(`(?i)(discount|sale) (code|ends)`),
}

// studyKeywords is the allow-list a study tip must hit at least once.
var studyKeywords = []string{
	"study", "learn", "review", "practice", "focus",
	"memor", "note", "exam", "quiz", "recall",
}

// filterCandidate is the acceptance chain for one model response. Any
// rejection advances the gateway to the next model.
func filterCandidate(text string, mode Mode) (string, error) {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < 10 {
		return "", fmt.Errorf("response empty or too short")
	}

	for _, prefix := range boilerplatePrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, prefix))
		}
	}

	trimmed = firstSentences(trimmed, 3)
	if len(trimmed) < 10 {
		return "", fmt.Errorf("response empty after cleanup")
	}

	for _, pattern := range bannedPatterns {
		if pattern.MatchString(trimmed) {
			return "", fmt.Errorf("response matched banned pattern %q", pattern.String())
		}
	}

	if mode == ModeStudyTip {
		lower := strings.ToLower(trimmed)
		found := false
		for _, kw := range studyKeywords {
			if strings.Contains(lower, kw) {
				found = true
				break
			}
		}
		if !found {
			return "", fmt.Errorf("study tip missing domain keywords")
		}
	}

	return trimmed, nil
}

var sentenceEndRe = regexp.MustCompile(`[.!?](\s|$)`)

// firstSentences truncates to at most n complete sentences. Text without
// sentence punctuation passes through whole.
func firstSentences(text string, n int) string {
	ends := sentenceEndRe.FindAllStringIndex(text, -1)
	if len(ends) == 0 || len(ends) <= n {
		return strings.TrimSpace(text)
	}
	cut := ends[n-1][1]
	return strings.TrimSpace(text[:cut])
}
