package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"campusadvisor/internal/config"
	"campusadvisor/internal/logging"
	"campusadvisor/internal/models"
)

// Invoker answers a query on behalf of a named specialist. The
// orchestrator only requires text or an error within its timeout
// budget; what runs behind the interface is its own business.
type Invoker interface {
	Invoke(ctx context.Context, specialist, query, contextSummary string) (string, error)
}

// defaultPrompts are the system prompts for the built-in specialists.
var defaultPrompts = map[string]string{
	models.SpecialistAdmissions: "You are an admissions advisor for a technical college. " +
		"Help students with applications, requirements, enrollment, placement testing, and transcripts. " +
		"Be encouraging and specific about next steps.",
	models.SpecialistAcademics: "You are an academic advisor for a technical college. " +
		"Help students explore programs, courses, curriculum, degrees, and certificates. " +
		"Connect programs to career pathways where relevant.",
	models.SpecialistFinancialAid: "You are a financial aid advisor for a technical college. " +
		"Help students understand tuition, fees, scholarships, grants, loans, and FAFSA. " +
		"Be clear about deadlines and eligibility.",
	models.SpecialistGeneral: "You are a general advisor for a technical college. " +
		"Answer student questions helpfully and route them toward the right campus resources.",
}

// LLMInvoker calls an OpenAI-compatible chat completions endpoint, one
// request per specialist invocation. Outbound calls share a rate
// limiter so a burst of complex queries cannot hammer the provider.
type LLMInvoker struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	limiter *rate.Limiter
	prompts map[string]string
	metrics *Metrics
}

// NewLLMInvoker builds the invoker from config. Specialist definitions
// from a specialists file override the built-in prompts.
func NewLLMInvoker(cfg *config.Config, specialists *config.SpecialistsConfig, metrics *Metrics) *LLMInvoker {
	prompts := make(map[string]string, len(defaultPrompts))
	for name, prompt := range defaultPrompts {
		prompts[name] = prompt
	}
	if specialists != nil {
		for _, def := range specialists.Specialists {
			if def.Prompt != "" {
				prompts[def.Name] = def.Prompt
			}
		}
	}

	rps := cfg.LLMRequestsPerSec
	if rps <= 0 {
		rps = 2.0
	}

	return &LLMInvoker{
		baseURL: cfg.LLMBaseURL,
		apiKey:  cfg.LLMAPIKey,
		model:   cfg.LLMModel,
		client:  &http.Client{Timeout: cfg.SpecialistTimeout},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		prompts: prompts,
		metrics: metrics,
	}
}

// Invoke sends the query to the model under the specialist's system
// prompt and returns the completion text.
func (s *LLMInvoker) Invoke(ctx context.Context, specialist, query, contextSummary string) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	start := time.Now()
	text, err := s.complete(ctx, specialist, query, contextSummary)
	if s.metrics != nil {
		s.metrics.SpecialistLatency.WithLabelValues(specialist).Observe(time.Since(start).Seconds())
		if err != nil {
			s.metrics.SpecialistErrors.WithLabelValues(specialist).Inc()
		}
	}
	return text, err
}

func (s *LLMInvoker) complete(ctx context.Context, specialist, query, contextSummary string) (string, error) {
	systemPrompt, ok := s.prompts[specialist]
	if !ok {
		systemPrompt = s.prompts[models.SpecialistGeneral]
	}

	userContent := query
	if contextSummary != "" {
		userContent = fmt.Sprintf("Student context: %s\n\nQuestion: %s", contextSummary, query)
	}

	reqBody := map[string]interface{}{
		"model": s.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userContent},
		},
		"stream": false,
	}

	reqJSON, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/chat/completions", bytes.NewBuffer(reqJSON))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	content := result.Choices[0].Message.Content
	log.Printf("📡 [SPECIALIST] %s answered in %d chars", specialist, len(content))
	logging.WithSpecialist(slog.Default(), specialist).Debug("completion received", "chars", len(content))
	return content, nil
}
