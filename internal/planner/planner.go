// Package planner produces a partial trip document from a free-text prompt by
// calling an OpenAI-compatible chat-completions endpoint.
//
// The model's output is untrusted: it is unwrapped from markdown fences,
// decoded, normalized and validated before it is handed back. Every failure
// collapses to domain.ErrNoPlan so callers only ever have to handle one outcome.
package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/choiyuns329/Japan-trip/internal/domain"
)

// Defaults point at Gemini's OpenAI-compatible endpoint.
const (
	DefaultBaseURL    = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultModel      = "gemini-2.5-flash"
	DefaultTimeout    = 60 * time.Second
	DefaultMaxRetries = 2
	DefaultCurrency   = "KRW (Korean Won)"
)

// Generator produces a partial trip document from a prompt.
// The service depends on this interface so tests can substitute a fake.
type Generator interface {
	Generate(ctx context.Context, prompt string, current domain.Trip) (domain.Partial, error)
}

// Config holds the settings of a Planner. Zero values fall back to the defaults above.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
	Currency   string
}

// Planner is the Generator backed by a chat-completions API.
type Planner struct {
	client openai.Client
	cfg    Config
	log    *slog.Logger
	now    func() time.Time
}

// compile-time check: Planner must satisfy Generator.
var _ Generator = (*Planner)(nil)

// New constructs a Planner. Extra request options are appended after the
// ones derived from cfg, so tests can override the HTTP client.
func New(cfg Config, log *slog.Logger, opts ...option.RequestOption) *Planner {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.Currency == "" {
		cfg.Currency = DefaultCurrency
	}
	if log == nil {
		log = slog.Default()
	}

	reqOpts := append([]option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithMaxRetries(cfg.MaxRetries),
	}, opts...)

	return &Planner{
		client: openai.NewClient(reqOpts...),
		cfg:    cfg,
		log:    log,
		now:    time.Now,
	}
}

// Generate asks the model for a plan. On success the partial document is
// validated and its lists carry unique ids. On any failure the error wraps
// domain.ErrNoPlan.
func (p *Planner) Generate(ctx context.Context, prompt string, current domain.Trip) (partial domain.Partial, err error) {
	defer func() {
		if r := recover(); r != nil {
			partial, err = domain.Partial{}, p.fail(fmt.Errorf("panic: %v", r))
		}
	}()

	if strings.TrimSpace(p.cfg.APIKey) == "" {
		return domain.Partial{}, p.fail(errors.New("API key is not configured"))
	}
	if strings.TrimSpace(prompt) == "" {
		return domain.Partial{}, p.fail(errors.New("prompt is empty"))
	}

	user, err := buildUserMessage(prompt, current, p.now())
	if err != nil {
		return domain.Partial{}, p.fail(fmt.Errorf("build prompt: %w", err))
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.cfg.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(buildSystemInstruction(p.cfg.Currency)),
			openai.UserMessage(user),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		return domain.Partial{}, p.fail(fmt.Errorf("chat completion: %w", err))
	}
	if len(resp.Choices) == 0 {
		return domain.Partial{}, p.fail(errors.New("response has no choices"))
	}

	plan, err := ParsePlan(resp.Choices[0].Message.Content)
	if err != nil {
		return domain.Partial{}, p.fail(err)
	}

	p.log.InfoContext(ctx, "plan generated",
		"model", p.cfg.Model,
		"duration_ms", time.Since(start).Milliseconds(),
		"flights", len(plan.Flights.Value),
		"accommodations", len(plan.Accommodations.Value),
		"activities", len(plan.Activities.Value),
		"transportation", len(plan.Transportation.Value),
	)
	return plan, nil
}

// fail logs the cause and wraps it in domain.ErrNoPlan.
func (p *Planner) fail(cause error) error {
	p.log.Warn("plan generation failed", "model", p.cfg.Model, "error", cause)
	return fmt.Errorf("planner.Planner.Generate: %w: %w", domain.ErrNoPlan, cause)
}
