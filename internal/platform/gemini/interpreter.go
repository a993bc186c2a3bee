package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/lburgess/aftlab/internal/config"
	"github.com/lburgess/aftlab/internal/domain"
	"github.com/lburgess/aftlab/internal/interpret"
)

// GeminiInterpreter implements the interpret.Interpreter interface using
// Google's Gemini API.
type GeminiInterpreter struct {
	logger *slog.Logger
	config config.InterpretConfig
	client *genai.Client
	model  string
}

// NewGeminiInterpreter creates a Gemini-backed interpreter from the given
// configuration. The API key and model name must be set.
func NewGeminiInterpreter(ctx context.Context, logger *slog.Logger, cfg config.InterpretConfig) (*GeminiInterpreter, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", interpret.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", interpret.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", interpret.ErrInvalidConfig, err)
	}

	return &GeminiInterpreter{
		logger: logger.With("component", "gemini_interpreter"),
		config: cfg,
		client: client,
		model:  cfg.ModelName,
	}, nil
}

var _ interpret.Interpreter = (*GeminiInterpreter)(nil)

// Interpret implements interpret.Interpreter.
func (g *GeminiInterpreter) Interpret(ctx context.Context, dataset *domain.Dataset, fit *domain.ModelFit) (string, error) {
	prompt, err := buildPrompt(dataset, fit)
	if err != nil {
		return "", fmt.Errorf("%w: %v", interpret.ErrInterpretationFailed, err)
	}

	g.logger.DebugContext(ctx, "interpreting fit",
		"fit_id", fit.ID,
		"family", fit.Family,
		"prompt_length", len(prompt))

	text, err := g.callWithRetry(ctx, prompt)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(text), nil
}

// callWithRetry calls the Gemini API up to MaxRetries+1 times, backing off
// exponentially with jitter between attempts. Permanent errors (blocked
// content, malformed responses) are returned immediately.
func (g *GeminiInterpreter) callWithRetry(ctx context.Context, prompt string) (string, error) {
	maxRetries := g.config.MaxRetries
	if maxRetries < 0 {
		maxRetries = 3
	}
	baseDelaySeconds := g.config.RetryDelaySeconds
	if baseDelaySeconds < 1 {
		baseDelaySeconds = 2
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; ; attempt++ {
		g.logger.InfoContext(ctx, "calling Gemini API",
			"attempt", attempt+1,
			"max_attempts", maxRetries+1)

		text, transient, err := g.callOnce(ctx, prompt)
		if err == nil {
			return text, nil
		}

		g.logger.ErrorContext(ctx, "Gemini API call failed",
			"attempt", attempt+1,
			"transient", transient,
			"error", err)

		if !transient {
			return "", err
		}
		if attempt >= maxRetries {
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d)",
				interpret.ErrTransientFailure, maxRetries)
		}

		// delay = baseDelay * 2^attempt * jitter in [0.5, 1.0)
		backoff := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		delay := time.Duration(backoff * (0.5 + rng.Float64()*0.5) * float64(time.Second))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", interpret.ErrTransientFailure, ctx.Err())
		}
	}
}

// callOnce makes a single API call. The second return value reports whether
// a failure is worth retrying.
func (g *GeminiInterpreter) callOnce(ctx context.Context, prompt string) (string, bool, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", true, fmt.Errorf("%w: %v", interpret.ErrTransientFailure, err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", false, fmt.Errorf("%w: no content generated", interpret.ErrInvalidResponse)
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", false, interpret.ErrContentBlocked
	}

	text := resp.Text()
	if text == "" {
		return "", false, fmt.Errorf("%w: empty response text", interpret.ErrInvalidResponse)
	}

	return text, false, nil
}
