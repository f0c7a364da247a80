// Package advisor implements the response-normalization and retry protocol
// shared by every AI-backed endpoint. One generic engine drives the
// request/repair cycle: send the message sequence, extract JSON from the raw
// reply, parse it, normalize it against the task's declared schema, and on
// content failure append a corrective turn and try once more. Transport
// failures never retry; content failures retry up to a fixed budget.
package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/robin-app/ideation/llm"
	"github.com/robin-app/ideation/normalize"
)

// DefaultMaxAttempts is the total request budget per invocation: one initial
// attempt plus at most one corrective retry.
const DefaultMaxAttempts = 2

// invalidPlaceholder stands in for the model's rejected reply in the
// corrective turn, so the follow-up instruction has an assistant message to
// refer back to without resending the bad output.
const invalidPlaceholder = "(invalid response)"

// Spec parameterizes the engine for one task type. Schemas are compile-time
// constants kept in lockstep with the prompt text (see the prompts package).
type Spec[T any] struct {
	// Name identifies the task in logs.
	Name string

	// SystemPrompt carries the persona, the literal JSON shape required,
	// and the formatting constraints.
	SystemPrompt string

	// CorrectivePrompt enumerates the task's common shape mistakes and
	// instructs the model to return only the corrected JSON.
	CorrectivePrompt string

	// Temperature is the task-specific sampling constant (0 is deterministic).
	Temperature float64

	// MaxTokens bounds the model's output length.
	MaxTokens int

	// Schema declares the target shape. A nil schema skips normalization
	// and decodes the parsed JSON directly.
	Schema *normalize.Schema

	// MaxAttempts overrides DefaultMaxAttempts when positive.
	MaxAttempts int
}

// Engine owns the request/repair loop against the external model.
// It holds no per-invocation state; concurrent Run calls are independent.
type Engine struct {
	client llm.Completer
	logger *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an engine over the given completer.
func NewEngine(client llm.Completer, opts ...EngineOption) *Engine {
	e := &Engine{
		client: client,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Client exposes the underlying completer for free-text calls that bypass
// the normalization protocol (e.g. the onboarding chat).
func (e *Engine) Client() llm.Completer {
	return e.client
}

// Run drives zero-or-more request/repair cycles for one task invocation.
// The message sequence starts as [system, user] and grows by two entries
// (assistant placeholder + corrective instruction) per retry. Every path
// terminates in the Outcome envelope; Run never panics past its boundary.
func Run[T any](ctx context.Context, e *Engine, spec Spec[T], userPrompt string) Outcome[T] {
	if err := e.client.Ready(); err != nil {
		return Fail[T]("%s", err)
	}

	maxAttempts := spec.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	temperature := spec.Temperature
	messages := []llm.Message{
		{Role: "system", Content: spec.SystemPrompt},
		{Role: "user", Content: userPrompt},
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resp, err := e.client.Complete(ctx, llm.Request{
			Messages:    messages,
			Temperature: &temperature,
			MaxTokens:   spec.MaxTokens,
		})
		if err != nil {
			if llm.IsFatal(err) {
				// Infrastructure failure: surfaced verbatim, no retry.
				return Fail[T]("%s", err)
			}
			lastErr = err
		} else {
			data, derr := decode[T](spec, resp.Content)
			if derr == nil {
				return Succeed(data)
			}
			lastErr = derr
		}

		if attempt < maxAttempts {
			e.logger.Debug("Model response rejected, sending correction",
				"task", spec.Name,
				"attempt", attempt,
				"error", lastErr)
			messages = append(messages,
				llm.Message{Role: "assistant", Content: invalidPlaceholder},
				llm.Message{Role: "user", Content: spec.CorrectivePrompt},
			)
		}
	}

	e.logger.Warn("Task exhausted retry budget",
		"task", spec.Name,
		"attempts", maxAttempts,
		"error", lastErr)

	return Fail[T]("Failed after %d attempts. Last error: %s", maxAttempts, lastErr)
}

// decode runs the Extracting, Parsing, and Validating states for one reply.
func decode[T any](spec Spec[T], content string) (T, error) {
	var result T

	extracted := llm.ExtractJSON(content)

	var parsed map[string]any
	if err := json.Unmarshal([]byte(extracted), &parsed); err != nil {
		return result, fmt.Errorf("parse model output: %w", err)
	}

	normalized := parsed
	if spec.Schema != nil {
		var err error
		normalized, err = spec.Schema.Apply(parsed)
		if err != nil {
			return result, err
		}
	}

	buf, err := json.Marshal(normalized)
	if err != nil {
		return result, fmt.Errorf("encode normalized result: %w", err)
	}
	if err := json.Unmarshal(buf, &result); err != nil {
		return result, fmt.Errorf("decode normalized result: %w", err)
	}

	return result, nil
}
