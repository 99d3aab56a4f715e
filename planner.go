package botconsole

import (
	"context"
	"errors"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Generator produces text for a prompt with a single model. Each provider
// package under llm/ implements it.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// Planner turns a task form into a plan.
type Planner interface {
	GeneratePlan(ctx context.Context, form TaskForm) (*PlanResult, error)
}

// PlanResult is a successful acquisition.
type PlanResult struct {
	Plan Plan
	// Text is the unmodified model output.
	Text string
	// Model is the model that produced the output.
	Model string
}

// ModelPlanner tries an ordered list of models until one succeeds.
type ModelPlanner struct {
	generator Generator
	models    []string
}

// NewModelPlanner creates a planner over models, most preferred first.
func NewModelPlanner(generator Generator, models ...string) *ModelPlanner {
	return &ModelPlanner{
		generator: generator,
		models:    append([]string(nil), models...),
	}
}

// Models returns the fallback order.
func (p *ModelPlanner) Models() []string {
	return append([]string(nil), p.models...)
}

// GeneratePlan implements Planner. The first model to return text wins. When
// every model fails, the error from the last attempt is returned as-is. A
// missing API key stops the attempts immediately.
func (p *ModelPlanner) GeneratePlan(ctx context.Context, form TaskForm) (*PlanResult, error) {
	logger := ctxlog.From(ctx)
	prompt := BuildPrompt(form)

	var lastErr error
	for i, model := range p.models {
		text, err := p.generator.Generate(ctx, model, prompt)
		if err != nil {
			if errors.Is(err, ErrMissingAPIKey) {
				return nil, err
			}
			logger.Warn("model attempt failed",
				slog.String("model", model),
				slog.Int("attempt", i+1),
				slog.Any("error", err),
			)
			lastErr = err
			continue
		}

		logger.Info("plan generated", slog.String("model", model), slog.Int("attempt", i+1))
		return &PlanResult{
			Plan:  ParsePlan(text),
			Text:  text,
			Model: model,
		}, nil
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, goerr.Wrap(ErrAllAttemptsFailed, "no model produced a plan", goerr.V("models", p.models))
}
