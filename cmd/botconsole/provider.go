package main

import (
	"context"

	"github.com/m-mizutani/botconsole"
	"github.com/m-mizutani/botconsole/llm/claude"
	"github.com/m-mizutani/botconsole/llm/gemini"
	"github.com/m-mizutani/botconsole/llm/openai"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

const (
	providerGemini = "gemini"
	providerOpenAI = "openai"
	providerClaude = "claude"
)

type providerConfig struct {
	name        string
	apiKey      string
	models      []string
	baseURL     string
	gcpProject  string
	gcpLocation string
}

func providerFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "provider",
			Value:   providerGemini,
			Sources: cli.EnvVars("BOTCONSOLE_PROVIDER"),
			Usage:   "Plan provider (gemini, openai, claude)",
		},
		&cli.StringSliceFlag{
			Name:    "model",
			Sources: cli.EnvVars("BOTCONSOLE_MODEL"),
			Usage:   "Model to try, in order; repeat to build a fallback list (default: the provider's list)",
		},
		&cli.StringFlag{
			Name:    "api-key",
			Sources: cli.EnvVars("BOTCONSOLE_API_KEY"),
			Usage:   "API key for the provider (default: the provider's environment variables)",
		},
		&cli.StringFlag{
			Name:    "base-url",
			Sources: cli.EnvVars("BOTCONSOLE_BASE_URL"),
			Usage:   "Override the provider API endpoint",
		},
		&cli.StringFlag{
			Name:    "gcp-project",
			Sources: cli.EnvVars("BOTCONSOLE_GCP_PROJECT"),
			Usage:   "Google Cloud project for Gemini or Claude on Vertex AI",
		},
		&cli.StringFlag{
			Name:    "gcp-location",
			Sources: cli.EnvVars("BOTCONSOLE_GCP_LOCATION"),
			Usage:   "Google Cloud location for Gemini or Claude on Vertex AI",
		},
	}
}

func providerConfigFrom(cmd *cli.Command) providerConfig {
	return providerConfig{
		name:        cmd.String("provider"),
		apiKey:      cmd.String("api-key"),
		models:      cmd.StringSlice("model"),
		baseURL:     cmd.String("base-url"),
		gcpProject:  cmd.String("gcp-project"),
		gcpLocation: cmd.String("gcp-location"),
	}
}

// newPlanner builds the model planner for cfg. A missing API key is not an
// error here; it is reported by the first plan request.
func newPlanner(ctx context.Context, cfg providerConfig) (*botconsole.ModelPlanner, error) {
	var (
		gen    botconsole.Generator
		models []string
		err    error
	)

	switch cfg.name {
	case providerGemini:
		apiKey := keyOrEnv(cfg.apiKey, gemini.EnvAPIKeys)
		var opts []gemini.Option
		if cfg.baseURL != "" {
			opts = append(opts, gemini.WithBaseURL(cfg.baseURL))
		}
		if cfg.gcpProject != "" && cfg.gcpLocation != "" {
			opts = append(opts, gemini.WithVertexAI(cfg.gcpProject, cfg.gcpLocation))
		}
		gen, err = gemini.New(ctx, apiKey, opts...)
		models = gemini.DefaultModels

	case providerOpenAI:
		apiKey := keyOrEnv(cfg.apiKey, openai.EnvAPIKeys)
		var opts []openai.Option
		if cfg.baseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.baseURL))
		}
		gen, err = openai.New(ctx, apiKey, opts...)
		models = openai.DefaultModels

	case providerClaude:
		apiKey := keyOrEnv(cfg.apiKey, claude.EnvAPIKeys)
		var opts []claude.Option
		if cfg.baseURL != "" {
			opts = append(opts, claude.WithBaseURL(cfg.baseURL))
		}
		models = claude.DefaultModels
		if cfg.gcpProject != "" && cfg.gcpLocation != "" {
			opts = append(opts, claude.WithVertexAI(cfg.gcpProject, cfg.gcpLocation))
			models = claude.DefaultVertexModels
		}
		gen, err = claude.New(ctx, apiKey, opts...)

	default:
		return nil, goerr.New("unknown provider", goerr.V("provider", cfg.name))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create provider client", goerr.V("provider", cfg.name))
	}

	if len(cfg.models) > 0 {
		models = cfg.models
	}
	return botconsole.NewModelPlanner(gen, models...), nil
}

func keyOrEnv(apiKey string, envNames []string) string {
	if apiKey != "" {
		return apiKey
	}
	return botconsole.FirstEnv(envNames...)
}
