package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/staffmatch/internal/ai"
	"github.com/spigell/staffmatch/internal/ai/gemini"
	"github.com/spigell/staffmatch/internal/ai/heuristic"
	"github.com/spigell/staffmatch/internal/logger"
	"github.com/spigell/staffmatch/internal/secrets"
)

const (
	providerGemini    = "gemini"
	providerHeuristic = "heuristic"
)

// newAdvisor returns nil when the advisory step is switched off.
func newAdvisor(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Advisor, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	switch provider {
	case "", providerGemini:
		generator, err := newGeminiGenerator(ctx, cfg.Gemini, log)
		if err != nil {
			return nil, err
		}

		advisorLogger := logger.WithProvider(log, providerGemini, generator.Model())
		return gemini.NewAdvisor(generator, cfg.Gemini.MaxLogLength, advisorLogger), nil
	case providerHeuristic:
		return heuristic.New(), nil
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

func newGeminiGenerator(ctx context.Context, cfg *GeminiConfig, log *zap.Logger) (*gemini.Generator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("gemini configuration is required under ai.gemini")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.APIKeyFile,
		Env:   "GEMINI_API_KEY",
		Value: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or STAFFMATCH_GEMINI_API_KEY_FILE)", err)
	}

	genLogger := logger.WithProvider(log, providerGemini, cfg.Model).With(
		zap.Int("ai_retry_attempts", cfg.MaxRetries),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Model, cfg.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}
	generator.SetRequestsPerMinute(cfg.RequestsPerMinute)

	return generator, nil
}
