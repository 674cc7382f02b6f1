package llm

import (
	"context"
	"fmt"
	"os"

	"backend/internal/config"

	"go.uber.org/zap"
)

// Chain tries each configured provider in order, once per request.
// There is deliberately no per-provider retry loop: a request that
// exhausts the chain falls through to the caller's fallback value.
type Chain struct {
	providers []Provider
	logger    *zap.Logger
}

// NewChain builds a provider chain from configuration. Providers whose
// API key is missing or whose construction fails are skipped with a
// warning; at least one provider must come up.
func NewChain(cfgs []config.ProviderConfig, logger *zap.Logger) (*Chain, error) {
	providers := make([]Provider, 0, len(cfgs))

	for i, cfg := range cfgs {
		apiKey := os.Getenv(cfg.APIKeyEnv)
		if apiKey == "" {
			logger.Warn("Provider API key not set, skipping",
				zap.String("type", cfg.Type),
				zap.String("env", cfg.APIKeyEnv),
				zap.Int("index", i))
			continue
		}

		var provider Provider
		var err error

		switch cfg.Type {
		case "gemini":
			provider, err = NewGeminiClient(GeminiConfig{
				APIKey:    apiKey,
				ModelName: cfg.ModelName,
			}, logger)
		case "openai":
			provider, err = NewOpenAIClient(OpenAIConfig{
				APIKey:    apiKey,
				BaseURL:   cfg.BaseURL,
				ModelName: cfg.ModelName,
			}, logger)
		default:
			logger.Warn("Unknown provider type, skipping",
				zap.String("type", cfg.Type),
				zap.Int("index", i))
			continue
		}

		if err != nil {
			logger.Error("Failed to create provider",
				zap.String("type", cfg.Type),
				zap.Int("index", i),
				zap.Error(err))
			continue
		}

		providers = append(providers, provider)
	}

	if len(providers) == 0 {
		return nil, fmt.Errorf("no providers could be initialized")
	}

	return &Chain{providers: providers, logger: logger}, nil
}

// NewChainFromProviders wires an explicit provider list (tests, embedding).
func NewChainFromProviders(providers []Provider, logger *zap.Logger) *Chain {
	return &Chain{providers: providers, logger: logger}
}

// Complete returns the first provider's successful completion. The
// last error is returned when every provider fails, preserving its
// status for the caller's metrics.
func (c *Chain) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	var lastErr error

	for _, provider := range c.providers {
		result, err := provider.Complete(ctx, req)
		if err == nil {
			return result, nil
		}

		c.logger.Error("Provider failed",
			zap.String("provider", provider.Name()),
			zap.Error(err))
		lastErr = err
	}

	return "", fmt.Errorf("all providers failed: %w", lastErr)
}

// Close closes all providers.
func (c *Chain) Close() error {
	var lastErr error
	for _, provider := range c.providers {
		if err := provider.Close(); err != nil {
			c.logger.Error("Failed to close provider",
				zap.String("provider", provider.Name()),
				zap.Error(err))
			lastErr = err
		}
	}
	return lastErr
}
