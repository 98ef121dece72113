package llm

import (
	"context"
	"fmt"
)

// NewProviders builds every provider that has an API key configured, each
// wrapped with retry and logging middleware. Providers are keyed by name.
func NewProviders(ctx context.Context, cfg Config) (map[string]Provider, error) {
	providers := make(map[string]Provider)

	if cfg.OpenAI.APIKey != "" {
		p, err := NewOpenAIProvider(cfg.OpenAI)
		if err != nil {
			return nil, fmt.Errorf("initializing openai provider: %w", err)
		}
		providers[ProviderOpenAI] = wrap(ProviderOpenAI, p, cfg.Retry)
	}
	if cfg.Gemini.APIKey != "" {
		p, err := NewGeminiProvider(ctx, cfg.Gemini)
		if err != nil {
			return nil, fmt.Errorf("initializing gemini provider: %w", err)
		}
		providers[ProviderGemini] = wrap(ProviderGemini, p, cfg.Retry)
	}
	if cfg.Anthropic.APIKey != "" {
		p, err := NewAnthropicProvider(cfg.Anthropic)
		if err != nil {
			return nil, fmt.Errorf("initializing anthropic provider: %w", err)
		}
		providers[ProviderAnthropic] = wrap(ProviderAnthropic, p, cfg.Retry)
	}
	return providers, nil
}

// wrap applies middleware: caller → retry → logging → base
func wrap(name string, base Provider, retry RetryConfig) Provider {
	return WithRetry(WithLogging(name, base), retry)
}
