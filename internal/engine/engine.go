package engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/arlo-hs/lingopipe/infrastructure/llm"
	"github.com/arlo-hs/lingopipe/internal/domain"
	"github.com/arlo-hs/lingopipe/internal/ports"
	"github.com/arlo-hs/lingopipe/internal/prompt"
)

// Options holds process-wide engine construction settings. Credentials are
// not part of Options: they arrive per request inside a Config and never
// outlive the request that carried them.
type Options struct {
	// RequestTimeout bounds each provider attempt. Zero disables the
	// client-side timeout.
	RequestTimeout time.Duration

	// MaxRetries is the number of additional attempts after a retryable
	// provider failure.
	MaxRetries int

	// RetryBaseDelay and RetryMaxDelay bound the exponential backoff.
	RetryBaseDelay time.Duration
	RetryMaxDelay  time.Duration

	// RateLimit is the per-channel request rate in requests per second.
	// Zero disables rate limiting.
	RateLimit float64

	// RateBurst is the per-channel burst allowance.
	RateBurst int

	// Metrics receives provider request metrics when non-nil.
	Metrics ports.MetricsCollector

	// Logger is used for engine lifecycle logging. Nil means no logging.
	Logger *zap.Logger
}

// Factory builds translation engines and raw LLM clients from per-request
// configs. The middleware chain is assembled once at construction; the rate
// limiters inside it are shared by every client the factory produces, so the
// per-channel rate limit holds across concurrent requests.
type Factory struct {
	opts   Options
	logger *zap.Logger
	chains map[Channel][]llm.Middleware
}

// NewFactory builds a Factory with one middleware chain per channel.
func NewFactory(opts Options) *Factory {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	chains := make(map[Channel][]llm.Middleware, 2)
	for _, ch := range []Channel{ChannelOpenAI, ChannelAnthropic} {
		chains[ch] = buildChain(ch, opts)
	}

	return &Factory{opts: opts, logger: logger, chains: chains}
}

// buildChain assembles the middleware stack for one channel, outermost first.
// Retry wraps the rate limiter and timeout so every attempt waits for a rate
// token and gets a fresh deadline.
func buildChain(ch Channel, opts Options) []llm.Middleware {
	var chain []llm.Middleware

	if opts.Metrics != nil {
		chain = append(chain, llm.MetricsMiddleware(string(ch), opts.Metrics))
	}
	chain = append(chain, llm.TracingMiddleware(string(ch)))

	if opts.MaxRetries > 0 {
		chain = append(chain, llm.RetryMiddleware(opts.MaxRetries, opts.RetryBaseDelay, opts.RetryMaxDelay))
	}
	if opts.RateLimit > 0 {
		chain = append(chain, llm.RateLimitMiddleware(rate.Limit(opts.RateLimit), opts.RateBurst))
	}
	if opts.RequestTimeout > 0 {
		chain = append(chain, llm.TimeoutMiddleware(opts.RequestTimeout))
	}

	return chain
}

// ClientFor builds a raw LLM client for the given config. Used where a
// service needs model output directly, such as the vibe judge call.
func (f *Factory) ClientFor(cfg Config) (ports.LLMClient, error) {
	client, err := f.newClient(cfg)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Build constructs a translation engine around a fresh client for the
// given config.
func (f *Factory) Build(cfg Config) (ports.TranslationEngine, error) {
	client, err := f.newClient(cfg)
	if err != nil {
		return nil, err
	}

	name := cfg.Model
	if name == "" {
		name = defaultModel(cfg.Channel)
	}

	red := cfg.Redacted()
	f.logger.Debug("engine built",
		zap.String("channel", string(red.Channel)),
		zap.String("model", name),
		zap.String("api_key", red.APIKey),
	)

	return &llmEngine{client: client, name: name}, nil
}

func (f *Factory) newClient(cfg Config) (*llm.Client, error) {
	provider, err := providerFor(cfg.Channel)
	if err != nil {
		return nil, err
	}

	client, err := llm.NewClient(provider, llm.ClientConfig{
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		BaseURL:    cfg.BaseURL,
		Timeout:    f.opts.RequestTimeout,
		Middleware: f.chains[cfg.Channel],
	})
	if err != nil {
		return nil, fmt.Errorf("build %s client: %w", cfg.Channel, err)
	}
	return client, nil
}

func providerFor(ch Channel) (llm.Provider, error) {
	switch ch {
	case ChannelOpenAI:
		return llm.ProviderOpenAI, nil
	case ChannelAnthropic:
		return llm.ProviderAnthropic, nil
	default:
		return "", fmt.Errorf("unsupported channel: %q", ch)
	}
}

func defaultModel(ch Channel) string {
	switch ch {
	case ChannelAnthropic:
		return llm.AnthropicDefaultModel
	default:
		return llm.OpenAIDefaultModel
	}
}

var _ ports.TranslationEngine = (*llmEngine)(nil)

// llmEngine adapts an LLM client into the TranslationEngine port. The model
// does the translating; this type only shapes the prompt and the outcome.
type llmEngine struct {
	client ports.LLMClient
	name   string
}

// Name returns the model name backing this engine.
func (e *llmEngine) Name() string { return e.name }

// Translate renders text between languages through the backing model. Prompt
// adjustments in opts are folded into the system prompt before the call.
func (e *llmEngine) Translate(ctx context.Context, text, sourceLang, targetLang string, opts *ports.TranslateOptions) (domain.TranslationOutcome, error) {
	if sourceLang == "" {
		sourceLang = domain.DefaultSourceLang
	}

	var system string
	switch {
	case opts != nil && opts.SystemPrompt != "":
		system = opts.SystemPrompt
	case opts != nil:
		system = prompt.BuildTranslationSystemPrompt(sourceLang, targetLang, opts.Prompt)
	default:
		system = prompt.BuildTranslationSystemPrompt(sourceLang, targetLang, "")
	}

	response, err := e.client.Complete(ctx, text, map[string]any{"system": system})
	if err != nil {
		return domain.TranslationOutcome{
			SourceLang: sourceLang,
			TargetLang: targetLang,
			Success:    false,
			Error:      err.Error(),
		}, err
	}

	return domain.TranslationOutcome{
		Text:       response,
		SourceLang: sourceLang,
		TargetLang: targetLang,
		Success:    true,
	}, nil
}
