// Package llm adapts hosted model providers to a single Generate call.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/bizmatters/agent-builder/sdv-studio/internal/config"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/models"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Call is one generation request against a specific engine.
type Call struct {
	Engine    models.EngineDescriptor
	Overrides map[string]string
	System    string
	User      string
	MaxTokens int
}

type completion struct {
	model     string
	system    string
	user      string
	maxTokens int
}

// completer is implemented once per provider family.
type completer interface {
	complete(ctx context.Context, apiKey string, req completion) (string, error)
}

// Adapter routes calls to provider clients. It never retries: each
// provider is guarded by a rate limiter and a circuit breaker per engine.
type Adapter struct {
	resolver *Resolver
	clients  map[models.Provider]completer
	limiters map[models.Provider]*rate.Limiter
	settings config.BreakerConfig
	tracer   trace.Tracer
	logger   *zap.Logger

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

// NewAdapter builds provider clients from configuration.
func NewAdapter(cfg *config.Config, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}

	a := &Adapter{
		resolver: NewResolver(),
		clients:  make(map[models.Provider]completer),
		limiters: make(map[models.Provider]*rate.Limiter),
		settings: cfg.Breaker,
		tracer:   otel.Tracer("llm-adapter"),
		logger:   logger,
		breakers: make(map[string]*gobreaker.CircuitBreaker),
	}

	for provider, pc := range cfg.Providers {
		httpClient := &http.Client{Timeout: pc.Timeout}
		switch provider {
		case models.ProviderAnthropic:
			a.clients[provider] = &anthropicClient{baseURL: pc.BaseURL, httpClient: httpClient}
		case models.ProviderGroq:
			a.clients[provider] = &groqClient{baseURL: pc.BaseURL, httpClient: httpClient}
		case models.ProviderGoogle:
			a.clients[provider] = &geminiClient{baseURL: pc.BaseURL, httpClient: httpClient}
		default:
			logger.Warn("ignoring unknown provider", zap.String("provider", string(provider)))
			continue
		}
		if pc.RatePerMinute > 0 {
			burst := pc.Burst
			if burst < 1 {
				burst = 1
			}
			a.limiters[provider] = rate.NewLimiter(rate.Every(time.Minute/time.Duration(pc.RatePerMinute)), burst)
		}
	}

	return a
}

// HasCredential reports whether the engine's credential resolves.
func (a *Adapter) HasCredential(engine models.EngineDescriptor, overrides map[string]string) bool {
	_, ok := a.resolver.Resolve(engine.CredentialKey, overrides)
	return ok
}

// Generate performs one completion. Credential resolution happens before
// any network activity.
func (a *Adapter) Generate(ctx context.Context, call Call) (string, error) {
	ctx, span := a.tracer.Start(ctx, "llm.generate")
	defer span.End()

	span.SetAttributes(
		attribute.String("engine.id", call.Engine.ID),
		attribute.String("engine.provider", string(call.Engine.Provider)),
		attribute.String("engine.model", call.Engine.ModelID),
		attribute.Int("max_tokens", call.MaxTokens),
	)

	text, err := a.generate(ctx, call)
	if err != nil {
		span.RecordError(err)
		a.logger.Warn("generation failed",
			zap.String("engine", call.Engine.ID),
			zap.Error(err),
		)
		return "", err
	}

	span.SetAttributes(attribute.Int("response.length", len(text)))
	return text, nil
}

func (a *Adapter) generate(ctx context.Context, call Call) (string, error) {
	apiKey, ok := a.resolver.Resolve(call.Engine.CredentialKey, call.Overrides)
	if !ok {
		return "", fmt.Errorf("%w: %s is not set", ErrCredentialMissing, call.Engine.CredentialKey)
	}

	client, ok := a.clients[call.Engine.Provider]
	if !ok {
		return "", backendError("provider %q is not configured", call.Engine.Provider)
	}

	if limiter := a.limiters[call.Engine.Provider]; limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return "", backendError("rate limit wait for %s: %v", call.Engine.Provider, err)
		}
	}

	result, err := a.breaker(call.Engine).Execute(func() (interface{}, error) {
		return client.complete(ctx, apiKey, completion{
			model:     call.Engine.ModelID,
			system:    call.System,
			user:      call.User,
			maxTokens: call.MaxTokens,
		})
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", backendError("%s: %v", call.Engine.Name, err)
		}
		return "", err
	}
	return result.(string), nil
}

func (a *Adapter) breaker(engine models.EngineDescriptor) *gobreaker.CircuitBreaker {
	key := string(engine.Provider) + "/" + engine.ModelID

	a.mu.Lock()
	defer a.mu.Unlock()

	if cb, ok := a.breakers[key]; ok {
		return cb
	}

	threshold := a.settings.ConsecutiveFailures
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        key,
		MaxRequests: a.settings.MaxRequests,
		Interval:    a.settings.Interval,
		Timeout:     a.settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return threshold > 0 && counts.ConsecutiveFailures >= threshold
		},
		// A provider that answered with an unusable body is still reachable.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrMalformedResponse)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			a.logger.Info("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	a.breakers[key] = cb
	return cb
}
