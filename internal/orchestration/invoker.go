package orchestration

import (
	"context"
	"fmt"
	"time"

	"github.com/bizmatters/agent-builder/sdv-studio/internal/llm"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/models"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/prompts"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// NoCredentialSentinel is returned when no engine has a credential and the
// demo guard has nothing for the prompt.
const NoCredentialSentinel = "[⚠️ No API key configured. Add a provider key to the session credentials]"

// Backend generates text for one engine. *llm.Adapter implements it.
type Backend interface {
	Generate(ctx context.Context, call llm.Call) (string, error)
	HasCredential(engine models.EngineDescriptor, overrides map[string]string) bool
}

// Outcome says which path produced a result.
type Outcome string

const (
	OutcomePrimary    Outcome = "primary"
	OutcomeFallback   Outcome = "fallback"
	OutcomeSimulation Outcome = "simulation"
	OutcomeFailed     Outcome = "failed"
)

// Attempt records one failed backend call.
type Attempt struct {
	EngineID string `json:"engine_id"`
	Error    string `json:"error"`
}

// InvokeRequest is one stage prompt and the engine the caller prefers. A nil
// Preferred means "first available".
type InvokeRequest struct {
	Preferred *models.EngineDescriptor
	Overrides map[string]string
	Prompt    prompts.Prompt
}

// Result is always usable as content: on total failure Text holds a
// sentinel and Outcome is OutcomeFailed.
type Result struct {
	Text     string
	Engine   models.EngineDescriptor
	Outcome  Outcome
	Notice   *models.Notice
	Attempts []Attempt
}

// Invoker tries the preferred engine, then the fallback chain in order, then
// the demo guard. It never returns an error.
type Invoker struct {
	backend   Backend
	fallbacks []models.EngineDescriptor
	guard     *DemoGuard
	tracer    trace.Tracer
	logger    *zap.Logger
	now       func() time.Time
}

// NewInvoker creates an invoker over backend. fallbacks is the fixed
// priority order of alternatives; guard may be nil.
func NewInvoker(backend Backend, fallbacks []models.EngineDescriptor, guard *DemoGuard, logger *zap.Logger) *Invoker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Invoker{
		backend:   backend,
		fallbacks: append([]models.EngineDescriptor(nil), fallbacks...),
		guard:     guard,
		tracer:    otel.Tracer("invoker"),
		logger:    logger,
		now:       time.Now,
	}
}

// Available lists the fallback engines that have a resolvable credential.
func (iv *Invoker) Available(overrides map[string]string) []models.EngineDescriptor {
	var out []models.EngineDescriptor
	for _, e := range iv.fallbacks {
		if iv.backend.HasCredential(e, overrides) {
			out = append(out, e)
		}
	}
	return out
}

// Invoke produces text for the prompt.
func (iv *Invoker) Invoke(ctx context.Context, req InvokeRequest) Result {
	ctx, span := iv.tracer.Start(ctx, "invoker.invoke")
	defer span.End()
	span.SetAttributes(attribute.String("stage", string(req.Prompt.Stage)))

	res := iv.invoke(ctx, req)

	span.SetAttributes(
		attribute.String("outcome", string(res.Outcome)),
		attribute.String("engine.id", res.Engine.ID),
		attribute.Int("attempts.failed", len(res.Attempts)),
	)
	return res
}

func (iv *Invoker) invoke(ctx context.Context, req InvokeRequest) Result {
	stage := string(req.Prompt.Stage)
	available := iv.Available(req.Overrides)

	var (
		primary  models.EngineDescriptor
		outcome  = OutcomePrimary
		notice   *models.Notice
		attempts []Attempt
	)

	switch {
	case req.Preferred != nil && iv.backend.HasCredential(*req.Preferred, req.Overrides):
		primary = *req.Preferred
	case len(available) == 0:
		if text, ok := iv.guard.Lookup(req.Prompt.System, req.Prompt.User); ok {
			return Result{
				Text:    text,
				Outcome: OutcomeSimulation,
				Notice:  iv.notice(models.NoticeSimulation, stage, "🛡️ APIs Down — Switched to Simulation Mode"),
			}
		}
		return Result{
			Text:    NoCredentialSentinel,
			Outcome: OutcomeFailed,
			Notice:  iv.notice(models.NoticeFailed, stage, "No engine has a configured credential"),
		}
	default:
		primary = available[0]
		if req.Preferred != nil {
			attempts = append(attempts, Attempt{EngineID: req.Preferred.ID, Error: llm.ErrCredentialMissing.Error()})
			outcome = OutcomeFallback
			notice = iv.notice(models.NoticeEngineSwitched, stage,
				fmt.Sprintf("⚡ Auto-switched to %s (no credential for %s)", primary.Name, req.Preferred.Name))
		}
	}

	text, primaryErr := iv.call(ctx, primary, req)
	if primaryErr == nil {
		return Result{Text: text, Engine: primary, Outcome: outcome, Notice: notice, Attempts: attempts}
	}
	attempts = append(attempts, Attempt{EngineID: primary.ID, Error: primaryErr.Error()})

	for _, alt := range available {
		if alt.SameEngine(primary) {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		text, err := iv.call(ctx, alt, req)
		if err != nil {
			attempts = append(attempts, Attempt{EngineID: alt.ID, Error: err.Error()})
			continue
		}
		iv.logger.Info("Switched engine after primary failure",
			zap.String("stage", stage),
			zap.String("primary", primary.ID),
			zap.String("engine", alt.ID))
		return Result{
			Text:     text,
			Engine:   alt,
			Outcome:  OutcomeFallback,
			Notice:   iv.notice(models.NoticeEngineSwitched, stage, fmt.Sprintf("⚡ Auto-switched to %s (primary failed)", alt.Name)),
			Attempts: attempts,
		}
	}

	// Cancellation is not an engine failure, so it never reaches the guard.
	if err := ctx.Err(); err != nil {
		iv.logger.Info("Generation cancelled", zap.String("stage", stage), zap.Error(err))
		return Result{
			Text:     fmt.Sprintf("[⚠️ Generation cancelled: %v]", err),
			Outcome:  OutcomeFailed,
			Notice:   iv.notice(models.NoticeFailed, stage, "Generation cancelled"),
			Attempts: attempts,
		}
	}

	if text, ok := iv.guard.Lookup(req.Prompt.System, req.Prompt.User); ok {
		iv.logger.Warn("All engines failed, serving simulated response", zap.String("stage", stage))
		return Result{
			Text:     text,
			Outcome:  OutcomeSimulation,
			Notice:   iv.notice(models.NoticeSimulation, stage, "🛡️ All APIs Failed — Switched to Simulation Mode"),
			Attempts: attempts,
		}
	}

	iv.logger.Error("All engines failed",
		zap.String("stage", stage),
		zap.Int("attempts", len(attempts)),
		zap.Error(primaryErr))
	return Result{
		Text:     fmt.Sprintf("[⚠️ All LLMs failed. Primary error: %v]", primaryErr),
		Outcome:  OutcomeFailed,
		Notice:   iv.notice(models.NoticeFailed, stage, "All engines failed"),
		Attempts: attempts,
	}
}

func (iv *Invoker) call(ctx context.Context, engine models.EngineDescriptor, req InvokeRequest) (string, error) {
	return iv.backend.Generate(ctx, llm.Call{
		Engine:    engine,
		Overrides: req.Overrides,
		System:    req.Prompt.System,
		User:      req.Prompt.User,
		MaxTokens: req.Prompt.MaxTokens,
	})
}

func (iv *Invoker) notice(kind models.NoticeKind, stage, message string) *models.Notice {
	return &models.Notice{Kind: kind, Stage: stage, Message: message, At: iv.now()}
}
