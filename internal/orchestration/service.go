package orchestration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bizmatters/agent-builder/sdv-studio/internal/config"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/history"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/metrics"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/models"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/packager"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/prompts"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/session"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var (
	ErrInvalidRequest  = errors.New("invalid request")
	ErrUnknownEngine   = errors.New("unknown engine")
	ErrPipelineRunning = errors.New("a pipeline is already running for this session")
)

// AutoEngineName labels runs that did not pick an engine.
const AutoEngineName = "Auto (first available)"

// locStages are the outputs counted towards a run's total line count.
var locStages = []prompts.Stage{
	prompts.StageSRS, prompts.StageFranca, prompts.StageARXML, prompts.StageCPP,
	prompts.StageKotlin, prompts.StageRust, prompts.StageTest, prompts.StageCompliance,
}

// Request carries the user's selections for a stage or pipeline run.
type Request struct {
	Description string            `json:"description"`
	Compliance  string            `json:"compliance"`
	Languages   []string          `json:"target_langs"`
	EngineID    string            `json:"engine_id,omitempty"`
	Refinements map[string]string `json:"refinements,omitempty"`
	Restart     bool              `json:"restart,omitempty"`
}

// StageResult is the outcome of one stage request. Outcome and Engine are
// empty when the value was cached or produced by a concurrent request.
type StageResult struct {
	Stage   prompts.Stage  `json:"stage"`
	Content string         `json:"content"`
	Cached  bool           `json:"cached"`
	Outcome Outcome        `json:"outcome,omitempty"`
	Engine  string         `json:"engine,omitempty"`
	Notice  *models.Notice `json:"notice,omitempty"`
}

// Sink receives pipeline events in order. It is called from the goroutine
// running the pipeline.
type Sink func(models.PipelineEvent)

// Service runs stages and pipelines against a session.
type Service struct {
	cfg     *config.Config
	invoker *Invoker
	history history.Recorder
	metrics *metrics.PipelineMetrics
	tracer  trace.Tracer
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates the orchestration service. recorder and pm may be nil.
func NewService(cfg *config.Config, invoker *Invoker, recorder history.Recorder, pm *metrics.PipelineMetrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cfg:     cfg,
		invoker: invoker,
		history: recorder,
		metrics: pm,
		tracer:  otel.Tracer("orchestration-service"),
		logger:  logger,
		now:     time.Now,
	}
}

// Prepare validates a request and converts it into prompt input and the
// preferred engine (nil for automatic selection).
func (s *Service) Prepare(req Request) (prompts.Input, *models.EngineDescriptor, error) {
	compliance := prompts.Compliance(req.Compliance)
	if compliance == "" {
		compliance = prompts.ComplianceMISRACpp2023
	}
	langs := make([]prompts.Language, len(req.Languages))
	for i, l := range req.Languages {
		langs[i] = prompts.Language(l)
	}

	in := prompts.Input{
		Description: req.Description,
		Compliance:  compliance,
		Languages:   langs,
	}
	if err := in.Validate(); err != nil {
		return prompts.Input{}, nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	refinements, err := prompts.ResolveRefinements(req.Refinements)
	if err != nil {
		return prompts.Input{}, nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	in.Refinements = refinements

	engineID := req.EngineID
	if engineID == "" {
		engineID = s.cfg.DefaultEngine
	}
	if engineID == "" {
		return in, nil, nil
	}
	engine, ok := s.cfg.Engine(engineID)
	if !ok {
		return prompts.Input{}, nil, fmt.Errorf("%w: %s", ErrUnknownEngine, engineID)
	}
	return in, &engine, nil
}

// RunStage generates one stage, or returns its cached output.
func (s *Service) RunStage(ctx context.Context, sess *session.Session, req Request, stage prompts.Stage) (StageResult, error) {
	in, preferred, err := s.Prepare(req)
	if err != nil {
		return StageResult{}, err
	}
	return s.runStage(ctx, sess, in, preferred, stage)
}

func (s *Service) runStage(ctx context.Context, sess *session.Session, in prompts.Input, preferred *models.EngineDescriptor, stage prompts.Stage) (StageResult, error) {
	ctx, span := s.tracer.Start(ctx, "orchestration.run_stage")
	defer span.End()
	span.SetAttributes(
		attribute.String("session.id", sess.ID),
		attribute.String("stage", string(stage)),
	)

	in.Signals = sess.Signals()
	in.Upstream = upstream(sess.Artifacts)

	prompt, err := prompts.Build(stage, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return StageResult{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	start := s.now()
	var (
		res      Result
		computed bool
	)
	content, cached, err := sess.Artifacts.GetOrCompute(ctx, stage.CacheKey(), func(ctx context.Context) (string, bool, error) {
		computed = true
		res = s.invoker.Invoke(ctx, InvokeRequest{
			Preferred: preferred,
			Overrides: sess.Credentials(),
			Prompt:    prompt,
		})
		return res.Text, res.Outcome != OutcomeFailed, nil
	})
	if err != nil {
		span.RecordError(err)
		return StageResult{}, fmt.Errorf("failed to generate %s: %w", stage, err)
	}

	out := StageResult{Stage: stage, Content: content, Cached: cached}
	if computed {
		out.Outcome = res.Outcome
		out.Engine = res.Engine.ID
		out.Notice = res.Notice
		if res.Notice != nil {
			sess.AddNotice(*res.Notice)
		}
		if res.Outcome != OutcomePrimary {
			s.metrics.RecordEngineSwitch(ctx, string(stage), string(res.Outcome))
		}
	}
	s.metrics.RecordStage(ctx, string(stage), out.Engine, string(out.Outcome), cached, s.now().Sub(start))

	span.SetAttributes(
		attribute.Bool("cached", cached),
		attribute.String("outcome", string(out.Outcome)),
	)
	return out, nil
}

// RunPipeline runs every stage of the request's sequence in order, sending
// progress to sink. Stage failures do not stop the pipeline; they surface as
// sentinel content and notices. Only one pipeline may run per session.
func (s *Service) RunPipeline(ctx context.Context, sess *session.Session, req Request, sink Sink) (*models.GeneratedServiceContext, error) {
	if sink == nil {
		sink = func(models.PipelineEvent) {}
	}

	in, preferred, err := s.Prepare(req)
	if err != nil {
		return nil, err
	}
	if !sess.TryStartRun() {
		return nil, ErrPipelineRunning
	}
	defer sess.EndRun()

	ctx, span := s.tracer.Start(ctx, "orchestration.run_pipeline")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", sess.ID))

	start := s.now()
	s.metrics.RecordPipelineStarted(ctx)

	if req.Restart {
		s.Restart(sess)
	}

	sink(models.PipelineEvent{Type: models.EventPipelineStarted})
	for _, stage := range prompts.Sequence(in.Languages) {
		if err := ctx.Err(); err != nil {
			s.metrics.RecordPipelineFinished(ctx, "cancelled", s.now().Sub(start))
			sink(models.PipelineEvent{Type: models.EventPipelineFailed, Stage: string(stage), Error: err.Error()})
			return nil, err
		}

		sink(models.PipelineEvent{Type: models.EventStageStarted, Stage: string(stage)})
		res, err := s.runStage(ctx, sess, in, preferred, stage)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.metrics.RecordPipelineFinished(ctx, "failed", s.now().Sub(start))
			sink(models.PipelineEvent{Type: models.EventPipelineFailed, Stage: string(stage), Error: err.Error()})
			return nil, err
		}
		if res.Notice != nil {
			sink(models.PipelineEvent{Type: models.EventNotice, Stage: string(stage), Notice: res.Notice})
		}
		sink(models.PipelineEvent{
			Type:    models.EventStageCompleted,
			Stage:   string(stage),
			Engine:  res.Engine,
			Outcome: string(res.Outcome),
			Cached:  res.Cached,
			Content: res.Content,
		})
	}

	svc := s.BuildContext(sess, in, preferred)
	sess.SetServiceContext(svc)
	if s.history != nil {
		if err := s.history.Record(ctx, svc); err != nil {
			s.logger.Error("Failed to record run history",
				zap.String("session_id", sess.ID),
				zap.String("run_id", svc.RunID),
				zap.Error(err))
		}
	}

	s.metrics.RecordPipelineFinished(ctx, "completed", s.now().Sub(start))
	sink(models.PipelineEvent{Type: models.EventPipelineCompleted})

	s.logger.Info("Pipeline completed",
		zap.String("session_id", sess.ID),
		zap.String("run_id", svc.RunID),
		zap.String("service", svc.Name),
		zap.Int("total_loc", svc.TotalLines),
		zap.Duration("duration", s.now().Sub(start)))
	return &svc, nil
}

// Restart clears generated stage output. Signals, credentials and the last
// service context are kept.
func (s *Service) Restart(sess *session.Session) int {
	removed := sess.Artifacts.ClearStages()
	s.logger.Info("Cleared stage outputs",
		zap.String("session_id", sess.ID),
		zap.Int("removed", removed))
	return removed
}

// BuildContext summarizes the session's current outputs.
func (s *Service) BuildContext(sess *session.Session, in prompts.Input, preferred *models.EngineDescriptor) models.GeneratedServiceContext {
	outputs := sess.Artifacts.Snapshot()

	total := 0
	for _, stage := range locStages {
		if content := outputs[stage.CacheKey()]; content != "" {
			total += len(strings.Split(content, "\n"))
		}
	}

	stages := make(map[string]bool, len(prompts.AllStages()))
	for _, stage := range prompts.AllStages() {
		_, ok := outputs[stage.CacheKey()]
		stages[string(stage)] = ok
	}

	langs := make([]string, len(in.Languages))
	for i, l := range in.Languages {
		langs[i] = string(l)
	}

	engine := AutoEngineName
	if preferred != nil {
		engine = preferred.Name
	}

	_, hasSRS := outputs[prompts.StageSRS.CacheKey()]
	_, hasCode := outputs[prompts.StageCPP.CacheKey()]

	return models.GeneratedServiceContext{
		RunID:       uuid.New().String(),
		SessionID:   sess.ID,
		Name:        packager.ServiceName(in.Description),
		Description: strings.TrimSpace(in.Description),
		Compliance:  string(in.Compliance),
		Engine:      engine,
		Languages:   langs,
		TotalLines:  total,
		HasSRS:      hasSRS,
		HasCode:     hasCode,
		Stages:      stages,
		CompletedAt: s.now().UTC(),
	}
}

// Outputs returns the session's stage outputs keyed by stage.
func Outputs(store *session.Store) map[prompts.Stage]string {
	out := make(map[prompts.Stage]string)
	for key, value := range store.Snapshot() {
		if !strings.HasSuffix(key, session.StageSuffix) {
			continue
		}
		stage, err := prompts.ParseStage(key)
		if err != nil {
			continue
		}
		out[stage] = value
	}
	return out
}

func upstream(store *session.Store) map[prompts.Stage]string {
	out := make(map[prompts.Stage]string, 2)
	if v, ok := store.Get(prompts.StageSRS.CacheKey()); ok {
		out[prompts.StageSRS] = v
	}
	if v, ok := store.Get(prompts.StageCPP.CacheKey()); ok {
		out[prompts.StageCPP] = v
	}
	return out
}
