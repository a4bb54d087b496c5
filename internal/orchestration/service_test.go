package orchestration

import (
	"context"
	"testing"
	"time"

	"github.com/bizmatters/agent-builder/sdv-studio/internal/config"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/history"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/models"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/prompts"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	backend  *fakeBackend
	recorder *history.MemoryRecorder
	service  *Service
	session  *session.Session
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	cfg := config.Default()
	backend := newFakeBackend()
	recorder := history.NewMemoryRecorder(10)
	invoker := NewInvoker(backend, cfg.FallbackEngines(), NewDemoGuard(), nil)
	svc := NewService(cfg, invoker, recorder, nil, nil)

	sess := session.NewManager(time.Hour, nil).Create()
	for k, v := range allKeys() {
		sess.SetCredential(k, v)
	}
	return &serviceFixture{backend: backend, recorder: recorder, service: svc, session: sess}
}

func tireRequest() Request {
	return Request{
		Description: "Create a Tire Pressure Monitor that alerts on rapid deflation",
		Compliance:  string(prompts.ComplianceMISRACpp2023),
		Languages:   []string{"C++14"},
	}
}

func TestService_RunStageCachesResult(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	first, err := f.service.RunStage(ctx, f.session, tireRequest(), prompts.StageSRS)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, OutcomePrimary, first.Outcome)
	assert.Equal(t, "claude-3-haiku", first.Engine)

	second, err := f.service.RunStage(ctx, f.session, tireRequest(), prompts.StageSRS)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Content, second.Content)
	assert.Len(t, f.backend.calledEngines(), 1)
}

func TestService_FailureSentinelIsNotCached(t *testing.T) {
	f := newServiceFixture(t)
	for _, id := range []string{"claude-3-haiku", "llama-3.3-70b", "gemini-2.0-flash"} {
		f.backend.failWith(id, errBoom)
	}
	req := tireRequest()
	req.Description = "Create a Battery Health Monitor"

	res, err := f.service.RunStage(context.Background(), f.session, req, prompts.StageFranca)
	require.NoError(t, err)
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Contains(t, res.Content, "All LLMs failed")

	_, ok := f.session.Artifacts.Get(prompts.StageFranca.CacheKey())
	assert.False(t, ok)
	require.Len(t, f.session.Notices(), 1)
	assert.Equal(t, models.NoticeFailed, f.session.Notices()[0].Kind)
}

func TestService_SimulatedOutputIsCached(t *testing.T) {
	f := newServiceFixture(t)
	for _, id := range []string{"claude-3-haiku", "llama-3.3-70b", "gemini-2.0-flash"} {
		f.backend.failWith(id, errBoom)
	}

	res, err := f.service.RunStage(context.Background(), f.session, tireRequest(), prompts.StageFranca)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSimulation, res.Outcome)

	cached, ok := f.session.Artifacts.Get(prompts.StageFranca.CacheKey())
	require.True(t, ok)
	assert.Equal(t, cannedFranca, cached)
}

func TestService_CancelledStageIsNotCached(t *testing.T) {
	f := newServiceFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := f.service.RunStage(ctx, f.session, tireRequest(), prompts.StageSRS)
	require.NoError(t, err)
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.NotEqual(t, cannedSRS, res.Content)

	_, ok := f.session.Artifacts.Get(prompts.StageSRS.CacheKey())
	assert.False(t, ok)

	again, err := f.service.RunStage(context.Background(), f.session, tireRequest(), prompts.StageSRS)
	require.NoError(t, err)
	assert.False(t, again.Cached)
	assert.Equal(t, OutcomePrimary, again.Outcome)
	assert.Equal(t, "generated by claude-3-haiku\nsecond line", again.Content)
}

func TestService_UpstreamOutputsFeedLaterStages(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	srs, err := f.service.RunStage(ctx, f.session, tireRequest(), prompts.StageSRS)
	require.NoError(t, err)
	_, err = f.service.RunStage(ctx, f.session, tireRequest(), prompts.StageFranca)
	require.NoError(t, err)
	_, err = f.service.RunStage(ctx, f.session, tireRequest(), prompts.StageCompliance)
	require.NoError(t, err)

	users := f.backend.userPrompts()
	require.Len(t, users, 3)
	assert.Contains(t, users[1], "SRS:\n"+srs.Content)
	assert.Contains(t, users[2], prompts.NoCodePlaceholder)
}

func TestService_SignalsReachRequirementsContext(t *testing.T) {
	f := newServiceFixture(t)
	f.session.SetSignals([]models.SignalRecord{
		{Signal: "TirePressure_FL", CANID: "0x1A0", VSSPath: "Vehicle.Chassis.Axle.Row1.Wheel.Left.Tire.Pressure"},
	})

	_, err := f.service.RunStage(context.Background(), f.session, tireRequest(), prompts.StageSRS)
	require.NoError(t, err)

	users := f.backend.userPrompts()
	require.Len(t, users, 1)
	assert.Contains(t, users[0], "- TirePressure_FL (0x1A0) → VSS: Vehicle.Chassis.Axle.Row1.Wheel.Left.Tire.Pressure")
}

func TestService_Prepare(t *testing.T) {
	f := newServiceFixture(t)

	t.Run("defaults compliance and engine", func(t *testing.T) {
		in, engine, err := f.service.Prepare(Request{Description: "x", Languages: []string{"Rust"}})
		require.NoError(t, err)
		assert.Equal(t, prompts.ComplianceMISRACpp2023, in.Compliance)
		assert.Nil(t, engine)
		assert.Len(t, in.Refinements, len(prompts.RefinementQuestions()))
	})

	t.Run("resolves engine", func(t *testing.T) {
		req := tireRequest()
		req.EngineID = "llama-4-scout"
		_, engine, err := f.service.Prepare(req)
		require.NoError(t, err)
		require.NotNil(t, engine)
		assert.Equal(t, models.ProviderGroq, engine.Provider)
	})

	errorCases := []struct {
		name string
		req  Request
		want error
	}{
		{"unknown engine", Request{Description: "x", Languages: []string{"C++14"}, EngineID: "gpt-9"}, ErrUnknownEngine},
		{"no languages", Request{Description: "x"}, ErrInvalidRequest},
		{"empty description", Request{Languages: []string{"C++14"}}, ErrInvalidRequest},
		{"unknown compliance", Request{Description: "x", Compliance: "ISO 9999", Languages: []string{"C++14"}}, ErrInvalidRequest},
		{"bad refinement", Request{Description: "x", Languages: []string{"C++14"}, Refinements: map[string]string{"asil": "ASIL-Z"}}, ErrInvalidRequest},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := f.service.Prepare(tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestService_RunPipeline(t *testing.T) {
	f := newServiceFixture(t)
	req := tireRequest()
	req.EngineID = "claude-3-haiku"

	var events []models.PipelineEvent
	svc, err := f.service.RunPipeline(context.Background(), f.session, req, func(e models.PipelineEvent) {
		events = append(events, e)
	})
	require.NoError(t, err)
	require.NotNil(t, svc)

	sequence := prompts.Sequence([]prompts.Language{prompts.LanguageCpp})
	var completed []string
	for _, e := range events {
		if e.Type == models.EventStageCompleted {
			completed = append(completed, e.Stage)
		}
	}
	require.Len(t, completed, len(sequence))
	for i, stage := range sequence {
		assert.Equal(t, string(stage), completed[i])
	}
	assert.Equal(t, models.EventPipelineStarted, events[0].Type)
	assert.Equal(t, models.EventPipelineCompleted, events[len(events)-1].Type)

	assert.Equal(t, "Tire Pressure Monitor", svc.Name)
	assert.Equal(t, "Claude 3 Haiku", svc.Engine)
	assert.True(t, svc.HasSRS)
	assert.True(t, svc.HasCode)
	// srs, franca, arxml, cpp, test and misra each contribute two lines; mock is not counted
	assert.Equal(t, 12, svc.TotalLines)
	assert.True(t, svc.Stages["mock"])
	assert.False(t, svc.Stages["rust"])

	stored, ok := f.session.ServiceContext()
	require.True(t, ok)
	assert.Equal(t, svc.RunID, stored.RunID)

	runs, err := f.recorder.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, svc.RunID, runs[0].RunID)
}

func TestService_RunPipelineEmitsNotices(t *testing.T) {
	f := newServiceFixture(t)
	f.backend.failWith("claude-3-haiku", errBoom)

	var notices int
	_, err := f.service.RunPipeline(context.Background(), f.session, tireRequest(), func(e models.PipelineEvent) {
		if e.Type == models.EventNotice {
			notices++
			assert.Equal(t, models.NoticeEngineSwitched, e.Notice.Kind)
		}
	})
	require.NoError(t, err)
	assert.Equal(t, len(prompts.Sequence([]prompts.Language{prompts.LanguageCpp})), notices)
}

func TestService_RunPipelineRejectsConcurrentRun(t *testing.T) {
	f := newServiceFixture(t)
	require.True(t, f.session.TryStartRun())
	defer f.session.EndRun()

	_, err := f.service.RunPipeline(context.Background(), f.session, tireRequest(), nil)
	assert.ErrorIs(t, err, ErrPipelineRunning)
}

func TestService_RunPipelineCancelled(t *testing.T) {
	f := newServiceFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var last models.PipelineEvent
	_, err := f.service.RunPipeline(ctx, f.session, tireRequest(), func(e models.PipelineEvent) { last = e })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, models.EventPipelineFailed, last.Type)
	assert.True(t, f.session.TryStartRun())
}

func TestService_RestartKeepsSignals(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	signals := []models.SignalRecord{{Signal: "BatterySoC", CANID: "0x185"}}
	f.session.SetSignals(signals)

	_, err := f.service.RunPipeline(ctx, f.session, tireRequest(), nil)
	require.NoError(t, err)
	require.NotEmpty(t, f.session.Artifacts.Keys())

	removed := f.service.Restart(f.session)
	assert.Equal(t, len(prompts.Sequence([]prompts.Language{prompts.LanguageCpp})), removed)
	assert.Empty(t, f.session.Artifacts.Keys())
	assert.Equal(t, signals, f.session.Signals())

	calls := len(f.backend.calledEngines())
	req := tireRequest()
	req.Restart = true
	_, err = f.service.RunPipeline(ctx, f.session, req, nil)
	require.NoError(t, err)
	assert.Greater(t, len(f.backend.calledEngines()), calls)
}

func TestOutputs(t *testing.T) {
	store := session.NewStore()
	store.Put("srs_output", "reqs")
	store.Put("cpp_output", "code")
	store.Put("scratch", "ignored")

	out := Outputs(store)
	assert.Equal(t, map[prompts.Stage]string{
		prompts.StageSRS: "reqs",
		prompts.StageCPP: "code",
	}, out)
}
