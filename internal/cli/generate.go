package cli

import (
	"os"
	"os/signal"
	"strings"

	"github.com/bizmatters/agent-builder/sdv-studio/internal/history"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/llm"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/logging"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/models"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/orchestration"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/packager"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/session"
	"github.com/spf13/cobra"
)

var (
	generateSel    selection
	generateEngine string
	generateOut    string
	generateLog    string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run the full generation pipeline and write the project archive",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := logging.New(generateLog)
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		signals, err := generateSel.signals()
		if err != nil {
			return err
		}

		adapter := llm.NewAdapter(cfg, logger)
		invoker := orchestration.NewInvoker(adapter, cfg.FallbackEngines(), orchestration.NewDemoGuard(), logger)
		service := orchestration.NewService(cfg, invoker, history.NewMemoryRecorder(1), nil, logger)

		sess := session.NewManager(0, logger).Create()
		sess.SetSignals(signals)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		req := orchestration.Request{
			Description: generateSel.description,
			Compliance:  generateSel.compliance,
			Languages:   generateSel.languages,
			EngineID:    generateEngine,
			Refinements: generateSel.answers,
		}
		svc, err := service.RunPipeline(ctx, sess, req, progressPrinter(cmd))
		if err != nil {
			return err
		}

		path, size, err := writeArchive(packager.Input{
			Name:        svc.Name,
			Description: svc.Description,
			Compliance:  svc.Compliance,
			Languages:   svc.Languages,
			Engine:      svc.Engine,
			Outputs:     orchestration.Outputs(sess.Artifacts),
		}, generateOut)
		if err != nil {
			return err
		}

		cmd.Printf("\n%s: %d lines across %d language(s)\nWrote %s (%d bytes)\n",
			svc.Name, svc.TotalLines, len(svc.Languages), path, size)
		return nil
	},
}

func progressPrinter(cmd *cobra.Command) orchestration.Sink {
	return func(e models.PipelineEvent) {
		switch e.Type {
		case models.EventStageStarted:
			cmd.Printf("%-8s ... ", e.Stage)
		case models.EventStageCompleted:
			engine := e.Engine
			if e.Cached {
				engine = "cache"
			}
			lines := len(strings.Split(e.Content, "\n"))
			cmd.Printf("%s via %s (%d lines)\n", e.Outcome, engine, lines)
		case models.EventNotice:
			if e.Notice != nil {
				cmd.PrintErrf("\n  %s\n", e.Notice.Message)
			}
		case models.EventPipelineFailed:
			cmd.PrintErrf("pipeline failed: %s\n", e.Error)
		}
	}
}

func init() {
	generateSel.register(generateCmd)
	generateCmd.Flags().StringVarP(&generateEngine, "engine", "e", "", "preferred engine id (first available when empty)")
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "", "directory the archive is written to")
	generateCmd.Flags().StringVar(&generateLog, "log-level", "warn", "log level")
	_ = generateCmd.MarkFlagRequired("description")
}
