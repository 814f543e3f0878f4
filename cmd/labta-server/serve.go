package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"labta/internal/classifier"
	"labta/internal/hint"
	"labta/internal/investigation"
	"labta/internal/knowledge"
	"labta/internal/labconfig"
	"labta/internal/langdriver"
	"labta/internal/obslog"
	"labta/internal/oracle"
	"labta/internal/problem"
	"labta/internal/sandbox"
	"labta/internal/session"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the LabTA grading and hint HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "address to listen on")
}

const (
	knowledgeDictFile  = "error_dictionary.json"
	knowledgeCitedFile = "lab_manual_index.json"
)

func runServe(cmd *cobra.Command, args []string) error {
	log := obslog.New()
	defer log.Sync() //nolint:errcheck

	cfg := labconfig.Load()

	problems, err := problem.Load(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("loading problem catalog: %w", err)
	}
	log.Info("loaded problem catalog", zap.Int("count", len(problems.Summaries())))

	sessions, err := session.Load(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("loading sessions: %w", err)
	}

	kbWatcher, err := knowledge.NewWatcher(log, cfg.DataDir, knowledgeDictFile, knowledgeCitedFile)
	if err != nil {
		return fmt.Errorf("loading knowledge base: %w", err)
	}
	defer kbWatcher.Close() //nolint:errcheck

	ctx := context.Background()
	orc, err := oracle.NewGenAIOracle(ctx, cfg.LLMAPIKey, "")
	if err != nil {
		return fmt.Errorf("initializing oracle: %w", err)
	}
	log.Info("oracle configured", zap.Bool("enabled", cfg.OracleEnabled()))

	runner := sandbox.NewDockerRunner(cfg.ContainerImage, sandbox.Limits{
		MemoryMiB: cfg.MemoryLimitMiB,
		CPUShare:  cfg.CPUShare,
		WallClock: cfg.WallClock,
	})
	drivers := langdriver.NewRegistry()
	pipeline := investigation.New(drivers, runner, cfg.WorkspaceRoot)

	classifierCfg := classifier.Config{AllowPriority1OverrideRuntime: cfg.AllowPriority1OverrideRuntime}
	orchestrator := hint.New(sessions, liveKnowledge{kbWatcher}, orc, log)

	srv := &server{
		log:           log,
		problems:      problems,
		sessions:      sessions,
		knowledge:     kbWatcher,
		pipeline:      pipeline,
		classifierCfg: classifierCfg,
		hint:          orchestrator,
		wallClock:     cfg.WallClock,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	srv.routes(r)

	log.Info("listening", zap.String("addr", serveAddr))
	httpServer := &http.Server{
		Addr:              serveAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return httpServer.ListenAndServe()
}

// liveKnowledge adapts a hot-reloading knowledge.Watcher to
// hint.KnowledgeSource so the orchestrator always consults the current
// snapshot without needing to be rebuilt on reload.
type liveKnowledge struct {
	w *knowledge.Watcher
}

func (l liveKnowledge) Get(errType string) (knowledge.Entry, bool) {
	return l.w.Get().Get(errType)
}
