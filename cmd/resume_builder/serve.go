package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/fetch"
	"github.com/jonathan/resume-builder/internal/intake"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/rewriting"
	"github.com/jonathan/resume-builder/internal/server"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
	"github.com/jonathan/resume-builder/internal/session"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the session, intake, AI and export endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	client, err := llm.NewClient(ctx, cfg.LLMConfig(), cfg.GeminiAPIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	limiter := ratelimit.NewLimiter(cfg.RateLimit())
	defer limiter.Stop()

	srv := newServer(cfg, store, client, limiter)
	log.Printf("Starting resume builder on %s", cfg.Addr())
	return srv.Start(ctx)
}

// newServer wires the services onto an opened store and model client.
func newServer(cfg *config.Config, store session.Store, client llm.Client, limiter *ratelimit.Limiter) *server.Server {
	sessions := session.NewService(store)
	pages := fetch.NewPageFetcher(cfg.PageFetcher())
	renderer := export.NewChromeRenderer(cfg.ChromePath, cfg.PDFTimeout)

	return server.New(server.Deps{
		Sessions: sessions,
		Intake:   intake.New(client, sessions, pages),
		Rewriter: rewriting.New(client),
		Exporter: export.NewExporter(renderer, cfg.PDFConcurrency),
		Limiter:  limiter,
	}, server.Options{
		Addr:           cfg.Addr(),
		MaxUploadBytes: cfg.MaxUploadBytes,
		RequestTimeout: cfg.RequestTimeout,
	})
}
