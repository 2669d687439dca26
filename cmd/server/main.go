package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "resume-builder/internal/adapter/http"
	repo "resume-builder/internal/adapter/repository"
	"resume-builder/internal/config"
	"resume-builder/internal/infrastructure/migration"
	"resume-builder/internal/usecase"
	infra "resume-builder/pkg/infrastructure"
	"resume-builder/pkg/latexonline"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/automaxprocs/maxprocs"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(log)

	// match GOMAXPROCS to the container CPU quota
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		log.Debug(fmt.Sprintf(format, args...))
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessionStore := newSessionStore(ctx, cfg.DatabaseURL)

	// collaborators are built once and shared by every request
	compiler := usecase.NewCompiler(
		latexonline.NewClient(cfg.CompileURL, &http.Client{Timeout: cfg.CompileTimeout}),
		log,
	)
	var docx usecase.DocxTextExtractor
	if cfg.DocxExtraction {
		docx = infra.NewDocxText()
	}
	extractor := usecase.NewExtractor(infra.NewPDFReader(), docx, log)
	sessions := usecase.NewSessions(sessionStore, extractor, log)

	app := fiber.New(fiber.Config{
		AppName:               "resume-builder",
		BodyLimit:             cfg.UploadMaxBytes,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(logger.New())

	h := httpadapter.NewHandler(compiler, extractor, sessions, httpadapter.Options{
		Documents:       infra.NewDocumentStorage(cfg.StorageDir, usecase.PDFFileName),
		PersistCompiled: cfg.PersistCompiled,
		Logger:          log,
	})
	h.Register(app)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "port", cfg.Port, "compile_url", cfg.CompileURL)
		return app.Listen(":" + cfg.Port)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("shutting down")
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// newSessionStore prefers PostgreSQL and falls back to memory when the
// database is not configured or not reachable.
func newSessionStore(ctx context.Context, dsn string) usecase.SessionStore {
	if dsn == "" {
		slog.Info("SESSIONS_DATABASE_URL not set, keeping sessions in memory")
		return repo.NewMemorySessions()
	}
	pool, err := infra.NewSessionsPool(ctx, dsn)
	if err != nil {
		slog.Warn("sessions DB not available, keeping sessions in memory", "error", err)
		return repo.NewMemorySessions()
	}
	if err := migration.RunMigrations(ctx, pool); err != nil {
		slog.Warn("sessions DB migrations failed, keeping sessions in memory", "error", err)
		pool.Close()
		return repo.NewMemorySessions()
	}
	return repo.NewSessionsRepo(pool)
}
