// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/emelz/wardrobe/internal/api"
	"github.com/emelz/wardrobe/internal/generator"
	"github.com/emelz/wardrobe/internal/images"
	"github.com/emelz/wardrobe/internal/index"
	"github.com/emelz/wardrobe/internal/mcpserver"
	"github.com/emelz/wardrobe/internal/metastore"
	"github.com/emelz/wardrobe/internal/models"
	"github.com/emelz/wardrobe/internal/scanner"
	"github.com/emelz/wardrobe/internal/sheet"
	"github.com/emelz/wardrobe/internal/sse"
	"github.com/emelz/wardrobe/internal/watch"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("source_base", cfg.Source.BaseDir),
		slog.String("output_base", cfg.Output.BaseDir),
		slog.Any("people", cfg.Source.People),
		slog.Bool("sheets_enabled", cfg.Sheets.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	switch app.mode {
	case ModeGenerate:
		return runGenerate(ctx, cfg, logger)
	case ModeExport:
		return runExport(cfg, logger)
	case ModeServe:
		return runServe(ctx, cfg, logger)
	case ModeMCP:
		return runMCP(cfg, logger)
	default:
		return fmt.Errorf("unknown run mode %d", app.mode)
	}
}

func runGenerate(ctx context.Context, cfg *Config, logger *slog.Logger) error {
	db, err := index.Open(cfg.Index.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	return generateAll(ctx, cfg, logger, db, nil)
}

// generateAll runs one generation per person, refreshing the item
// index and (when a broker is present) announcing each completed run.
func generateAll(ctx context.Context, cfg *Config, logger *slog.Logger, db *index.DB, broker *sse.Broker) error {
	if err := os.MkdirAll(cfg.Output.BaseDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := generator.WriteFavicon(cfg.Output.BaseDir); err != nil {
		return fmt.Errorf("write favicon: %w", err)
	}
	if cfg.Output.TemplateDir != "" {
		if err := generator.CopySharedAssets(cfg.Output.TemplateDir, cfg.Output.BaseDir); err != nil {
			logger.Warn("shared assets not copied", slog.String("error", err.Error()))
		}
	}

	for _, person := range cfg.Source.People {
		doc, err := generatePerson(ctx, cfg, logger, person)
		if err != nil {
			return fmt.Errorf("generate %s: %w", person, err)
		}
		if db != nil {
			if err := db.ReplaceAll(person, doc.Items); err != nil {
				logger.Warn("index refresh failed",
					slog.String("person", person),
					slog.String("error", err.Error()))
			}
		}
		if broker != nil {
			broker.PublishGenerated(person, doc.Metadata.TotalItems)
		}
	}
	return nil
}

func generatePerson(ctx context.Context, cfg *Config, logger *slog.Logger, person string) (*models.Document, error) {
	plog := logger.With(slog.String("person", person))
	outDir := cfg.Output.PersonDir(person)

	proc, err := images.NewProcessor(
		filepath.Join(outDir, "images", "thumbs"),
		filepath.Join(outDir, "images", "full"),
		cfg.Images.Skip, plog)
	if err != nil {
		return nil, err
	}
	sc := scanner.New(cfg.Source.PhotosDir(person), proc, plog)

	var sources []metastore.Source
	if cfg.Sheets.Enabled {
		client, err := metastore.NewGoogleClientFromTokenFile(cfg.Sheets.TokenPath)
		if err != nil {
			// Token trouble degrades to the local fallback.
			plog.Warn("sheets backend unavailable", slog.String("error", err.Error()))
		} else {
			sources = append(sources,
				metastore.NewSheetSource(client, cfg.Sheets.FolderID, cfg.Sheets.SheetName(person)))
		}
	}
	sources = append(sources,
		metastore.NewFileSource(filepath.Join(cfg.Source.PersonDir(person), generator.DataFileName)))

	g := generator.New(sc, sources, outDir, cfg.Output.TemplateDir, plog)
	return g.Run(ctx)
}

func runExport(cfg *Config, logger *slog.Logger) error {
	for _, person := range cfg.Source.People {
		outDir := cfg.Output.PersonDir(person)
		data, err := os.ReadFile(filepath.Join(outDir, generator.DataFileName))
		if err != nil {
			return fmt.Errorf("export %s: read document (run generate first): %w", person, err)
		}
		var doc models.Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("export %s: decode document: %w", person, err)
		}

		csvPath := filepath.Join(outDir, cfg.Sheets.SheetName(person)+".csv")
		f, err := os.Create(csvPath)
		if err != nil {
			return fmt.Errorf("export %s: create csv: %w", person, err)
		}
		if err := sheet.WriteCSV(f, doc.Items); err != nil {
			f.Close()
			return fmt.Errorf("export %s: %w", person, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("export %s: close csv: %w", person, err)
		}
		logger.Info("exported sheet",
			slog.String("person", person),
			slog.String("path", csvPath),
			slog.Int("items", len(doc.Items)))
	}
	return nil
}

func runMCP(cfg *Config, logger *slog.Logger) error {
	db, err := index.Open(cfg.Index.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	logger.Info("MCP server starting on stdio")
	return mcpserver.New(db).ServeStdio()
}

func runServe(ctx context.Context, cfg *Config, logger *slog.Logger) error {
	db, err := index.Open(cfg.Index.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	broker := sse.NewBroker()
	defer broker.Close()

	// Initial generation so the server never starts empty-handed.
	if err := generateAll(ctx, cfg, logger, db, broker); err != nil {
		logger.Warn("initial generation failed", slog.String("error", err.Error()))
	}

	apiRouter := api.NewRouter(db, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)

	// The generated sites themselves.
	r.Handle("/*", http.FileServer(http.Dir(cfg.Output.BaseDir)))

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the photo trees and regenerate on changes.
	g.Go(func() error {
		var roots []string
		for _, person := range cfg.Source.People {
			if dir := cfg.Source.PhotosDir(person); dirExists(dir) {
				roots = append(roots, dir)
			}
		}
		if len(roots) == 0 {
			logger.Warn("no photo directories to watch")
			<-gCtx.Done()
			return nil
		}
		return watch.Watch(gCtx, roots, logger, func() {
			if err := generateAll(gCtx, cfg, logger, db, broker); err != nil {
				logger.Error("regeneration failed", slog.String("error", err.Error()))
			}
		})
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
