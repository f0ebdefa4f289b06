package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/at-ishikawa/lessondeck/internal/bootstrap"
	"github.com/at-ishikawa/lessondeck/internal/catalog"
	"github.com/at-ishikawa/lessondeck/internal/config"
	"github.com/at-ishikawa/lessondeck/internal/database"
	"github.com/at-ishikawa/lessondeck/internal/progress"
	"github.com/at-ishikawa/lessondeck/internal/server"
	"github.com/at-ishikawa/lessondeck/internal/spreadsheet"
)

var configFile string

func main() {
	var debugMode bool
	rootCmd := &cobra.Command{
		Use:           "lessondeck-server",
		Short:         "Lessondeck course service HTTP server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(debugMode)
			return run(cmd.Context())
		},
	}
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug mode")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogger(debugMode bool) {
	logLevel := slog.LevelInfo
	if debugMode {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:     logLevel,
		AddSource: true,
	})))
}

func run(ctx context.Context) error {
	app := bootstrap.New(bootstrap.DefaultShutdownTimeout)

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loadConfig() > %w", err)
	}
	if cfg.Spreadsheet.URL == "" {
		return errors.New("spreadsheet.url is not configured")
	}

	client, err := spreadsheet.NewClient(spreadsheet.Config{
		URL:         cfg.Spreadsheet.URL,
		Format:      spreadsheet.Format(cfg.Spreadsheet.Format),
		Sheet:       cfg.Spreadsheet.Sheet,
		Timeout:     cfg.Spreadsheet.Timeout(),
		MaxAttempts: cfg.Spreadsheet.MaxAttempts,
		RetryDelay:  cfg.Spreadsheet.RetryDelay(),
	})
	if err != nil {
		return fmt.Errorf("spreadsheet.NewClient() > %w", err)
	}
	app.AddCloser("spreadsheet client", client)
	loader := catalog.NewLoader(client, catalog.NewBuilder(cfg.Columns), cfg.Catalog.CacheTTL())

	store, err := openStore(ctx, cfg, app)
	if err != nil {
		return err
	}

	path, h := server.NewCourseServiceHandler(server.NewCourseHandler(loader, store))
	mux := http.NewServeMux()
	mux.Handle(path, h)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           corsMiddleware(h2c.NewHandler(mux, &http2.Server{}), cfg.Server.CORS.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}
	app.AddShutdownHook("http server", srv.Shutdown)

	return app.Run(ctx, func(ctx context.Context) error {
		slog.Default().Info("starting server",
			slog.String("addr", srv.Addr),
			slog.String("progressBackend", cfg.Progress.Backend),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
}

func openStore(ctx context.Context, cfg *config.Config, app *bootstrap.App) (progress.Store, error) {
	if cfg.Progress.Backend != config.ProgressBackendDatabase {
		store, err := progress.NewStore(cfg.Progress, nil)
		if err != nil {
			return nil, fmt.Errorf("progress.NewStore() > %w", err)
		}
		return store, nil
	}

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database.Connect() > %w", err)
	}
	app.AddCloser("database", db)
	store, err := progress.NewStore(cfg.Progress, db)
	if err != nil {
		return nil, fmt.Errorf("progress.NewStore() > %w", err)
	}
	return store, nil
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	return loader.Load()
}

func corsMiddleware(next http.Handler, allowedOrigins []string) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	allowHeaders := strings.Join([]string{
		"Content-Type",
		"Connect-Protocol-Version",
		"Connect-Timeout-Ms",
	}, ", ")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Origin")
		origin := r.Header.Get("Origin")
		if allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", allowHeaders)
			w.Header().Set("Access-Control-Max-Age", "3600")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
