package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/at-ishikawa/certprep/internal/bootstrap"
	"github.com/at-ishikawa/certprep/internal/catalog"
	"github.com/at-ishikawa/certprep/internal/config"
	"github.com/at-ishikawa/certprep/internal/inference"
	"github.com/at-ishikawa/certprep/internal/inference/openai"
	"github.com/at-ishikawa/certprep/internal/server"
	"github.com/at-ishikawa/certprep/internal/state"
	"github.com/at-ishikawa/certprep/internal/storage"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:           "certprep-server",
		Short:         "Study tracker HTTP server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
	rootCmd.Flags().StringVar(&configFile, "config", os.Getenv("CERTPREP_CONFIG"), "config file path")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	app := bootstrap.New()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loadConfig() > %w", err)
	}
	if cfg.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY environment variable is required")
	}

	settings, err := cfg.Study.Settings(time.Now())
	if err != nil {
		return fmt.Errorf("cfg.Study.Settings() > %w", err)
	}

	cat, err := catalog.Load()
	if err != nil {
		return fmt.Errorf("catalog.Load() > %w", err)
	}

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("storage.Open(%s) > %w", cfg.Storage.Path, err)
	}
	app.OnShutdown(func(ctx context.Context) error {
		return store.Close()
	})

	reducer := state.NewReducer(store, cat)
	if err := reducer.Load(ctx); err != nil {
		return fmt.Errorf("reducer.Load() > %w", err)
	}

	openaiClient := openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, inference.DefaultMaxRetryAttempts)
	app.OnShutdown(func(ctx context.Context) error {
		return openaiClient.Close()
	})

	handler := server.NewHandler(cat, reducer, openaiClient, settings)
	router := server.NewRouter(handler, cfg.Server.CORS.AllowedOrigins)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: h2c.NewHandler(router, &http2.Server{}),
	}
	app.OnShutdown(srv.Shutdown)

	return app.Run(ctx, func(ctx context.Context) error {
		log.Printf("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	return loader.Load()
}
