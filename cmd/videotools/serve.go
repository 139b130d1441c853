package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/video-tools/server/internal/config"
	"github.com/video-tools/server/internal/downloader"
	"github.com/video-tools/server/internal/gemini"
	"github.com/video-tools/server/internal/httpapi"
	"github.com/video-tools/server/internal/jobs"
	"github.com/video-tools/server/internal/service"
	"github.com/video-tools/server/pkg/log"
)

func newServeCommand() *cobra.Command {
	var port int
	var downloadDir string

	cmd := &cobra.Command{
		Use:          "serve",
		Short:        "Start the HTTP service",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Missing .env is fine; real env vars still apply.
			_ = godotenv.Load()

			var opts []config.Option
			if cmd.Flags().Changed("port") {
				opts = append(opts, func(c *config.Config) { c.Server.Port = port })
			}
			if cmd.Flags().Changed("download-dir") {
				opts = append(opts, func(c *config.Config) { c.Download.Dir = downloadDir })
			}

			cfg, err := config.NewFromEnv(opts...)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8000, "HTTP listen port")
	cmd.Flags().StringVar(&downloadDir, "download-dir", "", "Default download directory")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	log.Info("Starting with %d API credentials", len(cfg.Gemini.APIKeys))

	client := gemini.NewClient(gemini.Config{
		Model:   cfg.Gemini.Model,
		Timeout: cfg.Gemini.Timeout,
	})

	translateRegistry := jobs.NewRegistry(cfg.Server.JobRetention, func(j jobs.TranslationJob) bool {
		return j.Status.Terminal()
	})
	downloadRegistry := jobs.NewRegistry(cfg.Server.JobRetention, func(j jobs.DownloadJob) bool {
		return j.Status.Terminal()
	})

	sweeper := cron.New()
	if _, err := translateRegistry.ScheduleSweep(sweeper, cfg.Server.SweepSchedule); err != nil {
		return fmt.Errorf("schedule translate sweep: %w", err)
	}
	if _, err := downloadRegistry.ScheduleSweep(sweeper, cfg.Server.SweepSchedule); err != nil {
		return fmt.Errorf("schedule download sweep: %w", err)
	}
	sweeper.Start()
	defer sweeper.Stop()

	translate := service.NewTranslateService(client, translateRegistry, service.TranslateConfig{
		Credentials:   cfg.Gemini.APIKeys,
		BatchSize:     cfg.Translate.BatchSize,
		CaptionPrefix: cfg.Translate.CaptionPrefix,
		CaptionSuffix: cfg.Translate.CaptionSuffix,
	})
	download := service.NewDownloadService(downloader.NewRunner(""), downloadRegistry, cfg.Download.Dir)

	server := httpapi.NewServer(translate, download)
	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	errCh := make(chan error, 1)
	go func() {
		log.Info("Listening on %s", addr)
		errCh <- server.ListenAndServe(addr)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sig:
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
