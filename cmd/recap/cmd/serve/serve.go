package serve

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"voice-recap/internal/api/metrics"
	"voice-recap/internal/api/server"
	"voice-recap/internal/api/v1/services"
	"voice-recap/internal/app"
	"voice-recap/internal/app/cache"
	appconfig "voice-recap/internal/app/config"
)

var host string
var port string
var configPath string
var environment string

func init() {
	Cmd.Flags().StringVar(&host, "host", "0.0.0.0", "Host to bind the API server to")
	Cmd.Flags().StringVarP(&port, "port", "p", "8080", "Port to bind the API server to")
	Cmd.Flags().StringVarP(&configPath, "config", "c", "configs/pipeline.yaml",
		"Path to the pipeline config file, defaults apply when missing")
	Cmd.Flags().StringVarP(&environment, "env", "e", "development", "Environment (development or production)")
}

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the recap HTTP API server",
	Long: `Run the recap HTTP API server

- POST /api/v1/recaps accepts a multipart audio upload and returns the recap
- Identical uploads are answered from the Redis result cache when configured
- Prometheus metrics are exposed on /metrics`,
	Run: func(cmd *cobra.Command, args []string) {
		zapLogger, err := zap.NewProduction()
		if err != nil {
			log.Fatalf("Failed to create logger: %v\n", err)
		}
		defer zapLogger.Sync()

		cfg, err := appconfig.LoadPipelineConfig(configPath, zapLogger)
		if err != nil {
			log.Fatalf("Failed to load pipeline config: %v\n", err)
		}

		logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

		orchestrator := app.InitializeOrchestrator(cfg)
		dao := app.InitializeRecapDAO()
		defer dao.Close()

		var resultCache cache.ResultCache = cache.Noop{}
		if cfg.Cache.Addr != "" {
			client := redis.NewClient(&redis.Options{
				Addr:     cfg.Cache.Addr,
				Password: cfg.Cache.Password,
				DB:       cfg.Cache.DB,
			})
			ttl := time.Duration(cfg.Cache.TTLHours) * time.Hour
			resultCache = cache.NewRedisCache(client, ttl)
			logger.Info("result cache enabled", "addr", cfg.Cache.Addr)
		}

		var storage services.StorageService = services.NewNoopStorageService()
		if cfg.Storage.Endpoint != "" {
			storage, err = services.NewMinioStorageService(cfg.Storage)
			if err != nil {
				log.Fatalf("Failed to initialize upload storage: %v\n", err)
			}
			logger.Info("upload archive enabled", "endpoint", cfg.Storage.Endpoint)
		}

		pipelineMetrics := metrics.NewPipelineMetrics(prometheus.DefaultRegisterer)
		recapService := services.NewRecapService(orchestrator, dao, resultCache, storage, pipelineMetrics, logger)

		srv := server.NewServer(server.Config{
			Host:         host,
			Port:         port,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 15 * time.Minute,
			IdleTimeout:  60 * time.Second,
			Environment:  environment,
		}, recapService, logger)

		if err := srv.Start(); err != nil {
			log.Fatalf("Failed to start server: %v\n", err)
		}

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Fatalf("Server shutdown failed: %v\n", err)
		}
	},
}
