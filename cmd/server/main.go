package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ignite/studio-insights/internal/agent"
	"github.com/ignite/studio-insights/internal/api"
	"github.com/ignite/studio-insights/internal/classify"
	"github.com/ignite/studio-insights/internal/config"
	"github.com/ignite/studio-insights/internal/feed"
	"github.com/ignite/studio-insights/internal/ingest"
	"github.com/ignite/studio-insights/internal/pipeline"
	"github.com/ignite/studio-insights/internal/pkg/logger"
	"github.com/ignite/studio-insights/internal/report"
	"github.com/ignite/studio-insights/internal/store"
)

// checkPortAvailable verifies that the target port is not already in use.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v", port, addr, err)
	}
	ln.Close()
	return nil
}

func main() {
	configPath := "config/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		configPath = v
	}

	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.SetLevel(logger.ParseLevel(cfg.Logging.Level))

	host := cfg.Server.GetHost()
	if err := checkPortAvailable(host, cfg.Server.Port); err != nil {
		log.Fatalf("Pre-flight check failed: %v", err)
	}

	// Analysis policies are validated up front so a typo in config fails
	// startup instead of misclassifying every upload.
	totalPolicy, err := ingest.ParseTotalRowPolicy(cfg.Analysis.TotalRowPolicy)
	if err != nil {
		log.Fatalf("Invalid analysis config: %v", err)
	}
	tieBreak, err := classify.ParseTieBreak(cfg.Analysis.TieBreak)
	if err != nil {
		log.Fatalf("Invalid analysis config: %v", err)
	}

	p := pipeline.New(pipeline.Config{
		HeaderMarkers:   cfg.Analysis.HeaderMarkers,
		TotalPolicy:     totalPolicy,
		LiveKeywords:    cfg.Analysis.LiveKeywords,
		ShortMaxSeconds: cfg.Analysis.ShortMaxSeconds,
		TieBreak:        tieBreak,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var dashboards store.Store
	switch cfg.Store.Type {
	case "redis":
		redisStore, err := store.NewRedisStore(ctx, cfg.Store.RedisAddr, cfg.Store.RedisPassword, cfg.Store.RedisDB, cfg.Store.TTL())
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisStore.Close()
		dashboards = redisStore
		log.Printf("Dashboard store: redis (%s)", cfg.Store.RedisAddr)
	default:
		dashboards = store.NewMemoryStore(cfg.Store.TTL())
		log.Println("Dashboard store: in-memory")
	}

	prompts := agent.NewPromptBuilder(agent.PromptOptions{
		Exemplars:      cfg.Analysis.RankingSize,
		MinViewsForCTR: cfg.Analysis.MinViewsForCTR,
	})

	handlers := api.NewHandlers(p, dashboards, prompts)
	handlers.SetLimits(cfg.Server.MaxUploadBytes, cfg.Analysis.RankingSize, cfg.Feed.DefaultLimit, cfg.Analysis.MinViewsForCTR)

	if cfg.Bedrock.Enabled {
		strategyAgent, err := agent.NewStrategyAgent(ctx, agent.Config{
			Region:          cfg.Bedrock.Region,
			ModelID:         cfg.Bedrock.ModelID,
			AccessKeyID:     cfg.Bedrock.AccessKeyID,
			SecretAccessKey: cfg.Bedrock.SecretAccessKey,
			MaxTokens:       cfg.Bedrock.MaxTokens,
			Temperature:     cfg.Bedrock.Temperature,
			Timeout:         cfg.Bedrock.Timeout(),
		})
		if err != nil {
			log.Fatalf("Failed to initialize Bedrock agent: %v", err)
		}
		handlers.SetStrategyAgent(strategyAgent)
		log.Printf("Strategy agent initialized (model %s)", strategyAgent.ModelID())
	} else {
		log.Println("Strategy agent disabled; /strategy will return 503")
	}

	if cfg.Feed.Enabled {
		handlers.SetFeedClient(feed.NewClient(cfg.Feed.BaseURL, cfg.Feed.Timeout()))
		log.Println("Channel uploads feed enabled")
	}

	if cfg.Archive.Enabled {
		archive, err := report.NewS3Archive(ctx, report.S3ArchiveConfig{
			Bucket:  cfg.Archive.S3Bucket,
			Region:  cfg.Archive.S3Region,
			Prefix:  cfg.Archive.S3Prefix,
			Profile: cfg.Archive.GetAWSProfile(),
		})
		if err != nil {
			log.Fatalf("Failed to initialize S3 archive: %v", err)
		}
		handlers.SetArchive(archive)
		log.Printf("Report archive enabled (bucket %s)", cfg.Archive.S3Bucket)
	}

	server := api.NewServer(cfg.Server, handlers)

	// Setup graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := fmt.Sprintf("%s:%d", host, cfg.Server.Port)
		log.Printf("Starting server on %s", addr)
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout())
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
