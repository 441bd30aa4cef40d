package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sirupsen/logrus"

	"lifeops/internal/agent"
	"lifeops/internal/agent/api"
	"lifeops/internal/browsing"
	"lifeops/internal/config"
	"lifeops/internal/database/kafka"
	"lifeops/internal/database/neo4j"
	redisdb "lifeops/internal/database/redis"
	"lifeops/internal/extractor"
	"lifeops/internal/graph"
	"lifeops/internal/inference"
	"lifeops/internal/ledger"
	"lifeops/internal/transcribe"
	pkghttp "lifeops/pkg/http"
	"lifeops/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize logger
	level, err := logrus.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.Init(level)
	appLogger := logger.New("agent_service", "", "")
	appLogger.Info("Logger initialized for Agent Service")

	ctx := context.Background()

	// Initialize the fact store. When Neo4j is unreachable the service
	// falls back to in-process storage so the demo still runs end to end;
	// facts are then lost on restart.
	var store graph.FactStore
	neo4jClient, err := neo4j.GetClient(ctx, &cfg.Databases.Neo4j)
	if err != nil {
		appLogger.Warn(fmt.Sprintf("Neo4j unavailable, using in-memory fact store: %v", err))
		store = graph.NewMemoryStore()
	} else {
		defer neo4jClient.Close(ctx)
		store = graph.NewNeo4jStore(neo4jClient)
		appLogger.Info("Neo4j fact store initialized")
	}

	// Initialize the session store.
	var sessions agent.SessionStore
	switch cfg.Session.Backend {
	case "redis":
		redisClient, err := redisdb.GetClient(&cfg.Databases.Redis)
		if err != nil {
			appLogger.Fatal(fmt.Sprintf("Failed to connect to Redis session store: %v", err))
		}
		defer redisdb.Close()
		sessions = agent.NewRedisSessionStore(redisClient)
		appLogger.Info("Redis session store initialized")
	default:
		sessions = agent.NewMemorySessionStore()
	}

	// Initialize the invocation ledger, optionally mirrored to Kafka.
	led := ledger.New(appLogger)
	if cfg.Ledger.PublishToKafka {
		kafkaClient, err := kafka.GetClient(&cfg.Databases.Kafka)
		if err != nil {
			appLogger.Fatal(fmt.Sprintf("Failed to create kafka client: %v", err))
		}
		publisher := kafka.NewLedgerPublisher(kafkaClient)
		defer func() {
			if err := publisher.Close(); err != nil {
				appLogger.Error(fmt.Sprintf("Failed to close ledger publisher cleanly: %v", err))
			}
		}()
		led = led.WithSink(publisher)
		appLogger.Info("Kafka ledger sink initialized")
	}

	// Initialize the outbound HTTP client shared by both providers.
	httpClient, err := pkghttp.NewClient(cfg.Middleware.CircuitBreaker, 30*time.Second)
	if err != nil {
		appLogger.Fatal(fmt.Sprintf("Failed to create outbound HTTP client: %v", err))
	}

	resolver := browsing.NewResolver(cfg.Providers.Browsing, httpClient, led, appLogger)
	transcriber := transcribe.NewTranscriber(cfg.Providers.Transcription, httpClient, led, appLogger)

	// Initialize the agent service core.
	svc := agent.NewService(
		store,
		extractor.NewKeywordExtractor(),
		inference.NewRuleEngine(),
		resolver,
		led,
		sessions,
		appLogger,
	)
	appLogger.Info("Agent service core initialized")

	// Set up and start the HTTP server.
	router := api.SetupRouter(api.NewHandler(svc, transcriber, "demo_user"), cfg.Middleware.RateLimiter)
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	appLogger.Info("Starting HTTP server on " + addr)
	if err := router.Run(addr); err != nil {
		appLogger.Fatal(fmt.Sprintf("Failed to start HTTP server: %v", err))
	}
}
