package bootstrap

import (
	"context"
	"strings"
	"time"

	"chekinn_server/adapter/out/fetch"
	"chekinn_server/adapter/out/graph"
	"chekinn_server/adapter/out/messaging"
	"chekinn_server/adapter/out/mongodb"
	"chekinn_server/adapter/out/persistence"
	"chekinn_server/config"
	"chekinn_server/core/domain"
	"chekinn_server/core/llm"
	"chekinn_server/core/port/out"
	"chekinn_server/core/service/match"
	"chekinn_server/core/service/reputation"
	"chekinn_server/core/service/scrape"
	"chekinn_server/core/service/signal"
	"chekinn_server/core/service/social"
	"chekinn_server/infra/database"
	"chekinn_server/pkg/logger"
	"chekinn_server/pkg/snowflake"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/jmoiron/sqlx"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

type Dependencies struct {
	Config  *config.Config
	DB      *pgxpool.Pool
	SQLDB   *sqlx.DB
	Redis   *redis.Client
	MongoDB *mongo.Client
	Neo4j   neo4j.DriverWithContext

	// Repositories
	ReputationRepo    domain.ReputationRepository
	SocialProfileRepo domain.SocialProfileRepository
	SignalRepo        domain.SignalRepository
	UserProfileRepo   domain.UserProfileRepository
	ProcessedRepo     domain.ProcessedSourceStore
	SourceBodyRepo    out.SourceBodyStore
	Graph             out.ConnectionGraph

	// Providers
	LLMClient *llm.Client
	Fetcher   out.ContentFetcher

	// Messaging
	Producer out.JobProducer

	// Services
	ReputationService *reputation.Service
	Extractor         *social.Extractor
	Ingestor          *signal.Ingestor
	MatchService      *match.Service
	Scraper           *scrape.Scraper
}

func NewDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	deps := &Dependencies{Config: cfg}
	var cleanups []func()

	if err := snowflake.Init(cfg.SnowflakeNodeID); err != nil {
		return nil, nil, err
	}

	// Database (pgxpool)
	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	deps.DB = db
	cleanups = append(cleanups, func() { db.Close() })

	// Database (sqlx for the adapters)
	// Simple protocol avoids prepared statement conflicts behind PgBouncer.
	sqlxURL := cfg.DatabaseURL
	if strings.Contains(sqlxURL, "?") {
		sqlxURL += "&default_query_exec_mode=simple_protocol"
	} else {
		sqlxURL += "?default_query_exec_mode=simple_protocol"
	}
	sqlDB, err := sqlx.Connect("pgx", sqlxURL)
	if err != nil {
		cleanupAll(cleanups)
		return nil, nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	deps.SQLDB = sqlDB
	cleanups = append(cleanups, func() { sqlDB.Close() })

	// Redis (processed-source sets and job streams)
	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		cleanupAll(cleanups)
		return nil, nil, err
	}
	deps.Redis = redisClient
	cleanups = append(cleanups, func() { redisClient.Close() })

	// MongoDB (raw email bodies and scraped pages, optional)
	if cfg.MongoDBURL != "" {
		mongoClient, err := mongodb.NewClient(cfg.MongoDBURL, cfg.MongoDBName)
		if err != nil {
			logger.Warn("MongoDB connection failed, source bodies will not be archived: %v", err)
		} else {
			deps.MongoDB = mongoClient
			cleanups = append(cleanups, func() {
				mongoClient.Disconnect(context.Background())
			})

			bodyAdapter := mongodb.NewSourceBodyAdapter(mongoClient.Database(cfg.MongoDBName))
			if err := bodyAdapter.EnsureIndexes(context.Background()); err != nil {
				logger.Warn("Failed to ensure MongoDB indexes: %v", err)
			}
			deps.SourceBodyRepo = bodyAdapter
		}
	}

	// Neo4j (connection graph, optional: matching degrades to no bonus)
	if cfg.Neo4jURL != "" {
		neo4jDriver, err := graph.NewDriver(cfg.Neo4jURL, cfg.Neo4jUsername, cfg.Neo4jPassword)
		if err != nil {
			logger.Warn("Neo4j connection failed, first-degree bonus disabled: %v", err)
		} else {
			deps.Neo4j = neo4jDriver
			cleanups = append(cleanups, func() {
				neo4jDriver.Close(context.Background())
			})

			connectionAdapter := graph.NewConnectionAdapter(neo4jDriver, "neo4j")
			if err := connectionAdapter.EnsureIndexes(context.Background()); err != nil {
				logger.Warn("Failed to ensure Neo4j indexes: %v", err)
			}
			deps.Graph = connectionAdapter
		}
	}

	// Repositories
	deps.ReputationRepo = persistence.NewReputationAdapter(sqlDB)
	deps.SocialProfileRepo = persistence.NewSocialProfileAdapter(sqlDB)
	deps.SignalRepo = persistence.NewSignalAdapter(sqlDB)
	deps.UserProfileRepo = persistence.NewUserProfileAdapter(sqlDB)
	deps.ProcessedRepo = persistence.NewProcessedSourceAdapter(redisClient)

	// Messaging (Redis Streams)
	deps.Producer = messaging.NewRedisProducer(redisClient)

	// Text analysis provider
	var analyzer out.TextAnalyzer
	if cfg.OpenAIAPIKey != "" {
		deps.LLMClient = llm.NewClientWithConfig(llm.ClientConfig{
			APIKey:      cfg.OpenAIAPIKey,
			Model:       cfg.LLMModel,
			MaxTokens:   cfg.LLMMaxTokens,
			Temperature: cfg.LLMTemperature,
		})
		analyzer = deps.LLMClient
	} else {
		logger.Warn("OpenAI API key not set, LLM extraction and scrape summaries disabled")
	}

	// Content fetch provider
	if cfg.FetchAPIURL != "" {
		deps.Fetcher = fetch.NewContentFetchAdapter(cfg.FetchAPIURL, cfg.FetchAPIKey)
	} else {
		logger.Warn("Fetch API not configured, profile scraping disabled")
	}

	// Reputation
	repCfg := reputation.Config{
		UnlockThreshold: cfg.UnlockThreshold,
		DecayRate:       cfg.DecayRate,
		GraceDays:       cfg.DecayGraceDays,
		CapDays:         cfg.DecayCapDays,
		FreezeDuration:  time.Duration(cfg.FreezeDays) * 24 * time.Hour,
		DefaultQuality:  reputation.DefaultConfig().DefaultQuality,
	}
	deps.ReputationService = reputation.NewService(reputation.NewEngine(repCfg), deps.ReputationRepo)

	// Social extraction
	extractorCfg := social.DefaultExtractorConfig()
	extractorCfg.ScrapeThreshold = cfg.ScrapeConfidenceThreshold
	deps.Extractor = social.NewExtractor(extractorCfg, deps.SocialProfileRepo, deps.ProcessedRepo, deps.SourceBodyRepo)

	// Signal extraction
	classifierCfg := signal.DefaultClassifierConfig()
	classifierCfg.SignalTTL = time.Duration(cfg.SignalExpiryDays) * 24 * time.Hour
	var llmExtractor *signal.LLMExtractor
	if analyzer != nil {
		llmExtractor = signal.NewLLMExtractor(classifierCfg, analyzer)
	}
	deps.Ingestor = signal.NewIngestor(signal.NewClassifier(classifierCfg), llmExtractor, deps.SignalRepo, deps.ProcessedRepo)

	// Matching
	matchCfg := match.DefaultConfig()
	matchCfg.Window = time.Duration(cfg.MatchWindowDays) * 24 * time.Hour
	matchCfg.Limit = cfg.MatchLimit
	deps.MatchService = match.NewService(matchCfg, deps.UserProfileRepo, deps.SignalRepo, deps.Graph, analyzer)

	// Scraping (needs both the fetcher and the summarizer)
	if deps.Fetcher != nil && analyzer != nil {
		scrapeCfg := scrape.DefaultConfig()
		scrapeCfg.Delay = cfg.ScrapeDelay
		scrapeCfg.BatchSize = cfg.ScrapeBatchSize
		scrapeCfg.SignalTTL = time.Duration(cfg.SignalExpiryDays) * 24 * time.Hour
		deps.Scraper = scrape.NewScraper(scrapeCfg, deps.SocialProfileRepo, deps.SignalRepo, deps.Fetcher, analyzer, deps.SourceBodyRepo)
	}

	cleanup := func() {
		cleanupAll(cleanups)
	}

	return deps, cleanup, nil
}

func cleanupAll(cleanups []func()) {
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}

func (d *Dependencies) HealthCheck(ctx context.Context) error {
	if err := d.DB.Ping(ctx); err != nil {
		return err
	}
	return d.Redis.Ping(ctx).Err()
}
