package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"resumescout/internal/ai"
	"resumescout/internal/cache"
	"resumescout/internal/config"
	"resumescout/internal/corpus"
	"resumescout/internal/model"
	"resumescout/internal/pkg/pdfextract"
	mysqlClient "resumescout/internal/platform/mysql"
	rabbitmqClient "resumescout/internal/platform/rabbitmq"
	redisClient "resumescout/internal/platform/redis"
	"resumescout/internal/repository"
	"resumescout/internal/search"
	"resumescout/internal/summarizer"
	"resumescout/internal/worker"
)

type App struct {
	Config       *config.Config
	MySQL        *gorm.DB
	Redis        *redis.Client
	MQConn       *amqp.Connection
	Corpus       *corpus.Dir
	Engine       *search.Engine
	LogPublisher *rabbitmqClient.SearchLogPublisher
	LogWorker    *worker.SearchLogWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(&model.Recruiter{}, &model.SearchLog{}); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	mqConn, err := rabbitmqClient.New(cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	logPublisher := rabbitmqClient.NewSearchLogPublisher(mqConn, cfg.RabbitMQ.SearchLogQueue)
	logWorker := worker.NewSearchLogWorker(
		mqConn,
		repository.NewSearchLogRepository(mysqlDB),
		cfg.RabbitMQ.SearchLogQueue,
	)
	if err := logWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start search log worker failed: %w", err)
	}

	aiClient := ai.NewClient(ai.Config{
		BaseURL:        cfg.LLM.BaseURL,
		APIKey:         cfg.LLM.APIKey,
		Model:          cfg.LLM.Model,
		EmbeddingModel: cfg.LLM.EmbeddingModel,
		Timeout:        time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
	})

	source := corpus.NewDir(cfg.Search.ResumeDir)
	engine := search.NewEngine(
		source,
		pdfextract.New(cfg.Search.MaxPages),
		aiClient,
		newSummarizer(cfg, aiClient),
		search.Options{
			Mode:      cfg.Search.Mode,
			Workers:   cfg.Search.ExtractWorkers,
			ChunkSize: cfg.Search.ChunkSize,
			MinScore:  cfg.Search.MinScore,
		},
		newMemo(cfg, redisCli, cfg.Cache.ExtractCapacity),
		newMemo(cfg, redisCli, cfg.Cache.SummaryCapacity),
	)

	return &App{
		Config:       cfg,
		MySQL:        mysqlDB,
		Redis:        redisCli,
		MQConn:       mqConn,
		Corpus:       source,
		Engine:       engine,
		LogPublisher: logPublisher,
		LogWorker:    logWorker,
		StartedAt:    time.Now(),
	}, nil
}

func newSummarizer(cfg *config.Config, aiClient *ai.Client) summarizer.Summarizer {
	if cfg.Summary.Provider == "frequency" {
		return summarizer.NewFrequency(cfg.Summary.MaxSentences)
	}
	return summarizer.NewLLM(aiClient, summarizer.Options{
		WordThreshold: cfg.Summary.WordThreshold,
		ChunkSize:     cfg.Summary.ChunkSize,
		MinWords:      cfg.Summary.MinWords,
		MaxWords:      cfg.Summary.MaxWords,
		TruncateChars: cfg.Summary.TruncateChars,
	})
}

func newMemo(cfg *config.Config, redisCli *redis.Client, capacity int) *cache.Memo {
	if cfg.Cache.Backend == "redis" {
		ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
		return cache.NewMemo(cache.NewRedisStore(redisCli, ttl))
	}
	return cache.NewMemo(cache.NewLRU(capacity))
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.LogWorker != nil {
		a.LogWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
