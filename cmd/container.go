package main

import (
	"context"
	"fmt"

	"github.com/Abraxas-365/hrportal/analytics/analyticsapi"
	"github.com/Abraxas-365/hrportal/analytics/analyticsinfra"
	"github.com/Abraxas-365/hrportal/analytics/analyticssrv"
	"github.com/Abraxas-365/hrportal/chatbot"
	"github.com/Abraxas-365/hrportal/chatbot/chatbotapi"
	"github.com/Abraxas-365/hrportal/chatbot/chatbotinfra"
	"github.com/Abraxas-365/hrportal/chatbot/chatbotsrv"
	"github.com/Abraxas-365/hrportal/internal/ai/embeddings"
	"github.com/Abraxas-365/hrportal/internal/ai/resumeparser"
	"github.com/Abraxas-365/hrportal/onboarding/onboardingapi"
	"github.com/Abraxas-365/hrportal/onboarding/onboardinginfra"
	"github.com/Abraxas-365/hrportal/onboarding/onboardingsrv"
	"github.com/Abraxas-365/hrportal/pkg/config"
	"github.com/Abraxas-365/hrportal/pkg/fsx"
	"github.com/Abraxas-365/hrportal/pkg/fsx/fsxs3"
	"github.com/Abraxas-365/hrportal/pkg/iam/auth"
	"github.com/Abraxas-365/hrportal/pkg/logx"
	"github.com/Abraxas-365/hrportal/pkg/ratelimit"
	"github.com/Abraxas-365/hrportal/recruitment/application/applicationapi"
	"github.com/Abraxas-365/hrportal/recruitment/application/applicationinfra"
	"github.com/Abraxas-365/hrportal/recruitment/application/applicationsrv"
	"github.com/Abraxas-365/hrportal/recruitment/candidate/candidateapi"
	"github.com/Abraxas-365/hrportal/recruitment/candidate/candidateinfra"
	"github.com/Abraxas-365/hrportal/recruitment/candidate/candidatesrv"
	"github.com/Abraxas-365/hrportal/recruitment/job/jobapi"
	"github.com/Abraxas-365/hrportal/recruitment/job/jobinfra"
	"github.com/Abraxas-365/hrportal/recruitment/job/jobsrv"
	"github.com/Abraxas-365/hrportal/recruitment/resume"
	"github.com/Abraxas-365/hrportal/recruitment/resume/resumeapi"
	"github.com/Abraxas-365/hrportal/recruitment/resume/resumeinfra"
	"github.com/Abraxas-365/hrportal/recruitment/resume/resumesrv"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const parseQueueName = "hrportal:resume_parse"

// Container holds all application dependencies
type Container struct {
	Config *config.Config

	// Infrastructure
	DB         *sqlx.DB
	Redis      *redis.Client
	FileSystem fsx.FileSystem
	Queue      resume.JobQueue
	Parser     resume.Parser

	// Auth
	Tokens         *auth.TokenService
	AuthMiddleware *auth.UnifiedAuthMiddleware
	RateLimiter    *ratelimit.LimiterManager

	// Services
	JobService         *jobsrv.JobService
	CandidateService   *candidatesrv.CandidateService
	ApplicationService *applicationsrv.ApplicationService
	ParseService       *resumesrv.Service
	OnboardingService  *onboardingsrv.OnboardingService
	AnalyticsService   *analyticssrv.AnalyticsService
	ChatbotService     *chatbotsrv.ChatbotService

	// API Handlers
	JobHandlers         *jobapi.Handlers
	CandidateHandlers   *candidateapi.Handlers
	ApplicationHandlers *applicationapi.Handlers
	ResumeHandlers      *resumeapi.ResumeHandlers
	OnboardingHandlers  *onboardingapi.Handlers
	AnalyticsHandlers   *analyticsapi.Handlers
	ChatbotHandlers     *chatbotapi.Handlers
}

// NewContainer connects the infrastructure and wires every service.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}
	if err := c.initInfrastructure(ctx); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initServices(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) initInfrastructure(ctx context.Context) error {
	cfg := c.Config

	// 1. Database
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	c.DB = db

	// 2. Redis parse queue
	c.Redis = redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := c.Redis.Ping(ctx).Err(); err != nil {
		logx.Warn("redis is not reachable, parse jobs will fail to enqueue", logx.Err(err))
	}
	c.Queue = resumeinfra.NewRedisQueue(c.Redis, parseQueueName)

	// 3. Resume storage
	switch cfg.Storage.Backend {
	case "memory":
		logx.Warn("using in-memory resume storage, files are lost on restart")
		c.FileSystem = fsx.NewMemoryFileSystem()
	default:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Storage.Region))
		if err != nil {
			return fmt.Errorf("load aws config: %w", err)
		}
		c.FileSystem = fsxs3.NewS3FileSystem(s3.NewFromConfig(awsCfg), cfg.Storage.Bucket, cfg.Storage.Prefix)
	}

	// 4. Resume parser backend
	switch cfg.Parser.Backend {
	case "openai":
		c.Parser = resumeparser.NewVisionParser(cfg.OpenAI.APIKey, cfg.OpenAI.VisionModel, cfg.Parser.MaxPages)
	default:
		c.Parser = resumeinfra.NewExtractAPIClient(cfg.Parser.ExtractAPI)
	}

	// 5. Auth
	secret := cfg.Auth.JWTSecret
	if secret == "" {
		logx.Warn("auth.jwt_secret is not set, using an unsafe development secret")
		secret = "hrportal-dev-secret-change-me"
	}
	c.Tokens = auth.NewTokenService(secret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	c.AuthMiddleware = auth.NewUnifiedAuthMiddleware(c.Tokens, cfg.Auth.APIKeyHashes)

	rl := cfg.Server.RateLimit
	c.RateLimiter = ratelimit.NewLimiterManager(rl.RPS, rl.Burst, rl.TTL)

	logx.Info("infrastructure ready",
		logx.String("storage", cfg.Storage.Backend),
		logx.String("parser", c.Parser.Name()))
	return nil
}

func (c *Container) initServices(ctx context.Context) error {
	cfg := c.Config

	// --- Repositories ---
	jobRepo := jobinfra.NewPostgresJobRepository(c.DB)
	candidateRepo := candidateinfra.NewPostgresCandidateRepository(c.DB)
	applicationRepo := applicationinfra.NewPostgresApplicationRepository(c.DB)
	taskRepo := onboardinginfra.NewPostgresTaskRepository(c.DB)
	analyticsRepo := analyticsinfra.NewPostgresAnalyticsRepository(c.DB)
	faqRepo := chatbotinfra.NewPostgresFAQRepository(c.DB)

	// --- Domain Services ---
	c.JobService = jobsrv.NewJobService(jobRepo)
	c.CandidateService = candidatesrv.NewCandidateService(candidateRepo)
	c.OnboardingService = onboardingsrv.NewOnboardingService(taskRepo, cfg.Onboarding)
	c.AnalyticsService = analyticssrv.NewAnalyticsService(analyticsRepo, jobRepo)

	c.ApplicationService = applicationsrv.NewApplicationService(
		applicationRepo,
		jobRepo,
		c.CandidateService,
		c.FileSystem,
		c.Queue,
		c.OnboardingService,
		applicationsrv.Options{
			MaxUploadBytes:   int64(cfg.Upload.MaxUploadBytes()),
			AllowedTypes:     cfg.Upload.AllowedTypes,
			MaxParseAttempts: cfg.Worker.MaxAttempts,
		},
	)
	c.ParseService = resumesrv.NewService(c.Parser, c.FileSystem, c.Queue, c.ApplicationService)

	var embedder chatbot.Embedder
	if cfg.OpenAI.APIKey != "" {
		embedder = embeddings.NewGenerator(cfg.OpenAI.APIKey, cfg.OpenAI.EmbeddingModel)
	} else {
		logx.Warn("openai.api_key is not set, chatbot FAQ search is disabled")
	}
	llm, err := newChatLLM(ctx, cfg)
	if err != nil {
		return err
	}
	c.ChatbotService = chatbotsrv.NewChatbotService(faqRepo, embedder, llm, cfg.Chatbot)

	// --- Handlers ---
	c.JobHandlers = jobapi.NewHandlers(c.JobService)
	c.CandidateHandlers = candidateapi.NewHandlers(c.CandidateService)
	c.ApplicationHandlers = applicationapi.NewHandlers(c.ApplicationService)
	c.ResumeHandlers = resumeapi.NewResumeHandlers(c.ParseService, c.JobService, int64(cfg.Upload.MaxUploadBytes()))
	c.OnboardingHandlers = onboardingapi.NewHandlers(c.OnboardingService)
	c.AnalyticsHandlers = analyticsapi.NewHandlers(c.AnalyticsService)
	c.ChatbotHandlers = chatbotapi.NewHandlers(c.ChatbotService)
	return nil
}

// newChatLLM returns nil when the chatbot runs without a provider.
func newChatLLM(ctx context.Context, cfg *config.Config) (chatbot.LLM, error) {
	switch cfg.Chatbot.Provider {
	case "openai":
		if cfg.OpenAI.APIKey == "" {
			logx.Warn("chatbot.provider=openai without openai.api_key, answering without llm")
			return nil, nil
		}
		return chatbotinfra.NewOpenAILLM(cfg.OpenAI.APIKey, cfg.OpenAI.ChatModel), nil
	case "gemini":
		llm, err := chatbotinfra.NewGeminiLLM(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, "")
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		return llm, nil
	default:
		return nil, nil
	}
}

// Close releases the connections. It is safe on a partially built container.
func (c *Container) Close() {
	if c.RateLimiter != nil {
		c.RateLimiter.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.DB != nil {
		_ = c.DB.Close()
	}
}
