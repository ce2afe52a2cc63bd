package bootstrap

import (
	"context"
	"log"

	"github.com/Hirdyansh9/priv-lens/internal/config"
	"github.com/Hirdyansh9/priv-lens/internal/controller"
	"github.com/Hirdyansh9/priv-lens/internal/handler"
	"github.com/Hirdyansh9/priv-lens/internal/pkg/logger"
	"github.com/Hirdyansh9/priv-lens/internal/pkg/mailer"
	"github.com/Hirdyansh9/priv-lens/internal/repository/implementation"
	"github.com/Hirdyansh9/priv-lens/internal/repository/unitofwork"
	"github.com/Hirdyansh9/priv-lens/internal/service"
	"github.com/Hirdyansh9/priv-lens/internal/websocket"
	"github.com/Hirdyansh9/priv-lens/pkg/agents"
	"github.com/Hirdyansh9/priv-lens/pkg/analysis"
	"github.com/Hirdyansh9/priv-lens/pkg/embedding"
	"github.com/Hirdyansh9/priv-lens/pkg/ingest"
	"github.com/Hirdyansh9/priv-lens/pkg/legal"
	"github.com/Hirdyansh9/priv-lens/pkg/llm/factory"
	"github.com/Hirdyansh9/priv-lens/pkg/qna"
	"github.com/Hirdyansh9/priv-lens/pkg/retrieval"

	pktNats "github.com/Hirdyansh9/priv-lens/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController   controller.IAuthController
	PolicyController controller.IPolicyController
	ChatController   controller.IChatController
	AgentController  controller.IAgentController

	// Background services, exposed for main.go to run
	ConsumerService service.IConsumerService
	LegalSeeder     *legal.Seeder

	// WebSockets & notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI providers
	embeddingProvider := embedding.NewOllamaProvider(
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.OllamaModel,
	)
	log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)

	llmProvider, err := factory.NewLLMProvider(factory.ProviderConfig{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  llmBaseURL(cfg),
		APIKey:   cfg.Ai.GroqAPIKey,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 3.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 4. Retrieval layer
	policyChunkRepo := implementation.NewPolicyChunkRepository(db)
	legalChunkRepo := implementation.NewLegalChunkRepository(db)
	policyRetriever := retrieval.NewPolicyRetriever(policyChunkRepo, embeddingProvider, sysLogger)
	legalRetriever := retrieval.NewLegalRetriever(legalChunkRepo, embeddingProvider, sysLogger)

	analyzer := analysis.NewAnalyzer(llmProvider, cfg.Ai.LLMModel, sysLogger)
	agentRunner := agents.NewRunner(llmProvider, cfg.Ai.LLMModel, policyRetriever, legalRetriever, sysLogger)
	qnaEngine := qna.NewEngine(llmProvider, cfg.Ai.LLMFastModel, cfg.Ai.LLMModel, policyRetriever, sysLogger)
	legalSeeder := legal.NewSeeder(legalChunkRepo, embeddingProvider, sysLogger)

	// 5. Services
	publisherService := service.NewPublisherService(cfg.App.EmbedPolicyTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.EmbedPolicyTopic,
		uowFactory,
		embeddingProvider,
		sysLogger,
	)

	authService := service.NewAuthService(uowFactory, emailService, natsPub, cfg.App.JWTSecret)
	oauthService := service.NewOAuthService(uowFactory, cfg, sysLogger)

	policyService := service.NewPolicyService(
		uowFactory,
		analyzer,
		ingest.NewReadabilityFetcher(),
		publisherService,
		natsPub,
		cfg.Limits.MaxPolicyBytes,
		sysLogger,
	)
	chatService := service.NewChatService(
		uowFactory,
		policyService,
		qnaEngine,
		cfg.Limits.DailyChatQuota,
		sysLogger,
	)
	agentService := service.NewAgentService(uowFactory, policyService, agentRunner, sysLogger)

	// 6. Notification worker
	notifService := service.NewNotificationService(natsSub, wsHub, wsLogger)
	if natsSub != nil {
		go notifService.Start()
	}

	notifHandler := handler.NewNotificationHandler(wsHub, cfg.App.JWTSecret, wsLogger)

	return &Container{
		AuthController:   controller.NewAuthController(authService, oauthService),
		PolicyController: controller.NewPolicyController(policyService),
		ChatController:   controller.NewChatController(chatService),
		AgentController:  controller.NewAgentController(agentService),

		ConsumerService: consumerService,
		LegalSeeder:     legalSeeder,

		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,

		Logger: sysLogger,
	}
}

func llmBaseURL(cfg *config.Config) string {
	if cfg.Ai.LLMProvider == "ollama" {
		return cfg.Ai.OllamaBaseURL
	}
	return cfg.Ai.GroqBaseURL
}
