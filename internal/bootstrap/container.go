package bootstrap

import (
	"context"
	"log"

	"ai-sidebar-be/internal/config"
	"ai-sidebar-be/internal/controller"
	"ai-sidebar-be/internal/pkg/logger"
	"ai-sidebar-be/internal/repository/implementation"
	"ai-sidebar-be/internal/repository/memory"
	"ai-sidebar-be/internal/service"
	"ai-sidebar-be/internal/websocket"
	"ai-sidebar-be/pkg/llm/registry"

	pktNats "ai-sidebar-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ExtensionController controller.IExtensionController
	AuthController      controller.IAuthController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	WebSocketHub *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Provider registry (gemini and openai; claude and deepseek are known
	// ids but have no backing client yet)
	llmRegistry := registry.New(registry.Config{
		GeminiAPIKey:  cfg.Keys.GoogleGemini,
		OpenAIAPIKey:  cfg.Keys.OpenAI,
		OpenAIBaseURL: cfg.Keys.OpenAIBase,
	})
	log.Printf("[INFO] Default LLM Provider: %s", cfg.Ai.DefaultProvider)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
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

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/websocket.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Repositories
	conversationRepo := implementation.NewConversationRepository(db)
	settingRepo := memory.NewCachedSettingRepository(implementation.NewSettingRepository(db))
	deviceRepo := implementation.NewDeviceRepository(db)

	// 4. Services
	publisherService := service.NewPublisherService(cfg.Keys.ExchangeTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.ExchangeTopic,
		natsPub,
		wsHub, // Hub implements EventDelivery
		sysLogger,
	)

	chatService := service.NewChatService(conversationRepo, settingRepo, publisherService, sysLogger)
	dispatchService := service.NewDispatchService(llmRegistry, chatService, cfg.Ai, sysLogger)
	authService := service.NewAuthService(deviceRepo, cfg.Auth)

	// 5. Controllers
	return &Container{
		ExtensionController: controller.NewExtensionController(dispatchService, chatService),
		AuthController:      controller.NewAuthController(authService),

		ConsumerService: consumerService,
		WebSocketHub:    wsHub,
	}
}
