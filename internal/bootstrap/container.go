package bootstrap

import (
	"log"

	"virtual-budtender-be/internal/config"
	"virtual-budtender-be/internal/controller"
	"virtual-budtender-be/internal/mapper"
	"virtual-budtender-be/internal/pkg/logger"
	"virtual-budtender-be/internal/service"
	"virtual-budtender-be/pkg/catalog"
	"virtual-budtender-be/pkg/llm"
	"virtual-budtender-be/pkg/llm/factory"
	"virtual-budtender-be/pkg/query"
	"virtual-budtender-be/pkg/recommend"
	"virtual-budtender-be/pkg/session"

	pktNats "virtual-budtender-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	// Controllers
	BudtenderController controller.IBudtenderController
	CatalogController   controller.ICatalogController

	// Background Services (Exposed for main.go to run)
	AnalyticsService service.IAnalyticsService
	CatalogService   service.ICatalogService

	// Exposed for lifecycle management in main.go
	SessionStore *session.Store
	NatsPub      *pktNats.Publisher
	Logger       logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS is optional; analytics forwarding is skipped when it is down.
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		var err error
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
			natsPub = nil
		}
	}

	// Initialize LLM Provider based on Config.
	// No provider configured means conversational turns use canned replies.
	var llmProvider llm.LLMProvider
	if cfg.Ai.LLMProvider != "" {
		var err error
		llmProvider, err = factory.NewLLMProvider(
			cfg.Ai.LLMProvider,
			cfg.Ai.LLMModel,
			cfg.Ai.LLMBaseURL,
			cfg.Ai.LLMAPIKey,
		)
		if err != nil {
			log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
		}
		log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)
	}

	// 3. Domain Components
	index := catalog.NewIndex(catalog.PriceBands{
		LowMax:  cfg.Recommend.PriceLowMax,
		HighMin: cfg.Recommend.PriceHighMin,
	})

	tables := query.DefaultTables()
	if cfg.Catalog.TablesPath != "" {
		loaded, err := query.LoadTablesFile(cfg.Catalog.TablesPath)
		if err != nil {
			log.Printf("[WARN] Failed to load query tables from %s: %v. Using defaults", cfg.Catalog.TablesPath, err)
		} else {
			tables = loaded
		}
	}
	analyzer := query.NewAnalyzer(tables)

	scorer := recommend.NewScorer(recommend.Config{
		PriceLowMax:       cfg.Recommend.PriceLowMax,
		PriceHighMin:      cfg.Recommend.PriceHighMin,
		LowStockThreshold: cfg.Recommend.LowStockThreshold,
	})

	sessions := session.NewStore(cfg.Session.TTL)
	productMapper := mapper.NewProductMapper()

	// 4. Services
	publisherService := service.NewPublisherService(pubSub, service.AnalyticsTopicName)
	analyticsService := service.NewAnalyticsService(
		pubSub,
		service.AnalyticsTopicName,
		natsPub,
		sysLogger,
	)

	catalogService := service.NewCatalogService(
		index,
		cfg.Catalog.FilePath,
		publisherService,
		sysLogger,
	)

	budtenderService := service.NewBudtenderService(
		index,
		analyzer,
		scorer,
		sessions,
		productMapper,
		llmProvider,
		publisherService,
		sysLogger,
		service.BudtenderOptions{
			MaxProducts:       cfg.Recommend.MaxProducts,
			LowStockThreshold: cfg.Recommend.LowStockThreshold,
		},
	)

	// 5. Controllers
	return &Container{
		BudtenderController: controller.NewBudtenderController(budtenderService),
		CatalogController:   controller.NewCatalogController(catalogService),

		AnalyticsService: analyticsService,
		CatalogService:   catalogService,

		SessionStore: sessions,
		NatsPub:      natsPub,
		Logger:       sysLogger,
	}
}
