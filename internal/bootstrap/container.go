package bootstrap

import (
	"context"
	"log"
	"time"

	"demarches-be/internal/config"
	"demarches-be/internal/controller"
	"demarches-be/internal/handler"
	"demarches-be/internal/pkg/logger"
	"demarches-be/internal/pkg/mailer"
	"demarches-be/internal/repository/implementation"
	"demarches-be/internal/repository/memory"
	"demarches-be/internal/repository/unitofwork"
	"demarches-be/internal/service"
	"demarches-be/internal/websocket"
	"demarches-be/pkg/advisor/factory"
	pktNats "demarches-be/pkg/nats"
	"demarches-be/pkg/reconcile"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController      controller.IAuthController
	OAuthController     controller.IOAuthController
	UserController      controller.IUserController
	DocumentController  controller.IDocumentController
	DossierController   controller.IDossierController
	TemplateController  controller.ITemplateController
	ProcedureController controller.IProcedureController
	WizardController    controller.IWizardController

	// Background services, run by main.go.
	ConsumerService service.IConsumerService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// Internal event bus for the upload auto-fill pipeline
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Reconciliation engine: match policy + substitution advisor
	matchPolicy := reconcile.NewCaseFoldPolicy(nil)
	adv, err := factory.NewAdvisor(cfg.Advisor.Provider, cfg.Advisor.BaseURL)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize substitution advisor: %v", err)
	}
	log.Printf("[INFO] Using Substitution Advisor: %s", cfg.Advisor.Provider)
	engine := reconcile.NewEngine(matchPolicy, adv, time.Duration(cfg.Advisor.TimeoutMs)*time.Millisecond)

	// Wizard session storage
	sessionRepo := memory.NewWizardRepository()

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

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	publisherService := service.NewPublisherService(pubSub, cfg.Topics.DocumentUploaded)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Topics.DocumentUploaded,
		uowFactory,
		matchPolicy,
		natsPub,
	)

	authService := service.NewAuthService(uowFactory, emailService)
	oauthService := service.NewOAuthService(uowFactory)
	userService := service.NewUserService(uowFactory)

	documentService := service.NewDocumentService(uowFactory, publisherService, natsPub)
	dossierService := service.NewDossierService(uowFactory)
	templateService := service.NewTemplateService(uowFactory)
	procedureService := service.NewProcedureService(uowFactory, matchPolicy, emailService, natsPub)
	wizardService := service.NewWizardService(uowFactory, sessionRepo, engine, templateService, procedureService)

	// Notification system
	notifRepo := implementation.NewNotificationRepository(db)
	notifService := service.NewNotificationService(notifRepo, natsSub, wsHub, wsLogger)

	if natsSub != nil {
		go notifService.Start()
	}

	notifHandler := handler.NewNotificationHandler(notifService, wsHub, wsLogger)

	sysLogger.Info("Bootstrap", "Container initialized", map[string]interface{}{
		"advisor":     cfg.Advisor.Provider,
		"environment": cfg.App.Environment,
	})

	return &Container{
		AuthController:      controller.NewAuthController(authService),
		OAuthController:     controller.NewOAuthController(oauthService),
		UserController:      controller.NewUserController(userService),
		DocumentController:  controller.NewDocumentController(documentService),
		DossierController:   controller.NewDossierController(dossierService),
		TemplateController:  controller.NewTemplateController(templateService),
		ProcedureController: controller.NewProcedureController(procedureService),
		WizardController:    controller.NewWizardController(wizardService),

		ConsumerService: consumerService,

		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
	}
}
