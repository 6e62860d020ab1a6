package api

import (
	"context"
	"log"

	"github.com/DimaKostyrskyj/PriceBot/config"
	"github.com/DimaKostyrskyj/PriceBot/infra/queue"
	"github.com/DimaKostyrskyj/PriceBot/internal/api/rest/handlers"
	"github.com/DimaKostyrskyj/PriceBot/internal/clients/discordbot"
	"github.com/DimaKostyrskyj/PriceBot/internal/domain"
	"github.com/DimaKostyrskyj/PriceBot/internal/helper"
	"github.com/DimaKostyrskyj/PriceBot/internal/repository"
	"github.com/DimaKostyrskyj/PriceBot/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func StartServer(cfg config.Config) {
	app := fiber.New()
	log.Printf("KafkaBroker=%q KafkaTopic=%q", cfg.KafkaBroker, cfg.KafkaTopic)
	// ---------- CORS ----------
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.BaseURL,
		AllowHeaders:     "Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// ---------- DB ----------
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseDSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("database connection error: %v", err)
	}
	log.Println("database connected")

	// ---------- MIGRATION (guarded by advisory lock) ----------
	const migrateLockID int64 = 20250831

	if err := db.Exec("SELECT pg_advisory_lock(?)", migrateLockID).Error; err != nil {
		log.Fatalf("migration lock error: %v", err)
	}
	defer func() {
		_ = db.Exec("SELECT pg_advisory_unlock(?)", migrateLockID).Error
	}()

	if err := db.AutoMigrate(
		&domain.Application{},
		&domain.Contract{},
		&domain.ContractParticipant{},
		&domain.Setting{},
		&domain.AuditLog{},
	); err != nil {
		log.Fatalf("migration error: %v", err)
	}
	log.Println("migration successful")

	// ---------- Infra ----------
	kafkaProducer := queue.NewProducer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
	)

	bot, err := discordbot.New(cfg.DiscordToken, cfg.GuildID)
	if err != nil {
		log.Fatalf("discord session error: %v", err)
	}

	authHelper := helper.SetupAuth(cfg.AccessSecret)

	// ---------- Repositories ----------
	settingRepo := repository.NewSettingRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	contractRepo := repository.NewContractRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// ---------- Service ----------
	settingsSvc, err := services.NewSettingsService(settingRepo)
	if err != nil {
		log.Fatalf("settings load error: %v", err)
	}
	permSvc := services.NewPermissionService(settingsSvc)
	auditSvc := services.NewAuditService(auditRepo, kafkaProducer)
	applicationSvc := services.NewApplicationService(
		applicationRepo,
		settingsSvc,
		permSvc,
		bot,
		bot,
		auditSvc,
	)
	contractSvc := services.NewContractService(
		contractRepo,
		settingsSvc,
		permSvc,
		bot,
		bot,
		auditSvc,
	)
	welcomeSvc := services.NewWelcomeService(settingsSvc, bot, bot, auditSvc)
	logRelay := services.NewLogRelayService(settingsSvc, bot)

	// ---------- Gateway ----------
	router := discordbot.NewRouter(bot, settingsSvc, permSvc, applicationSvc, contractSvc, welcomeSvc)
	router.Register()

	if err := bot.Open(); err != nil {
		log.Fatalf("discord gateway error: %v", err)
	}
	defer func() { _ = bot.Close() }()
	log.Println("discord gateway connected")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go router.RunAutoPin(ctx)

	if cfg.KafkaBroker != "" {
		consumer := queue.NewKafkaConsumer(
			cfg.KafkaBroker,
			cfg.KafkaTopic,
			cfg.KafkaGroupID,
			cfg.KafkaUsername,
			cfg.KafkaPassword,
			logRelay,
		)
		defer func() { _ = consumer.Close() }()
		go consumer.Listen(ctx)
	}

	// ---------- Handler ----------
	adminHandler := handlers.NewAdminHandler(
		settingsSvc,
		applicationSvc,
		contractSvc,
		auditSvc,
		authHelper,
		cfg.AdminUsername,
		cfg.AdminPasswordHash,
	)
	adminHandler.SetupRoutes(app)

	// ---------- Health ----------
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ---------- Listen ----------
	addr := cfg.ServerPort
	log.Println("listening on", addr)
	log.Fatal(app.Listen(addr))
}
