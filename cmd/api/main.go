package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/luestilo/gestao-api/internal/application/auth"
	"github.com/luestilo/gestao-api/internal/application/notification"
	"github.com/luestilo/gestao-api/internal/application/orders"
	"github.com/luestilo/gestao-api/internal/application/ports"
	"github.com/luestilo/gestao-api/internal/application/usecase"
	inframetrics "github.com/luestilo/gestao-api/internal/infrastructure/metrics"
	infrapdf "github.com/luestilo/gestao-api/internal/infrastructure/pdf"
	"github.com/luestilo/gestao-api/internal/infrastructure/postgres"
	"github.com/luestilo/gestao-api/internal/infrastructure/storage"
	"github.com/luestilo/gestao-api/internal/infrastructure/tokenstore"
	"github.com/luestilo/gestao-api/internal/infrastructure/whatsapp"
	httpRouter "github.com/luestilo/gestao-api/internal/interfaces/http"
	"github.com/luestilo/gestao-api/pkg/config"
	"github.com/luestilo/gestao-api/pkg/logger"
)

var version = "dev"

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("version", version).
		Msg("iniciando aplicación")

	// los importes salen como números JSON, no como strings
	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()

	if cfg.DB.AutoMigrate {
		mg, err := postgres.NewMigrator(cfg.DB.ConnectionString(), log)
		if err != nil {
			log.Fatal().Err(err).Msg("inicializar migraciones")
		}
		if err := mg.Up(); err != nil {
			log.Fatal().Err(err).Msg("aplicar migraciones")
		}
		_ = mg.Close()
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Tokens revocados: Redis si está configurado, si no memoria local (una sola instancia)
	var denylist ports.TokenDenylist
	if cfg.Redis.Addr != "" {
		rd, err := tokenstore.NewRedisDenylist(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer rd.Close()
		denylist = rd
		log.Info().Str("addr", cfg.Redis.Addr).Msg("lista de tokens revocados en Redis")
	} else {
		denylist = tokenstore.NewMemoryDenylist()
		log.Warn().Msg("REDIS_ADDR vacío: tokens revocados en memoria local")
	}

	// Imágenes de producto en S3 (opcional)
	var objectStorage ports.ObjectStorage
	if cfg.S3.Enabled() {
		s3, err := storage.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("configurar S3")
		}
		objectStorage = s3
	} else {
		log.Warn().Msg("S3_BUCKET vacío: subida de imágenes deshabilitada")
	}

	// WhatsApp vía Twilio (opcional)
	var sender ports.MessageSender
	if cfg.WhatsApp.Enabled() {
		sender = whatsapp.NewTwilioSender(whatsapp.Config{
			AccountSID: cfg.WhatsApp.AccountSID,
			AuthToken:  cfg.WhatsApp.AuthToken,
			FromNumber: cfg.WhatsApp.FromNumber,
			APIURL:     cfg.WhatsApp.APIURL,
		})
	} else {
		log.Warn().Msg("credenciales Twilio ausentes: avisos de WhatsApp deshabilitados")
	}

	var metrics ports.Metrics = ports.NopMetrics{}
	var prom *inframetrics.Prometheus
	if cfg.Metrics.Enabled {
		prom = inframetrics.NewPrometheus()
		metrics = prom
	}

	notifier := notification.NewService(clientRepo, sender, metrics, log, notification.Config{
		CountryCode:   cfg.Notifier.CountryCode,
		SendTimeout:   cfg.Notifier.Timeout,
		RatePerSecond: cfg.Notifier.RatePerSecond,
		Burst:         cfg.Notifier.Burst,
	})
	var orderNotifier orders.Notifier
	if sender != nil {
		orderNotifier = notifier
	}
	engine := orders.NewEngine(
		txRunner, orderRepo, productRepo, clientRepo,
		orderNotifier, infrapdf.NewMarotoReceiptGenerator(), metrics, log,
		orders.Config{NotifyTimeout: cfg.Notifier.Timeout},
	)

	authUC := auth.NewAuthUseCase(userRepo, denylist, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    httpRouter.MaxImageSize + 1<<20,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	var observer httpRouter.RequestObserver
	if prom != nil {
		observer = prom
	}
	app.Use(httpRouter.RequestLogger(log.Named("http"), observer))

	// Swagger UI en /docs si existe el documento OpenAPI (regenerable con swag init -g cmd/api/main.go)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Lu Estilo API",
		}))
	}

	deps := httpRouter.RouterDeps{
		AuthUC:        authUC,
		UserUC:        usecase.NewUserUseCase(userRepo),
		ClientUC:      usecase.NewClientUseCase(clientRepo),
		ProductUC:     usecase.NewProductUseCase(productRepo, txRunner, objectStorage),
		Orders:        engine,
		Notifications: notifier,
		Validator:     httpRouter.NewValidator(),
		DB:            pool,
		Version:       version,
	}
	if prom != nil {
		deps.Metrics = prom.Handler()
	}
	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP detenido")
		}
	}()
	log.Info().Str("addr", cfg.HTTP.Addr()).Msg("servidor HTTP escuchando")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("apagando servidor")
	if err := app.ShutdownWithTimeout(15 * time.Second); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	// los avisos en curso terminan antes de cerrar el pool
	engine.Wait()
	log.Info().Msg("servidor detenido")
}
