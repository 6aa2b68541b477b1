package main

import (
	authhandler "roombook/internal/auth/handler"
	"roombook/internal/auth/limiter"
	"roombook/internal/auth/verifier"
	"roombook/internal/bookings/events"
	"roombook/internal/bookings/handler"
	"roombook/internal/bookings/repository"
	"roombook/internal/bookings/service"
	"roombook/internal/bookings/validator"
	"roombook/pkg/app"
	"roombook/pkg/config"
	"roombook/pkg/kafka"
	kafka_config "roombook/pkg/kafka/config"
	kafka_middleware "roombook/pkg/kafka/middleware"
)

const ServiceName = "roombook"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()

	cfg.Log.Info("Starting Roombook service")
	serverApp := app.NewApplication(cfg)

	pinHandler := initPinGate(cfg, serverApp)
	bookingService := initBookingService(cfg, serverApp)

	serverApp.SetApp(
		handler.NewHealthHandler(cfg.Client, cfg.Log),
		pinHandler,
		handler.NewBookingHandler(bookingService, cfg.Log),
	)
	serverApp.Run()
}

func initPinGate(cfg *config.Config, serverApp *app.Application) *authhandler.PinHandler {
	pinVerifier, err := verifier.New(cfg.PinSecret, cfg.BcryptCost)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize PIN verifier", "error", err)
	}

	var attempts limiter.Limiter
	if cfg.RedisAddr != "" {
		cfg.SetRedis()
		attempts = limiter.NewRedisLimiter(cfg.Client.Redis, cfg.PinAttemptLimit, cfg.PinAttemptWindow)
		cfg.Log.Info("PIN attempt limiter backed by Redis", "addr", cfg.RedisAddr)
	} else {
		attempts = limiter.NewMemoryLimiter(cfg.PinAttemptLimit, cfg.PinAttemptWindow)
		cfg.Log.Info("PIN attempt limiter kept in process memory")
	}
	serverApp.OnShutdown(attempts.Stop)

	guard := limiter.Middleware(attempts, limiter.ClientIP(cfg.TrustProxy), cfg.Log)
	return authhandler.NewPinHandler(pinVerifier, guard, cfg.Log)
}

func initBookingService(cfg *config.Config, serverApp *app.Application) service.BookingService {
	var bookingRepo repository.BookingRepository
	switch cfg.StoreBackend {
	case config.StoreBackendMemory:
		bookingRepo = repository.NewMemoryBookingRepository()
	default:
		cfg.SetMongo()
		bookingRepo = repository.NewMongoBookingRepository(cfg)
	}

	bookingService := service.NewBookingService(
		bookingRepo,
		validator.NewBookingValidator(cfg.Log),
		initPublisher(cfg, serverApp),
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "store", cfg.StoreBackend, "database", cfg.MongoDatabaseName)
	return bookingService
}

func initPublisher(cfg *config.Config, serverApp *app.Application) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("Kafka brokers not configured, booking events disabled")
		return events.NoopPublisher{}
	}

	kafkaCfg, err := kafka_config.Load(cfg.KafkaBrokers)
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.KafkaBookingsTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	if kafkaCfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	}
	serverApp.OnShutdown(func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	})

	return events.NewKafkaPublisher(producer)
}
