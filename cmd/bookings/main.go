package main

import (
	"reserva/internal/bookings/events"
	"reserva/internal/bookings/handler"
	"reserva/internal/bookings/repository"
	"reserva/internal/bookings/service"
	"reserva/internal/bookings/validator"
	"reserva/pkg/app"
	"reserva/pkg/client"
	"reserva/pkg/config"
	"reserva/pkg/kafka"
	kafka_config "reserva/pkg/kafka/config"
	kafka_middleware "reserva/pkg/kafka/middleware"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)

	cfg.Log.Info("Starting Bookings service")

	cfg.SetPostgres()
	defer cfg.GracefulShutdown()

	producer := initProducer(cfg)
	if producer != nil {
		defer func() {
			if err := producer.Close(); err != nil {
				cfg.Log.Warn("Failed to close Kafka producer", "error", err)
			}
		}()
	}

	bookingService := initServices(cfg, producer)

	userClient := client.NewUserClient(cfg.UserServiceURL, cfg.CollaboratorTimeout)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewBookingHandler(bookingService, cfg),
		handler.NewHealthHandler(cfg.Client.Postgres, cfg),
		userClient,
	)
	serverApp.Run()
}

func initServices(cfg *config.Config, producer *kafka.Producer) service.BookingService {
	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingRepo := repository.NewPostgresBookingRepository(cfg)
	notifier := client.NewNotificationClient(cfg.NotificationServiceURL, cfg.CollaboratorTimeout)
	publisher := events.NewPublisher(producer, cfg.Log)

	bookingService := service.NewBookingService(
		bookingRepo,
		bookingValidator,
		notifier,
		publisher,
		cfg,
	)

	cfg.Log.Info("Booking service initialized",
		"timezone", cfg.Timezone,
		"retention_limit", cfg.RetentionLimit,
	)
	return bookingService
}

func initProducer(cfg *config.Config) *kafka.Producer {
	if !cfg.KafkaEnabled {
		cfg.Log.Info("Kafka disabled, booking events will not be published")
		return nil
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	producer, err := kafka.NewProducer(kafkaCfg, cfg.KafkaBookingEventTopic, cfg.KafkaBookingEventTopic+".dlq")
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	if kafkaCfg.EnableMiddleware {
		producer.Use(kafka_middleware.PublishLogging(cfg.Log))
	}

	cfg.Log.Info("Kafka producer initialized", "topic", cfg.KafkaBookingEventTopic)
	return producer
}
