package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"reserva/pkg/client"
	"reserva/pkg/logger"
)

type Config struct {
	PostgresURI         string
	PostgresConnTimeout time.Duration

	Port string

	// Timezone is the single fixed zone used for interpreting and rendering
	// booking dates; there is no per-user timezone.
	Timezone string
	Location *time.Location

	RetentionLimit int

	UserServiceURL         string
	NotificationServiceURL string
	CollaboratorTimeout    time.Duration

	KafkaEnabled           bool
	KafkaBookingEventTopic string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		PostgresURI:         getEnvStr(EnvPostgresURI, DefaultPostgresURI),
		PostgresConnTimeout: getEnvDuration(EnvPostgresConnTimeout, DefaultPostgresConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		Timezone: getEnvStr(EnvTimezone, DefaultTimezone),

		RetentionLimit: getEnvNum(EnvRetentionLimit, DefaultRetentionLimit),

		UserServiceURL:         getEnvStr(EnvUserServiceURL, DefaultUserServiceURL),
		NotificationServiceURL: getEnvStr(EnvNotificationServiceURL, DefaultNotificationServiceURL),
		CollaboratorTimeout:    getEnvDuration(EnvCollaboratorTimeout, DefaultCollaboratorTimeout),

		KafkaEnabled:           getEnvBool(EnvKafkaEnabled, DefaultKafkaEnabled),
		KafkaBookingEventTopic: getEnvStr(EnvKafkaBookingEventTopic, DefaultKafkaBookingEventTopic),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetPostgres() {
	cfg.Client.SetPostgres(cfg.Log, cfg.PostgresURI, cfg.PostgresConnTimeout)
}

func (cfg *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.PostgresURI == "" {
		errs = append(errs, "PostgresURI cannot be empty")
	} else if !regexp.MustCompile(`^postgres(ql)?://`).MatchString(cfg.PostgresURI) {
		errs = append(errs, fmt.Sprintf("PostgresURI must start with 'postgres://' or 'postgresql://', got: %s", redactPostgresURI(cfg.PostgresURI)))
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		errs = append(errs, fmt.Sprintf("Timezone is not a valid IANA zone: %s", cfg.Timezone))
	} else {
		cfg.Location = loc
	}

	if cfg.RetentionLimit < 1 {
		errs = append(errs, fmt.Sprintf("RetentionLimit must be at least 1, got: %d", cfg.RetentionLimit))
	}

	if cfg.UserServiceURL == "" {
		errs = append(errs, "UserServiceURL cannot be empty")
	}
	if cfg.NotificationServiceURL == "" {
		errs = append(errs, "NotificationServiceURL cannot be empty")
	}
	if cfg.CollaboratorTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("CollaboratorTimeout must be positive, got: %s", cfg.CollaboratorTimeout))
	}
	if cfg.KafkaEnabled && cfg.KafkaBookingEventTopic == "" {
		errs = append(errs, "KafkaBookingEventTopic cannot be empty when Kafka is enabled")
	}

	if cfg.PostgresConnTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("PostgresConnTimeout must be positive, got: %s", cfg.PostgresConnTimeout))
	}
	if cfg.RateLimitWindow <= 0 {
		errs = append(errs, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errs = append(errs, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.ReadTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}
	if cfg.RateLimitRequests <= 0 {
		errs = append(errs, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errs = append(errs, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if len(errs) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, e := range errs {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, e)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"postgres_uri", redactPostgresURI(cfg.PostgresURI),
		"postgres_conn_timeout", cfg.PostgresConnTimeout,
		"port", cfg.Port,
		"timezone", cfg.Timezone,
		"retention_limit", cfg.RetentionLimit,
		"user_service_url", cfg.UserServiceURL,
		"notification_service_url", cfg.NotificationServiceURL,
		"collaborator_timeout", cfg.CollaboratorTimeout,
		"kafka_enabled", cfg.KafkaEnabled,
		"kafka_booking_event_topic", cfg.KafkaBookingEventTopic,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}

func redactPostgresURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(postgres(ql)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}
