package config

const (
	EnvPostgresURI         = "POSTGRES_URI"
	EnvPostgresConnTimeout = "POSTGRES_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvTimezone       = "BOOKING_TIMEZONE"
	EnvRetentionLimit = "CANCELLED_RETENTION_LIMIT"

	EnvUserServiceURL         = "USER_SERVICE_URL"
	EnvNotificationServiceURL = "NOTIFICATION_SERVICE_URL"
	EnvCollaboratorTimeout    = "COLLABORATOR_TIMEOUT"

	EnvKafkaEnabled           = "KAFKA_ENABLED"
	EnvKafkaBookingEventTopic = "KAFKA_BOOKING_EVENT_TOPIC"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
