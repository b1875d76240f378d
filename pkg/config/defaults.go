package config

import "time"

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort = "PORT"

	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvWorkDayStart    = "WORK_DAY_START"
	EnvWorkDayEnd      = "WORK_DAY_END"
	EnvSlotDurationMin = "SLOT_DURATION_MIN"

	EnvCalendarBaseURL = "CALENDAR_BASE_URL"
	EnvCalendarTimeout = "CALENDAR_TIMEOUT"

	EnvKafkaBrokers    = "KAFKA_BROKERS"
	EnvAppointmentsTopic = "APPOINTMENTS_TOPIC"

	EnvRedisAddr = "REDIS_ADDR"
)

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "bookable"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8080"

	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = time.Minute

	DefaultRequestTimeout = 15 * time.Second
	DefaultIdempotencyTTL = 10 * time.Minute
	DefaultMaxRequestSize = 1 << 20

	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 15 * time.Second

	DefaultWorkDayStart    = "09:00"
	DefaultWorkDayEnd      = "17:00"
	DefaultSlotDurationMin = 30

	DefaultCalendarBaseURL = "https://www.googleapis.com/calendar/v3"
	DefaultCalendarTimeout = 5 * time.Second

	DefaultAppointmentsTopic = "appointments.lifecycle"

	DefaultPaginationLimit = 100
)
