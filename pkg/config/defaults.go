package config

import "time"

const (
	DefaultPort = "5000"

	DefaultBcryptCost       = 10
	DefaultPinAttemptLimit  = 10
	DefaultPinAttemptWindow = 15 * time.Minute

	DefaultAllowedOrigins = "http://localhost:5173"
	DefaultClientBaseURL  = "http://localhost:5173/RoomBook/"

	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "roombook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultKafkaBookingsTopic = "roombook.bookings"

	DefaultRequestTimeout = 10 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 64 * 1024 // 64KB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultLogLevel = "info"
)
