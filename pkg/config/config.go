package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"roombook/pkg/client"
	"roombook/pkg/logger"

	"github.com/joho/godotenv"
)

const (
	StoreBackendMongo  = "mongo"
	StoreBackendMemory = "memory"
)

var pinSecretRegex = regexp.MustCompile(`^\d{4,6}$`)

type Config struct {
	Port string

	PinSecret        string
	BcryptCost       int
	PinAttemptLimit  int
	PinAttemptWindow time.Duration
	TrustProxy       bool

	AllowedOrigins []string
	ClientBaseURL  string

	StoreBackend      string
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers       []string
	KafkaBookingsTopic string

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

// Load reads configuration from the environment, after merging in a .env file
// from the working directory when one exists. Values already present in the
// environment win over the file.
func Load(serviceName string) *Config {
	envFileErr := godotenv.Load()

	cfg := &Config{
		Port: getEnvStr(EnvPort, DefaultPort),

		PinSecret:        os.Getenv(EnvPinSecret),
		BcryptCost:       getEnvNum(EnvBcryptCost, DefaultBcryptCost),
		PinAttemptLimit:  getEnvNum(EnvPinAttemptLimit, DefaultPinAttemptLimit),
		PinAttemptWindow: getEnvDuration(EnvPinAttemptWindow, DefaultPinAttemptWindow),
		TrustProxy:       getEnvBool(EnvTrustProxy, false),

		AllowedOrigins: getEnvList(EnvAllowedOrigins, DefaultAllowedOrigins),
		ClientBaseURL:  getEnvStr(EnvClientBaseURL, DefaultClientBaseURL),

		StoreBackend:      strings.ToLower(getEnvStr(EnvStoreBackend, StoreBackendMongo)),
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		RedisAddr:     os.Getenv(EnvRedisAddr),
		RedisPassword: os.Getenv(EnvRedisPassword),
		RedisDB:       getEnvNum(EnvRedisDB, 0),

		KafkaBrokers:       getEnvList(EnvKafkaBrokers, ""),
		KafkaBookingsTopic: getEnvStr(EnvKafkaBookingsTopic, DefaultKafkaBookingsTopic),

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

	if envFileErr != nil && !errors.Is(envFileErr, fs.ErrNotExist) {
		cfg.Log.Warn("Failed to read .env file", "error", envFileErr)
	}

	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) SetRedis() {
	if cfg.RedisAddr == "" {
		return
	}
	cfg.Client.SetRedis(cfg.Log, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.MongoConnTimeout)
}

// Origins returns the CORS allow-list: the configured origins plus the origin
// of the client application's base URL.
func (cfg *Config) Origins() []string {
	origins := make([]string, 0, len(cfg.AllowedOrigins)+1)
	seen := make(map[string]struct{})
	add := func(origin string) {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin == "" {
			return
		}
		if _, ok := seen[origin]; ok {
			return
		}
		seen[origin] = struct{}{}
		origins = append(origins, origin)
	}

	for _, origin := range cfg.AllowedOrigins {
		add(origin)
	}
	if u, err := url.Parse(cfg.ClientBaseURL); err == nil && u.Scheme != "" && u.Host != "" {
		add(u.Scheme + "://" + u.Host)
	}
	return origins
}

// Validate checks everything the API server needs.
func (cfg *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.PinSecret == "" {
		errs = append(errs, fmt.Sprintf("%s is required", EnvPinSecret))
	} else if !pinSecretRegex.MatchString(cfg.PinSecret) {
		errs = append(errs, fmt.Sprintf("%s must be 4 to 6 digits", EnvPinSecret))
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		errs = append(errs, fmt.Sprintf("BcryptCost must be between 4 and 31, got: %d", cfg.BcryptCost))
	}
	if cfg.PinAttemptLimit <= 0 {
		errs = append(errs, fmt.Sprintf("PinAttemptLimit must be positive, got: %d", cfg.PinAttemptLimit))
	}
	if cfg.PinAttemptWindow <= 0 {
		errs = append(errs, fmt.Sprintf("PinAttemptWindow must be positive, got: %s", cfg.PinAttemptWindow))
	}

	for _, origin := range cfg.AllowedOrigins {
		if u, err := url.Parse(origin); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Sprintf("AllowedOrigins entry must be scheme://host, got: %s", origin))
		}
	}
	if cfg.ClientBaseURL != "" {
		if u, err := url.Parse(cfg.ClientBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Sprintf("ClientBaseURL must be an absolute URL, got: %s", cfg.ClientBaseURL))
		}
	}

	switch cfg.StoreBackend {
	case StoreBackendMongo:
		errs = append(errs, cfg.mongoErrors()...)
	case StoreBackendMemory:
	default:
		errs = append(errs, fmt.Sprintf("StoreBackend must be %q or %q, got: %s", StoreBackendMongo, StoreBackendMemory, cfg.StoreBackend))
	}

	if cfg.RedisDB < 0 {
		errs = append(errs, fmt.Sprintf("RedisDB cannot be negative, got: %d", cfg.RedisDB))
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaBookingsTopic == "" {
		errs = append(errs, "KafkaBookingsTopic cannot be empty when KafkaBrokers is set")
	}

	if cfg.RequestTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errs = append(errs, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.MaxRequestSize <= 0 {
		errs = append(errs, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
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

	return joinErrors(errs)
}

// ValidateMongo checks only the settings a store-only job (migrations) needs.
func (cfg *Config) ValidateMongo() error {
	return joinErrors(cfg.mongoErrors())
}

func (cfg *Config) mongoErrors() []string {
	var errs []string
	if cfg.MongoURI == "" {
		errs = append(errs, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errs = append(errs, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}
	if cfg.MongoDatabaseName == "" {
		errs = append(errs, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}
	return errs
}

func joinErrors(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	errMsg := "Configuration validation failed:\n"
	for i, err := range errs {
		errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
	}
	return fmt.Errorf("%s", errMsg)
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"port", cfg.Port,
		"pin_secret_set", cfg.PinSecret != "",
		"bcrypt_cost", cfg.BcryptCost,
		"pin_attempt_limit", cfg.PinAttemptLimit,
		"pin_attempt_window", cfg.PinAttemptWindow,
		"trust_proxy", cfg.TrustProxy,
		"allowed_origins", cfg.Origins(),
		"client_base_url", cfg.ClientBaseURL,
		"store_backend", cfg.StoreBackend,
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"redis_enabled", cfg.RedisAddr != "",
		"kafka_brokers", cfg.KafkaBrokers,
		"kafka_bookings_topic", cfg.KafkaBookingsTopic,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
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

func getEnvList(key, fallback string) []string {
	raw := getEnvStr(key, fallback)
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
}
