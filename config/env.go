package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var (
	errMissingAtlasURI = errors.New("MONGO_MODE 'atlas' but MONGO_URI_ATLAS is not set")
	errPasetoKeyLength = errors.New("PASETO_SECRET_KEY must be 32 characters long")
)

// AppConfig holds every setting of the application.
type AppConfig struct {
	Port     string
	Env      string
	LogLevel string

	MongoMode string
	MongoURI  string
	CatalogDB string
	OrdersDB  string

	PasetoSecretKey []byte
	SessionTTL      time.Duration
	RequestTimeout  time.Duration

	CloudinaryURL string
	UploadDir     string

	AdminUsername  string
	AdminPhoneHash []byte

	KafkaBroker     string
	KafkaOrderTopic string

	Maintenance bool
	CORSOrigins []string
}

func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// Load reads the .env file when present, then the process environment.
func Load() *AppConfig {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using environment variables")
	}

	cfg, err := fromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	return cfg
}

func fromEnv() (*AppConfig, error) {
	cfg := &AppConfig{
		Port:            getEnv("PORT", "4000"),
		Env:             getEnv("ENVIRONMENT", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		MongoMode:       getEnv("MONGO_MODE", "local"),
		CatalogDB:       getEnv("BASKET_DB", "Basket"),
		OrdersDB:        getEnv("ORDERS_DB", "Orders"),
		SessionTTL:      getDuration("SESSION_TTL", 720*time.Hour),
		RequestTimeout:  getDuration("REQUEST_TIMEOUT", 10*time.Second),
		CloudinaryURL:   getEnv("CLOUDINARY_URL", ""),
		UploadDir:       getEnv("UPLOAD_DIR", "public/uploads"),
		AdminUsername:   getEnv("ADMIN_USERNAME", "vajra"),
		AdminPhoneHash:  []byte(getEnv("ADMIN_PHONE_HASH", "")),
		KafkaBroker:     getEnv("KAFKA_BROKER", ""),
		KafkaOrderTopic: getEnv("KAFKA_ORDER_TOPIC", "orders.placed"),
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "")),
	}
	cfg.Maintenance = getBool("MAINTENANCE_ROUTES", !cfg.IsProduction())

	if cfg.MongoMode == "atlas" {
		cfg.MongoURI = getEnv("MONGO_URI_ATLAS", "")
		if cfg.MongoURI == "" {
			return nil, errMissingAtlasURI
		}
	} else {
		cfg.MongoURI = getEnv("MONGO_URI_LOCAL", "mongodb://localhost:27017")
	}

	key := getEnv("PASETO_SECRET_KEY", "")
	if len(key) != 32 {
		return nil, errPasetoKeyLength
	}
	cfg.PasetoSecretKey = []byte(key)

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Warn().Str("key", key).Str("value", raw).Dur("default", defaultValue).Msg("invalid duration, using default")
		return defaultValue
	}
	return d
}

func getBool(key string, defaultValue bool) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Bool("default", defaultValue).Msg("invalid boolean, using default")
		return defaultValue
	}
	return b
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
