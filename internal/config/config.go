package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	// PublicBaseURL prefixes every attestation link printed into a QR code.
	PublicBaseURL string
	SnowflakeNode int64

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBPath            string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	Storage StorageConfig
	Kafka   KafkaConfig
	Redis   RedisConfig

	OTLPEndpoint string
}

type StorageConfig struct {
	Backend            string
	UploadDir          string
	PublicPath         string
	GCSBucket          string
	GCSCredentialsFile string
	CloudinaryURL      string
	CloudinaryFolder   string
}

type KafkaConfig struct {
	Broker   string
	Topic    string
	Username string
	Password string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

const (
	StorageLocal      = "local"
	StorageGCS        = "gcs"
	StorageCloudinary = "cloudinary"
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return Config{
		AppName:       v.GetString("APP_SERVICE"),
		AppVersion:    v.GetString("APP_VERSION"),
		Environment:   v.GetString("ENVIRONMENT"),
		HTTPAddr:      v.GetString("HTTP_ADDR"),
		PublicBaseURL: strings.TrimRight(strings.TrimSpace(v.GetString("PUBLIC_BASE_URL")), "/"),
		SnowflakeNode: v.GetInt64("SNOWFLAKE_NODE"),

		DBType:            strings.ToLower(v.GetString("DATABASE_TYPE")),
		DBHost:            v.GetString("DATABASE_HOST"),
		DBPort:            v.GetString("DATABASE_PORT"),
		DBName:            v.GetString("DATABASE_NAME"),
		DBUser:            v.GetString("DATABASE_USER"),
		DBPassword:        v.GetString("DATABASE_PASSWORD"),
		DBSSLMode:         v.GetString("DATABASE_SSLMODE"),
		DBPath:            v.GetString("DATABASE_PATH"),
		DBMaxIdleConn:     v.GetInt("DATABASE_MAX_IDLE_CONN"),
		DBMaxOpenConn:     v.GetInt("DATABASE_MAX_OPEN_CONN"),
		DBConnMaxLifetime: v.GetInt("DATABASE_CONN_MAX_LIFETIME"),
		DBConnMaxIdleTime: v.GetInt("DATABASE_CONN_MAX_IDLE_TIME"),

		Storage: StorageConfig{
			Backend:            normalizeBackend(v.GetString("STORAGE_BACKEND")),
			UploadDir:          v.GetString("UPLOAD_DIR"),
			PublicPath:         "/uploads",
			GCSBucket:          strings.TrimSpace(v.GetString("GCS_BUCKET")),
			GCSCredentialsFile: strings.TrimSpace(v.GetString("GCS_CREDENTIALS_FILE")),
			CloudinaryURL:      strings.TrimSpace(v.GetString("CLOUDINARY_URL")),
			CloudinaryFolder:   v.GetString("CLOUDINARY_FOLDER"),
		},
		Kafka: KafkaConfig{
			Broker:   strings.TrimSpace(v.GetString("KAFKA_BROKER")),
			Topic:    v.GetString("KAFKA_TOPIC"),
			Username: strings.TrimSpace(v.GetString("KAFKA_USERNAME")),
			Password: strings.TrimSpace(v.GetString("KAFKA_PASSWORD")),
		},
		Redis: RedisConfig{
			Addr:     strings.TrimSpace(v.GetString("REDIS_ADDR")),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},

		OTLPEndpoint: v.GetString("OTLP_ENDPOINT"),
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_SERVICE", "agridirect")
	v.SetDefault("APP_VERSION", "0.1.0")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")
	v.SetDefault("SNOWFLAKE_NODE", 1)

	v.SetDefault("DATABASE_TYPE", "sqlite")
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", "5432")
	v.SetDefault("DATABASE_NAME", "agridirect")
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_PASSWORD", "")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_PATH", "agridirect.db")
	v.SetDefault("DATABASE_MAX_IDLE_CONN", 10)
	v.SetDefault("DATABASE_MAX_OPEN_CONN", 50)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", 300)
	v.SetDefault("DATABASE_CONN_MAX_IDLE_TIME", 60)

	v.SetDefault("STORAGE_BACKEND", StorageLocal)
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("CLOUDINARY_FOLDER", "agridirect")
	v.SetDefault("KAFKA_TOPIC", "agridirect.events")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("OTLP_ENDPOINT", "localhost:4317")
}

func normalizeBackend(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case StorageGCS:
		return StorageGCS
	case StorageCloudinary:
		return StorageCloudinary
	default:
		return StorageLocal
	}
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}
