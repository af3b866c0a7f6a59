package env

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Port           string        `validate:"required"`
	AppEnv         string        `validate:"oneof=development production test"`
	MongoURI       string        `validate:"required"`
	MongoDB        string        `validate:"required"`
	JWTSecret      string        `validate:"required,min=16"`
	JWTDuration    time.Duration `validate:"gt=0"`
	RedisAddr      string
	RedisPassword  string
	RedisDB        int    `validate:"min=0"`
	EventsChannel  string `validate:"required"`
	S3Bucket       string
	S3Endpoint     string
	S3Region       string
	S3AccessKey    string
	S3SecretKey    string
	S3PublicURL    string
	CORSOrigins    []string `validate:"min=1"`
	AdminEmail     string   `validate:"omitempty,email"`
	AdminPassword  string
	RequestTimeout time.Duration `validate:"gt=0"`
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := &Config{
		Port:           GetEnv("PORT", "8080"),
		AppEnv:         GetEnv("APP_ENV", "development"),
		MongoURI:       GetEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:        GetEnv("MONGO_DB", "civicfix"),
		JWTSecret:      GetEnv("JWT_SECRET", ""),
		JWTDuration:    GetEnv("JWT_DURATION", time.Hour),
		RedisAddr:      GetEnv("REDIS_ADDR", ""),
		RedisPassword:  GetEnv("REDIS_PASSWORD", ""),
		RedisDB:        GetEnv("REDIS_DB", 0),
		EventsChannel:  GetEnv("EVENTS_CHANNEL", "civicfix:events"),
		S3Bucket:       GetEnv("S3_BUCKET", ""),
		S3Endpoint:     GetEnv("S3_ENDPOINT", ""),
		S3Region:       GetEnv("S3_REGION", "us-east-1"),
		S3AccessKey:    GetEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:    GetEnv("S3_SECRET_KEY", ""),
		S3PublicURL:    GetEnv("S3_PUBLIC_URL", ""),
		CORSOrigins:    GetEnv("CORS_ORIGINS", []string{"*"}),
		AdminEmail:     GetEnv("ADMIN_EMAIL", ""),
		AdminPassword:  GetEnv("ADMIN_PASSWORD", ""),
		RequestTimeout: GetEnv("REQUEST_TIMEOUT", 15*time.Second),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
