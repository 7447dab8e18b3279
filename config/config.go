package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          int
	GinMode       string
	MongoURI      string
	DBName        string
	JWTSecret     string
	TokenTTL      time.Duration
	AdminEmail    string
	AdminPassword string
	CloudinaryURL string
	MaxUploadSize int64
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	return &Config{
		Port:          getEnvAsInt("PORT", 8080),
		GinMode:       getEnv("GIN_MODE", "debug"),
		MongoURI:      getEnv("MONGODB_URI", "mongodb://127.0.0.1:27017"),
		DBName:        getEnv("DB_NAME", "newsdesk"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		TokenTTL:      getEnvAsDuration("TOKEN_TTL", 720*time.Hour),
		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		CloudinaryURL: getEnv("CLOUDINARY_URL", ""),
		MaxUploadSize: int64(getEnvAsInt("MAX_UPLOAD_SIZE", 10<<20)),
	}
}
