package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	AppName string
	AppEnv  string
	AppPort string

	// SecretKey is the general application secret. Tokens are signed with
	// JWT.Secret, not with this.
	SecretKey string

	DB    DBConfig
	Redis RedisConfig
	JWT   JWTConfig
	CORS  CORSConfig
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Host          string
	Port          string
	RedisPassword string
	RedisDB       string
}

type JWTConfig struct {
	Secret string
}

type CORSConfig struct {
	AllowedOrigin string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppName: getenv("APP_NAME", "credit-scoring-api"),
		AppEnv:  getenv("APP_ENV", "development"),
		AppPort: getenv("APP_PORT", "8000"),

		SecretKey: getenv("SECRET_KEY", "change-me"),

		DB: DBConfig{
			Host:     getenv("DB_HOST", "localhost"),
			Port:     getenv("DB_PORT", "5432"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			SSLMode:  getenv("DB_SSLMODE", "disable"),
		},

		Redis: RedisConfig{
			Host:          getenv("REDIS_HOST", "localhost"),
			Port:          getenv("REDIS_PORT", "6379"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       getenv("REDIS_DB", "0"),
		},

		JWT: JWTConfig{
			Secret: getenv("JWT_SECRET_KEY", "jwt-change-me"),
		},

		CORS: CORSConfig{
			AllowedOrigin: getenv("CORS_ALLOWED_ORIGIN", "http://localhost:8080"),
		},
	}
}

// IsProduction reports whether the app runs with production settings.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
