//go:build integration

package integration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"credit_scoring/internal/cache"
	"credit_scoring/internal/config"
	"credit_scoring/internal/db"
	"credit_scoring/internal/observability"

	"github.com/go-redis/redis/v8"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// TestEnv holds all test dependencies
type TestEnv struct {
	DB          *sql.DB
	RedisClient *redis.Client
	Config      *config.Config
}

func init() {
	observability.InitMetrics()
}

// SetupTestEnv initializes the test environment against live Postgres and
// Redis instances and resets their state.
func SetupTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	cfg := loadTestConfig()

	database := db.Init(&cfg.DB)
	if database == nil {
		t.Fatal("Failed to connect to test database")
	}

	if err := runMigrations(&cfg.DB); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	if _, err := database.Exec("TRUNCATE clients, users RESTART IDENTITY CASCADE"); err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}

	redisClient := cache.SetupRedis(&cfg.Redis)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		t.Fatalf("Failed to connect to Redis: %v", err)
	}
	redisClient.FlushDB(ctx)

	return &TestEnv{
		DB:          database,
		RedisClient: redisClient,
		Config:      cfg,
	}
}

// Cleanup closes all connections.
func (e *TestEnv) Cleanup(t *testing.T) {
	t.Helper()

	if e.DB != nil {
		_, _ = e.DB.Exec("TRUNCATE clients, users RESTART IDENTITY CASCADE")
		_ = e.DB.Close()
	}
	if e.RedisClient != nil {
		_ = e.RedisClient.Close()
	}
}

func runMigrations(dbCfg *config.DBConfig) error {
	url := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbCfg.User, dbCfg.Password, dbCfg.Host, dbCfg.Port, dbCfg.Name, dbCfg.SSLMode,
	)

	m, err := migrate.New("file://../../migrations", url)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func loadTestConfig() *config.Config {
	return &config.Config{
		AppName: "credit-scoring-api-test",
		AppEnv:  "test",
		AppPort: "0",

		SecretKey: "test-secret",

		DB: config.DBConfig{
			Host:     testenv("TEST_DB_HOST", "localhost"),
			Port:     testenv("TEST_DB_PORT", "5432"),
			User:     testenv("TEST_DB_USER", "postgres"),
			Password: testenv("TEST_DB_PASSWORD", "postgres"),
			Name:     testenv("TEST_DB_NAME", "credit_scoring_test"),
			SSLMode:  "disable",
		},

		Redis: config.RedisConfig{
			Host:          testenv("TEST_REDIS_HOST", "localhost"),
			Port:          testenv("TEST_REDIS_PORT", "6379"),
			RedisPassword: "",
			RedisDB:       "1",
		},

		JWT: config.JWTConfig{
			Secret: "integration-test-jwt-secret",
		},

		CORS: config.CORSConfig{
			AllowedOrigin: "http://localhost:8080",
		},
	}
}

func testenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
