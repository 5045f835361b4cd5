package app

import (
	"time"

	"github.com/dp-wu/bookradar-backend/internal/logger"
	"github.com/dp-wu/bookradar-backend/internal/utils"
)

// Config is the full environment surface. Every value is a plain substitution
// with a documented default; no interdependent validation beyond type
// coercion.
type Config struct {
	SecretKey string
	Debug     bool
	Testing   bool

	DatabaseURI string

	BrokerURL     string
	ResultBackend string

	// Opaque crawl scheduling values passed through to the external
	// crawler, not interpreted here.
	CrawlDelay  int
	FeedsPerDay int

	AccessTokenTTL    time.Duration
	WorkerConcurrency int
	Port              string
}

func LoadConfig(log *logger.Logger) Config {
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	return Config{
		SecretKey: utils.GetEnv("SECRET_KEY", "default_secret_key", log),
		Debug:     utils.GetEnvAsBool("DEBUG", false, log),
		Testing:   utils.GetEnvAsBool("TESTING", false, log),

		DatabaseURI: utils.GetEnv("DATABASE_URI", "sqlite://default.db", log),

		BrokerURL:     utils.GetEnv("BROKER_URL", "redis://localhost:6379/0", log),
		ResultBackend: utils.GetEnv("RESULT_BACKEND", "redis://localhost:6379/0", log),

		CrawlDelay:  utils.GetEnvAsInt("CRAWL_DELAY", 30, log),
		FeedsPerDay: utils.GetEnvAsInt("FEEDS_PER_DAY", 10, log),

		AccessTokenTTL:    time.Duration(accessTokenTTLSeconds) * time.Second,
		WorkerConcurrency: utils.GetEnvAsInt("WORKER_CONCURRENCY", 4, log),
		Port:              utils.GetEnv("PORT", "8080", log),
	}
}
