package app

import (
	"gorm.io/gorm"

	redisclient "github.com/dp-wu/bookradar-backend/internal/clients/redis"
	"github.com/dp-wu/bookradar-backend/internal/logger"
	"github.com/dp-wu/bookradar-backend/internal/services"
)

type Services struct {
	Auth     services.AuthService
	Identity services.IdentityService
	User     services.UserService
	Ledger   services.LedgerService
	Query    services.QueryService
	Crawl    services.CrawlService
	Notifier services.JobNotifier
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos) Services {
	notifier, err := redisclient.NewJobBus(cfg.BrokerURL, cfg.ResultBackend, log)
	if err != nil {
		// The queue still works without a broker; events just stay
		// local.
		log.Warn("Job bus unavailable, falling back to log notifier", "error", err)
		notifier = services.NewLogJobNotifier(log)
	}

	ledger := services.NewLedgerService(
		db,
		log,
		reposet.SourceUser,
		reposet.Book,
		reposet.Recommendation,
		reposet.Tag,
		reposet.Classification,
	)

	return Services{
		Auth:     services.NewAuthService(db, log, reposet.User, cfg.SecretKey, cfg.AccessTokenTTL),
		Identity: services.NewIdentityService(db, log, reposet.User),
		User:     services.NewUserService(db, log, reposet.User),
		Ledger:   ledger,
		Query:    services.NewQueryService(db, log, reposet.Recommendation, reposet.Book, reposet.Tag, reposet.QueryHistory),
		Crawl:    services.NewCrawlService(db, log, reposet.JobRun, notifier, cfg.CrawlDelay, cfg.FeedsPerDay),
		Notifier: notifier,
	}
}
