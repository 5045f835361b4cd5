package services

import (
	"testing"

	"gorm.io/gorm"

	"github.com/dp-wu/bookradar-backend/internal/logger"
	"github.com/dp-wu/bookradar-backend/internal/repos"
	"github.com/dp-wu/bookradar-backend/internal/repos/testutil"
)

// serviceEnv bundles the shared database and repo set service tests run
// against. Writes commit for real, so every test uses unique external ids
// and source urls.
type serviceEnv struct {
	db  *gorm.DB
	log *logger.Logger

	userRepo           repos.UserRepo
	sourceUserRepo     repos.SourceUserRepo
	bookRepo           repos.BookRepo
	recommendationRepo repos.RecommendationRepo
	tagRepo            repos.TagRepo
	classificationRepo repos.ClassificationRepo
	queryHistoryRepo   repos.QueryHistoryRepo
	jobRunRepo         repos.JobRunRepo
}

func newServiceEnv(t *testing.T) *serviceEnv {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	return &serviceEnv{
		db:                 db,
		log:                log,
		userRepo:           repos.NewUserRepo(db, log),
		sourceUserRepo:     repos.NewSourceUserRepo(db, log),
		bookRepo:           repos.NewBookRepo(db, log),
		recommendationRepo: repos.NewRecommendationRepo(db, log),
		tagRepo:            repos.NewTagRepo(db, log),
		classificationRepo: repos.NewClassificationRepo(db, log),
		queryHistoryRepo:   repos.NewQueryHistoryRepo(db, log),
		jobRunRepo:         repos.NewJobRunRepo(db, log),
	}
}

func (env *serviceEnv) ledger() LedgerService {
	return NewLedgerService(
		env.db,
		env.log,
		env.sourceUserRepo,
		env.bookRepo,
		env.recommendationRepo,
		env.tagRepo,
		env.classificationRepo,
	)
}
