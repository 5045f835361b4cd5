package app

import (
	"gorm.io/gorm"

	"github.com/dp-wu/bookradar-backend/internal/logger"
	"github.com/dp-wu/bookradar-backend/internal/repos"
)

type Repos struct {
	User           repos.UserRepo
	SourceUser     repos.SourceUserRepo
	Book           repos.BookRepo
	Recommendation repos.RecommendationRepo
	Tag            repos.TagRepo
	Classification repos.ClassificationRepo
	QueryHistory   repos.QueryHistoryRepo
	JobRun         repos.JobRunRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		User:           repos.NewUserRepo(db, log),
		SourceUser:     repos.NewSourceUserRepo(db, log),
		Book:           repos.NewBookRepo(db, log),
		Recommendation: repos.NewRecommendationRepo(db, log),
		Tag:            repos.NewTagRepo(db, log),
		Classification: repos.NewClassificationRepo(db, log),
		QueryHistory:   repos.NewQueryHistoryRepo(db, log),
		JobRun:         repos.NewJobRunRepo(db, log),
	}
}
