package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dp-wu/bookradar-backend/internal/logger"
	"github.com/dp-wu/bookradar-backend/internal/repos"
	"github.com/dp-wu/bookradar-backend/internal/types"
)

// QueryService is the read surface for the presentation layer: browse
// recommendations filtered by tag, source user or book, list books and tags,
// and record what a signed-in user asked for.
type QueryService interface {
	Recommendations(ctx context.Context, userID uuid.UUID, filter repos.RecommendationFilter) ([]*types.Recommendation, error)
	Books(ctx context.Context, limit, offset int) ([]*types.Book, error)
	Tags(ctx context.Context) ([]*types.Tag, error)
	History(ctx context.Context, userID uuid.UUID, limit int) ([]*types.QueryHistory, error)
}

type queryService struct {
	db                 *gorm.DB
	log                *logger.Logger
	recommendationRepo repos.RecommendationRepo
	bookRepo           repos.BookRepo
	tagRepo            repos.TagRepo
	queryHistoryRepo   repos.QueryHistoryRepo
}

func NewQueryService(
	db *gorm.DB,
	log *logger.Logger,
	recommendationRepo repos.RecommendationRepo,
	bookRepo repos.BookRepo,
	tagRepo repos.TagRepo,
	queryHistoryRepo repos.QueryHistoryRepo,
) QueryService {
	serviceLog := log.With("service", "QueryService")
	return &queryService{
		db:                 db,
		log:                serviceLog,
		recommendationRepo: recommendationRepo,
		bookRepo:           bookRepo,
		tagRepo:            tagRepo,
		queryHistoryRepo:   queryHistoryRepo,
	}
}

func (qs *queryService) Recommendations(ctx context.Context, userID uuid.UUID, filter repos.RecommendationFilter) ([]*types.Recommendation, error) {
	recs, err := qs.recommendationRepo.List(ctx, nil, filter)
	if err != nil {
		return nil, err
	}

	if userID != uuid.Nil {
		if desc := describeFilter(filter); desc != "" {
			if _, hErr := qs.queryHistoryRepo.Create(ctx, nil, []*types.QueryHistory{{
				UserID: userID,
				Query:  desc,
			}}); hErr != nil {
				// History is best effort; the query result still stands.
				qs.log.Warn("Failed to record query history", "user_id", userID, "error", hErr)
			}
		}
	}
	return recs, nil
}

func (qs *queryService) Books(ctx context.Context, limit, offset int) ([]*types.Book, error) {
	return qs.bookRepo.List(ctx, nil, limit, offset)
}

func (qs *queryService) Tags(ctx context.Context) ([]*types.Tag, error) {
	return qs.tagRepo.List(ctx, nil)
}

func (qs *queryService) History(ctx context.Context, userID uuid.UUID, limit int) ([]*types.QueryHistory, error) {
	return qs.queryHistoryRepo.ListByUserID(ctx, nil, userID, limit)
}

func describeFilter(filter repos.RecommendationFilter) string {
	var parts []string
	if filter.TagName != "" {
		parts = append(parts, "tag="+filter.TagName)
	}
	if filter.SourceUserExternal != "" {
		parts = append(parts, "source_user="+filter.SourceUserExternal)
	}
	if filter.BookExternal != "" {
		parts = append(parts, "book="+filter.BookExternal)
	}
	return strings.Join(parts, " ")
}
