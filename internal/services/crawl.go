package services

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/dp-wu/bookradar-backend/internal/logger"
	"github.com/dp-wu/bookradar-backend/internal/repos"
	"github.com/dp-wu/bookradar-backend/internal/types"
)

const TypeCrawlFeed = "crawl_feed"

// CrawlService is the enqueue side of the task queue. The crawl scheduling
// values (crawl delay, feeds per day) are opaque passthroughs stamped into
// the payload for the external crawler; nothing here interprets them.
type CrawlService interface {
	EnqueueCrawl(ctx context.Context, sourceUserExternalID string) (*types.JobRun, error)
	Enqueue(ctx context.Context, jobType string, payload any) (*types.JobRun, error)
	JobStatus(ctx context.Context, id string) (*types.JobRun, error)
}

type crawlService struct {
	db          *gorm.DB
	log         *logger.Logger
	jobRunRepo  repos.JobRunRepo
	notify      JobNotifier
	crawlDelay  int
	feedsPerDay int
}

func NewCrawlService(
	db *gorm.DB,
	log *logger.Logger,
	jobRunRepo repos.JobRunRepo,
	notify JobNotifier,
	crawlDelay int,
	feedsPerDay int,
) CrawlService {
	serviceLog := log.With("service", "CrawlService")
	return &crawlService{
		db:          db,
		log:         serviceLog,
		jobRunRepo:  jobRunRepo,
		notify:      notify,
		crawlDelay:  crawlDelay,
		feedsPerDay: feedsPerDay,
	}
}

func (cs *crawlService) EnqueueCrawl(ctx context.Context, sourceUserExternalID string) (*types.JobRun, error) {
	if sourceUserExternalID == "" {
		return nil, fmt.Errorf("source user external id is required")
	}
	return cs.Enqueue(ctx, TypeCrawlFeed, map[string]any{
		"source_user_external_id": sourceUserExternalID,
		"crawl_delay":             cs.crawlDelay,
		"feeds_per_day":           cs.feedsPerDay,
	})
}

func (cs *crawlService) Enqueue(ctx context.Context, jobType string, payload any) (*types.JobRun, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	jobs, err := cs.jobRunRepo.Create(ctx, nil, []*types.JobRun{{
		JobType: jobType,
		Status:  types.JobStatusQueued,
		Payload: raw,
	}})
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue %s: %w", jobType, err)
	}
	job := jobs[0]
	if cs.notify != nil {
		cs.notify.JobQueued(job)
	}
	return job, nil
}

func (cs *crawlService) JobStatus(ctx context.Context, id string) (*types.JobRun, error) {
	parsed, err := parseJobID(id)
	if err != nil {
		return nil, err
	}
	return cs.jobRunRepo.GetByID(ctx, nil, parsed)
}
