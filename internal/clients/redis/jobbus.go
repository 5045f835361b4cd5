package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dp-wu/bookradar-backend/internal/logger"
	"github.com/dp-wu/bookradar-backend/internal/services"
	"github.com/dp-wu/bookradar-backend/internal/types"
)

const (
	jobEventChannel = "bookradar:jobs"
	jobResultPrefix = "bookradar:jobresult:"
	jobResultTTL    = 24 * time.Hour
)

// JobEvent is the wire form of a job lifecycle notification.
type JobEvent struct {
	JobID   string          `json:"job_id"`
	JobType string          `json:"job_type"`
	Status  string          `json:"status"`
	Error   string          `json:"error,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}

// jobBus publishes lifecycle events to the broker and mirrors terminal
// results onto the result backend, so external crawler/classifier processes
// can follow their jobs without polling the database.
type jobBus struct {
	log     *logger.Logger
	broker  *goredis.Client
	results *goredis.Client
}

// NewJobBus connects to the broker and result-backend URLs
// (redis://host:port/db, the same shape the task-queue config documents).
// The two may be the same instance.
func NewJobBus(brokerURL, resultBackendURL string, log *logger.Logger) (services.JobNotifier, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	broker, err := clientFromURL(brokerURL)
	if err != nil {
		return nil, fmt.Errorf("broker url: %w", err)
	}
	results := broker
	if resultBackendURL != "" && resultBackendURL != brokerURL {
		results, err = clientFromURL(resultBackendURL)
		if err != nil {
			return nil, fmt.Errorf("result backend url: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := broker.Ping(ctx).Err(); err != nil {
		_ = broker.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &jobBus{
		log:     log.With("service", "RedisJobBus"),
		broker:  broker,
		results: results,
	}, nil
}

func clientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	opts.DialTimeout = 5 * time.Second
	return goredis.NewClient(opts), nil
}

func (b *jobBus) JobQueued(job *types.JobRun) {
	b.publish(JobEvent{
		JobID:   job.ID.String(),
		JobType: job.JobType,
		Status:  types.JobStatusQueued,
	})
}

func (b *jobBus) JobDone(job *types.JobRun) {
	b.publish(JobEvent{
		JobID:   job.ID.String(),
		JobType: job.JobType,
		Status:  types.JobStatusSucceeded,
		Result:  json.RawMessage(job.Result),
	})
	b.storeResult(job)
}

func (b *jobBus) JobFailed(job *types.JobRun, errorMessage string) {
	b.publish(JobEvent{
		JobID:   job.ID.String(),
		JobType: job.JobType,
		Status:  types.JobStatusFailed,
		Error:   errorMessage,
	})
}

func (b *jobBus) publish(ev JobEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	raw, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if err := b.broker.Publish(ctx, jobEventChannel, raw).Err(); err != nil {
		b.log.Warn("Failed to publish job event", "job_id", ev.JobID, "error", err)
	}
}

func (b *jobBus) storeResult(job *types.JobRun) {
	if len(job.Result) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	key := jobResultPrefix + job.ID.String()
	if err := b.results.Set(ctx, key, string(job.Result), jobResultTTL).Err(); err != nil {
		b.log.Warn("Failed to store job result", "job_id", job.ID, "error", err)
	}
}
