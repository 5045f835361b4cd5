package services

import (
	"github.com/dp-wu/bookradar-backend/internal/logger"
	"github.com/dp-wu/bookradar-backend/internal/types"
)

// JobNotifier publishes job lifecycle events for external consumers (the
// crawler process, admin UIs). The redis-backed implementation lives in
// clients/redis; this log-only one keeps the server functional without a
// broker.
type JobNotifier interface {
	JobQueued(job *types.JobRun)
	JobDone(job *types.JobRun)
	JobFailed(job *types.JobRun, errorMessage string)
}

type logJobNotifier struct {
	log *logger.Logger
}

func NewLogJobNotifier(log *logger.Logger) JobNotifier {
	return &logJobNotifier{log: log.With("service", "LogJobNotifier")}
}

func (n *logJobNotifier) JobQueued(job *types.JobRun) {
	n.log.Info("Job queued", "job_id", job.ID, "job_type", job.JobType)
}

func (n *logJobNotifier) JobDone(job *types.JobRun) {
	n.log.Info("Job done", "job_id", job.ID, "job_type", job.JobType)
}

func (n *logJobNotifier) JobFailed(job *types.JobRun, errorMessage string) {
	n.log.Warn("Job failed", "job_id", job.ID, "job_type", job.JobType, "error", errorMessage)
}
