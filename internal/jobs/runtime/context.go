package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dp-wu/bookradar-backend/internal/repos"
	"github.com/dp-wu/bookradar-backend/internal/services"
	"github.com/dp-wu/bookradar-backend/internal/types"
)

// Context is the execution handle for a single claimed job run. Handlers never
// touch the job_runs row directly; Succeed and Fail are the only sanctioned
// lifecycle transitions.
type Context struct {
	Ctx     context.Context
	DB      *gorm.DB
	Job     *types.JobRun
	Repo    repos.JobRunRepo
	Notify  services.JobNotifier
	payload map[string]any
}

// NewContext eagerly decodes the payload JSON; a malformed payload yields an
// empty map and handlers validate required fields themselves.
func NewContext(ctx context.Context, db *gorm.DB, job *types.JobRun, repo repos.JobRunRepo, notify services.JobNotifier) *Context {
	c := &Context{
		Ctx:    ctx,
		DB:     db,
		Job:    job,
		Repo:   repo,
		Notify: notify,
	}
	_ = c.decodePayload()
	return c
}

func (c *Context) decodePayload() error {
	if c.Job == nil {
		return nil
	}
	if len(c.Job.Payload) == 0 {
		c.payload = map[string]any{}
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(c.Job.Payload, &m); err != nil {
		c.payload = map[string]any{}
		return err
	}
	c.payload = m
	return nil
}

// Payload never returns nil.
func (c *Context) Payload() map[string]any {
	if c.payload == nil {
		c.payload = map[string]any{}
	}
	return c.payload
}

func (c *Context) PayloadUUID(key string) (uuid.UUID, bool) {
	v, ok := c.Payload()[key]
	if !ok || v == nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(fmt.Sprint(v))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// Heartbeat keeps a long-running job from being reclaimed as stale.
func (c *Context) Heartbeat() {
	if c == nil || c.Repo == nil || c.Job == nil || c.Job.ID == uuid.Nil {
		return
	}
	_ = c.Repo.Heartbeat(c.ctx(), nil, c.Job.ID)
}

// Succeed marks the run terminally succeeded and persists the result payload.
func (c *Context) Succeed(result map[string]any) {
	if c == nil || c.Job == nil {
		return
	}
	now := time.Now()
	raw, err := json.Marshal(result)
	if err != nil {
		raw = []byte("{}")
	}

	if c.Repo != nil && c.Job.ID != uuid.Nil {
		_ = c.Repo.UpdateFields(c.ctx(), nil, c.Job.ID, map[string]interface{}{
			"status":     types.JobStatusSucceeded,
			"result":     raw,
			"locked_at":  nil,
			"updated_at": now,
		})
	}

	c.Job.Status = types.JobStatusSucceeded
	c.Job.Result = raw
	c.Job.LockedAt = nil
	c.Job.UpdatedAt = now

	if c.Notify != nil {
		c.Notify.JobDone(c.Job)
	}
}

// Fail marks the run failed and records the error; locked_at is cleared so
// other workers will not treat it as in progress.
func (c *Context) Fail(stage string, err error) {
	if c == nil || c.Job == nil {
		return
	}
	now := time.Now()
	msg := ""
	if err != nil {
		msg = err.Error()
	}

	if c.Repo != nil && c.Job.ID != uuid.Nil {
		_ = c.Repo.UpdateFields(c.ctx(), nil, c.Job.ID, map[string]interface{}{
			"status":        types.JobStatusFailed,
			"last_error":    stage + ": " + msg,
			"last_error_at": now,
			"locked_at":     nil,
			"updated_at":    now,
		})
	}

	c.Job.Status = types.JobStatusFailed
	c.Job.LastError = stage + ": " + msg
	c.Job.LastErrorAt = &now
	c.Job.LockedAt = nil
	c.Job.UpdatedAt = now

	if c.Notify != nil {
		c.Notify.JobFailed(c.Job, msg)
	}
}

func (c *Context) ctx() context.Context {
	if c.Ctx != nil {
		return c.Ctx
	}
	return context.Background()
}
