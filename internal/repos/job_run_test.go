package repos

import (
	"context"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/dp-wu/bookradar-backend/internal/repos/testutil"
	"github.com/dp-wu/bookradar-backend/internal/types"
)

func TestJobRunCreateDefaults(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewJobRunRepo(testutil.DB(t), testutil.Logger(t))

	created, err := repo.Create(ctx, tx, []*types.JobRun{{
		JobType: "crawl_feed",
		Payload: datatypes.JSON([]byte(`{"crawl_delay":30}`)),
	}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	job := created[0]
	if job.Status != types.JobStatusQueued {
		t.Fatalf("default status: want=%s got=%s", types.JobStatusQueued, job.Status)
	}

	got, err := repo.GetByID(ctx, tx, job.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.JobType != "crawl_feed" {
		t.Fatalf("GetByID returned wrong row: %+v", got)
	}
}

func TestJobRunClaimLifecycle(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewJobRunRepo(testutil.DB(t), testutil.Logger(t))

	created, err := repo.Create(ctx, tx, []*types.JobRun{{JobType: "ingest_batch"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	queued := created[0]

	claimed, err := repo.ClaimNextRunnable(ctx, tx, nil, 5, 30*time.Second, 30*time.Minute)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if claimed == nil || claimed.ID != queued.ID {
		t.Fatalf("claim returned wrong job: %+v", claimed)
	}
	if claimed.Status != types.JobStatusRunning {
		t.Fatalf("claimed status: want=%s got=%s", types.JobStatusRunning, claimed.Status)
	}
	if claimed.Attempts != 1 {
		t.Fatalf("attempts: want=1 got=%d", claimed.Attempts)
	}

	// A running job with a fresh heartbeat is not claimable again.
	again, err := repo.ClaimNextRunnable(ctx, tx, nil, 5, 30*time.Second, 30*time.Minute)
	if err != nil {
		t.Fatalf("second claim: %v", err)
	}
	if again != nil {
		t.Fatalf("running job must not be reclaimed: %+v", again)
	}

	if err := repo.UpdateFields(ctx, tx, claimed.ID, map[string]interface{}{
		"status": types.JobStatusSucceeded,
		"result": datatypes.JSON([]byte(`{"ingested":3}`)),
	}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	final, err := repo.GetByID(ctx, tx, claimed.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if final.Status != types.JobStatusSucceeded {
		t.Fatalf("final status: want=%s got=%s", types.JobStatusSucceeded, final.Status)
	}
}

func TestJobRunClaimFiltersByJobType(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewJobRunRepo(testutil.DB(t), testutil.Logger(t))

	created, err := repo.Create(ctx, tx, []*types.JobRun{
		{JobType: "crawl_feed"},
		{JobType: "ingest_batch"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	crawlJob, ingestJob := created[0], created[1]

	// A claimer restricted to ingest_batch skips the older crawl job.
	claimed, err := repo.ClaimNextRunnable(ctx, tx, []string{"ingest_batch", "classify"}, 5, 30*time.Second, 30*time.Minute)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if claimed == nil || claimed.ID != ingestJob.ID {
		t.Fatalf("filtered claim: want=%s got=%+v", ingestJob.ID, claimed)
	}

	// Nothing else in the allowed set: the crawl job stays queued.
	claimed, err = repo.ClaimNextRunnable(ctx, tx, []string{"ingest_batch", "classify"}, 5, 30*time.Second, 30*time.Minute)
	if err != nil {
		t.Fatalf("second claim: %v", err)
	}
	if claimed != nil {
		t.Fatalf("crawl job must be left for its own consumer: %+v", claimed)
	}
	stored, err := repo.GetByID(ctx, tx, crawlJob.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != types.JobStatusQueued {
		t.Fatalf("crawl job status: want=%s got=%s", types.JobStatusQueued, stored.Status)
	}
}

func TestJobRunClaimRetriesFailedAfterDelay(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewJobRunRepo(testutil.DB(t), testutil.Logger(t))

	longAgo := time.Now().Add(-time.Hour)
	created, err := repo.Create(ctx, tx, []*types.JobRun{{
		JobType:     "classify",
		Status:      types.JobStatusFailed,
		Attempts:    1,
		LastError:   "ingest: transient",
		LastErrorAt: &longAgo,
	}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	claimed, err := repo.ClaimNextRunnable(ctx, tx, nil, 5, 30*time.Second, 30*time.Minute)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if claimed == nil || claimed.ID != created[0].ID {
		t.Fatalf("failed job past retry delay should be claimable: %+v", claimed)
	}
	if claimed.Attempts != 2 {
		t.Fatalf("attempts: want=2 got=%d", claimed.Attempts)
	}
}

func TestJobRunClaimSkipsExhaustedFailures(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewJobRunRepo(testutil.DB(t), testutil.Logger(t))

	longAgo := time.Now().Add(-time.Hour)
	if _, err := repo.Create(ctx, tx, []*types.JobRun{{
		JobType:     "classify",
		Status:      types.JobStatusFailed,
		Attempts:    5,
		LastErrorAt: &longAgo,
	}}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	claimed, err := repo.ClaimNextRunnable(ctx, tx, nil, 5, 30*time.Second, 30*time.Minute)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if claimed != nil {
		t.Fatalf("exhausted job must stay failed: %+v", claimed)
	}
}

func TestJobRunClaimReclaimsStaleRunning(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewJobRunRepo(testutil.DB(t), testutil.Logger(t))

	stale := time.Now().Add(-2 * time.Hour)
	created, err := repo.Create(ctx, tx, []*types.JobRun{{
		JobType:     "ingest_batch",
		Status:      types.JobStatusRunning,
		Attempts:    1,
		LockedAt:    &stale,
		HeartbeatAt: &stale,
	}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	claimed, err := repo.ClaimNextRunnable(ctx, tx, nil, 5, 30*time.Second, 30*time.Minute)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if claimed == nil || claimed.ID != created[0].ID {
		t.Fatalf("stale running job should be reclaimed: %+v", claimed)
	}
}
