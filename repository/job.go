package repository

import (
	"context"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"shortdrama/constant"
	"shortdrama/entities"
	"time"
)

var activeJobStatuses = []constant.JobStatus{constant.JobStatusPending, constant.JobStatusProcessing}

func (r *repo) CreateJob(ctx context.Context, job *entities.AiJob) error {
	return r.conn(ctx).Create(job).Error
}

func (r *repo) FindJobById(ctx context.Context, id uuid.UUID) (*entities.AiJob, error) {
	job := &entities.AiJob{}
	err := r.conn(ctx).First(job, "id = ?", id).Error
	if err != nil {
		return nil, err
	}

	return job, nil
}

func (r *repo) FindActiveSplitJob(ctx context.Context, episodeId uuid.UUID) (*entities.AiJob, error) {
	job := &entities.AiJob{}
	err := r.conn(ctx).
		Where("episode_id = ? AND kind = ? AND status IN ?", episodeId, constant.JobKindSplitSeries, activeJobStatuses).
		Order("created_at DESC").
		First(job).Error
	return optional(job, err)
}

func (r *repo) FindProcessingSplitJob(ctx context.Context, episodeId uuid.UUID) (*entities.AiJob, error) {
	job := &entities.AiJob{}
	err := r.conn(ctx).
		Where("episode_id = ? AND kind = ? AND status = ?", episodeId, constant.JobKindSplitSeries, constant.JobStatusProcessing).
		Order("started_at ASC").
		First(job).Error
	return optional(job, err)
}

func (r *repo) FindLatestJobForEpisode(ctx context.Context, episodeId uuid.UUID) (*entities.AiJob, error) {
	job := &entities.AiJob{}
	err := r.conn(ctx).Where("episode_id = ?", episodeId).Order("created_at DESC").First(job).Error
	return optional(job, err)
}

func (r *repo) ListRecentJobs(ctx context.Context, limit int) ([]*entities.AiJob, error) {
	var jobs []*entities.AiJob
	if err := r.conn(ctx).Order("created_at DESC").Limit(limit).Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *repo) OldestPendingJob(ctx context.Context) (*entities.AiJob, error) {
	job := &entities.AiJob{}
	err := r.conn(ctx).Where("status = ?", constant.JobStatusPending).
		Order("created_at ASC, id ASC").
		First(job).Error
	return optional(job, err)
}

func staleScope(cutoff time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ? AND (last_heartbeat IS NULL OR last_heartbeat < ?)", constant.JobStatusProcessing, cutoff)
	}
}

func (r *repo) OldestStaleJob(ctx context.Context, cutoff time.Time) (*entities.AiJob, error) {
	job := &entities.AiJob{}
	err := r.conn(ctx).Scopes(staleScope(cutoff)).Order("started_at ASC").First(job).Error
	return optional(job, err)
}

// RequeueStaleJob moves a still-stale PROCESSING job back to PENDING.
func (r *repo) RequeueStaleJob(ctx context.Context, id uuid.UUID, cutoff time.Time) (bool, error) {
	res := r.conn(ctx).Model(&entities.AiJob{}).Scopes(staleScope(cutoff)).Where("id = ?", id).
		Updates(map[string]any{
			"status":       constant.JobStatusPending,
			"stage":        "requeued",
			"progress_pct": 0,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ClaimJob is the single admission gate PENDING -> PROCESSING. It reports
// false when another caller won the row.
func (r *repo) ClaimJob(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	res := r.conn(ctx).Model(&entities.AiJob{}).
		Where("id = ? AND status = ?", id, constant.JobStatusPending).
		Updates(map[string]any{
			"status":         constant.JobStatusProcessing,
			"attempts":       gorm.Expr("attempts + 1"),
			"started_at":     now,
			"last_heartbeat": now,
			"stage":          "claimed",
			"progress_pct":   0,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// UpdateJobProgress does not look at the status. With a fence it only
// touches the row while attempts still matches.
func (r *repo) UpdateJobProgress(ctx context.Context, id uuid.UUID, fence *int, pct int, stage string, message *string, now time.Time) (bool, error) {
	updates := map[string]any{
		"progress_pct":   pct,
		"stage":          stage,
		"last_heartbeat": now,
	}
	if message != nil {
		updates["error"] = *message
	}
	q := r.conn(ctx).Model(&entities.AiJob{}).Where("id = ?", id)
	if fence != nil {
		q = q.Where("attempts = ?", *fence)
	}
	res := q.Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// FinishJob applies a terminal transition to a job that is not terminal yet.
// When fence is set the row must also still carry that attempt number.
func (r *repo) FinishJob(ctx context.Context, id uuid.UUID, fence *int, updates map[string]any) (bool, error) {
	q := r.conn(ctx).Model(&entities.AiJob{}).Where("id = ? AND status IN ?", id, activeJobStatuses)
	if fence != nil {
		q = q.Where("attempts = ?", *fence)
	}
	res := q.Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
