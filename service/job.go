package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"shortdrama/config"
	"shortdrama/constant"
	"shortdrama/dto"
	"shortdrama/entities"
	"shortdrama/pkg/metrics"
	"shortdrama/pkg/rabbitmq"
	"shortdrama/pkg/storage"
	"shortdrama/repository"
	"strings"
	"time"
)

const (
	invalidRawError = "missing_or_invalid_rawKey"

	stageQueued      = "queued"
	stageQueuedSplit = "queued_split"
	stageQueuedURL   = "queued_import"
	stageInvalidRaw  = "invalid_raw"
)

type JobService interface {
	CreateEncodeJob(ctx context.Context, episodeId uuid.UUID) (*entities.AiJob, error)
	CreateSplitJob(ctx context.Context, seriesId uuid.UUID, policy dto.SplitPolicy) (*dto.SplitResult, error)
	ImportFromURL(ctx context.Context, req dto.ImportRequest) (*dto.SplitResult, error)
	Claim(ctx context.Context) (*dto.ClaimedJob, error)
	ReportProgress(ctx context.Context, jobId uuid.UUID, req dto.ProgressRequest) error
	Complete(ctx context.Context, jobId uuid.UUID, req dto.CompleteRequest) (*dto.CompleteResult, error)
	Fail(ctx context.Context, jobId uuid.UUID, req dto.FailRequest) (*dto.CompleteResult, error)
	JobStatus(ctx context.Context, jobId uuid.UUID) (*dto.JobStatusView, error)
}

type jobService struct {
	repo    repository.Repository
	storage storage.Gateway
	events  rabbitmq.Publisher
	cfg     *config.Config
	now     func() time.Time
}

func NewJobService(repo repository.Repository, gateway storage.Gateway, events rabbitmq.Publisher, cfg *config.Config) JobService {
	if events == nil {
		events = rabbitmq.NewNoop()
	}
	return &jobService{
		repo:    repo,
		storage: gateway,
		events:  events,
		cfg:     cfg,
		now:     utcNow,
	}
}

func (s *jobService) CreateEncodeJob(ctx context.Context, episodeId uuid.UUID) (*entities.AiJob, error) {
	job := &entities.AiJob{
		EpisodeID: episodeId,
		Kind:      constant.JobKindEncodeOne,
		Status:    constant.JobStatusPending,
		Stage:     stageQueued,
	}
	err := s.repo.Transaction(ctx, func(ctx context.Context) error {
		episode, err := s.repo.FindEpisodeById(ctx, episodeId)
		if err != nil {
			return notFound(err, ErrEpisodeNotFound)
		}
		if !ValidRawKey(episode.RawSource()) {
			return ErrMissingRawSource
		}
		if err := s.repo.CreateJob(ctx, job); err != nil {
			return err
		}
		return s.repo.UpdateEpisodeStatus(ctx, episodeId, constant.EpisodeStatusProcessing)
	})
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().Str("job_id", job.ID.String()).Str("episode_id", episodeId.String()).Msg("encode job queued")
	s.announce(ctx, job, constant.JobEventEnqueued)
	return job, nil
}

// CreateSplitJob is idempotent per anchor: while a split job for episode 1 is
// PENDING or PROCESSING it is returned as is and nothing changes.
func (s *jobService) CreateSplitJob(ctx context.Context, seriesId uuid.UUID, policy dto.SplitPolicy) (*dto.SplitResult, error) {
	rawKey := strings.TrimSpace(policy.RawKey)
	if !ValidRawKey(rawKey) {
		return nil, ErrInvalidRawKey
	}
	policy.RawKey = rawKey

	if _, err := s.repo.FindSeriesById(ctx, seriesId); err != nil {
		return nil, notFound(err, ErrSeriesNotFound)
	}

	reused, err := s.activeSplit(ctx, seriesId)
	if err != nil || reused != nil {
		return reused, err
	}

	if err := s.checkRawSize(ctx, rawKey); err != nil {
		return nil, err
	}

	var result *dto.SplitResult
	var job *entities.AiJob
	err = s.repo.Transaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.LockSeries(ctx, seriesId); err != nil {
			return notFound(err, ErrSeriesNotFound)
		}
		// re-check under the series lock
		active, err := s.activeSplit(ctx, seriesId)
		if err != nil {
			return err
		}
		if active != nil {
			result = active
			return nil
		}

		err = s.repo.UpdateSeries(ctx, seriesId, map[string]any{
			"free_episodes":        policy.FreeEpisodes,
			"episode_duration_sec": policy.EpisodeDurationSec,
			"default_coin_cost":    policy.DefaultCoinCost,
			"max_episodes":         policy.MaxEpisodes,
		})
		if err != nil {
			return err
		}

		anchor, err := s.ensureAnchor(ctx, seriesId, rawKey)
		if err != nil {
			return err
		}

		job = &entities.AiJob{
			EpisodeID: anchor.ID,
			Kind:      constant.JobKindSplitSeries,
			Status:    constant.JobStatusPending,
			Stage:     stageQueuedSplit,
		}
		if err := s.repo.CreateJob(ctx, job); err != nil {
			return err
		}
		result = &dto.SplitResult{JobId: job.ID, EpisodeId: anchor.ID, SeriesId: seriesId}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if job != nil {
		zerolog.Ctx(ctx).Info().Str("job_id", job.ID.String()).Str("series_id", seriesId.String()).Msg("split job queued")
		s.announce(ctx, job, constant.JobEventEnqueued)
	}
	return result, nil
}

func (s *jobService) activeSplit(ctx context.Context, seriesId uuid.UUID) (*dto.SplitResult, error) {
	anchor, err := s.repo.FindEpisodeByNumber(ctx, seriesId, 1)
	if err != nil || anchor == nil {
		return nil, err
	}
	active, err := s.repo.FindActiveSplitJob(ctx, anchor.ID)
	if err != nil || active == nil {
		return nil, err
	}
	return &dto.SplitResult{JobId: active.ID, EpisodeId: anchor.ID, SeriesId: seriesId, Reused: true}, nil
}

// ensureAnchor creates episode 1 or points the existing one at rawKey.
func (s *jobService) ensureAnchor(ctx context.Context, seriesId uuid.UUID, rawKey string) (*entities.Episode, error) {
	anchor, err := s.repo.FindEpisodeByNumber(ctx, seriesId, 1)
	if err != nil {
		return nil, err
	}
	if anchor == nil {
		anchor = &entities.Episode{
			SeriesID:      seriesId,
			EpisodeNumber: 1,
			Status:        constant.EpisodeStatusProcessing,
			LockType:      constant.LockTypeFree,
			RawKey:        &rawKey,
		}
		return anchor, s.repo.CreateEpisode(ctx, anchor)
	}
	err = s.repo.UpdateEpisode(ctx, anchor.ID, map[string]any{
		"raw_key":   rawKey,
		"status":    constant.EpisodeStatusProcessing,
		"lock_type": constant.LockTypeFree,
		"coin_cost": 0,
	})
	return anchor, err
}

// checkRawSize rejects uploads that are present but obviously truncated.
// Storage errors are ignored.
func (s *jobService) checkRawSize(ctx context.Context, rawKey string) error {
	if s.storage == nil || IsRawURL(rawKey) {
		return nil
	}
	size, err := s.storage.Stat(ctx, s.cfg.Buckets.Raw, rawKey)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("raw_key", rawKey).Msg("raw size check skipped")
		return nil
	}
	if size > 0 && size < s.cfg.Jobs.MinRawBytes {
		return ErrRawTooSmall.WithHint(fmt.Sprintf("Raw object is only %d bytes. Re-upload the full video.", size))
	}
	return nil
}

func (s *jobService) ImportFromURL(ctx context.Context, req dto.ImportRequest) (*dto.SplitResult, error) {
	url := strings.TrimSpace(req.URL)
	if !IsRawURL(url) || !ValidRawKey(url) {
		return nil, ErrInvalidRawKey.WithHint("url must be an absolute http(s) URL")
	}
	policy := req.Policy()

	var job *entities.AiJob
	var result *dto.SplitResult
	err := s.repo.Transaction(ctx, func(ctx context.Context) error {
		series := &entities.Series{
			Title:              req.SeriesTitle,
			Language:           req.Language,
			Genres:             entities.Genres{},
			FreeEpisodes:       policy.FreeEpisodes,
			EpisodeDurationSec: policy.EpisodeDurationSec,
			DefaultCoinCost:    policy.DefaultCoinCost,
			MaxEpisodes:        policy.MaxEpisodes,
		}
		if err := s.repo.CreateSeries(ctx, series); err != nil {
			return err
		}
		anchor := &entities.Episode{
			SeriesID:      series.ID,
			EpisodeNumber: 1,
			Status:        constant.EpisodeStatusProcessing,
			LockType:      constant.LockTypeFree,
			RawKey:        &url,
		}
		if err := s.repo.CreateEpisode(ctx, anchor); err != nil {
			return err
		}
		job = &entities.AiJob{
			EpisodeID: anchor.ID,
			Kind:      constant.JobKindSplitSeries,
			Status:    constant.JobStatusPending,
			Stage:     stageQueuedURL,
		}
		if err := s.repo.CreateJob(ctx, job); err != nil {
			return err
		}
		result = &dto.SplitResult{JobId: job.ID, EpisodeId: anchor.ID, SeriesId: series.ID}
		return nil
	})
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().Str("job_id", job.ID.String()).Str("url", url).Msg("import job queued")
	s.announce(ctx, job, constant.JobEventEnqueued)
	return result, nil
}

// Claim hands the oldest PENDING job to the caller. Stale PROCESSING jobs are
// recycled when nothing is pending and jobs with a broken raw reference are
// failed on the way. Returns nil when there is nothing to do.
func (s *jobService) Claim(ctx context.Context) (*dto.ClaimedJob, error) {
	logger := zerolog.Ctx(ctx)
	cutoff := s.now().Add(-s.cfg.Jobs.StaleAfter)

	for i := 0; i < s.cfg.Jobs.ClaimAttempts; i++ {
		job, err := s.repo.OldestPendingJob(ctx)
		if err != nil {
			return nil, err
		}
		if job == nil {
			requeued, err := s.requeueStale(ctx, cutoff)
			if err != nil || !requeued {
				return nil, err
			}
			if job, err = s.repo.OldestPendingJob(ctx); err != nil || job == nil {
				return nil, err
			}
		}

		episode, err := s.repo.FindEpisodeWithSeries(ctx, job.EpisodeID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if episode == nil || episode.Series == nil || !ValidRawKey(episode.RawSource()) {
			if err := s.rejectBroken(ctx, job, episode); err != nil {
				return nil, err
			}
			continue
		}

		now := s.now()
		won, err := s.repo.ClaimJob(ctx, job.ID, now)
		if err != nil {
			return nil, err
		}
		if !won {
			logger.Debug().Str("job_id", job.ID.String()).Msg("claim lost to another worker")
			continue
		}

		claimed, err := s.repo.FindJobById(ctx, job.ID)
		if err != nil {
			return nil, err
		}
		metrics.JobsClaimed.Inc()
		logger.Info().Str("job_id", claimed.ID.String()).Int("attempt", claimed.Attempts).Msg("job claimed")

		series := episode.Series
		return &dto.ClaimedJob{
			Id:                       claimed.ID,
			EpisodeId:                claimed.EpisodeID,
			Kind:                     claimed.Kind,
			SeriesId:                 series.ID,
			SeriesFreeEpisodes:       series.FreeEpisodes,
			SeriesEpisodeDurationSec: series.EpisodeDurationSec,
			SeriesDefaultCoinCost:    series.DefaultCoinCost,
			SeriesMaxEpisodes:        series.MaxEpisodes,
			RawBucket:                s.cfg.Buckets.Raw,
			RawKey:                   strings.TrimSpace(episode.RawSource()),
			Attempt:                  claimed.Attempts,
		}, nil
	}
	return nil, nil
}

// requeueStale reports whether a stale job was found, even if another caller
// requeued it first.
func (s *jobService) requeueStale(ctx context.Context, cutoff time.Time) (bool, error) {
	stale, err := s.repo.OldestStaleJob(ctx, cutoff)
	if err != nil || stale == nil {
		return false, err
	}
	ok, err := s.repo.RequeueStaleJob(ctx, stale.ID, cutoff)
	if err != nil {
		return false, err
	}
	if ok {
		metrics.JobsRequeued.Inc()
		zerolog.Ctx(ctx).Warn().Str("job_id", stale.ID.String()).Int("attempts", stale.Attempts).Msg("stale job requeued")
	}
	return true, nil
}

func (s *jobService) rejectBroken(ctx context.Context, job *entities.AiJob, episode *entities.Episode) error {
	var rejected bool
	err := s.repo.Transaction(ctx, func(ctx context.Context) error {
		ok, err := s.repo.FinishJob(ctx, job.ID, nil, map[string]any{
			"status":      constant.JobStatusFailed,
			"error":       invalidRawError,
			"stage":       stageInvalidRaw,
			"finished_at": s.now(),
		})
		if err != nil || !ok {
			return err
		}
		rejected = true
		if episode == nil {
			return nil
		}
		return ignoreNotFound(s.repo.UpdateEpisodeStatus(ctx, episode.ID, constant.EpisodeStatusFailed))
	})
	if err != nil {
		return err
	}
	if rejected {
		raw := ""
		if episode != nil {
			raw = episode.RawSource()
		}
		zerolog.Ctx(ctx).Warn().Str("job_id", job.ID.String()).Str("raw_key", raw).Msg("skipping job with invalid raw key")
		metrics.JobsFinished.WithLabelValues(constant.JobStatusFailed.String()).Inc()
		job.Status = constant.JobStatusFailed
		s.announce(ctx, job, constant.JobEventFailed)
	}
	return nil
}

func (s *jobService) ReportProgress(ctx context.Context, jobId uuid.UUID, req dto.ProgressRequest) error {
	if req.ProgressPct == nil || *req.ProgressPct < 0 || *req.ProgressPct > 100 {
		return ErrInvalidPayload.WithHint("progressPct must be between 0 and 100")
	}
	if strings.TrimSpace(req.Stage) == "" {
		return ErrInvalidPayload.WithHint("stage is required")
	}

	ok, err := s.repo.UpdateJobProgress(ctx, jobId, req.Attempt, *req.ProgressPct, req.Stage, req.Message, s.now())
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	if _, err := s.repo.FindJobById(ctx, jobId); err != nil {
		return notFound(err, ErrJobNotFound)
	}
	return ErrStaleAttempt
}

// Complete records the worker's output. A split job with segments publishes
// every segment and succeeds in one transaction; any other job stores the
// single asset on its episode and marks it READY.
func (s *jobService) Complete(ctx context.Context, jobId uuid.UUID, req dto.CompleteRequest) (*dto.CompleteResult, error) {
	job, err := s.repo.FindJobById(ctx, jobId)
	if err != nil {
		return nil, notFound(err, ErrJobNotFound)
	}
	split := req.IsSplit()
	if split && job.Kind != constant.JobKindSplitSeries {
		return nil, ErrInvalidPayload.WithHint("segments are only accepted for split jobs")
	}
	if err := validateCompletion(req); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	result := &dto.CompleteResult{}
	err = s.repo.Transaction(ctx, func(ctx context.Context) error {
		ok, err := s.repo.FinishJob(ctx, jobId, req.Attempt, map[string]any{
			"status":      constant.JobStatusSucceeded,
			"finished_at": s.now(),
			"error":       nil,
			"result":      datatypes.JSON(payload),
		})
		if err != nil {
			return err
		}
		if !ok {
			return s.finishRejected(ctx, jobId, result)
		}

		if split {
			if err := s.publishSegments(ctx, job, req.Segments); err != nil {
				return err
			}
			result.Mode = "split"
			result.Episodes = len(req.Segments)
			return nil
		}
		err = s.repo.UpdateEpisode(ctx, job.EpisodeID, assetColumns(req.Asset, constant.EpisodeStatusReady))
		return notFound(err, ErrEpisodeNotFound)
	})
	if err != nil {
		return nil, err
	}

	if result.AlreadyTerminal {
		zerolog.Ctx(ctx).Info().Str("job_id", jobId.String()).Msg("complete on terminal job ignored")
		return result, nil
	}
	zerolog.Ctx(ctx).Info().Str("job_id", jobId.String()).Int("episodes", result.Episodes).Msg("job succeeded")
	metrics.JobsFinished.WithLabelValues(constant.JobStatusSucceeded.String()).Inc()
	job.Status = constant.JobStatusSucceeded
	s.announce(ctx, job, constant.JobEventSucceeded)
	return result, nil
}

func (s *jobService) publishSegments(ctx context.Context, job *entities.AiJob, segments []dto.Segment) error {
	anchor, err := s.repo.FindEpisodeWithSeries(ctx, job.EpisodeID)
	if err != nil {
		return notFound(err, ErrEpisodeNotFound)
	}
	series := anchor.Series
	for _, seg := range segments {
		lock := PickLock(seg.EpisodeNumber, series.FreeEpisodes, series.DefaultCoinCost)
		episode := &entities.Episode{
			SeriesID:      anchor.SeriesID,
			EpisodeNumber: seg.EpisodeNumber,
			Status:        constant.EpisodeStatusPublished,
			LockType:      lock.LockType,
			CoinCost:      lock.CoinCost,
			RawKey:        anchor.RawKey,
			VideoKey:      stringPtr(seg.VideoKey),
			ThumbnailKey:  stringPtr(seg.ThumbnailKey),
			SubtitlesKey:  seg.SubtitlesKey,
			MetadataKey:   seg.MetadataKey,
			DurationSec:   seg.DurationSec,
		}
		if err := s.repo.UpsertEpisode(ctx, episode); err != nil {
			return err
		}
	}
	return nil
}

func (s *jobService) Fail(ctx context.Context, jobId uuid.UUID, req dto.FailRequest) (*dto.CompleteResult, error) {
	if strings.TrimSpace(req.Error) == "" {
		return nil, ErrInvalidPayload.WithHint("error is required")
	}
	job, err := s.repo.FindJobById(ctx, jobId)
	if err != nil {
		return nil, notFound(err, ErrJobNotFound)
	}

	result := &dto.CompleteResult{}
	err = s.repo.Transaction(ctx, func(ctx context.Context) error {
		ok, err := s.repo.FinishJob(ctx, jobId, req.Attempt, map[string]any{
			"status":      constant.JobStatusFailed,
			"finished_at": s.now(),
			"error":       req.Error,
		})
		if err != nil {
			return err
		}
		if !ok {
			return s.finishRejected(ctx, jobId, result)
		}
		return ignoreNotFound(s.repo.UpdateEpisodeStatus(ctx, job.EpisodeID, constant.EpisodeStatusFailed))
	})
	if err != nil {
		return nil, err
	}

	if result.AlreadyTerminal {
		return result, nil
	}
	zerolog.Ctx(ctx).Warn().Str("job_id", jobId.String()).Str("error", req.Error).Msg("job failed")
	metrics.JobsFinished.WithLabelValues(constant.JobStatusFailed.String()).Inc()
	job.Status = constant.JobStatusFailed
	s.announce(ctx, job, constant.JobEventFailed)
	return result, nil
}

// finishRejected explains why a terminal transition matched no row: the job
// is already terminal, which is fine, or the attempt fence no longer holds.
func (s *jobService) finishRejected(ctx context.Context, jobId uuid.UUID, result *dto.CompleteResult) error {
	current, err := s.repo.FindJobById(ctx, jobId)
	if err != nil {
		return notFound(err, ErrJobNotFound)
	}
	if current.Status.Terminal() {
		result.AlreadyTerminal = true
		return nil
	}
	return ErrStaleAttempt
}

func (s *jobService) JobStatus(ctx context.Context, jobId uuid.UUID) (*dto.JobStatusView, error) {
	job, err := s.repo.FindJobById(ctx, jobId)
	if err != nil {
		return nil, notFound(err, ErrJobNotFound)
	}
	episode, err := s.repo.FindEpisodeWithSeries(ctx, job.EpisodeID)
	if err != nil {
		return nil, notFound(err, ErrEpisodeNotFound)
	}

	view := &dto.JobStatusView{
		Job: jobView(job),
		Episode: dto.JobEpisode{
			Id:            episode.ID,
			EpisodeNumber: episode.EpisodeNumber,
			Status:        episode.Status,
			RawKey:        episode.RawKey,
		},
		Series: seriesPolicy(episode.Series),
	}

	// a queued split job may be shadowed by one already running on the same anchor
	if job.Kind == constant.JobKindSplitSeries && job.Status == constant.JobStatusPending {
		active, err := s.repo.FindProcessingSplitJob(ctx, job.EpisodeID)
		if err != nil {
			return nil, err
		}
		if active != nil {
			view.ActiveSplitJob = &dto.ActiveSplitJob{
				Id:            active.ID,
				Status:        active.Status,
				ProgressPct:   active.ProgressPct,
				Stage:         active.Stage,
				LastHeartbeat: active.LastHeartbeat,
				StartedAt:     active.StartedAt,
			}
		}
	}
	return view, nil
}

func (s *jobService) announce(ctx context.Context, job *entities.AiJob, event constant.JobEventType) {
	err := s.events.Publish(ctx, dto.JobEvent{
		Type:      event,
		JobId:     job.ID,
		EpisodeId: job.EpisodeID,
		Kind:      job.Kind,
		Status:    job.Status,
		At:        s.now(),
	})
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("job_id", job.ID.String()).Str("event", string(event)).Msg("failed to publish job event")
	}
}

func validateCompletion(req dto.CompleteRequest) error {
	if !req.IsSplit() {
		return validateAsset(req.Asset)
	}
	if len(req.Segments) == 0 {
		return ErrInvalidPayload.WithHint("segments must not be empty")
	}
	seen := make(map[int]struct{}, len(req.Segments))
	for _, seg := range req.Segments {
		if seg.EpisodeNumber < 1 {
			return ErrInvalidPayload.WithHint("episodeNumber must be positive")
		}
		if _, dup := seen[seg.EpisodeNumber]; dup {
			return ErrInvalidPayload.WithHint(fmt.Sprintf("episode %d listed twice", seg.EpisodeNumber))
		}
		seen[seg.EpisodeNumber] = struct{}{}
		if err := validateAsset(seg.Asset); err != nil {
			return err
		}
	}
	return nil
}

func validateAsset(a dto.Asset) error {
	if a.VideoKey == "" || a.ThumbnailKey == "" {
		return ErrInvalidPayload.WithHint("videoKey and thumbnailKey are required")
	}
	if a.DurationSec != nil && *a.DurationSec <= 0 {
		return ErrInvalidPayload.WithHint("durationSec must be positive")
	}
	return nil
}

func assetColumns(a dto.Asset, status constant.EpisodeStatus) map[string]any {
	return map[string]any{
		"video_key":     a.VideoKey,
		"thumbnail_key": a.ThumbnailKey,
		"subtitles_key": a.SubtitlesKey,
		"metadata_key":  a.MetadataKey,
		"duration_sec":  a.DurationSec,
		"status":        status,
	}
}

func jobView(job *entities.AiJob) dto.JobView {
	return dto.JobView{
		Id:            job.ID,
		Kind:          job.Kind,
		Status:        job.Status,
		Attempts:      job.Attempts,
		Error:         job.Error,
		ProgressPct:   job.ProgressPct,
		Stage:         job.Stage,
		LastHeartbeat: job.LastHeartbeat,
		StartedAt:     job.StartedAt,
		FinishedAt:    job.FinishedAt,
	}
}

func seriesPolicy(series *entities.Series) dto.SeriesPolicy {
	if series == nil {
		return dto.SeriesPolicy{}
	}
	return dto.SeriesPolicy{
		Id:                 series.ID,
		Title:              series.Title,
		FreeEpisodes:       series.FreeEpisodes,
		EpisodeDurationSec: series.EpisodeDurationSec,
		DefaultCoinCost:    series.DefaultCoinCost,
	}
}

func ignoreNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

func stringPtr(s string) *string {
	return &s
}

func utcNow() time.Time {
	return time.Now().UTC()
}
