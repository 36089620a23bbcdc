package service

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"io"
	"regexp"
	"shortdrama/config"
	"shortdrama/constant"
	"shortdrama/dto"
	"shortdrama/entities"
	"shortdrama/pkg/storage"
	"shortdrama/repository"
	"strings"
	"time"
)

var ErrStorageUnavailable = errors.New("object storage is not configured")

const (
	recentLimit = 10

	defaultSeedEpisodes = 10
	defaultSeedFree     = 4
	defaultSeedCoinCost = 5
)

var unsafeFilename = regexp.MustCompile(`[^\w.\-]+`)

type CatalogService interface {
	CreateSeries(ctx context.Context, req dto.SeriesRequest) (*entities.Series, error)
	GetSeries(ctx context.Context, id uuid.UUID) (*entities.Series, error)
	ListSeries(ctx context.Context) ([]dto.SeriesSummary, error)
	UpdateSeries(ctx context.Context, id uuid.UUID, req dto.SeriesUpdate) (*entities.Series, error)
	DeleteSeries(ctx context.Context, id uuid.UUID) (int, error)
	FeedSeries(ctx context.Context) ([]dto.SeriesCard, error)
	SeriesEpisodes(ctx context.Context, id uuid.UUID) (*dto.SeriesEpisodes, error)
	PublishedEpisodes(ctx context.Context, id uuid.UUID) ([]*entities.Episode, error)

	CreateEpisode(ctx context.Context, req dto.EpisodeRequest) (*entities.Episode, error)
	ReplaceRaw(ctx context.Context, id uuid.UUID, rawKey string) error
	SetPublished(ctx context.Context, id uuid.UUID, published bool) error
	EpisodeStatus(ctx context.Context, id uuid.UUID) (*dto.EpisodeStatusView, error)
	SeedDemo(ctx context.Context, seriesId uuid.UUID, req dto.SeedDemoRequest) (*dto.SeedDemoResult, error)
	RecentActivity(ctx context.Context) (*dto.RecentActivity, error)

	PresignUpload(ctx context.Context, req dto.UploadRequest) (*dto.UploadTicket, error)
	UploadFile(ctx context.Context, filename, contentType string, r io.Reader, size int64) (*dto.UploadTicket, error)
}

type catalogService struct {
	repo    repository.Repository
	storage storage.Gateway
	cfg     *config.Config
	now     func() time.Time
}

func NewCatalogService(repo repository.Repository, gateway storage.Gateway, cfg *config.Config) CatalogService {
	return &catalogService{
		repo:    repo,
		storage: gateway,
		cfg:     cfg,
		now:     utcNow,
	}
}

func (s *catalogService) CreateSeries(ctx context.Context, req dto.SeriesRequest) (*entities.Series, error) {
	series := &entities.Series{
		Title:              strings.TrimSpace(req.Title),
		Language:           strings.TrimSpace(req.Language),
		Genres:             entities.Genres(req.Genres),
		Description:        req.Description,
		FreeEpisodes:       intOr(req.FreeEpisodes, dto.DefaultFreeEpisodes),
		EpisodeDurationSec: intOr(req.EpisodeDurationSec, dto.DefaultEpisodeDurationSec),
		DefaultCoinCost:    intOr(req.DefaultCoinCost, dto.DefaultCoinCost),
		MaxEpisodes:        intOr(req.MaxEpisodes, dto.DefaultMaxEpisodes),
	}
	if series.Title == "" || series.Language == "" {
		return nil, ErrInvalidPayload.WithHint("title and language are required")
	}
	if series.Genres == nil {
		series.Genres = entities.Genres{}
	}
	if err := s.repo.CreateSeries(ctx, series); err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Info().Str("series_id", series.ID.String()).Msg("series created")
	return series, nil
}

func (s *catalogService) GetSeries(ctx context.Context, id uuid.UUID) (*entities.Series, error) {
	series, err := s.repo.FindSeriesById(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrSeriesNotFound)
	}
	return series, nil
}

func (s *catalogService) ListSeries(ctx context.Context) ([]dto.SeriesSummary, error) {
	all, err := s.repo.ListSeries(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SeriesSummary, 0, len(all))
	for _, series := range all {
		total, published, err := s.repo.CountEpisodes(ctx, series.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, dto.SeriesSummary{
			Id:                 series.ID,
			Title:              series.Title,
			Language:           series.Language,
			Genres:             genres(series.Genres),
			Description:        series.Description,
			FreeEpisodes:       series.FreeEpisodes,
			EpisodeDurationSec: series.EpisodeDurationSec,
			DefaultCoinCost:    series.DefaultCoinCost,
			MaxEpisodes:        series.MaxEpisodes,
			TotalEpisodes:      total,
			PublishedEpisodes:  published,
			CreatedAt:          series.CreatedAt,
		})
	}
	return out, nil
}

func (s *catalogService) UpdateSeries(ctx context.Context, id uuid.UUID, req dto.SeriesUpdate) (*entities.Series, error) {
	updates := map[string]any{}
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Language != nil {
		updates["language"] = strings.TrimSpace(*req.Language)
	}
	if req.Genres != nil {
		updates["genres"] = entities.Genres(*req.Genres)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.FreeEpisodes != nil {
		updates["free_episodes"] = *req.FreeEpisodes
	}
	if req.EpisodeDurationSec != nil {
		updates["episode_duration_sec"] = *req.EpisodeDurationSec
	}
	if req.DefaultCoinCost != nil {
		updates["default_coin_cost"] = *req.DefaultCoinCost
	}
	if req.MaxEpisodes != nil {
		updates["max_episodes"] = *req.MaxEpisodes
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateSeries(ctx, id, updates); err != nil {
			return nil, notFound(err, ErrSeriesNotFound)
		}
	}
	return s.GetSeries(ctx, id)
}

func (s *catalogService) DeleteSeries(ctx context.Context, id uuid.UUID) (int, error) {
	deleted, err := s.repo.DeleteSeriesCascade(ctx, id)
	if err != nil {
		return 0, notFound(err, ErrSeriesNotFound)
	}
	zerolog.Ctx(ctx).Info().Str("series_id", id.String()).Int("episodes", deleted).Msg("series deleted")
	return deleted, nil
}

// FeedSeries uses the thumbnail of episode 1 as the cover.
func (s *catalogService) FeedSeries(ctx context.Context) ([]dto.SeriesCard, error) {
	all, err := s.repo.ListSeries(ctx)
	if err != nil {
		return nil, err
	}
	cards := make([]dto.SeriesCard, 0, len(all))
	for _, series := range all {
		_, published, err := s.repo.CountEpisodes(ctx, series.ID)
		if err != nil {
			return nil, err
		}
		first, err := s.repo.FindEpisodeByNumber(ctx, series.ID, 1)
		if err != nil {
			return nil, err
		}
		card := dto.SeriesCard{
			Id:           series.ID,
			Title:        series.Title,
			Language:     series.Language,
			Genres:       genres(series.Genres),
			EpisodeCount: published,
		}
		if first != nil {
			card.CoverUrl = objectURL(s.storage, s.cfg.Buckets.Processed, first.ThumbnailKey)
		}
		cards = append(cards, card)
	}
	return cards, nil
}

func (s *catalogService) SeriesEpisodes(ctx context.Context, id uuid.UUID) (*dto.SeriesEpisodes, error) {
	series, err := s.GetSeries(ctx, id)
	if err != nil {
		return nil, err
	}
	episodes, err := s.repo.ListEpisodes(ctx, id, nil)
	if err != nil {
		return nil, err
	}
	rows := make([]dto.EpisodeRow, 0, len(episodes))
	for _, ep := range episodes {
		rows = append(rows, dto.EpisodeRow{
			Id:            ep.ID,
			EpisodeNumber: ep.EpisodeNumber,
			Status:        ep.Status,
			LockType:      ep.LockType,
			CoinCost:      ep.CoinCost,
			DurationSec:   ep.DurationSec,
			VideoKey:      ep.VideoKey,
			ThumbnailKey:  ep.ThumbnailKey,
		})
	}
	return &dto.SeriesEpisodes{Series: seriesPolicy(series), Episodes: rows}, nil
}

func (s *catalogService) PublishedEpisodes(ctx context.Context, id uuid.UUID) ([]*entities.Episode, error) {
	if _, err := s.GetSeries(ctx, id); err != nil {
		return nil, err
	}
	published := constant.EpisodeStatusPublished
	return s.repo.ListEpisodes(ctx, id, &published)
}

func (s *catalogService) CreateEpisode(ctx context.Context, req dto.EpisodeRequest) (*entities.Episode, error) {
	rawKey := strings.TrimSpace(req.RawKey)
	if !ValidRawKey(rawKey) {
		return nil, ErrInvalidRawKey
	}
	if req.EpisodeNumber < 1 || req.CoinCost < 0 {
		return nil, ErrInvalidPayload.WithHint("episodeNumber must be positive and coinCost non-negative")
	}
	lockType := req.LockType
	if lockType == "" {
		lockType = constant.LockTypeFree
	}
	if !lockType.Valid() {
		return nil, ErrInvalidPayload.WithHint("lockType must be FREE, AD or COINS")
	}

	episode := &entities.Episode{
		SeriesID:      req.SeriesId,
		EpisodeNumber: req.EpisodeNumber,
		Status:        constant.EpisodeStatusDraft,
		LockType:      lockType,
		CoinCost:      req.CoinCost,
		RawKey:        &rawKey,
	}
	err := s.repo.Transaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.FindSeriesById(ctx, req.SeriesId); err != nil {
			return notFound(err, ErrSeriesNotFound)
		}
		existing, err := s.repo.FindEpisodeByNumber(ctx, req.SeriesId, req.EpisodeNumber)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrEpisodeNumberTaken
		}
		err = s.repo.CreateEpisode(ctx, episode)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEpisodeNumberTaken
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return episode, nil
}

// ReplaceRaw points the episode at a new upload and sends it back to DRAFT.
func (s *catalogService) ReplaceRaw(ctx context.Context, id uuid.UUID, rawKey string) error {
	rawKey = strings.TrimSpace(rawKey)
	if !ValidRawKey(rawKey) {
		return ErrInvalidRawKey
	}
	err := s.repo.UpdateEpisode(ctx, id, map[string]any{
		"raw_key": rawKey,
		"status":  constant.EpisodeStatusDraft,
	})
	return notFound(err, ErrEpisodeNotFound)
}

// SetPublished publishes a READY episode or moves a published one back to
// READY. Publishing anything else fails with the latest job's state attached.
// Unpublishing an episode that is not PUBLISHED leaves it untouched.
func (s *catalogService) SetPublished(ctx context.Context, id uuid.UUID, published bool) error {
	episode, err := s.repo.FindEpisodeById(ctx, id)
	if err != nil {
		return notFound(err, ErrEpisodeNotFound)
	}

	if !published {
		_, err := s.repo.SwapEpisodeStatus(ctx, id, constant.EpisodeStatusPublished, constant.EpisodeStatusReady)
		return err
	}

	if episode.Status != constant.EpisodeStatusReady && episode.Status != constant.EpisodeStatusPublished {
		job, err := s.repo.FindLatestJobForEpisode(ctx, id)
		if err != nil {
			return err
		}
		details := map[string]any{
			"episodeStatus": episode.Status,
			"jobStatus":     nil,
			"jobError":      nil,
		}
		if job != nil {
			details["jobStatus"] = job.Status
			details["jobError"] = job.Error
		}
		return ErrEpisodeNotReady.WithDetails(details)
	}
	return s.repo.UpdateEpisodeStatus(ctx, id, constant.EpisodeStatusPublished)
}

func (s *catalogService) EpisodeStatus(ctx context.Context, id uuid.UUID) (*dto.EpisodeStatusView, error) {
	episode, err := s.repo.FindEpisodeWithSeries(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrEpisodeNotFound)
	}
	job, err := s.repo.FindLatestJobForEpisode(ctx, id)
	if err != nil {
		return nil, err
	}

	view := &dto.EpisodeStatusView{
		Episode: dto.EpisodeDetail{
			Id:            episode.ID,
			Status:        episode.Status,
			EpisodeNumber: episode.EpisodeNumber,
			LockType:      episode.LockType,
			CoinCost:      episode.CoinCost,
			RawKey:        episode.RawKey,
			VideoKey:      episode.VideoKey,
			ThumbnailKey:  episode.ThumbnailKey,
			SubtitlesKey:  episode.SubtitlesKey,
			DurationSec:   episode.DurationSec,
		},
	}
	if episode.Series != nil {
		view.Series = dto.SeriesRef{Id: episode.Series.ID, Title: episode.Series.Title}
	}
	if job != nil {
		v := jobView(job)
		view.Job = &v
	}
	return view, nil
}

// SeedDemo fills episodes 1..N of a series with copies of its first
// processed episode, locked with PickLock.
func (s *catalogService) SeedDemo(ctx context.Context, seriesId uuid.UUID, req dto.SeedDemoRequest) (*dto.SeedDemoResult, error) {
	result := &dto.SeedDemoResult{
		SeriesId:      seriesId,
		TotalEpisodes: intOr(req.TotalEpisodes, defaultSeedEpisodes),
		FreeEpisodes:  intOr(req.FreeEpisodes, defaultSeedFree),
	}
	coinCost := intOr(req.CoinCost, defaultSeedCoinCost)

	err := s.repo.Transaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.LockSeries(ctx, seriesId); err != nil {
			return notFound(err, ErrSeriesNotFound)
		}
		published := constant.EpisodeStatusPublished
		episodes, err := s.repo.ListEpisodes(ctx, seriesId, &published)
		if err != nil {
			return err
		}
		var template *entities.Episode
		for _, ep := range episodes {
			if ep.VideoKey != nil {
				template = ep
				break
			}
		}
		if template == nil {
			return ErrMissingTemplate
		}

		for n := 1; n <= result.TotalEpisodes; n++ {
			existing, err := s.repo.FindEpisodeByNumber(ctx, seriesId, n)
			if err != nil {
				return err
			}
			lock := PickLock(n, result.FreeEpisodes, coinCost)
			err = s.repo.UpsertEpisode(ctx, &entities.Episode{
				SeriesID:      seriesId,
				EpisodeNumber: n,
				Status:        constant.EpisodeStatusPublished,
				LockType:      lock.LockType,
				CoinCost:      lock.CoinCost,
				RawKey:        template.RawKey,
				VideoKey:      template.VideoKey,
				ThumbnailKey:  template.ThumbnailKey,
				SubtitlesKey:  template.SubtitlesKey,
				MetadataKey:   template.MetadataKey,
				DurationSec:   template.DurationSec,
			})
			if err != nil {
				return err
			}
			if existing != nil {
				result.Updated++
			} else {
				result.Created++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *catalogService) RecentActivity(ctx context.Context) (*dto.RecentActivity, error) {
	jobs, err := s.repo.ListRecentJobs(ctx, recentLimit)
	if err != nil {
		return nil, err
	}
	episodes, err := s.repo.ListRecentEpisodes(ctx, recentLimit)
	if err != nil {
		return nil, err
	}

	out := &dto.RecentActivity{
		Jobs:     make([]dto.JobView, 0, len(jobs)),
		Episodes: make([]dto.RecentEpisode, 0, len(episodes)),
	}
	for _, j := range jobs {
		out.Jobs = append(out.Jobs, jobView(j))
	}
	for _, ep := range episodes {
		row := dto.RecentEpisode{
			Id:            ep.ID,
			Status:        ep.Status,
			EpisodeNumber: ep.EpisodeNumber,
			LockType:      ep.LockType,
			RawKey:        ep.RawKey,
			VideoKey:      ep.VideoKey,
			CreatedAt:     ep.CreatedAt,
		}
		if ep.Series != nil {
			row.SeriesTitle = ep.Series.Title
		}
		out.Episodes = append(out.Episodes, row)
	}
	return out, nil
}

func (s *catalogService) PresignUpload(ctx context.Context, req dto.UploadRequest) (*dto.UploadTicket, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}
	key := s.rawUploadKey(req.Filename)
	uploadURL, err := s.storage.PresignPut(ctx, s.cfg.Buckets.Raw, key)
	if err != nil {
		return nil, err
	}
	return &dto.UploadTicket{Bucket: s.cfg.Buckets.Raw, Key: key, UploadUrl: uploadURL}, nil
}

func (s *catalogService) UploadFile(ctx context.Context, filename, contentType string, r io.Reader, size int64) (*dto.UploadTicket, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}
	if filename == "" {
		filename = "upload.mp4"
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := s.rawUploadKey(filename)
	if err := s.storage.Put(ctx, s.cfg.Buckets.Raw, key, r, size, contentType); err != nil {
		return nil, fmt.Errorf("upload %s: %w", key, err)
	}
	zerolog.Ctx(ctx).Info().Str("key", key).Int64("size", size).Msg("raw upload stored")
	return &dto.UploadTicket{Bucket: s.cfg.Buckets.Raw, Key: key, SizeBytes: &size}, nil
}

// rawUploadKey builds raw/<unix millis>_<sanitized filename>.
func (s *catalogService) rawUploadKey(filename string) string {
	safe := unsafeFilename.ReplaceAllString(filename, "_")
	return fmt.Sprintf("%s%d_%s", constant.RawKeyPrefix, s.now().UnixMilli(), safe)
}

func intOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}
