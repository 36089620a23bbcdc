package repository

import (
	"context"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"shortdrama/constant"
	"shortdrama/entities"
)

func (r *repo) CreateEpisode(ctx context.Context, episode *entities.Episode) error {
	return r.conn(ctx).Create(episode).Error
}

func (r *repo) FindEpisodeById(ctx context.Context, id uuid.UUID) (*entities.Episode, error) {
	episode := &entities.Episode{}
	err := r.conn(ctx).First(episode, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return episode, nil
}

func (r *repo) FindEpisodeWithSeries(ctx context.Context, id uuid.UUID) (*entities.Episode, error) {
	episode := &entities.Episode{}
	err := r.conn(ctx).Preload("Series").First(episode, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return episode, nil
}

func (r *repo) FindEpisodeByNumber(ctx context.Context, seriesId uuid.UUID, number int) (*entities.Episode, error) {
	episode := &entities.Episode{}
	err := r.conn(ctx).Where("series_id = ? AND episode_number = ?", seriesId, number).First(episode).Error
	return optional(episode, err)
}

func (r *repo) ListEpisodes(ctx context.Context, seriesId uuid.UUID, status *constant.EpisodeStatus) ([]*entities.Episode, error) {
	var episodes []*entities.Episode
	q := r.conn(ctx).Where("series_id = ?", seriesId)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	if err := q.Order("episode_number ASC").Find(&episodes).Error; err != nil {
		return nil, err
	}
	return episodes, nil
}

func (r *repo) ListPublishedWithSeries(ctx context.Context) ([]*entities.Episode, error) {
	var episodes []*entities.Episode
	err := r.conn(ctx).Preload("Series").
		Where("status = ?", constant.EpisodeStatusPublished).
		Order("series_id ASC, episode_number ASC").
		Find(&episodes).Error
	if err != nil {
		return nil, err
	}
	return episodes, nil
}

func (r *repo) ListRecentEpisodes(ctx context.Context, limit int) ([]*entities.Episode, error) {
	var episodes []*entities.Episode
	err := r.conn(ctx).Preload("Series").Order("created_at DESC").Limit(limit).Find(&episodes).Error
	if err != nil {
		return nil, err
	}
	return episodes, nil
}

func (r *repo) UpdateEpisode(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	res := r.conn(ctx).Model(&entities.Episode{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repo) UpdateEpisodeStatus(ctx context.Context, id uuid.UUID, status constant.EpisodeStatus) error {
	return r.UpdateEpisode(ctx, id, map[string]any{"status": status})
}

// SwapEpisodeStatus moves the episode from one status to another and reports
// whether the row was in the expected status.
func (r *repo) SwapEpisodeStatus(ctx context.Context, id uuid.UUID, from, to constant.EpisodeStatus) (bool, error) {
	res := r.conn(ctx).Model(&entities.Episode{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// UpsertEpisode inserts the episode or overwrites the row already holding
// its (series_id, episode_number).
func (r *repo) UpsertEpisode(ctx context.Context, episode *entities.Episode) error {
	return r.conn(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "series_id"}, {Name: "episode_number"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "lock_type", "coin_cost", "raw_key", "video_key", "thumbnail_key",
			"subtitles_key", "metadata_key", "duration_sec", "updated_at",
		}),
	}).Create(episode).Error
}
