package repository

import (
	"context"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"shortdrama/constant"
	"shortdrama/entities"
)

func (r *repo) CreateSeries(ctx context.Context, series *entities.Series) error {
	return r.conn(ctx).Create(series).Error
}

func (r *repo) FindSeriesById(ctx context.Context, id uuid.UUID) (*entities.Series, error) {
	series := &entities.Series{}
	err := r.conn(ctx).First(series, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return series, nil
}

// LockSeries reads the series row with FOR UPDATE so concurrent policy
// changes on the same series serialize.
func (r *repo) LockSeries(ctx context.Context, id uuid.UUID) (*entities.Series, error) {
	series := &entities.Series{}
	err := r.conn(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(series, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return series, nil
}

func (r *repo) ListSeries(ctx context.Context) ([]*entities.Series, error) {
	var series []*entities.Series
	err := r.conn(ctx).Order("created_at DESC").Find(&series).Error
	if err != nil {
		return nil, err
	}
	return series, nil
}

func (r *repo) UpdateSeries(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	res := r.conn(ctx).Model(&entities.Series{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repo) CountEpisodes(ctx context.Context, seriesId uuid.UUID) (int64, int64, error) {
	var total, published int64
	if err := r.conn(ctx).Model(&entities.Episode{}).Where("series_id = ?", seriesId).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	err := r.conn(ctx).Model(&entities.Episode{}).
		Where("series_id = ? AND status = ?", seriesId, constant.EpisodeStatusPublished).
		Count(&published).Error
	if err != nil {
		return 0, 0, err
	}
	return total, published, nil
}

// DeleteSeriesCascade removes jobs, progress, transactions and episodes of
// the series before the series itself. It returns the number of episodes removed.
func (r *repo) DeleteSeriesCascade(ctx context.Context, id uuid.UUID) (int, error) {
	var deleted int
	err := r.Transaction(ctx, func(ctx context.Context) error {
		if _, err := r.FindSeriesById(ctx, id); err != nil {
			return err
		}

		var episodeIds []uuid.UUID
		if err := r.conn(ctx).Model(&entities.Episode{}).Where("series_id = ?", id).Pluck("id", &episodeIds).Error; err != nil {
			return err
		}
		deleted = len(episodeIds)

		if len(episodeIds) > 0 {
			for _, model := range []any{&entities.AiJob{}, &entities.UserEpisodeProgress{}, &entities.Transaction{}} {
				if err := r.conn(ctx).Where("episode_id IN ?", episodeIds).Delete(model).Error; err != nil {
					return err
				}
			}
		}
		if err := r.conn(ctx).Where("series_id = ?", id).Delete(&entities.Episode{}).Error; err != nil {
			return err
		}
		return r.conn(ctx).Where("id = ?", id).Delete(&entities.Series{}).Error
	})
	return deleted, err
}
