package repository

import (
	"context"
	"github.com/google/uuid"
	"gorm.io/gorm/clause"
	"shortdrama/entities"
)

// UpsertProgress creates the (user, episode) row or, when it exists, only
// overwrites the given columns.
func (r *repo) UpsertProgress(ctx context.Context, userId, episodeId uuid.UUID, set map[string]any) error {
	row := map[string]any{
		"id":         uuid.New(),
		"user_id":    userId,
		"episode_id": episodeId,
	}
	columns := make([]string, 0, len(set)+1)
	for k, v := range set {
		row[k] = v
		columns = append(columns, k)
	}
	columns = append(columns, "updated_at")

	now := r.db.NowFunc()
	row["created_at"] = now
	row["updated_at"] = now

	return r.conn(ctx).Model(&entities.UserEpisodeProgress{}).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "episode_id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(row).Error
}

func (r *repo) FindProgress(ctx context.Context, userId, episodeId uuid.UUID) (*entities.UserEpisodeProgress, error) {
	p := &entities.UserEpisodeProgress{}
	err := r.conn(ctx).Where("user_id = ? AND episode_id = ?", userId, episodeId).First(p).Error
	return optional(p, err)
}

func (r *repo) ListProgressForUser(ctx context.Context, userId uuid.UUID) ([]*entities.UserEpisodeProgress, error) {
	var rows []*entities.UserEpisodeProgress
	if err := r.conn(ctx).Where("user_id = ?", userId).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkCharged flips charged false->true and reports whether this call did it.
func (r *repo) MarkCharged(ctx context.Context, userId, episodeId uuid.UUID) (bool, error) {
	res := r.conn(ctx).Model(&entities.UserEpisodeProgress{}).
		Where("user_id = ? AND episode_id = ? AND charged = ?", userId, episodeId, false).
		Update("charged", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
