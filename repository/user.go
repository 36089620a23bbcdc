package repository

import (
	"context"
	"errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"shortdrama/entities"
	"time"
)

func (r *repo) CreateUser(ctx context.Context, user *entities.User) error {
	return r.conn(ctx).Create(user).Error
}

func (r *repo) FindUserById(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	user := &entities.User{}
	err := r.conn(ctx).First(user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *repo) UpdateResumePointer(ctx context.Context, userId, seriesId, episodeId uuid.UUID, at time.Time) error {
	res := r.conn(ctx).Model(&entities.User{}).Where("id = ?", userId).Updates(map[string]any{
		"last_series_id":  seriesId,
		"last_episode_id": episodeId,
		"last_seen_at":    at,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repo) AddCoins(ctx context.Context, userId uuid.UUID, amount int) error {
	res := r.conn(ctx).Model(&entities.User{}).Where("id = ?", userId).
		Update("coins", gorm.Expr("coins + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SpendCoins debits amount only if the balance covers it. It reports false
// when the balance was too low.
func (r *repo) SpendCoins(ctx context.Context, userId uuid.UUID, amount int) (bool, error) {
	res := r.conn(ctx).Model(&entities.User{}).Where("id = ? AND coins >= ?", userId, amount).
		Update("coins", gorm.Expr("coins - ?", amount))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// SpendCoinsClamped debits amount but never below zero.
func (r *repo) SpendCoinsClamped(ctx context.Context, userId uuid.UUID, amount int) error {
	res := r.conn(ctx).Model(&entities.User{}).Where("id = ?", userId).
		Update("coins", gorm.Expr("CASE WHEN coins > ? THEN coins - ? ELSE 0 END", amount, amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repo) AppendTransaction(ctx context.Context, txn *entities.Transaction) error {
	return r.conn(ctx).Create(txn).Error
}

func (r *repo) ListTransactions(ctx context.Context, userId uuid.UUID, limit int) ([]*entities.Transaction, error) {
	var txns []*entities.Transaction
	err := r.conn(ctx).Where("user_id = ?", userId).Order("created_at DESC").Limit(limit).Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}

// optional turns a not-found error into a nil result.
func optional[T any](v *T, err error) (*T, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}
