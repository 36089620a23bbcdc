package service

import (
	"context"
	"github.com/google/uuid"
	"shortdrama/constant"
	"shortdrama/entities"
	"shortdrama/repository"
)

// Ledger moves coins. Each call updates the balance and appends the matching
// transaction row atomically; inside an outer transaction it joins it.
type Ledger struct {
	repo repository.Repository
}

func NewLedger(repo repository.Repository) *Ledger {
	return &Ledger{repo: repo}
}

func (l *Ledger) Grant(ctx context.Context, userId, episodeId uuid.UUID, amount int) error {
	if amount <= 0 {
		return ErrInvalidPayload.WithHint("grant amount must be positive")
	}
	return l.repo.Transaction(ctx, func(ctx context.Context) error {
		if err := l.repo.AddCoins(ctx, userId, amount); err != nil {
			return notFound(err, ErrUserNotFound)
		}
		return l.append(ctx, userId, episodeId, constant.TransactionTypeCoinGrant, amount)
	})
}

// Spend fails with ErrInsufficientCoins and changes nothing when the balance
// does not cover amount.
func (l *Ledger) Spend(ctx context.Context, userId, episodeId uuid.UUID, amount int) error {
	if amount <= 0 {
		return ErrInvalidPayload.WithHint("spend amount must be positive")
	}
	return l.repo.Transaction(ctx, func(ctx context.Context) error {
		ok, err := l.repo.SpendCoins(ctx, userId, amount)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInsufficientCoins
		}
		return l.append(ctx, userId, episodeId, constant.TransactionTypeCoinSpend, amount)
	})
}

// SpendClamped debits down to zero at most but records the full amount.
func (l *Ledger) SpendClamped(ctx context.Context, userId, episodeId uuid.UUID, amount int) error {
	if amount <= 0 {
		return ErrInvalidPayload.WithHint("spend amount must be positive")
	}
	return l.repo.Transaction(ctx, func(ctx context.Context) error {
		if err := l.repo.SpendCoinsClamped(ctx, userId, amount); err != nil {
			return notFound(err, ErrUserNotFound)
		}
		return l.append(ctx, userId, episodeId, constant.TransactionTypeCoinSpend, amount)
	})
}

func (l *Ledger) Balance(ctx context.Context, userId uuid.UUID) (int, error) {
	user, err := l.repo.FindUserById(ctx, userId)
	if err != nil {
		return 0, notFound(err, ErrUserNotFound)
	}
	return user.Coins, nil
}

func (l *Ledger) History(ctx context.Context, userId uuid.UUID, limit int) ([]*entities.Transaction, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return l.repo.ListTransactions(ctx, userId, limit)
}

func (l *Ledger) append(ctx context.Context, userId, episodeId uuid.UUID, t constant.TransactionType, amount int) error {
	return l.repo.AppendTransaction(ctx, &entities.Transaction{
		UserID:    userId,
		EpisodeID: episodeId,
		Type:      t,
		Amount:    amount,
	})
}
