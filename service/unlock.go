package service

import (
	"context"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"shortdrama/config"
	"shortdrama/constant"
	"shortdrama/dto"
	"shortdrama/entities"
	"shortdrama/pkg/metrics"
	"shortdrama/pkg/storage"
	"shortdrama/repository"
	"time"
)

type ViewerService interface {
	Unlock(ctx context.Context, userId, episodeId uuid.UUID, method constant.UnlockMethod) (*dto.UnlockResult, error)
	RecordProgress(ctx context.Context, userId, episodeId uuid.UUID, watched bool) error
	MarkViewed(ctx context.Context, userId, episodeId uuid.UUID) error
	HomeFeed(ctx context.Context, userId uuid.UUID) ([]dto.FeedItem, error)
	Me(ctx context.Context, userId uuid.UUID) (*dto.Me, error)
	Transactions(ctx context.Context, userId uuid.UUID, limit int) ([]dto.LedgerEntry, error)
}

type viewerService struct {
	repo    repository.Repository
	ledger  *Ledger
	storage storage.Gateway
	cfg     *config.Config
	now     func() time.Time
}

func NewViewerService(repo repository.Repository, gateway storage.Gateway, cfg *config.Config) ViewerService {
	return &viewerService{
		repo:    repo,
		ledger:  NewLedger(repo),
		storage: gateway,
		cfg:     cfg,
		now:     utcNow,
	}
}

// effectiveCost is the episode's own price, or the series default when the
// episode does not set one.
func effectiveCost(episode *entities.Episode) int {
	if episode.CoinCost > 0 || episode.Series == nil {
		return episode.CoinCost
	}
	return episode.Series.DefaultCoinCost
}

func (s *viewerService) Unlock(ctx context.Context, userId, episodeId uuid.UUID, method constant.UnlockMethod) (*dto.UnlockResult, error) {
	if method != constant.UnlockMethodAd && method != constant.UnlockMethodCoins {
		return nil, ErrInvalidMethod
	}

	episode, err := s.repo.FindEpisodeWithSeries(ctx, episodeId)
	if err != nil {
		return nil, notFound(err, ErrEpisodeNotFound)
	}
	if episode.Status != constant.EpisodeStatusPublished {
		return nil, ErrEpisodeNotFound
	}
	if episode.LockType == constant.LockTypeFree {
		return &dto.UnlockResult{Unlocked: true}, nil
	}

	if method == constant.UnlockMethodAd {
		return s.unlockWithAd(ctx, userId, episodeId)
	}
	return s.unlockWithCoins(ctx, userId, episodeId, effectiveCost(episode))
}

// unlockWithAd always pays the reward, even for an episode that is already
// unlocked.
func (s *viewerService) unlockWithAd(ctx context.Context, userId, episodeId uuid.UUID) (*dto.UnlockResult, error) {
	reward := s.cfg.Economy.AdReward
	var coins int
	err := s.repo.Transaction(ctx, func(ctx context.Context) error {
		if err := s.ledger.Grant(ctx, userId, episodeId, reward); err != nil {
			return err
		}
		err := s.repo.UpsertProgress(ctx, userId, episodeId, map[string]any{
			"unlocked":    true,
			"ad_unlocked": true,
		})
		if err != nil {
			return err
		}
		coins, err = s.ledger.Balance(ctx, userId)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.CoinsMoved.WithLabelValues(constant.TransactionTypeCoinGrant.String()).Add(float64(reward))
	zerolog.Ctx(ctx).Info().Str("user_id", userId.String()).Str("episode_id", episodeId.String()).Int("granted", reward).Msg("ad unlock")
	return &dto.UnlockResult{Unlocked: true, Coins: &coins, Granted: &reward}, nil
}

func (s *viewerService) unlockWithCoins(ctx context.Context, userId, episodeId uuid.UUID, cost int) (*dto.UnlockResult, error) {
	var coins int
	err := s.repo.Transaction(ctx, func(ctx context.Context) error {
		if cost > 0 {
			if err := s.ledger.Spend(ctx, userId, episodeId, cost); err != nil {
				return err
			}
		}
		err := s.repo.UpsertProgress(ctx, userId, episodeId, map[string]any{"unlocked": true})
		if err != nil {
			return err
		}
		coins, err = s.ledger.Balance(ctx, userId)
		return err
	})
	if err != nil {
		return nil, err
	}

	if cost > 0 {
		metrics.CoinsMoved.WithLabelValues(constant.TransactionTypeCoinSpend.String()).Add(float64(cost))
	}
	zerolog.Ctx(ctx).Info().Str("user_id", userId.String()).Str("episode_id", episodeId.String()).Int("spent", cost).Msg("coin unlock")
	return &dto.UnlockResult{Unlocked: true, Coins: &coins, Spent: &cost}, nil
}

// RecordProgress moves the resume pointer and, on completion of a locked
// episode, charges its cost at most once per user and episode. The charge is
// clamped at a zero balance but the ledger records the full cost.
func (s *viewerService) RecordProgress(ctx context.Context, userId, episodeId uuid.UUID, watched bool) error {
	episode, err := s.repo.FindEpisodeWithSeries(ctx, episodeId)
	if err != nil {
		return notFound(err, ErrEpisodeNotFound)
	}

	now := s.now()
	if err := s.repo.UpdateResumePointer(ctx, userId, episode.SeriesID, episodeId, now); err != nil {
		return notFound(err, ErrUserNotFound)
	}

	if !watched {
		return s.repo.UpsertProgress(ctx, userId, episodeId, map[string]any{
			"watched":    false,
			"watched_at": nil,
		})
	}

	var charged int
	err = s.repo.Transaction(ctx, func(ctx context.Context) error {
		err := s.repo.UpsertProgress(ctx, userId, episodeId, map[string]any{
			"watched":    true,
			"watched_at": now,
		})
		if err != nil {
			return err
		}
		if episode.LockType == constant.LockTypeFree {
			return nil
		}

		won, err := s.repo.MarkCharged(ctx, userId, episodeId)
		if err != nil || !won {
			return err
		}
		cost := effectiveCost(episode)
		if cost <= 0 {
			return nil
		}
		if err := s.ledger.SpendClamped(ctx, userId, episodeId, cost); err != nil {
			return err
		}
		charged = cost
		return nil
	})
	if err != nil {
		return err
	}

	if charged > 0 {
		metrics.CoinsMoved.WithLabelValues(constant.TransactionTypeCoinSpend.String()).Add(float64(charged))
		zerolog.Ctx(ctx).Info().Str("user_id", userId.String()).Str("episode_id", episodeId.String()).Int("charged", charged).Msg("completion charged")
	}
	return nil
}

func (s *viewerService) MarkViewed(ctx context.Context, userId, episodeId uuid.UUID) error {
	episode, err := s.repo.FindEpisodeById(ctx, episodeId)
	if err != nil {
		return notFound(err, ErrEpisodeNotFound)
	}
	err = s.repo.UpdateResumePointer(ctx, userId, episode.SeriesID, episodeId, s.now())
	return notFound(err, ErrUserNotFound)
}
