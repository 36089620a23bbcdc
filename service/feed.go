package service

import (
	"context"
	"github.com/google/uuid"
	"shortdrama/constant"
	"shortdrama/dto"
	"shortdrama/entities"
	"shortdrama/pkg/storage"
)

// HomeFeed lists every published episode with the caller's access state.
// Video and subtitle URLs are only exposed once the episode is unlocked.
func (s *viewerService) HomeFeed(ctx context.Context, userId uuid.UUID) ([]dto.FeedItem, error) {
	user, err := s.repo.FindUserById(ctx, userId)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	episodes, err := s.repo.ListPublishedWithSeries(ctx)
	if err != nil {
		return nil, err
	}
	progress, err := s.repo.ListProgressForUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	byEpisode := make(map[uuid.UUID]*entities.UserEpisodeProgress, len(progress))
	for _, p := range progress {
		byEpisode[p.EpisodeID] = p
	}

	items := make([]dto.FeedItem, 0, len(episodes))
	for _, ep := range episodes {
		p := byEpisode[ep.ID]
		unlocked := ep.LockType == constant.LockTypeFree || (p != nil && p.Unlocked)
		watched := p != nil && p.Watched

		episode := dto.FeedEpisode{
			Id:            ep.ID,
			EpisodeNumber: ep.EpisodeNumber,
			Status:        ep.Status,
			LockType:      ep.LockType,
			CoinCost:      ep.CoinCost,
			ThumbnailUrl:  s.processedURL(ep.ThumbnailKey),
		}
		if unlocked {
			episode.VideoUrl = s.processedURL(ep.VideoKey)
			episode.SubtitlesUrl = s.processedURL(ep.SubtitlesKey)
		}

		var series dto.FeedSeries
		if ep.Series != nil {
			series = dto.FeedSeries{
				Id:              ep.Series.ID,
				Title:           ep.Series.Title,
				Language:        ep.Series.Language,
				Genres:          genres(ep.Series.Genres),
				DefaultCoinCost: ep.Series.DefaultCoinCost,
			}
		}

		items = append(items, dto.FeedItem{
			Series:  series,
			Episode: episode,
			Viewer: dto.FeedViewer{
				Coins:         user.Coins,
				Unlocked:      unlocked,
				Watched:       watched,
				LastSeriesId:  user.LastSeriesID,
				LastEpisodeId: user.LastEpisodeID,
			},
		})
	}
	return items, nil
}

func (s *viewerService) Me(ctx context.Context, userId uuid.UUID) (*dto.Me, error) {
	user, err := s.repo.FindUserById(ctx, userId)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return &dto.Me{
		Id:            user.ID,
		IsGuest:       user.IsGuest,
		Coins:         user.Coins,
		LastSeriesId:  user.LastSeriesID,
		LastEpisodeId: user.LastEpisodeID,
		LastSeenAt:    user.LastSeenAt,
	}, nil
}

func (s *viewerService) Transactions(ctx context.Context, userId uuid.UUID, limit int) ([]dto.LedgerEntry, error) {
	txns, err := s.ledger.History(ctx, userId, limit)
	if err != nil {
		return nil, err
	}
	entries := make([]dto.LedgerEntry, 0, len(txns))
	for _, t := range txns {
		entries = append(entries, dto.LedgerEntry{
			Id:        t.ID,
			EpisodeId: t.EpisodeID,
			Type:      t.Type,
			Amount:    t.Amount,
			CreatedAt: t.CreatedAt,
		})
	}
	return entries, nil
}

func (s *viewerService) processedURL(key *string) *string {
	return objectURL(s.storage, s.cfg.Buckets.Processed, key)
}

// objectURL resolves a processed asset key, nil when the key is unset or
// no storage is configured.
func objectURL(gateway storage.Gateway, bucket string, key *string) *string {
	if key == nil || *key == "" || gateway == nil {
		return nil
	}
	u := gateway.PublicURL(bucket, *key)
	return &u
}

func genres(g entities.Genres) []string {
	if g == nil {
		return []string{}
	}
	return g
}
