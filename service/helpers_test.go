package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"shortdrama/config"
	"shortdrama/constant"
	"shortdrama/dto"
	"shortdrama/entities"
	"shortdrama/pkg/storage"
	"shortdrama/repository"
)

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps the in-memory database alive and serializes transactions
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func newTestRepo(t *testing.T) (repository.Repository, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	repo := repository.NewRepoWithGorm(db)
	require.NoError(t, repo.Migrate(context.Background()))
	return repo, db
}

func testConfig() *config.Config {
	return &config.Config{
		Buckets: config.Buckets{Raw: "raw", Processed: "processed", PublicBaseURL: "http://cdn.local"},
		Jobs: config.Jobs{
			StaleAfter:    10 * time.Minute,
			ClaimAttempts: 5,
			MinRawBytes:   10 * 1024 * 1024,
		},
		Economy: config.Economy{AdReward: 5, GuestCoins: 50},
	}
}

type fakeStorage struct {
	sizes   map[string]int64
	statErr error
	puts    []string
}

func (f *fakeStorage) PresignPut(_ context.Context, bucket, key string) (string, error) {
	return "http://upload.local/" + bucket + "/" + key + "?sig=1", nil
}

func (f *fakeStorage) PublicURL(bucket, key string) string {
	return storage.PublicURL("http://cdn.local", bucket, key)
}

func (f *fakeStorage) Put(_ context.Context, _ string, key string, r io.Reader, _ int64, _ string) error {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return err
	}
	f.puts = append(f.puts, key)
	return nil
}

func (f *fakeStorage) Stat(_ context.Context, _ string, key string) (int64, error) {
	if f.statErr != nil {
		return 0, f.statErr
	}
	size, ok := f.sizes[key]
	if !ok {
		return 0, storage.ErrObjectNotFound
	}
	return size, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []dto.JobEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event dto.JobEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []constant.JobEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]constant.JobEventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

var errBoom = errors.New("boom")

func seedUser(t *testing.T, repo repository.Repository, coins int) *entities.User {
	t.Helper()
	user := &entities.User{IsGuest: true, Coins: coins}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

func seedSeries(t *testing.T, repo repository.Repository, free, cost int) *entities.Series {
	t.Helper()
	series := &entities.Series{
		Title:              "Midnight Contract",
		Language:           "en",
		Genres:             entities.Genres{"romance", "drama"},
		FreeEpisodes:       free,
		EpisodeDurationSec: 180,
		DefaultCoinCost:    cost,
		MaxEpisodes:        50,
	}
	require.NoError(t, repo.CreateSeries(context.Background(), series))
	return series
}

type episodeOpt func(*entities.Episode)

func withRaw(key string) episodeOpt {
	return func(e *entities.Episode) { e.RawKey = &key }
}

func withLock(lock constant.LockType, cost int) episodeOpt {
	return func(e *entities.Episode) {
		e.LockType = lock
		e.CoinCost = cost
	}
}

func withStatus(status constant.EpisodeStatus) episodeOpt {
	return func(e *entities.Episode) { e.Status = status }
}

func withVideo(key string) episodeOpt {
	return func(e *entities.Episode) {
		thumb := key + ".jpg"
		e.VideoKey = &key
		e.ThumbnailKey = &thumb
	}
}

func seedEpisode(t *testing.T, repo repository.Repository, seriesId uuid.UUID, number int, opts ...episodeOpt) *entities.Episode {
	t.Helper()
	episode := &entities.Episode{
		SeriesID:      seriesId,
		EpisodeNumber: number,
		Status:        constant.EpisodeStatusDraft,
		LockType:      constant.LockTypeFree,
	}
	for _, opt := range opts {
		opt(episode)
	}
	require.NoError(t, repo.CreateEpisode(context.Background(), episode))
	return episode
}

func seedJob(t *testing.T, repo repository.Repository, job *entities.AiJob) *entities.AiJob {
	t.Helper()
	if job.Kind == "" {
		job.Kind = constant.JobKindEncodeOne
	}
	if job.Status == "" {
		job.Status = constant.JobStatusPending
	}
	require.NoError(t, repo.CreateJob(context.Background(), job))
	return job
}

func reloadJob(t *testing.T, repo repository.Repository, id uuid.UUID) *entities.AiJob {
	t.Helper()
	job, err := repo.FindJobById(context.Background(), id)
	require.NoError(t, err)
	return job
}

func reloadEpisode(t *testing.T, repo repository.Repository, id uuid.UUID) *entities.Episode {
	t.Helper()
	episode, err := repo.FindEpisodeById(context.Background(), id)
	require.NoError(t, err)
	return episode
}

func reloadUser(t *testing.T, repo repository.Repository, id uuid.UUID) *entities.User {
	t.Helper()
	user, err := repo.FindUserById(context.Background(), id)
	require.NoError(t, err)
	return user
}

func ptr[T any](v T) *T {
	return &v
}
