package handler

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"shortdrama/constant"
	"shortdrama/dto"
	"shortdrama/entities"
)

type MockJobs struct {
	mock.Mock
}

func (m *MockJobs) CreateEncodeJob(ctx context.Context, episodeId uuid.UUID) (*entities.AiJob, error) {
	args := m.Called(ctx, episodeId)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.AiJob), args.Error(1)
}

func (m *MockJobs) CreateSplitJob(ctx context.Context, seriesId uuid.UUID, policy dto.SplitPolicy) (*dto.SplitResult, error) {
	args := m.Called(ctx, seriesId, policy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SplitResult), args.Error(1)
}

func (m *MockJobs) ImportFromURL(ctx context.Context, req dto.ImportRequest) (*dto.SplitResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SplitResult), args.Error(1)
}

func (m *MockJobs) Claim(ctx context.Context) (*dto.ClaimedJob, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ClaimedJob), args.Error(1)
}

func (m *MockJobs) ReportProgress(ctx context.Context, jobId uuid.UUID, req dto.ProgressRequest) error {
	args := m.Called(ctx, jobId, req)
	return args.Error(0)
}

func (m *MockJobs) Complete(ctx context.Context, jobId uuid.UUID, req dto.CompleteRequest) (*dto.CompleteResult, error) {
	args := m.Called(ctx, jobId, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CompleteResult), args.Error(1)
}

func (m *MockJobs) Fail(ctx context.Context, jobId uuid.UUID, req dto.FailRequest) (*dto.CompleteResult, error) {
	args := m.Called(ctx, jobId, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CompleteResult), args.Error(1)
}

func (m *MockJobs) JobStatus(ctx context.Context, jobId uuid.UUID) (*dto.JobStatusView, error) {
	args := m.Called(ctx, jobId)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.JobStatusView), args.Error(1)
}

type MockViewer struct {
	mock.Mock
}

func (m *MockViewer) Unlock(ctx context.Context, userId, episodeId uuid.UUID, method constant.UnlockMethod) (*dto.UnlockResult, error) {
	args := m.Called(ctx, userId, episodeId, method)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UnlockResult), args.Error(1)
}

func (m *MockViewer) RecordProgress(ctx context.Context, userId, episodeId uuid.UUID, watched bool) error {
	args := m.Called(ctx, userId, episodeId, watched)
	return args.Error(0)
}

func (m *MockViewer) MarkViewed(ctx context.Context, userId, episodeId uuid.UUID) error {
	args := m.Called(ctx, userId, episodeId)
	return args.Error(0)
}

func (m *MockViewer) HomeFeed(ctx context.Context, userId uuid.UUID) ([]dto.FeedItem, error) {
	args := m.Called(ctx, userId)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.FeedItem), args.Error(1)
}

func (m *MockViewer) Me(ctx context.Context, userId uuid.UUID) (*dto.Me, error) {
	args := m.Called(ctx, userId)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Me), args.Error(1)
}

func (m *MockViewer) Transactions(ctx context.Context, userId uuid.UUID, limit int) ([]dto.LedgerEntry, error) {
	args := m.Called(ctx, userId, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.LedgerEntry), args.Error(1)
}

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) CreateSeries(ctx context.Context, req dto.SeriesRequest) (*entities.Series, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Series), args.Error(1)
}

func (m *MockCatalog) GetSeries(ctx context.Context, id uuid.UUID) (*entities.Series, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Series), args.Error(1)
}

func (m *MockCatalog) ListSeries(ctx context.Context) ([]dto.SeriesSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.SeriesSummary), args.Error(1)
}

func (m *MockCatalog) UpdateSeries(ctx context.Context, id uuid.UUID, req dto.SeriesUpdate) (*entities.Series, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Series), args.Error(1)
}

func (m *MockCatalog) DeleteSeries(ctx context.Context, id uuid.UUID) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockCatalog) FeedSeries(ctx context.Context) ([]dto.SeriesCard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.SeriesCard), args.Error(1)
}

func (m *MockCatalog) SeriesEpisodes(ctx context.Context, id uuid.UUID) (*dto.SeriesEpisodes, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SeriesEpisodes), args.Error(1)
}

func (m *MockCatalog) PublishedEpisodes(ctx context.Context, id uuid.UUID) ([]*entities.Episode, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Episode), args.Error(1)
}

func (m *MockCatalog) CreateEpisode(ctx context.Context, req dto.EpisodeRequest) (*entities.Episode, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Episode), args.Error(1)
}

func (m *MockCatalog) ReplaceRaw(ctx context.Context, id uuid.UUID, rawKey string) error {
	args := m.Called(ctx, id, rawKey)
	return args.Error(0)
}

func (m *MockCatalog) SetPublished(ctx context.Context, id uuid.UUID, published bool) error {
	args := m.Called(ctx, id, published)
	return args.Error(0)
}

func (m *MockCatalog) EpisodeStatus(ctx context.Context, id uuid.UUID) (*dto.EpisodeStatusView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.EpisodeStatusView), args.Error(1)
}

func (m *MockCatalog) SeedDemo(ctx context.Context, seriesId uuid.UUID, req dto.SeedDemoRequest) (*dto.SeedDemoResult, error) {
	args := m.Called(ctx, seriesId, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SeedDemoResult), args.Error(1)
}

func (m *MockCatalog) RecentActivity(ctx context.Context) (*dto.RecentActivity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RecentActivity), args.Error(1)
}

func (m *MockCatalog) PresignUpload(ctx context.Context, req dto.UploadRequest) (*dto.UploadTicket, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UploadTicket), args.Error(1)
}

func (m *MockCatalog) UploadFile(ctx context.Context, filename, contentType string, r io.Reader, size int64) (*dto.UploadTicket, error) {
	args := m.Called(ctx, filename, contentType, r, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UploadTicket), args.Error(1)
}

type MockAuth struct {
	mock.Mock
}

func (m *MockAuth) Guest(ctx context.Context) (*dto.GuestSession, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.GuestSession), args.Error(1)
}

func (m *MockAuth) AdminLogin(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

type MockLimiter struct {
	mock.Mock
}

func (m *MockLimiter) Allow(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}
