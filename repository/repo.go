package repository

import (
	"context"
	"database/sql"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"shortdrama/constant"
	"shortdrama/entities"
	"time"
)

type Repository interface {
	Transaction(ctx context.Context, callback func(ctx context.Context) error, opts ...*sql.TxOptions) error
	GetDB() *gorm.DB
	Migrate(ctx context.Context) error

	// users
	CreateUser(ctx context.Context, user *entities.User) error
	FindUserById(ctx context.Context, id uuid.UUID) (*entities.User, error)
	UpdateResumePointer(ctx context.Context, userId, seriesId, episodeId uuid.UUID, at time.Time) error

	// ledger
	AddCoins(ctx context.Context, userId uuid.UUID, amount int) error
	SpendCoins(ctx context.Context, userId uuid.UUID, amount int) (bool, error)
	SpendCoinsClamped(ctx context.Context, userId uuid.UUID, amount int) error
	AppendTransaction(ctx context.Context, txn *entities.Transaction) error
	ListTransactions(ctx context.Context, userId uuid.UUID, limit int) ([]*entities.Transaction, error)

	// series
	CreateSeries(ctx context.Context, series *entities.Series) error
	FindSeriesById(ctx context.Context, id uuid.UUID) (*entities.Series, error)
	LockSeries(ctx context.Context, id uuid.UUID) (*entities.Series, error)
	ListSeries(ctx context.Context) ([]*entities.Series, error)
	UpdateSeries(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteSeriesCascade(ctx context.Context, id uuid.UUID) (int, error)
	CountEpisodes(ctx context.Context, seriesId uuid.UUID) (total int64, published int64, err error)

	// episodes
	CreateEpisode(ctx context.Context, episode *entities.Episode) error
	FindEpisodeById(ctx context.Context, id uuid.UUID) (*entities.Episode, error)
	FindEpisodeWithSeries(ctx context.Context, id uuid.UUID) (*entities.Episode, error)
	FindEpisodeByNumber(ctx context.Context, seriesId uuid.UUID, number int) (*entities.Episode, error)
	ListEpisodes(ctx context.Context, seriesId uuid.UUID, status *constant.EpisodeStatus) ([]*entities.Episode, error)
	ListPublishedWithSeries(ctx context.Context) ([]*entities.Episode, error)
	ListRecentEpisodes(ctx context.Context, limit int) ([]*entities.Episode, error)
	UpdateEpisode(ctx context.Context, id uuid.UUID, updates map[string]any) error
	UpdateEpisodeStatus(ctx context.Context, id uuid.UUID, status constant.EpisodeStatus) error
	SwapEpisodeStatus(ctx context.Context, id uuid.UUID, from, to constant.EpisodeStatus) (bool, error)
	UpsertEpisode(ctx context.Context, episode *entities.Episode) error

	// jobs
	CreateJob(ctx context.Context, job *entities.AiJob) error
	FindJobById(ctx context.Context, id uuid.UUID) (*entities.AiJob, error)
	FindActiveSplitJob(ctx context.Context, episodeId uuid.UUID) (*entities.AiJob, error)
	FindProcessingSplitJob(ctx context.Context, episodeId uuid.UUID) (*entities.AiJob, error)
	FindLatestJobForEpisode(ctx context.Context, episodeId uuid.UUID) (*entities.AiJob, error)
	ListRecentJobs(ctx context.Context, limit int) ([]*entities.AiJob, error)
	OldestPendingJob(ctx context.Context) (*entities.AiJob, error)
	OldestStaleJob(ctx context.Context, cutoff time.Time) (*entities.AiJob, error)
	RequeueStaleJob(ctx context.Context, id uuid.UUID, cutoff time.Time) (bool, error)
	ClaimJob(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
	UpdateJobProgress(ctx context.Context, id uuid.UUID, fence *int, pct int, stage string, message *string, now time.Time) (bool, error)
	FinishJob(ctx context.Context, id uuid.UUID, fence *int, updates map[string]any) (bool, error)

	// progress
	UpsertProgress(ctx context.Context, userId, episodeId uuid.UUID, set map[string]any) error
	FindProgress(ctx context.Context, userId, episodeId uuid.UUID) (*entities.UserEpisodeProgress, error)
	ListProgressForUser(ctx context.Context, userId uuid.UUID) ([]*entities.UserEpisodeProgress, error)
	MarkCharged(ctx context.Context, userId, episodeId uuid.UUID) (bool, error)
}

type repo struct {
	db *gorm.DB
}

type txKey struct{}

func NewRepo(db *sql.DB) (Repository, error) {
	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db}),
		&gorm.Config{
			Logger:         logger.Default.LogMode(logger.Warn),
			NowFunc:        func() time.Time { return time.Now().UTC() },
			TranslateError: true,
		},
	)
	if err != nil {
		return nil, err
	}
	return &repo{
		db: gormDB,
	}, nil
}

// NewRepoWithGorm wraps an already opened gorm handle.
func NewRepoWithGorm(db *gorm.DB) Repository {
	return &repo{db: db}
}

func (r *repo) GetDB() *gorm.DB {
	return r.db
}

// conn returns the transaction bound to ctx, or the pool.
func (r *repo) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

func (r *repo) Transaction(ctx context.Context, callback func(ctx context.Context) error, opts ...*sql.TxOptions) error {
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return callback(context.WithValue(ctx, txKey{}, tx))
	}, opts...)
}

func (r *repo) Migrate(ctx context.Context) error {
	return r.conn(ctx).AutoMigrate(entities.All()...)
}
