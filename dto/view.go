package dto

import (
	"github.com/google/uuid"
	"shortdrama/constant"
	"time"
)

type SeriesRequest struct {
	Title              string   `json:"title" binding:"required,min=1"`
	Language           string   `json:"language" binding:"required,min=1"`
	Genres             []string `json:"genres"`
	Description        string   `json:"description"`
	FreeEpisodes       *int     `json:"freeEpisodes" binding:"omitempty,min=0,max=20"`
	EpisodeDurationSec *int     `json:"episodeDurationSec" binding:"omitempty,min=30,max=600"`
	DefaultCoinCost    *int     `json:"defaultCoinCost" binding:"omitempty,min=0,max=999"`
	MaxEpisodes        *int     `json:"maxEpisodes" binding:"omitempty,min=1,max=100"`
}

// SeriesUpdate only touches the fields that are set.
type SeriesUpdate struct {
	Title              *string   `json:"title" binding:"omitempty,min=1"`
	Language           *string   `json:"language" binding:"omitempty,min=1"`
	Genres             *[]string `json:"genres"`
	Description        *string   `json:"description"`
	FreeEpisodes       *int      `json:"freeEpisodes" binding:"omitempty,min=0,max=20"`
	EpisodeDurationSec *int      `json:"episodeDurationSec" binding:"omitempty,min=30,max=600"`
	DefaultCoinCost    *int      `json:"defaultCoinCost" binding:"omitempty,min=0,max=999"`
	MaxEpisodes        *int      `json:"maxEpisodes" binding:"omitempty,min=1,max=100"`
}

type SeriesSummary struct {
	Id                 uuid.UUID `json:"id"`
	Title              string    `json:"title"`
	Language           string    `json:"language"`
	Genres             []string  `json:"genres"`
	Description        string    `json:"description"`
	FreeEpisodes       int       `json:"freeEpisodes"`
	EpisodeDurationSec int       `json:"episodeDurationSec"`
	DefaultCoinCost    int       `json:"defaultCoinCost"`
	MaxEpisodes        int       `json:"maxEpisodes"`
	TotalEpisodes      int64     `json:"totalEpisodes"`
	PublishedEpisodes  int64     `json:"publishedEpisodes"`
	CreatedAt          time.Time `json:"createdAt"`
}

type SeriesCard struct {
	Id           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Language     string    `json:"language"`
	Genres       []string  `json:"genres"`
	EpisodeCount int64     `json:"episodeCount"`
	CoverUrl     *string   `json:"coverUrl"`
}

type SeriesPolicy struct {
	Id                 uuid.UUID `json:"id"`
	Title              string    `json:"title"`
	FreeEpisodes       int       `json:"freeEpisodes"`
	EpisodeDurationSec int       `json:"episodeDurationSec"`
	DefaultCoinCost    int       `json:"defaultCoinCost"`
}

type EpisodeRow struct {
	Id            uuid.UUID              `json:"id"`
	EpisodeNumber int                    `json:"episodeNumber"`
	Status        constant.EpisodeStatus `json:"status"`
	LockType      constant.LockType      `json:"lockType"`
	CoinCost      int                    `json:"coinCost"`
	DurationSec   *int                   `json:"durationSec"`
	VideoKey      *string                `json:"videoKey"`
	ThumbnailKey  *string                `json:"thumbnailKey"`
}

type SeriesEpisodes struct {
	Series   SeriesPolicy `json:"series"`
	Episodes []EpisodeRow `json:"episodes"`
}

type EpisodeRequest struct {
	SeriesId      uuid.UUID         `json:"seriesId" binding:"required"`
	EpisodeNumber int               `json:"episodeNumber" binding:"required,min=1"`
	RawKey        string            `json:"rawKey" binding:"required"`
	LockType      constant.LockType `json:"lockType"`
	CoinCost      int               `json:"coinCost" binding:"min=0"`
}

type RawRequest struct {
	RawKey string `json:"rawKey" binding:"required"`
}

// PublishRequest publishes when Published is omitted.
type PublishRequest struct {
	Published *bool `json:"published"`
}

type EncodeRequest struct {
	EpisodeId uuid.UUID `json:"episodeId" binding:"required"`
}

type ImportRequest struct {
	URL                string `json:"url" binding:"required,url"`
	SeriesTitle        string `json:"seriesTitle" binding:"required,min=1"`
	Language           string `json:"language" binding:"required,min=1"`
	EpisodeDurationSec *int   `json:"episodeDurationSec" binding:"omitempty,min=30,max=600"`
	FreeEpisodes       *int   `json:"freeEpisodes" binding:"omitempty,min=0,max=20"`
	DefaultCoinCost    *int   `json:"defaultCoinCost" binding:"omitempty,min=0,max=999"`
	MaxEpisodes        *int   `json:"maxEpisodes" binding:"omitempty,min=1,max=100"`
}

func (r ImportRequest) Policy() SplitPolicy {
	return SplitRequest{
		RawKey:             r.URL,
		EpisodeDurationSec: r.EpisodeDurationSec,
		FreeEpisodes:       r.FreeEpisodes,
		DefaultCoinCost:    r.DefaultCoinCost,
		MaxEpisodes:        r.MaxEpisodes,
	}.Policy()
}

type SeedDemoRequest struct {
	TotalEpisodes *int `json:"totalEpisodes" binding:"omitempty,min=1,max=50"`
	FreeEpisodes  *int `json:"freeEpisodes" binding:"omitempty,min=0,max=20"`
	CoinCost      *int `json:"coinCost" binding:"omitempty,min=0,max=999"`
}

type SeedDemoResult struct {
	SeriesId      uuid.UUID `json:"seriesId"`
	TotalEpisodes int       `json:"totalEpisodes"`
	FreeEpisodes  int       `json:"freeEpisodes"`
	Created       int       `json:"created"`
	Updated       int       `json:"updated"`
}

type UploadRequest struct {
	Filename    string `json:"filename" binding:"required,min=1"`
	ContentType string `json:"contentType"`
}

type UploadTicket struct {
	Bucket    string `json:"bucket"`
	Key       string `json:"key"`
	UploadUrl string `json:"uploadUrl,omitempty"`
	SizeBytes *int64 `json:"sizeBytes,omitempty"`
}

type JobView struct {
	Id            uuid.UUID          `json:"id"`
	Kind          constant.JobKind   `json:"kind"`
	Status        constant.JobStatus `json:"status"`
	Attempts      int                `json:"attempts"`
	Error         *string            `json:"error"`
	ProgressPct   int                `json:"progressPct"`
	Stage         string             `json:"stage"`
	LastHeartbeat *time.Time         `json:"lastHeartbeat"`
	StartedAt     *time.Time         `json:"startedAt"`
	FinishedAt    *time.Time         `json:"finishedAt"`
}

type ActiveSplitJob struct {
	Id            uuid.UUID          `json:"id"`
	Status        constant.JobStatus `json:"status"`
	ProgressPct   int                `json:"progressPct"`
	Stage         string             `json:"stage"`
	LastHeartbeat *time.Time         `json:"lastHeartbeat"`
	StartedAt     *time.Time         `json:"startedAt"`
}

type JobEpisode struct {
	Id            uuid.UUID              `json:"id"`
	EpisodeNumber int                    `json:"episodeNumber"`
	Status        constant.EpisodeStatus `json:"status"`
	RawKey        *string                `json:"rawKey"`
}

type JobStatusView struct {
	Job            JobView         `json:"job"`
	ActiveSplitJob *ActiveSplitJob `json:"activeSplitJob"`
	Episode        JobEpisode      `json:"episode"`
	Series         SeriesPolicy    `json:"series"`
}

type EpisodeDetail struct {
	Id            uuid.UUID              `json:"id"`
	Status        constant.EpisodeStatus `json:"status"`
	EpisodeNumber int                    `json:"episodeNumber"`
	LockType      constant.LockType      `json:"lockType"`
	CoinCost      int                    `json:"coinCost"`
	RawKey        *string                `json:"rawKey"`
	VideoKey      *string                `json:"videoKey"`
	ThumbnailKey  *string                `json:"thumbnailKey"`
	SubtitlesKey  *string                `json:"subtitlesKey"`
	DurationSec   *int                   `json:"durationSec"`
}

type SeriesRef struct {
	Id    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

type EpisodeStatusView struct {
	Episode EpisodeDetail `json:"episode"`
	Series  SeriesRef     `json:"series"`
	Job     *JobView      `json:"job"`
}

type RecentEpisode struct {
	Id            uuid.UUID              `json:"id"`
	Status        constant.EpisodeStatus `json:"status"`
	SeriesTitle   string                 `json:"seriesTitle"`
	EpisodeNumber int                    `json:"episodeNumber"`
	LockType      constant.LockType      `json:"lockType"`
	RawKey        *string                `json:"rawKey"`
	VideoKey      *string                `json:"videoKey"`
	CreatedAt     time.Time              `json:"createdAt"`
}

type RecentActivity struct {
	Jobs     []JobView       `json:"jobs"`
	Episodes []RecentEpisode `json:"episodes"`
}

type FeedSeries struct {
	Id              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Language        string    `json:"language"`
	Genres          []string  `json:"genres"`
	DefaultCoinCost int       `json:"defaultCoinCost"`
}

type FeedEpisode struct {
	Id            uuid.UUID              `json:"id"`
	EpisodeNumber int                    `json:"episodeNumber"`
	Status        constant.EpisodeStatus `json:"status"`
	LockType      constant.LockType      `json:"lockType"`
	CoinCost      int                    `json:"coinCost"`
	VideoUrl      *string                `json:"videoUrl"`
	ThumbnailUrl  *string                `json:"thumbnailUrl"`
	SubtitlesUrl  *string                `json:"subtitlesUrl"`
}

type FeedViewer struct {
	Coins         int        `json:"coins"`
	Unlocked      bool       `json:"unlocked"`
	Watched       bool       `json:"watched"`
	LastSeriesId  *uuid.UUID `json:"lastSeriesId"`
	LastEpisodeId *uuid.UUID `json:"lastEpisodeId"`
}

type FeedItem struct {
	Series  FeedSeries  `json:"series"`
	Episode FeedEpisode `json:"episode"`
	Viewer  FeedViewer  `json:"viewer"`
}

type UnlockRequest struct {
	Method constant.UnlockMethod `json:"method" binding:"required"`
}

type UnlockResult struct {
	Unlocked bool `json:"unlocked"`
	Coins    *int `json:"coins,omitempty"`
	Granted  *int `json:"granted,omitempty"`
	Spent    *int `json:"spent,omitempty"`
}

type WatchRequest struct {
	Watched *bool `json:"watched" binding:"required"`
}

type Me struct {
	Id            uuid.UUID  `json:"id"`
	IsGuest       bool       `json:"isGuest"`
	Coins         int        `json:"coins"`
	LastSeriesId  *uuid.UUID `json:"lastSeriesId"`
	LastEpisodeId *uuid.UUID `json:"lastEpisodeId"`
	LastSeenAt    *time.Time `json:"lastSeenAt"`
}

type LedgerEntry struct {
	Id        uuid.UUID                `json:"id"`
	EpisodeId uuid.UUID                `json:"episodeId"`
	Type      constant.TransactionType `json:"type"`
	Amount    int                      `json:"amount"`
	CreatedAt time.Time                `json:"createdAt"`
}

type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type GuestUser struct {
	Id    uuid.UUID `json:"id"`
	Coins int       `json:"coins"`
}

type GuestSession struct {
	Token string    `json:"token"`
	User  GuestUser `json:"user"`
}
