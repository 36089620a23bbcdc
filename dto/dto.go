package dto

import (
	"github.com/google/uuid"
	"shortdrama/constant"
	"time"
)

type JobEvent struct {
	Type      constant.JobEventType `json:"type"`
	JobId     uuid.UUID             `json:"jobId"`
	EpisodeId uuid.UUID             `json:"episodeId"`
	Kind      constant.JobKind      `json:"kind"`
	Status    constant.JobStatus    `json:"status"`
	At        time.Time             `json:"at"`
}

// ClaimedJob is what a worker receives from claim.
type ClaimedJob struct {
	Id                       uuid.UUID        `json:"id"`
	EpisodeId                uuid.UUID        `json:"episodeId"`
	Kind                     constant.JobKind `json:"kind"`
	SeriesId                 uuid.UUID        `json:"seriesId"`
	SeriesFreeEpisodes       int              `json:"seriesFreeEpisodes"`
	SeriesEpisodeDurationSec int              `json:"seriesEpisodeDurationSec"`
	SeriesDefaultCoinCost    int              `json:"seriesDefaultCoinCost"`
	SeriesMaxEpisodes        int              `json:"seriesMaxEpisodes"`
	RawBucket                string           `json:"rawBucket"`
	RawKey                   string           `json:"rawKey"`
	Attempt                  int              `json:"attempt"`
}

type ProgressRequest struct {
	ProgressPct *int    `json:"progressPct" binding:"required,min=0,max=100"`
	Stage       string  `json:"stage" binding:"required"`
	Message     *string `json:"message"`
	Attempt     *int    `json:"attempt"`
}

type Asset struct {
	VideoKey     string  `json:"videoKey"`
	ThumbnailKey string  `json:"thumbnailKey"`
	SubtitlesKey *string `json:"subtitlesKey,omitempty"`
	MetadataKey  *string `json:"metadataKey,omitempty"`
	DurationSec  *int    `json:"durationSec,omitempty"`
}

type Segment struct {
	EpisodeNumber int `json:"episodeNumber"`
	Asset
}

// CompleteRequest is either a single asset (ENCODE_ONE) or a segment list
// (SPLIT_SERIES).
type CompleteRequest struct {
	Asset
	Segments []Segment `json:"segments,omitempty"`
	Attempt  *int      `json:"attempt,omitempty"`
}

func (r CompleteRequest) IsSplit() bool {
	return r.Segments != nil
}

type CompleteResult struct {
	Mode            string `json:"mode,omitempty"`
	Episodes        int    `json:"episodes,omitempty"`
	AlreadyTerminal bool   `json:"alreadyTerminal,omitempty"`
}

type FailRequest struct {
	Error   string `json:"error" binding:"required"`
	Attempt *int   `json:"attempt"`
}

type SplitRequest struct {
	RawKey             string `json:"rawKey" binding:"required"`
	EpisodeDurationSec *int   `json:"episodeDurationSec" binding:"omitempty,min=30,max=600"`
	FreeEpisodes       *int   `json:"freeEpisodes" binding:"omitempty,min=0,max=20"`
	DefaultCoinCost    *int   `json:"defaultCoinCost" binding:"omitempty,min=0,max=999"`
	MaxEpisodes        *int   `json:"maxEpisodes" binding:"omitempty,min=1,max=100"`
}

// SplitPolicy is a SplitRequest with defaults applied.
type SplitPolicy struct {
	RawKey             string
	EpisodeDurationSec int
	FreeEpisodes       int
	DefaultCoinCost    int
	MaxEpisodes        int
}

func (r SplitRequest) Policy() SplitPolicy {
	return SplitPolicy{
		RawKey:             r.RawKey,
		EpisodeDurationSec: intOr(r.EpisodeDurationSec, DefaultEpisodeDurationSec),
		FreeEpisodes:       intOr(r.FreeEpisodes, DefaultFreeEpisodes),
		DefaultCoinCost:    intOr(r.DefaultCoinCost, DefaultCoinCost),
		MaxEpisodes:        intOr(r.MaxEpisodes, DefaultMaxEpisodes),
	}
}

type SplitResult struct {
	JobId     uuid.UUID `json:"jobId"`
	EpisodeId uuid.UUID `json:"episodeId"`
	SeriesId  uuid.UUID `json:"seriesId"`
	Reused    bool      `json:"reused,omitempty"`
}

const (
	DefaultFreeEpisodes       = 3
	DefaultEpisodeDurationSec = 180
	DefaultCoinCost           = 5
	DefaultMaxEpisodes        = 50
)

func intOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}
