package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"shortdrama/constant"
	"time"
)

type Episode struct {
	ID            uuid.UUID              `json:"id" gorm:"type:uuid;primaryKey"`
	SeriesID      uuid.UUID              `json:"seriesId" gorm:"type:uuid;not null;uniqueIndex:uq_episodes_series_number"`
	EpisodeNumber int                    `json:"episodeNumber" gorm:"not null;uniqueIndex:uq_episodes_series_number"`
	Status        constant.EpisodeStatus `json:"status" gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	LockType      constant.LockType      `json:"lockType" gorm:"type:varchar(10);not null;default:'FREE'"`
	CoinCost      int                    `json:"coinCost" gorm:"not null;default:0"`
	RawKey        *string                `json:"rawKey" gorm:"type:varchar(1024)"`
	VideoKey      *string                `json:"videoKey" gorm:"type:varchar(1024)"`
	ThumbnailKey  *string                `json:"thumbnailKey" gorm:"type:varchar(1024)"`
	SubtitlesKey  *string                `json:"subtitlesKey" gorm:"type:varchar(1024)"`
	MetadataKey   *string                `json:"metadataKey" gorm:"type:varchar(1024)"`
	DurationSec   *int                   `json:"durationSec"`
	CreatedAt     time.Time              `json:"createdAt" gorm:"not null"`
	UpdatedAt     time.Time              `json:"updatedAt" gorm:"not null"`

	Series *Series `json:"-" gorm:"foreignKey:SeriesID"`
}

func (Episode) TableName() string {
	return "episodes"
}

func (e *Episode) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// RawSource returns the raw reference or "" when unset.
func (e *Episode) RawSource() string {
	if e.RawKey == nil {
		return ""
	}
	return *e.RawKey
}
