package entities

import (
	"database/sql/driver"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
	"time"
)

// Genres is an ordered list stored as text[] on postgres. The type tag only
// satisfies the schema parser; GormDBDataType decides the column type.
type Genres []string

func (g Genres) Value() (driver.Value, error) {
	return pq.StringArray(g).Value()
}

func (g *Genres) Scan(src any) error {
	return (*pq.StringArray)(g).Scan(src)
}

func (Genres) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

type Series struct {
	ID                 uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Title              string         `json:"title" gorm:"type:varchar(255);not null"`
	Language           string         `json:"language" gorm:"type:varchar(32);not null"`
	Genres             Genres         `json:"genres" gorm:"type:text"`
	Description        string         `json:"description" gorm:"type:text"`
	FreeEpisodes       int            `json:"freeEpisodes" gorm:"not null"`
	EpisodeDurationSec int            `json:"episodeDurationSec" gorm:"not null"`
	DefaultCoinCost    int            `json:"defaultCoinCost" gorm:"not null"`
	MaxEpisodes        int            `json:"maxEpisodes" gorm:"not null"`
	CreatedAt          time.Time      `json:"createdAt" gorm:"not null"`
	UpdatedAt          time.Time      `json:"updatedAt" gorm:"not null"`
}

func (Series) TableName() string {
	return "series"
}

func (s *Series) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
