package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"time"
)

type UserEpisodeProgress struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID  `json:"userId" gorm:"type:uuid;not null;uniqueIndex:uq_progress_user_episode"`
	EpisodeID  uuid.UUID  `json:"episodeId" gorm:"type:uuid;not null;uniqueIndex:uq_progress_user_episode;index"`
	Unlocked   bool       `json:"unlocked" gorm:"not null;default:false"`
	AdUnlocked bool       `json:"adUnlocked" gorm:"not null;default:false"`
	Watched    bool       `json:"watched" gorm:"not null;default:false"`
	WatchedAt  *time.Time `json:"watchedAt"`
	// Charged is set once a completion charge has been applied.
	Charged   bool      `json:"charged" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"not null"`
}

func (UserEpisodeProgress) TableName() string {
	return "user_episode_progress"
}

func (p *UserEpisodeProgress) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
