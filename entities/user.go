package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"time"
)

type User struct {
	ID            uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	IsGuest       bool       `json:"isGuest" gorm:"not null"`
	GuestKey      *string    `json:"-" gorm:"type:varchar(64);uniqueIndex"`
	Coins         int        `json:"coins" gorm:"not null;default:0;check:chk_users_coins_non_negative,coins >= 0"`
	LastSeriesID  *uuid.UUID `json:"lastSeriesId" gorm:"type:uuid"`
	LastEpisodeID *uuid.UUID `json:"lastEpisodeId" gorm:"type:uuid"`
	LastSeenAt    *time.Time `json:"lastSeenAt"`
	CreatedAt     time.Time  `json:"createdAt" gorm:"not null"`
	UpdatedAt     time.Time  `json:"updatedAt" gorm:"not null"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
