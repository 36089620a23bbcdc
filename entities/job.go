package entities

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"shortdrama/constant"
	"time"
)

type AiJob struct {
	ID            uuid.UUID          `json:"id" gorm:"type:uuid;primaryKey"`
	EpisodeID     uuid.UUID          `json:"episodeId" gorm:"type:uuid;not null;index:idx_ai_jobs_episode_kind_status"`
	Kind          constant.JobKind   `json:"kind" gorm:"type:varchar(20);not null;default:'ENCODE_ONE';index:idx_ai_jobs_episode_kind_status"`
	Status        constant.JobStatus `json:"status" gorm:"type:varchar(20);not null;index:idx_ai_jobs_episode_kind_status;index:idx_ai_jobs_status_created"`
	Attempts      int                `json:"attempts" gorm:"not null;default:0"`
	ProgressPct   int                `json:"progressPct" gorm:"not null;default:0"`
	Stage         string             `json:"stage" gorm:"type:varchar(64)"`
	Error         *string            `json:"error" gorm:"type:text"`
	Result        datatypes.JSON     `json:"result,omitempty"`
	StartedAt     *time.Time         `json:"startedAt"`
	LastHeartbeat *time.Time         `json:"lastHeartbeat"`
	FinishedAt    *time.Time         `json:"finishedAt"`
	CreatedAt     time.Time          `json:"createdAt" gorm:"not null;index:idx_ai_jobs_status_created"`
	UpdatedAt     time.Time          `json:"updatedAt" gorm:"not null"`

	Episode *Episode `json:"-" gorm:"foreignKey:EpisodeID"`
}

func (AiJob) TableName() string {
	return "ai_jobs"
}

func (j *AiJob) BeforeCreate(*gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}
