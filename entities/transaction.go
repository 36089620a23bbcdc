package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"shortdrama/constant"
	"time"
)

// Transaction is an append-only ledger row. Rows are never updated.
type Transaction struct {
	ID        uuid.UUID                `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID                `json:"userId" gorm:"type:uuid;not null;index:idx_transactions_user_created"`
	EpisodeID uuid.UUID                `json:"episodeId" gorm:"type:uuid;not null;index"`
	Type      constant.TransactionType `json:"type" gorm:"type:varchar(20);not null"`
	Amount    int                      `json:"amount" gorm:"not null"`
	CreatedAt time.Time                `json:"createdAt" gorm:"not null;index:idx_transactions_user_created"`
}

func (Transaction) TableName() string {
	return "transactions"
}

func (t *Transaction) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
