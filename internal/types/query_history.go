package types

import (
	"time"

	"github.com/google/uuid"
)

// QueryHistory records a browse query issued by a system user.
type QueryHistory struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;column:user_id;not null;index" json:"user_id"`
	Query  string    `gorm:"column:query;type:text" json:"query"`

	User *User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (QueryHistory) TableName() string { return "query_histories" }
