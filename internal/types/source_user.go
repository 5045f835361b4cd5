package types

import (
	"time"

	"github.com/google/uuid"
)

// SourceUser mirrors a profile on the crawled platform. ExternalID is the
// platform's identifier and is the match key for re-crawls. A SourceUser
// exclusively owns its recommendations: deleting it cascades to them.
type SourceUser struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ExternalID string    `gorm:"column:external_id;uniqueIndex;not null" json:"external_id"`
	Name       string    `gorm:"column:name;not null" json:"name"`
	ProfileURL string    `gorm:"column:profile_url" json:"profile_url"`

	Recommendations []*Recommendation `gorm:"constraint:OnDelete:CASCADE;foreignKey:SourceUserID;references:ID" json:"recommendations,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (SourceUser) TableName() string { return "source_users" }
