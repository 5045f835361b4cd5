package types

import (
	"time"

	"github.com/google/uuid"
)

// Book is the core entity every recommendation points at, identified by the
// external catalog id. Same exclusive-ownership cascade as SourceUser.
type Book struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ExternalID string    `gorm:"column:external_id;uniqueIndex;not null" json:"external_id"`
	Title      string    `gorm:"column:title;not null" json:"title"`
	Author     string    `gorm:"column:author" json:"author"`
	Publisher  string    `gorm:"column:publisher" json:"publisher"`
	URL        string    `gorm:"column:url" json:"url"`
	CoverImage string    `gorm:"column:cover_image" json:"cover_image"`

	Recommendations []*Recommendation `gorm:"constraint:OnDelete:CASCADE;foreignKey:BookID;references:ID" json:"recommendations,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Book) TableName() string { return "books" }
