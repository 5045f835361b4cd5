package types

import (
	"time"

	"github.com/google/uuid"
)

// Recommendation is one crawled post recommending one Book by one SourceUser.
// SourceURL is globally unique and is the sole deduplication key: re-crawling
// the same post must not create a second row.
type Recommendation struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Summary       string     `gorm:"column:summary;type:text" json:"summary"`
	RecommendedAt *time.Time `gorm:"column:recommended_at;index" json:"recommended_at,omitempty"`
	CrawledAt     time.Time  `gorm:"column:crawled_at;not null" json:"crawled_at"`
	SourceURL     string     `gorm:"column:source_url;uniqueIndex;not null" json:"source_url"`

	SourceUserID uuid.UUID   `gorm:"type:uuid;column:source_user_id;not null;index" json:"source_user_id"`
	SourceUser   *SourceUser `gorm:"constraint:OnDelete:CASCADE;foreignKey:SourceUserID;references:ID" json:"source_user,omitempty"`
	BookID       uuid.UUID   `gorm:"type:uuid;column:book_id;not null;index" json:"book_id"`
	Book         *Book       `gorm:"constraint:OnDelete:CASCADE;foreignKey:BookID;references:ID" json:"book,omitempty"`

	Tags []*Tag `gorm:"many2many:classifications" json:"tags,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Recommendation) TableName() string { return "recommendations" }
