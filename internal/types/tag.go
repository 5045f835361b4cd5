package types

import (
	"time"

	"github.com/google/uuid"
)

// Tag is a named category used by the classifier ("travel", "sci-fi", ...).
// Seeded ahead of time or created on first use; never deleted while referenced.
type Tag struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"column:name;uniqueIndex;not null" json:"name"`

	Recommendations []*Recommendation `gorm:"many2many:classifications" json:"recommendations,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Tag) TableName() string { return "tags" }
