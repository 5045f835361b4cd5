package types

import (
	"time"

	"github.com/google/uuid"
)

// Classification is the join row between a Recommendation and a Tag. The pair
// is the composite key, so at most one confidence per tag per recommendation.
// Confidence is conventionally in [0, 1]; reclassification overwrites it.
type Classification struct {
	RecommendationID uuid.UUID `gorm:"type:uuid;column:recommendation_id;primaryKey" json:"recommendation_id"`
	TagID            uuid.UUID `gorm:"type:uuid;column:tag_id;primaryKey" json:"tag_id"`
	Confidence       float64   `gorm:"column:confidence;not null;default:0" json:"confidence"`

	Recommendation *Recommendation `gorm:"constraint:OnDelete:CASCADE;foreignKey:RecommendationID;references:ID" json:"recommendation,omitempty"`
	Tag            *Tag            `gorm:"constraint:OnDelete:CASCADE;foreignKey:TagID;references:ID" json:"tag,omitempty"`

	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Classification) TableName() string { return "classifications" }
