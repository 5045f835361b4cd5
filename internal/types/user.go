package types

import (
	"time"

	"github.com/google/uuid"
)

// User is a system account for the site itself (admin, employee), not a
// crawled profile. Credentials are a bcrypt hash, never plaintext.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"column:username;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"column:email;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	Role         string    `gorm:"column:role;not null;default:'system_user'" json:"role"`

	QueryHistory []*QueryHistory `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"query_history,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "users" }
