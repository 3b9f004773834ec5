// Package entity defines the domain entities for the expense feature.
package entity

import "time"

// Expense represents a single categorized expense record owned by a user.
type Expense struct {
	// ID is the unique identifier for the expense (UUID string).
	ID string `gorm:"primaryKey;size:36"`

	// UserID references the owning user. Immutable after creation.
	UserID string `gorm:"index;size:36;not null"`

	// Category is one of the fixed expense categories.
	Category Category `gorm:"size:64;not null"`

	// Amount is the expense amount. Positive, at most MaxAmount.
	Amount float64 `gorm:"not null"`

	// Comments is a free-form note, at most MaxCommentsLength characters.
	Comments string `gorm:"size:500"`

	// CreatedAt is the timestamp when the expense was recorded. Immutable.
	CreatedAt time.Time `gorm:"index;not null"`

	// UpdatedAt is refreshed whenever the expense is edited.
	UpdatedAt time.Time `gorm:"not null"`
}

const (
	// MaxAmount is the upper bound for a single expense amount.
	MaxAmount = 1_000_000

	// MaxCommentsLength is the maximum number of characters allowed in Comments.
	MaxCommentsLength = 500
)
