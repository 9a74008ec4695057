/*
Package rating implements reader ratings and reviews of novels.

A reader holds at most one rating per novel; posting again replaces it.
Every write recomputes the novel's average_rating in the same transaction.
*/
package rating

import (
	"time"

	"github.com/nathanpasca/manov-sub001/internal/users/auth"
)

// # Domain Entities

// Rating is a 1 to 5 score with an optional review.
type Rating struct {
	ID         int           `json:"id"`
	UserID     string        `json:"user_id"`
	NovelID    int           `json:"novel_id"`
	Rating     int           `json:"rating"`
	ReviewText *string       `json:"review_text"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
	User       *auth.Summary `json:"user,omitempty"`
}

// Field identifiers.
const (
	FieldRating     = "rating"
	FieldReviewText = "review_text"
)

// Rating bounds and limits.
const (
	MinScore        = 1
	MaxScore        = 5
	MaxReviewLength = 5000
	MaxPageSize     = 50
)
