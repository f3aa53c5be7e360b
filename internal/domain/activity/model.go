package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeCoupleCreated     ActivityType = "couple_created"
	TypeCheckoutStarted   ActivityType = "checkout_started"
	TypeCheckoutCompleted ActivityType = "checkout_completed"
)

// ActivityEntry represents an event in the activity log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	CoupleID     string       `json:"couple_id"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}
