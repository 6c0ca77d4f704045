package events

import (
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered   EventType = "user_registered"
	EventReferralCredited EventType = "referral_credited"
	EventPointsAdjusted   EventType = "points_adjusted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    int64       `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	ReferralCode string `json:"referral_code"`
	ReferrerID   *int64 `json:"referrer_id,omitempty"`
}

// ReferralCreditedPayload payload.
type ReferralCreditedPayload struct {
	NewUserID   int64 `json:"new_user_id"`
	Bonus       int64 `json:"bonus"`
	TotalPoints int64 `json:"total_points"`
}

// PointsAdjustedPayload payload.
type PointsAdjustedPayload struct {
	Delta       int64 `json:"delta"`
	TotalPoints int64 `json:"total_points"`
}
