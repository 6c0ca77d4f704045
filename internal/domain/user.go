package domain

import "time"

// User is the domain model for a registered referral participant.
type User struct {
	ID           int64
	Name         string
	Email        string
	ReferralCode string
	Points       int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TopUser is the leaderboard projection of a user.
type TopUser struct {
	Name   string
	Email  string
	Points int64
}

// Stats aggregates directory-wide point totals.
type Stats struct {
	TotalUsers    int
	TotalPoints   int64
	AveragePoints int64
	TopUsers      []TopUser
}
