package dto

import (
	"time"

	"github.com/spec-kit/referral-service/internal/domain"
)

// RegisterUserRequest payload for new registrations. Pointer fields keep
// "not provided" distinguishable from "provided empty".
type RegisterUserRequest struct {
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	ReferralCode *string `json:"referralCode"`
}

// UpdatePointsRequest payload for point adjustments. Delta may be negative.
type UpdatePointsRequest struct {
	Delta *int64 `json:"delta"`
}

// UserView is the public projection of a user.
type UserView struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	ReferralCode string    `json:"referralCode"`
	Points       int64     `json:"points"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewUserView projects a domain user to its public fields.
func NewUserView(user domain.User) UserView {
	return UserView{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		ReferralCode: user.ReferralCode,
		Points:       user.Points,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

// NewUserViews projects a slice of users, preserving order.
func NewUserViews(users []domain.User) []UserView {
	views := make([]UserView, 0, len(users))
	for _, user := range users {
		views = append(views, NewUserView(user))
	}
	return views
}

// TopUserView is the leaderboard projection.
type TopUserView struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Points int64  `json:"points"`
}

// StatsView is the public projection of directory statistics.
type StatsView struct {
	TotalUsers    int           `json:"totalUsers"`
	TotalPoints   int64         `json:"totalPoints"`
	AveragePoints int64         `json:"averagePoints"`
	TopUsers      []TopUserView `json:"topUsers"`
}

// NewStatsView projects domain statistics.
func NewStatsView(stats domain.Stats) StatsView {
	top := make([]TopUserView, 0, len(stats.TopUsers))
	for _, user := range stats.TopUsers {
		top = append(top, TopUserView{Name: user.Name, Email: user.Email, Points: user.Points})
	}
	return StatsView{
		TotalUsers:    stats.TotalUsers,
		TotalPoints:   stats.TotalPoints,
		AveragePoints: stats.AveragePoints,
		TopUsers:      top,
	}
}
