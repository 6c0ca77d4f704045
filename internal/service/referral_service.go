package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/referral-service/internal/config"
	"github.com/spec-kit/referral-service/internal/domain"
	"github.com/spec-kit/referral-service/internal/events"
	"github.com/spec-kit/referral-service/internal/repository"
	"github.com/spec-kit/referral-service/internal/validation"
	"github.com/spec-kit/referral-service/pkg/util"
)

// ReferralService coordinates registration and points flows.
type ReferralService struct {
	directory  *repository.Directory
	dispatcher events.Dispatcher
	logger     *zap.Logger
	limits     validation.Limits
	bonus      int64
}

// ReferralDependencies encapsulates collaborator requirements for the service.
type ReferralDependencies struct {
	Directory  *repository.Directory
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewReferralService builds the service.
func NewReferralService(cfg config.Config, deps ReferralDependencies) *ReferralService {
	return &ReferralService{
		directory:  deps.Directory,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		limits: validation.Limits{
			MinNameLength:  cfg.Referral.MinNameLength,
			MaxNameLength:  cfg.Referral.MaxNameLength,
			MinEmailLength: cfg.Referral.MinEmailLength,
			MaxEmailLength: cfg.Referral.MaxEmailLength,
			CodeLength:     cfg.Referral.CodeLength,
		},
		bonus: cfg.Referral.Bonus,
	}
}

// Register runs the full registration workflow: sanitize, validate, then the
// atomic directory insert with optional referrer credit. Business-rule
// violations come back as classified DomainErrors; anything else is logged in
// full and downgraded to a generic internal error.
func (s *ReferralService) Register(ctx context.Context, input validation.Input) (*domain.User, error) {
	sanitized := validation.Sanitize(input)
	result := validation.Validate(sanitized, s.limits)
	if !result.Valid {
		return nil, util.NewValidationError(strings.Join(result.Errors, ", "), map[string]any{"errors": result.Errors})
	}

	referrerCode := ""
	if sanitized.ReferralCode != nil {
		referrerCode = *sanitized.ReferralCode
	}

	user, referrer, err := s.directory.Register(*sanitized.Name, *sanitized.Email, referrerCode)
	if err != nil {
		var domainErr *util.DomainError
		if !errors.As(err, &domainErr) {
			s.logger.Error("registration failed", zap.String("email", *sanitized.Email), zap.Error(err))
			return nil, util.NewInternalError(err)
		}
		return nil, err
	}

	s.logger.Info("user registered",
		zap.Int64("user_id", user.ID),
		zap.String("referral_code", user.ReferralCode),
		zap.Bool("referred", referrer != nil))

	var referrerID *int64
	if referrer != nil {
		referrerID = &referrer.ID
	}
	s.publish(ctx, events.Event{
		Type:   events.EventUserRegistered,
		UserID: user.ID,
		Payload: events.UserRegisteredPayload{
			Name:         user.Name,
			Email:        user.Email,
			ReferralCode: user.ReferralCode,
			ReferrerID:   referrerID,
		},
	})
	if referrer != nil {
		s.publish(ctx, events.Event{
			Type:   events.EventReferralCredited,
			UserID: referrer.ID,
			Payload: events.ReferralCreditedPayload{
				NewUserID:   user.ID,
				Bonus:       s.bonus,
				TotalPoints: referrer.Points,
			},
		})
	}

	return user, nil
}

// UpdatePoints adds delta to the user's points balance.
func (s *ReferralService) UpdatePoints(ctx context.Context, id int64, delta int64) (*domain.User, error) {
	user, err := s.directory.UpdatePoints(id, delta)
	if err != nil {
		return nil, err
	}

	s.logger.Info("points adjusted",
		zap.Int64("user_id", user.ID),
		zap.Int64("delta", delta),
		zap.Int64("total", user.Points))

	s.publish(ctx, events.Event{
		Type:   events.EventPointsAdjusted,
		UserID: user.ID,
		Payload: events.PointsAdjustedPayload{
			Delta:       delta,
			TotalPoints: user.Points,
		},
	})
	return user, nil
}

// ListAll returns all users in registration order.
func (s *ReferralService) ListAll(_ context.Context) []domain.User {
	return s.directory.ListAll()
}

// FindByReferralCode resolves a referral code to its owner.
func (s *ReferralService) FindByReferralCode(_ context.Context, code string) (*domain.User, error) {
	user, ok := s.directory.FindByReferralCode(code)
	if !ok {
		return nil, util.NewNotFound("user", map[string]any{"referralCode": code})
	}
	return user, nil
}

// GetByID resolves a user id.
func (s *ReferralService) GetByID(_ context.Context, id int64) (*domain.User, error) {
	user, ok := s.directory.GetByID(id)
	if !ok {
		return nil, util.NewNotFound("user", map[string]any{"id": id})
	}
	return user, nil
}

// Statistics returns directory-wide point totals and the leaderboard.
func (s *ReferralService) Statistics(_ context.Context) domain.Stats {
	return s.directory.Stats()
}

func (s *ReferralService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
