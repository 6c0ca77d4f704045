package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/referral-service/internal/api/dto"
	"github.com/spec-kit/referral-service/internal/service"
	"github.com/spec-kit/referral-service/internal/validation"
	"github.com/spec-kit/referral-service/pkg/util"
)

// UsersHandler exposes registration, lookup, and points endpoints.
type UsersHandler struct {
	referrals *service.ReferralService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(referralService *service.ReferralService) *UsersHandler {
	return &UsersHandler{referrals: referralService}
}

// Register handles POST /api/users/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterUserRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	user, err := h.referrals.Register(c.Context(), validation.Input{
		Name:         req.Name,
		Email:        req.Email,
		ReferralCode: req.ReferralCode,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"user": dto.NewUserView(*user)},
	})
}

// List handles GET /api/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users := h.referrals.ListAll(c.Context())
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"users": dto.NewUserViews(users),
			"count": len(users),
		},
	})
}

// GetByID handles GET /api/users/:id.
func (h *UsersHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return util.NewValidationError("invalid user id", nil)
	}

	user, err := h.referrals.GetByID(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"user": dto.NewUserView(*user)}})
}

// GetByReferralCode handles GET /api/users/referral/:code.
func (h *UsersHandler) GetByReferralCode(c *fiber.Ctx) error {
	user, err := h.referrals.FindByReferralCode(c.Context(), c.Params("code"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"user": dto.NewUserView(*user)}})
}

// UpdatePoints handles PATCH /api/users/:id/points.
func (h *UsersHandler) UpdatePoints(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return util.NewValidationError("invalid user id", nil)
	}

	var req dto.UpdatePointsRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.Delta == nil {
		return util.NewValidationError("delta is required", nil)
	}

	user, err := h.referrals.UpdatePoints(c.Context(), id, *req.Delta)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"user": dto.NewUserView(*user)}})
}

// Statistics handles GET /api/stats.
func (h *UsersHandler) Statistics(c *fiber.Ctx) error {
	stats := h.referrals.Statistics(c.Context())
	return c.JSON(fiber.Map{"data": dto.NewStatsView(stats)})
}
