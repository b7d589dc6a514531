// ===============================
// FILE: internal/handlers/api/v1/public/public_controller.go
// ===============================

package public

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"challengehub/internal/response"
	"challengehub/internal/services"

	"go.uber.org/zap"
)

const requestTimeout = 15 * time.Second

// Controller serves the endpoints that require no authentication
type Controller struct {
	services *services.Collection
	logger   *zap.Logger
	builder  *response.Builder
}

// NewController creates the public controller
func NewController(svc *services.Collection, logger *zap.Logger, builder *response.Builder) *Controller {
	return &Controller{services: svc, logger: logger, builder: builder}
}

// ListChallenges handles GET /api/challenges
func (c *Controller) ListChallenges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	challenges, err := c.services.Challenges.ListChallenges(ctx)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteSuccess(w, r, challenges)
}

// LatestChallenge handles GET /api/challenges/latest
func (c *Controller) LatestChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	challenge, err := c.services.Challenges.GetLatestChallenge(ctx)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteSuccess(w, r, challenge)
}

// Leaderboard handles GET /api/leaderboard
func (c *Controller) Leaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	board, err := c.services.Users.GetLeaderboard(ctx)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteSuccess(w, r, board)
}

// ListBadges handles GET /api/badges
func (c *Controller) ListBadges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	badges, err := c.services.Badges.ListBadges(ctx)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteSuccess(w, r, badges)
}

// GetUser handles GET /api/user/{id}
func (c *Controller) GetUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("Invalid user id", err))
		return
	}

	user, err := c.services.Users.GetUserByID(ctx, id)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteSuccess(w, r, user)
}
