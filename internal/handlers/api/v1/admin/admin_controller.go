// ===============================
// FILE: internal/handlers/api/v1/admin/admin_controller.go
// ===============================

package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"challengehub/internal/middleware"
	"challengehub/internal/response"
	"challengehub/internal/services"

	"go.uber.org/zap"
)

const requestTimeout = 30 * time.Second

// Controller serves the admin management endpoints. Routes are gated
// by role middleware before reaching here; the controller only needs
// the caller's identity for owner-scoped payload fields.
type Controller struct {
	services *services.Collection
	logger   *zap.Logger
	builder  *response.Builder
}

// NewController creates the admin controller
func NewController(svc *services.Collection, logger *zap.Logger, builder *response.Builder) *Controller {
	return &Controller{services: svc, logger: logger, builder: builder}
}

// ===============================
// CHALLENGE MANAGEMENT
// ===============================

// CreateChallenge handles POST /api/admin/challenge
func (c *Controller) CreateChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req services.CreateChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("Invalid request body", err))
		return
	}

	challenge, err := c.services.Challenges.CreateChallenge(ctx, &req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteCreated(w, r, challenge)
}

// ListChallenges handles GET /api/admin/challenge
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

// UpdateChallenge handles PUT /api/admin/challenge/{id}
func (c *Controller) UpdateChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	id, err := pathID(r)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	var req services.UpdateChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("Invalid request body", err))
		return
	}
	req.ID = id

	challenge, err := c.services.Challenges.UpdateChallenge(ctx, &req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteSuccess(w, r, challenge)
}

// DeleteChallenge handles DELETE /api/admin/challenge/{id}
func (c *Controller) DeleteChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	id, err := pathID(r)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	if err := c.services.Challenges.DeleteChallenge(ctx, id); err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteNoContent(w, r)
}

// ===============================
// BADGE MANAGEMENT
// ===============================

// CreateBadge handles POST /api/admin/badge
func (c *Controller) CreateBadge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req services.CreateBadgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("Invalid request body", err))
		return
	}

	badge, err := c.services.Badges.CreateBadge(ctx, &req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteCreated(w, r, badge)
}

// ListBadges handles GET /api/admin/badges
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

// UpdateBadge handles PUT /api/admin/badge/{id}
func (c *Controller) UpdateBadge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	id, err := pathID(r)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	var req services.UpdateBadgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("Invalid request body", err))
		return
	}
	req.ID = id

	badge, err := c.services.Badges.UpdateBadge(ctx, &req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteSuccess(w, r, badge)
}

// DeleteBadge handles DELETE /api/admin/badge/{id}
func (c *Controller) DeleteBadge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	id, err := pathID(r)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	if err := c.services.Badges.DeleteBadge(ctx, id); err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteNoContent(w, r)
}

// ===============================
// USER MANAGEMENT
// ===============================

// ListUsers handles GET /api/admin/users
func (c *Controller) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	users, err := c.services.Users.ListUsers(ctx)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteSuccess(w, r, users)
}

// UpdateUser handles PUT /api/admin/user/{id}
func (c *Controller) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		c.builder.WriteError(w, r, services.NewUnauthorizedError("Authentication required"))
		return
	}

	id, err := pathID(r)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	var req services.AdminUpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("Invalid request body", err))
		return
	}
	req.TargetID = id
	req.ActorRole = identity.Role

	user, err := c.services.Users.AdminUpdateUser(ctx, &req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.logger.Info("user updated by admin",
		zap.Int64("target_id", id),
		zap.Int64("actor_id", identity.UserID),
	)
	c.builder.WriteSuccess(w, r, user)
}

// DeleteUser handles DELETE /api/admin/user/{id}, owner only
func (c *Controller) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	id, err := pathID(r)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	if err := c.services.Users.DeleteUser(ctx, id); err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteNoContent(w, r)
}

// pathID parses the {id} path segment
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, services.NewValidationError("Invalid id", err)
	}
	return id, nil
}
