// ===============================
// FILE: internal/handlers/api/v1/announcements/announcements_controller.go
// ===============================

package announcements

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

const requestTimeout = 15 * time.Second

// Controller serves the announcement feed. Reading requires a login,
// writing requires the owner role.
type Controller struct {
	services *services.Collection
	logger   *zap.Logger
	builder  *response.Builder
}

// NewController creates the announcements controller
func NewController(svc *services.Collection, logger *zap.Logger, builder *response.Builder) *Controller {
	return &Controller{services: svc, logger: logger, builder: builder}
}

// List handles GET /api/announcements
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	announcements, err := c.services.Announcements.ListAnnouncements(ctx)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteSuccess(w, r, announcements)
}

// Create handles POST /api/announcements
func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		c.builder.WriteError(w, r, services.NewUnauthorizedError("Authentication required"))
		return
	}

	var req services.CreateAnnouncementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("Invalid request body", err))
		return
	}
	req.AuthorID = identity.UserID

	announcement, err := c.services.Announcements.CreateAnnouncement(ctx, &req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteCreated(w, r, announcement)
}

// Delete handles DELETE /api/announcements/{id}
func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("Invalid id", err))
		return
	}

	if err := c.services.Announcements.DeleteAnnouncement(ctx, id); err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteNoContent(w, r)
}
