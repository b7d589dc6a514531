// ===============================
// FILE: internal/handlers/api/v1/notifications/notifications_controller.go
// ===============================

package notifications

import (
	"context"
	"net/http"
	"time"

	"challengehub/internal/middleware"
	"challengehub/internal/response"
	"challengehub/internal/services"

	"go.uber.org/zap"
)

const requestTimeout = 15 * time.Second

// Controller serves each user's notification feed
type Controller struct {
	services *services.Collection
	logger   *zap.Logger
	builder  *response.Builder
}

// NewController creates the notifications controller
func NewController(svc *services.Collection, logger *zap.Logger, builder *response.Builder) *Controller {
	return &Controller{services: svc, logger: logger, builder: builder}
}

// List handles GET /api/notifications
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		c.builder.WriteError(w, r, services.NewUnauthorizedError("Authentication required"))
		return
	}

	notifications, err := c.services.Notifications.ListNotifications(ctx, identity.UserID)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteSuccess(w, r, notifications)
}

// MarkAllRead handles PUT /api/notifications/read
func (c *Controller) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		c.builder.WriteError(w, r, services.NewUnauthorizedError("Authentication required"))
		return
	}

	if err := c.services.Notifications.MarkAllRead(ctx, identity.UserID); err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteSuccess(w, r, map[string]string{"message": "All notifications marked as read"})
}
