// ===============================
// FILE: internal/handlers/api/v1/auth/auth_controller.go
// ===============================

package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"challengehub/internal/middleware"
	"challengehub/internal/response"
	"challengehub/internal/services"

	"go.uber.org/zap"
)

// requestTimeout bounds the service call behind each endpoint
const requestTimeout = 30 * time.Second

// maxUploadBytes caps profile picture request bodies
const maxUploadBytes = 10 << 20

// Controller handles the authentication and profile endpoints
type Controller struct {
	services *services.Collection
	logger   *zap.Logger
	builder  *response.Builder
}

// NewController creates the auth controller
func NewController(svc *services.Collection, logger *zap.Logger, builder *response.Builder) *Controller {
	return &Controller{services: svc, logger: logger, builder: builder}
}

// Register handles POST /api/auth/register
func (c *Controller) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req services.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("Invalid request body", err))
		return
	}

	resp, err := c.services.Auth.Register(ctx, &req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteCreated(w, r, resp)
}

// VerifyOTP handles POST /api/auth/verify-otp
func (c *Controller) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req services.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("Invalid request body", err))
		return
	}

	resp, err := c.services.Auth.VerifyOTP(ctx, &req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteSuccess(w, r, resp)
}

// ResendOTP handles POST /api/auth/resend-otp
func (c *Controller) ResendOTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req services.ResendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("Invalid request body", err))
		return
	}

	resp, err := c.services.Auth.ResendOTP(ctx, &req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteSuccess(w, r, resp)
}

// Login handles POST /api/auth/login
func (c *Controller) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req services.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("Invalid request body", err))
		return
	}

	resp, err := c.services.Auth.Login(ctx, &req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.logger.Info("login succeeded", zap.Int64("user_id", resp.User.ID))
	c.builder.WriteSuccess(w, r, resp)
}

// UpdateProfile handles PUT /api/auth/profile
func (c *Controller) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		c.builder.WriteError(w, r, services.NewUnauthorizedError("Authentication required"))
		return
	}

	var req services.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("Invalid request body", err))
		return
	}
	req.UserID = identity.UserID

	user, err := c.services.Users.UpdateProfile(ctx, &req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteSuccess(w, r, user)
}

// UploadProfilePicture handles POST /api/auth/profile/picture.
// The stored URL is applied to the account in the same request, and a
// previously uploaded picture is destroyed best effort.
func (c *Controller) UploadProfilePicture(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		c.builder.WriteError(w, r, services.NewUnauthorizedError("Authentication required"))
		return
	}

	if c.services.Files == nil {
		c.builder.WriteError(w, r, services.NewServiceUnavailableError("File uploads are not configured"))
		return
	}

	current, err := c.services.Users.GetUserByID(ctx, identity.UserID)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	previousPicture := current.ProfilePicture

	file, header, err := r.FormFile("picture")
	if err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("Missing picture file", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("Failed to read upload", err))
		return
	}
	if len(data) > maxUploadBytes {
		c.builder.WriteError(w, r, services.NewValidationError("File too large", nil))
		return
	}

	result, err := c.services.Files.UploadImage(ctx, &services.FileUploadRequest{
		UserID:      identity.UserID,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	user, err := c.services.Users.UpdateProfile(ctx, &services.UpdateProfileRequest{
		UserID:         identity.UserID,
		ProfilePicture: &result.URL,
	})
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	if previousPicture != nil && *previousPicture != result.URL {
		if publicID := services.PublicIDFromURL(*previousPicture); publicID != "" {
			if err := c.services.Files.DeleteImage(ctx, publicID); err != nil {
				c.logger.Warn("failed to delete replaced profile picture",
					zap.Int64("user_id", identity.UserID),
					zap.String("public_id", publicID),
					zap.Error(err),
				)
			}
		}
	}

	c.builder.WriteSuccess(w, r, map[string]interface{}{
		"upload": result,
		"user":   user,
	})
}
