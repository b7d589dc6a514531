package services

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"challengehub/internal/config"

	"github.com/cenkalti/backoff/v4"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

const (
	uploadTimeout = 30 * time.Second
	uploadRetries = 3
	uploadFolder  = "challengehub/profiles"
)

// allowedImageTypes are the content types accepted for profile pictures
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// fileService implements FileService on Cloudinary
type fileService struct {
	client *cloudinary.Cloudinary
	logger *zap.Logger
	cfg    config.CloudinaryConfig
}

// NewFileService creates a Cloudinary-backed file service. Returns an
// error when credentials are missing so the caller can decide whether
// uploads are required in its environment.
func NewFileService(cfg config.CloudinaryConfig, logger *zap.Logger) (FileService, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials not configured")
	}

	client, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &fileService{client: client, logger: logger, cfg: cfg}, nil
}

// UploadImage validates and stores a profile picture, retrying
// transient upload failures.
func (s *fileService) UploadImage(ctx context.Context, req *FileUploadRequest) (*FileUploadResult, error) {
	if int64(len(req.Data)) > s.cfg.MaxFileSize {
		return nil, NewValidationError(
			fmt.Sprintf("file exceeds maximum size of %d bytes", s.cfg.MaxFileSize), nil)
	}
	if len(req.Data) == 0 {
		return nil, NewValidationError("empty file", nil)
	}

	contentType := http.DetectContentType(req.Data)
	if !allowedImageTypes[contentType] {
		return nil, NewValidationError(
			fmt.Sprintf("unsupported image type %s", contentType), nil)
	}

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	params := uploader.UploadParams{
		Folder:         uploadFolder,
		UseFilename:    ptrBool(true),
		UniqueFilename: ptrBool(true),
		ResourceType:   "image",
	}

	var result *uploader.UploadResult
	operation := func() error {
		var opErr error
		result, opErr = s.client.Upload.Upload(ctx, bytes.NewReader(req.Data), params)
		return opErr
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = uploadTimeout / 2
	err := backoff.RetryNotify(
		operation,
		backoff.WithMaxRetries(b, uploadRetries),
		func(err error, d time.Duration) {
			s.logger.Warn("upload attempt failed",
				zap.String("filename", req.Filename),
				zap.Error(err),
				zap.Duration("backoff", d),
			)
		},
	)
	if err != nil {
		return nil, NewInternalError("failed to upload image", err)
	}

	s.logger.Info("image uploaded",
		zap.Int64("user_id", req.UserID),
		zap.String("public_id", result.PublicID),
		zap.Int("size", result.Bytes),
	)

	return &FileUploadResult{
		URL:      result.SecureURL,
		PublicID: result.PublicID,
		Size:     int64(result.Bytes),
	}, nil
}

// DeleteImage removes a stored image by its public ID
func (s *fileService) DeleteImage(ctx context.Context, publicID string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := s.client.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return NewInternalError("failed to delete image", err)
	}

	s.logger.Info("image deleted", zap.String("public_id", publicID))
	return nil
}

func ptrBool(b bool) *bool {
	return &b
}

// PublicIDFromURL recovers the Cloudinary public ID from a delivery
// URL so a replaced image can be destroyed. Returns "" for URLs not
// shaped like Cloudinary uploads.
func PublicIDFromURL(rawURL string) string {
	_, after, found := strings.Cut(rawURL, "/upload/")
	if !found {
		return ""
	}

	segments := strings.Split(after, "/")
	if len(segments) > 1 && versionSegment.MatchString(segments[0]) {
		segments = segments[1:]
	}

	publicID := strings.Join(segments, "/")
	if idx := strings.LastIndex(publicID, "."); idx > 0 {
		publicID = publicID[:idx]
	}
	return publicID
}

var versionSegment = regexp.MustCompile(`^v\d+$`)
