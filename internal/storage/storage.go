package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// VideoKeyPrefix roots every exercise demo video in the bucket.
const VideoKeyPrefix = "exercise-videos"

var allowedVideoTypes = map[string]string{
	"video/mp4":       ".mp4",
	"video/quicktime": ".mov",
	"video/webm":      ".webm",
}

var ErrUnsupportedContentType = errors.New("unsupported video content type")

// FileStorage defines the object storage operations used for exercise videos.
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL that allows a PUT of
	// objectKey with the given content type.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL that allows a GET
	// of objectKey.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	DeleteObject(ctx context.Context, objectKey string) error
}

// NewVideoKey builds a fresh object key for a coach's video upload.
func NewVideoKey(coachID, contentType string) (string, error) {
	ext, ok := allowedVideoTypes[strings.ToLower(contentType)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedContentType, contentType)
	}
	return path.Join(VideoKeyPrefix, coachID, uuid.NewString()+ext), nil
}

// IsObjectKey reports whether ref names an object in our bucket rather than
// an external URL.
func IsObjectKey(ref string) bool {
	return strings.HasPrefix(ref, VideoKeyPrefix+"/")
}

// OwnsKey reports whether key sits under coachID's upload prefix.
func OwnsKey(key, coachID string) bool {
	return coachID != "" && strings.HasPrefix(key, path.Join(VideoKeyPrefix, coachID)+"/")
}
