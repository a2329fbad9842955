package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/docker/go-units"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// Ensure UploadCoordinator implements the interface.
var _ driving.UploadCoordinator = (*UploadCoordinator)(nil)

// Upload messages.
const (
	msgUploadMissing = "Please provide both a file and title"
	msgUploadInvalid = "Invalid upload"
	msgUploadFailed  = "Failed to upload document"
)

// UploadConfig holds client-side upload limits.
type UploadConfig struct {
	// MaxSize is a human readable size limit, e.g. "10MB". Empty uses the default.
	MaxSize string

	// Extensions lists accepted extensions. Empty accepts any extension.
	Extensions []string
}

// UploadCoordinator validates an upload and submits it as one multipart
// request. Concurrent uploads are not serialized.
type UploadCoordinator struct {
	api        driven.DocumentAPI
	maxSize    int64
	extensions map[string]bool
}

// NewUploadCoordinator creates an upload coordinator.
func NewUploadCoordinator(api driven.DocumentAPI, cfg UploadConfig) (*UploadCoordinator, error) {
	maxSize := cfg.MaxSize
	if maxSize == "" {
		maxSize = domain.DefaultMaxUploadSize
	}
	size, err := units.FromHumanSize(maxSize)
	if err != nil {
		return nil, fmt.Errorf("invalid upload size limit %q: %w", maxSize, err)
	}

	exts := make(map[string]bool, len(cfg.Extensions))
	for _, ext := range cfg.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[ext] = true
	}

	return &UploadCoordinator{api: api, maxSize: size, extensions: exts}, nil
}

// Upload validates req and submits it. Validation failures return a
// validation error and never touch the network.
func (u *UploadCoordinator) Upload(ctx context.Context, req domain.UploadRequest) (string, error) {
	if err := u.validate(req); err != nil {
		return "", err
	}

	logger.Debug("upload: %s as %q (%s)", req.File.Name, req.Title, units.HumanSize(float64(req.File.Size)))
	id, err := u.api.UploadDocument(ctx, req)
	if err != nil {
		return "", domain.NewMutationError(msgUploadFailed, err)
	}
	return id, nil
}

// MaxSize returns the upload size limit in bytes.
func (u *UploadCoordinator) MaxSize() int64 {
	return u.maxSize
}

func (u *UploadCoordinator) validate(req domain.UploadRequest) error {
	fields := make(map[string]string)

	hasFile := req.File != nil && req.File.Content != nil && req.File.Name != ""
	if !hasFile {
		fields["file"] = "file is required"
	}
	if strings.TrimSpace(req.Title) == "" {
		fields["title"] = "title is required"
	}
	if len(fields) > 0 {
		return domain.NewValidationError(msgUploadMissing, fields)
	}

	ext := strings.ToLower(filepath.Ext(req.File.Name))
	if len(u.extensions) > 0 && !u.extensions[ext] {
		fields["file"] = fmt.Sprintf("unsupported file type %q", ext)
	} else if req.File.Size > u.maxSize {
		fields["file"] = fmt.Sprintf("file is %s, limit is %s",
			units.HumanSize(float64(req.File.Size)), units.HumanSize(float64(u.maxSize)))
	}
	if len(fields) > 0 {
		return domain.NewValidationError(msgUploadInvalid, fields)
	}
	return nil
}
