package driving

import (
	"context"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

// UploadCoordinator validates and submits document uploads.
type UploadCoordinator interface {
	// Upload returns the new document id.
	Upload(ctx context.Context, req domain.UploadRequest) (string, error)
}
