package driven

import (
	"context"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

// DocumentAPI is the document half of the backend.
// Every call authenticates with the persisted identity's token and fails
// with an authentication error before any network I/O when there is none.
type DocumentAPI interface {
	// ListDocuments returns all documents owned by the identity.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// UploadDocument sends the file and title as one multipart request
	// and returns the new document id.
	UploadDocument(ctx context.Context, req domain.UploadRequest) (string, error)

	// DeleteDocument deletes a document.
	DeleteDocument(ctx context.Context, id string) error
}

// ChatAPI is the chat half of the backend.
type ChatAPI interface {
	// Chat sends a message about a document and returns the answer.
	Chat(ctx context.Context, documentID, message string) (string, error)

	// ChatHistory returns the stored exchanges for a document.
	ChatHistory(ctx context.Context, documentID string) ([]domain.ChatEntry, error)
}

// UserAPI is the user/profile half of the backend.
type UserAPI interface {
	// RegisterUser creates the backend user record after provider sign up.
	RegisterUser(ctx context.Context, req domain.SignUpRequest) (*domain.Profile, error)

	// RegisterGoogleUser creates or fetches the record for a Google identity.
	RegisterGoogleUser(ctx context.Context) (*domain.Profile, error)

	// GetProfile returns the current user's profile.
	GetProfile(ctx context.Context) (*domain.Profile, error)

	// UpdateProfile applies a partial update and returns the result.
	UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.Profile, error)

	// UploadProfileImage uploads an avatar and returns its URL.
	UploadProfileImage(ctx context.Context, file domain.File) (string, error)
}

// BackendAPI is the full backend contract.
type BackendAPI interface {
	DocumentAPI
	ChatAPI
	UserAPI
}
