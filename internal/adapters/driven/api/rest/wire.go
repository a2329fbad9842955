package rest

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

// timestamp decodes the backend's ISO-8601 times, with or without a zone.
// Times without a zone are UTC.
type timestamp time.Time

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func (t *timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*t = timestamp{}
		return nil
	}
	var lastErr error
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			*t = timestamp(parsed)
			return nil
		}
		lastErr = err
	}
	return lastErr
}

type documentJSON struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	UploadedAt timestamp `json:"uploaded_at"`
	FileURL    string    `json:"file_url"`
}

func (d documentJSON) toDomain() domain.Document {
	return domain.Document{
		ID:         d.ID,
		Title:      d.Title,
		UploadedAt: time.Time(d.UploadedAt),
		FileURL:    d.FileURL,
	}
}

type listDocumentsResponse struct {
	Documents []documentJSON `json:"documents"`
}

type uploadResponse struct {
	DocumentID string `json:"document_id"`
	ID         string `json:"id"`
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Answer string `json:"answer"`
}

type chatEntryJSON struct {
	ID          string    `json:"id"`
	Timestamp   timestamp `json:"timestamp"`
	UserMessage string    `json:"user_message"`
	BotResponse string    `json:"bot_response"`
}

type chatHistoryResponse struct {
	ChatHistory []chatEntryJSON `json:"chat_history"`
}

type profileJSON struct {
	ID           string `json:"id"`
	UID          string `json:"uid"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Location     string `json:"location"`
	Bio          string `json:"bio"`
	ProfileImage string `json:"profile_image"`
}

func (p profileJSON) toDomain() *domain.Profile {
	id := p.ID
	if id == "" {
		id = p.UID
	}
	return &domain.Profile{
		ID:       id,
		Email:    p.Email,
		Name:     p.Name,
		Phone:    p.Phone,
		Location: p.Location,
		Bio:      p.Bio,
		ImageURL: p.ProfileImage,
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Bio      string `json:"bio,omitempty"`
}

type profileUpdateRequest struct {
	Name     *string `json:"name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Location *string `json:"location,omitempty"`
	Bio      *string `json:"bio,omitempty"`
}

type imageResponse struct {
	ProfileImage string `json:"profile_image"`
	ImageURL     string `json:"image_url"`
}
