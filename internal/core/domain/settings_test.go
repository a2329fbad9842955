package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, DefaultAPIBaseURL, s.API.BaseURL)
	assert.Equal(t, DefaultAPITimeout, s.API.Timeout)
	assert.Equal(t, DefaultMaxUploadSize, s.Upload.MaxSize)
	assert.Equal(t, DefaultUploadExtensions, s.Upload.Extensions)
	assert.True(t, s.Display.Markdown)
	assert.Empty(t, s.Google.ClientID)

	s.Upload.Extensions[0] = ".exe"
	assert.Equal(t, ".pdf", DefaultUploadExtensions[0])
}
