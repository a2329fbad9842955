package domain

import "time"

// Default settings values.
const (
	DefaultAPIBaseURL          = "http://localhost:8000"
	DefaultAPITimeout          = 60 * time.Second
	DefaultRateLimit           = 10.0
	DefaultRateBurst           = 5
	DefaultFirebaseEndpoint    = "https://www.googleapis.com/identitytoolkit/v3/relyingparty/"
	DefaultFirebaseTokenURL    = "https://securetoken.googleapis.com/v1/token"
	DefaultMarkdownRendering   = true
	DefaultMarkdownWordWrapCol = 80
)

// AppSettings holds user configuration.
type AppSettings struct {
	API      APISettings
	Upload   UploadSettings
	Firebase FirebaseSettings
	Google   GoogleSettings
	Display  DisplaySettings
}

// APISettings configures the backend transport.
type APISettings struct {
	// BaseURL is the backend root, e.g. http://localhost:8000.
	BaseURL string

	// Timeout bounds each request.
	Timeout time.Duration

	// RateLimit is the sustained requests per second; zero disables throttling.
	RateLimit float64

	// Burst is the limiter bucket size.
	Burst int
}

// UploadSettings configures client-side upload validation.
type UploadSettings struct {
	// MaxSize is a human readable size such as "10MB".
	MaxSize string

	// Extensions lists accepted file extensions with their leading dot.
	Extensions []string
}

// FirebaseSettings configures the identity provider.
type FirebaseSettings struct {
	APIKey        string
	Endpoint      string
	TokenEndpoint string
}

// GoogleSettings configures the installed-app OAuth client used for
// Google sign in. Sign in with Google is unavailable without a ClientID.
type GoogleSettings struct {
	ClientID     string
	ClientSecret string
}

// DisplaySettings configures terminal output.
type DisplaySettings struct {
	// Markdown renders bot answers as markdown.
	Markdown bool

	// WordWrap is the markdown wrap column.
	WordWrap int
}

// DefaultSettings returns the default settings.
func DefaultSettings() AppSettings {
	return AppSettings{
		API: APISettings{
			BaseURL:   DefaultAPIBaseURL,
			Timeout:   DefaultAPITimeout,
			RateLimit: DefaultRateLimit,
			Burst:     DefaultRateBurst,
		},
		Upload: UploadSettings{
			MaxSize:    DefaultMaxUploadSize,
			Extensions: append([]string(nil), DefaultUploadExtensions...),
		},
		Firebase: FirebaseSettings{
			Endpoint:      DefaultFirebaseEndpoint,
			TokenEndpoint: DefaultFirebaseTokenURL,
		},
		Display: DisplaySettings{
			Markdown: DefaultMarkdownRendering,
			WordWrap: DefaultMarkdownWordWrapCol,
		},
	}
}
