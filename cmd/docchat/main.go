// Command docchat chats with uploaded documents from the terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/docchat-cli/internal/adapters/driven/api/rest"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driven/auth"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driven/identity/firebase"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/oauth"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/watcher"
	"github.com/custodia-labs/docchat-cli/internal/core/services"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	for _, arg := range os.Args[1:] {
		if arg == "-v" || arg == "--verbose" {
			logger.SetVerbose(true)
		}
	}

	configDir, err := file.DefaultDir()
	if err != nil {
		return report(err)
	}
	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return report(fmt.Errorf("failed to load config: %w", err))
	}
	settingsService := services.NewSettingsService(configStore)
	settings := settingsService.Get()
	logger.Section("Startup")
	logger.Info("config: %s", configStore.Path())
	logger.Info("backend: %s", settings.API.BaseURL)

	dataDir := filepath.Join(configDir, "data")
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return report(fmt.Errorf("failed to open local storage: %w", err))
	}
	defer store.Close()
	logger.Info("storage: %s", store.Path())
	storage := store.LocalStorage()

	// The provider refreshes expired tokens on demand; without it sign in
	// is disabled and an expired token fails the call.
	var provider *firebase.Provider
	var tokenOpts []auth.Option
	if settings.Firebase.APIKey != "" {
		provider, err = firebase.NewProvider(ctx, firebase.Config{
			APIKey:        settings.Firebase.APIKey,
			Endpoint:      settings.Firebase.Endpoint,
			TokenEndpoint: settings.Firebase.TokenEndpoint,
			Storage:       storage,
		})
		if err != nil {
			return report(err)
		}
		tokenOpts = append(tokenOpts, auth.WithRefresher(provider))
	} else {
		logger.Debug("auth: firebase.api_key not set, sign in disabled")
	}

	client, err := rest.NewClient(rest.Config{
		BaseURL:   settings.API.BaseURL,
		Timeout:   settings.API.Timeout,
		RateLimit: settings.API.RateLimit,
		Burst:     settings.API.Burst,
	}, auth.NewPersistedTokenProvider(storage, tokenOpts...))
	if err != nil {
		return report(err)
	}

	session := services.NewSessionStore(storage)
	if err := session.Reload(ctx); err != nil {
		logger.Warn("session: %v", err)
	}

	upload, err := services.NewUploadCoordinator(client, services.UploadConfig{
		MaxSize:    settings.Upload.MaxSize,
		Extensions: settings.Upload.Extensions,
	})
	if err != nil {
		return report(err)
	}
	profile := services.NewProfileService(client)
	workspace := services.NewWorkspace(
		session,
		services.NewDocumentRegistry(client),
		services.NewChatSession(client),
		upload,
		profile,
	)
	defer workspace.Close()

	svc := cli.Services{
		Session:   session,
		Workspace: workspace,
		Profile:   profile,
		Settings:  settingsService,
		Selection: storage,
	}

	// The provider session is restored by the long-running commands only,
	// so one-shot commands make no network call before they run.
	if provider != nil {
		svc.Auth = services.NewAuthService(provider, client, session)
	}

	if settings.Google.ClientID != "" {
		google, err := oauth.NewGoogleSignIn(oauth.GoogleConfig{
			ClientID:     settings.Google.ClientID,
			ClientSecret: settings.Google.ClientSecret,
			Prompt: func(url string) {
				fmt.Fprintf(os.Stderr, "If the browser does not open, visit:\n  %s\n", url)
			},
		})
		if err != nil {
			return report(err)
		}
		svc.Google = google
	}

	w, err := watcher.New(store.DataDir(), sqlite.DBFileName, session, 0)
	if err != nil {
		logger.Warn("%v", err)
	} else if err := w.Start(ctx); err != nil {
		logger.Warn("%v", err)
		_ = w.Close()
	} else {
		defer w.Close()
	}

	cli.SetServices(svc)
	cli.SetVersion(version)
	return cli.Execute(ctx)
}

// report prints startup errors, which happen before cobra can print them.
func report(err error) error {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return err
}
