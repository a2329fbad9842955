// Package oauth runs browser-based OAuth sign in for the CLI: a loopback
// callback server, a browser launcher and the Google authorization code
// flow with PKCE.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"sync"
	"time"
)

// CallbackServer receives the authorization redirect on 127.0.0.1.
type CallbackServer struct {
	mu            sync.Mutex
	port          int
	expectedState string
	codeChan      chan string
	errChan       chan error
	server        *http.Server
}

// NewCallbackServer creates a callback server that accepts only
// redirects carrying expectedState. Port 0 picks a free port on Start.
func NewCallbackServer(port int, expectedState string) *CallbackServer {
	return &CallbackServer{
		port:          port,
		expectedState: expectedState,
		codeChan:      make(chan string, 1),
		errChan:       make(chan error, 1),
	}
}

// Start listens and serves /callback in the background.
func (s *CallbackServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", s.handleCallback)

	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		s.port = tcpAddr.Port
	}

	srv := &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	s.server = srv
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.fail(err)
		}
	}()

	return nil
}

func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if errParam := query.Get("error"); errParam != "" {
		desc := query.Get("error_description")
		s.fail(fmt.Errorf("oauth error: %s %s", errParam, desc))
		fmt.Fprint(w, resultPage("Sign in failed", desc))
		return
	}

	if query.Get("state") != s.expectedState {
		s.fail(errors.New("state mismatch in authorization callback"))
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, resultPage("Sign in failed", "The request could not be verified."))
		return
	}

	code := query.Get("code")
	if code == "" {
		s.fail(errors.New("no authorization code received"))
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, resultPage("Sign in failed", "No authorization code was received."))
		return
	}

	select {
	case s.codeChan <- code:
	default:
	}
	fmt.Fprint(w, resultPage("Signed in", "You can close this window and return to docchat."))
}

func (s *CallbackServer) fail(err error) {
	select {
	case s.errChan <- err:
	default:
	}
}

// WaitForCode blocks until a code arrives, the callback fails or ctx ends.
func (s *CallbackServer) WaitForCode(ctx context.Context) (string, error) {
	select {
	case code := <-s.codeChan:
		return code, nil
	case err := <-s.errChan:
		return "", err
	case <-ctx.Done():
		return "", fmt.Errorf("waiting for authorization callback: %w", ctx.Err())
	}
}

// Stop shuts the server down. Stopping twice is harmless.
func (s *CallbackServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.server.Shutdown(ctx)
	s.server = nil
	return err
}

// Port returns the listening port.
func (s *CallbackServer) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

// RedirectURI returns the loopback redirect URI.
func (s *CallbackServer) RedirectURI() string {
	return fmt.Sprintf("http://127.0.0.1:%d/callback", s.Port())
}

func resultPage(title, message string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <title>docchat</title>
    <style>
        body { font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; display: flex;
               justify-content: center; align-items: center; height: 100vh; margin: 0; background: #FAFAFA; }
        .card { text-align: center; background: white; padding: 48px 64px; border-radius: 16px;
                border: 1px solid #E5E7EB; }
        h1 { color: #7C3AED; margin: 0 0 8px 0; font-size: 24px; }
        p { color: #6B7280; margin: 0; }
    </style>
</head>
<body>
    <div class="card">
        <h1>%s</h1>
        <p>%s</p>
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(message))
}

// OpenBrowser opens the default browser at url.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
