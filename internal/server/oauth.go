package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
)

// OAuthResult carries the outcome of the authorization code flow.
type OAuthResult struct {
	Token *oauth2.Token
	err   error
}

func (o *OAuthResult) Error() error {
	return o.err
}

// OAuthHandler receives the Spotify redirect, validates the state token,
// and exchanges the authorization code for an access token. A handler
// accepts exactly one callback; later hits are rejected.
type OAuthHandler struct {
	config  *oauth2.Config
	state   string
	results chan OAuthResult

	mu       sync.Mutex
	consumed bool
	sendOnce sync.Once
}

// NewOAuthHandler creates a handler bound to a single state token. The
// state should come from [shared.GenerateState] so it cannot be guessed.
func NewOAuthHandler(config *oauth2.Config, state string) *OAuthHandler {
	return &OAuthHandler{
		config:  config,
		state:   state,
		results: make(chan OAuthResult, 1),
	}
}

// Routes returns the paths this handler serves.
func (h *OAuthHandler) Routes() []string {
	return []string{"/callback"}
}

// Result returns the channel the flow outcome is delivered on. Exactly one
// value is sent, then the channel is closed.
func (h *OAuthHandler) Result() <-chan OAuthResult {
	return h.results
}

func (h *OAuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.consumed {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.consumed = true
	h.mu.Unlock()

	query := r.URL.Query()
	if query.Get("state") != h.state {
		h.fail(w, http.StatusBadRequest, fmt.Errorf("state mismatch in callback"))
		return
	}

	code := query.Get("code")
	if code == "" {
		err := fmt.Errorf("authorization denied: %s (%s)", query.Get("error"), query.Get("error_description"))
		h.fail(w, http.StatusBadRequest, err)
		return
	}

	token, err := h.config.Exchange(context.Background(), code)
	if err != nil {
		h.fail(w, http.StatusInternalServerError, fmt.Errorf("token exchange failed: %w", err))
		return
	}

	h.deliver(OAuthResult{Token: token})

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, successPage)
}

func (h *OAuthHandler) fail(w http.ResponseWriter, status int, err error) {
	h.deliver(OAuthResult{err: err})
	http.Error(w, err.Error(), status)
}

func (h *OAuthHandler) deliver(result OAuthResult) {
	h.sendOnce.Do(func() {
		h.results <- result
		close(h.results)
	})
}

const successPage = `<!DOCTYPE html>
<html>
<head>
    <title>apx - Connected</title>
    <style>
        body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center;
               height: 100vh; margin: 0; background: #121212; color: #fff; }
        main { text-align: center; padding: 2rem 3rem; border-radius: 8px;
               background: #1e1e1e; }
        h1 { color: #1DB954; margin: 0 0 0.75rem 0; }
        p { color: #b3b3b3; margin: 0; }
    </style>
</head>
<body>
    <main>
        <h1>Spotify connected</h1>
        <p>You can close this tab and return to the terminal.</p>
    </main>
</body>
</html>
`
