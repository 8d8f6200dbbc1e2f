package transport

import (
	"context"
	"net/http"

	"roomrental/utils"

	"go.uber.org/zap"
)

// TokenSource yields the current bearer token, if any. session.Store satisfies it.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

// AuthRoundTripper attaches "Authorization: Bearer <token>" to every request while a
// token is available and passes the request through untouched otherwise. The token is
// looked up per request and never cached.
type AuthRoundTripper struct {
	Source TokenSource
	Next   http.RoundTripper
	Logger *zap.Logger
}

func (t *AuthRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	next := t.Next
	if next == nil {
		next = http.DefaultTransport
	}

	token, ok := t.Source.Token(req.Context())
	if !ok {
		utils.OrNop(t.Logger).Debug("no token available, sending anonymous request",
			zap.String("path", req.URL.Path))
		return next.RoundTrip(req)
	}

	authed := req.Clone(req.Context())
	authed.Header.Set("Authorization", "Bearer "+token)
	return next.RoundTrip(authed)
}
