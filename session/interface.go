// Package session persists the authentication session: the bearer token, the
// cached user profile and the logged-in flag.
package session

import (
	"context"

	"roomrental/models"
)

// Record field names, shared by every backend.
const (
	KeyAuthToken  = "auth_token"
	KeyUser       = "user"
	KeyIsLoggedIn = "is_logged_in"
)

// Store is the credential store. SaveSession and Clear are atomic with respect to
// every read: a reader sees the full old session or the full new one.
//
// Reads never fail. A backend that cannot be read reports absence and logs why.
type Store interface {
	SaveSession(ctx context.Context, token string, user models.UserProfile) error
	Token(ctx context.Context) (string, bool)
	User(ctx context.Context) (*models.UserProfile, bool)
	// Session returns token and user from a single read.
	Session(ctx context.Context) (*models.Session, bool)
	IsLoggedIn(ctx context.Context) bool
	Clear(ctx context.Context) error
}

// record is the serialised session shared by the file, redis and mongo backends.
type record struct {
	Token      string              `json:"auth_token" bson:"auth_token"`
	User       *models.UserProfile `json:"user,omitempty" bson:"user,omitempty"`
	IsLoggedIn bool                `json:"is_logged_in" bson:"is_logged_in"`
}

func (r *record) session() (*models.Session, bool) {
	if r == nil || r.Token == "" || r.User == nil {
		return nil, false
	}
	return &models.Session{Token: r.Token, User: *r.User}, true
}

// reader adapts a whole-record loader into the read half of Store.
type reader struct {
	load func(ctx context.Context) *record
}

func (r reader) Token(ctx context.Context) (string, bool) {
	rec := r.load(ctx)
	if rec == nil || rec.Token == "" {
		return "", false
	}
	return rec.Token, true
}

func (r reader) User(ctx context.Context) (*models.UserProfile, bool) {
	rec := r.load(ctx)
	if rec == nil || rec.User == nil {
		return nil, false
	}
	u := *rec.User
	return &u, true
}

func (r reader) Session(ctx context.Context) (*models.Session, bool) {
	return r.load(ctx).session()
}

func (r reader) IsLoggedIn(ctx context.Context) bool {
	rec := r.load(ctx)
	return rec != nil && rec.IsLoggedIn
}
