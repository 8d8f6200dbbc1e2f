package authRepo

import (
	"context"
	"fmt"
	"net/http"

	"roomrental/models"
	"roomrental/repository/remote"
	"roomrental/result"
	"roomrental/transport"

	"go.uber.org/zap"
)

const (
	signinPath = "api/auth/signin"
	signupPath = "api/auth/signup"
)

// Login authenticates and, on success, persists the token and derived profile.
func (r *DefaultAuthRepository) Login(ctx context.Context, username, password string) result.Result[models.AuthResponse] {
	req := models.LoginRequest{Username: username, Password: password}
	if err := remote.Validate(req); err != nil {
		return result.Failure[models.AuthResponse](err)
	}
	res := remote.Call[models.AuthResponse](ctx, r.Client, r.Logger, "login", remoteRequest(signinPath, req))
	return r.persist(ctx, "login", res)
}

// Register creates an account and logs it in, like Login.
func (r *DefaultAuthRepository) Register(ctx context.Context, req models.RegisterRequest) result.Result[models.AuthResponse] {
	if err := remote.Validate(req); err != nil {
		return result.Failure[models.AuthResponse](err)
	}
	res := remote.Call[models.AuthResponse](ctx, r.Client, r.Logger, "register", remoteRequest(signupPath, req))
	return r.persist(ctx, "register", res)
}

// Logout clears the session. A store failure is logged, never returned.
func (r *DefaultAuthRepository) Logout(ctx context.Context) {
	if err := r.Store.Clear(ctx); err != nil {
		r.Logger.Error("failed to clear session on logout", zap.Error(err))
	}
}

func (r *DefaultAuthRepository) IsLoggedIn(ctx context.Context) bool {
	return r.Store.IsLoggedIn(ctx)
}

func (r *DefaultAuthRepository) CurrentUser(ctx context.Context) (*models.UserProfile, bool) {
	return r.Store.User(ctx)
}

func (r *DefaultAuthRepository) persist(ctx context.Context, op string, res result.Result[models.AuthResponse]) result.Result[models.AuthResponse] {
	auth, err := res.Get()
	if err != nil {
		return res
	}
	if auth.Token == "" {
		r.Logger.Warn("auth response without token", zap.String("op", op))
		return result.Failure[models.AuthResponse](fmt.Errorf("failed to %s: server returned no token", op))
	}
	if _, ok := models.ParseRole(auth.Role); !ok {
		r.Logger.Warn("unknown role, defaulting to tenant",
			zap.String("role", auth.Role), zap.String("username", auth.Username))
	}
	if err := r.Store.SaveSession(ctx, auth.Token, auth.Profile()); err != nil {
		r.Logger.Error("failed to persist session", zap.String("op", op), zap.Error(err))
		return result.Failure[models.AuthResponse](fmt.Errorf("failed to %s: could not save session: %w", op, err))
	}
	return res
}

func remoteRequest(path string, body any) transport.Request {
	return transport.Request{Method: http.MethodPost, Path: path, Body: body}
}
