package authRepo

import (
	"context"

	"roomrental/models"
	"roomrental/result"
	"roomrental/session"
	"roomrental/transport"
	"roomrental/utils"

	"go.uber.org/zap"
)

type AuthRepository interface {
	Login(ctx context.Context, username, password string) result.Result[models.AuthResponse]
	Register(ctx context.Context, req models.RegisterRequest) result.Result[models.AuthResponse]
	Logout(ctx context.Context)
	IsLoggedIn(ctx context.Context) bool
	CurrentUser(ctx context.Context) (*models.UserProfile, bool)
}

// DefaultAuthRepository talks to /api/auth and keeps the session in Store.
type DefaultAuthRepository struct {
	Client transport.Doer
	Store  session.Store
	Logger *zap.Logger
}

func NewAuthRepository(client transport.Doer, store session.Store, logger *zap.Logger) AuthRepository {
	return &DefaultAuthRepository{Client: client, Store: store, Logger: utils.OrNop(logger)}
}
