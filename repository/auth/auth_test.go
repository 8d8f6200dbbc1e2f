package authRepo

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"roomrental/apitest"
	"roomrental/models"
	"roomrental/result"
	"roomrental/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*apitest.Server, *session.MemoryStore, AuthRepository) {
	t.Helper()
	srv := apitest.NewServer()
	t.Cleanup(srv.Close)
	store := session.NewMemoryStore()
	return srv, store, NewAuthRepository(srv.Client(store), store, nil)
}

func TestLoginPersistsSession(t *testing.T) {
	srv, store, repo := setup(t)
	alice := srv.AddUser("alice", "secret", "LANDLORD")
	ctx := context.Background()

	res := repo.Login(ctx, "alice", "secret")
	require.True(t, res.IsSuccess(), res.Message())
	auth := res.Value()
	assert.Equal(t, "Bearer", auth.Type)
	assert.NotEmpty(t, auth.Token)

	token, ok := store.Token(ctx)
	require.True(t, ok)
	assert.Equal(t, auth.Token, token)

	user, ok := repo.CurrentUser(ctx)
	require.True(t, ok)
	assert.Equal(t, alice.ID, user.ID)
	assert.Equal(t, models.RoleLandlord, user.Role)
	assert.True(t, repo.IsLoggedIn(ctx))
}

func TestLoginRejected(t *testing.T) {
	srv, store, repo := setup(t)
	srv.AddUser("alice", "secret", "TENANT")
	ctx := context.Background()

	res := repo.Login(ctx, "alice", "wrong")
	require.True(t, res.IsFailure())

	var re *result.RemoteError
	require.ErrorAs(t, res.Err(), &re)
	assert.Equal(t, http.StatusUnauthorized, re.StatusCode)
	assert.Equal(t, "failed to login: 401 - Unauthorized - Bad credentials", res.Message())
	assert.Contains(t, re.Body, "Bad credentials")
	assert.False(t, store.IsLoggedIn(ctx))
}

func TestLoginUnknownRoleFallsBackToTenant(t *testing.T) {
	srv, store, repo := setup(t)
	srv.AddUser("carol", "pw", "SUPERUSER")
	ctx := context.Background()

	require.True(t, repo.Login(ctx, "carol", "pw").IsSuccess())
	user, ok := store.User(ctx)
	require.True(t, ok)
	assert.Equal(t, models.RoleTenant, user.Role)
}

func TestLoginValidatesBeforeSending(t *testing.T) {
	srv, _, repo := setup(t)

	res := repo.Login(context.Background(), "", "secret")
	var ve *result.ValidationError
	require.ErrorAs(t, res.Err(), &ve)
	assert.Equal(t, "username", ve.Field)
	assert.Equal(t, 0, srv.TotalCalls())
}

func TestLoginEmptyBodyIsFailure(t *testing.T) {
	srv, store, repo := setup(t)
	srv.Respond(apitest.RouteSignin, http.StatusOK, "")

	res := repo.Login(context.Background(), "alice", "secret")
	var ebe *result.EmptyBodyError
	require.ErrorAs(t, res.Err(), &ebe)
	assert.False(t, store.IsLoggedIn(context.Background()))
}

func TestRegisterPersistsSession(t *testing.T) {
	_, store, repo := setup(t)
	ctx := context.Background()
	phone := "555-0101"

	res := repo.Register(ctx, models.RegisterRequest{
		Username:    "dave",
		Email:       "dave@example.com",
		Password:    "pw",
		FirstName:   "Dave",
		LastName:    "Jones",
		PhoneNumber: &phone,
		UserType:    models.RoleTenant,
	})
	require.True(t, res.IsSuccess(), res.Message())

	user, ok := store.User(ctx)
	require.True(t, ok)
	assert.Equal(t, "dave", user.Username)
	assert.Equal(t, "Dave", user.FirstName)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	srv, _, repo := setup(t)
	srv.AddUser("dave", "pw", "TENANT")

	res := repo.Register(context.Background(), models.RegisterRequest{
		Username: "dave", Email: "dave@example.com", Password: "pw",
		FirstName: "Dave", LastName: "Jones", UserType: models.RoleTenant,
	})
	assert.Equal(t, http.StatusBadRequest, result.StatusCode(res.Err()))
	assert.Contains(t, res.Message(), "Username is already taken")
}

func TestRegisterRejectsBadEmail(t *testing.T) {
	srv, _, repo := setup(t)

	res := repo.Register(context.Background(), models.RegisterRequest{
		Username: "dave", Email: "not-an-email", Password: "pw",
		FirstName: "Dave", LastName: "Jones", UserType: models.RoleTenant,
	})
	var ve *result.ValidationError
	require.ErrorAs(t, res.Err(), &ve)
	assert.Equal(t, "email", ve.Field)
	assert.Equal(t, 0, srv.TotalCalls())
}

func TestLogoutClearsSession(t *testing.T) {
	srv, store, repo := setup(t)
	srv.AddUser("alice", "secret", "TENANT")
	ctx := context.Background()

	require.True(t, repo.Login(ctx, "alice", "secret").IsSuccess())
	repo.Logout(ctx)

	assert.False(t, repo.IsLoggedIn(ctx))
	_, ok := store.Token(ctx)
	assert.False(t, ok)
	_, ok = repo.CurrentUser(ctx)
	assert.False(t, ok)
}

type failingStore struct {
	*session.MemoryStore
}

func (failingStore) SaveSession(context.Context, string, models.UserProfile) error {
	return errors.New("disk full")
}

func (failingStore) Clear(context.Context) error {
	return errors.New("disk full")
}

func TestLoginFailsWhenSessionCannotBeSaved(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	srv.AddUser("alice", "secret", "TENANT")
	store := failingStore{session.NewMemoryStore()}
	repo := NewAuthRepository(srv.Client(store), store, nil)

	res := repo.Login(context.Background(), "alice", "secret")
	require.True(t, res.IsFailure())
	assert.Contains(t, res.Message(), "disk full")

	// Logout never surfaces store errors.
	assert.NotPanics(t, func() { repo.Logout(context.Background()) })
}
