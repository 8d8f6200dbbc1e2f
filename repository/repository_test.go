package repository

import (
	"context"
	"testing"

	"roomrental/apitest"
	"roomrental/models"
	"roomrental/session"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginTokenIsSentOnLaterRequests(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	srv.AddUser("alice", "secret", "TENANT")
	srv.AddProperty(models.Property{Title: "Loft", PricePerMonth: decimal.NewFromInt(900), Available: true})

	store := session.NewMemoryStore()
	repos := NewSet(srv.Client(store), store, nil)
	ctx := context.Background()

	login := repos.Auth.Login(ctx, "alice", "secret")
	require.True(t, login.IsSuccess(), login.Message())
	t1 := login.Value().Token

	saved, ok := store.Token(ctx)
	require.True(t, ok)
	assert.Equal(t, t1, saved)

	props := repos.Properties.GetAllProperties(ctx)
	require.True(t, props.IsSuccess(), props.Message())
	assert.Equal(t, "Bearer "+t1, srv.LastAuthHeader())

	repos.Auth.Logout(ctx)
	props = repos.Properties.GetAllProperties(ctx)
	require.True(t, props.IsSuccess(), props.Message())
	assert.Empty(t, srv.LastAuthHeader())

	headers := srv.AuthHeaders()
	require.Len(t, headers, 3)
	assert.Empty(t, headers[0], "signin is sent before a token exists")
}

func TestEveryRequestCarriesARequestID(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	store := session.NewMemoryStore()
	repos := NewSet(srv.Client(store), store, nil)
	ctx := context.Background()

	repos.Properties.GetAllProperties(ctx)
	repos.Properties.GetAvailableProperties(ctx)

	ids := srv.RequestIDs()
	require.Len(t, ids, 2)
	assert.NotEmpty(t, ids[0])
	assert.NotEqual(t, ids[0], ids[1])
}
