package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"roomrental/apitest"
	"roomrental/models"
	"roomrental/session"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	srv   *apitest.Server
	store *session.MemoryStore
	out   *bytes.Buffer
	app   *app
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	srv := apitest.NewServer()
	t.Cleanup(srv.Close)
	store := session.NewMemoryStore()
	out := &bytes.Buffer{}
	return &harness{srv: srv, store: store, out: out, app: newApp(srv.Client(store), store, nil, out)}
}

func (h *harness) run(t *testing.T, args ...string) error {
	t.Helper()
	h.out.Reset()
	return h.app.dispatch(context.Background(), args)
}

func (h *harness) decode(t *testing.T, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(h.out.Bytes(), v))
}

func TestLoginWhoamiLogout(t *testing.T) {
	h := newHarness(t)
	h.srv.AddUser("alice", "secret", "TENANT")

	require.NoError(t, h.run(t, "login", "alice", "secret"))
	var profile models.UserProfile
	h.decode(t, &profile)
	assert.Equal(t, "alice", profile.Username)

	require.NoError(t, h.run(t, "whoami"))
	var who whoamiOutput
	h.decode(t, &who)
	assert.True(t, who.LoggedIn)
	assert.False(t, who.Expired)
	require.NotNil(t, who.ExpiresAt)

	require.NoError(t, h.run(t, "logout"))
	require.NoError(t, h.run(t, "whoami"))
	who = whoamiOutput{}
	h.decode(t, &who)
	assert.False(t, who.LoggedIn)
}

func TestLoginFailurePrintsMessage(t *testing.T) {
	h := newHarness(t)
	h.srv.AddUser("alice", "secret", "TENANT")

	err := h.run(t, "login", "alice", "nope")
	require.Error(t, err)
	assert.Equal(t, "failed to login: 401 - Unauthorized - Bad credentials", err.Error())
	assert.Empty(t, h.out.String())
}

func TestRegister(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, "register", "--username", "lena", "--email", "lena@example.com",
		"--password", "pw", "--first", "Lena", "--last", "Ng", "--type", "landlord"))
	var profile models.UserProfile
	h.decode(t, &profile)
	assert.Equal(t, models.RoleLandlord, profile.Role)
	assert.True(t, h.store.IsLoggedIn(context.Background()))
}

func TestBookFlow(t *testing.T) {
	h := newHarness(t)
	h.srv.AddUser("alice", "secret", "TENANT")
	p := h.srv.AddProperty(models.Property{Title: "Loft", PricePerMonth: decimal.NewFromInt(900), LandlordID: 2, Available: true})
	require.NoError(t, h.run(t, "login", "alice", "secret"))

	require.NoError(t, h.run(t, "availability", "1", "2025-08-01", "2025-08-05"))
	var avail map[string]bool
	h.decode(t, &avail)
	assert.True(t, avail["available"])

	require.NoError(t, h.run(t, "book", "1", "2025-08-01", "2025-08-05"))
	var b models.Booking
	h.decode(t, &b)
	require.NotNil(t, b.ID)
	assert.Equal(t, *p.ID, b.PropertyID)
	assert.Equal(t, models.BookingPending, b.Status)

	err := h.run(t, "book", "1", "2025-08-03", "2025-08-04")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not available")

	require.NoError(t, h.run(t, "confirm", "1"))
	h.decode(t, &b)
	assert.Equal(t, models.BookingConfirmed, b.Status)

	require.NoError(t, h.run(t, "status", "1", "completed"))
	h.decode(t, &b)
	assert.Equal(t, models.BookingCompleted, b.Status)

	require.NoError(t, h.run(t, "bookings", "--property", "1"))
	var list []models.Booking
	h.decode(t, &list)
	assert.Len(t, list, 1)
}

func TestBookRejectsInvertedDatesWithoutCalls(t *testing.T) {
	h := newHarness(t)
	h.srv.AddUser("alice", "secret", "TENANT")
	require.NoError(t, h.run(t, "login", "alice", "secret"))
	before := h.srv.TotalCalls()

	err := h.run(t, "book", "1", "2025-08-05", "2025-08-01")
	require.Error(t, err)
	assert.Equal(t, before, h.srv.TotalCalls())
}

func TestSearchAndPropertyCommands(t *testing.T) {
	h := newHarness(t)
	h.srv.AddProperty(models.Property{Title: "A", City: "Austin", PricePerMonth: decimal.NewFromInt(800), Bedrooms: 1, Available: true})
	h.srv.AddProperty(models.Property{Title: "B", City: "Austin", PricePerMonth: decimal.NewFromInt(1800), Bedrooms: 3, Available: true})

	require.NoError(t, h.run(t, "search", "--city", "austin", "--bedrooms", "2"))
	var page models.PropertyPage
	h.decode(t, &page)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "B", page.Content[0].Title)

	require.NoError(t, h.run(t, "property", "1"))
	var p models.Property
	h.decode(t, &p)
	assert.Equal(t, "A", p.Title)

	assert.Error(t, h.run(t, "search", "--min-price", "cheap"))
}

func TestCreateAndDeletePropertyCommands(t *testing.T) {
	h := newHarness(t)
	h.srv.AddUser("lena", "pw", "LANDLORD")
	require.NoError(t, h.run(t, "login", "lena", "pw"))

	file := filepath.Join(t.TempDir(), "loft.json")
	require.NoError(t, os.WriteFile(file, []byte(`{
		"title": "Loft", "address": "1 Main", "city": "Austin", "state": "TX",
		"zipCode": "73301", "country": "US", "pricePerMonth": 1200,
		"bedrooms": 1, "bathrooms": 1, "areaSqft": 500, "landlordId": 1,
		"amenities": ["WIFI"]
	}`), 0o600))

	require.NoError(t, h.run(t, "create-property", file))
	var created models.Property
	h.decode(t, &created)
	require.NotNil(t, created.ID)
	assert.Equal(t, []models.Amenity{models.AmenityWifi}, created.Amenities)

	require.NoError(t, h.run(t, "delete-property", "1"))
	assert.Error(t, h.run(t, "property", "1"))
}

func TestUsageErrors(t *testing.T) {
	h := newHarness(t)

	err := h.run(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usage: roomrental <command>")

	err = h.run(t, "teleport")
	assert.Contains(t, err.Error(), `unknown command "teleport"`)

	err = h.run(t, "property")
	assert.EqualError(t, err, "usage: roomrental property <id>")

	err = h.run(t, "property", "abc")
	assert.EqualError(t, err, `invalid id "abc"`)

	err = h.run(t, "bookings", "--tenant", "1", "--landlord", "2")
	assert.Contains(t, err.Error(), "usage: roomrental bookings")
	assert.Equal(t, 0, h.srv.TotalCalls())
}

func TestHealth(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, "health"))
	var status struct {
		Healthy bool            `json:"healthy"`
		Checks  map[string]bool `json:"checks"`
	}
	h.decode(t, &status)
	assert.True(t, status.Healthy)
	assert.Equal(t, map[string]bool{"api": true, "session": true}, status.Checks)

	h.srv.Close()
	err := h.run(t, "health")
	assert.EqualError(t, err, "unhealthy")
	h.decode(t, &status)
	assert.False(t, status.Checks["api"])
}
