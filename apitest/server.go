// Package apitest runs an in-memory stand-in for the rental API. It records the
// calls it receives so tests can assert on request counts and headers.
package apitest

import (
	"fmt"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"time"

	"roomrental/models"
	"roomrental/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// Route keys, as returned by Calls. They are "METHOD <gin route pattern>".
const (
	RouteSignin              = "POST /api/auth/signin"
	RouteSignup              = "POST /api/auth/signup"
	RouteProperties          = "GET /api/properties"
	RouteAvailableProperties = "GET /api/properties/available"
	RouteProperty            = "GET /api/properties/:id"
	RouteSearchProperties    = "GET /api/properties/search"
	RouteLandlordProperties  = "GET /api/properties/landlord/:landlordId"
	RouteCreateProperty      = "POST /api/properties"
	RouteUpdateProperty      = "PUT /api/properties/:id"
	RouteDeleteProperty      = "DELETE /api/properties/:id"
	RouteBookings            = "GET /api/bookings"
	RouteBooking             = "GET /api/bookings/:id"
	RouteTenantBookings      = "GET /api/bookings/tenant/:tenantId"
	RouteLandlordBookings    = "GET /api/bookings/landlord/:landlordId"
	RoutePropertyBookings    = "GET /api/bookings/property/:propertyId"
	RouteAvailability        = "GET /api/bookings/property/:propertyId/availability"
	RouteCreateBooking       = "POST /api/bookings"
	RouteBookingStatus       = "PUT /api/bookings/:id/status"
	RouteConfirmBooking      = "PUT /api/bookings/:id/confirm"
	RouteCancelBooking       = "PUT /api/bookings/:id/cancel"
	RouteRejectBooking       = "PUT /api/bookings/:id/reject"
)

const tokenTTL = time.Hour

type account struct {
	profile      models.UserProfile
	role         string
	passwordHash []byte
}

type canned struct {
	status int
	body   string
}

// Server is a running fake API. Embedding httptest.Server provides URL and Close.
type Server struct {
	*httptest.Server

	secret []byte

	mu          sync.Mutex
	accounts    map[string]*account
	properties  map[int64]models.Property
	bookings    map[int64]models.Booking
	idempotency map[string]int64
	nextUserID  int64
	nextPropID  int64
	nextBookID  int64

	calls       map[string]int
	authHeaders []string
	requestIDs  []string
	canned      map[string]canned
}

// NewServer starts a fake API with no data.
func NewServer() *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{
		secret:      []byte("apitest-secret"),
		accounts:    make(map[string]*account),
		properties:  make(map[int64]models.Property),
		bookings:    make(map[int64]models.Booking),
		idempotency: make(map[string]int64),
		calls:       make(map[string]int),
		canned:      make(map[string]canned),
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.recordCalls(), s.cannedResponses())

	auth := r.Group("/api/auth")
	{
		auth.POST("/signin", s.signin)
		auth.POST("/signup", s.signup)
	}

	props := r.Group("/api/properties")
	{
		props.GET("", s.listProperties)
		props.GET("/available", s.listAvailableProperties)
		props.GET("/search", s.searchProperties)
		props.GET("/landlord/:landlordId", s.listLandlordProperties)
		props.GET("/:id", s.getProperty)

		protected := props.Group("")
		protected.Use(s.requireToken())
		protected.POST("", s.createProperty)
		protected.PUT("/:id", s.updateProperty)
		protected.DELETE("/:id", s.deleteProperty)
	}

	bookings := r.Group("/api/bookings")
	bookings.Use(s.requireToken())
	{
		bookings.GET("", s.listBookings)
		bookings.GET("/:id", s.getBooking)
		bookings.GET("/tenant/:tenantId", s.listTenantBookings)
		bookings.GET("/landlord/:landlordId", s.listLandlordBookings)
		bookings.GET("/property/:propertyId", s.listPropertyBookings)
		bookings.GET("/property/:propertyId/availability", s.checkAvailability)
		bookings.POST("", s.createBooking)
		bookings.PUT("/:id/status", s.updateBookingStatus)
		bookings.PUT("/:id/confirm", s.transitionTo(models.BookingConfirmed))
		bookings.PUT("/:id/cancel", s.transitionTo(models.BookingCancelled))
		bookings.PUT("/:id/reject", s.transitionTo(models.BookingRejected))
	}
	return r
}

// AddUser registers an account. role is sent back verbatim on signin, so an
// unknown role can be exercised.
func (s *Server) AddUser(username, password, role string) models.UserProfile {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(fmt.Sprintf("apitest: hash password: %v", err))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addAccountLocked(username, username+"@example.com", username, "", nil, role, hash)
}

func (s *Server) addAccountLocked(username, email, first, last string, phone *string, role string, hash []byte) models.UserProfile {
	s.nextUserID++
	parsed, _ := models.ParseRole(role)
	profile := models.UserProfile{
		ID:          s.nextUserID,
		Username:    username,
		Email:       email,
		FirstName:   first,
		LastName:    last,
		PhoneNumber: phone,
		Role:        parsed,
	}
	s.accounts[username] = &account{profile: profile, role: role, passwordHash: hash}
	return profile
}

// TokenFor issues a valid bearer token for an existing user.
func (s *Server) TokenFor(username string) string {
	s.mu.Lock()
	acc, ok := s.accounts[username]
	s.mu.Unlock()
	if !ok {
		panic(fmt.Sprintf("apitest: unknown user %q", username))
	}
	token, err := s.issueToken(acc.profile)
	if err != nil {
		panic(fmt.Sprintf("apitest: issue token: %v", err))
	}
	return token
}

func (s *Server) issueToken(p models.UserProfile) (string, error) {
	return utils.GenerateToken(s.secret, strconv.FormatInt(p.ID, 10), p.Username, tokenTTL)
}

// AddProperty stores p under a fresh id and returns the stored copy.
func (s *Server) AddProperty(p models.Property) models.Property {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextPropID++
	id := s.nextPropID
	p.ID = &id
	if p.Amenities == nil {
		p.Amenities = []models.Amenity{}
	}
	if p.ImageURLs == nil {
		p.ImageURLs = []string{}
	}
	p.CreatedAt = timestamp()
	s.properties[id] = p
	return p
}

// AddBooking stores b under a fresh id, defaulting the status to PENDING.
func (s *Server) AddBooking(b models.Booking) models.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addBookingLocked(b)
}

func (s *Server) addBookingLocked(b models.Booking) models.Booking {
	s.nextBookID++
	id := s.nextBookID
	b.ID = &id
	if b.Status == "" {
		b.Status = models.BookingPending
	}
	b.CreatedAt = timestamp()
	s.bookings[id] = b
	return b
}

// Booking returns the stored booking with the given id.
func (s *Server) Booking(id int64) (models.Booking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	return b, ok
}

// BookingCount is the number of stored bookings.
func (s *Server) BookingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

// Respond makes route answer with status and the raw body until ClearResponse.
// The call is still counted.
func (s *Server) Respond(route string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.canned[route] = canned{status: status, body: body}
}

func (s *Server) ClearResponse(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.canned, route)
}

// Calls returns how many requests hit route.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// TotalCalls returns the number of requests received on any route.
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

// AuthHeaders returns the Authorization header of every request, in arrival order.
func (s *Server) AuthHeaders() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.authHeaders...)
}

// LastAuthHeader returns the Authorization header of the latest request.
func (s *Server) LastAuthHeader() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.authHeaders) == 0 {
		return ""
	}
	return s.authHeaders[len(s.authHeaders)-1]
}

// RequestIDs returns the X-Request-ID header of every request, in arrival order.
func (s *Server) RequestIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requestIDs...)
}

// IdempotencyKeys returns the keys seen on booking creation, sorted.
func (s *Server) IdempotencyKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.idempotency))
	for k := range s.idempotency {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func timestamp() *string {
	ts := time.Now().UTC().Format("2006-01-02T15:04:05")
	return &ts
}
