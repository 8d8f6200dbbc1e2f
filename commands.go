package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"roomrental/models"
	"roomrental/repository"
	"roomrental/result"
	"roomrental/services/booking"
	"roomrental/session"
	"roomrental/transport"
	"roomrental/utils"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

type app struct {
	client   transport.Doer
	repos    repository.Set
	workflow booking.BookingWorkflow
	store    session.Store
	logger   *zap.Logger
	out      io.Writer
}

func newApp(client transport.Doer, store session.Store, logger *zap.Logger, out io.Writer) *app {
	repos := repository.NewSet(client, store, logger)
	return &app{
		client:   client,
		repos:    repos,
		workflow: booking.NewBookingWorkflow(repos.Bookings, store, logger),
		store:    store,
		logger:   utils.OrNop(logger),
		out:      out,
	}
}

type command struct {
	usage string
	run   func(a *app, ctx context.Context, args []string) error
}

var commands = map[string]command{
	"login":               {"login <username> <password>", (*app).login},
	"register":            {"register --username U --email E --password P --first F --last L [--phone N] [--type TENANT|LANDLORD|ADMIN]", (*app).register},
	"logout":              {"logout", (*app).logout},
	"whoami":              {"whoami", (*app).whoami},
	"health":              {"health", (*app).health},
	"properties":          {"properties", (*app).properties},
	"available":           {"available", (*app).available},
	"property":            {"property <id>", (*app).property},
	"search":              {"search [--city C] [--min-price N] [--max-price N] [--bedrooms N] [--type T] [--page N] [--size N] [--sort-by F] [--sort-dir asc|desc]", (*app).search},
	"landlord-properties": {"landlord-properties <landlordId>", (*app).landlordProperties},
	"create-property":     {"create-property <file.json>", (*app).createProperty},
	"update-property":     {"update-property <id> <file.json>", (*app).updateProperty},
	"delete-property":     {"delete-property <id>", (*app).deleteProperty},
	"bookings":            {"bookings [--tenant ID | --landlord ID | --property ID]", (*app).bookings},
	"booking":             {"booking <id>", (*app).booking},
	"availability":        {"availability <propertyId> <start YYYY-MM-DD> <end YYYY-MM-DD>", (*app).availability},
	"book":                {"book <propertyId> <start YYYY-MM-DD> <end YYYY-MM-DD>", (*app).book},
	"confirm":             {"confirm <bookingId>", (*app).confirm},
	"cancel":              {"cancel <bookingId>", (*app).cancel},
	"reject":              {"reject <bookingId>", (*app).reject},
	"status":              {"status <bookingId> <PENDING|CONFIRMED|CANCELLED|REJECTED|COMPLETED>", (*app).status},
}

var errUsage = errors.New("usage")

func usage() string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	b.WriteString("usage: roomrental <command> [arguments]\n\ncommands:\n")
	for _, name := range names {
		b.WriteString("  " + commands[name].usage + "\n")
	}
	return b.String()
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New(usage())
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q\n\n%s", args[0], usage())
	}
	err := cmd.run(a, ctx, args[1:])
	if errors.Is(err, errUsage) {
		return fmt.Errorf("usage: roomrental %s", cmd.usage)
	}
	return err
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func emit[T any](a *app, r result.Result[T]) error {
	v, err := r.Get()
	if err != nil {
		return err
	}
	return a.print(v)
}

func exactly(args []string, n int) error {
	if len(args) != n {
		return errUsage
	}
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func parseRange(startArg, endArg string) (models.Date, models.Date, error) {
	start, err := models.ParseDate(startArg)
	if err != nil {
		return models.Date{}, models.Date{}, err
	}
	end, err := models.ParseDate(endArg)
	if err != nil {
		return models.Date{}, models.Date{}, err
	}
	return start, end, nil
}

// Auth

func (a *app) login(ctx context.Context, args []string) error {
	if err := exactly(args, 2); err != nil {
		return err
	}
	res := a.repos.Auth.Login(ctx, args[0], args[1])
	return emit(a, result.Map(res, models.AuthResponse.Profile))
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("register", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var req models.RegisterRequest
	var phone, userType string
	fs.StringVar(&req.Username, "username", "", "")
	fs.StringVar(&req.Email, "email", "", "")
	fs.StringVar(&req.Password, "password", "", "")
	fs.StringVar(&req.FirstName, "first", "", "")
	fs.StringVar(&req.LastName, "last", "", "")
	fs.StringVar(&phone, "phone", "", "")
	fs.StringVar(&userType, "type", string(models.RoleTenant), "")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return errUsage
	}
	if phone != "" {
		req.PhoneNumber = &phone
	}
	req.UserType = models.Role(strings.ToUpper(userType))
	return emit(a, result.Map(a.repos.Auth.Register(ctx, req), models.AuthResponse.Profile))
}

func (a *app) logout(ctx context.Context, args []string) error {
	if err := exactly(args, 0); err != nil {
		return err
	}
	a.repos.Auth.Logout(ctx)
	return a.print(map[string]bool{"loggedIn": false})
}

type whoamiOutput struct {
	LoggedIn  bool                `json:"loggedIn"`
	User      *models.UserProfile `json:"user,omitempty"`
	ExpiresAt *time.Time          `json:"expiresAt,omitempty"`
	Expired   bool                `json:"expired,omitempty"`
}

func (a *app) whoami(ctx context.Context, args []string) error {
	if err := exactly(args, 0); err != nil {
		return err
	}
	sess, ok := a.store.Session(ctx)
	if !ok {
		return a.print(whoamiOutput{})
	}
	out := whoamiOutput{LoggedIn: true, User: &sess.User}
	if exp, ok := utils.TokenExpiry(sess.Token); ok {
		out.ExpiresAt = &exp
		out.Expired = time.Now().After(exp)
	}
	return a.print(out)
}

const healthTimeout = 5 * time.Second

func (a *app) health(ctx context.Context, args []string) error {
	if err := exactly(args, 0); err != nil {
		return err
	}
	status := utils.CheckHealth(ctx, healthTimeout, map[string]utils.HealthCheck{
		// Any HTTP answer means the API is reachable.
		"api": func(ctx context.Context) error {
			_, err := a.client.Do(ctx, transport.Request{Method: http.MethodGet, Path: "api/properties/available"})
			return err
		},
		"session": func(ctx context.Context) error {
			return session.Ping(ctx, a.store)
		},
	})
	if err := a.print(status); err != nil {
		return err
	}
	if !status.Healthy {
		return errors.New("unhealthy")
	}
	return nil
}

// Properties

func (a *app) properties(ctx context.Context, args []string) error {
	if err := exactly(args, 0); err != nil {
		return err
	}
	return emit(a, a.repos.Properties.GetAllProperties(ctx))
}

func (a *app) available(ctx context.Context, args []string) error {
	if err := exactly(args, 0); err != nil {
		return err
	}
	return emit(a, a.repos.Properties.GetAvailableProperties(ctx))
}

func (a *app) property(ctx context.Context, args []string) error {
	if err := exactly(args, 1); err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return emit(a, a.repos.Properties.GetPropertyByID(ctx, id))
}

func (a *app) search(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("search", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	criteria := models.DefaultSearchCriteria()
	city := fs.String("city", "", "")
	minPrice := fs.String("min-price", "", "")
	maxPrice := fs.String("max-price", "", "")
	bedrooms := fs.Int("bedrooms", -1, "")
	propertyType := fs.String("type", "", "")
	fs.IntVar(&criteria.Page, "page", 0, "")
	fs.IntVar(&criteria.Size, "size", models.DefaultPageSize, "")
	fs.StringVar(&criteria.SortBy, "sort-by", models.DefaultSortBy, "")
	fs.StringVar(&criteria.SortDir, "sort-dir", models.DefaultSortDir, "")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return errUsage
	}

	if *city != "" {
		criteria.City = city
	}
	for _, p := range []struct {
		raw  string
		name string
		dst  **decimal.Decimal
	}{{*minPrice, "min-price", &criteria.MinPrice}, {*maxPrice, "max-price", &criteria.MaxPrice}} {
		if p.raw == "" {
			continue
		}
		d, err := decimal.NewFromString(p.raw)
		if err != nil {
			return fmt.Errorf("invalid --%s %q", p.name, p.raw)
		}
		*p.dst = &d
	}
	if fs.Changed("bedrooms") {
		criteria.Bedrooms = bedrooms
	}
	if *propertyType != "" {
		t := models.PropertyType(strings.ToUpper(*propertyType))
		criteria.PropertyType = &t
	}
	return emit(a, a.repos.Properties.SearchProperties(ctx, criteria))
}

func (a *app) landlordProperties(ctx context.Context, args []string) error {
	if err := exactly(args, 1); err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return emit(a, a.repos.Properties.GetPropertiesByLandlord(ctx, id))
}

func readPropertyRequest(path string) (models.PropertyRequest, error) {
	var req models.PropertyRequest
	data, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return req, nil
}

func (a *app) createProperty(ctx context.Context, args []string) error {
	if err := exactly(args, 1); err != nil {
		return err
	}
	req, err := readPropertyRequest(args[0])
	if err != nil {
		return err
	}
	return emit(a, a.repos.Properties.CreateProperty(ctx, req))
}

func (a *app) updateProperty(ctx context.Context, args []string) error {
	if err := exactly(args, 2); err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	req, err := readPropertyRequest(args[1])
	if err != nil {
		return err
	}
	return emit(a, a.repos.Properties.UpdateProperty(ctx, id, req))
}

func (a *app) deleteProperty(ctx context.Context, args []string) error {
	if err := exactly(args, 1); err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := a.repos.Properties.DeleteProperty(ctx, id).Err(); err != nil {
		return err
	}
	return a.print(map[string]int64{"deleted": id})
}

// Bookings

func (a *app) bookings(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("bookings", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	tenant := fs.Int64("tenant", 0, "")
	landlord := fs.Int64("landlord", 0, "")
	property := fs.Int64("property", 0, "")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return errUsage
	}

	switch {
	case fs.Changed("tenant") && !fs.Changed("landlord") && !fs.Changed("property"):
		return emit(a, a.repos.Bookings.GetBookingsByTenant(ctx, *tenant))
	case fs.Changed("landlord") && !fs.Changed("tenant") && !fs.Changed("property"):
		return emit(a, a.repos.Bookings.GetBookingsByLandlord(ctx, *landlord))
	case fs.Changed("property") && !fs.Changed("tenant") && !fs.Changed("landlord"):
		return emit(a, a.repos.Bookings.GetBookingsByProperty(ctx, *property))
	case !fs.Changed("tenant") && !fs.Changed("landlord") && !fs.Changed("property"):
		return emit(a, a.repos.Bookings.GetAllBookings(ctx))
	}
	return errUsage
}

func (a *app) booking(ctx context.Context, args []string) error {
	if err := exactly(args, 1); err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return emit(a, a.repos.Bookings.GetBookingByID(ctx, id))
}

func (a *app) availability(ctx context.Context, args []string) error {
	if err := exactly(args, 3); err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	start, end, err := parseRange(args[1], args[2])
	if err != nil {
		return err
	}
	available, err := a.repos.Bookings.CheckAvailability(ctx, id, start, end).Get()
	if err != nil {
		return err
	}
	return a.print(map[string]bool{"available": available})
}

func (a *app) book(ctx context.Context, args []string) error {
	if err := exactly(args, 3); err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	start, end, err := parseRange(args[1], args[2])
	if err != nil {
		return err
	}
	return emit(a, a.workflow.CreateBooking(ctx, id, start, end))
}

func (a *app) transition(ctx context.Context, args []string, do func(context.Context, int64) result.Result[models.Booking]) error {
	if err := exactly(args, 1); err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return emit(a, do(ctx, id))
}

func (a *app) confirm(ctx context.Context, args []string) error {
	return a.transition(ctx, args, a.workflow.ConfirmBooking)
}

func (a *app) cancel(ctx context.Context, args []string) error {
	return a.transition(ctx, args, a.workflow.CancelBooking)
}

func (a *app) reject(ctx context.Context, args []string) error {
	return a.transition(ctx, args, a.workflow.RejectBooking)
}

func (a *app) status(ctx context.Context, args []string) error {
	if err := exactly(args, 2); err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	status, err := models.ParseBookingStatus(args[1])
	if err != nil {
		return err
	}
	return emit(a, a.workflow.UpdateStatus(ctx, id, status))
}
