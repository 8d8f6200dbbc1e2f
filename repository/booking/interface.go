package bookingRepo

import (
	"context"

	"roomrental/models"
	"roomrental/result"
	"roomrental/transport"
	"roomrental/utils"

	"go.uber.org/zap"
)

type BookingRepository interface {
	// Queries
	GetAllBookings(ctx context.Context) result.Result[[]models.Booking]
	GetBookingByID(ctx context.Context, id int64) result.Result[models.Booking]
	GetBookingsByTenant(ctx context.Context, tenantID int64) result.Result[[]models.Booking]
	GetBookingsByLandlord(ctx context.Context, landlordID int64) result.Result[[]models.Booking]
	GetBookingsByProperty(ctx context.Context, propertyID int64) result.Result[[]models.Booking]
	CheckAvailability(ctx context.Context, propertyID int64, start, end models.Date) result.Result[bool]

	// Mutations
	CreateBooking(ctx context.Context, req models.BookingCreateRequest, opts ...CreateOption) result.Result[models.Booking]
	UpdateBookingStatus(ctx context.Context, id int64, status models.BookingStatus) result.Result[models.Booking]
	ConfirmBooking(ctx context.Context, id int64) result.Result[models.Booking]
	CancelBooking(ctx context.Context, id int64) result.Result[models.Booking]
	RejectBooking(ctx context.Context, id int64) result.Result[models.Booking]
}

// DefaultBookingRepository implements BookingRepository over /api/bookings.
type DefaultBookingRepository struct {
	Client transport.Doer
	Logger *zap.Logger
}

func NewBookingRepository(client transport.Doer, logger *zap.Logger) BookingRepository {
	return &DefaultBookingRepository{Client: client, Logger: utils.OrNop(logger)}
}

type createOptions struct {
	idempotencyKey string
}

// CreateOption tunes a single CreateBooking call.
type CreateOption func(*createOptions)

// WithIdempotencyKey sends key as the Idempotency-Key header so the server can
// deduplicate a create the caller resubmits.
func WithIdempotencyKey(key string) CreateOption {
	return func(o *createOptions) { o.idempotencyKey = key }
}
