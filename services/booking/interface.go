package booking

import (
	"context"

	"roomrental/models"
	bookingRepo "roomrental/repository/booking"
	"roomrental/result"
	"roomrental/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingWorkflow is the tenant-facing booking flow: check availability, then
// create, plus the server-driven status transitions.
type BookingWorkflow interface {
	CreateBooking(ctx context.Context, propertyID int64, start, end models.Date) result.Result[models.Booking]
	ConfirmBooking(ctx context.Context, bookingID int64) result.Result[models.Booking]
	CancelBooking(ctx context.Context, bookingID int64) result.Result[models.Booking]
	RejectBooking(ctx context.Context, bookingID int64) result.Result[models.Booking]
	UpdateStatus(ctx context.Context, bookingID int64, status models.BookingStatus) result.Result[models.Booking]
}

// UserSource yields the logged-in user. session.Store satisfies it.
type UserSource interface {
	User(ctx context.Context) (*models.UserProfile, bool)
}

// DefaultBookingWorkflow implements BookingWorkflow.
type DefaultBookingWorkflow struct {
	Bookings bookingRepo.BookingRepository
	Users    UserSource
	Logger   *zap.Logger
	// NewIdempotencyKey generates the Idempotency-Key sent with each create.
	NewIdempotencyKey func() string
}

func NewBookingWorkflow(bookings bookingRepo.BookingRepository, users UserSource, logger *zap.Logger) BookingWorkflow {
	return &DefaultBookingWorkflow{
		Bookings:          bookings,
		Users:             users,
		Logger:            utils.OrNop(logger),
		NewIdempotencyKey: uuid.NewString,
	}
}
