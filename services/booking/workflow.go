package booking

import (
	"context"

	"roomrental/models"
	bookingRepo "roomrental/repository/booking"
	"roomrental/result"

	"go.uber.org/zap"
)

// CreateBooking validates the dates and the logged-in tenant, checks
// availability and only then issues the create. A failed or negative check
// means the create is never sent. The server still arbitrates overlapping
// bookings made between the two calls.
func (w *DefaultBookingWorkflow) CreateBooking(ctx context.Context, propertyID int64, start, end models.Date) result.Result[models.Booking] {
	if err := validateBookingDates(start, end); err != nil {
		return result.Failure[models.Booking](err)
	}
	user, ok := w.Users.User(ctx)
	if err := validateTenant(user, ok); err != nil {
		return result.Failure[models.Booking](err)
	}

	available, err := w.Bookings.CheckAvailability(ctx, propertyID, start, end).Get()
	if err != nil {
		w.Logger.Warn("availability check failed",
			zap.Int64("propertyId", propertyID), zap.Error(err))
		return result.Failure[models.Booking](err)
	}
	if !available {
		w.Logger.Info("property not available",
			zap.Int64("propertyId", propertyID),
			zap.Stringer("startDate", start),
			zap.Stringer("endDate", end))
		return result.Failure[models.Booking](NewNotAvailableError(propertyID, start, end))
	}

	req := models.BookingCreateRequest{
		PropertyID: propertyID,
		TenantID:   user.ID,
		StartDate:  start,
		EndDate:    end,
	}
	var opts []bookingRepo.CreateOption
	if w.NewIdempotencyKey != nil {
		opts = append(opts, bookingRepo.WithIdempotencyKey(w.NewIdempotencyKey()))
	}
	res := w.Bookings.CreateBooking(ctx, req, opts...)
	if b, err := res.Get(); err == nil && b.ID != nil {
		w.Logger.Info("booking created",
			zap.Int64("bookingId", *b.ID),
			zap.Int64("propertyId", propertyID),
			zap.String("status", string(b.Status)))
	}
	return res
}

func (w *DefaultBookingWorkflow) ConfirmBooking(ctx context.Context, bookingID int64) result.Result[models.Booking] {
	return w.Bookings.ConfirmBooking(ctx, bookingID)
}

func (w *DefaultBookingWorkflow) CancelBooking(ctx context.Context, bookingID int64) result.Result[models.Booking] {
	return w.Bookings.CancelBooking(ctx, bookingID)
}

func (w *DefaultBookingWorkflow) RejectBooking(ctx context.Context, bookingID int64) result.Result[models.Booking] {
	return w.Bookings.RejectBooking(ctx, bookingID)
}

// UpdateStatus forwards any status; the server owns the state machine.
func (w *DefaultBookingWorkflow) UpdateStatus(ctx context.Context, bookingID int64, status models.BookingStatus) result.Result[models.Booking] {
	return w.Bookings.UpdateBookingStatus(ctx, bookingID, status)
}
