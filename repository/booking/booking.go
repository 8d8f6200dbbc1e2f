package bookingRepo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"roomrental/models"
	"roomrental/repository/remote"
	"roomrental/result"
	"roomrental/transport"
)

const basePath = "api/bookings"

func (r *DefaultBookingRepository) GetAllBookings(ctx context.Context) result.Result[[]models.Booking] {
	return remote.Call[[]models.Booking](ctx, r.Client, r.Logger, "fetch bookings", get(basePath))
}

func (r *DefaultBookingRepository) GetBookingByID(ctx context.Context, id int64) result.Result[models.Booking] {
	return remote.Call[models.Booking](ctx, r.Client, r.Logger, "fetch booking", get(itemPath(id)))
}

func (r *DefaultBookingRepository) GetBookingsByTenant(ctx context.Context, tenantID int64) result.Result[[]models.Booking] {
	path := fmt.Sprintf("%s/tenant/%d", basePath, tenantID)
	return remote.Call[[]models.Booking](ctx, r.Client, r.Logger, "fetch tenant bookings", get(path))
}

func (r *DefaultBookingRepository) GetBookingsByLandlord(ctx context.Context, landlordID int64) result.Result[[]models.Booking] {
	path := fmt.Sprintf("%s/landlord/%d", basePath, landlordID)
	return remote.Call[[]models.Booking](ctx, r.Client, r.Logger, "fetch landlord bookings", get(path))
}

func (r *DefaultBookingRepository) GetBookingsByProperty(ctx context.Context, propertyID int64) result.Result[[]models.Booking] {
	path := fmt.Sprintf("%s/property/%d", basePath, propertyID)
	return remote.Call[[]models.Booking](ctx, r.Client, r.Logger, "fetch property bookings", get(path))
}

// CheckAvailability asks whether propertyID is free for [start, end]. Both dates
// must be set and end must not precede start.
func (r *DefaultBookingRepository) CheckAvailability(ctx context.Context, propertyID int64, start, end models.Date) result.Result[bool] {
	if err := validateRange(start, end); err != nil {
		return result.Failure[bool](err)
	}
	req := get(fmt.Sprintf("%s/property/%d/availability", basePath, propertyID))
	req.Query = url.Values{
		"startDate": {start.String()},
		"endDate":   {end.String()},
	}
	return remote.Call[bool](ctx, r.Client, r.Logger, "check availability", req)
}

func (r *DefaultBookingRepository) CreateBooking(ctx context.Context, req models.BookingCreateRequest, opts ...CreateOption) result.Result[models.Booking] {
	if err := validateRange(req.StartDate, req.EndDate); err != nil {
		return result.Failure[models.Booking](err)
	}
	var o createOptions
	for _, opt := range opts {
		opt(&o)
	}

	treq := transport.Request{Method: http.MethodPost, Path: basePath, Body: req}
	if o.idempotencyKey != "" {
		treq.Header = http.Header{transport.HeaderIdempotencyKey: {o.idempotencyKey}}
	}
	return remote.Call[models.Booking](ctx, r.Client, r.Logger, "create booking", treq)
}

// UpdateBookingStatus asks the server to move booking id to status. The server
// decides whether the transition is allowed.
func (r *DefaultBookingRepository) UpdateBookingStatus(ctx context.Context, id int64, status models.BookingStatus) result.Result[models.Booking] {
	if status == "" {
		return result.Failure[models.Booking](result.NewValidationError("status", "is required"))
	}
	req := transport.Request{
		Method: http.MethodPut,
		Path:   itemPath(id) + "/status",
		Query:  url.Values{"status": {string(status)}},
	}
	return remote.Call[models.Booking](ctx, r.Client, r.Logger, "update booking status", req)
}

func (r *DefaultBookingRepository) ConfirmBooking(ctx context.Context, id int64) result.Result[models.Booking] {
	return r.transition(ctx, id, "confirm")
}

func (r *DefaultBookingRepository) CancelBooking(ctx context.Context, id int64) result.Result[models.Booking] {
	return r.transition(ctx, id, "cancel")
}

func (r *DefaultBookingRepository) RejectBooking(ctx context.Context, id int64) result.Result[models.Booking] {
	return r.transition(ctx, id, "reject")
}

func (r *DefaultBookingRepository) transition(ctx context.Context, id int64, action string) result.Result[models.Booking] {
	req := transport.Request{Method: http.MethodPut, Path: itemPath(id) + "/" + action}
	return remote.Call[models.Booking](ctx, r.Client, r.Logger, action+" booking", req)
}

func get(path string) transport.Request {
	return transport.Request{Method: http.MethodGet, Path: path}
}

func itemPath(id int64) string {
	return basePath + "/" + strconv.FormatInt(id, 10)
}

func validateRange(start, end models.Date) error {
	switch {
	case start.IsZero():
		return result.NewValidationError("startDate", "is required")
	case end.IsZero():
		return result.NewValidationError("endDate", "is required")
	case end.Before(start):
		return result.NewValidationError("endDate", "must not be before startDate")
	}
	return nil
}
