package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// BookingStatus is assigned by the server; the client only observes it.
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingRejected  BookingStatus = "REJECTED"
	BookingCompleted BookingStatus = "COMPLETED"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingRejected, BookingCancelled},
	BookingConfirmed: {BookingCancelled, BookingCompleted},
}

// ParseBookingStatus accepts any casing of a known status.
func ParseBookingStatus(s string) (BookingStatus, error) {
	st := BookingStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingRejected, BookingCompleted:
		return st, nil
	}
	return "", fmt.Errorf("unknown booking status %q", s)
}

// IsTerminal reports whether the server allows no further transition from s.
func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

// CanTransitionTo reports whether the server's state machine has an edge s -> next.
// It is informational; requests are never blocked on it.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, st := range bookingTransitions[s] {
		if st == next {
			return true
		}
	}
	return false
}

// Booking is a tenant's reservation of a property for a date range.
type Booking struct {
	ID          *int64          `json:"id,omitempty"`
	PropertyID  int64           `json:"propertyId"`
	TenantID    int64           `json:"tenantId"`
	LandlordID  int64           `json:"landlordId"`
	StartDate   Date            `json:"startDate"`
	EndDate     Date            `json:"endDate"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      BookingStatus   `json:"status"`
	CreatedAt   *string         `json:"createdAt,omitempty"`
	UpdatedAt   *string         `json:"updatedAt,omitempty"`
}

// BookingCreateRequest is the create payload. The server computes the amount,
// assigns the landlord and sets the status to PENDING.
type BookingCreateRequest struct {
	PropertyID int64 `json:"propertyId"`
	TenantID   int64 `json:"tenantId"`
	StartDate  Date  `json:"startDate"`
	EndDate    Date  `json:"endDate"`
}
