package booking

import (
	"fmt"

	"roomrental/models"
)

// NotAvailableError means the availability check answered false, so no booking
// was requested.
type NotAvailableError struct {
	Code       string
	Message    string
	PropertyID int64
	StartDate  models.Date
	EndDate    models.Date
}

func (e *NotAvailableError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewNotAvailableError(propertyID int64, start, end models.Date) error {
	return &NotAvailableError{
		Code:       "notAvailable",
		Message:    fmt.Sprintf("property %d is not available from %s to %s, please choose different dates", propertyID, start, end),
		PropertyID: propertyID,
		StartDate:  start,
		EndDate:    end,
	}
}
