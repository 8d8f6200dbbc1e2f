package booking

import (
	"roomrental/models"
	"roomrental/result"
)

func validateBookingDates(start, end models.Date) error {
	if start.IsZero() {
		return result.NewValidationError("startDate", "please select a start date")
	}
	if end.IsZero() {
		return result.NewValidationError("endDate", "please select an end date")
	}
	if end.Before(start) {
		return result.NewValidationError("endDate", "end date must not be before start date")
	}
	return nil
}

func validateTenant(user *models.UserProfile, ok bool) error {
	if !ok || user == nil || user.ID <= 0 {
		return result.NewValidationError("", "please login to make a booking")
	}
	return nil
}
