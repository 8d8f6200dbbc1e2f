package propertyRepo

import (
	"strings"

	"roomrental/models"
	"roomrental/repository/remote"
	"roomrental/result"
)

func validatePropertyRequest(req models.PropertyRequest) error {
	if err := remote.Validate(req); err != nil {
		return err
	}
	if req.PricePerMonth.IsNegative() {
		return result.NewValidationError("pricePerMonth", "must not be negative")
	}
	return nil
}

func validateCriteria(c models.SearchCriteria) error {
	if c.Page < 0 {
		return result.NewValidationError("page", "must not be negative")
	}
	if c.MinPrice != nil && c.MinPrice.IsNegative() {
		return result.NewValidationError("minPrice", "must not be negative")
	}
	if c.MinPrice != nil && c.MaxPrice != nil && c.MaxPrice.LessThan(*c.MinPrice) {
		return result.NewValidationError("maxPrice", "must not be below minPrice")
	}
	if c.Bedrooms != nil && *c.Bedrooms < 0 {
		return result.NewValidationError("bedrooms", "must not be negative")
	}
	if d := strings.ToLower(c.SortDir); d != "" && d != "asc" && d != "desc" {
		return result.NewValidationError("sortDir", "must be asc or desc")
	}
	return nil
}
