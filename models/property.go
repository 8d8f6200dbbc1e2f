package models

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

type PropertyType string

const (
	PropertyApartment PropertyType = "APARTMENT"
	PropertyHouse     PropertyType = "HOUSE"
	PropertyCondo     PropertyType = "CONDO"
	PropertyStudio    PropertyType = "STUDIO"
	PropertyRoom      PropertyType = "ROOM"
	PropertyDuplex    PropertyType = "DUPLEX"
	PropertyTownhouse PropertyType = "TOWNHOUSE"
)

type Amenity string

const (
	AmenityWifi            Amenity = "WIFI"
	AmenityParking         Amenity = "PARKING"
	AmenityPool            Amenity = "POOL"
	AmenityGym             Amenity = "GYM"
	AmenityLaundry         Amenity = "LAUNDRY"
	AmenityAirConditioning Amenity = "AIR_CONDITIONING"
	AmenityHeating         Amenity = "HEATING"
	AmenityDishwasher      Amenity = "DISHWASHER"
	AmenityPetsAllowed     Amenity = "PETS_ALLOWED"
	AmenityFurnished       Amenity = "FURNISHED"
	AmenityBalcony         Amenity = "BALCONY"
	AmenityGarden          Amenity = "GARDEN"
	AmenityElevator        Amenity = "ELEVATOR"
	AmenitySecurity        Amenity = "SECURITY"
	AmenityStorage         Amenity = "STORAGE"
)

// DisplayName renders an amenity for people, e.g. AIR_CONDITIONING -> "Air conditioning".
func (a Amenity) DisplayName() string {
	s := strings.ToLower(strings.ReplaceAll(string(a), "_", " "))
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Property is a rental listing. ID is nil only for listings not yet created.
type Property struct {
	ID            *int64          `json:"id,omitempty"`
	Title         string          `json:"title"`
	Description   *string         `json:"description,omitempty"`
	Address       string          `json:"address"`
	City          string          `json:"city"`
	State         string          `json:"state"`
	ZipCode       string          `json:"zipCode"`
	Country       string          `json:"country"`
	PricePerMonth decimal.Decimal `json:"pricePerMonth"`
	Bedrooms      int             `json:"bedrooms"`
	Bathrooms     int             `json:"bathrooms"`
	AreaSqft      int             `json:"areaSqft"`
	PropertyType  *PropertyType   `json:"propertyType,omitempty"`
	LandlordID    int64           `json:"landlordId"`
	Available     bool            `json:"available"`
	Latitude      *float64        `json:"latitude,omitempty"`
	Longitude     *float64        `json:"longitude,omitempty"`
	Amenities     []Amenity       `json:"amenities"`
	ImageURLs     []string        `json:"imageUrls"`
	CreatedAt     *string         `json:"createdAt,omitempty"`
	UpdatedAt     *string         `json:"updatedAt,omitempty"`
}

// UnmarshalJSON drops null entries from amenities and imageUrls, keeping order,
// and defaults available to true when the field is absent.
func (p *Property) UnmarshalJSON(data []byte) error {
	type plain Property
	aux := struct {
		*plain
		Available *bool      `json:"available"`
		Amenities []*Amenity `json:"amenities"`
		ImageURLs []*string  `json:"imageUrls"`
	}{plain: (*plain)(p)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.Available = aux.Available == nil || *aux.Available
	p.Amenities = compact(aux.Amenities)
	p.ImageURLs = compact(aux.ImageURLs)
	return nil
}

func compact[T any](in []*T) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out
}

// PropertyRequest is the payload of property create and update.
type PropertyRequest struct {
	Title         string          `json:"title" validate:"required"`
	Description   *string         `json:"description,omitempty"`
	Address       string          `json:"address" validate:"required"`
	City          string          `json:"city" validate:"required"`
	State         string          `json:"state" validate:"required"`
	ZipCode       string          `json:"zipCode" validate:"required"`
	Country       string          `json:"country" validate:"required"`
	PricePerMonth decimal.Decimal `json:"pricePerMonth"`
	Bedrooms      int             `json:"bedrooms" validate:"gte=0"`
	Bathrooms     int             `json:"bathrooms" validate:"gte=0"`
	AreaSqft      int             `json:"areaSqft" validate:"gte=0"`
	PropertyType  *PropertyType   `json:"propertyType,omitempty"`
	LandlordID    int64           `json:"landlordId" validate:"gt=0"`
	Latitude      *float64        `json:"latitude,omitempty"`
	Longitude     *float64        `json:"longitude,omitempty"`
	Amenities     []Amenity       `json:"amenities"`
	ImageURLs     []string        `json:"imageUrls"`
}

// PropertyPage is one page of a property search.
type PropertyPage struct {
	Content       []Property `json:"content"`
	TotalElements int64      `json:"totalElements"`
	TotalPages    int        `json:"totalPages"`
	Size          int        `json:"size"`
	Number        int        `json:"number"`
}

// SearchCriteria filters a property search. Nil filters are omitted from the query.
type SearchCriteria struct {
	City         *string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	Bedrooms     *int
	PropertyType *PropertyType
	Page         int
	Size         int
	SortBy       string
	SortDir      string
}

const (
	DefaultPageSize = 10
	DefaultSortBy   = "createdAt"
	DefaultSortDir  = "desc"
)

// DefaultSearchCriteria returns the first page sorted by creation time, newest first.
func DefaultSearchCriteria() SearchCriteria {
	return SearchCriteria{
		Size:    DefaultPageSize,
		SortBy:  DefaultSortBy,
		SortDir: DefaultSortDir,
	}
}
