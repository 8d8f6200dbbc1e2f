package propertyRepo

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

const basePath = "api/properties"

func (r *DefaultPropertyRepository) GetAllProperties(ctx context.Context) result.Result[[]models.Property] {
	return remote.Call[[]models.Property](ctx, r.Client, r.Logger, "fetch properties", get(basePath))
}

func (r *DefaultPropertyRepository) GetAvailableProperties(ctx context.Context) result.Result[[]models.Property] {
	return remote.Call[[]models.Property](ctx, r.Client, r.Logger, "fetch available properties", get(basePath+"/available"))
}

func (r *DefaultPropertyRepository) GetPropertyByID(ctx context.Context, id int64) result.Result[models.Property] {
	return remote.Call[models.Property](ctx, r.Client, r.Logger, "fetch property", get(itemPath(id)))
}

// SearchProperties sends every set filter plus paging and sort. Unset paging
// fields take the defaults page 0, size 10, createdAt desc.
func (r *DefaultPropertyRepository) SearchProperties(ctx context.Context, criteria models.SearchCriteria) result.Result[models.PropertyPage] {
	if err := validateCriteria(criteria); err != nil {
		return result.Failure[models.PropertyPage](err)
	}
	req := get(basePath + "/search")
	req.Query = searchQuery(criteria)
	return remote.Call[models.PropertyPage](ctx, r.Client, r.Logger, "search properties", req)
}

func (r *DefaultPropertyRepository) GetPropertiesByLandlord(ctx context.Context, landlordID int64) result.Result[[]models.Property] {
	path := fmt.Sprintf("%s/landlord/%d", basePath, landlordID)
	return remote.Call[[]models.Property](ctx, r.Client, r.Logger, "fetch landlord properties", get(path))
}

func (r *DefaultPropertyRepository) CreateProperty(ctx context.Context, req models.PropertyRequest) result.Result[models.Property] {
	if err := validatePropertyRequest(req); err != nil {
		return result.Failure[models.Property](err)
	}
	return remote.Call[models.Property](ctx, r.Client, r.Logger, "create property", transport.Request{
		Method: http.MethodPost,
		Path:   basePath,
		Body:   normalise(req),
	})
}

func (r *DefaultPropertyRepository) UpdateProperty(ctx context.Context, id int64, req models.PropertyRequest) result.Result[models.Property] {
	if err := validatePropertyRequest(req); err != nil {
		return result.Failure[models.Property](err)
	}
	return remote.Call[models.Property](ctx, r.Client, r.Logger, "update property", transport.Request{
		Method: http.MethodPut,
		Path:   itemPath(id),
		Body:   normalise(req),
	})
}

// DeleteProperty succeeds on any 2xx; the server sends no body.
func (r *DefaultPropertyRepository) DeleteProperty(ctx context.Context, id int64) result.Result[struct{}] {
	return remote.Exec(ctx, r.Client, r.Logger, "delete property", transport.Request{
		Method: http.MethodDelete,
		Path:   itemPath(id),
	})
}

func get(path string) transport.Request {
	return transport.Request{Method: http.MethodGet, Path: path}
}

func itemPath(id int64) string {
	return basePath + "/" + strconv.FormatInt(id, 10)
}

func searchQuery(c models.SearchCriteria) url.Values {
	q := url.Values{}
	if c.City != nil {
		q.Set("city", *c.City)
	}
	if c.MinPrice != nil {
		q.Set("minPrice", c.MinPrice.String())
	}
	if c.MaxPrice != nil {
		q.Set("maxPrice", c.MaxPrice.String())
	}
	if c.Bedrooms != nil {
		q.Set("bedrooms", strconv.Itoa(*c.Bedrooms))
	}
	if c.PropertyType != nil {
		q.Set("propertyType", string(*c.PropertyType))
	}

	size := c.Size
	if size <= 0 {
		size = models.DefaultPageSize
	}
	sortBy := c.SortBy
	if sortBy == "" {
		sortBy = models.DefaultSortBy
	}
	sortDir := c.SortDir
	if sortDir == "" {
		sortDir = models.DefaultSortDir
	}
	q.Set("page", strconv.Itoa(c.Page))
	q.Set("size", strconv.Itoa(size))
	q.Set("sortBy", sortBy)
	q.Set("sortDir", sortDir)
	return q
}

// normalise sends empty lists rather than null.
func normalise(req models.PropertyRequest) models.PropertyRequest {
	if req.Amenities == nil {
		req.Amenities = []models.Amenity{}
	}
	if req.ImageURLs == nil {
		req.ImageURLs = []string{}
	}
	return req
}
