package apitest

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"roomrental/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func (s *Server) sortedProperties(keep func(models.Property) bool) []models.Property {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Property, 0, len(s.properties))
	for _, p := range s.properties {
		if keep == nil || keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return *out[i].ID < *out[j].ID })
	return out
}

func (s *Server) listProperties(c *gin.Context) {
	c.JSON(http.StatusOK, s.sortedProperties(nil))
}

func (s *Server) listAvailableProperties(c *gin.Context) {
	c.JSON(http.StatusOK, s.sortedProperties(func(p models.Property) bool { return p.Available }))
}

func (s *Server) listLandlordProperties(c *gin.Context) {
	id, ok := pathID(c, "landlordId")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.sortedProperties(func(p models.Property) bool { return p.LandlordID == id }))
}

func (s *Server) getProperty(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	p, found := s.properties[id]
	s.mu.Unlock()
	if !found {
		notFound(c, "Property", id)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) searchProperties(c *gin.Context) {
	filter, err := parseSearch(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	matches := s.sortedProperties(filter.match)
	filter.sort(matches)

	total := len(matches)
	from := min(filter.page*filter.size, total)
	to := min(from+filter.size, total)
	c.JSON(http.StatusOK, models.PropertyPage{
		Content:       matches[from:to],
		TotalElements: int64(total),
		TotalPages:    (total + filter.size - 1) / filter.size,
		Size:          filter.size,
		Number:        filter.page,
	})
}

type searchFilter struct {
	city         string
	minPrice     *decimal.Decimal
	maxPrice     *decimal.Decimal
	bedrooms     *int
	propertyType string
	page, size   int
	sortBy       string
	desc         bool
}

func parseSearch(c *gin.Context) (*searchFilter, error) {
	f := &searchFilter{
		city:         c.Query("city"),
		propertyType: c.Query("propertyType"),
		sortBy:       c.DefaultQuery("sortBy", models.DefaultSortBy),
		desc:         strings.EqualFold(c.DefaultQuery("sortDir", models.DefaultSortDir), "desc"),
	}
	var err error
	if f.page, err = strconv.Atoi(c.DefaultQuery("page", "0")); err != nil || f.page < 0 {
		return nil, errBadParam("page")
	}
	if f.size, err = strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(models.DefaultPageSize))); err != nil || f.size <= 0 {
		return nil, errBadParam("size")
	}
	if v := c.Query("minPrice"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, errBadParam("minPrice")
		}
		f.minPrice = &d
	}
	if v := c.Query("maxPrice"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, errBadParam("maxPrice")
		}
		f.maxPrice = &d
	}
	if v := c.Query("bedrooms"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, errBadParam("bedrooms")
		}
		f.bedrooms = &n
	}
	return f, nil
}

type errBadParam string

func (e errBadParam) Error() string { return "invalid value for " + string(e) }

func (f *searchFilter) match(p models.Property) bool {
	if f.city != "" && !strings.Contains(strings.ToLower(p.City), strings.ToLower(f.city)) {
		return false
	}
	if f.minPrice != nil && p.PricePerMonth.LessThan(*f.minPrice) {
		return false
	}
	if f.maxPrice != nil && p.PricePerMonth.GreaterThan(*f.maxPrice) {
		return false
	}
	if f.bedrooms != nil && p.Bedrooms < *f.bedrooms {
		return false
	}
	if f.propertyType != "" && (p.PropertyType == nil || string(*p.PropertyType) != f.propertyType) {
		return false
	}
	return true
}

// sort orders by price or bedrooms when asked, otherwise by creation (id) order.
func (f *searchFilter) sort(ps []models.Property) {
	less := func(a, b models.Property) bool { return *a.ID < *b.ID }
	switch f.sortBy {
	case "pricePerMonth":
		less = func(a, b models.Property) bool { return a.PricePerMonth.LessThan(b.PricePerMonth) }
	case "bedrooms":
		less = func(a, b models.Property) bool { return a.Bedrooms < b.Bedrooms }
	}
	sort.SliceStable(ps, func(i, j int) bool {
		if f.desc {
			return less(ps[j], ps[i])
		}
		return less(ps[i], ps[j])
	})
}

func (s *Server) createProperty(c *gin.Context) {
	var req models.PropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	p := s.AddProperty(propertyFromRequest(req, true))
	c.JSON(http.StatusCreated, p)
}

func (s *Server) updateProperty(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.PropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	s.mu.Lock()
	existing, found := s.properties[id]
	if !found {
		s.mu.Unlock()
		notFound(c, "Property", id)
		return
	}
	updated := propertyFromRequest(req, existing.Available)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = timestamp()
	s.properties[id] = updated
	s.mu.Unlock()

	c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteProperty(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	_, found := s.properties[id]
	delete(s.properties, id)
	s.mu.Unlock()
	if !found {
		notFound(c, "Property", id)
		return
	}
	c.Status(http.StatusNoContent)
}

func propertyFromRequest(req models.PropertyRequest, available bool) models.Property {
	return models.Property{
		Title:         req.Title,
		Description:   req.Description,
		Address:       req.Address,
		City:          req.City,
		State:         req.State,
		ZipCode:       req.ZipCode,
		Country:       req.Country,
		PricePerMonth: req.PricePerMonth,
		Bedrooms:      req.Bedrooms,
		Bathrooms:     req.Bathrooms,
		AreaSqft:      req.AreaSqft,
		PropertyType:  req.PropertyType,
		LandlordID:    req.LandlordID,
		Available:     available,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		Amenities:     req.Amenities,
		ImageURLs:     req.ImageURLs,
	}
}
