package apitest

import (
	"fmt"
	"net/http"
	"sort"

	"roomrental/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const daysPerMonth = 30

func (s *Server) sortedBookings(keep func(models.Booking) bool) []models.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		if keep == nil || keep(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return *out[i].ID < *out[j].ID })
	return out
}

func (s *Server) listBookings(c *gin.Context) {
	c.JSON(http.StatusOK, s.sortedBookings(nil))
}

func (s *Server) listTenantBookings(c *gin.Context) {
	id, ok := pathID(c, "tenantId")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.sortedBookings(func(b models.Booking) bool { return b.TenantID == id }))
}

func (s *Server) listLandlordBookings(c *gin.Context) {
	id, ok := pathID(c, "landlordId")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.sortedBookings(func(b models.Booking) bool { return b.LandlordID == id }))
}

func (s *Server) listPropertyBookings(c *gin.Context) {
	id, ok := pathID(c, "propertyId")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.sortedBookings(func(b models.Booking) bool { return b.PropertyID == id }))
}

func (s *Server) getBooking(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	b, found := s.Booking(id)
	if !found {
		notFound(c, "Booking", id)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (s *Server) checkAvailability(c *gin.Context) {
	propertyID, ok := pathID(c, "propertyId")
	if !ok {
		return
	}
	start, err := models.ParseDate(c.Query("startDate"))
	if err != nil {
		badRequest(c, "invalid startDate")
		return
	}
	end, err := models.ParseDate(c.Query("endDate"))
	if err != nil {
		badRequest(c, "invalid endDate")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, found := s.properties[propertyID]
	if !found {
		notFound(c, "Property", propertyID)
		return
	}
	c.JSON(http.StatusOK, p.Available && !s.overlapsLocked(propertyID, start, end))
}

// overlapsLocked reports whether a live booking of propertyID intersects [start, end].
func (s *Server) overlapsLocked(propertyID int64, start, end models.Date) bool {
	for _, b := range s.bookings {
		if b.PropertyID != propertyID {
			continue
		}
		if b.Status != models.BookingPending && b.Status != models.BookingConfirmed {
			continue
		}
		if !b.EndDate.Before(start) && !end.Before(b.StartDate) {
			return true
		}
	}
	return false
}

func (s *Server) createBooking(c *gin.Context) {
	var req models.BookingCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() || req.EndDate.Before(req.StartDate) {
		badRequest(c, "End date must be after start date")
		return
	}
	key := c.GetHeader("Idempotency-Key")

	s.mu.Lock()
	defer s.mu.Unlock()

	if key != "" {
		if id, seen := s.idempotency[key]; seen {
			c.JSON(http.StatusOK, s.bookings[id])
			return
		}
	}
	p, found := s.properties[req.PropertyID]
	if !found {
		notFound(c, "Property", req.PropertyID)
		return
	}
	if !p.Available || s.overlapsLocked(req.PropertyID, req.StartDate, req.EndDate) {
		c.JSON(http.StatusConflict, gin.H{"message": "Property is not available for the selected dates", "error": "Conflict"})
		return
	}

	b := s.addBookingLocked(models.Booking{
		PropertyID:  req.PropertyID,
		TenantID:    req.TenantID,
		LandlordID:  p.LandlordID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		TotalAmount: totalAmount(p.PricePerMonth, req.StartDate, req.EndDate),
		Status:      models.BookingPending,
	})
	if key != "" {
		s.idempotency[key] = *b.ID
	}
	c.JSON(http.StatusCreated, b)
}

// totalAmount prorates the monthly price over the inclusive day count.
func totalAmount(pricePerMonth decimal.Decimal, start, end models.Date) decimal.Decimal {
	days := int64(end.Time().Sub(start.Time()).Hours()/24) + 1
	return pricePerMonth.Mul(decimal.NewFromInt(days)).Div(decimal.NewFromInt(daysPerMonth)).Round(2)
}

func (s *Server) updateBookingStatus(c *gin.Context) {
	status, err := models.ParseBookingStatus(c.Query("status"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	s.transitionTo(status)(c)
}

func (s *Server) transitionTo(next models.BookingStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		b, found := s.bookings[id]
		if !found {
			notFound(c, "Booking", id)
			return
		}
		if !b.Status.CanTransitionTo(next) {
			badRequest(c, fmt.Sprintf("Cannot change booking status from %s to %s", b.Status, next))
			return
		}
		b.Status = next
		b.UpdatedAt = timestamp()
		s.bookings[id] = b
		c.JSON(http.StatusOK, b)
	}
}
