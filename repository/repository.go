package repository

import (
	authRepo "roomrental/repository/auth"
	bookingRepo "roomrental/repository/booking"
	propertyRepo "roomrental/repository/property"
	"roomrental/session"
	"roomrental/transport"

	"go.uber.org/zap"
)

// Re-export the AuthRepository interface and constructor.
type AuthRepository = authRepo.AuthRepository

var NewAuthRepository = authRepo.NewAuthRepository

// Re-export the PropertyRepository interface and constructor.
type PropertyRepository = propertyRepo.PropertyRepository

var NewPropertyRepository = propertyRepo.NewPropertyRepository

// Re-export the BookingRepository interface and constructor.
type BookingRepository = bookingRepo.BookingRepository

var NewBookingRepository = bookingRepo.NewBookingRepository

// Set bundles the three repositories sharing one transport and session.
type Set struct {
	Auth       AuthRepository
	Properties PropertyRepository
	Bookings   BookingRepository
}

func NewSet(client transport.Doer, store session.Store, logger *zap.Logger) Set {
	return Set{
		Auth:       NewAuthRepository(client, store, logger),
		Properties: NewPropertyRepository(client, logger),
		Bookings:   NewBookingRepository(client, logger),
	}
}
