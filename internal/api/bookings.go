package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"hostelbook-client/internal/domain"
)

// Availability returns the candidate rooms of hostelID that are free for the
// date range. Room-type filtering happens client-side.
func (c *Client) Availability(ctx context.Context, hostelID, checkIn, checkOut string) ([]domain.Room, error) {
	query := url.Values{}
	query.Set("checkIn", checkIn)
	query.Set("checkOut", checkOut)

	var rooms []domain.Room
	err := c.do(ctx, http.MethodGet, "/bookings/hostel/"+hostelID+"/availability", query, nil, &rooms)
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

// CreateBooking posts a booking-creation payload. An idempotency key is
// attached so a retried request after a dropped response cannot create a
// duplicate booking.
func (c *Client) CreateBooking(ctx context.Context, req *domain.BookingRequest) (*domain.Booking, error) {
	var booking domain.Booking
	err := c.doIdempotent(ctx, http.MethodPost, "/bookings/admin-create", req, &booking, uuid.NewString())
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// ListBookings returns the current user's bookings.
func (c *Client) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	var bookings []domain.Booking
	if err := c.do(ctx, http.MethodGet, "/bookings", nil, nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}
