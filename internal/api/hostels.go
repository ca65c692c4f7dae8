package api

import (
	"context"
	"net/http"

	"hostelbook-client/internal/domain"
)

// ListHostels returns all hostels visible to the current user.
func (c *Client) ListHostels(ctx context.Context) ([]domain.Hostel, error) {
	var hostels []domain.Hostel
	if err := c.do(ctx, http.MethodGet, "/hostels/fetch", nil, nil, &hostels); err != nil {
		return nil, err
	}
	return hostels, nil
}

// GetHostel returns one hostel with its room types.
func (c *Client) GetHostel(ctx context.Context, hostelID string) (*domain.Hostel, error) {
	var hostel domain.Hostel
	if err := c.do(ctx, http.MethodGet, "/hostels/"+hostelID, nil, nil, &hostel); err != nil {
		return nil, err
	}
	return &hostel, nil
}
