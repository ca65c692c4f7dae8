package api

import (
	"context"
	"net/http"
	"net/url"

	"hostelbook-client/internal/domain"
)

// ListReviews returns reviews, optionally scoped to one hostel.
func (c *Client) ListReviews(ctx context.Context, hostelID string) ([]domain.Review, error) {
	var query url.Values
	if hostelID != "" {
		query = url.Values{}
		query.Set("hostelId", hostelID)
	}

	var reviews []domain.Review
	if err := c.do(ctx, http.MethodGet, "/reviews", query, nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// RespondToReview appends a hostel response to a review, the only review
// mutation this client performs.
func (c *Client) RespondToReview(ctx context.Context, reviewID, response string) (*domain.Review, error) {
	body := map[string]string{"response": response}
	var review domain.Review
	err := c.do(ctx, http.MethodPost, "/reviews/"+reviewID+"/response", nil, body, &review)
	if err != nil {
		return nil, err
	}
	return &review, nil
}
