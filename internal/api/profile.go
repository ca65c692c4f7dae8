package api

import (
	"context"
	"net/http"

	"hostelbook-client/internal/domain"
)

// GetProfile fetches the current user's profile.
func (c *Client) GetProfile(ctx context.Context) (*domain.Profile, error) {
	var profile domain.Profile
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile patches the current user's profile fields.
func (c *Client) UpdateProfile(ctx context.Context, update *domain.ProfileUpdate) (*domain.Profile, error) {
	var profile domain.Profile
	err := c.do(ctx, http.MethodPatch, "/auth/update-profile", nil, update, &profile)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// ChangePassword changes the current user's password.
func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	body := map[string]string{
		"currentPassword": currentPassword,
		"newPassword":     newPassword,
	}
	return c.do(ctx, http.MethodPost, "/auth/change-password", nil, body, nil)
}

// ForgotPassword requests a reset email. Unauthenticated.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.doPublic(ctx, http.MethodPost, "/auth/forgot-password", body, nil)
}

// ResetPassword completes a reset with the emailed token. Unauthenticated.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	body := map[string]string{
		"token":       token,
		"newPassword": newPassword,
	}
	return c.doPublic(ctx, http.MethodPost, "/auth/reset-password", body, nil)
}
