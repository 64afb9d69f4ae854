package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	apperrors "reserva/pkg/errors"
	"reserva/pkg/model"
)

// UserClient verifies caller tokens against the user service. The identity
// it returns is trusted downstream without further checks.
type UserClient struct {
	httpClient *HttpClient
}

func NewUserClient(baseURL string, timeout time.Duration) *UserClient {
	return &UserClient{
		httpClient: NewHttpClient(baseURL, timeout),
	}
}

func (c *UserClient) VerifyToken(ctx context.Context, token string) (*model.Identity, error) {
	resp, err := c.httpClient.POST(ctx, "/auth/verify", map[string]string{
		"token": token,
	})
	if err != nil {
		return nil, fmt.Errorf("token verification request failed: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, apperrors.Unauthorized("Invalid or expired token")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user service returned %d: %s", resp.StatusCode, GetErrorMessage(resp))
	}

	var identity model.Identity
	if err := resp.DecodeJSON(&identity); err != nil {
		return nil, fmt.Errorf("failed to decode identity: %w", err)
	}
	if identity.UserID == "" {
		return nil, apperrors.Unauthorized("Token did not resolve to a user")
	}

	return &identity, nil
}
