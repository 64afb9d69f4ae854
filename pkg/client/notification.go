package client

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// NotificationClient talks to the notification service. Every call is
// best-effort from the caller's point of view: failures are returned so the
// caller can log them, but they must never abort a booking workflow.
type NotificationClient struct {
	httpClient *HttpClient
}

func NewNotificationClient(baseURL string, timeout time.Duration) *NotificationClient {
	return &NotificationClient{
		httpClient: NewHttpClient(baseURL, timeout),
	}
}

type notifyPayload struct {
	Email         string `json:"email"`
	DisplayName   string `json:"display_name"`
	ServiceType   string `json:"service_type"`
	FormattedDate string `json:"formatted_date"`
}

func (c *NotificationClient) NotifyBookingCreated(ctx context.Context, email, displayName, serviceType, formattedDate string) error {
	return c.notify(ctx, "/notify/booking", email, displayName, serviceType, formattedDate)
}

func (c *NotificationClient) NotifyBookingCancelled(ctx context.Context, email, displayName, serviceType, formattedDate string) error {
	return c.notify(ctx, "/notify/cancellation", email, displayName, serviceType, formattedDate)
}

func (c *NotificationClient) notify(ctx context.Context, path, email, displayName, serviceType, formattedDate string) error {
	resp, err := c.httpClient.POST(ctx, path, notifyPayload{
		Email:         email,
		DisplayName:   displayName,
		ServiceType:   serviceType,
		FormattedDate: formattedDate,
	})
	if err != nil {
		return fmt.Errorf("notification request failed: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("notification service returned %d: %s", resp.StatusCode, GetErrorMessage(resp))
	}

	return nil
}
