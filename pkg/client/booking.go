package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"reserva/pkg/model"
)

// BookingClient is the API client for the booking service. It is used by
// the integration suite and by sibling services.
type BookingClient struct {
	httpClient *HttpClient
	token      string
}

func NewBookingClient(baseURL, token string) *BookingClient {
	return &BookingClient{
		httpClient: NewHttpClient(baseURL, 10*time.Second),
		token:      token,
	}
}

func (c *BookingClient) auth() map[string]string {
	return map[string]string{"Authorization": "Bearer " + c.token}
}

func (c *BookingClient) get(ctx context.Context, path string) (*Response, error) {
	req := func() (*Response, error) {
		return c.httpClient.request(ctx, "GET", path, nil, c.auth())
	}
	return req()
}

func (c *BookingClient) Create(ctx context.Context, body any) (*Response, error) {
	return c.httpClient.POSTWithHeaders(ctx, "/api/v1/bookings", body, c.auth())
}

func (c *BookingClient) List(ctx context.Context) (*Response, error) {
	return c.get(ctx, "/api/v1/bookings")
}

func (c *BookingClient) ListUpcoming(ctx context.Context) (*Response, error) {
	return c.get(ctx, "/api/v1/bookings/upcoming")
}

func (c *BookingClient) ListCancelled(ctx context.Context) (*Response, error) {
	return c.get(ctx, "/api/v1/bookings/cancelled")
}

func (c *BookingClient) GetByID(ctx context.Context, id string) (*Response, error) {
	return c.get(ctx, "/api/v1/bookings/id/"+url.PathEscape(id))
}

func (c *BookingClient) Cancel(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.POSTWithHeaders(ctx, "/api/v1/bookings/id/"+url.PathEscape(id)+"/cancel", nil, c.auth())
}

func (c *BookingClient) Delete(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.request(ctx, "DELETE", "/api/v1/bookings/id/"+url.PathEscape(id), nil, c.auth())
}

func (c *BookingClient) WaitForHealthy(maxWait time.Duration) error {
	return c.httpClient.WaitForHealthy(maxWait)
}

func (c *BookingClient) DecodeBooking(resp *Response) (*model.BookingView, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode booking wrapper: %w", err)
	}

	var booking model.BookingView
	if err := json.Unmarshal(wrapper.Data, &booking); err != nil {
		return nil, fmt.Errorf("could not decode booking json: %w", err)
	}
	return &booking, nil
}

// MutationResult mirrors the create/cancel response shape: the booking plus
// whether the notification was delivered.
type MutationResult struct {
	Booking          *model.BookingView `json:"booking"`
	NotificationSent bool               `json:"notification_sent"`
}

func (c *BookingClient) DecodeMutation(resp *Response) (*MutationResult, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode mutation wrapper: %w", err)
	}

	var result MutationResult
	if err := json.Unmarshal(wrapper.Data, &result); err != nil {
		return nil, fmt.Errorf("could not decode mutation json: %w", err)
	}
	return &result, nil
}

func (c *BookingClient) DecodeBookings(resp *Response) ([]*model.BookingView, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode booking list wrapper: %w", err)
	}

	var bookings []*model.BookingView
	if err := json.Unmarshal(wrapper.Data, &bookings); err != nil {
		return nil, fmt.Errorf("could not decode booking list json: %w", err)
	}
	return bookings, nil
}
