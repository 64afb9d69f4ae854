package integrationtests

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"reserva/pkg/client"
	"reserva/pkg/model"
)

// The suite runs against a live service. It is skipped unless
// TEST_SERVER_URL is set; TEST_AUTH_TOKEN must be a token the configured
// user service accepts.
func newTestClient(t *testing.T) *client.BookingClient {
	t.Helper()

	serverURL := os.Getenv("TEST_SERVER_URL")
	if serverURL == "" {
		t.Skip("TEST_SERVER_URL not set, skipping integration tests")
	}

	c := client.NewBookingClient(serverURL, os.Getenv("TEST_AUTH_TOKEN"))
	if err := c.WaitForHealthy(30 * time.Second); err != nil {
		t.Fatalf("service did not become healthy: %v", err)
	}
	return c
}

func createBooking(t *testing.T, c *client.BookingClient, scheduledAt, serviceType string) *model.BookingView {
	t.Helper()

	resp, err := c.Create(context.Background(), map[string]any{
		"scheduled_at": scheduledAt,
		"service_type": serviceType,
	})
	if err != nil {
		t.Fatalf("create request failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, string(resp.Body))
	}

	result, err := c.DecodeMutation(resp)
	if err != nil {
		t.Fatalf("failed to decode create response: %v", err)
	}
	return result.Booking
}

func cleanup(t *testing.T, c *client.BookingClient) {
	t.Helper()

	resp, err := c.List(context.Background())
	if err != nil || resp.StatusCode != http.StatusOK {
		return
	}
	bookings, err := c.DecodeBookings(resp)
	if err != nil {
		return
	}
	for _, b := range bookings {
		_, _ = c.Delete(context.Background(), b.ID)
	}
}

func TestCreateAndGetByID(t *testing.T) {
	c := newTestClient(t)
	defer cleanup(t, c)

	created := createBooking(t, c, "2030-03-10T09:00:00", "hotel")

	if created.Status != model.StatusActive {
		t.Errorf("expected status %q, got %q", model.StatusActive, created.Status)
	}
	if created.ScheduledAtFormatted != "10/03/2030 09:00:00" {
		t.Errorf("expected formatted date 10/03/2030 09:00:00, got %s", created.ScheduledAtFormatted)
	}

	resp, err := c.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	fetched, err := c.DecodeBooking(resp)
	if err != nil {
		t.Fatalf("failed to decode booking: %v", err)
	}
	if fetched.ID != created.ID {
		t.Errorf("expected id %s, got %s", created.ID, fetched.ID)
	}
}

func TestCancelRetentionEndToEnd(t *testing.T) {
	c := newTestClient(t)
	defer cleanup(t, c)

	ids := make([]string, 0, 7)
	for day := 1; day <= 7; day++ {
		booking := createBooking(t, c,
			time.Date(2030, 6, day, 10, 0, 0, 0, time.UTC).Format("2006-01-02T15:04:05"),
			"hotel",
		)
		ids = append(ids, booking.ID)
	}

	for _, id := range ids {
		resp, err := c.Cancel(context.Background(), id)
		if err != nil {
			t.Fatalf("cancel request failed: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200 cancelling %s, got %d: %s", id, resp.StatusCode, string(resp.Body))
		}
	}

	resp, err := c.ListCancelled(context.Background())
	if err != nil {
		t.Fatalf("list cancelled failed: %v", err)
	}
	cancelled, err := c.DecodeBookings(resp)
	if err != nil {
		t.Fatalf("failed to decode cancelled list: %v", err)
	}
	if len(cancelled) != 5 {
		t.Fatalf("expected exactly 5 retained cancelled bookings, got %d", len(cancelled))
	}

	// The 5 most recently cancelled remain, oldest first.
	remaining := make(map[string]bool, len(cancelled))
	for _, b := range cancelled {
		remaining[b.ID] = true
		if b.CancelledAt == nil {
			t.Errorf("cancelled booking %s has no cancelled_at", b.ID)
		}
	}
	for _, id := range ids[:2] {
		if remaining[id] {
			t.Errorf("expected oldest cancelled booking %s to be purged", id)
		}
	}
	for i := 1; i < len(cancelled); i++ {
		if cancelled[i].CancelledAt.Before(*cancelled[i-1].CancelledAt) {
			t.Error("expected cancelled list ordered ascending by cancelled_at")
		}
	}
}

func TestCancelTwiceIsRejected(t *testing.T) {
	c := newTestClient(t)
	defer cleanup(t, c)

	booking := createBooking(t, c, "2030-07-01T12:00:00", "flight")

	resp, err := c.Cancel(context.Background(), booking.ID)
	if err != nil {
		t.Fatalf("cancel request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	first, err := c.DecodeMutation(resp)
	if err != nil {
		t.Fatalf("failed to decode cancel response: %v", err)
	}

	resp, err = c.Cancel(context.Background(), booking.ID)
	if err != nil {
		t.Fatalf("second cancel request failed: %v", err)
	}
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 on second cancel, got %d", resp.StatusCode)
	}

	resp, err = c.GetByID(context.Background(), booking.ID)
	if err != nil {
		t.Fatalf("get request failed: %v", err)
	}
	after, err := c.DecodeBooking(resp)
	if err != nil {
		t.Fatalf("failed to decode booking: %v", err)
	}
	if after.CancelledAt == nil || !after.CancelledAt.Equal(*first.Booking.CancelledAt) {
		t.Errorf("expected cancelled_at preserved from first cancel, got %v", after.CancelledAt)
	}
}

func TestDeleteBooking(t *testing.T) {
	c := newTestClient(t)
	defer cleanup(t, c)

	booking := createBooking(t, c, "2030-08-01T12:00:00", "hotel")

	resp, err := c.Delete(context.Background(), booking.ID)
	if err != nil {
		t.Fatalf("delete request failed: %v", err)
	}
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}

	resp, err = c.GetByID(context.Background(), booking.ID)
	if err != nil {
		t.Fatalf("get request failed: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", resp.StatusCode)
	}
}

func TestUpcomingExcludesCancelled(t *testing.T) {
	c := newTestClient(t)
	defer cleanup(t, c)

	keep := createBooking(t, c, "2030-09-01T12:00:00", "hotel")
	drop := createBooking(t, c, "2030-09-02T12:00:00", "hotel")

	if resp, err := c.Cancel(context.Background(), drop.ID); err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("cancel failed: err=%v", err)
	}

	resp, err := c.ListUpcoming(context.Background())
	if err != nil {
		t.Fatalf("list upcoming failed: %v", err)
	}
	upcoming, err := c.DecodeBookings(resp)
	if err != nil {
		t.Fatalf("failed to decode upcoming list: %v", err)
	}

	seenKeep := false
	for _, b := range upcoming {
		if b.ID == drop.ID {
			t.Error("cancelled booking appeared in upcoming list")
		}
		if b.ID == keep.ID {
			seenKeep = true
		}
	}
	if !seenKeep {
		t.Error("active future booking missing from upcoming list")
	}
}

func TestRequestsWithoutTokenAreRejected(t *testing.T) {
	serverURL := os.Getenv("TEST_SERVER_URL")
	if serverURL == "" {
		t.Skip("TEST_SERVER_URL not set, skipping integration tests")
	}

	c := client.NewBookingClient(serverURL, "")
	resp, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", resp.StatusCode)
	}
}
