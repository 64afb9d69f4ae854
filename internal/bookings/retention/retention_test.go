package retention

import (
	"math/rand"
	"testing"
	"time"

	"reserva/pkg/model"
)

func cancelledBooking(id string, cancelledAt time.Time) *model.Booking {
	t := cancelledAt
	return &model.Booking{
		ID:          id,
		OwnerID:     "owner-1",
		Status:      model.StatusCancelled,
		CancelledAt: &t,
	}
}

func TestExcessSelectsOldest(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	var cancelled []*model.Booking
	for i := 0; i < 7; i++ {
		cancelled = append(cancelled, cancelledBooking(
			string(rune('a'+i)),
			base.Add(time.Duration(i)*time.Hour),
		))
	}

	ids := Excess(cancelled, 5)

	if len(ids) != 2 {
		t.Fatalf("expected 2 excess ids, got %d", len(ids))
	}
	if ids[0] != "a" || ids[1] != "b" {
		t.Errorf("expected oldest ids [a b], got %v", ids)
	}
}

func TestExcessAtOrBelowLimit(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	var cancelled []*model.Booking
	for i := 0; i < 5; i++ {
		cancelled = append(cancelled, cancelledBooking(
			string(rune('a'+i)),
			base.Add(time.Duration(i)*time.Hour),
		))
	}

	if ids := Excess(cancelled, 5); ids != nil {
		t.Errorf("expected no excess at the limit, got %v", ids)
	}
	if ids := Excess(cancelled[:3], 5); ids != nil {
		t.Errorf("expected no excess below the limit, got %v", ids)
	}
	if ids := Excess(nil, 5); ids != nil {
		t.Errorf("expected no excess for empty input, got %v", ids)
	}
}

func TestExcessTieBreaksByID(t *testing.T) {
	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	cancelled := []*model.Booking{
		cancelledBooking("c", ts),
		cancelledBooking("a", ts),
		cancelledBooking("b", ts),
	}

	ids := Excess(cancelled, 1)

	if len(ids) != 2 {
		t.Fatalf("expected 2 excess ids, got %d", len(ids))
	}
	if ids[0] != "a" || ids[1] != "b" {
		t.Errorf("expected tie-break by id [a b], got %v", ids)
	}
}

func TestExcessInputOrderIrrelevant(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	var cancelled []*model.Booking
	for i := 0; i < 9; i++ {
		cancelled = append(cancelled, cancelledBooking(
			string(rune('a'+i)),
			base.Add(time.Duration(i)*time.Minute),
		))
	}

	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 20; trial++ {
		shuffled := make([]*model.Booking, len(cancelled))
		copy(shuffled, cancelled)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		ids := Excess(shuffled, 5)
		if len(ids) != 4 {
			t.Fatalf("trial %d: expected 4 excess ids, got %d", trial, len(ids))
		}
		for i, want := range []string{"a", "b", "c", "d"} {
			if ids[i] != want {
				t.Fatalf("trial %d: expected ids [a b c d], got %v", trial, ids)
			}
		}
	}
}

func TestExcessDoesNotMutateInput(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	cancelled := []*model.Booking{
		cancelledBooking("b", base.Add(time.Hour)),
		cancelledBooking("a", base),
	}

	Excess(cancelled, 1)

	if cancelled[0].ID != "b" || cancelled[1].ID != "a" {
		t.Error("input slice order was mutated")
	}
}
