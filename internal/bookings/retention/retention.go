package retention

import (
	"sort"
	"time"

	"reserva/pkg/model"
)

// Excess returns the ids of cancelled bookings that exceed the retention
// limit: the oldest count-limit records by cancellation time. Ties on
// cancellation time fall back to id order so the selection is reproducible
// regardless of how the store returned the rows.
func Excess(cancelled []*model.Booking, limit int) []string {
	if limit < 0 {
		limit = 0
	}
	if len(cancelled) <= limit {
		return nil
	}

	ordered := make([]*model.Booking, len(cancelled))
	copy(ordered, cancelled)
	sort.SliceStable(ordered, func(i, j int) bool {
		ti, tj := cancelledAt(ordered[i]), cancelledAt(ordered[j])
		if ti.Equal(tj) {
			return ordered[i].ID < ordered[j].ID
		}
		return ti.Before(tj)
	})

	excess := len(ordered) - limit
	ids := make([]string, 0, excess)
	for _, b := range ordered[:excess] {
		ids = append(ids, b.ID)
	}
	return ids
}

func cancelledAt(b *model.Booking) time.Time {
	if b.CancelledAt == nil {
		// Records without a cancellation time should not reach here; sort
		// them first so a malformed row can never evict a valid one.
		return time.Time{}
	}
	return *b.CancelledAt
}
