package datefmt

import (
	"testing"
	"time"
)

func guayaquil(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Guayaquil")
	if err != nil {
		t.Fatalf("failed to load timezone: %v", err)
	}
	return loc
}

func TestParseLocalInZone_WallClock(t *testing.T) {
	loc := guayaquil(t)

	// Guayaquil is UTC-5 year-round (no DST).
	got, err := ParseLocalInZone("2025-03-10T09:00:00", loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseLocalInZone = %v, want %v", got, want)
	}
	if got.Location() != time.UTC {
		t.Errorf("expected UTC instant, got location %v", got.Location())
	}
}

func TestParseLocalInZone_ExplicitOffset(t *testing.T) {
	loc := guayaquil(t)

	got, err := ParseLocalInZone("2025-03-10T09:00:00Z", loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Offset wins over the configured zone.
	want := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseLocalInZone = %v, want %v", got, want)
	}
}

func TestParseLocalInZone_DateOnly(t *testing.T) {
	loc := guayaquil(t)

	got, err := ParseLocalInZone("2025-07-01", loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2025, 7, 1, 5, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseLocalInZone = %v, want %v", got, want)
	}
}

func TestParseLocalInZone_Invalid(t *testing.T) {
	loc := guayaquil(t)

	for _, input := range []string{"", "   ", "not-a-date", "10/03/2025"} {
		if _, err := ParseLocalInZone(input, loc); err == nil {
			t.Errorf("ParseLocalInZone(%q) expected error, got nil", input)
		}
	}
}

func TestFormatInZone(t *testing.T) {
	loc := guayaquil(t)

	instant := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	got := FormatInZone(instant, loc)
	want := "10/03/2025 09:00:00"
	if got != want {
		t.Errorf("FormatInZone = %q, want %q", got, want)
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	loc := guayaquil(t)

	inputs := []string{
		"2025-03-10T09:00:00",
		"2025-12-31T23:59:59",
		"2024-02-29T12:30:00",
	}

	for _, s := range inputs {
		instant, err := ParseLocalInZone(s, loc)
		if err != nil {
			t.Fatalf("ParseLocalInZone(%q): %v", s, err)
		}
		back := instant.In(loc).Format("2006-01-02T15:04:05")
		if back != s {
			t.Errorf("round trip for %q: got %q", s, back)
		}
	}
}

func TestFormatInZone_Deterministic(t *testing.T) {
	loc := guayaquil(t)
	instant := time.Date(2025, 6, 15, 20, 30, 45, 0, time.UTC)

	first := FormatInZone(instant, loc)
	for i := 0; i < 5; i++ {
		if got := FormatInZone(instant, loc); got != first {
			t.Fatalf("FormatInZone not deterministic: %q vs %q", got, first)
		}
	}
}

func TestStartOfDay(t *testing.T) {
	loc := guayaquil(t)

	// 01:30 UTC on March 11 is still March 10 in Guayaquil (20:30 local).
	instant := time.Date(2025, 3, 11, 1, 30, 0, 0, time.UTC)
	got := StartOfDay(instant, loc)
	want := time.Date(2025, 3, 10, 5, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("StartOfDay = %v, want %v", got, want)
	}
}
