package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "basic trim",
			input: "  hello  ",
			want:  "hello",
		},
		{
			name:  "multiple spaces",
			input: "hello    world",
			want:  "hello world",
		},
		{
			name:  "tabs and newlines",
			input: "hello\t\nworld",
			want:  "hello world",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   ",
			want:  "",
		},
		{
			name:  "preserve special characters",
			input: " Café & Spa™ ",
			want:  "Café & Spa™",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimAndNormalize(tt.input)
			if got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeServiceType(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "lowercase and trim",
			input: "  Hotel ",
			want:  "hotel",
		},
		{
			name:  "collapse internal spaces",
			input: "Spa   Day",
			want:  "spa day",
		},
		{
			name:  "already clean",
			input: "flight",
			want:  "flight",
		},
		{
			name:  "empty",
			input: "   ",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeServiceType(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeServiceType(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeServiceTypeIdempotent(t *testing.T) {
	inputs := []string{"  Hotel ", "Spa   Day", "flight", ""}
	for _, in := range inputs {
		once := SanitizeServiceType(in)
		twice := SanitizeServiceType(once)
		if once != twice {
			t.Errorf("SanitizeServiceType not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
