package shared

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		input string
		want  time.Time
	}{
		{"2026-01-15", time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"2026-01-15T09:30:00Z", time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)},
		{"", time.Time{}},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.input)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", tc.input, err)
		}
		if !got.Equal(tc.want) {
			t.Errorf("ParseDate(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}

	if _, err := ParseDate("15/01/2026"); err == nil {
		t.Error("expected error for unsupported format")
	}
}
