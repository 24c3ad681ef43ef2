package domain_test

import (
	"errors"
	"testing"

	"github.com/Alexeya-png/fitness-tracker-git/internal/domain"
)

func TestParseDay(t *testing.T) {
	if _, err := domain.ParseDay("2026-02-08"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, bad := range []string{"", "2026-2-8", "08.02.2026", "2026-02-30"} {
		_, err := domain.ParseDay(bad)
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("ParseDay(%q) err = %v; want ErrValidation", bad, err)
		}
	}
}

func TestAddDays(t *testing.T) {
	tests := []struct {
		day  string
		n    int
		want string
	}{
		{"2026-02-08", 1, "2026-02-09"},
		{"2026-03-01", -1, "2026-02-28"},
		{"2024-03-01", -1, "2024-02-29"},
		{"2025-12-31", 1, "2026-01-01"},
		{"2026-03-29", -1, "2026-03-28"},
	}
	for _, tc := range tests {
		got, err := domain.AddDays(tc.day, tc.n)
		if err != nil {
			t.Fatalf("AddDays(%q, %d): %v", tc.day, tc.n, err)
		}
		if got != tc.want {
			t.Errorf("AddDays(%q, %d) = %q; want %q", tc.day, tc.n, got, tc.want)
		}
	}
}

func TestIsDayBefore(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"2026-02-07", "2026-02-08", true},
		{"2026-02-06", "2026-02-08", false},
		{"2026-02-08", "2026-02-08", false},
		{"2026-02-09", "2026-02-08", false},
		{"garbage", "2026-02-08", false},
		{"2026-02-07", "garbage", false},
	}
	for _, tc := range tests {
		if got := domain.IsDayBefore(tc.a, tc.b); got != tc.want {
			t.Errorf("IsDayBefore(%q, %q) = %v; want %v", tc.a, tc.b, got, tc.want)
		}
	}
}
