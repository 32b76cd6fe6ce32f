package syukujitsu

import (
	"errors"
	"testing"
	"time"
)

// d is a test helper to construct dates.
func d(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestNormalize_TimeInputs(t *testing.T) {
	t.Parallel()

	jst := time.FixedZone("JST", 9*60*60)

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"UTC midnight", d(2024, time.January, 1), d(2024, time.January, 1)},
		{"JST noon", time.Date(2024, time.January, 1, 12, 0, 0, 0, jst), d(2024, time.January, 1)},
		{
			// 2023-12-31 20:00 UTC = 2024-01-01 05:00 JST
			"UTC evening rolls into next JST day",
			time.Date(2023, time.December, 31, 20, 0, 0, 0, time.UTC),
			d(2024, time.January, 1),
		},
		{
			// 2024-01-01 15:00 UTC = 2024-01-02 00:00 JST
			"UTC 15:00 is already the next JST day",
			time.Date(2024, time.January, 1, 15, 0, 0, 0, time.UTC),
			d(2024, time.January, 2),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.in)
			if err != nil {
				t.Fatalf("Normalize(%v) error: %v", tt.in, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Normalize(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_EpochMillis(t *testing.T) {
	t.Parallel()

	// 2024-01-01 00:00 UTC = 09:00 JST, still Jan 1.
	const epochMS = 1704067200000

	tests := []struct {
		name string
		in   any
	}{
		{"int", int(epochMS)},
		{"int64", int64(epochMS)},
		{"float64", float64(epochMS)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.in)
			if err != nil {
				t.Fatalf("Normalize(%v) error: %v", tt.in, err)
			}
			if want := d(2024, time.January, 1); !got.Equal(want) {
				t.Errorf("Normalize(%v) = %v, want %v", tt.in, got, want)
			}
		})
	}
}

func TestNormalize_Strings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024/1/1", d(2024, time.January, 1)},
		{"2024/01/01", d(2024, time.January, 1)},
		{"2024-01-01", d(2024, time.January, 1)},
		{"2024-1-2", d(2024, time.January, 2)},
		{"  2024-01-01  ", d(2024, time.January, 1)},
		{"2024-01-01T10:00:00+09:00", d(2024, time.January, 1)},
		// 15:00 UTC = midnight JST the next day.
		{"2024-01-01T15:00:00Z", d(2024, time.January, 2)},
		{"2024-01-01T12:00:00", d(2024, time.January, 1)},
		{"2024-01-01 12:00:00", d(2024, time.January, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Normalize(tt.in)
			if err != nil {
				t.Fatalf("Normalize(%q) error: %v", tt.in, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Normalize(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
	}{
		{"garbage string", "not-a-date"},
		{"impossible date", "2024-02-31"},
		{"empty string", ""},
		{"whitespace only", "   "},
		{"unsupported type bool", true},
		{"unsupported type nil", nil},
		{"unsupported type struct", struct{}{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.in)
			if err == nil {
				t.Fatalf("Normalize(%v) should fail", tt.in)
			}
			if !errors.Is(err, ErrInvalidDate) {
				t.Errorf("error should wrap ErrInvalidDate, got: %v", err)
			}
		})
	}
}

func TestDateKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   time.Time
		want string
	}{
		{d(2024, time.January, 1), "2024/1/1"},
		{d(2024, time.December, 25), "2024/12/25"},
		{d(2024, time.October, 5), "2024/10/5"},
	}
	for _, tt := range tests {
		if got := dateKey(tt.in); got != tt.want {
			t.Errorf("dateKey(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
