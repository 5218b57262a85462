package access

import (
	"testing"
	"time"
)

func str(s string) *string {
	return &s
}

func TestIsValidTimeFormat(t *testing.T) {
	valid := []string{"00:00:00", "09:00:00", "23:59:59", "17:30:00"}
	for _, s := range valid {
		if !IsValidTimeFormat(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}

	invalid := []string{"", "24:00:00", "12:60:00", "12:00:60", "9:00:00", "09:00", "09-00-00", "ab:cd:ef"}
	for _, s := range invalid {
		if IsValidTimeFormat(s) {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestIsWithinRange_NormalRange(t *testing.T) {
	noon := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 3, 15, 20, 0, 0, 0, time.UTC)

	within, err := isWithinRangeAt(noon, "UTC", str("09:00:00"), str("17:00:00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !within {
		t.Error("12:00 should be within 09:00-17:00")
	}

	within, err = isWithinRangeAt(evening, "UTC", str("09:00:00"), str("17:00:00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if within {
		t.Error("20:00 should not be within 09:00-17:00")
	}
}

func TestIsWithinRange_OvernightRange(t *testing.T) {
	cases := []struct {
		hour, min int
		want      bool
	}{
		{23, 30, true},
		{2, 0, true},
		{10, 0, false},
		{22, 0, true},
		{6, 0, true},
	}

	for _, tc := range cases {
		now := time.Date(2024, 3, 15, tc.hour, tc.min, 0, 0, time.UTC)
		within, err := isWithinRangeAt(now, "UTC", str("22:00:00"), str("06:00:00"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if within != tc.want {
			t.Errorf("%02d:%02d within 22:00-06:00 = %v, want %v", tc.hour, tc.min, within, tc.want)
		}
	}
}

func TestIsWithinRange_NoRestriction(t *testing.T) {
	now := time.Date(2024, 3, 15, 3, 0, 0, 0, time.UTC)

	within, err := isWithinRangeAt(now, "UTC", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !within {
		t.Error("absent bounds should mean no restriction")
	}

	within, err = isWithinRangeAt(now, "UTC", str(""), str("17:00:00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !within {
		t.Error("empty start bound should mean no restriction")
	}
}

func TestIsWithinRange_Timezone(t *testing.T) {
	// 18:00 UTC is 13:00 in New York in January (EST, UTC-5)
	now := time.Date(2024, 1, 15, 18, 0, 0, 0, time.UTC)

	within, err := isWithinRangeAt(now, "America/New_York", str("09:00:00"), str("17:00:00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !within {
		t.Error("13:00 New York time should be within 09:00-17:00")
	}

	within, err = isWithinRangeAt(now, "America/New_York", str("14:00:00"), str("17:00:00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if within {
		t.Error("13:00 New York time should not be within 14:00-17:00")
	}
}

func TestIsWithinRange_EqualBounds(t *testing.T) {
	// start == end is a single-instant range, not 24h
	at := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	within, err := isWithinRangeAt(at, "UTC", str("12:00:00"), str("12:00:00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !within {
		t.Error("exact instant should match an equal-bounds range")
	}

	later := time.Date(2024, 3, 15, 12, 0, 1, 0, time.UTC)
	within, err = isWithinRangeAt(later, "UTC", str("12:00:00"), str("12:00:00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if within {
		t.Error("any other instant should not match an equal-bounds range")
	}
}

func TestIsWithinRange_UnknownTimezone(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	_, err := isWithinRangeAt(now, "Not/AZone", str("09:00:00"), str("17:00:00"))
	if err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}
