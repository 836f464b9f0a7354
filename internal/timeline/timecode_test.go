package timeline_test

import (
	"errors"
	"testing"

	"revoice/internal/services"
	"revoice/internal/timeline"
)

func TestTimeToSec(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"00:00:00.000", 0},
		{"00:00:01.500", 1.5},
		{"00:01:00.000", 60},
		{"01:02:03.250", 3723.25},
	}
	for _, tc := range cases {
		got, err := timeline.TimeToSec(tc.in)
		if err != nil {
			t.Errorf("TimeToSec(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("TimeToSec(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestTimeToSecMalformed(t *testing.T) {
	for _, in := range []string{"", "1:2", "00:00:00", "aa:bb:cc.ddd"} {
		if _, err := timeline.TimeToSec(in); !errors.Is(err, services.ErrValidation) {
			t.Errorf("TimeToSec(%q): expected validation error, got %v", in, err)
		}
	}
}

func TestTimecodeRange(t *testing.T) {
	start, end, err := timeline.TimecodeRange("[ 00:00:01.000 -->  00:00:04.500 ]")
	if err != nil {
		t.Fatalf("TimecodeRange: %v", err)
	}
	if start != 1.0 || end != 4.5 {
		t.Fatalf("got (%v, %v), want (1, 4.5)", start, end)
	}
}

func TestTimecodeRangeMalformed(t *testing.T) {
	if _, _, err := timeline.TimecodeRange("00:00:01.000"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
