package schedule

import (
	"errors"
	"math"
	"testing"
)

func TestToMinutes(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"9:30", 570, false},
		{"23:59", 1439, false},
		{"14:00", 840, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"12.30", 0, true},
		{"noon", 0, true},
		{"", 0, true},
		{"12:3", 0, true},
	}
	for _, c := range cases {
		got, err := ToMinutes(c.in)
		if c.wantErr {
			if !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("ToMinutes(%q): expected ErrInvalidFormat, got %v", c.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ToMinutes(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ToMinutes(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestDuration(t *testing.T) {
	got, err := Duration("14:00", "18:00")
	if err != nil {
		t.Fatalf("Duration: %v", err)
	}
	if got != 4 {
		t.Errorf("Duration(14:00, 18:00) = %v, want 4", got)
	}

	got, err = Duration("09:00", "10:30")
	if err != nil {
		t.Fatalf("Duration: %v", err)
	}
	if math.Abs(got-1.5) > 1e-9 {
		t.Errorf("Duration(09:00, 10:30) = %v, want 1.5", got)
	}

	// end == start and end < start are both invalid ranges.
	if _, err := Duration("10:00", "10:00"); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("zero-length window: expected ErrInvalidRange, got %v", err)
	}
	if _, err := Duration("18:00", "09:00"); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("inverted window: expected ErrInvalidRange, got %v", err)
	}

	// Malformed endpoints surface as format errors, not range errors.
	if _, err := Duration("banana", "10:00"); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("bad start: expected ErrInvalidFormat, got %v", err)
	}
}

// Duration must be positive for every valid ordered pair.
func TestDurationAlwaysPositive(t *testing.T) {
	for start := 0; start < 24*60; start += 37 {
		for end := start + 1; end < 24*60; end += 53 {
			s := minutesToHHMM(start)
			e := minutesToHHMM(end)
			d, err := Duration(s, e)
			if err != nil {
				t.Fatalf("Duration(%s, %s): %v", s, e, err)
			}
			if d <= 0 {
				t.Fatalf("Duration(%s, %s) = %v, want > 0", s, e, d)
			}
		}
	}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name                         string
		aStart, aEnd, bStart, bEnd   int
		want                         bool
	}{
		{"disjoint before", 540, 600, 660, 720, false},
		{"disjoint after", 660, 720, 540, 600, false},
		{"partial overlap", 540, 660, 600, 720, true},
		{"contained", 540, 720, 600, 660, true},
		{"containing", 600, 660, 540, 720, true},
		{"identical", 540, 660, 540, 660, true},
		{"touching end-to-start is not a conflict", 540, 660, 660, 720, false},
		{"touching start-to-end is not a conflict", 660, 720, 540, 660, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Overlaps(c.aStart, c.aEnd, c.bStart, c.bEnd); got != c.want {
				t.Errorf("Overlaps(%d,%d,%d,%d) = %v, want %v", c.aStart, c.aEnd, c.bStart, c.bEnd, got, c.want)
			}
		})
	}
}

func minutesToHHMM(m int) string {
	return twoDigits(m/60) + ":" + twoDigits(m%60)
}

func twoDigits(n int) string {
	return string([]byte{byte('0' + n/10), byte('0' + n%10)})
}
