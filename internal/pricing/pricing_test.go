package pricing

import "testing"

func TestComputeTotal(t *testing.T) {
	cases := []struct {
		name      string
		hours     float64
		rateCents int64
		want      int64
	}{
		{"four hours at 200/hr", 4, 20000, 80000},
		{"fractional hours", 1.5, 20000, 30000},
		{"hours rounded to one decimal up", 1.983333, 20000, 40000}, // 1h59m -> 2.0h
		{"hours rounded to one decimal down", 2.0166666, 20000, 40000},
		{"half hour", 0.5, 15000, 7500},
		{"zero rate", 3, 0, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ComputeTotal(c.hours, c.rateCents); got != c.want {
				t.Errorf("ComputeTotal(%v, %d) = %d, want %d", c.hours, c.rateCents, got, c.want)
			}
		})
	}
}

func TestComputeTotalMonotonic(t *testing.T) {
	// More hours or a higher rate never price lower.
	prev := int64(-1)
	for h := 0.5; h <= 12; h += 0.5 {
		got := ComputeTotal(h, 20000)
		if got < prev {
			t.Fatalf("total decreased at %v hours: %d < %d", h, got, prev)
		}
		prev = got
	}
	prev = -1
	for rate := int64(0); rate <= 50000; rate += 2500 {
		got := ComputeTotal(3, rate)
		if got < prev {
			t.Fatalf("total decreased at rate %d: %d < %d", rate, got, prev)
		}
		prev = got
	}
}

func TestComputeSplit(t *testing.T) {
	cases := []struct {
		total, wantFee, wantEarnings int64
	}{
		{80000, 16000, 64000}, // scenario: 4h x 200/hr
		{0, 0, 0},
		{1, 0, 1},   // 0.2 rounds down
		{2, 0, 2},   // 0.4 rounds down
		{3, 1, 2},   // 0.6 rounds up
		{4, 1, 3},   // 0.8 rounds up
		{5, 1, 4},   // exact
		{13, 3, 10}, // 2.6 -> 3 (half-up)
		{99, 20, 79},
		{12345, 2469, 9876},
	}
	for _, c := range cases {
		fee, earnings := ComputeSplit(c.total)
		if fee != c.wantFee || earnings != c.wantEarnings {
			t.Errorf("ComputeSplit(%d) = (%d, %d), want (%d, %d)", c.total, fee, earnings, c.wantFee, c.wantEarnings)
		}
	}
}

// fee + earnings must reconstruct the total exactly for every amount.
func TestSplitConservation(t *testing.T) {
	for total := int64(0); total < 100000; total += 7 {
		fee, earnings := ComputeSplit(total)
		if fee+earnings != total {
			t.Fatalf("split of %d lost money: fee %d + earnings %d = %d", total, fee, earnings, fee+earnings)
		}
		if fee < 0 || earnings < 0 {
			t.Fatalf("split of %d produced a negative leg: fee %d, earnings %d", total, fee, earnings)
		}
	}
}
