// Package pricing computes booking totals and the platform-fee split.
// All money is integer cents.
package pricing

import "math"

// PlatformFeePercent is the marketplace's cut of every settled booking.
const PlatformFeePercent = 20

// ComputeTotal returns hours x rate in cents. Hours are normalized to one
// decimal place before multiplying, so a 1h59m booking prices as 2.0 hours.
func ComputeTotal(hours float64, hourlyRateCents int64) int64 {
	h := math.Round(hours*10) / 10
	return int64(math.Round(h * float64(hourlyRateCents)))
}

// ComputeSplit divides a total into the platform fee (20%, round half-up)
// and the sitter's earnings. The two always sum to the total exactly: the
// rounding remainder goes to the sitter by subtraction, never lost.
func ComputeSplit(totalCents int64) (platformFeeCents, sitterEarningsCents int64) {
	platformFeeCents = (totalCents*PlatformFeePercent + 50) / 100
	return platformFeeCents, totalCents - platformFeeCents
}
