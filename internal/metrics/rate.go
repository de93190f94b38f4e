//-------------------------------------------------------------------------
//
// invtrack-mcp Investment Tracking Tool Server
//
//-------------------------------------------------------------------------

// Package metrics computes derived ratios from raw aggregate counts.
package metrics

import "math"

// Rate returns numerator/denominator as a percentage rounded to two
// decimals. A zero or negative denominator yields 0, never an error:
// aggregate windows with no rows are a legitimate result.
func Rate(numerator, denominator int64) float64 {
	if denominator <= 0 {
		return 0
	}
	pct := float64(numerator) / float64(denominator) * 100
	return math.Round(pct*100) / 100
}
