//-------------------------------------------------------------------------
//
// invtrack-mcp Investment Tracking Tool Server
//
//-------------------------------------------------------------------------

package metrics

import "testing"

func TestRate(t *testing.T) {
	tests := []struct {
		name        string
		numerator   int64
		denominator int64
		want        float64
	}{
		{"two thirds", 2, 3, 66.67},
		{"all winning", 5, 5, 100},
		{"none winning", 0, 7, 0},
		{"zero denominator", 3, 0, 0},
		{"both zero", 0, 0, 0},
		{"negative denominator", 1, -2, 0},
		{"one third", 1, 3, 33.33},
		{"exact half", 1, 2, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Rate(tt.numerator, tt.denominator); got != tt.want {
				t.Errorf("Rate(%d, %d) = %v, want %v",
					tt.numerator, tt.denominator, got, tt.want)
			}
		})
	}
}
