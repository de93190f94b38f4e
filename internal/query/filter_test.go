//-------------------------------------------------------------------------
//
// invtrack-mcp Investment Tracking Tool Server
//
//-------------------------------------------------------------------------

package query

import (
	"fmt"
	"regexp"
	"strconv"
	"testing"
)

func TestFilterEmpty(t *testing.T) {
	var f Filter
	if got := f.Where(); got != "1=1" {
		t.Errorf("Where() = %q, want %q", got, "1=1")
	}
	if got := len(f.Params()); got != 0 {
		t.Errorf("Params() has %d values, want 0", got)
	}
	if got := f.Len(); got != 0 {
		t.Errorf("Len() = %d, want 0", got)
	}
}

func TestFilterAdd(t *testing.T) {
	var f Filter
	f.Add("ticker =", "AAPL")
	f.Add("transaction_date >=", "2025-01-01")

	want := "ticker = $1 AND transaction_date >= $2"
	if got := f.Where(); got != want {
		t.Errorf("Where() = %q, want %q", got, want)
	}

	params := f.Params()
	if len(params) != 2 {
		t.Fatalf("Params() has %d values, want 2", len(params))
	}
	if params[0] != "AAPL" || params[1] != "2025-01-01" {
		t.Errorf("Params() = %v, wrong value order", params)
	}
}

func TestFilterAddContains(t *testing.T) {
	var f Filter
	f.AddContains("insider_name", "Smith")

	want := "insider_name ILIKE $1"
	if got := f.Where(); got != want {
		t.Errorf("Where() = %q, want %q", got, want)
	}
	if got := f.Params()[0]; got != "%Smith%" {
		t.Errorf("Params()[0] = %q, want %q", got, "%Smith%")
	}
}

// Placeholder numbers must occur in ascending order and there must be
// exactly one per bound value, for every combination of predicates. The
// executor binds positionally, so any mismatch silently pairs values
// with the wrong columns.
func TestFilterPlaceholderOrder(t *testing.T) {
	type addition struct {
		expr  string
		value any
	}
	additions := []addition{
		{"ticker =", "MSFT"},
		{"signal_generated =", true},
		{"transaction_date >=", "2025-06-01"},
		{"transaction_date <=", "2025-06-30"},
		{"alert_sent =", false},
	}

	placeholderRe := regexp.MustCompile(`\$(\d+)`)

	// Every non-empty subset, preserving order.
	for mask := 1; mask < 1<<len(additions); mask++ {
		var f Filter
		for i, a := range additions {
			if mask&(1<<i) != 0 {
				f.Add(a.expr, a.value)
			}
		}

		where := f.Where()
		matches := placeholderRe.FindAllStringSubmatch(where, -1)
		if len(matches) != len(f.Params()) {
			t.Fatalf("mask %b: %d placeholders for %d params in %q",
				mask, len(matches), len(f.Params()), where)
		}
		for i, m := range matches {
			n, _ := strconv.Atoi(m[1])
			if n != i+1 {
				t.Fatalf("mask %b: placeholder %d is $%d, want $%d in %q",
					mask, i, n, i+1, where)
			}
		}
	}
}

func TestFilterPlaceholder(t *testing.T) {
	var f Filter
	if got := f.Placeholder(1); got != "$1" {
		t.Errorf("Placeholder(1) on empty filter = %q, want %q", got, "$1")
	}

	f.Add("ticker =", "AAPL")
	f.Add("status =", "OPEN")
	if got := f.Placeholder(1); got != "$3" {
		t.Errorf("Placeholder(1) = %q, want %q", got, "$3")
	}
	if got := f.Placeholder(2); got != "$4" {
		t.Errorf("Placeholder(2) = %q, want %q", got, "$4")
	}
}

func TestFilterMixedAddAndContains(t *testing.T) {
	var f Filter
	f.Add("ticker =", "AAPL")
	f.AddContains("insider_name", "Cook")
	f.Add("signal_quality =", "high")

	want := "ticker = $1 AND insider_name ILIKE $2 AND signal_quality = $3"
	if got := f.Where(); got != want {
		t.Errorf("Where() = %q, want %q", got, want)
	}

	wantParams := fmt.Sprintf("%v", []any{"AAPL", "%Cook%", "high"})
	if got := fmt.Sprintf("%v", f.Params()); got != wantParams {
		t.Errorf("Params() = %v, want %v", got, wantParams)
	}
}
