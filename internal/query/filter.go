//-------------------------------------------------------------------------
//
// invtrack-mcp Investment Tracking Tool Server
//
//-------------------------------------------------------------------------

// Package query provides the shared WHERE-clause builder and pagination
// helper used by every tool. The executor binds positionally, so the
// parameter slice order must match placeholder occurrence order in the
// generated predicate. Conditions and values are only ever appended
// together, never reordered.
package query

import (
	"fmt"
	"strings"
)

// Filter accumulates optional predicates and their bound values. The
// zero value is ready to use.
type Filter struct {
	conds  []string
	params []any
}

// Add appends a predicate built from expr followed by the next positional
// placeholder. expr carries the column and operator, e.g. "ticker =" or
// "transaction_date >=".
func (f *Filter) Add(expr string, value any) {
	f.params = append(f.params, value)
	f.conds = append(f.conds, fmt.Sprintf("%s $%d", expr, len(f.params)))
}

// AddContains appends a case-insensitive partial-match predicate on the
// given column, wildcarding both sides of the value.
func (f *Filter) AddContains(column string, value string) {
	f.params = append(f.params, "%"+value+"%")
	f.conds = append(f.conds, fmt.Sprintf("%s ILIKE $%d", column, len(f.params)))
}

// Where returns the conjunction of all predicates, or the always-true
// predicate when no filter was added.
func (f *Filter) Where() string {
	if len(f.conds) == 0 {
		return "1=1"
	}
	return strings.Join(f.conds, " AND ")
}

// Params returns the bound values in placeholder order.
func (f *Filter) Params() []any {
	return f.params
}

// Len returns the number of predicates added so far.
func (f *Filter) Len() int {
	return len(f.conds)
}

// Placeholder returns the positional placeholder that Add would assign
// next, offset by n additional parameters. Used when appending
// LIMIT/OFFSET after the filter params.
func (f *Filter) Placeholder(n int) string {
	return fmt.Sprintf("$%d", len(f.params)+n)
}
