//-------------------------------------------------------------------------
//
// invtrack-mcp Investment Tracking Tool Server
//
//-------------------------------------------------------------------------

package query

import (
	"context"
	"fmt"

	"github.com/invtrack/invtrack-mcp/internal/db"
)

// Querier is the read interface Paginate needs. *db.DB satisfies it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) ([]db.Row, error)
	QueryOne(ctx context.Context, sql string, args ...any) (db.Row, error)
}

// ClampLimit replaces an out-of-range limit with the entity default.
// Out-of-range pagination input is never an error.
func ClampLimit(limit, def, max int) int {
	if limit < 1 || limit > max {
		return def
	}
	return limit
}

// Paginate runs the filtered page query plus the matching count query.
// The count query receives exactly the filter params; limit and offset
// are appended only to the page query, after the filter's placeholders.
func Paginate(ctx context.Context, q Querier, table string, f *Filter, orderBy string, limit, offset int) ([]db.Row, int64, error) {
	params := f.Params()

	pageSQL := fmt.Sprintf(
		"SELECT * FROM %s WHERE %s ORDER BY %s LIMIT %s OFFSET %s",
		table, f.Where(), orderBy, f.Placeholder(1), f.Placeholder(2),
	)
	pageParams := make([]any, 0, len(params)+2)
	pageParams = append(pageParams, params...)
	pageParams = append(pageParams, limit, offset)

	rows, err := q.Query(ctx, pageSQL, pageParams...)
	if err != nil {
		return nil, 0, err
	}

	countSQL := fmt.Sprintf(
		"SELECT COUNT(*) AS total FROM %s WHERE %s",
		table, f.Where(),
	)
	countRow, err := q.QueryOne(ctx, countSQL, params...)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if countRow != nil {
		if n, ok := countRow["total"].(int64); ok {
			total = n
		}
	}
	return rows, total, nil
}
