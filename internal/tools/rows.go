//-------------------------------------------------------------------------
//
// invtrack-mcp Investment Tracking Tool Server
//
//-------------------------------------------------------------------------

package tools

import "github.com/invtrack/invtrack-mcp/internal/db"

// Count extracts an aggregate count column from a row. Aggregates over
// empty windows can come back NULL; that reads as zero.
func Count(row db.Row, key string) int64 {
	if row == nil {
		return 0
	}
	switch v := row[key].(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	}
	return 0
}
