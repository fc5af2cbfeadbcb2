package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/gridscrape"
)

// parseRFC3339 parses a stored timestamp, naming the field on failure.
func parseRFC3339(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}

// appendPagination appends LIMIT and OFFSET clauses when set.
// SQLite requires a LIMIT before OFFSET, so an offset alone uses LIMIT -1.
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	if limit > 0 {
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	} else if offset > 0 {
		query.WriteString(" LIMIT -1")
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}

// quantityValue maps an unknown quantity to NULL.
func quantityValue(q gridscrape.Quantity) any {
	n, ok := q.Int()
	if !ok {
		return nil
	}
	return n
}

// nullQuantity maps NULL back to an unknown quantity.
func nullQuantity(n sql.NullInt64) gridscrape.Quantity {
	if !n.Valid {
		return gridscrape.Unknown
	}
	return gridscrape.Known(int(n.Int64))
}
