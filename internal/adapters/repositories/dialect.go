package repositories

import "strconv"

// Dialect selects placeholder and upsert syntax for the two supported stores.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// bind returns the n-th (1-based) placeholder.
func (d Dialect) bind(n int) string {
	if d == DialectPostgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}
