package store

import (
	"strings"
)

// Dialect names the SQL flavor behind a TxRunner
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// Rebind rewrites $N placeholders to ? for sqlite.
// Arguments must appear in the statement in ascending $N order, each once.
// Dollar signs inside single-quoted literals are left alone
func Rebind(d Dialect, sql string) string {
	if d != DialectSQLite || !strings.Contains(sql, "$") {
		return sql
	}
	var b strings.Builder
	b.Grow(len(sql))
	inQuote := false
	for i := 0; i < len(sql); i++ {
		c := sql[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '$' && !inQuote && i+1 < len(sql) && isDigit(sql[i+1]):
			b.WriteByte('?')
			for i+1 < len(sql) && isDigit(sql[i+1]) {
				i++
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
