package sqlcrepo

import (
	"regexp"
	"strconv"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Dialect captures the differences between the SQL engines the persisted
// store runs on. Text ordering uses a bytewise collation in every dialect
// so it agrees with Go string comparison.
type Dialect struct {
	Name          string
	placeholder   func(n int) string
	textCollation string
	bindDecimal   func(d decimal.Decimal) any
	bindID        func(id string) any
	schema        string
}

var Postgres = Dialect{
	Name:          "postgres",
	placeholder:   func(n int) string { return "$" + strconv.Itoa(n) },
	textCollation: `"C"`,
	bindDecimal:   decimalToNumeric,
	bindID: func(id string) any {
		return stringToUUID(id)
	},
	schema: `CREATE TABLE IF NOT EXISTS products (
	seq         BIGSERIAL PRIMARY KEY,
	id          UUID NOT NULL UNIQUE,
	name        TEXT NOT NULL,
	description TEXT NOT NULL,
	price       NUMERIC NOT NULL CHECK (price >= 0),
	weight      NUMERIC NOT NULL CHECK (weight >= 0)
)`,
}

var SQLite = Dialect{
	Name:          "sqlite",
	placeholder:   func(int) string { return "?" },
	textCollation: "BINARY",
	bindDecimal: func(d decimal.Decimal) any {
		return d.InexactFloat64()
	},
	bindID: func(id string) any { return id },
	schema: `CREATE TABLE IF NOT EXISTS products (
	seq         INTEGER PRIMARY KEY AUTOINCREMENT,
	id          TEXT NOT NULL UNIQUE,
	name        TEXT NOT NULL,
	description TEXT NOT NULL,
	price       REAL NOT NULL CHECK (price >= 0),
	weight      REAL NOT NULL CHECK (weight >= 0)
)`,
}

var numberedParam = regexp.MustCompile(`\$\d+`)

// rebind rewrites a statement written with $n placeholders for the dialect.
func (d Dialect) rebind(query string) string {
	if d.Name == Postgres.Name {
		return query
	}
	return numberedParam.ReplaceAllStringFunc(query, func(m string) string {
		n, _ := strconv.Atoi(m[1:])
		return d.placeholder(n)
	})
}

// --- Helpers ---

func decimalToNumeric(d decimal.Decimal) any {
	var n pgtype.Numeric
	n.Scan(d.String())
	return n
}

func stringToUUID(s string) pgtype.UUID {
	var u pgtype.UUID
	if s == "" {
		return u
	}
	u.Scan(s)
	return u
}
