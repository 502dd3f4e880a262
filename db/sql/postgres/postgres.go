// Package postgres provides the PostgreSQL dialect for the db/sql store:
// $n placeholders, double-quoted identifiers and RETURNING inserts, plus an
// Open helper on the pgx stdlib driver.
package postgres

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	activesql "github.com/rgmello/activerow/db/sql"
)

// PlaceholderProvider generates $1, $2, ... placeholders.
type PlaceholderProvider struct {
	c int
}

func (p *PlaceholderProvider) Next() (placeholder string, argName string) {
	p.c++
	return fmt.Sprintf("$%d", p.c), ""
}

// Builder returns the PostgreSQL query builder.
func Builder() activesql.QueryBuilder {
	return activesql.DefaultBuilder{
		PlaceholderProviderFactory: func() activesql.PlaceholderProvider {
			return &PlaceholderProvider{}
		},
		QuoteTable: func(t string) string {
			return `"` + t + `"`
		},
		QuoteField: func(f string) string {
			return `"` + f + `"`
		},
		UseReturning: true,
	}
}

// Open opens a PostgreSQL database through the pgx stdlib driver and wraps
// it in a Store.
func Open(dsn string) (*activesql.Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	return activesql.NewStore(db, Builder()), nil
}
