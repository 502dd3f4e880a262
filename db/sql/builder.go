package sql

import (
	"fmt"
	"slices"
	"strings"
)

// PlaceholderProvider generates database-specific placeholders, like ? for
// MySQL, $1 for postgres, or :param1 for MSSQL. If the database uses named
// parameters, the name should be returned in argName, otherwise blank.
type PlaceholderProvider interface {
	Next() (placeholder string, argName string)
}

// QueryBuilder is an abstraction for building the SQL text of the per-table
// operations. The where parameter already carries dialect placeholders.
type QueryBuilder interface {
	CreatePlaceholderProvider() PlaceholderProvider
	BuildSelectSQL(tableName string, fieldNames []string, where string, order []string) string
	// BuildInsertSQL returns the insert statement and whether it yields the
	// new key as a result row (RETURNING) instead of via LastInsertId.
	BuildInsertSQL(tableName string, fieldNames []string, fieldPlaceholders []string, keyField string) (string, bool)
	BuildUpdateSQL(tableName string, fieldNames []string, fieldPlaceholders []string, where string) string
	BuildDeleteSQL(tableName string, where string) string
}

// defaultPlaceholderProvider returns placeholders using ?
type defaultPlaceholderProvider struct {
}

func (d defaultPlaceholderProvider) Next() (placeholder string, argName string) {
	return "?", ""
}

// DefaultBuilder is the default customizable SQL builder, using placeholders
// for values.
type DefaultBuilder struct {
	PlaceholderProviderFactory func() PlaceholderProvider // uses defaultPlaceholderProvider if not set
	QuoteTable                 func(t string) string      // don't quote if not set
	QuoteField                 func(f string) string      // don't quote if not set
	UseReturning               bool                       // append RETURNING <key> to inserts
}

var _ QueryBuilder = DefaultBuilder{}

func (d DefaultBuilder) CreatePlaceholderProvider() PlaceholderProvider {
	if d.PlaceholderProviderFactory == nil {
		return &defaultPlaceholderProvider{}
	}
	return d.PlaceholderProviderFactory()
}

func (d DefaultBuilder) BuildSelectSQL(tableName string, fieldNames []string, where string, order []string) string {
	ret := fmt.Sprintf("SELECT %s FROM %s",
		strings.Join(d.quoteFields(fieldNames), ", "),
		d.quoteTable(tableName),
	)
	if where != "" {
		ret += fmt.Sprintf(" WHERE %s", where)
	}
	if len(order) > 0 {
		ret += fmt.Sprintf(" ORDER BY %s", strings.Join(d.quoteFields(order), ", "))
	}
	return ret
}

func (d DefaultBuilder) BuildInsertSQL(tableName string, fieldNames []string, fieldPlaceholders []string, keyField string) (string, bool) {
	ret := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.quoteTable(tableName),
		strings.Join(d.quoteFields(fieldNames), ", "),
		strings.Join(fieldPlaceholders, ", "),
	)
	if d.UseReturning {
		ret += fmt.Sprintf(" RETURNING %s", d.quoteField(keyField))
		return ret, true
	}
	return ret, false
}

func (d DefaultBuilder) BuildUpdateSQL(tableName string, fieldNames []string, fieldPlaceholders []string, where string) string {
	sets := make([]string, len(fieldNames))
	for i := range fieldNames {
		sets[i] = fmt.Sprintf("%s = %s", d.quoteField(fieldNames[i]), fieldPlaceholders[i])
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s",
		d.quoteTable(tableName),
		strings.Join(sets, ", "),
		where,
	)
}

func (d DefaultBuilder) BuildDeleteSQL(tableName string, where string) string {
	return fmt.Sprintf("DELETE FROM %s WHERE %s", d.quoteTable(tableName), where)
}

func (d DefaultBuilder) quoteTable(t string) string {
	if d.QuoteTable != nil {
		return d.QuoteTable(t)
	}
	return t
}

func (d DefaultBuilder) quoteField(f string) string {
	if d.QuoteField != nil {
		return d.QuoteField(f)
	}
	return f
}

func (d DefaultBuilder) quoteFields(fields []string) []string {
	if d.QuoteField == nil {
		return fields
	}
	fields = slices.Clone(fields)
	for fi := range fields {
		fields[fi] = d.QuoteField(fields[fi])
	}
	return fields
}
