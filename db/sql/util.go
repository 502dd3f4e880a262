package sql

import "fmt"

type rowInterface interface {
	Scan(dest ...any) error
}

func rowToMap(cols []string, row rowInterface) (map[string]any, error) {
	// Scan every column into an any, then key the results by column name.
	columns := make([]any, len(cols))
	columnPointers := make([]any, len(cols))
	for i := range columns {
		columnPointers[i] = &columns[i]
	}

	if err := row.Scan(columnPointers...); err != nil {
		return nil, err
	}

	m := make(map[string]any)
	for i, colName := range cols {
		val := columnPointers[i].(*any)
		m[colName] = *val
	}

	return m, nil
}

func valueString(v any) string {
	if v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	}
	return fmt.Sprint(v)
}
