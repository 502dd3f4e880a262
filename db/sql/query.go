package sql

import (
	"context"
	"database/sql"

	"github.com/rgmello/activerow"
)

// pendingQuery is a built SELECT waiting for its single execution.
type pendingQuery struct {
	db    DB
	query string
	args  []any
}

var _ activerow.PendingQuery = (*pendingQuery)(nil)

func (q *pendingQuery) Execute(ctx context.Context) (activerow.RowSource, error) {
	rows, err := q.db.QueryContext(ctx, q.query, q.args...)
	if err != nil {
		return nil, err
	}
	cols, err := rows.Columns()
	if err != nil {
		_ = rows.Close()
		return nil, err
	}
	return &rowSource{rows: rows, cols: cols}, nil
}

type rowSource struct {
	rows *sql.Rows
	cols []string
}

var _ activerow.RowSource = (*rowSource)(nil)

func (r *rowSource) Next(ctx context.Context) (map[string]any, bool, error) {
	if !r.rows.Next() {
		if err := r.rows.Err(); err != nil {
			return nil, false, err
		}
		return nil, false, nil
	}
	ret, err := rowToMap(r.cols, r.rows)
	if err != nil {
		return nil, false, err
	}
	return ret, true, nil
}

func (r *rowSource) Close() error {
	return r.rows.Close()
}
