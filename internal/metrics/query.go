package metrics

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QueryResult holds one executed metrics query: column names and row values
// already rendered as strings for display.
type QueryResult struct {
	Columns []string
	Rows    [][]string
}

// RunQuery executes the rendered SELECT against the pool.
func RunQuery(ctx context.Context, pool *pgxpool.Pool, defs *Definitions) (*QueryResult, error) {
	rows, err := pool.Query(ctx, defs.RenderSelect())
	if err != nil {
		return nil, fmt.Errorf("run metrics query: %w", err)
	}
	defer rows.Close()

	res := &QueryResult{}
	for _, fd := range rows.FieldDescriptions() {
		res.Columns = append(res.Columns, fd.Name)
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("scan metrics row: %w", err)
		}
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = formatValue(v)
		}
		res.Rows = append(res.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read metrics rows: %w", err)
	}
	return res, nil
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case pgtype.Numeric:
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return "NULL"
		}
		return strconv.FormatFloat(f.Float64, 'f', -1, 64)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}
