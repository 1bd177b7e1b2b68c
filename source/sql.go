package source

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Sparky983/warp-config-sub000/node"
)

// SQL returns a source running query against db on every load. The query
// must yield two text columns: a dotted path and its value. NULL values
// become nil nodes; other values are classified like YAML scalars.
func SQL(ctx context.Context, db *sql.DB, query string, args ...any) Source {
	return Func(func() (node.Node, error) {
		return sqlNode(ctx, db, query, args)
	})
}

func sqlNode(ctx context.Context, db *sql.DB, query string, args []any) (node.Node, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query configuration: %w", err)
	}
	defer rows.Close()

	t := newTree()

	for rows.Next() {
		var (
			path  string
			value sql.NullString
		)

		if err := rows.Scan(&path, &value); err != nil {
			return nil, fmt.Errorf("failed to scan configuration row: %w", err)
		}

		segments, ok := splitPath(path)
		if !ok {
			return nil, fmt.Errorf("invalid configuration path %q", path)
		}

		n := node.Nil()
		if value.Valid {
			n = node.Scalar(value.String)
		}

		if err := t.set(segments, n); err != nil {
			return nil, err
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read configuration rows: %w", err)
	}

	if t.empty() {
		return nil, nil
	}

	return t.build(), nil
}
