package sqlite

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/hrygo/cadsense/store"
)

func (d *DB) CreateDrawingRun(ctx context.Context, create *store.DrawingRun) (*store.DrawingRun, error) {
	stmt := `
		INSERT INTO drawing_run (uid, description, title, source, payload, sent, created_ts)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID,
		create.Description,
		create.Title,
		create.Source,
		create.Payload,
		create.Sent,
		create.CreatedTs,
	).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create drawing run")
	}
	return create, nil
}

func (d *DB) ListDrawingRuns(ctx context.Context, find *store.FindDrawingRun) ([]*store.DrawingRun, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find.UID != nil {
		where, args = append(where, "uid = ?"), append(args, *find.UID)
	}
	if find.Source != nil {
		where, args = append(where, "source = ?"), append(args, *find.Source)
	}
	args = append(args, find.EffectiveLimit())

	query := `
		SELECT id, uid, description, title, source, payload, sent, created_ts
		FROM drawing_run
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts DESC, id DESC
		LIMIT ?`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list drawing runs")
	}
	defer rows.Close()

	list := []*store.DrawingRun{}
	for rows.Next() {
		var run store.DrawingRun
		if err := rows.Scan(
			&run.ID,
			&run.UID,
			&run.Description,
			&run.Title,
			&run.Source,
			&run.Payload,
			&run.Sent,
			&run.CreatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan drawing run")
		}
		list = append(list, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to list drawing runs")
	}
	return list, nil
}
