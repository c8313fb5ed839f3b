package postgres

import (
	"context"
	"fmt"

	"github.com/hrygo/cadsense/store"
)

func (d *DB) CreateDrawingRun(ctx context.Context, create *store.DrawingRun) (*store.DrawingRun, error) {
	query := `
		INSERT INTO drawing_run (uid, description, title, source, payload, sent, created_ts)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	payload := create.Payload
	if payload == "" {
		payload = "{}"
	}
	if err := d.db.QueryRowContext(ctx, query,
		create.UID,
		create.Description,
		create.Title,
		create.Source,
		payload,
		create.Sent,
		create.CreatedTs,
	).Scan(&create.ID); err != nil {
		return nil, fmt.Errorf("failed to create drawing run: %w", err)
	}
	return create, nil
}

func (d *DB) ListDrawingRuns(ctx context.Context, find *store.FindDrawingRun) ([]*store.DrawingRun, error) {
	query := `
		SELECT id, uid, description, title, source, payload::text, sent, created_ts
		FROM drawing_run
		WHERE 1=1
	`
	var args []interface{}
	argIndex := 1

	if find.UID != nil {
		query += fmt.Sprintf(" AND uid = $%d", argIndex)
		args = append(args, *find.UID)
		argIndex++
	}
	if find.Source != nil {
		query += fmt.Sprintf(" AND source = $%d", argIndex)
		args = append(args, *find.Source)
		argIndex++
	}
	query += fmt.Sprintf(" ORDER BY created_ts DESC, id DESC LIMIT $%d", argIndex)
	args = append(args, find.EffectiveLimit())

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list drawing runs: %w", err)
	}
	defer rows.Close()

	runs := []*store.DrawingRun{}
	for rows.Next() {
		var run store.DrawingRun
		err := rows.Scan(
			&run.ID,
			&run.UID,
			&run.Description,
			&run.Title,
			&run.Source,
			&run.Payload,
			&run.Sent,
			&run.CreatedTs,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan drawing run: %w", err)
		}
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list drawing runs: %w", err)
	}
	return runs, nil
}
