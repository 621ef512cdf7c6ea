package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/railwatch/railwatch/internal/model"
)

// AddLines inserts every line whose (owner, company, line name) is not yet
// stored, in a single transaction. Existing tuples are left untouched.
// Returns the number of rows actually inserted.
func (r *Repository) AddLines(ctx context.Context, lines []*model.Line) (int, error) {
	if len(lines) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO lines (id, owner_id, company_name, line_name, info_url, memo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (owner_id, company_name, line_name) DO NOTHING
	`

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	inserted := 0
	for _, line := range lines {
		tag, err := tx.Exec(ctx, query,
			line.ID,
			line.OwnerID,
			line.CompanyName,
			line.LineName,
			nullString(line.InfoURL),
			nullString(line.Memo),
			line.CreatedAt,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert line: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit lines: %w", err)
	}

	return inserted, nil
}

// ListLinesByOwner returns the owner's lines, oldest first.
func (r *Repository) ListLinesByOwner(ctx context.Context, ownerID string) ([]*model.Line, error) {
	query := `
		SELECT id, owner_id, company_name, line_name, info_url, memo, created_at
		FROM lines
		WHERE owner_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lines: %w", err)
	}
	defer rows.Close()

	lines := make([]*model.Line, 0)
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line: %w", err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lines: %w", err)
	}

	return lines, nil
}

// DeleteLines removes the given lines, restricted to those owned by ownerID.
// Returns the number of rows deleted.
func (r *Repository) DeleteLines(ctx context.Context, ownerID string, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := `
		DELETE FROM lines
		WHERE owner_id = $1 AND id = ANY($2)
	`

	tag, err := r.pool.Exec(ctx, query, ownerID, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("failed to delete lines: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

func scanLine(row pgx.Row) (*model.Line, error) {
	var (
		line    model.Line
		infoURL *string
		memo    *string
	)
	if err := row.Scan(
		&line.ID,
		&line.OwnerID,
		&line.CompanyName,
		&line.LineName,
		&infoURL,
		&memo,
		&line.CreatedAt,
	); err != nil {
		return nil, err
	}
	line.InfoURL = derefString(infoURL)
	line.Memo = derefString(memo)
	return &line, nil
}
