package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vendorguard/trusteed/internal/model"
)

// inspectionColumns is the column list used for SELECT statements on inspections.
const inspectionColumns = `id, trustee_id, inspection_date, score, status,
	findings, improvements, created_at, updated_at`

// itemColumns is the column list used for SELECT statements on inspection_items.
const itemColumns = `id, inspection_id, category, question, result, note,
	created_at, updated_at`

func (s *Store) CreateInspection(ctx context.Context, i *model.Inspection) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO inspections (
			id, trustee_id, inspection_date, score, status,
			findings, improvements, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		i.ID,
		i.TrusteeID,
		i.InspectionDate,
		nullIntPtr(i.Score),
		string(i.Status),
		i.Findings,
		i.Improvements,
		i.CreatedAt,
		i.UpdatedAt,
	)
	return err
}

func (s *Store) GetInspection(ctx context.Context, id string) (*model.Inspection, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+inspectionColumns+` FROM inspections WHERE id = $1`, id)
	i, err := scanInspection(row)
	if err != nil {
		return nil, err
	}

	items, err := queryItemsByInspection(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	i.Items = items
	return i, nil
}

func (s *Store) ListInspections(ctx context.Context, filter model.InspectionFilter) ([]*model.Inspection, int, error) {
	where := " WHERE 1=1"
	args := []any{}

	if filter.TrusteeID != "" {
		args = append(args, filter.TrusteeID)
		where += fmt.Sprintf(" AND trustee_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	query := `SELECT COUNT(*) OVER () AS total_count, ` + inspectionColumns +
		` FROM inspections` + where + ` ORDER BY inspection_date DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var (
		inspections []*model.Inspection
		total       int
	)
	for rows.Next() {
		i, n, err := scanInspectionWithTotal(rows)
		if err != nil {
			return nil, 0, err
		}
		total = n
		inspections = append(inspections, i)
	}
	return inspections, total, rows.Err()
}

func (s *Store) ListInspectionsByTrustee(ctx context.Context, trusteeID string) ([]*model.Inspection, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+inspectionColumns+` FROM inspections WHERE trustee_id = $1 ORDER BY inspection_date DESC`,
		trusteeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var inspections []*model.Inspection
	for rows.Next() {
		i, err := scanInspection(rows)
		if err != nil {
			return nil, err
		}
		inspections = append(inspections, i)
	}
	return inspections, rows.Err()
}

func (s *Store) LatestInspectionByTrustee(ctx context.Context, trusteeID string) (*model.Inspection, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+inspectionColumns+` FROM inspections WHERE trustee_id = $1 ORDER BY inspection_date DESC LIMIT 1`,
		trusteeID)
	return scanInspection(row)
}

func (s *Store) UpdateInspection(ctx context.Context, i *model.Inspection) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE inspections SET
			inspection_date = $2, score = $3, status = $4,
			findings = $5, improvements = $6, updated_at = $7
		WHERE id = $1`,
		i.ID,
		i.InspectionDate,
		nullIntPtr(i.Score),
		string(i.Status),
		i.Findings,
		i.Improvements,
		i.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *Store) DeleteInspection(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM inspections WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *Store) CancelInspectionsByTrustee(ctx context.Context, trusteeID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE inspections SET status = $2, updated_at = NOW()
		WHERE trustee_id = $1 AND status IN ($3, $4)`,
		trusteeID,
		string(model.InspectionCancelled),
		string(model.InspectionScheduled),
		string(model.InspectionInProgress),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// --- inspection items ---

func (s *Store) CreateInspectionItem(ctx context.Context, it *model.InspectionItem) error {
	return queryCreateItem(ctx, s.db, it)
}

func (s *Store) CreateInspectionItems(ctx context.Context, inspectionID string, items []*model.InspectionItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, it := range items {
		it.InspectionID = inspectionID
		if err := queryCreateItem(ctx, tx, it); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func queryCreateItem(ctx context.Context, db executor, it *model.InspectionItem) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO inspection_items (id, inspection_id, category, question, result, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		it.ID,
		it.InspectionID,
		it.Category,
		it.Question,
		string(it.Result),
		it.Note,
		it.CreatedAt,
		it.UpdatedAt,
	)
	return err
}

func (s *Store) GetInspectionItem(ctx context.Context, id string) (*model.InspectionItem, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM inspection_items WHERE id = $1`, id)
	return scanItem(row)
}

func (s *Store) ListInspectionItems(ctx context.Context, inspectionID string) ([]*model.InspectionItem, error) {
	return queryItemsByInspection(ctx, s.db, inspectionID)
}

func queryItemsByInspection(ctx context.Context, db executor, inspectionID string) ([]*model.InspectionItem, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM inspection_items WHERE inspection_id = $1 ORDER BY created_at`, inspectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*model.InspectionItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *Store) UpdateInspectionItem(ctx context.Context, it *model.InspectionItem) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE inspection_items SET category = $2, question = $3, result = $4, note = $5, updated_at = $6
		WHERE id = $1`,
		it.ID,
		it.Category,
		it.Question,
		string(it.Result),
		it.Note,
		it.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *Store) DeleteInspectionItem(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM inspection_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
