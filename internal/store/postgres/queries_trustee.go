package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vendorguard/trusteed/internal/model"
)

// trusteeColumns is the column list used for SELECT statements on trustees.
const trusteeColumns = `id, company_name, business_number, representative,
	contact_name, contact_phone, contact_email, delegated_tasks, status,
	created_at, updated_at`

// contractColumns is the column list used for SELECT statements on contracts.
const contractColumns = `id, trustee_id, start_date, end_date, file_url,
	created_at, updated_at`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) CreateTrustee(ctx context.Context, t *model.Trustee) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trustees (
			id, company_name, business_number, representative,
			contact_name, contact_phone, contact_email, delegated_tasks, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		t.ID,
		t.CompanyName,
		t.BusinessNumber,
		t.Representative,
		t.ContactName,
		t.ContactPhone,
		t.ContactEmail,
		t.DelegatedTasks,
		string(t.Status),
		t.CreatedAt,
		t.UpdatedAt,
	)
	return err
}

func (s *Store) GetTrustee(ctx context.Context, id string) (*model.Trustee, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+trusteeColumns+` FROM trustees WHERE id = $1`, id)
	t, err := scanTrustee(row)
	if err != nil {
		return nil, err
	}

	contracts, err := queryContractsByTrustee(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	t.Contracts = contracts
	return t, nil
}

func (s *Store) GetTrusteeByBusinessNumber(ctx context.Context, businessNumber string) (*model.Trustee, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+trusteeColumns+` FROM trustees WHERE business_number = $1`, businessNumber)
	return scanTrustee(row)
}

func (s *Store) ListTrustees(ctx context.Context, filter model.TrusteeFilter) ([]*model.Trustee, int, error) {
	where := " WHERE 1=1"
	args := []any{}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		p := fmt.Sprintf("$%d", len(args))
		where += ` AND (company_name ILIKE ` + p + ` OR business_number ILIKE ` + p + ` OR contact_name ILIKE ` + p + `)`
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	query := `SELECT COUNT(*) OVER () AS total_count, ` + trusteeColumns +
		` FROM trustees` + where + ` ORDER BY created_at DESC`
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
		trustees []*model.Trustee
		total    int
	)
	for rows.Next() {
		t, n, err := scanTrusteeWithTotal(rows)
		if err != nil {
			return nil, 0, err
		}
		total = n
		trustees = append(trustees, t)
	}
	return trustees, total, rows.Err()
}

func (s *Store) UpdateTrustee(ctx context.Context, t *model.Trustee) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE trustees SET
			company_name = $2, business_number = $3, representative = $4,
			contact_name = $5, contact_phone = $6, contact_email = $7,
			delegated_tasks = $8, status = $9, updated_at = $10
		WHERE id = $1`,
		t.ID,
		t.CompanyName,
		t.BusinessNumber,
		t.Representative,
		t.ContactName,
		t.ContactPhone,
		t.ContactEmail,
		t.DelegatedTasks,
		string(t.Status),
		t.UpdatedAt,
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

func (s *Store) DeleteTrustee(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM trustees WHERE id = $1`, id)
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

func (s *Store) TrusteeExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM trustees WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// --- contracts ---

func (s *Store) CreateContract(ctx context.Context, c *model.Contract) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contracts (id, trustee_id, start_date, end_date, file_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID,
		c.TrusteeID,
		c.StartDate,
		c.EndDate,
		c.FileURL,
		c.CreatedAt,
		c.UpdatedAt,
	)
	return err
}

func (s *Store) GetContract(ctx context.Context, id string) (*model.Contract, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+contractColumns+` FROM contracts WHERE id = $1`, id)
	return scanContract(row)
}

func (s *Store) ListContractsByTrustee(ctx context.Context, trusteeID string) ([]*model.Contract, error) {
	return queryContractsByTrustee(ctx, s.db, trusteeID)
}

func queryContractsByTrustee(ctx context.Context, db executor, trusteeID string) ([]*model.Contract, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+contractColumns+` FROM contracts WHERE trustee_id = $1 ORDER BY start_date DESC`, trusteeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contracts []*model.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, c)
	}
	return contracts, rows.Err()
}

func (s *Store) UpdateContract(ctx context.Context, c *model.Contract) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE contracts SET start_date = $2, end_date = $3, file_url = $4, updated_at = $5
		WHERE id = $1`,
		c.ID,
		c.StartDate,
		c.EndDate,
		c.FileURL,
		c.UpdatedAt,
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

func (s *Store) DeleteContract(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM contracts WHERE id = $1`, id)
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
