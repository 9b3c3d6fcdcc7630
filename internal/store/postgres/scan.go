package postgres

import (
	"database/sql"

	"github.com/vendorguard/trusteed/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanTrustee scans a single row into a model.Trustee.
// The row must contain columns in the order defined by trusteeColumns.
func scanTrustee(row scannable) (*model.Trustee, error) {
	var t model.Trustee
	err := row.Scan(
		&t.ID,
		&t.CompanyName,
		&t.BusinessNumber,
		&t.Representative,
		&t.ContactName,
		&t.ContactPhone,
		&t.ContactEmail,
		&t.DelegatedTasks,
		&t.Status,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// scanTrusteeWithTotal scans a row of total_count + trustee columns.
func scanTrusteeWithTotal(row scannable) (*model.Trustee, int, error) {
	var (
		t     model.Trustee
		total int
	)
	err := row.Scan(
		&total,
		&t.ID,
		&t.CompanyName,
		&t.BusinessNumber,
		&t.Representative,
		&t.ContactName,
		&t.ContactPhone,
		&t.ContactEmail,
		&t.DelegatedTasks,
		&t.Status,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, 0, err
	}
	return &t, total, nil
}

func scanContract(row scannable) (*model.Contract, error) {
	var c model.Contract
	err := row.Scan(
		&c.ID,
		&c.TrusteeID,
		&c.StartDate,
		&c.EndDate,
		&c.FileURL,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func scanInspection(row scannable) (*model.Inspection, error) {
	var (
		i     model.Inspection
		score sql.NullInt64
	)
	err := row.Scan(
		&i.ID,
		&i.TrusteeID,
		&i.InspectionDate,
		&score,
		&i.Status,
		&i.Findings,
		&i.Improvements,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if score.Valid {
		v := int(score.Int64)
		i.Score = &v
	}
	return &i, nil
}

func scanInspectionWithTotal(row scannable) (*model.Inspection, int, error) {
	var (
		i     model.Inspection
		score sql.NullInt64
		total int
	)
	err := row.Scan(
		&total,
		&i.ID,
		&i.TrusteeID,
		&i.InspectionDate,
		&score,
		&i.Status,
		&i.Findings,
		&i.Improvements,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	if err != nil {
		return nil, 0, err
	}
	if score.Valid {
		v := int(score.Int64)
		i.Score = &v
	}
	return &i, total, nil
}

func scanItem(row scannable) (*model.InspectionItem, error) {
	var it model.InspectionItem
	err := row.Scan(
		&it.ID,
		&it.InspectionID,
		&it.Category,
		&it.Question,
		&it.Result,
		&it.Note,
		&it.CreatedAt,
		&it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// nullIntPtr converts an optional int into a nullable SQL value.
func nullIntPtr(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
