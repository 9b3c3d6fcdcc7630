package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/vendorguard/trusteed/internal/model"
)

// newMockStore creates a Store over sqlmock with automatic cleanup and
// expectation checking.
func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		db.Close()
	})
	return &Store{db: db}, mock
}

// trusteeRowColumns is the column list for scanTrustee results.
var trusteeRowColumns = []string{
	"id", "company_name", "business_number", "representative",
	"contact_name", "contact_phone", "contact_email", "delegated_tasks", "status",
	"created_at", "updated_at",
}

// inspectionRowColumns is the column list for scanInspection results.
var inspectionRowColumns = []string{
	"id", "trustee_id", "inspection_date", "score", "status",
	"findings", "improvements", "created_at", "updated_at",
}

func addTrusteeRow(rows *sqlmock.Rows, id, company, bn string, now time.Time) *sqlmock.Rows {
	return rows.AddRow(id, company, bn, "Rep", "Contact", "010-0000-0000",
		"c@example.com", "tasks", "active", now, now)
}

func TestGetTrustee(t *testing.T) {
	st, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(`(?s)SELECT .+ FROM trustees WHERE id = \$1`).
		WithArgs("tr-1").
		WillReturnRows(addTrusteeRow(sqlmock.NewRows(trusteeRowColumns), "tr-1", "Acme", "123", now))
	mock.ExpectQuery(`(?s)SELECT .+ FROM contracts WHERE trustee_id = \$1`).
		WithArgs("tr-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "trustee_id", "start_date", "end_date", "file_url", "created_at", "updated_at",
		}).AddRow("ct-1", "tr-1", now, now.AddDate(1, 0, 0), "https://files/1.pdf", now, now))

	got, err := st.GetTrustee(context.Background(), "tr-1")
	if err != nil {
		t.Fatalf("GetTrustee error: %v", err)
	}
	if got.CompanyName != "Acme" {
		t.Errorf("got company %q", got.CompanyName)
	}
	if len(got.Contracts) != 1 || got.Contracts[0].ID != "ct-1" {
		t.Errorf("got contracts %+v", got.Contracts)
	}
}

func TestGetTrustee_NoRows(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery(`(?s)SELECT .+ FROM trustees WHERE id = \$1`).
		WithArgs("tr-ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := st.GetTrustee(context.Background(), "tr-ghost")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("got %v, want sql.ErrNoRows", err)
	}
}

func TestListTrustees_SearchAndPagination(t *testing.T) {
	st, mock := newMockStore(t)
	now := time.Now()

	rows := sqlmock.NewRows(append([]string{"total_count"}, trusteeRowColumns...)).
		AddRow(7, "tr-1", "Acme", "123", "Rep", "Contact", "010", "c@e.com", "tasks", "active", now, now).
		AddRow(7, "tr-2", "Acme Two", "456", "Rep", "Contact", "010", "c@e.com", "tasks", "active", now, now)

	mock.ExpectQuery(`(?s)SELECT COUNT\(\*\) OVER \(\) AS total_count, .+ FROM trustees WHERE 1=1 AND \(company_name ILIKE \$1 OR business_number ILIKE \$1 OR contact_name ILIKE \$1\) ORDER BY created_at DESC LIMIT \$2 OFFSET \$3`).
		WithArgs("%Acme%", 2, 4).
		WillReturnRows(rows)

	trustees, total, err := st.ListTrustees(context.Background(), model.TrusteeFilter{
		Search: "Acme",
		Limit:  2,
		Offset: 4,
	})
	if err != nil {
		t.Fatalf("ListTrustees error: %v", err)
	}
	if total != 7 {
		t.Errorf("got total %d, want 7", total)
	}
	if len(trustees) != 2 {
		t.Errorf("got %d trustees, want 2", len(trustees))
	}
}

func TestUpdateTrustee_NoRowsAffected(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE trustees SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := st.UpdateTrustee(context.Background(), &model.Trustee{
		ID: "tr-ghost", Status: model.TrusteeActive,
	})
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("got %v, want sql.ErrNoRows", err)
	}
}

func TestDeleteTrustee(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec(`DELETE FROM trustees WHERE id = \$1`).
		WithArgs("tr-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := st.DeleteTrustee(context.Background(), "tr-1"); err != nil {
		t.Fatalf("DeleteTrustee error: %v", err)
	}
}

func TestGetInspection_NullScore(t *testing.T) {
	st, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(`(?s)SELECT .+ FROM inspections WHERE id = \$1`).
		WithArgs("insp-1").
		WillReturnRows(sqlmock.NewRows(inspectionRowColumns).
			AddRow("insp-1", "tr-1", now, nil, "scheduled", "", "", now, now))
	mock.ExpectQuery(`(?s)SELECT .+ FROM inspection_items WHERE inspection_id = \$1`).
		WithArgs("insp-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "inspection_id", "category", "question", "result", "note", "created_at", "updated_at",
		}))

	got, err := st.GetInspection(context.Background(), "insp-1")
	if err != nil {
		t.Fatalf("GetInspection error: %v", err)
	}
	if got.Score != nil {
		t.Errorf("got score %v, want nil", *got.Score)
	}
}

func TestLatestInspectionByTrustee(t *testing.T) {
	st, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(`(?s)SELECT .+ FROM inspections WHERE trustee_id = \$1 ORDER BY inspection_date DESC LIMIT 1`).
		WithArgs("tr-1").
		WillReturnRows(sqlmock.NewRows(inspectionRowColumns).
			AddRow("insp-9", "tr-1", now, 95, "completed", "ok", "", now, now))

	got, err := st.LatestInspectionByTrustee(context.Background(), "tr-1")
	if err != nil {
		t.Fatalf("LatestInspectionByTrustee error: %v", err)
	}
	if got.ID != "insp-9" || got.Score == nil || *got.Score != 95 {
		t.Errorf("got inspection %+v", got)
	}
}

func TestCancelInspectionsByTrustee(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec(`(?s)UPDATE inspections SET status = \$2, updated_at = NOW\(\).+WHERE trustee_id = \$1 AND status IN \(\$3, \$4\)`).
		WithArgs("tr-1", "cancelled", "scheduled", "in_progress").
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := st.CancelInspectionsByTrustee(context.Background(), "tr-1")
	if err != nil {
		t.Fatalf("CancelInspectionsByTrustee error: %v", err)
	}
	if n != 3 {
		t.Errorf("got %d rows cancelled, want 3", n)
	}
}

func TestCancelInspectionsByTrustee_NothingPending(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE inspections SET status = \$2, updated_at = NOW\(\)`).
		WithArgs("tr-1", "cancelled", "scheduled", "in_progress").
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := st.CancelInspectionsByTrustee(context.Background(), "tr-1")
	if err != nil {
		t.Fatalf("CancelInspectionsByTrustee error: %v", err)
	}
	if n != 0 {
		t.Errorf("got %d rows cancelled, want 0", n)
	}
}

func TestCreateInspectionItems_Transaction(t *testing.T) {
	st, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO inspection_items`).
		WithArgs("item-1", "insp-1", "safety", "q1", "pass", "", now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO inspection_items`).
		WithArgs("item-2", "insp-1", "records", "q2", "fail", "note", now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	items := []*model.InspectionItem{
		{ID: "item-1", Category: "safety", Question: "q1", Result: model.ResultPass, CreatedAt: now, UpdatedAt: now},
		{ID: "item-2", Category: "records", Question: "q2", Result: model.ResultFail, Note: "note", CreatedAt: now, UpdatedAt: now},
	}
	if err := st.CreateInspectionItems(context.Background(), "insp-1", items); err != nil {
		t.Fatalf("CreateInspectionItems error: %v", err)
	}
}

func TestCreateInspectionItems_RollbackOnFailure(t *testing.T) {
	st, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO inspection_items`).
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	items := []*model.InspectionItem{
		{ID: "item-1", Category: "safety", Question: "q1", Result: model.ResultPass, CreatedAt: now, UpdatedAt: now},
	}
	if err := st.CreateInspectionItems(context.Background(), "insp-1", items); err == nil {
		t.Fatal("CreateInspectionItems succeeded despite insert failure")
	}
}
