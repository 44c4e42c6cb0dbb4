package repositories

import (
	"testing"
	"time"

	"crmbackend/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestContactGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT .+ FROM contacts WHERE location_id = \\? AND id = \\?").
		WithArgs("L1", int64(99)).
		WillReturnRows(sqlmock.NewRows(contactCols()))

	repo := ContactRepository{DB: db}
	_, err = repo.GetByID("L1", 99)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestContactListAppliesSearchFilterAndPaging(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM contacts WHERE location_id = \\? AND \\(first_name LIKE").
		WithArgs("L1", "%ali%", "%ali%", "%ali%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(23))
	mock.ExpectQuery("SELECT .+ FROM contacts WHERE location_id = \\? AND \\(first_name LIKE .+ ORDER BY id DESC LIMIT \\? OFFSET \\?").
		WithArgs("L1", "%ali%", "%ali%", "%ali%", 10, 10).
		WillReturnRows(sqlmock.NewRows(contactCols()).
			AddRow(5, "L1", "Alice", "Smith", "alice@x.com", "0800", "vip", now, now))

	repo := ContactRepository{DB: db}
	list, total, err := repo.List("L1", domain.Pagination{Page: 2, Limit: 10, SortBy: "id", SortOrder: "desc"}, map[string]string{"search": "ali"})
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if total != 23 {
		t.Fatalf("total = %d, want 23", total)
	}
	if len(list) != 1 || list[0].FirstName != "Alice" {
		t.Fatalf("unexpected list: %+v", list)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestContactListNormalizesSortOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM contacts").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	// sortBy is not a known column and sortOrder is garbage: both fall back.
	mock.ExpectQuery("ORDER BY id DESC LIMIT \\? OFFSET \\?").
		WithArgs("L1", 20, 0).
		WillReturnRows(sqlmock.NewRows(contactCols()))

	repo := ContactRepository{DB: db}
	_, _, err = repo.List("L1", domain.Pagination{Page: 1, Limit: 20, SortBy: "password_hash", SortOrder: "DROP TABLE"}, nil)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestContactDeleteMissingRowIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("DELETE FROM contacts WHERE location_id = \\? AND id = \\?").
		WithArgs("L1", int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := ContactRepository{DB: db}
	if err := repo.Delete("L1", 4); !domain.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func contactCols() []string {
	return []string{"id", "location_id", "first_name", "last_name", "email", "phone", "tags", "created_at", "updated_at"}
}
