package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/zjrosen/registrar/internal/log"
	"github.com/zjrosen/registrar/internal/registrar/domain"
)

// ErrFieldCount is returned when a row does not have one value per column.
var ErrFieldCount = errors.New("row field count does not match table")

// ErrUnknownResource is returned for a resource with no backing table.
var ErrUnknownResource = errors.New("unknown resource")

// table maps a resource to its SQL table and ordered value columns.
type table struct {
	name    string
	columns []string
}

var tables = map[domain.Resource]table{
	domain.ResourceStudents:    {name: "students", columns: []string{"id", "name", "email", "program"}},
	domain.ResourceInstructors: {name: "instructors", columns: []string{"id", "name", "email", "department"}},
	domain.ResourceCourses:     {name: "courses", columns: []string{"kind", "code", "title", "capacity", "instructor_id"}},
	domain.ResourceEnrollments: {name: "enrollments", columns: []string{"student_id", "course_code"}},
}

func (t table) selectSQL() string {
	return `SELECT ` + strings.Join(t.columns, ", ") + ` FROM ` + t.name + ` ORDER BY seq`
}

func (t table) insertSQL() string {
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(t.columns)), ", ")
	return `INSERT INTO ` + t.name + ` (` + strings.Join(t.columns, ", ") + `) VALUES (` + marks + `)`
}

func (t table) args(row []string) ([]any, error) {
	if len(row) != len(t.columns) {
		return nil, fmt.Errorf("%s: got %d fields, want %d: %w", t.name, len(row), len(t.columns), ErrFieldCount)
	}
	out := make([]any, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out, nil
}

// rowStore implements domain.RowStore with one table per resource.
// Row order is the autoincrement seq column.
type rowStore struct {
	db *sql.DB
}

func newRowStore(db *sql.DB) *rowStore {
	return &rowStore{db: db}
}

// Ensure rowStore implements domain.RowStore.
var _ domain.RowStore = (*rowStore)(nil)

func lookup(res domain.Resource) (table, error) {
	t, ok := tables[res]
	if !ok {
		return table{}, fmt.Errorf("%q: %w", res, ErrUnknownResource)
	}
	return t, nil
}

// Read returns every row of the resource in insertion order.
func (s *rowStore) Read(res domain.Resource) ([][]string, error) {
	t, err := lookup(res)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(t.selectSQL())
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", t.name, err)
	}
	defer func() { _ = rows.Close() }()

	out := make([][]string, 0)
	for rows.Next() {
		row := make([]string, len(t.columns))
		dest := make([]any, len(row))
		for i := range row {
			dest[i] = &row[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", t.name, err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", t.name, err)
	}
	return out, nil
}

// WriteAll replaces the resource's rows in one transaction.
func (s *rowStore) WriteAll(res domain.Resource, rows [][]string) error {
	t, err := lookup(res)
	if err != nil {
		return err
	}

	// Validate before touching the table so a bad row leaves it intact.
	args := make([][]any, 0, len(rows))
	for _, row := range rows {
		a, err := t.args(row)
		if err != nil {
			return err
		}
		args = append(args, a)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM ` + t.name); err != nil {
		return fmt.Errorf("failed to clear %s: %w", t.name, err)
	}
	stmt, err := tx.Prepare(t.insertSQL())
	if err != nil {
		return fmt.Errorf("failed to prepare insert into %s: %w", t.name, err)
	}
	defer func() { _ = stmt.Close() }()

	for _, a := range args {
		if _, err := stmt.Exec(a...); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", t.name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", t.name, err)
	}

	log.Debug(log.CatStore, "Replaced rows", "table", t.name, "rows", len(rows))
	return nil
}

// Append inserts one row at the end of the resource.
func (s *rowStore) Append(res domain.Resource, row []string) error {
	t, err := lookup(res)
	if err != nil {
		return err
	}
	a, err := t.args(row)
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(t.insertSQL(), a...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", t.name, err)
	}
	return nil
}
