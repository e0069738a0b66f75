// Package flatfile implements domain.RowStore over comma-separated files,
// one file per resource, in a single data directory.
//
// Rows are joined with "," and split on "," with no quoting or escaping, so a
// field must never contain a comma. Input validation upstream enforces this.
package flatfile

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zjrosen/registrar/internal/log"
	"github.com/zjrosen/registrar/internal/registrar/domain"
)

const separator = ","

// Store persists rows as lines of comma-separated fields.
type Store struct {
	dir string
}

// Ensure Store implements domain.RowStore.
var _ domain.RowStore = (*Store)(nil)

// New creates a store rooted at dir. The directory is created on first write.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the data directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file backing a resource.
func (s *Store) Path(res domain.Resource) string {
	return filepath.Join(s.dir, FileName(res))
}

// FileName returns the base file name for a resource, e.g. "students.csv".
func FileName(res domain.Resource) string {
	return string(res) + ".csv"
}

// Read returns every non-blank line of the resource file split into fields.
// A missing file yields no rows and no error.
func (s *Store) Read(res domain.Resource) ([][]string, error) {
	path := s.Path(res)
	f, err := os.Open(path) //nolint:gosec // G304: path is data dir + fixed resource name
	if errors.Is(err, os.ErrNotExist) {
		return [][]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	rows := make([][]string, 0)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		rows = append(rows, strings.Split(line, separator))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	log.Debug(log.CatStore, "Read rows", "resource", res, "rows", len(rows))
	return rows, nil
}

// WriteAll replaces the resource file with rows.
// Writes to a temp file in the same directory, then renames it over the target.
func (s *Store) WriteAll(res domain.Resource, rows [][]string) error {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	var buf strings.Builder
	for _, row := range rows {
		buf.WriteString(strings.Join(row, separator))
		buf.WriteByte('\n')
	}

	path := s.Path(res)
	temp, err := os.CreateTemp(s.dir, "."+string(res)+".tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.WriteString(buf.String()); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	log.Debug(log.CatStore, "Wrote rows", "resource", res, "rows", len(rows))
	return nil
}

// Append adds one row to the end of the resource file, creating it if needed.
func (s *Store) Append(res domain.Resource, row []string) error {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	path := s.Path(res)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600) //nolint:gosec // G304: see Read
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	if _, err := f.WriteString(strings.Join(row, separator) + "\n"); err != nil {
		_ = f.Close()
		return fmt.Errorf("appending to %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}

	log.Debug(log.CatStore, "Appended row", "resource", res)
	return nil
}
