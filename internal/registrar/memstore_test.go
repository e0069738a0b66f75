package registrar

import (
	"errors"
	"slices"

	"github.com/zjrosen/registrar/internal/registrar/domain"
)

var errInjected = errors.New("injected store failure")

// memStore is an in-memory domain.RowStore that records calls and can be
// told to fail.
type memStore struct {
	rows map[domain.Resource][][]string

	failReads  bool
	failWrites bool

	reads   map[domain.Resource]int
	writes  map[domain.Resource]int
	appends map[domain.Resource]int
}

var _ domain.RowStore = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		rows:    make(map[domain.Resource][][]string),
		reads:   make(map[domain.Resource]int),
		writes:  make(map[domain.Resource]int),
		appends: make(map[domain.Resource]int),
	}
}

func (m *memStore) with(res domain.Resource, rows ...[]string) *memStore {
	m.rows[res] = rows
	return m
}

func (m *memStore) Read(res domain.Resource) ([][]string, error) {
	m.reads[res]++
	if m.failReads {
		return nil, errInjected
	}
	out := make([][]string, 0, len(m.rows[res]))
	for _, row := range m.rows[res] {
		out = append(out, slices.Clone(row))
	}
	return out, nil
}

func (m *memStore) WriteAll(res domain.Resource, rows [][]string) error {
	m.writes[res]++
	if m.failWrites {
		return errInjected
	}
	cp := make([][]string, 0, len(rows))
	for _, row := range rows {
		cp = append(cp, slices.Clone(row))
	}
	m.rows[res] = cp
	return nil
}

func (m *memStore) Append(res domain.Resource, row []string) error {
	m.appends[res]++
	if m.failWrites {
		return errInjected
	}
	m.rows[res] = append(m.rows[res], slices.Clone(row))
	return nil
}

func (m *memStore) resetCounts() {
	clear(m.reads)
	clear(m.writes)
	clear(m.appends)
}
