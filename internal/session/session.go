// Package session owns the single live table of a workspace.
package session

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/KaramelBytes/tabloom-cli/internal/parser"
	"github.com/KaramelBytes/tabloom-cli/internal/store"
	"github.com/KaramelBytes/tabloom-cli/internal/table"
)

// ErrNoTable is returned when an operation needs a table and none is loaded.
var ErrNoTable = errors.New("no table loaded (run `tabloom load <file>` first)")

// Session holds the current table and the store backing it. The table is
// replaced as a whole, never mutated in place.
type Session struct {
	mu     sync.RWMutex
	store  *store.Store
	table  *table.Table
	logger *slog.Logger
	parse  parser.Options
}

// Options configures a session.
type Options struct {
	Logger *slog.Logger
	Parser parser.Options
}

// Open restores the stored table, if any.
func Open(st *store.Store, opt Options) (*Session, error) {
	logger := opt.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opt.Parser.Logger == nil {
		opt.Parser.Logger = logger
	}
	t, err := st.Load()
	if err != nil {
		return nil, fmt.Errorf("restore table: %w", err)
	}
	if t != nil {
		logger.Debug("restored table", "name", t.Name, "rows", t.Len(), "columns", len(t.Columns))
	}
	return &Session{store: st, table: t, logger: logger, parse: opt.Parser}, nil
}

// Store returns the backing store.
func (s *Session) Store() *store.Store { return s.store }

// Table returns the live table or ErrNoTable.
func (s *Session) Table() (*table.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.table == nil {
		return nil, ErrNoTable
	}
	return s.table, nil
}

// Load parses path and makes it the live table. On any failure the previous
// table stays in place, both in memory and on disk.
func (s *Session) Load(path string) (*table.Table, error) {
	t, err := parser.ParseFile(path, s.parse)
	if err != nil {
		return nil, err
	}
	if err := s.Replace(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Replace persists t and swaps it in.
func (s *Session) Replace(t *table.Table) error {
	if err := s.store.Save(t); err != nil {
		return fmt.Errorf("save table: %w", err)
	}
	s.mu.Lock()
	s.table = t
	s.mu.Unlock()
	s.logger.Info("table loaded", "name", t.Name, "rows", t.Len(), "columns", len(t.Columns), "warnings", len(t.Warnings))
	return nil
}

// Clear drops the live table and its stored copy.
func (s *Session) Clear() error {
	if err := s.store.Clear(); err != nil {
		return err
	}
	s.mu.Lock()
	s.table = nil
	s.mu.Unlock()
	s.logger.Info("table cleared")
	return nil
}
