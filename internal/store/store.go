package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/KaramelBytes/tabloom-cli/internal/table"
	"github.com/KaramelBytes/tabloom-cli/internal/utils"
)

// SchemaVersion is bumped whenever the on-disk layout changes. Files written
// with another version are ignored.
const SchemaVersion = 2

const (
	tableFileName  = "table.json"
	chartsFileName = "charts.json"
)

// Store persists the current table and saved chart configurations as JSON
// files in a directory.
type Store struct {
	dir string
}

type tableFile struct {
	Version int          `json:"version"`
	SavedAt time.Time    `json:"saved_at"`
	Source  string       `json:"source,omitempty"`
	Table   *table.Table `json:"table"`
}

// Open returns a store rooted at dir. The directory is created on first write.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("store directory not set")
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store's directory.
func (s *Store) Dir() string { return s.dir }

// Load returns the current table, or nil when none is stored or the stored
// schema version differs.
func (s *Store) Load() (*table.Table, error) {
	b, err := os.ReadFile(filepath.Join(s.dir, tableFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read table: %w", err)
	}
	var f tableFile
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse table: %w", err)
	}
	if f.Version != SchemaVersion || f.Table == nil {
		return nil, nil
	}
	restoreRows(f.Table)
	return f.Table, nil
}

// restoreRows re-adds Empty cells that JSON decoding left undefined, so a
// reloaded table defines every column on every row.
func restoreRows(t *table.Table) {
	for _, r := range t.Rows {
		for _, col := range t.Columns {
			if _, ok := r[col]; !ok {
				r[col] = table.Cell{}
			}
		}
	}
}

// Save replaces the stored table.
func (s *Store) Save(t *table.Table) error {
	if t == nil {
		return errors.New("table is nil")
	}
	if err := utils.EnsureDir(s.dir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	data, err := utils.PrettyJSON(tableFile{Version: SchemaVersion, SavedAt: time.Now(), Source: t.Name, Table: t})
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(s.dir, tableFileName), data)
}

// Clear removes the stored table. Saved charts are kept.
func (s *Store) Clear() error {
	err := os.Remove(filepath.Join(s.dir, tableFileName))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove table: %w", err)
	}
	return nil
}
