package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/KaramelBytes/tabloom-cli/internal/analysis"
	"github.com/KaramelBytes/tabloom-cli/internal/utils"
	"github.com/google/uuid"
)

// ChartType names a rendering style. Drawing itself happens elsewhere.
type ChartType string

const (
	ChartBar     ChartType = "bar"
	ChartLine    ChartType = "line"
	ChartPie     ChartType = "pie"
	ChartScatter ChartType = "scatter"
)

// ParseChartType validates a chart type name.
func ParseChartType(s string) (ChartType, error) {
	switch ct := ChartType(strings.ToLower(strings.TrimSpace(s))); ct {
	case ChartBar, ChartLine, ChartPie, ChartScatter:
		return ct, nil
	case "":
		return ChartBar, nil
	}
	return "", fmt.Errorf("unsupported chart type %q (use bar|line|pie|scatter)", s)
}

// ChartConfig is a saved aggregation that can be re-run on the current table.
type ChartConfig struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Type      ChartType         `json:"type"`
	GroupBy   string            `json:"group_by"`
	Value     string            `json:"value"`
	Operator  analysis.Operator `json:"operator"`
	Filter    analysis.Filter   `json:"filter,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

type chartsFile struct {
	Version int                     `json:"version"`
	Charts  map[string]*ChartConfig `json:"charts"`
}

// ErrChartNotFound is returned when no chart matches an ID or name.
var ErrChartNotFound = errors.New("chart not found")

func (s *Store) readCharts() (map[string]*ChartConfig, error) {
	b, err := os.ReadFile(filepath.Join(s.dir, chartsFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]*ChartConfig{}, nil
		}
		return nil, fmt.Errorf("read charts: %w", err)
	}
	var f chartsFile
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse charts: %w", err)
	}
	if f.Version != SchemaVersion || f.Charts == nil {
		return map[string]*ChartConfig{}, nil
	}
	return f.Charts, nil
}

func (s *Store) writeCharts(charts map[string]*ChartConfig) error {
	if err := utils.EnsureDir(s.dir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	data, err := utils.PrettyJSON(chartsFile{Version: SchemaVersion, Charts: charts})
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(s.dir, chartsFileName), data)
}

// SaveChart assigns an ID and creation time when missing and persists c.
func (s *Store) SaveChart(c *ChartConfig) error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("chart name is required")
	}
	charts, err := s.readCharts()
	if err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	charts[c.ID] = c
	return s.writeCharts(charts)
}

// Charts returns saved charts, oldest first.
func (s *Store) Charts() ([]*ChartConfig, error) {
	charts, err := s.readCharts()
	if err != nil {
		return nil, err
	}
	out := make([]*ChartConfig, 0, len(charts))
	for _, c := range charts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Chart finds a chart by ID, ID prefix or exact name.
func (s *Store) Chart(ref string) (*ChartConfig, error) {
	charts, err := s.Charts()
	if err != nil {
		return nil, err
	}
	var match *ChartConfig
	for _, c := range charts {
		if c.ID == ref || c.Name == ref {
			return c, nil
		}
		if len(ref) >= 4 && strings.HasPrefix(c.ID, ref) {
			if match != nil {
				return nil, fmt.Errorf("chart reference %q is ambiguous", ref)
			}
			match = c
		}
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s", ErrChartNotFound, ref)
	}
	return match, nil
}

// DeleteChart removes a chart by reference.
func (s *Store) DeleteChart(ref string) error {
	c, err := s.Chart(ref)
	if err != nil {
		return err
	}
	charts, err := s.readCharts()
	if err != nil {
		return err
	}
	delete(charts, c.ID)
	return s.writeCharts(charts)
}
