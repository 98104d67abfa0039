// Package dataset loads the single source table of a chat session and offers
// the read-only operations the agent tools run against it.
package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	errx "github.com/chat-governanca/server/internal/core/error"
	logx "github.com/chat-governanca/server/pkg/logger"
)

// Config selects where the table comes from. URL takes precedence over Path.
type Config struct {
	Path    string        `envconfig:"CSV_PATH" default:"data.csv"`
	URL     string        `envconfig:"CSV_URL"`
	Timeout time.Duration `envconfig:"CSV_TIMEOUT" default:"30s"`
}

// Source returns the configured location used for loading.
func (c Config) Source() string {
	if c.URL != "" {
		return c.URL
	}
	return c.Path
}

// Kind is the inferred type of a column.
type Kind string

const (
	KindNumber Kind = "number"
	KindText   Kind = "text"
)

// Column holds one column of the table. Numbers is populated for number
// columns, with NaN for empty cells.
type Column struct {
	Name    string
	Kind    Kind
	Values  []string
	Numbers []float64
}

// Table is an immutable, column-oriented view of a CSV file.
type Table struct {
	Source  string
	Columns []Column
	rows    int
	byName  map[string]int
}

// Load reads the table from the configured URL or local path.
func Load(ctx context.Context, cfg Config) (*Table, error) {
	source := cfg.Source()
	if source == "" {
		return nil, errx.Dataset(fmt.Errorf("no CSV_PATH or CSV_URL configured"), "<empty>")
	}

	var (
		rc  io.ReadCloser
		err error
	)
	if cfg.URL != "" {
		rc, err = fetch(ctx, cfg.URL, cfg.Timeout)
	} else {
		rc, err = os.Open(cfg.Path)
	}
	if err != nil {
		logx.Error().Err(err).Str("source", source).Msg("failed to open dataset")
		return nil, errx.Dataset(err, source)
	}
	defer rc.Close()

	t, err := Read(rc)
	if err != nil {
		logx.Error().Err(err).Str("source", source).Msg("failed to parse dataset")
		return nil, errx.Dataset(err, source)
	}
	t.Source = source

	logx.Info().
		Str("source", source).
		Int("rows", t.Rows()).
		Int("columns", len(t.Columns)).
		Msg("dataset loaded")
	return t, nil
}

func fetch(ctx context.Context, url string, timeout time.Duration) (io.ReadCloser, error) {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download csv: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("download csv: unexpected status %s", resp.Status)
	}
	return resp.Body, nil
}

// Read parses CSV with a header row and infers column kinds.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	t := &Table{
		Columns: make([]Column, len(header)),
		byName:  make(map[string]int, len(header)),
	}
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("column_%d", i)
		}
		if _, dup := t.byName[name]; dup {
			name = fmt.Sprintf("%s_%d", name, i)
		}
		t.Columns[i] = Column{Name: name}
		t.byName[name] = i
	}

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}
		for i := range t.Columns {
			v := ""
			if i < len(rec) {
				v = strings.TrimSpace(rec[i])
			}
			t.Columns[i].Values = append(t.Columns[i].Values, v)
		}
		t.rows++
	}

	for i := range t.Columns {
		inferKind(&t.Columns[i])
	}
	return t, nil
}

func inferKind(c *Column) {
	nums := make([]float64, len(c.Values))
	seen := 0
	for i, v := range c.Values {
		if v == "" {
			nums[i] = math.NaN()
			continue
		}
		f, ok := parseNumber(v)
		if !ok {
			c.Kind = KindText
			return
		}
		nums[i] = f
		seen++
	}
	if seen == 0 {
		c.Kind = KindText
		return
	}
	c.Kind = KindNumber
	c.Numbers = nums
}

func parseNumber(v string) (float64, bool) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// Rows returns the number of data rows.
func (t *Table) Rows() int {
	return t.rows
}

// Column looks a column up by name, case-insensitively as a fallback.
func (t *Table) Column(name string) (*Column, error) {
	if i, ok := t.byName[name]; ok {
		return &t.Columns[i], nil
	}
	for i := range t.Columns {
		if strings.EqualFold(t.Columns[i].Name, strings.TrimSpace(name)) {
			return &t.Columns[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
}

// ColumnNames lists the header in order.
func (t *Table) ColumnNames() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// Row returns the cells of row i as a column-name keyed map.
func (t *Table) Row(i int) map[string]string {
	out := make(map[string]string, len(t.Columns))
	for _, c := range t.Columns {
		out[c.Name] = c.Values[i]
	}
	return out
}
