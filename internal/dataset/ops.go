package dataset

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

var (
	ErrUnknownColumn   = errors.New("unknown column")
	ErrUnknownOperator = errors.New("unknown operator")
	ErrUnknownAgg      = errors.New("unknown aggregation")
	ErrNotNumeric      = errors.New("column is not numeric")
)

const maxRowsReturned = 50

// ColumnSummary describes one column, in the spirit of a dataframe describe().
type ColumnSummary struct {
	Name    string   `json:"name"`
	Kind    Kind     `json:"kind"`
	Count   int      `json:"count"`
	Missing int      `json:"missing"`
	Unique  int      `json:"unique"`
	Mean    *float64 `json:"mean,omitempty"`
	Std     *float64 `json:"std,omitempty"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Top     string   `json:"top,omitempty"`
}

// Describe summarises every column.
func (t *Table) Describe() []ColumnSummary {
	out := make([]ColumnSummary, 0, len(t.Columns))
	for i := range t.Columns {
		out = append(out, summarize(&t.Columns[i]))
	}
	return out
}

func summarize(c *Column) ColumnSummary {
	s := ColumnSummary{Name: c.Name, Kind: c.Kind}
	freq := make(map[string]int)
	for _, v := range c.Values {
		if v == "" {
			s.Missing++
			continue
		}
		s.Count++
		freq[v]++
	}
	s.Unique = len(freq)

	if c.Kind == KindNumber {
		st := numericStats(c.Numbers)
		if st.n > 0 {
			s.Mean, s.Min, s.Max = ptr(st.mean), ptr(st.min), ptr(st.max)
			if st.n > 1 {
				s.Std = ptr(st.std)
			}
		}
		return s
	}

	if counts := sortCounts(freq); len(counts) > 0 {
		s.Top = counts[0].Value
	}
	return s
}

type stats struct {
	n              int
	sum, mean, std float64
	min, max       float64
}

func numericStats(values []float64) stats {
	st := stats{min: math.Inf(1), max: math.Inf(-1)}
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		st.n++
		st.sum += v
		st.min = math.Min(st.min, v)
		st.max = math.Max(st.max, v)
	}
	if st.n == 0 {
		return stats{}
	}
	st.mean = st.sum / float64(st.n)
	if st.n > 1 {
		var sq float64
		for _, v := range values {
			if math.IsNaN(v) {
				continue
			}
			sq += (v - st.mean) * (v - st.mean)
		}
		st.std = math.Sqrt(sq / float64(st.n-1))
	}
	return st
}

func ptr(f float64) *float64 { return &f }

// Head returns the first n rows (capped).
func (t *Table) Head(n int) []map[string]string {
	n = clamp(n, 1, maxRowsReturned)
	if n > t.rows {
		n = t.rows
	}
	out := make([]map[string]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, t.Row(i))
	}
	return out
}

// ValueCount is one entry of a frequency table.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ValueCounts returns the most frequent non-empty values of a column.
func (t *Table) ValueCounts(column string, limit int) ([]ValueCount, error) {
	c, err := t.Column(column)
	if err != nil {
		return nil, err
	}
	freq := make(map[string]int)
	for _, v := range c.Values {
		if v != "" {
			freq[v]++
		}
	}
	counts := sortCounts(freq)
	limit = clamp(limit, 1, maxRowsReturned)
	if len(counts) > limit {
		counts = counts[:limit]
	}
	return counts, nil
}

func sortCounts(freq map[string]int) []ValueCount {
	out := make([]ValueCount, 0, len(freq))
	for v, n := range freq {
		out = append(out, ValueCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// Filter returns rows where column <op> value holds, plus the total match count.
// Operators: ==, !=, >, >=, <, <=, contains.
func (t *Table) Filter(column, op, value string, limit int) ([]map[string]string, int, error) {
	c, err := t.Column(column)
	if err != nil {
		return nil, 0, err
	}
	match, err := predicate(c, op, value)
	if err != nil {
		return nil, 0, err
	}
	limit = clamp(limit, 1, maxRowsReturned)

	var (
		rows  []map[string]string
		total int
	)
	for i := 0; i < t.rows; i++ {
		if !match(i) {
			continue
		}
		total++
		if len(rows) < limit {
			rows = append(rows, t.Row(i))
		}
	}
	return rows, total, nil
}

func predicate(c *Column, op, value string) (func(int) bool, error) {
	op = strings.ToLower(strings.TrimSpace(op))
	value = strings.TrimSpace(value)

	if op == "contains" {
		needle := strings.ToLower(value)
		return func(i int) bool { return strings.Contains(strings.ToLower(c.Values[i]), needle) }, nil
	}

	if want, ok := parseNumber(value); ok && c.Kind == KindNumber {
		cmp, err := numberComparator(op)
		if err != nil {
			return nil, err
		}
		return func(i int) bool {
			v := c.Numbers[i]
			return !math.IsNaN(v) && cmp(v, want)
		}, nil
	}

	switch op {
	case "==", "=":
		return func(i int) bool { return strings.EqualFold(c.Values[i], value) }, nil
	case "!=":
		return func(i int) bool { return !strings.EqualFold(c.Values[i], value) }, nil
	case ">", ">=", "<", "<=":
		return nil, fmt.Errorf("%w: %q with operator %s", ErrNotNumeric, c.Name, op)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownOperator, op)
}

func numberComparator(op string) (func(a, b float64) bool, error) {
	switch op {
	case "==", "=":
		return func(a, b float64) bool { return a == b }, nil
	case "!=":
		return func(a, b float64) bool { return a != b }, nil
	case ">":
		return func(a, b float64) bool { return a > b }, nil
	case ">=":
		return func(a, b float64) bool { return a >= b }, nil
	case "<":
		return func(a, b float64) bool { return a < b }, nil
	case "<=":
		return func(a, b float64) bool { return a <= b }, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownOperator, op)
}

// GroupResult is one group of an aggregation.
type GroupResult struct {
	Group string  `json:"group"`
	Value float64 `json:"value"`
}

// GroupAggregate groups rows by groupBy and aggregates column with agg, one of
// count, sum, mean, min, max. count ignores column.
func (t *Table) GroupAggregate(groupBy, column, agg string) ([]GroupResult, error) {
	g, err := t.Column(groupBy)
	if err != nil {
		return nil, err
	}
	agg = strings.ToLower(strings.TrimSpace(agg))
	switch agg {
	case "count", "sum", "mean", "min", "max":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAgg, agg)
	}

	var c *Column
	if agg != "count" {
		if c, err = t.Column(column); err != nil {
			return nil, err
		}
		if c.Kind != KindNumber {
			return nil, fmt.Errorf("%w: %q", ErrNotNumeric, c.Name)
		}
	}

	groups := make(map[string][]float64)
	order := make([]string, 0)
	for i := 0; i < t.rows; i++ {
		key := g.Values[i]
		if _, ok := groups[key]; !ok {
			order = append(order, key)
			groups[key] = nil
		}
		v := 1.0
		if c != nil {
			v = c.Numbers[i]
		}
		groups[key] = append(groups[key], v)
	}

	out := make([]GroupResult, 0, len(order))
	for _, key := range order {
		vals := groups[key]
		var v float64
		switch agg {
		case "count":
			v = float64(len(vals))
		case "sum":
			v = numericStats(vals).sum
		case "mean":
			v = numericStats(vals).mean
		case "min":
			v = numericStats(vals).min
		case "max":
			v = numericStats(vals).max
		}
		out = append(out, GroupResult{Group: key, Value: v})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	if len(out) > maxRowsReturned {
		out = out[:maxRowsReturned]
	}
	return out, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
