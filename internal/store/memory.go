package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Fixed-width timestamp so lexicographic comparison matches chronological
// order when sorting rows.
const memoryTimeFormat = "2006-01-02T15:04:05.000000000Z"

// Memory is an in-memory Store used for development and tests. It honors
// the same contract as the remote backends: server-assigned ids and
// timestamps on insert, representation-returning writes, and stable
// insertion order as the sort tie-break.
type Memory struct {
	mu     sync.Mutex
	tables map[string][]Row
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{tables: make(map[string][]Row)}
}

// Select returns copies of rows matching all equality filters.
func (m *Memory) Select(ctx context.Context, table string, filters map[string]string, order string) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Row
	for _, row := range m.tables[table] {
		if matches(row, filters) {
			out = append(out, cloneRow(row))
		}
	}

	if order != "" {
		field, desc := SplitOrder(order)
		sort.SliceStable(out, func(i, j int) bool {
			if desc {
				return lessValue(out[j][field], out[i][field])
			}
			return lessValue(out[i][field], out[j][field])
		})
	}

	return out, nil
}

// Insert appends rows, assigning id and timestamps when absent.
func (m *Memory) Insert(ctx context.Context, table string, rows []Row) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC().Format(memoryTimeFormat)
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		stored := cloneRow(row)
		if id, ok := stored["id"].(string); !ok || id == "" {
			stored["id"] = uuid.New().String()
		}
		if _, ok := stored["created_at"]; !ok {
			stored["created_at"] = now
		}
		if _, ok := stored["updated_at"]; !ok {
			stored["updated_at"] = now
		}
		m.tables[table] = append(m.tables[table], stored)
		out = append(out, cloneRow(stored))
	}
	return out, nil
}

// Update patches every row matching all equality filters.
func (m *Memory) Update(ctx context.Context, table string, match map[string]string, patch Row) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Row
	for _, row := range m.tables[table] {
		if !matches(row, match) {
			continue
		}
		for k, v := range patch {
			row[k] = v
		}
		out = append(out, cloneRow(row))
	}
	return out, nil
}

// Delete removes every row matching all equality filters.
func (m *Memory) Delete(ctx context.Context, table string, match map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.tables[table][:0]
	for _, row := range m.tables[table] {
		if !matches(row, match) {
			kept = append(kept, row)
		}
	}
	m.tables[table] = kept
	return nil
}

func matches(row Row, filters map[string]string) bool {
	for k, want := range filters {
		v, ok := row[k]
		if !ok || v == nil {
			return false
		}
		if fmt.Sprint(v) != want {
			return false
		}
	}
	return true
}

func lessValue(a, b any) bool {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			return af < bf
		}
	}
	if a == nil {
		return b != nil
	}
	if b == nil {
		return false
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

func cloneRow(row Row) Row {
	out := make(Row, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}
