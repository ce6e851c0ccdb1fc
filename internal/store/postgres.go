package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is a Store backed by a direct Postgres connection for
// deployments that bypass the REST layer. Rows travel as jsonb so both
// backends share one wire representation.
type Postgres struct {
	db *pgxpool.Pool
}

// NewPostgres creates a new Postgres store.
func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

// Select returns rows matching all equality filters.
func (s *Postgres) Select(ctx context.Context, table string, filters map[string]string, order string) ([]Row, error) {
	where, args := whereClause(filters, 1)
	sql := fmt.Sprintf("SELECT to_jsonb(t) FROM %s t%s", ident(table), where)
	if order != "" {
		field, desc := SplitOrder(order)
		dir := "ASC"
		if desc {
			dir = "DESC"
		}
		sql += fmt.Sprintf(" ORDER BY %s %s", ident(field), dir)
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: select %s: %v", ErrUnavailable, table, err)
	}
	defer rows.Close()

	return scanRows(rows, table)
}

// Insert writes rows one at a time, returning each post-write
// representation. The store offers no transactions; a partial failure
// surfaces as an error with the rows written so far discarded by the
// caller.
func (s *Postgres) Insert(ctx context.Context, table string, in []Row) ([]Row, error) {
	out := make([]Row, 0, len(in))
	for _, row := range in {
		cols := sortedKeys(row)
		placeholders := make([]string, len(cols))
		args := make([]any, len(cols))
		quoted := make([]string, len(cols))
		for i, c := range cols {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
			args[i] = row[c]
			quoted[i] = ident(c)
		}
		sql := fmt.Sprintf(
			"INSERT INTO %s AS t (%s) VALUES (%s) RETURNING to_jsonb(t)",
			ident(table), strings.Join(quoted, ", "), strings.Join(placeholders, ", "),
		)

		var raw []byte
		if err := s.db.QueryRow(ctx, sql, args...).Scan(&raw); err != nil {
			return nil, fmt.Errorf("%w: insert %s: %v", ErrUnavailable, table, err)
		}
		var decoded Row
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return nil, fmt.Errorf("decode inserted %s row: %w", table, err)
		}
		out = append(out, decoded)
	}
	return out, nil
}

// Update patches rows matching all equality filters.
func (s *Postgres) Update(ctx context.Context, table string, match map[string]string, patch Row) ([]Row, error) {
	cols := sortedKeys(patch)
	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+len(match))
	for i, c := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", ident(c), i+1)
		args = append(args, patch[c])
	}
	where, whereArgs := whereClause(match, len(cols)+1)
	args = append(args, whereArgs...)

	sql := fmt.Sprintf(
		"UPDATE %s AS t SET %s%s RETURNING to_jsonb(t)",
		ident(table), strings.Join(sets, ", "), where,
	)

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: update %s: %v", ErrUnavailable, table, err)
	}
	defer rows.Close()

	return scanRows(rows, table)
}

// Delete removes rows matching all equality filters.
func (s *Postgres) Delete(ctx context.Context, table string, match map[string]string) error {
	where, args := whereClause(match, 1)
	sql := fmt.Sprintf("DELETE FROM %s%s", ident(table), where)
	if _, err := s.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("%w: delete %s: %v", ErrUnavailable, table, err)
	}
	return nil
}

func scanRows(rows pgx.Rows, table string) ([]Row, error) {
	var out []Row
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("%w: scan %s: %v", ErrUnavailable, table, err)
		}
		var decoded Row
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return nil, fmt.Errorf("decode %s row: %w", table, err)
		}
		out = append(out, decoded)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrUnavailable, table, err)
	}
	return out, nil
}

func whereClause(filters map[string]string, firstArg int) (string, []any) {
	if len(filters) == 0 {
		return "", nil
	}
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	conds := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		conds[i] = fmt.Sprintf("%s = $%d", ident(k), firstArg+i)
		args[i] = filters[k]
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func sortedKeys(row Row) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}
