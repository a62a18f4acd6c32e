package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkeene/cohort/internal/table"
)

// Run is one row of the export audit log.
type Run struct {
	ID        string
	CreatedAt time.Time
	TableName string
	RowCount  int
	ColCount  int
}

// SaveTable writes a consolidated table into the database under the
// given name, replacing any previous export of that name, and appends
// an audit row. All cells are stored as TEXT in rendered form; null
// cells become SQL NULL. Returns the run ID.
func (s *Store) SaveTable(ctx context.Context, name string, t *table.Table) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("save table: empty table name")
	}
	if t.NumCols() == 0 {
		return "", fmt.Errorf("save table %s: table has no columns", name)
	}

	runID, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("save table %s: %w", name, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("save table %s: begin tx: %w", name, err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(name)); err != nil {
		return "", fmt.Errorf("save table %s: drop: %w", name, err)
	}

	cols := t.Columns()
	defs := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = quoteIdent(c) + " TEXT"
		marks[i] = "?"
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(name), strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return "", fmt.Errorf("save table %s: create: %w", name, err)
	}

	insert := fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(name), strings.Join(marks, ", "))
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return "", fmt.Errorf("save table %s: prepare: %w", name, err)
	}
	defer stmt.Close()

	args := make([]any, len(cols))
	for row := 0; row < t.NumRows(); row++ {
		for i, c := range cols {
			v := t.Cell(c, row)
			if table.IsEmpty(v) {
				args[i] = nil
				continue
			}
			args[i] = table.Render(v)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return "", fmt.Errorf("save table %s: insert row %d: %w", name, row, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, table_name, row_count, col_count)
		VALUES (?, ?, ?, ?, ?)
	`,
		runID.String(),
		time.Now().UTC().Format(time.RFC3339),
		name,
		t.NumRows(),
		t.NumCols(),
	)
	if err != nil {
		return "", fmt.Errorf("save table %s: audit row: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("save table %s: commit: %w", name, err)
	}
	return runID.String(), nil
}

// ReadTable loads a previously exported table. Key columns are
// restored as text; everything else is re-classified the way the CSV
// loader classifies cells.
func (s *Store) ReadTable(ctx context.Context, name string, keys table.Keys) (*table.Table, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT * FROM "+quoteIdent(name))
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", name, err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read table %s: columns: %w", name, err)
	}

	cells := make([][]table.Value, len(names))
	scan := make([]any, len(names))
	raw := make([]*string, len(names))
	for i := range raw {
		scan[i] = &raw[i]
	}
	for rows.Next() {
		if err := rows.Scan(scan...); err != nil {
			return nil, fmt.Errorf("read table %s: scan: %w", name, err)
		}
		for i, p := range raw {
			var v table.Value = table.Null{}
			switch {
			case p == nil:
			case names[i] == keys.Primary || names[i] == keys.Secondary:
				v = table.Text(*p)
			default:
				v = table.ParseValue(*p)
			}
			cells[i] = append(cells[i], v)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read table %s: %w", name, err)
	}

	cols := make([]table.Column, len(names))
	for i, n := range names {
		cols[i] = table.Column{Name: n, Cells: cells[i]}
	}
	return table.New(cols...)
}

// Runs lists the audit log, oldest first. UUIDv7 IDs sort in creation
// order, which the query relies on.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, table_name, row_count, col_count
		FROM runs ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var created string
		if err := rows.Scan(&r.ID, &created, &r.TableName, &r.RowCount, &r.ColCount); err != nil {
			return nil, fmt.Errorf("list runs: scan: %w", err)
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
			return nil, fmt.Errorf("list runs: parse %q: %w", created, err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// quoteIdent makes an arbitrary modality name safe as a SQLite
// identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
