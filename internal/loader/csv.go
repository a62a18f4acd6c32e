package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkeene/cohort/internal/table"
)

// legacyEventColumn is the header some biospecimen extracts use for the
// visit identifier; it is renamed to the configured secondary key.
const legacyEventColumn = "CLINICAL_EVENT"

// patientIDPrefix is stripped from primary-key values: some sources
// write "PPMI-3000" where others write "3000".
const patientIDPrefix = "PPMI-"

// ReadTable parses one CSV extract into a table.
//
// Cells are classified by ParseValue, except key columns, which always
// stay Text so identifiers keep leading zeros and formatting. The
// primary key additionally has the study prefix stripped.
func ReadTable(r io.Reader, keys table.Keys) (*table.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged extracts exist; short rows read as null

	header, err := cr.Read()
	if err == io.EOF {
		return table.New()
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == legacyEventColumn && keys.Secondary != "" && !contains(header, keys.Secondary) {
			name = keys.Secondary
		}
		header[i] = name
	}

	cells := make([][]table.Value, len(header))
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		for i, name := range header {
			raw := ""
			if i < len(record) {
				raw = record[i]
			}
			cells[i] = append(cells[i], classify(name, raw, keys))
		}
	}

	cols := make([]table.Column, len(header))
	for i, name := range header {
		cols[i] = table.Column{Name: name, Cells: cells[i]}
	}
	return table.New(cols...)
}

// ReadTableFile is ReadTable over a file path.
func ReadTableFile(path string, keys table.Keys) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := ReadTable(f, keys)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func classify(column, raw string, keys table.Keys) table.Value {
	if column == keys.Primary {
		id := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), patientIDPrefix))
		if id == "" {
			return table.Null{}
		}
		return table.Text(id)
	}
	if column == keys.Secondary {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			return table.Null{}
		}
		return table.Text(trimmed)
	}
	return table.ParseValue(raw)
}

func contains(names []string, want string) bool {
	for _, n := range names {
		if strings.TrimSpace(n) == want {
			return true
		}
	}
	return false
}
