package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"remap/pkg/schema"
)

// WriteCSV serializes a table to path in column order, creating parent
// directories as needed. Null cells serialize as empty fields.
func WriteCSV(path string, tbl *schema.Table) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(tbl.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(tbl.Columns))
	for i, rec := range tbl.Rows {
		for j, col := range tbl.Columns {
			v := rec.Get(col)
			if v.IsNull() {
				row[j] = ""
			} else {
				row[j] = v.Raw
			}
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}
