package schema

import (
	"encoding/json"
	"fmt"
	"os"
)

// ColumnConfig is the ordered list of output columns for one entity.
// The order is the contract: projected output emits columns exactly in
// this sequence.
type ColumnConfig []string

// LoadColumnConfig reads a per-entity column configuration file (a JSON
// array of column names). A missing file is not an error: it returns a nil
// config and found=false, and the caller flags the all-columns fallback in
// the run report.
func LoadColumnConfig(path string) (ColumnConfig, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read column config %s: %w", path, err)
	}

	var cfg ColumnConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, false, fmt.Errorf("parse column config %s: %w", path, err)
	}
	return cfg, true, nil
}
