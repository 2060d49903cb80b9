// Package lists loads the tracked source handles for a named collection.
package lists

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Load reads <dir>/<name>.json, a JSON array of account handles. An
// unreadable or malformed file fails the whole ingestion run.
func Load(dir, name string) ([]string, error) {
	path := filepath.Join(dir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read list %s: %w", name, err)
	}
	var handles []string
	if err := json.Unmarshal(data, &handles); err != nil {
		return nil, fmt.Errorf("parse list %s: %w", name, err)
	}
	return handles, nil
}
