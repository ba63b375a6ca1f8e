// pkg/catalog/catalog.go
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// Load reads an event catalog from a JSON file.
func Load(path string) (*EventCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cat EventCatalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("invalid event catalog %s: %w", path, err)
	}
	return &cat, nil
}

// ByCode returns the entry for code, or nil when the catalog has none.
func (c *EventCatalog) ByCode(code string) *Event {
	for i := range c.Events {
		if c.Events[i].Code == code {
			return &c.Events[i]
		}
	}
	return nil
}
