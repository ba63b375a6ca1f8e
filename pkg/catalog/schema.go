// pkg/catalog/schema.go
package catalog

// EventCatalog is the machine-readable description of every notification
// event the service can dispatch. Admin UIs read it to render settings
// screens and template editors.
type EventCatalog struct {
	Version     string  `json:"version"`
	LastUpdated string  `json:"lastUpdated"`
	Events      []Event `json:"events"`
}

type Event struct {
	Code            string   `json:"code"`
	DisplayName     string   `json:"displayName"`
	Description     string   `json:"description"`
	Category        string   `json:"category"`
	DefaultChannels []string `json:"defaultChannels"`
	// Variables lists the substitution keys the default template uses.
	Variables []string `json:"variables"`
}
