package types

import "encoding/json"

// ProviderRecord is one configuration entry from the source of truth.
type ProviderRecord struct {
	// ID is an opaque identifier, may be empty.
	ID string `json:"id"`

	// Name is the human chosen display name, may be empty.
	Name string `json:"name"`

	// Settings is the provider's settings document, kept verbatim.
	// A nil value is materialized as JSON null.
	Settings json.RawMessage `json:"settingsConfig"`
}

// Entry is a provider record after name resolution, ready to be written.
type Entry struct {
	// OriginalName is the display name before collision resolution.
	OriginalName string

	// UniqueName is unique within one materialization pass.
	UniqueName string

	// Token is the filesystem-safe encoding of UniqueName.
	Token string

	ID       string
	Settings json.RawMessage
}
