package driven

import "github.com/martinsumner/yokozuna/internal/core/domain"

// Extractor pulls index fields out of a raw object value.
// Each content type gets fields in its own shape: flat text lands under a
// single field, structured formats flatten into one field per leaf.
type Extractor interface {
	// Extract converts a raw value into index fields. A failure marks the
	// object unextractable; it is still indexed, under an error flag.
	Extract(value []byte, contentType string) ([]domain.Field, error)

	// SupportedTypes returns MIME types this extractor handles.
	// Can include wildcards like "text/*" or specific types like "application/json".
	SupportedTypes() []string

	// Priority returns the extractor priority (higher = more specific).
	// Priority ranges:
	//   50-89: Format-specific (JSON, XML)
	//   10-49: Generic (basic text handling)
	//   1-9:   Fallback (metadata only)
	Priority() int
}

// ExtractorRegistry manages content extractors.
// When multiple extractors match a content type, the highest priority one is used.
type ExtractorRegistry interface {
	// Get retrieves the best-matching extractor for a content type.
	// Returns nil if no extractor is registered for the type.
	Get(contentType string) Extractor

	// GetAll retrieves all extractors that match a content type, sorted by
	// priority (highest first).
	GetAll(contentType string) []Extractor

	// Register registers an extractor.
	Register(extractor Extractor)

	// List returns all registered content types.
	List() []string
}
