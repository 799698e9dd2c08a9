package extractors

import (
	"sort"
	"strings"
	"sync"

	"github.com/martinsumner/yokozuna/internal/core/domain"
	"github.com/martinsumner/yokozuna/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry implements ExtractorRegistry with priority-based selection.
// When multiple extractors match a content type, the highest priority one is used.
type Registry struct {
	mu         sync.RWMutex
	extractors []driven.Extractor
}

// NewRegistry creates a new extractor registry.
func NewRegistry() *Registry {
	return &Registry{
		extractors: make([]driven.Extractor, 0),
	}
}

// Register registers an extractor.
// Extractors are stored and later selected by priority.
func (r *Registry) Register(extractor driven.Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.extractors = append(r.extractors, extractor)
}

// Get retrieves the best-matching extractor for a content type.
// Returns nil if no extractor is registered for the type.
// When multiple match, the highest priority extractor is returned.
func (r *Registry) Get(contentType string) driven.Extractor {
	matches := r.GetAll(contentType)
	if len(matches) == 0 {
		return nil
	}
	return matches[0] // Already sorted by priority (highest first)
}

// GetAll retrieves all extractors that match a content type, sorted by priority (highest first).
func (r *Registry) GetAll(contentType string) []driven.Extractor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []driven.Extractor

	for _, e := range r.extractors {
		if matchesMIMEType(e.SupportedTypes(), contentType) {
			matches = append(matches, e)
		}
	}

	// Sort by priority (highest first); ties keep registration order
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Priority() > matches[j].Priority()
	})

	return matches
}

// List returns all registered content types.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	typeSet := make(map[string]struct{})
	for _, e := range r.extractors {
		for _, t := range e.SupportedTypes() {
			typeSet[t] = struct{}{}
		}
	}

	types := make([]string, 0, len(typeSet))
	for t := range typeSet {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// matchesMIMEType checks if any of the supported types match the given MIME type.
// Supports wildcard matching (e.g., "text/*" matches "text/plain").
func matchesMIMEType(supportedTypes []string, mimeType string) bool {
	// Normalize the input
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))

	// Strip charset and other parameters
	if idx := strings.Index(mimeType, ";"); idx != -1 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}

	for _, supported := range supportedTypes {
		supported = strings.ToLower(strings.TrimSpace(supported))

		// Exact match
		if supported == mimeType {
			return true
		}

		// Wildcard match (e.g., "text/*" matches "text/plain")
		if strings.HasSuffix(supported, "/*") {
			prefix := supported[:len(supported)-1] // "text/"
			if strings.HasPrefix(mimeType, prefix) {
				return true
			}
		}

		// Universal wildcard
		if supported == "*/*" {
			return true
		}
	}

	return false
}

// DefaultRegistry creates a registry with the standard extractors pre-registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(&TextExtractor{})
	r.Register(&JSONExtractor{})
	r.Register(&XMLExtractor{})
	r.Register(&NoopExtractor{})

	return r
}

// TextExtractor indexes a value verbatim under the "text" field.
// It covers text/plain and catches any text/* type that has no
// dedicated extractor.
type TextExtractor struct{}

func (e *TextExtractor) Extract(value []byte, contentType string) ([]domain.Field, error) {
	return []domain.Field{{Name: "text", Value: string(value)}}, nil
}

func (e *TextExtractor) SupportedTypes() []string {
	return []string{"text/plain", "text/*"}
}

func (e *TextExtractor) Priority() int {
	return 30 // Generic text handling - below the format-specific extractors
}

// NoopExtractor produces no content fields. Objects of unhandled types are
// still indexed on their metadata fields alone.
type NoopExtractor struct{}

func (e *NoopExtractor) Extract(value []byte, contentType string) ([]domain.Field, error) {
	return nil, nil
}

func (e *NoopExtractor) SupportedTypes() []string {
	return []string{"*/*"}
}

func (e *NoopExtractor) Priority() int {
	return 1 // Lowest priority - fallback
}
