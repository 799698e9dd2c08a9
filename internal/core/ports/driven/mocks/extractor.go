package mocks

import (
	"sync"

	"github.com/martinsumner/yokozuna/internal/core/domain"
	"github.com/martinsumner/yokozuna/internal/core/ports/driven"
)

// Ensure MockExtractor implements Extractor
var _ driven.Extractor = (*MockExtractor)(nil)

// MockExtractor is a mock implementation of Extractor for testing.
// It serves injected fields and records every value it is handed.
type MockExtractor struct {
	mu sync.Mutex

	Fields []domain.Field
	Err    error
	Types  []string
	Pri    int

	Calls []ExtractCall
}

// ExtractCall records one Extract invocation
type ExtractCall struct {
	Value       []byte
	ContentType string
}

func (m *MockExtractor) Extract(value []byte, contentType string) ([]domain.Field, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, ExtractCall{Value: value, ContentType: contentType})
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Fields, nil
}

func (m *MockExtractor) SupportedTypes() []string {
	if m.Types == nil {
		return []string{"*/*"}
	}
	return m.Types
}

func (m *MockExtractor) Priority() int {
	return m.Pri
}

// Ensure MockExtractorRegistry implements ExtractorRegistry
var _ driven.ExtractorRegistry = (*MockExtractorRegistry)(nil)

// MockExtractorRegistry is a mock implementation of ExtractorRegistry for
// testing. Lookup is exact on content type with an optional fallback; the
// wildcard matching of the real registry is not reproduced here.
type MockExtractorRegistry struct {
	mu         sync.RWMutex
	extractors map[string]driven.Extractor

	// Fallback is returned when no exact type matches. Nil means Get
	// returns nil for unknown types.
	Fallback driven.Extractor
}

// NewMockExtractorRegistry creates a new MockExtractorRegistry
func NewMockExtractorRegistry() *MockExtractorRegistry {
	return &MockExtractorRegistry{
		extractors: make(map[string]driven.Extractor),
	}
}

func (m *MockExtractorRegistry) Get(contentType string) driven.Extractor {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.extractors[contentType]; ok {
		return e
	}
	return m.Fallback
}

func (m *MockExtractorRegistry) GetAll(contentType string) []driven.Extractor {
	e := m.Get(contentType)
	if e == nil {
		return nil
	}
	return []driven.Extractor{e}
}

func (m *MockExtractorRegistry) Register(extractor driven.Extractor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range extractor.SupportedTypes() {
		m.extractors[t] = extractor
	}
}

func (m *MockExtractorRegistry) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	types := make([]string, 0, len(m.extractors))
	for t := range m.extractors {
		types = append(types, t)
	}
	return types
}
