package extractors

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/martinsumner/yokozuna/internal/core/domain"
)

// JSONExtractor flattens a JSON value into one field per leaf. Nested object
// keys are joined with "."; array elements repeat under the element's path,
// feeding multi-valued index fields. Scalars keep their type (strings,
// numbers, booleans); nulls and unnamed top-level scalars are dropped.
// Fields come out in document order.
type JSONExtractor struct{}

func (e *JSONExtractor) Extract(value []byte, contentType string) ([]domain.Field, error) {
	dec := json.NewDecoder(bytes.NewReader(value))
	dec.UseNumber()

	var fields []domain.Field
	if err := walkJSONValue(dec, "", &fields); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid json: trailing data after value")
	}
	return fields, nil
}

func (e *JSONExtractor) SupportedTypes() []string {
	return []string{"application/json", "text/json"}
}

func (e *JSONExtractor) Priority() int {
	return 50 // Format-specific
}

// walkJSONValue consumes exactly one JSON value from the decoder, appending a
// field per scalar leaf.
func walkJSONValue(dec *json.Decoder, path string, fields *[]domain.Field) error {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return io.ErrUnexpectedEOF
		}
		return err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return err
				}
				key, _ := keyTok.(string)
				if err := walkJSONValue(dec, joinPath(path, key), fields); err != nil {
					return err
				}
			}
			_, err := dec.Token() // consume '}'
			return err
		default: // '['
			for dec.More() {
				if err := walkJSONValue(dec, path, fields); err != nil {
					return err
				}
			}
			_, err := dec.Token() // consume ']'
			return err
		}
	case nil:
		// Nulls carry no searchable content.
		return nil
	default:
		if path == "" {
			// A bare top-level scalar has no key to index under.
			return nil
		}
		*fields = append(*fields, domain.Field{Name: path, Value: t})
		return nil
	}
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
