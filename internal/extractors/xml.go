package extractors

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/martinsumner/yokozuna/internal/core/domain"
)

// XMLExtractor flattens an XML document into one field per text node, named
// by the dot-joined element path from the root. Attributes index under
// "path@name". Blank text between elements is skipped. Fields come out in
// document order.
type XMLExtractor struct{}

func (e *XMLExtractor) Extract(value []byte, contentType string) ([]domain.Field, error) {
	dec := xml.NewDecoder(bytes.NewReader(value))

	var fields []domain.Field
	var stack []string

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, t.Name.Local)
			path := strings.Join(stack, ".")
			for _, attr := range t.Attr {
				fields = append(fields, domain.Field{
					Name:  path + "@" + attr.Name.Local,
					Value: attr.Value,
				})
			}
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			text := strings.TrimSpace(string(t))
			if text == "" || len(stack) == 0 {
				continue
			}
			fields = append(fields, domain.Field{
				Name:  strings.Join(stack, "."),
				Value: text,
			})
		}
	}

	return fields, nil
}

func (e *XMLExtractor) SupportedTypes() []string {
	return []string{"application/xml", "text/xml"}
}

func (e *XMLExtractor) Priority() int {
	return 50 // Format-specific
}
