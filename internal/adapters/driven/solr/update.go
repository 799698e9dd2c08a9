package solr

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/martinsumner/yokozuna/internal/core/domain"
)

// encodeUpdate renders an update body with one "delete" member per delete
// operation followed by one "add" member per document. Member names repeat;
// Solr's JSON update handler reads objects as ordered member streams, so
// encoding/json's map-based marshalling cannot produce this body.
func encodeUpdate(docs []domain.Document, deletes []domain.DeleteOp) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	first := true
	for _, op := range deletes {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.WriteString(`"delete":`)
		if err := writeDeleteOp(&buf, op); err != nil {
			return nil, err
		}
	}

	for _, doc := range docs {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.WriteString(`"add":{"doc":`)
		if err := writeDoc(&buf, doc); err != nil {
			return nil, err
		}
		buf.WriteByte('}')
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeDeleteOp(buf *bytes.Buffer, op domain.DeleteOp) error {
	buf.WriteByte('{')
	switch {
	case op.ID != "":
		buf.WriteString(`"id":`)
		if err := writeJSON(buf, op.ID); err != nil {
			return err
		}
	default:
		buf.WriteString(`"query":`)
		if err := writeJSON(buf, op.Query); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

// writeDoc renders a document preserving field order and repeated names.
func writeDoc(buf *bytes.Buffer, doc domain.Document) error {
	buf.WriteByte('{')
	for i, f := range doc {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(buf, f.Name); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := writeJSON(buf, f.Value); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeJSON(buf *bytes.Buffer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}
	buf.Write(data)
	return nil
}
