package domain

import (
	"strconv"
	"strings"
)

// DeleteIntent is a logical deletion to be translated into the form the
// index understands. The three variants below are the only implementations.
type DeleteIntent interface {
	isDeleteIntent()
}

// DeleteByID removes the document with exactly this id. Ids are opaque and
// passed through untouched.
type DeleteByID struct {
	ID string
}

// DeleteByQuery removes every document matching a raw query. The caller owns
// escaping; the query is passed through verbatim.
type DeleteByQuery struct {
	Query string
}

// DeleteByKey removes every replica of one object, optionally scoped to a
// single partition. An empty Type means a legacy bucket and is treated as
// the default type.
type DeleteByKey struct {
	Type      string
	Bucket    string
	Key       string
	Partition *int64
}

func (DeleteByID) isDeleteIntent()    {}
func (DeleteByQuery) isDeleteIntent() {}
func (DeleteByKey) isDeleteIntent()   {}

// DeleteOp is one entry of a batched delete request. Exactly one of ID or
// Query is set.
type DeleteOp struct {
	ID    string
	Query string
}

// SynthesizeDelete translates a logical delete intent into the id or query
// form carried by the update request body.
func SynthesizeDelete(intent DeleteIntent) DeleteOp {
	switch it := intent.(type) {
	case DeleteByID:
		return DeleteOp{ID: it.ID}
	case DeleteByQuery:
		return DeleteOp{Query: it.Query}
	case DeleteByKey:
		return DeleteOp{Query: keyQuery(it)}
	default:
		// The interface is sealed; this is unreachable for well-formed
		// callers.
		return DeleteOp{}
	}
}

// SynthesizeDeletes maps a batch of intents into delete operations, in order.
func SynthesizeDeletes(intents []DeleteIntent) []DeleteOp {
	ops := make([]DeleteOp, 0, len(intents))
	for _, intent := range intents {
		ops = append(ops, SynthesizeDelete(intent))
	}
	return ops
}

func keyQuery(it DeleteByKey) string {
	btype := it.Type
	if btype == "" {
		btype = DefaultBucketType
	}

	terms := []string{
		quoted(FieldBucketType, btype),
		quoted(FieldBucket, it.Bucket),
		quoted(FieldKey, it.Key),
	}
	if it.Partition != nil {
		terms = append(terms, quoted(FieldPartition, strconv.FormatInt(*it.Partition, 10)))
	}
	return strings.Join(terms, " AND ")
}
