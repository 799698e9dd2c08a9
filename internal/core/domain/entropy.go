package domain

import "time"

// Continuation is an opaque paging token handed back by the entropy data
// endpoint. Its contents are never inspected.
type Continuation string

// NoContinuation marks the start of an entropy stream. It is never sent as a
// request parameter.
const NoContinuation Continuation = ""

// None reports whether the token is the start-of-stream sentinel.
func (c Continuation) None() bool {
	return c == NoContinuation
}

// EntropyFilter narrows one entropy data page request. Zero values mean
// "unfiltered": a zero Before skips the timestamp cutoff, NoContinuation
// starts from the beginning, Limit <= 0 falls back to the server default and
// a nil Partition spans the whole index.
type EntropyFilter struct {
	Before       time.Time    `json:"before,omitempty"`
	Continuation Continuation `json:"continuation,omitempty"`
	Limit        int          `json:"limit,omitempty"`
	Partition    *int64       `json:"partition,omitempty"`
}

// BKey identifies one stored object. Type is empty for legacy buckets that
// carry no explicit bucket type.
type BKey struct {
	Type   string `json:"type,omitempty"`
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

// Legacy reports whether the key belongs to an untyped (default type) bucket.
func (k BKey) Legacy() bool {
	return k.Type == ""
}

// EntropyPair is one (key, content digest) entry of an entropy page.
type EntropyPair struct {
	Key    BKey   `json:"key"`
	Digest []byte `json:"digest"`
}

// EntropyPage is one page of the entropy data stream. Continuation is set if
// and only if More is true; the final page carries NoContinuation.
type EntropyPage struct {
	More         bool          `json:"more"`
	Continuation Continuation  `json:"continuation,omitempty"`
	Pairs        []EntropyPair `json:"pairs"`
}
