package domain

import "strings"

// Well-known index fields. Every document carries these alongside its
// extracted content; queries and deletes are built against them.
const (
	FieldID             = "_yz_id"  // unique doc id: type/bucket/key/partition
	FieldPartition      = "_yz_pn"  // owning partition number
	FieldFirstPartition = "_yz_fpn" // first partition of the preflist
	FieldBucketType     = "_yz_rt"  // bucket type name
	FieldBucket         = "_yz_rb"  // bucket name
	FieldKey            = "_yz_rk"  // key
	FieldEntropyData    = "_yz_ed"  // entropy data: vsn/type/bucket/key/hash
	FieldError          = "_yz_err" // set to "1" when content extraction failed
)

// DefaultBucketType is assumed for legacy buckets stored without a type.
const DefaultBucketType = "default"

// EscapeQueryValue escapes a value for embedding inside a quoted query term.
// Backslashes are doubled before quotes are escaped; the reverse order would
// double-escape the backslashes introduced for the quotes.
func EscapeQueryValue(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// quoted renders field:"escaped(value)".
func quoted(field, value string) string {
	return field + `:"` + EscapeQueryValue(value) + `"`
}
