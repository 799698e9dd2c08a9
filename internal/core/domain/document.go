package domain

import (
	"encoding/base64"
	"strconv"
	"strings"
)

// Field is one name/value pair of an indexed document. Values must be JSON
// encodable.
type Field struct {
	Name  string
	Value any
}

// Document is an ordered field list. Order is preserved on the wire and a
// name may repeat; repeated names feed multi-valued index fields.
type Document []Field

// Get returns the first value stored under name.
func (d Document) Get(name string) (any, bool) {
	for _, f := range d {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// ID returns the document's _yz_id field, or "" when absent.
func (d Document) ID() string {
	v, ok := d.Get(FieldID)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// DocID builds the unique id an object's replica is indexed under. Legacy
// buckets (empty type) index under the default type.
func DocID(btype, bucket, key string, partition int64) string {
	if btype == "" {
		btype = DefaultBucketType
	}
	return strings.Join([]string{
		btype, bucket, key, strconv.FormatInt(partition, 10),
	}, "*")
}

// EntropyData renders the _yz_ed field value for a replica: a versioned,
// space-separated record of the key and its content digest. The entropy_data
// handler reads this field back when streaming pairs.
func EntropyData(btype, bucket, key string, digest []byte) string {
	if btype == "" {
		btype = DefaultBucketType
	}
	return strings.Join([]string{
		"vsn=1", btype, bucket, key, base64.StdEncoding.EncodeToString(digest),
	}, " ")
}

// ReplicaDoc assembles the well-known fields every indexed replica carries.
// Extracted content fields are appended by the caller.
func ReplicaDoc(btype, bucket, key string, partition, firstPartition int64, digest []byte) Document {
	t := btype
	if t == "" {
		t = DefaultBucketType
	}
	return Document{
		{Name: FieldID, Value: DocID(btype, bucket, key, partition)},
		{Name: FieldEntropyData, Value: EntropyData(btype, bucket, key, digest)},
		{Name: FieldBucketType, Value: t},
		{Name: FieldBucket, Value: bucket},
		{Name: FieldKey, Value: key},
		{Name: FieldPartition, Value: strconv.FormatInt(partition, 10)},
		{Name: FieldFirstPartition, Value: strconv.FormatInt(firstPartition, 10)},
	}
}
