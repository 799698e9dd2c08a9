package domain

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Object is one replica of a KV object as handed over for indexing: its
// full key, the partition that owns the replica, and the raw stored value.
type Object struct {
	Type           string
	Bucket         string
	Key            string
	Partition      int64
	FirstPartition int64
	ContentType    string
	Value          []byte
}

// Validate checks the object carries enough identity to be indexed.
func (o *Object) Validate() error {
	if o.Bucket == "" {
		return fmt.Errorf("%w: bucket is required", ErrInvalidInput)
	}
	if o.Key == "" {
		return fmt.Errorf("%w: key is required", ErrInvalidInput)
	}
	if o.Partition < 0 || o.FirstPartition < 0 {
		return fmt.Errorf("%w: partitions must be non-negative", ErrInvalidInput)
	}
	return nil
}

// BKey returns the object's bucket-and-key identity.
func (o *Object) BKey() BKey {
	return BKey{Type: o.Type, Bucket: o.Bucket, Key: o.Key}
}

// Digest hashes the stored value. The digest lands in _yz_ed and is what
// exchanges compare, so it must be stable for equal values.
func (o *Object) Digest() []byte {
	sum := xxhash.Sum64(o.Value)
	digest := make([]byte, 8)
	binary.BigEndian.PutUint64(digest, sum)
	return digest
}

// MetaDoc builds the well-known replica fields for this object. Extracted
// content fields are appended by the indexing service.
func (o *Object) MetaDoc() Document {
	return ReplicaDoc(o.Type, o.Bucket, o.Key, o.Partition, o.FirstPartition, o.Digest())
}

// DocID returns the object's unique document id.
func (o *Object) DocID() string {
	return DocID(o.Type, o.Bucket, o.Key, o.Partition)
}
