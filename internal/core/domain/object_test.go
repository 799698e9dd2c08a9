package domain

import (
	"bytes"
	"errors"
	"testing"
)

func TestObjectValidate(t *testing.T) {
	valid := Object{Bucket: "users", Key: "rita", Partition: 3, FirstPartition: 3}
	if err := valid.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	tests := []struct {
		name string
		obj  Object
	}{
		{"missing bucket", Object{Key: "rita"}},
		{"missing key", Object{Bucket: "users"}},
		{"negative partition", Object{Bucket: "users", Key: "rita", Partition: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.obj.Validate(); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestObjectDigestStable(t *testing.T) {
	a := Object{Bucket: "b", Key: "k", Value: []byte("hello")}
	b := Object{Bucket: "b", Key: "k2", Value: []byte("hello")}
	c := Object{Bucket: "b", Key: "k", Value: []byte("world")}

	if !bytes.Equal(a.Digest(), b.Digest()) {
		t.Error("equal values must share a digest")
	}
	if bytes.Equal(a.Digest(), c.Digest()) {
		t.Error("different values must not share a digest")
	}
	if len(a.Digest()) != 8 {
		t.Errorf("expected 8 byte digest, got %d", len(a.Digest()))
	}
}

func TestObjectMetaDoc(t *testing.T) {
	obj := Object{
		Type:           "maps",
		Bucket:         "users",
		Key:            "rita",
		Partition:      5,
		FirstPartition: 3,
		Value:          []byte(`{"name":"rita"}`),
	}
	doc := obj.MetaDoc()

	id, ok := doc.Get(FieldID)
	if !ok || id != "maps*users*rita*5" {
		t.Errorf("unexpected doc id: %v", id)
	}
	fpn, ok := doc.Get(FieldFirstPartition)
	if !ok || fpn != "3" {
		t.Errorf("unexpected first partition: %v", fpn)
	}
	if obj.DocID() != "maps*users*rita*5" {
		t.Errorf("unexpected DocID: %s", obj.DocID())
	}
}

func TestObjectBKey(t *testing.T) {
	obj := Object{Bucket: "users", Key: "rita"}
	bk := obj.BKey()
	if !bk.Legacy() {
		t.Errorf("untyped object must map to a legacy key, got %+v", bk)
	}
	if bk.Bucket != "users" || bk.Key != "rita" {
		t.Errorf("unexpected bkey: %+v", bk)
	}
}
