package services

import (
	"context"
	"errors"
	"testing"

	"github.com/martinsumner/yokozuna/internal/core/domain"
	"github.com/martinsumner/yokozuna/internal/core/ports/driven/mocks"
)

func newTestIndexService() (*mocks.MockSolrClient, *mocks.MockExtractorRegistry, *indexService) {
	client := mocks.NewMockSolrClient()
	registry := mocks.NewMockExtractorRegistry()
	svc := NewIndexService(client, registry, nil).(*indexService)
	return client, registry, svc
}

func testObject() *domain.Object {
	return &domain.Object{
		Type:           "maps",
		Bucket:         "users",
		Key:            "rita",
		Partition:      3,
		FirstPartition: 0,
		ContentType:    "application/json",
		Value:          []byte(`{"name":"rita","city":"bath"}`),
	}
}

func TestIndexService_IndexObject(t *testing.T) {
	client, registry, svc := newTestIndexService()
	registry.Register(&mocks.MockExtractor{
		Types: []string{"application/json"},
		Fields: []domain.Field{
			{Name: "name", Value: "rita"},
			{Name: "city", Value: "bath"},
		},
	})

	if err := svc.IndexObject(context.Background(), "users_idx", testObject()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(client.IndexCalls) != 1 {
		t.Fatalf("expected 1 index call, got %d", len(client.IndexCalls))
	}
	call := client.IndexCalls[0]
	if call.Core != "users_idx" {
		t.Errorf("expected core users_idx, got %s", call.Core)
	}

	if len(call.Docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(call.Docs))
	}
	doc := call.Docs[0]
	if got := doc.ID(); got != "maps*users*rita*3" {
		t.Errorf("expected doc id maps*users*rita*3, got %s", got)
	}
	for _, want := range []struct {
		name  string
		value any
	}{
		{domain.FieldBucketType, "maps"},
		{domain.FieldBucket, "users"},
		{domain.FieldKey, "rita"},
		{domain.FieldPartition, "3"},
		{"name", "rita"},
		{"city", "bath"},
	} {
		got, ok := doc.Get(want.name)
		if !ok {
			t.Errorf("expected field %s on the document", want.name)
			continue
		}
		if got != want.value {
			t.Errorf("field %s: expected %v, got %v", want.name, want.value, got)
		}
	}
	if _, ok := doc.Get(domain.FieldError); ok {
		t.Error("error flag must not be set on a clean extraction")
	}

	// The same update removes the previous entry for this replica
	if len(call.Deletes) != 1 {
		t.Fatalf("expected 1 delete op, got %d", len(call.Deletes))
	}
	wantQuery := `_yz_rt:"maps" AND _yz_rb:"users" AND _yz_rk:"rita" AND _yz_pn:"3"`
	if call.Deletes[0].Query != wantQuery {
		t.Errorf("expected delete query %q, got %q", wantQuery, call.Deletes[0].Query)
	}
}

func TestIndexService_IndexObject_ExtractionFailure(t *testing.T) {
	client, registry, svc := newTestIndexService()
	registry.Register(&mocks.MockExtractor{
		Types: []string{"application/json"},
		Err:   errors.New("invalid json: unexpected end"),
	})

	obj := testObject()
	obj.Value = []byte(`{"name":`)

	// Extraction failure indexes the object anyway, flagged
	if err := svc.IndexObject(context.Background(), "users_idx", obj); err != nil {
		t.Fatalf("extraction failure must not fail the object: %v", err)
	}

	if len(client.IndexCalls) != 1 {
		t.Fatalf("expected 1 index call, got %d", len(client.IndexCalls))
	}
	doc := client.IndexCalls[0].Docs[0]

	flag, ok := doc.Get(domain.FieldError)
	if !ok {
		t.Fatal("expected the error flag on the document")
	}
	if flag != "1" {
		t.Errorf("expected error flag 1, got %v", flag)
	}
	if _, ok := doc.Get("name"); ok {
		t.Error("no extracted fields expected after a failed extraction")
	}
	if got := doc.ID(); got != "maps*users*rita*3" {
		t.Errorf("metadata must survive a failed extraction, got id %s", got)
	}
}

func TestIndexService_IndexObject_NoExtractor(t *testing.T) {
	client, _, svc := newTestIndexService()

	obj := testObject()
	obj.ContentType = "application/octet-stream"

	if err := svc.IndexObject(context.Background(), "users_idx", obj); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc := client.IndexCalls[0].Docs[0]
	if _, ok := doc.Get(domain.FieldError); ok {
		t.Error("a missing extractor is not an extraction failure")
	}
	// Metadata fields only
	if len(doc) != 7 {
		t.Errorf("expected the 7 metadata fields, got %d", len(doc))
	}
}

func TestIndexService_IndexObject_Invalid(t *testing.T) {
	client, _, svc := newTestIndexService()

	obj := testObject()
	obj.Bucket = ""

	err := svc.IndexObject(context.Background(), "users_idx", obj)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if err := svc.IndexObject(context.Background(), "users_idx", nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for nil object, got %v", err)
	}
	if len(client.IndexCalls) != 0 {
		t.Error("invalid objects must not reach the index")
	}
}

func TestIndexService_IndexBatch(t *testing.T) {
	client, _, svc := newTestIndexService()

	docs := []domain.Document{
		{{Name: domain.FieldID, Value: "default*b*k1*0"}},
	}
	intents := []domain.DeleteIntent{
		domain.DeleteByID{ID: "default*b*k2*0"},
		domain.DeleteByQuery{Query: "_yz_rb:stale"},
	}

	if err := svc.IndexBatch(context.Background(), "users_idx", docs, intents); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(client.IndexCalls) != 1 {
		t.Fatalf("expected 1 index call, got %d", len(client.IndexCalls))
	}
	call := client.IndexCalls[0]
	if len(call.Docs) != 1 || len(call.Deletes) != 2 {
		t.Fatalf("expected 1 doc and 2 deletes, got %d and %d", len(call.Docs), len(call.Deletes))
	}
	if call.Deletes[0].ID != "default*b*k2*0" {
		t.Errorf("expected id delete, got %+v", call.Deletes[0])
	}
	if call.Deletes[1].Query != "_yz_rb:stale" {
		t.Errorf("expected query delete, got %+v", call.Deletes[1])
	}
}

func TestIndexService_IndexBatch_Empty(t *testing.T) {
	client, _, svc := newTestIndexService()

	if err := svc.IndexBatch(context.Background(), "users_idx", nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(client.IndexCalls) != 0 {
		t.Error("an empty batch must not issue a request")
	}
}

func TestIndexService_Delete(t *testing.T) {
	client, _, svc := newTestIndexService()

	partition := int64(5)
	intents := []domain.DeleteIntent{
		domain.DeleteByKey{Bucket: "b1", Key: "k1", Partition: &partition},
	}

	ok, err := svc.Delete(context.Background(), "users_idx", intents)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected ok for a successful delete")
	}

	if len(client.DeleteCalls) != 1 {
		t.Fatalf("expected 1 delete call, got %d", len(client.DeleteCalls))
	}
	wantQuery := `_yz_rt:"default" AND _yz_rb:"b1" AND _yz_rk:"k1" AND _yz_pn:"5"`
	if got := client.DeleteCalls[0].Ops[0].Query; got != wantQuery {
		t.Errorf("expected query %q, got %q", wantQuery, got)
	}
}

func TestIndexService_Delete_NothingToDelete(t *testing.T) {
	client, _, svc := newTestIndexService()
	client.DeleteErr = &domain.RequestError{
		Op:         "delete",
		URL:        "http://localhost:8093/solr/ghost_idx/update",
		StatusCode: 404,
		Body:       "no such core",
	}

	ok, err := svc.Delete(context.Background(), "ghost_idx", []domain.DeleteIntent{
		domain.DeleteByID{ID: "default*b*k*0"},
	})
	if err != nil {
		t.Fatalf("a 404 is an answer, not an error: %v", err)
	}
	if ok {
		t.Error("expected ok=false when there was nothing to delete")
	}
}

func TestIndexService_Delete_OtherErrorPropagates(t *testing.T) {
	client, _, svc := newTestIndexService()
	client.DeleteErr = &domain.RequestError{
		Op:         "delete",
		URL:        "http://localhost:8093/solr/users_idx/update",
		StatusCode: 500,
		Body:       "boom",
	}

	_, err := svc.Delete(context.Background(), "users_idx", []domain.DeleteIntent{
		domain.DeleteByID{ID: "default*b*k*0"},
	})
	if !domain.IsStatus(err, 500) {
		t.Errorf("expected the 500 to propagate, got %v", err)
	}
}

func TestIndexService_Commit(t *testing.T) {
	client, _, svc := newTestIndexService()

	if err := svc.Commit(context.Background(), "users_idx"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(client.CommitCores) != 1 || client.CommitCores[0] != "users_idx" {
		t.Errorf("expected a commit on users_idx, got %v", client.CommitCores)
	}
}

func TestIndexService_Ping(t *testing.T) {
	client, _, svc := newTestIndexService()

	up, err := svc.Ping(context.Background(), "users_idx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !up {
		t.Error("expected the core to be up")
	}

	client.PingUp = false
	up, err = svc.Ping(context.Background(), "users_idx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if up {
		t.Error("expected the core to be down")
	}
}
