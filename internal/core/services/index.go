package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/martinsumner/yokozuna/internal/core/domain"
	"github.com/martinsumner/yokozuna/internal/core/ports/driven"
	"github.com/martinsumner/yokozuna/internal/core/ports/driving"
)

// Ensure indexService implements IndexService
var _ driving.IndexService = (*indexService)(nil)

// indexService implements the IndexService interface
type indexService struct {
	client     driven.SolrClient
	extractors driven.ExtractorRegistry
	logger     *slog.Logger
}

// NewIndexService creates a new IndexService
func NewIndexService(client driven.SolrClient, extractors driven.ExtractorRegistry, logger *slog.Logger) driving.IndexService {
	if logger == nil {
		logger = slog.Default()
	}
	return &indexService{
		client:     client,
		extractors: extractors,
		logger:     logger,
	}
}

// IndexObject extracts an object into a document and indexes it. The previous
// entry for the same (type, bucket, key, partition) is deleted in the same
// update, so re-indexing never leaves a stale document behind.
//
// An extraction failure does not fail the object: it is indexed on its
// metadata fields with the error flag set, so anti-entropy keeps tracking it
// and operators can find it by querying the flag.
func (s *indexService) IndexObject(ctx context.Context, index string, obj *domain.Object) error {
	if index == "" {
		return fmt.Errorf("%w: index is required", domain.ErrInvalidInput)
	}
	if obj == nil {
		return fmt.Errorf("%w: object is required", domain.ErrInvalidInput)
	}
	if err := obj.Validate(); err != nil {
		return err
	}

	doc := obj.MetaDoc()
	fields, err := s.extract(obj)
	if err != nil {
		s.logger.Warn("content extraction failed",
			"index", index,
			"bucket", obj.Bucket,
			"key", obj.Key,
			"content_type", obj.ContentType,
			"error", err,
		)
		doc = append(doc, domain.Field{Name: domain.FieldError, Value: "1"})
	} else {
		doc = append(doc, fields...)
	}

	deletes := domain.SynthesizeDeletes([]domain.DeleteIntent{
		domain.DeleteByKey{
			Type:      obj.Type,
			Bucket:    obj.Bucket,
			Key:       obj.Key,
			Partition: &obj.Partition,
		},
	})

	return s.client.Index(ctx, index, []domain.Document{doc}, deletes)
}

// extract runs the best-matching extractor for the object's content type.
// No matching extractor means no content fields, which is not an error.
func (s *indexService) extract(obj *domain.Object) ([]domain.Field, error) {
	extractor := s.extractors.Get(obj.ContentType)
	if extractor == nil {
		return nil, nil
	}
	return extractor.Extract(obj.Value, obj.ContentType)
}

// IndexBatch applies prepared documents and delete intents as one update
// request. Deletes run before adds within the request.
func (s *indexService) IndexBatch(ctx context.Context, index string, docs []domain.Document, intents []domain.DeleteIntent) error {
	if index == "" {
		return fmt.Errorf("%w: index is required", domain.ErrInvalidInput)
	}
	if len(docs) == 0 && len(intents) == 0 {
		return nil
	}
	return s.client.Index(ctx, index, docs, domain.SynthesizeDeletes(intents))
}

// Delete translates intents into delete operations and applies them. A 404
// from the core means there was nothing to delete; that is an answer, not an
// error, reported as ok=false.
func (s *indexService) Delete(ctx context.Context, index string, intents []domain.DeleteIntent) (bool, error) {
	if index == "" {
		return false, fmt.Errorf("%w: index is required", domain.ErrInvalidInput)
	}
	if len(intents) == 0 {
		return true, nil
	}

	err := s.client.Delete(ctx, index, domain.SynthesizeDeletes(intents))
	if err != nil {
		if domain.IsStatus(err, 404) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Commit forces a commit on the core.
func (s *indexService) Commit(ctx context.Context, index string) error {
	if index == "" {
		return fmt.Errorf("%w: index is required", domain.ErrInvalidInput)
	}
	return s.client.Commit(ctx, index)
}

// Ping reports whether the core answers its ping handler.
func (s *indexService) Ping(ctx context.Context, index string) (bool, error) {
	return s.client.Ping(ctx, index)
}
