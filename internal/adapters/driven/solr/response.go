package solr

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/martinsumner/yokozuna/internal/core/domain"
)

// selectResponse is Solr's select handler wire format
type selectResponse struct {
	ResponseHeader struct {
		Status int `json:"status"`
		QTime  int `json:"QTime"`
	} `json:"responseHeader"`
	Response struct {
		NumFound int64            `json:"numFound"`
		Start    int64            `json:"start"`
		MaxScore float64          `json:"maxScore"`
		Docs     []map[string]any `json:"docs"`
	} `json:"response"`
}

func decodeSelectResponse(r io.Reader) (*domain.SearchResult, error) {
	var sr selectResponse
	if err := json.NewDecoder(r).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decoding select response: %w", err)
	}

	docs := sr.Response.Docs
	if docs == nil {
		docs = []map[string]any{}
	}
	return &domain.SearchResult{
		NumFound: sr.Response.NumFound,
		Start:    sr.Response.Start,
		MaxScore: sr.Response.MaxScore,
		Docs:     docs,
		Took:     time.Duration(sr.ResponseHeader.QTime) * time.Millisecond,
	}, nil
}

// entropyResponse is the entropy_data handler wire format. more and
// continuation sit beside the doc list, not inside it.
type entropyResponse struct {
	More         bool   `json:"more"`
	Continuation string `json:"continuation"`
	Response     struct {
		Docs []entropyDoc `json:"docs"`
	} `json:"response"`
}

type entropyDoc struct {
	Vsn        string `json:"vsn"`
	BucketType string `json:"riak_bucket_type"`
	Bucket     string `json:"riak_bucket_name"`
	Key        string `json:"riak_key"`
	Base64Hash string `json:"base64_hash"`
}

func decodeEntropyResponse(r io.Reader) (*domain.EntropyPage, error) {
	var er entropyResponse
	if err := json.NewDecoder(r).Decode(&er); err != nil {
		return nil, fmt.Errorf("decoding entropy_data response: %w", err)
	}

	if er.More && er.Continuation == "" {
		return nil, fmt.Errorf("entropy_data page has more but no continuation")
	}

	pairs := make([]domain.EntropyPair, 0, len(er.Response.Docs))
	for _, doc := range er.Response.Docs {
		digest, err := base64.StdEncoding.DecodeString(doc.Base64Hash)
		if err != nil {
			return nil, fmt.Errorf("decoding entropy digest for %s/%s: %w", doc.Bucket, doc.Key, err)
		}

		// entries of the default type come back as legacy two-part keys
		btype := doc.BucketType
		if btype == domain.DefaultBucketType {
			btype = ""
		}
		pairs = append(pairs, domain.EntropyPair{
			Key:    domain.BKey{Type: btype, Bucket: doc.Bucket, Key: doc.Key},
			Digest: digest,
		})
	}

	page := &domain.EntropyPage{More: er.More, Pairs: pairs}
	if er.More {
		page.Continuation = domain.Continuation(er.Continuation)
	}
	return page, nil
}
