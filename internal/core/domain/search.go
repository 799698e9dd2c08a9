package domain

import (
	"net/url"
	"strconv"
	"time"
)

// SearchOptions configures one select request. Fan-out parameters (shards,
// per-node filters) are merged in separately; these are the caller's terms.
type SearchOptions struct {
	Query  string   `json:"query"`
	Filter string   `json:"filter,omitempty"` // extra fq alongside fan-out filters
	Start  int      `json:"start"`
	Rows   int      `json:"rows"`
	Fields []string `json:"fields,omitempty"` // fl; empty means all stored fields
	Sort   string   `json:"sort,omitempty"`
}

// DefaultSearchOptions returns sensible defaults
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		Query: "*:*",
		Start: 0,
		Rows:  10,
	}
}

// Params renders the options as request parameters. Zero values are omitted
// so the server applies its own defaults.
func (o SearchOptions) Params() url.Values {
	params := url.Values{}
	q := o.Query
	if q == "" {
		q = "*:*"
	}
	params.Set("q", q)
	if o.Filter != "" {
		params.Add("fq", o.Filter)
	}
	if o.Start > 0 {
		params.Set("start", strconv.Itoa(o.Start))
	}
	if o.Rows > 0 {
		params.Set("rows", strconv.Itoa(o.Rows))
	}
	if len(o.Fields) > 0 {
		params.Set("fl", joinFields(o.Fields))
	}
	if o.Sort != "" {
		params.Set("sort", o.Sort)
	}
	return params
}

func joinFields(fields []string) string {
	out := fields[0]
	for _, f := range fields[1:] {
		out += "," + f
	}
	return out
}

// SearchResult represents the result of a select query
type SearchResult struct {
	NumFound int64            `json:"num_found"`
	Start    int64            `json:"start"`
	MaxScore float64          `json:"max_score,omitempty"`
	Docs     []map[string]any `json:"docs"`
	Took     time.Duration    `json:"took" swaggertype:"integer" example:"1500000"`
}
