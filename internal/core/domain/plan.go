package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// HostPort is a Solr endpoint extracted from cluster metadata.
type HostPort struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// String renders the endpoint as "host:port".
func (hp HostPort) String() string {
	return hp.Host + ":" + strconv.Itoa(hp.Port)
}

// PartitionFilter restricts one node's results to the partitions it covers.
// SubFilters narrows the match to specific first-partitions within Partition;
// nil means the whole partition is wanted.
type PartitionFilter struct {
	Partition  int64   `json:"partition"`
	Owner      string  `json:"owner"`
	SubFilters []int64 `json:"sub_filters,omitempty"`
}

// CoverPlan is a minimal set of nodes that together cover every partition of
// an index exactly once, plus the filters that carve out each node's share.
type CoverPlan struct {
	Nodes   []string            `json:"nodes"`
	Filters []PartitionFilter   `json:"filters"`
	Mapping map[string]HostPort `json:"mapping"`
}

// Validate rejects plans that could never drive a fan-out: an empty node
// list, or a node (listed or owning a filter) with no endpoint mapping.
// Used when a plan is submitted; serving-time failures surface through
// BuildFanout instead.
func (p *CoverPlan) Validate() error {
	if p == nil || len(p.Nodes) == 0 {
		return fmt.Errorf("%w: plan has no nodes", ErrInvalidInput)
	}
	for _, node := range p.Nodes {
		if _, ok := p.Mapping[node]; !ok {
			return fmt.Errorf("%w: no endpoint for node %s", ErrInvalidInput, node)
		}
	}
	for _, pf := range p.Filters {
		if _, ok := p.Mapping[pf.Owner]; !ok {
			return fmt.Errorf("%w: no endpoint for owner %s", ErrInvalidInput, pf.Owner)
		}
	}
	return nil
}

// Fanout is a cover plan rendered into the request parameters Solr's
// distributed search expects.
type Fanout struct {
	// Shards joins one "host:port/<index>" fragment per plan node, comma
	// separated, in plan order. Duplicate nodes yield duplicate fragments;
	// the plan is trusted as given.
	Shards string

	// FilterQueries maps "host:port" to the boolean filter query that node
	// must apply. Sent as per-shard params keyed "<host:port>.fq".
	FilterQueries map[string]string
}

// BuildFanout renders a cover plan against an index into shard fragments and
// per-node filter queries. Every plan node must resolve through the mapping;
// an unresolvable node fails the whole fan-out rather than silently dropping
// coverage.
func BuildFanout(plan *CoverPlan, index string) (*Fanout, error) {
	if plan == nil {
		return nil, ErrPlanUnavailable
	}
	if len(plan.Nodes) == 0 {
		return nil, fmt.Errorf("%w: plan has no nodes", ErrPlanUnavailable)
	}

	frags := make([]string, 0, len(plan.Nodes))
	for _, node := range plan.Nodes {
		hp, ok := plan.Mapping[node]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNoEndpoint, node)
		}
		frags = append(frags, hp.String()+"/"+index)
	}

	fqs, err := buildFilterQueries(plan)
	if err != nil {
		return nil, err
	}

	return &Fanout{
		Shards:        strings.Join(frags, ","),
		FilterQueries: fqs,
	}, nil
}

// buildFilterQueries groups the plan's partition filters by owning node and
// renders each group as a single boolean query. Clauses keep plan order
// within a node.
func buildFilterQueries(plan *CoverPlan) (map[string]string, error) {
	clauses := make(map[string][]string)
	order := make([]string, 0, len(plan.Filters))

	for _, pf := range plan.Filters {
		hp, ok := plan.Mapping[pf.Owner]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNoEndpoint, pf.Owner)
		}
		key := hp.String()
		if _, seen := clauses[key]; !seen {
			order = append(order, key)
		}
		clauses[key] = append(clauses[key], pf.Clause())
	}

	fqs := make(map[string]string, len(order))
	for _, key := range order {
		fqs[key] = strings.Join(clauses[key], " OR ")
	}
	return fqs, nil
}

// Clause renders one partition filter as a Solr boolean fragment.
//
// A whole partition becomes a bare partition-number match. A narrowed
// partition additionally requires one of the listed first-partitions, with
// the partition term and the parenthesised alternatives joined by AND.
func (pf PartitionFilter) Clause() string {
	pn := FieldPartition + ":" + strconv.FormatInt(pf.Partition, 10)
	if pf.SubFilters == nil {
		return pn
	}

	alts := make([]string, 0, len(pf.SubFilters))
	for _, fpn := range pf.SubFilters {
		alts = append(alts, FieldFirstPartition+":"+strconv.FormatInt(fpn, 10))
	}
	return "(" + pn + " AND (" + strings.Join(alts, " OR ") + "))"
}
