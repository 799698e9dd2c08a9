package domain

import (
	"errors"
	"strings"
	"testing"
)

func twoNodePlan() *CoverPlan {
	return &CoverPlan{
		Nodes: []string{"riak@n1", "riak@n2"},
		Filters: []PartitionFilter{
			{Partition: 0, Owner: "riak@n1"},
			{Partition: 1, Owner: "riak@n2", SubFilters: []int64{1, 4}},
			{Partition: 2, Owner: "riak@n1"},
		},
		Mapping: map[string]HostPort{
			"riak@n1": {Host: "10.0.0.1", Port: 8093},
			"riak@n2": {Host: "10.0.0.2", Port: 8093},
		},
	}
}

func TestBuildFanoutShards(t *testing.T) {
	fanout, err := BuildFanout(twoNodePlan(), "users_idx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "10.0.0.1:8093/users_idx,10.0.0.2:8093/users_idx"
	if fanout.Shards != want {
		t.Errorf("expected shards %q, got %q", want, fanout.Shards)
	}
}

func TestBuildFanoutFragmentPerNode(t *testing.T) {
	plan := twoNodePlan()
	plan.Nodes = []string{"riak@n2", "riak@n1", "riak@n2"}

	fanout, err := BuildFanout(plan, "idx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	frags := strings.Split(fanout.Shards, ",")
	if len(frags) != 3 {
		t.Fatalf("expected one fragment per node, got %d", len(frags))
	}
	// node-list order wins, and duplicates are kept
	if frags[0] != "10.0.0.2:8093/idx" || frags[1] != "10.0.0.1:8093/idx" || frags[2] != "10.0.0.2:8093/idx" {
		t.Errorf("fragments out of order: %v", frags)
	}
}

func TestBuildFanoutFilterGrouping(t *testing.T) {
	fanout, err := BuildFanout(twoNodePlan(), "idx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fanout.FilterQueries) != 2 {
		t.Fatalf("expected 2 node groups, got %d", len(fanout.FilterQueries))
	}

	n1 := fanout.FilterQueries["10.0.0.1:8093"]
	if n1 != "_yz_pn:0 OR _yz_pn:2" {
		t.Errorf("unexpected n1 filter: %q", n1)
	}

	n2 := fanout.FilterQueries["10.0.0.2:8093"]
	if n2 != "(_yz_pn:1 AND (_yz_fpn:1 OR _yz_fpn:4))" {
		t.Errorf("unexpected n2 filter: %q", n2)
	}
}

func TestBuildFanoutUnresolvableNode(t *testing.T) {
	plan := twoNodePlan()
	plan.Nodes = append(plan.Nodes, "riak@n3")

	_, err := BuildFanout(plan, "idx")
	if err == nil {
		t.Fatal("expected error for unresolvable node")
	}
	if !errors.Is(err, ErrNoEndpoint) {
		t.Errorf("expected ErrNoEndpoint, got %v", err)
	}
	if !strings.Contains(err.Error(), "riak@n3") {
		t.Errorf("expected node name in error, got %v", err)
	}
}

func TestBuildFanoutEmptyPlan(t *testing.T) {
	if _, err := BuildFanout(nil, "idx"); !errors.Is(err, ErrPlanUnavailable) {
		t.Errorf("expected ErrPlanUnavailable for nil plan, got %v", err)
	}

	empty := &CoverPlan{Mapping: map[string]HostPort{}}
	if _, err := BuildFanout(empty, "idx"); !errors.Is(err, ErrPlanUnavailable) {
		t.Errorf("expected ErrPlanUnavailable for empty plan, got %v", err)
	}
}

func TestPartitionFilterClause(t *testing.T) {
	tests := []struct {
		name   string
		filter PartitionFilter
		want   string
	}{
		{
			"whole partition",
			PartitionFilter{Partition: 42, Owner: "riak@n1"},
			"_yz_pn:42",
		},
		{
			"single sub filter",
			PartitionFilter{Partition: 42, Owner: "riak@n1", SubFilters: []int64{7}},
			"(_yz_pn:42 AND (_yz_fpn:7))",
		},
		{
			"multiple sub filters",
			PartitionFilter{Partition: 42, Owner: "riak@n1", SubFilters: []int64{7, 9, 11}},
			"(_yz_pn:42 AND (_yz_fpn:7 OR _yz_fpn:9 OR _yz_fpn:11))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Clause(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestHostPortString(t *testing.T) {
	hp := HostPort{Host: "solr.internal", Port: 8983}
	if hp.String() != "solr.internal:8983" {
		t.Errorf("unexpected rendering: %s", hp.String())
	}
}

func TestCoverPlanValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CoverPlan) *CoverPlan
		wantErr bool
	}{
		{
			"complete plan",
			func(p *CoverPlan) *CoverPlan { return p },
			false,
		},
		{
			"nil plan",
			func(p *CoverPlan) *CoverPlan { return nil },
			true,
		},
		{
			"no nodes",
			func(p *CoverPlan) *CoverPlan { p.Nodes = nil; return p },
			true,
		},
		{
			"node without endpoint",
			func(p *CoverPlan) *CoverPlan { delete(p.Mapping, "riak@n2"); return p },
			true,
		},
		{
			"filter owner without endpoint",
			func(p *CoverPlan) *CoverPlan {
				p.Filters = append(p.Filters, PartitionFilter{Partition: 5, Owner: "riak@gone"})
				return p
			},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mutate(twoNodePlan()).Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
