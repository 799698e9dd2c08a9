package domain

import "time"

// ExchangeStatus represents the current state of an entropy exchange
type ExchangeStatus string

const (
	ExchangeStatusRunning   ExchangeStatus = "running"
	ExchangeStatusCompleted ExchangeStatus = "completed"
	ExchangeStatusFailed    ExchangeStatus = "failed"
)

// Exchange records one anti-entropy scan of an index partition: the pager is
// driven to exhaustion and every returned digest is folded into a rollup.
type Exchange struct {
	ID         string         `json:"id"`
	Index      string         `json:"index"`
	Partition  int64          `json:"partition"`
	Status     ExchangeStatus `json:"status"`
	Pairs      int            `json:"pairs"`
	Pages      int            `json:"pages"`
	Digest     string         `json:"digest,omitempty"` // rollup of all pair digests, hex
	Error      string         `json:"error,omitempty"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt *time.Time     `json:"finished_at,omitempty"`
}

// ExchangeStats aggregates the exchange history for the ops surface.
type ExchangeStats struct {
	Total     int `json:"total"`
	Running   int `json:"running"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}
