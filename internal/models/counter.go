package models

import "time"

// CounterState is the persisted social-proof counter.
type CounterState struct {
	Count      int64     `json:"count"`
	LastUpdate time.Time `json:"last_update"`
}
