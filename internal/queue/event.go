// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

import "time"

// ImportCompletedEvent is published after every import, successful or not.
// It carries enough information for downstream consumers to log, alert or
// trigger analytics without querying the catalog database.
type ImportCompletedEvent struct {
	ImportID       string    `json:"import_id"`
	Source         string    `json:"source"` // file, json_data, body or cli
	Success        bool      `json:"success"`
	TotalProcessed int       `json:"total_processed"`
	SuccessCount   int       `json:"success_count"`
	ErrorCount     int       `json:"error_count"`
	Restaurants    []string  `json:"restaurants"`
	CompletedAt    time.Time `json:"completed_at"`
}
