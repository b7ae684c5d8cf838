package importer

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Level is the severity of an import log entry.
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// LogEntry is one line of the import log returned to the caller.
type LogEntry struct {
	Level     Level     `json:"level" yaml:"level"`
	Message   string    `json:"message" yaml:"message"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Result is the outcome of one import.  TotalProcessed is always
// SuccessCount + ErrorCount.
type Result struct {
	Success        bool       `json:"success" yaml:"success"`
	TotalProcessed int        `json:"total_processed" yaml:"total_processed"`
	SuccessCount   int        `json:"success_count" yaml:"success_count"`
	ErrorCount     int        `json:"error_count" yaml:"error_count"`
	Logs           []LogEntry `json:"logs" yaml:"logs"`

	// Changes summarises what was written; it is not part of the payload.
	Changes Changes `json:"-" yaml:"-"`
}

// Changes counts the writes an import performed.
type Changes struct {
	RestaurantsCreated int
	MenusCreated       int
	ItemsCreated       int
	PricesUpdated      int
	LinksCreated       int
	Restaurants        []string // names of restaurants touched, in document order
}

// Any reports whether the import wrote anything.
func (c Changes) Any() bool {
	return c.RestaurantsCreated+c.MenusCreated+c.ItemsCreated+c.PricesUpdated+c.LinksCreated > 0
}

// run accumulates the log and counters of one import.  It is owned by a
// single Import call and never shared.
type run struct {
	logger       *zap.Logger
	now          func() time.Time
	logs         []LogEntry
	successCount int
	errorCount   int
	aborted      bool
	changes      Changes
}

func (r *run) append(level Level, msg string) {
	r.logs = append(r.logs, LogEntry{Level: level, Message: msg, Timestamp: r.now()})
	if level == LevelError {
		r.logger.Error("RestaurantImport: " + msg)
		return
	}
	r.logger.Info("RestaurantImport: " + msg)
}

func (r *run) info(format string, args ...any) {
	r.append(LevelInfo, fmt.Sprintf(format, args...))
}

// error records a failed unit.
func (r *run) error(format string, args ...any) {
	r.append(LevelError, fmt.Sprintf(format, args...))
	r.errorCount++
}

// abort records a failure of the whole document; no unit is counted.
func (r *run) abort(msg string) {
	r.append(LevelError, msg)
	r.aborted = true
}

func (r *run) touched(restaurant string) {
	for _, name := range r.changes.Restaurants {
		if name == restaurant {
			return
		}
	}
	r.changes.Restaurants = append(r.changes.Restaurants, restaurant)
}

func (r *run) result() Result {
	logs := r.logs
	if logs == nil {
		logs = []LogEntry{}
	}
	return Result{
		Success:        !r.aborted && r.errorCount == 0,
		TotalProcessed: r.successCount + r.errorCount,
		SuccessCount:   r.successCount,
		ErrorCount:     r.errorCount,
		Logs:           logs,
		Changes:        r.changes,
	}
}
