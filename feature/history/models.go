package history

import (
	"time"
	"unicode/utf8"

	"mlist-manager/core/reconcile"
)

// Run is one recorded roster operation.
type Run struct {
	ID            string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	Operation     string    `gorm:"column:operation;size:16;index" json:"operation"`
	StartedAt     time.Time `gorm:"column:started_at;index" json:"started_at"`
	FinishedAt    time.Time `gorm:"column:finished_at" json:"finished_at"`
	Success       bool      `gorm:"column:success" json:"success"`
	Error         string    `gorm:"column:error;size:1024" json:"error,omitempty"`
	FullBefore    int       `gorm:"column:full_before" json:"full_before"`
	FullAfter     int       `gorm:"column:full_after" json:"full_after"`
	CurrentBefore int       `gorm:"column:current_before" json:"current_before"`
	CurrentAfter  int       `gorm:"column:current_after" json:"current_after"`
	RemovedBefore int       `gorm:"column:removed_before" json:"removed_before"`
	RemovedAfter  int       `gorm:"column:removed_after" json:"removed_after"`
	Extracted     int       `gorm:"column:extracted" json:"extracted"`
	Imported      int       `gorm:"column:imported" json:"imported"`
	NewlyRemoved  int       `gorm:"column:newly_removed" json:"newly_removed"`
	Adopted       int       `gorm:"column:adopted" json:"adopted"`
	Resubscribed  int       `gorm:"column:resubscribed" json:"resubscribed"`
}

// maxErrorLen matches the size of the error column.
const maxErrorLen = 1024

// TableName overrides the gorm table name.
func (Run) TableName() string {
	return "roster_runs"
}

// NewRun builds a history row from the outcome of an operation.
// res may be nil when the operation failed.
func NewRun(id string, op reconcile.Operation, started, finished time.Time, res *reconcile.Result, runErr error) *Run {
	run := &Run{
		ID:         id,
		Operation:  string(op),
		StartedAt:  started.UTC(),
		FinishedAt: finished.UTC(),
		Success:    runErr == nil,
	}
	if runErr != nil {
		run.Error = truncateUTF8(runErr.Error(), maxErrorLen)
	}
	if res != nil {
		run.FullBefore = res.Before.Full
		run.FullAfter = res.After.Full
		run.CurrentBefore = res.Before.Current
		run.CurrentAfter = res.After.Current
		run.RemovedBefore = res.Before.Removed
		run.RemovedAfter = res.After.Removed
		run.Extracted = res.Extracted
		run.Imported = res.Imported
		run.NewlyRemoved = res.NewlyRemoved
		run.Adopted = res.Adopted
		run.Resubscribed = res.Resubscribed
	}
	return run
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
