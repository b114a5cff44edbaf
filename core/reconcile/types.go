package reconcile

import (
	"fmt"

	"mlist-manager/core/address"
)

// Operation is one of the roster operations.
type Operation string

const (
	// OperationExtract pulls addresses out of the input file without touching the roster.
	OperationExtract Operation = "extract"
	// OperationUpdate reconciles full, current and removed.
	OperationUpdate Operation = "update"
	// OperationAdd updates the roster and stages new addresses from the input file.
	OperationAdd Operation = "add"
)

// Operations lists every operation in dispatch order.
var Operations = []Operation{OperationExtract, OperationUpdate, OperationAdd}

// ParseOperation maps a selector to an Operation. An empty selector is a usage error.
func ParseOperation(s string) (Operation, error) {
	if s == "" {
		return "", fmt.Errorf("%w: no operation selected (choose one of extract, update, add)", ErrUsage)
	}
	for _, op := range Operations {
		if string(op) == s {
			return op, nil
		}
	}
	return "", fmt.Errorf("%w: unknown operation %q", ErrUsage, s)
}

// Roster is the triple of address sets bound to the files in Config.
type Roster struct {
	Full    address.Set
	Current address.Set
	Removed address.Set
}

// Counts returns the size of each set.
func (r *Roster) Counts() Counts {
	return Counts{
		Full:    r.Full.Len(),
		Current: r.Current.Len(),
		Removed: r.Removed.Len(),
	}
}

// Counts holds the size of each roster set.
type Counts struct {
	Full    int `json:"full"`
	Current int `json:"current"`
	Removed int `json:"removed"`
}

// UpdatePlan is the outcome of reconciling a roster, computed before anything is written.
type UpdatePlan struct {
	// Policy is the removed policy the plan was built with.
	Policy Policy

	// NewlyRemoved holds addresses in full but missing from current.
	NewlyRemoved address.Set

	// Resubscribed holds previously removed addresses that are back in current.
	Resubscribed address.Set

	// Adopted holds addresses that full did not know yet.
	Adopted address.Set

	// Full, Current and Removed are the sets after the update.
	Full    address.Set
	Current address.Set
	Removed address.Set
}

// ImportPlan is the outcome of matching extracted addresses against a roster.
type ImportPlan struct {
	// Extracted holds every address found in the input.
	Extracted address.Set

	// Import holds the extracted addresses unknown to both full and removed.
	Import address.Set

	// Full is full merged with Import.
	Full address.Set
}

// Result reports what an operation did.
type Result struct {
	// RunID identifies the run when the caller tracks runs.
	RunID string `json:"run_id,omitempty"`

	// Operation is the operation that ran.
	Operation Operation `json:"operation"`

	// Before and After are the roster sizes around the operation.
	// Both are zero for extract.
	Before Counts `json:"before"`
	After  Counts `json:"after"`

	// Extracted counts the addresses found in the input file.
	Extracted int `json:"extracted"`

	// Imported counts the addresses staged for import.
	Imported int `json:"imported"`

	// NewlyRemoved counts addresses that left the export in this run.
	NewlyRemoved int `json:"newly_removed"`

	// Adopted counts addresses added to full from current or removed.
	Adopted int `json:"adopted"`

	// Resubscribed counts removed addresses found in current again.
	Resubscribed int `json:"resubscribed"`

	// Written lists the files written, in write order.
	Written []string `json:"written"`

	// Addresses holds the extracted set when extract had no output file.
	Addresses []string `json:"addresses,omitempty"`

	// Errors lists non-fatal problems reported by the caller (mirroring, history).
	Errors []string `json:"errors,omitempty"`
}
