package reconcile

import (
	"errors"
	"fmt"

	"mlist-manager/core/persist"
)

// ErrUsage marks invalid operation selections or missing inputs.
// It is always reported before any file is read.
var ErrUsage = errors.New("usage error")

// Policy decides what happens to the removed set on update.
type Policy string

const (
	// PolicyAccumulate keeps every address that ever left the list.
	PolicyAccumulate Policy = "accumulate"
	// PolicyReplace keeps only the addresses that left since the last export.
	PolicyReplace Policy = "replace"
)

// Config holds the resolved roster file paths and behaviour switches.
type Config struct {
	// Full is the master roster file.
	Full string `mapstructure:"full" default:"full.csv"`
	// Current is the provider export file.
	Current string `mapstructure:"current" default:"current.csv"`
	// Removed is the removed addresses file. It may not exist yet.
	Removed string `mapstructure:"removed" default:"removed.csv"`
	// Input is the free-form source for extract and add.
	Input string `mapstructure:"input" default:""`
	// Output is the destination for extract and add.
	Output string `mapstructure:"output" default:""`
	// Force allows the output file to be overwritten.
	Force bool `mapstructure:"force" default:"false"`
	// RemovedPolicy is either "accumulate" or "replace".
	RemovedPolicy string `mapstructure:"removed_policy" default:"accumulate"`
}

// Policy returns the configured removed policy. An empty value means accumulate.
func (c Config) Policy() (Policy, error) {
	switch Policy(c.RemovedPolicy) {
	case "", PolicyAccumulate:
		return PolicyAccumulate, nil
	case PolicyReplace:
		return PolicyReplace, nil
	default:
		return "", fmt.Errorf("%w: unknown removed policy %q", ErrUsage, c.RemovedPolicy)
	}
}

// Validate checks that every path op needs is set and that outputs do not
// alias roster files.
func (c Config) Validate(op Operation) error {
	if _, err := c.Policy(); err != nil {
		return err
	}

	required := map[string]string{}
	switch op {
	case OperationExtract:
		required["input"] = c.Input
	case OperationUpdate:
		required["full"] = c.Full
		required["current"] = c.Current
		required["removed"] = c.Removed
	case OperationAdd:
		required["full"] = c.Full
		required["current"] = c.Current
		required["removed"] = c.Removed
		required["input"] = c.Input
		required["output"] = c.Output
	default:
		return fmt.Errorf("%w: unknown operation %q", ErrUsage, op)
	}

	for _, name := range []string{"full", "current", "removed", "input", "output"} {
		if v, ok := required[name]; ok && v == "" {
			return fmt.Errorf("%w: %s requires a %s path", ErrUsage, op, name)
		}
	}

	// Paths are compared in cleaned absolute form so that two spellings of
	// one file cannot slip through.
	if op == OperationUpdate || op == OperationAdd {
		if persist.SamePath(c.Full, c.Current) || persist.SamePath(c.Full, c.Removed) || persist.SamePath(c.Current, c.Removed) {
			return fmt.Errorf("%w: full, current and removed must be different files", ErrUsage)
		}
	}
	if c.Output != "" {
		for _, p := range []string{c.Full, c.Current, c.Removed} {
			if p != "" && persist.SamePath(c.Output, p) {
				return fmt.Errorf("%w: output %s would replace roster file %s", ErrUsage, c.Output, p)
			}
		}
	}

	return nil
}
