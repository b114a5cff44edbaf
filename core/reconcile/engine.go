package reconcile

import (
	"context"
	"fmt"

	"mlist-manager/core/persist"
)

// Run dispatches op. It is the single entry point used by the command layer.
func Run(ctx context.Context, op Operation, store *persist.Store, cfg Config) (*Result, error) {
	switch op {
	case OperationExtract:
		return Extract(ctx, store, cfg)
	case OperationUpdate:
		return Update(ctx, store, cfg)
	case OperationAdd:
		return Add(ctx, store, cfg)
	default:
		return nil, fmt.Errorf("%w: unknown operation %q", ErrUsage, op)
	}
}

// Extract reads addresses from cfg.Input. When cfg.Output is set the set is
// written there, honouring cfg.Force; otherwise the addresses are returned in
// the result.
func Extract(ctx context.Context, store *persist.Store, cfg Config) (*Result, error) {
	if err := cfg.Validate(OperationExtract); err != nil {
		return nil, err
	}

	extracted, err := store.Load(cfg.Input, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load input: %w", err)
	}

	result := &Result{
		Operation: OperationExtract,
		Extracted: extracted.Len(),
		Written:   []string{},
	}

	if cfg.Output == "" {
		result.Addresses = extracted.Sorted()
		return result, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := store.Write(extracted, cfg.Output, cfg.Force); err != nil {
		return nil, fmt.Errorf("failed to write extracted addresses: %w", err)
	}
	result.Written = append(result.Written, cfg.Output)

	return result, nil
}

// Update reconciles the roster and rewrites full, current and removed together.
// Nothing is written if any of the three cannot be.
func Update(ctx context.Context, store *persist.Store, cfg Config) (*Result, error) {
	if err := cfg.Validate(OperationUpdate); err != nil {
		return nil, err
	}
	policy, _ := cfg.Policy()

	roster, err := Load(store, cfg)
	if err != nil {
		return nil, err
	}
	before := roster.Counts()

	plan := PlanUpdate(roster, policy)

	txn := store.Begin()
	defer txn.Rollback()

	if err := stageUpdate(txn, cfg, plan); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := txn.Commit(); err != nil {
		return nil, fmt.Errorf("failed to write roster: %w", err)
	}

	roster.Apply(plan)

	return &Result{
		Operation:    OperationUpdate,
		Before:       before,
		After:        roster.Counts(),
		NewlyRemoved: plan.NewlyRemoved.Len(),
		Adopted:      plan.Adopted.Len(),
		Resubscribed: plan.Resubscribed.Len(),
		Written:      txn.Paths(),
	}, nil
}

// Add updates the roster, then stages every address from cfg.Input that is
// neither in full nor in removed into cfg.Output and merges it into full.
// All files are written in one transaction.
func Add(ctx context.Context, store *persist.Store, cfg Config) (*Result, error) {
	if err := cfg.Validate(OperationAdd); err != nil {
		return nil, err
	}
	policy, _ := cfg.Policy()

	roster, err := Load(store, cfg)
	if err != nil {
		return nil, err
	}
	before := roster.Counts()

	extracted, err := store.Load(cfg.Input, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load input: %w", err)
	}

	update := PlanUpdate(roster, policy)
	imp := PlanImport(update.Full, update.Removed, extracted)
	update.Full = imp.Full

	txn := store.Begin()
	defer txn.Rollback()

	if err := txn.Stage(cfg.Output, imp.Import, cfg.Force); err != nil {
		return nil, fmt.Errorf("failed to stage import: %w", err)
	}
	if err := stageUpdate(txn, cfg, update); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := txn.Commit(); err != nil {
		return nil, fmt.Errorf("failed to write roster: %w", err)
	}

	roster.Apply(update)

	return &Result{
		Operation:    OperationAdd,
		Before:       before,
		After:        roster.Counts(),
		Extracted:    imp.Extracted.Len(),
		Imported:     imp.Import.Len(),
		NewlyRemoved: update.NewlyRemoved.Len(),
		Adopted:      update.Adopted.Len(),
		Resubscribed: update.Resubscribed.Len(),
		Written:      txn.Paths(),
	}, nil
}

// stageUpdate stages the three roster files of plan, all overwriting.
func stageUpdate(txn *persist.Txn, cfg Config, plan *UpdatePlan) error {
	if err := txn.Stage(cfg.Full, plan.Full, true); err != nil {
		return fmt.Errorf("failed to stage full roster: %w", err)
	}
	if err := txn.Stage(cfg.Current, plan.Current, true); err != nil {
		return fmt.Errorf("failed to stage current export: %w", err)
	}
	if err := txn.Stage(cfg.Removed, plan.Removed, true); err != nil {
		return fmt.Errorf("failed to stage removed list: %w", err)
	}
	return nil
}
