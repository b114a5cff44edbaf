// Package reconcile keeps a locally owned master roster in step with the
// authoritative export of an external mailing-list provider.
//
// Three address sets take part in every reconciliation:
//
//   - Full: every address ever known locally, active or removed.
//   - Current: the provider's export of active subscribers.
//   - Removed: addresses considered to have left the list.
//
// # Update
//
// PlanUpdate derives the new sets without touching the roster:
//
//	newly removed = full - current
//	removed'      = (removed + newly removed) - current   (PolicyAccumulate)
//	removed'      = newly removed                         (PolicyReplace)
//	full'         = full + current + removed
//
// Under the accumulate policy an address that shows up in the export again leaves
// Removed, so Current and Removed never overlap after an update.
//
// # Add
//
// Add runs the update plan first and then stages addresses from an input file
// for import: anything already in Full or Removed is skipped. The update outputs,
// the merged Full and the import file are written in one transaction, so an
// existing import file aborts the whole operation without writing anything.
//
// # Operations
//
// Extract, Update and Add are the closed set of operations. Run dispatches on an
// Operation value and returns a Result with counts before and after; callers
// decide how to report it.
//
//	res, err := reconcile.Run(ctx, reconcile.OperationUpdate, persist.NewOS(), cfg)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.After.Full, res.After.Removed)
package reconcile
