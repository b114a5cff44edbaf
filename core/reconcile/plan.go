package reconcile

import (
	"fmt"

	"mlist-manager/core/address"
	"mlist-manager/core/persist"
)

// Load reads the roster files named in cfg. Full and current must exist; a
// missing removed file is an empty set.
func Load(store *persist.Store, cfg Config) (*Roster, error) {
	full, err := store.Load(cfg.Full, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load full roster: %w", err)
	}

	current, err := store.Load(cfg.Current, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load current export: %w", err)
	}

	removed, err := store.Load(cfg.Removed, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load removed list: %w", err)
	}

	return &Roster{Full: full, Current: current, Removed: removed}, nil
}

// PlanUpdate computes the roster after an update. The roster itself is not modified.
func PlanUpdate(r *Roster, policy Policy) *UpdatePlan {
	newlyRemoved := r.Full.Subtract(r.Current)
	resubscribed := r.Removed.Intersect(r.Current)

	var removed address.Set
	switch policy {
	case PolicyReplace:
		removed = newlyRemoved.Clone()
	default:
		removed = r.Removed.Union(newlyRemoved).Subtract(r.Current)
	}

	// Removed addresses are part of full as well, even when the removed file
	// was edited by hand.
	full := r.Full.Union(r.Current, r.Removed)

	return &UpdatePlan{
		Policy:       policy,
		NewlyRemoved: newlyRemoved,
		Resubscribed: resubscribed,
		Adopted:      full.Subtract(r.Full),
		Full:         full,
		Current:      r.Current.Clone(),
		Removed:      removed,
	}
}

// Apply replaces the roster sets with the ones from plan.
func (r *Roster) Apply(plan *UpdatePlan) {
	r.Full = plan.Full
	r.Current = plan.Current
	r.Removed = plan.Removed
}

// PlanImport selects the extracted addresses unknown to full and removed.
func PlanImport(full, removed, extracted address.Set) *ImportPlan {
	toImport := extracted.Subtract(full, removed)
	return &ImportPlan{
		Extracted: extracted,
		Import:    toImport,
		Full:      full.Union(toImport),
	}
}
