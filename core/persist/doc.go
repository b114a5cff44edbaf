// Package persist loads and writes address sets as plain text files.
//
// Every file is UTF-8, one normalized address per line, sorted. Loading goes
// through the address extractor, so any text file can be read as a set.
//
// # Overwrite protection
//
// Writes are either overwriting or protected. A protected write fails with
// ErrDestinationExists when the target already exists and leaves it untouched.
// The existence check happens before the rename that publishes the file, so two
// processes racing on the same path can still clobber each other: the guard is
// meant for an operator running one batch at a time.
//
// # Transactions
//
// A Txn groups several writes so they land all or nothing:
//
//	txn := store.Begin()
//	defer txn.Rollback()
//	if err := txn.Stage(cfg.Full, full, true); err != nil {
//	    return err
//	}
//	if err := txn.Stage(cfg.Removed, removed, true); err != nil {
//	    return err
//	}
//	if err := txn.Commit(); err != nil {
//	    return err // no target was changed
//	}
//
// A failed Stage must end the transaction: committing after it would publish
// only part of the group. Each file may be staged once; staging a second
// spelling of the same path fails with ErrDuplicateTarget.
//
// Stage renders each set into a temporary file next to its target. Commit moves
// existing targets aside, renames the staged files into place and restores the
// originals if any step fails.
package persist
