// Package address extracts and normalizes e-mail addresses from free-form text.
//
// An address is stored in its normalized form: lowercased and wrapped in double
// quotes ("user@example.com"). The quotes are the on-disk convention of the roster
// files and survive a write/extract round trip unchanged.
//
// # Extraction
//
// Extract scans the whole input with Pattern and collects every non-overlapping
// match. Surrounding content is ignored, so a CSV export with extra columns can be
// fed in unmodified.
//
// # Sets
//
// Set is an unordered collection of normalized addresses. Sorted returns the
// members in lexicographic order, which is the order used when persisting.
//
// # Usage
//
//	set := address.ExtractString(`Contact: C@X.com, d@y.org`)
//	for _, a := range set.Sorted() {
//	    fmt.Println(a) // "c@x.com", "d@y.org"
//	}
package address
