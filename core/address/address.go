package address

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Quote is the delimiter wrapped around every normalized address.
const Quote = '"'

// Pattern matches local@domain.tld shaped substrings.
var Pattern = regexp.MustCompile(`[\w.-]+@[\w.-]+\.[\w.]+`)

// Normalize lowercases s and wraps it in double quotes on each side that is not
// already quoted. Normalizing an already normalized address returns it unchanged.
func Normalize(s string) string {
	if s == "" {
		return s
	}

	s = strings.ToLower(s)
	if s[0] != Quote {
		s = string(Quote) + s
	}
	// A lone quote is the opening one and still needs its closing half.
	if len(s) == 1 || s[len(s)-1] != Quote {
		s += string(Quote)
	}
	return s
}

// Bare returns the address without its surrounding quotes.
func Bare(s string) string {
	return strings.Trim(s, string(Quote))
}

// ExtractString returns the set of normalized addresses found in text.
func ExtractString(text string) Set {
	matches := Pattern.FindAllString(text, -1)
	set := make(Set, len(matches))
	for _, m := range matches {
		set.Add(m)
	}
	return set
}

// Extract reads r to the end and returns the set of normalized addresses found in it.
func Extract(r io.Reader) (Set, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read addresses: %w", err)
	}
	return ExtractString(string(data)), nil
}
