package paging

import (
	"strconv"
	"strings"
)

// Page identifies one page of the reference string. Only equality matters.
type Page int64

// ParseReference parses a comma separated list of integers into a reference
// sequence. Whitespace around tokens is ignored and an empty or blank input
// yields an empty sequence.
func ParseReference(s string) ([]Page, error) {
	if strings.TrimSpace(s) == "" {
		return []Page{}, nil
	}

	tokens := strings.Split(s, ",")
	ref := make([]Page, 0, len(tokens))
	for i, tok := range tokens {
		tok = strings.TrimSpace(tok)
		v, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return nil, ErrMalformedToken("ParseReference", i+1, tok, err)
		}
		ref = append(ref, Page(v))
	}
	return ref, nil
}

// FormatReference renders a reference sequence in the form ParseReference accepts
func FormatReference(ref []Page) string {
	var b strings.Builder
	for i, p := range ref {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(int64(p), 10))
	}
	return b.String()
}

// DistinctPages returns the number of different pages in ref
func DistinctPages(ref []Page) int {
	seen := make(map[Page]struct{}, len(ref))
	for _, p := range ref {
		seen[p] = struct{}{}
	}
	return len(seen)
}
