package sbol

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/bebop/sbolconvert/sbolerr"
)

// EncodePrefixed renders index and value as an "N<sep>value" string, the
// positional-prefix scheme spec.md §3 invariant 2 uses to preserve order
// through an unordered triple store.
func EncodePrefixed(sep string, index int, value string) string {
	return strconv.Itoa(index) + sep + value
}

// DecodePrefixed splits an "N<sep>value" string back into its numeric
// index and value.
func DecodePrefixed(sep, s string) (index int, value string, err error) {
	parts := strings.SplitN(s, sep, 2)
	if len(parts) != 2 {
		return 0, "", &sbolerr.StructuralError{Msg: fmt.Sprintf("malformed positional-prefix entry %q (expected N%s value)", s, sep)}
	}
	index, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, "", &sbolerr.StructuralError{Msg: fmt.Sprintf("malformed positional-prefix index in %q: %v", s, err)}
	}
	return index, parts[1], nil
}

// SortedValues decodes every "N<sep>value" entry in items, sorts by the
// numeric prefix ascending, and returns the bare values in that order.
func SortedValues(sep string, items []string) ([]string, error) {
	type entry struct {
		index int
		value string
	}
	entries := make([]entry, len(items))
	for i, item := range items {
		index, value, err := DecodePrefixed(sep, item)
		if err != nil {
			return nil, err
		}
		entries[i] = entry{index, value}
	}
	slices.SortFunc(entries, func(a, b entry) int { return a.index - b.index })
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.value
	}
	return out, nil
}

// IndicesMatch reports whether two positional-prefix lists carry identical
// multisets of numeric prefixes, the shape invariant spec.md §8 requires
// between a feature's qualifier_key and qualifier_value lists.
func IndicesMatch(sep string, a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	indexCount := func(items []string) map[int]int {
		counts := make(map[int]int, len(items))
		for _, item := range items {
			index, _, err := DecodePrefixed(sep, item)
			if err != nil {
				return nil
			}
			counts[index]++
		}
		return counts
	}
	ca, cb := indexCount(a), indexCount(b)
	if ca == nil || cb == nil || len(ca) != len(cb) {
		return false
	}
	for k, v := range ca {
		if cb[k] != v {
			return false
		}
	}
	return true
}
