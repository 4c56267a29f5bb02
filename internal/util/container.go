package util

import (
	"fmt"
	"sort"
)

// Container is anything that can give back all of its elements as a slice.
// Iteration order over the returned slice is not guaranteed unless the
// particular implementation documents otherwise.
type Container[E any] interface {
	Elements() []E
}

// OrderedKeys returns the keys of m, sorted for deterministic output. It is
// used anywhere a map is iterated for display or comparison purposes so that
// results do not depend on Go's randomized map iteration order.
func OrderedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return SortedStrings(keys)
}

// Alphabetized returns the elements of c, sorted alphabetically by their
// string representation.
func Alphabetized[E any](c Container[E]) []string {
	elems := c.Elements()
	strs := make([]string, len(elems))
	for i := range elems {
		strs[i] = fmt.Sprintf("%v", elems[i])
	}
	return SortedStrings(strs)
}

// SortedStrings returns a sorted copy of ss.
func SortedStrings(ss []string) []string {
	sorted := make([]string, len(ss))
	copy(sorted, ss)
	sort.Strings(sorted)
	return sorted
}
