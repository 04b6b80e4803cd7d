package util

import "slices"

// ListContainsElement returns true if the given list contains the given element.
func ListContainsElement[S ~[]E, E comparable](list S, element E) bool {
	return slices.Contains(list, element)
}

// SortedKeys returns the keys for the given map in sorted order. This is used to ensure we always iterate over maps
// in a consistent order (Go does not guarantee iteration order for maps, and usually makes it random).
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	return keys
}
