package utils

import (
	"sort"
)

// Dedupe removes duplicates from the list
func Dedupe(list []string) []string {
	seen := map[string]bool{}
	out := []string{}

	for _, elem := range list {
		if _, ok := seen[elem]; !ok {
			out = append(out, elem)
			seen[elem] = true
		}
	}
	return out
}

// SortedKeys returns the keys of the map in ascending order
func SortedKeys(m map[string]interface{}) []string {
	keys := []string{}
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
