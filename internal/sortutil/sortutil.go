// Package sortutil provides the deterministic-ordering helpers the
// scanners and renderers share.
package sortutil

import "sort"

// Keys returns the string keys of m in sorted order. Extraction and
// report output walk maps in many places; sorted keys keep that output
// stable from run to run.
func Keys[M ~map[string]V, V any](m M) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
