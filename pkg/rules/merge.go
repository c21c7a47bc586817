package rules

import "sort"

// merge deduplicates detections by index: when multiple rules fire at the
// same point only the highest-severity record survives, and equal severities
// are broken by the lowest rule id so the output is deterministic.  Records
// are returned sorted ascending by index.
func merge(in []Anomaly) []Anomaly {
	if len(in) == 0 {
		return nil
	}
	best := make(map[int]Anomaly, len(in))
	for _, a := range in {
		cur, ok := best[a.Index]
		if !ok || outranks(a, cur) {
			best[a.Index] = a
		}
	}
	out := make([]Anomaly, 0, len(best))
	for _, a := range best {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// outranks reports whether a should replace b at the same index
func outranks(a, b Anomaly) bool {
	if a.Severity != b.Severity {
		return a.Severity > b.Severity
	}
	return a.Rule < b.Rule
}
