package orchestrator

// violationKey identifies a finding across variations.
type violationKey struct {
	start, end int
	message    string
}

// Dedupe removes findings already reported by an earlier result, comparing
// recovered offsets and message. Results left without findings are dropped.
// The input is not modified.
func Dedupe(results []Result) []Result {
	seen := make(map[violationKey]struct{})
	out := make([]Result, 0, len(results))

	for _, res := range results {
		kept := make([]Violation, 0, len(res.Violations))
		for _, v := range res.Violations {
			key := violationKey{start: v.StartOffset, end: v.EndOffset, message: v.Message}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			kept = append(kept, v)
		}
		if len(kept) == 0 {
			continue
		}
		res.Violations = kept
		out = append(out, res)
	}

	return out
}
