package pipeline

import "github.com/sells-group/prospect-cli/internal/model"

// Dedupe collapses leads sharing an identity key, keeping the richer record
// in place. Output preserves first-appearance order; this is the only stage
// allowed to shrink the lead set. The second return is the number of
// collapsed duplicates.
func Dedupe(leads []model.EnrichedLead) ([]model.EnrichedLead, int) {
	index := make(map[string]int, len(leads))
	out := make([]model.EnrichedLead, 0, len(leads))

	for _, l := range leads {
		key := l.Key()
		if at, ok := index[key]; ok {
			if l.Richer(out[at]) {
				out[at] = l
			}
			continue
		}
		index[key] = len(out)
		out = append(out, l)
	}

	return out, len(leads) - len(out)
}
