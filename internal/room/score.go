package room

// Score counts how many of the submitted items appear in the generated item
// set. Both sides are treated as sets: order is irrelevant and duplicate
// entries in the submission count once.
func Score(itemSet, submission []string) int {
	if len(itemSet) == 0 || len(submission) == 0 {
		return 0
	}

	want := make(map[string]struct{}, len(itemSet))
	for _, item := range itemSet {
		want[item] = struct{}{}
	}

	score := 0
	for _, item := range submission {
		if _, ok := want[item]; ok {
			score++
			delete(want, item)
		}
	}
	return score
}

// dedupe returns items with duplicates removed, preserving first-seen order.
func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
