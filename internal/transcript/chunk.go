package transcript

import "fmt"

// Chunk partitions segments into word-count bounded groups using a
// single greedy pass. A segment joins the running group unless the
// group is non-empty and adding the segment would reach or exceed
// maxWords; then the group is closed and the segment opens a new one.
// A single segment is never split, so one oversized segment still
// occupies exactly one group. An empty input yields one empty group,
// never zero groups.
func Chunk(segments []Segment, maxWords int) ([]Group, error) {
	if maxWords < 1 {
		return nil, fmt.Errorf("chunk: max words must be positive, got %d", maxWords)
	}

	groups := make([]Group, 0, 1)
	var current Group
	currentWords := 0

	for _, seg := range segments {
		words := seg.WordCount()
		if currentWords > 0 && currentWords+words >= maxWords {
			groups = append(groups, current)
			current = Group{seg}
			currentWords = words
			continue
		}
		current = append(current, seg)
		currentWords += words
	}

	groups = append(groups, current)
	return groups, nil
}
