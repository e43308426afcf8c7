package transcript

import "strings"

// Segment is one unit of recognized speech. Segments arrive from the
// transcription engine in non-decreasing start order and are treated as
// immutable from then on. Text may be empty when the engine emits
// silence markers; renderers tolerate that.
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// WordCount returns the number of whitespace-delimited tokens in the
// segment text.
func (s Segment) WordCount() int {
	return len(strings.Fields(s.Text))
}

// Group is an ordered, contiguous run of segments assigned to a single
// output artifact.
type Group []Segment

// WordCount returns the total word count across the group.
func (g Group) WordCount() int {
	total := 0
	for _, seg := range g {
		total += seg.WordCount()
	}
	return total
}
