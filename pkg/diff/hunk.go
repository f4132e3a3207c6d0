package diff

// DefaultContext is the number of unchanged lines shown around each change.
const DefaultContext = 3

// Hunk is a group of changed lines with surrounding context. Starts are
// 1-based; a zero count means the range is empty on that side, in which case
// the start is the line before the insertion point.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []Line
}

// Hunks diffs a and b and groups the changes into hunks with context lines
// of surrounding unchanged text. Changes closer than twice the context are
// merged into one hunk. Identical inputs produce no hunks.
func Hunks(a, b []byte, context int) []Hunk {
	return groupHunks(LineDiff(a, b), context)
}

func groupHunks(lines []Line, context int) []Hunk {
	if context < 0 {
		context = 0
	}

	type span struct{ start, end int }
	var spans []span
	for i, l := range lines {
		if l.Type == Equal {
			continue
		}
		start := max(i-context, 0)
		end := min(i+context+1, len(lines))
		if len(spans) == 0 || start > spans[len(spans)-1].end {
			spans = append(spans, span{start: start, end: end})
			continue
		}
		if end > spans[len(spans)-1].end {
			spans[len(spans)-1].end = end
		}
	}

	hunks := make([]Hunk, 0, len(spans))
	for _, s := range spans {
		hunks = append(hunks, newHunk(lines, s.start, s.end))
	}
	return hunks
}

func newHunk(lines []Line, start, end int) Hunk {
	oldLine, newLine := 1, 1
	for _, l := range lines[:start] {
		switch l.Type {
		case Equal:
			oldLine++
			newLine++
		case Delete:
			oldLine++
		case Insert:
			newLine++
		}
	}

	h := Hunk{OldStart: oldLine, NewStart: newLine, Lines: lines[start:end]}
	for _, l := range h.Lines {
		switch l.Type {
		case Equal:
			h.OldCount++
			h.NewCount++
		case Delete:
			h.OldCount++
		case Insert:
			h.NewCount++
		}
	}
	if h.OldCount == 0 {
		h.OldStart--
	}
	if h.NewCount == 0 {
		h.NewStart--
	}
	return h
}
