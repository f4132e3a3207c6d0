package diff

import (
	"strings"
	"unicode/utf8"
)

// LineType classifies a line in a line-level diff.
type LineType int

const (
	Equal  LineType = iota // Line is unchanged between a and b.
	Insert                 // Line was inserted (present in b only).
	Delete                 // Line was deleted (present in a only).
)

// maxEmphasisRunes bounds the character-level diff used for intra-line
// emphasis. Longer line pairs are emphasized as one span.
const maxEmphasisRunes = 512

// Span is a half-open byte range [Start, End) of a line's Text.
type Span struct {
	Start int
	End   int
}

// Line is a single line of a line-level diff. OldNum and NewNum are 1-based
// line numbers in a and b, zero when the line does not exist on that side.
// Spans marks the changed runs of a Delete line paired with an Insert line.
type Line struct {
	Type   LineType
	Text   string
	OldNum int
	NewNum int
	Spans  []Span
}

// LineDiff computes a line-level diff between a and b. Consecutive runs of
// deleted and inserted lines are paired up in order and each pair carries
// Spans for the characters that differ.
func LineDiff(a, b []byte) []Line {
	aLines := splitLines(string(a))
	bLines := splitLines(string(b))

	ops := myers(aLines, bLines)
	lines := make([]Line, len(ops))
	for i, o := range ops {
		switch o.Kind {
		case opEqual:
			lines[i] = Line{Type: Equal, Text: aLines[o.AIdx], OldNum: o.AIdx + 1, NewNum: o.BIdx + 1}
		case opDelete:
			lines[i] = Line{Type: Delete, Text: aLines[o.AIdx], OldNum: o.AIdx + 1}
		case opInsert:
			lines[i] = Line{Type: Insert, Text: bLines[o.BIdx], NewNum: o.BIdx + 1}
		}
	}
	emphasize(lines)
	return lines
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// emphasize pairs each block of deletes with the block of inserts that
// follows it and fills in their Spans.
func emphasize(lines []Line) {
	for i := 0; i < len(lines); {
		if lines[i].Type != Delete {
			i++
			continue
		}
		delStart := i
		for i < len(lines) && lines[i].Type == Delete {
			i++
		}
		insStart := i
		for i < len(lines) && lines[i].Type == Insert {
			i++
		}
		dels := lines[delStart:insStart]
		ins := lines[insStart:i]
		for j := 0; j < len(dels) && j < len(ins); j++ {
			dels[j].Spans, ins[j].Spans = changedSpans(dels[j].Text, ins[j].Text)
		}
	}
}

// changedSpans returns the byte ranges of old that were removed and of new
// that were added. The common prefix and suffix are trimmed first and the
// middle is aligned rune by rune.
func changedSpans(old, new string) (oldSpans, newSpans []Span) {
	prefix := 0
	for prefix < len(old) && prefix < len(new) && old[prefix] == new[prefix] {
		prefix++
	}
	for prefix > 0 && prefix < len(old) && !utf8.RuneStart(old[prefix]) {
		prefix--
	}

	suffix := 0
	for suffix < len(old)-prefix && suffix < len(new)-prefix &&
		old[len(old)-1-suffix] == new[len(new)-1-suffix] {
		suffix++
	}
	for suffix > 0 && !utf8.RuneStart(old[len(old)-suffix]) {
		suffix--
	}

	oldMid := old[prefix : len(old)-suffix]
	newMid := new[prefix : len(new)-suffix]
	if oldMid == "" && newMid == "" {
		return nil, nil
	}

	oldRunes := []rune(oldMid)
	newRunes := []rune(newMid)
	if oldMid == "" || newMid == "" || len(oldRunes)+len(newRunes) > maxEmphasisRunes {
		return wholeSpan(prefix, len(oldMid)), wholeSpan(prefix, len(newMid))
	}

	oldOffsets := runeOffsets(oldMid, prefix)
	newOffsets := runeOffsets(newMid, prefix)
	for _, o := range myers(oldRunes, newRunes) {
		switch o.Kind {
		case opDelete:
			oldSpans = appendSpan(oldSpans, oldOffsets[o.AIdx], oldOffsets[o.AIdx+1])
		case opInsert:
			newSpans = appendSpan(newSpans, newOffsets[o.BIdx], newOffsets[o.BIdx+1])
		}
	}
	return oldSpans, newSpans
}

func wholeSpan(start, length int) []Span {
	if length == 0 {
		return nil
	}
	return []Span{{Start: start, End: start + length}}
}

// runeOffsets returns the byte offset of every rune in s, shifted by base,
// plus one trailing entry for the end of s.
func runeOffsets(s string, base int) []int {
	offsets := make([]int, 0, len(s)+1)
	for i := range s {
		offsets = append(offsets, base+i)
	}
	return append(offsets, base+len(s))
}

// appendSpan extends the last span when the new range is adjacent to it.
func appendSpan(spans []Span, start, end int) []Span {
	if n := len(spans); n > 0 && spans[n-1].End == start {
		spans[n-1].End = end
		return spans
	}
	return append(spans, Span{Start: start, End: end})
}
