package diff

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// Style decorates the parts of a rendered diff. A nil func leaves the text
// unchanged, so the zero Style renders plain text.
type Style struct {
	FileHeader func(string) string
	HunkHeader func(string) string
	Insert     func(string) string
	Delete     func(string) string
	Context    func(string) string
	// InsertEmphasis and DeleteEmphasis wrap the changed spans inside an
	// inserted or deleted line.
	InsertEmphasis func(string) string
	DeleteEmphasis func(string) string
}

func apply(fn func(string) string, s string) string {
	if fn == nil {
		return s
	}
	return fn(s)
}

// WriteUnified writes a unified diff of before and after for path. A nil
// side stands for a missing file, so creating or removing an empty file
// still writes the file headers. Nothing is written when both files exist
// with equal contents.
func WriteUnified(w io.Writer, path string, before, after []byte, style Style) error {
	if (before == nil) == (after == nil) && bytes.Equal(before, after) {
		return nil
	}

	bw := bufio.NewWriter(w)
	oldName, newName := "a/"+path, "b/"+path
	if before == nil {
		oldName = "/dev/null"
	}
	if after == nil {
		newName = "/dev/null"
	}
	fmt.Fprintln(bw, apply(style.FileHeader, "--- "+oldName))
	fmt.Fprintln(bw, apply(style.FileHeader, "+++ "+newName))

	for _, h := range Hunks(before, after, DefaultContext) {
		header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
		fmt.Fprintln(bw, apply(style.HunkHeader, header))
		for _, l := range h.Lines {
			switch l.Type {
			case Equal:
				fmt.Fprintln(bw, apply(style.Context, " "+l.Text))
			case Insert:
				fmt.Fprintln(bw, renderChanged("+", l, style.Insert, style.InsertEmphasis))
			case Delete:
				fmt.Fprintln(bw, renderChanged("-", l, style.Delete, style.DeleteEmphasis))
			}
		}
	}
	return bw.Flush()
}

func renderChanged(marker string, l Line, base, emphasis func(string) string) string {
	if len(l.Spans) == 0 || emphasis == nil {
		return apply(base, marker+l.Text)
	}

	var b bytes.Buffer
	b.WriteString(apply(base, marker))
	pos := 0
	for _, s := range l.Spans {
		if s.Start > pos {
			b.WriteString(apply(base, l.Text[pos:s.Start]))
		}
		b.WriteString(emphasis(l.Text[s.Start:s.End]))
		pos = s.End
	}
	if pos < len(l.Text) {
		b.WriteString(apply(base, l.Text[pos:]))
	}
	return b.String()
}
