package main

import (
	"github.com/fatih/color"
	"github.com/odvcencio/dsgit/pkg/diff"
)

// colorize returns a func that wraps text in the given attributes. Output is
// plain when color is disabled or stdout is not a terminal.
func colorize(attrs ...color.Attribute) func(string) string {
	c := color.New(attrs...)
	return func(s string) string {
		return c.Sprint(s)
	}
}

func diffStyle() diff.Style {
	return diff.Style{
		FileHeader:     colorize(color.Bold),
		HunkHeader:     colorize(color.FgCyan),
		Insert:         colorize(color.FgGreen),
		Delete:         colorize(color.FgRed),
		InsertEmphasis: colorize(color.FgGreen, color.ReverseVideo),
		DeleteEmphasis: colorize(color.FgRed, color.ReverseVideo),
	}
}

var (
	hashColor   = colorize(color.FgYellow)
	branchColor = colorize(color.FgGreen, color.Bold)
	tagColor    = colorize(color.FgYellow, color.Bold)
	headColor   = colorize(color.FgCyan, color.Bold)
)

func changeColor(t diff.ChangeType) func(string) string {
	switch t {
	case diff.Created:
		return colorize(color.FgGreen)
	case diff.Removed:
		return colorize(color.FgRed)
	}
	return colorize(color.FgYellow)
}
