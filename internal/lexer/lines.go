package lexer

import "strings"

// Line is one physical line of a document.
type Line struct {
	Num    int    // 1-based line number
	Indent int    // number of leading spaces
	Text   string // content after the indentation, right-trimmed
}

// Blank reports whether the line carries no content.
func (l Line) Blank() bool {
	return l.Text == ""
}

// SplitLines splits a document into lines. Both "\n" and "\r\n" endings are
// accepted.
func SplitLines(data []byte) []Line {
	raw := strings.Split(string(data), "\n")
	lines := make([]Line, 0, len(raw))
	for i, s := range raw {
		s = strings.TrimRight(s, " \t\r")
		indent := 0
		for indent < len(s) && s[indent] == ' ' {
			indent++
		}
		lines = append(lines, Line{Num: i + 1, Indent: indent, Text: s[indent:]})
	}
	return lines
}
