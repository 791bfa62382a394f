package format

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/labelfmt/pkg"
)

// ErrParse matches every [*ParseError] with errors.Is.
var ErrParse = pkg.NewError("format parse error")

// Position is a location in a format string. Line and Column are 1-based;
// Column counts runes.
type Position struct {
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// String returns "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// ParseError reports a malformed format string.
type ParseError struct {
	Source  string   // Complete format string
	Snippet string   // Offending part of Source
	Msg     string   // Description of the problem
	Err     error    // Underlying cause, if any
	Pos     Position // Location of Snippet
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var sb strings.Builder

	sb.WriteString("parse error at line ")
	sb.WriteString(strconv.Itoa(e.Pos.Line))
	sb.WriteString(", column ")
	sb.WriteString(strconv.Itoa(e.Pos.Column))
	sb.WriteString(": ")
	sb.WriteString(e.Msg)

	if e.Snippet != "" {
		sb.WriteString(" ")
		sb.WriteString(strconv.Quote(e.Snippet))
	}

	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}

	return sb.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *ParseError) Unwrap() error { return e.Err }

// Is matches [ErrParse].
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("error", e.Msg),
		slog.String("snippet", e.Snippet),
		slog.Int("offset", e.Pos.Offset),
		slog.Int("line", e.Pos.Line),
		slog.Int("column", e.Pos.Column),
	}

	if e.Err != nil {
		attrs = append(attrs, slog.String("cause", e.Err.Error()))
	}

	return slog.GroupValue(attrs...)
}

// Context returns the line of Source holding the error followed by a caret
// under the offending column.
func (e *ParseError) Context() string {
	lines := strings.Split(e.Source, "\n")
	if e.Pos.Line < 1 || e.Pos.Line > len(lines) {
		return ""
	}

	var sb strings.Builder

	num := strconv.Itoa(e.Pos.Line)

	sb.WriteString("  ")
	sb.WriteString(num)
	sb.WriteString(" | ")
	sb.WriteString(lines[e.Pos.Line-1])
	sb.WriteByte('\n')

	// 2 leading spaces + " | "
	sb.WriteString(strings.Repeat(" ", len(num)+5+max(e.Pos.Column-1, 0)))
	sb.WriteString("^\n")

	return sb.String()
}
