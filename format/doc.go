// Package format compiles label format strings into an immutable [Tree] and
// renders trees into styled text runs.
//
// A format string mixes literal text with substitutions and style groups:
//
//	Population: [POP]
//	<format face-name="DejaVu Sans Bold" size=12>[NAME]</format> ([RANK])
//
// A substitution holds an expression, evaluated against the attributes of
// each feature. A group overrides style properties for the items it
// encloses; override values are quoted text, bare tokens, or expressions in
// brackets. A backslash escapes the next character of literal text.
//
// [Parse] never mutates shared state and always yields a new tree.
// [ParseCached] shares trees between callers that parse the same source,
// which is safe because trees are never modified after construction.
package format
