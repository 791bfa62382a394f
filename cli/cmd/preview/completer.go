package preview

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/labelfmt/format"
	"github.com/ardnew/labelfmt/lang"
	"github.com/ardnew/labelfmt/style"
)

// isWordBoundary reports whether r separates completion words. Hyphens are
// not boundaries because style attribute names contain them.
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t', '.', ',', ':', ';', '?', '!',
		'(', ')', '[', ']', '<', '>', '"', '\'',
		'+', '*', '/', '%', '=', '&', '|':
		return true
	}

	return false
}

// wordBounds returns the word around cursor and its byte offsets in input.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// attrCandidates returns the attribute names the tree reads that are not yet
// assigned in the attribute field.
func attrCandidates(tree *format.Tree, assigned lang.Attributes) []string {
	var out []string

	for _, name := range tree.Attributes() {
		if _, ok := assigned[name]; !ok {
			out = append(out, name)
		}
	}

	return out
}

// formatCandidates returns the names useful while editing a format
// expression: assigned attributes, expression builtins and, inside a
// <format> tag, style attribute names.
func formatCandidates(input string, wordStart int, assigned lang.Attributes) []string {
	names := assigned.Names()

	if inTag(input[:wordStart]) {
		for _, key := range style.Keys() {
			names = append(names, key.Attr())
		}
	} else {
		names = append(names, lang.BuiltinNames()...)
	}

	slices.Sort(names)

	return slices.Compact(names)
}

// inTag reports whether prefix ends inside an unclosed <format tag.
func inTag(prefix string) bool {
	open := strings.LastIndex(prefix, "<format")

	return open >= 0 && !strings.Contains(prefix[open:], ">")
}

// complete ranks candidates against word. An empty word yields no matches.
func complete(word string, candidates []string) fuzzy.Matches {
	if word == "" || len(candidates) == 0 {
		return nil
	}

	matches := fuzzy.Find(word, candidates)

	// Drop a sole exact match; there is nothing left to complete.
	if len(matches) == 1 && matches[0].Str == word {
		return nil
	}

	return matches
}

// candidateBar renders matches on one line, ellipsized to width, with the
// matched characters highlighted.
func candidateBar(matches fuzzy.Matches, selected, width int) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")

	var (
		b    strings.Builder
		used int
	)

	for i, m := range matches {
		rendered := renderMatch(m, i == selected)
		w := lipgloss.Width(rendered)

		if i > 0 {
			w += len(sep)
		}

		if i > 0 && used+w+lipgloss.Width(ellipsis) > width {
			b.WriteString(sep + ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += w
	}

	return b.String()
}

func renderMatch(m fuzzy.Match, selected bool) string {
	base, hl := suggestionStyle, matchStyle
	if selected {
		base, hl = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	for i, r := range m.Str {
		if slices.Contains(m.MatchedIndexes, i) {
			b.WriteString(hl.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
