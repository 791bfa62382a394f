package format

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/labelfmt/lang"
	"github.com/ardnew/labelfmt/pkg"
	"github.com/ardnew/labelfmt/style"
)

const (
	groupOpen  = "<format"
	groupClose = "</format>"

	maxSnippet = 32
)

// ParseReader parses a format string read from r.
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (*Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, pkg.ErrReadInput.Wrap(err)
	}

	return Parse(ctx, string(data), opts...)
}

// Parse parses a format string into a new [Tree].
func Parse(ctx context.Context, s string, opts ...Option) (*Tree, error) {
	cfg := makeConfig(opts...)

	p := &parser{
		input: []byte(s),
		line:  1,
		col:   1,
	}

	nodes, err := p.parseEncoded()
	if err != nil {
		cfg.logger.TraceContext(ctx, "parse failed",
			slog.Any("error", err))

		return nil, err
	}

	t := &Tree{source: s, nodes: nodes, count: countNodes(nodes)}

	cfg.logger.TraceContext(ctx, "parse complete",
		slog.Int("source_bytes", len(s)),
		slog.Int("top_level", len(t.nodes)),
		slog.Int("nodes", t.count))

	return t, nil
}

// MustParse is like [Parse] but panics on error.
func MustParse(s string) *Tree {
	t, err := Parse(context.Background(), s)
	if err != nil {
		panic(err)
	}

	return t
}

// parser holds the parser state.
type parser struct {
	input []byte
	pos   int
	line  int
	col   int
}

// parseItems parses text, substitutions and groups until EOF or, inside a
// group, until the closing tag.
func (p *parser) parseItems(inGroup bool) ([]Node, error) {
	nodes := make([]Node, 0)

	for !p.eof() {
		switch {
		case p.peek() == '[':
			n, err := p.parseSubstitution()
			if err != nil {
				return nil, err
			}

			nodes = append(nodes, n)

		case p.atGroupOpen():
			n, err := p.parseGroup()
			if err != nil {
				return nil, err
			}

			nodes = append(nodes, n)

		case p.atGroupClose():
			if !inGroup {
				return nil, p.errorAt(p.position(), groupClose,
					"closing tag without matching "+groupOpen, nil)
			}

			return nodes, nil

		default:
			nodes = append(nodes, p.parseText())
		}
	}

	return nodes, nil
}

// parseText parses literal text up to the next substitution or tag.
func (p *parser) parseText() *Text {
	var sb strings.Builder

	for !p.eof() {
		ch := p.peek()

		if ch == '[' || p.atGroupOpen() || p.atGroupClose() {
			break
		}

		if ch == '\\' {
			p.advance()

			if p.eof() {
				sb.WriteRune('\\')

				break
			}

			ch = p.peek()
		}

		sb.WriteRune(ch)
		p.advance()
	}

	return &Text{value: sb.String()}
}

// parseSubstitution parses: '[' expression ']'.
func (p *parser) parseSubstitution() (*Substitution, error) {
	x, err := p.parseBracketed("substitution")
	if err != nil {
		return nil, err
	}

	return &Substitution{expr: x}, nil
}

// parseBracketed parses an expression enclosed in brackets and compiles it.
func (p *parser) parseBracketed(what string) (*lang.Expr, error) {
	start := p.position()

	p.advance() // skip '['

	source, err := p.captureExpression()
	if err != nil {
		return nil, err
	}

	if !p.expect(']') {
		return nil, p.errorAt(start, p.snippetFrom(start.Offset),
			"unterminated "+what, nil)
	}

	if strings.TrimSpace(source) == "" {
		return nil, p.errorAt(start, p.snippetFrom(start.Offset),
			"empty "+what, nil)
	}

	x, err := lang.Compile(source)
	if err != nil {
		return nil, p.errorAt(start, p.snippetFrom(start.Offset),
			"invalid expression", err)
	}

	return x, nil
}

// captureExpression captures raw expression text up to an unbalanced ']'
// or EOF. It tracks balanced '()', '[]', '{}' and skips string literals so
// delimiters inside strings don't terminate.
func (p *parser) captureExpression() (string, error) {
	start := p.pos
	depth := 0

	for !p.eof() {
		ch := p.peek()

		if ch == '"' || ch == '\'' || ch == '`' {
			if err := p.skipString(ch); err != nil {
				return "", err
			}

			continue
		}

		switch ch {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth == 0 {
				return string(p.input[start:p.pos]), nil
			}

			depth--
		}

		p.advance()
	}

	return string(p.input[start:p.pos]), nil
}

// parseGroup parses: '<format' attr* '>' item* '</format>'.
func (p *parser) parseGroup() (*Group, error) {
	start := p.position()

	p.skip(len(groupOpen))

	g := &Group{}
	seen := make(map[style.Key]bool)

	for {
		p.skipWhitespace()

		if p.eof() {
			return nil, p.errorAt(start, p.snippetFrom(start.Offset),
				"unterminated "+groupOpen+" tag", nil)
		}

		if p.expect('>') {
			break
		}

		if err := p.parseAttr(&g.overrides, seen); err != nil {
			return nil, err
		}
	}

	children, err := p.parseItems(true)
	if err != nil {
		return nil, err
	}

	if !p.atGroupClose() {
		return nil, p.errorAt(start, p.snippetFrom(start.Offset),
			"unterminated group", nil)
	}

	p.skip(len(groupClose))

	g.children = children

	return g, nil
}

// parseAttr parses: key '=' ( quoted | '[' expr ']' | bare ).
func (p *parser) parseAttr(d *style.Defaults, seen map[style.Key]bool) error {
	pos := p.position()

	name := p.scanWhile(isKeyRune)
	if name == "" {
		return p.errorAt(pos, p.snippetFrom(pos.Offset),
			"expected attribute name", nil)
	}

	key, err := style.ParseKey(name)
	if err != nil {
		return p.errorAt(pos, name, "unknown override key", err)
	}

	if seen[key] {
		return p.errorAt(pos, name, "duplicate override key", nil)
	}

	seen[key] = true

	p.skipWhitespace()

	if !p.expect('=') {
		return p.errorAt(p.position(), p.snippetFrom(p.pos),
			"expected '=' after "+name, nil)
	}

	p.skipWhitespace()

	valuePos := p.position()

	switch ch := p.peek(); {
	case ch == '[':
		x, err := p.parseBracketed("override expression")
		if err != nil {
			return err
		}

		return d.SetExpr(key, x)

	case ch == '"' || ch == '\'':
		text, err := p.scanQuoted(ch)
		if err != nil {
			return err
		}

		if err := d.SetLiteral(key, text); err != nil {
			return p.errorAt(valuePos, text, "invalid value for "+name, err)
		}

	default:
		text := p.scanWhile(func(r rune) bool {
			return r != '>' && !unicode.IsSpace(r)
		})
		if text == "" {
			return p.errorAt(valuePos, p.snippetFrom(valuePos.Offset),
				"missing value for "+name, nil)
		}

		if err := d.SetLiteral(key, text); err != nil {
			return p.errorAt(valuePos, text, "invalid value for "+name, err)
		}
	}

	return nil
}

// scanQuoted scans a quoted value. A backslash escapes the next character.
func (p *parser) scanQuoted(quote rune) (string, error) {
	start := p.position()

	p.advance() // skip opening quote

	var sb strings.Builder

	for !p.eof() {
		ch := p.peek()

		if ch == '\\' {
			p.advance()

			if p.eof() {
				break
			}

			ch = p.peek()
		} else if ch == quote {
			p.advance()

			return sb.String(), nil
		}

		sb.WriteRune(ch)
		p.advance()
	}

	return "", p.errorAt(start, p.snippetFrom(start.Offset),
		"unterminated string", nil)
}

func (p *parser) skipString(quote rune) error {
	start := p.position()

	p.advance() // skip opening quote

	for !p.eof() {
		ch := p.peek()
		if ch == '\\' {
			p.advance() // skip backslash

			if !p.eof() {
				p.advance() // skip escaped char
			}

			continue
		}

		if ch == quote {
			p.advance() // skip closing quote

			return nil
		}

		p.advance()
	}

	return p.errorAt(start, p.snippetFrom(start.Offset),
		"unterminated string", nil)
}

func (p *parser) atGroupOpen() bool {
	if !bytes.HasPrefix(p.input[p.pos:], []byte(groupOpen)) {
		return false
	}

	next := p.pos + len(groupOpen)
	if next >= len(p.input) {
		return true
	}

	r, _ := utf8.DecodeRune(p.input[next:])

	return r == '>' || unicode.IsSpace(r)
}

func (p *parser) atGroupClose() bool {
	return bytes.HasPrefix(p.input[p.pos:], []byte(groupClose))
}

// parseEncoded rejects input that is not valid UTF-8 before parsing it, so
// every node's text is a byte-exact slice of the source.
func (p *parser) parseEncoded() ([]Node, error) {
	for !p.eof() {
		if r, size := utf8.DecodeRune(p.input[p.pos:]); r == utf8.RuneError && size == 1 {
			return nil, p.errorAt(p.position(), p.snippetFrom(p.pos), "invalid UTF-8", nil)
		}

		p.advance()
	}

	p.pos, p.line, p.col = 0, 1, 1

	return p.parseItems(false)
}

func (p *parser) errorAt(pos Position, snippet, msg string, err error) error {
	return &ParseError{
		Source:  string(p.input),
		Snippet: snippet,
		Msg:     msg,
		Err:     err,
		Pos:     pos,
	}
}

// snippetFrom returns the input from offset, shortened for messages.
func (p *parser) snippetFrom(offset int) string {
	s := string(p.input[min(offset, len(p.input)):])

	if utf8.RuneCountInString(s) > maxSnippet {
		s = string([]rune(s)[:maxSnippet]) + "..."
	}

	return s
}

// Helper methods

func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(p.input[p.pos:])

	return r
}

func (p *parser) advance() {
	if p.eof() {
		return
	}

	r, size := utf8.DecodeRune(p.input[p.pos:])

	p.pos += size
	if r == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
}

func (p *parser) skip(n int) {
	for range n {
		p.advance()
	}
}

func (p *parser) expect(ch rune) bool {
	if !p.eof() && p.peek() == ch {
		p.advance()

		return true
	}

	return false
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) position() Position {
	return Position{
		Offset: p.pos,
		Line:   p.line,
		Column: p.col,
	}
}

func (p *parser) skipWhitespace() {
	for !p.eof() && unicode.IsSpace(p.peek()) {
		p.advance()
	}
}

func (p *parser) scanWhile(accept func(rune) bool) string {
	start := p.pos

	for !p.eof() && accept(p.peek()) {
		p.advance()
	}

	return string(p.input[start:p.pos])
}

func isKeyRune(r rune) bool {
	return r == '-' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
