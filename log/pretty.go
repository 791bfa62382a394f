package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used to colorize pretty records.
// Styles are bound to a renderer for the output writer, so color is dropped
// automatically when the writer is not a terminal.
type palette struct {
	key, str, num, yes, no, dur, when, null, msg lipgloss.Style
	trace, debug, info, warn, fail               lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return palette{
		key:   fg("8"),
		str:   fg("6"),
		num:   fg("3"),
		yes:   fg("2"),
		no:    fg("1"),
		dur:   fg("5"),
		when:  fg("4"),
		null:  fg("8").Italic(true),
		msg:   r.NewStyle().Bold(true),
		trace: fg("8"),
		debug: fg("4"),
		info:  fg("2"),
		warn:  fg("3").Bold(true),
		fail:  fg("1").Bold(true),
	}
}

func (p palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.fail
	case l >= slog.LevelWarn:
		return p.warn
	case l >= slog.LevelInfo:
		return p.info
	case l >= slog.LevelDebug:
		return p.debug
	default:
		return p.trace
	}
}

// field is a flattened attribute. Group members carry dotted keys.
type field struct {
	key   string
	value slog.Value
}

// prettyHandler writes colorized records either as key=value text or as
// indented JSON-style objects.
type prettyHandler struct {
	opts   slog.HandlerOptions
	style  palette
	mu     *sync.Mutex
	w      io.Writer
	json   bool
	fields []field
	groups []string
}

func newPrettyTextHandler(w io.Writer, opts *slog.HandlerOptions) *prettyHandler {
	return newPrettyHandler(w, opts, false)
}

func newPrettyJSONHandler(w io.Writer, opts *slog.HandlerOptions) *prettyHandler {
	return newPrettyHandler(w, opts, true)
}

func newPrettyHandler(w io.Writer, opts *slog.HandlerOptions, json bool) *prettyHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}

	return &prettyHandler{
		opts:  *opts,
		style: newPalette(w),
		mu:    &sync.Mutex{},
		w:     w,
		json:  json,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}

	return level >= threshold
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	c := *h
	c.fields = h.flatten(h.fields[:len(h.fields):len(h.fields)], h.groups, attrs)

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.groups = append(h.groups[:len(h.groups):len(h.groups)], name)

	return &c
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var head []field

	if !r.Time.IsZero() {
		if a := h.replace(nil, slog.Time(slog.TimeKey, r.Time)); a.Key != "" {
			head = append(head, field{a.Key, a.Value})
		}
	}

	if a := h.replace(nil, slog.Any(slog.LevelKey, r.Level)); a.Key != "" {
		head = append(head, field{a.Key, a.Value})
	}

	if h.opts.AddSource && r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		src := filepath.Base(frame.File) + ":" + strconv.Itoa(frame.Line)
		head = append(head, field{slog.SourceKey, slog.StringValue(src)})
	}

	head = append(head, field{slog.MessageKey, slog.StringValue(r.Message)})

	var attrs []slog.Attr
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)

		return true
	})

	body := h.flatten(append([]field(nil), h.fields...), h.groups, attrs)

	buf := new(bytes.Buffer)
	if h.json {
		h.writeJSON(buf, r.Level, head, body)
	} else {
		h.writeText(buf, r.Level, head, body)
	}

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) replace(groups []string, a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr == nil || a.Value.Kind() == slog.KindGroup {
		return a
	}

	return h.opts.ReplaceAttr(groups, a)
}

// flatten appends attrs to dst, resolving values and expanding groups into
// dotted keys.
func (h *prettyHandler) flatten(dst []field, groups []string, attrs []slog.Attr) []field {
	for _, a := range attrs {
		a.Value = a.Value.Resolve()
		a = h.replace(groups, a)

		if a.Equal(slog.Attr{}) {
			continue
		}

		if a.Value.Kind() == slog.KindGroup {
			sub := groups
			if a.Key != "" {
				sub = append(groups[:len(groups):len(groups)], a.Key)
			}

			dst = h.flatten(dst, sub, a.Value.Group())

			continue
		}

		key := a.Key
		if len(groups) > 0 {
			key = strings.Join(groups, ".") + "." + key
		}

		dst = append(dst, field{key, a.Value})
	}

	return dst
}

func (h *prettyHandler) writeText(buf *bytes.Buffer, level slog.Level, head, body []field) {
	for _, f := range head {
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}

		switch f.key {
		case slog.LevelKey:
			buf.WriteString(h.style.level(level).Render(f.value.String()))
		case slog.MessageKey:
			buf.WriteString(h.style.msg.Render(f.value.String()))
		case slog.TimeKey, slog.SourceKey:
			buf.WriteString(h.style.key.Render(f.value.String()))
		default:
			buf.WriteString(h.value(f.value, false))
		}
	}

	for _, f := range body {
		buf.WriteByte(' ')
		buf.WriteString(h.style.key.Render(f.key))
		buf.WriteByte('=')
		buf.WriteString(h.value(f.value, false))
	}
}

func (h *prettyHandler) writeJSON(buf *bytes.Buffer, level slog.Level, head, body []field) {
	buf.WriteString("{")

	for i, f := range append(head, body...) {
		if i > 0 {
			buf.WriteByte(',')
		}

		buf.WriteString("\n  ")
		buf.WriteString(h.style.key.Render(strconv.Quote(f.key)))
		buf.WriteString(": ")

		if f.key == slog.LevelKey {
			buf.WriteString(h.style.level(level).Render(strconv.Quote(f.value.String())))
		} else {
			buf.WriteString(h.value(f.value, true))
		}
	}

	buf.WriteString("\n}")
}

// value renders v in the color of its kind. Strings are quoted only in JSON
// mode.
func (h *prettyHandler) value(v slog.Value, quote bool) string {
	str := func(s string) string {
		if quote {
			s = strconv.Quote(s)
		}

		return h.style.str.Render(s)
	}

	switch v.Kind() {
	case slog.KindString:
		return str(v.String())
	case slog.KindInt64:
		return h.style.num.Render(strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		return h.style.num.Render(strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		return h.style.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		if v.Bool() {
			return h.style.yes.Render("true")
		}

		return h.style.no.Render("false")
	case slog.KindDuration:
		s := v.Duration().String()
		if quote {
			s = strconv.Quote(s)
		}

		return h.style.dur.Render(s)
	case slog.KindTime:
		s := v.Time().Format(time.RFC3339Nano)
		if quote {
			s = strconv.Quote(s)
		}

		return h.style.when.Render(s)
	}

	switch x := v.Any().(type) {
	case nil:
		return h.style.null.Render("null")
	case error:
		s := x.Error()
		if quote {
			s = strconv.Quote(s)
		}

		return h.style.no.Render(s)
	case fmt.Stringer:
		return str(x.String())
	default:
		return str(fmt.Sprint(x))
	}
}
