package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestPackage_UsesDefaultLogger(t *testing.T) {
	original := Default()
	t.Cleanup(func() { SetDefault(original) })

	var buf bytes.Buffer

	SetDefault(plainJSON(&buf, WithLevel(LevelTrace)))

	tests := []struct {
		name  string
		fn    func(string, ...slog.Attr)
		level string
	}{
		{"Trace", Trace, "TRACE"},
		{"Debug", Debug, "DEBUG"},
		{"Info", Info, "INFO"},
		{"Warn", Warn, "WARN"},
		{"Error", Error, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn("message", slog.String("key", "value"))

			m := decode(t, buf.Bytes())
			if m["level"] != tt.level || m["key"] != "value" {
				t.Errorf("record = %v", m)
			}
		})
	}
}

func TestPackage_Config(t *testing.T) {
	original := Default()
	t.Cleanup(func() { SetDefault(original) })

	var buf bytes.Buffer

	SetDefault(plainJSON(&buf))
	Config(WithLevel(LevelError), WithCaller(true))

	Warn("dropped")

	if buf.Len() != 0 {
		t.Fatalf("warn written at error level: %s", buf.String())
	}

	Error("kept")

	m := decode(t, buf.Bytes())

	src, _ := m["source"].(map[string]any)
	if file, _ := src["file"].(string); !strings.HasSuffix(file, "default_test.go") {
		t.Errorf("source = %v, want default_test.go", m["source"])
	}
}
