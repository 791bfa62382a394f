package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/ardnew/labelfmt/cli/cmd"
	"github.com/ardnew/labelfmt/log"
)

type exitCode int

type result struct {
	out, err string
	code     int
	exited   bool
	runErr   error
}

func run(t *testing.T, args ...string) (res result) {
	t.Helper()

	prev := log.Default()
	t.Cleanup(func() { log.SetDefault(prev) })

	var out, errOut bytes.Buffer

	streams := &cmd.Streams{In: strings.NewReader(""), Out: &out, Err: &errOut}

	defer func() {
		res.out, res.err = out.String(), errOut.String()

		if r := recover(); r != nil {
			code, ok := r.(exitCode)
			if !ok {
				panic(r)
			}

			res.code, res.exited = int(code), true
		}
	}()

	res.runErr = Run(context.Background(), streams, func(code int) { panic(exitCode(code)) }, args...)

	return res
}

func TestRun_DefaultRender(t *testing.T) {
	res := run(t, "NAME=Oslo", "-e", "[NAME]!", "--output", "plain")
	if res.runErr != nil {
		t.Fatalf("Run() error = %v", res.runErr)
	}

	if res.out != "Oslo!\n" {
		t.Errorf("output = %q, want %q", res.out, "Oslo!\n")
	}
}

func TestRun_Parse(t *testing.T) {
	res := run(t, "parse", "-e", "[ A ] b")
	if res.runErr != nil {
		t.Fatalf("Run() error = %v", res.runErr)
	}

	if res.out != "[A] b\n" {
		t.Errorf("output = %q, want %q", res.out, "[A] b\n")
	}
}

func TestRun_ParseError(t *testing.T) {
	res := run(t, "parse", "-e", "[A")
	if res.runErr == nil {
		t.Fatal("Run() error = nil, want parse error")
	}

	if res.err == "" {
		t.Error("no parse context on stderr")
	}
}

func TestRun_Set(t *testing.T) {
	res := run(t, "inspect", "--set", "text_size=[RANK * 2]", "--get", "text_size")
	if res.runErr != nil {
		t.Fatalf("Run() error = %v", res.runErr)
	}

	if want := "text_size: [RANK * 2]\n"; res.out != want {
		t.Errorf("output = %q, want %q", res.out, want)
	}
}

func TestRun_Version(t *testing.T) {
	res := run(t, "--version")
	if !res.exited || res.code != 0 {
		t.Fatalf("exited = %v, code = %d, want exit 0", res.exited, res.code)
	}

	if strings.TrimSpace(res.out) == "" {
		t.Error("version not printed")
	}
}

func TestRun_Help(t *testing.T) {
	res := run(t, "--help")
	if !res.exited || res.code != 0 {
		t.Fatalf("exited = %v, code = %d, want exit 0", res.exited, res.code)
	}

	for _, name := range []string{"parse", "render", "inspect", "preview", "--log-level"} {
		if !strings.Contains(res.out, name) {
			t.Errorf("help missing %q", name)
		}
	}
}

func TestRun_LogFlags(t *testing.T) {
	res := run(t, "--log-level", "debug", "--log-format", "json", "--no-log-pretty", "parse", "-e", "[A]")
	if res.runErr != nil {
		t.Fatalf("Run() error = %v", res.runErr)
	}

	if !strings.Contains(res.err, `"msg":"logger initialized"`) {
		t.Errorf("stderr missing debug JSON record:\n%s", res.err)
	}
}

func TestRun_InvalidLevel(t *testing.T) {
	res := run(t, "--log-level", "loud", "parse", "-e", "[A]")
	if !res.exited && res.runErr == nil {
		t.Error("invalid --log-level accepted")
	}
}

func TestLogConfig_Scan(t *testing.T) {
	prev := log.Default()
	t.Cleanup(func() { log.SetDefault(prev) })

	var c logConfig

	c.scan([]string{"render", "--log-level=debug", "--log-format", "json", "--log-caller", "--no-log-pretty", "--", "--log-level=error"})

	if c.Level != "debug" || c.Format != "json" || !c.Caller || c.Pretty {
		t.Errorf("scan() = %+v", c)
	}

	if got := log.Default().Level(); got != log.LevelDebug {
		t.Errorf("default level = %v, want debug", got)
	}
}

func TestFlagValue(t *testing.T) {
	tests := []struct {
		name, value string
		assigned    bool
		want        bool
	}{
		{"--log-pretty", "", false, true},
		{"--no-log-pretty", "", false, false},
		{"--log-pretty", "false", true, false},
		{"--no-log-pretty", "false", true, true},
		{"--log-caller", "bogus", true, true},
	}

	for _, tt := range tests {
		if got := flagValue(tt.name, tt.value, tt.assigned); got != tt.want {
			t.Errorf("flagValue(%q, %q, %v) = %v, want %v", tt.name, tt.value, tt.assigned, got, tt.want)
		}
	}
}
