package logging

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestFieldHelpers(t *testing.T) {
	t.Parallel()
	callErr := errors.New("fibonacci(): argument \"n\" must be non-negative")

	tests := []struct {
		name  string
		field Field
		key   string
		value any
	}{
		{"String", String("function", "add"), "function", "add"},
		{"Int", Int("args", 2), "args", 2},
		{"Int64", Int64("a", -9), "a", int64(-9)},
		{"Uint64", Uint64("term", 12200160415121876738), "term", uint64(12200160415121876738)},
		{"Float64", Float64("seconds", 0.25), "seconds", 0.25},
		{"Duration", Duration("elapsed", 1500*time.Microsecond), "elapsed", 1500 * time.Microsecond},
		{"Err", Err(callErr), "error", callErr},
		{"Err nil", Err(nil), "error", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.field.Key != tt.key || tt.field.Value != tt.value {
				t.Errorf("%s = %+v, want {%s %v}", tt.name, tt.field, tt.key, tt.value)
			}
		})
	}
}

// adapters builds each Logger implementation over its own buffer, both at
// debug level so every method produces output.
func adapters() map[string]func(*bytes.Buffer) Logger {
	return map[string]func(*bytes.Buffer) Logger{
		"zerolog": func(buf *bytes.Buffer) Logger {
			return NewZerologAdapter(zerolog.New(buf).Level(zerolog.DebugLevel).With().Str("component", "binding").Logger())
		},
		"std": func(buf *bytes.Buffer) Logger {
			return NewStdLoggerAdapter(log.New(buf, "", 0))
		},
	}
}

func TestLogger_Methods(t *testing.T) {
	t.Parallel()
	callErr := errors.New("OverflowError: add(): 9223372036854775807 + 1 does not fit")

	tests := []struct {
		name     string
		log      func(Logger)
		contains []string
	}{
		{
			name:     "Info with fields",
			log:      func(l Logger) { l.Info("server listening", String("addr", "127.0.0.1:8080"), String("module", "rust_python_demo")) },
			contains: []string{"server listening", "127.0.0.1:8080", "rust_python_demo"},
		},
		{
			name:     "Error carries the cause",
			log:      func(l Logger) { l.Error("module function failed", callErr, String("function", "add")) },
			contains: []string{"module function failed", "OverflowError", "add"},
		},
		{
			name:     "Error without a cause",
			log:      func(l Logger) { l.Error("failed to write response", nil) },
			contains: []string{"failed to write response"},
		},
		{
			name:     "Debug",
			log:      func(l Logger) { l.Debug("module function completed", String("function", "fibonacci"), Int("args", 1)) },
			contains: []string{"module function completed", "fibonacci", "1"},
		},
		{
			name:     "Printf",
			log:      func(l Logger) { l.Printf("script %s finished in %d ms", "fib.lua", 3) },
			contains: []string{"script fib.lua finished in 3 ms"},
		},
		{
			name:     "Println",
			log:      func(l Logger) { l.Println("lua", "session", "closed") },
			contains: []string{"lua", "session", "closed"},
		},
	}

	for adapterName, newLogger := range adapters() {
		for _, tt := range tests {
			t.Run(adapterName+"/"+tt.name, func(t *testing.T) {
				t.Parallel()
				var buf bytes.Buffer
				tt.log(newLogger(&buf))
				for _, want := range tt.contains {
					if !strings.Contains(buf.String(), want) {
						t.Errorf("output should contain %q, got: %s", want, buf.String())
					}
				}
			})
		}
	}
}

func TestStdLoggerAdapter_LevelPrefixes(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := NewStdLoggerAdapter(log.New(&buf, "", 0))
	l.Info("a")
	l.Error("b", errors.New("c"))
	l.Debug("d", Int("line", 42))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{"[INFO] a", "[ERROR] b", "[DEBUG] d"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines: %q", len(lines), lines)
	}
	for i, prefix := range want {
		if !strings.HasPrefix(lines[i], prefix) {
			t.Errorf("line %d = %q, want prefix %q", i, lines[i], prefix)
		}
	}
	if !strings.Contains(lines[2], "line=42") {
		t.Errorf("fields not rendered as key=value: %q", lines[2])
	}
}

func TestZerologAdapter_FieldTypes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		field    Field
		contains string
	}{
		{Int64("sum", 9223372036854775807), `"sum":9223372036854775807`},
		{Uint64("term", 18446744073709551615), `"term":18446744073709551615`},
		{Float64("ratio", 1.5), `"ratio":1.5`},
		{Err(errors.New("NameError: no function named \"sub\"")), `"error":"NameError`},
		{Field{Key: "extensions", Value: true}, `"extensions":true`},
		{Field{Key: "signature", Value: struct{ Name string }{"add"}}, `"Name":"add"`},
	}
	for _, tt := range tests {
		t.Run(tt.field.Key, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			NewLogger(&buf, "test").Info("call", tt.field)
			if !strings.Contains(buf.String(), tt.contains) {
				t.Errorf("output should contain %s, got: %s", tt.contains, buf.String())
			}
		})
	}
}

func TestNewLogger_Component(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	NewLogger(&buf, "luahost").Info("script started")
	if !strings.Contains(buf.String(), `"component":"luahost"`) {
		t.Errorf("component field missing: %s", buf.String())
	}
}

func TestConstructors(t *testing.T) {
	t.Parallel()
	if NewDefaultLogger() == nil {
		t.Fatal("NewDefaultLogger returned nil")
	}

	nop := NewNopLogger()
	// Must not panic or write anywhere.
	nop.Info("ignored")
	nop.Error("ignored", errors.New("x"))
	nop.Debug("ignored")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		want    zerolog.Level
		wantErr bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{"WARN", zerolog.WarnLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"verbose", zerolog.NoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseLevel(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

var (
	_ Logger = (*ZerologAdapter)(nil)
	_ Logger = (*StdLoggerAdapter)(nil)
)
