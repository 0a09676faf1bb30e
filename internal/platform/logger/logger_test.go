package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	kit "ballotaudit/internal/platform/testkit"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":        zerolog.TraceLevel,
		"DEBUG":        zerolog.DebugLevel,
		"info":         zerolog.InfoLevel,
		"warn":         zerolog.WarnLevel,
		"warning":      zerolog.WarnLevel,
		"error":        zerolog.ErrorLevel,
		"":             zerolog.InfoLevel,
		"  nonsense  ": zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestBuild(t *testing.T) {
	var buf bytes.Buffer
	l := build(Options{Level: "debug", Service: "ballotaudit-api", Component: "verify", Writer: &buf})
	l.Debug().Str("ballot_hash", "abc").Int("contests", 2).Msg("decoded")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("not json: %v (%s)", err, buf.String())
	}
	if line["service"] != "ballotaudit-api" || line["component"] != "verify" || line["message"] != "decoded" {
		t.Fatalf("line = %v", line)
	}
	if line["level"] != "debug" {
		t.Fatalf("level = %v", line["level"])
	}
}

func TestBuild_ConsoleAndLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := build(Options{Level: "warn", Format: "console", Writer: &buf})
	l.Info().Msg("dropped")
	l.Warn().Msg("kept")

	out := buf.String()
	kit.MustContain(t, out, "kept")
	if bytes.Contains(buf.Bytes(), []byte("dropped")) {
		t.Fatalf("info line passed a warn logger: %s", out)
	}
}

func TestInit_Named_C(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "info", Service: "ballotaudit-api", Writer: &buf})

	Named("verifier").Info().Msg("named-msg")
	C(WithRequest(context.Background(), "req-123")).Info().Msg("ctx-msg")
	C(context.Background()).Info().Msg("bare-msg")

	out := buf.String()
	if out == "" {
		t.Skip("root logger was built by an earlier test")
	}
	kit.MustContain(t, out, `"component":"verifier"`)
	kit.MustContain(t, out, `"request_id":"req-123"`)
	kit.MustContain(t, out, "bare-msg")
}

func TestFromEnv(t *testing.T) {
	kit.Env(t, "LOG_", map[string]string{
		"LEVEL":        "WARN",
		"FORMAT":       "console",
		"SERVICE":      "ballotaudit-verify",
		"COMPONENT":    "cli",
		"CALLER":       "true",
		"SAMPLE_EVERY": "5",
	})

	opt := FromEnv()
	if opt.Level != "warn" || opt.Format != "console" {
		t.Fatalf("level/format = %q/%q", opt.Level, opt.Format)
	}
	if opt.Service != "ballotaudit-verify" || opt.Component != "cli" || !opt.WithCaller || opt.SampleEvery != 5 {
		t.Fatalf("opt = %+v", opt)
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	kit.Env(t, "LOG_", map[string]string{"LEVEL": "", "FORMAT": "", "SAMPLE_EVERY": "-3", "CALLER": "maybe"})
	opt := FromEnv()
	if opt.Level != "info" || opt.Format != "json" || opt.SampleEvery != 0 || opt.WithCaller {
		t.Fatalf("defaults = %+v", opt)
	}
}

func TestWithRequest_EmptyID(t *testing.T) {
	ctx := context.Background()
	if WithRequest(ctx, "") != ctx {
		t.Fatal("empty id should leave ctx untouched")
	}
}
