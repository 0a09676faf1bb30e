package pg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

func TestCompact(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"select 1":                            "select 1",
		"  select   1  ":                      "select 1",
		"SELECT\t*\nFROM\r\tt WHERE  a =  $1": "SELECT * FROM t WHERE a = $1",
		"":                                    "",
	}
	for in, want := range cases {
		if got := compact(in); got != want {
			t.Fatalf("compact(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTracer_Levels(t *testing.T) {
	t.Parallel()

	type line struct {
		Level     string  `json:"level"`
		ElapsedMS float64 `json:"elapsed_ms"`
		SQL       string  `json:"sql"`
		Args      int     `json:"args"`
		Error     string  `json:"error"`
		Component string  `json:"component"`
		SQLState  string  `json:"sqlstate"`
	}

	tests := []struct {
		name  string
		ev    QueryEvent
		level string
		state string
	}{
		{"fast", QueryEvent{SQL: "select 1", NArgs: 2, Elapsed: 1500 * time.Microsecond}, "debug", ""},
		{"slow", QueryEvent{SQL: "select 1", Elapsed: 900 * time.Millisecond, Slow: true}, "warn", ""},
		{"failed", QueryEvent{SQL: "select 1", Err: errors.New("boom")}, "warn", ""},
		{"pg error", QueryEvent{SQL: "insert", Err: &pgconn.PgError{Code: "40001"}}, "warn", "40001"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			Tracer(zerolog.New(&buf)).OnQuery(context.Background(), tc.ev)

			var got line
			if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &got); err != nil {
				t.Fatalf("unmarshal: %v\nraw=%s", err, buf.String())
			}
			if got.Level != tc.level || got.Component != "pg" || got.Args != tc.ev.NArgs {
				t.Fatalf("line = %+v", got)
			}
			if got.SQLState != tc.state {
				t.Fatalf("sqlstate = %q, want %q", got.SQLState, tc.state)
			}
			if got.ElapsedMS != float64(tc.ev.Elapsed.Microseconds())/1000 {
				t.Fatalf("elapsed_ms = %v", got.ElapsedMS)
			}
		})
	}
}
