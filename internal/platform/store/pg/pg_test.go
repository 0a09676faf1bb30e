package pg

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"ballotaudit/internal/platform/testkit"
)

const testURL = "postgres://u:p@h:5432/ledger?sslmode=disable"

func TestPoolConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		conns   int32
		params  map[string]string
		wantErr bool
	}{
		{name: "bad url", cfg: Config{URL: "://bad"}, wantErr: true},
		{
			name:   "url only",
			cfg:    Config{URL: testURL + "&pool_max_conns=3"},
			conns:  3,
			params: map[string]string{"application_name": "", "statement_timeout": ""},
		},
		{
			name:  "overrides",
			cfg:   Config{URL: testURL + "&pool_max_conns=3", MaxConns: 7, AppName: "ballotaudit-api", StatementTimeout: 2 * time.Second},
			conns: 7,
			params: map[string]string{
				"application_name":  "ballotaudit-api",
				"statement_timeout": "2000",
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pc, err := poolConfig(tc.cfg)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected parse error")
				}
				return
			}
			if err != nil {
				t.Fatalf("poolConfig: %v", err)
			}
			if pc.MaxConns != tc.conns {
				t.Fatalf("MaxConns = %d, want %d", pc.MaxConns, tc.conns)
			}
			for k, want := range tc.params {
				if got := pc.ConnConfig.RuntimeParams[k]; got != want {
					t.Fatalf("%s = %q, want %q", k, got, want)
				}
			}
		})
	}
}

func TestOpen_NewPoolError(t *testing.T) {
	testkit.Serial(t)
	testkit.Swap(t, &newPool, func(context.Context, *pgxpool.Config) (*pgxpool.Pool, error) {
		return nil, errors.New("boom")
	})

	if _, err := Open(context.Background(), Config{URL: testURL}, nil); err == nil {
		t.Fatal("expected newPool error")
	}
}

func TestOpen_KeepsSlowThreshold(t *testing.T) {
	testkit.Serial(t)
	testkit.Swap(t, &newPool, func(context.Context, *pgxpool.Config) (*pgxpool.Pool, error) {
		return &pgxpool.Pool{}, nil // zero pool; never closed
	})

	p, err := Open(context.Background(), Config{URL: testURL, Slow: 50 * time.Millisecond}, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if p.Slow != 50*time.Millisecond || p.Pool == nil {
		t.Fatalf("unexpected client %+v", p)
	}
}

func TestClose_NilSafe(t *testing.T) {
	t.Parallel()

	var p *PG
	p.Close()
	(&PG{}).Close()
}
