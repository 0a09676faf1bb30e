package ch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"ballotaudit/internal/core/version"
	"ballotaudit/internal/platform/testkit"
)

type fakeBatch struct {
	driver.Batch
	rows    [][]any
	sent    bool
	aborted bool
	failAt  int
}

func (b *fakeBatch) Append(v ...any) error {
	if b.failAt > 0 && len(b.rows)+1 == b.failAt {
		return errors.New("bad column")
	}
	b.rows = append(b.rows, v)
	return nil
}

func (b *fakeBatch) Send() error  { b.sent = true; return nil }
func (b *fakeBatch) Abort() error { b.aborted = true; return nil }

type fakeConn struct {
	driver.Conn
	query  string
	batch  *fakeBatch
	closed bool
}

func (c *fakeConn) PrepareBatch(_ context.Context, q string, _ ...driver.PrepareBatchOption) (driver.Batch, error) {
	c.query = q
	return c.batch, nil
}

func (c *fakeConn) Exec(_ context.Context, q string, _ ...any) error {
	c.query = q
	return nil
}

func (c *fakeConn) Ping(context.Context) error { return nil }
func (c *fakeConn) Close() error               { c.closed = true; return nil }

func TestOpen(t *testing.T) {
	testkit.Serial(t)

	var got *clickhouse.Options
	testkit.Swap(t, &openConn, func(o *clickhouse.Options) (driver.Conn, error) {
		got = o
		return &fakeConn{}, nil
	})

	c, err := Open(context.Background(), Config{
		URL:         "clickhouse://default:@localhost:9000/audit",
		Build:       version.BuildInfo{Service: "ballotaudit-api", Version: "v1.2.3", Commit: "abc1234"},
		DialTimeout: 3 * time.Second,
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got.Auth.Database != "audit" || got.DialTimeout != 3*time.Second {
		t.Fatalf("options = %+v", got)
	}
	if len(got.ClientInfo.Products) < 2 || got.ClientInfo.Products[0].Name != "ballotaudit-api" || got.ClientInfo.Products[0].Version != "v1.2.3" {
		t.Fatalf("client info = %+v", got.ClientInfo)
	}
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestOpen_Errors(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), Config{}); err == nil {
		t.Fatalf("expected error for empty url")
	}
	if _, err := Open(context.Background(), Config{URL: "://nope"}); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestInsert(t *testing.T) {
	t.Parallel()

	b := &fakeBatch{}
	conn := &fakeConn{batch: b}
	c := &CH{conn: conn}

	if err := c.Insert(context.Background(), "verification_events", nil); err != nil {
		t.Fatalf("empty insert: %v", err)
	}
	if conn.query != "" {
		t.Fatalf("empty insert prepared a batch")
	}

	rows := [][]any{{"a", uint8(1)}, {"b", uint8(2)}}
	if err := c.Insert(context.Background(), "verification_events", rows); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if conn.query != "INSERT INTO verification_events" || !b.sent || len(b.rows) != 2 {
		t.Fatalf("query=%q sent=%v rows=%d", conn.query, b.sent, len(b.rows))
	}
}

func TestExec(t *testing.T) {
	t.Parallel()

	conn := &fakeConn{}
	c := &CH{conn: conn}
	if err := c.Exec(context.Background(), "CREATE TABLE t (a UInt8) ENGINE = Memory"); err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if conn.query == "" {
		t.Fatalf("statement not forwarded")
	}
}

func TestInsert_AppendFailureAborts(t *testing.T) {
	t.Parallel()

	b := &fakeBatch{failAt: 2}
	c := &CH{conn: &fakeConn{batch: b}}

	err := c.Insert(context.Background(), "t", [][]any{{1}, {2}})
	if err == nil || !b.aborted || b.sent {
		t.Fatalf("err=%v aborted=%v sent=%v", err, b.aborted, b.sent)
	}
}

func TestClientInfo(t *testing.T) {
	t.Parallel()

	ci := clientInfo(version.BuildInfo{Service: "ballotaudit-verify", Version: "dev", Commit: "none"})
	if ci.Products[0].Name != "ballotaudit-verify" || ci.Products[0].Version != "dev" {
		t.Fatalf("products = %+v", ci.Products)
	}
	for _, p := range ci.Products {
		if p.Name == "commit" {
			t.Fatalf("unstamped commit reported: %+v", ci.Products)
		}
	}
}
