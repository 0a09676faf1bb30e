package store

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	perr "ballotaudit/internal/platform/errors"
	"ballotaudit/internal/platform/store/pg"
)

// sliceRows serves fixed rows of one string column
type sliceRows struct {
	vals []string
	i    int
	err  error
}

func (r *sliceRows) Next() bool {
	if r.i >= len(r.vals) {
		return false
	}
	r.i++
	return true
}

func (r *sliceRows) Scan(dest ...any) error {
	*(dest[0].(*string)) = r.vals[r.i-1]
	return nil
}

func (r *sliceRows) Err() error { return r.err }
func (r *sliceRows) Close()     {}

type fakeQuerier struct {
	RowQuerier
	affected int64
	vals     []string
	err      error
}

func (f fakeQuerier) Exec(context.Context, string, ...any) (CommandTag, error) {
	return tag{pgconn.NewCommandTag("UPDATE " + strconv.FormatInt(f.affected, 10))}, nil
}

func (f fakeQuerier) Query(context.Context, string, ...any) (Rows, error) {
	return &sliceRows{vals: f.vals, err: f.err}, nil
}

func scanString(r Row) (string, error) {
	var s string
	err := r.Scan(&s)
	return s, err
}

func TestExecOne(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if err := ExecOne(ctx, fakeQuerier{affected: 1}, "UPDATE t"); err != nil {
		t.Fatalf("ExecOne(1): %v", err)
	}
	for _, n := range []int64{0, 2, 10} {
		if err := ExecOne(ctx, fakeQuerier{affected: n}, "UPDATE t"); err == nil {
			t.Fatalf("ExecOne(%d) should fail", n)
		}
	}
}

func TestOne(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	boom := errors.New("conn reset")
	tests := []struct {
		name    string
		q       fakeQuerier
		want    string
		wantErr func(error) bool
	}{
		{"single", fakeQuerier{vals: []string{"x"}}, "x", nil},
		{"none", fakeQuerier{}, "", func(err error) bool { return perr.IsCode(err, perr.ErrorCodeNotFound) }},
		{"two", fakeQuerier{vals: []string{"a", "b"}}, "", func(err error) bool { return err != nil }},
		{"iteration error", fakeQuerier{err: boom}, "", func(err error) bool { return errors.Is(err, boom) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := One(ctx, tc.q, scanString, "SELECT v")
			if tc.wantErr == nil {
				if err != nil || got != tc.want {
					t.Fatalf("One = %q, %v", got, err)
				}
				return
			}
			if !tc.wantErr(err) {
				t.Fatalf("One err = %v", err)
			}
		})
	}
}

type recTracer struct{ evs []pg.QueryEvent }

func (r *recTracer) OnQuery(_ context.Context, ev pg.QueryEvent) { r.evs = append(r.evs, ev) }

type execOnly struct {
	pgxQuerier
	err error
}

func (e execOnly) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag("INSERT 0 1"), e.err
}

func TestTraced_EmitsArgCount(t *testing.T) {
	t.Parallel()

	rec := &recTracer{}
	boom := errors.New("boom")
	tq := traced{q: execOnly{err: boom}, tracer: rec}

	ct, err := tq.Exec(context.Background(), "INSERT INTO t VALUES ($1, $2)", "secret", 2)
	if !errors.Is(err, boom) || ct.RowsAffected() != 1 {
		t.Fatalf("Exec = %v, %v", ct, err)
	}
	if len(rec.evs) != 1 || rec.evs[0].NArgs != 2 || !errors.Is(rec.evs[0].Err, boom) || rec.evs[0].Slow {
		t.Fatalf("events = %+v", rec.evs)
	}

	untraced := traced{q: execOnly{}}
	if _, err := untraced.Exec(context.Background(), "SELECT 1"); err != nil {
		t.Fatalf("untraced Exec: %v", err)
	}
}
