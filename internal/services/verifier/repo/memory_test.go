package repo

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMemory_RecordAndLookup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory()
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if _, ok, err := m.Lookup(ctx, "h1"); ok || err != nil {
		t.Fatalf("empty lookup ok=%v err=%v", ok, err)
	}

	for i, at := range []time.Time{t0, t0.Add(time.Hour), t0.Add(-time.Hour)} {
		if err := m.Record(ctx, "h1", "e1", at); err != nil {
			t.Fatalf("Record #%d: %v", i, err)
		}
	}

	rec, ok, err := m.Lookup(ctx, "h1")
	if err != nil || !ok {
		t.Fatalf("Lookup ok=%v err=%v", ok, err)
	}
	if rec.AuditCount != 3 || rec.ElectionID != "e1" {
		t.Fatalf("rec = %+v", rec)
	}
	if !rec.FirstSeen.Equal(t0) || !rec.LastSeen.Equal(t0.Add(time.Hour)) {
		t.Fatalf("first=%v last=%v", rec.FirstSeen, rec.LastSeen)
	}
}

func TestMemory_Concurrent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Record(ctx, "h", "e", time.Now())
		}()
	}
	wg.Wait()

	rec, _, _ := m.Lookup(ctx, "h")
	if rec.AuditCount != 50 {
		t.Fatalf("AuditCount = %d", rec.AuditCount)
	}
}

func TestMemory_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := NewMemory()
	if err := m.Record(ctx, "h", "e", time.Now()); err == nil {
		t.Fatalf("Record on canceled ctx should fail")
	}
	if _, _, err := m.Lookup(ctx, "h"); err == nil {
		t.Fatalf("Lookup on canceled ctx should fail")
	}
}
