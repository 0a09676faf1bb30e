package store

import (
	"context"
	"errors"
	"time"

	"ballotaudit/internal/platform/logger"
	"ballotaudit/internal/platform/store/ch"
)

// chClient is the part of *ch.CH the adapter needs
type chClient interface {
	Insert(ctx context.Context, table string, rows [][]any) error
	Exec(ctx context.Context, sql string, args ...any) error
	Ping(ctx context.Context) error
	Close() error
}

var _ chClient = (*ch.CH)(nil)

// eventsAdapter is the store.Clickhouse handed to the events sink. Inserts
// are timed so a slow events backend shows up next to slow pg queries
type eventsAdapter struct {
	inner chClient
	log   logger.Logger
	slow  time.Duration
}

var _ Clickhouse = (*eventsAdapter)(nil)

// SlowInsert marks event batches at or above it as warn
var SlowInsert = 250 * time.Millisecond

func newCHAdapter(c chClient, log logger.Logger) Clickhouse {
	return &eventsAdapter{inner: c, log: log, slow: SlowInsert}
}

func (a *eventsAdapter) Insert(ctx context.Context, table string, rows [][]any) error {
	start := time.Now()
	err := a.inner.Insert(ctx, table, rows)
	took := time.Since(start)
	if err != nil || took >= a.slow {
		evt := a.log.Warn()
		if err != nil {
			evt = evt.Err(err)
		}
		evt.Str("table", table).Int("rows", len(rows)).Dur("took", took).Msg("clickhouse insert")
	}
	return err
}

func (a *eventsAdapter) Exec(ctx context.Context, sql string, args ...any) error {
	return a.inner.Exec(ctx, sql, args...)
}

func (a *eventsAdapter) Close() error { return a.inner.Close() }

// Ping reports whether the events backend answers
func (a *eventsAdapter) Ping(ctx context.Context) error {
	if a == nil || a.inner == nil {
		return errors.New("store: nil clickhouse adapter")
	}
	return a.inner.Ping(ctx)
}
