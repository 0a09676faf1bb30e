package repo

import (
	"context"

	perr "ballotaudit/internal/platform/errors"
	"ballotaudit/internal/platform/logger"
	"ballotaudit/internal/platform/store"
	"ballotaudit/internal/services/verifier/domain"
)

// EventsTable is the clickhouse table verification events land in
const EventsTable = "verification_events"

// EventsSchema creates EventsTable
const EventsSchema = `
CREATE TABLE IF NOT EXISTS verification_events (
	event_id     UUID,
	ts           DateTime64(3, 'UTC'),
	election_id  LowCardinality(String),
	ballot_hash  String,
	kind         LowCardinality(String),
	id_matches   Bool,
	signature    LowCardinality(String),
	contests     UInt16,
	diagnostics  UInt32
)
ENGINE = MergeTree
ORDER BY (election_id, ts)`

// ClickhouseSink writes events to EventsTable
type ClickhouseSink struct {
	ch store.Clickhouse
}

var _ domain.EventSink = (*ClickhouseSink)(nil)

// NewClickhouseSink wraps ch
func NewClickhouseSink(ch store.Clickhouse) *ClickhouseSink {
	return &ClickhouseSink{ch: ch}
}

// Ensure applies EventsSchema
func (s *ClickhouseSink) Ensure(ctx context.Context) error {
	return perr.WrapIf(s.ch.Exec(ctx, EventsSchema), perr.ErrorCodeDB, "create "+EventsTable)
}

// Emit implements domain.EventSink as one batch insert
func (s *ClickhouseSink) Emit(ctx context.Context, evs ...domain.Event) error {
	if len(evs) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(evs))
	for _, e := range evs {
		rows = append(rows, []any{
			e.EventID,
			e.At.UTC(),
			e.ElectionID,
			e.BallotHash,
			e.Kind,
			e.IDMatches,
			e.Signature,
			uint16(e.Contests),
			uint32(e.Diagnostics),
		})
	}
	return s.ch.Insert(ctx, EventsTable, rows)
}

// LogSink writes events to the log when no clickhouse is configured
type LogSink struct {
	Log *logger.Logger
}

var _ domain.EventSink = LogSink{}

// Emit implements domain.EventSink
func (s LogSink) Emit(_ context.Context, evs ...domain.Event) error {
	log := s.Log
	if log == nil {
		log = logger.Named("events")
	}
	for _, e := range evs {
		log.Debug().
			Str("event_id", e.EventID).
			Str("election_id", e.ElectionID).
			Str("ballot_hash", e.BallotHash).
			Str("kind", e.Kind).
			Bool("id_matches", e.IDMatches).
			Str("signature", e.Signature).
			Int("contests", e.Contests).
			Int("diagnostics", e.Diagnostics).
			Msg("verification")
	}
	return nil
}
