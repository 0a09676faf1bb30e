// Package repo persists what the verifier learns: the spoiled-ballot ledger
// in postgres or memory, and verification events in clickhouse
package repo

import (
	"context"
	"errors"
	"time"

	"ballotaudit/internal/modkit/repokit"
	perr "ballotaudit/internal/platform/errors"
	"ballotaudit/internal/platform/store"
	"ballotaudit/internal/services/verifier/domain"
)

// LedgerSchema creates the ledger table; safe to run on every start
const LedgerSchema = `
CREATE TABLE IF NOT EXISTS spoiled_ballots (
	ballot_hash  text        PRIMARY KEY,
	election_id  text        NOT NULL,
	first_seen   timestamptz NOT NULL,
	last_seen    timestamptz NOT NULL,
	audit_count  integer     NOT NULL DEFAULT 1
)`

type (
	// PG is the postgres ledger
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder for the postgres ledger
func NewPG() repokit.Binder[domain.Ledger] { return PG{} }

// Bind attaches a Queryer to the postgres ledger
func (PG) Bind(q repokit.Queryer) domain.Ledger { return &queries{q: q} }

// EnsureLedger applies LedgerSchema
func EnsureLedger(ctx context.Context, q repokit.Queryer) error {
	_, err := q.Exec(ctx, LedgerSchema)
	return perr.FromPG(err, "create spoiled_ballots")
}

func (r *queries) Record(ctx context.Context, ballotHash, electionID string, at time.Time) error {
	const sql = `
		INSERT INTO spoiled_ballots (ballot_hash, election_id, first_seen, last_seen, audit_count)
		VALUES ($1, $2, $3, $3, 1)
		ON CONFLICT (ballot_hash) DO UPDATE
		SET last_seen   = GREATEST(spoiled_ballots.last_seen, EXCLUDED.last_seen),
		    audit_count = spoiled_ballots.audit_count + 1
	`
	return perr.FromPG(store.ExecOne(ctx, r.q, sql, ballotHash, electionID, at.UTC()), "record spoiled ballot")
}

func (r *queries) Lookup(ctx context.Context, ballotHash string) (domain.SpoiledRecord, bool, error) {
	const sql = `
		SELECT ballot_hash, election_id, first_seen, last_seen, audit_count
		FROM spoiled_ballots
		WHERE ballot_hash = $1
	`
	rec, err := store.One(ctx, r.q, scanRecord, sql, ballotHash)
	if errors.Is(err, perr.ErrNotFound) {
		return domain.SpoiledRecord{}, false, nil
	}
	if err != nil {
		return domain.SpoiledRecord{}, false, perr.FromPG(err, "look up spoiled ballot")
	}
	return rec, true, nil
}

func scanRecord(row store.Row) (domain.SpoiledRecord, error) {
	var rec domain.SpoiledRecord
	err := row.Scan(&rec.BallotHash, &rec.ElectionID, &rec.FirstSeen, &rec.LastSeen, &rec.AuditCount)
	return rec, err
}
