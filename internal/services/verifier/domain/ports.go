package domain

import (
	"context"
	"time"
)

// ServicePort is what the http layer and other modules call
type ServicePort interface {
	Verify(ctx context.Context, in VerifyRequest) (VerifyResponse, error)
	VerifyBatch(ctx context.Context, in BatchRequest) (BatchResponse, error)
	Sample(ctx context.Context) (SampleResponse, error)
	Spoiled(ctx context.Context, ballotHash string) (SpoiledResponse, error)
}

// SpoiledRecord is one row of the spoiled-ballot ledger
type SpoiledRecord struct {
	BallotHash string
	ElectionID string
	FirstSeen  time.Time
	LastSeen   time.Time
	AuditCount int
}

// Ledger remembers every ballot hash whose choices were revealed
type Ledger interface {
	// Record upserts hash, bumping the audit count when it is already known
	Record(ctx context.Context, ballotHash, electionID string, at time.Time) error
	// Lookup returns ok=false when hash was never recorded
	Lookup(ctx context.Context, ballotHash string) (rec SpoiledRecord, ok bool, err error)
}

// Event is one verification written to the analytics sink
type Event struct {
	EventID     string
	At          time.Time
	ElectionID  string
	BallotHash  string
	Kind        string
	IDMatches   bool
	Signature   string
	Contests    int
	Diagnostics int
}

// EventSink receives verification events
type EventSink interface {
	Emit(ctx context.Context, evs ...Event) error
}
