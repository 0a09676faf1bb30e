package repo

import (
	"context"
	"sync"
	"time"

	"ballotaudit/internal/services/verifier/domain"
)

// Memory is a process-local ledger for single-node deployments and tests
type Memory struct {
	mu   sync.RWMutex
	rows map[string]domain.SpoiledRecord
}

var _ domain.Ledger = (*Memory)(nil)

// NewMemory returns an empty ledger
func NewMemory() *Memory {
	return &Memory{rows: make(map[string]domain.SpoiledRecord)}
}

// Record implements domain.Ledger
func (m *Memory) Record(ctx context.Context, ballotHash, electionID string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	at = at.UTC()

	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.rows[ballotHash]
	if !ok {
		m.rows[ballotHash] = domain.SpoiledRecord{
			BallotHash: ballotHash,
			ElectionID: electionID,
			FirstSeen:  at,
			LastSeen:   at,
			AuditCount: 1,
		}
		return nil
	}
	if at.After(rec.LastSeen) {
		rec.LastSeen = at
	}
	rec.AuditCount++
	m.rows[ballotHash] = rec
	return nil
}

// Lookup implements domain.Ledger
func (m *Memory) Lookup(ctx context.Context, ballotHash string) (domain.SpoiledRecord, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.SpoiledRecord{}, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.rows[ballotHash]
	return rec, ok, nil
}
