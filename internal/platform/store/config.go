package store

import (
	"time"

	"ballotaudit/internal/platform/logger"
)

// Config selects and configures the optional backends. A backend that is
// not Enabled stays nil on the Store
type Config struct {
	// AppName becomes the pg application_name and the clickhouse client name
	AppName string

	PG PGConfig
	CH CHConfig
}

// PGConfig configures the ledger pool. Open pings with backoff before
// handing the pool out
type PGConfig struct {
	Enabled   bool
	URL       string
	MaxConns  int32
	LogSQL    bool
	SlowQuery time.Duration

	// StatementTimeout bounds every ledger statement server side
	StatementTimeout time.Duration

	ConnectRetries int           // default 6
	PingTimeout    time.Duration // default 5s
}

// CHConfig configures the verification events client
type CHConfig struct {
	Enabled     bool
	URL         string
	DialTimeout time.Duration
}

// Option customizes a Store during Open
type Option func(*Store) error

// WithLogger routes backend logs, such as pg ping retries and traced
// queries, through log
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}
