package modkit

import (
	"ballotaudit/internal/modkit/repokit"
	"ballotaudit/internal/platform/config"
	"ballotaudit/internal/platform/logger"
	"ballotaudit/internal/platform/metrics"
	"ballotaudit/internal/platform/store"
)

// Deps holds core dependencies passed to modules. PG and CH are nil when
// the backing store is disabled
type Deps struct {
	Log     *logger.Logger
	Cfg     config.Conf
	PG      repokit.TxRunner
	CH      store.Clickhouse
	Metrics *metrics.Metrics
}

// Logger returns d.Log or a named root logger
func (d Deps) Logger(component string) *logger.Logger {
	if d.Log != nil {
		l := d.Log.With().Str("component", component).Logger()
		return &l
	}
	return logger.Named(component)
}
