package ch

import (
	"os"

	"ballotaudit/internal/core/version"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// clientInfo names this binary, its commit and host so verification
// inserts can be traced back in system.query_log
func clientInfo(b version.BuildInfo) clickhouse.ClientInfo {
	type product = struct{ Name, Version string }

	ps := []product{{Name: b.Service, Version: b.Version}}
	if b.Commit != "" && b.Commit != "none" {
		ps = append(ps, product{Name: "commit", Version: b.Commit})
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		ps = append(ps, product{Name: "host", Version: host})
	}
	return clickhouse.ClientInfo{Products: ps}
}
