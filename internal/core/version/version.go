// Package version reports the build stamped into a binary
package version

// BuildInfo identifies one build of one binary
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build stamp for service.
//
//	go build -ldflags "-X ballotaudit/internal/core/version.version=v0.3.0 \
//	  -X ballotaudit/internal/core/version.commit=abcd -X ballotaudit/internal/core/version.date=2026-10-01"
func Info(service string) BuildInfo {
	return BuildInfo{
		Service: service,
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

// String renders the stamp for -version output
func (b BuildInfo) String() string {
	return b.Service + " " + b.Version + " (" + b.Commit + ", " + b.Date + ")"
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
