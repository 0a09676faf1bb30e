package version

import "testing"

func TestInfo(t *testing.T) {
	got := Info("ballotaudit-verify")
	if got.Service != "ballotaudit-verify" || got.Version != "dev" {
		t.Fatalf("Info = %+v", got)
	}
	if s := got.String(); s != "ballotaudit-verify dev (none, unknown)" {
		t.Fatalf("String = %q", s)
	}
}
