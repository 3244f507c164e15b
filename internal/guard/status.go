package guard

import (
	"fmt"
	"time"
)

// Status is derived on every run and never persisted.
type Status struct {
	Applied       bool // a current version is recorded
	VersionsMatch bool // current and target present and equal
	RecentlyOk    bool // last success within the freshness window
}

// Evaluate derives the status from the parsed config, the cache record and
// the current time.
func Evaluate(versions VersionPair, rec Record, now time.Time, freshness time.Duration) Status {
	return Status{
		Applied:       versions.Current != nil,
		VersionsMatch: versions.Match(),
		RecentlyOk:    recentlyOk(rec.LastSuccess, now, freshness),
	}
}

// recentlyOk is false without a timestamp. A timestamp in the future counts
// as zero elapsed time.
func recentlyOk(last *time.Time, now time.Time, freshness time.Duration) bool {
	if last == nil {
		return false
	}
	elapsed := now.Sub(*last)
	if elapsed < 0 {
		elapsed = 0
	}
	return elapsed < freshness
}

func (s Status) String() string {
	return fmt.Sprintf("applied=%t, versions_match=%t, recently_ok=%t", s.Applied, s.VersionsMatch, s.RecentlyOk)
}
