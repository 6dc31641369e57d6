package model

// MatchCandidate pairs an imported record with its suggested registry
// asset. Asset is nil when no candidate matched; a human resolves those
// before reconciliation. Duplicate is set when the asset already has a
// test on the record's calendar day.
type MatchCandidate struct {
	Asset     *Asset
	Record    TestRecord
	Duplicate bool
}

// SyncOutcome summarizes one reconciliation run.
type SyncOutcome struct {
	Errors  []string
	Synced  int
	Skipped int // Duplicate pairs excluded from the commit
}

// OK reports whether the run completed without errors.
func (o *SyncOutcome) OK() bool {
	return len(o.Errors) == 0
}
