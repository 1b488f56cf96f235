package game

// FallbackReason says why the engine replaced a provider's decision.
type FallbackReason string

const (
	NoFallback      FallbackReason = ""
	FallbackTimeout FallbackReason = "timeout"
	FallbackError   FallbackReason = "error"
)

// ActionRecord is a single applied decision.
type ActionRecord struct {
	Round         int
	Street        Street
	PlayerID      int
	Player        string
	Requested     Action
	RequestAmount int
	Action        Action
	Paid          int // Chips moved from stack to pot by this action
	BetTo         int // Street contribution after the action
	ToCall        int
	Fallback      FallbackReason
	Corrected     bool // The provider's request was illegal and was normalised
}

// Failures counts provider fallbacks and corrections for one player.
type Failures struct {
	Timeouts    int
	Errors      int
	Corrections int
}

// ActionLog collects every decision made during a tournament. It is owned by
// a single tournament and is not safe for concurrent use.
type ActionLog struct {
	records  []ActionRecord
	failures map[int]*Failures
}

// NewActionLog creates an empty log.
func NewActionLog() *ActionLog {
	return &ActionLog{failures: make(map[int]*Failures)}
}

// Record appends r and updates the failure counters.
func (l *ActionLog) Record(r ActionRecord) {
	l.records = append(l.records, r)

	if r.Fallback == NoFallback && !r.Corrected {
		return
	}
	f := l.failures[r.PlayerID]
	if f == nil {
		f = &Failures{}
		l.failures[r.PlayerID] = f
	}
	switch {
	case r.Fallback == FallbackTimeout:
		f.Timeouts++
	case r.Fallback == FallbackError:
		f.Errors++
	case r.Corrected:
		f.Corrections++
	}
}

// Len returns the number of records.
func (l *ActionLog) Len() int {
	return len(l.records)
}

// Records returns a copy of all records.
func (l *ActionLog) Records() []ActionRecord {
	return append([]ActionRecord(nil), l.records...)
}

// Since returns a copy of the records from index i onwards.
func (l *ActionLog) Since(i int) []ActionRecord {
	if i >= len(l.records) {
		return nil
	}
	return append([]ActionRecord(nil), l.records[i:]...)
}

// Failures returns a copy of the failure counters keyed by player ID.
func (l *ActionLog) Failures() map[int]Failures {
	out := make(map[int]Failures, len(l.failures))
	for id, f := range l.failures {
		out[id] = *f
	}
	return out
}
