package weight

import (
	"sort"
	"time"
)

// Ledger is an in-memory view over weight samples, keyed by participant
// and ordered by date. It enforces the one-sample-per-day invariant on
// Upsert and answers the latest/on-date queries the progress and series
// calculations need. Persistence is the caller's concern; a Ledger is
// built from whatever the store materialized.
type Ledger struct {
	byParticipant map[int64][]Sample // ascending by Date, unique dates
}

// NewLedger builds a ledger from a sample collection. Input order carries
// no meaning except that a later sample for the same (participant, date)
// pair overwrites an earlier one.
func NewLedger(samples []Sample) *Ledger {
	l := &Ledger{byParticipant: make(map[int64][]Sample)}
	for _, s := range samples {
		l.Upsert(s)
	}
	return l
}

// Upsert inserts the sample or overwrites the existing sample on the same
// civil date for the same participant.
// PRE: s has a participant ID, date, and positive weight
// POST: Exactly one sample exists for (s.ParticipantID, date of s.Date)
func (l *Ledger) Upsert(s Sample) {
	s.Date = DateOf(s.Date)
	list := l.byParticipant[s.ParticipantID]
	i := sort.Search(len(list), func(i int) bool { return !list[i].Date.Before(s.Date) })
	if i < len(list) && list[i].Date.Equal(s.Date) {
		list[i] = s
		l.byParticipant[s.ParticipantID] = list
		return
	}
	list = append(list, Sample{})
	copy(list[i+1:], list[i:])
	list[i] = s
	l.byParticipant[s.ParticipantID] = list
}

// RemoveAllFor deletes every sample for the participant. Called as the
// ledger half of a participant cascade delete.
func (l *Ledger) RemoveAllFor(participantID int64) {
	delete(l.byParticipant, participantID)
}

// Latest returns the sample with the maximum date for the participant,
// or false when the participant has no samples.
func (l *Ledger) Latest(participantID int64) (Sample, bool) {
	list := l.byParticipant[participantID]
	if len(list) == 0 {
		return Sample{}, false
	}
	return list[len(list)-1], true
}

// OnDate returns the sample recorded exactly on the given civil date.
// There is no interpolation; a missing day is simply absent.
func (l *Ledger) OnDate(participantID int64, date time.Time) (Sample, bool) {
	date = DateOf(date)
	list := l.byParticipant[participantID]
	i := sort.Search(len(list), func(i int) bool { return !list[i].Date.Before(date) })
	if i < len(list) && list[i].Date.Equal(date) {
		return list[i], true
	}
	return Sample{}, false
}

// LatestOnOrBefore returns the most recent sample dated on or before the
// given civil date. This is the carry-forward lookup the chart series use:
// "the latest known weight as of that day", not the globally latest.
func (l *Ledger) LatestOnOrBefore(participantID int64, date time.Time) (Sample, bool) {
	date = DateOf(date)
	list := l.byParticipant[participantID]
	i := sort.Search(len(list), func(i int) bool { return list[i].Date.After(date) })
	if i == 0 {
		return Sample{}, false
	}
	return list[i-1], true
}

// SamplesFor returns the participant's samples in ascending date order.
// The returned slice is a copy; mutating it does not affect the ledger.
func (l *Ledger) SamplesFor(participantID int64) []Sample {
	list := l.byParticipant[participantID]
	out := make([]Sample, len(list))
	copy(out, list)
	return out
}

// Count returns the total number of samples in the ledger.
func (l *Ledger) Count() int {
	n := 0
	for _, list := range l.byParticipant {
		n += len(list)
	}
	return n
}
