package history

import (
	"sort"
	"sync"
	"time"

	"github.com/clf-downloader/clf/internal/types"
)

type tracked struct {
	entry     types.Entry
	firstSeen time.Time
	lastSeen  time.Time
}

// Tracker notices downloads leaving the progress list. The server drops an
// entry once it completes or fails, so absence is the only completion signal.
type Tracker struct {
	mu     sync.Mutex
	active map[string]tracked
	now    func() time.Time
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		active: make(map[string]tracked),
		now:    time.Now,
	}
}

// Observe records snap and returns a record for every previously seen entry
// that is no longer present, in the order they were first seen.
func (t *Tracker) Observe(snap types.Snapshot) []Record {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	present := make(map[string]struct{}, snap.Len())
	for _, e := range snap.Entries {
		present[e.ID] = struct{}{}
		prev, ok := t.active[e.ID]
		if !ok {
			prev.firstSeen = now
		}
		prev.entry = e
		prev.lastSeen = now
		t.active[e.ID] = prev
	}

	var finished []Record
	for id, tr := range t.active {
		if _, ok := present[id]; ok {
			continue
		}
		delete(t.active, id)
		finished = append(finished, Record{
			DownloadID:   id,
			Title:        tr.entry.Title,
			LastProgress: tr.entry.Progress,
			Outcome:      outcomeFor(tr.entry),
			FirstSeen:    tr.firstSeen,
			FinishedAt:   now,
		})
	}

	sort.Slice(finished, func(i, j int) bool { return recordLess(finished[i], finished[j]) })
	return finished
}

// Active returns the number of downloads currently tracked.
func (t *Tracker) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.active)
}

func outcomeFor(e types.Entry) string {
	if e.Done() {
		return OutcomeCompleted
	}
	return OutcomeVanished
}

func recordLess(a, b Record) bool {
	if a.FirstSeen.Equal(b.FirstSeen) {
		return a.DownloadID < b.DownloadID
	}
	return a.FirstSeen.Before(b.FirstSeen)
}
