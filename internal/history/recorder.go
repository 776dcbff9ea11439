package history

import (
	"context"
	"sync"
	"time"

	"github.com/clf-downloader/clf/internal/types"
	"github.com/clf-downloader/clf/internal/utils"
)

const (
	recorderBuffer = 64
	writeTimeout   = 5 * time.Second
)

// Recorder feeds poller snapshots through a Tracker into a Store. Writes
// happen on a background goroutine so Observe never waits for the disk.
type Recorder struct {
	tracker *Tracker
	store   *Store

	mu      sync.Mutex
	records chan Record
	closed  bool
	wg      sync.WaitGroup
}

// NewRecorder creates a recorder writing to store. Close must be called to
// flush pending records.
func NewRecorder(store *Store) *Recorder {
	r := &Recorder{
		tracker: NewTracker(),
		store:   store,
		records: make(chan Record, recorderBuffer),
	}
	r.wg.Add(1)
	go r.writer()
	return r
}

// Observe has the signature of the poller's OnSnapshot hook. Records that do
// not fit in the buffer are dropped.
func (r *Recorder) Observe(snap types.Snapshot) {
	finished := r.tracker.Observe(snap)
	if len(finished) == 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	for _, rec := range finished {
		select {
		case r.records <- rec:
		default:
			utils.Debug("history: buffer full, dropping %s %q", rec.DownloadID, rec.Title)
		}
	}
}

func (r *Recorder) writer() {
	defer r.wg.Done()
	for rec := range r.records {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := r.store.Add(ctx, &rec)
		cancel()
		if err != nil {
			utils.Debug("history: %v", err)
			continue
		}
		utils.Debug("history: %s %q (%s)", rec.DownloadID, rec.Title, rec.Outcome)
	}
}

// Close writes the pending records and stops the writer. It does not close
// the store.
func (r *Recorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.records)
	r.mu.Unlock()

	r.wg.Wait()
}
