package messages

import (
	"time"

	"github.com/clf-downloader/clf/internal/types"
)

// SnapshotRenderedMsg carries one complete render pass: the widget list as it
// should now appear, in server order.
type SnapshotRenderedMsg struct {
	Entries []types.Entry
}

// VisibilityMsg shows or hides the downloads container.
type VisibilityMsg struct {
	Visible bool
}

// TriggerSentMsg is emitted after a download was requested from the UI.
type TriggerSentMsg struct {
	Request types.TriggerRequest
	At      time.Time
}

// RefreshFailedMsg reports a manual refresh that could not reach the server.
type RefreshFailedMsg struct {
	Err error
}

// SlideTickMsg advances the container slide animation.
type SlideTickMsg struct{}
