package poller

import "github.com/clf-downloader/clf/internal/types"

// RenderSink is the view the poller drives: a container holding a list of
// progress widgets. Every render pass is Clear followed by one Append per
// entry, so implementations never have to merge.
type RenderSink interface {
	// Clear empties the rendered list.
	Clear()
	// Append renders one labelled progress widget.
	Append(entry types.Entry)
	// Show reveals the container.
	Show()
	// Hide hides the container.
	Hide()
	// Visible reports whether the container is currently shown.
	Visible() bool
}

// Flusher is implemented by sinks that batch a render pass and want to know
// when the last entry has been appended.
type Flusher interface {
	Flush()
}
