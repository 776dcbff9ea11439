package tui

import "time"

const (
	// Container slide animation, like the web page's 500ms slide effect
	SlideDuration = 500 * time.Millisecond
	SlideFrame    = 25 * time.Millisecond

	// Input Dimensions
	InputWidth = 30

	// Layout Offsets and Padding
	HeaderWidthOffset      = 2
	ProgressBarWidthOffset = 4
	DefaultPaddingX        = 1
	DefaultPaddingY        = 0
	PopupPaddingY          = 1
	PopupPaddingX          = 3
	MinProgressBarWidth    = 10
	MaxProgressBarWidth    = 60
	TitleColumnWidth       = 32

	// Refresh requested from the keyboard
	ManualRefreshTimeout = 5 * time.Second
)
