package types

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// WidgetPrefix prefixes the identifier of every rendered progress widget.
const WidgetPrefix = "download-"

// ErrInvalidTrigger is returned when a trigger request cannot be turned into a server path.
var ErrInvalidTrigger = errors.New("invalid download trigger")

// Entry is a single download as reported by the server's progress listing
type Entry struct {
	ID       string  `json:"-"`        // Key of the entry in the /downloads object
	Title    string  `json:"title"`    // Display title, e.g. "Batman #12"
	Progress float64 `json:"progress"` // Percentage 0-100
}

// WidgetID returns the identifier of the progress widget rendered for this entry.
func (e Entry) WidgetID() string {
	return WidgetPrefix + e.ID
}

// Fraction returns the progress as a value in [0, 1].
func (e Entry) Fraction() float64 {
	f := e.Progress / 100
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// Done reports whether the server considers the entry fully processed.
func (e Entry) Done() bool {
	return e.Progress >= 100
}

// TriggerRequest asks the server to start downloading a comic (or a whole series
// when ComicID is empty).
type TriggerRequest struct {
	Service  string `json:"service,omitempty"` // Optional service name, e.g. "comixology"
	SeriesID string `json:"series_id"`
	ComicID  string `json:"comic_id,omitempty"`
}

// Validate checks that the request names at least a series.
func (r TriggerRequest) Validate() error {
	if strings.TrimSpace(r.SeriesID) == "" {
		return fmt.Errorf("%w: missing series id", ErrInvalidTrigger)
	}
	if strings.Contains(r.SeriesID, "/") || strings.Contains(r.ComicID, "/") || strings.Contains(r.Service, "/") {
		return fmt.Errorf("%w: identifiers must not contain '/'", ErrInvalidTrigger)
	}
	return nil
}

// Path returns the server path that starts the download.
//
//	/download/{series}
//	/download/{series}/{comic}
//	/download/{service}/{series}
//	/download/{service}/{series}/{comic}
func (r TriggerRequest) Path() (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}

	segments := []string{"download"}
	if r.Service != "" {
		segments = append(segments, url.PathEscape(r.Service))
	}
	segments = append(segments, url.PathEscape(r.SeriesID))
	if r.ComicID != "" {
		segments = append(segments, url.PathEscape(r.ComicID))
	}
	return "/" + strings.Join(segments, "/"), nil
}

func (r TriggerRequest) String() string {
	var b strings.Builder
	if r.Service != "" {
		b.WriteString(r.Service)
		b.WriteString(":")
	}
	b.WriteString("series ")
	b.WriteString(r.SeriesID)
	if r.ComicID != "" {
		b.WriteString(" comic ")
		b.WriteString(r.ComicID)
	}
	return b.String()
}
