package utils

import (
	"errors"
	"testing"

	"github.com/clf-downloader/clf/internal/types"
)

func TestParseDownloadLink(t *testing.T) {
	tests := []struct {
		name     string
		link     string
		expected types.TriggerRequest
		wantErr  bool
	}{
		{
			name:     "Series and comic",
			link:     "5/7",
			expected: types.TriggerRequest{SeriesID: "5", ComicID: "7"},
		},
		{
			name:     "Whole series",
			link:     "5",
			expected: types.TriggerRequest{SeriesID: "5"},
		},
		{
			name:     "Service qualified",
			link:     "darkhorse/5/7",
			expected: types.TriggerRequest{Service: "darkhorse", SeriesID: "5", ComicID: "7"},
		},
		{
			name:     "Server path",
			link:     "/download/5/7",
			expected: types.TriggerRequest{SeriesID: "5", ComicID: "7"},
		},
		{
			name:     "Full URL",
			link:     "http://localhost:5000/download/comixology/12/345",
			expected: types.TriggerRequest{Service: "comixology", SeriesID: "12", ComicID: "345"},
		},
		{
			name:     "Full URL with query and trailing slash",
			link:     "https://clf.example.com/download/5/7/?nocache=1",
			expected: types.TriggerRequest{SeriesID: "5", ComicID: "7"},
		},
		{
			name:     "Surrounding whitespace",
			link:     "  5/7\n",
			expected: types.TriggerRequest{SeriesID: "5", ComicID: "7"},
		},
		{
			name:     "Escaped segment",
			link:     "/download/a%20b/7",
			expected: types.TriggerRequest{SeriesID: "a b", ComicID: "7"},
		},
		{
			name:    "Empty",
			link:    "   ",
			wantErr: true,
		},
		{
			name:    "Bare route",
			link:    "/download/",
			wantErr: true,
		},
		{
			name:    "Too many segments",
			link:    "a/b/c/d",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDownloadLink(tt.link)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDownloadLink(%q) expected error, got %+v", tt.link, got)
				}
				if !errors.Is(err, types.ErrInvalidTrigger) {
					t.Errorf("expected ErrInvalidTrigger, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDownloadLink(%q) unexpected error: %v", tt.link, err)
			}
			if got != tt.expected {
				t.Errorf("ParseDownloadLink(%q) = %+v, want %+v", tt.link, got, tt.expected)
			}
		})
	}
}
