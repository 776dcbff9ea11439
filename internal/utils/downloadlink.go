package utils

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/clf-downloader/clf/internal/types"
)

// ParseDownloadLink turns a user supplied link into a trigger request.
// Accepted forms:
//
//	5/7                              series 5, comic 7
//	5                                whole series 5
//	darkhorse/5/7                    service-qualified
//	/download/5/7                    server path
//	http://localhost:5000/download/darkhorse/5/7
func ParseDownloadLink(raw string) (types.TriggerRequest, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return types.TriggerRequest{}, fmt.Errorf("%w: empty link", types.ErrInvalidTrigger)
	}

	path := raw
	if strings.Contains(raw, "://") {
		parsed, err := url.Parse(raw)
		if err != nil {
			return types.TriggerRequest{}, fmt.Errorf("%w: %v", types.ErrInvalidTrigger, err)
		}
		path = parsed.Path
	}

	// Remove leading slash and the route prefix
	path = strings.Trim(path, "/")
	if path == "download" {
		path = ""
	}
	path = strings.TrimPrefix(path, "download/")

	var parts []string
	for _, p := range strings.Split(path, "/") {
		if p == "" {
			continue
		}
		unescaped, err := url.PathUnescape(p)
		if err != nil {
			return types.TriggerRequest{}, fmt.Errorf("%w: %v", types.ErrInvalidTrigger, err)
		}
		parts = append(parts, unescaped)
	}

	var req types.TriggerRequest
	switch len(parts) {
	case 1:
		req = types.TriggerRequest{SeriesID: parts[0]}
	case 2:
		req = types.TriggerRequest{SeriesID: parts[0], ComicID: parts[1]}
	case 3:
		req = types.TriggerRequest{Service: parts[0], SeriesID: parts[1], ComicID: parts[2]}
	default:
		return types.TriggerRequest{}, fmt.Errorf("%w: cannot parse %q", types.ErrInvalidTrigger, raw)
	}

	if err := req.Validate(); err != nil {
		return types.TriggerRequest{}, err
	}
	return req, nil
}
