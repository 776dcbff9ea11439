package core

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vfaronov/httpheader"
	"golang.org/x/sync/singleflight"

	"github.com/clf-downloader/clf/internal/types"
	"github.com/clf-downloader/clf/internal/utils"
)

// Version is reported in the User-Agent header; set by cmd at startup.
var Version = "dev"

// APIError is returned when the server answers with a 4xx/5xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("API error %d", e.StatusCode)
	}
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Body)
}

// RemoteService implements ProgressService against the clf web server.
type RemoteService struct {
	BaseURL   string
	UserAgent string // Extra product prepended to the default User-Agent
	Client    *http.Client

	group singleflight.Group
}

// NewRemoteService creates a client for the server at baseURL.
func NewRemoteService(baseURL string, timeout time.Duration) *RemoteService {
	return &RemoteService{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

func (s *RemoteService) userAgent(h http.Header) {
	products := []httpheader.Product{{Name: "clf", Version: Version}}
	if s.UserAgent != "" {
		products = append([]httpheader.Product{{Name: s.UserAgent}}, products...)
	}
	httpheader.SetUserAgent(h, products)
}

func (s *RemoteService) doRequest(ctx context.Context, method, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}

	s.userAgent(req.Header)
	req.Header.Set("Accept", "application/json")
	if id := RequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		defer func() { _ = resp.Body.Close() }()
		// Limit error body read to 1KB
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(bodyBytes))}
	}

	return resp, nil
}

// Downloads fetches the progress set. Concurrent callers share one request;
// the shared request is detached from the first caller's cancellation and is
// bounded by the client timeout instead.
func (s *RemoteService) Downloads(ctx context.Context) (types.Snapshot, error) {
	ch := s.group.DoChan("downloads", func() (interface{}, error) {
		return s.fetchDownloads(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return types.Snapshot{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return types.Snapshot{}, res.Err
		}
		return res.Val.(types.Snapshot), nil
	}
}

func (s *RemoteService) fetchDownloads(ctx context.Context) (types.Snapshot, error) {
	resp, err := s.doRequest(ctx, http.MethodGet, "/downloads")
	if err != nil {
		return types.Snapshot{}, fmt.Errorf("fetch downloads: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// The clf server labels its JSON as text/html, so a mismatch is only logged.
	if mtype, _ := httpheader.ContentType(resp.Header); mtype != "" && mtype != "application/json" {
		utils.Debug("downloads: unexpected content type %q (request %s)", mtype, RequestID(ctx))
	}

	var snap types.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return types.Snapshot{}, fmt.Errorf("fetch downloads: %w", err)
	}
	return snap, nil
}

// Trigger starts a download. The response body is drained and discarded.
func (s *RemoteService) Trigger(ctx context.Context, req types.TriggerRequest) error {
	path, err := req.Path()
	if err != nil {
		return err
	}

	resp, err := s.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return fmt.Errorf("trigger %s: %w", req, err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
	return nil
}
