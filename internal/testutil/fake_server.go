package testutil

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v5"

	"github.com/clf-downloader/clf/internal/types"
)

// FakeServer imitates the clf web server: GET /downloads serves scripted
// progress bodies and GET /download/... records trigger requests.
type FakeServer struct {
	Server *httptest.Server

	// Tracking
	PollCount    atomic.Int64
	TriggerCount atomic.Int64

	mu          sync.Mutex
	script      []string // bodies served once each, in order
	current     string   // body served once the script is exhausted
	status      int      // status for /downloads, 0 = 200
	latency     time.Duration
	triggers    []types.TriggerRequest
	requestIDs  []string
	userAgents  []string
	onTrigger   func(types.TriggerRequest)
	triggerCode int
}

// FakeServerOption configures a FakeServer.
type FakeServerOption func(*FakeServer)

// WithDownloads sets the body served for every poll.
func WithDownloads(body string) FakeServerOption {
	return func(f *FakeServer) {
		f.current = body
	}
}

// WithScript queues bodies that are served once each before falling back to the current body.
func WithScript(bodies ...string) FakeServerOption {
	return func(f *FakeServer) {
		f.script = append(f.script, bodies...)
	}
}

// WithPollLatency delays every /downloads response.
func WithPollLatency(d time.Duration) FakeServerOption {
	return func(f *FakeServer) {
		f.latency = d
	}
}

// WithTriggerHook runs fn for every trigger request, after it has been recorded.
func WithTriggerHook(fn func(types.TriggerRequest)) FakeServerOption {
	return func(f *FakeServer) {
		f.onTrigger = fn
	}
}

// WithTriggerStatus makes trigger requests answer with code.
func WithTriggerStatus(code int) FakeServerOption {
	return func(f *FakeServer) {
		f.triggerCode = code
	}
}

// NewFakeServer starts a fake server that is closed when the test ends.
func NewFakeServer(t *testing.T, opts ...FakeServerOption) *FakeServer {
	t.Helper()

	f := &FakeServer{current: "{}"}
	for _, opt := range opts {
		opt(f)
	}

	e := echo.New()
	e.GET("/downloads", f.handleDownloads)
	// The server also accepts /download/{service}/{series}/{comic} and /download/{series}
	e.GET("/download/:a", f.handleTrigger)
	e.GET("/download/:a/:b", f.handleTrigger)
	e.GET("/download/:a/:b/:c", f.handleTrigger)

	f.Server = NewHTTPServerT(t, e)
	return f
}

// URL returns the base URL of the fake server.
func (f *FakeServer) URL() string {
	return f.Server.URL
}

// SetDownloads replaces the body served once the script is exhausted.
func (f *FakeServer) SetDownloads(body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = body
}

// SetSnapshot serves snap from now on.
func (f *FakeServer) SetSnapshot(snap types.Snapshot) {
	body, err := snap.MarshalJSON()
	if err != nil {
		panic(err)
	}
	f.SetDownloads(string(body))
}

// SetPollStatus makes /downloads answer with code (0 restores 200).
func (f *FakeServer) SetPollStatus(code int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = code
}

// Triggers returns the trigger requests received so far.
func (f *FakeServer) Triggers() []types.TriggerRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]types.TriggerRequest, len(f.triggers))
	copy(out, f.triggers)
	return out
}

// RequestIDs returns the X-Request-ID headers seen on /downloads.
func (f *FakeServer) RequestIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.requestIDs))
	copy(out, f.requestIDs)
	return out
}

// UserAgents returns the User-Agent headers seen on any route.
func (f *FakeServer) UserAgents() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.userAgents))
	copy(out, f.userAgents)
	return out
}

func (f *FakeServer) handleDownloads(c *echo.Context) error {
	f.PollCount.Add(1)

	f.mu.Lock()
	f.requestIDs = append(f.requestIDs, c.Request().Header.Get("X-Request-ID"))
	f.userAgents = append(f.userAgents, c.Request().UserAgent())
	latency := f.latency
	status := f.status
	body := f.current
	if len(f.script) > 0 {
		body = f.script[0]
		f.script = f.script[1:]
	}
	f.mu.Unlock()

	if latency > 0 {
		select {
		case <-time.After(latency):
		case <-c.Request().Context().Done():
			return nil
		}
	}

	if status != 0 && status != http.StatusOK {
		return c.String(status, "downloads unavailable")
	}
	// Not labelled as JSON, like the clf server, which returns json.dumps output.
	return c.String(http.StatusOK, body)
}

func (f *FakeServer) handleTrigger(c *echo.Context) error {
	f.TriggerCount.Add(1)

	var req types.TriggerRequest
	switch {
	case c.Param("c") != "":
		req = types.TriggerRequest{Service: c.Param("a"), SeriesID: c.Param("b"), ComicID: c.Param("c")}
	case c.Param("b") != "" && !isNumeric(c.Param("a")):
		// Series ids are numeric, so a named first segment is the service
		req = types.TriggerRequest{Service: c.Param("a"), SeriesID: c.Param("b")}
	case c.Param("b") != "":
		req = types.TriggerRequest{SeriesID: c.Param("a"), ComicID: c.Param("b")}
	default:
		req = types.TriggerRequest{SeriesID: c.Param("a")}
	}

	f.mu.Lock()
	f.triggers = append(f.triggers, req)
	f.userAgents = append(f.userAgents, c.Request().UserAgent())
	hook := f.onTrigger
	code := f.triggerCode
	f.mu.Unlock()

	if hook != nil {
		hook(req)
	}

	if code != 0 && code != http.StatusOK {
		return c.String(code, "trigger rejected")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func isNumeric(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}
