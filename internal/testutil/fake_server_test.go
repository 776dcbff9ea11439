package testutil

import (
	"io"
	"net/http"
	"sync"
	"testing"

	"github.com/clf-downloader/clf/internal/types"
)

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestFakeServerScriptThenCurrent(t *testing.T) {
	f := NewFakeServer(t,
		WithScript(`{"1": {"title": "A", "progress": 5}}`),
		WithDownloads(`{}`),
	)

	_, first := get(t, f.URL()+"/downloads")
	_, second := get(t, f.URL()+"/downloads")

	if first != `{"1": {"title": "A", "progress": 5}}` {
		t.Errorf("first poll should serve the script, got %q", first)
	}
	if second != `{}` {
		t.Errorf("second poll should serve the current body, got %q", second)
	}
	if got := f.PollCount.Load(); got != 2 {
		t.Errorf("PollCount = %d, want 2", got)
	}
}

func TestFakeServerRecordsTriggers(t *testing.T) {
	var (
		mu     sync.Mutex
		hooked []types.TriggerRequest
	)
	f := NewFakeServer(t, WithTriggerHook(func(r types.TriggerRequest) {
		mu.Lock()
		defer mu.Unlock()
		hooked = append(hooked, r)
	}))

	for _, path := range []string{"/download/5/7", "/download/darkhorse/5/7", "/download/9", "/download/darkhorse/5"} {
		code, _ := get(t, f.URL()+path)
		if code != http.StatusOK {
			t.Fatalf("GET %s: status %d", path, code)
		}
	}

	want := []types.TriggerRequest{
		{SeriesID: "5", ComicID: "7"},
		{Service: "darkhorse", SeriesID: "5", ComicID: "7"},
		{SeriesID: "9"},
		{Service: "darkhorse", SeriesID: "5"},
	}
	got := f.Triggers()
	if len(got) != len(want) {
		t.Fatalf("got %d triggers, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("trigger %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	mu.Lock()
	defer mu.Unlock()
	if len(hooked) != 4 {
		t.Errorf("hook saw %d triggers, want 4", len(hooked))
	}
}

func TestFakeServerPollStatus(t *testing.T) {
	f := NewFakeServer(t)
	f.SetPollStatus(http.StatusServiceUnavailable)

	code, _ := get(t, f.URL()+"/downloads")
	if code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", code)
	}

	f.SetPollStatus(0)
	code, body := get(t, f.URL()+"/downloads")
	if code != http.StatusOK || body != "{}" {
		t.Errorf("got %d %q, want 200 {}", code, body)
	}
}
