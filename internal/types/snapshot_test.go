package types

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotUnmarshalKeepsServerOrder(t *testing.T) {
	raw := `{"9": {"title": "Saga #3", "progress": 10},
	         "2": {"title": "Issue #1", "progress": 42},
	         "15": {"title": "Paper Girls #1", "progress": 99.5}}`

	var snap Snapshot
	require.NoError(t, json.Unmarshal([]byte(raw), &snap))

	assert.Equal(t, []string{"9", "2", "15"}, snap.IDs())
	assert.Equal(t, 3, snap.Len())
	assert.Equal(t, "Issue #1", snap.Entries[1].Title)
	assert.Equal(t, 42.0, snap.Entries[1].Progress)
	assert.Equal(t, "download-15", snap.Entries[2].WidgetID())
}

func TestSnapshotUnmarshalEmpty(t *testing.T) {
	for _, raw := range []string{`{}`, `null`, ` { } `} {
		var snap Snapshot
		require.NoError(t, json.Unmarshal([]byte(raw), &snap), raw)
		assert.True(t, snap.Empty(), raw)
	}
}

func TestSnapshotUnmarshalDuplicateKey(t *testing.T) {
	raw := `{"1": {"title": "A", "progress": 1}, "2": {"title": "B", "progress": 2}, "1": {"title": "A", "progress": 50}}`

	var snap Snapshot
	require.NoError(t, json.Unmarshal([]byte(raw), &snap))
	require.Equal(t, []string{"1", "2"}, snap.IDs())
	assert.Equal(t, 50.0, snap.Entries[0].Progress)
}

func TestSnapshotUnmarshalRejectsNonObject(t *testing.T) {
	for _, raw := range []string{`[]`, `"downloads"`, `{"1": 5}`, `{"1": {"title": "x"`} {
		var snap Snapshot
		assert.Error(t, json.Unmarshal([]byte(raw), &snap), raw)
	}
}

func TestSnapshotMarshalWireFormat(t *testing.T) {
	snap := NewSnapshot(
		Entry{ID: "7", Title: "Issue #1", Progress: 42},
		Entry{ID: "3", Title: "Issue #2", Progress: 0},
	)
	out, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.Equal(t, `{"7":{"title":"Issue #1","progress":42},"3":{"title":"Issue #2","progress":0}}`, string(out))
}

func TestEntryFraction(t *testing.T) {
	tests := []struct {
		progress float64
		want     float64
	}{
		{0, 0},
		{42, 0.42},
		{100, 1},
		{130, 1},
		{-5, 0},
	}
	for _, tt := range tests {
		e := Entry{Progress: tt.progress}
		assert.InDelta(t, tt.want, e.Fraction(), 1e-9, "progress %v", tt.progress)
	}
}

func TestTriggerRequestPath(t *testing.T) {
	tests := []struct {
		name    string
		req     TriggerRequest
		want    string
		wantErr bool
	}{
		{name: "Series and comic", req: TriggerRequest{SeriesID: "5", ComicID: "7"}, want: "/download/5/7"},
		{name: "Whole series", req: TriggerRequest{SeriesID: "5"}, want: "/download/5"},
		{name: "Service qualified", req: TriggerRequest{Service: "darkhorse", SeriesID: "5", ComicID: "7"}, want: "/download/darkhorse/5/7"},
		{name: "Escaped", req: TriggerRequest{SeriesID: "a b", ComicID: "7"}, want: "/download/a%20b/7"},
		{name: "Missing series", req: TriggerRequest{ComicID: "7"}, wantErr: true},
		{name: "Service whole series", req: TriggerRequest{Service: "darkhorse", SeriesID: "5"}, want: "/download/darkhorse/5"},
		{name: "Slash in id", req: TriggerRequest{SeriesID: "5/6", ComicID: "7"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.req.Path()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidTrigger))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
