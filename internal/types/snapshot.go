package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Snapshot is one /downloads response: the entries in the order the server sent them.
type Snapshot struct {
	Entries []Entry
}

// NewSnapshot builds a snapshot from entries, keeping their order.
func NewSnapshot(entries ...Entry) Snapshot {
	return Snapshot{Entries: entries}
}

// Len returns the number of downloads in progress.
func (s Snapshot) Len() int {
	return len(s.Entries)
}

// Empty reports whether nothing is in progress.
func (s Snapshot) Empty() bool {
	return len(s.Entries) == 0
}

// IDs returns the download ids in response order.
func (s Snapshot) IDs() []string {
	ids := make([]string, 0, len(s.Entries))
	for _, e := range s.Entries {
		ids = append(ids, e.ID)
	}
	return ids
}

// UnmarshalJSON decodes the id -> {title, progress} object while keeping key order,
// which a plain map would lose. A null body decodes to an empty snapshot.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	s.Entries = nil

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode downloads: %w", err)
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("decode downloads: expected object, got %v", tok)
	}

	index := make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode downloads: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("decode downloads: unexpected key %v", keyTok)
		}

		var e Entry
		if err := dec.Decode(&e); err != nil {
			return fmt.Errorf("decode download %q: %w", key, err)
		}
		e.ID = key

		// Duplicate keys: last value wins, first position is kept
		if i, seen := index[key]; seen {
			s.Entries[i] = e
			continue
		}
		index[key] = len(s.Entries)
		s.Entries = append(s.Entries, e)
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decode downloads: %w", err)
	}
	return nil
}

// MarshalJSON encodes the snapshot in the server's wire format, preserving order.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range s.Entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.ID)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
