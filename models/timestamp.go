package models

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp is a time that decodes leniently: RFC 3339, date-only and
// space-separated forms are accepted, unix milliseconds too. Anything else
// decodes as the zero time rather than failing the surrounding record.
type Timestamp struct {
	time.Time
}

func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		t.Time = time.Time{}
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		t.Time = parseTimestamp(s)
	default:
		var ms json.Number
		if err := json.Unmarshal(data, &ms); err != nil {
			t.Time = time.Time{}
			return nil
		}
		n, err := ms.Int64()
		if err != nil {
			t.Time = time.Time{}
			return nil
		}
		t.Time = time.UnixMilli(n).UTC()
	}
	return nil
}

func (t *Timestamp) UnmarshalYAML(node *yaml.Node) error {
	t.Time = parseTimestamp(node.Value)
	return nil
}
