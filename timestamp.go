package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Timestamp is an instant decoded from the API. Decoding never fails: text
// that matches none of the known layouts is kept in Raw and the value is
// reported as invalid.
type Timestamp struct {
	Time  time.Time
	Raw   string
	valid bool
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
}

func NewTimestamp(t time.Time) Timestamp {
	if t.IsZero() {
		return Timestamp{}
	}
	return Timestamp{Time: t.UTC(), Raw: t.UTC().Format(time.RFC3339), valid: true}
}

func ParseTimestamp(value string) Timestamp {
	value = strings.TrimSpace(value)
	if value == "" {
		return Timestamp{}
	}
	for _, layout := range timestampLayouts {
		// layouts without a zone parse as UTC, which is what the backend serves
		if parsed, err := time.Parse(layout, value); err == nil {
			return Timestamp{Time: parsed.UTC(), Raw: value, valid: true}
		}
	}
	return Timestamp{Raw: value}
}

func (t Timestamp) Valid() bool {
	return t.valid
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		// numbers, objects and the like are kept verbatim as invalid values
		*t = Timestamp{Raw: string(data)}
		return nil
	}
	*t = ParseTimestamp(raw)
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if !t.valid {
		if t.Raw == "" {
			return []byte("null"), nil
		}
		return json.Marshal(t.Raw)
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

func (t Timestamp) String() string {
	if !t.valid {
		return t.Raw
	}
	return t.Time.Format(time.RFC3339)
}
