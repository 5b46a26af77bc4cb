package catalog

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// timestampLayout is the wayback timestamp format, YYYYMMDDHHMMSS.
const timestampLayout = "20060102150405"

// Timestamp is a wayback-style 14-digit capture time. The catalog encodes it
// either as a JSON number or as a string; the raw digits are kept as found.
type Timestamp string

// UnmarshalJSON accepts numbers, strings and null.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Timestamp(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*t = Timestamp(n.String())
	}
	return nil
}

// IsZero reports whether the timestamp is absent.
func (t Timestamp) IsZero() bool { return t == "" }

// Time parses the timestamp as a UTC instant. It fails unless the value is
// exactly 14 decimal digits forming a valid calendar date and time.
func (t Timestamp) Time() (time.Time, bool) {
	s := string(t)
	if len(s) != len(timestampLayout) {
		return time.Time{}, false
	}
	if _, err := strconv.ParseUint(s, 10, 64); err != nil {
		return time.Time{}, false
	}
	tm, err := time.ParseInLocation(timestampLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return tm, true
}
