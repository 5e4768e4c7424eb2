package timex

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// Timestamp decodes the archive server's creation times. The server may
// serialize an instant as an RFC 3339 string or as fractional epoch seconds,
// depending on its JSON settings; both forms are accepted.
type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// UnmarshalJSON never fails: a value in neither form decodes to the zero
// time, so one odd record does not sink a whole listing.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	t.Time = parseTimestamp(bytes.TrimSpace(b))
	return nil
}

func parseTimestamp(b []byte) time.Time {
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return time.Time{}
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return time.Time{}
		}
		parsed, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return time.Time{}
		}
		return parsed
	}

	secs, err := strconv.ParseFloat(string(b), 64)
	if err != nil || math.IsNaN(secs) || math.IsInf(secs, 0) {
		return time.Time{}
	}
	whole, frac := math.Modf(secs)
	return time.Unix(int64(whole), int64(math.Round(frac*1e9))).UTC()
}
