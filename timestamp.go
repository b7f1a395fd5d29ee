// Copyright (c) 2024 Neomantra Corp
//
// Timestamp parsing bridges an ISO-8601 string (as a caller might pull
// out of a JSON string field, or a CLI argument) into the epoch
// micros NewTimestamp/NewTimestampNtz expect, using relvacode/iso8601
// the same way the teacher's cmd/dbn-go-hist and cmd/dbn-go-live parse
// ISO-8601 command-line timestamp arguments.

package variant

import (
	"fmt"

	"github.com/relvacode/iso8601"
)

// ParseTimestamp parses an ISO-8601 string into epoch microseconds
// suitable for NewTimestamp. It accepts the same lenient set of
// layouts iso8601.ParseString does, wider than time.RFC3339 alone.
func ParseTimestamp(s string) (int64, error) {
	t, err := iso8601.ParseString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedJson, err)
	}
	return t.UTC().UnixMicro(), nil
}

// ParseTimestampNtz is ParseTimestamp for a caller that intends to
// discard the parsed offset and store TimestampNtz (no-timezone)
// semantics; the micros returned are identical, only the caller's
// choice of NewTimestamp vs NewTimestampNtz differs.
func ParseTimestampNtz(s string) (int64, error) {
	return ParseTimestamp(s)
}
