// Copyright (c) 2024 Neomantra Corp
//
// Uuid payloads are 16 bytes in RFC 4122 (network, big-endian) order.
// google/uuid.UUID is itself a 16-byte big-endian array, so the
// conversion to/from the wire payload is a direct byte copy.

package variant

import "github.com/google/uuid"

// DecodeUuid interprets a 16-byte Variant Uuid payload (big-endian, per
// RFC 4122) as a uuid.UUID.
func DecodeUuid(b []byte) (uuid.UUID, error) {
	if len(b) < 16 {
		return uuid.UUID{}, unexpectedBytesError(len(b), 16)
	}
	var u uuid.UUID
	copy(u[:], b[:16])
	return u, nil
}

// EncodeUuid returns the 16-byte big-endian Variant Uuid payload for u.
func EncodeUuid(u uuid.UUID) [16]byte {
	var out [16]byte
	copy(out[:], u[:])
	return out
}
