// Copyright (c) 2024 Neomantra Corp
//
// GetByPath is a convenience walk over nested Object/Array containers,
// layered on ObjectReader.TryGetField and ArrayReader.GetElement the way
// the teacher's symbol lookups layer a name-to-index convenience on top
// of a raw dictionary scan.

package variant

import "strconv"

// GetByPath resolves a sequence of object field names and/or array
// indices (array indices given as base-10 strings, e.g. "0") starting
// from vr, returning the final ValueReader. ok is false (not an error)
// if any path segment is absent; err is non-nil only on malformed
// encoding along the way.
func GetByPath(vr *ValueReader, parts ...string) (result *ValueReader, ok bool, err error) {
	cur := vr
	for _, part := range parts {
		switch cur.BasicType() {
		case BasicType_Object:
			obj, err := cur.Object()
			if err != nil {
				return nil, false, err
			}
			next, found, err := obj.TryGetField([]byte(part))
			if err != nil {
				return nil, false, err
			}
			if !found {
				return nil, false, nil
			}
			cur = next
		case BasicType_Array:
			idx, convErr := strconv.Atoi(part)
			if convErr != nil || idx < 0 {
				return nil, false, nil
			}
			arr, err := cur.Array()
			if err != nil {
				return nil, false, err
			}
			if idx >= arr.Count() {
				return nil, false, nil
			}
			next, err := arr.GetElement(idx)
			if err != nil {
				return nil, false, err
			}
			cur = next
		default:
			return nil, false, nil
		}
	}
	return cur, true, nil
}
