// Copyright (c) 2024 Neomantra Corp
//
// JsonWriter walks an encoded blob (or a materialized VariantValue) and
// emits JSON per §4.8. String and number escaping go through
// segmentio/encoding/json, the fast drop-in json package the teacher's
// publishers used for outbound messages; timestamp formatting goes
// through relvacode/iso8601's embedded time.Time, the library the
// teacher's CLI commands already use for ISO-8601 parsing.

package variant

import (
	"bytes"
	"math"
	"math/big"
	"time"

	json "github.com/segmentio/encoding/json"

	"github.com/relvacode/iso8601"
)

// ToJSON walks the encoded (metadata, value) blob pair and returns its
// JSON form.
func ToJSON(metadata []byte, value []byte) ([]byte, error) {
	mr, err := NewMetadataReader(metadata)
	if err != nil {
		return nil, err
	}
	vr, err := NewValueReader(mr, value)
	if err != nil {
		return nil, err
	}
	return ValueToJSON(vr)
}

// ValueToJSON renders an already-opened ValueReader as JSON.
func ValueToJSON(vr *ValueReader) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSONValue(&buf, vr); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// TreeToJSON renders a materialized VariantValue as JSON, for callers
// that built or mutated a tree in memory rather than reading a blob.
func TreeToJSON(v *VariantValue) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSONTree(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSONValue(buf *bytes.Buffer, vr *ValueReader) error {
	switch vr.BasicType() {
	case BasicType_ShortString:
		s, err := vr.GetString()
		if err != nil {
			return err
		}
		return writeJSONMarshal(buf, s)
	case BasicType_Object:
		obj, err := vr.Object()
		if err != nil {
			return err
		}
		return writeJSONObjectReader(buf, obj)
	case BasicType_Array:
		arr, err := vr.Array()
		if err != nil {
			return err
		}
		return writeJSONArrayReader(buf, arr)
	}

	tag, err := vr.Tag()
	if err != nil {
		return err
	}
	switch tag {
	case PrimitiveTag_Null:
		buf.WriteString("null")
		return nil
	case PrimitiveTag_BooleanTrue:
		buf.WriteString("true")
		return nil
	case PrimitiveTag_BooleanFalse:
		buf.WriteString("false")
		return nil
	case PrimitiveTag_Int8:
		v, err := vr.GetInt8()
		return writeJSONInt(buf, int64(v), err)
	case PrimitiveTag_Int16:
		v, err := vr.GetInt16()
		return writeJSONInt(buf, int64(v), err)
	case PrimitiveTag_Int32:
		v, err := vr.GetInt32()
		return writeJSONInt(buf, int64(v), err)
	case PrimitiveTag_Int64:
		v, err := vr.GetInt64()
		return writeJSONInt(buf, v, err)
	case PrimitiveTag_Float:
		v, err := vr.GetFloat()
		if err != nil {
			return err
		}
		return writeJSONFloat(buf, float64(v))
	case PrimitiveTag_Double:
		v, err := vr.GetDouble()
		if err != nil {
			return err
		}
		return writeJSONFloat(buf, v)
	case PrimitiveTag_Decimal4:
		scale, unscaled, err := vr.GetDecimal4()
		if err != nil {
			return err
		}
		buf.WriteString(DecimalString(big.NewInt(int64(unscaled)), scale))
		return nil
	case PrimitiveTag_Decimal8:
		scale, unscaled, err := vr.GetDecimal8()
		if err != nil {
			return err
		}
		buf.WriteString(DecimalString(big.NewInt(unscaled), scale))
		return nil
	case PrimitiveTag_Decimal16:
		scale, unscaled, err := vr.GetDecimal16()
		if err != nil {
			return err
		}
		buf.WriteString(DecimalString(unscaled, scale))
		return nil
	case PrimitiveTag_Date:
		v, err := vr.GetDate()
		if err != nil {
			return err
		}
		return writeJSONDate(buf, v)
	case PrimitiveTag_Timestamp:
		v, err := vr.GetTimestamp()
		if err != nil {
			return err
		}
		return writeJSONTimestampMicros(buf, v, true)
	case PrimitiveTag_TimestampNtz:
		v, err := vr.GetTimestampNtz()
		if err != nil {
			return err
		}
		return writeJSONTimestampMicros(buf, v, false)
	case PrimitiveTag_TimeNtz:
		v, err := vr.GetTimeNtz()
		if err != nil {
			return err
		}
		return writeJSONInt(buf, v, nil)
	case PrimitiveTag_TimestampTzNanos:
		v, err := vr.GetTimestampTzNanos()
		if err != nil {
			return err
		}
		return writeJSONInt(buf, v, nil)
	case PrimitiveTag_TimestampNtzNanos:
		v, err := vr.GetTimestampNtzNanos()
		if err != nil {
			return err
		}
		return writeJSONInt(buf, v, nil)
	case PrimitiveTag_Binary:
		v, err := vr.GetBinary()
		if err != nil {
			return err
		}
		return writeJSONMarshal(buf, v)
	case PrimitiveTag_String:
		s, err := vr.GetString()
		if err != nil {
			return err
		}
		return writeJSONMarshal(buf, s)
	case PrimitiveTag_Uuid:
		u, err := vr.GetUuid()
		if err != nil {
			return err
		}
		return writeJSONMarshal(buf, u.String())
	default:
		return unexpectedTagError(uint8(tag))
	}
}

func writeJSONObjectReader(buf *bytes.Buffer, obj *ObjectReader) error {
	buf.WriteByte('{')
	n := obj.Count()
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := obj.GetFieldName(i)
		if err != nil {
			return err
		}
		if err := writeJSONMarshal(buf, name); err != nil {
			return err
		}
		buf.WriteByte(':')
		child, err := obj.GetFieldValue(i)
		if err != nil {
			return err
		}
		if err := writeJSONValue(buf, child); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeJSONArrayReader(buf *bytes.Buffer, arr *ArrayReader) error {
	buf.WriteByte('[')
	n := arr.Count()
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		child, err := arr.GetElement(i)
		if err != nil {
			return err
		}
		if err := writeJSONValue(buf, child); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}

// writeJSONTree renders a materialized VariantValue, mirroring
// writeJSONValue's mapping for blobs that were never serialized.
func writeJSONTree(buf *bytes.Buffer, v *VariantValue) error {
	switch v.Kind() {
	case Kind_Null:
		buf.WriteString("null")
	case Kind_BooleanTrue:
		buf.WriteString("true")
	case Kind_BooleanFalse:
		buf.WriteString("false")
	case Kind_Int8:
		return writeJSONInt(buf, int64(v.Int8Value()), nil)
	case Kind_Int16:
		return writeJSONInt(buf, int64(v.Int16Value()), nil)
	case Kind_Int32:
		return writeJSONInt(buf, int64(v.Int32Value()), nil)
	case Kind_Int64:
		return writeJSONInt(buf, v.Int64Value(), nil)
	case Kind_Float:
		return writeJSONFloat(buf, float64(v.FloatValue()))
	case Kind_Double:
		return writeJSONFloat(buf, v.DoubleValue())
	case Kind_Decimal4, Kind_Decimal8, Kind_Decimal16:
		scale, unscaled := v.DecimalValue()
		buf.WriteString(DecimalString(unscaled, scale))
	case Kind_Date:
		return writeJSONDate(buf, v.DateValue())
	case Kind_Timestamp:
		return writeJSONTimestampMicros(buf, v.MicrosValue(), true)
	case Kind_TimestampNtz:
		return writeJSONTimestampMicros(buf, v.MicrosValue(), false)
	case Kind_TimeNtz:
		return writeJSONInt(buf, v.MicrosValue(), nil)
	case Kind_TimestampTzNanos, Kind_TimestampNtzNanos:
		return writeJSONInt(buf, v.NanosValue(), nil)
	case Kind_Binary:
		return writeJSONMarshal(buf, v.BinaryValue())
	case Kind_String:
		return writeJSONMarshal(buf, v.StringValue())
	case Kind_Uuid:
		return writeJSONMarshal(buf, v.UuidValue().String())
	case Kind_Object:
		buf.WriteByte('{')
		for i, k := range v.obj.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONMarshal(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			child, _ := v.obj.Get(k)
			if err := writeJSONTree(buf, child); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case Kind_Array:
		buf.WriteByte('[')
		for i := 0; i < v.arr.Len(); i++ {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONTree(buf, v.arr.Get(i)); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		return ErrUnsupportedPrimitive
	}
	return nil
}

func writeJSONInt(buf *bytes.Buffer, v int64, err error) error {
	if err != nil {
		return err
	}
	return writeJSONMarshal(buf, v)
}

func writeJSONFloat(buf *bytes.Buffer, f float64) error {
	if isUnrepresentable(f) {
		return ErrUnrepresentableFloat
	}
	return writeJSONMarshal(buf, f)
}

func isUnrepresentable(f float64) bool {
	return math.IsNaN(f) || math.IsInf(f, 0)
}

func writeJSONMarshal(buf *bytes.Buffer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

func writeJSONDate(buf *bytes.Buffer, daysSinceEpoch int32) error {
	t := time.Unix(int64(daysSinceEpoch)*86400, 0).UTC()
	return writeJSONMarshal(buf, t.Format("2006-01-02"))
}

// writeJSONTimestampMicros renders epoch-microseconds as an ISO-8601
// quoted string. zoned selects Timestamp's "Z"-suffixed rendering
// (iso8601.Time's promoted time.Time.MarshalJSON); TimestampNtz carries
// no timezone semantics (spec §4.8) so it is formatted without a zone
// designator instead of reusing the zoned formatter on a local-zoned
// time.Time, which would leak the host's $TZ into the output.
func writeJSONTimestampMicros(buf *bytes.Buffer, micros int64, zoned bool) error {
	t := time.UnixMicro(micros).UTC()
	if zoned {
		wrapped := iso8601.Time{Time: t}
		b, err := wrapped.MarshalJSON()
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	}
	return writeJSONMarshal(buf, t.Format("2006-01-02T15:04:05.999999"))
}
