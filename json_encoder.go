// Copyright (c) 2024 Neomantra Corp
//
// JsonEncoder builds a Variant value tree from UTF-8 JSON using
// valyala/fastjson for tokenization, the same library the teacher's
// json_scanner.go uses to parse DBN JSON records. fastjson.Parser parses
// the input once into a *fastjson.Value tree, which the recursive
// jsonToVariantValue below converts into a VariantValue tree. Encode then
// makes the two passes over that VariantValue tree: pass 1
// (CollectFieldNames) adds every object key to the MetadataBuilder, and
// pass 2 (ValueBuilder.Encode) writes the value bytes. The source text is
// lexed only once.

package variant

import (
	"fmt"
	"math"
	"strconv"

	"github.com/valyala/fastjson"
	"github.com/valyala/fastjson/fastfloat"
)

// EncodeJSON parses jsonText and encodes it to a Variant (metadata,
// value) pair. Object key order in the source is irrelevant to the
// result: MetadataBuilder always emits sorted metadata.
func EncodeJSON(jsonText []byte) (metadata []byte, value []byte, err error) {
	var p fastjson.Parser
	val, err := p.ParseBytes(jsonText)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedJson, err)
	}
	tree, err := jsonToVariantValue(val)
	if err != nil {
		return nil, nil, err
	}
	return Encode(tree)
}

func jsonToVariantValue(val *fastjson.Value) (*VariantValue, error) {
	switch val.Type() {
	case fastjson.TypeNull:
		return NewNull(), nil
	case fastjson.TypeTrue:
		return NewBool(true), nil
	case fastjson.TypeFalse:
		return NewBool(false), nil
	case fastjson.TypeNumber:
		return jsonNumberToVariantValue(val)
	case fastjson.TypeString:
		sb, err := val.StringBytes()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedJson, err)
		}
		return NewString(string(sb)), nil
	case fastjson.TypeObject:
		return jsonObjectToVariantValue(val)
	case fastjson.TypeArray:
		return jsonArrayToVariantValue(val)
	default:
		return nil, fmt.Errorf("%w: unexpected json token", ErrMalformedJson)
	}
}

// jsonNumberToVariantValue applies the §4.7 number policy: if the literal
// parses as a 64-bit signed integer (stdlib strconv.ParseInt; fastjson
// exposes no error-returning int64 parse suited to this exact-integer
// check), emit the narrowest Int8/16/32/64 that fits; otherwise parse it
// as a finite double via fastjson/fastfloat.Parse, the same parser
// fastjson.Value.Float64 delegates to internally.
func jsonNumberToVariantValue(val *fastjson.Value) (*VariantValue, error) {
	raw := val.String()
	if iv, err := strconv.ParseInt(raw, 10, 64); err == nil {
		switch {
		case iv >= -128 && iv <= 127:
			return NewInt8(int8(iv)), nil
		case iv >= -32768 && iv <= 32767:
			return NewInt16(int16(iv)), nil
		case iv >= -2147483648 && iv <= 2147483647:
			return NewInt32(int32(iv)), nil
		default:
			return NewInt64(iv), nil
		}
	}
	f, err := fastfloat.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJson, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: non-finite number", ErrMalformedJson)
	}
	return NewDouble(f), nil
}

func jsonObjectToVariantValue(val *fastjson.Value) (*VariantValue, error) {
	obj, err := val.Object()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJson, err)
	}
	out := NewVariantObject()
	var visitErr error
	obj.Visit(func(key []byte, v *fastjson.Value) {
		if visitErr != nil {
			return
		}
		child, err := jsonToVariantValue(v)
		if err != nil {
			visitErr = err
			return
		}
		out.Set(string(key), child)
	})
	if visitErr != nil {
		return nil, visitErr
	}
	return NewObject(out), nil
}

func jsonArrayToVariantValue(val *fastjson.Value) (*VariantValue, error) {
	elems, err := val.Array()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJson, err)
	}
	arr := NewVariantArray()
	for _, e := range elems {
		child, err := jsonToVariantValue(e)
		if err != nil {
			return nil, err
		}
		arr.Append(child)
	}
	return NewArray(arr), nil
}
