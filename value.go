package tablescout

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindTimestamp
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindTimestamp:
		return "timestamp"
	default:
		return "unknown"
	}
}

// Value is a single column value: a string, number, bool, null or
// timestamp. The zero Value is null.
//
// Numbers keep the exact decimal text the database produced, when there
// was one, so that NUMERIC columns and large integers round-trip through
// JSON without losing digits.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	ts   time.Time
}

// Null returns the null Value.
func Null() Value { return Value{} }

// String returns a string Value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Timestamp returns a timestamp Value.
func Timestamp(t time.Time) Value { return Value{kind: KindTimestamp, ts: t} }

// Number returns a numeric Value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Int returns a numeric Value that keeps the exact integer text.
func Int(i int64) Value {
	return Value{kind: KindNumber, num: float64(i), str: strconv.FormatInt(i, 10)}
}

// Decimal returns a numeric Value from decimal text such as a PostgreSQL
// NUMERIC. Text that does not parse as a number yields a string Value.
func Decimal(text string) Value {
	text = strings.TrimSpace(text)
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return String(text)
	}
	return Value{kind: KindNumber, num: f, str: text}
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Float64 coerces v to a finite float64. Numbers convert directly and
// strings are parsed; every other kind, and text that is not a finite
// number, reports false.
func (v Value) Float64() (float64, bool) {
	var f float64
	switch v.kind {
	case KindNumber:
		f = v.num
	case KindString:
		var err error
		f, err = strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil {
			return 0, false
		}
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Interface returns v as a plain Go value: nil, string, float64, bool or
// time.Time.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	case KindTimestamp:
		return v.ts
	default:
		return nil
	}
}

// Text renders v without JSON quoting. Null renders as the empty string.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.numberText()
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindTimestamp:
		return v.ts.Format(time.RFC3339Nano)
	default:
		return ""
	}
}

func (v Value) numberText() string {
	if v.str != "" {
		return v.str
	}
	return strconv.FormatFloat(v.num, 'f', -1, 64)
}

// MarshalJSON implements json.Marshaler. Timestamps use RFC 3339.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return []byte("null"), nil
		}
		return []byte(v.numberText()), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindTimestamp:
		return json.Marshal(v.ts.Format(time.RFC3339Nano))
	default:
		return []byte("null"), nil
	}
}

// Record is one row keyed by column name.
type Record map[string]Value

// Float64 coerces the named column to a float64. It reports false when
// the column is missing or cannot be converted.
func (r Record) Float64(column string) (float64, bool) {
	v, ok := r[column]
	if !ok {
		return 0, false
	}
	return v.Float64()
}

// Point reads the record's latitude and longitude columns.
func (r Record) Point() (GeoPoint, bool) {
	lat, ok := r.Float64(LatitudeColumn)
	if !ok {
		return GeoPoint{}, false
	}
	lon, ok := r.Float64(LongitudeColumn)
	if !ok {
		return GeoPoint{}, false
	}
	return GeoPoint{Latitude: lat, Longitude: lon}, true
}

// RankedRecord is a record annotated with its distance from a search center.
type RankedRecord struct {
	Record          Record
	DistanceInMiles float64
}

// MarshalJSON flattens the record's columns next to distance_in_miles.
func (r RankedRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Record)+1)
	for k, v := range r.Record {
		out[k] = v
	}
	out["distance_in_miles"] = r.DistanceInMiles
	return json.Marshal(out)
}
