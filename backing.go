/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package idx

import (
	"bytes"
	"cmp"
	"database/sql"
	"database/sql/driver"
	"encoding"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// Backing operations. A backing type R is any comparable value type; these
// helpers give it text, ordering, generation and SQL support, preferring the
// type's own methods and falling back to its reflect.Kind:
//
//   - uuid.UUID and ulid.ULID are supported directly.
//   - Compare(R) int, MarshalText/UnmarshalText, Value/Scan and
//     Random(io.Reader) (R, error) methods are used when present.
//   - string, bool, integer and float kinds (including named ones) work
//     without any methods.

func compareBacking[R comparable](a, b R) int {
	if a == b {
		return 0
	}
	switch x := any(a).(type) {
	case string:
		return strings.Compare(x, any(b).(string))
	case uuid.UUID:
		y := any(b).(uuid.UUID)
		return bytes.Compare(x[:], y[:])
	case interface{ Compare(R) int }:
		return x.Compare(b)
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch va.Kind() {
	case reflect.String:
		return strings.Compare(va.String(), vb.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(va.Int(), vb.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return cmp.Compare(va.Uint(), vb.Uint())
	case reflect.Float32, reflect.Float64:
		return cmp.Compare(va.Float(), vb.Float())
	case reflect.Bool:
		if !va.Bool() {
			return -1
		}
		return 1
	case reflect.Array:
		if va.Type().Elem().Kind() == reflect.Uint8 {
			return bytes.Compare(arrayBytes(va), arrayBytes(vb))
		}
	}
	// Unordered backing: fall back to the text form so the order is at
	// least total and deterministic.
	ta, _ := formatBacking(a)
	tb, _ := formatBacking(b)
	if c := strings.Compare(ta, tb); c != 0 {
		return c
	}
	return strings.Compare(fmt.Sprintf("%#v", a), fmt.Sprintf("%#v", b))
}

func arrayBytes(v reflect.Value) []byte {
	out := make([]byte, v.Len())
	for i := range out {
		out[i] = byte(v.Index(i).Uint())
	}
	return out
}

// formatBacking returns the text form of r.
func formatBacking[R comparable](r R) (string, error) {
	switch x := any(r).(type) {
	case string:
		return x, nil
	case encoding.TextMarshaler:
		b, err := x.MarshalText()
		return string(b), err
	}
	v := reflect.ValueOf(r)
	switch v.Kind() {
	case reflect.String:
		return v.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(v.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'g', -1, v.Type().Bits()), nil
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), nil
	}
	return "", fmt.Errorf("%w: %v has no text form", ErrUnsupportedBacking, v.Type())
}

// parseBacking decodes the text form of an R. It applies the backing's own
// format rules only; domain rules are applied by the caller.
func parseBacking[R comparable](s string) (R, error) {
	var r R
	if u, ok := any(&r).(encoding.TextUnmarshaler); ok {
		err := u.UnmarshalText([]byte(s))
		return r, err
	}
	v := reflect.ValueOf(&r).Elem()
	switch v.Kind() {
	case reflect.String:
		v.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, v.Type().Bits())
		if err != nil {
			return r, err
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := strconv.ParseUint(s, 10, v.Type().Bits())
		if err != nil {
			return r, err
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(s, v.Type().Bits())
		if err != nil {
			return r, err
		}
		v.SetFloat(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return r, err
		}
		v.SetBool(b)
	default:
		return r, fmt.Errorf("%w: cannot parse %v", ErrUnsupportedBacking, v.Type())
	}
	return r, nil
}

// generateBacking draws a random R from src using the backing's own
// generator.
func generateBacking[R comparable](src io.Reader) (R, error) {
	var r R
	switch x := any(r).(type) {
	case uuid.UUID:
		u, err := uuid.NewRandomFromReader(src)
		if err != nil {
			return r, err
		}
		return any(u).(R), nil
	case ulid.ULID:
		u, err := ulid.New(ulid.Now(), src)
		if err != nil {
			return r, err
		}
		return any(u).(R), nil
	case interface{ Random(io.Reader) (R, error) }:
		return x.Random(src)
	}
	return r, fmt.Errorf("%w: %v", ErrNotGeneratable, reflect.TypeFor[R]())
}

// valueBacking converts r to a database/sql driver value.
func valueBacking[R comparable](r R) (driver.Value, error) {
	switch x := any(r).(type) {
	case driver.Valuer:
		return x.Value()
	case encoding.TextMarshaler:
		b, err := x.MarshalText()
		return string(b), err
	}
	v := reflect.ValueOf(r)
	switch v.Kind() {
	case reflect.String:
		return v.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if u := v.Uint(); u <= math.MaxInt64 {
			return int64(u), nil
		}
		return strconv.FormatUint(v.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return v.Float(), nil
	case reflect.Bool:
		return v.Bool(), nil
	}
	return nil, fmt.Errorf("%w: %v has no SQL form", ErrUnsupportedBacking, v.Type())
}

// scanBacking converts a database/sql source value to an R.
func scanBacking[R comparable](src any) (R, error) {
	var r R
	if s, ok := any(&r).(sql.Scanner); ok {
		err := s.Scan(src)
		return r, err
	}
	switch x := src.(type) {
	case string:
		return parseBacking[R](x)
	case []byte:
		return parseBacking[R](string(x))
	case nil:
		return r, fmt.Errorf("idx: cannot scan NULL into %v", reflect.TypeFor[R]())
	}
	v := reflect.ValueOf(&r).Elem()
	sv := reflect.ValueOf(src)
	if k := v.Kind(); k == reflect.String && sv.Kind() != reflect.String {
		if !isNumber(sv.Kind()) {
			return r, fmt.Errorf("%w: cannot scan %T into %v", ErrUnsupportedBacking, src, v.Type())
		}
		// int64 -> string conversion yields a rune, not digits.
		return parseBacking[R](fmt.Sprint(src))
	}
	if isNumber(v.Kind()) && isNumber(sv.Kind()) {
		if err := setNumber(v, sv); err != nil {
			return r, fmt.Errorf("%w: cannot scan %T(%v) into %v: %w", ErrUnsupportedBacking, src, src, v.Type(), err)
		}
		return r, nil
	}
	if isNumber(v.Kind()) != isNumber(sv.Kind()) || !sv.Type().ConvertibleTo(v.Type()) {
		return r, fmt.Errorf("%w: cannot scan %T into %v", ErrUnsupportedBacking, src, v.Type())
	}
	v.Set(sv.Convert(v.Type()))
	return r, nil
}

func isNumber(k reflect.Kind) bool {
	return isInt(k) || isUint(k) || k == reflect.Float32 || k == reflect.Float64
}

func isInt(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUint(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

var (
	errOverflow   = errors.New("value out of range")
	errNegative   = errors.New("negative value for unsigned backing")
	errFractional = errors.New("non-integral value for integer backing")
	errNotFinite  = errors.New("non-finite value for integer backing")
)

// setNumber stores the numeric sv into dst without wrapping, truncating or
// flipping sign.
func setNumber(dst, sv reflect.Value) error {
	switch dk, sk := dst.Kind(), sv.Kind(); {
	case dk == reflect.Float32 || dk == reflect.Float64:
		var f float64
		switch {
		case isInt(sk):
			f = float64(sv.Int())
		case isUint(sk):
			f = float64(sv.Uint())
		default:
			f = sv.Float()
		}
		if !math.IsNaN(f) && !math.IsInf(f, 0) && dst.OverflowFloat(f) {
			return errOverflow
		}
		dst.SetFloat(f)
	case isInt(dk):
		var n int64
		switch {
		case isInt(sk):
			n = sv.Int()
		case isUint(sk):
			u := sv.Uint()
			if u > math.MaxInt64 {
				return errOverflow
			}
			n = int64(u)
		default:
			f, err := integral(sv.Float())
			if err != nil {
				return err
			}
			if f < math.MinInt64 || f >= -math.MinInt64 {
				return errOverflow
			}
			n = int64(f)
		}
		if dst.OverflowInt(n) {
			return errOverflow
		}
		dst.SetInt(n)
	default:
		var u uint64
		switch {
		case isInt(sk):
			n := sv.Int()
			if n < 0 {
				return errNegative
			}
			u = uint64(n)
		case isUint(sk):
			u = sv.Uint()
		default:
			f, err := integral(sv.Float())
			if err != nil {
				return err
			}
			if f < 0 {
				return errNegative
			}
			if f >= math.MaxUint64 {
				return errOverflow
			}
			u = uint64(f)
		}
		if dst.OverflowUint(u) {
			return errOverflow
		}
		dst.SetUint(u)
	}
	return nil
}

func integral(f float64) (float64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotFinite
	}
	if f != math.Trunc(f) {
		return 0, errFractional
	}
	return f, nil
}
