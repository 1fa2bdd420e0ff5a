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

// Package reflect holds the reflect.Type helpers behind stable type keys
// and domain names.
package reflect

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"dirpx.dev/idx/apis"
	"dirpx.dev/idx/config"
)

var (
	// ErrReflectNilType is returned when a nil reflect.Type is provided.
	ErrReflectNilType = errors.New("reflect: nil reflect.Type provided")
	// ErrReflectTypeNotNamed indicates that no named type was found inside an
	// unnamed type (e.g., anonymous struct, func, interface{}).
	ErrReflectTypeNotNamed = errors.New("reflect: type has no named inner type")
)

// Normalize returns the type a stable key is attached to: t with its
// unnamed pointer levels removed, so *Order and **Order are keyed as Order.
// Nothing else is unwrapped. uuid.UUID, "type Orders []Order", []Order and
// map[string]Order are all distinct from Order and from each other. At most
// cfg.MaxUnwrap pointer levels are removed (config.DefaultMaxUnwrap when
// <= 0).
func Normalize(t reflect.Type, cfg apis.Config) (reflect.Type, error) {
	if t == nil {
		return nil, ErrReflectNilType
	}
	for depth := unwrapDepth(cfg); depth > 0 && t.Kind() == reflect.Pointer && t.Name() == ""; depth-- {
		t = t.Elem()
	}
	return t, nil
}

// NearestNamed returns t when it is named, otherwise the nearest named type
// inside it: []Order, [4]*Order and chan Order all yield Order. For
// map[K]V the preferred side (V when cfg.MapPreferElem) is searched first,
// then the other one. Named types are never unwrapped. It serves
// presentation only; keys come from Normalize.
func NearestNamed(t reflect.Type, cfg apis.Config) (reflect.Type, error) {
	if t == nil {
		return nil, ErrReflectNilType
	}
	if n := nearest(t, cfg.MapPreferElem, unwrapDepth(cfg)); n != nil {
		return n, nil
	}
	return nil, ErrReflectTypeNotNamed
}

func nearest(t reflect.Type, preferElem bool, depth int) reflect.Type {
	for ; depth > 0 && t.Name() == ""; depth-- {
		switch t.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Chan:
			t = t.Elem()
		case reflect.Map:
			first, second := t.Elem(), t.Key()
			if !preferElem {
				first, second = second, first
			}
			if n := nearest(first, preferElem, depth-1); n != nil {
				return n
			}
			t = second
		default:
			return nil
		}
	}
	if t.Name() == "" {
		return nil
	}
	return t
}

func unwrapDepth(cfg apis.Config) int {
	if cfg.MaxUnwrap <= 0 {
		return config.DefaultMaxUnwrap
	}
	return cfg.MaxUnwrap
}

// QualifiedName returns the build-independent textual identity of a named
// type: its full package path and declared name, e.g.
// "example.com/shop/catalog.Product". Generic instantiation arguments are
// kept when keepArgs is true ("pkg.Box[example.com/shop.Item]") and
// stripped otherwise. Builtin types have no package path and yield their
// bare name ("int").
//
// Unnamed types yield "".
func QualifiedName(t reflect.Type, keepArgs bool) string {
	if t == nil || t.Name() == "" {
		return ""
	}
	name := t.Name()
	if !keepArgs {
		name = StripTypeArgs(name)
	}
	if p := t.PkgPath(); p != "" {
		return p + "." + name
	}
	return name
}

// CanonicalName spells out any type with every named component written as
// its QualifiedName: "[]example.com/shop.Order",
// "map[string]*example.com/shop.Order", "struct { ID int64 }". Unlike
// reflect.Type.String it keeps the full package path, so two packages that
// share a last path element never produce the same text.
func CanonicalName(t reflect.Type, keepArgs bool) string {
	if t == nil {
		return ""
	}
	var b strings.Builder
	writeType(&b, t, keepArgs)
	return b.String()
}

func writeType(b *strings.Builder, t reflect.Type, keepArgs bool) {
	if t.Name() != "" {
		b.WriteString(QualifiedName(t, keepArgs))
		return
	}
	switch t.Kind() {
	case reflect.Pointer:
		b.WriteByte('*')
		writeType(b, t.Elem(), keepArgs)
	case reflect.Slice:
		b.WriteString("[]")
		writeType(b, t.Elem(), keepArgs)
	case reflect.Array:
		b.WriteString("[" + strconv.Itoa(t.Len()) + "]")
		writeType(b, t.Elem(), keepArgs)
	case reflect.Chan:
		writeChan(b, t, keepArgs)
	case reflect.Map:
		b.WriteString("map[")
		writeType(b, t.Key(), keepArgs)
		b.WriteByte(']')
		writeType(b, t.Elem(), keepArgs)
	case reflect.Func:
		b.WriteString("func")
		writeSignature(b, t, keepArgs)
	case reflect.Struct:
		writeStruct(b, t, keepArgs)
	case reflect.Interface:
		writeInterface(b, t, keepArgs)
	default:
		b.WriteString(t.String())
	}
}

func writeChan(b *strings.Builder, t reflect.Type, keepArgs bool) {
	elem := t.Elem()
	switch t.ChanDir() {
	case reflect.RecvDir:
		b.WriteString("<-chan ")
	case reflect.SendDir:
		b.WriteString("chan<- ")
	default:
		b.WriteString("chan ")
		if elem.Name() == "" && elem.Kind() == reflect.Chan && elem.ChanDir() == reflect.RecvDir {
			b.WriteByte('(')
			writeType(b, elem, keepArgs)
			b.WriteByte(')')
			return
		}
	}
	writeType(b, elem, keepArgs)
}

func writeSignature(b *strings.Builder, t reflect.Type, keepArgs bool) {
	b.WriteByte('(')
	for i := range t.NumIn() {
		if i > 0 {
			b.WriteString(", ")
		}
		in := t.In(i)
		if t.IsVariadic() && i == t.NumIn()-1 {
			b.WriteString("...")
			in = in.Elem()
		}
		writeType(b, in, keepArgs)
	}
	b.WriteByte(')')
	switch t.NumOut() {
	case 0:
	case 1:
		b.WriteByte(' ')
		writeType(b, t.Out(0), keepArgs)
	default:
		b.WriteString(" (")
		for i := range t.NumOut() {
			if i > 0 {
				b.WriteString(", ")
			}
			writeType(b, t.Out(i), keepArgs)
		}
		b.WriteByte(')')
	}
}

func writeStruct(b *strings.Builder, t reflect.Type, keepArgs bool) {
	if t.NumField() == 0 {
		b.WriteString("struct {}")
		return
	}
	b.WriteString("struct {")
	for i := range t.NumField() {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteByte(' ')
		f := t.Field(i)
		if !f.Anonymous {
			if f.PkgPath != "" {
				b.WriteString(f.PkgPath + ".")
			}
			b.WriteString(f.Name + " ")
		}
		writeType(b, f.Type, keepArgs)
		if f.Tag != "" {
			b.WriteString(" " + strconv.Quote(string(f.Tag)))
		}
	}
	b.WriteString(" }")
}

func writeInterface(b *strings.Builder, t reflect.Type, keepArgs bool) {
	if t.NumMethod() == 0 {
		b.WriteString("interface {}")
		return
	}
	b.WriteString("interface {")
	for i := range t.NumMethod() {
		if i > 0 {
			b.WriteByte(';')
		}
		m := t.Method(i)
		b.WriteString(" ")
		if m.PkgPath != "" {
			b.WriteString(m.PkgPath + ".")
		}
		b.WriteString(m.Name)
		writeSignature(b, m.Type, keepArgs)
	}
	b.WriteString(" }")
}

// StripTypeArgs removes a generic type instantiation suffix: "T[int,string]" -> "T".
func StripTypeArgs(s string) string {
	if i := strings.IndexByte(s, '['); i >= 0 {
		return s[:i]
	}
	return s
}
