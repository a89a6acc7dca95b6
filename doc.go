// SPDX-FileCopyrightText: © 2024 Donald Hoelle. All rights reserved.
// SPDX-License-Identifier: MIT
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package [docvalue] converts between Go values and document values
// ([value.Value]), the polymorphic form exchanged with the database.
//
// A [Registry] inspects each Go type once, compiles a conversion routine for
// it and caches the routine for later calls:
//
//	type Spell struct {
//	  Name     string    `doc:"name"`
//	  Element  []string  `doc:"element,sorted"`
//	  Cost     int       `doc:"cost" default:"10"`
//	  Learned  time.Time `doc:"learned,ts"`
//	  internal string
//	}
//
//	r := docvalue.NewRegistry(nil)
//	v, err := r.Encode(Spell{Name: "Fire", Element: []string{"fire"}})
//	// v == ObjectV{cost: LongV(0), element: ArrayV[StringV("fire")], learned: ..., name: StringV("Fire")}
//
//	spell, err := docvalue.Decode[Spell](r, v)
//
// # Members
//
// Exported fields are members, keyed by their Go name unless the "doc" tag
// names them. Fields of embedded structs are promoted as in Go. The tag
// accepts these options after the name:
//
//   - "-" as the name ignores the field
//   - omitempty skips zero values when encoding
//   - date, ts and string force a timestamp to DateV, a date to TimeV, or
//     any scalar to StringV when encoding
//   - sorted sorts a decoded slice of numbers or strings
//
// A member missing from a decoded object keeps its current value, unless a
// "default" tag supplies one. Defaults are written as text and converted
// with the same rules as a decoded StringV. The tag names can be changed
// with [Config].
//
// # Conversion rules
//
// Integers encode to LongV, floats and [decimal.Decimal] to DoubleV, and
// time.Time to DateV when it is midnight UTC, TimeV otherwise. Types
// implementing [encoding.TextMarshaler] encode to StringV. Slices and arrays
// become ArrayV, []byte becomes BytesV, maps with string keys become ObjectV
// and maps used as sets (map[K]struct{}, map[K]bool) become ArrayV.
//
// Decoding coerces among LongV, DoubleV and StringV for numeric targets and
// fails with [ErrOverflow] when the number does not fit. NullV decodes to
// the zero value. Empty interfaces receive plain Go values: int64, float64,
// string, []any, map[string]any and so on.
//
// # Registrations
//
// Enums are registered with [RegisterEnum] and travel as string aliases.
// [Registry.RegisterCreator] designates a factory for a type that cannot be
// built from its zero value, such as an interface. [RegisterSet] makes
// mapset.Set[T] from [github.com/deckarep/golang-set/v2] usable as a
// member type.
//
// # Errors
//
// Some errors describe the Go type rather than the data: an interface with
// no creator, an enum alias that does not exist, a cycle in the object
// graph. [IsShapeError] reports them. They indicate a programming error and
// recur on every call for the type.
//
// # JSON
//
// [JSONOptions] lets [json.Marshal] and [json.Unmarshal] from
// github.com/go-json-experiment/json write a Go type in the wire form
// wherever it appears in a larger structure.
//
// # Fields
//
// [As] and [DecodeField] connect the registry to the [field] package, so a
// Field can locate a value in a document and decode it in one step:
//
//	spells := field.Collect(field.ObjKey("data"), docvalue.DecodeField[Spell](r, field.Root()))
//	res := spells.Get(doc) // result.Result[[]Spell]
package docvalue
