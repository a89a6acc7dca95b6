// SPDX-FileCopyrightText: © 2024 Donald Hoelle. All rights reserved.
// SPDX-License-Identifier: MIT
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package value defines the closed set of document values exchanged with
// the database and their tagged JSON wire form.
//
// Every [Value] is immutable once constructed. Containers ([ArrayV],
// [ObjectV], [SetRefV]) copy their inputs, and [BytesV] never exposes its
// backing storage.
//
// # Wire form
//
// Scalars and arrays map directly onto JSON. A JSON object with exactly one
// key that is a reserved tag is read as a special value:
//
//	{"@ref":   {"id": "42", "collection": {"@ref": {"id": "spells", "collection": {"@ref": {"id": "collections"}}}}}}
//	{"@ts":    "2024-01-02T03:04:05.0000000Z"}
//	{"@date":  "2024-01-02"}
//	{"@bytes": "AQID"}
//	{"@set":   {"match": {"@ref": ...}, "terms": "fire"}}
//	{"@query": {"lambda": "x", "expr": {"var": "x"}}}
//	{"@obj":   {"@ts": "not a timestamp"}}
//
// "@obj" escapes a literal data object whose only key would otherwise be
// taken for a tag.
//
// [Marshal] and [Write] take a [Mode]. [DataMode] produces the form read by
// [Unmarshal], so values round-trip. [ParamMode] produces request
// parameters, where each data object is wrapped as {"object": {...}} so the
// server does not mistake it for a function call like {"add": [1, 2]}.
//
// To embed values in larger Go structures, use [JSONOptions] with
// [github.com/go-json-experiment/json]:
//
//	type request struct {
//	  Query  string      `json:"query"`
//	  Params value.Value `json:"params"`
//	}
//	b, err := json.Marshal(req, value.JSONOptions(value.ParamMode))
package value
