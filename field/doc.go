// SPDX-FileCopyrightText: © 2024 Donald Hoelle. All rights reserved.
// SPDX-License-Identifier: MIT
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package field extracts typed results from value trees.
//
// A [Path] navigates object keys and array indexes. A [Field] pairs a Path
// with a coercion from [value.Value] to a Go type. Both are immutable and
// touch no data until applied, so they are usually declared once:
//
//	var (
//	  name     = field.To(field.ObjKey("data", "name"), field.AsString)
//	  elements = field.Collect(field.ObjKey("data", "elements"), field.To(field.Root(), field.AsString))
//	)
//
//	n := name.Get(doc)         // result.Result[string]
//	els := elements.Get(doc)   // result.Result[[]string]
//
// Misses and kind mismatches are failed Results with a message naming the
// path, e.g.:
//
//	Cannot find path "data/missing". Object key "missing" not found
package field
