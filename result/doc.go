// SPDX-FileCopyrightText: © 2024 Donald Hoelle. All rights reserved.
// SPDX-License-Identifier: MIT
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package result provides [Result], a success-or-failure value, and
// [Option], a present-or-absent value.
//
// They carry expected conditions such as a missing object key or a value of
// the wrong kind without panicking. Only [Result.Get] and [Option.Get]
// panic, when asked for a value that is not there; [Result.Unwrap] is the
// error-returning alternative.
//
// Both wrap the types of [github.com/samber/mo]; a failure reason is held
// as an [ErrFailure].
package result
