// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bq

import (
	"errors"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates an operation could not proceed without waiting.
//
// The buffer operations themselves report refusal and timeout as plain
// values (false, or a missing item). ErrWouldBlock is the error form of
// that outcome for callers that normalize every operation to an error,
// such as periodic drivers that treat "no item" as a non-failure:
//
//	if !b.Add(v) {
//	    err = bq.ErrWouldBlock
//	}
//	if !bq.IsNonFailure(err) {
//	    return err // cancelled or broken
//	}
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
var ErrWouldBlock = iox.ErrWouldBlock

var (
	// ErrCapacityViolation reports an insert into a full ring or a removal
	// from an empty ring. It is only ever raised as a panic: reaching it
	// means the synchronization protocol is broken.
	ErrCapacityViolation = errors.New("bq: ring capacity violated")

	// ErrUnknownImpl reports an implementation selector outside the known set.
	ErrUnknownImpl = errors.New("bq: unknown implementation")

	// errTimedOut is returned by internal waits whose deadline passed.
	errTimedOut = errors.New("bq: deadline passed")
)

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Returns true for nil or ErrWouldBlock.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}
