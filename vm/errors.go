// Copyright 2026 t9a-dev. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vm

import "fmt"

// A SyntaxError reports a malformed or unrecognized VM command.
type SyntaxError struct {
	Line   string // offending line content
	Row    int    // 1-based line number
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error on line %d: %s: '%s'", e.Row, e.Reason, e.Line)
}

// An UnsupportedSegmentError reports an unknown segment name or an invalid
// segment and index combination.
type UnsupportedSegmentError struct {
	Segment string
	Index   int
}

func (e *UnsupportedSegmentError) Error() string {
	return fmt.Sprintf("unsupported segment '%s %d'", e.Segment, e.Index)
}

// An InternalInvariantError reports misuse of generator state. It is never
// triggered by translated input.
type InternalInvariantError struct {
	Reason string
}

func (e *InternalInvariantError) Error() string {
	return "internal invariant violated: " + e.Reason
}

func syntaxError(line fstring, format string, args ...any) error {
	return &SyntaxError{
		Line:   line.full,
		Row:    line.row,
		Reason: fmt.Sprintf(format, args...),
	}
}
