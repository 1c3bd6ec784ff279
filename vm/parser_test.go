// Copyright 2026 t9a-dev. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, line string) Command {
	t.Helper()
	c, err := parseLine(newFstring(1, line).consumeWhitespace().stripComment())
	require.NoError(t, err, "line %q", line)
	return c
}

func TestParseArithmetic(t *testing.T) {
	for _, op := range []string{"add", "sub", "neg", "eq", "gt", "lt", "and", "or", "not"} {
		c := parse(t, op)
		assert.Equal(t, CmdArithmetic, c.Type)
		assert.Equal(t, op, c.Op)
	}
}

func TestParsePushPop(t *testing.T) {
	tests := []struct {
		line  string
		typ   CommandType
		seg   Segment
		index int
	}{
		{"push constant 7", CmdPush, SegConstant, 7},
		{"push local 0", CmdPush, SegLocal, 0},
		{"push argument 2", CmdPush, SegArgument, 2},
		{"push this 6", CmdPush, SegThis, 6},
		{"push that 5", CmdPush, SegThat, 5},
		{"push temp 6", CmdPush, SegTemp, 6},
		{"push pointer 1", CmdPush, SegPointer, 1},
		{"push static 3", CmdPush, SegStatic, 3},
		{"pop local 0", CmdPop, SegLocal, 0},
		{"pop temp 7", CmdPop, SegTemp, 7},
		{"pop static 8", CmdPop, SegStatic, 8},
		{"push constant 7 // lucky", CmdPush, SegConstant, 7},
		{"  push\tconstant  7  ", CmdPush, SegConstant, 7},
	}
	for _, tt := range tests {
		c := parse(t, tt.line)
		assert.Equal(t, tt.typ, c.Type, tt.line)
		assert.Equal(t, tt.seg, c.Seg, tt.line)
		assert.Equal(t, tt.index, c.Index, tt.line)
	}
}

func TestParseBranching(t *testing.T) {
	tests := []struct {
		line string
		typ  CommandType
		sym  string
	}{
		{"label LOOP_START", CmdLabel, "LOOP_START"},
		{"goto END_PROGRAM", CmdGoto, "END_PROGRAM"},
		{"if-goto Main.loop$top", CmdIfGoto, "Main.loop$top"},
	}
	for _, tt := range tests {
		c := parse(t, tt.line)
		assert.Equal(t, tt.typ, c.Type, tt.line)
		assert.Equal(t, tt.sym, c.Sym, tt.line)
	}
}

func TestParseFunctions(t *testing.T) {
	c := parse(t, "function Sys.init 0")
	assert.Equal(t, CmdFunction, c.Type)
	assert.Equal(t, "Sys.init", c.Sym)
	assert.Equal(t, 0, c.Count)

	c = parse(t, "call Math.multiply 2")
	assert.Equal(t, CmdCall, c.Type)
	assert.Equal(t, "Math.multiply", c.Sym)
	assert.Equal(t, 2, c.Count)

	c = parse(t, "return")
	assert.Equal(t, CmdReturn, c.Type)
}

func TestParseSyntaxErrors(t *testing.T) {
	lines := []string{
		"frobnicate",
		"add 1",
		"return now",
		"push",
		"push local",
		"push local x",
		"push local -1",
		"push local 1 2",
		"pop constant",
		"label",
		"label 1bad",
		"goto bad name",
		"function f",
		"function f x",
		"call f 1 2",
		"if-goto",
	}
	for _, line := range lines {
		_, err := parseLine(newFstring(3, line))
		require.Error(t, err, "line %q", line)

		var serr *SyntaxError
		require.ErrorAs(t, err, &serr, "line %q", line)
		assert.Equal(t, 3, serr.Row)
	}
}

func TestParseUnknownSegment(t *testing.T) {
	_, err := parseLine(newFstring(1, "push bogus 3"))
	var uerr *UnsupportedSegmentError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "bogus", uerr.Segment)
	assert.Equal(t, 3, uerr.Index)
}

func TestStripComment(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"// full comment line", ""},
		{"push constant 7 // trailing", "push constant 7"},
		{"push constant 7", "push constant 7"},
		{"   ", ""},
	}
	for _, tt := range tests {
		got := newFstring(1, tt.in).consumeWhitespace().stripComment()
		assert.Equal(t, tt.want, got.str, tt.in)
	}
}
