// Copyright 2026 t9a-dev. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vm

// A CommandType identifies one kind of VM command.
type CommandType byte

const (
	CmdArithmetic CommandType = iota
	CmdPush
	CmdPop
	CmdLabel
	CmdGoto
	CmdIfGoto
	CmdFunction
	CmdCall
	CmdReturn
)

var commandTypeName = []string{
	"arithmetic",
	"push",
	"pop",
	"label",
	"goto",
	"if-goto",
	"function",
	"call",
	"return",
}

func (t CommandType) String() string {
	return commandTypeName[t]
}

// A Segment identifies one of the eight virtual memory segments a push or
// pop command may address.
type Segment byte

const (
	SegLocal Segment = iota
	SegArgument
	SegThis
	SegThat
	SegTemp
	SegConstant
	SegPointer
	SegStatic
)

var segmentName = []string{
	"local",
	"argument",
	"this",
	"that",
	"temp",
	"constant",
	"pointer",
	"static",
}

func (s Segment) String() string {
	return segmentName[s]
}

var segments = map[string]Segment{
	"local":    SegLocal,
	"argument": SegArgument,
	"this":     SegThis,
	"that":     SegThat,
	"temp":     SegTemp,
	"constant": SegConstant,
	"pointer":  SegPointer,
	"static":   SegStatic,
}

// A Command is a single classified VM command.
type Command struct {
	Type  CommandType
	Op    string  // opcode for arithmetic commands
	Seg   Segment // segment for push/pop commands
	Index int     // index for push/pop commands
	Sym   string  // name for label/goto/if-goto/function/call commands
	Count int     // locals for function commands, arguments for call commands

	line fstring // the source line the command came from
}

// Row returns the 1-based source line number the command was read from.
func (c Command) Row() int {
	return c.line.row
}
