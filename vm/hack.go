// Copyright 2026 t9a-dev. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vm

import (
	"fmt"
	"strconv"
)

// Hack predefined symbols used by the generated code.
const (
	regSP   = "SP"
	regLCL  = "LCL"
	regARG  = "ARG"
	regTHIS = "THIS"
	regTHAT = "THAT"
	regR13  = "R13" // scratch: popped operand / pop destination / return frame
	regR14  = "R14" // scratch: return address
)

const (
	stackBase  = 256 // initial stack pointer value
	tempBase   = 5   // first address of the temp segment
	tempSlots  = 8   // size of the temp segment
	savedFrame = 5   // words between a callee's LCL and the saved return address
)

// endLabel is the reserved terminal label. The closing infinite loop jumps
// to it, and its declaration is suppressed when the translated program
// already declares it.
const endLabel = "END"

// An instrKind selects one of the Hack assembly line shapes.
type instrKind byte

const (
	kindAddr    instrKind = iota // @symbol-or-number
	kindCompute                  // dest=comp;jump
	kindLabel                    // (symbol)
	kindComment                  // // text
)

// A hackInstr is a single line of Hack assembly, kept in structured form
// until rendered. Emission sequences are built as []hackInstr so they can
// be inspected by tests without scraping text.
type hackInstr struct {
	kind instrKind
	sym  string // address or label symbol, or comment text
	dest string
	comp string
	jump string
}

func (i hackInstr) String() string {
	switch i.kind {
	case kindAddr:
		return "@" + i.sym
	case kindLabel:
		return "(" + i.sym + ")"
	case kindComment:
		return commentToken + " " + i.sym
	default:
		s := i.comp
		if i.dest != "" {
			s = i.dest + "=" + s
		}
		if i.jump != "" {
			s = s + ";" + i.jump
		}
		return s
	}
}

// at loads the address register with a symbol.
func at(sym string) hackInstr {
	return hackInstr{kind: kindAddr, sym: sym}
}

// atn loads the address register with a number.
func atn(n int) hackInstr {
	return hackInstr{kind: kindAddr, sym: strconv.Itoa(n)}
}

// asg emits a computation with a destination, e.g. asg("D", "M+1").
func asg(dest, comp string) hackInstr {
	return hackInstr{kind: kindCompute, dest: dest, comp: comp}
}

// jump emits a computation followed by a jump, e.g. jump("D", "JEQ").
func jump(comp, jmp string) hackInstr {
	return hackInstr{kind: kindCompute, comp: comp, jump: jmp}
}

// label declares a label at the current position.
func label(sym string) hackInstr {
	return hackInstr{kind: kindLabel, sym: sym}
}

// comment emits a source annotation line.
func comment(format string, args ...any) hackInstr {
	return hackInstr{kind: kindComment, sym: fmt.Sprintf(format, args...)}
}

// popD removes the top of the stack and leaves it in the data register.
func popD() []hackInstr {
	return []hackInstr{at(regSP), asg("AM", "M-1"), asg("D", "M")}
}

// pushD appends the data register to the top of the stack.
func pushD() []hackInstr {
	return []hackInstr{at(regSP), asg("A", "M"), asg("M", "D"), at(regSP), asg("M", "M+1")}
}

// pushZero appends a zero-initialized word to the top of the stack.
func pushZero() []hackInstr {
	return []hackInstr{at(regSP), asg("A", "M"), asg("M", "0"), at(regSP), asg("M", "M+1")}
}

func cat(seqs ...[]hackInstr) []hackInstr {
	var out []hackInstr
	for _, s := range seqs {
		out = append(out, s...)
	}
	return out
}
