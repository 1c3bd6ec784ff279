// Copyright 2026 t9a-dev. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vm

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// segmentBase maps the four base-register segments to their Hack symbols.
var segmentBase = map[Segment]string{
	SegLocal:    regLCL,
	SegArgument: regARG,
	SegThis:     regTHIS,
	SegThat:     regTHAT,
}

// comparisonJump maps comparison opcodes to the Hack jump condition applied
// to x-y.
var comparisonJump = map[string]string{
	"eq": "JEQ",
	"gt": "JGT",
	"lt": "JLT",
}

// binaryComp maps the remaining binary opcodes to their ALU computation,
// with the first-pushed operand in D and the second in M.
var binaryComp = map[string]string{
	"add": "D+M",
	"sub": "D-M",
	"and": "D&M",
	"or":  "D|M",
}

// A Generator lowers classified VM commands into Hack assembly text. State
// persists for one translation run: the uniqueness counter is never reset,
// and the bootstrap sequence is emitted at most once.
type Generator struct {
	w        *bufio.Writer
	unit     string // current source unit name; scopes static symbols
	seq      int    // monotonic label uniqueness counter
	entry    string // function the bootstrap sequence calls
	booted   bool   // bootstrap already emitted
	endSeen  bool   // the program declared the reserved END label itself
	comments bool   // annotate output with the source commands
}

// NewGenerator returns a generator that appends Hack assembly to w. The
// entry function name is used by the bootstrap sequence.
func NewGenerator(w io.Writer, entry string, comments bool) *Generator {
	if entry == "" {
		entry = "Sys.init"
	}
	return &Generator{
		w:        bufio.NewWriter(w),
		entry:    entry,
		comments: comments,
	}
}

// SetSourceUnit switches the scope prefix used for static-segment symbols.
// It is called once per source unit, before that unit's commands.
func (g *Generator) SetSourceUnit(name string) {
	g.unit = name
}

// WriteBootstrap initializes the stack pointer and calls the entry function
// with zero arguments. It is a no-op after the first call.
func (g *Generator) WriteBootstrap() error {
	if g.booted {
		return nil
	}
	g.booted = true

	b := []hackInstr{atn(stackBase), asg("D", "A"), at(regSP), asg("M", "D")}
	if g.comments {
		b = append([]hackInstr{comment("bootstrap")}, b...)
	}
	b = append(b, callSeq(g.entry, 0, g.seq)...)
	g.seq++
	return g.emit(b)
}

// WriteCommand lowers a single command and advances the uniqueness counter.
func (g *Generator) WriteCommand(c Command) error {
	var b []hackInstr
	var err error

	switch c.Type {
	case CmdArithmetic:
		b = arithmeticSeq(c.Op, g.seq)
	case CmdPush:
		b, err = g.pushSeq(c)
	case CmdPop:
		b, err = g.popSeq(c)
	case CmdLabel:
		if c.Sym == endLabel {
			g.endSeen = true
		}
		b = []hackInstr{label(c.Sym)}
	case CmdGoto:
		b = []hackInstr{at(c.Sym), jump("0", "JMP")}
	case CmdIfGoto:
		b = cat(popD(), []hackInstr{at(c.Sym), jump("D", "JNE")})
	case CmdFunction:
		b = functionSeq(c.Sym, c.Count)
	case CmdCall:
		b = callSeq(c.Sym, c.Count, g.seq)
	case CmdReturn:
		b = returnSeq()
	default:
		err = &InternalInvariantError{Reason: fmt.Sprintf("unknown command type %d", c.Type)}
	}
	if err != nil {
		return err
	}

	if g.comments {
		b = append([]hackInstr{comment("%s", c.line.str)}, b...)
	}
	g.seq++
	return g.emit(b)
}

// Close appends the terminating infinite loop and flushes the output. The
// END label declaration is suppressed if the program declared it already.
func (g *Generator) Close() error {
	b := []hackInstr{at(endLabel), jump("0", "JMP")}
	if !g.endSeen {
		b = append([]hackInstr{label(endLabel)}, b...)
	}
	if err := g.emit(b); err != nil {
		return err
	}
	return g.w.Flush()
}

func (g *Generator) emit(b []hackInstr) error {
	for _, i := range b {
		if _, err := g.w.WriteString(i.String()); err != nil {
			return err
		}
		if err := g.w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return nil
}

// pushSeq computes the pushed value into D per the segment kind, then
// appends it to the stack.
func (g *Generator) pushSeq(c Command) ([]hackInstr, error) {
	var load []hackInstr
	switch c.Seg {
	case SegConstant:
		load = []hackInstr{atn(c.Index), asg("D", "A")}
	case SegStatic:
		sym, err := g.staticSym(c.Index)
		if err != nil {
			return nil, err
		}
		load = []hackInstr{at(sym), asg("D", "M")}
	case SegPointer:
		base, err := pointerBase(c.Index)
		if err != nil {
			return nil, err
		}
		load = []hackInstr{at(base), asg("D", "M")}
	case SegTemp:
		if c.Index >= tempSlots {
			return nil, &UnsupportedSegmentError{Segment: c.Seg.String(), Index: c.Index}
		}
		load = []hackInstr{atn(c.Index), asg("D", "A"), atn(tempBase), asg("A", "D+A"), asg("D", "M")}
	default:
		load = []hackInstr{atn(c.Index), asg("D", "A"), at(segmentBase[c.Seg]), asg("A", "D+M"), asg("D", "M")}
	}
	return cat(load, pushD()), nil
}

// popSeq computes the destination address, pops the stack top into D and
// stores it. Base-register segments stage the address in R13 because the
// pop clobbers both A and D.
func (g *Generator) popSeq(c Command) ([]hackInstr, error) {
	switch c.Seg {
	case SegConstant:
		return nil, &UnsupportedSegmentError{Segment: c.Seg.String(), Index: c.Index}
	case SegStatic:
		sym, err := g.staticSym(c.Index)
		if err != nil {
			return nil, err
		}
		return cat(popD(), []hackInstr{at(sym), asg("M", "D")}), nil
	case SegPointer:
		base, err := pointerBase(c.Index)
		if err != nil {
			return nil, err
		}
		return cat(popD(), []hackInstr{at(base), asg("M", "D")}), nil
	case SegTemp:
		if c.Index >= tempSlots {
			return nil, &UnsupportedSegmentError{Segment: c.Seg.String(), Index: c.Index}
		}
		addr := []hackInstr{atn(c.Index), asg("D", "A"), atn(tempBase), asg("D", "D+A")}
		return cat(addr, stashAndStore()), nil
	default:
		addr := []hackInstr{atn(c.Index), asg("D", "A"), at(segmentBase[c.Seg]), asg("D", "D+M")}
		return cat(addr, stashAndStore()), nil
	}
}

// stashAndStore saves the destination address in D to R13, pops the stack
// top and stores it through R13.
func stashAndStore() []hackInstr {
	return cat(
		[]hackInstr{at(regR13), asg("M", "D")},
		popD(),
		[]hackInstr{at(regR13), asg("A", "M"), asg("M", "D")},
	)
}

func (g *Generator) staticSym(index int) (string, error) {
	if g.unit == "" {
		return "", &InternalInvariantError{Reason: "static access with no source unit set"}
	}
	return g.unit + "." + strconv.Itoa(index), nil
}

func pointerBase(index int) (string, error) {
	switch index {
	case 0:
		return regTHIS, nil
	case 1:
		return regTHAT, nil
	default:
		return "", &UnsupportedSegmentError{Segment: "pointer", Index: index}
	}
}

// arithmeticSeq lowers one arithmetic, logical or comparison opcode. The
// stack top (y) is popped into R13; binary operators pop the new top (x)
// into D and compute x op y against M.
func arithmeticSeq(op string, seq int) []hackInstr {
	unary := op == "neg" || op == "not"

	b := cat(popD(), []hackInstr{at(regR13), asg("M", "D")})
	if !unary {
		b = append(b, popD()...)
	}
	b = append(b, at(regR13))

	switch {
	case op == "neg":
		b = append(b, asg("D", "-M"))
	case op == "not":
		b = append(b, asg("D", "!M"))
	case comparisonJump[op] != "":
		b = append(b, comparisonSeq(op, seq)...)
	default:
		b = append(b, asg("D", binaryComp[op]))
	}

	return append(b, pushD()...)
}

// comparisonSeq branches on the sign of x-y, leaving the boolean sentinel
// in D: -1 for true, 0 for false. Labels are keyed by the uniqueness
// counter so that no two comparison sites in a run collide.
func comparisonSeq(op string, seq int) []hackInstr {
	trueSym := fmt.Sprintf("TRUE.%d", seq)
	joinSym := fmt.Sprintf("PUSH.%d", seq)
	return []hackInstr{
		asg("D", "D-M"),
		at(trueSym),
		jump("D", comparisonJump[op]),
		asg("D", "0"),
		at(joinSym),
		jump("0", "JMP"),
		label(trueSym),
		asg("D", "-1"),
		label(joinSym),
	}
}

// functionSeq declares the entry label and pushes count zero-initialized
// local slots.
func functionSeq(name string, count int) []hackInstr {
	b := []hackInstr{label(name)}
	for i := 0; i < count; i++ {
		b = append(b, pushZero()...)
	}
	return b
}

// callSeq emits the caller half of the calling convention: push the return
// address, save the four segment bases, reposition ARG and LCL, jump to the
// callee and declare the resumption label.
func callSeq(name string, nargs, seq int) []hackInstr {
	ret := fmt.Sprintf("%s$ret.%d", name, seq)
	b := cat(
		[]hackInstr{at(ret), asg("D", "A")},
		pushD(),
	)
	for _, base := range []string{regLCL, regARG, regTHIS, regTHAT} {
		b = append(b, at(base), asg("D", "M"))
		b = append(b, pushD()...)
	}
	b = append(b,
		// ARG = SP - 5 - nargs
		atn(nargs), asg("D", "A"),
		atn(savedFrame), asg("D", "D+A"),
		at(regSP), asg("D", "M-D"),
		at(regARG), asg("M", "D"),
		// LCL = SP
		at(regSP), asg("D", "M"),
		at(regLCL), asg("M", "D"),
		at(name), jump("0", "JMP"),
		label(ret),
	)
	return b
}

// returnSeq emits the callee half of the calling convention. The return
// address is captured before the return value lands in *ARG: with zero
// arguments the two share a stack slot.
func returnSeq() []hackInstr {
	b := []hackInstr{
		// R13 = frame (= LCL)
		at(regLCL), asg("D", "M"),
		at(regR13), asg("M", "D"),
		// R14 = *(frame - 5), the return address
		atn(savedFrame), asg("A", "D-A"), asg("D", "M"),
		at(regR14), asg("M", "D"),
	}
	// *ARG = pop()
	b = append(b, popD()...)
	b = append(b,
		at(regARG), asg("A", "M"), asg("M", "D"),
		// SP = ARG + 1
		at(regARG), asg("D", "M+1"),
		at(regSP), asg("M", "D"),
	)
	// Restore THAT, THIS, ARG, LCL from frame-1 .. frame-4.
	for _, base := range []string{regTHAT, regTHIS, regARG, regLCL} {
		b = append(b,
			at(regR13), asg("AM", "M-1"), asg("D", "M"),
			at(base), asg("M", "D"),
		)
	}
	return append(b, at(regR14), asg("A", "M"), jump("0", "JMP"))
}
