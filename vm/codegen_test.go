// Copyright 2026 t9a-dev. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vm

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// translate runs one in-memory source unit per input through a full
// translation without bootstrap code, and returns the assembly text.
func translate(t *testing.T, srcs ...string) string {
	t.Helper()

	var units []SourceUnit
	for i, src := range srcs {
		name := fmt.Sprintf("Unit%d", i)
		units = append(units, SourceUnit{Name: name, R: strings.NewReader(src)})
	}

	var buf bytes.Buffer
	err := Translate(units, &buf, Options{Bootstrap: false})
	require.NoError(t, err)
	return buf.String()
}

func countLabel(asm, sym string) int {
	return strings.Count(asm, "("+sym+")\n")
}

func TestPushConstant(t *testing.T) {
	asm := translate(t, "push constant 7")
	want := "@7\n" +
		"D=A\n" +
		"@SP\n" +
		"A=M\n" +
		"M=D\n" +
		"@SP\n" +
		"M=M+1\n" +
		"(END)\n" +
		"@END\n" +
		"0;JMP\n"
	assert.Equal(t, want, asm)
}

func TestPushPopSegments(t *testing.T) {
	tests := []struct {
		src  string
		want []string // expected lines, in order, anywhere in the output
	}{
		{"push local 2", []string{"@2", "D=A", "@LCL", "A=D+M", "D=M"}},
		{"push argument 1", []string{"@1", "D=A", "@ARG", "A=D+M", "D=M"}},
		{"push this 0", []string{"@0", "D=A", "@THIS", "A=D+M", "D=M"}},
		{"push that 4", []string{"@4", "D=A", "@THAT", "A=D+M", "D=M"}},
		{"push temp 3", []string{"@3", "D=A", "@5", "A=D+A", "D=M"}},
		{"push pointer 0", []string{"@THIS", "D=M"}},
		{"push pointer 1", []string{"@THAT", "D=M"}},
		{"push constant 7\npop local 2", []string{"@2", "D=A", "@LCL", "D=D+M", "@R13", "M=D", "@SP", "AM=M-1", "D=M", "@R13", "A=M", "M=D"}},
		{"push constant 7\npop temp 3", []string{"@3", "D=A", "@5", "D=D+A", "@R13", "M=D"}},
		{"push constant 7\npop pointer 1", []string{"@SP", "AM=M-1", "D=M", "@THAT", "M=D"}},
	}
	for _, tt := range tests {
		asm := translate(t, tt.src)
		assertLinesInOrder(t, asm, tt.want, tt.src)
	}
}

// assertLinesInOrder checks that the lines appear in the assembly in the
// given relative order.
func assertLinesInOrder(t *testing.T, asm string, lines []string, msg string) {
	t.Helper()
	rest := asm
	for _, line := range lines {
		i := strings.Index(rest, line+"\n")
		if i < 0 {
			t.Errorf("%s: line '%s' not found in order in:\n%s", msg, line, asm)
			return
		}
		rest = rest[i+len(line)+1:]
	}
}

func TestStaticSymbolsScopedPerUnit(t *testing.T) {
	asm := translate(t, "push static 0", "push static 0")
	assert.Contains(t, asm, "@Unit0.0\n")
	assert.Contains(t, asm, "@Unit1.0\n")
}

func TestSubOperandOrder(t *testing.T) {
	// sub computes x-y where x was pushed first: the top of the stack (y)
	// lands in R13 and the next pop (x) lands in D before D=D-M.
	b := arithmeticSeq("sub", 0)

	var comps []string
	for _, i := range b {
		if i.kind == kindCompute && i.dest == "D" {
			comps = append(comps, i.comp)
		}
	}
	assert.Equal(t, []string{"M", "M", "D-M"}, comps)
}

func TestUnaryOperandCount(t *testing.T) {
	for _, op := range []string{"neg", "not"} {
		b := arithmeticSeq(op, 0)
		pops := 0
		for _, i := range b {
			if i.kind == kindCompute && i.dest == "AM" && i.comp == "M-1" {
				pops++
			}
		}
		assert.Equal(t, 1, pops, op)
	}
}

func TestComparisonSentinels(t *testing.T) {
	for op, jmp := range map[string]string{"eq": "JEQ", "gt": "JGT", "lt": "JLT"} {
		b := comparisonSeq(op, 4)
		require.Len(t, b, 9, op)
		assert.Equal(t, asg("D", "D-M"), b[0], op)
		assert.Equal(t, jump("D", jmp), b[2], op)
		assert.Equal(t, asg("D", "0"), b[3], op)
		assert.Equal(t, label("TRUE.4"), b[6], op)
		assert.Equal(t, asg("D", "-1"), b[7], op)
		assert.Equal(t, label("PUSH.4"), b[8], op)
	}
}

func TestComparisonLabelsUnique(t *testing.T) {
	asm := translate(t, "push constant 1\npush constant 2\neq\npush constant 3\npush constant 4\neq")

	re := regexp.MustCompile(`\(TRUE\.(\d+)\)`)
	matches := re.FindAllStringSubmatch(asm, -1)
	require.Len(t, matches, 2)
	assert.NotEqual(t, matches[0][1], matches[1][1])
}

func TestFunctionLocals(t *testing.T) {
	asm := translate(t, "function Foo.none 0")
	assert.Equal(t, 1, countLabel(asm, "Foo.none"))
	assert.NotContains(t, asm, "M=0")

	asm = translate(t, "function Foo.three 3")
	assert.Equal(t, 1, countLabel(asm, "Foo.three"))
	assert.Equal(t, 3, strings.Count(asm, "M=0\n"))
}

func TestCallSequence(t *testing.T) {
	b := callSeq("Math.multiply", 2, 7)

	// Return-address symbol is derived from the callee name and counter.
	assert.Equal(t, at("Math.multiply$ret.7"), b[0])
	assert.Equal(t, label("Math.multiply$ret.7"), b[len(b)-1])

	// Saved bases are pushed in LCL, ARG, THIS, THAT order. A saved-base
	// push reads the base register into D before the stack append.
	var saved []string
	for i := 0; i+1 < len(b); i++ {
		if b[i].kind == kindAddr && b[i+1] == asg("D", "M") {
			switch b[i].sym {
			case "LCL", "ARG", "THIS", "THAT":
				saved = append(saved, b[i].sym)
			}
		}
	}
	assert.Equal(t, []string{"LCL", "ARG", "THIS", "THAT"}, saved)

	// ARG = SP - 5 - nargs, then LCL = SP, then jump.
	assertLinesInOrder(t, render(b), []string{
		"@2", "D=A", "@5", "D=D+A", "@SP", "D=M-D", "@ARG", "M=D",
		"@SP", "D=M", "@LCL", "M=D",
		"@Math.multiply", "0;JMP",
		"(Math.multiply$ret.7)",
	}, "call")
}

func TestReturnSequence(t *testing.T) {
	asm := render(returnSeq())

	// The return address must be captured before the return value lands in
	// *ARG, and the bases restored in THAT, THIS, ARG, LCL order before the
	// final jump through R14.
	assertLinesInOrder(t, asm, []string{
		"@LCL", "D=M", "@R13", "M=D",
		"@5", "A=D-A", "D=M", "@R14", "M=D",
		"@SP", "AM=M-1", "D=M", "@ARG", "A=M", "M=D",
		"@ARG", "D=M+1", "@SP", "M=D",
		"@R13", "AM=M-1", "D=M", "@THAT", "M=D",
		"@R13", "AM=M-1", "D=M", "@THIS", "M=D",
		"@R13", "AM=M-1", "D=M", "@ARG", "M=D",
		"@R13", "AM=M-1", "D=M", "@LCL", "M=D",
		"@R14", "A=M", "0;JMP",
	}, "return")
}

func render(b []hackInstr) string {
	var sb strings.Builder
	for _, i := range b {
		sb.WriteString(i.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

func TestBootstrap(t *testing.T) {
	var buf bytes.Buffer
	units := []SourceUnit{{Name: "Sys", R: strings.NewReader("function Sys.init 0")}}
	err := Translate(units, &buf, Options{Bootstrap: true, Entry: "Sys.init"})
	require.NoError(t, err)

	asm := buf.String()
	assert.True(t, strings.HasPrefix(asm, "@256\nD=A\n@SP\nM=D\n"))
	assert.Contains(t, asm, "@Sys.init$ret.0\n")
	assert.Equal(t, 1, strings.Count(asm, "@256\n"))
}

func TestBootstrapEmittedOnce(t *testing.T) {
	var buf bytes.Buffer
	g := NewGenerator(&buf, "Sys.init", false)
	require.NoError(t, g.WriteBootstrap())
	require.NoError(t, g.WriteBootstrap())
	require.NoError(t, g.Close())

	assert.Equal(t, 1, strings.Count(buf.String(), "@256\n"))
}

func TestEndLabelSuppressedWhenDeclared(t *testing.T) {
	asm := translate(t, "label END\ngoto END")
	assert.Equal(t, 1, countLabel(asm, "END"))
	assert.True(t, strings.HasSuffix(asm, "@END\n0;JMP\n"))

	asm = translate(t, "push constant 1")
	assert.Equal(t, 1, countLabel(asm, "END"))
}

func TestGotoAndIfGoto(t *testing.T) {
	asm := translate(t, "label LOOP\npush constant 1\nif-goto LOOP\ngoto LOOP")
	assertLinesInOrder(t, asm, []string{
		"(LOOP)",
		"@SP", "AM=M-1", "D=M", "@LOOP", "D;JNE",
		"@LOOP", "0;JMP",
	}, "if-goto/goto")
}

func TestUnsupportedSegmentErrors(t *testing.T) {
	tests := []string{
		"push constant 1\npop constant 1",
		"push pointer 2",
		"push constant 1\npop pointer 9",
		"push temp 8",
	}
	for _, src := range tests {
		var buf bytes.Buffer
		units := []SourceUnit{{Name: "Test", R: strings.NewReader(src)}}
		err := Translate(units, &buf, Options{Bootstrap: false})

		var uerr *UnsupportedSegmentError
		require.ErrorAs(t, err, &uerr, src)
	}
}

func TestStaticWithoutUnitName(t *testing.T) {
	var buf bytes.Buffer
	g := NewGenerator(&buf, "", false)

	err := g.WriteCommand(Command{Type: CmdPush, Seg: SegStatic, Index: 0})
	var ierr *InternalInvariantError
	require.ErrorAs(t, err, &ierr)
}

func TestCommentAnnotations(t *testing.T) {
	var buf bytes.Buffer
	units := []SourceUnit{{Name: "Test", R: strings.NewReader("push constant 7")}}
	err := Translate(units, &buf, Options{Bootstrap: false, Comments: true})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "// push constant 7\n")
}
