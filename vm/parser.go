// Copyright 2026 t9a-dev. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vm

import "strconv"

var arithmeticOps = map[string]bool{
	"add": true,
	"sub": true,
	"neg": true,
	"eq":  true,
	"gt":  true,
	"lt":  true,
	"and": true,
	"or":  true,
	"not": true,
}

// parseLine classifies one trimmed, non-empty, non-comment source line into
// a Command. Dispatch order: arithmetic opcodes, then push/pop, then
// label/goto/if-goto, then function/call/return.
func parseLine(line fstring) (Command, error) {
	word, remain := line.consumeWord()

	switch {
	case arithmeticOps[word.str]:
		c := Command{Type: CmdArithmetic, Op: word.str, line: line}
		return c, expectEnd(line, remain)

	case word.str == "push":
		return parsePushPop(CmdPush, line, remain)
	case word.str == "pop":
		return parsePushPop(CmdPop, line, remain)

	case word.str == "label":
		return parseBranch(CmdLabel, line, remain)
	case word.str == "goto":
		return parseBranch(CmdGoto, line, remain)
	case word.str == "if-goto":
		return parseBranch(CmdIfGoto, line, remain)

	case word.str == "function":
		return parseFunc(CmdFunction, line, remain)
	case word.str == "call":
		return parseFunc(CmdCall, line, remain)
	case word.str == "return":
		c := Command{Type: CmdReturn, line: line}
		return c, expectEnd(line, remain)

	default:
		return Command{}, syntaxError(line, "unrecognized command '%s'", word.str)
	}
}

// parsePushPop parses the "<segment> <index>" operands of a push or pop.
func parsePushPop(t CommandType, line, remain fstring) (Command, error) {
	segWord, remain := remain.consumeWord()
	if segWord.isEmpty() {
		return Command{}, syntaxError(line, "%s requires a segment and an index", t)
	}

	idxWord, remain := remain.consumeWord()
	index, err := parseIndex(line, idxWord)
	if err != nil {
		return Command{}, err
	}

	seg, ok := segments[segWord.str]
	if !ok {
		return Command{}, &UnsupportedSegmentError{Segment: segWord.str, Index: index}
	}

	c := Command{Type: t, Seg: seg, Index: index, line: line}
	return c, expectEnd(line, remain)
}

// parseBranch parses the single label operand of label, goto and if-goto.
func parseBranch(t CommandType, line, remain fstring) (Command, error) {
	sym, remain := remain.consumeWord()
	if err := validateSymbol(line, sym); err != nil {
		return Command{}, err
	}

	c := Command{Type: t, Sym: sym.str, line: line}
	return c, expectEnd(line, remain)
}

// parseFunc parses the "<name> <integer>" operands of function and call.
func parseFunc(t CommandType, line, remain fstring) (Command, error) {
	sym, remain := remain.consumeWord()
	if err := validateSymbol(line, sym); err != nil {
		return Command{}, err
	}

	cntWord, remain := remain.consumeWord()
	count, err := parseIndex(line, cntWord)
	if err != nil {
		return Command{}, err
	}

	c := Command{Type: t, Sym: sym.str, Count: count, line: line}
	return c, expectEnd(line, remain)
}

// parseIndex parses a non-negative integer operand.
func parseIndex(line, word fstring) (int, error) {
	if word.isEmpty() {
		return 0, syntaxError(line, "missing integer operand")
	}
	n, err := strconv.Atoi(word.str)
	if err != nil || n < 0 {
		return 0, syntaxError(line, "invalid integer operand '%s'", word.str)
	}
	return n, nil
}

// validateSymbol checks a label or function name operand. Hack symbols are
// letters, digits, '_', '.', '$' and ':', and may not start with a digit.
func validateSymbol(line, word fstring) error {
	if word.isEmpty() {
		return syntaxError(line, "missing name operand")
	}
	if !symbolStartChar(word.str[0]) {
		return syntaxError(line, "invalid name '%s'", word.str)
	}
	for i := 1; i < len(word.str); i++ {
		if !symbolChar(word.str[i]) {
			return syntaxError(line, "invalid name '%s'", word.str)
		}
	}
	return nil
}

// expectEnd reports an arity error if any operand remains unconsumed.
func expectEnd(line, remain fstring) error {
	if !remain.isEmpty() {
		return syntaxError(line, "unexpected operand '%s'", remain.str)
	}
	return nil
}
