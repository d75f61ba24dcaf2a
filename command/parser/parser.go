/*
 * M68K - Command parser.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package parser implements the monitor's command line: a table of
// commands matched by unique prefix, a small hand scanner for words
// and hex numbers, and name completion for the line editor.
package parser

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"github.com/dhadner/m68k/emu/disassemble"
	"github.com/dhadner/m68k/emu/machine"
)

// Session is the state the monitor keeps between commands: the
// machine itself plus a persistent disassembler carrying the
// operator's non-executable section markings.
type Session struct {
	Mach *machine.Machine
	dis  *disassemble.Disassembler
}

// NewSession wraps a machine for interactive use.
func NewSession(m *machine.Machine) *Session {
	return &Session{Mach: m}
}

// Disassembler returns the session's scanner, creating it on first
// use so section markings survive across commands.
func (s *Session) Disassembler() *disassemble.Disassembler {
	if s.dis == nil {
		s.dis = s.Mach.Disassembler()
	}
	return s.dis
}

type cmd struct {
	name    string // Command name.
	min     int    // Minimum match size.
	help    string
	process func(*cmdLine, *Session) (bool, error)
}

type cmdLine struct {
	line string // Current command.
	pos  int    // Position in line.
}

// ProcessCommand executes one command line, reporting quit=true when
// the monitor should exit.
func ProcessCommand(commandLine string, sess *Session) (bool, error) {
	line := cmdLine{line: commandLine}
	name := line.getWord()
	if name == "" {
		return false, nil
	}

	match := matchList(name)
	if len(match) == 0 {
		return false, errors.New("command not found: " + name)
	}
	if len(match) > 1 {
		return false, errors.New("unique command not found: " + name)
	}
	return match[0].process(&line, sess)
}

// CompleteCmd completes a partial command name, for the line editor.
func CompleteCmd(commandLine string) []string {
	line := cmdLine{line: commandLine}
	name := line.getWord()
	if !line.isEOL() {
		return nil
	}
	var out []string
	for _, c := range cmdList {
		if strings.HasPrefix(c.name, name) {
			out = append(out, c.name+" ")
		}
	}
	return out
}

// matchList finds the commands name could abbreviate: a prefix at
// least as long as each command's minimum match size.
func matchList(name string) []cmd {
	var out []cmd
	for _, c := range cmdList {
		if len(name) >= c.min && strings.HasPrefix(c.name, name) {
			out = append(out, c)
		}
	}
	return out
}

func (l *cmdLine) isEOL() bool {
	return l.pos >= len(l.line)
}

func (l *cmdLine) skipSpace() {
	for !l.isEOL() && unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
}

// getWord returns the next space-delimited word, lower-cased.
func (l *cmdLine) getWord() string {
	l.skipSpace()
	start := l.pos
	for !l.isEOL() && !unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
	return strings.ToLower(l.line[start:l.pos])
}

// getRaw returns the next word without case folding, for file names.
func (l *cmdLine) getRaw() string {
	l.skipSpace()
	start := l.pos
	for !l.isEOL() && !unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
	return l.line[start:l.pos]
}

// getNumber parses the next word as a hexadecimal number; a leading
// $ or 0x is accepted and redundant.
func (l *cmdLine) getNumber() (uint32, error) {
	word := l.getWord()
	if word == "" {
		return 0, errors.New("number expected")
	}
	word = strings.TrimPrefix(word, "$")
	word = strings.TrimPrefix(word, "0x")
	v, err := strconv.ParseUint(word, 16, 32)
	if err != nil {
		return 0, errors.New("invalid number: " + word)
	}
	return uint32(v), nil
}
