/*
 * M68K - Command executer.
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

package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dhadner/m68k/emu/disassemble"
	"github.com/dhadner/m68k/emu/machine"
	"github.com/dhadner/m68k/emu/trap"
	"github.com/dhadner/m68k/util/hex"
)

var cmdList []cmd

func init() {
	cmdList = []cmd{
		{name: "load", min: 1, help: "load <file>           load an S-record file", process: load},
		{name: "examine", min: 1, help: "examine <addr> [len]  hex dump memory", process: examine},
		{name: "deposit", min: 3, help: "deposit <addr> <b>..  write bytes", process: deposit},
		{name: "registers", min: 1, help: "registers             show CPU state", process: registers},
		{name: "step", min: 2, help: "step [n]              execute n instructions", process: step},
		{name: "go", min: 1, help: "go [addr]             run until STOP or fatal trap", process: run},
		{name: "disassemble", min: 2, help: "disassemble [a] [len] list instructions", process: list},
		{name: "data", min: 2, help: "data <a> <b> [b|w|l]  mark [a,b) as data", process: data},
		{name: "nodata", min: 3, help: "nodata [<a> <b>]      clear data markings", process: nodata},
		{name: "reset", min: 3, help: "reset                 power-on reset", process: reset},
		{name: "help", min: 1, help: "help                  this text", process: help},
		{name: "quit", min: 1, help: "quit                  leave the monitor", process: quit},
	}
}

// load reads an S-record file into memory.
func load(line *cmdLine, sess *Session) (bool, error) {
	slog.Debug("Command Load")
	path := line.getRaw()
	if path == "" {
		return false, errors.New("no file given to load command")
	}
	if err := sess.Mach.LoadSRecord(path); err != nil {
		return false, err
	}
	fmt.Printf("Loaded %s, PC=%06X\n", path, sess.Mach.CPU.PC)
	return false, nil
}

// examine hex dumps memory, 16 bytes per line with ASCII.
func examine(line *cmdLine, sess *Session) (bool, error) {
	addr, err := line.getNumber()
	if err != nil {
		return false, err
	}
	count := uint32(64)
	line.skipSpace()
	if !line.isEOL() {
		if count, err = line.getNumber(); err != nil {
			return false, err
		}
	}

	for base := addr &^ 0xF; base < addr+count; base += 16 {
		var str strings.Builder
		hex.FormatAddr(&str, base)
		str.WriteString("  ")
		var text strings.Builder
		for i := uint32(0); i < 16; i++ {
			b := sess.Mach.Mem.ReadByteRaw(base + i)
			hex.FormatByte(&str, b)
			str.WriteByte(' ')
			if b >= 0x20 && b < 0x7F {
				text.WriteByte(b)
			} else {
				text.WriteByte('.')
			}
		}
		fmt.Printf("%s %s\n", str.String(), text.String())
	}
	return false, nil
}

// deposit writes byte values at an address.
func deposit(line *cmdLine, sess *Session) (bool, error) {
	addr, err := line.getNumber()
	if err != nil {
		return false, err
	}
	wrote := 0
	for {
		line.skipSpace()
		if line.isEOL() {
			break
		}
		v, err := line.getNumber()
		if err != nil {
			return false, err
		}
		if v > 0xFF {
			return false, errors.New("deposit values are bytes")
		}
		if trp := sess.Mach.Mem.WriteByte(addr+uint32(wrote), uint8(v)); trp != nil {
			return false, errors.New(trp.String())
		}
		wrote++
	}
	if wrote == 0 {
		return false, errors.New("no bytes given to deposit command")
	}
	return false, nil
}

func registers(_ *cmdLine, sess *Session) (bool, error) {
	fmt.Print(sess.Mach.Dump())
	return false, nil
}

// step runs one or more instructions, reporting each one and any trap.
func step(line *cmdLine, sess *Session) (bool, error) {
	n := uint32(1)
	line.skipSpace()
	if !line.isEOL() {
		var err error
		if n, err = line.getNumber(); err != nil {
			return false, err
		}
	}
	for i := uint32(0); i < n; i++ {
		rec := sess.Disassembler().Instruction(sess.Mach.CPU.PC)
		fmt.Printf("%06X  %s\n", rec.Addr, rec.Text)
		if trp := sess.Mach.ExecuteInstruction(); trp != nil {
			fmt.Printf("trap %d: %s\n", trp.Vector, trp)
			break
		}
		if sess.Mach.CPU.Stopped {
			fmt.Println("stopped")
			break
		}
	}
	fmt.Print(sess.Mach.Dump())
	return false, nil
}

// echoTraps prints every non-fatal trap and keeps running, which is
// what an operator poking at a program wants from the monitor.
type echoTraps struct{}

func (echoTraps) HandleTrap(_ *machine.Machine, t *trap.Trap) error {
	fmt.Printf("trap %d: %s at %06X\n", t.Vector, t, t.PC)
	return nil
}

func run(line *cmdLine, sess *Session) (bool, error) {
	slog.Debug("Command Go")
	line.skipSpace()
	if !line.isEOL() {
		addr, err := line.getNumber()
		if err != nil {
			return false, err
		}
		sess.Mach.CPU.PC = addr
	}
	sess.Mach.Resume()
	sess.Mach.SetTrapHandler(echoTraps{})
	if err := sess.Mach.Execute(); err != nil {
		return false, err
	}
	fmt.Print(sess.Mach.Dump())
	return false, nil
}

func list(line *cmdLine, sess *Session) (bool, error) {
	addr := sess.Mach.CPU.PC
	count := uint32(32)
	line.skipSpace()
	if !line.isEOL() {
		var err error
		if addr, err = line.getNumber(); err != nil {
			return false, err
		}
		line.skipSpace()
		if !line.isEOL() {
			if count, err = line.getNumber(); err != nil {
				return false, err
			}
		}
	}
	for _, rec := range sess.Disassembler().Disassemble(addr, count) {
		fmt.Printf("%06X  %s\n", rec.Addr, rec.Text)
	}
	return false, nil
}

func data(line *cmdLine, sess *Session) (bool, error) {
	start, err := line.getNumber()
	if err != nil {
		return false, err
	}
	end, err := line.getNumber()
	if err != nil {
		return false, err
	}
	hint := disassemble.HintAuto
	switch line.getWord() {
	case "b", "byte":
		hint = disassemble.HintByte
	case "w", "word":
		hint = disassemble.HintWord
	case "l", "long":
		hint = disassemble.HintLong
	case "":
	default:
		return false, errors.New("size is b, w, or l")
	}
	sess.Disassembler().AddSection(start, end, hint)
	return false, nil
}

func nodata(line *cmdLine, sess *Session) (bool, error) {
	line.skipSpace()
	if line.isEOL() {
		sess.Disassembler().ClearSections()
		return false, nil
	}
	start, err := line.getNumber()
	if err != nil {
		return false, err
	}
	end, err := line.getNumber()
	if err != nil {
		return false, err
	}
	sess.Disassembler().ClearSectionRange(start, end)
	return false, nil
}

func reset(_ *cmdLine, sess *Session) (bool, error) {
	slog.Debug("Command Reset")
	sess.Mach.Reset()
	return false, nil
}

func help(_ *cmdLine, _ *Session) (bool, error) {
	for _, c := range cmdList {
		fmt.Println(c.help)
	}
	return false, nil
}

func quit(_ *cmdLine, _ *Session) (bool, error) {
	return true, nil
}
