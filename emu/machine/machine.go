/*
   M68K machine: binds memory, CPU state, decoder, and execution
   engine behind the load/execute entry points a host drives.

   Copyright (c) 2024, Richard Cornwell

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
   ROBERT M SUPNIK BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

*/

// Package machine is the composition root: it owns the memory image
// and register file, wires the decoder and execution engine over
// them, and exposes the host-facing load, execute, and state-access
// operations. Architectural exceptions and host-visible errors travel
// on separate channels: ExecuteInstruction returns a *trap.Trap, while
// Execute converts only the fatal ones into an error and feeds the
// rest to the host's TrapHandler.
package machine

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dhadner/m68k/emu/cpu"
	"github.com/dhadner/m68k/emu/decoder"
	"github.com/dhadner/m68k/emu/disassemble"
	"github.com/dhadner/m68k/emu/exec"
	"github.com/dhadner/m68k/emu/memory"
	"github.com/dhadner/m68k/emu/trap"
	"github.com/dhadner/m68k/util/debug"
	"github.com/dhadner/m68k/util/hex"
)

// TrapHandler receives every trap Execute encounters except bus and
// address errors: TRAP #N, LineA/LineF, and the other architectural
// exceptions. Bus and address errors are always fatal; which traps are
// fatal is not configurable. The emulator never vectors through
// memory itself. Returning an error stops the execute loop.
type TrapHandler interface {
	HandleTrap(m *Machine, t *trap.Trap) error
}

// Options configures a new Machine. The zero value selects a 16 MiB
// flat memory, no trap handler, and the default logger.
type Options struct {
	// MemorySize in bytes; 0 selects memory.DefaultSize.
	MemorySize uint32

	// Memory substitutes a host implementation (memory-mapped I/O);
	// nil constructs the default flat image of MemorySize bytes.
	Memory memory.Memory

	// EndAtCallDepthZero makes Execute return when an RTS pops past
	// the bottom of the call stack, for running a single subroutine.
	EndAtCallDepthZero bool

	TrapHandler TrapHandler

	Logger *slog.Logger
}

// Machine owns the emulated processor and its memory for their whole
// lifetime. It is single-threaded: a host either runs Execute to
// completion or steps via ExecuteInstruction, with exclusive access
// between calls.
type Machine struct {
	Mem memory.Memory
	CPU *cpu.State

	dec   *decoder.Decoder
	eng   *exec.Engine
	traps TrapHandler
	dbg   debug.Debugger
	log   *slog.Logger
}

// New builds a Machine from opts (nil for all defaults) and resets it
// to the power-on state.
func New(opts *Options) *Machine {
	if opts == nil {
		opts = &Options{}
	}
	mem := opts.Memory
	if mem == nil {
		mem = memory.New(opts.MemorySize)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	state := &cpu.State{}
	m := &Machine{
		Mem:   mem,
		CPU:   state,
		dec:   decoder.New(mem),
		eng:   exec.New(state, mem),
		traps: opts.TrapHandler,
		dbg:   debug.Nop{},
		log:   logger,
	}
	m.eng.EndAtCallDepthZero = opts.EndAtCallDepthZero
	m.Reset()
	return m
}

// FatalError wraps a trap the execute loop cannot continue past:
// bus and address errors from malformed input, or any trap the host
// left without a handler.
type FatalError struct {
	Trap   *trap.Trap
	Reason string
}

func (e *FatalError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s at %06X", e.Reason, e.Trap, e.Trap.PC)
	}
	return fmt.Sprintf("%s at %06X", e.Trap, e.Trap.PC)
}

// AttachDebugger wires the host debugger hook into memory access
// notification and execute-loop cancellation.
func (m *Machine) AttachDebugger(d debug.Debugger) {
	if d == nil {
		d = debug.Nop{}
	}
	m.dbg = d
	m.Mem.AttachDebugger(d)
}

// SetTrapHandler replaces the host trap dispatch hook.
func (m *Machine) SetTrapHandler(h TrapHandler) {
	m.traps = h
}

// Reset returns the machine to the power-on state: all registers
// zero, supervisor mode, interrupt mask 7. Memory is untouched.
func (m *Machine) Reset() {
	m.CPU.Reset()
	m.eng.Finished = false
	m.log.Debug("machine reset")
}

// Resume clears the STOP state so Execute can continue.
func (m *Machine) Resume() {
	m.CPU.Stopped = false
}

// LoadExecutable copies a program image into memory at the given
// address, optionally zeroing memory first, and points PC at it.
func (m *Machine) LoadExecutable(data []byte, at uint32, clear bool) {
	m.Mem.Load(data, at, clear)
	m.CPU.PC = at
	m.log.Info("loaded executable", "at", fmt.Sprintf("%06X", at), "bytes", len(data))
}

// LoadData copies bytes into memory without touching PC.
func (m *Machine) LoadData(data []byte, at uint32, clear bool) {
	m.Mem.Load(data, at, clear)
	m.log.Info("loaded data", "at", fmt.Sprintf("%06X", at), "bytes", len(data))
}

// resumesAfter reports whether a trap leaves PC past the causing
// instruction (so host dispatch can resume with the next one) rather
// than at it. TRAP #N, TRAPV, and the line emulators are service
// requests; everything else is a fault that points back at its
// instruction.
func resumesAfter(vector int) bool {
	switch {
	case vector >= trap.TrapBase && vector < trap.TrapBase+16:
		return true
	case vector == trap.LineA || vector == trap.LineF || vector == trap.TRAPVInst:
		return true
	}
	return false
}

// ExecuteInstruction decodes and runs the instruction at PC,
// returning the trap it raised, if any. On a fault-style trap PC is
// left at the causing instruction with no destination written.
func (m *Machine) ExecuteInstruction() *trap.Trap {
	pc := m.CPU.PC
	if pc&1 != 0 {
		return trap.New(trap.AddressError, 0, pc)
	}
	in, next := m.dec.Decode(pc)
	m.CPU.PC = next
	trp := m.eng.Execute(&in)
	if trp != nil && !resumesAfter(trp.Vector) {
		m.CPU.PC = in.PC
	}
	return trp
}

// Execute runs instructions until the program stops: STOP, an RTS
// past call depth zero (when configured), debugger cancellation, or a
// trap. Bus and address errors are fatal and come back as a
// *FatalError; other traps go to the TrapHandler, or end the loop as
// fatal when no handler is attached.
func (m *Machine) Execute() error {
	for {
		if m.CPU.Stopped {
			return nil
		}
		if m.dbg.Cancelling() {
			return nil
		}
		trp := m.ExecuteInstruction()
		if trp != nil {
			switch trp.Vector {
			case trap.BusError, trap.AddressError:
				return &FatalError{Trap: trp}
			default:
				if m.traps == nil {
					return &FatalError{Trap: trp, Reason: "unhandled trap"}
				}
				if err := m.traps.HandleTrap(m, trp); err != nil {
					return err
				}
			}
		}
		if m.eng.Finished {
			m.eng.Finished = false
			return nil
		}
	}
}

// Disassembler returns a new scanner over this machine's memory with
// a cloned register file, so disassembly never perturbs execution
// state.
func (m *Machine) Disassembler() *disassemble.Disassembler {
	d := disassemble.New(m.CPU, m.Mem)
	d.SetDebugger(m.dbg)
	return d
}

// --- stack helpers ----------------------------------------------------

// PushLong pushes v on the active stack, for host trap dispatch that
// wants to build M68K-style exception frames.
func (m *Machine) PushLong(v uint32) *trap.Trap {
	sp := m.CPU.AddrReg(7) - 4
	if trp := m.Mem.WriteLong(sp, v); trp != nil {
		return trp
	}
	m.CPU.SetAddrReg(7, sp)
	return nil
}

// PopLong pops a long off the active stack.
func (m *Machine) PopLong() (uint32, *trap.Trap) {
	sp := m.CPU.AddrReg(7)
	v, trp := m.Mem.ReadLong(sp)
	if trp != nil {
		return 0, trp
	}
	m.CPU.SetAddrReg(7, sp+4)
	return v, nil
}

// PushWord pushes v on the active stack.
func (m *Machine) PushWord(v uint16) *trap.Trap {
	sp := m.CPU.AddrReg(7) - 2
	if trp := m.Mem.WriteWord(sp, v); trp != nil {
		return trp
	}
	m.CPU.SetAddrReg(7, sp)
	return nil
}

// PopWord pops a word off the active stack.
func (m *Machine) PopWord() (uint16, *trap.Trap) {
	sp := m.CPU.AddrReg(7)
	v, trp := m.Mem.ReadWord(sp)
	if trp != nil {
		return 0, trp
	}
	m.CPU.SetAddrReg(7, sp+2)
	return v, nil
}

// --- state access -----------------------------------------------------

// CPUState is the host's view of the register file. Every field is
// optional: SetCPUState applies only the fields that are non-nil, so
// a host can poke a single register without reading the rest.
type CPUState struct {
	D   [8]*uint32
	A   [8]*uint32
	USP *uint32
	SSP *uint32
	PC  *uint32
	SR  *uint16
}

// GetCPUState snapshots the full register file.
func (m *Machine) GetCPUState() CPUState {
	var st CPUState
	for i := 0; i < 8; i++ {
		d, a := m.CPU.DataReg(i), m.CPU.AddrReg(i)
		st.D[i], st.A[i] = &d, &a
	}
	usp, ssp, pc, sr := m.CPU.USP, m.CPU.SSP, m.CPU.PC, m.CPU.SR
	st.USP, st.SSP, st.PC, st.SR = &usp, &ssp, &pc, &sr
	return st
}

// SetCPUState applies the provided fields to the register file. SR is
// applied first so an A7 write lands in the stack pointer the new
// mode selects.
func (m *Machine) SetCPUState(st CPUState) {
	if st.SR != nil {
		m.CPU.SetSR(*st.SR)
	}
	for i := 0; i < 8; i++ {
		if st.D[i] != nil {
			m.CPU.SetDataReg(i, *st.D[i], cpu.Long)
		}
		if st.A[i] != nil {
			m.CPU.SetAddrReg(i, *st.A[i])
		}
	}
	if st.USP != nil {
		m.CPU.USP = *st.USP
	}
	if st.SSP != nil {
		m.CPU.SSP = *st.SSP
	}
	if st.PC != nil {
		m.CPU.PC = *st.PC
	}
}

// Dump renders a multi-line snapshot of the register file.
func (m *Machine) Dump() string {
	var str strings.Builder

	str.WriteString("D0-D7 ")
	hex.FormatWord(&str, []uint32{m.CPU.DataReg(0), m.CPU.DataReg(1), m.CPU.DataReg(2), m.CPU.DataReg(3)})
	str.WriteByte('\n')
	str.WriteString("      ")
	hex.FormatWord(&str, []uint32{m.CPU.DataReg(4), m.CPU.DataReg(5), m.CPU.DataReg(6), m.CPU.DataReg(7)})
	str.WriteByte('\n')
	str.WriteString("A0-A7 ")
	hex.FormatWord(&str, []uint32{m.CPU.AddrReg(0), m.CPU.AddrReg(1), m.CPU.AddrReg(2), m.CPU.AddrReg(3)})
	str.WriteByte('\n')
	str.WriteString("      ")
	hex.FormatWord(&str, []uint32{m.CPU.AddrReg(4), m.CPU.AddrReg(5), m.CPU.AddrReg(6), m.CPU.AddrReg(7)})
	str.WriteByte('\n')

	str.WriteString("USP=")
	hex.FormatWord(&str, []uint32{m.CPU.USP})
	str.WriteString("SSP=")
	hex.FormatWord(&str, []uint32{m.CPU.SSP})
	str.WriteString("PC=")
	hex.FormatWord(&str, []uint32{m.CPU.PC})
	str.WriteString("SR=")
	hex.FormatHalf(&str, true, []uint16{m.CPU.SR})

	flag := func(name string, on bool) {
		str.WriteByte(' ')
		str.WriteString(name)
		str.WriteByte('=')
		if on {
			str.WriteByte('1')
		} else {
			str.WriteByte('0')
		}
	}
	if m.CPU.Supervisor() {
		str.WriteString(" S")
	} else {
		str.WriteString(" U")
	}
	flag("X", m.CPU.FlagX())
	flag("N", m.CPU.FlagN())
	flag("Z", m.CPU.FlagZ())
	flag("V", m.CPU.FlagV())
	flag("C", m.CPU.FlagC())
	str.WriteByte('\n')
	return str.String()
}
