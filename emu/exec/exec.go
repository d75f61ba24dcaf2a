/*
   M68K execution engine: core, flag rules, and stack helpers.

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

// Package exec dispatches a decoded Instruction to its opcode
// semantics: operand resolution, result computation, CCR updates, PC
// adjustment, and trap raising. Each handler resolves its operands
// through emu/ea against live register state (the decoder only
// recorded which mode and where its extension words start), applies
// side effects exactly once, and returns a *trap.Trap in place of
// mutating further state when the architecture calls for one.
package exec

import (
	"github.com/dhadner/m68k/emu/cpu"
	"github.com/dhadner/m68k/emu/decoder"
	"github.com/dhadner/m68k/emu/ea"
	"github.com/dhadner/m68k/emu/memory"
	"github.com/dhadner/m68k/emu/opcodemap"
	"github.com/dhadner/m68k/emu/trap"
)

// EndAtCallDepthZero, when set on an Engine, tells RTS to report back
// to the caller (via Finished) once the call-depth counter would go
// negative, rather than faulting: this is the "subroutine embedding"
// policy §4.5 describes, used when a host runs a single subroutine to
// completion rather than a whole program from reset.
type Engine struct {
	S   *cpu.State
	Mem memory.Memory

	EndAtCallDepthZero bool

	// Finished is set by RTS when EndAtCallDepthZero is active and the
	// call depth would drop below zero. The host's execute loop checks
	// this after every instruction.
	Finished bool
}

// New returns an Engine operating on s and mem.
func New(s *cpu.State, mem memory.Memory) *Engine {
	return &Engine{S: s, Mem: mem}
}

type handlerFunc func(*Engine, *decoder.Instruction) *trap.Trap

// handlers is populated by each exec_*.go file's init(), one entry per
// opcodemap.ID the engine understands. IDs with no entry (OpIllegal,
// OpLineA, OpLineF, the DC.* disassembler-only directives) always fall
// through to the illegal/LineA/LineF trap path in Execute.
var handlers = map[opcodemap.ID]handlerFunc{}

func register(id opcodemap.ID, fn handlerFunc) {
	handlers[id] = fn
}

// Execute runs one decoded instruction to completion, returning the
// trap it raised, if any.
func (e *Engine) Execute(in *decoder.Instruction) *trap.Trap {
	switch in.Op {
	case opcodemap.OpIllegal:
		return trap.New(trap.IllegalInst, in.Opcode, in.PC)
	case opcodemap.OpLineA:
		return trap.New(trap.LineA, in.Opcode, in.PC)
	case opcodemap.OpLineF:
		return trap.New(trap.LineF, in.Opcode, in.PC)
	}
	h, ok := handlers[in.Op]
	if !ok {
		return trap.New(trap.IllegalInst, in.Opcode, in.PC)
	}
	return h(e, in)
}

// srcResolver and dstResolver build the ea.Resolver for an
// instruction's source/destination operand at the given width,
// positioned at the extension-word offset the decoder recorded.
func (e *Engine) srcResolver(size cpu.Size) ea.Resolver {
	return ea.Resolver{S: e.S, Mem: e.Mem, Size: size}
}

func (e *Engine) resolveSrc(in *decoder.Instruction, size cpu.Size) (ea.Resolver, ea.Operand, *trap.Trap) {
	r := e.srcResolver(size)
	op, _, trp := r.Resolve(in.SrcMode, in.SrcReg, in.SrcExtPC)
	return r, op, trp
}

func (e *Engine) resolveDst(in *decoder.Instruction, size cpu.Size) (ea.Resolver, ea.Operand, *trap.Trap) {
	r := e.srcResolver(size)
	op, _, trp := r.Resolve(in.DstMode, in.DstReg, in.DstExtPC)
	return r, op, trp
}

// requireSupervisor returns a privilege-violation trap when the CPU is
// in user mode and nil in supervisor mode; supervisor-only handlers
// call this first.
func (e *Engine) requireSupervisor(in *decoder.Instruction) *trap.Trap {
	if e.S.Supervisor() {
		return nil
	}
	return trap.New(trap.PrivilegeViol, in.Opcode, in.PC)
}

// --- stack helpers -----------------------------------------------------

func (e *Engine) pushLong(v uint32) *trap.Trap {
	sp := e.S.AddrReg(7) - 4
	if trp := e.Mem.WriteLong(sp, v); trp != nil {
		return trp
	}
	e.S.SetAddrReg(7, sp)
	return nil
}

func (e *Engine) popLong() (uint32, *trap.Trap) {
	sp := e.S.AddrReg(7)
	v, trp := e.Mem.ReadLong(sp)
	if trp != nil {
		return 0, trp
	}
	e.S.SetAddrReg(7, sp+4)
	return v, nil
}

func (e *Engine) pushWord(v uint16) *trap.Trap {
	sp := e.S.AddrReg(7) - 2
	if trp := e.Mem.WriteWord(sp, v); trp != nil {
		return trp
	}
	e.S.SetAddrReg(7, sp)
	return nil
}

func (e *Engine) popWord() (uint16, *trap.Trap) {
	sp := e.S.AddrReg(7)
	v, trp := e.Mem.ReadWord(sp)
	if trp != nil {
		return 0, trp
	}
	e.S.SetAddrReg(7, sp+2)
	return v, nil
}

// --- size helpers --------------------------------------------------

func mask(size cpu.Size) uint32 {
	switch size {
	case cpu.Byte:
		return 0xff
	case cpu.Word:
		return 0xffff
	default:
		return 0xffffffff
	}
}

func signBit(v uint32, size cpu.Size) bool {
	switch size {
	case cpu.Byte:
		return v&0x80 != 0
	case cpu.Word:
		return v&0x8000 != 0
	default:
		return v&0x80000000 != 0
	}
}

func truncate(v uint32, size cpu.Size) uint32 {
	return v & mask(size)
}

func signExtend(v uint32, size cpu.Size) int32 {
	switch size {
	case cpu.Byte:
		return int32(int8(v))
	case cpu.Word:
		return int32(int16(v))
	default:
		return int32(v)
	}
}

// --- CCR rule tables (§4.5) -----------------------------------------

// setNZ sets N and Z from a truncated result; every arithmetic and
// logical handler does this regardless of what it does with V/C/X.
func setNZ(s *cpu.State, result uint32, size cpu.Size) {
	s.SetFlagN(signBit(result, size))
	s.SetFlagZ(truncate(result, size) == 0)
}

// addFlags implements the ADD/ADDI/ADDQ/ADDX rule: N,Z,V,C set from
// the result, X mirrors C.
func addFlags(s *cpu.State, a, b uint32, size cpu.Size) uint32 {
	m := uint64(mask(size))
	sum := uint64(truncate(a, size)) + uint64(truncate(b, size))
	result := uint32(sum) & mask(size)
	carry := sum > m
	signA, signB, signR := signBit(a, size), signBit(b, size), signBit(result, size)
	overflow := signA == signB && signA != signR
	s.SetFlagC(carry)
	s.SetFlagX(carry)
	s.SetFlagV(overflow)
	setNZ(s, result, size)
	return result
}

// subFlags implements the SUB/SUBI/SUBQ/NEG/CMP family rule for a-b:
// N,Z,V,C set from the result, X mirrors C (cmpFlags saves X before
// calling this and restores it afterward; the X-threading ops use
// subxFlags instead).
func subFlags(s *cpu.State, a, b uint32, size cpu.Size) uint32 {
	diff := truncate(a, size) - truncate(b, size)
	result := truncate(diff, size)
	borrow := truncate(a, size) < truncate(b, size)
	signA, signB, signR := signBit(a, size), signBit(b, size), signBit(result, size)
	overflow := signA != signB && signB == signR
	s.SetFlagC(borrow)
	s.SetFlagX(borrow)
	s.SetFlagV(overflow)
	setNZ(s, result, size)
	return result
}

// cmpFlags implements CMP/CMPA/CMPI/CMPM: identical to subFlags except
// X is left unchanged, per §4.5's explicit "CMP leaves X" rule.
func cmpFlags(s *cpu.State, a, b uint32, size cpu.Size) uint32 {
	x := s.FlagX()
	result := subFlags(s, a, b, size)
	s.SetFlagX(x)
	return result
}

// negFlags implements NEG (0-a): same shape as subFlags with a fixed
// minuend of zero.
func negFlags(s *cpu.State, a uint32, size cpu.Size) uint32 {
	return subFlags(s, 0, a, size)
}

// addxFlags implements ADDX (a+b+X): the carry-in is part of the sum
// at full precision, so C/X still come from the bit above the operand
// width when b is already the maximum value for the width. Z
// stickiness is the caller's job.
func addxFlags(s *cpu.State, a, b, x uint32, size cpu.Size) uint32 {
	m := uint64(mask(size))
	sum := uint64(truncate(a, size)) + uint64(truncate(b, size)) + uint64(x)
	result := uint32(sum) & mask(size)
	carry := sum > m
	signA, signB, signR := signBit(a, size), signBit(b, size), signBit(result, size)
	overflow := signA == signB && signA != signR
	s.SetFlagC(carry)
	s.SetFlagX(carry)
	s.SetFlagV(overflow)
	setNZ(s, result, size)
	return result
}

// subxFlags implements SUBX/NEGX (a-b-X), with the borrow-in applied
// at full precision for the same reason as addxFlags.
func subxFlags(s *cpu.State, a, b, x uint32, size cpu.Size) uint32 {
	ta := uint64(truncate(a, size))
	tb := uint64(truncate(b, size))
	result := uint32(ta-tb-uint64(x)) & mask(size)
	borrow := ta < tb+uint64(x)
	signA, signB, signR := signBit(a, size), signBit(b, size), signBit(result, size)
	overflow := signA != signB && signB == signR
	s.SetFlagC(borrow)
	s.SetFlagX(borrow)
	s.SetFlagV(overflow)
	setNZ(s, result, size)
	return result
}

// logicalFlags implements AND/OR/EOR/NOT/MOVEQ/TST/CLR: N,Z from the
// result, V and C always cleared, X unchanged.
func logicalFlags(s *cpu.State, result uint32, size cpu.Size) uint32 {
	result = truncate(result, size)
	setNZ(s, result, size)
	s.SetFlagV(false)
	s.SetFlagC(false)
	return result
}
