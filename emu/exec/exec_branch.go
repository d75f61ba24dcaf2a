/*
   M68K execution engine: program control opcodes.

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

package exec

import (
	"github.com/dhadner/m68k/emu/cpu"
	"github.com/dhadner/m68k/emu/decoder"
	"github.com/dhadner/m68k/emu/opcodemap"
	"github.com/dhadner/m68k/emu/trap"
)

func init() {
	register(opcodemap.OpBRA, execBRA)
	register(opcodemap.OpBSR, execBSR)
	register(opcodemap.OpBcc, execBcc)
	register(opcodemap.OpDBcc, execDBcc)
	register(opcodemap.OpScc, execScc)
	register(opcodemap.OpJMP, execJMP)
	register(opcodemap.OpJSR, execJSR)
	register(opcodemap.OpRTS, execRTS)
	register(opcodemap.OpRTE, execRTE)
	register(opcodemap.OpRTR, execRTR)
	register(opcodemap.OpCHK, execCHK)
	register(opcodemap.OpTRAP, execTRAP)
	register(opcodemap.OpTRAPV, execTRAPV)
}

// branchTarget is the address after the opcode word (PC+2) plus the
// decoded displacement -- true regardless of whether the displacement
// was the 8-bit form folded into the opcode or the 16-bit extension
// word, since both are measured from that same point.
func branchTarget(in *decoder.Instruction) uint32 {
	return in.PC + 2 + uint32(in.Data)
}

// evalCondition implements the 16 Bcc/DBcc/Scc condition codes against
// the CCR. T and F are handled by name rather than via flags so they
// never depend on stale CCR state.
func evalCondition(s *cpu.State, cond uint8) bool {
	n, z, v, c := s.FlagN(), s.FlagZ(), s.FlagV(), s.FlagC()
	switch cond & 0xf {
	case 0: // T
		return true
	case 1: // F
		return false
	case 2: // HI
		return !c && !z
	case 3: // LS
		return c || z
	case 4: // CC
		return !c
	case 5: // CS
		return c
	case 6: // NE
		return !z
	case 7: // EQ
		return z
	case 8: // VC
		return !v
	case 9: // VS
		return v
	case 10: // PL
		return !n
	case 11: // MI
		return n
	case 12: // GE
		return n == v
	case 13: // LT
		return n != v
	case 14: // GT
		return !z && n == v
	default: // LE
		return z || n != v
	}
}

func execBRA(e *Engine, in *decoder.Instruction) *trap.Trap {
	e.S.PC = branchTarget(in)
	return nil
}

func execBSR(e *Engine, in *decoder.Instruction) *trap.Trap {
	if trp := e.pushLong(in.PC + in.Length); trp != nil {
		return trp
	}
	e.S.CallDepth++
	e.S.PC = branchTarget(in)
	return nil
}

func execBcc(e *Engine, in *decoder.Instruction) *trap.Trap {
	if evalCondition(e.S, in.Cond) {
		e.S.PC = branchTarget(in)
	}
	return nil
}

// DBcc: if the condition is false, decrement Dn (word-wide) and branch
// while it is not -1; a true condition, or a decremented value of -1,
// falls through without affecting PC here (the caller's normal PC
// advance past the instruction applies).
func execDBcc(e *Engine, in *decoder.Instruction) *trap.Trap {
	if evalCondition(e.S, in.Cond) {
		return nil
	}
	n := int16(e.S.DataReg(int(in.Reg))) - 1
	e.S.SetDataReg(int(in.Reg), uint32(uint16(n)), cpu.Word)
	if n != -1 {
		e.S.PC = branchTarget(in)
	}
	return nil
}

func execScc(e *Engine, in *decoder.Instruction) *trap.Trap {
	r, op, trp := e.resolveSrc(in, cpu.Byte)
	if trp != nil {
		return trp
	}
	v := uint32(0)
	if evalCondition(e.S, in.Cond) {
		v = 0xff
	}
	if trp := r.Store(op, v); trp != nil {
		return trp
	}
	r.CommitPostInc(op)
	r.CommitPreDec(op)
	return nil
}

func execJMP(e *Engine, in *decoder.Instruction) *trap.Trap {
	_, op, trp := e.resolveSrc(in, cpu.Long)
	if trp != nil {
		return trp
	}
	e.S.PC = op.Addr
	return nil
}

func execJSR(e *Engine, in *decoder.Instruction) *trap.Trap {
	_, op, trp := e.resolveSrc(in, cpu.Long)
	if trp != nil {
		return trp
	}
	if trp := e.pushLong(in.PC + in.Length); trp != nil {
		return trp
	}
	e.S.CallDepth++
	e.S.PC = op.Addr
	return nil
}

// RTS pops the return address off the stack. When the engine was
// asked to run a single subroutine to completion (EndAtCallDepthZero),
// returning past call depth zero reports Finished rather than
// continuing to execute whatever happens to sit at the popped address.
func execRTS(e *Engine, in *decoder.Instruction) *trap.Trap {
	addr, trp := e.popLong()
	if trp != nil {
		return trp
	}
	e.S.CallDepth--
	if e.EndAtCallDepthZero && e.S.CallDepth < 0 {
		e.Finished = true
		return nil
	}
	e.S.PC = addr
	return nil
}

// RTE restores SR then PC from the exception stack frame; supervisor
// only.
func execRTE(e *Engine, in *decoder.Instruction) *trap.Trap {
	if trp := e.requireSupervisor(in); trp != nil {
		return trp
	}
	sr, trp := e.popWord()
	if trp != nil {
		return trp
	}
	addr, trp := e.popLong()
	if trp != nil {
		return trp
	}
	e.S.SetSR(sr)
	e.S.PC = addr
	return nil
}

// RTR restores only the CCR bits of SR (not the system byte) then PC;
// usable from user mode.
func execRTR(e *Engine, in *decoder.Instruction) *trap.Trap {
	ccr, trp := e.popWord()
	if trp != nil {
		return trp
	}
	addr, trp := e.popLong()
	if trp != nil {
		return trp
	}
	e.S.SetCCR(uint8(ccr))
	e.S.PC = addr
	return nil
}

// CHK traps (vector 6) when Dn is outside 0..<ea> inclusive; N is set
// to reflect which bound was violated, matching common implementations
// though the architecture leaves it informative only.
func execCHK(e *Engine, in *decoder.Instruction) *trap.Trap {
	r, op, trp := e.resolveSrc(in, cpu.Word)
	if trp != nil {
		return trp
	}
	bound, trp := r.Load(op)
	if trp != nil {
		return trp
	}
	r.CommitPostInc(op)
	r.CommitPreDec(op)
	v := int16(e.S.DataReg(int(in.Reg)))
	if v < 0 {
		e.S.SetFlagN(true)
		return trap.New(trap.CHKInst, in.Opcode, in.PC)
	}
	if v > int16(uint16(bound)) {
		e.S.SetFlagN(false)
		return trap.New(trap.CHKInst, in.Opcode, in.PC)
	}
	return nil
}

func execTRAP(e *Engine, in *decoder.Instruction) *trap.Trap {
	return trap.New(trap.Vector(in.Cond), in.Opcode, in.PC)
}

func execTRAPV(e *Engine, in *decoder.Instruction) *trap.Trap {
	if e.S.FlagV() {
		return trap.New(trap.TRAPVInst, in.Opcode, in.PC)
	}
	return nil
}
