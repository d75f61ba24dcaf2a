/*
   M68K execution engine: shift and rotate opcodes.

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
	register(opcodemap.OpASL, execASL)
	register(opcodemap.OpASR, execASR)
	register(opcodemap.OpLSL, execLSL)
	register(opcodemap.OpLSR, execLSR)
	register(opcodemap.OpROL, execROL)
	register(opcodemap.OpROR, execROR)
	register(opcodemap.OpROXL, execROXL)
	register(opcodemap.OpROXR, execROXR)
}

// shiftCount resolves the immediate-or-Dn shift count of a register-form
// shift/rotate. The decoder already folds a quick count of 0 to 8 and,
// for the register-count form, leaves the count register's number in
// Data (Reg names the data register being shifted, not the count) --
// that register's value is taken mod 64 and may legitimately be zero
// (no shift; shiftOne applies the zero-count flag rule).
func shiftCount(in *decoder.Instruction, s *cpu.State) uint32 {
	if in.Quick {
		return uint32(in.Data)
	}
	return s.DataReg(int(in.Data)) % 64
}

// memoryForm reports whether this is the single-bit memory-operand
// encoding (<ea>, no count) rather than the register-form (Dn shifted
// by an immediate or a count register); the decoder only populates
// HasSrc/SrcMode/SrcReg for the memory-operand encoding.
func memoryForm(in *decoder.Instruction) bool {
	return in.HasSrc
}

// asl shifts left, tracking V across every bit shifted (the sign bit
// changing polarity at any point during the shift sets V), and C/X
// taking the last bit shifted out. The first bit shifted clears V
// before the sticky OR takes over for any further bits in the same
// instruction; shiftOne handles the zero-count flag rule before step
// is ever invoked.
func execASL(e *Engine, in *decoder.Instruction) *trap.Trap {
	first := true
	return e.shiftOne(in, func(v uint32, size cpu.Size) uint32 {
		if first {
			e.S.SetFlagV(false)
			first = false
		}
		startSign := signBit(v, size)
		out := signBit(v, size)
		result := truncate(v<<1, size)
		overflow := signBit(result, size) != startSign
		e.S.SetFlagC(out)
		e.S.SetFlagX(out)
		if overflow {
			e.S.SetFlagV(true)
		}
		setNZ(e.S, result, size)
		return result
	})
}

func execASR(e *Engine, in *decoder.Instruction) *trap.Trap {
	return e.shiftOne(in, func(v uint32, size cpu.Size) uint32 {
		sign := signBit(v, size)
		out := v&1 != 0
		result := v >> 1
		if sign {
			result = setSignBit(result, size)
		}
		e.S.SetFlagC(out)
		e.S.SetFlagX(out)
		setNZ(e.S, result, size)
		return result
	})
}

func execLSL(e *Engine, in *decoder.Instruction) *trap.Trap {
	return e.shiftOne(in, func(v uint32, size cpu.Size) uint32 {
		out := signBit(v, size)
		result := truncate(v<<1, size)
		e.S.SetFlagC(out)
		e.S.SetFlagX(out)
		e.S.SetFlagV(false)
		setNZ(e.S, result, size)
		return result
	})
}

func execLSR(e *Engine, in *decoder.Instruction) *trap.Trap {
	return e.shiftOne(in, func(v uint32, size cpu.Size) uint32 {
		out := v&1 != 0
		result := v >> 1
		e.S.SetFlagC(out)
		e.S.SetFlagX(out)
		e.S.SetFlagV(false)
		setNZ(e.S, result, size)
		return result
	})
}

func execROL(e *Engine, in *decoder.Instruction) *trap.Trap {
	return e.shiftOne(in, func(v uint32, size cpu.Size) uint32 {
		out := signBit(v, size)
		result := truncate(v<<1, size)
		if out {
			result |= 1
		}
		e.S.SetFlagC(out)
		e.S.SetFlagV(false)
		setNZ(e.S, result, size)
		return result
	})
}

func execROR(e *Engine, in *decoder.Instruction) *trap.Trap {
	return e.shiftOne(in, func(v uint32, size cpu.Size) uint32 {
		out := v&1 != 0
		result := v >> 1
		if out {
			result = setSignBit(result, size)
		}
		e.S.SetFlagC(out)
		e.S.SetFlagV(false)
		setNZ(e.S, result, size)
		return result
	})
}

// roxl/roxr rotate through X: the bit shifted out becomes the new X
// (and C, which always mirrors X for these two), and the old X feeds
// in at the opposite end.
func execROXL(e *Engine, in *decoder.Instruction) *trap.Trap {
	return e.shiftOne(in, func(v uint32, size cpu.Size) uint32 {
		carryIn := e.S.FlagX()
		out := signBit(v, size)
		result := truncate(v<<1, size)
		if carryIn {
			result |= 1
		}
		e.S.SetFlagC(out)
		e.S.SetFlagX(out)
		e.S.SetFlagV(false)
		setNZ(e.S, result, size)
		return result
	})
}

func execROXR(e *Engine, in *decoder.Instruction) *trap.Trap {
	return e.shiftOne(in, func(v uint32, size cpu.Size) uint32 {
		carryIn := e.S.FlagX()
		out := v&1 != 0
		result := v >> 1
		if carryIn {
			result = setSignBit(result, size)
		}
		e.S.SetFlagC(out)
		e.S.SetFlagX(out)
		e.S.SetFlagV(false)
		setNZ(e.S, result, size)
		return result
	})
}

func setSignBit(v uint32, size cpu.Size) uint32 {
	switch size {
	case cpu.Byte:
		return v | 0x80
	case cpu.Word:
		return v | 0x8000
	default:
		return v | 0x80000000
	}
}

// shiftOne applies step either once (memory form, always a single-bit
// shift) or shiftCount times (register form). A zero register-form
// count performs no shift but still sets flags per the PRM: N/Z from
// the unchanged value, V cleared, C cleared -- except ROXL/ROXR,
// where a zero count copies X into C. X is never touched.
func (e *Engine) shiftOne(in *decoder.Instruction, step func(v uint32, size cpu.Size) uint32) *trap.Trap {
	if memoryForm(in) {
		r, op, trp := e.resolveSrc(in, cpu.Word)
		if trp != nil {
			return trp
		}
		v, trp := r.Load(op)
		if trp != nil {
			return trp
		}
		result := step(v, cpu.Word)
		if trp := r.Store(op, result); trp != nil {
			return trp
		}
		r.CommitPostInc(op)
		r.CommitPreDec(op)
		return nil
	}
	n := shiftCount(in, e.S)
	v := e.S.DataReg(int(in.Reg))
	if n == 0 {
		switch in.Op {
		case opcodemap.OpROXL, opcodemap.OpROXR:
			e.S.SetFlagC(e.S.FlagX())
		default:
			e.S.SetFlagC(false)
		}
		e.S.SetFlagV(false)
		setNZ(e.S, v, in.Size)
		return nil
	}
	result := v
	for i := uint32(0); i < n; i++ {
		result = step(result, in.Size)
	}
	e.S.SetDataReg(int(in.Reg), result, in.Size)
	return nil
}
