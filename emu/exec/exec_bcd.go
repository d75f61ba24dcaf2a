/*
   M68K execution engine: packed BCD opcodes.

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
	register(opcodemap.OpABCD, execABCD)
	register(opcodemap.OpSBCD, execSBCD)
	register(opcodemap.OpNBCD, execNBCD)
}

// bcdAdd adds two packed-BCD bytes plus an incoming carry/borrow,
// nibble by nibble with decimal correction, and reports the carry out
// of the high nibble (the architectural C/X for ABCD).
func bcdAdd(a, b, carryIn uint32) (result uint32, carryOut bool) {
	lo := (a & 0x0f) + (b & 0x0f) + carryIn
	var loCarry uint32
	if lo > 9 {
		lo += 6
		loCarry = 1
	}
	hi := (a >> 4 & 0x0f) + (b >> 4 & 0x0f) + loCarry
	hiCarry := false
	if hi > 9 {
		hi += 6
		hiCarry = true
	}
	return (hi<<4 | lo&0x0f) & 0xff, hiCarry
}

// bcdSub subtracts b (plus a borrow-in) from a as packed BCD, nibble by
// nibble with decimal correction, reporting the borrow out of the high
// nibble (the architectural C/X for SBCD/NBCD).
func bcdSub(a, b, borrowIn uint32) (result uint32, borrowOut bool) {
	lo := int32(a&0x0f) - int32(b&0x0f) - int32(borrowIn)
	var loBorrow uint32
	if lo < 0 {
		lo += 10
		loBorrow = 1
	}
	hi := int32(a>>4&0x0f) - int32(b>>4&0x0f) - int32(loBorrow)
	hiBorrow := false
	if hi < 0 {
		hi += 10
		hiBorrow = true
	}
	return uint32(hi<<4|lo&0x0f) & 0xff, hiBorrow
}

// bcdFlags applies the shared ABCD/SBCD/NBCD flag rule: C and X take
// the carry/borrow out, N and V are left undefined by the architecture
// (we leave them unchanged), and Z is sticky -- cleared on any nonzero
// result but never positively set, so a multi-byte BCD chain ORs
// zero-ness across every byte.
func bcdFlags(s *cpu.State, result uint32, carry bool, wasZero bool) {
	s.SetFlagC(carry)
	s.SetFlagX(carry)
	s.SetFlagZ(wasZero && result == 0)
}

func execABCD(e *Engine, in *decoder.Instruction) *trap.Trap {
	return e.bcdOp(in, bcdAdd)
}

func execSBCD(e *Engine, in *decoder.Instruction) *trap.Trap {
	return e.bcdOp(in, bcdSub)
}

func (e *Engine) bcdOp(in *decoder.Instruction, combine func(a, b, carry uint32) (uint32, bool)) *trap.Trap {
	memForm := in.Data != 0
	carryIn := uint32(0)
	if e.S.FlagX() {
		carryIn = 1
	}
	wasZero := e.S.FlagZ()

	var a, b uint32
	var trp *trap.Trap
	if memForm {
		srcAddr := e.S.AddrReg(int(in.Reg2)) - predecSize(in.Reg2, cpu.Byte)
		dstAddr := e.S.AddrReg(int(in.Reg)) - predecSize(in.Reg, cpu.Byte)
		b, trp = loadAt(e.Mem, srcAddr, cpu.Byte)
		if trp != nil {
			return trp
		}
		a, trp = loadAt(e.Mem, dstAddr, cpu.Byte)
		if trp != nil {
			return trp
		}
		result, carry := combine(a, b, carryIn)
		if trp := storeAt(e.Mem, dstAddr, result, cpu.Byte); trp != nil {
			return trp
		}
		e.S.SetAddrReg(int(in.Reg2), srcAddr)
		e.S.SetAddrReg(int(in.Reg), dstAddr)
		bcdFlags(e.S, result, carry, wasZero)
		return nil
	}
	b = e.S.DataReg(int(in.Reg2))
	a = e.S.DataReg(int(in.Reg))
	result, carry := combine(a, b, carryIn)
	e.S.SetDataReg(int(in.Reg), result, cpu.Byte)
	bcdFlags(e.S, result, carry, wasZero)
	return nil
}

// NBCD computes 0 - <ea> - X in packed BCD, the single-operand negate.
func execNBCD(e *Engine, in *decoder.Instruction) *trap.Trap {
	r, op, trp := e.resolveSrc(in, cpu.Byte)
	if trp != nil {
		return trp
	}
	v, trp := r.Load(op)
	if trp != nil {
		return trp
	}
	carryIn := uint32(0)
	if e.S.FlagX() {
		carryIn = 1
	}
	wasZero := e.S.FlagZ()
	result, carry := bcdSub(0, v, carryIn)
	if trp := r.Store(op, result); trp != nil {
		return trp
	}
	r.CommitPostInc(op)
	r.CommitPreDec(op)
	bcdFlags(e.S, result, carry, wasZero)
	return nil
}
