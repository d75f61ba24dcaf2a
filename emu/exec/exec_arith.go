/*
   M68K execution engine: integer arithmetic opcodes.

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
	register(opcodemap.OpADD, execADD)
	register(opcodemap.OpADDA, execADDA)
	register(opcodemap.OpADDI, execADDI)
	register(opcodemap.OpADDQ, execADDQ)
	register(opcodemap.OpADDX, execADDX)
	register(opcodemap.OpSUB, execSUB)
	register(opcodemap.OpSUBA, execSUBA)
	register(opcodemap.OpSUBI, execSUBI)
	register(opcodemap.OpSUBQ, execSUBQ)
	register(opcodemap.OpSUBX, execSUBX)
	register(opcodemap.OpNEG, execNEG)
	register(opcodemap.OpNEGX, execNEGX)
	register(opcodemap.OpMULU, execMULU)
	register(opcodemap.OpMULS, execMULS)
	register(opcodemap.OpDIVU, execDIVU)
	register(opcodemap.OpDIVS, execDIVS)
	register(opcodemap.OpCMP, execCMP)
	register(opcodemap.OpCMPA, execCMPA)
	register(opcodemap.OpCMPI, execCMPI)
	register(opcodemap.OpCMPM, execCMPM)
	register(opcodemap.OpTST, execTST)
}

// dnEaOp implements the common "Dn op <ea> -> <ea or Dn>" shape shared
// by ADD/SUB/AND/OR/EOR: in.Data's low bit selects direction (0: ea op
// Dn -> Dn, 1: Dn op ea -> ea), combine computes the result and
// updates flags, and the result is written back to whichever side was
// the destination.
func (e *Engine) dnEaOp(in *decoder.Instruction, combine func(a, b uint32) uint32) *trap.Trap {
	r, op, trp := e.resolveSrc(in, in.Size)
	if trp != nil {
		return trp
	}
	eaVal, trp := r.Load(op)
	if trp != nil {
		return trp
	}
	dn := e.S.DataReg(int(in.Reg))

	toEA := in.Data != 0
	var result uint32
	if toEA {
		result = combine(dn, eaVal)
		if trp := r.Store(op, result); trp != nil {
			return trp
		}
	} else {
		result = combine(eaVal, dn)
		e.S.SetDataReg(int(in.Reg), result, in.Size)
	}
	r.CommitPostInc(op)
	r.CommitPreDec(op)
	return nil
}

func execADD(e *Engine, in *decoder.Instruction) *trap.Trap {
	return e.dnEaOp(in, func(a, b uint32) uint32 { return addFlags(e.S, a, b, in.Size) })
}

func execSUB(e *Engine, in *decoder.Instruction) *trap.Trap {
	return e.dnEaOp(in, func(a, b uint32) uint32 { return subFlags(e.S, a, b, in.Size) })
}

// ADDA/SUBA add or subtract a sign-extended word or a long operand
// into An. Affects no flags.
func execADDA(e *Engine, in *decoder.Instruction) *trap.Trap {
	r, op, trp := e.resolveSrc(in, in.Size)
	if trp != nil {
		return trp
	}
	v, trp := r.Load(op)
	if trp != nil {
		return trp
	}
	r.CommitPostInc(op)
	r.CommitPreDec(op)
	an := e.S.AddrReg(int(in.Reg))
	e.S.SetAddrReg(int(in.Reg), an+uint32(signExtend(v, in.Size)))
	return nil
}

func execSUBA(e *Engine, in *decoder.Instruction) *trap.Trap {
	r, op, trp := e.resolveSrc(in, in.Size)
	if trp != nil {
		return trp
	}
	v, trp := r.Load(op)
	if trp != nil {
		return trp
	}
	r.CommitPostInc(op)
	r.CommitPreDec(op)
	an := e.S.AddrReg(int(in.Reg))
	e.S.SetAddrReg(int(in.Reg), an-uint32(signExtend(v, in.Size)))
	return nil
}

// ADDI/SUBI operate an immediate against <ea>, writing the result
// back to the same location.
func execADDI(e *Engine, in *decoder.Instruction) *trap.Trap {
	return e.immToEA(in, func(dst uint32) uint32 { return addFlags(e.S, dst, uint32(in.Data), in.Size) })
}

func execSUBI(e *Engine, in *decoder.Instruction) *trap.Trap {
	return e.immToEA(in, func(dst uint32) uint32 { return subFlags(e.S, dst, uint32(in.Data), in.Size) })
}

func (e *Engine) immToEA(in *decoder.Instruction, combine func(dst uint32) uint32) *trap.Trap {
	r, op, trp := e.resolveSrc(in, in.Size)
	if trp != nil {
		return trp
	}
	v, trp := r.Load(op)
	if trp != nil {
		return trp
	}
	result := combine(v)
	if trp := r.Store(op, result); trp != nil {
		return trp
	}
	r.CommitPostInc(op)
	r.CommitPreDec(op)
	return nil
}

// ADDQ/SUBQ add or subtract the 3-bit quick immediate (1-8) in
// in.Data. Against an address register they behave like ADDA/SUBA
// (no flags, full 32-bit); otherwise they use the ADD/SUB flag rule.
func execADDQ(e *Engine, in *decoder.Instruction) *trap.Trap {
	if in.SrcMode == 1 {
		an := e.S.AddrReg(int(in.SrcReg))
		e.S.SetAddrReg(int(in.SrcReg), an+uint32(in.Data))
		return nil
	}
	return e.immToEA(in, func(dst uint32) uint32 { return addFlags(e.S, dst, uint32(in.Data), in.Size) })
}

func execSUBQ(e *Engine, in *decoder.Instruction) *trap.Trap {
	if in.SrcMode == 1 {
		an := e.S.AddrReg(int(in.SrcReg))
		e.S.SetAddrReg(int(in.SrcReg), an-uint32(in.Data))
		return nil
	}
	return e.immToEA(in, func(dst uint32) uint32 { return subFlags(e.S, dst, uint32(in.Data), in.Size) })
}

// ADDX/SUBX operate Dy,Dx or -(Ay),-(Ax) with X as carry/borrow-in;
// unlike ADD/SUB, Z is sticky: it is cleared on a nonzero result but
// never set by a zero one, so a multi-word extended-precision add
// reports "any nonzero word" correctly.
func execADDX(e *Engine, in *decoder.Instruction) *trap.Trap {
	return e.xOp(in, func(a, b, x uint32) uint32 { return addxFlags(e.S, a, b, x, in.Size) })
}

func execSUBX(e *Engine, in *decoder.Instruction) *trap.Trap {
	return e.xOp(in, func(a, b, x uint32) uint32 { return subxFlags(e.S, a, b, x, in.Size) })
}

func (e *Engine) xOp(in *decoder.Instruction, combine func(a, b, x uint32) uint32) *trap.Trap {
	memForm := in.Data != 0
	x := uint32(0)
	if e.S.FlagX() {
		x = 1
	}
	wasZero := e.S.FlagZ()

	var a, b uint32
	var trp *trap.Trap
	if memForm {
		srcAddr := e.S.AddrReg(int(in.Reg2)) - predecSize(in.Reg2, in.Size)
		dstAddr := e.S.AddrReg(int(in.Reg)) - predecSize(in.Reg, in.Size)
		b, trp = loadAt(e.Mem, srcAddr, in.Size)
		if trp != nil {
			return trp
		}
		a, trp = loadAt(e.Mem, dstAddr, in.Size)
		if trp != nil {
			return trp
		}
		result := combine(a, b, x)
		if trp := storeAt(e.Mem, dstAddr, result, in.Size); trp != nil {
			return trp
		}
		e.S.SetAddrReg(int(in.Reg2), srcAddr)
		e.S.SetAddrReg(int(in.Reg), dstAddr)
	} else {
		b = e.S.DataReg(int(in.Reg2))
		a = e.S.DataReg(int(in.Reg))
		result := combine(a, b, x)
		e.S.SetDataReg(int(in.Reg), result, in.Size)
	}
	e.S.SetFlagZ(wasZero && e.S.FlagZ())
	return nil
}

func predecSize(reg uint8, size cpu.Size) uint32 {
	if reg == 7 && size == cpu.Byte {
		return 2
	}
	return size.Bytes()
}

func loadAt(mem interface {
	ReadByte(uint32) (uint8, *trap.Trap)
	ReadWord(uint32) (uint16, *trap.Trap)
	ReadLong(uint32) (uint32, *trap.Trap)
}, addr uint32, size cpu.Size) (uint32, *trap.Trap) {
	switch size {
	case cpu.Byte:
		v, trp := mem.ReadByte(addr)
		return uint32(v), trp
	case cpu.Word:
		v, trp := mem.ReadWord(addr)
		return uint32(v), trp
	default:
		return mem.ReadLong(addr)
	}
}

func storeAt(mem interface {
	WriteByte(uint32, uint8) *trap.Trap
	WriteWord(uint32, uint16) *trap.Trap
	WriteLong(uint32, uint32) *trap.Trap
}, addr uint32, v uint32, size cpu.Size) *trap.Trap {
	switch size {
	case cpu.Byte:
		return mem.WriteByte(addr, uint8(v))
	case cpu.Word:
		return mem.WriteWord(addr, uint16(v))
	default:
		return mem.WriteLong(addr, v)
	}
}

// NEG computes 0-x in place; NEGX additionally threads X as a
// borrow-in, with the same Z-sticky behavior as SUBX.
func execNEG(e *Engine, in *decoder.Instruction) *trap.Trap {
	return e.immToEA(in, func(dst uint32) uint32 { return negFlags(e.S, dst, in.Size) })
}

func execNEGX(e *Engine, in *decoder.Instruction) *trap.Trap {
	wasZero := e.S.FlagZ()
	x := uint32(0)
	if e.S.FlagX() {
		x = 1
	}
	trp := e.immToEA(in, func(dst uint32) uint32 { return subxFlags(e.S, 0, dst, x, in.Size) })
	if trp != nil {
		return trp
	}
	e.S.SetFlagZ(wasZero && e.S.FlagZ())
	return nil
}

// MULU/MULS multiply a 16-bit <ea> operand by the low word of Dn,
// producing a full 32-bit result in Dn. V and C are always cleared;
// N,Z reflect the 32-bit product.
func execMULU(e *Engine, in *decoder.Instruction) *trap.Trap {
	r, op, trp := e.resolveSrc(in, cpu.Word)
	if trp != nil {
		return trp
	}
	v, trp := r.Load(op)
	if trp != nil {
		return trp
	}
	r.CommitPostInc(op)
	r.CommitPreDec(op)
	product := (e.S.DataReg(int(in.Reg)) & 0xffff) * (v & 0xffff)
	e.S.SetDataReg(int(in.Reg), product, cpu.Long)
	logicalFlags(e.S, product, cpu.Long)
	return nil
}

func execMULS(e *Engine, in *decoder.Instruction) *trap.Trap {
	r, op, trp := e.resolveSrc(in, cpu.Word)
	if trp != nil {
		return trp
	}
	v, trp := r.Load(op)
	if trp != nil {
		return trp
	}
	r.CommitPostInc(op)
	r.CommitPreDec(op)
	a := int32(int16(e.S.DataReg(int(in.Reg))))
	b := int32(int16(v))
	product := uint32(a * b)
	e.S.SetDataReg(int(in.Reg), product, cpu.Long)
	logicalFlags(e.S, product, cpu.Long)
	return nil
}

// DIVU/DIVS divide the 32-bit Dn by a 16-bit <ea> operand, storing a
// 16-bit quotient in the low word and the remainder in the high word.
// Divide-by-zero raises trap.ZeroDivide leaving Dn unmodified;
// quotient overflow (DIVS only, or DIVU quotient > 0xFFFF) sets V and
// leaves Dn unmodified, per the architecture.
func execDIVU(e *Engine, in *decoder.Instruction) *trap.Trap {
	r, op, trp := e.resolveSrc(in, cpu.Word)
	if trp != nil {
		return trp
	}
	divisor, trp := r.Load(op)
	if trp != nil {
		return trp
	}
	r.CommitPostInc(op)
	r.CommitPreDec(op)
	if divisor&0xffff == 0 {
		return trap.New(trap.ZeroDivide, in.Opcode, in.PC)
	}
	dividend := e.S.DataReg(int(in.Reg))
	q := dividend / (divisor & 0xffff)
	rem := dividend % (divisor & 0xffff)
	if q > 0xffff {
		e.S.SetFlagV(true)
		return nil
	}
	result := (rem&0xffff)<<16 | (q & 0xffff)
	e.S.SetDataReg(int(in.Reg), result, cpu.Long)
	e.S.SetFlagC(false)
	e.S.SetFlagV(false)
	e.S.SetFlagN(q&0x8000 != 0)
	e.S.SetFlagZ(q == 0)
	return nil
}

func execDIVS(e *Engine, in *decoder.Instruction) *trap.Trap {
	r, op, trp := e.resolveSrc(in, cpu.Word)
	if trp != nil {
		return trp
	}
	divisorRaw, trp := r.Load(op)
	if trp != nil {
		return trp
	}
	r.CommitPostInc(op)
	r.CommitPreDec(op)
	divisor := int32(int16(divisorRaw))
	if divisor == 0 {
		return trap.New(trap.ZeroDivide, in.Opcode, in.PC)
	}
	dividend := int32(e.S.DataReg(int(in.Reg)))
	q := dividend / divisor
	rem := dividend % divisor
	if q > 0x7fff || q < -0x8000 {
		e.S.SetFlagV(true)
		return nil
	}
	result := (uint32(rem)&0xffff)<<16 | (uint32(q) & 0xffff)
	e.S.SetDataReg(int(in.Reg), result, cpu.Long)
	e.S.SetFlagC(false)
	e.S.SetFlagV(false)
	e.S.SetFlagN(q < 0)
	e.S.SetFlagZ(q == 0)
	return nil
}

// CMP/CMPA/CMPI/CMPM compare without storing; X is left unchanged per
// §4.5.
func execCMP(e *Engine, in *decoder.Instruction) *trap.Trap {
	r, op, trp := e.resolveSrc(in, in.Size)
	if trp != nil {
		return trp
	}
	v, trp := r.Load(op)
	if trp != nil {
		return trp
	}
	r.CommitPostInc(op)
	r.CommitPreDec(op)
	cmpFlags(e.S, e.S.DataReg(int(in.Reg)), v, in.Size)
	return nil
}

func execCMPA(e *Engine, in *decoder.Instruction) *trap.Trap {
	r, op, trp := e.resolveSrc(in, in.Size)
	if trp != nil {
		return trp
	}
	v, trp := r.Load(op)
	if trp != nil {
		return trp
	}
	r.CommitPostInc(op)
	r.CommitPreDec(op)
	cmpFlags(e.S, e.S.AddrReg(int(in.Reg)), uint32(signExtend(v, in.Size)), cpu.Long)
	return nil
}

func execCMPI(e *Engine, in *decoder.Instruction) *trap.Trap {
	r, op, trp := e.resolveSrc(in, in.Size)
	if trp != nil {
		return trp
	}
	v, trp := r.Load(op)
	if trp != nil {
		return trp
	}
	r.CommitPostInc(op)
	r.CommitPreDec(op)
	cmpFlags(e.S, v, uint32(in.Data), in.Size)
	return nil
}

func execCMPM(e *Engine, in *decoder.Instruction) *trap.Trap {
	srcAddr := e.S.AddrReg(int(in.Reg2))
	dstAddr := e.S.AddrReg(int(in.Reg))
	src, trp := loadAt(e.Mem, srcAddr, in.Size)
	if trp != nil {
		return trp
	}
	dst, trp := loadAt(e.Mem, dstAddr, in.Size)
	if trp != nil {
		return trp
	}
	cmpFlags(e.S, dst, src, in.Size)
	e.S.SetAddrReg(int(in.Reg2), srcAddr+predecSize(in.Reg2, in.Size))
	e.S.SetAddrReg(int(in.Reg), dstAddr+predecSize(in.Reg, in.Size))
	return nil
}

// TST compares <ea> against zero without storing, using the logical
// flag rule (V,C cleared, X unchanged).
func execTST(e *Engine, in *decoder.Instruction) *trap.Trap {
	r, op, trp := e.resolveSrc(in, in.Size)
	if trp != nil {
		return trp
	}
	v, trp := r.Load(op)
	if trp != nil {
		return trp
	}
	r.CommitPostInc(op)
	r.CommitPreDec(op)
	x := e.S.FlagX()
	logicalFlags(e.S, v, in.Size)
	e.S.SetFlagX(x)
	return nil
}
