/*
   M68K execution engine: data movement opcodes.

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
	"github.com/dhadner/m68k/emu/ea"
	"github.com/dhadner/m68k/emu/opcodemap"
	"github.com/dhadner/m68k/emu/trap"
)

func init() {
	register(opcodemap.OpMOVE, execMOVE)
	register(opcodemap.OpMOVEA, execMOVEA)
	register(opcodemap.OpMOVEQ, execMOVEQ)
	register(opcodemap.OpMOVEM, execMOVEM)
	register(opcodemap.OpMOVEP, execMOVEP)
	register(opcodemap.OpLEA, execLEA)
	register(opcodemap.OpPEA, execPEA)
	register(opcodemap.OpEXG, execEXG)
	register(opcodemap.OpSWAP, execSWAP)
	register(opcodemap.OpEXT, execEXT)
	register(opcodemap.OpLINK, execLINK)
	register(opcodemap.OpUNLK, execUNLK)
	register(opcodemap.OpCLR, execCLR)
	register(opcodemap.OpANDItoCCR, execLogicalToCCR)
	register(opcodemap.OpORItoCCR, execLogicalToCCR)
	register(opcodemap.OpEORItoCCR, execLogicalToCCR)
	register(opcodemap.OpANDItoSR, execLogicalToSR)
	register(opcodemap.OpORItoSR, execLogicalToSR)
	register(opcodemap.OpEORItoSR, execLogicalToSR)
	register(opcodemap.OpMOVEtoCCR, execMOVEtoCCR)
	register(opcodemap.OpMOVEtoSR, execMOVEtoSR)
	register(opcodemap.OpMOVEfromSR, execMOVEfromSR)
	register(opcodemap.OpMOVEUSP, execMOVEUSP)
}

// MOVE sets N,Z from the moved value and always clears V and C; X is
// unchanged. MOVEA affects no flags at all.
func execMOVE(e *Engine, in *decoder.Instruction) *trap.Trap {
	srcR, srcOp, trp := e.resolveSrc(in, in.Size)
	if trp != nil {
		return trp
	}
	v, trp := srcR.Load(srcOp)
	if trp != nil {
		return trp
	}
	dstR, dstOp, trp := e.resolveDst(in, in.Size)
	if trp != nil {
		return trp
	}
	if trp := dstR.Store(dstOp, v); trp != nil {
		return trp
	}
	srcR.CommitPostInc(srcOp)
	srcR.CommitPreDec(srcOp)
	dstR.CommitPostInc(dstOp)
	dstR.CommitPreDec(dstOp)
	logicalFlags(e.S, v, in.Size)
	return nil
}

func execMOVEA(e *Engine, in *decoder.Instruction) *trap.Trap {
	srcR, srcOp, trp := e.resolveSrc(in, in.Size)
	if trp != nil {
		return trp
	}
	v, trp := srcR.Load(srcOp)
	if trp != nil {
		return trp
	}
	srcR.CommitPostInc(srcOp)
	srcR.CommitPreDec(srcOp)
	e.S.SetAddrReg(int(in.DstReg), uint32(signExtend(v, in.Size)))
	return nil
}

// MOVEQ sign-extends an 8-bit immediate to 32 bits and sets flags as a
// logical move of the full long result.
func execMOVEQ(e *Engine, in *decoder.Instruction) *trap.Trap {
	v := uint32(in.Data)
	e.S.SetDataReg(int(in.Reg), v, cpu.Long)
	logicalFlags(e.S, v, cpu.Long)
	return nil
}

// MOVEM transfers the registers named by the mask in in.Reg2/in.Cond
// (low byte, high byte) to or from memory. Affects no flags. In
// pre-decrement mode the mask bit order is reversed: A7 is bit 0
// instead of D0, and the register file is walked A7..D0 so the last
// register stored ends up adjacent to the final An.
func execMOVEM(e *Engine, in *decoder.Instruction) *trap.Trap {
	toRegs := in.Data != 0
	mask16 := uint16(in.Cond)<<8 | uint16(in.Reg2)
	width := in.Size.Bytes()

	regVal := func(bit int) uint32 {
		if bit < 8 {
			return e.S.DataReg(bit)
		}
		return e.S.AddrReg(bit - 8)
	}
	setReg := func(bit int, v uint32) {
		if bit < 8 {
			e.S.SetDataReg(bit, v, in.Size)
		} else {
			e.S.SetAddrReg(bit-8, uint32(signExtend(v, in.Size)))
		}
	}

	_, op, trp := e.resolveSrc(in, in.Size)
	if trp != nil {
		return trp
	}

	if op.Mode == ea.ModePreDec {
		cur := e.S.AddrReg(op.Reg)
		for maskBit := 0; maskBit < 16; maskBit++ {
			if mask16&(1<<uint(maskBit)) == 0 {
				continue
			}
			regBit := 15 - maskBit // mask bit 0 names A7, bit 15 names D0
			cur -= width
			var wtrp *trap.Trap
			if width == 4 {
				wtrp = e.Mem.WriteLong(cur, regVal(regBit))
			} else {
				wtrp = e.Mem.WriteWord(cur, uint16(regVal(regBit)))
			}
			if wtrp != nil {
				return wtrp
			}
		}
		e.S.SetAddrReg(op.Reg, cur)
		return nil
	}

	cur := op.Addr
	for bit := 0; bit < 16; bit++ {
		if mask16&(1<<uint(bit)) == 0 {
			continue
		}
		if toRegs {
			var v uint32
			var rtrp *trap.Trap
			if width == 4 {
				v, rtrp = e.Mem.ReadLong(cur)
			} else {
				var w uint16
				w, rtrp = e.Mem.ReadWord(cur)
				v = uint32(signExtend(uint32(w), cpu.Word))
			}
			if rtrp != nil {
				return rtrp
			}
			setReg(bit, v)
		} else {
			var wtrp *trap.Trap
			if width == 4 {
				wtrp = e.Mem.WriteLong(cur, regVal(bit))
			} else {
				wtrp = e.Mem.WriteWord(cur, uint16(regVal(bit)))
			}
			if wtrp != nil {
				return wtrp
			}
		}
		cur += width
	}
	if op.Mode == ea.ModePostInc {
		e.S.SetAddrReg(op.Reg, cur)
	}
	return nil
}

// MOVEP transfers bytes between a data register and alternate bytes of
// memory starting at An+d16; it never uses emu/ea since the only
// addressing form is (d16,An).
func execMOVEP(e *Engine, in *decoder.Instruction) *trap.Trap {
	addr := e.S.AddrReg(int(in.SrcReg)) + uint32(in.Data)
	toMem := in.Cond != 0
	n := 2
	if in.Size == cpu.Long {
		n = 4
	}
	if toMem {
		d := e.S.DataReg(int(in.Reg))
		shift := uint(n-1) * 8
		for i := 0; i < n; i++ {
			b := uint8(d >> shift)
			if trp := e.Mem.WriteByte(addr, b); trp != nil {
				return trp
			}
			addr += 2
			shift -= 8
		}
		return nil
	}
	var v uint32
	for i := 0; i < n; i++ {
		b, trp := e.Mem.ReadByte(addr)
		if trp != nil {
			return trp
		}
		v = v<<8 | uint32(b)
		addr += 2
	}
	e.S.SetDataReg(int(in.Reg), v, in.Size)
	return nil
}

// LEA/PEA compute an effective address without dereferencing it;
// affects no flags.
func execLEA(e *Engine, in *decoder.Instruction) *trap.Trap {
	_, op, trp := e.resolveSrc(in, cpu.Long)
	if trp != nil {
		return trp
	}
	e.S.SetAddrReg(int(in.Reg), op.Addr)
	return nil
}

func execPEA(e *Engine, in *decoder.Instruction) *trap.Trap {
	_, op, trp := e.resolveSrc(in, cpu.Long)
	if trp != nil {
		return trp
	}
	return e.pushLong(op.Addr)
}

// EXG swaps the full 32-bit contents of two registers. in.Data holds
// the mode field: 01000=Dx,Dy 01001=Ax,Ay 10001=Dx,Ay. Affects no
// flags.
func execEXG(e *Engine, in *decoder.Instruction) *trap.Trap {
	mode := in.Data
	switch mode {
	case 0x08:
		a, b := e.S.DataReg(int(in.Reg)), e.S.DataReg(int(in.Reg2))
		e.S.SetDataReg(int(in.Reg), b, cpu.Long)
		e.S.SetDataReg(int(in.Reg2), a, cpu.Long)
	case 0x09:
		a, b := e.S.AddrReg(int(in.Reg)), e.S.AddrReg(int(in.Reg2))
		e.S.SetAddrReg(int(in.Reg), b)
		e.S.SetAddrReg(int(in.Reg2), a)
	default:
		a, b := e.S.DataReg(int(in.Reg)), e.S.AddrReg(int(in.Reg2))
		e.S.SetDataReg(int(in.Reg), b, cpu.Long)
		e.S.SetAddrReg(int(in.Reg2), a)
	}
	return nil
}

// SWAP exchanges the high and low words of Dn; sets N,Z from the
// result and clears V,C.
func execSWAP(e *Engine, in *decoder.Instruction) *trap.Trap {
	v := e.S.DataReg(int(in.Reg))
	v = v<<16 | v>>16
	e.S.SetDataReg(int(in.Reg), v, cpu.Long)
	logicalFlags(e.S, v, cpu.Long)
	return nil
}

// EXT sign-extends the low byte (to word) or low word (to long) of
// Dn; sets N,Z on the extended result and clears V,C.
func execEXT(e *Engine, in *decoder.Instruction) *trap.Trap {
	d := e.S.DataReg(int(in.Reg))
	var v uint32
	if in.Size == cpu.Word {
		v = uint32(int32(int8(d)))
		e.S.SetDataReg(int(in.Reg), v, cpu.Word)
	} else {
		v = uint32(int32(int16(d)))
		e.S.SetDataReg(int(in.Reg), v, cpu.Long)
	}
	logicalFlags(e.S, v, in.Size)
	return nil
}

// LINK pushes An, copies the (now-updated) stack pointer into An, and
// adds the sign-extended 16-bit displacement to SP -- the classic
// frame-pointer prologue.
func execLINK(e *Engine, in *decoder.Instruction) *trap.Trap {
	an := e.S.AddrReg(int(in.Reg))
	if trp := e.pushLong(an); trp != nil {
		return trp
	}
	e.S.SetAddrReg(int(in.Reg), e.S.AddrReg(7))
	e.S.SetAddrReg(7, e.S.AddrReg(7)+uint32(in.Data))
	return nil
}

// UNLK reverses LINK: SP <- An, An <- (SP)+.
func execUNLK(e *Engine, in *decoder.Instruction) *trap.Trap {
	e.S.SetAddrReg(7, e.S.AddrReg(int(in.Reg)))
	v, trp := e.popLong()
	if trp != nil {
		return trp
	}
	e.S.SetAddrReg(int(in.Reg), v)
	return nil
}

// CLR writes zero to the destination and always reports the
// logical-zero flag pattern: N=0,Z=1,V=0,C=0.
func execCLR(e *Engine, in *decoder.Instruction) *trap.Trap {
	r, op, trp := e.resolveSrc(in, in.Size)
	if trp != nil {
		return trp
	}
	if trp := r.Store(op, 0); trp != nil {
		return trp
	}
	r.CommitPostInc(op)
	r.CommitPreDec(op)
	logicalFlags(e.S, 0, in.Size)
	return nil
}

// ANDI/ORI/EORI #imm,CCR affect only the CCR bits named by the
// immediate (always byte-sized per the decoder's toCCR handling).
func execLogicalToCCR(e *Engine, in *decoder.Instruction) *trap.Trap {
	ccr := e.S.CCR()
	imm := uint8(in.Data)
	switch in.Op {
	case opcodemap.OpANDItoCCR:
		e.S.SetCCR(ccr & imm)
	case opcodemap.OpORItoCCR:
		e.S.SetCCR(ccr | imm)
	case opcodemap.OpEORItoCCR:
		e.S.SetCCR(ccr ^ imm)
	}
	return nil
}

// ANDI/ORI/EORI #imm,SR are supervisor-only and affect the whole
// status register, including the mode bits.
func execLogicalToSR(e *Engine, in *decoder.Instruction) *trap.Trap {
	if trp := e.requireSupervisor(in); trp != nil {
		return trp
	}
	sr := e.S.SR
	imm := uint16(in.Data)
	switch in.Op {
	case opcodemap.OpANDItoSR:
		e.S.SetSR(sr & imm)
	case opcodemap.OpORItoSR:
		e.S.SetSR(sr | imm)
	case opcodemap.OpEORItoSR:
		e.S.SetSR(sr ^ imm)
	}
	return nil
}

// MOVE <ea>,CCR/SR and MOVE SR,<ea> affect no flags of their own
// beyond what loading the whole CCR/SR implies; MOVE to SR is
// supervisor-only.
func execMOVEtoCCR(e *Engine, in *decoder.Instruction) *trap.Trap {
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
	e.S.SetCCR(uint8(v))
	return nil
}

func execMOVEtoSR(e *Engine, in *decoder.Instruction) *trap.Trap {
	if trp := e.requireSupervisor(in); trp != nil {
		return trp
	}
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
	e.S.SetSR(uint16(v))
	return nil
}

func execMOVEfromSR(e *Engine, in *decoder.Instruction) *trap.Trap {
	r, op, trp := e.resolveSrc(in, cpu.Word)
	if trp != nil {
		return trp
	}
	if trp := r.Store(op, uint32(e.S.SR)); trp != nil {
		return trp
	}
	r.CommitPostInc(op)
	r.CommitPreDec(op)
	return nil
}

// MOVE USP,An / MOVE An,USP is supervisor-only and affects no flags.
func execMOVEUSP(e *Engine, in *decoder.Instruction) *trap.Trap {
	if trp := e.requireSupervisor(in); trp != nil {
		return trp
	}
	if in.Data != 0 {
		e.S.SetAddrReg(int(in.Reg), e.S.USP)
	} else {
		e.S.USP = e.S.AddrReg(int(in.Reg))
	}
	return nil
}
