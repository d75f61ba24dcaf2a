/*
   M68K effective address resolution.

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

// Package ea resolves the twelve M68K addressing modes to an operand
// location, reading any extension words the mode requires from
// memory and advancing the instruction stream as it goes.
package ea

import (
	"github.com/dhadner/m68k/emu/cpu"
	"github.com/dhadner/m68k/emu/memory"
	"github.com/dhadner/m68k/emu/trap"
)

// Mode names one of the twelve M68K addressing modes.
type Mode int

const (
	ModeDataReg       Mode = iota // Dn
	ModeAddrReg                   // An
	ModeIndirect                  // (An)
	ModePostInc                   // (An)+
	ModePreDec                    // -(An)
	ModeDisplacement              // (d16,An)
	ModeIndex                     // (d8,An,Xn)
	ModeAbsShort                  // (xxx).W
	ModeAbsLong                   // (xxx).L
	ModePCDisp                    // (d16,PC)
	ModePCIndex                   // (d8,PC,Xn)
	ModeImmediate                 // #<data>
)

// Operand is a resolved effective address: either a register number
// (ModeDataReg/ModeAddrReg) or a memory address, plus enough
// information for the disassembler to re-render the mode textually.
type Operand struct {
	Mode Mode
	Reg  int    // register field (0-7), meaningful for register and indirect modes
	Addr uint32 // resolved memory address, meaningful for memory modes
	Imm  uint32 // immediate value, meaningful for ModeImmediate

	// Extra fields captured purely for disassembly text rendering.
	Displacement int32 // (d16,An)/(d8,An,Xn)/(d16,PC)/(d8,PC,Xn)
	IndexReg     int   // Xn register number for indexed modes
	IndexIsAddr  bool  // Xn is an address register
	IndexLong    bool  // Xn.L vs Xn.W
	PCAtExt1     uint32 // PC value at the first extension word, for PC-relative disassembly
}

// Resolver decodes addressing modes against a CPU register file and a
// flat memory image, consuming extension words from the instruction
// stream as required.
type Resolver struct {
	S    *cpu.State
	Mem  memory.Memory
	Size cpu.Size
}

// Resolve decodes the 6-bit mode+register field (mode in bits 5-3,
// register in bits 2-0) at the current PC, consuming any extension
// words the mode requires and returning the operand plus the updated
// PC. pc is the address of the word immediately following the opcode
// word (i.e. where extension words begin).
func (r *Resolver) Resolve(modeField, regField uint8, pc uint32) (Operand, uint32, *trap.Trap) {
	switch modeField & 7 {
	case 0:
		return Operand{Mode: ModeDataReg, Reg: int(regField)}, pc, nil
	case 1:
		return Operand{Mode: ModeAddrReg, Reg: int(regField)}, pc, nil
	case 2:
		return Operand{Mode: ModeIndirect, Reg: int(regField), Addr: r.S.AddrReg(int(regField))}, pc, nil
	case 3:
		return Operand{Mode: ModePostInc, Reg: int(regField), Addr: r.S.AddrReg(int(regField))}, pc, nil
	case 4:
		an := int(regField)
		addr := r.S.AddrReg(an) - r.predecAmount(an)
		return Operand{Mode: ModePreDec, Reg: an, Addr: addr}, pc, nil
	case 5:
		disp, trp := r.Mem.ReadWord(pc)
		if trp != nil {
			return Operand{}, pc, trp
		}
		d := int16(disp)
		addr := r.S.AddrReg(int(regField)) + uint32(int32(d))
		return Operand{Mode: ModeDisplacement, Reg: int(regField), Addr: addr, Displacement: int32(d)}, pc + 2, nil
	case 6:
		op, next, trp := r.resolveIndexed(r.S.AddrReg(int(regField)), pc, false)
		op.Mode = ModeIndex
		op.Reg = int(regField)
		return op, next, trp
	case 7:
		switch regField {
		case 0:
			w, trp := r.Mem.ReadWord(pc)
			if trp != nil {
				return Operand{}, pc, trp
			}
			addr := uint32(int32(int16(w)))
			return Operand{Mode: ModeAbsShort, Addr: addr}, pc + 2, nil
		case 1:
			hi, trp := r.Mem.ReadWord(pc)
			if trp != nil {
				return Operand{}, pc, trp
			}
			lo, trp2 := r.Mem.ReadWord(pc + 2)
			if trp2 != nil {
				return Operand{}, pc, trp2
			}
			addr := uint32(hi)<<16 | uint32(lo)
			return Operand{Mode: ModeAbsLong, Addr: addr}, pc + 4, nil
		case 2:
			pcAtExt := pc
			disp, trp := r.Mem.ReadWord(pc)
			if trp != nil {
				return Operand{}, pc, trp
			}
			addr := pcAtExt + uint32(int32(int16(disp)))
			return Operand{Mode: ModePCDisp, Addr: addr, Displacement: int32(int16(disp)), PCAtExt1: pcAtExt}, pc + 2, nil
		case 3:
			op, newPC, trp := r.resolveIndexed(pc, pc, true)
			op.Mode = ModePCIndex
			return op, newPC, trp
		case 4:
			switch r.Size {
			case cpu.Byte:
				w, trp := r.Mem.ReadWord(pc)
				if trp != nil {
					return Operand{}, pc, trp
				}
				return Operand{Mode: ModeImmediate, Imm: uint32(w & 0xff)}, pc + 2, nil
			case cpu.Word:
				w, trp := r.Mem.ReadWord(pc)
				if trp != nil {
					return Operand{}, pc, trp
				}
				return Operand{Mode: ModeImmediate, Imm: uint32(w)}, pc + 2, nil
			default:
				hi, trp := r.Mem.ReadWord(pc)
				if trp != nil {
					return Operand{}, pc, trp
				}
				lo, trp2 := r.Mem.ReadWord(pc + 2)
				if trp2 != nil {
					return Operand{}, pc, trp2
				}
				return Operand{Mode: ModeImmediate, Imm: uint32(hi)<<16 | uint32(lo)}, pc + 4, nil
			}
		}
	}
	return Operand{}, pc, trap.New(trap.IllegalInst, 0, pc)
}

// resolveIndexed decodes the brief extension word format used by
// (d8,An,Xn) and (d8,PC,Xn): base is the An or PC value the
// displacement and index are added to.
func (r *Resolver) resolveIndexed(base uint32, pc uint32, isPC bool) (Operand, uint32, *trap.Trap) {
	ext, trp := r.Mem.ReadWord(pc)
	if trp != nil {
		return Operand{}, pc, trp
	}
	xnIsAddr := ext&0x8000 != 0
	xn := int((ext >> 12) & 7)
	isLong := ext&0x0800 != 0
	disp := int8(ext & 0xff)

	var xnVal uint32
	if xnIsAddr {
		xnVal = r.S.AddrReg(xn)
	} else {
		xnVal = r.S.DataReg(xn)
	}
	if !isLong {
		xnVal = uint32(int32(int16(xnVal)))
	}

	addr := base + uint32(int32(disp)) + xnVal
	op := Operand{
		Addr:         addr,
		Displacement: int32(disp),
		IndexReg:     xn,
		IndexIsAddr:  xnIsAddr,
		IndexLong:    isLong,
	}
	if isPC {
		op.PCAtExt1 = pc
	}
	return op, pc + 2, nil
}

// predecAmount returns the amount -(An) subtracts: the operand size,
// except A7 in byte mode which always moves by 2 to keep the stack
// word-aligned.
func (r *Resolver) predecAmount(an int) uint32 {
	if an == 7 && r.Size == cpu.Byte {
		return 2
	}
	return r.Size.Bytes()
}

// PostIncAmount returns the amount (An)+ advances by, applying the
// same A7-byte-mode special case as predecAmount.
func (r *Resolver) PostIncAmount(an int) uint32 {
	return r.predecAmount(an)
}

// Load reads the operand's value at the resolver's configured size.
func (r *Resolver) Load(op Operand) (uint32, *trap.Trap) {
	switch op.Mode {
	case ModeDataReg:
		v := r.S.DataReg(op.Reg)
		switch r.Size {
		case cpu.Byte:
			return v & 0xff, nil
		case cpu.Word:
			return v & 0xffff, nil
		default:
			return v, nil
		}
	case ModeAddrReg:
		return r.S.AddrReg(op.Reg), nil
	case ModeImmediate:
		return op.Imm, nil
	default:
		switch r.Size {
		case cpu.Byte:
			v, trp := r.Mem.ReadByte(op.Addr)
			return uint32(v), trp
		case cpu.Word:
			v, trp := r.Mem.ReadWord(op.Addr)
			return uint32(v), trp
		default:
			return r.Mem.ReadLong(op.Addr)
		}
	}
}

// Store writes v into the operand at the resolver's configured size.
func (r *Resolver) Store(op Operand, v uint32) *trap.Trap {
	switch op.Mode {
	case ModeDataReg:
		r.S.SetDataReg(op.Reg, v, r.Size)
		return nil
	case ModeAddrReg:
		if r.Size == cpu.Word {
			v = uint32(int32(int16(v)))
		}
		r.S.SetAddrReg(op.Reg, v)
		return nil
	default:
		switch r.Size {
		case cpu.Byte:
			return r.Mem.WriteByte(op.Addr, uint8(v))
		case cpu.Word:
			return r.Mem.WriteWord(op.Addr, uint16(v))
		default:
			return r.Mem.WriteLong(op.Addr, v)
		}
	}
}

// CommitPostInc bumps An by the operand size (A7 byte special-cased)
// after a (An)+ operand has been fully used. Callers apply this once
// all reads/writes against the operand are done, so read-modify-write
// handlers can resolve the address once and reuse it.
func (r *Resolver) CommitPostInc(op Operand) {
	if op.Mode != ModePostInc {
		return
	}
	r.S.SetAddrReg(op.Reg, r.S.AddrReg(op.Reg)+r.PostIncAmount(op.Reg))
}

// CommitPreDec writes the already-computed predecremented address
// back into An. Callers apply this once, before using op.Addr, so a
// read-modify-write handler that resolves the operand once still only
// decrements the register once.
func (r *Resolver) CommitPreDec(op Operand) {
	if op.Mode != ModePreDec {
		return
	}
	r.S.SetAddrReg(op.Reg, op.Addr)
}
