/*
   M68K instruction decoder.

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

// Package decoder turns a raw M68K instruction word stream into an
// Instruction describing which handler runs it, its operand size, and
// its addressing-mode fields. The decoder never resolves an
// addressing mode to an actual memory address (that is emu/ea's job,
// done again at execution time against live register state) and it
// never traps: an opcode it cannot classify decodes as OpIllegal,
// OpLineA, or OpLineF and lets the execution engine raise the
// corresponding exception.
package decoder

import (
	"github.com/dhadner/m68k/emu/cpu"
	"github.com/dhadner/m68k/emu/ea"
	"github.com/dhadner/m68k/emu/memory"
	"github.com/dhadner/m68k/emu/opcodemap"
)

// Instruction is the decoder's output: a handler identifier plus the
// raw fields the execution engine and disassembler need to resolve
// operands and render text.
type Instruction struct {
	Op     opcodemap.ID
	Opcode uint16
	PC     uint32 // address of the opcode word
	Length uint32 // total bytes consumed, opcode word included
	Size   cpu.Size

	HasSrc   bool
	SrcMode  uint8
	SrcReg   uint8
	SrcExtPC uint32 // PC where the source operand's own extension words begin

	HasDst   bool
	DstMode  uint8
	DstReg   uint8
	DstExtPC uint32 // PC where the destination operand's own extension words begin

	Reg  uint8 // single register field: MOVEQ/EXT/SWAP/shift-count-register/...
	Reg2 uint8 // second register field, EXG only

	Cond uint8 // Bcc/DBcc/Scc condition, or TRAP vector number

	Data int32 // embedded immediate: MOVEQ data, quick data (0 means 8), branch displacement, shift count

	// Quick tells the execution engine to take the operand from Data
	// rather than from a register: ADDQ/SUBQ quick data, an immediate
	// shift count (memory-form shifts set it too), and a static bit
	// op's immediate bit number.
	Quick bool
}

// Decoder decodes instructions against a memory image. It holds no
// mutable state of its own: every Decode call is independent.
type Decoder struct {
	Mem memory.Memory
}

// New returns a Decoder reading from mem.
func New(mem memory.Memory) *Decoder {
	return &Decoder{Mem: mem}
}

// Decode reads one instruction at pc and returns it along with pc
// advanced past every word the instruction occupies.
func (d *Decoder) Decode(pc uint32) (Instruction, uint32) {
	word, trp := d.Mem.ReadWord(pc)
	if trp != nil {
		// A bus/address error reading the opcode word itself: report
		// as illegal so the execution engine raises the trap, per the
		// decoder-never-traps contract.
		return Instruction{Op: opcodemap.OpIllegal, Opcode: 0, PC: pc, Length: 2}, pc + 2
	}

	in := Instruction{Opcode: word, PC: pc}
	next := pc + 2

	switch word >> 12 {
	case 0x0:
		next = d.decode0(&in, next)
	case 0x1, 0x2, 0x3:
		next = d.decodeMove(&in, next)
	case 0x4:
		next = d.decode4(&in, next)
	case 0x5:
		next = d.decode5(&in, next)
	case 0x6:
		next = d.decode6(&in, next)
	case 0x7:
		d.decode7(&in)
	case 0x8:
		next = d.decode8(&in, next)
	case 0x9:
		next = d.decode9orD(&in, next, opcodemap.OpSUB, opcodemap.OpSUBA, opcodemap.OpSUBX)
	case 0xA:
		in.Op = opcodemap.OpLineA
	case 0xB:
		next = d.decodeB(&in, next)
	case 0xC:
		next = d.decodeC(&in, next)
	case 0xD:
		next = d.decode9orD(&in, next, opcodemap.OpADD, opcodemap.OpADDA, opcodemap.OpADDX)
	case 0xE:
		next = d.decodeE(&in, next)
	case 0xF:
		in.Op = opcodemap.OpLineF
	}

	in.Length = next - pc
	return in, next
}

// skipEA advances past the extension words a source or destination
// addressing mode consumes, without touching any register: the
// number of words a mode needs never depends on register contents.
func (d *Decoder) skipEA(mode, reg uint8, size cpu.Size, pc uint32) uint32 {
	r := ea.Resolver{S: &cpu.State{}, Mem: d.Mem, Size: size}
	_, next, trp := r.Resolve(mode, reg, pc)
	if trp != nil {
		return pc
	}
	return next
}

// skipSrcEA records where the source operand's extension words begin
// (the executor and disassembler re-resolve the mode later, against
// live register state, and need to know where to start reading) and
// then advances pc past them.
func (d *Decoder) skipSrcEA(in *Instruction, mode, reg uint8, size cpu.Size, pc uint32) uint32 {
	in.SrcExtPC = pc
	return d.skipEA(mode, reg, size, pc)
}

// skipDstEA is skipSrcEA's destination-operand counterpart.
func (d *Decoder) skipDstEA(in *Instruction, mode, reg uint8, size cpu.Size, pc uint32) uint32 {
	in.DstExtPC = pc
	return d.skipEA(mode, reg, size, pc)
}

func fields(word uint16) (dstReg, dstMode, srcMode, srcReg uint8) {
	dstReg = uint8((word >> 9) & 7)
	dstMode = uint8((word >> 6) & 7)
	srcMode = uint8((word >> 3) & 7)
	srcReg = uint8(word & 7)
	return
}

func sizeField2(word uint16) cpu.Size {
	switch (word >> 6) & 3 {
	case 0:
		return cpu.Byte
	case 1:
		return cpu.Word
	default:
		return cpu.Long
	}
}

// decodeMove handles the 0001/0010/0011 MOVE and MOVEA families: size
// is encoded in the top two bits and the destination field is
// transposed (mode, reg swapped relative to every other instruction).
func (d *Decoder) decodeMove(in *Instruction, pc uint32) uint32 {
	word := in.Opcode
	var size cpu.Size
	switch word >> 12 {
	case 0x1:
		size = cpu.Byte
	case 0x3:
		size = cpu.Word
	default:
		size = cpu.Long
	}
	in.Size = size

	srcMode := uint8((word >> 3) & 7)
	srcReg := uint8(word & 7)
	dstReg := uint8((word >> 9) & 7)
	dstMode := uint8((word >> 6) & 7)

	pc = d.skipSrcEA(in, srcMode, srcReg, size, pc)
	in.HasSrc = true
	in.SrcMode, in.SrcReg = srcMode, srcReg

	if dstMode == 1 {
		in.Op = opcodemap.OpMOVEA
		in.DstMode, in.DstReg = 1, dstReg
		in.HasDst = true
		return pc
	}
	pc = d.skipDstEA(in, dstMode, dstReg, size, pc)
	in.Op = opcodemap.OpMOVE
	in.DstMode, in.DstReg = dstMode, dstReg
	in.HasDst = true
	return pc
}

// decode0 handles immediate-to-EA ops, static/dynamic bit ops, and
// MOVEP (the 0000 major opcode).
func (d *Decoder) decode0(in *Instruction, pc uint32) uint32 {
	word := in.Opcode
	dstReg, _, srcMode, srcReg := fields(word)

	switch {
	case word&0xFF00 == 0x0800: // static bit ops, #<data>,<ea>
		in.Size = cpu.Byte
		if srcMode == 0 {
			in.Size = cpu.Long
		}
		imm, _ := d.Mem.ReadWord(pc)
		pc += 2
		in.Data = int32(imm & 0x1f)
		in.Quick = true // bit number is an immediate, not a register
		pc = d.skipSrcEA(in, srcMode, srcReg, in.Size, pc)
		in.HasSrc = true
		in.SrcMode, in.SrcReg = srcMode, srcReg
		switch (word >> 6) & 3 {
		case 0:
			in.Op = opcodemap.OpBTST
		case 1:
			in.Op = opcodemap.OpBCHG
		case 2:
			in.Op = opcodemap.OpBCLR
		default:
			in.Op = opcodemap.OpBSET
		}
		return pc

	case word&0xF100 == 0x0100 && word&0x38 != 0x08: // dynamic bit ops, Dn,<ea>
		in.Size = cpu.Byte
		if srcMode == 0 {
			in.Size = cpu.Long
		}
		in.Reg = dstReg
		pc = d.skipSrcEA(in, srcMode, srcReg, in.Size, pc)
		in.HasSrc = true
		in.SrcMode, in.SrcReg = srcMode, srcReg
		switch (word >> 6) & 3 {
		case 0:
			in.Op = opcodemap.OpBTST
		case 1:
			in.Op = opcodemap.OpBCHG
		case 2:
			in.Op = opcodemap.OpBCLR
		default:
			in.Op = opcodemap.OpBSET
		}
		return pc

	case word&0x0138 == 0x0108: // MOVEP, all four opmodes
		in.Op = opcodemap.OpMOVEP
		if word&0x40 != 0 {
			in.Size = cpu.Long
		} else {
			in.Size = cpu.Word
		}
		in.Reg = dstReg
		in.Cond = uint8((word >> 7) & 1) // 0: memory->Dn, 1: Dn->memory
		disp, _ := d.Mem.ReadWord(pc)
		in.Data = int32(int16(disp))
		in.HasSrc = true
		in.SrcMode, in.SrcReg = 5, srcReg
		return pc + 2
	}

	// Immediate-to-EA group: ORI/ANDI/SUBI/ADDI/EORI/CMPI, including
	// the to-CCR/to-SR variants at mode=7,reg=4 size=byte/word.
	op, toSR, toCCR := immediateOpFor(word)
	if op == opcodemap.OpIllegal {
		in.Op = opcodemap.OpIllegal
		return pc
	}
	size := sizeField2(word)
	in.Size = size

	if toSR || toCCR {
		// Only the logical immediates have CCR/SR forms; #imm as the
		// destination of ADDI/SUBI/CMPI stays unassigned.
		switch op {
		case opcodemap.OpANDI, opcodemap.OpORI, opcodemap.OpEORI:
		default:
			in.Op = opcodemap.OpIllegal
			return pc
		}
		imm, _ := d.Mem.ReadWord(pc)
		pc += 2
		in.Data = int32(imm)
		in.Size = cpu.Word
		if toCCR {
			in.Op = ccrVariant(op)
		} else {
			in.Op = srVariant(op)
		}
		return pc
	}

	if size == cpu.Byte {
		imm, _ := d.Mem.ReadWord(pc)
		in.Data = int32(int8(imm))
		pc += 2
	} else if size == cpu.Word {
		imm, _ := d.Mem.ReadWord(pc)
		in.Data = int32(int16(imm))
		pc += 2
	} else {
		hi, _ := d.Mem.ReadWord(pc)
		lo, _ := d.Mem.ReadWord(pc + 2)
		in.Data = int32(uint32(hi)<<16 | uint32(lo))
		pc += 4
	}
	pc = d.skipSrcEA(in, srcMode, srcReg, size, pc)
	in.HasSrc = true
	in.SrcMode, in.SrcReg = srcMode, srcReg
	in.Op = op
	return pc
}

func immediateOpFor(word uint16) (op opcodemap.ID, toSR, toCCR bool) {
	eaMode := uint8((word >> 3) & 7)
	switch word & 0xFF00 {
	case 0x0000:
		op = opcodemap.OpORI
	case 0x0200:
		op = opcodemap.OpANDI
	case 0x0400:
		op = opcodemap.OpSUBI
	case 0x0600:
		op = opcodemap.OpADDI
	case 0x0A00:
		op = opcodemap.OpEORI
	case 0x0C00:
		op = opcodemap.OpCMPI
	default:
		return opcodemap.OpIllegal, false, false
	}
	if eaMode == 7 && (word&7) == 4 {
		size := sizeField2(word)
		if size == cpu.Byte {
			toCCR = true
		} else {
			toSR = true
		}
	}
	return
}

func ccrVariant(op opcodemap.ID) opcodemap.ID {
	switch op {
	case opcodemap.OpANDI:
		return opcodemap.OpANDItoCCR
	case opcodemap.OpORI:
		return opcodemap.OpORItoCCR
	case opcodemap.OpEORI:
		return opcodemap.OpEORItoCCR
	}
	return op
}

func srVariant(op opcodemap.ID) opcodemap.ID {
	switch op {
	case opcodemap.OpANDI:
		return opcodemap.OpANDItoSR
	case opcodemap.OpORI:
		return opcodemap.OpORItoSR
	case opcodemap.OpEORI:
		return opcodemap.OpEORItoSR
	}
	return op
}

// decode4 handles the 0100 miscellaneous family: NEGX/CLR/NEG/NOT/
// NBCD/TST/CHK/LEA/PEA/SWAP/EXT/MOVEM/TRAP/LINK/UNLK/MOVE-USP/RESET/
// NOP/STOP/RTE/RTS/TRAPV/RTR/JSR/JMP.
func (d *Decoder) decode4(in *Instruction, pc uint32) uint32 {
	word := in.Opcode
	dstReg, _, srcMode, srcReg := fields(word)

	switch {
	case word == 0x4E71:
		in.Op = opcodemap.OpNOP
		return pc
	case word == 0x4E70:
		in.Op = opcodemap.OpRESET
		return pc
	case word == 0x4E72:
		in.Op = opcodemap.OpSTOP
		imm, _ := d.Mem.ReadWord(pc)
		in.Data = int32(imm)
		return pc + 2
	case word == 0x4E73:
		in.Op = opcodemap.OpRTE
		return pc
	case word == 0x4E77:
		in.Op = opcodemap.OpRTR
		return pc
	case word == 0x4E75:
		in.Op = opcodemap.OpRTS
		return pc
	case word == 0x4E76:
		in.Op = opcodemap.OpTRAPV
		return pc
	case word&0xFFF8 == 0x4E50:
		in.Op = opcodemap.OpLINK
		in.Reg = srcReg
		disp, _ := d.Mem.ReadWord(pc)
		in.Data = int32(int16(disp))
		return pc + 2
	case word&0xFFF8 == 0x4E58:
		in.Op = opcodemap.OpUNLK
		in.Reg = srcReg
		return pc
	case word&0xFFF0 == 0x4E60:
		in.Op = opcodemap.OpMOVEUSP
		in.Reg = srcReg
		in.Data = int32((word >> 3) & 1) // 0: USP<-An, 1: An<-USP
		return pc
	case word&0xFFF0 == 0x4E40: // TRAP #n
		in.Op = opcodemap.OpTRAP
		in.Cond = uint8(word & 0xf)
		return pc
	case word&0xFFC0 == 0x4E80 || word&0xFFC0 == 0x4EC0: // JSR/JMP
		if word&0xFFC0 == 0x4E80 {
			in.Op = opcodemap.OpJSR
		} else {
			in.Op = opcodemap.OpJMP
		}
		pc = d.skipSrcEA(in, srcMode, srcReg, cpu.Long, pc)
		in.HasSrc = true
		in.SrcMode, in.SrcReg = srcMode, srcReg
		return pc
	case word&0xF1C0 == 0x41C0: // LEA
		in.Op = opcodemap.OpLEA
		in.Reg = dstReg
		pc = d.skipSrcEA(in, srcMode, srcReg, cpu.Long, pc)
		in.HasSrc = true
		in.SrcMode, in.SrcReg = srcMode, srcReg
		return pc
	case word&0xF1C0 == 0x4180: // CHK
		in.Op = opcodemap.OpCHK
		in.Reg = dstReg
		in.Size = cpu.Word
		pc = d.skipSrcEA(in, srcMode, srcReg, cpu.Word, pc)
		in.HasSrc, in.SrcMode, in.SrcReg = true, srcMode, srcReg
		return pc
	case word&0xFFC0 == 0x40C0: // MOVE SR,<ea>
		in.Op = opcodemap.OpMOVEfromSR
		in.Size = cpu.Word
		pc = d.skipSrcEA(in, srcMode, srcReg, cpu.Word, pc)
		in.HasSrc, in.SrcMode, in.SrcReg = true, srcMode, srcReg
		return pc
	case word&0xFFC0 == 0x44C0: // MOVE <ea>,CCR
		in.Op = opcodemap.OpMOVEtoCCR
		in.Size = cpu.Word
		pc = d.skipSrcEA(in, srcMode, srcReg, cpu.Word, pc)
		in.HasSrc, in.SrcMode, in.SrcReg = true, srcMode, srcReg
		return pc
	case word&0xFFC0 == 0x46C0: // MOVE <ea>,SR
		in.Op = opcodemap.OpMOVEtoSR
		in.Size = cpu.Word
		pc = d.skipSrcEA(in, srcMode, srcReg, cpu.Word, pc)
		in.HasSrc, in.SrcMode, in.SrcReg = true, srcMode, srcReg
		return pc
	case word&0xFF00 == 0x4000: // NEGX
		in.Op = opcodemap.OpNEGX
		in.Size = sizeField2(word)
		pc = d.skipSrcEA(in, srcMode, srcReg, in.Size, pc)
		in.HasSrc, in.SrcMode, in.SrcReg = true, srcMode, srcReg
		return pc
	case word&0xFF00 == 0x4200: // CLR
		in.Op = opcodemap.OpCLR
		in.Size = sizeField2(word)
		pc = d.skipSrcEA(in, srcMode, srcReg, in.Size, pc)
		in.HasSrc, in.SrcMode, in.SrcReg = true, srcMode, srcReg
		return pc
	case word&0xFF00 == 0x4400: // NEG
		in.Op = opcodemap.OpNEG
		in.Size = sizeField2(word)
		pc = d.skipSrcEA(in, srcMode, srcReg, in.Size, pc)
		in.HasSrc, in.SrcMode, in.SrcReg = true, srcMode, srcReg
		return pc
	case word&0xFF00 == 0x4600: // NOT
		in.Op = opcodemap.OpNOT
		in.Size = sizeField2(word)
		pc = d.skipSrcEA(in, srcMode, srcReg, in.Size, pc)
		in.HasSrc, in.SrcMode, in.SrcReg = true, srcMode, srcReg
		return pc
	case word&0xFFC0 == 0x4800: // NBCD
		in.Op = opcodemap.OpNBCD
		in.Size = cpu.Byte
		pc = d.skipSrcEA(in, srcMode, srcReg, cpu.Byte, pc)
		in.HasSrc, in.SrcMode, in.SrcReg = true, srcMode, srcReg
		return pc
	case word&0xFFF8 == 0x4840: // SWAP
		in.Op = opcodemap.OpSWAP
		in.Reg = srcReg
		return pc
	case word&0xFFC0 == 0x4840: // PEA
		in.Op = opcodemap.OpPEA
		pc = d.skipSrcEA(in, srcMode, srcReg, cpu.Long, pc)
		in.HasSrc, in.SrcMode, in.SrcReg = true, srcMode, srcReg
		return pc
	case word&0xFFB8 == 0x4880: // EXT.W / EXT.L (ea mode field 000)
		in.Op = opcodemap.OpEXT
		in.Reg = srcReg
		if word&0x0040 != 0 {
			in.Size = cpu.Long
		} else {
			in.Size = cpu.Word
		}
		return pc
	case word&0xFB80 == 0x4880: // MOVEM, both directions
		in.Op = opcodemap.OpMOVEM
		if word&0x0040 != 0 {
			in.Size = cpu.Long
		} else {
			in.Size = cpu.Word
		}
		in.Data = int32((word >> 10) & 1) // 0: regs->mem, 1: mem->regs
		mask, _ := d.Mem.ReadWord(pc)
		pc += 2
		pc = d.skipSrcEA(in, srcMode, srcReg, in.Size, pc)
		in.HasSrc = true
		in.SrcMode, in.SrcReg = srcMode, srcReg
		in.Reg2 = uint8(mask & 0xff)
		in.Cond = uint8(mask >> 8)
		return pc
	case word == 0x4AFC: // the canonical illegal-instruction marker
		in.Op = opcodemap.OpIllegal
		return pc
	case word&0xFFC0 == 0x4AC0: // TAS
		in.Op = opcodemap.OpTAS
		in.Size = cpu.Byte
		pc = d.skipSrcEA(in, srcMode, srcReg, cpu.Byte, pc)
		in.HasSrc, in.SrcMode, in.SrcReg = true, srcMode, srcReg
		return pc
	case word&0xFF00 == 0x4A00: // TST
		in.Op = opcodemap.OpTST
		in.Size = sizeField2(word)
		pc = d.skipSrcEA(in, srcMode, srcReg, in.Size, pc)
		in.HasSrc, in.SrcMode, in.SrcReg = true, srcMode, srcReg
		return pc
	}
	in.Op = opcodemap.OpIllegal
	return pc
}

// decode5 handles ADDQ/SUBQ/Scc/DBcc.
func (d *Decoder) decode5(in *Instruction, pc uint32) uint32 {
	word := in.Opcode
	_, _, srcMode, srcReg := fields(word)
	data := int32((word >> 9) & 7)
	if data == 0 {
		data = 8
	}
	cond := uint8((word >> 8) & 0xf)

	if word&0x00C0 == 0x00C0 {
		if srcMode == 1 {
			in.Op = opcodemap.OpDBcc
			in.Cond = cond
			in.Reg = srcReg
			disp, _ := d.Mem.ReadWord(pc)
			in.Data = int32(int16(disp))
			return pc + 2
		}
		in.Op = opcodemap.OpScc
		in.Cond = cond
		in.Size = cpu.Byte
		pc = d.skipSrcEA(in, srcMode, srcReg, cpu.Byte, pc)
		in.HasSrc, in.SrcMode, in.SrcReg = true, srcMode, srcReg
		return pc
	}

	in.Size = sizeField2(word)
	in.Data = data
	in.Quick = true
	pc = d.skipSrcEA(in, srcMode, srcReg, in.Size, pc)
	in.HasSrc, in.SrcMode, in.SrcReg = true, srcMode, srcReg
	if word&0x0100 != 0 {
		in.Op = opcodemap.OpSUBQ
	} else {
		in.Op = opcodemap.OpADDQ
	}
	return pc
}

// decode6 handles BRA/BSR/Bcc.
func (d *Decoder) decode6(in *Instruction, pc uint32) uint32 {
	word := in.Opcode
	cond := uint8((word >> 8) & 0xf)
	disp8 := int8(word & 0xff)
	var data int32
	if disp8 != 0 {
		data = int32(disp8)
	} else {
		w, _ := d.Mem.ReadWord(pc)
		data = int32(int16(w))
		pc += 2
	}
	in.Data = data
	switch cond {
	case 0:
		in.Op = opcodemap.OpBRA
	case 1:
		in.Op = opcodemap.OpBSR
	default:
		in.Op = opcodemap.OpBcc
		in.Cond = cond
	}
	return pc
}

// decode7 handles MOVEQ.
func (d *Decoder) decode7(in *Instruction) {
	word := in.Opcode
	in.Op = opcodemap.OpMOVEQ
	in.Reg = uint8((word >> 9) & 7)
	in.Data = int32(int8(word & 0xff))
	in.Size = cpu.Long
}

// decode8 handles OR/DIVU/DIVS/SBCD.
func (d *Decoder) decode8(in *Instruction, pc uint32) uint32 {
	word := in.Opcode
	dstReg, _, srcMode, srcReg := fields(word)
	opmode := (word >> 6) & 7

	if opmode == 3 { // DIVU
		in.Op = opcodemap.OpDIVU
		in.Reg = dstReg
		in.Size = cpu.Word
		pc = d.skipSrcEA(in, srcMode, srcReg, cpu.Word, pc)
		in.HasSrc, in.SrcMode, in.SrcReg = true, srcMode, srcReg
		return pc
	}
	if opmode == 7 { // DIVS
		in.Op = opcodemap.OpDIVS
		in.Reg = dstReg
		in.Size = cpu.Word
		pc = d.skipSrcEA(in, srcMode, srcReg, cpu.Word, pc)
		in.HasSrc, in.SrcMode, in.SrcReg = true, srcMode, srcReg
		return pc
	}
	if word&0x01F0 == 0x0100 { // SBCD Dx,Dy or SBCD -(Ax),-(Ay)
		in.Op = opcodemap.OpSBCD
		in.Size = cpu.Byte
		in.Reg = dstReg
		in.Reg2 = srcReg
		in.Data = int32((word >> 3) & 1) // 1: memory form
		return pc
	}
	in.Op = opcodemap.OpOR
	in.Reg = dstReg
	in.Size = sizeField2(word)
	in.Data = int32((word >> 8) & 1) // 0: ea op Dn -> Dn, 1: Dn op ea -> ea
	pc = d.skipSrcEA(in, srcMode, srcReg, in.Size, pc)
	in.HasSrc, in.SrcMode, in.SrcReg = true, srcMode, srcReg
	return pc
}

// decode9orD covers the near-identical 1001 (SUB family) and 1101
// (ADD family) major opcodes.
func (d *Decoder) decode9orD(in *Instruction, pc uint32, opReg, opAddr, opX opcodemap.ID) uint32 {
	word := in.Opcode
	dstReg, _, srcMode, srcReg := fields(word)
	opmode := (word >> 6) & 7

	if opmode == 3 || opmode == 7 { // ADDA/SUBA
		var size cpu.Size
		if opmode == 3 {
			size = cpu.Word
		} else {
			size = cpu.Long
		}
		in.Size = size
		in.Reg = dstReg
		pc = d.skipSrcEA(in, srcMode, srcReg, size, pc)
		in.HasSrc, in.SrcMode, in.SrcReg = true, srcMode, srcReg
		in.Op = opAddr
		return pc
	}

	if word&0x0130 == 0x0100 { // ADDX/SUBX Dy,Dx or -(Ay),-(Ax)
		in.Op = opX
		in.Size = sizeField2(word)
		in.Reg = dstReg
		in.Reg2 = srcReg
		in.Data = int32((word >> 3) & 1)
		return pc
	}

	in.Op = opReg
	in.Size = sizeField2(word)
	in.Reg = dstReg
	in.Data = int32((word >> 8) & 1)
	pc = d.skipSrcEA(in, srcMode, srcReg, in.Size, pc)
	in.HasSrc, in.SrcMode, in.SrcReg = true, srcMode, srcReg
	return pc
}

// decodeB handles CMP/CMPA/CMPM/EOR.
func (d *Decoder) decodeB(in *Instruction, pc uint32) uint32 {
	word := in.Opcode
	dstReg, _, srcMode, srcReg := fields(word)
	opmode := (word >> 6) & 7

	if opmode == 3 || opmode == 7 {
		var size cpu.Size
		if opmode == 3 {
			size = cpu.Word
		} else {
			size = cpu.Long
		}
		in.Op = opcodemap.OpCMPA
		in.Size = size
		in.Reg = dstReg
		pc = d.skipSrcEA(in, srcMode, srcReg, size, pc)
		in.HasSrc, in.SrcMode, in.SrcReg = true, srcMode, srcReg
		return pc
	}
	if word&0x0138 == 0x0108 { // CMPM (Ay)+,(Ax)+
		in.Op = opcodemap.OpCMPM
		in.Size = sizeField2(word)
		in.Reg = dstReg
		in.Reg2 = srcReg
		return pc
	}
	if word&0x0100 != 0 { // EOR Dn,<ea>
		in.Op = opcodemap.OpEOR
		in.Size = sizeField2(word)
		in.Reg = dstReg
		pc = d.skipSrcEA(in, srcMode, srcReg, in.Size, pc)
		in.HasSrc, in.SrcMode, in.SrcReg = true, srcMode, srcReg
		return pc
	}
	in.Op = opcodemap.OpCMP
	in.Size = sizeField2(word)
	in.Reg = dstReg
	pc = d.skipSrcEA(in, srcMode, srcReg, in.Size, pc)
	in.HasSrc, in.SrcMode, in.SrcReg = true, srcMode, srcReg
	return pc
}

// decodeC handles AND/MULU/MULS/ABCD/EXG.
func (d *Decoder) decodeC(in *Instruction, pc uint32) uint32 {
	word := in.Opcode
	dstReg, _, srcMode, srcReg := fields(word)
	opmode := (word >> 6) & 7

	if opmode == 3 {
		in.Op = opcodemap.OpMULU
		in.Reg = dstReg
		in.Size = cpu.Word
		pc = d.skipSrcEA(in, srcMode, srcReg, cpu.Word, pc)
		in.HasSrc, in.SrcMode, in.SrcReg = true, srcMode, srcReg
		return pc
	}
	if opmode == 7 {
		in.Op = opcodemap.OpMULS
		in.Reg = dstReg
		in.Size = cpu.Word
		pc = d.skipSrcEA(in, srcMode, srcReg, cpu.Word, pc)
		in.HasSrc, in.SrcMode, in.SrcReg = true, srcMode, srcReg
		return pc
	}
	if word&0x01F0 == 0x0100 { // ABCD
		in.Op = opcodemap.OpABCD
		in.Size = cpu.Byte
		in.Reg = dstReg
		in.Reg2 = srcReg
		in.Data = int32((word >> 3) & 1)
		return pc
	}
	if word&0x01F8 == 0x0140 || word&0x01F8 == 0x0148 || word&0x01F8 == 0x0188 { // EXG
		in.Op = opcodemap.OpEXG
		in.Reg = dstReg
		in.Reg2 = srcReg
		in.Data = int32((word >> 3) & 0x1f)
		return pc
	}
	in.Op = opcodemap.OpAND
	in.Size = sizeField2(word)
	in.Reg = dstReg
	in.Data = int32((word >> 8) & 1)
	pc = d.skipSrcEA(in, srcMode, srcReg, in.Size, pc)
	in.HasSrc, in.SrcMode, in.SrcReg = true, srcMode, srcReg
	return pc
}

// decodeE handles the shift/rotate group: immediate count, register
// count, and the single-bit memory-operand form.
func (d *Decoder) decodeE(in *Instruction, pc uint32) uint32 {
	word := in.Opcode
	dstReg, _, srcMode, srcReg := fields(word)

	if (word>>6)&3 == 3 { // memory-operand shift, always size word, count 1
		kind := (word >> 9) & 3
		dir := (word >> 8) & 1
		in.Op = shiftID(kind, dir)
		in.Size = cpu.Word
		in.Data = 1
		in.Quick = true
		pc = d.skipSrcEA(in, srcMode, srcReg, cpu.Word, pc)
		in.HasSrc, in.SrcMode, in.SrcReg = true, srcMode, srcReg
		return pc
	}

	in.Size = sizeField2(word)
	in.Reg = srcReg
	dir := (word >> 8) & 1
	kind := (word >> 3) & 3
	in.Op = shiftID(kind, dir)
	if word&0x20 != 0 { // register count, mod 64
		in.Data = int32(dstReg)
		in.Quick = false
	} else {
		count := int32(dstReg)
		if count == 0 {
			count = 8
		}
		in.Data = count
		in.Quick = true
	}
	return pc
}

func shiftID(kind uint16, dir uint16) opcodemap.ID {
	left := dir != 0
	switch kind {
	case 0:
		if left {
			return opcodemap.OpASL
		}
		return opcodemap.OpASR
	case 1:
		if left {
			return opcodemap.OpLSL
		}
		return opcodemap.OpLSR
	case 2:
		if left {
			return opcodemap.OpROXL
		}
		return opcodemap.OpROXR
	default:
		if left {
			return opcodemap.OpROL
		}
		return opcodemap.OpROR
	}
}
