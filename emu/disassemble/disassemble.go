/*
   M68K disassembler.

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

// Package disassemble renders M68K machine code as VASM-style
// assembler text. The disassembler runs against a cloned register
// file over the same memory image as execution, so scanning never
// perturbs CPU state, and all of its memory reads bypass the
// odd-address check so data sections can sit anywhere.
package disassemble

import (
	"fmt"
	"strings"

	"github.com/dhadner/m68k/emu/cpu"
	"github.com/dhadner/m68k/emu/decoder"
	"github.com/dhadner/m68k/emu/ea"
	"github.com/dhadner/m68k/emu/memory"
	"github.com/dhadner/m68k/emu/opcodemap"
	"github.com/dhadner/m68k/emu/trap"
	"github.com/dhadner/m68k/util/debug"
)

// operandColumn is the tab stop operands start at; mnemonics begin at
// column 0, per VASM listing conventions. Spaces only, no tabs.
const operandColumn = 8

// SymbolResolver maps a target address to a label. The default
// resolver emits L<addr>; a host with a symbol table substitutes its
// own so PC-relative and absolute operands render symbolically.
type SymbolResolver interface {
	Label(addr uint32) string
}

type defaultSymbols struct{}

func (defaultSymbols) Label(addr uint32) string {
	return fmt.Sprintf("L%06X", addr&0xFFFFFF)
}

// Record is one line of disassembly: either a decoded operation or a
// DC directive covering part of a non-executable section.
type Record struct {
	Addr      uint32
	Length    uint32
	Directive bool
	Text      string
}

// rawView wraps a Memory so word and long reads bypass the
// odd-address check. The disassembler never writes.
type rawView struct {
	memory.Memory
}

func (v rawView) ReadWord(addr uint32) (uint16, *trap.Trap) {
	return v.Memory.ReadWordRaw(addr), nil
}

func (v rawView) ReadLong(addr uint32) (uint32, *trap.Trap) {
	hi := v.Memory.ReadWordRaw(addr)
	lo := v.Memory.ReadWordRaw(addr + 2)
	return uint32(hi)<<16 | uint32(lo), nil
}

// Disassembler scans a memory image, alternating between decoded
// instructions and data directives for non-executable sections.
type Disassembler struct {
	s        *cpu.State
	mem      rawView
	dec      *decoder.Decoder
	dbg      debug.Debugger
	syms     SymbolResolver
	sections []Section
}

// New returns a Disassembler over mem, cloning s so the scan cannot
// perturb live register state.
func New(s *cpu.State, mem memory.Memory) *Disassembler {
	view := rawView{Memory: mem}
	return &Disassembler{
		s:    s.Clone(),
		mem:  view,
		dec:  decoder.New(view),
		dbg:  debug.Nop{},
		syms: defaultSymbols{},
	}
}

// SetDebugger attaches the host debugger hook polled between records.
func (d *Disassembler) SetDebugger(dbg debug.Debugger) {
	if dbg == nil {
		dbg = debug.Nop{}
	}
	d.dbg = dbg
}

// SetSymbols replaces the label resolver used for PC-relative and
// absolute operands.
func (d *Disassembler) SetSymbols(syms SymbolResolver) {
	if syms == nil {
		syms = defaultSymbols{}
	}
	d.syms = syms
}

// Disassemble renders length bytes starting at addr. Scanning
// alternates: inside a non-executable section one DC directive of up
// to 4 bytes is emitted, otherwise one instruction is decoded. The
// debugger hook is polled between records and may cancel the scan.
func (d *Disassembler) Disassemble(addr, length uint32) []Record {
	d.dbg.SetDisassembling(true)
	defer d.dbg.SetDisassembling(false)

	var out []Record
	end := addr + length
	for cur := addr; cur < end; {
		if d.dbg.Cancelling() {
			break
		}
		d.dbg.DoEvents()

		var rec Record
		if sec, ok := d.sectionAt(cur); ok {
			rec = d.directive(cur, sec, end)
		} else {
			in, next := d.dec.Decode(cur)
			rec = Record{Addr: cur, Length: next - cur, Text: d.render(&in)}
		}
		out = append(out, rec)
		cur += rec.Length
	}
	return out
}

// Instruction renders the single instruction at addr, for "what runs
// next" displays.
func (d *Disassembler) Instruction(addr uint32) Record {
	in, next := d.dec.Decode(addr)
	return Record{Addr: addr, Length: next - addr, Text: d.render(&in)}
}

// directive emits one DC.B/DC.W/DC.L line of up to 4 bytes, bounded
// by the section end and the requested scan end, with the raw bytes
// echoed as a printable-ASCII comment.
func (d *Disassembler) directive(cur uint32, sec Section, end uint32) Record {
	limit := sec.End
	if end < limit {
		limit = end
	}
	avail := limit - cur

	width := uint32(1)
	mn := "DC.B"
	switch sec.Hint {
	case HintWord:
		width, mn = 2, "DC.W"
	case HintLong:
		width, mn = 4, "DC.L"
	case HintAuto:
		// Bytes keep the ASCII comment aligned with the data and
		// never depend on alignment.
	}
	if avail < width || cur%width != 0 {
		width, mn = 1, "DC.B"
	}

	count := 4 / width
	if max := avail / width; count > max {
		count = max
	}

	var ops strings.Builder
	var text strings.Builder
	n := count * width
	for i := uint32(0); i < count; i++ {
		if i > 0 {
			ops.WriteByte(',')
		}
		at := cur + i*width
		switch width {
		case 1:
			fmt.Fprintf(&ops, "$%02X", d.mem.ReadByteRaw(at))
		case 2:
			fmt.Fprintf(&ops, "$%04X", d.mem.ReadWordRaw(at))
		default:
			hi := uint32(d.mem.ReadWordRaw(at))
			fmt.Fprintf(&ops, "$%08X", hi<<16|uint32(d.mem.ReadWordRaw(at+2)))
		}
	}
	for i := uint32(0); i < n; i++ {
		b := d.mem.ReadByteRaw(cur + i)
		if b >= 0x20 && b < 0x7F {
			text.WriteByte(b)
		} else {
			text.WriteByte('.')
		}
	}

	line := pad(mn) + ops.String()
	line += strings.Repeat(" ", commentPad(line)) + "; " + text.String()
	return Record{Addr: cur, Length: n, Directive: true, Text: line}
}

func commentPad(line string) int {
	if len(line) >= 28 {
		return 1
	}
	return 28 - len(line)
}

// pad lays out a mnemonic so operands start at the operand column.
func pad(mn string) string {
	if len(mn) >= operandColumn {
		return mn + " "
	}
	return mn + strings.Repeat(" ", operandColumn-len(mn))
}

// val renders a number the way VASM listings do: decimal when
// negative or small, hex otherwise.
func val(v int32) string {
	if v < 0 || v < 10 {
		return fmt.Sprintf("%d", v)
	}
	return fmt.Sprintf("$%X", v)
}

func (d *Disassembler) label(addr uint32) string {
	return d.syms.Label(addr)
}

// operand renders one addressing-mode operand, re-reading its
// extension words from extPC.
func (d *Disassembler) operand(mode, reg uint8, extPC uint32, size cpu.Size) string {
	r := ea.Resolver{S: d.s, Mem: d.mem, Size: size}
	op, _, trp := r.Resolve(mode, reg, extPC)
	if trp != nil {
		return "?"
	}
	switch op.Mode {
	case ea.ModeDataReg:
		return fmt.Sprintf("D%d", op.Reg)
	case ea.ModeAddrReg:
		return fmt.Sprintf("A%d", op.Reg)
	case ea.ModeIndirect:
		return fmt.Sprintf("(A%d)", op.Reg)
	case ea.ModePostInc:
		return fmt.Sprintf("(A%d)+", op.Reg)
	case ea.ModePreDec:
		return fmt.Sprintf("-(A%d)", op.Reg)
	case ea.ModeDisplacement:
		return fmt.Sprintf("%s(A%d)", val(op.Displacement), op.Reg)
	case ea.ModeIndex:
		return fmt.Sprintf("%s(A%d,%s)", val(op.Displacement), op.Reg, indexReg(op))
	case ea.ModeAbsShort:
		return d.label(op.Addr) + ".W"
	case ea.ModeAbsLong:
		return d.label(op.Addr)
	case ea.ModePCDisp:
		return d.label(op.PCAtExt1+uint32(op.Displacement)) + "(PC)"
	case ea.ModePCIndex:
		return fmt.Sprintf("%s(PC,%s)", d.label(op.PCAtExt1+uint32(op.Displacement)), indexReg(op))
	default: // immediate
		return "#" + imm(op.Imm, size)
	}
}

func indexReg(op ea.Operand) string {
	kind := 'D'
	if op.IndexIsAddr {
		kind = 'A'
	}
	width := ".W"
	if op.IndexLong {
		width = ".L"
	}
	return fmt.Sprintf("%c%d%s", kind, op.IndexReg, width)
}

func imm(v uint32, size cpu.Size) string {
	switch size {
	case cpu.Byte:
		return fmt.Sprintf("$%02X", v&0xFF)
	case cpu.Word:
		return fmt.Sprintf("$%04X", v&0xFFFF)
	default:
		return fmt.Sprintf("$%08X", v)
	}
}

// regList renders a MOVEM mask as D0-D2/A5-style ranges. In
// pre-decrement mode the mask enumerates A7 first, so it is flipped
// back to D0-first order before rendering.
func regList(mask uint16, predec bool) string {
	if predec {
		var flipped uint16
		for bit := 0; bit < 16; bit++ {
			if mask&(1<<uint(bit)) != 0 {
				flipped |= 1 << uint(15-bit)
			}
		}
		mask = flipped
	}

	var parts []string
	name := func(bit int) string {
		if bit < 8 {
			return fmt.Sprintf("D%d", bit)
		}
		return fmt.Sprintf("A%d", bit-8)
	}
	// Ranges never cross the D/A boundary.
	for _, base := range []int{0, 8} {
		bit := base
		for bit < base+8 {
			if mask&(1<<uint(bit)) == 0 {
				bit++
				continue
			}
			first := bit
			for bit < base+8 && mask&(1<<uint(bit)) != 0 {
				bit++
			}
			if bit-first > 1 {
				parts = append(parts, name(first)+"-"+name(bit-1))
			} else {
				parts = append(parts, name(first))
			}
		}
	}
	return strings.Join(parts, "/")
}

// render turns a decoded instruction into its one-line text.
func (d *Disassembler) render(in *decoder.Instruction) string {
	src := func(size cpu.Size) string { return d.operand(in.SrcMode, in.SrcReg, in.SrcExtPC, size) }
	dst := func(size cpu.Size) string { return d.operand(in.DstMode, in.DstReg, in.DstExtPC, size) }
	mn := func() string { return opcodemap.Mnemonic(in.Op, int(in.Size), in.Cond) }

	switch in.Op {
	case opcodemap.OpIllegal, opcodemap.OpLineA, opcodemap.OpLineF:
		return pad("DC.W") + fmt.Sprintf("$%04X", in.Opcode)

	case opcodemap.OpMOVE:
		return pad(mn()) + src(in.Size) + "," + dst(in.Size)
	case opcodemap.OpMOVEA:
		return pad(mn()) + src(in.Size) + fmt.Sprintf(",A%d", in.DstReg)
	case opcodemap.OpMOVEQ:
		return pad("MOVEQ") + fmt.Sprintf("#%s,D%d", val(in.Data), in.Reg)
	case opcodemap.OpMOVEM:
		mask := uint16(in.Cond)<<8 | uint16(in.Reg2)
		list := regList(mask, in.SrcMode == 4)
		if in.Data != 0 {
			return pad(mn()) + src(in.Size) + "," + list
		}
		return pad(mn()) + list + "," + src(in.Size)
	case opcodemap.OpMOVEP:
		target := fmt.Sprintf("%s(A%d)", val(in.Data), in.SrcReg)
		if in.Cond != 0 {
			return pad(mn()) + fmt.Sprintf("D%d,%s", in.Reg, target)
		}
		return pad(mn()) + fmt.Sprintf("%s,D%d", target, in.Reg)
	case opcodemap.OpLEA:
		return pad("LEA") + src(cpu.Long) + fmt.Sprintf(",A%d", in.Reg)
	case opcodemap.OpPEA:
		return pad("PEA") + src(cpu.Long)
	case opcodemap.OpEXG:
		switch in.Data {
		case 0x08:
			return pad("EXG") + fmt.Sprintf("D%d,D%d", in.Reg, in.Reg2)
		case 0x09:
			return pad("EXG") + fmt.Sprintf("A%d,A%d", in.Reg, in.Reg2)
		default:
			return pad("EXG") + fmt.Sprintf("D%d,A%d", in.Reg, in.Reg2)
		}
	case opcodemap.OpSWAP:
		return pad("SWAP") + fmt.Sprintf("D%d", in.Reg)
	case opcodemap.OpEXT:
		return pad(mn()) + fmt.Sprintf("D%d", in.Reg)
	case opcodemap.OpLINK:
		return pad("LINK") + fmt.Sprintf("A%d,#%s", in.Reg, val(in.Data))
	case opcodemap.OpUNLK:
		return pad("UNLK") + fmt.Sprintf("A%d", in.Reg)

	case opcodemap.OpCLR, opcodemap.OpNEG, opcodemap.OpNEGX, opcodemap.OpNOT,
		opcodemap.OpTST:
		return pad(mn()) + src(in.Size)
	case opcodemap.OpNBCD, opcodemap.OpTAS:
		return pad(opcodemap.Mnemonic(in.Op, 0, 0)) + src(cpu.Byte)
	case opcodemap.OpScc:
		return pad(mn()) + src(cpu.Byte)

	case opcodemap.OpADD, opcodemap.OpSUB, opcodemap.OpAND, opcodemap.OpOR:
		if in.Data != 0 {
			return pad(mn()) + fmt.Sprintf("D%d,", in.Reg) + src(in.Size)
		}
		return pad(mn()) + src(in.Size) + fmt.Sprintf(",D%d", in.Reg)
	case opcodemap.OpEOR:
		return pad(mn()) + fmt.Sprintf("D%d,", in.Reg) + src(in.Size)
	case opcodemap.OpADDA, opcodemap.OpSUBA, opcodemap.OpCMPA:
		return pad(mn()) + src(in.Size) + fmt.Sprintf(",A%d", in.Reg)
	case opcodemap.OpADDI, opcodemap.OpSUBI, opcodemap.OpANDI, opcodemap.OpORI,
		opcodemap.OpEORI, opcodemap.OpCMPI:
		return pad(mn()) + "#" + imm(uint32(in.Data), in.Size) + "," + src(in.Size)
	case opcodemap.OpADDQ, opcodemap.OpSUBQ:
		return pad(mn()) + fmt.Sprintf("#%d,", in.Data) + src(in.Size)
	case opcodemap.OpADDX, opcodemap.OpSUBX:
		if in.Data != 0 {
			return pad(mn()) + fmt.Sprintf("-(A%d),-(A%d)", in.Reg2, in.Reg)
		}
		return pad(mn()) + fmt.Sprintf("D%d,D%d", in.Reg2, in.Reg)
	case opcodemap.OpCMP:
		return pad(mn()) + src(in.Size) + fmt.Sprintf(",D%d", in.Reg)
	case opcodemap.OpCMPM:
		return pad(mn()) + fmt.Sprintf("(A%d)+,(A%d)+", in.Reg2, in.Reg)
	case opcodemap.OpMULU, opcodemap.OpMULS, opcodemap.OpDIVU, opcodemap.OpDIVS:
		return pad(opcodemap.Mnemonic(in.Op, int(cpu.Word), 0)) + src(cpu.Word) + fmt.Sprintf(",D%d", in.Reg)
	case opcodemap.OpCHK:
		return pad("CHK") + src(cpu.Word) + fmt.Sprintf(",D%d", in.Reg)

	case opcodemap.OpABCD, opcodemap.OpSBCD:
		if in.Data != 0 {
			return pad(opcodemap.Mnemonic(in.Op, 0, 0)) + fmt.Sprintf("-(A%d),-(A%d)", in.Reg2, in.Reg)
		}
		return pad(opcodemap.Mnemonic(in.Op, 0, 0)) + fmt.Sprintf("D%d,D%d", in.Reg2, in.Reg)

	case opcodemap.OpASL, opcodemap.OpASR, opcodemap.OpLSL, opcodemap.OpLSR,
		opcodemap.OpROL, opcodemap.OpROR, opcodemap.OpROXL, opcodemap.OpROXR:
		if in.HasSrc { // memory form, single shift of a word
			return pad(opcodemap.Mnemonic(in.Op, 0, 0)) + src(cpu.Word)
		}
		if in.Quick {
			return pad(mn()) + fmt.Sprintf("#%d,D%d", in.Data, in.Reg)
		}
		return pad(mn()) + fmt.Sprintf("D%d,D%d", in.Data, in.Reg)

	case opcodemap.OpBTST, opcodemap.OpBCHG, opcodemap.OpBCLR, opcodemap.OpBSET:
		name := opcodemap.Mnemonic(in.Op, 0, 0)
		if in.Quick {
			return pad(name) + fmt.Sprintf("#%d,", in.Data) + src(in.Size)
		}
		return pad(name) + fmt.Sprintf("D%d,", in.Reg) + src(in.Size)

	case opcodemap.OpBRA, opcodemap.OpBSR, opcodemap.OpBcc:
		name := opcodemap.Mnemonic(in.Op, 0, in.Cond)
		if in.Length == 2 {
			name += ".S"
		} else {
			name += ".W"
		}
		return pad(name) + d.label(in.PC+2+uint32(in.Data))
	case opcodemap.OpDBcc:
		return pad(mn()) + fmt.Sprintf("D%d,%s", in.Reg, d.label(in.PC+2+uint32(in.Data)))
	case opcodemap.OpJMP, opcodemap.OpJSR:
		return pad(opcodemap.Mnemonic(in.Op, 0, 0)) + src(cpu.Long)

	case opcodemap.OpTRAP:
		return pad("TRAP") + fmt.Sprintf("#%d", in.Cond)
	case opcodemap.OpSTOP:
		return pad("STOP") + fmt.Sprintf("#$%04X", uint16(in.Data))

	case opcodemap.OpANDItoCCR, opcodemap.OpORItoCCR, opcodemap.OpEORItoCCR:
		return pad(opcodemap.Mnemonic(in.Op, 0, 0)) + fmt.Sprintf("#$%02X,CCR", uint8(in.Data))
	case opcodemap.OpANDItoSR, opcodemap.OpORItoSR, opcodemap.OpEORItoSR:
		return pad(opcodemap.Mnemonic(in.Op, 0, 0)) + fmt.Sprintf("#$%04X,SR", uint16(in.Data))
	case opcodemap.OpMOVEtoCCR:
		return pad("MOVE.W") + src(cpu.Word) + ",CCR"
	case opcodemap.OpMOVEtoSR:
		return pad("MOVE.W") + src(cpu.Word) + ",SR"
	case opcodemap.OpMOVEfromSR:
		return pad("MOVE.W") + "SR," + src(cpu.Word)
	case opcodemap.OpMOVEUSP:
		if in.Data != 0 {
			return pad("MOVE") + fmt.Sprintf("USP,A%d", in.Reg)
		}
		return pad("MOVE") + fmt.Sprintf("A%d,USP", in.Reg)

	default: // RTS, RTE, RTR, NOP, RESET, TRAPV
		return opcodemap.Mnemonic(in.Op, 0, 0)
	}
}
