/*
   M68K opcode handler identifiers and mnemonic table, shared by the
   decoder and the disassembler.

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

// Package opcodemap enumerates the handler identifiers the decoder
// produces and the execution engine and disassembler consume. An ID
// names an instruction family's semantics, independent of the
// addressing mode or size encoded alongside it.
package opcodemap

// ID names a decoded instruction's semantic handler.
type ID int

const (
	OpIllegal ID = iota
	OpLineA
	OpLineF

	// Data movement.
	OpMOVE
	OpMOVEA
	OpMOVEQ
	OpMOVEM
	OpMOVEP
	OpLEA
	OpPEA
	OpEXG
	OpSWAP
	OpLINK
	OpUNLK
	OpCLR

	// Integer arithmetic.
	OpADD
	OpADDA
	OpADDI
	OpADDQ
	OpADDX
	OpSUB
	OpSUBA
	OpSUBI
	OpSUBQ
	OpSUBX
	OpNEG
	OpNEGX
	OpMULS
	OpMULU
	OpDIVS
	OpDIVU
	OpCMP
	OpCMPA
	OpCMPI
	OpCMPM
	OpTST
	OpEXT

	// BCD.
	OpABCD
	OpSBCD
	OpNBCD

	// Logical.
	OpAND
	OpANDI
	OpOR
	OpORI
	OpEOR
	OpEORI
	OpNOT

	// Shift and rotate.
	OpASL
	OpASR
	OpLSL
	OpLSR
	OpROL
	OpROR
	OpROXL
	OpROXR

	// Bit manipulation.
	OpBTST
	OpBCHG
	OpBCLR
	OpBSET
	OpTAS

	// Program control.
	OpBRA
	OpBSR
	OpBcc
	OpDBcc
	OpScc
	OpJMP
	OpJSR
	OpRTS
	OpRTE
	OpRTR
	OpNOP
	OpCHK
	OpTRAP
	OpTRAPV
	OpRESET
	OpSTOP

	// CCR/SR manipulation.
	OpANDItoCCR
	OpANDItoSR
	OpORItoCCR
	OpORItoSR
	OpEORItoCCR
	OpEORItoSR
	OpMOVEtoCCR
	OpMOVEtoSR
	OpMOVEfromSR
	OpMOVEUSP

	// Directives used only by the disassembler when rendering
	// non-executable bytes as data.
	OpDCB
	OpDCW
	OpDCL
)

// sizeSuffix is appended to a mnemonic for the three operation widths;
// handlers whose size is implicit in the opcode (e.g. MOVEQ, Scc) use
// the empty string.
type sizeSuffix int

const (
	sizeNone sizeSuffix = iota
	sizeB
	sizeW
	sizeL
)

func (s sizeSuffix) String() string {
	switch s {
	case sizeB:
		return ".B"
	case sizeW:
		return ".W"
	case sizeL:
		return ".L"
	default:
		return ""
	}
}

// mnemonics maps each handler ID to its base VASM-style mnemonic. Size
// suffixes are appended by the caller from the decoded Size, not
// stored here, since one ID covers all three widths.
var mnemonics = map[ID]string{
	OpIllegal: "DC.W",
	OpLineA:   "DC.W",
	OpLineF:   "DC.W",

	OpMOVE:  "MOVE",
	OpMOVEA: "MOVEA",
	OpMOVEQ: "MOVEQ",
	OpMOVEM: "MOVEM",
	OpMOVEP: "MOVEP",
	OpLEA:   "LEA",
	OpPEA:   "PEA",
	OpEXG:   "EXG",
	OpSWAP:  "SWAP",
	OpLINK:  "LINK",
	OpUNLK:  "UNLK",
	OpCLR:   "CLR",

	OpADD:  "ADD",
	OpADDA: "ADDA",
	OpADDI: "ADDI",
	OpADDQ: "ADDQ",
	OpADDX: "ADDX",
	OpSUB:  "SUB",
	OpSUBA: "SUBA",
	OpSUBI: "SUBI",
	OpSUBQ: "SUBQ",
	OpSUBX: "SUBX",
	OpNEG:  "NEG",
	OpNEGX: "NEGX",
	OpMULS: "MULS",
	OpMULU: "MULU",
	OpDIVS: "DIVS",
	OpDIVU: "DIVU",
	OpCMP:  "CMP",
	OpCMPA: "CMPA",
	OpCMPI: "CMPI",
	OpCMPM: "CMPM",
	OpTST:  "TST",
	OpEXT:  "EXT",

	OpABCD: "ABCD",
	OpSBCD: "SBCD",
	OpNBCD: "NBCD",

	OpAND:  "AND",
	OpANDI: "ANDI",
	OpOR:   "OR",
	OpORI:  "ORI",
	OpEOR:  "EOR",
	OpEORI: "EORI",
	OpNOT:  "NOT",

	OpASL:  "ASL",
	OpASR:  "ASR",
	OpLSL:  "LSL",
	OpLSR:  "LSR",
	OpROL:  "ROL",
	OpROR:  "ROR",
	OpROXL: "ROXL",
	OpROXR: "ROXR",

	OpBTST: "BTST",
	OpBCHG: "BCHG",
	OpBCLR: "BCLR",
	OpBSET: "BSET",
	OpTAS:  "TAS",

	OpBRA:   "BRA",
	OpBSR:   "BSR",
	OpBcc:   "Bcc",
	OpDBcc:  "DBcc",
	OpScc:   "Scc",
	OpJMP:   "JMP",
	OpJSR:   "JSR",
	OpRTS:   "RTS",
	OpRTE:   "RTE",
	OpRTR:   "RTR",
	OpNOP:   "NOP",
	OpCHK:   "CHK",
	OpTRAP:  "TRAP",
	OpTRAPV: "TRAPV",
	OpRESET: "RESET",
	OpSTOP:  "STOP",

	OpANDItoCCR:  "ANDI",
	OpANDItoSR:   "ANDI",
	OpORItoCCR:   "ORI",
	OpORItoSR:    "ORI",
	OpEORItoCCR:  "EORI",
	OpEORItoSR:   "EORI",
	OpMOVEtoCCR:  "MOVE",
	OpMOVEtoSR:   "MOVE",
	OpMOVEfromSR: "MOVE",
	OpMOVEUSP:    "MOVE",

	OpDCB: "DC.B",
	OpDCW: "DC.W",
	OpDCL: "DC.L",
}

// conditionNames gives the two-letter Bcc/DBcc/Scc condition mnemonic
// for the 4-bit condition field (bits 11-8 of the opcode word).
var conditionNames = [16]string{
	"T", "F", "HI", "LS", "CC", "CS", "NE", "EQ",
	"VC", "VS", "PL", "MI", "GE", "LT", "GT", "LE",
}

// Mnemonic returns the VASM-style mnemonic for id rendered at the
// given size. cond is consulted only for the Bcc/DBcc/Scc family,
// where it holds the 4-bit condition code and replaces the generic
// "cc" in the name.
func Mnemonic(id ID, width int, cond uint8) string {
	base, ok := mnemonics[id]
	if !ok {
		base = "???"
	}
	switch id {
	case OpBcc:
		return "B" + conditionNames[cond&0xf]
	case OpDBcc:
		return "DB" + conditionNames[cond&0xf]
	case OpScc:
		return "S" + conditionNames[cond&0xf]
	}
	return base + sizeOf(width).String()
}

// sizeOf converts a width in bytes (1, 2, 4) to its suffix; any other
// value (handlers with no size, e.g. LEA) yields sizeNone.
func sizeOf(width int) sizeSuffix {
	switch width {
	case 1:
		return sizeB
	case 2:
		return sizeW
	case 4:
		return sizeL
	default:
		return sizeNone
	}
}

// ConditionName returns the two-letter mnemonic suffix for a 4-bit
// Bcc/DBcc/Scc condition field, used directly by callers that already
// know they are rendering a condition.
func ConditionName(cond uint8) string {
	return conditionNames[cond&0xf]
}
