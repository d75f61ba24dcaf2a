/*
   M68K execution engine tests.

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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhadner/m68k/emu/cpu"
	"github.com/dhadner/m68k/emu/decoder"
	"github.com/dhadner/m68k/emu/memory"
	"github.com/dhadner/m68k/emu/trap"
)

type fixture struct {
	s *cpu.State
	m *memory.FlatMemory
	e *Engine
	d *decoder.Decoder
}

func newFixture() *fixture {
	s := &cpu.State{}
	s.Reset()
	s.SetAddrReg(7, 0x3F00)
	m := memory.New(0x4000)
	return &fixture{s: s, m: m, e: New(s, m), d: decoder.New(m)}
}

// code lays instruction words down at addr and points PC at them.
func (f *fixture) code(addr uint32, words ...uint16) {
	for i, w := range words {
		_ = f.m.WriteWord(addr+uint32(i)*2, w)
	}
	f.s.PC = addr
}

// step decodes one instruction at PC, advances PC past it the way the
// machine loop does, and executes it.
func (f *fixture) step() *trap.Trap {
	in, next := f.d.Decode(f.s.PC)
	f.s.PC = next
	return f.e.Execute(&in)
}

func ccr(t *testing.T, s *cpu.State, x, n, z, v, c bool) {
	t.Helper()
	assert.Equal(t, x, s.FlagX(), "X")
	assert.Equal(t, n, s.FlagN(), "N")
	assert.Equal(t, z, s.FlagZ(), "Z")
	assert.Equal(t, v, s.FlagV(), "V")
	assert.Equal(t, c, s.FlagC(), "C")
}

func TestMOVEQScenario(t *testing.T) {
	f := newFixture()
	f.s.D[0] = 0xDEADBEEF
	f.s.SetFlagX(true) // X must survive MOVEQ
	f.code(0x1000, 0x7001)

	require.Nil(t, f.step())
	assert.Equal(t, uint32(0x00000001), f.s.DataReg(0))
	assert.Equal(t, uint32(0x1002), f.s.PC)
	ccr(t, f.s, true, false, false, false, false)
}

func TestADDIByteCarryScenario(t *testing.T) {
	f := newFixture()
	f.s.D[0] = 0x01
	f.code(0x1000, 0x0600, 0x00FF) // ADDI.B #$FF,D0

	require.Nil(t, f.step())
	assert.Equal(t, uint32(0), f.s.DataReg(0)&0xFF)
	ccr(t, f.s, true, false, true, false, true)
}

func TestDIVUZeroDivideScenario(t *testing.T) {
	f := newFixture()
	f.s.D[0] = 0x1234
	f.code(0x1000, 0x80FC, 0x0000) // DIVU #0,D0

	trp := f.step()
	require.NotNil(t, trp)
	assert.Equal(t, trap.ZeroDivide, trp.Vector)
	assert.Equal(t, uint32(0x1234), f.s.DataReg(0), "D0 unchanged on zero divide")
}

func TestMOVEWordPostIncScenario(t *testing.T) {
	f := newFixture()
	f.s.D[1] = 0xFFFF0000
	f.s.A[0] = 0x2000
	_ = f.m.WriteWord(0x2000, 0xABCD)
	f.code(0x1000, 0x3218) // MOVE.W (A0)+,D1

	require.Nil(t, f.step())
	assert.Equal(t, uint32(0xFFFFABCD), f.s.DataReg(1))
	assert.Equal(t, uint32(0x2002), f.s.AddrReg(0))
}

func TestBSRAndRTSScenario(t *testing.T) {
	f := newFixture()
	f.code(0x1000, 0x6100, 0x000E) // BSR.W $1010
	_ = f.m.WriteWord(0x1010, 0x4E75) // RTS

	require.Nil(t, f.step())
	assert.Equal(t, uint32(0x1010), f.s.PC)
	assert.Equal(t, 1, f.s.CallDepth)
	ret, trp := f.m.ReadLong(f.s.AddrReg(7))
	require.Nil(t, trp)
	assert.Equal(t, uint32(0x1004), ret, "return address on the supervisor stack")

	require.Nil(t, f.step()) // RTS
	assert.Equal(t, uint32(0x1004), f.s.PC)
	assert.Equal(t, 0, f.s.CallDepth)
}

func TestRTSFinishesAtCallDepthZero(t *testing.T) {
	f := newFixture()
	f.e.EndAtCallDepthZero = true
	require.Nil(t, f.e.pushLong(0x2000))
	f.code(0x1000, 0x4E75) // RTS with no outstanding call

	require.Nil(t, f.step())
	assert.True(t, f.e.Finished)
}

func TestSUBBorrowAndCMPLeavesX(t *testing.T) {
	f := newFixture()
	f.s.D[0] = 0x00
	f.code(0x1000, 0x0400, 0x0001) // SUBI.B #1,D0
	require.Nil(t, f.step())
	assert.Equal(t, uint32(0xFF), f.s.DataReg(0)&0xFF)
	ccr(t, f.s, true, true, false, false, true)

	// CMPI.B #1,D0 must update N,Z,V,C but leave X=1 from the SUBI.
	f.s.SetDataReg(0, 1, cpu.Byte)
	f.code(0x1002, 0x0C00, 0x0001)
	require.Nil(t, f.step())
	ccr(t, f.s, true, false, true, false, false)
}

func TestLogicalClearsVAndCLeavesX(t *testing.T) {
	f := newFixture()
	f.s.SetFlagX(true)
	f.s.SetFlagV(true)
	f.s.SetFlagC(true)
	f.s.D[2] = 0xF0
	f.code(0x1000, 0x0202, 0x0080) // ANDI.B #$80,D2
	require.Nil(t, f.step())
	assert.Equal(t, uint32(0x80), f.s.DataReg(2)&0xFF)
	ccr(t, f.s, true, true, false, false, false)
}

func TestADDQAgainstAddressRegisterLeavesFlags(t *testing.T) {
	f := newFixture()
	f.s.SetCCR(0x1F)
	f.s.A[3] = 0xFFFF
	f.code(0x1000, 0x528B) // ADDQ.L #1,A3
	require.Nil(t, f.step())
	assert.Equal(t, uint32(0x10000), f.s.AddrReg(3))
	assert.Equal(t, uint8(0x1F), f.s.CCR(), "ADDQ to An must not touch CCR")
}

func TestASLSetsVWhenSignChanges(t *testing.T) {
	f := newFixture()
	f.s.D[1] = 0x40
	f.code(0x1000, 0xE301) // ASL.B #1,D1
	require.Nil(t, f.step())
	assert.Equal(t, uint32(0x80), f.s.DataReg(1)&0xFF)
	ccr(t, f.s, false, true, false, true, false)
}

func TestShiftRegisterCountZeroClearsCAndV(t *testing.T) {
	f := newFixture()
	f.s.SetFlagC(true)
	f.s.SetFlagV(true)
	f.s.SetFlagX(true)
	f.s.D[0] = 0 // shift count
	f.s.D[1] = 0x42
	f.code(0x1000, 0xE129) // LSL.B D0,D1
	require.Nil(t, f.step())
	assert.Equal(t, uint32(0x42), f.s.DataReg(1)&0xFF)
	assert.False(t, f.s.FlagC(), "zero-count shift clears C")
	assert.False(t, f.s.FlagV(), "zero-count shift clears V")
	assert.True(t, f.s.FlagX(), "zero-count shift leaves X")
	assert.False(t, f.s.FlagZ())
}

func TestROXZeroCountCopiesXIntoC(t *testing.T) {
	f := newFixture()
	f.s.D[0] = 0 // shift count
	f.s.D[1] = 0x42
	f.s.SetFlagX(true)
	f.code(0x1000, 0xE131) // ROXL.B D0,D1
	require.Nil(t, f.step())
	assert.Equal(t, uint32(0x42), f.s.DataReg(1)&0xFF)
	assert.True(t, f.s.FlagC(), "ROXL with zero count sets C from X")
	assert.True(t, f.s.FlagX())

	f.s.SetFlagX(false)
	f.s.SetFlagC(true)
	f.code(0x1002, 0xE031) // ROXR.B D0,D1
	require.Nil(t, f.step())
	assert.False(t, f.s.FlagC(), "ROXR with zero count sets C from clear X")
}

func TestROXLUsesXAsExtraBit(t *testing.T) {
	f := newFixture()
	f.s.SetFlagX(true)
	f.s.D[3] = 0x80
	f.code(0x1000, 0xE313) // ROXL.B #1,D3
	require.Nil(t, f.step())
	assert.Equal(t, uint32(0x01), f.s.DataReg(3)&0xFF, "old X rotates in at bit 0")
	assert.True(t, f.s.FlagC())
	assert.True(t, f.s.FlagX())
}

func TestABCDWithCarryAndStickyZ(t *testing.T) {
	f := newFixture()
	// 0x19 + 0x01 + X(1) = 0x21 decimal.
	f.s.SetFlagX(true)
	f.s.SetFlagZ(true)
	f.s.D[0] = 0x19
	f.s.D[1] = 0x01
	f.code(0x1000, 0xC101) // ABCD D1,D0
	require.Nil(t, f.step())
	assert.Equal(t, uint32(0x21), f.s.DataReg(0)&0xFF)
	assert.False(t, f.s.FlagZ(), "nonzero result clears Z")
	assert.False(t, f.s.FlagC())

	// 0x00 + 0x00 with Z still clear: Z stays clear (sticky, never set).
	f.s.D[2] = 0
	f.s.D[3] = 0
	f.code(0x1002, 0xC503) // ABCD D3,D2
	require.Nil(t, f.step())
	assert.False(t, f.s.FlagZ(), "Z is sticky: zero result cannot set it")
}

func TestSBCDBorrow(t *testing.T) {
	f := newFixture()
	f.s.D[0] = 0x10
	f.s.D[1] = 0x01
	f.s.SetFlagZ(true)
	f.code(0x1000, 0x8101) // SBCD D1,D0
	require.Nil(t, f.step())
	assert.Equal(t, uint32(0x09), f.s.DataReg(0)&0xFF)
	assert.False(t, f.s.FlagC())
	assert.False(t, f.s.FlagZ())
}

func TestADDXCarryInAtWidthBoundary(t *testing.T) {
	f := newFixture()
	// 0x00 + 0xFF + X(1) = 0x100: the result byte is zero and the
	// carry-in alone produces the carry out.
	f.s.SetFlagX(true)
	f.s.SetFlagZ(true)
	f.s.D[0] = 0x00
	f.s.D[1] = 0xFF
	f.code(0x1000, 0xD101) // ADDX.B D1,D0
	require.Nil(t, f.step())
	assert.Equal(t, uint32(0x00), f.s.DataReg(0)&0xFF)
	assert.True(t, f.s.FlagC(), "carry out from the carry-in")
	assert.True(t, f.s.FlagX())
	assert.True(t, f.s.FlagZ(), "zero result leaves sticky Z set")
	assert.False(t, f.s.FlagV())
}

func TestADDXLongCarryInWraps(t *testing.T) {
	f := newFixture()
	f.s.SetFlagX(true)
	f.s.D[0] = 0x00000000
	f.s.D[1] = 0xFFFFFFFF
	f.code(0x1000, 0xD181) // ADDX.L D1,D0
	require.Nil(t, f.step())
	assert.Equal(t, uint32(0), f.s.DataReg(0))
	assert.True(t, f.s.FlagC())
	assert.True(t, f.s.FlagX())
}

func TestADDXMultiPrecisionChain(t *testing.T) {
	f := newFixture()
	// 0x01FF + 0x0001 byte by byte: low bytes carry, high bytes add
	// the carry through X, and Z stays clear because the high byte of
	// the sum is nonzero.
	f.s.SetFlagZ(true)
	f.s.D[0] = 0xFF // low byte of first operand
	f.s.D[1] = 0x01
	f.s.D[2] = 0x01 // high byte of first operand
	f.s.D[3] = 0x00
	f.code(0x1000, 0xD001) // ADD.B D1,D0 seeds X
	require.Nil(t, f.step())
	f.code(0x1002, 0xD503) // ADDX.B D3,D2
	require.Nil(t, f.step())
	assert.Equal(t, uint32(0x00), f.s.DataReg(0)&0xFF)
	assert.Equal(t, uint32(0x02), f.s.DataReg(2)&0xFF)
	assert.False(t, f.s.FlagC())
	assert.False(t, f.s.FlagZ(), "nonzero high byte clears sticky Z")
}

func TestSUBXBorrowIn(t *testing.T) {
	f := newFixture()
	f.s.SetFlagX(true)
	f.s.SetFlagZ(true)
	f.s.D[0] = 0x00
	f.s.D[1] = 0x00
	f.code(0x1000, 0x9101) // SUBX.B D1,D0
	require.Nil(t, f.step())
	assert.Equal(t, uint32(0xFF), f.s.DataReg(0)&0xFF)
	assert.True(t, f.s.FlagC(), "borrow out from the borrow-in")
	assert.True(t, f.s.FlagX())
	assert.False(t, f.s.FlagZ())
	assert.True(t, f.s.FlagN())
}

func TestSUBXMemoryPredecrementForm(t *testing.T) {
	f := newFixture()
	f.s.A[0] = 0x2011
	f.s.A[1] = 0x2001
	_ = f.m.WriteByte(0x2000, 0x05) // source
	_ = f.m.WriteByte(0x2010, 0x10) // destination
	f.code(0x1000, 0x9109) // SUBX.B -(A1),-(A0)
	require.Nil(t, f.step())
	assert.Equal(t, uint32(0x2000), f.s.AddrReg(1), "source predecremented once")
	assert.Equal(t, uint32(0x2010), f.s.AddrReg(0), "destination predecremented once")
	b, _ := f.m.ReadByte(0x2010)
	assert.Equal(t, uint8(0x0B), b)
}

func TestNEGXBorrowIn(t *testing.T) {
	f := newFixture()
	// 0 - 0x00 - X(1) = 0xFF with a borrow.
	f.s.SetFlagX(true)
	f.s.SetFlagZ(true)
	f.code(0x1000, 0x4000) // NEGX.B D0
	require.Nil(t, f.step())
	assert.Equal(t, uint32(0xFF), f.s.DataReg(0)&0xFF)
	assert.True(t, f.s.FlagC())
	assert.True(t, f.s.FlagX())
	assert.False(t, f.s.FlagZ())

	// 0 - 0 - X(0) = 0: no borrow, sticky Z survives.
	f.s.SetFlagX(false)
	f.s.SetFlagZ(true)
	f.s.D[1] = 0x00
	f.code(0x1002, 0x4001) // NEGX.B D1
	require.Nil(t, f.step())
	assert.Equal(t, uint32(0x00), f.s.DataReg(1)&0xFF)
	assert.False(t, f.s.FlagC())
	assert.True(t, f.s.FlagZ(), "zero result leaves sticky Z set")
}

func TestMOVEMPredecrementReversedMask(t *testing.T) {
	f := newFixture()
	f.s.D[0] = 0x11111111
	f.s.D[1] = 0x22222222
	f.s.A[0] = 0x2010
	// MOVEM.L D0-D1,-(A0): mask in predec order has D0 at bit 15.
	f.code(0x1000, 0x48E0, 0xC000)
	require.Nil(t, f.step())
	assert.Equal(t, uint32(0x2008), f.s.AddrReg(0))
	v, _ := f.m.ReadLong(0x2008)
	assert.Equal(t, uint32(0x11111111), v, "D0 lands at the final address")
	v, _ = f.m.ReadLong(0x200C)
	assert.Equal(t, uint32(0x22222222), v)
}

func TestMOVEMMemoryToRegistersWordSignExtends(t *testing.T) {
	f := newFixture()
	f.s.A[1] = 0x2000
	_ = f.m.WriteWord(0x2000, 0x8000)
	_ = f.m.WriteWord(0x2002, 0x1234)
	// MOVEM.W (A1)+,D0/A5
	f.code(0x1000, 0x4C99, 0x2001)
	require.Nil(t, f.step())
	assert.Equal(t, uint32(0xFFFF8000)&0xFFFF, f.s.DataReg(0)&0xFFFF)
	assert.Equal(t, uint32(0x1234), f.s.AddrReg(5))
	assert.Equal(t, uint32(0x2004), f.s.AddrReg(1), "post-increment advanced past both words")
}

func TestPreDecA7ByteMovesByTwo(t *testing.T) {
	f := newFixture()
	f.s.SetAddrReg(7, 0x3F00)
	f.s.D[0] = 0xAB
	f.code(0x1000, 0x1F00) // MOVE.B D0,-(A7)
	require.Nil(t, f.step())
	assert.Equal(t, uint32(0x3EFE), f.s.AddrReg(7), "A7 byte predecrement is 2")
	b, _ := f.m.ReadByte(0x3EFE)
	assert.Equal(t, uint8(0xAB), b)
}

func TestDBccCountsDown(t *testing.T) {
	f := newFixture()
	f.s.SetDataReg(0, 2, cpu.Word)
	f.code(0x1000, 0x51C8, 0xFFFE) // DBF D0,*
	require.Nil(t, f.step())
	assert.Equal(t, uint32(0x1000), f.s.PC, "branch taken while D0 != -1")
	assert.Equal(t, uint32(1), f.s.DataReg(0)&0xFFFF)

	f.s.SetDataReg(0, 0, cpu.Word)
	f.s.PC = 0x1000
	require.Nil(t, f.step())
	assert.Equal(t, uint32(0x1004), f.s.PC, "falls through when count expires")
	assert.Equal(t, uint32(0xFFFF), f.s.DataReg(0)&0xFFFF)
}

func TestSccSetsAllOnesOrZero(t *testing.T) {
	f := newFixture()
	f.s.SetFlagZ(true)
	f.code(0x1000, 0x57C0) // SEQ D0
	require.Nil(t, f.step())
	assert.Equal(t, uint32(0xFF), f.s.DataReg(0)&0xFF)

	f.s.SetFlagZ(false)
	f.code(0x1002, 0x57C0)
	require.Nil(t, f.step())
	assert.Equal(t, uint32(0x00), f.s.DataReg(0)&0xFF)
}

func TestTRAPReturnsVector(t *testing.T) {
	f := newFixture()
	f.code(0x1000, 0x4E4F) // TRAP #15
	trp := f.step()
	require.NotNil(t, trp)
	assert.Equal(t, trap.TrapBase+15, trp.Vector)
}

func TestTRAPVOnlyWithVSet(t *testing.T) {
	f := newFixture()
	f.code(0x1000, 0x4E76)
	require.Nil(t, f.step())

	f.s.SetFlagV(true)
	f.code(0x1002, 0x4E76)
	trp := f.step()
	require.NotNil(t, trp)
	assert.Equal(t, trap.TRAPVInst, trp.Vector)
}

func TestCHKTrapsOutOfBounds(t *testing.T) {
	f := newFixture()
	f.s.SetDataReg(0, 0x50, cpu.Word)
	f.code(0x1000, 0x41BC, 0x0040) // CHK #$40,D0: 0x50 > 0x40
	trp := f.step()
	require.NotNil(t, trp)
	assert.Equal(t, trap.CHKInst, trp.Vector)

	f.s.SetDataReg(0, 0x20, cpu.Word)
	f.code(0x1004, 0x41BC, 0x0040)
	assert.Nil(t, f.step())
}

func TestMOVEtoSRPrivileged(t *testing.T) {
	f := newFixture()
	f.s.SetSupervisor(false)
	f.code(0x1000, 0x46FC, 0x2700) // MOVE #$2700,SR in user mode
	trp := f.step()
	require.NotNil(t, trp)
	assert.Equal(t, trap.PrivilegeViol, trp.Vector)
}

func TestMOVEUSPDirections(t *testing.T) {
	f := newFixture()
	f.s.A[2] = 0x1234
	f.code(0x1000, 0x4E62) // MOVE A2,USP
	require.Nil(t, f.step())
	assert.Equal(t, uint32(0x1234), f.s.USP)

	f.s.USP = 0x4320
	f.code(0x1002, 0x4E6B) // MOVE USP,A3
	require.Nil(t, f.step())
	assert.Equal(t, uint32(0x4320), f.s.AddrReg(3))
}

func TestLINKAndUNLK(t *testing.T) {
	f := newFixture()
	f.s.A[6] = 0xCAFE
	sp := f.s.AddrReg(7)
	f.code(0x1000, 0x4E56, 0xFFF8) // LINK A6,#-8
	require.Nil(t, f.step())
	assert.Equal(t, sp-4, f.s.AddrReg(6), "frame pointer at the pushed slot")
	assert.Equal(t, sp-4-8, f.s.AddrReg(7))

	f.code(0x1004, 0x4E5E) // UNLK A6
	require.Nil(t, f.step())
	assert.Equal(t, sp, f.s.AddrReg(7))
	assert.Equal(t, uint32(0xCAFE), f.s.AddrReg(6))
}

func TestEXGAndSWAP(t *testing.T) {
	f := newFixture()
	f.s.D[0] = 0x1111
	f.s.D[1] = 0x2222
	f.code(0x1000, 0xC141) // EXG D0,D1
	require.Nil(t, f.step())
	assert.Equal(t, uint32(0x2222), f.s.DataReg(0))
	assert.Equal(t, uint32(0x1111), f.s.DataReg(1))

	f.s.D[2] = 0x12345678
	f.code(0x1002, 0x4842) // SWAP D2
	require.Nil(t, f.step())
	assert.Equal(t, uint32(0x56781234), f.s.DataReg(2))
}

func TestDIVUResultAndOverflow(t *testing.T) {
	f := newFixture()
	f.s.D[0] = 100003
	f.code(0x1000, 0x80FC, 0x000A) // DIVU #10,D0
	require.Nil(t, f.step())
	assert.Equal(t, uint32(10000), f.s.DataReg(0)&0xFFFF, "quotient in low word")
	assert.Equal(t, uint32(3), f.s.DataReg(0)>>16, "remainder in high word")

	f.s.D[0] = 0x00100000
	f.code(0x1004, 0x80FC, 0x0001) // quotient overflows 16 bits
	require.Nil(t, f.step())
	assert.True(t, f.s.FlagV())
	assert.Equal(t, uint32(0x00100000), f.s.DataReg(0), "Dn untouched on overflow")
}

func TestMULSSignedProduct(t *testing.T) {
	f := newFixture()
	f.s.SetDataReg(3, 0xFFFE, cpu.Word) // -2
	f.code(0x1000, 0xC7FC, 0x0003) // MULS #3,D3
	require.Nil(t, f.step())
	assert.Equal(t, uint32(0xFFFFFFFA), f.s.DataReg(3))
	assert.True(t, f.s.FlagN())
}

func TestBTSTStaticOnMemoryUsesBitMod8(t *testing.T) {
	f := newFixture()
	f.s.A[0] = 0x2000
	_ = f.m.WriteByte(0x2000, 0x01)
	f.code(0x1000, 0x0810, 0x0008) // BTST #8,(A0): bit 8 mod 8 = 0
	require.Nil(t, f.step())
	assert.False(t, f.s.FlagZ())
}

func TestNOTAndNEG(t *testing.T) {
	f := newFixture()
	f.s.D[0] = 0x0F
	f.code(0x1000, 0x4600) // NOT.B D0
	require.Nil(t, f.step())
	assert.Equal(t, uint32(0xF0), f.s.DataReg(0)&0xFF)
	assert.True(t, f.s.FlagN())

	f.s.D[1] = 0x01
	f.code(0x1002, 0x4401) // NEG.B D1
	require.Nil(t, f.step())
	assert.Equal(t, uint32(0xFF), f.s.DataReg(1)&0xFF)
	assert.True(t, f.s.FlagC())
	assert.True(t, f.s.FlagX())
}

func TestSTOPHaltsAndLoadsSR(t *testing.T) {
	f := newFixture()
	f.code(0x1000, 0x4E72, 0x2000) // STOP #$2000
	require.Nil(t, f.step())
	assert.True(t, f.s.Stopped)
	assert.Equal(t, uint16(0x2000), f.s.SR)
}

func TestIllegalAndLineTraps(t *testing.T) {
	f := newFixture()
	f.code(0x1000, 0x4AFC)
	trp := f.step()
	require.NotNil(t, trp)
	assert.Equal(t, trap.IllegalInst, trp.Vector)

	f.code(0x1002, 0xA123)
	trp = f.step()
	require.NotNil(t, trp)
	assert.Equal(t, trap.LineA, trp.Vector)

	f.code(0x1004, 0xF123)
	trp = f.step()
	require.NotNil(t, trp)
	assert.Equal(t, trap.LineF, trp.Vector)
}
