/*
   M68K disassembler tests.

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

package disassemble

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhadner/m68k/emu/cpu"
	"github.com/dhadner/m68k/emu/memory"
)

func newDis(words ...uint16) (*Disassembler, *memory.FlatMemory) {
	s := &cpu.State{}
	s.Reset()
	m := memory.New(0x4000)
	for i, w := range words {
		_ = m.WriteWord(0x1000+uint32(i)*2, w)
	}
	return New(s, m), m
}

func text(t *testing.T, d *Disassembler, addr uint32) string {
	t.Helper()
	rec := d.Instruction(addr)
	require.NotZero(t, rec.Length)
	return rec.Text
}

func TestRenderBasicInstructions(t *testing.T) {
	tests := []struct {
		words []uint16
		want  string
	}{
		{[]uint16{0x7001}, "MOVEQ   #1,D0"},
		{[]uint16{0x4E75}, "RTS"},
		{[]uint16{0x4E71}, "NOP"},
		{[]uint16{0x3218}, "MOVE.W  (A0)+,D1"},
		{[]uint16{0x2F00}, "MOVE.L  D0,-(A7)"},
		{[]uint16{0x0600, 0x00FF}, "ADDI.B  #$FF,D0"},
		{[]uint16{0x5289}, "ADDQ.L  #1,A1"},
		{[]uint16{0x4E56, 0xFFF8}, "LINK    A6,#-8"},
		{[]uint16{0x4E5E}, "UNLK    A6"},
		{[]uint16{0x4842}, "SWAP    D2"},
		{[]uint16{0x4E4F}, "TRAP    #15"},
		{[]uint16{0x4E72, 0x2700}, "STOP    #$2700"},
		{[]uint16{0xC141}, "EXG     D0,D1"},
		{[]uint16{0xE301}, "ASL.B   #1,D1"},
		{[]uint16{0x80FC, 0x000A}, "DIVU.W  #$000A,D0"},
		{[]uint16{0x4AFC}, "DC.W    $4AFC"},
		{[]uint16{0xA001}, "DC.W    $A001"},
	}
	for _, tc := range tests {
		d, _ := newDis(tc.words...)
		assert.Equal(t, tc.want, text(t, d, 0x1000), "words %#v", tc.words)
	}
}

func TestRenderAddressingModes(t *testing.T) {
	tests := []struct {
		words []uint16
		want  string
	}{
		// MOVE.W 8(A1),D0
		{[]uint16{0x3029, 0x0008}, "MOVE.W  8(A1),D0"},
		// MOVE.W -4(A1),D0 renders the displacement in decimal
		{[]uint16{0x3029, 0xFFFC}, "MOVE.W  -4(A1),D0"},
		// MOVE.W 2(A1,D3.W),D0
		{[]uint16{0x3031, 0x3002}, "MOVE.W  2(A1,D3.W),D0"},
		// MOVE.W $1234.W,D0
		{[]uint16{0x3038, 0x1234}, "MOVE.W  L001234.W,D0"},
		// MOVE.L $00012340,D0
		{[]uint16{0x2039, 0x0001, 0x2340}, "MOVE.L  L012340,D0"},
		// MOVE.W d16(PC),D0: ext at 0x1002, target 0x1002+0x10
		{[]uint16{0x303A, 0x0010}, "MOVE.W  L001012(PC),D0"},
	}
	for _, tc := range tests {
		d, _ := newDis(tc.words...)
		assert.Equal(t, tc.want, text(t, d, 0x1000), "words %#v", tc.words)
	}
}

func TestRenderBranchesUseLabels(t *testing.T) {
	d, _ := newDis(0x6004) // BRA.S $1006
	assert.Equal(t, "BRA.S   L001006", text(t, d, 0x1000))

	d, _ = newDis(0x6600, 0x0010) // BNE.W $1012
	assert.Equal(t, "BNE.W   L001012", text(t, d, 0x1000))

	d, _ = newDis(0x51C8, 0xFFFE) // DBF D0,$1000
	assert.Equal(t, "DBF     D0,L001000", text(t, d, 0x1000))
}

func TestRenderMOVEMRegisterList(t *testing.T) {
	// MOVEM.L D0-D2/A5,-(A0): predec mask is reversed, D0 first bit 15.
	d, _ := newDis(0x48E0, 0xE004)
	assert.Equal(t, "MOVEM.L D0-D2/A5,-(A0)", text(t, d, 0x1000))

	// MOVEM.W (A1)+,D0/A5
	d, _ = newDis(0x4C99, 0x2001)
	assert.Equal(t, "MOVEM.W (A1)+,D0/A5", text(t, d, 0x1000))
}

type testSyms struct{}

func (testSyms) Label(addr uint32) string { return "start" }

func TestSymbolResolverOverridesLabels(t *testing.T) {
	d, _ := newDis(0x6004)
	d.SetSymbols(testSyms{})
	assert.Equal(t, "BRA.S   start", text(t, d, 0x1000))
}

func TestDisassembleScanMixesCodeAndData(t *testing.T) {
	d, m := newDis(0x7001, 0x4E75) // MOVEQ #1,D0 / RTS
	_ = m.WriteByte(0x1004, 'H')
	_ = m.WriteByte(0x1005, 'i')
	_ = m.WriteByte(0x1006, '!')
	_ = m.WriteByte(0x1007, 0x00)
	d.AddSection(0x1004, 0x1008, HintByte)

	recs := d.Disassemble(0x1000, 8)
	require.Len(t, recs, 3)
	assert.False(t, recs[0].Directive)
	assert.False(t, recs[1].Directive)
	assert.True(t, recs[2].Directive)
	assert.Equal(t, uint32(0x1004), recs[2].Addr)
	assert.Equal(t, uint32(4), recs[2].Length)
	assert.True(t, strings.HasPrefix(recs[2].Text, "DC.B    $48,$69,$21,$00"), recs[2].Text)
	assert.True(t, strings.HasSuffix(recs[2].Text, "; Hi!."), recs[2].Text)
}

func TestDirectiveWordAndLong(t *testing.T) {
	d, m := newDis()
	_ = m.WriteLong(0x1000, 0x11223344)
	_ = m.WriteLong(0x1004, 0x55667788)

	d.AddSection(0x1000, 0x1008, HintWord)
	recs := d.Disassemble(0x1000, 8)
	require.Len(t, recs, 2)
	assert.True(t, strings.HasPrefix(recs[0].Text, "DC.W    $1122,$3344"), recs[0].Text)

	d.ClearSections()
	d.AddSection(0x1000, 0x1008, HintLong)
	recs = d.Disassemble(0x1000, 8)
	require.Len(t, recs, 2)
	assert.True(t, strings.HasPrefix(recs[0].Text, "DC.L    $11223344"), recs[0].Text)
	assert.True(t, strings.HasPrefix(recs[1].Text, "DC.L    $55667788"), recs[1].Text)
}

func TestSectionMergeSameHint(t *testing.T) {
	d, _ := newDis()
	d.AddSection(0x100, 0x200, HintByte)
	d.AddSection(0x180, 0x280, HintByte)
	secs := d.Sections()
	require.Len(t, secs, 1)
	assert.Equal(t, Section{Start: 0x100, End: 0x280, Hint: HintByte}, secs[0])
}

func TestSectionDifferentHintSplits(t *testing.T) {
	d, _ := newDis()
	d.AddSection(0x100, 0x400, HintByte)
	d.AddSection(0x200, 0x300, HintWord)
	secs := d.Sections()
	require.Len(t, secs, 3)
	assert.Equal(t, Section{Start: 0x100, End: 0x200, Hint: HintByte}, secs[0])
	assert.Equal(t, Section{Start: 0x200, End: 0x300, Hint: HintWord}, secs[1])
	assert.Equal(t, Section{Start: 0x300, End: 0x400, Hint: HintByte}, secs[2])
}

func TestClearSectionRangeFourCases(t *testing.T) {
	d, _ := newDis()

	// Containment: cleared range swallows the section.
	d.AddSection(0x100, 0x200, HintByte)
	d.ClearSectionRange(0x080, 0x280)
	assert.Empty(t, d.Sections())

	// Split: cleared range inside the section leaves two pieces.
	d.AddSection(0x100, 0x400, HintByte)
	d.ClearSectionRange(0x200, 0x300)
	secs := d.Sections()
	require.Len(t, secs, 2)
	assert.Equal(t, uint32(0x100), secs[0].Start)
	assert.Equal(t, uint32(0x200), secs[0].End)
	assert.Equal(t, uint32(0x300), secs[1].Start)
	assert.Equal(t, uint32(0x400), secs[1].End)

	// Truncate low and high edges.
	d.ClearSections()
	d.AddSection(0x100, 0x200, HintByte)
	d.ClearSectionRange(0x080, 0x180)
	secs = d.Sections()
	require.Len(t, secs, 1)
	assert.Equal(t, Section{Start: 0x180, End: 0x200, Hint: HintByte}, secs[0])

	d.ClearSectionRange(0x1C0, 0x240)
	secs = d.Sections()
	require.Len(t, secs, 1)
	assert.Equal(t, Section{Start: 0x180, End: 0x1C0, Hint: HintByte}, secs[0])
}

type cancellingDbg struct {
	count int
}

func (c *cancellingDbg) DebugRead(uint32)      {}
func (c *cancellingDbg) DebugWrite(uint32)     {}
func (c *cancellingDbg) SetDisassembling(bool) {}
func (c *cancellingDbg) DoEvents()             {}
func (c *cancellingDbg) Cancelling() bool {
	c.count++
	return c.count > 1
}

func TestDisassembleCancelsBetweenRecords(t *testing.T) {
	d, _ := newDis(0x4E71, 0x4E71, 0x4E71)
	d.SetDebugger(&cancellingDbg{})
	recs := d.Disassemble(0x1000, 6)
	assert.Len(t, recs, 1)
}

func TestScanDoesNotPerturbState(t *testing.T) {
	s := &cpu.State{}
	s.Reset()
	s.A[0] = 0x2000
	m := memory.New(0x4000)
	_ = m.WriteWord(0x1000, 0x3218) // MOVE.W (A0)+,D1
	d := New(s, m)
	_ = d.Disassemble(0x1000, 2)
	assert.Equal(t, uint32(0x2000), s.A[0], "disassembly must not post-increment")
	assert.Equal(t, uint32(0), s.D[1])
}
