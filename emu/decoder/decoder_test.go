package decoder

import (
	"testing"

	"github.com/dhadner/m68k/emu/cpu"
	"github.com/dhadner/m68k/emu/memory"
	"github.com/dhadner/m68k/emu/opcodemap"
)

func TestDecodeMOVEQ(t *testing.T) {
	m := memory.New(0x1000)
	_ = m.WriteWord(0x400, 0x723A) // MOVEQ #$3A,D1
	d := New(m)
	in, next := d.Decode(0x400)
	if in.Op != opcodemap.OpMOVEQ {
		t.Fatalf("Op got: %d expected: OpMOVEQ", in.Op)
	}
	if in.Reg != 1 {
		t.Errorf("Reg got: %d expected: 1", in.Reg)
	}
	if in.Data != 0x3A {
		t.Errorf("Data got: %#x expected: %#x", in.Data, 0x3A)
	}
	if next != 0x402 {
		t.Errorf("next pc got: %#x expected: %#x", next, 0x402)
	}
}

func TestDecodeADDIWord(t *testing.T) {
	m := memory.New(0x1000)
	_ = m.WriteWord(0x400, 0x0641) // ADDI.W #imm,D1
	_ = m.WriteWord(0x402, 0x00FF)
	d := New(m)
	in, next := d.Decode(0x400)
	if in.Op != opcodemap.OpADDI {
		t.Fatalf("Op got: %d expected: OpADDI", in.Op)
	}
	if in.Size != cpu.Word {
		t.Errorf("Size got: %d expected: Word", in.Size)
	}
	if in.Data != 0xFF {
		t.Errorf("Data got: %#x expected: %#x", in.Data, 0xFF)
	}
	if in.SrcMode != 0 || in.SrcReg != 1 {
		t.Errorf("dest EA got: mode=%d reg=%d expected: mode=0 reg=1", in.SrcMode, in.SrcReg)
	}
	if next != 0x404 {
		t.Errorf("next pc got: %#x expected: %#x", next, 0x404)
	}
}

func TestDecodeMOVEWordPostIncrement(t *testing.T) {
	m := memory.New(0x1000)
	// MOVE.W (A0)+,(A1)+ : 0011 001 011 011 000 = 0x32D8
	_ = m.WriteWord(0x400, 0x32D8)
	d := New(m)
	in, next := d.Decode(0x400)
	if in.Op != opcodemap.OpMOVE {
		t.Fatalf("Op got: %d expected: OpMOVE", in.Op)
	}
	if in.Size != cpu.Word {
		t.Errorf("Size got: %d expected: Word", in.Size)
	}
	if in.SrcMode != 3 || in.SrcReg != 0 {
		t.Errorf("src EA got: mode=%d reg=%d expected: mode=3 reg=0", in.SrcMode, in.SrcReg)
	}
	if in.DstMode != 3 || in.DstReg != 1 {
		t.Errorf("dst EA got: mode=%d reg=%d expected: mode=3 reg=1", in.DstMode, in.DstReg)
	}
	if next != 0x402 {
		t.Errorf("next pc got: %#x expected: %#x", next, 0x402)
	}
}

func TestDecodeBSRShortDisplacement(t *testing.T) {
	m := memory.New(0x1000)
	_ = m.WriteWord(0x400, 0x6110) // BSR.S +$12
	d := New(m)
	in, next := d.Decode(0x400)
	if in.Op != opcodemap.OpBSR {
		t.Fatalf("Op got: %d expected: OpBSR", in.Op)
	}
	if in.Data != 0x10 {
		t.Errorf("Data got: %#x expected: %#x", in.Data, 0x10)
	}
	if next != 0x402 {
		t.Errorf("next pc got: %#x expected: %#x", next, 0x402)
	}
}

func TestDecodeBSRWordDisplacement(t *testing.T) {
	m := memory.New(0x1000)
	_ = m.WriteWord(0x400, 0x6100) // BSR.W, displacement in next word
	_ = m.WriteWord(0x402, 0x0100)
	d := New(m)
	in, next := d.Decode(0x400)
	if in.Op != opcodemap.OpBSR {
		t.Fatalf("Op got: %d expected: OpBSR", in.Op)
	}
	if in.Data != 0x100 {
		t.Errorf("Data got: %#x expected: %#x", in.Data, 0x100)
	}
	if next != 0x404 {
		t.Errorf("next pc got: %#x expected: %#x", next, 0x404)
	}
}

func TestDecodeRTS(t *testing.T) {
	m := memory.New(0x1000)
	_ = m.WriteWord(0x400, 0x4E75)
	d := New(m)
	in, next := d.Decode(0x400)
	if in.Op != opcodemap.OpRTS {
		t.Fatalf("Op got: %d expected: OpRTS", in.Op)
	}
	if next != 0x402 {
		t.Errorf("next pc got: %#x expected: %#x", next, 0x402)
	}
}

func TestDecodeIllegalOpcode(t *testing.T) {
	m := memory.New(0x1000)
	_ = m.WriteWord(0x400, 0x4AFC) // the canonical illegal instruction
	d := New(m)
	in, _ := d.Decode(0x400)
	if in.Op != opcodemap.OpIllegal {
		t.Errorf("Op got: %d expected: OpIllegal", in.Op)
	}
}

func TestDecodeLineAAndLineF(t *testing.T) {
	m := memory.New(0x1000)
	_ = m.WriteWord(0x400, 0xA000)
	_ = m.WriteWord(0x402, 0xF000)
	d := New(m)
	in, _ := d.Decode(0x400)
	if in.Op != opcodemap.OpLineA {
		t.Errorf("Op got: %d expected: OpLineA", in.Op)
	}
	in2, _ := d.Decode(0x402)
	if in2.Op != opcodemap.OpLineF {
		t.Errorf("Op got: %d expected: OpLineF", in2.Op)
	}
}

func TestDecodeMOVEMBothDirections(t *testing.T) {
	m := memory.New(0x1000)
	_ = m.WriteWord(0x400, 0x48E0) // MOVEM.L <list>,-(A0)
	_ = m.WriteWord(0x402, 0xC000)
	_ = m.WriteWord(0x404, 0x4C99) // MOVEM.W (A1)+,<list>
	_ = m.WriteWord(0x406, 0x2001)
	d := New(m)
	in, next := d.Decode(0x400)
	if in.Op != opcodemap.OpMOVEM {
		t.Fatalf("Op got: %d expected: OpMOVEM", in.Op)
	}
	if in.Data != 0 {
		t.Errorf("direction got: %d expected: 0 (regs->mem)", in.Data)
	}
	if in.Size != cpu.Long {
		t.Errorf("Size got: %d expected: Long", in.Size)
	}
	if next != 0x404 {
		t.Errorf("next pc got: %#x expected: %#x", next, 0x404)
	}
	in2, _ := d.Decode(0x404)
	if in2.Op != opcodemap.OpMOVEM {
		t.Fatalf("Op got: %d expected: OpMOVEM", in2.Op)
	}
	if in2.Data != 1 {
		t.Errorf("direction got: %d expected: 1 (mem->regs)", in2.Data)
	}
}

func TestDecodeEXTNotSwallowedByMOVEM(t *testing.T) {
	m := memory.New(0x1000)
	_ = m.WriteWord(0x400, 0x4880) // EXT.W D0
	_ = m.WriteWord(0x402, 0x48C3) // EXT.L D3
	d := New(m)
	in, next := d.Decode(0x400)
	if in.Op != opcodemap.OpEXT || in.Size != cpu.Word {
		t.Errorf("got: Op=%d Size=%d expected: OpEXT Word", in.Op, in.Size)
	}
	if next != 0x402 {
		t.Errorf("next pc got: %#x expected: %#x", next, 0x402)
	}
	in2, _ := d.Decode(0x402)
	if in2.Op != opcodemap.OpEXT || in2.Size != cpu.Long {
		t.Errorf("got: Op=%d Size=%d expected: OpEXT Long", in2.Op, in2.Size)
	}
}

func TestDecodePEA(t *testing.T) {
	m := memory.New(0x1000)
	_ = m.WriteWord(0x400, 0x4850) // PEA (A0)
	d := New(m)
	in, _ := d.Decode(0x400)
	if in.Op != opcodemap.OpPEA {
		t.Errorf("Op got: %d expected: OpPEA", in.Op)
	}
	if in.SrcMode != 2 || in.SrcReg != 0 {
		t.Errorf("EA got: mode=%d reg=%d expected: mode=2 reg=0", in.SrcMode, in.SrcReg)
	}
}

func TestDecodeMOVEToFromSRAndCCR(t *testing.T) {
	m := memory.New(0x1000)
	_ = m.WriteWord(0x400, 0x40C0) // MOVE SR,D0
	_ = m.WriteWord(0x402, 0x44C1) // MOVE D1,CCR
	_ = m.WriteWord(0x404, 0x46C2) // MOVE D2,SR
	d := New(m)
	in, _ := d.Decode(0x400)
	if in.Op != opcodemap.OpMOVEfromSR {
		t.Errorf("Op got: %d expected: OpMOVEfromSR", in.Op)
	}
	in2, _ := d.Decode(0x402)
	if in2.Op != opcodemap.OpMOVEtoCCR {
		t.Errorf("Op got: %d expected: OpMOVEtoCCR", in2.Op)
	}
	in3, _ := d.Decode(0x404)
	if in3.Op != opcodemap.OpMOVEtoSR {
		t.Errorf("Op got: %d expected: OpMOVEtoSR", in3.Op)
	}
}

func TestDecodeANDIToCCRAndSR(t *testing.T) {
	m := memory.New(0x1000)
	_ = m.WriteWord(0x400, 0x023C) // ANDI #$xx,CCR
	_ = m.WriteWord(0x402, 0x00FB)
	_ = m.WriteWord(0x404, 0x027C) // ANDI #$xxxx,SR
	_ = m.WriteWord(0x406, 0xF8FF)
	d := New(m)
	in, next := d.Decode(0x400)
	if in.Op != opcodemap.OpANDItoCCR {
		t.Fatalf("Op got: %d expected: OpANDItoCCR", in.Op)
	}
	if in.Data != 0xFB {
		t.Errorf("Data got: %#x expected: %#x", in.Data, 0xFB)
	}
	if next != 0x404 {
		t.Errorf("next pc got: %#x expected: %#x", next, 0x404)
	}
	in2, _ := d.Decode(0x404)
	if in2.Op != opcodemap.OpANDItoSR {
		t.Fatalf("Op got: %d expected: OpANDItoSR", in2.Op)
	}
	if in2.Data != int32(0xF8FF) {
		t.Errorf("Data got: %#x expected: %#x", in2.Data, 0xF8FF)
	}
}

func TestDecodeDBccConsumesDisplacement(t *testing.T) {
	m := memory.New(0x1000)
	_ = m.WriteWord(0x400, 0x51C8) // DBF D0,*
	_ = m.WriteWord(0x402, 0xFFFE)
	d := New(m)
	in, next := d.Decode(0x400)
	if in.Op != opcodemap.OpDBcc {
		t.Fatalf("Op got: %d expected: OpDBcc", in.Op)
	}
	if in.Reg != 0 {
		t.Errorf("Reg got: %d expected: 0", in.Reg)
	}
	if next != 0x404 {
		t.Errorf("next pc got: %#x expected: %#x", next, 0x404)
	}
}
