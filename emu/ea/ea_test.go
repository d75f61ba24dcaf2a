package ea

import (
	"testing"

	"github.com/dhadner/m68k/emu/cpu"
	"github.com/dhadner/m68k/emu/memory"
)

func newResolver(size cpu.Size) (*Resolver, *cpu.State, memory.Memory) {
	s := &cpu.State{}
	s.Reset()
	m := memory.New(4096)
	return &Resolver{S: s, Mem: m, Size: size}, s, m
}

func TestResolveDataRegister(t *testing.T) {
	r, s, _ := newResolver(cpu.Long)
	s.D[3] = 0x12345678
	op, _, trp := r.Resolve(0, 3, 0x100)
	if trp != nil {
		t.Fatalf("Resolve got trap: %v", trp)
	}
	v, _ := r.Load(op)
	if v != 0x12345678 {
		t.Errorf("Load got: %#x expected: %#x", v, 0x12345678)
	}
}

func TestResolveIndirectAndPostInc(t *testing.T) {
	r, s, _ := newResolver(cpu.Word)
	s.A[0] = 0x200
	op, pc, trp := r.Resolve(3, 0, 0x100)
	if trp != nil {
		t.Fatalf("Resolve got trap: %v", trp)
	}
	if op.Addr != 0x200 {
		t.Errorf("PostInc addr got: %#x expected: %#x", op.Addr, 0x200)
	}
	if pc != 0x100 {
		t.Errorf("PostInc should not consume extension words, pc got: %#x", pc)
	}
	r.CommitPostInc(op)
	if s.A[0] != 0x202 {
		t.Errorf("A0 after post-increment got: %#x expected: %#x", s.A[0], 0x202)
	}
}

func TestPreDecA7ByteSpecialCase(t *testing.T) {
	r, s, _ := newResolver(cpu.Byte)
	s.A[7] = 0x1000
	op, _, trp := r.Resolve(4, 7, 0x100)
	if trp != nil {
		t.Fatalf("Resolve got trap: %v", trp)
	}
	if op.Addr != 0x0FFE {
		t.Errorf("A7 byte predecrement got: %#x expected: %#x", op.Addr, 0x0FFE)
	}
	r.CommitPreDec(op)
	if s.A[7] != 0x0FFE {
		t.Errorf("A7 after predecrement got: %#x expected: %#x", s.A[7], 0x0FFE)
	}
}

func TestResolveDisplacementMode(t *testing.T) {
	r, s, m := newResolver(cpu.Word)
	s.A[2] = 0x1000
	_ = m.WriteWord(0x100, 0xFFF0) // -16
	op, pc, trp := r.Resolve(5, 2, 0x100)
	if trp != nil {
		t.Fatalf("Resolve got trap: %v", trp)
	}
	if op.Addr != 0x0FF0 {
		t.Errorf("(d16,An) addr got: %#x expected: %#x", op.Addr, 0x0FF0)
	}
	if pc != 0x102 {
		t.Errorf("pc after displacement mode got: %#x expected: %#x", pc, 0x102)
	}
}

func TestResolveAbsoluteLong(t *testing.T) {
	r, _, m := newResolver(cpu.Long)
	_ = m.WriteWord(0x100, 0x0001)
	_ = m.WriteWord(0x102, 0x2340)
	op, pc, trp := r.Resolve(7, 1, 0x100)
	if trp != nil {
		t.Fatalf("Resolve got trap: %v", trp)
	}
	if op.Addr != 0x00012340 {
		t.Errorf("absolute long got: %#x expected: %#x", op.Addr, 0x00012340)
	}
	if pc != 0x104 {
		t.Errorf("pc after absolute long got: %#x expected: %#x", pc, 0x104)
	}
}

func TestResolveImmediateByteUsesLowByteOfWord(t *testing.T) {
	r, _, m := newResolver(cpu.Byte)
	_ = m.WriteWord(0x100, 0x007F)
	op, _, trp := r.Resolve(7, 4, 0x100)
	if trp != nil {
		t.Fatalf("Resolve got trap: %v", trp)
	}
	if op.Imm != 0x7F {
		t.Errorf("immediate byte got: %#x expected: %#x", op.Imm, 0x7F)
	}
}

func TestStoreDataRegisterPreservesUpperBits(t *testing.T) {
	r, s, _ := newResolver(cpu.Byte)
	s.D[1] = 0xAABBCCDD
	op := Operand{Mode: ModeDataReg, Reg: 1}
	if trp := r.Store(op, 0x11); trp != nil {
		t.Fatalf("Store got trap: %v", trp)
	}
	if s.D[1] != 0xAABBCC11 {
		t.Errorf("D1 got: %#x expected: %#x", s.D[1], 0xAABBCC11)
	}
}
