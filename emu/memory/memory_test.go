package memory

/*
 * M68K - Flat byte-addressable memory tests.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

import (
	"testing"
)

func TestSize(t *testing.T) {
	m := New(0)
	if m.Size() != DefaultSize {
		t.Errorf("Size() got: %d expected: %d", m.Size(), DefaultSize)
	}
	m = New(1024)
	if m.Size() != 1024 {
		t.Errorf("Size() got: %d expected: %d", m.Size(), 1024)
	}
}

func TestReadWriteByte(t *testing.T) {
	m := New(1024)
	if err := m.WriteByte(10, 0x42); err != nil {
		t.Fatalf("WriteByte got error: %v", err)
	}
	v, err := m.ReadByte(10)
	if err != nil {
		t.Fatalf("ReadByte got error: %v", err)
	}
	if v != 0x42 {
		t.Errorf("ReadByte got: %02x expected: %02x", v, 0x42)
	}
}

func TestReadWriteWordBigEndian(t *testing.T) {
	m := New(1024)
	if err := m.WriteWord(20, 0xABCD); err != nil {
		t.Fatalf("WriteWord got error: %v", err)
	}
	b, _ := m.ReadByte(20)
	if b != 0xAB {
		t.Errorf("high byte got: %02x expected: %02x", b, 0xAB)
	}
	b, _ = m.ReadByte(21)
	if b != 0xCD {
		t.Errorf("low byte got: %02x expected: %02x", b, 0xCD)
	}
	w, err := m.ReadWord(20)
	if err != nil {
		t.Fatalf("ReadWord got error: %v", err)
	}
	if w != 0xABCD {
		t.Errorf("ReadWord got: %04x expected: %04x", w, 0xABCD)
	}
}

func TestReadWriteLongBigEndian(t *testing.T) {
	m := New(1024)
	if err := m.WriteLong(40, 0x11223344); err != nil {
		t.Fatalf("WriteLong got error: %v", err)
	}
	want := []byte{0x11, 0x22, 0x33, 0x44}
	for i, w := range want {
		b, _ := m.ReadByte(uint32(40 + i))
		if b != w {
			t.Errorf("byte %d got: %02x expected: %02x", i, b, w)
		}
	}
	v, err := m.ReadLong(40)
	if err != nil {
		t.Fatalf("ReadLong got error: %v", err)
	}
	if v != 0x11223344 {
		t.Errorf("ReadLong got: %08x expected: %08x", v, 0x11223344)
	}
}

func TestOddAddressTrapsWordLong(t *testing.T) {
	m := New(1024)
	if _, err := m.ReadWord(21); err == nil {
		t.Errorf("ReadWord at odd address did not trap")
	} else if err.Vector != 3 {
		t.Errorf("ReadWord odd address vector got: %d expected: 3", err.Vector)
	}
	if err := m.WriteWord(21, 1); err == nil {
		t.Errorf("WriteWord at odd address did not trap")
	}
	if _, err := m.ReadLong(23); err == nil {
		t.Errorf("ReadLong at odd address did not trap")
	}
	if err := m.WriteLong(23, 1); err == nil {
		t.Errorf("WriteLong at odd address did not trap")
	}
}

func TestOutOfRangeTrapsBusError(t *testing.T) {
	m := New(16)
	if _, err := m.ReadByte(100); err == nil {
		t.Errorf("ReadByte out of range did not trap")
	} else if err.Vector != 2 {
		t.Errorf("ReadByte out of range vector got: %d expected: 2", err.Vector)
	}
	if err := m.WriteByte(100, 1); err == nil {
		t.Errorf("WriteByte out of range did not trap")
	}
}

func TestLoadClear(t *testing.T) {
	m := New(16)
	_ = m.WriteByte(0, 0xFF)
	m.Load([]byte{1, 2, 3}, 4, true)
	b, _ := m.ReadByte(0)
	if b != 0 {
		t.Errorf("Load with clear left stale byte: %02x", b)
	}
	for i, want := range []byte{1, 2, 3} {
		b, _ := m.ReadByte(uint32(4 + i))
		if b != want {
			t.Errorf("Load byte %d got: %02x expected: %02x", i, b, want)
		}
	}
}

func TestLoadNoClear(t *testing.T) {
	m := New(16)
	_ = m.WriteByte(0, 0xFF)
	m.Load([]byte{1, 2, 3}, 4, false)
	b, _ := m.ReadByte(0)
	if b != 0xFF {
		t.Errorf("Load without clear changed untouched byte: %02x", b)
	}
}

func TestRawAccessBypassesOddAddressCheck(t *testing.T) {
	m := New(16)
	_ = m.WriteByte(5, 0x7A)
	if v := m.ReadByteRaw(5); v != 0x7A {
		t.Errorf("ReadByteRaw got: %02x expected: %02x", v, 0x7A)
	}
	_ = m.WriteByte(5, 0x7A)
	_ = m.WriteByte(6, 0x7B)
	if v := m.ReadWordRaw(5); v != 0x7A7B {
		t.Errorf("ReadWordRaw got: %04x expected: %04x", v, 0x7A7B)
	}
}

type spyDebugger struct {
	reads, writes []uint32
}

func (s *spyDebugger) DebugRead(addr uint32)  { s.reads = append(s.reads, addr) }
func (s *spyDebugger) DebugWrite(addr uint32) { s.writes = append(s.writes, addr) }

func TestDebuggerHookNotifiedBeforeAccess(t *testing.T) {
	m := New(16)
	d := &spyDebugger{}
	m.AttachDebugger(d)
	_, _ = m.ReadByte(3)
	_ = m.WriteByte(3, 9)
	if len(d.reads) != 1 || d.reads[0] != 3 {
		t.Errorf("DebugRead not notified correctly: %v", d.reads)
	}
	if len(d.writes) != 1 || d.writes[0] != 3 {
		t.Errorf("DebugWrite not notified correctly: %v", d.writes)
	}
}
