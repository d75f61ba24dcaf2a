/*
 * M68K - Flat byte-addressable memory.
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

// Package memory implements the M68K's flat, byte-addressable memory
// image: big-endian word/long accessors, odd-address checking, and an
// optional debugger hook consulted on every access.
package memory

import "github.com/dhadner/m68k/emu/trap"

// DefaultSize is the M68K's maximum physical addressing: 16 MiB.
const DefaultSize = 16 * 1024 * 1024

// Debugger is consulted before a memory access. It is purely
// observational and must not mutate Memory except through the normal
// read/write path.
type Debugger interface {
	DebugRead(addr uint32)
	DebugWrite(addr uint32)
}

// Memory is the interface the rest of the core depends on, so a host
// can substitute a memory-mapped-I/O implementation in place of the
// default flat image.
type Memory interface {
	Size() uint32

	ReadByte(addr uint32) (uint8, *trap.Trap)
	ReadWord(addr uint32) (uint16, *trap.Trap)
	ReadLong(addr uint32) (uint32, *trap.Trap)

	WriteByte(addr uint32, v uint8) *trap.Trap
	WriteWord(addr uint32, v uint16) *trap.Trap
	WriteLong(addr uint32, v uint32) *trap.Trap

	// ReadByteRaw/ReadWordRaw bypass the odd-address check; the
	// disassembler uses these so it can render data in non-executable
	// sections without tripping address-error semantics.
	ReadByteRaw(addr uint32) uint8
	ReadWordRaw(addr uint32) uint16

	Load(data []byte, at uint32, clear bool)

	AttachDebugger(d Debugger)
}

// FlatMemory is the default Memory implementation: a single
// contiguous byte array.
type FlatMemory struct {
	bytes []byte
	dbg   Debugger
}

// New creates a FlatMemory of the given size in bytes. A size of 0
// selects DefaultSize.
func New(size uint32) *FlatMemory {
	if size == 0 {
		size = DefaultSize
	}
	return &FlatMemory{bytes: make([]byte, size)}
}

func (m *FlatMemory) Size() uint32 {
	return uint32(len(m.bytes))
}

func (m *FlatMemory) AttachDebugger(d Debugger) {
	m.dbg = d
}

func (m *FlatMemory) inRange(addr, width uint32) bool {
	return uint64(addr)+uint64(width) <= uint64(len(m.bytes))
}

func (m *FlatMemory) notifyRead(addr uint32) {
	if m.dbg != nil {
		m.dbg.DebugRead(addr)
	}
}

func (m *FlatMemory) notifyWrite(addr uint32) {
	if m.dbg != nil {
		m.dbg.DebugWrite(addr)
	}
}

func (m *FlatMemory) ReadByte(addr uint32) (uint8, *trap.Trap) {
	m.notifyRead(addr)
	if !m.inRange(addr, 1) {
		return 0, trap.New(trap.BusError, 0, addr)
	}
	return m.bytes[addr], nil
}

func (m *FlatMemory) ReadWord(addr uint32) (uint16, *trap.Trap) {
	if addr&1 != 0 {
		return 0, trap.New(trap.AddressError, 0, addr)
	}
	m.notifyRead(addr)
	if !m.inRange(addr, 2) {
		return 0, trap.New(trap.BusError, 0, addr)
	}
	return uint16(m.bytes[addr])<<8 | uint16(m.bytes[addr+1]), nil
}

func (m *FlatMemory) ReadLong(addr uint32) (uint32, *trap.Trap) {
	if addr&1 != 0 {
		return 0, trap.New(trap.AddressError, 0, addr)
	}
	m.notifyRead(addr)
	if !m.inRange(addr, 4) {
		return 0, trap.New(trap.BusError, 0, addr)
	}
	hi := uint32(m.bytes[addr])<<8 | uint32(m.bytes[addr+1])
	lo := uint32(m.bytes[addr+2])<<8 | uint32(m.bytes[addr+3])
	return hi<<16 | lo, nil
}

func (m *FlatMemory) WriteByte(addr uint32, v uint8) *trap.Trap {
	m.notifyWrite(addr)
	if !m.inRange(addr, 1) {
		return trap.New(trap.BusError, 0, addr)
	}
	m.bytes[addr] = v
	return nil
}

func (m *FlatMemory) WriteWord(addr uint32, v uint16) *trap.Trap {
	if addr&1 != 0 {
		return trap.New(trap.AddressError, 0, addr)
	}
	m.notifyWrite(addr)
	if !m.inRange(addr, 2) {
		return trap.New(trap.BusError, 0, addr)
	}
	m.bytes[addr] = uint8(v >> 8)
	m.bytes[addr+1] = uint8(v)
	return nil
}

func (m *FlatMemory) WriteLong(addr uint32, v uint32) *trap.Trap {
	if addr&1 != 0 {
		return trap.New(trap.AddressError, 0, addr)
	}
	m.notifyWrite(addr)
	if !m.inRange(addr, 4) {
		return trap.New(trap.BusError, 0, addr)
	}
	m.bytes[addr] = uint8(v >> 24)
	m.bytes[addr+1] = uint8(v >> 16)
	m.bytes[addr+2] = uint8(v >> 8)
	m.bytes[addr+3] = uint8(v)
	return nil
}

func (m *FlatMemory) ReadByteRaw(addr uint32) uint8 {
	if !m.inRange(addr, 1) {
		return 0
	}
	return m.bytes[addr]
}

func (m *FlatMemory) ReadWordRaw(addr uint32) uint16 {
	if !m.inRange(addr, 2) {
		return 0
	}
	return uint16(m.bytes[addr])<<8 | uint16(m.bytes[addr+1])
}

// Load copies data into memory starting at at, optionally zeroing the
// whole image first.
func (m *FlatMemory) Load(data []byte, at uint32, clear bool) {
	if clear {
		for i := range m.bytes {
			m.bytes[i] = 0
		}
	}
	copy(m.bytes[at:], data)
}
