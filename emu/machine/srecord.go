/*
   M68K machine: Motorola S-record loader.

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

package machine

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadSRecord parses a Motorola S-record file into memory. S1/S2/S3
// data records carry 2/3/4-byte addresses, S7/S8/S9 termination
// records set PC to the start address, S0 and S5 are verified and
// ignored. A malformed line or checksum mismatch is fatal and stops
// the load; a data byte landing outside memory is logged as a warning
// and skipped, so images referencing unpopulated addresses still load.
func (m *Machine) LoadSRecord(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("srecord: %w", err)
	}
	defer file.Close()
	return m.loadSRecords(file)
}

func (m *Machine) loadSRecords(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := m.loadSRecordLine(line); err != nil {
			return fmt.Errorf("srecord line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("srecord: %w", err)
	}
	return nil
}

// addressBytes gives the address field width per record type.
var addressBytes = map[byte]int{
	'0': 2, '1': 2, '2': 3, '3': 4, '5': 2, '7': 4, '8': 3, '9': 2,
}

func (m *Machine) loadSRecordLine(line string) error {
	if len(line) < 10 || line[0] != 'S' {
		return errors.New("malformed record")
	}
	typ := line[1]
	addrLen, ok := addressBytes[typ]
	if !ok {
		return fmt.Errorf("unsupported record type S%c", typ)
	}

	raw, err := decodePairs(line[2:])
	if err != nil {
		return err
	}
	count := int(raw[0])
	if count != len(raw)-1 {
		return fmt.Errorf("length field %d does not match %d record bytes", count, len(raw)-1)
	}
	if count < addrLen+1 {
		return errors.New("record too short for its address field")
	}

	// Checksum: one's complement of the sum of length, address, and
	// data bytes, truncated to 8 bits.
	var sum uint8
	for _, b := range raw[:len(raw)-1] {
		sum += b
	}
	if ^sum != raw[len(raw)-1] {
		return errors.New("bad checksum")
	}

	var addr uint32
	for _, b := range raw[1 : 1+addrLen] {
		addr = addr<<8 | uint32(b)
	}
	data := raw[1+addrLen : len(raw)-1]

	switch typ {
	case '0', '5': // header and count records carry no image bytes
	case '1', '2', '3':
		for i, b := range data {
			if trp := m.Mem.WriteByte(addr+uint32(i), b); trp != nil {
				m.log.Warn("srecord byte outside memory, skipped",
					"addr", fmt.Sprintf("%06X", addr+uint32(i)))
			}
		}
	default: // S7/S8/S9 termination
		m.CPU.PC = addr
	}
	return nil
}

// decodePairs converts an even run of hex digits to bytes. S-records
// are upper-case by convention but lower case is accepted.
func decodePairs(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, errors.New("odd number of hex digits")
	}
	out := make([]byte, len(s)/2)
	for i := range out {
		hi, ok1 := nibble(s[2*i])
		lo, ok2 := nibble(s[2*i+1])
		if !ok1 || !ok2 {
			return nil, errors.New("invalid hex digit")
		}
		out[i] = hi<<4 | lo
	}
	return out, nil
}

func nibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}
