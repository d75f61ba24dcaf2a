/*
   M68K disassembler: non-executable section management.

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

import "sort"

// SizeHint selects the directive width used when rendering a
// non-executable section as data.
type SizeHint int

const (
	HintAuto SizeHint = iota
	HintByte
	HintWord
	HintLong
)

// Section is a half-open byte range [Start,End) the scanner renders as
// DC directives instead of decoding.
type Section struct {
	Start uint32
	End   uint32
	Hint  SizeHint
}

// AddSection marks [start,end) non-executable. Overlapping sections
// with the same hint merge; overlaps with a different hint are
// truncated or split around the new range. The section set is kept
// sorted and pairwise non-overlapping.
func (d *Disassembler) AddSection(start, end uint32, hint SizeHint) {
	if end <= start {
		return
	}
	d.sections = carve(d.sections, start, end)
	d.sections = append(d.sections, Section{Start: start, End: end, Hint: hint})
	d.normalize()
}

// ClearSections drops every non-executable section.
func (d *Disassembler) ClearSections() {
	d.sections = nil
}

// ClearSectionRange removes [start,end) from the section set: sections
// fully inside the range are dropped, a section spanning it is split in
// two, and sections overlapping one edge are truncated.
func (d *Disassembler) ClearSectionRange(start, end uint32) {
	if end <= start {
		return
	}
	d.sections = carve(d.sections, start, end)
	d.normalize()
}

// Sections returns the normalized section set, for display.
func (d *Disassembler) Sections() []Section {
	out := make([]Section, len(d.sections))
	copy(out, d.sections)
	return out
}

// carve removes [start,end) from every section, handling the four
// overlap cases: containment drops the section, a spanning section
// splits into two, and edge overlaps truncate low or high.
func carve(secs []Section, start, end uint32) []Section {
	out := secs[:0:0]
	for _, s := range secs {
		if s.End <= start || s.Start >= end {
			out = append(out, s)
			continue
		}
		if s.Start < start {
			out = append(out, Section{Start: s.Start, End: start, Hint: s.Hint})
		}
		if s.End > end {
			out = append(out, Section{Start: end, End: s.End, Hint: s.Hint})
		}
	}
	return out
}

// normalize sorts by start address and coalesces touching or
// overlapping neighbors whose hints agree.
func (d *Disassembler) normalize() {
	sort.Slice(d.sections, func(i, j int) bool {
		return d.sections[i].Start < d.sections[j].Start
	})
	out := d.sections[:0]
	for _, s := range d.sections {
		if n := len(out); n > 0 && out[n-1].Hint == s.Hint && s.Start <= out[n-1].End {
			if s.End > out[n-1].End {
				out[n-1].End = s.End
			}
			continue
		}
		out = append(out, s)
	}
	d.sections = out
}

// sectionAt returns the section containing addr, if any.
func (d *Disassembler) sectionAt(addr uint32) (Section, bool) {
	for _, s := range d.sections {
		if addr >= s.Start && addr < s.End {
			return s, true
		}
		if s.Start > addr {
			break
		}
	}
	return Section{}, false
}
