// Copyright (C) 2024 BlueSkeye
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package marshal

import (
	"fmt"
	"io"
	"math/bits"

	"github.com/BlueSkeye/SLA/space"
)

// PackedEncoder emits the packed byte encoding to a sink. It performs
// no buffering of its own; callers flush the sink.
type PackedEncoder struct {
	w io.Writer
	// scratch holds one header plus the longest possible integer:
	// 2 header bytes, 1 type byte, 10 payload bytes.
	scratch [13]byte
}

var _ Encoder = (*PackedEncoder)(nil)

// NewPackedEncoder returns an encoder writing to w.
func NewPackedEncoder(w io.Writer) *PackedEncoder {
	Initialize()
	return &PackedEncoder{w: w}
}

// appendHeader appends an element or attribute header carrying id,
// using the one-byte form when the id fits in 5 bits.
func appendHeader(dst []byte, header byte, id uint32) []byte {
	if id > headerIDMask {
		header |= headerExtendMask | byte(id>>rawDataBitsPerByte)
		return append(dst, header, byte(id&rawDataMask)|rawDataMarker)
	}
	return append(dst, header|byte(id))
}

// lengthCode returns the number of 7-bit groups needed for val; zero
// values need none.
func lengthCode(val uint64) int {
	return (bits.Len64(val) + rawDataBitsPerByte - 1) / rawDataBitsPerByte
}

// appendInteger appends the type byte (with its length code filled
// in) and val's big-endian 7-bit groups, each tagged with the marker
// bit so no emitted byte is zero.
func appendInteger(dst []byte, typeByte byte, val uint64) []byte {
	n := lengthCode(val)
	dst = append(dst, typeByte|byte(n))
	for sa := (n - 1) * rawDataBitsPerByte; sa >= 0; sa -= rawDataBitsPerByte {
		dst = append(dst, byte(val>>sa)&rawDataMask|rawDataMarker)
	}
	return dst
}

// OpenElement emits the element's start header.
func (e *PackedEncoder) OpenElement(elem ElemID) error {
	_, err := e.w.Write(appendHeader(e.scratch[:0], elementStart, elem.ID()))
	return err
}

// CloseElement emits the element's end header.
func (e *PackedEncoder) CloseElement(elem ElemID) error {
	_, err := e.w.Write(appendHeader(e.scratch[:0], elementEnd, elem.ID()))
	return err
}

// WriteBool emits a boolean attribute; the value rides in the length
// code.
func (e *PackedEncoder) WriteBool(attrib AttribID, val bool) error {
	buf := appendHeader(e.scratch[:0], attribute, attrib.ID())
	typeByte := byte(typeCodeBool << typeCodeShift)
	if val {
		typeByte |= 1
	}
	_, err := e.w.Write(append(buf, typeByte))
	return err
}

// WriteSignedInteger emits a signed integer attribute, choosing the
// positive or negated form.
func (e *PackedEncoder) WriteSignedInteger(attrib AttribID, val int64) error {
	buf := appendHeader(e.scratch[:0], attribute, attrib.ID())
	var typeByte byte
	var mag uint64
	if val < 0 {
		typeByte = typeCodeSignedNeg << typeCodeShift
		mag = -uint64(val)
	} else {
		typeByte = typeCodeSignedPos << typeCodeShift
		mag = uint64(val)
	}
	_, err := e.w.Write(appendInteger(buf, typeByte, mag))
	return err
}

// WriteUnsignedInteger emits an unsigned integer attribute.
func (e *PackedEncoder) WriteUnsignedInteger(attrib AttribID, val uint64) error {
	buf := appendHeader(e.scratch[:0], attribute, attrib.ID())
	_, err := e.w.Write(appendInteger(buf, typeCodeUnsigned<<typeCodeShift, val))
	return err
}

func (e *PackedEncoder) writeString(id uint32, val string) error {
	buf := appendHeader(e.scratch[:0], attribute, id)
	buf = appendInteger(buf, typeCodeString<<typeCodeShift, uint64(len(val)))
	if _, err := e.w.Write(buf); err != nil {
		return err
	}
	_, err := io.WriteString(e.w, val)
	return err
}

// WriteString emits a string attribute: an integer byte length
// followed by the raw UTF-8 bytes.
func (e *PackedEncoder) WriteString(attrib AttribID, val string) error {
	return e.writeString(attrib.ID(), val)
}

// WriteStringIndexed emits a string attribute under id attrib+index.
func (e *PackedEncoder) WriteStringIndexed(attrib AttribID, index uint32, val string) error {
	return e.writeString(attrib.ID()+index, val)
}

// WriteSpace emits an address space attribute: special spaces by
// their code in the length nibble, basic spaces by table index.
func (e *PackedEncoder) WriteSpace(attrib AttribID, spc *space.AddrSpace) error {
	if spc == nil {
		return fmt.Errorf("marshal: nil address space for attribute %s", attrib.Name())
	}
	buf := appendHeader(e.scratch[:0], attribute, attrib.ID())
	code, special := specialCode(spc.Kind())
	if special {
		buf = append(buf, typeCodeSpecialSpace<<typeCodeShift|code)
	} else {
		buf = appendInteger(buf, typeCodeAddressSpace<<typeCodeShift, uint64(spc.Index()))
	}
	_, err := e.w.Write(buf)
	return err
}

// specialCode maps a space kind to its wire code; ok is false for
// basic spaces.
func specialCode(kind space.Kind) (byte, bool) {
	switch kind {
	case space.Stack:
		return specialSpaceStack, true
	case space.Join:
		return specialSpaceJoin, true
	case space.Fspec:
		return specialSpaceFspec, true
	case space.Iop:
		return specialSpaceIop, true
	case space.Spacebase:
		return specialSpaceSpacebase, true
	}
	return 0, false
}
