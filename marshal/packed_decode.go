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
	"io"

	"github.com/BlueSkeye/SLA/space"
)

// packedFrame is the per-open-element decoder state. start is the
// position just past the element's header, end the position of the
// first record after its attributes. cur iterates the attributes;
// consumed records whether the attribute last returned by
// NextAttributeID has had its value read. rd, when valid, is the
// target primed by IndexedAttributeID for the next Read call; it
// never disturbs cur.
type packedFrame struct {
	start    position
	end      position
	cur      position
	consumed bool
	rd       position
	rdValid  bool
}

// PackedDecoder decodes the packed byte encoding. It owns its
// ingested input and is not safe for concurrent use.
type PackedDecoder struct {
	mgr    *space.Manager
	stream byteStream
	// head is the structural read position: the next element start
	// or end record at the current nesting level.
	head  position
	stack []packedFrame
}

var _ Decoder = (*PackedDecoder)(nil)

// NewPackedDecoder returns a decoder resolving address space
// references through mgr.
func NewPackedDecoder(mgr *space.Manager) *PackedDecoder {
	Initialize()
	return &PackedDecoder{mgr: mgr}
}

// Ingest reads the packed input to completion, stopping at EOF or at
// a zero byte.
func (d *PackedDecoder) Ingest(r io.Reader) error {
	if err := d.stream.ingest(r); err != nil {
		return err
	}
	d.head = position{}
	d.stack = d.stack[:0]
	return nil
}

func (d *PackedDecoder) top() (*packedFrame, error) {
	if len(d.stack) == 0 {
		return nil, errf("no open element")
	}
	return &d.stack[len(d.stack)-1], nil
}

// peekID decodes the record header at p without advancing, returning
// the raw header byte and the full id.
func (d *PackedDecoder) peekID(p position) (byte, uint32, error) {
	h := d.stream.get(p)
	id := uint32(h & headerIDMask)
	if h&headerExtendMask != 0 {
		b, err := d.stream.getPlus1(p)
		if err != nil {
			return 0, 0, err
		}
		id = id<<rawDataBitsPerByte | uint32(b&rawDataMask)
	}
	return h, id, nil
}

// nextID decodes the record header at p and advances p past it.
func (d *PackedDecoder) nextID(p *position) (byte, uint32, error) {
	h, err := d.stream.next(p)
	if err != nil {
		return 0, 0, err
	}
	id := uint32(h & headerIDMask)
	if h&headerExtendMask != 0 {
		b, err := d.stream.next(p)
		if err != nil {
			return 0, 0, err
		}
		id = id<<rawDataBitsPerByte | uint32(b&rawDataMask)
	}
	return h, id, nil
}

// readInteger extracts an n-byte big-endian 7-bit-group integer at p,
// advancing p past it.
func (d *PackedDecoder) readInteger(p *position, n int) (uint64, error) {
	var res uint64
	for ; n > 0; n-- {
		b, err := d.stream.next(p)
		if err != nil {
			return 0, err
		}
		res = res<<rawDataBitsPerByte | uint64(b&rawDataMask)
	}
	return res, nil
}

// skipValue advances p past the value of an attribute whose type byte
// has already been consumed.
func (d *PackedDecoder) skipValue(p *position, typeByte byte) error {
	code := typeByte >> typeCodeShift
	n := uint64(typeByte & lengthCodeMask)
	switch code {
	case typeCodeBool, typeCodeSpecialSpace:
		return nil
	case typeCodeSignedPos, typeCodeSignedNeg, typeCodeUnsigned, typeCodeAddressSpace:
		if n > maxIntegerLen {
			return errf("integer length code %d out of range", n)
		}
		return d.stream.advance(p, n)
	case typeCodeString:
		if n > maxIntegerLen {
			return errf("integer length code %d out of range", n)
		}
		slen, err := d.readInteger(p, int(n))
		if err != nil {
			return err
		}
		return d.stream.advance(p, slen)
	}
	return errf("invalid attribute type code %d", code)
}

// skipAttribute advances p past the whole attribute record at p.
func (d *PackedDecoder) skipAttribute(p *position) error {
	h, err := d.stream.next(p)
	if err != nil {
		return err
	}
	if h&headerExtendMask != 0 {
		if _, err := d.stream.next(p); err != nil {
			return err
		}
	}
	typeByte, err := d.stream.next(p)
	if err != nil {
		return err
	}
	return d.skipValue(p, typeByte)
}

// PeekElement returns the id of the next child element without
// opening it, or 0 if the next record ends the current element.
func (d *PackedDecoder) PeekElement() (uint32, error) {
	h, id, err := d.peekID(d.head)
	if err != nil {
		return 0, err
	}
	if h&headerMask != elementStart {
		return 0, nil
	}
	return id, nil
}

// OpenElement opens the next child element and returns its id, or 0
// if there is none. On open, the attribute records are scanned once
// to find the element's first non-attribute record, so attribute
// iteration and the indexed lookup both know their bounds.
func (d *PackedDecoder) OpenElement() (uint32, error) {
	h := d.stream.get(d.head)
	if h&headerMask != elementStart {
		return 0, nil
	}
	_, id, err := d.nextID(&d.head)
	if err != nil {
		return 0, err
	}
	fr := packedFrame{start: d.head, cur: d.head, consumed: true}
	p := fr.start
	for {
		h := d.stream.get(p)
		if h&headerMask != attribute {
			break
		}
		if err := d.skipAttribute(&p); err != nil {
			return 0, err
		}
	}
	fr.end = p
	d.head = p
	d.stack = append(d.stack, fr)
	return id, nil
}

// OpenElementID opens the next child element, which must match elem.
func (d *PackedDecoder) OpenElementID(elem ElemID) error {
	id, err := d.OpenElement()
	if err != nil {
		return err
	}
	if id != elem.ID() {
		if id == IDUnknown {
			return errf("expecting <%s> but did not scan an element", elem.Name())
		}
		return errf("expecting <%s> but id did not match", elem.Name())
	}
	return nil
}

// CloseElement consumes the end record of the current element, which
// must carry the given id.
func (d *PackedDecoder) CloseElement(id uint32) error {
	if len(d.stack) == 0 {
		return errf("no open element")
	}
	h, closeID, err := d.nextID(&d.head)
	if err != nil {
		return err
	}
	if h&headerMask != elementEnd {
		return errf("expecting element close")
	}
	if closeID != id {
		return errf("did not see expected closing element")
	}
	d.stack = d.stack[:len(d.stack)-1]
	return nil
}

// CloseElementSkipping closes the current element, discarding any
// children that have not been visited.
func (d *PackedDecoder) CloseElementSkipping(id uint32) error {
	idstack := []uint32{id}
	for len(idstack) > 0 {
		h := d.stream.get(d.head) & headerMask
		switch h {
		case elementEnd:
			if err := d.CloseElement(idstack[len(idstack)-1]); err != nil {
				return err
			}
			idstack = idstack[:len(idstack)-1]
		case elementStart:
			nested, err := d.OpenElement()
			if err != nil {
				return err
			}
			idstack = append(idstack, nested)
		default:
			return errf("corrupt stream")
		}
	}
	return nil
}

// RewindAttributes resets the attribute cursor of the current
// element.
func (d *PackedDecoder) RewindAttributes() {
	fr, err := d.top()
	if err != nil {
		return
	}
	fr.cur = fr.start
	fr.consumed = true
	fr.rdValid = false
}

// NextAttributeID returns the id of the next attribute of the current
// element, or 0 past the last one. If the previous attribute's value
// was never read it is skipped here.
func (d *PackedDecoder) NextAttributeID() (uint32, error) {
	fr, err := d.top()
	if err != nil {
		return 0, err
	}
	if !fr.consumed {
		if err := d.skipAttribute(&fr.cur); err != nil {
			return 0, err
		}
		fr.consumed = true
	}
	fr.rdValid = false
	if fr.cur == fr.end {
		return 0, nil
	}
	_, id, err := d.peekID(fr.cur)
	if err != nil {
		return 0, err
	}
	fr.consumed = false
	return id, nil
}

// IndexedAttributeID scans the current element's attributes for the
// given id. On a hit the next Read call consumes that attribute's
// value; the iteration cursor is untouched either way. Returns
// IDUnknown on a miss.
func (d *PackedDecoder) IndexedAttributeID(attrib AttribID) (uint32, error) {
	fr, err := d.top()
	if err != nil {
		return 0, err
	}
	p := fr.start
	for p != fr.end {
		_, id, err := d.peekID(p)
		if err != nil {
			return 0, err
		}
		if id == attrib.ID() {
			fr.rd = p
			fr.rdValid = true
			return id, nil
		}
		if err := d.skipAttribute(&p); err != nil {
			return 0, err
		}
	}
	return IDUnknown, nil
}

// beginRead consumes the header and type byte of the attribute the
// next Read call targets. It returns the position to decode the value
// from, the type byte, and whether the read came from an indexed
// lookup rather than the iteration cursor.
func (d *PackedDecoder) beginRead(fr *packedFrame) (*position, byte, bool, error) {
	var p *position
	indexed := fr.rdValid
	if indexed {
		fr.rdValid = false
		tmp := fr.rd
		p = &tmp
	} else {
		if fr.consumed {
			return nil, 0, false, errf("no current attribute to read")
		}
		p = &fr.cur
	}
	h, err := d.stream.next(p)
	if err != nil {
		return nil, 0, false, err
	}
	if h&headerExtendMask != 0 {
		if _, err := d.stream.next(p); err != nil {
			return nil, 0, false, err
		}
	}
	typeByte, err := d.stream.next(p)
	if err != nil {
		return nil, 0, false, err
	}
	return p, typeByte, indexed, nil
}

// finishRead marks the cursor attribute consumed after a successful
// or failed read through the iteration cursor.
func (fr *packedFrame) finishRead(indexed bool) {
	if !indexed {
		fr.consumed = true
	}
}

// mismatch skips the remainder of an attribute whose type code did
// not match the expected one, leaving the cursor on cut for the next
// attribute, and reports the error.
func (d *PackedDecoder) mismatch(fr *packedFrame, p *position, typeByte byte, indexed bool, want string) error {
	if err := d.skipValue(p, typeByte); err != nil {
		return err
	}
	fr.finishRead(indexed)
	return errf("expecting %s attribute", want)
}

// ReadBool reads the current attribute as a boolean.
func (d *PackedDecoder) ReadBool() (bool, error) {
	fr, err := d.top()
	if err != nil {
		return false, err
	}
	p, typeByte, indexed, err := d.beginRead(fr)
	if err != nil {
		return false, err
	}
	if typeByte>>typeCodeShift != typeCodeBool {
		return false, d.mismatch(fr, p, typeByte, indexed, "boolean")
	}
	fr.finishRead(indexed)
	switch typeByte & lengthCodeMask {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, errf("invalid boolean length code %d", typeByte&lengthCodeMask)
}

// ReadBoolID finds the given attribute and reads it as a boolean,
// returning false if the attribute is absent.
func (d *PackedDecoder) ReadBoolID(attrib AttribID) (bool, error) {
	id, err := d.IndexedAttributeID(attrib)
	if err != nil || id == IDUnknown {
		return false, err
	}
	return d.ReadBool()
}

// readIntegerValue decodes the integer payload selected by typeByte.
func (d *PackedDecoder) readIntegerValue(p *position, typeByte byte) (uint64, error) {
	n := int(typeByte & lengthCodeMask)
	if n > maxIntegerLen {
		return 0, errf("integer length code %d out of range", n)
	}
	return d.readInteger(p, n)
}

// ReadSignedInteger reads the current attribute as a signed integer.
func (d *PackedDecoder) ReadSignedInteger() (int64, error) {
	fr, err := d.top()
	if err != nil {
		return 0, err
	}
	p, typeByte, indexed, err := d.beginRead(fr)
	if err != nil {
		return 0, err
	}
	neg := false
	switch typeByte >> typeCodeShift {
	case typeCodeSignedPos:
	case typeCodeSignedNeg:
		neg = true
	default:
		return 0, d.mismatch(fr, p, typeByte, indexed, "signed integer")
	}
	mag, err := d.readIntegerValue(p, typeByte)
	if err != nil {
		return 0, err
	}
	fr.finishRead(indexed)
	if neg {
		return -int64(mag), nil
	}
	return int64(mag), nil
}

// ReadSignedIntegerID finds the given attribute and reads it as a
// signed integer, returning 0 if the attribute is absent.
func (d *PackedDecoder) ReadSignedIntegerID(attrib AttribID) (int64, error) {
	id, err := d.IndexedAttributeID(attrib)
	if err != nil || id == IDUnknown {
		return 0, err
	}
	return d.ReadSignedInteger()
}

// ReadSignedIntegerExpectString reads the current attribute as a
// signed integer, additionally accepting the exact string expect as
// an encoding of expectval. Used across schema changes where an
// enumerated string became an integer.
func (d *PackedDecoder) ReadSignedIntegerExpectString(expect string, expectval int64) (int64, error) {
	fr, err := d.top()
	if err != nil {
		return 0, err
	}
	// Peek the type byte without consuming anything.
	tmp := fr.cur
	if fr.rdValid {
		tmp = fr.rd
	} else if fr.consumed {
		return 0, errf("no current attribute to read")
	}
	h, err := d.stream.next(&tmp)
	if err != nil {
		return 0, err
	}
	if h&headerExtendMask != 0 {
		if _, err := d.stream.next(&tmp); err != nil {
			return 0, err
		}
	}
	typeByte, err := d.stream.next(&tmp)
	if err != nil {
		return 0, err
	}
	if typeByte>>typeCodeShift == typeCodeString {
		val, err := d.ReadString()
		if err != nil {
			return 0, err
		}
		if val != expect {
			return 0, errf("expecting string %q but read %q", expect, val)
		}
		return expectval, nil
	}
	return d.ReadSignedInteger()
}

// ReadSignedIntegerExpectStringID is the indexed form of
// ReadSignedIntegerExpectString, returning 0 if the attribute is
// absent.
func (d *PackedDecoder) ReadSignedIntegerExpectStringID(attrib AttribID, expect string, expectval int64) (int64, error) {
	id, err := d.IndexedAttributeID(attrib)
	if err != nil || id == IDUnknown {
		return 0, err
	}
	return d.ReadSignedIntegerExpectString(expect, expectval)
}

// ReadUnsignedInteger reads the current attribute as an unsigned
// integer.
func (d *PackedDecoder) ReadUnsignedInteger() (uint64, error) {
	fr, err := d.top()
	if err != nil {
		return 0, err
	}
	p, typeByte, indexed, err := d.beginRead(fr)
	if err != nil {
		return 0, err
	}
	if typeByte>>typeCodeShift != typeCodeUnsigned {
		return 0, d.mismatch(fr, p, typeByte, indexed, "unsigned integer")
	}
	res, err := d.readIntegerValue(p, typeByte)
	if err != nil {
		return 0, err
	}
	fr.finishRead(indexed)
	return res, nil
}

// ReadUnsignedIntegerID finds the given attribute and reads it as an
// unsigned integer, returning 0 if the attribute is absent.
func (d *PackedDecoder) ReadUnsignedIntegerID(attrib AttribID) (uint64, error) {
	id, err := d.IndexedAttributeID(attrib)
	if err != nil || id == IDUnknown {
		return 0, err
	}
	return d.ReadUnsignedInteger()
}

// ReadString reads the current attribute as a string. The bytes are
// passed through as stored; the decoder does not re-validate UTF-8.
func (d *PackedDecoder) ReadString() (string, error) {
	fr, err := d.top()
	if err != nil {
		return "", err
	}
	p, typeByte, indexed, err := d.beginRead(fr)
	if err != nil {
		return "", err
	}
	if typeByte>>typeCodeShift != typeCodeString {
		return "", d.mismatch(fr, p, typeByte, indexed, "string")
	}
	slen, err := d.readIntegerValue(p, typeByte)
	if err != nil {
		return "", err
	}
	raw, err := d.stream.bytesAt(p, slen)
	if err != nil {
		return "", err
	}
	fr.finishRead(indexed)
	return string(raw), nil
}

// ReadStringID finds the given attribute and reads it as a string,
// returning "" if the attribute is absent.
func (d *PackedDecoder) ReadStringID(attrib AttribID) (string, error) {
	id, err := d.IndexedAttributeID(attrib)
	if err != nil || id == IDUnknown {
		return "", err
	}
	return d.ReadString()
}

// ReadSpace reads the current attribute as an address space
// reference, resolving it through the manager.
func (d *PackedDecoder) ReadSpace() (*space.AddrSpace, error) {
	fr, err := d.top()
	if err != nil {
		return nil, err
	}
	p, typeByte, indexed, err := d.beginRead(fr)
	if err != nil {
		return nil, err
	}
	switch typeByte >> typeCodeShift {
	case typeCodeAddressSpace:
		idx, err := d.readIntegerValue(p, typeByte)
		if err != nil {
			return nil, err
		}
		fr.finishRead(indexed)
		spc := d.mgr.ByIndex(int(idx))
		if spc == nil {
			return nil, errf("unknown address space index %d", idx)
		}
		return spc, nil
	case typeCodeSpecialSpace:
		kind, err := specialKind(typeByte & lengthCodeMask)
		if err != nil {
			return nil, err
		}
		fr.finishRead(indexed)
		spc := d.mgr.Special(kind)
		if spc == nil {
			return nil, errf("%s space is not registered", kind)
		}
		return spc, nil
	}
	return nil, d.mismatch(fr, p, typeByte, indexed, "space")
}

// ReadSpaceID finds the given attribute and reads it as an address
// space, returning nil if the attribute is absent.
func (d *PackedDecoder) ReadSpaceID(attrib AttribID) (*space.AddrSpace, error) {
	id, err := d.IndexedAttributeID(attrib)
	if err != nil || id == IDUnknown {
		return nil, err
	}
	return d.ReadSpace()
}

// specialKind maps a special-space wire code to its kind.
func specialKind(code byte) (space.Kind, error) {
	switch code {
	case specialSpaceStack:
		return space.Stack, nil
	case specialSpaceJoin:
		return space.Join, nil
	case specialSpaceFspec:
		return space.Fspec, nil
	case specialSpaceIop:
		return space.Iop, nil
	case specialSpaceSpacebase:
		return space.Spacebase, nil
	}
	return 0, errf("invalid special space code %d", code)
}
