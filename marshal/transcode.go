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

// attributeType returns the type code of the attribute the cursor
// currently sits on, without consuming anything. Only meaningful
// right after NextAttributeID.
func (d *PackedDecoder) attributeType() (byte, error) {
	fr, err := d.top()
	if err != nil {
		return 0, err
	}
	if fr.consumed {
		return 0, errf("no current attribute to read")
	}
	tmp := fr.cur
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
	return typeByte >> typeCodeShift, nil
}

// Transcode re-encodes the next element of the packed stream, and
// everything it contains, through enc. The packed type bytes drive
// the value dispatch, so no schema knowledge is needed; every element
// and attribute id in the stream must be registered so its name can
// be recovered.
func Transcode(enc Encoder, dec *PackedDecoder) error {
	id, err := dec.OpenElement()
	if err != nil {
		return err
	}
	if id == IDUnknown {
		return errf("no element to transcode")
	}
	return transcodeElement(enc, dec, id)
}

func transcodeElement(enc Encoder, dec *PackedDecoder, id uint32) error {
	elem, ok := LookupElem(id)
	if !ok {
		return errf("element id %d is not registered", id)
	}
	if err := enc.OpenElement(elem); err != nil {
		return err
	}
	for {
		aid, err := dec.NextAttributeID()
		if err != nil {
			return err
		}
		if aid == IDUnknown {
			break
		}
		attrib, ok := LookupAttrib(aid)
		if !ok {
			return errf("attribute id %d is not registered", aid)
		}
		if err := transcodeAttribute(enc, dec, attrib); err != nil {
			return err
		}
	}
	for {
		child, err := dec.PeekElement()
		if err != nil {
			return err
		}
		if child == IDUnknown {
			break
		}
		if _, err := dec.OpenElement(); err != nil {
			return err
		}
		if err := transcodeElement(enc, dec, child); err != nil {
			return err
		}
	}
	if err := dec.CloseElement(id); err != nil {
		return err
	}
	return enc.CloseElement(elem)
}

func transcodeAttribute(enc Encoder, dec *PackedDecoder, attrib AttribID) error {
	code, err := dec.attributeType()
	if err != nil {
		return err
	}
	switch code {
	case typeCodeBool:
		val, err := dec.ReadBool()
		if err != nil {
			return err
		}
		return enc.WriteBool(attrib, val)
	case typeCodeSignedPos, typeCodeSignedNeg:
		val, err := dec.ReadSignedInteger()
		if err != nil {
			return err
		}
		return enc.WriteSignedInteger(attrib, val)
	case typeCodeUnsigned:
		val, err := dec.ReadUnsignedInteger()
		if err != nil {
			return err
		}
		return enc.WriteUnsignedInteger(attrib, val)
	case typeCodeAddressSpace, typeCodeSpecialSpace:
		spc, err := dec.ReadSpace()
		if err != nil {
			return err
		}
		return enc.WriteSpace(attrib, spc)
	case typeCodeString:
		val, err := dec.ReadString()
		if err != nil {
			return err
		}
		return enc.WriteString(attrib, val)
	}
	return errf("invalid attribute type code %d", code)
}
