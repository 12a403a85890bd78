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
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/BlueSkeye/SLA/space"
)

// XMLEncoder writes the same document structure as minimal canonical
// XML. Attributes for an element can only be written while its start
// tag is still open, i.e. before the first child element.
type XMLEncoder struct {
	w       io.Writer
	tagOpen bool
}

var _ Encoder = (*XMLEncoder)(nil)

// NewXMLEncoder returns an encoder writing to w.
func NewXMLEncoder(w io.Writer) *XMLEncoder {
	Initialize()
	return &XMLEncoder{w: w}
}

// closeTag finishes the pending start tag, if any.
func (e *XMLEncoder) closeTag() error {
	if !e.tagOpen {
		return nil
	}
	e.tagOpen = false
	_, err := io.WriteString(e.w, ">")
	return err
}

// OpenElement starts a new element tag.
func (e *XMLEncoder) OpenElement(elem ElemID) error {
	if err := e.closeTag(); err != nil {
		return err
	}
	e.tagOpen = true
	_, err := fmt.Fprintf(e.w, "<%s", elem.Name())
	return err
}

// CloseElement ends the current element, collapsing attribute-only
// elements to the empty-tag form.
func (e *XMLEncoder) CloseElement(elem ElemID) error {
	if e.tagOpen {
		e.tagOpen = false
		_, err := io.WriteString(e.w, "/>")
		return err
	}
	_, err := fmt.Fprintf(e.w, "</%s>", elem.Name())
	return err
}

// writeAttrib emits one name="value" pair with the value escaped.
func (e *XMLEncoder) writeAttrib(name, val string) error {
	if _, err := fmt.Fprintf(e.w, " %s=\"", name); err != nil {
		return err
	}
	if err := xml.EscapeText(e.w, []byte(val)); err != nil {
		return err
	}
	_, err := io.WriteString(e.w, "\"")
	return err
}

// writeContent emits val as element text content, closing the start
// tag first.
func (e *XMLEncoder) writeContent(val string) error {
	if err := e.closeTag(); err != nil {
		return err
	}
	return xml.EscapeText(e.w, []byte(val))
}

// WriteBool writes a boolean as "true" or "false".
func (e *XMLEncoder) WriteBool(attrib AttribID, val bool) error {
	v := "false"
	if val {
		v = "true"
	}
	if attrib.ID() == AttrContent.ID() {
		return e.writeContent(v)
	}
	return e.writeAttrib(attrib.Name(), v)
}

// WriteSignedInteger writes a signed integer in decimal.
func (e *XMLEncoder) WriteSignedInteger(attrib AttribID, val int64) error {
	v := strconv.FormatInt(val, 10)
	if attrib.ID() == AttrContent.ID() {
		return e.writeContent(v)
	}
	return e.writeAttrib(attrib.Name(), v)
}

// WriteUnsignedInteger writes an unsigned integer as 0x-prefixed hex.
func (e *XMLEncoder) WriteUnsignedInteger(attrib AttribID, val uint64) error {
	v := "0x" + strconv.FormatUint(val, 16)
	if attrib.ID() == AttrContent.ID() {
		return e.writeContent(v)
	}
	return e.writeAttrib(attrib.Name(), v)
}

// WriteString writes a string attribute, escaped.
func (e *XMLEncoder) WriteString(attrib AttribID, val string) error {
	if attrib.ID() == AttrContent.ID() {
		return e.writeContent(val)
	}
	return e.writeAttrib(attrib.Name(), val)
}

// WriteStringIndexed writes one of a run of same-named attributes,
// rendering the index (starting at 1) into the attribute name.
func (e *XMLEncoder) WriteStringIndexed(attrib AttribID, index uint32, val string) error {
	return e.writeAttrib(attrib.Name()+strconv.FormatUint(uint64(index+1), 10), val)
}

// WriteSpace writes an address space by name.
func (e *XMLEncoder) WriteSpace(attrib AttribID, spc *space.AddrSpace) error {
	if spc == nil {
		return fmt.Errorf("marshal: nil address space for attribute %s", attrib.Name())
	}
	if attrib.ID() == AttrContent.ID() {
		return e.writeContent(spc.Name())
	}
	return e.writeAttrib(attrib.Name(), spc.Name())
}
