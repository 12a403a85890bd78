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
	"strconv"
	"strings"

	"github.com/BlueSkeye/SLA/space"
	"github.com/BlueSkeye/SLA/xmltree"
)

// xmlFrame is the per-open-element decoder state: the element, the
// index of its next child to open, the attribute iteration cursor
// (-1 before the first attribute) and the indexed read target (-1
// when none is primed).
type xmlFrame struct {
	el    *xmltree.Element
	child int
	attr  int
	rd    int
}

// XMLDecoder decodes the XML encoding over a pre-parsed document
// tree. It can be handed an existing root element, or Ingest can
// parse the document from a stream, in which case the decoder owns
// the document.
type XMLDecoder struct {
	mgr   *space.Manager
	doc   *xmltree.Document
	root  *xmltree.Element
	stack []xmlFrame
}

var _ Decoder = (*XMLDecoder)(nil)

// NewXMLDecoder returns a decoder for a document to be ingested
// later, resolving address space references through mgr.
func NewXMLDecoder(mgr *space.Manager) *XMLDecoder {
	Initialize()
	return &XMLDecoder{mgr: mgr}
}

// NewXMLDecoderRoot returns a decoder over an already-parsed tree
// rooted at root.
func NewXMLDecoderRoot(mgr *space.Manager, root *xmltree.Element) *XMLDecoder {
	Initialize()
	return &XMLDecoder{mgr: mgr, root: root}
}

// Ingest parses one XML document from r.
func (d *XMLDecoder) Ingest(r io.Reader) error {
	doc, err := xmltree.Parse(r)
	if err != nil {
		return &DecoderError{Msg: err.Error()}
	}
	d.doc = doc
	d.root = doc.Root()
	d.stack = d.stack[:0]
	return nil
}

func (d *XMLDecoder) top() (*xmlFrame, error) {
	if len(d.stack) == 0 {
		return nil, errf("no open element")
	}
	return &d.stack[len(d.stack)-1], nil
}

// nextChild returns the element the next OpenElement call would open,
// or nil.
func (d *XMLDecoder) nextChild() *xmltree.Element {
	if len(d.stack) == 0 {
		return d.root
	}
	fr := &d.stack[len(d.stack)-1]
	children := fr.el.Children()
	if fr.child >= len(children) {
		return nil
	}
	return children[fr.child]
}

// PeekElement returns the id of the next child element without
// opening it, or 0 if there is none.
func (d *XMLDecoder) PeekElement() (uint32, error) {
	el := d.nextChild()
	if el == nil {
		return 0, nil
	}
	return FindElem(el.Name()), nil
}

func (d *XMLDecoder) push(el *xmltree.Element) {
	if len(d.stack) == 0 {
		// The root is opened once.
		d.root = nil
	} else {
		d.stack[len(d.stack)-1].child++
	}
	d.stack = append(d.stack, xmlFrame{el: el, attr: -1, rd: -1})
}

// OpenElement opens the next child element and returns its id, or 0
// if there is none.
func (d *XMLDecoder) OpenElement() (uint32, error) {
	el := d.nextChild()
	if el == nil {
		return 0, nil
	}
	d.push(el)
	return FindElem(el.Name()), nil
}

// OpenElementID opens the next child element, which must match elem.
func (d *XMLDecoder) OpenElementID(elem ElemID) error {
	el := d.nextChild()
	if el == nil {
		if len(d.stack) == 0 {
			return errf("expecting <%s> but reached end of document", elem.Name())
		}
		return errf("expecting <%s> but no remaining children in current element", elem.Name())
	}
	if el.Name() != elem.Name() {
		return errf("expecting <%s> but got <%s>", elem.Name(), el.Name())
	}
	d.push(el)
	return nil
}

// CloseElement closes the current element, which must match id and
// have no unvisited children.
func (d *XMLDecoder) CloseElement(id uint32) error {
	fr, err := d.top()
	if err != nil {
		return err
	}
	if FindElem(fr.el.Name()) != id {
		return errf("trying to close <%s> with mismatching id", fr.el.Name())
	}
	if fr.child != len(fr.el.Children()) {
		return errf("closing element <%s> with additional children", fr.el.Name())
	}
	d.stack = d.stack[:len(d.stack)-1]
	return nil
}

// CloseElementSkipping closes the current element, discarding any
// unvisited children.
func (d *XMLDecoder) CloseElementSkipping(id uint32) error {
	fr, err := d.top()
	if err != nil {
		return err
	}
	if FindElem(fr.el.Name()) != id {
		return errf("trying to close <%s> with mismatching id", fr.el.Name())
	}
	d.stack = d.stack[:len(d.stack)-1]
	return nil
}

// RewindAttributes resets the attribute cursor of the current
// element.
func (d *XMLDecoder) RewindAttributes() {
	fr, err := d.top()
	if err != nil {
		return
	}
	fr.attr = -1
	fr.rd = -1
}

// NextAttributeID advances the attribute cursor and returns the next
// attribute's id, or 0 past the last one. Unregistered names yield
// IDUnknown.
func (d *XMLDecoder) NextAttributeID() (uint32, error) {
	fr, err := d.top()
	if err != nil {
		return 0, err
	}
	fr.rd = -1
	next := fr.attr + 1
	if next >= fr.el.NumAttribs() {
		return 0, nil
	}
	fr.attr = next
	return FindAttrib(fr.el.AttribName(next)), nil
}

// IndexedAttributeID looks up the given attribute within the current
// element. If the cursor sits on an indexed rendition of attrib (its
// name followed by a decimal index starting at 1), the decoded
// indexed id is returned; otherwise the attribute list is scanned for
// an exact name match. The iteration cursor is unaffected.
func (d *XMLDecoder) IndexedAttributeID(attrib AttribID) (uint32, error) {
	fr, err := d.top()
	if err != nil {
		return 0, err
	}
	if fr.attr >= 0 && fr.attr < fr.el.NumAttribs() {
		name := fr.el.AttribName(fr.attr)
		if rest, ok := strings.CutPrefix(name, attrib.Name()); ok && rest != "" {
			idx, err := strconv.ParseUint(rest, 10, 32)
			if err == nil {
				if idx == 0 {
					return 0, errf("bad indexed attribute: %s", name)
				}
				fr.rd = fr.attr
				return attrib.ID() + uint32(idx) - 1, nil
			}
		}
	}
	for i := 0; i < fr.el.NumAttribs(); i++ {
		if fr.el.AttribName(i) == attrib.Name() {
			fr.rd = i
			return attrib.ID(), nil
		}
	}
	return IDUnknown, nil
}

// value returns the string the next Read call should parse: the
// indexed read target if one is primed, else the cursor attribute.
func (fr *xmlFrame) value() (string, error) {
	i := fr.rd
	if i >= 0 {
		fr.rd = -1
	} else {
		i = fr.attr
	}
	if i < 0 || i >= fr.el.NumAttribs() {
		return "", errf("no current attribute to read")
	}
	return fr.el.AttribValue(i), nil
}

// lookup resolves an attribute by name for the ID read forms,
// honoring the content pseudo-attribute.
func (fr *xmlFrame) lookup(attrib AttribID) (string, bool) {
	if attrib.ID() == AttrContent.ID() {
		return fr.el.Content(), true
	}
	return fr.el.AttribValueByName(attrib.Name())
}

// xmlReadBool accepts anything starting with 't', '1' or 'y' as true,
// for compatibility with older emitters.
func xmlReadBool(val string) bool {
	if len(val) == 0 {
		return false
	}
	return val[0] == 't' || val[0] == '1' || val[0] == 'y'
}

func parseSigned(val string) (int64, error) {
	res, err := strconv.ParseInt(val, 0, 64)
	if err != nil {
		return 0, errf("expecting signed integer attribute but got %q", val)
	}
	return res, nil
}

func parseUnsigned(val string) (uint64, error) {
	res, err := strconv.ParseUint(val, 0, 64)
	if err != nil {
		return 0, errf("expecting unsigned integer attribute but got %q", val)
	}
	return res, nil
}

// ReadBool reads the current attribute as a boolean.
func (d *XMLDecoder) ReadBool() (bool, error) {
	fr, err := d.top()
	if err != nil {
		return false, err
	}
	val, err := fr.value()
	if err != nil {
		return false, err
	}
	return xmlReadBool(val), nil
}

// ReadBoolID finds the given attribute and reads it as a boolean,
// returning false if the attribute is absent.
func (d *XMLDecoder) ReadBoolID(attrib AttribID) (bool, error) {
	fr, err := d.top()
	if err != nil {
		return false, err
	}
	val, ok := fr.lookup(attrib)
	if !ok {
		return false, nil
	}
	return xmlReadBool(val), nil
}

// ReadSignedInteger reads the current attribute as a signed integer.
// Decimal, 0x-prefixed hex and leading '-' forms are accepted.
func (d *XMLDecoder) ReadSignedInteger() (int64, error) {
	fr, err := d.top()
	if err != nil {
		return 0, err
	}
	val, err := fr.value()
	if err != nil {
		return 0, err
	}
	return parseSigned(val)
}

// ReadSignedIntegerID finds the given attribute and reads it as a
// signed integer, returning 0 if the attribute is absent.
func (d *XMLDecoder) ReadSignedIntegerID(attrib AttribID) (int64, error) {
	fr, err := d.top()
	if err != nil {
		return 0, err
	}
	val, ok := fr.lookup(attrib)
	if !ok {
		return 0, nil
	}
	return parseSigned(val)
}

// ReadSignedIntegerExpectString reads the current attribute as a
// signed integer, additionally accepting the exact string expect as
// an encoding of expectval.
func (d *XMLDecoder) ReadSignedIntegerExpectString(expect string, expectval int64) (int64, error) {
	fr, err := d.top()
	if err != nil {
		return 0, err
	}
	val, err := fr.value()
	if err != nil {
		return 0, err
	}
	if val == expect {
		return expectval, nil
	}
	return parseSigned(val)
}

// ReadSignedIntegerExpectStringID is the indexed form of
// ReadSignedIntegerExpectString, returning 0 if the attribute is
// absent.
func (d *XMLDecoder) ReadSignedIntegerExpectStringID(attrib AttribID, expect string, expectval int64) (int64, error) {
	fr, err := d.top()
	if err != nil {
		return 0, err
	}
	val, ok := fr.lookup(attrib)
	if !ok {
		return 0, nil
	}
	if val == expect {
		return expectval, nil
	}
	return parseSigned(val)
}

// ReadUnsignedInteger reads the current attribute as an unsigned
// integer.
func (d *XMLDecoder) ReadUnsignedInteger() (uint64, error) {
	fr, err := d.top()
	if err != nil {
		return 0, err
	}
	val, err := fr.value()
	if err != nil {
		return 0, err
	}
	return parseUnsigned(val)
}

// ReadUnsignedIntegerID finds the given attribute and reads it as an
// unsigned integer, returning 0 if the attribute is absent.
func (d *XMLDecoder) ReadUnsignedIntegerID(attrib AttribID) (uint64, error) {
	fr, err := d.top()
	if err != nil {
		return 0, err
	}
	val, ok := fr.lookup(attrib)
	if !ok {
		return 0, nil
	}
	return parseUnsigned(val)
}

// ReadString reads the current attribute as a string.
func (d *XMLDecoder) ReadString() (string, error) {
	fr, err := d.top()
	if err != nil {
		return "", err
	}
	return fr.value()
}

// ReadStringID finds the given attribute and reads it as a string,
// returning "" if the attribute is absent.
func (d *XMLDecoder) ReadStringID(attrib AttribID) (string, error) {
	fr, err := d.top()
	if err != nil {
		return "", err
	}
	val, ok := fr.lookup(attrib)
	if !ok {
		return "", nil
	}
	return val, nil
}

func (d *XMLDecoder) spaceByName(name string) (*space.AddrSpace, error) {
	spc := d.mgr.ByName(name)
	if spc == nil {
		return nil, errf("unknown address space name: %s", name)
	}
	return spc, nil
}

// ReadSpace reads the current attribute as an address space,
// resolving the name through the manager.
func (d *XMLDecoder) ReadSpace() (*space.AddrSpace, error) {
	fr, err := d.top()
	if err != nil {
		return nil, err
	}
	val, err := fr.value()
	if err != nil {
		return nil, err
	}
	return d.spaceByName(val)
}

// ReadSpaceID finds the given attribute and reads it as an address
// space, returning nil if the attribute is absent.
func (d *XMLDecoder) ReadSpaceID(attrib AttribID) (*space.AddrSpace, error) {
	fr, err := d.top()
	if err != nil {
		return nil, err
	}
	val, ok := fr.lookup(attrib)
	if !ok {
		return nil, nil
	}
	return d.spaceByName(val)
}
