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

// Package marshal moves structured, tree-shaped records between the
// driver process and the decompiler engine.
//
// A document is a nested set of elements. Each element is labeled by
// an ElemID, holds zero or more attributes labeled by AttribID, and
// zero or more child elements. Two interchangeable encodings exist:
// a packed byte form used in production and an XML form used for
// diagnostics. Both are driven through the Decoder and Encoder
// interfaces so callers never depend on the encoding.
//
// Decoders are pull-based: ingest the stream once, then walk the
// tree depth first with OpenElement/CloseElement, iterating
// attributes with NextAttributeID and extracting values with the
// Read methods. Encoders are push-based: emit a balanced sequence of
// OpenElement, Write calls and CloseElement.
//
// A decoder or encoder is used by one goroutine at a time. After any
// DecoderError the decoder is poisoned and must be discarded.
package marshal

import (
	"fmt"
	"io"

	"github.com/BlueSkeye/SLA/space"
)

// DecoderError is the single error kind reported for malformed or
// unexpected input. Decoding never recovers locally from one.
type DecoderError struct {
	Msg string
}

func (e *DecoderError) Error() string { return e.Msg }

// errf builds a DecoderError with a formatted message.
func errf(format string, args ...any) error {
	return &DecoderError{Msg: fmt.Sprintf(format, args...)}
}

var errUnexpectedEnd = &DecoderError{Msg: "unexpected end of stream"}

// Decoder reads structured data from one ingested stream.
//
// The Read methods with an ID suffix look the attribute up by id
// within the current element, leaving the attribute iteration cursor
// undisturbed. A missing attribute is not an error: they return the
// type's zero value (false, 0, "", nil space).
type Decoder interface {
	// Ingest consumes the input to completion. It must be called
	// once, before any other method.
	Ingest(r io.Reader) error

	// PeekElement returns the id of the next child of the current
	// element without opening it, or 0 if there is none.
	PeekElement() (uint32, error)
	// OpenElement opens the next child of the current element and
	// returns its id, or 0 if there is none.
	OpenElement() (uint32, error)
	// OpenElementID opens the next child, which must have the given
	// id.
	OpenElementID(elem ElemID) error
	// CloseElement closes the current element, which must have the
	// given id and no unvisited children.
	CloseElement(id uint32) error
	// CloseElementSkipping closes the current element, discarding
	// any children that have not been visited.
	CloseElementSkipping(id uint32) error

	// NextAttributeID advances the attribute cursor and returns the
	// next attribute's id, or 0 after the last attribute.
	NextAttributeID() (uint32, error)
	// IndexedAttributeID looks up the given attribute within the
	// current element. It returns the attribute's id and primes the
	// next Read call to consume its value, or IDUnknown if the
	// element has no such attribute. The iteration cursor is
	// unaffected.
	IndexedAttributeID(attrib AttribID) (uint32, error)
	// RewindAttributes resets the attribute cursor so the element's
	// attributes can be traversed again.
	RewindAttributes()

	ReadBool() (bool, error)
	ReadBoolID(attrib AttribID) (bool, error)
	ReadSignedInteger() (int64, error)
	ReadSignedIntegerID(attrib AttribID) (int64, error)
	// ReadSignedIntegerExpectString reads the current attribute as a
	// signed integer, additionally accepting the string expect as a
	// stand-in for expectval.
	ReadSignedIntegerExpectString(expect string, expectval int64) (int64, error)
	ReadSignedIntegerExpectStringID(attrib AttribID, expect string, expectval int64) (int64, error)
	ReadUnsignedInteger() (uint64, error)
	ReadUnsignedIntegerID(attrib AttribID) (uint64, error)
	ReadString() (string, error)
	ReadStringID(attrib AttribID) (string, error)
	ReadSpace() (*space.AddrSpace, error)
	ReadSpaceID(attrib AttribID) (*space.AddrSpace, error)
}

// Encoder writes structured data to a sink. Callers must emit a
// well-balanced open/close sequence; all attributes of an element
// must be written before its first child is opened. Sink errors are
// returned unchanged.
type Encoder interface {
	OpenElement(elem ElemID) error
	CloseElement(elem ElemID) error
	WriteBool(attrib AttribID, val bool) error
	WriteSignedInteger(attrib AttribID, val int64) error
	WriteUnsignedInteger(attrib AttribID, val uint64) error
	WriteString(attrib AttribID, val string) error
	// WriteStringIndexed writes one of a run of same-named string
	// attributes, distinguished by index. The packed form encodes
	// attribute id attrib+index; the XML form suffixes the attribute
	// name with index+1.
	WriteStringIndexed(attrib AttribID, index uint32, val string) error
	WriteSpace(attrib AttribID, spc *space.AddrSpace) error
}

// SkipElement opens the next child element and discards it along
// with everything it contains.
func SkipElement(dec Decoder) error {
	id, err := dec.OpenElement()
	if err != nil {
		return err
	}
	return dec.CloseElementSkipping(id)
}
