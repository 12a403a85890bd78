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
	"bytes"
	"strings"
	"testing"

	"github.com/BlueSkeye/SLA/space"
	"github.com/BlueSkeye/SLA/xmltree"
)

func xmlDecoderFor(t *testing.T, doc string) *XMLDecoder {
	t.Helper()
	dec := NewXMLDecoder(testManager())
	if err := dec.Ingest(strings.NewReader(doc)); err != nil {
		t.Fatalf("ingest: %s", err)
	}
	return dec
}

func TestXMLEncodeOutput(t *testing.T) {
	mgr := testManager()
	var buf bytes.Buffer
	enc := NewXMLEncoder(&buf)
	enc.OpenElement(ElemAddr)
	enc.WriteSpace(AttrSpace, mgr.ByName("ram"))
	enc.WriteUnsignedInteger(AttrOffset, 0x10)
	enc.WriteSignedInteger(AttrVal, -5)
	enc.WriteBool(AttrBigendian, false)
	enc.CloseElement(ElemAddr)
	want := `<addr space="ram" offset="0x10" val="-5" bigendian="false"/>`
	if buf.String() != want {
		t.Fatalf("got %s, want %s", buf.String(), want)
	}
}

func TestXMLEncodeNested(t *testing.T) {
	var buf bytes.Buffer
	enc := NewXMLEncoder(&buf)
	enc.OpenElement(ElemData)
	enc.WriteString(AttrName, `a<b>&"c"`)
	enc.OpenElement(ElemVoid)
	enc.CloseElement(ElemVoid)
	enc.CloseElement(ElemData)
	want := `<data name="a&lt;b&gt;&amp;&#34;c&#34;"><void/></data>`
	if buf.String() != want {
		t.Fatalf("got %s, want %s", buf.String(), want)
	}
}

func TestXMLContent(t *testing.T) {
	var buf bytes.Buffer
	enc := NewXMLEncoder(&buf)
	enc.OpenElement(ElemComment)
	enc.WriteString(AttrName, "fn")
	enc.WriteString(AttrContent, "a & b")
	enc.CloseElement(ElemComment)
	want := `<comment name="fn">a &amp; b</comment>`
	if buf.String() != want {
		t.Fatalf("got %s, want %s", buf.String(), want)
	}

	dec := xmlDecoderFor(t, buf.String())
	if err := dec.OpenElementID(ElemComment); err != nil {
		t.Fatal(err)
	}
	if s, err := dec.ReadStringID(AttrContent); err != nil || s != "a & b" {
		t.Fatalf("content: %q err=%v", s, err)
	}
	// The content is not part of attribute iteration.
	if id, _ := dec.NextAttributeID(); id != AttrName.ID() {
		t.Fatalf("first attribute id %d", id)
	}
	if id, _ := dec.NextAttributeID(); id != 0 {
		t.Fatalf("iteration returned content: id %d", id)
	}
}

func TestXMLReadBoolForms(t *testing.T) {
	dec := xmlDecoderFor(t,
		`<data bigendian="true" readonly="1" namelock="yes" typelock="false"/>`)
	dec.OpenElement()
	cases := []struct {
		attrib AttribID
		want   bool
	}{
		{AttrBigendian, true},
		{AttrReadonly, true},
		{AttrNamelock, true},
		{AttrTypelock, false},
	}
	for _, tc := range cases {
		got, err := dec.ReadBoolID(tc.attrib)
		if err != nil || got != tc.want {
			t.Errorf("%s: got %v err=%v", tc.attrib.Name(), got, err)
		}
	}
}

func TestXMLIntegerRadix(t *testing.T) {
	dec := xmlDecoderFor(t, `<data offset="0x2a" val="-16" index="42"/>`)
	dec.OpenElement()
	if u, err := dec.ReadUnsignedIntegerID(AttrOffset); err != nil || u != 42 {
		t.Fatalf("hex unsigned: %d err=%v", u, err)
	}
	if v, err := dec.ReadSignedIntegerID(AttrVal); err != nil || v != -16 {
		t.Fatalf("signed: %d err=%v", v, err)
	}
	if u, err := dec.ReadUnsignedIntegerID(AttrIndex); err != nil || u != 42 {
		t.Fatalf("decimal unsigned: %d err=%v", u, err)
	}
}

func TestXMLTypeMismatch(t *testing.T) {
	dec := xmlDecoderFor(t, `<data offset="ramble"/>`)
	dec.OpenElement()
	_, err := dec.ReadUnsignedIntegerID(AttrOffset)
	wantDecoderError(t, err)
}

func TestXMLMissingAttributeDefaults(t *testing.T) {
	dec := xmlDecoderFor(t, `<data index="1"/>`)
	dec.OpenElement()
	if s, err := dec.ReadStringID(AttrName); err != nil || s != "" {
		t.Fatalf("string default: %q err=%v", s, err)
	}
	if b, err := dec.ReadBoolID(AttrBigendian); err != nil || b != false {
		t.Fatalf("bool default: %v err=%v", b, err)
	}
	if spc, err := dec.ReadSpaceID(AttrSpace); err != nil || spc != nil {
		t.Fatalf("space default: %v err=%v", spc, err)
	}
}

func TestXMLOpenElementIDMismatch(t *testing.T) {
	dec := xmlDecoderFor(t, `<data/>`)
	wantDecoderError(t, dec.OpenElementID(ElemInput))
}

func TestXMLCloseWithUnreadChildren(t *testing.T) {
	dec := xmlDecoderFor(t, `<data><void/></data>`)
	dec.OpenElement()
	wantDecoderError(t, dec.CloseElement(ElemData.ID()))
	if err := dec.CloseElementSkipping(ElemData.ID()); err != nil {
		t.Fatal(err)
	}
}

func TestXMLReadSpaceByName(t *testing.T) {
	dec := xmlDecoderFor(t, `<data space="register"/>`)
	dec.OpenElement()
	spc, err := dec.ReadSpaceID(AttrSpace)
	if err != nil || spc.Kind() != space.Basic || spc.Name() != "register" {
		t.Fatalf("space: %v err=%v", spc, err)
	}

	dec = xmlDecoderFor(t, `<data space="join"/>`)
	dec.OpenElement()
	spc, err = dec.ReadSpaceID(AttrSpace)
	if err != nil || spc.Kind() != space.Join {
		t.Fatalf("special space: %v err=%v", spc, err)
	}

	dec = xmlDecoderFor(t, `<data space="nowhere"/>`)
	dec.OpenElement()
	_, err = dec.ReadSpaceID(AttrSpace)
	wantDecoderError(t, err)
}

func TestXMLIndexedAttribute(t *testing.T) {
	var buf bytes.Buffer
	enc := NewXMLEncoder(&buf)
	enc.OpenElement(ElemData)
	enc.WriteStringIndexed(AttrPiece, 0, "low")
	enc.WriteStringIndexed(AttrPiece, 1, "high")
	enc.CloseElement(ElemData)
	want := `<data piece1="low" piece2="high"/>`
	if buf.String() != want {
		t.Fatalf("got %s, want %s", buf.String(), want)
	}

	dec := xmlDecoderFor(t, buf.String())
	dec.OpenElement()
	for i, wantVal := range []string{"low", "high"} {
		// The indexed names are not registered, so the cursor
		// reports IDUnknown; reinterpreting against the base
		// attribute recovers the indexed id.
		if id, err := dec.NextAttributeID(); err != nil || id != IDUnknown {
			t.Fatalf("cursor %d: id=%d err=%v", i, id, err)
		}
		id, err := dec.IndexedAttributeID(AttrPiece)
		if err != nil {
			t.Fatal(err)
		}
		if id != AttrPiece.ID()+uint32(i) {
			t.Fatalf("indexed id %d, want %d", id, AttrPiece.ID()+uint32(i))
		}
		if v, err := dec.ReadString(); err != nil || v != wantVal {
			t.Fatalf("piece %d: %q err=%v", i+1, v, err)
		}
	}
}

func TestXMLRewindAttributes(t *testing.T) {
	dec := xmlDecoderFor(t, `<data index="1" val="2"/>`)
	dec.OpenElement()
	for pass := 0; pass < 2; pass++ {
		if id, _ := dec.NextAttributeID(); id != AttrIndex.ID() {
			t.Fatalf("pass %d: first id %d", pass, id)
		}
		if id, _ := dec.NextAttributeID(); id != AttrVal.ID() {
			t.Fatalf("pass %d: second id %d", pass, id)
		}
		if id, _ := dec.NextAttributeID(); id != 0 {
			t.Fatalf("pass %d: expected end", pass)
		}
		dec.RewindAttributes()
	}
}

func TestXMLPreparsedRoot(t *testing.T) {
	doc, err := xmltree.Parse(strings.NewReader(`<data><addr space="ram" offset="4"/></data>`))
	if err != nil {
		t.Fatal(err)
	}
	dec := NewXMLDecoderRoot(testManager(), doc.Root())
	if err := dec.OpenElementID(ElemData); err != nil {
		t.Fatal(err)
	}
	if err := dec.OpenElementID(ElemAddr); err != nil {
		t.Fatal(err)
	}
	if u, err := dec.ReadUnsignedIntegerID(AttrOffset); err != nil || u != 4 {
		t.Fatalf("offset: %d err=%v", u, err)
	}
	if err := dec.CloseElement(ElemAddr.ID()); err != nil {
		t.Fatal(err)
	}
	if err := dec.CloseElement(ElemData.ID()); err != nil {
		t.Fatal(err)
	}
	// The document is exhausted.
	if id, err := dec.OpenElement(); err != nil || id != 0 {
		t.Fatalf("reopen after end: id=%d err=%v", id, err)
	}
}
