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
	"testing"

	"golang.org/x/exp/maps"
)

func TestRegistryLookups(t *testing.T) {
	Initialize()
	// Repeated initialization must not disturb the tables.
	before := maps.Clone(attribByName)
	Initialize()
	if len(attribByName) != len(before) {
		t.Fatalf("reinitialization changed the table: %d -> %d", len(before), len(attribByName))
	}

	if got := FindAttrib("align"); got != AttrAlign.ID() {
		t.Errorf(`FindAttrib("align") = %d`, got)
	}
	if got := FindElem("varnode"); got != ElemVarnode.ID() {
		t.Errorf(`FindElem("varnode") = %d`, got)
	}
	if got := FindAttrib("no_such_attribute"); got != IDUnknown {
		t.Errorf("unknown attribute name resolved to %d", got)
	}
	if got := FindElem("no_such_element"); got != IDUnknown {
		t.Errorf("unknown element name resolved to %d", got)
	}
}

func TestRegistryReverseLookups(t *testing.T) {
	Initialize()
	a, ok := LookupAttrib(AttrOffset.ID())
	if !ok || a.Name() != "offset" {
		t.Fatalf("LookupAttrib(%d) = %q, %v", AttrOffset.ID(), a.Name(), ok)
	}
	e, ok := LookupElem(ElemData.ID())
	if !ok || e.Name() != "data" {
		t.Fatalf("LookupElem(%d) = %q, %v", ElemData.ID(), e.Name(), ok)
	}
	if _, ok := LookupAttrib(9999); ok {
		t.Fatal("unregistered attribute id resolved")
	}
}

func TestNoIdentifierUsesUnknownID(t *testing.T) {
	for _, a := range attribList {
		if a.ID() == IDUnknown {
			t.Errorf("attribute %q registered with the reserved id 0", a.Name())
		}
	}
	for _, e := range elemList {
		if e.ID() == IDUnknown {
			t.Errorf("element %q registered with the reserved id 0", e.Name())
		}
	}
}
