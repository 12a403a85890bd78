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

// Package space models the address spaces referenced by marshaled
// records.
//
// A basic space is addressed on the wire by its dense index in the
// manager's table. A handful of spaces have no stable index and are
// instead identified by kind: the stack, join, fspec, iop and
// spacebase spaces.
package space

// Kind classifies an address space for marshaling purposes.
type Kind int

const (
	// Basic spaces are encoded by table index.
	Basic Kind = iota
	Stack
	Join
	Fspec
	Iop
	Spacebase
)

func (k Kind) String() string {
	switch k {
	case Basic:
		return "basic"
	case Stack:
		return "stack"
	case Join:
		return "join"
	case Fspec:
		return "fspec"
	case Iop:
		return "iop"
	case Spacebase:
		return "spacebase"
	}
	return "invalid"
}

// AddrSpace is a handle to a single address space. Handles are created
// by a Manager and live as long as the manager; decoders only ever
// borrow them.
type AddrSpace struct {
	name  string
	kind  Kind
	index int // position in the manager's table; -1 for special spaces
}

// Name returns the name of the space.
func (s *AddrSpace) Name() string { return s.name }

// Kind returns the marshaling classification of the space.
func (s *AddrSpace) Kind() Kind { return s.kind }

// Index returns the space's position in the manager's table,
// or -1 for special spaces.
func (s *AddrSpace) Index() int { return s.index }

// Manager owns the address space table for one program and resolves
// the index and name lookups the decoders need. Registration happens
// up front; the manager is read-only while decoding runs.
type Manager struct {
	table   []*AddrSpace
	byName  map[string]*AddrSpace
	special map[Kind]*AddrSpace
}

// NewManager returns an empty manager.
func NewManager() *Manager {
	return &Manager{
		byName:  make(map[string]*AddrSpace),
		special: make(map[Kind]*AddrSpace),
	}
}

// Register adds a basic space with the given name and returns its
// handle. The space is assigned the next free table index.
func (m *Manager) Register(name string) *AddrSpace {
	spc := &AddrSpace{name: name, kind: Basic, index: len(m.table)}
	m.table = append(m.table, spc)
	m.byName[name] = spc
	return spc
}

// RegisterSpecial adds a special space of the given kind. Registering
// the same kind twice replaces the previous handle.
func (m *Manager) RegisterSpecial(name string, kind Kind) *AddrSpace {
	spc := &AddrSpace{name: name, kind: kind, index: -1}
	m.byName[name] = spc
	m.special[kind] = spc
	return spc
}

// ByIndex returns the basic space at the given table index, or nil if
// the index is out of range.
func (m *Manager) ByIndex(i int) *AddrSpace {
	if i < 0 || i >= len(m.table) {
		return nil
	}
	return m.table[i]
}

// ByName returns the space with the given name, or nil.
func (m *Manager) ByName(name string) *AddrSpace {
	return m.byName[name]
}

// Special returns the space registered for the given special kind,
// or nil. Basic is not a special kind and always returns nil.
func (m *Manager) Special(kind Kind) *AddrSpace {
	if kind == Basic {
		return nil
	}
	return m.special[kind]
}

// NumSpaces returns the number of basic spaces in the table.
func (m *Manager) NumSpaces() int { return len(m.table) }
