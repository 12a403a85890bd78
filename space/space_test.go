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

package space

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAssignsDenseIndices(t *testing.T) {
	mgr := NewManager()
	ram := mgr.Register("ram")
	reg := mgr.Register("register")
	uniq := mgr.Register("unique")

	assert.Equal(t, 0, ram.Index())
	assert.Equal(t, 1, reg.Index())
	assert.Equal(t, 2, uniq.Index())
	assert.Equal(t, 3, mgr.NumSpaces())

	require.NotNil(t, mgr.ByIndex(1))
	assert.Equal(t, "register", mgr.ByIndex(1).Name())
	assert.Nil(t, mgr.ByIndex(3))
	assert.Nil(t, mgr.ByIndex(-1))
}

func TestByName(t *testing.T) {
	mgr := NewManager()
	mgr.Register("ram")
	mgr.RegisterSpecial("stack", Stack)

	require.NotNil(t, mgr.ByName("ram"))
	assert.Equal(t, Basic, mgr.ByName("ram").Kind())
	require.NotNil(t, mgr.ByName("stack"))
	assert.Equal(t, Stack, mgr.ByName("stack").Kind())
	assert.Nil(t, mgr.ByName("nowhere"))
}

func TestSpecialSpaces(t *testing.T) {
	mgr := NewManager()
	kinds := []Kind{Stack, Join, Fspec, Iop, Spacebase}
	for _, kind := range kinds {
		mgr.RegisterSpecial(kind.String(), kind)
	}
	for _, kind := range kinds {
		spc := mgr.Special(kind)
		require.NotNil(t, spc, kind.String())
		assert.Equal(t, kind, spc.Kind())
		assert.Equal(t, -1, spc.Index())
	}
	assert.Nil(t, mgr.Special(Basic))

	empty := NewManager()
	assert.Nil(t, empty.Special(Join))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "basic", Basic.String())
	assert.Equal(t, "spacebase", Spacebase.String())
	assert.Equal(t, "invalid", Kind(99).String())
}
