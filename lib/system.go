//----------------------------------------------------------------------
// This file is part of linecable.
// Copyright (C) 2024-present The linecable developers
//
// linecable is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// linecable is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

package lib

// CablePosition places a cable design in the 2D cross-section plane
// and maps its components to system phases. Phase 0 marks a grounded
// conductor that is eliminated during reduction; positive indices
// select the energized phase.
type CablePosition struct {
	Design *CableDesign
	Horz   Value // x coordinate of the cable axis (m)
	Vert   Value // y coordinate; negative = below ground (m)

	// phase index per component id
	PhaseMap map[string]int
}

// NewCablePosition validates the phase mapping against the design
func NewCablePosition(d *CableDesign, horz, vert Value, phases map[string]int) (*CablePosition, error) {
	if d == nil {
		return nil, newErr(ErrInvalidValue, "nil cable design")
	}
	for _, comp := range d.Components {
		p, ok := phases[comp.ID]
		if !ok {
			return nil, newErr(ErrInvalidInput,
				"no phase mapping for component '%s'", comp.ID).AtComponent(comp.ID)
		}
		if p < 0 {
			return nil, newErr(ErrInvalidInput,
				"negative phase index %d", p).AtComponent(comp.ID)
		}
	}
	if len(phases) != len(d.Components) {
		return nil, newErr(ErrInvalidInput,
			"phase map names %d components, design has %d",
			len(phases), len(d.Components))
	}
	return &CablePosition{
		Design:   d,
		Horz:     horz,
		Vert:     vert,
		PhaseMap: phases,
	}, nil
}

// Phase index of a component
func (cp *CablePosition) Phase(componentID string) int {
	return cp.PhaseMap[componentID]
}

// RadiusExt is the overall outer radius of the placed cable (m)
func (cp *CablePosition) RadiusExt() Value {
	return cp.Design.RadiusExt()
}

//----------------------------------------------------------------------

// LineCableSystem is a set of cable positions forming one
// multi-conductor line.
type LineCableSystem struct {
	SystemID   string
	LineLength Value // route length (m); reporting-only in the core
	Cables     []*CablePosition
}

// NewLineCableSystem starts a system with its first cable position
func NewLineCableSystem(systemID string, lineLength Value, first *CablePosition) (*LineCableSystem, error) {
	if len(systemID) == 0 {
		return nil, newErr(ErrInvalidValue, "empty system id")
	}
	if first == nil {
		return nil, newErr(ErrInvalidValue, "system needs at least one cable")
	}
	return &LineCableSystem{
		SystemID:   systemID,
		LineLength: lineLength,
		Cables:     []*CablePosition{first},
	}, nil
}

// AddCable places another design in the system
func (sys *LineCableSystem) AddCable(d *CableDesign, horz, vert Value, phases map[string]int) error {
	pos, err := NewCablePosition(d, horz, vert, phases)
	if err != nil {
		return err
	}
	sys.Cables = append(sys.Cables, pos)
	return nil
}

// NumCables in the system
func (sys *LineCableSystem) NumCables() int {
	return len(sys.Cables)
}

// NumPhases is the highest positive phase index in use
func (sys *LineCableSystem) NumPhases() (n int) {
	for _, pos := range sys.Cables {
		for _, p := range pos.PhaseMap {
			if p > n {
				n = p
			}
		}
	}
	return
}

// NumConductors is the total component count over all cables
func (sys *LineCableSystem) NumConductors() (n int) {
	for _, pos := range sys.Cables {
		n += pos.Design.Len()
	}
	return
}
