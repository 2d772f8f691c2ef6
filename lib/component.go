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

import (
	"math"
)

// CableComponent couples one conductor group with its surrounding
// insulation. On construction the effective homogeneous materials of
// both regions are derived, so that a single Tubular/Insulator pair
// with the same radii reproduces the component's R, L, C and G at
// the reference frequency. Both groups are frozen on embedding.
type CableComponent struct {
	ID   string
	Cond *ConductorGroup
	Ins  *InsulatorGroup

	// effective homogeneous materials
	EffCond Material
	EffIns  Material
}

// NewCableComponent builds a component from a conductor and an
// insulator group. The insulation must start at the conductor
// surface.
func NewCableComponent(id string, cg *ConductorGroup, ig *InsulatorGroup) (*CableComponent, error) {
	if len(id) == 0 {
		return nil, newErr(ErrInvalidValue, "empty component id")
	}
	if cg == nil || ig == nil {
		return nil, newErr(ErrInvalidValue, "component needs both groups").AtComponent(id)
	}
	if math.Abs(ig.RadiusIn().Float()-cg.RadiusExt().Float()) > Tol {
		return nil, newErr(ErrInvalidGeometry,
			"insulation radius_in %g does not continue conductor radius_ext %g",
			ig.RadiusIn().Float(), cg.RadiusExt().Float()).AtComponent(id)
	}

	comp := &CableComponent{ID: id, Cond: cg, Ins: ig}
	if err := comp.effectiveConductor(); err != nil {
		return nil, err
	}
	if err := comp.effectiveInsulator(); err != nil {
		return nil, err
	}
	cg.freeze()
	ig.freeze()
	return comp, nil
}

// effectiveConductor derives the homogeneous conductor material
func (comp *CableComponent) effectiveConductor() error {
	cg := comp.Cond
	mur, err := EquivMu(cg.Gmr(), cg.RadiusExt(), cg.RadiusIn())
	if err != nil {
		return err
	}
	comp.EffCond = Material{
		Rho:   EquivRho(cg.Resistance(), cg.RadiusExt(), cg.RadiusIn()),
		Epsr:  V(0),
		Mur:   mur,
		T0:    cg.Layers()[0].Material().T0,
		Alpha: cg.Alpha(),
	}
	return nil
}

// effectiveInsulator derives the homogeneous insulation material.
// The permeability of the outermost dielectric layer is scaled by
// the solenoid correction against the adjacent helical conductor
// layer (neutral for straight conductors).
func (comp *CableComponent) effectiveInsulator() error {
	cg, ig := comp.Cond, comp.Ins
	outer := ig.Layers()[len(ig.Layers())-1]
	lastCond := cg.Layers()[len(cg.Layers())-1]
	sol := SolenoidCorrection(turnsPerMetre(lastCond), cg.RadiusExt(), ig.RadiusExt())
	comp.EffIns = Material{
		Rho:   EquivInsRho(ig.ShuntConductance(), ig.RadiusExt(), ig.RadiusIn()),
		Epsr:  EquivEpsr(ig.ShuntCapacitance(), ig.RadiusExt(), ig.RadiusIn()),
		Mur:   outer.Material().Mur.Mul(sol),
		T0:    outer.Material().T0,
		Alpha: outer.Material().Alpha,
	}
	return nil
}

// RadiusIn is the inner radius of the component (m)
func (comp *CableComponent) RadiusIn() Value {
	return comp.Cond.RadiusIn()
}

// RadiusExt is the outer radius of the component including
// insulation (m)
func (comp *CableComponent) RadiusExt() Value {
	return comp.Ins.RadiusExt()
}

// LossFactor is tan δ of the insulation at angular frequency ω
func (comp *CableComponent) LossFactor(omega Value) Value {
	return LossTangent(comp.Ins.ShuntConductance(), comp.Ins.ShuntCapacitance(), omega)
}
