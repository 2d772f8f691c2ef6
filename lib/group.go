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

// turnsPerMetre of a conductor layer (0 for straight lays)
func turnsPerMetre(c Conductor) Value {
	p := c.PitchLength()
	if IsNull(p.Float()) || p.IsNaN() {
		return V(0)
	}
	return V(1).Div(p)
}

//----------------------------------------------------------------------
// ConductorGroup
//----------------------------------------------------------------------

// ConductorGroup is an ordered, non-empty stack of conductor layers
// sharing a common axis. Aggregates are maintained incrementally on
// every Add; once the group is embedded in a CableComponent it is
// frozen and rejects further mutation.
type ConductorGroup struct {
	layers []Conductor
	frozen bool

	radiusIn  Value
	radiusExt Value
	cross     Value
	resist    Value
	gmr       Value
	alpha     Value
	numWires  Value // mass-weighted mean over layers
	numTurns  Value // mass-weighted turns per metre
}

// NewConductorGroup starts a group with its innermost layer
func NewConductorGroup(first Conductor) (*ConductorGroup, error) {
	if first == nil {
		return nil, newErr(ErrInvalidValue, "empty conductor group")
	}
	return &ConductorGroup{
		layers:    []Conductor{first},
		radiusIn:  first.RadiusIn(),
		radiusExt: first.RadiusExt(),
		cross:     first.CrossSection(),
		resist:    first.Resistance(),
		gmr:       first.Gmr(),
		alpha:     first.Material().Alpha,
		numWires:  V(float64(first.NumWires())),
		numTurns:  turnsPerMetre(first),
	}, nil
}

// Add the next (outward) layer to the group
func (g *ConductorGroup) Add(c Conductor) error {
	if g.frozen {
		return newErr(ErrInvalidValue, "conductor group is frozen")
	}
	if math.Abs(c.RadiusIn().Float()-g.radiusExt.Float()) > Tol {
		return newErr(ErrInvalidGeometry,
			"layer radius_in %g does not continue group radius_ext %g",
			c.RadiusIn().Float(), g.radiusExt.Float()).AtLayer(len(g.layers))
	}

	// combine GMR against the last layer of the existing stack
	last := g.layers[len(g.layers)-1]
	gmd := Gmd(last.subElements(), c.subElements(), last.RadiusExt(), c.RadiusExt())
	g.gmr = EquivGmr(g.gmr, g.cross, c.Gmr(), c.CrossSection(), gmd)

	// temperature coefficient before the resistances collapse
	g.alpha = AlphaWeighted(g.alpha, g.resist, c.Material().Alpha, c.Resistance())
	g.resist = ParallelValue(g.resist, c.Resistance())

	// mass-weighted wire count and turns per metre
	sNew := c.CrossSection()
	sTot := g.cross.Add(sNew)
	g.numWires = g.cross.Mul(g.numWires).
		Add(sNew.Scale(float64(c.NumWires()))).Div(sTot)
	g.numTurns = g.cross.Mul(g.numTurns).
		Add(sNew.Mul(turnsPerMetre(c))).Div(sTot)

	g.cross = sTot
	g.radiusExt = g.radiusExt.Add(c.RadiusExt().Sub(c.RadiusIn()))
	g.layers = append(g.layers, c)
	return nil
}

func (g *ConductorGroup) RadiusIn() Value     { return g.radiusIn }
func (g *ConductorGroup) RadiusExt() Value    { return g.radiusExt }
func (g *ConductorGroup) CrossSection() Value { return g.cross }
func (g *ConductorGroup) Resistance() Value   { return g.resist }
func (g *ConductorGroup) Gmr() Value          { return g.gmr }
func (g *ConductorGroup) Alpha() Value        { return g.alpha }

// NumWires is the mass-weighted mean wire count over the layers
func (g *ConductorGroup) NumWires() Value { return g.numWires }

// NumTurns is the mass-weighted mean of the per-layer turns per
// metre (1/pitch, 0 for straight layers).
func (g *ConductorGroup) NumTurns() Value { return g.numTurns }

// Layers returns the ordered layer list (innermost first)
func (g *ConductorGroup) Layers() []Conductor { return g.layers }

// Len returns the number of layers
func (g *ConductorGroup) Len() int { return len(g.layers) }

// Frozen reports whether the group is embedded in a component
func (g *ConductorGroup) Frozen() bool { return g.frozen }

func (g *ConductorGroup) freeze() { g.frozen = true }

//----------------------------------------------------------------------
// InsulatorGroup
//----------------------------------------------------------------------

// InsulatorGroup is an ordered stack of dielectric layers. The group
// admittance is the series equivalent of the per-layer shunt
// admittances evaluated at the reference frequency F_0.
type InsulatorGroup struct {
	layers []Dielectric
	frozen bool

	radiusIn  Value
	radiusExt Value
	cross     Value
	yeq       Complex
}

// layerAdmittance at the reference frequency
func layerAdmittance(d Dielectric) Complex {
	return Cx(d.ShuntConductance(), d.ShuntCapacitance().Scale(CircAng*F_0))
}

// NewInsulatorGroup starts a group with its innermost layer
func NewInsulatorGroup(first Dielectric) (*InsulatorGroup, error) {
	if first == nil {
		return nil, newErr(ErrInvalidValue, "empty insulator group")
	}
	return &InsulatorGroup{
		layers:    []Dielectric{first},
		radiusIn:  first.RadiusIn(),
		radiusExt: first.RadiusExt(),
		cross:     first.CrossSection(),
		yeq:       layerAdmittance(first),
	}, nil
}

// Add the next (outward) dielectric layer to the group
func (g *InsulatorGroup) Add(d Dielectric) error {
	if g.frozen {
		return newErr(ErrInvalidValue, "insulator group is frozen")
	}
	if math.Abs(d.RadiusIn().Float()-g.radiusExt.Float()) > Tol {
		return newErr(ErrInvalidGeometry,
			"layer radius_in %g does not continue group radius_ext %g",
			d.RadiusIn().Float(), g.radiusExt.Float()).AtLayer(len(g.layers))
	}
	g.yeq = ParallelComplex(g.yeq, layerAdmittance(d))
	g.cross = g.cross.Add(d.CrossSection())
	g.radiusExt = g.radiusExt.Add(d.RadiusExt().Sub(d.RadiusIn()))
	g.layers = append(g.layers, d)
	return nil
}

func (g *InsulatorGroup) RadiusIn() Value     { return g.radiusIn }
func (g *InsulatorGroup) RadiusExt() Value    { return g.radiusExt }
func (g *InsulatorGroup) CrossSection() Value { return g.cross }

// ShuntCapacitance extracted from the group admittance at F_0
func (g *InsulatorGroup) ShuntCapacitance() Value {
	return g.yeq.Im.Scale(1 / (CircAng * F_0))
}

// ShuntConductance extracted from the group admittance at F_0
func (g *InsulatorGroup) ShuntConductance() Value {
	return g.yeq.Re
}

// Layers returns the ordered layer list (innermost first)
func (g *InsulatorGroup) Layers() []Dielectric { return g.layers }

// Len returns the number of layers
func (g *InsulatorGroup) Len() int { return len(g.layers) }

// Frozen reports whether the group is embedded in a component
func (g *InsulatorGroup) Frozen() bool { return g.frozen }

func (g *InsulatorGroup) freeze() { g.frozen = true }
