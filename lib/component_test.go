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
	"testing"
)

// insulation stack: semicon / XLPE / semicon
func buildInsStack(t *testing.T, rin Value) *InsulatorGroup {
	t.Helper()
	sc1 := Material{Rho: V(1000), Epsr: V(1000), Mur: V(1), T0: V(20), Alpha: V(0)}
	xlpe := Material{Rho: V(1.97e14), Epsr: V(2.3), Mur: V(1), T0: V(20), Alpha: V(0)}
	sc2 := Material{Rho: V(500), Epsr: V(1000), Mur: V(1), T0: V(20), Alpha: V(0)}

	s1, err := NewSemicon(rin, Thickness(V(0.0008)), sc1, V(20))
	if err != nil {
		t.Fatal(err)
	}
	g, err := NewInsulatorGroup(s1)
	if err != nil {
		t.Fatal(err)
	}
	xl, err := NewInsulator(g.RadiusExt(), Thickness(V(0.0055)), xlpe, V(20))
	if err != nil {
		t.Fatal(err)
	}
	if err = g.Add(xl); err != nil {
		t.Fatal(err)
	}
	s2, err := NewSemicon(g.RadiusExt(), Thickness(V(0.0008)), sc2, V(20))
	if err != nil {
		t.Fatal(err)
	}
	if err = g.Add(s2); err != nil {
		t.Fatal(err)
	}
	return g
}

// rebuild a component as a single Tubular/Insulator pair from its
// effective materials and compare the base parameters
func TestEffectiveRoundTrip(t *testing.T) {
	cg := buildCore(t)
	ig := buildInsStack(t, cg.RadiusExt())
	comp, err := NewCableComponent("core", cg, ig)
	if err != nil {
		t.Fatal(err)
	}

	// homogeneous conductor over the same radii
	tub, err := NewTubular(cg.RadiusIn(), Radius(cg.RadiusExt()), comp.EffCond, V(20))
	if err != nil {
		t.Fatal(err)
	}
	relR := math.Abs(tub.Resistance().Float()-cg.Resistance().Float()) / cg.Resistance().Float()
	if relR > 1e-6 {
		t.Errorf("R round trip off by %g", relR)
	}
	relG := math.Abs(tub.Gmr().Float()-cg.Gmr().Float()) / cg.Gmr().Float()
	if relG > 1e-6 {
		t.Errorf("GMR (inductance) round trip off by %g", relG)
	}

	// homogeneous insulation over the same radii
	ins, err := NewInsulator(ig.RadiusIn(), Radius(ig.RadiusExt()), comp.EffIns, V(20))
	if err != nil {
		t.Fatal(err)
	}
	relC := math.Abs(ins.ShuntCapacitance().Float()-ig.ShuntCapacitance().Float()) /
		ig.ShuntCapacitance().Float()
	if relC > 1e-6 {
		t.Errorf("C round trip off by %g", relC)
	}
	relGs := math.Abs(ins.ShuntConductance().Float()-ig.ShuntConductance().Float()) /
		ig.ShuntConductance().Float()
	if relGs > 1e-6 {
		t.Errorf("G round trip off by %g", relGs)
	}
}

func TestEffectiveConductorMaterial(t *testing.T) {
	cg := buildCore(t)
	ig := buildInsStack(t, cg.RadiusExt())
	comp, err := NewCableComponent("core", cg, ig)
	if err != nil {
		t.Fatal(err)
	}
	// ρ_eff reproduces the group resistance over the annulus
	r2, r1 := cg.RadiusExt().Float(), cg.RadiusIn().Float()
	wantRho := cg.Resistance().Float() * math.Pi * (Sqr(r2) - Sqr(r1))
	if d := math.Abs(comp.EffCond.Rho.Float()-wantRho) / wantRho; d > 1e-12 {
		t.Errorf("ρ_eff = %g, want %g", comp.EffCond.Rho.Float(), wantRho)
	}
	// conductor region carries no permittivity
	if comp.EffCond.Epsr.Float() != 0 {
		t.Errorf("conductor ε_r = %g", comp.EffCond.Epsr.Float())
	}
	// α is the group aggregate
	if comp.EffCond.Alpha.Float() != cg.Alpha().Float() {
		t.Errorf("α_eff = %g", comp.EffCond.Alpha.Float())
	}
}

func TestSolenoidOnHelicalCore(t *testing.T) {
	// outermost conductor layer is helical, so the insulation μ
	// picks up the solenoid correction
	cg := buildCore(t)
	ig := buildInsStack(t, cg.RadiusExt())
	comp, err := NewCableComponent("core", cg, ig)
	if err != nil {
		t.Fatal(err)
	}
	if comp.EffIns.Mur.Float() <= 1 {
		t.Errorf("μ_ins = %g, expected solenoid-corrected above 1",
			comp.EffIns.Mur.Float())
	}

	// a straight tubular conductor keeps μ at the layer value
	cu := testMaterial(1.7241e-8, 0.00393)
	tub, err := NewTubular(V(0), Radius(V(0.005)), cu, V(20))
	if err != nil {
		t.Fatal(err)
	}
	scg, err := NewConductorGroup(tub)
	if err != nil {
		t.Fatal(err)
	}
	sig := buildInsStack(t, scg.RadiusExt())
	scomp, err := NewCableComponent("solid", scg, sig)
	if err != nil {
		t.Fatal(err)
	}
	if scomp.EffIns.Mur.Float() != 1 {
		t.Errorf("straight μ_ins = %g", scomp.EffIns.Mur.Float())
	}
}

func TestComponentValidation(t *testing.T) {
	cg := buildCore(t)
	// insulation not starting at the conductor surface
	bad := buildInsStack(t, cg.RadiusExt().Shift(0.002))
	if _, err := NewCableComponent("core", cg, bad); KindOf(err) != ErrInvalidGeometry {
		t.Errorf("radius gap not rejected: %v", err)
	}
	if _, err := NewCableComponent("", cg, bad); KindOf(err) != ErrInvalidValue {
		t.Error("empty id not rejected")
	}
}

func TestDesignAddReplace(t *testing.T) {
	cg := buildCore(t)
	ig := buildInsStack(t, cg.RadiusExt())
	comp, err := NewCableComponent("core", cg, ig)
	if err != nil {
		t.Fatal(err)
	}
	design, err := NewCableDesign("test", comp, nil)
	if err != nil {
		t.Fatal(err)
	}

	// replacement keeps the position
	cg2 := buildCore(t)
	ig2 := buildInsStack(t, cg2.RadiusExt())
	comp2, err := NewCableComponent("core", cg2, ig2)
	if err != nil {
		t.Fatal(err)
	}
	if err = design.Add(comp2); err != nil {
		t.Fatal(err)
	}
	if design.Len() != 1 {
		t.Errorf("replace appended: %d components", design.Len())
	}
	if got, _ := design.Component("core"); got != comp2 {
		t.Error("replace kept the old component")
	}

	// a new id appends
	scg, err := NewConductorGroup(mustTubular(t, design.RadiusExt(), 0.0005))
	if err != nil {
		t.Fatal(err)
	}
	pe := Material{Rho: V(1.97e14), Epsr: V(2.3), Mur: V(1), T0: V(20), Alpha: V(0)}
	jk, err := NewInsulator(scg.RadiusExt(), Thickness(V(0.0025)), pe, V(20))
	if err != nil {
		t.Fatal(err)
	}
	jg, err := NewInsulatorGroup(jk)
	if err != nil {
		t.Fatal(err)
	}
	scr, err := NewCableComponent("screen", scg, jg)
	if err != nil {
		t.Fatal(err)
	}
	if err = design.Add(scr); err != nil {
		t.Fatal(err)
	}
	if design.Len() != 2 {
		t.Errorf("append failed: %d components", design.Len())
	}
}

func mustTubular(t *testing.T, rin Value, thickness float64) *Tubular {
	t.Helper()
	cu := testMaterial(1.7241e-8, 0.00393)
	tb, err := NewTubular(rin, Thickness(V(thickness)), cu, V(20))
	if err != nil {
		t.Fatal(err)
	}
	return tb
}
