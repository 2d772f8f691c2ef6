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

func testMaterial(rho, alpha float64) Material {
	return Material{Rho: V(rho), Epsr: V(1), Mur: V(1), T0: V(20), Alpha: V(alpha)}
}

func TestDimResolve(t *testing.T) {
	prev := V(0.01)
	if r := Thickness(V(0.002)).Resolve(prev); math.Abs(r.Float()-0.012) > 1e-15 {
		t.Errorf("thickness: %g", r.Float())
	}
	if r := Diameter(V(0.03)).Resolve(prev); math.Abs(r.Float()-0.015) > 1e-15 {
		t.Errorf("diameter: %g", r.Float())
	}
	if r := Radius(V(0.02)).Resolve(prev); r.Float() != 0.02 {
		t.Errorf("radius: %g", r.Float())
	}
}

func TestWireArrayDerived(t *testing.T) {
	mat := testMaterial(2.8264e-8, 0.00429)
	wa, err := NewWireArray(V(0.005), Radius(V(0.00235)), 6, V(10), 1, mat, V(20))
	if err != nil {
		t.Fatal(err)
	}
	// radii
	if d := math.Abs(wa.RadiusExt().Float() - (0.005 + 2*0.00235)); d > 1e-15 {
		t.Errorf("radius_ext = %g", wa.RadiusExt().Float())
	}
	// cross-section
	want := 6 * math.Pi * Sqr(0.00235)
	if d := math.Abs(wa.CrossSection().Float()-want) / want; d > 1e-12 {
		t.Errorf("cross-section = %g", wa.CrossSection().Float())
	}
	// helix: mean diameter 2·(r_in+r_wire), pitch = lay·mean
	meanDia := 2 * (0.005 + 0.00235)
	pitch := 10 * meanDia
	if d := math.Abs(wa.PitchLength().Float()-pitch) / pitch; d > 1e-12 {
		t.Errorf("pitch = %g", wa.PitchLength().Float())
	}
	over := math.Sqrt(1 + Sqr(math.Pi*meanDia/pitch))
	if d := math.Abs(wa.Overlength().Float()-over) / over; d > 1e-12 {
		t.Errorf("overlength = %g", wa.Overlength().Float())
	}
	// resistance: single wire / N, scaled by overlength
	single := 2.8264e-8 / (math.Pi * Sqr(0.00235))
	wantR := single * over / 6
	if d := math.Abs(wa.Resistance().Float()-wantR) / wantR; d > 1e-12 {
		t.Errorf("R = %g, want %g", wa.Resistance().Float(), wantR)
	}

	// straight single wire has no overlength
	one, err := NewWireArray(V(0), Diameter(V(0.0047)), 1, V(0), 1, mat, V(20))
	if err != nil {
		t.Fatal(err)
	}
	if one.Overlength().Float() != 1 {
		t.Errorf("straight overlength = %g", one.Overlength().Float())
	}
	if one.RadiusExt().Float() != 0.00235 {
		t.Errorf("single-wire radius_ext = %g", one.RadiusExt().Float())
	}
}

func TestWireArrayValidation(t *testing.T) {
	mat := testMaterial(2.8e-8, 0.004)
	if _, err := NewWireArray(V(0), Radius(V(0.002)), 0, V(0), 1, mat, V(20)); KindOf(err) != ErrInvalidValue {
		t.Errorf("zero wires not rejected: %v", err)
	}
	if _, err := NewWireArray(V(0), Thickness(V(0.002)), 3, V(0), 1, mat, V(20)); KindOf(err) != ErrInvalidValue {
		t.Errorf("thickness wire size not rejected: %v", err)
	}
	if _, err := NewWireArray(V(0), Radius(V(0.002)), 3, V(0), 2, mat, V(20)); KindOf(err) != ErrInvalidValue {
		t.Errorf("lay direction 2 not rejected: %v", err)
	}
	if _, err := NewWireArray(V(0), Radius(V(0.002)), 3, V(0), 1, mat, V(200)); KindOf(err) != ErrInvalidValue {
		t.Errorf("temperature out of range not rejected: %v", err)
	}
}

func TestStripDerived(t *testing.T) {
	mat := testMaterial(1.7241e-8, 0.00393)
	st, err := NewStrip(V(0.02), Thickness(V(0.0005)), V(0.04), V(12), -1, mat, V(20))
	if err != nil {
		t.Fatal(err)
	}
	if d := math.Abs(st.RadiusExt().Float() - 0.0205); d > 1e-15 {
		t.Errorf("radius_ext = %g", st.RadiusExt().Float())
	}
	want := 0.0005 * 0.04
	if d := math.Abs(st.CrossSection().Float()-want) / want; d > 1e-12 {
		t.Errorf("cross-section = %g", st.CrossSection().Float())
	}
	meanDia := 2 * (0.02 + 0.00025)
	over := math.Sqrt(1 + Sqr(math.Pi*meanDia/(12*meanDia)))
	wantR := 1.7241e-8 / want * over
	if d := math.Abs(st.Resistance().Float()-wantR) / wantR; d > 1e-12 {
		t.Errorf("R = %g, want %g", st.Resistance().Float(), wantR)
	}
}

func TestTubularDerived(t *testing.T) {
	mat := testMaterial(2.8264e-8, 0.00429)
	tb, err := NewTubular(V(0.034), Radius(V(0.0345)), mat, V(20))
	if err != nil {
		t.Fatal(err)
	}
	want := math.Pi * (Sqr(0.0345) - Sqr(0.034))
	if d := math.Abs(tb.CrossSection().Float()-want) / want; d > 1e-12 {
		t.Errorf("cross-section = %g", tb.CrossSection().Float())
	}
	if tb.PitchLength().Float() != 0 {
		t.Error("tubular has a pitch")
	}
	// inverted radii rejected
	if _, err = NewTubular(V(0.04), Radius(V(0.03)), mat, V(20)); KindOf(err) != ErrInvalidGeometry {
		t.Errorf("inverted radii not rejected: %v", err)
	}
}

func TestDielectricParts(t *testing.T) {
	xlpe := Material{Rho: V(1.97e14), Epsr: V(2.3), Mur: V(1), T0: V(20), Alpha: V(0)}
	ins, err := NewInsulator(V(0.01), Radius(V(0.02)), xlpe, V(20))
	if err != nil {
		t.Fatal(err)
	}
	wantC := CircAng * Eps_0 * 2.3 / math.Log(2)
	if d := math.Abs(ins.ShuntCapacitance().Float()-wantC) / wantC; d > 1e-12 {
		t.Errorf("C = %g", ins.ShuntCapacitance().Float())
	}
	wantG := CircAng / 1.97e14 / math.Log(2)
	if d := math.Abs(ins.ShuntConductance().Float()-wantG) / wantG; d > 1e-12 {
		t.Errorf("G = %g", ins.ShuntConductance().Float())
	}
	// semicon carries the same capability surface
	sc, err := NewSemicon(V(0.02), Thickness(V(0.0008)), testMaterial(1000, 0), V(20))
	if err != nil {
		t.Fatal(err)
	}
	if sc.ShuntConductance().Float() <= wantG {
		t.Error("semicon conductance not above insulation")
	}
}
