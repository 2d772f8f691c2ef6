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

// solid copper tubular, 5mm radius
func TestTubularResistance(t *testing.T) {
	r := ResistTubular(V(0), V(0.005), V(1.7241e-8), V(0.00393), V(20), V(20))
	want := 1.7241e-8 / (math.Pi * 0.005 * 0.005)
	if d := math.Abs(r.Float() - want); d > 1e-12 {
		t.Errorf("R = %g, want %g", r.Float(), want)
	}
	if d := math.Abs(r.Float() - 2.195e-4); d > 1e-7 {
		t.Errorf("R = %g outside expected magnitude", r.Float())
	}

	gmr, err := GmrTubular(V(0.005), V(0), V(0.999994))
	if err != nil {
		t.Fatal(err)
	}
	want = 0.005 * math.Exp(-0.999994/4)
	if d := math.Abs(gmr.Float() - want); d > 1e-9 {
		t.Errorf("GMR = %g, want %g", gmr.Float(), want)
	}
	if d := math.Abs(gmr.Float() - 0.0038940); d > 1e-6 {
		t.Errorf("GMR = %g outside expected magnitude", gmr.Float())
	}
}

// 7-wire array, lay ratio 10
func TestWireArrayGmr(t *testing.T) {
	gmr := GmrWireArray(V(0.00235), 7, V(0.00235), V(1))
	gw := 0.00235 * math.Exp(-0.25)
	want := math.Exp((math.Log(gw) + math.Log(7) + 6*math.Log(0.00235)) / 7)
	if d := math.Abs(gmr.Float() - want); d > 1e-10 {
		t.Errorf("GMR = %g, want %g", gmr.Float(), want)
	}

	// N=1 degenerates to the single-wire GMR
	one := GmrWireArray(V(0.01), 1, V(0.0047), V(1))
	want = 0.0047 * math.Exp(-0.25)
	if d := math.Abs(one.Float() - want); d > 1e-12 {
		t.Errorf("single-wire GMR = %g, want %g", one.Float(), want)
	}
}

// coaxial XLPE region
func TestCoaxialCG(t *testing.T) {
	c := CapacitCoax(V(0.01), V(0.02), V(2.3))
	wantC := CircAng * Eps_0 * 2.3 / math.Log(2)
	if d := math.Abs(c.Float() - wantC); d > 1e-20 {
		t.Errorf("C = %g, want %g", c.Float(), wantC)
	}
	if d := math.Abs(c.Float() - 1.846e-10); d > 1e-13 {
		t.Errorf("C = %g outside expected magnitude", c.Float())
	}

	g := CondCoax(V(0.01), V(0.02), V(1.97e14))
	wantG := CircAng / 1.97e14 / math.Log(2)
	if d := math.Abs(g.Float() - wantG); d > 1e-24 {
		t.Errorf("G = %g, want %g", g.Float(), wantG)
	}
	if d := math.Abs(g.Float() - 4.602e-14); d > 1e-17 {
		t.Errorf("G = %g outside expected magnitude", g.Float())
	}
}

func TestInductTubular(t *testing.T) {
	l := InductTubular(V(0.01), V(0.02), V(1))
	want := Mu_0 / CircAng * math.Log(2)
	if d := math.Abs(l.Float() - want); d > 1e-18 {
		t.Errorf("L = %g, want %g", l.Float(), want)
	}
}

func TestTempCorrection(t *testing.T) {
	// exactly one at reference temperature
	if k := TempCorrection(V(0.00393), V(20), V(20)); k.Float() != 1 {
		t.Errorf("k(T0) = %g", k.Float())
	}
	k := TempCorrection(V(0.004), V(90), V(20))
	if d := math.Abs(k.Float() - 1.28); d > 1e-12 {
		t.Errorf("k(90) = %g", k.Float())
	}
}

func TestParallelSymmetry(t *testing.T) {
	a, b := V(0.12), V(3.4)
	if d := math.Abs(ParallelValue(a, b).Float() - ParallelValue(b, a).Float()); d > Tol {
		t.Errorf("parallel not symmetric: %g", d)
	}
	// one infinite branch is neutral
	p := ParallelValue(V(math.Inf(1)), b)
	if d := math.Abs(p.Float() - 3.4); d > 1e-15 {
		t.Errorf("parallel with Inf: %g", p.Float())
	}
	z, w := CxF(1, 2), CxF(3, -1)
	zw, wz := ParallelComplex(z, w), ParallelComplex(w, z)
	if d := math.Abs(zw.Re.Float() - wz.Re.Float()); d > Tol {
		t.Errorf("complex parallel not symmetric: %g", d)
	}
}

func TestGmrTubularLimits(t *testing.T) {
	// thin shell approaches the outer radius
	gmr, err := GmrTubular(V(0.02), V(0.02-1e-8), V(1))
	if err != nil {
		t.Fatal(err)
	}
	if gmr.Float() != 0.02 {
		t.Errorf("thin-shell GMR = %g", gmr.Float())
	}
	// vanishing bore approaches the solid value
	gmr, err = GmrTubular(V(0.02), V(0), V(1))
	if err != nil {
		t.Fatal(err)
	}
	want := 0.02 * math.Exp(-0.25)
	if d := math.Abs(gmr.Float() - want); d > 1e-9 {
		t.Errorf("solid GMR = %g, want %g", gmr.Float(), want)
	}
	// inverted radii rejected
	if _, err = GmrTubular(V(0.01), V(0.02), V(1)); KindOf(err) != ErrInvalidGeometry {
		t.Errorf("inverted radii not rejected: %v", err)
	}
}

func TestEquivMuRoundTrip(t *testing.T) {
	cases := [][3]float64{
		{0.02, 0.01, 1.0},
		{0.02, 0.01, 80},
		{0.0345, 0.034, 1.0},
		{0.005, 0, 0.999994},
	}
	for _, c := range cases {
		gmr, err := GmrTubular(V(c[0]), V(c[1]), V(c[2]))
		if err != nil {
			t.Fatal(err)
		}
		mu, err := EquivMu(gmr, V(c[0]), V(c[1]))
		if err != nil {
			t.Fatal(err)
		}
		// the thin-shell branch forgets μ by construction
		if math.Abs(c[0]-c[1]) < Tol {
			continue
		}
		if d := math.Abs(mu.Float() - c[2]); d > Tol*c[2] {
			t.Errorf("μ round trip %v: got %g", c, mu.Float())
		}
	}
}

func TestGmd(t *testing.T) {
	a := []SubElement{{X: V(0), Y: V(0), Area: V(1e-4)}}
	b := []SubElement{{X: V(0.1), Y: V(0), Area: V(2e-4)}}
	pq := Gmd(a, b, V(0.01), V(0.02))
	qp := Gmd(b, a, V(0.02), V(0.01))
	if d := math.Abs(pq.Float() - qp.Float()); d > Tol {
		t.Errorf("GMD not symmetric: %g vs %g", pq.Float(), qp.Float())
	}
	if d := math.Abs(pq.Float() - 0.1); d > 1e-12 {
		t.Errorf("point GMD = %g", pq.Float())
	}
	// concentric parts fall back to the larger outer radius
	conc := Gmd(a, []SubElement{{X: V(0), Y: V(0), Area: V(5e-4)}}, V(0.01), V(0.02))
	if d := math.Abs(conc.Float() - 0.02); d > 1e-12 {
		t.Errorf("concentric GMD = %g", conc.Float())
	}
}

func TestSolenoidCorrection(t *testing.T) {
	// straight layers are neutral
	if s := SolenoidCorrection(V(0), V(0.01), V(0.02)); s.Float() != 1 {
		t.Errorf("straight correction = %g", s.Float())
	}
	if s := SolenoidCorrection(V(math.NaN()), V(0.01), V(0.02)); s.Float() != 1 {
		t.Errorf("NaN correction = %g", s.Float())
	}
	s := SolenoidCorrection(V(10), V(0.01), V(0.02))
	want := 1 + 2*math.Pi*math.Pi*100*(0.0004-0.0001)/math.Log(2)
	if d := math.Abs(s.Float() - want); d > 1e-12 {
		t.Errorf("correction = %g, want %g", s.Float(), want)
	}
}

func TestEquivalentMaterials(t *testing.T) {
	// ρ from R and back
	r := ResistTubular(V(0.01), V(0.02), V(2.8e-8), V(0), V(20), V(20))
	rho := EquivRho(r, V(0.02), V(0.01))
	if d := math.Abs(rho.Float() - 2.8e-8); d > 1e-20 {
		t.Errorf("ρ round trip: %g", rho.Float())
	}
	// εr from C and back
	c := CapacitCoax(V(0.01), V(0.02), V(2.3))
	epsr := EquivEpsr(c, V(0.02), V(0.01))
	if d := math.Abs(epsr.Float() - 2.3); d > 1e-12 {
		t.Errorf("εr round trip: %g", epsr.Float())
	}
	// insulation ρ from G and back
	g := CondCoax(V(0.01), V(0.02), V(1.97e14))
	rhoIns := EquivInsRho(g, V(0.02), V(0.01))
	if d := math.Abs(rhoIns.Float()-1.97e14) / 1.97e14; d > 1e-12 {
		t.Errorf("ρ_ins round trip: %g", rhoIns.Float())
	}
}

// cigre TB-531 solid bonding, touching trifoil
func TestTrifoilInductance(t *testing.T) {
	cb := TrifoilCable{
		RinCore: 0, RextCore: 0.019, RhoCore: Rho_0, MuCore: 1,
		RinScreen: 0.034, RextScreen: 0.0345, RhoScreen: 2.8264e-8, MuScreen: 1,
	}
	l, err := TrifoilInductance(cb, 0.1, 100, 50)
	if err != nil {
		t.Fatal(err)
	}
	t.Logf("L1(sb) = %sH/m", FormatNumber(l, 4))
	if math.Abs(l-3.6e-7) > 5e-8 {
		t.Errorf("L = %g outside 3.6e-7 ± 5e-8", l)
	}

	// bit-for-bit against the reference formula
	w := CircAng * 50.
	de := 659 * math.Sqrt(100/50.)
	re := w * Mu_0 / 8
	k := w * Mu_0 / CircAng
	ra := Rho_0 / (math.Pi * Sqr(0.019))
	gmrA, _ := GmrTubular(V(0.019), V(0), V(1))
	rs := 2.8264e-8 / (math.Pi * (Sqr(0.0345) - Sqr(0.034)))
	gmrS, _ := GmrTubular(V(0.0345), V(0.034), V(1))
	za := complex(re+ra, k*math.Log(de/gmrA.Float()))
	zs := complex(re+rs, k*math.Log(de/gmrS.Float()))
	zm := complex(re, k*math.Log(de/gmrS.Float()))
	zx := complex(re, k*math.Log(de/0.1))
	want := (za - zx) - (zm-zx)*(zm-zx)/(zs-zx)

	z1, err := TrifoilSolidBonding(cb, 0.1, 100, 50)
	if err != nil {
		t.Fatal(err)
	}
	if z1 != want {
		t.Errorf("Z1 = %v, want %v", z1, want)
	}
}

func TestUncertaintyThroughKernel(t *testing.T) {
	// zero-uncertainty inputs reproduce the float path with σ = 0
	rf := ResistTubular(V(0), V(0.005), V(1.7241e-8), V(0.00393), V(20), V(20))
	ru := ResistTubular(U(0, 0), U(0.005, 0), U(1.7241e-8, 0), V(0.00393), V(20), V(20))
	if rf.Float() != ru.Float() || ru.Sigma() != 0 {
		t.Errorf("zero-sigma path differs: %v vs %v", rf, ru)
	}
	// a radius tolerance propagates into R
	r := ResistTubular(V(0), U(0.005, 1e-5), V(1.7241e-8), V(0.00393), V(20), V(20))
	if !r.IsUncertain() || r.Sigma() == 0 {
		t.Error("radius tolerance lost")
	}
	// dR/dr = −2R/r  →  σ_R = 2·R·σ_r/r
	want := 2 * r.Float() * 1e-5 / 0.005
	if d := math.Abs(r.Sigma()-want) / want; d > 1e-9 {
		t.Errorf("σ_R = %g, want %g", r.Sigma(), want)
	}
}
