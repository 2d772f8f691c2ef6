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

//----------------------------------------------------------------------
// temperature and DC resistance
//----------------------------------------------------------------------

// TempCorrection is the resistive correction factor 1 + α·(T−T0).
// Not clamped; a physically meaningless negative factor is the
// caller's problem.
func TempCorrection(alpha, temp, t0 Value) Value {
	return V(1).Add(alpha.Mul(temp.Sub(t0)))
}

// ResistTubular is the DC resistance per metre of an annular
// conductor. Returns +Inf for a vanishing cross-section.
func ResistTubular(rin, rext, rho, alpha, temp, t0 Value) Value {
	area := rext.Mul(rext).Sub(rin.Mul(rin)).Scale(math.Pi)
	if IsNull(area.Float()) {
		return V(math.Inf(1))
	}
	return TempCorrection(alpha, temp, t0).Mul(rho).Div(area)
}

// ResistStrip is the DC resistance per metre of a flat strip.
// Returns +Inf for a vanishing cross-section.
func ResistStrip(thickness, width, rho, alpha, temp, t0 Value) Value {
	area := thickness.Mul(width)
	if IsNull(area.Float()) {
		return V(math.Inf(1))
	}
	return TempCorrection(alpha, temp, t0).Mul(rho).Div(area)
}

//----------------------------------------------------------------------
// inductance, capacitance, conductance of coaxial regions
//----------------------------------------------------------------------

// InductTubular is the external inductance per metre of the annular
// region between rin and rext: μr·μ0/(2π)·ln(rext/rin).
func InductTubular(rin, rext, mur Value) Value {
	return mur.Scale(Mu_0 / CircAng).Mul(rext.Div(rin).Log())
}

// CapacitCoax is the capacitance per metre of a coaxial dielectric:
// 2π·ε0·εr / ln(rext/rin).
func CapacitCoax(rin, rext, epsr Value) Value {
	return epsr.Scale(CircAng * Eps_0).Div(rext.Div(rin).Log())
}

// CondCoax is the shunt conductance per metre of a coaxial
// dielectric: 2π·(1/ρ) / ln(rext/rin).
func CondCoax(rin, rext, rho Value) Value {
	return V(CircAng).Div(rho).Div(rext.Div(rin).Log())
}

//----------------------------------------------------------------------
// geometric mean radii
//----------------------------------------------------------------------

// GmrWireArray is the GMR of N wires of radius rwire laid on a
// circle of radius layRadius:
//
//	GMR_wire = r·exp(−μr/4)
//	ln GMR   = (ln GMR_wire + ln N + (N−1)·ln a) / N
//
// For N = 1 the expression degenerates to the single-wire GMR.
func GmrWireArray(layRadius Value, numWires int, rwire, mur Value) Value {
	gw := rwire.Mul(mur.Scale(-0.25).Exp())
	if numWires == 1 {
		return gw
	}
	n := float64(numWires)
	lg := gw.Log().Shift(math.Log(n)).Add(layRadius.Log().Scale(n - 1))
	return lg.Scale(1 / n).Exp()
}

// gmrTubularTerms returns the geometric factors t1, t2 of the
// internal-inductance integral for an annular conductor, such that
// L_in = (μ0·μr/2π)·(t1 − t2).
func gmrTubularTerms(rext, rin Value) (t1, t2 Value) {
	r2q := rext.Mul(rext)
	r1q := rin.Mul(rin)
	dq := r2q.Sub(r1q)
	t1 = V(0)
	if rin.Float() != 0 {
		t1 = r1q.Mul(r1q).Div(dq.Mul(dq)).Mul(rext.Div(rin).Log())
	}
	t2 = r1q.Scale(3).Sub(r2q).Div(dq.Scale(4))
	return
}

// GmrTubular is the GMR of an annular conductor with uniform current
// density. Limits: a thin shell approaches rext; a vanishing inner
// radius approaches the solid-conductor value rext·exp(−μr/4).
func GmrTubular(rext, rin, mur Value) (Value, error) {
	r2, r1 := rext.Float(), rin.Float()
	if r2 < r1 {
		return Value{}, newErr(ErrInvalidGeometry,
			"outer radius %g below inner radius %g", r2, r1)
	}
	if math.Abs(r2-r1) < Tol {
		return rext, nil
	}
	if r1/r2 < machEps && r1 > Tol {
		return V(math.Inf(1)), nil
	}
	t1, t2 := gmrTubularTerms(rext, rin)
	lin := mur.Scale(Mu_0 / CircAng).Mul(t1.Sub(t2))
	return rext.Log().Sub(lin.Scale(CircAng / Mu_0)).Exp(), nil
}

// EquivMu inverts the tubular GMR expression: the relative
// permeability that reproduces gmr for the annulus (rin, rext).
// A shell thinner than the tolerance carries no internal flux and
// maps to μr = 1.
func EquivMu(gmr, rext, rin Value) (Value, error) {
	r2, r1 := rext.Float(), rin.Float()
	if r2 < r1 {
		return Value{}, newErr(ErrInvalidGeometry,
			"outer radius %g below inner radius %g", r2, r1)
	}
	if math.Abs(r2-r1) < Tol {
		return V(1), nil
	}
	t1, t2 := gmrTubularTerms(rext, rin)
	return rext.Div(gmr).Log().Div(t1.Sub(t2)), nil
}

//----------------------------------------------------------------------
// helical lay
//----------------------------------------------------------------------

// HelixParams returns the mean diameter, pitch length and overlength
// factor of a helical layer between radiusIn and radiusExt with the
// given lay ratio (0 = straight).
func HelixParams(radiusIn, radiusExt, layRatio Value) (meanDia, pitch, overlength Value) {
	meanDia = radiusIn.Add(radiusExt)
	pitch, overlength = pitchAndOverlength(meanDia, layRatio)
	return
}

// WireCenters returns the centers of numWires wires of radius rwire
// laid on radius rin around the center (cx, cy).
func WireCenters(rin, rwire Value, numWires int, cx, cy Value) (pts [][2]Value) {
	step := CircAng / float64(numWires)
	layRadius := rin.Add(rwire)
	if numWires == 1 {
		layRadius = V(0)
	}
	pts = make([][2]Value, numWires)
	for i := range pts {
		ang := V(float64(i) * step)
		pts[i][0] = cx.Add(layRadius.Mul(ang.Cos()))
		pts[i][1] = cy.Add(layRadius.Mul(ang.Sin()))
	}
	return
}

//----------------------------------------------------------------------
// geometric mean distance
//----------------------------------------------------------------------

// SubElement is a point-mass representation of part of a conductor
// cross-section for GMD purposes.
type SubElement struct {
	X, Y Value // center (m)
	Area Value // weight (m²)
}

// Gmd is the log-area-weighted geometric mean distance between two
// sub-element sets. Coincident pairs (concentric parts) contribute
// ln(max(routP, routQ)), the larger outer radius.
func Gmd(p, q []SubElement, routP, routQ Value) Value {
	lnConc := routP
	if routQ.Float() > routP.Float() {
		lnConc = routQ
	}
	num := V(0)
	den := V(0)
	for _, a := range p {
		for _, b := range q {
			w := a.Area.Mul(b.Area)
			d := a.X.Sub(b.X).Hypot(a.Y.Sub(b.Y))
			var ld Value
			if d.Float() < eps {
				ld = lnConc.Log()
			} else {
				ld = d.Log()
			}
			num = num.Add(w.Mul(ld))
			den = den.Add(w)
		}
	}
	return num.Div(den).Exp()
}

// EquivGmr combines the GMR of an existing stack with that of a new
// layer:
//
//	β   = S_prev/(S_prev+S_new)
//	GMR = GMR_prev^(β²) · GMR_new^((1−β)²) · GMD^(2β(1−β))
func EquivGmr(gmrPrev, sPrev, gmrNew, sNew, gmd Value) Value {
	beta := sPrev.Div(sPrev.Add(sNew))
	b2 := beta.Mul(beta)
	c := V(1).Sub(beta)
	c2 := c.Mul(c)
	cross := beta.Mul(c).Scale(2)
	return gmrPrev.Log().Mul(b2).
		Add(gmrNew.Log().Mul(c2)).
		Add(gmd.Log().Mul(cross)).Exp()
}

//----------------------------------------------------------------------
// parallel combinations
//----------------------------------------------------------------------

// ParallelValue is the parallel equivalent 1/(1/a + 1/b) of two real
// impedances (or admittances in series).
func ParallelValue(a, b Value) Value {
	return V(1).Div(V(1).Div(a).Add(V(1).Div(b)))
}

// ParallelComplex is the parallel equivalent of two complex
// impedances (or the series equivalent of two admittances).
func ParallelComplex(a, b Complex) Complex {
	return a.Inv().Add(b.Inv()).Inv()
}

// AlphaWeighted combines two resistive temperature coefficients of
// parallel layers: α = (α1·R2 + α2·R1)/(R1+R2).
func AlphaWeighted(alpha1, r1, alpha2, r2 Value) Value {
	return alpha1.Mul(r2).Add(alpha2.Mul(r1)).Div(r1.Add(r2))
}

//----------------------------------------------------------------------
// effective-material helpers
//----------------------------------------------------------------------

// SolenoidCorrection is the multiplier on the relative permeability
// of an insulator wrapping a helical conductor layer with numTurns
// turns per metre. Straight layers (numTurns 0 or NaN) are neutral.
func SolenoidCorrection(numTurns, rCondExt, rInsExt Value) Value {
	n := numTurns.Float()
	if math.IsNaN(n) || IsNull(n) {
		return V(1)
	}
	dq := rInsExt.Mul(rInsExt).Sub(rCondExt.Mul(rCondExt))
	nn := numTurns.Mul(numTurns).Scale(2 * math.Pi * math.Pi)
	return nn.Mul(dq).Div(rInsExt.Div(rCondExt).Log()).Shift(1)
}

// EquivRho is the resistivity that reproduces resistance res over the
// annulus (rin, rext): ρ = R·π·(rext²−rin²).
func EquivRho(res, rext, rin Value) Value {
	return res.Mul(rext.Mul(rext).Sub(rin.Mul(rin)).Scale(math.Pi))
}

// EquivEpsr is the relative permittivity that reproduces capacitance
// capa over the coaxial region (rin, rext).
func EquivEpsr(capa, rext, rin Value) Value {
	return capa.Mul(rext.Div(rin).Log()).Scale(1 / (CircAng * Eps_0))
}

// EquivInsRho is the insulation resistivity that reproduces shunt
// conductance g over the coaxial region (rin, rext).
func EquivInsRho(g, rext, rin Value) Value {
	return V(CircAng).Div(g.Mul(rext.Div(rin).Log()))
}

// LossTangent is tan δ = G/(ω·C).
func LossTangent(g, c, omega Value) Value {
	return g.Div(omega.Mul(c))
}

//----------------------------------------------------------------------
// trifoil closed form
//----------------------------------------------------------------------

// TrifoilCable describes one single-core cable with metallic screen
// for the trifoil closed form (plain floats; the form is the
// bit-reproducible conformance baseline).
type TrifoilCable struct {
	RinCore    float64 // inner radius of core conductor (m)
	RextCore   float64 // outer radius of core conductor (m)
	RhoCore    float64 // core resistivity (Ω·m)
	MuCore     float64 // core relative permeability
	RinScreen  float64 // inner radius of screen (m)
	RextScreen float64 // outer radius of screen (m)
	RhoScreen  float64 // screen resistivity (Ω·m)
	MuScreen   float64 // screen relative permeability
}

// earthReturnDepth is the equivalent depth D_E = 659·√(ρ_e/f)
func earthReturnDepth(rhoEarth, freq float64) float64 {
	return 659 * math.Sqrt(rhoEarth/freq)
}

// TrifoilSolidBonding evaluates the closed-form positive-sequence
// series impedance of three identical screened cables in touching
// trifoil with solidly bonded screens:
//
//	Z_a = R'_E + R_a + jω·μ0/2π·ln(D_E/GMR_a)   (core self)
//	Z_s = R'_E + R_s + jω·μ0/2π·ln(D_E/GMR_s)   (screen self)
//	Z_m = R'_E + jω·μ0/2π·ln(D_E/GMR_s)          (core-screen mutual)
//	Z_x = R'_E + jω·μ0/2π·ln(D_E/S)              (cable-cable mutual)
//	Z_1 = (Z_a−Z_x) − (Z_m−Z_x)²/(Z_s−Z_x)
func TrifoilSolidBonding(cb TrifoilCable, spacing, rhoEarth, freq float64) (z1 complex128, err error) {
	w := CircAng * freq
	de := earthReturnDepth(rhoEarth, freq)
	re := w * Mu_0 / 8
	k := w * Mu_0 / CircAng

	ra := ResistTubular(V(cb.RinCore), V(cb.RextCore), V(cb.RhoCore),
		V(0), V(T_0), V(T_0)).Float()
	var gmrA, gmrS Value
	if gmrA, err = GmrTubular(V(cb.RextCore), V(cb.RinCore), V(cb.MuCore)); err != nil {
		return
	}
	rs := ResistTubular(V(cb.RinScreen), V(cb.RextScreen), V(cb.RhoScreen),
		V(0), V(T_0), V(T_0)).Float()
	if gmrS, err = GmrTubular(V(cb.RextScreen), V(cb.RinScreen), V(cb.MuScreen)); err != nil {
		return
	}

	za := complex(re+ra, k*math.Log(de/gmrA.Float()))
	zs := complex(re+rs, k*math.Log(de/gmrS.Float()))
	zm := complex(re, k*math.Log(de/gmrS.Float()))
	zx := complex(re, k*math.Log(de/spacing))

	d := za - zx
	m := zm - zx
	z1 = d - m*m/(zs-zx)
	return
}

// TrifoilInductance is the positive-sequence inductance per metre of
// the solid-bonded trifoil arrangement: L = Im(Z_1)/ω.
func TrifoilInductance(cb TrifoilCable, spacing, rhoEarth, freq float64) (float64, error) {
	z1, err := TrifoilSolidBonding(cb, spacing, rhoEarth, freq)
	if err != nil {
		return 0, err
	}
	return imag(z1) / (CircAng * freq), nil
}
