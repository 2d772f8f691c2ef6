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
// dimension-input helpers
//----------------------------------------------------------------------

// DimKind selects how a layer size is expressed
type DimKind int

const (
	DimRadius    DimKind = iota // absolute outer radius
	DimDiameter                 // outer diameter
	DimThickness                // thickness relative to previous outer radius
)

// Dim is a layer-size input in one of three conventions
type Dim struct {
	kind DimKind
	v    Value
}

// Radius expresses an absolute (outer) radius
func Radius(v Value) Dim {
	return Dim{DimRadius, v}
}

// Diameter expresses an (outer) diameter
func Diameter(v Value) Dim {
	return Dim{DimDiameter, v}
}

// Thickness expresses a radial thickness on top of the previous
// outer radius
func Thickness(v Value) Dim {
	return Dim{DimThickness, v}
}

// Resolve the dimension against the previous outer radius
func (d Dim) Resolve(prev Value) Value {
	switch d.kind {
	case DimDiameter:
		return d.v.Scale(0.5)
	case DimThickness:
		return prev.Add(d.v)
	}
	return d.v
}

//----------------------------------------------------------------------
// part capability surfaces
//----------------------------------------------------------------------

// Part is the capability set common to all cable layers
type Part interface {
	// RadiusIn is the inner radius of the layer (m)
	RadiusIn() Value

	// RadiusExt is the outer radius of the layer (m)
	RadiusExt() Value

	// CrossSection is the conducting/dielectric area (m²)
	CrossSection() Value

	// Material of the layer
	Material() Material

	// Temperature of the layer (°C)
	Temperature() Value

	// subElements for GMD computations
	subElements() []SubElement
}

// Conductor is a part that carries longitudinal current
type Conductor interface {
	Part

	// Resistance per metre at layer temperature (Ω/m)
	Resistance() Value

	// Gmr is the geometric mean radius (m)
	Gmr() Value

	// NumWires in the layer (1 for monolithic parts)
	NumWires() int

	// PitchLength of the helical lay (m); 0 for straight layers
	PitchLength() Value
}

// Dielectric is a part that only contributes shunt admittance
type Dielectric interface {
	Part

	// ShuntCapacitance per metre (F/m)
	ShuntCapacitance() Value

	// ShuntConductance per metre (S/m)
	ShuntConductance() Value
}

// checkTemp validates the layer temperature against the material
// reference
func checkTemp(mat Material, temp Value) error {
	if math.Abs(temp.Float()-mat.T0.Float()) > TempRange {
		return newErr(ErrInvalidValue,
			"temperature %g outside ±%g °C of reference %g",
			temp.Float(), TempRange, mat.T0.Float())
	}
	return nil
}

// checkLayDir validates a lay direction flag
func checkLayDir(dir int) error {
	if dir != 1 && dir != -1 {
		return newErr(ErrInvalidValue, "lay direction %d not in {+1,-1}", dir)
	}
	return nil
}

// pitchAndOverlength derives the helix pitch and the resistance
// overlength factor from mean diameter and lay ratio
func pitchAndOverlength(meanDia, layRatio Value) (pitch, overlength Value) {
	pitch = layRatio.Mul(meanDia)
	if IsNull(pitch.Float()) {
		overlength = V(1)
		return
	}
	q := meanDia.Scale(math.Pi).Div(pitch)
	overlength = q.Mul(q).Shift(1).Sqrt()
	return
}

// concentricSubElement is the single-point representation of a
// monolithic layer; weight is the cross-section, falling back to
// π·r_ext² for a degenerate area.
func concentricSubElement(cross, rext Value) []SubElement {
	area := cross
	if IsNull(area.Float()) {
		area = rext.Mul(rext).Scale(math.Pi)
	}
	return []SubElement{{X: V(0), Y: V(0), Area: area}}
}

//----------------------------------------------------------------------
// WireArray
//----------------------------------------------------------------------

// WireArray is a concentric layer of round wires, possibly laid
// helically.
type WireArray struct {
	radiusIn   Value
	radiusWire Value
	numWires   int
	layRatio   Value
	layDir     int
	mat        Material
	temp       Value

	// derived
	radiusExt Value
	meanDia   Value
	pitch     Value
	overlen   Value
	cross     Value
	resist    Value
	gmr       Value
}

// NewWireArray builds a wire layer. wireSize is the size of a single
// wire, given as Radius or Diameter.
func NewWireArray(radiusIn Value, wireSize Dim, numWires int, layRatio Value,
	layDir int, mat Material, temp Value) (*WireArray, error) {
	if wireSize.kind == DimThickness {
		return nil, newErr(ErrInvalidValue, "wire size cannot be a thickness")
	}
	rwire := wireSize.Resolve(V(0))
	if numWires < 1 {
		return nil, newErr(ErrInvalidValue, "number of wires %d below 1", numWires)
	}
	if rwire.Float() <= 0 || radiusIn.Float() < 0 {
		return nil, newErr(ErrInvalidGeometry,
			"wire radius %g / lay-in radius %g", rwire.Float(), radiusIn.Float())
	}
	if err := checkLayDir(layDir); err != nil {
		return nil, err
	}
	if err := checkTemp(mat, temp); err != nil {
		return nil, err
	}
	wa := &WireArray{
		radiusIn:   radiusIn,
		radiusWire: rwire,
		numWires:   numWires,
		layRatio:   layRatio,
		layDir:     layDir,
		mat:        mat,
		temp:       temp,
	}
	wa.meanDia = radiusIn.Add(rwire).Scale(2)
	if numWires == 1 {
		wa.radiusExt = rwire
	} else {
		wa.radiusExt = radiusIn.Add(rwire.Scale(2))
	}
	wa.pitch, wa.overlen = pitchAndOverlength(wa.meanDia, layRatio)
	wa.cross = rwire.Mul(rwire).Scale(math.Pi * float64(numWires))
	rsingle := ResistTubular(V(0), rwire, mat.Rho, mat.Alpha, temp, mat.T0)
	wa.resist = rsingle.Mul(wa.overlen).Scale(1 / float64(numWires))
	wa.gmr = GmrWireArray(radiusIn.Add(rwire), numWires, rwire, mat.Mur)
	return wa, nil
}

func (wa *WireArray) RadiusIn() Value     { return wa.radiusIn }
func (wa *WireArray) RadiusExt() Value    { return wa.radiusExt }
func (wa *WireArray) CrossSection() Value { return wa.cross }
func (wa *WireArray) Material() Material  { return wa.mat }
func (wa *WireArray) Temperature() Value  { return wa.temp }
func (wa *WireArray) Resistance() Value   { return wa.resist }
func (wa *WireArray) Gmr() Value          { return wa.gmr }
func (wa *WireArray) NumWires() int       { return wa.numWires }
func (wa *WireArray) PitchLength() Value  { return wa.pitch }

// RadiusWire is the radius of a single wire
func (wa *WireArray) RadiusWire() Value { return wa.radiusWire }

// LayRatio of the helical lay (0 = straight)
func (wa *WireArray) LayRatio() Value { return wa.layRatio }

// LayDirection of the helical lay (+1/-1)
func (wa *WireArray) LayDirection() int { return wa.layDir }

// Overlength factor applied to the DC resistance
func (wa *WireArray) Overlength() Value { return wa.overlen }

func (wa *WireArray) subElements() (out []SubElement) {
	area := wa.radiusWire.Mul(wa.radiusWire).Scale(math.Pi)
	for _, pt := range WireCenters(wa.radiusIn, wa.radiusWire, wa.numWires, V(0), V(0)) {
		out = append(out, SubElement{X: pt[0], Y: pt[1], Area: area})
	}
	return
}

//----------------------------------------------------------------------
// Strip
//----------------------------------------------------------------------

// Strip is a flat tape wound helically on the previous layer.
type Strip struct {
	radiusIn  Value
	thickness Value
	width     Value
	layRatio  Value
	layDir    int
	mat       Material
	temp      Value

	// derived
	radiusExt Value
	meanDia   Value
	pitch     Value
	overlen   Value
	cross     Value
	resist    Value
	gmr       Value
}

// NewStrip builds a strip layer. size is the radial extent of the
// strip (Thickness, or an absolute Radius/Diameter of the outer
// surface).
func NewStrip(radiusIn Value, size Dim, width, layRatio Value,
	layDir int, mat Material, temp Value) (*Strip, error) {
	rext := size.Resolve(radiusIn)
	thk := rext.Sub(radiusIn)
	if thk.Float() <= 0 || width.Float() <= 0 {
		return nil, newErr(ErrInvalidGeometry,
			"strip thickness %g / width %g", thk.Float(), width.Float())
	}
	if err := checkLayDir(layDir); err != nil {
		return nil, err
	}
	if err := checkTemp(mat, temp); err != nil {
		return nil, err
	}
	st := &Strip{
		radiusIn:  radiusIn,
		thickness: thk,
		width:     width,
		layRatio:  layRatio,
		layDir:    layDir,
		mat:       mat,
		temp:      temp,
		radiusExt: rext,
	}
	st.meanDia = radiusIn.Add(thk.Scale(0.5)).Scale(2)
	st.pitch, st.overlen = pitchAndOverlength(st.meanDia, layRatio)
	st.cross = thk.Mul(width)
	rdc := ResistStrip(thk, width, mat.Rho, mat.Alpha, temp, mat.T0)
	st.resist = rdc.Mul(st.overlen)
	var err error
	if st.gmr, err = GmrTubular(rext, radiusIn, mat.Mur); err != nil {
		return nil, err
	}
	return st, nil
}

func (st *Strip) RadiusIn() Value     { return st.radiusIn }
func (st *Strip) RadiusExt() Value    { return st.radiusExt }
func (st *Strip) CrossSection() Value { return st.cross }
func (st *Strip) Material() Material  { return st.mat }
func (st *Strip) Temperature() Value  { return st.temp }
func (st *Strip) Resistance() Value   { return st.resist }
func (st *Strip) Gmr() Value          { return st.gmr }
func (st *Strip) NumWires() int       { return 1 }
func (st *Strip) PitchLength() Value  { return st.pitch }

// Thickness of the strip
func (st *Strip) Thickness() Value { return st.thickness }

// Width of the strip
func (st *Strip) Width() Value { return st.width }

// LayRatio of the helical winding (0 = straight)
func (st *Strip) LayRatio() Value { return st.layRatio }

// LayDirection of the helical winding (+1/-1)
func (st *Strip) LayDirection() int { return st.layDir }

func (st *Strip) subElements() []SubElement {
	return concentricSubElement(st.cross, st.radiusExt)
}

//----------------------------------------------------------------------
// Tubular
//----------------------------------------------------------------------

// Tubular is a monolithic annular conductor.
type Tubular struct {
	radiusIn  Value
	radiusExt Value
	mat       Material
	temp      Value

	// derived
	cross  Value
	resist Value
	gmr    Value
}

// NewTubular builds an annular conductor layer
func NewTubular(radiusIn Value, size Dim, mat Material, temp Value) (*Tubular, error) {
	rext := size.Resolve(radiusIn)
	if rext.Float() < radiusIn.Float() {
		return nil, newErr(ErrInvalidGeometry,
			"outer radius %g below inner radius %g", rext.Float(), radiusIn.Float())
	}
	if err := checkTemp(mat, temp); err != nil {
		return nil, err
	}
	tb := &Tubular{
		radiusIn:  radiusIn,
		radiusExt: rext,
		mat:       mat,
		temp:      temp,
	}
	tb.cross = rext.Mul(rext).Sub(radiusIn.Mul(radiusIn)).Scale(math.Pi)
	tb.resist = ResistTubular(radiusIn, rext, mat.Rho, mat.Alpha, temp, mat.T0)
	var err error
	if tb.gmr, err = GmrTubular(rext, radiusIn, mat.Mur); err != nil {
		return nil, err
	}
	return tb, nil
}

func (tb *Tubular) RadiusIn() Value     { return tb.radiusIn }
func (tb *Tubular) RadiusExt() Value    { return tb.radiusExt }
func (tb *Tubular) CrossSection() Value { return tb.cross }
func (tb *Tubular) Material() Material  { return tb.mat }
func (tb *Tubular) Temperature() Value  { return tb.temp }
func (tb *Tubular) Resistance() Value   { return tb.resist }
func (tb *Tubular) Gmr() Value          { return tb.gmr }
func (tb *Tubular) NumWires() int       { return 1 }
func (tb *Tubular) PitchLength() Value  { return V(0) }

func (tb *Tubular) subElements() []SubElement {
	return concentricSubElement(tb.cross, tb.radiusExt)
}

//----------------------------------------------------------------------
// Semicon and Insulator
//----------------------------------------------------------------------

// dielTube is the common shape of the two dielectric layer kinds
type dielTube struct {
	radiusIn  Value
	radiusExt Value
	mat       Material
	temp      Value

	// derived
	cross Value
	capa  Value
	cond  Value
}

func newDielTube(radiusIn Value, size Dim, mat Material, temp Value) (d dielTube, err error) {
	rext := size.Resolve(radiusIn)
	if rext.Float() < radiusIn.Float() {
		err = newErr(ErrInvalidGeometry,
			"outer radius %g below inner radius %g", rext.Float(), radiusIn.Float())
		return
	}
	if err = checkTemp(mat, temp); err != nil {
		return
	}
	d = dielTube{
		radiusIn:  radiusIn,
		radiusExt: rext,
		mat:       mat,
		temp:      temp,
	}
	d.cross = rext.Mul(rext).Sub(radiusIn.Mul(radiusIn)).Scale(math.Pi)
	d.capa = CapacitCoax(radiusIn, rext, mat.Epsr)
	d.cond = CondCoax(radiusIn, rext, mat.Rho)
	return
}

func (d *dielTube) RadiusIn() Value        { return d.radiusIn }
func (d *dielTube) RadiusExt() Value       { return d.radiusExt }
func (d *dielTube) CrossSection() Value    { return d.cross }
func (d *dielTube) Material() Material     { return d.mat }
func (d *dielTube) Temperature() Value     { return d.temp }
func (d *dielTube) ShuntCapacitance() Value { return d.capa }
func (d *dielTube) ShuntConductance() Value { return d.cond }

func (d *dielTube) subElements() []SubElement {
	return concentricSubElement(d.cross, d.radiusExt)
}

// Semicon is a semiconducting screen layer.
type Semicon struct {
	dielTube
}

// NewSemicon builds a semiconducting layer
func NewSemicon(radiusIn Value, size Dim, mat Material, temp Value) (*Semicon, error) {
	d, err := newDielTube(radiusIn, size, mat, temp)
	if err != nil {
		return nil, err
	}
	return &Semicon{d}, nil
}

// Insulator is the main dielectric layer. It differs from Semicon
// only in its role: the solenoid μ-correction applies to insulators
// wrapping a helical conductor layer.
type Insulator struct {
	dielTube
}

// NewInsulator builds an insulating layer
func NewInsulator(radiusIn Value, size Dim, mat Material, temp Value) (*Insulator, error) {
	d, err := newDielTube(radiusIn, size, mat, temp)
	if err != nil {
		return nil, err
	}
	return &Insulator{d}, nil
}
