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

// FrequencyDependence produces the per-frequency soil parameters of
// one earth layer from its base (low-frequency) values. Results are
// absolute permittivity (ε0·εr) and permeability (μ0·μr).
// Implementations must be pure functions of their inputs.
type FrequencyDependence interface {
	// Name of the formulation
	Name() string

	// Evaluate the layer parameters across the frequency grid
	Evaluate(freqs []float64, rho, epsr, mur Value) (rhoF, epsF, muF []Value)
}

// ConstantProperties copies the base values across all frequencies.
type ConstantProperties struct{}

// Name of the formulation
func (ConstantProperties) Name() string { return "constant" }

// Evaluate the layer parameters across the frequency grid
func (ConstantProperties) Evaluate(freqs []float64, rho, epsr, mur Value) (rhoF, epsF, muF []Value) {
	n := len(freqs)
	rhoF = make([]Value, n)
	epsF = make([]Value, n)
	muF = make([]Value, n)
	for k := range freqs {
		rhoF[k] = rho
		epsF[k] = epsr.Scale(Eps_0)
		muF[k] = mur.Scale(Mu_0)
	}
	return
}

//----------------------------------------------------------------------

// EarthLayer is one horizontal (or vertical) stratum of the earth
// model with its base properties and the frequency-resolved arrays.
type EarthLayer struct {
	Rho       Value // base resistivity (Ω·m)
	Epsr      Value // base relative permittivity
	Mur       Value // base relative permeability
	Thickness Value // layer thickness (m); +Inf = semi-infinite

	// frequency-aligned arrays
	RhoF []Value // resistivity (Ω·m)
	EpsF []Value // absolute permittivity (F/m)
	MuF  []Value // absolute permeability (H/m)
}

// EarthModel is a layered half-space. The air layer is always first
// and frozen at ρ=∞, εr=μr=1, t=∞. Layers below follow the
// horizontal (or vertical) thickness rules.
type EarthModel struct {
	Freqs    []float64
	Layers   []*EarthLayer
	Vertical bool

	freqDep FrequencyDependence
	ehem    EHEMFormulation

	// effective homogeneous arrays (set when an EHEM is applied)
	effRho []Value
	effEps []Value
	effMu  []Value
}

// checkFreqGrid validates a frequency vector
func checkFreqGrid(freqs []float64) error {
	if len(freqs) == 0 {
		return newErr(ErrInvalidInput, "empty frequency vector")
	}
	prev := 0.
	for k, f := range freqs {
		if f <= 0 {
			return newErr(ErrInvalidInput, "non-positive frequency %g", f).AtFreq(k)
		}
		if f <= prev {
			return newErr(ErrInvalidInput, "frequency vector not monotonic").AtFreq(k)
		}
		prev = f
	}
	return nil
}

// NewEarthModel creates a model with the frozen air layer and one
// first earth layer. A nil formulation defaults to constant
// properties.
func NewEarthModel(freqs []float64, rho, epsr, mur, thickness Value,
	freqDep FrequencyDependence, vertical bool) (*EarthModel, error) {
	if err := checkFreqGrid(freqs); err != nil {
		return nil, err
	}
	if freqDep == nil {
		freqDep = ConstantProperties{}
	}
	mdl := &EarthModel{
		Freqs:    freqs,
		Vertical: vertical,
		freqDep:  freqDep,
	}
	// frozen air layer
	air := &EarthLayer{
		Rho:       V(math.Inf(1)),
		Epsr:      V(1),
		Mur:       V(1),
		Thickness: V(math.Inf(1)),
	}
	air.RhoF, air.EpsF, air.MuF = freqDep.Evaluate(freqs, air.Rho, air.Epsr, air.Mur)
	mdl.Layers = []*EarthLayer{air}

	if err := mdl.AddLayer(rho, epsr, mur, thickness); err != nil {
		return nil, err
	}
	return mdl, nil
}

// AddLayer appends an earth layer below (or beside, for vertical
// layering) the existing stack, enforcing the thickness rules:
// horizontally the first earth layer may be semi-infinite;
// vertically the first two may both be (defining the y=0 interface);
// beyond that no layer may be semi-infinite when the layer above it
// already is.
func (mdl *EarthModel) AddLayer(rho, epsr, mur, thickness Value) error {
	if rho.Float() <= 0 || epsr.Float() <= 0 || mur.Float() <= 0 {
		return newErr(ErrInvalidValue,
			"earth layer properties must be positive (ρ=%v, εr=%v, μr=%v)",
			rho, epsr, mur)
	}
	nEarth := len(mdl.Layers) - 1 // earth layers so far
	if math.IsInf(thickness.Float(), 1) {
		allowed := 1
		if mdl.Vertical {
			allowed = 2
		}
		if nEarth >= allowed && math.IsInf(mdl.Layers[len(mdl.Layers)-1].Thickness.Float(), 1) {
			return newErr(ErrInvalidInput,
				"two consecutive semi-infinite earth layers").AtLayer(nEarth + 1)
		}
	} else if thickness.Float() <= 0 {
		return newErr(ErrInvalidValue, "non-positive layer thickness %g", thickness.Float())
	}
	layer := &EarthLayer{
		Rho:       rho,
		Epsr:      epsr,
		Mur:       mur,
		Thickness: thickness,
	}
	layer.RhoF, layer.EpsF, layer.MuF = mdl.freqDep.Evaluate(mdl.Freqs, rho, epsr, mur)
	mdl.Layers = append(mdl.Layers, layer)
	mdl.effRho = nil // invalidate any applied reduction
	return nil
}

// NumLayers returns the layer count including air
func (mdl *EarthModel) NumLayers() int {
	return len(mdl.Layers)
}

// Formulation returns the active frequency-dependence formulation
func (mdl *EarthModel) Formulation() FrequencyDependence {
	return mdl.freqDep
}

//----------------------------------------------------------------------
// effective homogeneous earth (EHEM)
//----------------------------------------------------------------------

// EHEMFormulation reduces the layered model to one set of
// frequency-resolved ground properties.
type EHEMFormulation interface {
	// Name of the formulation
	Name() string

	// Reduce the model to (ρ, ε_abs, μ_abs) arrays
	Reduce(mdl *EarthModel) (rho, eps, mu []Value, err error)
}

// EnforceLayer is the canonical EHEM: the effective arrays are those
// of one designated earth layer (index counted over earth layers,
// 0-based; -1 selects the bottom layer).
type EnforceLayer struct {
	Index int
}

// Name of the formulation
func (e EnforceLayer) Name() string { return "enforce-layer" }

// Reduce the model to the arrays of the designated layer
func (e EnforceLayer) Reduce(mdl *EarthModel) (rho, eps, mu []Value, err error) {
	nEarth := len(mdl.Layers) - 1
	idx := e.Index
	if idx == -1 {
		idx = nEarth - 1
	}
	if idx < 0 || idx >= nEarth {
		err = newErr(ErrInvalidInput, "earth layer index %d out of range", e.Index)
		return
	}
	layer := mdl.Layers[idx+1]
	return layer.RhoF, layer.EpsF, layer.MuF, nil
}

// ApplyEHEM installs a reduction on the model
func (mdl *EarthModel) ApplyEHEM(f EHEMFormulation) error {
	rho, eps, mu, err := f.Reduce(mdl)
	if err != nil {
		return err
	}
	mdl.ehem = f
	mdl.effRho, mdl.effEps, mdl.effMu = rho, eps, mu
	return nil
}

// Effective ground parameters at frequency index k. With an applied
// EHEM these are the reduced arrays; otherwise the first earth layer
// (the stratum the cables sit in) is used.
func (mdl *EarthModel) Effective(k int) (rho, eps, mu Value) {
	if mdl.effRho != nil {
		return mdl.effRho[k], mdl.effEps[k], mdl.effMu[k]
	}
	layer := mdl.Layers[1]
	return layer.RhoF[k], layer.EpsF[k], layer.MuF[k]
}
