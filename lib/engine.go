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
	"context"
	"log"
	"math"

	"github.com/hashicorp/go-multierror"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// LogFreqs returns n log-spaced frequencies over [from, to]
func LogFreqs(from, to float64, n int) []float64 {
	return floats.LogSpan(make([]float64, n), from, to)
}

//----------------------------------------------------------------------
// pluggable formulations
//----------------------------------------------------------------------

// EarthImpedance is the earth-return contribution to the series
// impedance. The default closed form uses the equivalent return
// depth D_E = 659·√(ρ_e/f) and R'_E = ω·μ0/8; Carson/Pollaczek
// variants can be plugged in behind the same surface.
type EarthImpedance interface {
	// Name of the formulation
	Name() string

	// SelfTerm for a conductor with geometric mean radius gmr (m)
	SelfTerm(omega, rhoEarth, gmr float64) complex128

	// MutualTerm for two conductors at distance dist (m)
	MutualTerm(omega, rhoEarth, dist float64) complex128
}

// UniformEarth is the canonical equivalent-depth formulation.
type UniformEarth struct{}

// Name of the formulation
func (UniformEarth) Name() string { return "uniform-depth" }

// SelfTerm for a conductor with geometric mean radius gmr
func (UniformEarth) SelfTerm(omega, rhoEarth, gmr float64) complex128 {
	f := omega / CircAng
	de := earthReturnDepth(rhoEarth, f)
	return complex(omega*Mu_0/8, omega*Mu_0/CircAng*math.Log(de/gmr))
}

// MutualTerm for two conductors at distance dist
func (UniformEarth) MutualTerm(omega, rhoEarth, dist float64) complex128 {
	f := omega / CircAng
	de := earthReturnDepth(rhoEarth, f)
	return complex(omega*Mu_0/8, omega*Mu_0/CircAng*math.Log(de/dist))
}

// InternalImpedance is the extension point for skin-effect-aware
// conductor models (Bessel-function internal impedance). The core
// ships none; when absent, the DC resistance with temperature
// correction is used.
type InternalImpedance interface {
	// Name of the formulation
	Name() string

	// Z is the per-metre internal impedance of an annular conductor
	Z(omega, rho, mur, rin, rext float64) complex128
}

// FormulationSet selects the active sub-formulations of the engine.
type FormulationSet struct {
	Earth    EarthImpedance    // nil = UniformEarth
	Internal InternalImpedance // nil = DC resistance
	Raw      bool              // skip the grounded-conductor reduction
}

// formulation defaults
func (fs *FormulationSet) earth() EarthImpedance {
	if fs == nil || fs.Earth == nil {
		return UniformEarth{}
	}
	return fs.Earth
}

func (fs *FormulationSet) internal() InternalImpedance {
	if fs == nil {
		return nil
	}
	return fs.Internal
}

func (fs *FormulationSet) raw() bool {
	return fs != nil && fs.Raw
}

//----------------------------------------------------------------------
// flattening
//----------------------------------------------------------------------

// FlatConductor is one row of the flattened system: the geometry and
// effective per-metre properties of a single conductor with its
// surrounding insulation. Means drive the per-frequency assembly;
// the sigma fields report the propagated tolerances of the scalar
// pipeline.
type FlatConductor struct {
	Horz, Vert         float64 // axis position (m)
	RinCond, RextCond  float64 // conductor region (m)
	RinIns, RextIns    float64 // insulation region (m)
	RhoCond, MuCond    float64 // effective conductor material
	AlphaCond, T0Cond  float64
	Gmr                float64 // conductor GMR (m)
	RhoIns, MuIns      float64 // effective insulation material
	EpsIns             float64 // relative permittivity
	TanDelta           float64 // insulation loss factor at F_0
	Capacitance        float64 // shunt C (F/m)
	Conductance        float64 // shunt G (S/m)
	Phase              int     // 0 = grounded
	Cable              int     // cable index in the system

	// propagated tolerances
	SigmaR, SigmaC float64
}

// Flatten a system into per-conductor rows, ordered by cable and,
// inside each cable, by component (innermost first).
func Flatten(sys *LineCableSystem) (rows []FlatConductor) {
	for ci, pos := range sys.Cables {
		for _, comp := range pos.Design.Components {
			cg, ig := comp.Cond, comp.Ins
			row := FlatConductor{
				Horz:        pos.Horz.Float(),
				Vert:        pos.Vert.Float(),
				RinCond:     cg.RadiusIn().Float(),
				RextCond:    cg.RadiusExt().Float(),
				RinIns:      ig.RadiusIn().Float(),
				RextIns:     ig.RadiusExt().Float(),
				RhoCond:     comp.EffCond.Rho.Float(),
				MuCond:      comp.EffCond.Mur.Float(),
				AlphaCond:   comp.EffCond.Alpha.Float(),
				T0Cond:      comp.EffCond.T0.Float(),
				Gmr:         cg.Gmr().Float(),
				RhoIns:      comp.EffIns.Rho.Float(),
				MuIns:       comp.EffIns.Mur.Float(),
				EpsIns:      comp.EffIns.Epsr.Float(),
				TanDelta:    comp.LossFactor(V(CircAng * F_0)).Float(),
				Capacitance: ig.ShuntCapacitance().Float(),
				Conductance: ig.ShuntConductance().Float(),
				Phase:       pos.Phase(comp.ID),
				Cable:       ci,
				SigmaR:      cg.Resistance().Sigma(),
				SigmaC:      ig.ShuntCapacitance().Sigma(),
			}
			rows = append(rows, row)
		}
	}
	return
}

//----------------------------------------------------------------------
// problem and result
//----------------------------------------------------------------------

// Problem is one engine invocation: a system in an earth model,
// swept over a frequency grid at an operating temperature.
type Problem struct {
	System      *LineCableSystem
	Temperature Value // operating temperature (°C)
	Earth       *EarthModel
	Freqs       []float64
}

// LineParameters holds the per-unit-length series impedance and
// shunt admittance stacks: one square complex matrix per frequency,
// in stable cable/component order.
type LineParameters struct {
	Freqs []float64
	Z     []*mat.CDense // Ω/m
	Y     []*mat.CDense // S/m
}

// NumFreqs returns the frequency count
func (lp *LineParameters) NumFreqs() int {
	return len(lp.Freqs)
}

// Dim returns the matrix dimension
func (lp *LineParameters) Dim() int {
	if len(lp.Z) == 0 {
		return 0
	}
	r, _ := lp.Z[0].Dims()
	return r
}

// ZAt returns the series impedance entry (i,j) at frequency index k
func (lp *LineParameters) ZAt(i, j, k int) complex128 {
	return lp.Z[k].At(i, j)
}

// YAt returns the shunt admittance entry (i,j) at frequency index k
func (lp *LineParameters) YAt(i, j, k int) complex128 {
	return lp.Y[k].At(i, j)
}

//----------------------------------------------------------------------
// engine
//----------------------------------------------------------------------

// validate the problem at the engine boundary
func (p *Problem) validate() error {
	if p.System == nil || len(p.System.Cables) == 0 {
		return newErr(ErrInvalidInput, "empty system")
	}
	if err := checkFreqGrid(p.Freqs); err != nil {
		return err
	}
	if p.Earth == nil {
		return newErr(ErrInvalidInput, "no earth model")
	}
	if len(p.Earth.Freqs) != len(p.Freqs) {
		return newErr(ErrInvalidInput,
			"earth model resolves %d frequencies, problem has %d",
			len(p.Earth.Freqs), len(p.Freqs))
	}
	for k, f := range p.Freqs {
		if math.Abs(p.Earth.Freqs[k]-f) > Tol*f {
			return newErr(ErrInvalidInput, "earth model frequency grid mismatch").AtFreq(k)
		}
	}
	// cable overlap check
	cbl := p.System.Cables
	for i := 0; i < len(cbl)-1; i++ {
		for j := i + 1; j < len(cbl); j++ {
			dx := cbl[i].Horz.Float() - cbl[j].Horz.Float()
			dy := cbl[i].Vert.Float() - cbl[j].Vert.Float()
			dist := math.Hypot(dx, dy)
			if dist < cbl[i].RadiusExt().Float()+cbl[j].RadiusExt().Float()-Tol {
				return newErr(ErrInvalidInput,
					"cables %d and %d overlap (distance %g m)", i, j, dist).AtCable(j)
			}
		}
	}
	if fmax := p.Freqs[len(p.Freqs)-1]; fmax > FreqMax {
		log.Printf("warning: max frequency %g Hz beyond quasi-TEM validity (%g Hz)",
			fmax, FreqMax)
	}
	return nil
}

// conductorDistance is the coupling distance between two rows: the
// GMR of the outer conductor for two conductors of the same cable
// (concentric axes), the straight center distance when both axes
// share the half-space, the image distance otherwise.
func conductorDistance(a, b *FlatConductor) float64 {
	if a.Cable == b.Cable {
		if a.RextCond > b.RextCond {
			return a.Gmr
		}
		return b.Gmr
	}
	dx := a.Horz - b.Horz
	if (a.Vert >= 0) == (b.Vert >= 0) {
		return math.Hypot(dx, a.Vert-b.Vert)
	}
	return math.Hypot(dx, math.Abs(a.Vert)+math.Abs(b.Vert))
}

// Compute assembles the per-unit-length parameter stacks for the
// problem. Per-frequency failures are aggregated; cancellation is
// polled between frequency steps.
func Compute(ctx context.Context, p Problem, form *FormulationSet) (*LineParameters, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	rows := Flatten(p.System)
	n := len(rows)
	earth := form.earth()
	internal := form.internal()
	temp := p.Temperature.Float()

	var keep, ground []int
	for i := range rows {
		if rows[i].Phase > 0 {
			keep = append(keep, i)
		} else {
			ground = append(ground, i)
		}
	}
	if len(keep) == 0 {
		return nil, newErr(ErrInvalidInput, "all conductors grounded")
	}

	lp := &LineParameters{Freqs: p.Freqs}
	var errs error
	for k, f := range p.Freqs {
		if ctx != nil {
			if err := ctx.Err(); err != nil {
				return nil, newErr(ErrInvalidInput, "canceled: %v", err).AtFreq(k)
			}
		}
		w := CircAng * f
		rhoE, _, _ := p.Earth.Effective(k)

		zFull := mat.NewCDense(n, n, nil)
		yFull := mat.NewCDense(n, n, nil)
		for i := range rows {
			ri := &rows[i]

			// series self impedance
			var zc complex128
			if internal != nil {
				zc = internal.Z(w, ri.RhoCond, ri.MuCond, ri.RinCond, ri.RextCond)
			} else {
				rdc := ri.RhoCond / (math.Pi * (Sqr(ri.RextCond) - Sqr(ri.RinCond)))
				zc = complex(rdc*(1+ri.AlphaCond*(temp-ri.T0Cond)), 0)
			}
			zFull.Set(i, i, zc+earth.SelfTerm(w, rhoE.Float(), ri.Gmr))

			// shunt self admittance
			yFull.Set(i, i, complex(ri.Conductance, w*ri.Capacitance))

			// mutual couplings
			for j := i + 1; j < n; j++ {
				zm := earth.MutualTerm(w, rhoE.Float(), conductorDistance(ri, &rows[j]))
				zFull.Set(i, j, zm)
				zFull.Set(j, i, zm)
			}
		}

		zk, yk := zFull, yFull
		if !form.raw() {
			var err error
			if zk, err = kronReduce(zFull, keep, ground); err != nil {
				errs = multierror.Append(errs, tagFreq(err, k))
				continue
			}
			if yk, err = kronReduce(yFull, keep, ground); err != nil {
				errs = multierror.Append(errs, tagFreq(err, k))
				continue
			}
		}
		lp.Z = append(lp.Z, zk)
		lp.Y = append(lp.Y, yk)
	}
	if errs != nil {
		return nil, errs
	}
	return lp, nil
}

// tagFreq attaches the frequency index to a model error
func tagFreq(err error, k int) error {
	if e, ok := err.(*Error); ok {
		return e.AtFreq(k)
	}
	return newErr(ErrNumerical, "%v", err).AtFreq(k)
}
