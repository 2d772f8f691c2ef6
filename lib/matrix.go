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
	"github.com/edp1096/sparse"
	"gonum.org/v1/gonum/mat"
)

// complexSystem wraps a sparse complex LU factorization for the
// grounded-conductor elimination. Indices are 0-based on this
// surface; the underlying solver is 1-based.
type complexSystem struct {
	size    int
	matrix  *sparse.Matrix
	rhs     []float64
	rhsImag []float64
}

// newComplexSystem allocates a size×size complex system
func newComplexSystem(size int) (*complexSystem, error) {
	config := &sparse.Configuration{
		Real:                    true,
		Complex:                 true,
		SeparatedComplexVectors: true,
		Expandable:              true,
		Translate:               false,
		ModifiedNodal:           false,
		TiesMultiplier:          5,
		PrinterWidth:            140,
		Annotate:                0,
	}
	m, err := sparse.Create(int64(size), config)
	if err != nil {
		return nil, newErr(ErrNumerical, "create %dx%d system: %v", size, size, err)
	}
	return &complexSystem{
		size:    size,
		matrix:  m,
		rhs:     make([]float64, size+1),
		rhsImag: make([]float64, size+1),
	}, nil
}

// set the matrix entry at (i, j)
func (s *complexSystem) set(i, j int, v complex128) {
	e := s.matrix.GetElement(int64(i+1), int64(j+1))
	e.Real = real(v)
	e.Imag = imag(v)
}

// factor the matrix (LU)
func (s *complexSystem) factor() error {
	if err := s.matrix.Factor(); err != nil {
		return newErr(ErrNumerical, "factorization failed: %v", err)
	}
	return nil
}

// solve for one right-hand side (after factor)
func (s *complexSystem) solve(b []complex128) ([]complex128, error) {
	for i, v := range b {
		s.rhs[i+1] = real(v)
		s.rhsImag[i+1] = imag(v)
	}
	sol, solImag, err := s.matrix.SolveComplex(s.rhs, s.rhsImag)
	if err != nil {
		return nil, newErr(ErrNumerical, "solve failed: %v", err)
	}
	x := make([]complex128, s.size)
	for i := range x {
		x[i] = complex(sol[i+1], solImag[i+1])
	}
	return x, nil
}

// destroy releases the solver
func (s *complexSystem) destroy() {
	if s.matrix != nil {
		s.matrix.Destroy()
	}
}

//----------------------------------------------------------------------

// kronReduce eliminates the grounded rows/columns g from the full
// matrix: M_red = M_pp − M_pg·M_gg⁻¹·M_gp. keep and ground hold the
// 0-based row indices of the two partitions.
func kronReduce(full *mat.CDense, keep, ground []int) (*mat.CDense, error) {
	np, ng := len(keep), len(ground)
	red := mat.NewCDense(np, np, nil)
	if ng == 0 {
		for i, ri := range keep {
			for j, rj := range keep {
				red.Set(i, j, full.At(ri, rj))
			}
		}
		return red, nil
	}

	sys, err := newComplexSystem(ng)
	if err != nil {
		return nil, err
	}
	defer sys.destroy()
	for i, gi := range ground {
		for j, gj := range ground {
			sys.set(i, j, full.At(gi, gj))
		}
	}
	if err = sys.factor(); err != nil {
		return nil, err
	}

	// X = M_gg⁻¹ · M_gp, one keep-column at a time
	x := make([][]complex128, np)
	b := make([]complex128, ng)
	for j, rj := range keep {
		for i, gi := range ground {
			b[i] = full.At(gi, rj)
		}
		if x[j], err = sys.solve(b); err != nil {
			return nil, err
		}
	}

	for i, ri := range keep {
		for j, rj := range keep {
			v := full.At(ri, rj)
			for g, rg := range ground {
				v -= full.At(ri, rg) * x[j][g]
			}
			red.Set(i, j, v)
		}
	}
	return red, nil
}
