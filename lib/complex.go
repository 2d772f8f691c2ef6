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
	"fmt"
	"math"
	"strings"
)

// Complex is an ordered pair of scalar values. Uncertainties
// propagate through both parts independently of each other but with
// full correlation tracking against shared sources.
type Complex struct {
	Re Value `json:"re" yaml:"re"` // real part
	Im Value `json:"im" yaml:"im"` // imaginary part
}

// Cx builds a complex from two scalar values
func Cx(re, im Value) Complex {
	return Complex{Re: re, Im: im}
}

// CxF builds a complex from two plain floats
func CxF(re, im float64) Complex {
	return Complex{Re: V(re), Im: V(im)}
}

// C128 returns the mean as a native complex
func (z Complex) C128() complex128 {
	return complex(z.Re.Float(), z.Im.Float())
}

// Add two complex values
func (z Complex) Add(w Complex) Complex {
	return Cx(z.Re.Add(w.Re), z.Im.Add(w.Im))
}

// Sub (subtract) two complex values
func (z Complex) Sub(w Complex) Complex {
	return Cx(z.Re.Sub(w.Re), z.Im.Sub(w.Im))
}

// Mul (multiply) two complex values
func (z Complex) Mul(w Complex) Complex {
	return Cx(
		z.Re.Mul(w.Re).Sub(z.Im.Mul(w.Im)),
		z.Re.Mul(w.Im).Add(z.Im.Mul(w.Re)),
	)
}

// Div (divide) two complex values
func (z Complex) Div(w Complex) Complex {
	return z.Mul(w.Inv())
}

// Inv returns the reciprocal 1/z
func (z Complex) Inv() Complex {
	d := z.Re.Mul(z.Re).Add(z.Im.Mul(z.Im))
	return Cx(z.Re.Div(d), z.Im.Div(d).Neg())
}

// Neg returns -z
func (z Complex) Neg() Complex {
	return Cx(z.Re.Neg(), z.Im.Neg())
}

// Conj returns the complex conjugate
func (z Complex) Conj() Complex {
	return Cx(z.Re, z.Im.Neg())
}

// Abs returns the magnitude |z|
func (z Complex) Abs() Value {
	return z.Re.Hypot(z.Im)
}

// Arg returns the principal argument
func (z Complex) Arg() Value {
	return z.Im.Atan2(z.Re)
}

// Log returns the principal-branch natural logarithm
func (z Complex) Log() Complex {
	return Cx(z.Abs().Log(), z.Arg())
}

// Exp returns e^z
func (z Complex) Exp() Complex {
	r := z.Re.Exp()
	return Cx(r.Mul(z.Im.Cos()), r.Mul(z.Im.Sin()))
}

// ScaleV multiplies a complex by a scalar value
func (z Complex) ScaleV(k Value) Complex {
	return Cx(z.Re.Mul(k), z.Im.Mul(k))
}

// IsNull returns true if the mean magnitude vanishes
func (z Complex) IsNull() bool {
	return IsNull(z.Re.Float()) && IsNull(z.Im.Float())
}

// String returns a human-readable complex value
func (z Complex) String() string {
	return FormatImpedance(z.C128(), 5)
}

//----------------------------------------------------------------------

// ParseImpedance (complex value) from string.
// A valid string is formed from one or two numbers combined; the single
// number or one of the two numbers can be tagged by a "j" or "i" as
// imaginary. Spaces and multiplication signs in a string are ignored.
//
// Examples of valid strings:
// * "50"     		// only real part -> (50,0)
// * "-j30.624"		// only imaginary part -> (0,-30.624)
// * "87.37+j41.74" // complex number -> (87.37,41.74)
// * "j41.74+87.37" // complex number -> (87.37,41.74)
func ParseImpedance(s string) (Z complex128, err error) {
	// remove redundant runes from string
	var t string
	for _, r := range s {
		if !strings.ContainsRune(" *·", r) {
			t += string(r)
		}
	}
	s = strings.ReplaceAll(t, "i", "j")

	// parse impedance
	var r, i float64
	if pos := strings.LastIndexAny(s, "+-"); pos < 1 {
		// only one part
		im := strings.ContainsRune(s, 'j')
		s = strings.ReplaceAll(s, "j", "")
		if r, err = ParseNumber(s); err != nil {
			return
		}
		if im {
			Z = complex(0, r)
		} else {
			Z = complex(r, 0)
		}

	} else {
		// split string into two values
		sign := (s[pos] == '-')
		v1, v2 := s[:pos], s[pos+1:]
		if strings.ContainsRune(v1, 'j') {
			v1, v2 = v2, v1
		}
		v2 = strings.Replace(v2, "j", "", 1)

		if r, err = ParseNumber(v1); err != nil {
			return
		}
		if i, err = ParseNumber(v2); err != nil {
			return
		}
		if sign {
			i = -i
		}
		Z = complex(r, i)
	}
	return
}

// FormatImpedance with scaled numbers (magnitude)
func FormatImpedance(z complex128, n int) string {
	if ic := imag(z); math.Abs(ic) > 1e-12 {
		s := '+'
		if ic < 0 {
			s = '-'
			ic = math.Abs(ic)
		}
		return fmt.Sprintf("%s %c j·%s",
			FormatNumber(real(z), n), s, FormatNumber(ic, n),
		)
	} else {
		return FormatNumber(real(z), n)
	}
}
