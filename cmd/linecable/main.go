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

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"

	"github.com/emfields/linecable/lib"
)

// Trifoil reference run:
//
// Three identical single-core screened cables in touching trifoil,
// cores mapped to phases 1..3, screens solidly grounded. The cable
// geometry is built from the built-in materials; the earth is a
// homogeneous half-space. The per-unit-length Z and Y stacks are
// printed for the first and last frequency of a log-spaced sweep.
func main() {
	var (
		fromS, toS string  // frequency range
		num        int     // number of frequency points
		rhoE       float64 // earth resistivity
		save       string  // optional library output file
	)
	flag.StringVar(&fromS, "from", "50", "lowest frequency (Hz)")
	flag.StringVar(&toS, "to", "1M", "highest frequency (Hz)")
	flag.IntVar(&num, "n", 10, "number of frequency points")
	flag.Float64Var(&rhoE, "rho", 100, "earth resistivity (Ohm*m)")
	flag.StringVar(&save, "save", "", "write the demo design library to file")
	flag.Parse()

	from, err := lib.ParseNumber(fromS)
	if err != nil {
		log.Fatalf("bad frequency '%s': %v", fromS, err)
	}
	to, err := lib.ParseNumber(toS)
	if err != nil {
		log.Fatalf("bad frequency '%s': %v", toS, err)
	}

	design, err := demoDesign()
	if err != nil {
		log.Fatal(err)
	}
	if len(save) > 0 {
		cl := lib.NewCablesLibrary()
		if err = cl.Add(design); err == nil {
			err = cl.SaveFile(save)
		}
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("library written to '%s'", save)
	}

	// touching trifoil around the origin, one metre deep
	d := design.RadiusExt().Float() * 2
	h := d * math.Sqrt(3) / 2
	phases := func(core int) map[string]int {
		return map[string]int{"core": core, "screen": 0}
	}
	sys, err := lib.NewLineCableSystem("trifoil", lib.V(1000), mustPos(design, -d/2, -1, phases(1)))
	if err != nil {
		log.Fatal(err)
	}
	if err = sys.AddCable(design, lib.V(d/2), lib.V(-1), phases(2)); err != nil {
		log.Fatal(err)
	}
	if err = sys.AddCable(design, lib.V(0), lib.V(-1-h), phases(3)); err != nil {
		log.Fatal(err)
	}

	freqs := lib.LogFreqs(from, to, num)
	earth, err := lib.NewEarthModel(freqs, lib.V(rhoE), lib.V(10), lib.V(1),
		lib.V(math.Inf(1)), nil, false)
	if err != nil {
		log.Fatal(err)
	}

	params, err := lib.Compute(context.Background(), lib.Problem{
		System:      sys,
		Temperature: lib.V(20),
		Earth:       earth,
		Freqs:       freqs,
	}, nil)
	if err != nil {
		log.Fatal(err)
	}

	for _, k := range []int{0, params.NumFreqs() - 1} {
		fmt.Printf("f = %sHz:\n", lib.FormatNumber(freqs[k], 4))
		printMatrix("Z [Ohm/m]", params, k, params.ZAt)
		printMatrix("Y [S/m]", params, k, params.YAt)
	}
}

// mustPos builds a cable position or dies
func mustPos(d *lib.CableDesign, x, y float64, phases map[string]int) *lib.CablePosition {
	pos, err := lib.NewCablePosition(d, lib.V(x), lib.V(y), phases)
	if err != nil {
		log.Fatal(err)
	}
	return pos
}

// printMatrix dumps one frequency slice
func printMatrix(title string, lp *lib.LineParameters, k int, at func(i, j, k int) complex128) {
	fmt.Printf("  %s:\n", title)
	n := lp.Dim()
	for i := 0; i < n; i++ {
		fmt.Printf("   ")
		for j := 0; j < n; j++ {
			fmt.Printf(" [%s]", lib.FormatImpedance(at(i, j, k), 4))
		}
		fmt.Println()
	}
}

// demoDesign builds a compact single-core XLPE cable: stranded
// aluminum core, semicon-bounded XLPE insulation, copper wire screen
// laid in the reverse direction, PE jacket.
func demoDesign() (*lib.CableDesign, error) {
	mats := lib.DefaultMaterials()
	al := mats.MustGet("aluminum")
	cu := mats.MustGet("copper")
	sc1 := mats.MustGet("semicon1")
	sc2 := mats.MustGet("semicon2")
	xlpe := mats.MustGet("xlpe")
	pe := mats.MustGet("pe")
	t := lib.V(20)

	// core: central wire + one stranded layer
	w1, err := lib.NewWireArray(lib.V(0), lib.Diameter(lib.V(0.0047)), 1,
		lib.V(0), 1, al, t)
	if err != nil {
		return nil, err
	}
	core, err := lib.NewConductorGroup(w1)
	if err != nil {
		return nil, err
	}
	w2, err := lib.NewWireArray(core.RadiusExt(), lib.Diameter(lib.V(0.0047)), 6,
		lib.V(15), 1, al, t)
	if err != nil {
		return nil, err
	}
	if err = core.Add(w2); err != nil {
		return nil, err
	}

	// insulation stack: semicon1 / XLPE / semicon2
	s1, err := lib.NewSemicon(core.RadiusExt(), lib.Thickness(lib.V(0.0008)), sc1, t)
	if err != nil {
		return nil, err
	}
	ins, err := lib.NewInsulatorGroup(s1)
	if err != nil {
		return nil, err
	}
	xl, err := lib.NewInsulator(ins.RadiusExt(), lib.Thickness(lib.V(0.0055)), xlpe, t)
	if err != nil {
		return nil, err
	}
	if err = ins.Add(xl); err != nil {
		return nil, err
	}
	s2, err := lib.NewSemicon(ins.RadiusExt(), lib.Thickness(lib.V(0.0008)), sc2, t)
	if err != nil {
		return nil, err
	}
	if err = ins.Add(s2); err != nil {
		return nil, err
	}
	coreComp, err := lib.NewCableComponent("core", core, ins)
	if err != nil {
		return nil, err
	}

	// screen: copper wires + jacket
	sw, err := lib.NewWireArray(coreComp.RadiusExt(), lib.Diameter(lib.V(0.0012)), 40,
		lib.V(12), -1, cu, t)
	if err != nil {
		return nil, err
	}
	scr, err := lib.NewConductorGroup(sw)
	if err != nil {
		return nil, err
	}
	jk, err := lib.NewInsulator(scr.RadiusExt(), lib.Thickness(lib.V(0.0025)), pe, t)
	if err != nil {
		return nil, err
	}
	jkg, err := lib.NewInsulatorGroup(jk)
	if err != nil {
		return nil, err
	}
	scrComp, err := lib.NewCableComponent("screen", scr, jkg)
	if err != nil {
		return nil, err
	}

	design, err := lib.NewCableDesign("demo-xlpe", coreComp, &lib.NominalData{
		Designation: "NA2XS(F)2Y 1x120",
	})
	if err != nil {
		return nil, err
	}
	return design, design.Add(scrComp)
}
