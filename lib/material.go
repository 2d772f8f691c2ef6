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
	"io"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v2"
)

// Material is a value object with the five physical attributes of a
// cable layer material. Equality is structural.
type Material struct {
	Rho   Value `json:"rho" yaml:"rho"`     // resistivity (Ω·m); +Inf for a perfect insulator
	Epsr  Value `json:"eps_r" yaml:"eps_r"` // relative permittivity
	Mur   Value `json:"mu_r" yaml:"mu_r"`   // relative permeability
	T0    Value `json:"T0" yaml:"T0"`       // reference temperature (°C)
	Alpha Value `json:"alpha" yaml:"alpha"` // temperature coefficient (1/°C)
}

// NewMaterial validates and builds a material record
func NewMaterial(rho, epsr, mur, t0, alpha Value) (Material, error) {
	if rho.Float() < 0 || math.IsNaN(rho.Float()) {
		return Material{}, newErr(ErrInvalidValue, "negative resistivity %v", rho)
	}
	if epsr.Float() < 0 {
		return Material{}, newErr(ErrInvalidValue, "negative permittivity %v", epsr)
	}
	if mur.Float() < 0 {
		return Material{}, newErr(ErrInvalidValue, "negative permeability %v", mur)
	}
	return Material{Rho: rho, Epsr: epsr, Mur: mur, T0: t0, Alpha: alpha}, nil
}

// Equal compares two materials structurally (mean values)
func (m Material) Equal(n Material) bool {
	return m.Rho.Equal(n.Rho) && m.Epsr.Equal(n.Epsr) &&
		m.Mur.Equal(n.Mur) && m.T0.Equal(n.T0) && m.Alpha.Equal(n.Alpha)
}

//----------------------------------------------------------------------

// MaterialsLibrary maps unique names to material records.
type MaterialsLibrary struct {
	mats map[string]Material
}

// NewMaterialsLibrary creates an empty library
func NewMaterialsLibrary() *MaterialsLibrary {
	return &MaterialsLibrary{
		mats: make(map[string]Material),
	}
}

// DefaultMaterials returns a library seeded with the built-in
// records for common cable materials.
func DefaultMaterials() *MaterialsLibrary {
	lib := NewMaterialsLibrary()
	add := func(name string, rho, epsr, mur, t0, alpha float64) {
		lib.mats[name] = Material{V(rho), V(epsr), V(mur), V(t0), V(alpha)}
	}
	add("air", math.Inf(1), 1, 1, 20, 0)
	add("pec", 1e-20, 1, 1, 20, 0)
	add("copper", 1.7241e-8, 1, 0.999994, 20, 0.00393)
	add("aluminum", 2.8264e-8, 1, 1.000022, 20, 0.00429)
	add("xlpe", 1.97e14, 2.3, 1, 20, 0)
	add("pe", 1.97e14, 2.3, 1, 20, 0)
	add("semicon1", 1000, 1000, 1, 20, 0)
	add("semicon2", 500, 1000, 1, 20, 0)
	add("polyacrylate", 5300, 32.3, 1, 20, 0)
	return lib
}

// Add a named material; duplicates are rejected.
func (lib *MaterialsLibrary) Add(name string, m Material) error {
	if _, ok := lib.mats[name]; ok {
		return newErr(ErrDuplicate, "material '%s' already defined", name)
	}
	lib.mats[name] = m
	return nil
}

// Get a named material
func (lib *MaterialsLibrary) Get(name string) (Material, bool) {
	m, ok := lib.mats[name]
	return m, ok
}

// MustGet a named material; unknown names are a programming error in
// the built-in seeds and terminate.
func (lib *MaterialsLibrary) MustGet(name string) Material {
	m, ok := lib.mats[name]
	if !ok {
		panic("unknown material '" + name + "'")
	}
	return m
}

// Delete a named material; missing names are rejected.
func (lib *MaterialsLibrary) Delete(name string) error {
	if _, ok := lib.mats[name]; !ok {
		return newErr(ErrNotFound, "material '%s' not defined", name)
	}
	delete(lib.mats, name)
	return nil
}

// Len returns the number of materials
func (lib *MaterialsLibrary) Len() int {
	return len(lib.mats)
}

// Names returns the sorted material names
func (lib *MaterialsLibrary) Names() (out []string) {
	for name := range lib.mats {
		out = append(out, name)
	}
	sort.Strings(out)
	return
}

//----------------------------------------------------------------------
// (de-)serialization
//----------------------------------------------------------------------

// materialsFile is the on-disk schema
type materialsFile struct {
	Materials map[string]Material `yaml:"materials"`
}

// Save the library as structured text
func (lib *MaterialsLibrary) Save(w io.Writer) error {
	data, err := yaml.Marshal(materialsFile{Materials: lib.mats})
	if err != nil {
		return newErr(ErrIO, "encode materials: %v", err)
	}
	if _, err = w.Write(data); err != nil {
		return newErr(ErrIO, "write materials: %v", err)
	}
	return nil
}

// LoadMaterials reads a library from structured text
func LoadMaterials(r io.Reader) (*MaterialsLibrary, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, newErr(ErrIO, "read materials: %v", err)
	}
	var file materialsFile
	if err = yaml.UnmarshalStrict(data, &file); err != nil {
		return nil, newErr(ErrIO, "decode materials: %v", err)
	}
	lib := NewMaterialsLibrary()
	for name, m := range file.Materials {
		if m, err = NewMaterial(m.Rho, m.Epsr, m.Mur, m.T0, m.Alpha); err != nil {
			return nil, err
		}
		lib.mats[name] = m
	}
	return lib, nil
}

// SaveFile writes the library to a named file
func (lib *MaterialsLibrary) SaveFile(fname string) error {
	f, err := os.Create(fname)
	if err != nil {
		return newErr(ErrIO, "create '%s': %v", fname, err)
	}
	defer f.Close()
	return lib.Save(f)
}

// LoadMaterialsFile reads a library from a named file
func LoadMaterialsFile(fname string) (*MaterialsLibrary, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, newErr(ErrIO, "open '%s': %v", fname, err)
	}
	defer f.Close()
	return LoadMaterials(f)
}
