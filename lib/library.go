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
	"bytes"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v2"
)

// CablesLibrary maps unique cable ids to designs.
type CablesLibrary struct {
	designs map[string]*CableDesign
}

// NewCablesLibrary creates an empty library
func NewCablesLibrary() *CablesLibrary {
	return &CablesLibrary{
		designs: make(map[string]*CableDesign),
	}
}

// Add a design; duplicates are rejected.
func (lib *CablesLibrary) Add(d *CableDesign) error {
	if d == nil {
		return newErr(ErrInvalidValue, "nil design")
	}
	if _, ok := lib.designs[d.CableID]; ok {
		return newErr(ErrDuplicate, "cable '%s' already stored", d.CableID)
	}
	lib.designs[d.CableID] = d
	return nil
}

// Get a design by id
func (lib *CablesLibrary) Get(cableID string) (*CableDesign, bool) {
	d, ok := lib.designs[cableID]
	return d, ok
}

// Delete a design; missing ids are rejected.
func (lib *CablesLibrary) Delete(cableID string) error {
	if _, ok := lib.designs[cableID]; !ok {
		return newErr(ErrNotFound, "cable '%s' not stored", cableID)
	}
	delete(lib.designs, cableID)
	return nil
}

// Len returns the number of designs
func (lib *CablesLibrary) Len() int {
	return len(lib.designs)
}

// IDs returns the sorted cable ids
func (lib *CablesLibrary) IDs() (out []string) {
	for id := range lib.designs {
		out = append(out, id)
	}
	sort.Strings(out)
	return
}

//----------------------------------------------------------------------
// on-disk schema: constructor parameters only; derived quantities
// are recomputed on load.
//----------------------------------------------------------------------

type layerRecord struct {
	Type         string   `yaml:"type"`
	RadiusIn     Value    `yaml:"radius_in"`
	RadiusWire   *Value   `yaml:"radius_wire,omitempty"`
	NumWires     int      `yaml:"num_wires,omitempty"`
	RadiusExt    *Value   `yaml:"radius_ext,omitempty"`
	Thickness    *Value   `yaml:"thickness,omitempty"`
	Width        *Value   `yaml:"width,omitempty"`
	LayRatio     *Value   `yaml:"lay_ratio,omitempty"`
	LayDirection int      `yaml:"lay_direction,omitempty"`
	Material     Material `yaml:"material"`
	Temperature  Value    `yaml:"temperature"`
}

type componentRecord struct {
	ID             string        `yaml:"id"`
	ConductorGroup []layerRecord `yaml:"conductor_group"`
	InsulatorGroup []layerRecord `yaml:"insulator_group"`
}

type designRecord struct {
	CableID    string            `yaml:"cable_id"`
	Nominal    *NominalData      `yaml:"nominal_data,omitempty"`
	Components []componentRecord `yaml:"components"`
}

type libraryFile struct {
	Cables map[string]designRecord `yaml:"cables"`
}

// conductorRecord converts a conductor layer into its record
func conductorRecord(c Conductor) layerRecord {
	rec := layerRecord{
		RadiusIn:    c.RadiusIn(),
		Material:    c.Material(),
		Temperature: c.Temperature(),
	}
	switch l := c.(type) {
	case *WireArray:
		rw, lr := l.RadiusWire(), l.LayRatio()
		rec.Type = "WireArray"
		rec.RadiusWire = &rw
		rec.NumWires = l.NumWires()
		rec.LayRatio = &lr
		rec.LayDirection = l.LayDirection()
	case *Strip:
		th, wd, lr := l.Thickness(), l.Width(), l.LayRatio()
		rec.Type = "Strip"
		rec.Thickness = &th
		rec.Width = &wd
		rec.LayRatio = &lr
		rec.LayDirection = l.LayDirection()
	case *Tubular:
		re := l.RadiusExt()
		rec.Type = "Tubular"
		rec.RadiusExt = &re
	}
	return rec
}

// dielectricRecord converts a dielectric layer into its record
func dielectricRecord(d Dielectric) layerRecord {
	re := d.RadiusExt()
	rec := layerRecord{
		RadiusIn:    d.RadiusIn(),
		RadiusExt:   &re,
		Material:    d.Material(),
		Temperature: d.Temperature(),
	}
	switch d.(type) {
	case *Semicon:
		rec.Type = "Semicon"
	default:
		rec.Type = "Insulator"
	}
	return rec
}

// buildConductor reconstructs a conductor layer from its record
func buildConductor(rec layerRecord) (Conductor, error) {
	var lay Value
	if rec.LayRatio != nil {
		lay = *rec.LayRatio
	}
	switch rec.Type {
	case "WireArray":
		if rec.RadiusWire == nil {
			return nil, newErr(ErrIO, "wire array without radius_wire")
		}
		return NewWireArray(rec.RadiusIn, Radius(*rec.RadiusWire), rec.NumWires,
			lay, rec.LayDirection, rec.Material, rec.Temperature)
	case "Strip":
		if rec.Thickness == nil || rec.Width == nil {
			return nil, newErr(ErrIO, "strip without thickness/width")
		}
		return NewStrip(rec.RadiusIn, Thickness(*rec.Thickness), *rec.Width,
			lay, rec.LayDirection, rec.Material, rec.Temperature)
	case "Tubular":
		if rec.RadiusExt == nil {
			return nil, newErr(ErrIO, "tubular without radius_ext")
		}
		return NewTubular(rec.RadiusIn, Radius(*rec.RadiusExt), rec.Material, rec.Temperature)
	}
	return nil, newErr(ErrIO, "unknown conductor layer type '%s'", rec.Type)
}

// buildDielectric reconstructs a dielectric layer from its record
func buildDielectric(rec layerRecord) (Dielectric, error) {
	if rec.RadiusExt == nil {
		return nil, newErr(ErrIO, "dielectric layer without radius_ext")
	}
	switch rec.Type {
	case "Semicon":
		return NewSemicon(rec.RadiusIn, Radius(*rec.RadiusExt), rec.Material, rec.Temperature)
	case "Insulator":
		return NewInsulator(rec.RadiusIn, Radius(*rec.RadiusExt), rec.Material, rec.Temperature)
	}
	return nil, newErr(ErrIO, "unknown dielectric layer type '%s'", rec.Type)
}

// record converts a design into its on-disk form
func (d *CableDesign) record() designRecord {
	rec := designRecord{
		CableID: d.CableID,
		Nominal: d.Nominal,
	}
	for _, comp := range d.Components {
		cr := componentRecord{ID: comp.ID}
		for _, l := range comp.Cond.Layers() {
			cr.ConductorGroup = append(cr.ConductorGroup, conductorRecord(l))
		}
		for _, l := range comp.Ins.Layers() {
			cr.InsulatorGroup = append(cr.InsulatorGroup, dielectricRecord(l))
		}
		rec.Components = append(rec.Components, cr)
	}
	return rec
}

// buildDesign reconstructs a design from its record
func buildDesign(rec designRecord) (*CableDesign, error) {
	var design *CableDesign
	for _, cr := range rec.Components {
		if len(cr.ConductorGroup) == 0 || len(cr.InsulatorGroup) == 0 {
			return nil, newErr(ErrIO, "component without layers").AtComponent(cr.ID)
		}
		first, err := buildConductor(cr.ConductorGroup[0])
		if err != nil {
			return nil, err
		}
		cg, err := NewConductorGroup(first)
		if err != nil {
			return nil, err
		}
		for _, lr := range cr.ConductorGroup[1:] {
			layer, err := buildConductor(lr)
			if err != nil {
				return nil, err
			}
			if err = cg.Add(layer); err != nil {
				return nil, err
			}
		}
		fd, err := buildDielectric(cr.InsulatorGroup[0])
		if err != nil {
			return nil, err
		}
		ig, err := NewInsulatorGroup(fd)
		if err != nil {
			return nil, err
		}
		for _, lr := range cr.InsulatorGroup[1:] {
			layer, err := buildDielectric(lr)
			if err != nil {
				return nil, err
			}
			if err = ig.Add(layer); err != nil {
				return nil, err
			}
		}
		comp, err := NewCableComponent(cr.ID, cg, ig)
		if err != nil {
			return nil, err
		}
		if design == nil {
			if design, err = NewCableDesign(rec.CableID, comp, rec.Nominal); err != nil {
				return nil, err
			}
		} else if err = design.Add(comp); err != nil {
			return nil, err
		}
	}
	if design == nil {
		return nil, newErr(ErrIO, "design '%s' without components", rec.CableID)
	}
	return design, nil
}

//----------------------------------------------------------------------
// text serialization with content sniffing
//----------------------------------------------------------------------

// Save the library as structured text
func (lib *CablesLibrary) Save(w io.Writer) error {
	file := libraryFile{Cables: make(map[string]designRecord)}
	for id, d := range lib.designs {
		file.Cables[id] = d.record()
	}
	data, err := yaml.Marshal(file)
	if err != nil {
		return newErr(ErrIO, "encode cables: %v", err)
	}
	if _, err = w.Write(data); err != nil {
		return newErr(ErrIO, "write cables: %v", err)
	}
	return nil
}

// LoadCables reads a library from structured text
func LoadCables(r io.Reader) (*CablesLibrary, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, newErr(ErrIO, "read cables: %v", err)
	}
	if bytes.HasPrefix(data, sqliteMagic) {
		return nil, newErr(ErrIO, "binary cable store; open it with OpenStore")
	}
	var file libraryFile
	if err = yaml.UnmarshalStrict(data, &file); err != nil {
		return nil, newErr(ErrIO, "decode cables: %v", err)
	}
	if file.Cables == nil {
		return nil, newErr(ErrIO, "not a cables library (missing 'cables' root)")
	}
	lib := NewCablesLibrary()
	for id, rec := range file.Cables {
		if rec.CableID != id {
			return nil, newErr(ErrIO, "cable id '%s' stored under key '%s'", rec.CableID, id)
		}
		d, err := buildDesign(rec)
		if err != nil {
			return nil, err
		}
		lib.designs[id] = d
	}
	return lib, nil
}

// SaveFile writes the library to a named file
func (lib *CablesLibrary) SaveFile(fname string) error {
	f, err := os.Create(fname)
	if err != nil {
		return newErr(ErrIO, "create '%s': %v", fname, err)
	}
	defer f.Close()
	return lib.Save(f)
}

// LoadCablesFile reads a library from a named file. The content is
// sniffed: a SQLite store is routed to OpenStore regardless of the
// file extension.
func LoadCablesFile(fname string) (*CablesLibrary, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, newErr(ErrIO, "open '%s': %v", fname, err)
	}
	if bytes.HasPrefix(data, sqliteMagic) {
		store, err := OpenStore(fname)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.LoadLibrary()
	}
	return LoadCables(bytes.NewReader(data))
}
