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
	"database/sql"
	"encoding/gob"
	"errors"

	_ "github.com/mattn/go-sqlite3"
)

// sqliteMagic is the SQLite file header used for content sniffing
var sqliteMagic = []byte("SQLite format 3\x00")

// store initialization statements
var ini = `
create table cables (
    id        varchar(63) primary key, -- cable id
    label     varchar(63) default '',  -- nameplate designation
    numcomp   integer not null,        -- number of components
    data      blob not null            -- gob-encoded design record
);
`

// Store is a binary cable library backed by SQLite. Designs are held
// as gob blobs (bitwise-lossless floats) next to queryable nameplate
// columns.
type Store struct {
	inst *sql.DB
}

// OpenStore opens (and initializes if needed) a store file
func OpenStore(fname string) (st *Store, err error) {
	st = new(Store)
	if st.inst, err = sql.Open("sqlite3", fname); err != nil {
		return nil, newErr(ErrIO, "open store '%s': %v", fname, err)
	}
	var num int64
	row := st.inst.QueryRow("select count(*) from cables")
	if err = row.Scan(&num); err != nil {
		// initialize store
		if _, err = st.inst.Exec(ini); err != nil {
			return nil, newErr(ErrIO, "initialize store: %v", err)
		}
	}
	return st, nil
}

// Close the store
func (st *Store) Close() error {
	if st.inst == nil {
		return errors.New("store not opened")
	}
	return st.inst.Close()
}

// encodeDesign converts a design into its gob blob
func encodeDesign(d *CableDesign) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(d.record()); err != nil {
		return nil, newErr(ErrIO, "encode design '%s': %v", d.CableID, err)
	}
	return buf.Bytes(), nil
}

// decodeDesign rebuilds a design from its gob blob
func decodeDesign(data []byte) (*CableDesign, error) {
	var rec designRecord
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&rec); err != nil {
		return nil, newErr(ErrIO, "decode design: %v", err)
	}
	return buildDesign(rec)
}

// Put a design into the store (insert or replace)
func (st *Store) Put(d *CableDesign) error {
	data, err := encodeDesign(d)
	if err != nil {
		return err
	}
	label := ""
	if d.Nominal != nil {
		label = d.Nominal.Designation
	}
	_, err = st.inst.Exec(
		"replace into cables(id,label,numcomp,data) values(?,?,?,?)",
		d.CableID, label, d.Len(), data,
	)
	if err != nil {
		return newErr(ErrIO, "store design '%s': %v", d.CableID, err)
	}
	return nil
}

// GetDesign retrieves a design by id
func (st *Store) GetDesign(cableID string) (*CableDesign, error) {
	row := st.inst.QueryRow("select data from cables where id = ?", cableID)
	var data []byte
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, newErr(ErrNotFound, "cable '%s' not stored", cableID)
		}
		return nil, newErr(ErrIO, "read design '%s': %v", cableID, err)
	}
	return decodeDesign(data)
}

// DeleteDesign removes a design by id
func (st *Store) DeleteDesign(cableID string) error {
	res, err := st.inst.Exec("delete from cables where id = ?", cableID)
	if err != nil {
		return newErr(ErrIO, "delete design '%s': %v", cableID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return newErr(ErrNotFound, "cable '%s' not stored", cableID)
	}
	return nil
}

// List returns the stored cable ids in ascending order
func (st *Store) List() (ids []string, err error) {
	rows, err := st.inst.Query("select id from cables order by id asc")
	if err != nil {
		return nil, newErr(ErrIO, "list store: %v", err)
	}
	defer rows.Close()
	var id string
	for rows.Next() {
		if err = rows.Scan(&id); err != nil {
			return nil, newErr(ErrIO, "list store: %v", err)
		}
		ids = append(ids, id)
	}
	return
}

// SaveLibrary writes all designs of a library into the store
func (st *Store) SaveLibrary(lib *CablesLibrary) error {
	for _, id := range lib.IDs() {
		d, _ := lib.Get(id)
		if err := st.Put(d); err != nil {
			return err
		}
	}
	return nil
}

// LoadLibrary assembles a library from all stored designs
func (st *Store) LoadLibrary() (*CablesLibrary, error) {
	ids, err := st.List()
	if err != nil {
		return nil, err
	}
	lib := NewCablesLibrary()
	for _, id := range ids {
		d, err := st.GetDesign(id)
		if err != nil {
			return nil, err
		}
		if err = lib.Add(d); err != nil {
			return nil, err
		}
	}
	return lib, nil
}
