/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package columns

import (
	"fmt"

	"github.com/google/safehtml"
)

// DisplayState controls whether a column currently appears in the table.
type DisplayState string

const (
	DisplayTrue  DisplayState = "true"
	DisplayFalse DisplayState = "false"
	// DisplayExcluded columns are never shown and cannot be toggled on.
	DisplayExcluded DisplayState = "excluded"
)

// ParseDisplayState parses a display state, defaulting to DisplayTrue for
// an empty string.
func ParseDisplayState(s string) (DisplayState, error) {
	switch DisplayState(s) {
	case "", DisplayTrue:
		return DisplayTrue, nil
	case DisplayFalse:
		return DisplayFalse, nil
	case DisplayExcluded:
		return DisplayExcluded, nil
	}
	return "", fmt.Errorf("unknown display state %q", s)
}

// CellRenderer produces the presentation of a raw value for the table body.
// row is the index of the row in the unfiltered dataset.
type CellRenderer func(value any, row int) safehtml.HTML

type ColumnDef struct {
	name        string // must not contain any of the following characters: & = : ,
	displayName string
	display     DisplayState
	download    bool
	renderer    CellRenderer
}

// NewColumnDef creates a new ColumnDef that is displayed and downloadable.
func NewColumnDef(name, displayName string) *ColumnDef {
	return &ColumnDef{
		name:        name,
		displayName: displayName,
		display:     DisplayTrue,
		download:    true,
	}
}

func (cd *ColumnDef) Name() string {
	return cd.name
}

// DisplayName is the label used in the table header and the CSV header.
// Falls back to the name.
func (cd *ColumnDef) DisplayName() string {
	if cd.displayName == "" {
		return cd.name
	}
	return cd.displayName
}

func (cd *ColumnDef) Display() DisplayState {
	return cd.display
}

// Displayed reports whether the column is currently visible.
func (cd *ColumnDef) Displayed() bool {
	return cd.display == DisplayTrue
}

// Download reports whether the column is written to CSV exports.
func (cd *ColumnDef) Download() bool {
	return cd.download
}

func (cd *ColumnDef) Renderer() CellRenderer {
	return cd.renderer
}

// WithDisplay returns a copy of the definition with the given display state.
// Excluded columns stay excluded.
func (cd *ColumnDef) WithDisplay(state DisplayState) *ColumnDef {
	c := *cd
	if cd.display != DisplayExcluded {
		c.display = state
	}
	return &c
}

// SetDisplay sets the initial display state. Intended for table setup only;
// use WithDisplay for per-request changes.
func (cd *ColumnDef) SetDisplay(state DisplayState) *ColumnDef {
	cd.display = state
	return cd
}

// SetDisplayName replaces the header label.
func (cd *ColumnDef) SetDisplayName(displayName string) *ColumnDef {
	cd.displayName = displayName
	return cd
}

// SetDownload controls whether the column is part of CSV exports.
func (cd *ColumnDef) SetDownload(download bool) *ColumnDef {
	cd.download = download
	return cd
}

// SetRenderer attaches a custom body renderer to the column.
func (cd *ColumnDef) SetRenderer(r CellRenderer) *ColumnDef {
	cd.renderer = r
	return cd
}

type IDataColumn interface {
	ColumnDef() *ColumnDef
	Length() int
	// Value returns the raw value at row i.
	Value(i int) (any, error)
	GetString(i int) (string, error)
	// Subset returns a new column holding only the given rows, in order.
	Subset(indices []int) IDataColumn
}

func outOfRange(i, length int) error {
	return fmt.Errorf("index %d out of bounds (length: %d)", i, length)
}

// subset copies the given rows of data into a new slice.
func subset[T any](data []T, indices []int) []T {
	out := make([]T, 0, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(data) {
			out = append(out, data[i])
		}
	}
	return out
}
