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

// Package selection holds row selection state and forwards selections made
// by custom toolbar actions to the table that owns the selection.
package selection

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Mode is the row selection mode of a table.
type Mode string

const (
	ModeMultiple Mode = "multiple"
	ModeSingle   Mode = "single"
	ModeNone     Mode = "none"
)

// ParseMode parses a selection mode, defaulting to ModeMultiple.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeMultiple:
		return ModeMultiple, nil
	case ModeSingle:
		return ModeSingle, nil
	case ModeNone:
		return ModeNone, nil
	}
	return "", fmt.Errorf("unknown selection mode %q", s)
}

// SourceCustom tags selection updates coming from a custom toolbar action.
const SourceCustom = "custom"

var (
	// ErrInvalidArgumentType is returned when a selection is not a sequence
	// of row indices.
	ErrInvalidArgumentType = errors.New("invalid argument type")
	// ErrInvalidSelectionMode is returned when more than one row is selected
	// in single selection mode.
	ErrInvalidSelectionMode = errors.New("invalid selection mode")
)

// Record is one selected row. Index is the position in the displayed rows,
// DataIndex the position in the unfiltered dataset.
type Record struct {
	Index     int
	DataIndex int
}

// SelectedRows is the current selection of a table.
// len(Data) always equals the number of true entries in Lookup.
type SelectedRows struct {
	Data   []Record
	Lookup map[int]bool
}

// NewSelectedRows builds a selection of the given data indices. Duplicates
// are ignored.
func NewSelectedRows(indices ...int) SelectedRows {
	s := SelectedRows{
		Data:   make([]Record, 0, len(indices)),
		Lookup: make(map[int]bool, len(indices)),
	}
	for _, i := range indices {
		if s.Lookup[i] {
			continue
		}
		s.Lookup[i] = true
		s.Data = append(s.Data, Record{Index: len(s.Data), DataIndex: i})
	}
	return s
}

// Count returns the number of selected rows.
func (s SelectedRows) Count() int {
	return len(s.Data)
}

// IsSelected reports whether the row with the given data index is selected.
func (s SelectedRows) IsSelected(dataIndex int) bool {
	return s.Lookup[dataIndex]
}

// Indices returns the selected data indices in ascending order.
func (s SelectedRows) Indices() []int {
	out := make([]int, 0, len(s.Data))
	for _, r := range s.Data {
		out = append(out, r.DataIndex)
	}
	sort.Ints(out)
	return out
}

// Validate checks that Data and Lookup agree.
func (s SelectedRows) Validate() error {
	selected := 0
	for _, v := range s.Lookup {
		if v {
			selected++
		}
	}
	if selected != len(s.Data) {
		return fmt.Errorf("selection has %d records but %d lookup entries", len(s.Data), selected)
	}
	for _, r := range s.Data {
		if !s.Lookup[r.DataIndex] {
			return fmt.Errorf("selected row %d missing from lookup", r.DataIndex)
		}
	}
	return nil
}

// ParseIndices parses a comma separated list of row indices.
func ParseIndices(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return []int{}, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		i, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a row index", ErrInvalidArgumentType, p)
		}
		out = append(out, i)
	}
	return out, nil
}
