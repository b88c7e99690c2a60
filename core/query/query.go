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

package query

import (
	"net/url"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/google/safehtml"
)

// SortColumn is one entry of the sort order. In the URL a leading "-"
// marks a descending column (e.g. "sort=-amount,status").
type SortColumn struct {
	Name       string
	Descending bool
}

// Query represents the parsed state of a table view URL
type Query struct {
	// Base path (e.g., "/table")
	Path string

	Table     string       // The table being viewed
	Hidden    []string     // Columns whose display state is "false"
	Selected  []int        // Selected row indices into the unfiltered dataset
	SortOrder []SortColumn // Sort order for the displayed rows
	Limit     int          // Number of rows to display (0 = show all)
}

// NewQuery creates a Query from a URL
func NewQuery(u *url.URL) *Query {
	state := &Query{
		Path:  u.Path,
		Limit: 25, // Default limit
	}

	q := u.Query()

	state.Table = q.Get("table")

	if hiddenStr := q.Get("hidden"); hiddenStr != "" {
		state.Hidden = strings.Split(hiddenStr, ",")
	} else {
		state.Hidden = []string{}
	}

	// Malformed indices are dropped; the URL is user editable.
	state.Selected = []int{}
	if selectedStr := q.Get("selected"); selectedStr != "" {
		for _, part := range strings.Split(selectedStr, ",") {
			if i, err := strconv.Atoi(strings.TrimSpace(part)); err == nil && i >= 0 {
				state.Selected = append(state.Selected, i)
			}
		}
		state.Selected = normalize(state.Selected)
	}

	if sortStr := q.Get("sort"); sortStr != "" {
		for _, part := range strings.Split(sortStr, ",") {
			if part == "" || part == "-" {
				continue
			}
			if strings.HasPrefix(part, "-") {
				state.SortOrder = append(state.SortOrder, SortColumn{Name: part[1:], Descending: true})
			} else {
				state.SortOrder = append(state.SortOrder, SortColumn{Name: part})
			}
		}
	}

	if limitStr := q.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit >= 0 {
			state.Limit = limit
		}
	}

	return state
}

// normalize sorts and deduplicates indices
func normalize(indices []int) []int {
	out := append([]int(nil), indices...)
	sort.Ints(out)
	return slices.Compact(out)
}

// Clone returns a deep copy of the Query
func (s *Query) Clone() *Query {
	return &Query{
		Path:      s.Path,
		Table:     s.Table,
		Hidden:    append([]string{}, s.Hidden...),
		Selected:  append([]int{}, s.Selected...),
		SortOrder: append([]SortColumn(nil), s.SortOrder...),
		Limit:     s.Limit,
	}
}

// ToURL converts the Query back to a URL string
func (s *Query) ToURL() string {
	u := &url.URL{
		Path: s.Path,
	}

	q := u.Query()

	if s.Table != "" {
		q.Set("table", s.Table)
	}

	if len(s.Hidden) > 0 {
		q.Set("hidden", strings.Join(s.Hidden, ","))
	}

	if len(s.Selected) > 0 {
		parts := make([]string, len(s.Selected))
		for i, idx := range s.Selected {
			parts[i] = strconv.Itoa(idx)
		}
		q.Set("selected", strings.Join(parts, ","))
	}

	if len(s.SortOrder) > 0 {
		parts := make([]string, len(s.SortOrder))
		for i, sc := range s.SortOrder {
			if sc.Descending {
				parts[i] = "-" + sc.Name
			} else {
				parts[i] = sc.Name
			}
		}
		q.Set("sort", strings.Join(parts, ","))
	}

	// Add limit parameter (always included in URL)
	q.Set("limit", strconv.Itoa(s.Limit))

	u.RawQuery = q.Encode()
	return u.String()
}

// ToSafeURL converts the Query to a safehtml.URL
func (s *Query) ToSafeURL() safehtml.URL {
	// URLSanitized sanitizes the input string and returns a URL
	return safehtml.URLSanitized(s.ToURL())
}

// IsSelected checks if a row index is selected
func (s *Query) IsSelected(index int) bool {
	_, found := slices.BinarySearch(s.Selected, index)
	return found
}

// IsColumnHidden checks if a column is in the hidden columns list
func (s *Query) IsColumnHidden(column string) bool {
	return slices.Contains(s.Hidden, column)
}

// WithPath returns a URL carrying the same state to another endpoint
func (s *Query) WithPath(path string) safehtml.URL {
	newState := s.Clone()
	newState.Path = path
	return newState.ToSafeURL()
}

// WithRowToggled returns a URL with the row selection toggled.
// If single is true, selecting a row replaces the current selection.
func (s *Query) WithRowToggled(index int, single bool) safehtml.URL {
	newState := s.Clone()
	if s.IsSelected(index) {
		newState.Selected = slices.DeleteFunc(newState.Selected, func(i int) bool { return i == index })
	} else if single {
		newState.Selected = []int{index}
	} else {
		newState.Selected = normalize(append(newState.Selected, index))
	}
	return newState.ToSafeURL()
}

// WithSelected returns a URL with the selection replaced
func (s *Query) WithSelected(indices []int) safehtml.URL {
	newState := s.Clone()
	newState.Selected = normalize(indices)
	return newState.ToSafeURL()
}

// WithColumnToggled returns a URL with the column hidden or shown
func (s *Query) WithColumnToggled(column string) safehtml.URL {
	newState := s.Clone()
	if s.IsColumnHidden(column) {
		newState.Hidden = slices.DeleteFunc(newState.Hidden, func(c string) bool { return c == column })
	} else {
		newState.Hidden = append(newState.Hidden, column)
	}
	return newState.ToSafeURL()
}

// WithSortToggled returns a URL sorting by the column alone. Sorting by the
// current primary column flips its direction.
func (s *Query) WithSortToggled(column string) safehtml.URL {
	newState := s.Clone()
	descending := false
	if len(s.SortOrder) > 0 && s.SortOrder[0].Name == column {
		descending = !s.SortOrder[0].Descending
	}
	newState.SortOrder = []SortColumn{{Name: column, Descending: descending}}
	return newState.ToSafeURL()
}

// WithLimit returns a URL with a different row limit
func (s *Query) WithLimit(limit int) safehtml.URL {
	newState := s.Clone()
	newState.Limit = limit
	return newState.ToSafeURL()
}
