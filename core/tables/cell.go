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

package tables

import (
	"fmt"
	"strconv"

	"github.com/google/safehtml"
	"github.com/google/tableselect/core/columns"
)

// CellKind tells raw cells apart from cells produced by a column renderer.
type CellKind int

const (
	CellRaw CellKind = iota
	CellRendered
)

func (k CellKind) String() string {
	switch k {
	case CellRaw:
		return "raw"
	case CellRendered:
		return "rendered"
	}
	return "unknown"
}

// Cell is one value of a row. A rendered cell keeps the presentation built
// by the column renderer and, when known, the raw value it was built from.
type Cell struct {
	kind         CellKind
	value        any
	hasValue     bool
	presentation safehtml.HTML
}

// Raw creates a cell holding a raw value.
func Raw(value any) Cell {
	return Cell{kind: CellRaw, value: value, hasValue: true}
}

// Rendered creates a rendered cell that carries its raw value.
func Rendered(raw any, presentation safehtml.HTML) Cell {
	return Cell{kind: CellRendered, value: raw, hasValue: true, presentation: presentation}
}

// Presented creates a rendered cell without a raw value. Its raw value can
// only be recovered from the unrendered dataset.
func Presented(presentation safehtml.HTML) Cell {
	return Cell{kind: CellRendered, presentation: presentation}
}

func (c Cell) Kind() CellKind {
	return c.kind
}

func (c Cell) IsRendered() bool {
	return c.kind == CellRendered
}

// Value returns the raw value, nil for a Presented cell.
func (c Cell) Value() any {
	return c.value
}

// HasValue reports whether the cell carries a raw value.
func (c Cell) HasValue() bool {
	return c.hasValue
}

func (c Cell) Presentation() safehtml.HTML {
	return c.presentation
}

// HTML returns what the table body shows for the cell.
func (c Cell) HTML() safehtml.HTML {
	if c.kind == CellRendered {
		return c.presentation
	}
	return safehtml.HTMLEscaped(c.String())
}

// String formats the raw value. Presented cells format as their
// presentation text.
func (c Cell) String() string {
	if !c.hasValue && c.kind == CellRendered {
		return c.presentation.String()
	}
	return FormatValue(c.value)
}

func (c Cell) clone() Cell {
	c.value = cloneValue(c.value)
	return c
}

// FormatValue formats a raw value the way it is written to CSV.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case float64:
		return columns.FormatFloat64(val)
	case bool:
		return strconv.FormatBool(val)
	case []any:
		s := ""
		for i, e := range val {
			if i > 0 {
				s += ","
			}
			s += FormatValue(e)
		}
		return s
	}
	return fmt.Sprint(v)
}

// cloneValue copies slice and map values so clones never share storage
// with the original. Scalars are returned as is.
func cloneValue(v any) any {
	switch val := v.(type) {
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		return append([]string(nil), val...)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = cloneValue(e)
		}
		return out
	}
	return v
}
