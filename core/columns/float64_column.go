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
	"math"
	"strconv"
)

// Float64Column stores float64 (double) values.
type Float64Column struct {
	columnDef *ColumnDef
	data      []float64
}

// NewFloat64Column creates a new float64 column.
func NewFloat64Column(columnDef *ColumnDef) *Float64Column {
	return &Float64Column{
		columnDef: columnDef,
		data:      make([]float64, 0),
	}
}

// ColumnDef returns the column definition.
func (c *Float64Column) ColumnDef() *ColumnDef {
	return c.columnDef
}

// Length returns the number of rows in the column.
func (c *Float64Column) Length() int {
	return len(c.data)
}

// Append adds a value to the column.
func (c *Float64Column) Append(value float64) {
	c.data = append(c.data, value)
}

// AppendString parses and adds a float from a string.
func (c *Float64Column) AppendString(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	c.data = append(c.data, v)
	return nil
}

// GetValue returns the float64 value at the given index.
func (c *Float64Column) GetValue(i int) (float64, error) {
	if i < 0 || i >= len(c.data) {
		return 0, outOfRange(i, len(c.data))
	}
	return c.data[i], nil
}

func (c *Float64Column) Value(i int) (any, error) {
	return c.GetValue(i)
}

// GetString returns the string representation of the value at the given index.
// Returns "NaN" for NaN values, "+Inf"/"-Inf" for infinities.
func (c *Float64Column) GetString(i int) (string, error) {
	v, err := c.GetValue(i)
	if err != nil {
		return "", err
	}
	return FormatFloat64(v), nil
}

func (c *Float64Column) Subset(indices []int) IDataColumn {
	return &Float64Column{columnDef: c.columnDef, data: subset(c.data, indices)}
}

// FormatFloat64 formats a float64 value for display.
// Returns "NaN" for NaN, "+Inf"/"-Inf" for infinities.
func FormatFloat64(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	if math.IsInf(v, 1) {
		return "+Inf"
	}
	if math.IsInf(v, -1) {
		return "-Inf"
	}
	// Use 'g' format for compact representation without trailing zeros
	return strconv.FormatFloat(v, 'g', -1, 64)
}
