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
	"strconv"
)

// Int64Column stores signed integer values.
type Int64Column struct {
	columnDef *ColumnDef
	data      []int64
}

// NewInt64Column creates a new int64 column.
func NewInt64Column(columnDef *ColumnDef) *Int64Column {
	return &Int64Column{
		columnDef: columnDef,
		data:      make([]int64, 0),
	}
}

// ColumnDef returns the column definition.
func (c *Int64Column) ColumnDef() *ColumnDef {
	return c.columnDef
}

// Length returns the number of rows in the column.
func (c *Int64Column) Length() int {
	return len(c.data)
}

// Append adds a value to the column.
func (c *Int64Column) Append(value int64) {
	c.data = append(c.data, value)
}

// AppendString parses and adds an integer from a string.
func (c *Int64Column) AppendString(s string) error {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	c.data = append(c.data, v)
	return nil
}

// GetValue returns the int64 value at the given index.
func (c *Int64Column) GetValue(i int) (int64, error) {
	if i < 0 || i >= len(c.data) {
		return 0, outOfRange(i, len(c.data))
	}
	return c.data[i], nil
}

func (c *Int64Column) Value(i int) (any, error) {
	return c.GetValue(i)
}

// GetString returns the decimal representation of the value at the given index.
func (c *Int64Column) GetString(i int) (string, error) {
	v, err := c.GetValue(i)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(v, 10), nil
}

func (c *Int64Column) Subset(indices []int) IDataColumn {
	return &Int64Column{columnDef: c.columnDef, data: subset(c.data, indices)}
}
