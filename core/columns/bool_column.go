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
	"strings"
)

// BoolColumn stores boolean values.
type BoolColumn struct {
	columnDef *ColumnDef
	data      []bool
}

// NewBoolColumn creates a new boolean column.
func NewBoolColumn(columnDef *ColumnDef) *BoolColumn {
	return &BoolColumn{
		columnDef: columnDef,
		data:      make([]bool, 0),
	}
}

// ColumnDef returns the column definition.
func (c *BoolColumn) ColumnDef() *ColumnDef {
	return c.columnDef
}

// Length returns the number of rows in the column.
func (c *BoolColumn) Length() int {
	return len(c.data)
}

// Append adds a boolean value to the column.
func (c *BoolColumn) Append(value bool) {
	c.data = append(c.data, value)
}

// AppendString parses and adds a boolean from a string.
func (c *BoolColumn) AppendString(s string) error {
	b, err := ParseBool(s)
	if err != nil {
		return err
	}
	c.data = append(c.data, b)
	return nil
}

// ParseBool parses a string to a boolean value.
// Accepts: "true", "false", "1", "0", "yes", "no", "t", "f", "y", "n" (case-insensitive).
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "t", "y":
		return true, nil
	case "false", "0", "no", "f", "n", "":
		return false, nil
	default:
		return false, fmt.Errorf("cannot parse %q as boolean", s)
	}
}

// GetValue returns the boolean value at the given index.
func (c *BoolColumn) GetValue(i int) (bool, error) {
	if i < 0 || i >= len(c.data) {
		return false, outOfRange(i, len(c.data))
	}
	return c.data[i], nil
}

func (c *BoolColumn) Value(i int) (any, error) {
	return c.GetValue(i)
}

// GetString returns "true" or "false".
func (c *BoolColumn) GetString(i int) (string, error) {
	v, err := c.GetValue(i)
	if err != nil {
		return "", err
	}
	if v {
		return "true", nil
	}
	return "false", nil
}

func (c *BoolColumn) Subset(indices []int) IDataColumn {
	return &BoolColumn{columnDef: c.columnDef, data: subset(c.data, indices)}
}
