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

// StringColumn stores string values directly.
type StringColumn struct {
	columnDef *ColumnDef
	data      []string
}

// NewStringColumn creates a new string column
func NewStringColumn(columnDef *ColumnDef) *StringColumn {
	return &StringColumn{
		columnDef: columnDef,
		data:      make([]string, 0),
	}
}

func (c *StringColumn) Append(value string) {
	c.data = append(c.data, value)
}

func (c *StringColumn) Length() int {
	return len(c.data)
}

func (c *StringColumn) ColumnDef() *ColumnDef {
	return c.columnDef
}

func (c *StringColumn) GetValue(i int) (string, error) {
	if i < 0 || i >= len(c.data) {
		return "", outOfRange(i, len(c.data))
	}
	return c.data[i], nil
}

func (c *StringColumn) Value(i int) (any, error) {
	return c.GetValue(i)
}

// GetString returns the string value at index i
func (c *StringColumn) GetString(i int) (string, error) {
	return c.GetValue(i)
}

func (c *StringColumn) Subset(indices []int) IDataColumn {
	return &StringColumn{columnDef: c.columnDef, data: subset(c.data, indices)}
}
