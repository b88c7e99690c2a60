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

// Row is one row of a dataset. Index is the position of the row in the
// unfiltered dataset and survives filtering and sorting.
type Row struct {
	Data  []Cell
	Index int
}

// DisplayRow is a row as currently shown by the table. DataIndex refers
// back to Row.Index.
type DisplayRow struct {
	Data      []Cell
	DataIndex int
}

// Clone returns a deep copy of the row.
func (r Row) Clone() Row {
	data := make([]Cell, len(r.Data))
	for i, c := range r.Data {
		data[i] = c.clone()
	}
	return Row{Data: data, Index: r.Index}
}

// CloneRows deep copies a dataset.
func CloneRows(rows []Row) []Row {
	if rows == nil {
		return nil
	}
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}

// RowsFromValues builds raw rows from plain values, numbering them in order.
func RowsFromValues(values [][]any) []Row {
	rows := make([]Row, len(values))
	for i, vals := range values {
		data := make([]Cell, len(vals))
		for j, v := range vals {
			data[j] = Raw(v)
		}
		rows[i] = Row{Data: data, Index: i}
	}
	return rows
}
