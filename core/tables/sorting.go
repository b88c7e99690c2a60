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
	"container/heap"
	"sort"

	"github.com/google/tableselect/core/columns"
	"github.com/google/tableselect/core/query"
)

// sortableColumn holds a column reference and its sort direction
type sortableColumn struct {
	col        columns.IDataColumn
	descending bool
}

// topKHeap implements a max-heap for top-K selection
// When we want the smallest K elements, we use a max-heap:
// - If new element is smaller than max, pop max and push new element
// - At the end, heap contains K smallest elements
type topKHeap struct {
	indices []int
	cols    []sortableColumn
}

func (h *topKHeap) Len() int { return len(h.indices) }

// Less puts the worst of the K best elements at the top.
func (h *topKHeap) Less(i, j int) bool {
	return compareRows(h.cols, h.indices[i], h.indices[j]) > 0
}

func (h *topKHeap) Swap(i, j int) {
	h.indices[i], h.indices[j] = h.indices[j], h.indices[i]
}

func (h *topKHeap) Push(x interface{}) {
	h.indices = append(h.indices, x.(int))
}

func (h *topKHeap) Pop() interface{} {
	old := h.indices
	n := len(old)
	x := old[n-1]
	h.indices = old[0 : n-1]
	return x
}

// compareRows compares two row indices using multi-column sort order.
// Ties are broken by row index so the order is stable.
func compareRows(cols []sortableColumn, i, j int) int {
	for _, sc := range cols {
		vi, _ := sc.col.Value(i)
		vj, _ := sc.col.Value(j)
		cmp := columns.CompareValues(vi, vj)
		if cmp != 0 {
			if sc.descending {
				return -cmp
			}
			return cmp
		}
	}
	switch {
	case i < j:
		return -1
	case i > j:
		return 1
	}
	return 0
}

func (dt *DataTable) sortableColumns(sortOrder []query.SortColumn) []sortableColumn {
	cols := make([]sortableColumn, 0, len(sortOrder))
	for _, so := range sortOrder {
		if col := dt.GetColumn(so.Name); col != nil {
			cols = append(cols, sortableColumn{col: col, descending: so.Descending})
		}
	}
	return cols
}

// SortedIndices returns the indices of all rows, sorted according to
// sortOrder. Unknown columns are ignored.
func (dt *DataTable) SortedIndices(sortOrder []query.SortColumn) []int {
	indices := make([]int, dt.Length())
	for i := range indices {
		indices[i] = i
	}
	cols := dt.sortableColumns(sortOrder)
	if len(cols) == 0 {
		return indices
	}
	sort.Slice(indices, func(a, b int) bool {
		return compareRows(cols, indices[a], indices[b]) < 0
	})
	return indices
}

// SortedTopK returns the first limit rows according to sortOrder, using a
// heap of size limit instead of sorting every row. limit <= 0 means all rows.
func (dt *DataTable) SortedTopK(sortOrder []query.SortColumn, limit int) []int {
	n := dt.Length()
	if limit <= 0 || limit >= n {
		return dt.SortedIndices(sortOrder)
	}

	cols := dt.sortableColumns(sortOrder)
	if len(cols) == 0 {
		indices := make([]int, limit)
		for i := range indices {
			indices[i] = i
		}
		return indices
	}

	h := &topKHeap{
		indices: make([]int, 0, limit),
		cols:    cols,
	}
	for i := 0; i < limit; i++ {
		h.indices = append(h.indices, i)
	}
	heap.Init(h)

	for i := limit; i < n; i++ {
		if compareRows(cols, i, h.indices[0]) < 0 {
			heap.Pop(h)
			heap.Push(h, i)
		}
	}

	result := h.indices
	sort.Slice(result, func(a, b int) bool {
		return compareRows(cols, result[a], result[b]) < 0
	})
	return result
}
