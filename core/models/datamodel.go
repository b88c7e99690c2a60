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

package models

import (
	"sort"
	"sync"

	"github.com/google/tableselect/core/options"
	"github.com/google/tableselect/core/tables"
)

// TableEntry is a registered table together with the toolbar options that
// apply to it.
type TableEntry struct {
	Name    string
	Title   string
	Table   *tables.DataTable
	Options *options.Store
}

// DataModel is the registry of tables served by the application. Tables
// are replaced as a whole when rows are deleted.
type DataModel struct {
	mu     sync.RWMutex
	tables map[string]*TableEntry
}

// NewDataModel creates a new DataModel instance
func NewDataModel() *DataModel {
	return &DataModel{
		tables: make(map[string]*TableEntry),
	}
}

// AddTable registers a table. A nil store gets the default options.
func (dm *DataModel) AddTable(name, title string, table *tables.DataTable, store *options.Store) {
	if store == nil {
		store = options.NewStore(options.Default())
	}
	dm.mu.Lock()
	defer dm.mu.Unlock()
	dm.tables[name] = &TableEntry{Name: name, Title: title, Table: table, Options: store}
}

// GetTable returns a table by name
func (dm *DataModel) GetTable(name string) *tables.DataTable {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	if e, ok := dm.tables[name]; ok {
		return e.Table
	}
	return nil
}

// GetEntry returns a copy of the registry entry for name.
func (dm *DataModel) GetEntry(name string) (TableEntry, bool) {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	e, ok := dm.tables[name]
	if !ok {
		return TableEntry{}, false
	}
	return *e, true
}

// UpdateTable replaces a table by applying fn to the current one. fn runs
// under the registry lock so concurrent deletes do not interleave.
func (dm *DataModel) UpdateTable(name string, fn func(*tables.DataTable) (*tables.DataTable, error)) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	e, ok := dm.tables[name]
	if !ok {
		return &TableNotFoundError{Name: name}
	}
	next, err := fn(e.Table)
	if err != nil {
		return err
	}
	e.Table = next
	return nil
}

// TableNames returns the registered table names in sorted order.
func (dm *DataModel) TableNames() []string {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	names := make([]string, 0, len(dm.tables))
	for name := range dm.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TableNotFoundError is returned for unknown table names.
type TableNotFoundError struct {
	Name string
}

func (e *TableNotFoundError) Error() string {
	return "table '" + e.Name + "' not found"
}
