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

// Package datasources loads the tables served by the application from a
// YAML configuration. Each source names a loader ("csv", "xlsx" or
// "textproto"),
// the file to read and optional per-column annotations.
package datasources

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/google/tableselect/core/columns"
	"github.com/google/tableselect/core/csvimport"
	"github.com/google/tableselect/core/protoloader"
	"github.com/google/tableselect/core/tables"
)

// DataSourceLoader is the interface that all data source loaders must implement.
// Paths in the source are already resolved against the config directory.
type DataSourceLoader interface {
	// SourceType returns the type identifier used in config (e.g. "csv").
	SourceType() string

	// Load reads the source and returns a DataTable.
	Load(source *DataSource) (*tables.DataTable, error)
}

// CsvLoader implements DataSourceLoader for CSV files. Column types are
// detected from the data.
type CsvLoader struct{}

// NewCsvLoader creates a new CSV loader.
func NewCsvLoader() *CsvLoader {
	return &CsvLoader{}
}

// SourceType returns "csv".
func (l *CsvLoader) SourceType() string {
	return "csv"
}

// Load imports the CSV file named by source.Path.
func (l *CsvLoader) Load(source *DataSource) (*tables.DataTable, error) {
	if source.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	opts := csvimport.DefaultOptions()
	if source.Delimiter != "" {
		opts.Delimiter = []rune(source.Delimiter)[0]
	}
	if source.HasHeader != nil {
		opts.HasHeader = *source.HasHeader
	}
	return csvimport.ImportFromFile(source.Path, opts)
}

// XlsxLoader implements DataSourceLoader for Excel workbooks. The first
// sheet is read unless the source names one. Column types are detected
// from the formatted cell values.
type XlsxLoader struct{}

// NewXlsxLoader creates a new workbook loader.
func NewXlsxLoader() *XlsxLoader {
	return &XlsxLoader{}
}

// SourceType returns "xlsx".
func (l *XlsxLoader) SourceType() string {
	return "xlsx"
}

// Load reads one sheet of the workbook named by source.Path.
func (l *XlsxLoader) Load(source *DataSource) (*tables.DataTable, error) {
	if source.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	f, err := excelize.OpenFile(source.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := source.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	opts := csvimport.DefaultOptions()
	if source.HasHeader != nil {
		opts.HasHeader = *source.HasHeader
	}
	return csvimport.ImportRecords(rows, opts)
}

// ProtoLoader implements DataSourceLoader for textproto files described by
// a FileDescriptorSet.
type ProtoLoader struct{}

// NewProtoLoader creates a new textproto loader.
func NewProtoLoader() *ProtoLoader {
	return &ProtoLoader{}
}

// SourceType returns "textproto".
func (l *ProtoLoader) SourceType() string {
	return "textproto"
}

// Load parses source.Path as source.Message.
func (l *ProtoLoader) Load(source *DataSource) (*tables.DataTable, error) {
	if source.Path == "" || source.DescriptorSet == "" || source.Message == "" {
		return nil, fmt.Errorf("path, descriptorSet and message are required")
	}
	data, err := os.ReadFile(source.DescriptorSet)
	if err != nil {
		return nil, fmt.Errorf("failed to read descriptor set: %w", err)
	}
	loader, err := protoloader.NewLoaderFromDescriptorSet(data)
	if err != nil {
		return nil, err
	}
	return loader.LoadTextprotoFile(source.Path, source.Message)
}

// Annotate applies column annotations to a loaded table. Annotations for
// columns the table does not have are reported as errors.
func Annotate(table *tables.DataTable, annotations []ColumnAnnotation) error {
	for _, ann := range annotations {
		col := table.GetColumn(ann.Name)
		if col == nil {
			return fmt.Errorf("annotated column %q not found", ann.Name)
		}
		def := col.ColumnDef()
		if ann.DisplayName != "" {
			def.SetDisplayName(ann.DisplayName)
		}
		if ann.Display != "" {
			state, err := columns.ParseDisplayState(ann.Display)
			if err != nil {
				return fmt.Errorf("column %q: %w", ann.Name, err)
			}
			def.SetDisplay(state)
		}
		if ann.Download != nil {
			def.SetDownload(*ann.Download)
		}
	}
	return nil
}
