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

// Package csvimport loads CSV files into tables.
package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/google/tableselect/core/columns"
	"github.com/google/tableselect/core/tables"
)

// ColumnType specifies the data type of an imported column.
type ColumnType int

const (
	// ColumnTypeAuto detects the type from the data (default).
	ColumnTypeAuto ColumnType = iota
	ColumnTypeString
	ColumnTypeInt64
	ColumnTypeFloat64
	ColumnTypeBool
)

var ErrEmpty = errors.New("CSV file has no data rows")

// ColumnSource configures how a column is imported. Keys of
// ImportOptions.ColumnSources are header names.
type ColumnSource struct {
	// Name is the column name (defaults to the header).
	Name        string
	DisplayName string
	Type        ColumnType
	// Display is the initial display state (defaults to "true").
	Display columns.DisplayState
	// NoDownload leaves the column out of CSV exports.
	NoDownload bool
}

// ImportOptions configures CSV import behavior.
type ImportOptions struct {
	HasHeader     bool
	Delimiter     rune
	ColumnSources map[string]ColumnSource
	// SampleSize is the number of rows sampled for type detection.
	SampleSize int
}

func DefaultOptions() ImportOptions {
	return ImportOptions{
		HasHeader:     true,
		Delimiter:     ',',
		ColumnSources: make(map[string]ColumnSource),
		SampleSize:    100,
	}
}

// ImportFromFile imports a CSV file and returns a DataTable.
func ImportFromFile(path string, options ImportOptions) (*tables.DataTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ImportFromReader(file, options)
}

// ImportFromReader imports CSV data from an io.Reader and returns a DataTable.
func ImportFromReader(reader io.Reader, options ImportOptions) (*tables.DataTable, error) {
	csvReader := csv.NewReader(reader)
	if options.Delimiter != 0 {
		csvReader.Comma = options.Delimiter
	}
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return ImportRecords(records, options)
}

// ImportRecords builds a DataTable from already split records, such as the
// rows of a spreadsheet. Short rows are padded with empty values.
func ImportRecords(records [][]string, options ImportOptions) (*tables.DataTable, error) {
	if len(records) == 0 {
		return nil, ErrEmpty
	}

	var headers []string
	var dataRows [][]string
	if options.HasHeader {
		headers = records[0]
		dataRows = records[1:]
	} else {
		headers = make([]string, len(records[0]))
		for i := range headers {
			headers[i] = fmt.Sprintf("column_%d", i+1)
		}
		dataRows = records
	}
	if len(dataRows) == 0 {
		return nil, ErrEmpty
	}

	sampleSize := options.SampleSize
	if sampleSize <= 0 {
		sampleSize = 100
	}
	types := detectColumnTypes(headers, dataRows, sampleSize, options.ColumnSources)

	table := tables.NewDataTable()
	for i, header := range headers {
		header = strings.TrimSpace(header)
		def, err := columnDef(header, options.ColumnSources[header])
		if err != nil {
			return nil, err
		}

		values := make([]string, len(dataRows))
		for r, row := range dataRows {
			if i < len(row) {
				values[r] = strings.TrimSpace(row[i])
			}
		}
		table.AddColumn(buildColumn(def, types[i], values))
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

func columnDef(header string, src ColumnSource) (*columns.ColumnDef, error) {
	name := header
	if src.Name != "" {
		name = src.Name
	}
	if strings.ContainsAny(name, "&=:,") {
		return nil, fmt.Errorf("column name %q contains a reserved character", name)
	}
	displayName := header
	if src.DisplayName != "" {
		displayName = src.DisplayName
	}
	display, err := columns.ParseDisplayState(string(src.Display))
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", name, err)
	}
	return columns.NewColumnDef(name, displayName).
		SetDisplay(display).
		SetDownload(!src.NoDownload), nil
}

// buildColumn parses values into a typed column. Values that fail to
// parse become the zero value, or NaN for floats.
func buildColumn(def *columns.ColumnDef, typ ColumnType, values []string) columns.IDataColumn {
	switch typ {
	case ColumnTypeInt64:
		col := columns.NewInt64Column(def)
		for _, v := range values {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				n = 0
			}
			col.Append(n)
		}
		return col
	case ColumnTypeFloat64:
		col := columns.NewFloat64Column(def)
		for _, v := range values {
			switch f, err := strconv.ParseFloat(v, 64); {
			case v == "":
				col.Append(0)
			case err != nil:
				col.Append(math.NaN())
			default:
				col.Append(f)
			}
		}
		return col
	case ColumnTypeBool:
		col := columns.NewBoolColumn(def)
		for _, v := range values {
			b, _ := columns.ParseBool(v)
			col.Append(b)
		}
		return col
	}
	col := columns.NewStringColumn(def)
	for _, v := range values {
		col.Append(v)
	}
	return col
}

// detectColumnTypes samples the data rows. A column is int64 when every
// non-empty sample parses as an integer, float64 when every sample parses
// as a number, and bool when every sample is true or false. Columns with
// no non-empty samples are strings.
func detectColumnTypes(headers []string, dataRows [][]string, sampleSize int, sources map[string]ColumnSource) []ColumnType {
	types := make([]ColumnType, len(headers))
	rowsToSample := min(sampleSize, len(dataRows))

	for i, header := range headers {
		if src, ok := sources[strings.TrimSpace(header)]; ok && src.Type != ColumnTypeAuto {
			types[i] = src.Type
			continue
		}

		isInt, isFloat, isBool := true, true, true
		hasNonEmpty := false
		for j := 0; j < rowsToSample; j++ {
			if i >= len(dataRows[j]) {
				continue
			}
			value := strings.TrimSpace(dataRows[j][i])
			if value == "" {
				continue
			}
			hasNonEmpty = true

			if _, err := strconv.ParseInt(value, 10, 64); err != nil {
				isInt = false
			}
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				isFloat = false
			}
			if l := strings.ToLower(value); l != "true" && l != "false" {
				isBool = false
			}
		}

		switch {
		case !hasNonEmpty:
			types[i] = ColumnTypeString
		case isInt:
			types[i] = ColumnTypeInt64
		case isFloat:
			types[i] = ColumnTypeFloat64
		case isBool:
			types[i] = ColumnTypeBool
		default:
			types[i] = ColumnTypeString
		}
	}
	return types
}
