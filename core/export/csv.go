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

package export

import (
	"strings"

	"github.com/google/tableselect/core/columns"
	"github.com/google/tableselect/core/options"
	"github.com/google/tableselect/core/tables"
)

// Fields are always quoted and lines end in CRLF, so the format is written
// directly rather than through encoding/csv, which quotes only when needed.

// BuildHead returns the quoted header line of the downloadable columns,
// terminated by CRLF.
func BuildHead(cols []*columns.ColumnDef, separator string) string {
	var sb strings.Builder
	first := true
	for _, c := range cols {
		if !c.Download() {
			continue
		}
		if !first {
			sb.WriteString(separator)
		}
		first = false
		sb.WriteString(`"`)
		sb.WriteString(escapeDangerousCharacters(quote(c.DisplayName())))
		sb.WriteString(`"`)
	}
	sb.WriteString("\r\n")
	return sb.String()
}

// BuildBody returns one quoted line per row with the cells of downloadable
// columns. Cell positions are matched to cols by index.
func BuildBody(cols []*columns.ColumnDef, rows []tables.Row, separator string) string {
	if len(rows) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, row := range rows {
		fields := make([]string, 0, len(row.Data))
		for j, cell := range row.Data {
			if j >= len(cols) || !cols[j].Download() {
				continue
			}
			fields = append(fields, formatCell(cell))
		}
		sb.WriteString(`"`)
		sb.WriteString(strings.Join(fields, `"`+separator+`"`))
		sb.WriteString("\"\r\n")
	}
	return strings.TrimSpace(sb.String())
}

// BuildCSV builds the CSV document for the given columns and rows. The
// second result is false when an OnDownload override cancelled the download.
func BuildCSV(cols []*columns.ColumnDef, rows []tables.Row, opts *options.Options) (string, bool) {
	separator := opts.DownloadOptions.Separator
	if separator == "" {
		separator = options.DefaultSeparator
	}

	if opts.OnDownload != nil {
		head := func(c []*columns.ColumnDef) string { return BuildHead(c, separator) }
		body := func(r []tables.Row) string { return BuildBody(cols, r, separator) }
		return opts.OnDownload(head, body, cols, rows)
	}

	return strings.TrimSpace(BuildHead(cols, separator) + BuildBody(cols, rows, separator)), true
}

// formatCell doubles quotes and neutralises formula characters in string
// values. Other values are formatted as is.
func formatCell(cell tables.Cell) string {
	if s, ok := cell.Value().(string); ok {
		return escapeDangerousCharacters(quote(s))
	}
	return tables.FormatValue(cell.Value())
}

func quote(s string) string {
	return strings.ReplaceAll(s, `"`, `""`)
}

// escapeDangerousCharacters prefixes a single quote to values starting with
// a character spreadsheets treat as a formula.
func escapeDangerousCharacters(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '+', '-', '=', '@':
		return "'" + s
	}
	return s
}
