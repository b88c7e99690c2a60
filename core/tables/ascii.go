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
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/tableselect/core/columns"
)

// ToASCII returns a plain text table of the given rows with ASCII borders.
// Only displayed columns are included. Rendered cells print their raw value.
func ToASCII(cols []*columns.ColumnDef, rows []DisplayRow) string {
	visible := make([]int, 0, len(cols))
	for i, c := range cols {
		if c.Displayed() {
			visible = append(visible, i)
		}
	}

	widths := make([]int, len(visible))
	for k, i := range visible {
		widths[k] = utf8.RuneCountInString(cols[i].DisplayName())
	}
	for _, row := range rows {
		for k, i := range visible {
			if i < len(row.Data) {
				if w := utf8.RuneCountInString(row.Data[i].String()); w > widths[k] {
					widths[k] = w
				}
			}
		}
	}

	var sb strings.Builder
	border := func() {
		for _, w := range widths {
			sb.WriteString("+")
			sb.WriteString(strings.Repeat("-", w+2))
		}
		sb.WriteString("+\n")
	}
	line := func(values []string) {
		for k, v := range values {
			sb.WriteString(fmt.Sprintf("| %-*s ", widths[k], v))
		}
		sb.WriteString("|\n")
	}

	header := make([]string, len(visible))
	for k, i := range visible {
		header[k] = cols[i].DisplayName()
	}
	border()
	line(header)
	border()
	for _, row := range rows {
		values := make([]string, len(visible))
		for k, i := range visible {
			if i < len(row.Data) {
				values[k] = row.Data[i].String()
			}
		}
		line(values)
	}
	border()
	return sb.String()
}
