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

package rendering

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/google/tableselect/core/columns"
	"github.com/google/tableselect/core/tables"
	"github.com/google/tableselect/core/toolbar"
)

// TerminalStyles are the lipgloss styles of the terminal toolbar.
type TerminalStyles struct {
	Panel  lipgloss.Style
	Label  lipgloss.Style
	Action lipgloss.Style
	Muted  lipgloss.Style
}

func DefaultTerminalStyles() TerminalStyles {
	return TerminalStyles{
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			BorderForeground(lipgloss.Color("63")),
		Label:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Action: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// RenderToolbarTerminal renders the toolbar as a bordered panel. Custom
// actions are HTML and are only announced.
func RenderToolbarTerminal(styles TerminalStyles, vm toolbar.ViewModel) string {
	lines := []string{styles.Label.Render(vm.Label)}

	var actions []string
	if vm.HasCustomActions {
		actions = append(actions, "[C] Custom actions")
	} else {
		actions = append(actions, fmt.Sprintf("[D] %s", vm.DeleteTitle))
	}
	if vm.ShowDownload {
		actions = append(actions, fmt.Sprintf("[S] %s", vm.DownloadTitle))
	}
	lines = append(lines, styles.Action.Render(strings.Join(actions, "  ")))
	if !vm.HasCustomActions && vm.DeleteAria != "" {
		lines = append(lines, styles.Muted.Render(vm.DeleteAria))
	}

	return styles.Panel.Render(strings.Join(lines, "\n"))
}

// RenderPageTerminal renders the toolbar above an ASCII table of the
// displayed rows. The toolbar is left out when vm is nil.
func RenderPageTerminal(styles TerminalStyles, vm *toolbar.ViewModel, cols []*columns.ColumnDef, rows []tables.DisplayRow) string {
	table := strings.TrimSuffix(tables.ToASCII(cols, rows), "\n")
	if vm == nil {
		return table
	}
	return lipgloss.JoinVertical(lipgloss.Left, RenderToolbarTerminal(styles, *vm), table)
}
