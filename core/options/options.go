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

// Package options defines the configuration of the selection toolbar.
//
// Options are loaded from YAML, completed with defaults and validated:
//
//	selectableRows: single
//	download: true
//	downloadOptions:
//	  filename: orders.csv
//	  separator: ";"
//	  filterOptions:
//	    useDisplayedColumnsOnly: true
//	textLabels:
//	  selectedRows:
//	    text: "row(s) selected"
package options

import (
	"github.com/google/safehtml"
	"github.com/google/tableselect/core/columns"
	"github.com/google/tableselect/core/selection"
	"github.com/google/tableselect/core/tables"
)

const (
	DefaultSelectedRowsText = "row(s) selected"
	DefaultDeleteText       = "Delete"
	DefaultDeleteAria       = "Delete Selected Rows"
	DefaultDownloadCsvText  = "Download CSV"
	DefaultFilename         = "tableDownload.csv"
	DefaultSeparator        = ","
	DefaultLocale           = "en"
)

// SelectedRowsLabels are the texts shown by the selection toolbar.
type SelectedRowsLabels struct {
	// Text follows the selected row count, e.g. "3 row(s) selected".
	Text        string `yaml:"text"`
	Delete      string `yaml:"delete"`
	DeleteAria  string `yaml:"deleteAria"`
	DownloadCsv string `yaml:"downloadCsv"`
}

type TextLabels struct {
	SelectedRows SelectedRowsLabels `yaml:"selectedRows"`
}

// FilterOptions restrict what a CSV download contains.
type FilterOptions struct {
	// UseDisplayedColumnsOnly drops columns whose display state is not "true".
	UseDisplayedColumnsOnly bool `yaml:"useDisplayedColumnsOnly"`
}

type DownloadOptions struct {
	Filename      string        `yaml:"filename"`
	Separator     string        `yaml:"separator"`
	FilterOptions FilterOptions `yaml:"filterOptions"`
}

// CustomToolbarSelect replaces the default delete action. It receives the
// current selection, the displayed rows and a function that replaces the
// selection (see selection.Forwarder.SelectRows).
type CustomToolbarSelect func(selected selection.SelectedRows, displayData []tables.DisplayRow, setSelectedRows func(rows any) error) safehtml.HTML

// HeadBuilder and BodyBuilder build the default CSV header and body.
type HeadBuilder func(cols []*columns.ColumnDef) string
type BodyBuilder func(rows []tables.Row) string

// OnDownload overrides CSV building. Returning false cancels the download.
type OnDownload func(buildHead HeadBuilder, buildBody BodyBuilder, cols []*columns.ColumnDef, rows []tables.Row) (csv string, ok bool)

// Options configures the selection toolbar of one table.
type Options struct {
	SelectableRows  selection.Mode  `yaml:"selectableRows"`
	TextLabels      TextLabels      `yaml:"textLabels"`
	Download        *bool           `yaml:"download"`
	DownloadOptions DownloadOptions `yaml:"downloadOptions"`
	// Locale is a BCP 47 tag used to format the selected row count.
	Locale string `yaml:"locale"`

	CustomToolbarSelect CustomToolbarSelect `yaml:"-"`
	OnDownload          OnDownload          `yaml:"-"`
}

// Default returns options with every field set to its default.
func Default() *Options {
	o := &Options{}
	ApplyDefaults(o)
	return o
}

// DownloadEnabled reports whether the download action is shown.
func (o *Options) DownloadEnabled() bool {
	return o.Download == nil || *o.Download
}

// Clone returns a copy that can be modified without affecting o.
func (o *Options) Clone() *Options {
	c := *o
	if o.Download != nil {
		d := *o.Download
		c.Download = &d
	}
	return &c
}

// Bool returns a pointer to b, for optional fields.
func Bool(b bool) *bool {
	return &b
}
