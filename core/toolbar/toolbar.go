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

// Package toolbar implements the toolbar shown above a table while rows are
// selected: a selected row count, a delete action or a custom action set,
// and an optional CSV download of the selected rows.
package toolbar

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/safehtml"
	"github.com/google/uuid"

	"github.com/google/tableselect/core/columns"
	"github.com/google/tableselect/core/export"
	"github.com/google/tableselect/core/metrics"
	"github.com/google/tableselect/core/options"
	"github.com/google/tableselect/core/selection"
	"github.com/google/tableselect/core/tables"
)

// Container is implemented by the table that owns the data and the
// selection. The toolbar never changes either itself.
type Container interface {
	selection.Updater
	// RowsDelete deletes the currently selected rows.
	RowsDelete(ctx context.Context) error
}

// Props is everything the owning table passes to the toolbar.
type Props struct {
	Table   string
	Options *options.Options
	// Data is the table data, possibly holding rendered cells.
	Data []tables.Row
	// Source is the unrendered dataset used to resolve rendered cells
	// without a raw value. Defaults to Data.
	Source       []tables.Row
	Columns      []*columns.ColumnDef
	SelectedRows selection.SelectedRows
	// DisplayData are the rows currently shown, passed to custom actions.
	DisplayData []tables.DisplayRow
}

// Toolbar is the selection toolbar of one render of a table.
type Toolbar struct {
	props     Props
	container Container
	forwarder *selection.Forwarder
	logger    *slog.Logger
	metrics   *metrics.Collector
}

// New creates a toolbar. Missing options are replaced by the defaults.
func New(props Props, container Container) *Toolbar {
	if props.Options == nil {
		props.Options = options.Default()
	}
	return &Toolbar{
		props:     props,
		container: container,
		forwarder: selection.NewForwarder(props.Options.SelectableRows, container),
		logger:    slog.Default(),
	}
}

// SetLogger sets the logger used for toolbar actions
func (t *Toolbar) SetLogger(logger *slog.Logger) {
	t.logger = logger
}

// SetMetrics sets the collector toolbar actions are recorded on
func (t *Toolbar) SetMetrics(m *metrics.Collector) {
	t.metrics = m
}

// HandleCustomSelectedRows replaces the selection with the given row
// indices. It is the function handed to custom toolbar actions.
func (t *Toolbar) HandleCustomSelectedRows(rows any) error {
	err := t.forwarder.SelectRows(rows)
	result := "ok"
	switch {
	case errors.Is(err, selection.ErrInvalidArgumentType):
		result = "invalid_argument_type"
	case errors.Is(err, selection.ErrInvalidSelectionMode):
		result = "invalid_selection_mode"
	case err != nil:
		result = "error"
	}
	t.metrics.RecordSelectionUpdate(t.props.Table, result)
	if err != nil {
		t.logger.Warn("Custom selection rejected", "table", t.props.Table, "error", err)
	}
	return err
}

// Delete asks the owning table to delete the selected rows.
func (t *Toolbar) Delete(ctx context.Context) error {
	count := t.props.SelectedRows.Count()
	if err := t.container.RowsDelete(ctx); err != nil {
		t.metrics.RecordDelete(t.props.Table, metrics.StatusError, count)
		t.logger.Error("Delete failed", "table", t.props.Table, "rows", count, "error", err)
		return err
	}
	t.metrics.RecordDelete(t.props.Table, metrics.StatusSuccess, count)
	t.logger.Info("Rows deleted", "table", t.props.Table, "rows", count)
	return nil
}

// DownloadCSV exports the selected rows and hands the CSV to d.
func (t *Toolbar) DownloadCSV(ctx context.Context, d export.Downloader) error {
	id := uuid.NewString()
	ctx = export.WithExportID(ctx, id)

	res := export.Prepare(t.props.Data, t.props.Source, t.props.Columns, t.props.Options, t.props.SelectedRows)
	err := export.CreateCSVDownload(ctx, res.Columns, res.Rows, t.props.Options, d)
	switch {
	case errors.Is(err, export.ErrDownloadCanceled):
		t.metrics.RecordExport(t.props.Table, metrics.StatusCanceled, 0)
		t.logger.Info("CSV download canceled", "table", t.props.Table, "export_id", id)
	case err != nil:
		t.metrics.RecordExport(t.props.Table, metrics.StatusError, 0)
		t.logger.Error("CSV download failed", "table", t.props.Table, "export_id", id, "error", err)
	default:
		t.metrics.RecordExport(t.props.Table, metrics.StatusSuccess, len(res.Rows))
		t.logger.Info("CSV downloaded", "table", t.props.Table, "export_id", id,
			"rows", len(res.Rows), "columns", len(res.Columns), "filename", t.props.Options.DownloadOptions.Filename)
	}
	return err
}

// ActionURLs are the endpoints the toolbar buttons call.
type ActionURLs struct {
	Delete   safehtml.URL
	Download safehtml.URL
	Select   safehtml.URL
}

// ViewModel contains the toolbar formatted for template consumption
type ViewModel struct {
	Label string

	HasCustomActions bool
	CustomActions    safehtml.HTML

	DeleteTitle string
	DeleteAria  string
	DeleteURL   safehtml.URL

	ShowDownload   bool
	DownloadTitle  string
	DownloadTestID string
	DownloadURL    safehtml.URL

	SelectURL safehtml.URL
}

// ViewModel builds what the toolbar renders for the current props.
func (t *Toolbar) ViewModel(urls ActionURLs) ViewModel {
	o := t.props.Options
	labels := o.TextLabels.SelectedRows

	vm := ViewModel{
		Label:     SelectedLabel(t.props.SelectedRows.Count(), labels.Text, o.Locale),
		SelectURL: urls.Select,
	}

	if o.CustomToolbarSelect != nil {
		vm.HasCustomActions = true
		vm.CustomActions = o.CustomToolbarSelect(t.props.SelectedRows, t.props.DisplayData, t.HandleCustomSelectedRows)
	} else {
		vm.DeleteTitle = labels.Delete
		vm.DeleteAria = labels.DeleteAria
		vm.DeleteURL = urls.Delete
	}

	if o.DownloadEnabled() {
		vm.ShowDownload = true
		vm.DownloadTitle = labels.DownloadCsv
		vm.DownloadTestID = labels.DownloadCsv + "-iconButton"
		vm.DownloadURL = urls.Download
	}
	return vm
}
