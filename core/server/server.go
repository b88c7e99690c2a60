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

// Package server serves tables with their selection toolbar over HTTP.
// All table state (selection, hidden columns, sort, limit) lives in the
// URL query.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/google/tableselect/core/export"
	"github.com/google/tableselect/core/metrics"
	"github.com/google/tableselect/core/models"
	"github.com/google/tableselect/core/options"
	"github.com/google/tableselect/core/query"
	"github.com/google/tableselect/core/rendering"
	"github.com/google/tableselect/core/selection"
	"github.com/google/tableselect/core/toolbar"
	"github.com/google/tableselect/core/views"
)

const (
	tablePath    = "/table"
	downloadPath = "/download"
	deletePath   = "/delete"
	selectPath   = "/select"
	metricsPath  = "/metrics"

	// maxSelectBody bounds the JSON body accepted by the select endpoint.
	maxSelectBody = 1 << 20
)

// Server represents the application server with all its dependencies
type Server struct {
	dataModel *models.DataModel
	renderer  *rendering.TableRenderer
	metrics   *metrics.Collector
	logger    *slog.Logger
	title     string
}

// NewServer creates a new server with the given data model
func NewServer(dataModel *models.DataModel) (*Server, error) {
	renderer, err := rendering.NewTableRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	return &Server{
		dataModel: dataModel,
		renderer:  renderer,
		logger:    slog.Default(),
		title:     "Tables",
	}, nil
}

// SetLogger sets the structured logger
func (s *Server) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// SetMetrics sets the metrics collector. /metrics is only served when set.
func (s *Server) SetMetrics(m *metrics.Collector) {
	s.metrics = m
}

// SetTitle sets the landing page title
func (s *Server) SetTitle(title string) {
	s.title = title
}

// Handler returns the routes wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleLanding)
	mux.HandleFunc("GET "+tablePath, s.handleTable)
	mux.HandleFunc("GET "+downloadPath, s.handleDownload)
	mux.HandleFunc("POST "+deletePath, s.handleDelete)
	mux.HandleFunc("POST "+selectPath, s.handleSelect)
	if s.metrics != nil {
		mux.Handle("GET "+metricsPath, s.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = loggingMiddleware(s.logger, handler)
	handler = requestIDMiddleware(handler)
	handler = recoveryMiddleware(s.logger, handler)
	return handler
}

// TableHandlerResult represents the result of handling a table request
type TableHandlerResult struct {
	Error      error
	StatusCode int
	Message    string
}

func (r *TableHandlerResult) write(w http.ResponseWriter) {
	http.Error(w, r.Message, r.StatusCode)
}

// requestState is everything derived from one request URL.
type requestState struct {
	query     *query.Query
	entry     models.TableEntry
	options   *options.Options
	container *tableContainer
	toolbar   *toolbar.Toolbar
}

// prepare resolves the table named in the query and builds its toolbar.
func (s *Server) prepare(r *http.Request) (*requestState, *TableHandlerResult) {
	q := query.NewQuery(r.URL)
	if q.Table == "" {
		return nil, &TableHandlerResult{StatusCode: http.StatusBadRequest, Message: "Table parameter is required"}
	}
	entry, ok := s.dataModel.GetEntry(q.Table)
	if !ok {
		err := &models.TableNotFoundError{Name: q.Table}
		return nil, &TableHandlerResult{Error: err, StatusCode: http.StatusNotFound, Message: err.Error()}
	}

	opts := entry.Options.Get()
	props := views.ToolbarProps(entry.Name, entry.Table, q, opts)
	container := &tableContainer{
		dataModel: s.dataModel,
		name:      entry.Name,
		selected:  props.SelectedRows.Indices(),
	}
	tb := toolbar.New(props, container)
	tb.SetLogger(s.logger.With("request_id", requestID(r.Context())))
	tb.SetMetrics(s.metrics)

	return &requestState{query: q, entry: entry, options: opts, container: container, toolbar: tb}, nil
}

func actionURLs(q *query.Query) toolbar.ActionURLs {
	return toolbar.ActionURLs{
		Delete:   q.WithPath(deletePath),
		Download: q.WithPath(downloadPath),
		Select:   q.WithPath(selectPath),
	}
}

// HandleTableRequest renders the table page for r into w.
func (s *Server) HandleTableRequest(w io.Writer, r *http.Request, setHeader func(key, value string)) *TableHandlerResult {
	st, res := s.prepare(r)
	if res != nil {
		return res
	}

	title := st.entry.Title
	if title == "" {
		title = st.entry.Name
	}
	vm := views.BuildViewModel(views.Page{
		Title:   title,
		Query:   st.query,
		Table:   st.entry.Table,
		Mode:    st.options.SelectableRows,
		Toolbar: st.toolbar,
		URLs:    actionURLs(st.query),
	})

	setHeader("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.Render(w, vm); err != nil {
		s.logger.Error("Template rendering error", "table", st.entry.Name, "error", err)
		return &TableHandlerResult{Error: err, StatusCode: http.StatusInternalServerError, Message: "Failed to render table"}
	}
	return nil
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	if res := s.HandleTableRequest(w, r, w.Header().Set); res != nil {
		res.write(w)
	}
}

func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	vm := views.LandingViewModel{
		Title:    s.title,
		Subtitle: "Select rows to delete them or download them as CSV",
	}
	for _, name := range s.dataModel.TableNames() {
		entry, ok := s.dataModel.GetEntry(name)
		if !ok {
			continue
		}
		q := &query.Query{Path: tablePath, Table: name, Limit: 25}
		vm.Tables = append(vm.Tables, views.TableInfo{
			Name:        entry.Title,
			URL:         q.ToURL(),
			RecordCount: entry.Table.Length(),
			ColumnCount: len(entry.Table.GetColumnNames()),
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.RenderLanding(w, vm); err != nil {
		s.logger.Error("Landing page rendering error", "error", err)
		http.Error(w, "Failed to render landing page", http.StatusInternalServerError)
	}
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	st, res := s.prepare(r)
	if res != nil {
		res.write(w)
		return
	}
	if !st.options.DownloadEnabled() {
		http.Error(w, "Download is disabled for this table", http.StatusForbidden)
		return
	}
	if len(st.container.selected) == 0 {
		http.Error(w, "No rows selected", http.StatusBadRequest)
		return
	}

	err := st.toolbar.DownloadCSV(r.Context(), export.HTTPDownloader{W: w})
	switch {
	case errors.Is(err, export.ErrDownloadCanceled):
		w.WriteHeader(http.StatusNoContent)
	case err != nil:
		http.Error(w, "Failed to create CSV download", http.StatusInternalServerError)
	}
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	st, res := s.prepare(r)
	if res != nil {
		res.write(w)
		return
	}
	if len(st.container.selected) == 0 {
		http.Error(w, "No rows selected", http.StatusBadRequest)
		return
	}
	if err := st.toolbar.Delete(r.Context()); err != nil {
		http.Error(w, "Failed to delete rows", http.StatusInternalServerError)
		return
	}

	// Indices shift after a delete, so the selection is cleared.
	next := st.query.Clone()
	next.Path = tablePath
	http.Redirect(w, r, next.WithSelected(nil).String(), http.StatusSeeOther)
}

// selectResponse is the JSON reply of the select endpoint.
type selectResponse struct {
	Redirect string `json:"redirect,omitempty"`
	Error    string `json:"error,omitempty"`
	Kind     string `json:"kind,omitempty"`
}

// handleSelect replaces the selection with the rows in the request. A JSON
// body is answered with JSON; a form post (field "rows" holding a JSON
// array) is redirected to the table.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	st, res := s.prepare(r)
	if res != nil {
		res.write(w)
		return
	}

	form := isForm(r)
	r.Body = http.MaxBytesReader(w, r.Body, maxSelectBody)
	rows, err := decodeRows(r, form)
	if err != nil {
		if form {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusBadRequest, selectResponse{Error: err.Error(), Kind: "InvalidRequest"})
		return
	}

	if err := st.toolbar.HandleCustomSelectedRows(rows); err != nil {
		status, kind := http.StatusInternalServerError, "Error"
		switch {
		case errors.Is(err, selection.ErrInvalidArgumentType):
			status, kind = http.StatusBadRequest, "InvalidArgumentType"
		case errors.Is(err, selection.ErrInvalidSelectionMode):
			status, kind = http.StatusBadRequest, "InvalidSelectionMode"
		}
		if form {
			http.Error(w, err.Error(), status)
			return
		}
		writeJSON(w, status, selectResponse{Error: err.Error(), Kind: kind})
		return
	}

	s.logger.Info("Selection updated", "table", st.entry.Name, "source", st.container.source,
		"rows", len(st.container.updated), "request_id", requestID(r.Context()))

	next := st.query.Clone()
	next.Path = tablePath
	target := next.WithSelected(st.container.updated).String()
	if form {
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, selectResponse{Redirect: target})
}

func isForm(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/x-www-form-urlencoded"
}

// decodeRows reads the requested rows without interpreting them. Numbers
// stay json.Number so the forwarder decides what is a valid index.
func decodeRows(r *http.Request, form bool) (any, error) {
	var body io.Reader = r.Body
	if form {
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("invalid form: %w", err)
		}
		body = strings.NewReader(r.PostForm.Get("rows"))
	}

	dec := json.NewDecoder(body)
	dec.UseNumber()
	var rows any
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	return rows, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
