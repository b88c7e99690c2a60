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
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/tableselect/core/columns"
	"github.com/google/tableselect/core/options"
	"github.com/google/tableselect/core/tables"
)

// ErrDownloadCanceled is returned when an OnDownload override cancels the
// download.
var ErrDownloadCanceled = errors.New("download canceled")

// Downloader delivers a finished CSV document.
type Downloader interface {
	Download(ctx context.Context, csv, filename string) error
}

// CreateCSVDownload builds the CSV for cols and rows and passes it to d.
func CreateCSVDownload(ctx context.Context, cols []*columns.ColumnDef, rows []tables.Row, opts *options.Options, d Downloader) error {
	csv, ok := BuildCSV(cols, rows, opts)
	if !ok {
		return ErrDownloadCanceled
	}
	filename := opts.DownloadOptions.Filename
	if filename == "" {
		filename = options.DefaultFilename
	}
	return d.Download(ctx, csv, filename)
}

type exportIDKey struct{}

// WithExportID attaches an export id to ctx.
func WithExportID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, exportIDKey{}, id)
}

// ExportID returns the export id attached to ctx, if any.
func ExportID(ctx context.Context) string {
	id, _ := ctx.Value(exportIDKey{}).(string)
	return id
}

// HTTPDownloader sends the CSV as an attachment.
type HTTPDownloader struct {
	W http.ResponseWriter
}

func (d HTTPDownloader) Download(ctx context.Context, csv, filename string) error {
	h := d.W.Header()
	h.Set("Content-Type", "text/csv; charset=utf-8")
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	if id := ExportID(ctx); id != "" {
		h.Set("X-Export-Id", id)
	}
	if _, err := io.WriteString(d.W, csv); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// WriterDownloader writes the CSV to W, ignoring the file name.
type WriterDownloader struct {
	W io.Writer
}

func (d WriterDownloader) Download(ctx context.Context, csv, filename string) error {
	if _, err := io.WriteString(d.W, csv+"\r\n"); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// FileDownloader saves the CSV as filename inside Dir. Like
// WriterDownloader it ends the last record with CRLF.
type FileDownloader struct {
	Dir string
	// Path is set to the written file after a successful download.
	Path string
}

func (d *FileDownloader) Download(ctx context.Context, csv, filename string) error {
	path := filepath.Join(d.Dir, filepath.Base(filename))
	if err := os.WriteFile(path, []byte(csv+"\r\n"), 0o644); err != nil {
		return fmt.Errorf("failed to save csv: %w", err)
	}
	d.Path = path
	return nil
}
