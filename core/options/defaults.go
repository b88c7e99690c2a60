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

package options

import "github.com/google/tableselect/core/selection"

// ApplyDefaults fills every unset field with its default value.
func ApplyDefaults(o *Options) {
	if o.SelectableRows == "" {
		o.SelectableRows = selection.ModeMultiple
	}
	if o.Download == nil {
		o.Download = Bool(true)
	}

	labels := &o.TextLabels.SelectedRows
	if labels.Text == "" {
		labels.Text = DefaultSelectedRowsText
	}
	if labels.Delete == "" {
		labels.Delete = DefaultDeleteText
	}
	if labels.DeleteAria == "" {
		labels.DeleteAria = DefaultDeleteAria
	}
	if labels.DownloadCsv == "" {
		labels.DownloadCsv = DefaultDownloadCsvText
	}

	if o.DownloadOptions.Filename == "" {
		o.DownloadOptions.Filename = DefaultFilename
	}
	if o.DownloadOptions.Separator == "" {
		o.DownloadOptions.Separator = DefaultSeparator
	}
	if o.Locale == "" {
		o.Locale = DefaultLocale
	}
}
