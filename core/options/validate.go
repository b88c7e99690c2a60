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

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"

	"github.com/google/tableselect/core/selection"
)

// Validate checks options that have already been completed by ApplyDefaults.
func Validate(o *Options) error {
	var errs []error

	if _, err := selection.ParseMode(string(o.SelectableRows)); err != nil {
		errs = append(errs, fmt.Errorf("selectableRows: %w", err))
	}

	name := o.DownloadOptions.Filename
	if strings.ContainsAny(name, `/\`) || filepath.Base(name) != name || strings.TrimSuffix(name, filepath.Ext(name)) == "" {
		errs = append(errs, fmt.Errorf("downloadOptions.filename: %q is not a file name", name))
	}

	if o.DownloadOptions.Separator == "" || strings.ContainsAny(o.DownloadOptions.Separator, "\"\r\n") {
		errs = append(errs, fmt.Errorf("downloadOptions.separator: %q can not be used", o.DownloadOptions.Separator))
	}

	if _, err := language.Parse(o.Locale); err != nil {
		errs = append(errs, fmt.Errorf("locale: %w", err))
	}

	return errors.Join(errs...)
}
