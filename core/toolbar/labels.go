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

package toolbar

import (
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/google/tableselect/core/options"
)

// selectedKey is the catalog key used when the default selected rows text
// is configured.
const selectedKey = "%d " + options.DefaultSelectedRowsText

var (
	labelCatalog   = newLabelCatalog()
	labelLanguages = labelCatalog.Languages()
	labelMatcher   = language.NewMatcher(labelLanguages)
)

func newLabelCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	set := func(tag language.Tag, one, other string) {
		if err := b.Set(tag, selectedKey, plural.Selectf(1, "%d", "one", one, "other", other)); err != nil {
			panic(err)
		}
	}
	set(language.English, "%[1]d row selected", "%[1]d rows selected")
	set(language.German, "%[1]d Zeile ausgewählt", "%[1]d Zeilen ausgewählt")
	set(language.French, "%[1]d ligne sélectionnée", "%[1]d lignes sélectionnées")
	set(language.Spanish, "%[1]d fila seleccionada", "%[1]d filas seleccionadas")
	return b
}

// newPrinter returns a printer for the closest supported locale. Unknown
// or malformed locales fall back to English.
func newPrinter(locale string) *message.Printer {
	tag := language.English
	if t, err := language.Parse(locale); err == nil {
		if _, idx, conf := labelMatcher.Match(t); conf != language.No {
			tag = labelLanguages[idx]
		}
	}
	return message.NewPrinter(tag, message.Catalog(labelCatalog))
}

// SelectedLabel formats the selected row count with the configured text.
// The default text is pluralised and translated; custom texts are used as
// given after the localized count.
func SelectedLabel(count int, text, locale string) string {
	p := newPrinter(locale)
	if text == "" || text == options.DefaultSelectedRowsText {
		return p.Sprintf(selectedKey, count)
	}
	return p.Sprintf("%d %s", count, text)
}
