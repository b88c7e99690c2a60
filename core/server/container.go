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

package server

import (
	"context"

	"github.com/google/tableselect/core/models"
	"github.com/google/tableselect/core/tables"
)

// tableContainer owns the data and selection of one request. Selection
// updates are kept for the response; deletes replace the table in the
// data model.
type tableContainer struct {
	dataModel *models.DataModel
	name      string
	selected  []int

	source  string
	updated []int
}

func (c *tableContainer) SelectRowUpdate(source string, rows []int) error {
	c.source = source
	c.updated = rows
	return nil
}

func (c *tableContainer) RowsDelete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.dataModel.UpdateTable(c.name, func(t *tables.DataTable) (*tables.DataTable, error) {
		return t.WithoutRows(c.selected), nil
	})
}
