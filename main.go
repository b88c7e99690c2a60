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

// tableselect serves data tables with a selection toolbar: the selected
// rows can be deleted, downloaded as CSV or passed to custom actions.
//
// Usage:
//
//	# Serve the demo tables
//	tableselect serve
//
//	# Serve a CSV file with options reloaded on change
//	tableselect serve --csv orders.csv --options toolbar.yaml
//
//	# Export rows 0 and 2 of a CSV file
//	tableselect export --csv orders.csv --rows 0,2
//
//	# Preview the toolbar in the terminal
//	tableselect preview --rows 1,3
package main

func main() {
	Execute()
}
