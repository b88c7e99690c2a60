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

package selection

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// Updater is implemented by the table that owns the selection.
type Updater interface {
	SelectRowUpdate(source string, rows []int) error
}

// UpdaterFunc adapts a function to the Updater interface.
type UpdaterFunc func(source string, rows []int) error

func (f UpdaterFunc) SelectRowUpdate(source string, rows []int) error {
	return f(source, rows)
}

// Forwarder validates selections made by custom toolbar actions and hands
// them to the owning table. It keeps no state of its own.
type Forwarder struct {
	mode    Mode
	updater Updater
}

// NewForwarder creates a forwarder for a table with the given selection mode.
func NewForwarder(mode Mode, updater Updater) *Forwarder {
	return &Forwarder{mode: mode, updater: updater}
}

// SelectRows replaces the selection with the given row indices, e.g.
// []int{0, 2} selects the first and third rows.
//
// v must be a slice or array whose elements are all numbers. Values decoded
// from JSON ([]any of float64 or json.Number) are accepted. The selection
// mode is checked before the numbers are turned into indices, which must be
// whole and fit in an int.
func (f *Forwarder) SelectRows(v any) error {
	numbers, err := toNumbers(v)
	if err != nil {
		return err
	}
	if len(numbers) > 1 && f.mode == ModeSingle {
		return fmt.Errorf("%w: can not select more than one row when selectable rows is %q", ErrInvalidSelectionMode, ModeSingle)
	}
	rows := make([]int, len(numbers))
	for i, n := range numbers {
		idx, ok := n.index()
		if !ok {
			return fmt.Errorf("%w: selected rows must be whole numbers within range, got %s", ErrInvalidArgumentType, n)
		}
		rows[i] = idx
	}
	return f.updater.SelectRowUpdate(SourceCustom, rows)
}

// number is one numeric element of a selection. Exactly one of the value
// fields is meaningful, as given by kind.
type number struct {
	kind reflect.Kind
	i    int64
	u    uint64
	f    float64
}

func (n number) String() string {
	switch n.kind {
	case reflect.Int64:
		return fmt.Sprint(n.i)
	case reflect.Uint64:
		return fmt.Sprint(n.u)
	}
	return fmt.Sprint(n.f)
}

// index converts the number to a row index.
func (n number) index() (int, bool) {
	switch n.kind {
	case reflect.Int64:
		if n.i < math.MinInt || n.i > math.MaxInt {
			return 0, false
		}
		return int(n.i), true
	case reflect.Uint64:
		if n.u > math.MaxInt {
			return 0, false
		}
		return int(n.u), true
	}
	f := n.f
	// float64(math.MaxInt) rounds up to 2^63, which is out of range.
	if math.IsNaN(f) || f != math.Trunc(f) || f < math.MinInt || f >= math.MaxInt {
		return 0, false
	}
	return int(f), true
}

func toNumbers(v any) ([]number, error) {
	if ints, ok := v.([]int); ok {
		numbers := make([]number, len(ints))
		for i, n := range ints {
			numbers[i] = number{kind: reflect.Int64, i: int64(n)}
		}
		return numbers, nil
	}

	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, fmt.Errorf("%w: selected rows must be an array, but it's %s", ErrInvalidArgumentType, typeName(v))
	}

	numbers := make([]number, rv.Len())
	for i := range numbers {
		n, ok := toNumber(rv.Index(i).Interface())
		if !ok {
			return nil, fmt.Errorf("%w: selected rows must contain only numbers", ErrInvalidArgumentType)
		}
		numbers[i] = n
	}
	return numbers, nil
}

func toNumber(e any) (number, bool) {
	if n, ok := e.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return number{kind: reflect.Int64, i: i}, true
		}
		f, err := n.Float64()
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return number{}, false
		}
		return number{kind: reflect.Float64, f: f}, true
	}

	rv := reflect.ValueOf(e)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return number{kind: reflect.Int64, i: rv.Int()}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return number{kind: reflect.Uint64, u: rv.Uint()}, true
	case reflect.Float32, reflect.Float64:
		return number{kind: reflect.Float64, f: rv.Float()}, true
	}
	return number{}, false
}

func typeName(v any) string {
	if v == nil {
		return "null"
	}
	return reflect.TypeOf(v).String()
}
