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
	"math"
	"testing"
)

type recordingUpdater struct {
	calls   int
	source  string
	rows    []int
	failErr error
}

func (r *recordingUpdater) SelectRowUpdate(source string, rows []int) error {
	r.calls++
	r.source = source
	r.rows = rows
	return r.failErr
}

func TestSelectRowsRejectsNonSequences(t *testing.T) {
	inputs := []any{nil, 3, 2.5, "0,1", map[string]int{"a": 1}, struct{}{}, true}
	for _, in := range inputs {
		u := &recordingUpdater{}
		f := NewForwarder(ModeMultiple, u)
		err := f.SelectRows(in)
		if !errors.Is(err, ErrInvalidArgumentType) {
			t.Errorf("input %#v: expected ErrInvalidArgumentType, got %v", in, err)
		}
		if u.calls != 0 {
			t.Errorf("input %#v: updater should not be called", in)
		}
	}
}

func TestSelectRowsRejectsNonNumericElements(t *testing.T) {
	inputs := []any{
		[]any{0, "1"},
		[]any{nil},
		[]string{"0"},
		[]any{1, true},
		[]any{[]int{1}},
	}
	for _, in := range inputs {
		u := &recordingUpdater{}
		err := NewForwarder(ModeMultiple, u).SelectRows(in)
		if !errors.Is(err, ErrInvalidArgumentType) {
			t.Errorf("input %#v: expected ErrInvalidArgumentType, got %v", in, err)
		}
		if u.calls != 0 {
			t.Errorf("input %#v: updater should not be called", in)
		}
	}
}

func TestSelectRowsSingleMode(t *testing.T) {
	t.Run("More than one row fails", func(t *testing.T) {
		u := &recordingUpdater{}
		err := NewForwarder(ModeSingle, u).SelectRows([]int{0, 1})
		if !errors.Is(err, ErrInvalidSelectionMode) {
			t.Errorf("expected ErrInvalidSelectionMode, got %v", err)
		}
		if u.calls != 0 {
			t.Error("updater should not be called")
		}
	})

	for _, in := range [][]int{{}, {4}} {
		u := &recordingUpdater{}
		if err := NewForwarder(ModeSingle, u).SelectRows(in); err != nil {
			t.Fatalf("input %v: unexpected error: %v", in, err)
		}
		if u.calls != 1 || u.source != SourceCustom || !equalInts(u.rows, in) {
			t.Errorf("input %v: expected forward of (custom, %v), got (%s, %v)", in, in, u.source, u.rows)
		}
	}
}

func TestSelectRowsModeCheckedBeforeIndices(t *testing.T) {
	// Fractional numbers are still numbers, so single mode reports the mode.
	u := &recordingUpdater{}
	err := NewForwarder(ModeSingle, u).SelectRows([]any{0.5, 1.0})
	if !errors.Is(err, ErrInvalidSelectionMode) {
		t.Errorf("expected ErrInvalidSelectionMode, got %v", err)
	}
	if u.calls != 0 {
		t.Error("updater should not be called")
	}
}

func TestSelectRowsRejectsInvalidIndices(t *testing.T) {
	inputs := []any{
		[]float64{1.5},
		[]any{0.5, 1.0},
		[]uint64{math.MaxUint64},
		[]float64{1e20},
		[]float64{-1e20},
		[]float64{math.NaN()},
		[]float64{math.Inf(1)},
		[]any{json.Number("1e400")},
		[]any{json.Number("100000000000000000000")},
	}
	for _, in := range inputs {
		u := &recordingUpdater{}
		err := NewForwarder(ModeMultiple, u).SelectRows(in)
		if !errors.Is(err, ErrInvalidArgumentType) {
			t.Errorf("input %#v: expected ErrInvalidArgumentType, got %v", in, err)
		}
		if u.calls != 0 {
			t.Errorf("input %#v: updater should not be called, got %v", in, u.rows)
		}
	}

	u := &recordingUpdater{}
	if err := NewForwarder(ModeMultiple, u).SelectRows([]uint8{7}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalInts(u.rows, []int{7}) {
		t.Errorf("expected rows [7], got %v", u.rows)
	}
}

func TestSelectRowsForwardsUnchanged(t *testing.T) {
	u := &recordingUpdater{}
	if err := NewForwarder(ModeMultiple, u).SelectRows([]int{2, 0, 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.source != "custom" {
		t.Errorf("expected source 'custom', got '%s'", u.source)
	}
	if !equalInts(u.rows, []int{2, 0, 2}) {
		t.Errorf("expected rows [2 0 2], got %v", u.rows)
	}
}

func TestSelectRowsAcceptsJSON(t *testing.T) {
	var decoded any
	if err := json.Unmarshal([]byte(`[0, 2, 5]`), &decoded); err != nil {
		t.Fatal(err)
	}
	u := &recordingUpdater{}
	if err := NewForwarder(ModeMultiple, u).SelectRows(decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalInts(u.rows, []int{0, 2, 5}) {
		t.Errorf("expected rows [0 2 5], got %v", u.rows)
	}

	numbers := []any{json.Number("1"), json.Number("3.0")}
	u = &recordingUpdater{}
	if err := NewForwarder(ModeMultiple, u).SelectRows(numbers); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalInts(u.rows, []int{1, 3}) {
		t.Errorf("expected rows [1 3], got %v", u.rows)
	}
}

func TestSelectRowsReturnsUpdaterError(t *testing.T) {
	boom := errors.New("boom")
	u := &recordingUpdater{failErr: boom}
	if err := NewForwarder(ModeMultiple, u).SelectRows([]int{1}); !errors.Is(err, boom) {
		t.Errorf("expected updater error, got %v", err)
	}
}

func TestNewSelectedRows(t *testing.T) {
	s := NewSelectedRows(2, 0, 2)
	if s.Count() != 2 {
		t.Errorf("expected 2 selected rows, got %d", s.Count())
	}
	if !s.IsSelected(0) || !s.IsSelected(2) || s.IsSelected(1) {
		t.Errorf("unexpected lookup %v", s.Lookup)
	}
	if !equalInts(s.Indices(), []int{0, 2}) {
		t.Errorf("expected indices [0 2], got %v", s.Indices())
	}
	if err := s.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestValidateDetectsMismatch(t *testing.T) {
	s := SelectedRows{
		Data:   []Record{{Index: 0, DataIndex: 0}},
		Lookup: map[int]bool{0: true, 1: true},
	}
	if err := s.Validate(); err == nil {
		t.Error("expected validation error")
	}
}

func TestParseIndices(t *testing.T) {
	got, err := ParseIndices("0, 2,5")
	if err != nil || !equalInts(got, []int{0, 2, 5}) {
		t.Errorf("expected [0 2 5], got %v (%v)", got, err)
	}
	if _, err := ParseIndices("0,a"); !errors.Is(err, ErrInvalidArgumentType) {
		t.Errorf("expected ErrInvalidArgumentType, got %v", err)
	}
}

func TestParseMode(t *testing.T) {
	tests := map[string]Mode{"": ModeMultiple, "multiple": ModeMultiple, "single": ModeSingle, "none": ModeNone}
	for in, want := range tests {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseMode("many"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
