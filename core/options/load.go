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
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Load reads options from a YAML file, applies defaults and validates them.
func Load(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read options file %q: %w", path, err)
	}
	return Parse(data)
}

// Parse parses YAML options, applies defaults and validates them.
func Parse(data []byte) (*Options, error) {
	var o Options
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("failed to parse options: %w", err)
	}
	ApplyDefaults(&o)
	if err := Validate(&o); err != nil {
		return nil, fmt.Errorf("options validation failed: %w", err)
	}
	return &o, nil
}

// Store holds the current options and can be updated while being read.
type Store struct {
	mu      sync.RWMutex
	options *Options
}

func NewStore(o *Options) *Store {
	return &Store{options: o}
}

// Get returns a copy of the current options.
func (s *Store) Get() *Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.options.Clone()
}

// Set replaces the options. Callbacks that cannot be expressed in YAML
// (CustomToolbarSelect, OnDownload) are kept from the previous options when
// o does not set them.
func (s *Store) Set(o *Options) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.options != nil {
		if o.CustomToolbarSelect == nil {
			o.CustomToolbarSelect = s.options.CustomToolbarSelect
		}
		if o.OnDownload == nil {
			o.OnDownload = s.options.OnDownload
		}
	}
	s.options = o
}
