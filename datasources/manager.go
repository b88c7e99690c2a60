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

package datasources

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/google/tableselect/core/models"
	"github.com/google/tableselect/core/options"
	"github.com/google/tableselect/core/tables"
)

// Config is the data sources file.
type Config struct {
	Sources []*DataSource `yaml:"sources"`
}

// DataSource describes one table.
type DataSource struct {
	Name  string `yaml:"name"`
	Title string `yaml:"title"`
	// Type selects the loader: "csv", "xlsx" or "textproto".
	Type string `yaml:"type"`
	Path string `yaml:"path"`
	// Options is a toolbar options YAML file for this table.
	Options string `yaml:"options"`

	// CSV and workbook settings
	Delimiter string `yaml:"delimiter"`
	HasHeader *bool  `yaml:"hasHeader"`
	Sheet     string `yaml:"sheet"`

	// Textproto settings
	DescriptorSet string `yaml:"descriptorSet"`
	Message       string `yaml:"message"`

	Columns []ColumnAnnotation `yaml:"columns"`
}

// ColumnAnnotation overrides column properties after loading.
type ColumnAnnotation struct {
	Name        string `yaml:"name"`
	DisplayName string `yaml:"displayName"`
	Display     string `yaml:"display"`
	Download    *bool  `yaml:"download"`
}

// OptionsFile is a per-table options file and the store it feeds.
type OptionsFile struct {
	Path  string
	Store *options.Store
}

// Manager handles loading and caching of data sources.
// Source metadata is registered eagerly; data is loaded lazily on demand.
type Manager struct {
	mu sync.RWMutex

	// Source metadata indexed by name
	sources map[string]*DataSource
	// Order of source names (preserves definition order)
	order []string

	// Cached tables indexed by source name
	tables map[string]*tables.DataTable

	// Registered loaders indexed by source type
	loaders map[string]DataSourceLoader

	// Base directory for resolving relative paths
	baseDir string
}

// NewManager creates a manager with the csv, xlsx and textproto loaders
// registered.
func NewManager() *Manager {
	m := &Manager{
		sources: make(map[string]*DataSource),
		tables:  make(map[string]*tables.DataTable),
		loaders: make(map[string]DataSourceLoader),
	}
	m.RegisterLoader(NewCsvLoader())
	m.RegisterLoader(NewXlsxLoader())
	m.RegisterLoader(NewProtoLoader())
	return m
}

// RegisterLoader registers a data source loader for a specific source type.
// If a loader is already registered for this type, it will be replaced.
func (m *Manager) RegisterLoader(loader DataSourceLoader) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaders[loader.SourceType()] = loader
}

// LoadConfig reads a data sources file. Relative paths in it are resolved
// against the file's directory.
func (m *Manager) LoadConfig(configPath string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	m.SetBaseDir(filepath.Dir(configPath))
	return m.ParseConfig(data)
}

// ParseConfig registers the sources of a YAML config.
func (m *Manager) ParseConfig(data []byte) error {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	for _, source := range config.Sources {
		if err := m.AddSource(source); err != nil {
			return err
		}
	}
	return nil
}

// SetBaseDir sets the base directory for resolving relative paths in config.
func (m *Manager) SetBaseDir(dir string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.baseDir = dir
}

// AddSource registers a source. Names must be unique.
func (m *Manager) AddSource(source *DataSource) error {
	if source.Name == "" {
		return fmt.Errorf("source without name")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sources[source.Name]; ok {
		return fmt.Errorf("duplicate source %q", source.Name)
	}
	m.sources[source.Name] = source
	m.order = append(m.order, source.Name)
	return nil
}

// GetSourceNames returns all registered source names in definition order.
func (m *Manager) GetSourceNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.order...)
}

// GetSource returns the source metadata for a given name.
// Returns nil if the source is not found.
func (m *Manager) GetSource(name string) *DataSource {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sources[name]
}

// LoadData loads data for a source by name.
// Returns cached data if already loaded; otherwise loads from the source
// and applies its column annotations.
func (m *Manager) LoadData(sourceName string) (*tables.DataTable, error) {
	m.mu.RLock()
	if table, ok := m.tables[sourceName]; ok {
		m.mu.RUnlock()
		return table, nil
	}
	source, ok := m.sources[sourceName]
	if !ok {
		m.mu.RUnlock()
		return nil, fmt.Errorf("source %q not found", sourceName)
	}
	loader, hasLoader := m.loaders[source.Type]
	resolved := m.resolvePaths(source)
	m.mu.RUnlock()

	if !hasLoader {
		return nil, fmt.Errorf("no loader registered for source type %q", source.Type)
	}

	table, err := loader.Load(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to load source %q: %w", sourceName, err)
	}
	if err := Annotate(table, source.Columns); err != nil {
		return nil, fmt.Errorf("source %q: %w", sourceName, err)
	}

	m.mu.Lock()
	m.tables[sourceName] = table
	m.mu.Unlock()

	return table, nil
}

// resolvePaths returns a copy of source with relative file paths joined
// to the base directory. Callers hold m.mu.
func (m *Manager) resolvePaths(source *DataSource) *DataSource {
	resolved := *source
	if m.baseDir == "" {
		return &resolved
	}
	for _, p := range []*string{&resolved.Path, &resolved.DescriptorSet, &resolved.Options} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(m.baseDir, *p)
		}
	}
	return &resolved
}

// InvalidateCache removes a source from the cache, forcing reload on next access.
func (m *Manager) InvalidateCache(sourceName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tables, sourceName)
}

// IsLoaded returns whether data for a source is currently cached.
func (m *Manager) IsLoaded(sourceName string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.tables[sourceName]
	return ok
}

// Register loads every source and adds it to the data model together with
// its toolbar options. It returns the options files so callers can watch
// them for changes.
func (m *Manager) Register(dm *models.DataModel) ([]OptionsFile, error) {
	var files []OptionsFile
	for _, name := range m.GetSourceNames() {
		table, err := m.LoadData(name)
		if err != nil {
			return nil, err
		}

		m.mu.RLock()
		source := m.resolvePaths(m.sources[name])
		m.mu.RUnlock()

		var store *options.Store
		if source.Options != "" {
			o, err := options.Load(source.Options)
			if err != nil {
				return nil, fmt.Errorf("source %q: %w", name, err)
			}
			store = options.NewStore(o)
			files = append(files, OptionsFile{Path: source.Options, Store: store})
		}

		title := source.Title
		if title == "" {
			title = name
		}
		dm.AddTable(name, title, table, store)
	}
	return files, nil
}
