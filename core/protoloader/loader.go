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

// Package protoloader loads textproto datasets. The message schema comes
// from a descriptor set; nested repeated messages are flattened into one
// row per leaf message.
package protoloader

import (
	"fmt"
	"os"
	"strings"

	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/google/tableselect/core/columns"
	"github.com/google/tableselect/core/tables"
)

// Loader handles loading textproto files into DataTables using a pre-populated registry.
type Loader struct {
	registry *protoregistry.Files
}

// NewLoader creates a new Loader with the given proto registry.
func NewLoader(registry *protoregistry.Files) *Loader {
	return &Loader{
		registry: registry,
	}
}

// NewLoaderFromDescriptorSet creates a Loader from a serialized
// FileDescriptorSet, as written by protoc --descriptor_set_out.
func NewLoaderFromDescriptorSet(data []byte) (*Loader, error) {
	var set descriptorpb.FileDescriptorSet
	if err := proto.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse descriptor set: %w", err)
	}
	files, err := protodesc.NewFiles(&set)
	if err != nil {
		return nil, fmt.Errorf("failed to build descriptors: %w", err)
	}
	return NewLoader(files), nil
}

// ParseTextproto parses textproto data into a dynamic message.
func (l *Loader) ParseTextproto(data []byte, messageName string) (protoreflect.Message, error) {
	desc, err := l.registry.FindDescriptorByName(protoreflect.FullName(messageName))
	if err != nil {
		return nil, fmt.Errorf("message %q not found in registry: %w", messageName, err)
	}
	msgDesc, ok := desc.(protoreflect.MessageDescriptor)
	if !ok {
		return nil, fmt.Errorf("%q is not a message type", messageName)
	}

	msg := dynamicpb.NewMessage(msgDesc)
	opts := prototext.UnmarshalOptions{Resolver: l}
	if err := opts.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("failed to parse textproto: %w", err)
	}
	return msg.ProtoReflect(), nil
}

// FindMessageByName implements protoregistry.MessageTypeResolver
func (l *Loader) FindMessageByName(name protoreflect.FullName) (protoreflect.MessageType, error) {
	desc, err := l.registry.FindDescriptorByName(name)
	if err != nil {
		return nil, err
	}
	msgDesc, ok := desc.(protoreflect.MessageDescriptor)
	if !ok {
		return nil, fmt.Errorf("%q is not a message type", name)
	}
	return dynamicpb.NewMessageType(msgDesc), nil
}

// FindMessageByURL implements protoregistry.MessageTypeResolver
func (l *Loader) FindMessageByURL(url string) (protoreflect.MessageType, error) {
	if i := strings.LastIndexByte(url, '/'); i >= 0 {
		url = url[i+1:]
	}
	return l.FindMessageByName(protoreflect.FullName(url))
}

// FindExtensionByName implements protoregistry.ExtensionTypeResolver
func (l *Loader) FindExtensionByName(name protoreflect.FullName) (protoreflect.ExtensionType, error) {
	return nil, protoregistry.NotFound
}

// FindExtensionByNumber implements protoregistry.ExtensionTypeResolver
func (l *Loader) FindExtensionByNumber(message protoreflect.FullName, field protoreflect.FieldNumber) (protoreflect.ExtensionType, error) {
	return nil, protoregistry.NotFound
}

// HierarchyLevel represents one level in a linear message hierarchy.
type HierarchyLevel struct {
	// FieldDesc is the repeated message field leading to the next level (nil for leaf)
	FieldDesc protoreflect.FieldDescriptor
	// ScalarFields are the singular non-message fields at this level
	ScalarFields []protoreflect.FieldDescriptor
}

// FindLinearHierarchy follows the first repeated message field of each
// message down to a leaf. Other repeated fields are ignored.
func FindLinearHierarchy(msgDesc protoreflect.MessageDescriptor) []HierarchyLevel {
	var levels []HierarchyLevel
	seen := map[protoreflect.FullName]bool{}

	for current := msgDesc; current != nil && !seen[current.FullName()]; {
		seen[current.FullName()] = true
		level := HierarchyLevel{}
		var next protoreflect.MessageDescriptor

		fields := current.Fields()
		for i := 0; i < fields.Len(); i++ {
			fd := fields.Get(i)
			switch {
			case fd.Kind() == protoreflect.MessageKind || fd.Kind() == protoreflect.GroupKind:
				if fd.Cardinality() == protoreflect.Repeated && !fd.IsMap() && level.FieldDesc == nil {
					level.FieldDesc = fd
					next = fd.Message()
				}
			case fd.Cardinality() != protoreflect.Repeated:
				level.ScalarFields = append(level.ScalarFields, fd)
			}
		}

		levels = append(levels, level)
		current = next
	}
	return levels
}

// column is one output column of the flattened message.
type column struct {
	name  string
	field protoreflect.FieldDescriptor
}

// RowBuilder accumulates denormalized rows from a hierarchical message.
type RowBuilder struct {
	columns        []column
	rows           [][]any
	current        map[string]any
	columnsByLevel [][]string
}

// newRowBuilder names columns after their fields. A field name used on an
// earlier level is qualified with its message name.
func newRowBuilder(hierarchy []HierarchyLevel) *RowBuilder {
	rb := &RowBuilder{
		current:        make(map[string]any),
		columnsByLevel: make([][]string, len(hierarchy)),
	}
	used := map[string]bool{}
	for i, level := range hierarchy {
		for _, fd := range level.ScalarFields {
			name := string(fd.Name())
			if used[name] {
				name = strings.ToLower(string(fd.ContainingMessage().Name())) + "_" + name
			}
			used[name] = true
			rb.columns = append(rb.columns, column{name: name, field: fd})
			rb.columnsByLevel[i] = append(rb.columnsByLevel[i], name)
		}
	}
	return rb
}

func (rb *RowBuilder) clearFromLevel(level int) {
	for i := level; i < len(rb.columnsByLevel); i++ {
		for _, col := range rb.columnsByLevel[i] {
			delete(rb.current, col)
		}
	}
}

func (rb *RowBuilder) emitRow() {
	row := make([]any, len(rb.columns))
	for i, col := range rb.columns {
		row[i] = rb.current[col.name]
	}
	rb.rows = append(rb.rows, row)
}

// ExtractRows walks a message hierarchy and extracts denormalized rows.
func ExtractRows(msg protoreflect.Message, hierarchy []HierarchyLevel) *RowBuilder {
	rb := newRowBuilder(hierarchy)
	rb.walk(msg, hierarchy, 0)
	return rb
}

func (rb *RowBuilder) walk(msg protoreflect.Message, hierarchy []HierarchyLevel, depth int) {
	if depth >= len(hierarchy) {
		return
	}
	level := hierarchy[depth]

	names := rb.columnsByLevel[depth]
	for i, fd := range level.ScalarFields {
		rb.current[names[i]] = fieldValue(msg.Get(fd), fd)
	}

	if level.FieldDesc == nil || depth == len(hierarchy)-1 {
		rb.emitRow()
		return
	}

	list := msg.Get(level.FieldDesc).List()
	if list.Len() == 0 {
		// A parent without children still yields one row
		rb.clearFromLevel(depth + 1)
		rb.emitRow()
		return
	}
	for i := 0; i < list.Len(); i++ {
		rb.clearFromLevel(depth + 1)
		rb.walk(list.Get(i).Message(), hierarchy, depth+1)
	}
}

// fieldValue converts a field value to the raw value stored in a column.
func fieldValue(val protoreflect.Value, fd protoreflect.FieldDescriptor) any {
	switch fd.Kind() {
	case protoreflect.BoolKind:
		return val.Bool()
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind,
		protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		return val.Int()
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind,
		protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return int64(val.Uint())
	case protoreflect.FloatKind, protoreflect.DoubleKind:
		return val.Float()
	case protoreflect.StringKind:
		return val.String()
	case protoreflect.BytesKind:
		return string(val.Bytes())
	case protoreflect.EnumKind:
		if ev := fd.Enum().Values().ByNumber(val.Enum()); ev != nil {
			return string(ev.Name())
		}
		return fmt.Sprintf("%d", val.Enum())
	}
	return val.String()
}

// CreateDataTable creates a typed DataTable from extracted rows. Missing
// values of rows without children become zero values.
func CreateDataTable(rb *RowBuilder) *tables.DataTable {
	table := tables.NewDataTable()
	for i, c := range rb.columns {
		def := columns.NewColumnDef(c.name, string(c.field.Name()))
		table.AddColumn(buildColumn(def, c.field.Kind(), rb.rows, i))
	}
	return table
}

func buildColumn(def *columns.ColumnDef, kind protoreflect.Kind, rows [][]any, i int) columns.IDataColumn {
	switch kind {
	case protoreflect.BoolKind:
		col := columns.NewBoolColumn(def)
		for _, row := range rows {
			v, _ := row[i].(bool)
			col.Append(v)
		}
		return col
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind,
		protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind,
		protoreflect.Uint32Kind, protoreflect.Fixed32Kind,
		protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		col := columns.NewInt64Column(def)
		for _, row := range rows {
			v, _ := row[i].(int64)
			col.Append(v)
		}
		return col
	case protoreflect.FloatKind, protoreflect.DoubleKind:
		col := columns.NewFloat64Column(def)
		for _, row := range rows {
			v, _ := row[i].(float64)
			col.Append(v)
		}
		return col
	}
	col := columns.NewStringColumn(def)
	for _, row := range rows {
		v, _ := row[i].(string)
		col.Append(v)
	}
	return col
}

// LoadTextproto parses textproto data and returns a denormalized DataTable.
// messageName is the fully qualified name of the root message.
func (l *Loader) LoadTextproto(data []byte, messageName string) (*tables.DataTable, error) {
	msg, err := l.ParseTextproto(data, messageName)
	if err != nil {
		return nil, err
	}

	rb := ExtractRows(msg, FindLinearHierarchy(msg.Descriptor()))
	if len(rb.rows) == 0 {
		return nil, fmt.Errorf("no rows extracted from textproto")
	}
	return CreateDataTable(rb), nil
}

// LoadTextprotoFile loads a textproto file as a table.
func (l *Loader) LoadTextprotoFile(path, messageName string) (*tables.DataTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read textproto file: %w", err)
	}
	return l.LoadTextproto(data, messageName)
}

// GetRegisteredMessages returns all top-level message names in the registry.
func (l *Loader) GetRegisteredMessages() []string {
	var messages []string
	l.registry.RangeFiles(func(fd protoreflect.FileDescriptor) bool {
		msgs := fd.Messages()
		for i := 0; i < msgs.Len(); i++ {
			messages = append(messages, string(msgs.Get(i).FullName()))
		}
		return true
	})
	return messages
}
