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

package protoloader

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/google/tableselect/core/columns"
)

func field(name string, number int32, typ descriptorpb.FieldDescriptorProto_Type, label descriptorpb.FieldDescriptorProto_Label) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Type:   typ.Enum(),
		Label:  label.Enum(),
	}
}

// ordersFile describes demo.Customer { name, tier, repeated Order orders }
// and demo.Order { id, name, amount, express }.
func ordersFile() *descriptorpb.FileDescriptorProto {
	opt := descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL
	orders := field("orders", 3, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, descriptorpb.FieldDescriptorProto_LABEL_REPEATED)
	orders.TypeName = proto.String(".demo.Order")
	tier := field("tier", 2, descriptorpb.FieldDescriptorProto_TYPE_ENUM, opt)
	tier.TypeName = proto.String(".demo.Tier")

	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String("demo/orders.proto"),
		Package: proto.String("demo"),
		Syntax:  proto.String("proto3"),
		EnumType: []*descriptorpb.EnumDescriptorProto{{
			Name: proto.String("Tier"),
			Value: []*descriptorpb.EnumValueDescriptorProto{
				{Name: proto.String("STANDARD"), Number: proto.Int32(0)},
				{Name: proto.String("GOLD"), Number: proto.Int32(1)},
			},
		}},
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto.String("Customer"),
				Field: []*descriptorpb.FieldDescriptorProto{
					field("name", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING, opt),
					tier,
					orders,
				},
			},
			{
				Name: proto.String("Order"),
				Field: []*descriptorpb.FieldDescriptorProto{
					field("id", 1, descriptorpb.FieldDescriptorProto_TYPE_INT64, opt),
					field("name", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING, opt),
					field("amount", 3, descriptorpb.FieldDescriptorProto_TYPE_DOUBLE, opt),
					field("express", 4, descriptorpb.FieldDescriptorProto_TYPE_BOOL, opt),
				},
			},
		},
	}
}

func newTestLoader(t *testing.T) *Loader {
	t.Helper()
	fd, err := protodesc.NewFile(ordersFile(), nil)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	files := new(protoregistry.Files)
	if err := files.RegisterFile(fd); err != nil {
		t.Fatalf("RegisterFile: %v", err)
	}
	return NewLoader(files)
}

const customerText = `
name: "Ann"
tier: GOLD
orders { id: 1 name: "desk" amount: 120.5 express: true }
orders { id: 2 name: "lamp" amount: 30 }
`

func TestFindLinearHierarchy(t *testing.T) {
	l := newTestLoader(t)
	msg, err := l.ParseTextproto([]byte(customerText), "demo.Customer")
	if err != nil {
		t.Fatalf("ParseTextproto: %v", err)
	}

	levels := FindLinearHierarchy(msg.Descriptor())
	if len(levels) != 2 {
		t.Fatalf("len(levels) = %d, want 2", len(levels))
	}
	if got := levels[0].FieldDesc.Name(); got != "orders" {
		t.Errorf("level 0 field = %q, want orders", got)
	}
	if len(levels[0].ScalarFields) != 2 {
		t.Errorf("level 0 scalars = %d, want 2", len(levels[0].ScalarFields))
	}
	if levels[1].FieldDesc != nil {
		t.Errorf("leaf level has repeated field %q", levels[1].FieldDesc.Name())
	}
	if len(levels[1].ScalarFields) != 4 {
		t.Errorf("level 1 scalars = %d, want 4", len(levels[1].ScalarFields))
	}
}

func TestLoadTextproto(t *testing.T) {
	l := newTestLoader(t)
	table, err := l.LoadTextproto([]byte(customerText), "demo.Customer")
	if err != nil {
		t.Fatalf("LoadTextproto: %v", err)
	}

	wantNames := []string{"name", "tier", "id", "order_name", "amount", "express"}
	if got := table.GetColumnNames(); !reflect.DeepEqual(got, wantNames) {
		t.Errorf("columns = %v, want %v", got, wantNames)
	}
	if table.Length() != 2 {
		t.Fatalf("Length() = %d, want 2", table.Length())
	}

	if _, ok := table.GetColumn("id").(*columns.Int64Column); !ok {
		t.Errorf("id column is %T, want *columns.Int64Column", table.GetColumn("id"))
	}
	if _, ok := table.GetColumn("amount").(*columns.Float64Column); !ok {
		t.Errorf("amount column is %T, want *columns.Float64Column", table.GetColumn("amount"))
	}
	if _, ok := table.GetColumn("express").(*columns.BoolColumn); !ok {
		t.Errorf("express column is %T, want *columns.BoolColumn", table.GetColumn("express"))
	}

	rows := table.Rows()
	want := [][]any{
		{"Ann", "GOLD", int64(1), "desk", 120.5, true},
		{"Ann", "GOLD", int64(2), "lamp", 30.0, false},
	}
	for i, row := range rows {
		if row.Index != i {
			t.Errorf("row %d Index = %d", i, row.Index)
		}
		for j, cell := range row.Data {
			if cell.Value() != want[i][j] {
				t.Errorf("row %d col %d = %#v, want %#v", i, j, cell.Value(), want[i][j])
			}
		}
	}
}

func TestLoadTextprotoWithoutChildren(t *testing.T) {
	l := newTestLoader(t)
	table, err := l.LoadTextproto([]byte(`name: "Bo"`), "demo.Customer")
	if err != nil {
		t.Fatalf("LoadTextproto: %v", err)
	}
	if table.Length() != 1 {
		t.Fatalf("Length() = %d, want 1", table.Length())
	}
	row := table.Rows()[0]
	if row.Data[0].Value() != "Bo" || row.Data[1].Value() != "STANDARD" || row.Data[2].Value() != int64(0) {
		t.Errorf("row = %v", row.Data)
	}
}

func TestLoadTextprotoErrors(t *testing.T) {
	l := newTestLoader(t)
	tests := []struct {
		name    string
		data    string
		message string
	}{
		{name: "unknown message", data: `name: "x"`, message: "demo.Missing"},
		{name: "enum is not a message", data: ``, message: "demo.Tier"},
		{name: "bad syntax", data: `name: `, message: "demo.Customer"},
		{name: "unknown field", data: `colour: "red"`, message: "demo.Customer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := l.LoadTextproto([]byte(tt.data), tt.message); err == nil {
				t.Error("LoadTextproto() succeeded, want error")
			}
		})
	}
}

func TestNewLoaderFromDescriptorSet(t *testing.T) {
	set := &descriptorpb.FileDescriptorSet{File: []*descriptorpb.FileDescriptorProto{ordersFile()}}
	data, err := proto.Marshal(set)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	l, err := NewLoaderFromDescriptorSet(data)
	if err != nil {
		t.Fatalf("NewLoaderFromDescriptorSet: %v", err)
	}

	want := []string{"demo.Customer", "demo.Order"}
	if got := l.GetRegisteredMessages(); !reflect.DeepEqual(got, want) {
		t.Errorf("GetRegisteredMessages() = %v, want %v", got, want)
	}

	path := filepath.Join(t.TempDir(), "customer.textproto")
	if err := os.WriteFile(path, []byte(customerText), 0o644); err != nil {
		t.Fatal(err)
	}
	table, err := l.LoadTextprotoFile(path, "demo.Customer")
	if err != nil {
		t.Fatalf("LoadTextprotoFile: %v", err)
	}
	if table.Length() != 2 {
		t.Errorf("Length() = %d, want 2", table.Length())
	}

	if _, err := NewLoaderFromDescriptorSet([]byte("not a descriptor")); err == nil {
		t.Error("NewLoaderFromDescriptorSet(garbage) succeeded, want error")
	}
}
