// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package output

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"

	"github.com/staranto/mthctl/internal/attrs"
)

const projectsJSON = `[
	{"id": "rec1", "landowner": "Hill Farm", "status": "Planted", "season": "24-25", "totalTrees": 1200},
	{"id": "rec2", "landowner": "oak ridge", "status": "Draft Map", "season": "24-25", "totalTrees": 300},
	{"id": "rec3", "landowner": "Birch Hollow", "status": "Planned", "season": "23-24", "totalTrees": 800}
]`

func projectAttrs() attrs.AttrList {
	return attrs.AttrList{
		{Key: "id", OutputKey: "id", Include: true},
		{Key: "landowner", OutputKey: "landowner", Include: true},
		{Key: "status", OutputKey: "status", Include: true},
		{Key: "totalTrees", OutputKey: "trees", Include: true},
		{Key: "season", OutputKey: "season", Include: false},
	}
}

func TestSliceDiceSpit_JSON(t *testing.T) {
	var buf bytes.Buffer
	err := SliceDiceSpit([]byte(projectsJSON), projectAttrs(), Options{
		Output: FormatJSON,
		Filter: "season=24-25",
		Sort:   "-trees",
	}, "", &buf)
	require.NoError(t, err)

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "rec1", got[0]["id"])
	assert.Equal(t, "rec2", got[1]["id"])
	assert.NotContains(t, got[0], "season", "excluded attrs are only used for filtering")
	assert.EqualValues(t, 1200, got[0]["trees"])
}

func TestSliceDiceSpit_EmptyJSON(t *testing.T) {
	var buf bytes.Buffer
	err := SliceDiceSpit([]byte(projectsJSON), projectAttrs(), Options{
		Output: FormatJSON,
		Filter: "status=Gone",
	}, "", &buf)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", buf.String())
}

func TestSliceDiceSpit_SingleObjectAndParent(t *testing.T) {
	var buf bytes.Buffer
	raw := `{"success": true, "project": {"id": "rec9", "landowner": "Elm", "status": "Planted"}}`
	err := SliceDiceSpit([]byte(raw), projectAttrs(), Options{Output: FormatYAML}, "project", &buf)
	require.NoError(t, err)

	var got []map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "rec9", got[0]["id"])
}

func TestSliceDiceSpit_Raw(t *testing.T) {
	var buf bytes.Buffer
	err := SliceDiceSpit([]byte(`{"a":1}`), nil, Options{Output: FormatRaw}, "", &buf)
	require.NoError(t, err)
	assert.Equal(t, "{\"a\":1}\n", buf.String())
}

func TestSliceDiceSpit_Table(t *testing.T) {
	var buf bytes.Buffer
	list := projectAttrs()
	list[1].TransformSpec = "U"
	err := SliceDiceSpit([]byte(projectsJSON), list, Options{Output: FormatTable, Titles: true, Sort: "landowner"}, "", &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "LANDOWNER")
	assert.Contains(t, out, "HILL FARM")
	assert.NotContains(t, out, "SEASON")
	assert.Less(t, strings.Index(out, "BIRCH HOLLOW"), strings.Index(out, "OAK RIDGE"))
}

func TestSliceDiceSpit_UnknownFormat(t *testing.T) {
	err := SliceDiceSpit([]byte(projectsJSON), projectAttrs(), Options{Output: "xml"}, "", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestSortDataset(t *testing.T) {
	testData := []map[string]interface{}{
		{"landowner": "zebra", "trees": 3.0, "status": "Planted"},
		{"landowner": "Alpha", "trees": 1.0, "status": "planned"},
		{"landowner": "beta", "trees": 2.0, "status": "Planted"},
		{"landowner": "Beta", "trees": 2.0},
	}

	tests := []struct {
		name      string
		spec      string
		wantOrder []string
	}{
		{
			name:      "ascending case insensitive",
			spec:      "landowner",
			wantOrder: []string{"Alpha", "beta", "Beta", "zebra"},
		},
		{
			name:      "descending",
			spec:      "-landowner",
			wantOrder: []string{"zebra", "beta", "Beta", "Alpha"},
		},
		{
			name:      "case sensitive",
			spec:      "!landowner",
			wantOrder: []string{"Alpha", "Beta", "beta", "zebra"},
		},
		{
			name:      "descending case sensitive either order",
			spec:      "!-landowner",
			wantOrder: []string{"zebra", "beta", "Beta", "Alpha"},
		},
		{
			name:      "numeric",
			spec:      "-trees",
			wantOrder: []string{"zebra", "beta", "Beta", "Alpha"},
		},
		{
			name:      "multiple fields with missing value first",
			spec:      "trees,status",
			wantOrder: []string{"Alpha", "Beta", "beta", "zebra"},
		},
		{
			name:      "empty spec",
			spec:      "",
			wantOrder: []string{"zebra", "Alpha", "beta", "Beta"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]map[string]interface{}, len(testData))
			copy(data, testData)
			SortDataset(data, tt.spec)
			for i, expected := range tt.wantOrder {
				assert.Equal(t, expected, data[i]["landowner"], "at index %d", i)
			}
		})
	}
}

func TestInterfaceToString(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		emptyVal string
		want     string
	}{
		{name: "string", value: "hello", want: "hello"},
		{name: "int", value: 42, want: "42"},
		{name: "float64", value: 42.5, want: "42"},
		{name: "float64 rounds", value: 42.7, want: "43"},
		{name: "bool true", value: true, want: "true"},
		{name: "bool false is zero value", value: false, want: ""},
		{name: "nil default", value: nil, want: ""},
		{name: "nil custom", value: nil, emptyVal: "-", want: "-"},
		{name: "list", value: []interface{}{"a.jpg", "b.jpg"}, want: "a.jpg, b.jpg"},
		{name: "typed slice", value: []string{"a", "b"}, want: `["a","b"]`},
		{name: "map", value: map[string]int{"x": 1}, want: `{"x":1}`},
		{name: "zero value with custom empty", value: 0, emptyVal: "N/A", want: "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			if tt.emptyVal != "" {
				got = InterfaceToString(tt.value, tt.emptyVal)
			} else {
				got = InterfaceToString(tt.value)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiff(t *testing.T) {
	before := []byte(`{"id":"rec1","status":"Planned","trees":10}`)

	var buf bytes.Buffer
	changed, err := Diff(&buf, before, before, false)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Empty(t, buf.String())

	after := []byte(`{"id":"rec1","status":"Planted","trees":10}`)
	changed, err = Diff(&buf, before, after, false)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Contains(t, buf.String(), "Planned")
	assert.Contains(t, buf.String(), "Planted")

	_, err = Diff(&buf, []byte(`nope`), after, false)
	assert.Error(t, err)
}

func TestKeyBy(t *testing.T) {
	keyed, err := KeyBy([]byte(`[{"id":"a","n":1},{"id":"b","n":2},{"n":3}]`), "id")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":{"id":"a","n":1},"b":{"id":"b","n":2}}`, string(keyed))

	_, err = KeyBy([]byte(`{"id":"a"}`), "id")
	assert.Error(t, err)
}

func TestNewTag(t *testing.T) {
	tests := []struct {
		name string
		h    string
		s    string
		kind reflect.Kind
		want Tag
	}{
		{name: "simple", s: "landowner", kind: reflect.String, want: Tag{Name: "landowner", Kind: "string"}},
		{name: "omitempty", s: "city,omitempty", kind: reflect.String, want: Tag{Name: "city", Kind: "string"}},
		{name: "with holder", h: "contact", s: "email", kind: reflect.String, want: Tag{Name: "contact.email", Kind: "string"}},
		{name: "ignored", s: "-", kind: reflect.Slice, want: Tag{}},
		{name: "empty", s: "", kind: reflect.String, want: Tag{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewTag(tt.h, tt.s, tt.kind))
		})
	}
}

func TestDumpSchemaWalker(t *testing.T) {
	type contact struct {
		Email string `json:"email"`
	}
	type record struct {
		ID      string   `json:"id"`
		Photos  []string `json:"photos,omitempty"`
		Contact contact  `json:"contact"`
		Raw     []byte   `json:"-"`
		hidden  string
	}

	got := DumpSchemaWalker("", reflect.TypeOf(record{}), 0)
	names := make([]string, 0, len(got))
	for _, tag := range got {
		names = append(names, tag.Name)
	}
	assert.Equal(t, []string{"id", "photos", "contact", "contact.email"}, names)

	var buf bytes.Buffer
	DumpSchema(&buf, reflect.TypeOf(record{}))
	assert.Contains(t, buf.String(), "contact.email")
}

func TestGetColors(t *testing.T) {
	header, even, odd := getColors("colors")
	assert.NotEmpty(t, header)
	assert.NotEmpty(t, even)
	assert.NotEmpty(t, odd)
}

func BenchmarkSortDataset(b *testing.B) {
	testData := []map[string]interface{}{
		{"landowner": "zebra", "trees": 3.0},
		{"landowner": "alpha", "trees": 1.0},
		{"landowner": "beta", "trees": 2.0},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		data := make([]map[string]interface{}, len(testData))
		copy(data, testData)
		SortDataset(data, "landowner")
	}
}
