// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	"github.com/apex/log"
)

// Tag is a discovered JSON field used when emitting schema information
// (--schema flag).
type Tag struct {
	Name string
	Kind string
}

// NewTag builds a Tag from a raw json struct tag value and an optional holder
// prefix used to build hierarchical attribute names. Ignored fields yield a
// zero Tag.
func NewTag(h string, s string, kind reflect.Kind) Tag {
	name := strings.Split(s, ",")[0]
	if name == "" || name == "-" {
		return Tag{}
	}
	if h != "" {
		name = h + "." + name
	}
	return Tag{Name: name, Kind: kind.String()}
}

// Print renders the tag into its display form.
func (t Tag) Print() string {
	if t.Name == "" {
		return ""
	}
	return fmt.Sprintf("%-24s %s", t.Name, t.Kind)
}

const maxSchemaDepth = 1

// DumpSchema prints a sorted list of the attributes available to --attrs for
// typ.
func DumpSchema(w io.Writer, typ reflect.Type) {
	tags := DumpSchemaWalker("", typ, 0)
	if len(tags) == 0 {
		log.Debugf("no tags found for type: %s", typ.Name())
		return
	}

	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })

	fmt.Fprintln(w, "Schema for", typ.Name(), "--")
	for _, tag := range tags {
		fmt.Fprintln(w, tag.Print())
	}
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, `Attributes available to the --attrs, --filter and --sort flags. Use
--output=raw to see the record exactly as the backend sent it.`)
}

// DumpSchemaWalker walks a struct type discovering json tags.
func DumpSchemaWalker(holder string, typ reflect.Type, depth int) []Tag {
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil
	}

	tags := make([]Tag, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)

		tagValue, ok := field.Tag.Lookup("json")
		if !ok || !field.IsExported() {
			continue
		}

		tag := NewTag(holder, tagValue, field.Type.Kind())
		if tag.Name == "" {
			continue
		}
		tags = append(tags, tag)

		ft := field.Type
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		if depth < maxSchemaDepth && ft.Kind() == reflect.Struct {
			tags = append(tags, DumpSchemaWalker(tag.Name, ft, depth+1)...)
		}
	}

	return tags
}
