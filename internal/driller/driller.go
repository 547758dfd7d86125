// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package driller

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// segmentRegex splits a path segment such as "photos[2]" into its key and
// any trailing indexes.
var segmentRegex = regexp.MustCompile(`^([^\[]*)((?:\[\d+\])*)$`)

var indexRegex = regexp.MustCompile(`\[(\d+)\]`)

// Driller resolves path against json. Segments are separated by "." and may
// carry explicit indexes ("items[0].name"). A single element array is
// stepped through transparently; a key applied to a longer array collects
// that key from every element. A missing path yields an empty result.
func Driller(json string, path string) gjson.Result {
	current := gjson.Parse(json)
	if path == "" {
		return current
	}

	for _, segment := range strings.Split(path, ".") {
		parts := segmentRegex.FindStringSubmatch(segment)
		if parts == nil {
			return gjson.Result{}
		}
		key, indexes := parts[1], parts[2]

		if key != "" {
			current = step(current, key)
			if !current.Exists() {
				return gjson.Result{}
			}
		}

		for _, m := range indexRegex.FindAllStringSubmatch(indexes, -1) {
			i, _ := strconv.Atoi(m[1])
			if !current.IsArray() {
				return gjson.Result{}
			}
			items := current.Array()
			if i >= len(items) {
				return gjson.Result{}
			}
			current = items[i]
		}
	}

	return unwrap(current)
}

// step applies key to current.
func step(current gjson.Result, key string) gjson.Result {
	if current.IsArray() {
		items := current.Array()
		if len(items) == 1 {
			return items[0].Get(escape(key))
		}
		return current.Get("#." + escape(key))
	}
	return current.Get(escape(key))
}

// unwrap returns the element of a single element array.
func unwrap(r gjson.Result) gjson.Result {
	if r.IsArray() {
		if items := r.Array(); len(items) == 1 {
			return items[0]
		}
	}
	return r
}

// escape quotes the characters gjson treats as path syntax.
func escape(key string) string {
	var b strings.Builder
	for _, r := range key {
		if strings.ContainsRune(`\.*?|#@!=<>%`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
