// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/tidwall/gjson"

	"github.com/staranto/mthctl/internal/attrs"
	"github.com/staranto/mthctl/internal/driller"
)

// exprRegex splits an expression into key, optionally negated operator and
// target.
var exprRegex = regexp.MustCompile(`^([^!=^~<>@/]+)(!?[=^~<>@/])(.*)$`)

// DelimEnv overrides the delimiter between filter expressions.
const DelimEnv = "MTHCTL_FILTER_DELIM"

// dateLayouts are the date forms the backend stores in its *Date fields.
var dateLayouts = []string{time.RFC3339, "2006-01-02", "01/02/2006", "1/2/2006"}

// Filter is one parsed --filter expression.
//
// Operators: = equals, ^ has prefix, ~ contains ignoring case, @ contains
// (membership for lists, key presence for objects), < and > order, / regex.
// A leading ! negates the whole expression.
type Filter struct {
	Key     string
	Negate  bool
	Operand string
	Target  string

	re *regexp.Regexp
}

func (f Filter) String() string {
	neg := ""
	if f.Negate {
		neg = "!"
	}
	return f.Key + neg + f.Operand + f.Target
}

// Parse splits spec on the filter delimiter and parses every expression.
// Whitespace around keys is ignored, targets are taken verbatim.
func Parse(spec string) ([]Filter, error) {
	if spec == "" {
		return nil, nil
	}

	delim := ","
	if d, ok := os.LookupEnv(DelimEnv); ok && d != "" {
		delim = d
	}

	var filters []Filter
	for _, expr := range strings.Split(spec, delim) {
		parts := exprRegex.FindStringSubmatch(expr)
		if parts == nil || strings.TrimSpace(parts[1]) == "" {
			return nil, fmt.Errorf("invalid filter %q", expr)
		}

		f := Filter{
			Key:     strings.TrimSpace(parts[1]),
			Negate:  strings.HasPrefix(parts[2], "!"),
			Operand: strings.TrimPrefix(parts[2], "!"),
			Target:  parts[3],
		}
		if f.Operand == "/" {
			re, err := regexp.Compile(f.Target)
			if err != nil {
				return nil, fmt.Errorf("invalid filter %q: %w", expr, err)
			}
			f.re = re
		}
		filters = append(filters, f)
	}
	return filters, nil
}

// Match reports whether v satisfies f. A missing or null value is compared
// as the empty string, so "email=" selects rows without an email. For a
// list, a numeric target with =, < or > compares the length of the list
// ("draftMapUrls>0"); any other operator holds when some element matches.
func (f Filter) Match(v gjson.Result) bool {
	return f.match(v) != f.Negate
}

func (f Filter) match(v gjson.Result) bool {
	switch {
	case !v.Exists() || v.Type == gjson.Null:
		return f.compare("")
	case v.IsArray():
		items := v.Array()
		if n, ok := number(f.Target); ok && strings.ContainsAny(f.Operand, "=<>") {
			return order(float64(len(items)), n, f.Operand)
		}
		for _, item := range items {
			if f.Operand == "@" {
				if item.String() == f.Target {
					return true
				}
				continue
			}
			if f.match(item) {
				return true
			}
		}
		return false
	case v.IsObject():
		if f.Operand == "@" {
			_, found := v.Map()[f.Target]
			return found
		}
		return f.compare(v.Raw)
	default:
		return f.compare(v.String())
	}
}

// compare applies the operator to a scalar. Values that both parse as
// numbers, or as dates, are ordered as such; backend numbers often arrive as
// strings.
func (f Filter) compare(value string) bool {
	switch f.Operand {
	case "=":
		if a, ok := number(value); ok {
			if b, ok := number(f.Target); ok {
				return a == b
			}
		}
		return value == f.Target
	case "^":
		return strings.HasPrefix(value, f.Target)
	case "~":
		return strings.Contains(strings.ToLower(value), strings.ToLower(f.Target))
	case "@":
		return strings.Contains(value, f.Target)
	case "/":
		return f.re != nil && f.re.MatchString(value)
	case "<", ">":
		if a, ok := number(value); ok {
			if b, ok := number(f.Target); ok {
				return order(a, b, f.Operand)
			}
		}
		if a, ok := date(value); ok {
			if b, ok := date(f.Target); ok {
				return order(float64(a.Unix()), float64(b.Unix()), f.Operand)
			}
		}
		if value == "" {
			return false
		}
		return (f.Operand == "<" && value < f.Target) || (f.Operand == ">" && value > f.Target)
	}
	return false
}

// lookup resolves path in row. A top level key is read directly so that
// single element lists stay lists; anything else goes through the driller.
func lookup(row gjson.Result, path string) gjson.Result {
	if !strings.ContainsAny(path, ".[") {
		return row.Map()[path]
	}
	return driller.Driller(row.Raw, path)
}

func order(a, b float64, op string) bool {
	switch op {
	case "<":
		return a < b
	case ">":
		return a > b
	default:
		return a == b
	}
}

func number(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	return n, err == nil
}

func date(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Apply keeps the rows of candidates that match every filter in spec and
// projects each onto attrs, keyed by output key. A filter key names an attr
// by output key or path; any other key is resolved as a path into the row.
// Transforms are left to the caller.
func Apply(candidates gjson.Result, al attrs.AttrList, spec string) ([]map[string]any, error) {
	filters, err := Parse(spec)
	if err != nil {
		return nil, err
	}

	paths := make([]string, len(filters))
	for i, f := range filters {
		paths[i] = f.Key
		for _, attr := range al {
			if attr.OutputKey == f.Key || attr.Key == f.Key {
				paths[i] = attr.Key
				break
			}
		}
	}

	//nolint:prealloc
	var rows []map[string]any
	for _, candidate := range candidates.Array() {
		keep := true
		for i, f := range filters {
			if !f.Match(lookup(candidate, paths[i])) {
				keep = false
				break
			}
		}
		if !keep {
			continue
		}

		row := make(map[string]any, len(al))
		for _, attr := range al {
			row[attr.OutputKey] = driller.Driller(candidate.Raw, attr.Key).Value()
		}
		rows = append(rows, row)
	}

	log.Debugf("filter %q kept %d of %d rows", spec, len(rows), len(candidates.Array()))
	return rows, nil
}
