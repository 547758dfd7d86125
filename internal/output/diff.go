// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"
)

// Diff writes an ASCII diff of two JSON objects to w and reports whether
// they differ. Arrays at the top level are not supported; key them into an
// object first.
func Diff(w io.Writer, before, after []byte, color bool) (bool, error) {
	d, err := gojsondiff.New().Compare(before, after)
	if err != nil {
		return false, fmt.Errorf("failed to compare: %w", err)
	}
	if !d.Modified() {
		return false, nil
	}

	var left map[string]interface{}
	if err := json.Unmarshal(before, &left); err != nil {
		return true, fmt.Errorf("failed to decode left side: %w", err)
	}

	f := formatter.NewAsciiFormatter(left, formatter.AsciiFormatterConfig{
		ShowArrayIndex: true,
		Coloring:       color,
	})
	out, err := f.Format(d)
	if err != nil {
		return true, fmt.Errorf("failed to format diff: %w", err)
	}

	_, err = io.WriteString(w, out)
	return true, err
}

// KeyBy turns a JSON array of records into an object keyed by the string
// value of key in each record, so that Diff can line records up by identity
// instead of position. Records without the key are dropped.
func KeyBy(raw []byte, key string) ([]byte, error) {
	var records []map[string]interface{}
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}

	keyed := make(map[string]interface{}, len(records))
	for _, r := range records {
		id, ok := r[key].(string)
		if !ok || id == "" {
			continue
		}
		keyed[id] = r
	}
	return json.Marshal(keyed)
}
