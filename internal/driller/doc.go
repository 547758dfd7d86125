// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package driller resolves dotted attribute paths against backend JSON
// records, stepping through arrays the way a reader of the record would.
package driller
