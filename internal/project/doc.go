// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package project defines the project record served by the backend, the
// lenient parser that normalizes it, and the draft used to create one.
package project
