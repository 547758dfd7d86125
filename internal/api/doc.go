// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package api is the client for the Magic Tree House backend. It wraps the
// REST endpoints for seasons, projects, documents and draft-map comments,
// classifies failures into HTTP and network errors, and caches idempotent
// reads for a fixed time.
package api
