// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package cache provides the in-memory, time-expiring store the API client
// uses to avoid refetching idempotent reads.
package cache
