// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package attachment turns a local path or an s3:// reference into a
// document ready for upload to a project document slot.
package attachment
