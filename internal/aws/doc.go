// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package aws loads AWS configuration and reads objects from S3 so that
// documents can be attached to projects straight from a bucket.
package aws
