// Copyright (c) 2026 Hostmaster Team
// Hostmaster - Linux host bootstrap tool
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import "errors"

// ErrNotInitialized is returned by package helpers before InitDB has run.
var ErrNotInitialized = errors.New("database not initialized")

// ErrDuplicate indicates an insert collided with an existing row.
var ErrDuplicate = errors.New("duplicate entry")
