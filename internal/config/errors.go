// SPDX-License-Identifier: MIT

package config

import "errors"

var (
	// ErrUnknownField classifies strict YAML parse failures caused by unknown keys.
	// Use errors.Is(err, ErrUnknownField) instead of string matching.
	ErrUnknownField = errors.New("unknown settings field")
)
