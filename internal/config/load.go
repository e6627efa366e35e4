// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load parses a Settings record from YAML. Unknown keys are rejected so a
// typo in a settings file fails loudly instead of silently using a default.
func Load(data []byte) (Settings, error) {
	s := Defaults()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		if isUnknownFieldError(err) {
			return Settings{}, fmt.Errorf("%w: %v", ErrUnknownField, err)
		}
		return Settings{}, fmt.Errorf("parse settings: %w", err)
	}
	return s, nil
}

// LoadFile reads and parses a settings file.
func LoadFile(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read settings file: %w", err)
	}
	return Load(data)
}

// isUnknownFieldError matches yaml.v3's strict-mode complaint. The library
// exposes no typed error for it, only the message text.
func isUnknownFieldError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "not found in type")
}
