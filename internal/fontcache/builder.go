// SPDX-License-Identifier: MIT

package fontcache

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandBuilder runs an external cache-builder executable. The command is
// invoked with "--variant <variant>" followed by the font directories and is
// expected to print the artifact path as the last non-empty line of stdout.
type CommandBuilder struct {
	Command string
	// Args are prepended before the variant flag and directories.
	Args []string
}

// Build implements Builder.
func (b *CommandBuilder) Build(ctx context.Context, fontDirs []string, variant ArchVariant) (string, error) {
	args := make([]string, 0, len(b.Args)+2+len(fontDirs))
	args = append(args, b.Args...)
	args = append(args, "--variant", string(variant))
	args = append(args, fontDirs...)

	out, err := exec.CommandContext(ctx, b.Command, args...).Output()
	if err != nil {
		return "", fmt.Errorf("cache builder %s: %w", b.Command, err)
	}

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	path := strings.TrimSpace(lines[len(lines)-1])
	if path == "" {
		return "", fmt.Errorf("cache builder %s: no artifact path in output", b.Command)
	}
	return path, nil
}
