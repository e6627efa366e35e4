// SPDX-License-Identifier: MIT

package log

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildIDRoundTrip(t *testing.T) {
	ctx := ContextWithBuildID(context.Background(), "build-123")
	assert.Equal(t, "build-123", BuildIDFromContext(ctx))
}

func TestBuildIDMissing(t *testing.T) {
	assert.Empty(t, BuildIDFromContext(context.Background()))
	assert.Empty(t, BuildIDFromContext(nil)) //nolint:staticcheck // the helper accepts a nil context
}

func TestWithComponentFromContext(t *testing.T) {
	ctx := ContextWithBuildID(context.Background(), "abc")
	logger := WithComponentFromContext(ctx, "assemble")
	// Smoke check only: the logger must be usable.
	logger.Debug().Msg("component logger works")
}
