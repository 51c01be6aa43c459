package fetch

import (
	"context"
	"errors"
)

// NoopRenderer implements Renderer but always returns an error, for builds
// where headless browsing is disabled. The orchestrator treats the error as
// a per-unit fetch failure and moves on.
type NoopRenderer struct{}

// NewNoopRenderer creates a NoopRenderer.
func NewNoopRenderer() *NoopRenderer {
	return &NoopRenderer{}
}

// Render returns an error since rendering is not available.
func (NoopRenderer) Render(_ context.Context, _ string) (string, error) {
	return "", errors.New("renderer not configured")
}

// Close is a no-op.
func (NoopRenderer) Close() {}
