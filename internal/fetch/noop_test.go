package fetch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopRendererAlwaysFails(t *testing.T) {
	t.Parallel()

	r := NewNoopRenderer()
	defer r.Close()

	html, err := r.Render(context.Background(), "https://example.com")
	require.Error(t, err)
	assert.Empty(t, html)
}

func TestNewClientAppliesDefaultTimeout(t *testing.T) {
	t.Parallel()

	c := NewClient(ClientConfig{UserAgent: "radar-test"})
	require.NotNil(t, c)
	assert.NotZero(t, c.cfg.Timeout)
}
