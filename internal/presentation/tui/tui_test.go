package tui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintBanner_PlainWhenNotATerminal(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)

	out := buf.String()
	assert.Contains(t, out, bannerLines[0])
	assert.NotContains(t, out, "\x1b[")
}

func TestNewRenderer(t *testing.T) {
	render := NewRenderer(60)
	out, err := render("# Payment confirmed\n\n| Card | Visa ending in 1111 |\n|---|---|\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Payment confirmed")
	assert.Contains(t, out, "1111")
}
