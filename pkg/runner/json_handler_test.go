package runner_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/aretw0/checkout/pkg/adapters/memory"
	"github.com/aretw0/checkout/pkg/domain"
	"github.com/aretw0/checkout/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONHandler_Input(t *testing.T) {
	var out bytes.Buffer
	h := runner.NewJSONHandler(strings.NewReader("\"quoted value\"\nplain value\n"), &out)

	v, err := h.Input(context.Background(), runner.Prompt{Field: domain.FieldCity, Label: "City"})
	require.NoError(t, err)
	assert.Equal(t, "quoted value", v)

	v, err = h.Input(context.Background(), runner.Prompt{Label: "Next"})
	require.NoError(t, err)
	assert.Equal(t, "plain value", v)

	var msg runner.JSONMessage
	require.NoError(t, json.Unmarshal([]byte(strings.SplitN(out.String(), "\n", 2)[0]), &msg))
	assert.Equal(t, "prompt", msg.Type)
	assert.Equal(t, domain.FieldCity, msg.Prompt.Field)
}

func TestJSONHandler_Checkout(t *testing.T) {
	var out bytes.Buffer
	lines := append(append([]string{}, personalLines...), cardLines...)
	h := runner.NewJSONHandler(strings.NewReader(strings.Join(lines, "\n")+"\n"), &out)

	r := runner.NewRunner(runner.WithEngine(newEngine(t, memory.NewSubmitter("ok"))), runner.WithInputHandler(h))
	_, err := r.Run(context.Background())
	require.NoError(t, err)

	var last runner.JSONMessage
	scanner := bufio.NewScanner(&out)
	prompts := 0
	for scanner.Scan() {
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &last))
		if last.Type == "prompt" {
			prompts++
			if last.Prompt.Field == domain.FieldCVV {
				assert.True(t, last.Prompt.Secret)
			}
		}
	}
	assert.Equal(t, len(lines), prompts)
	assert.Equal(t, "view", last.Type)
	require.NotNil(t, last.View)
	assert.True(t, last.View.Terminal)
}
