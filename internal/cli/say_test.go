package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSayTypesMessage(t *testing.T) {
	out, _, err := execute(NewSayCommand(testRootOptions("text")), "--speed", "1000", "Hit!")
	require.NoError(t, err)
	assert.Equal(t, "Hit!\n", out)
}

func TestSayRepeatedMessageEscalates(t *testing.T) {
	out, errOut, err := execute(NewSayCommand(testRootOptions("json")), "--speed", "1000", "Miss", "Miss", "Miss", "Miss")
	require.NoError(t, err)
	assert.NotEmpty(t, errOut, "animation goes to stderr in JSON mode")

	var resp struct {
		Status string    `json:"status"`
		Data   SayResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 4, resp.Data.Messages)
	assert.Equal(t, 3, resp.Data.Repeats)
	assert.Equal(t, "Miss again... three times in a row?? come on... 3 times? really?", resp.Data.FinalText)
}

func TestSayNewMessageReplacesOld(t *testing.T) {
	out, _, err := execute(NewSayCommand(testRootOptions("json")), "--speed", "1000", "Miss!", "Hit!")
	require.NoError(t, err)

	var resp struct {
		Data SayResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "Hit!", resp.Data.FinalText)
	assert.Equal(t, 0, resp.Data.Repeats)
}

func TestSayCanceledByContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := NewSayCommand(testRootOptions("text"))
	cmd.SetContext(ctx)
	_, _, err := execute(cmd, "Hit!")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "announcement canceled")
}

func TestSayRequiresMessage(t *testing.T) {
	_, _, err := execute(NewSayCommand(testRootOptions("text")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg")
}
