package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountTokens(t *testing.T) {
	n, err := CountTokens("")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = CountTokens("hello world")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	long, err := CountTokens("# Launch plan\n\n- ship the beta\n- collect feedback")
	require.NoError(t, err)
	assert.Greater(t, long, n)
}
