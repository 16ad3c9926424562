package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONArrayBare(t *testing.T) {
	out, err := ExtractJSONArray(`[{"title":"one"},{"title":"two"}]`)
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestExtractJSONArrayFenced(t *testing.T) {
	content := "```json\n[{\"title\":\"one\"}]\n```"
	out, err := ExtractJSONArray(content)
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestExtractJSONArrayWithCommentary(t *testing.T) {
	content := `Sure! Here are your campaign concepts:

[{"title":"one"}]

Let me know if you'd like more.`
	out, err := ExtractJSONArray(content)
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestExtractJSONArrayMissing(t *testing.T) {
	_, err := ExtractJSONArray("I could not generate anything today.")
	assert.Error(t, err)
}

func TestExtractJSONObjectFenced(t *testing.T) {
	content := "```\n{\"name\":\"Birchwell\",\"tagline\":\"carved to last\"}\n```"
	out, err := ExtractJSONObject(content)
	require.NoError(t, err)
	assert.Equal(t, "Birchwell", out["name"])
}
