package main

import (
	"bytes"
	"strings"
	"testing"

	"circle_pipeline/pkg/errorx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFrames(t *testing.T) {
	in := strings.NewReader(`{"type":"friend-delete","content":"{\"userId\":\"usr_a\"}"}

{"type":"friend-delete","content":{}}
{"type":"brand-new-event"}
`)
	var out, errOut bytes.Buffer
	require.NoError(t, decodeFrames(in, &out, &errOut, false))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "friend-delete\t"))
	assert.Contains(t, lines[0], `"usr_a"`)
	assert.True(t, strings.HasPrefix(lines[1], "unknown\t"))
	assert.Contains(t, errOut.String(), "line 3:")
	assert.Contains(t, errOut.String(), "1 of 4 frames failed")
}

func TestDecodeFrames_Strict(t *testing.T) {
	var out, errOut bytes.Buffer
	err := decodeFrames(strings.NewReader("not json\n"), &out, &errOut, true)
	require.Error(t, err)
	assert.Equal(t, errorx.CodeDecodeError, errorx.GetCode(err))
	assert.Empty(t, out.String())
}
