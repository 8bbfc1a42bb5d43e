package fasta

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader_WholeRemainderIsID(t *testing.T) {
	// spec.md §6: no splitting on whitespace, the whole remainder is the id.
	content := ">T1 some description here\nMKTAYQ\n>T2\nMKT\nAYQ\n"
	r := NewReader(strings.NewReader(content))

	id, seq, ok, err := r.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "T1 some description here", id)
	assert.Equal(t, "MKTAYQ", seq)

	id, seq, ok, err = r.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "T2", id)
	assert.Equal(t, "MKTAYQ", seq)

	_, _, ok, err = r.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReader_StripsTrailingWhitespacePerLine(t *testing.T) {
	content := ">T1\nMKT \nAYQ\t\n"
	r := NewReader(strings.NewReader(content))

	_, seq, ok, err := r.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "MKTAYQ", seq)
}

func TestReader_Empty(t *testing.T) {
	r := NewReader(strings.NewReader(""))
	_, _, ok, err := r.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}
