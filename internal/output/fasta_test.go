package output

import (
	"bytes"
	"testing"

	"github.com/inodb/vcf2prot/internal/slicer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFastaWriter_WrapsLongSequences(t *testing.T) {
	seq := bytes.Repeat([]byte("A"), 75)
	var buf bytes.Buffer
	w := NewFastaWriter(&buf)
	require.NoError(t, w.Write(slicer.Record{ID: "p1_0_T1", Sequence: seq}))
	require.NoError(t, w.Flush())

	want := ">p1_0_T1\n" + string(bytes.Repeat([]byte("A"), 60)) + "\n" + string(bytes.Repeat([]byte("A"), 15)) + "\n"
	assert.Equal(t, want, buf.String())
}

func TestFastaWriter_WriteAllPreservesOrder(t *testing.T) {
	recs := []slicer.Record{
		{ID: "p1_0_T1", Sequence: []byte("MKT")},
		{ID: "p1_1_T1", Sequence: []byte("MKS")},
	}
	var buf bytes.Buffer
	w := NewFastaWriter(&buf)
	require.NoError(t, w.WriteAll(recs))
	require.NoError(t, w.Flush())
	assert.Equal(t, ">p1_0_T1\nMKT\n>p1_1_T1\nMKS\n", buf.String())
}
