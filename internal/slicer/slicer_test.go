package slicer

import (
	"testing"

	"github.com/inodb/vcf2prot/internal/lower"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlice_SplitsResultBufferByDescriptor(t *testing.T) {
	result := []byte("MKSAYQMKTRRAYQ")
	descs := []lower.Descriptor{
		{Patient: "p1", Haplotype: 1, TranscriptID: "T1", OutStart: 0, OutLength: 6},
		{Patient: "p2", Haplotype: 0, TranscriptID: "T1", OutStart: 6, OutLength: 8},
	}

	recs := Slice(descs, result)
	require.Len(t, recs, 2)
	assert.Equal(t, "p1_1_T1", recs[0].ID)
	assert.Equal(t, "MKSAYQ", string(recs[0].Sequence))
	assert.Equal(t, "p2_0_T1", recs[1].ID)
	assert.Equal(t, "MKTRRAYQ", string(recs[1].Sequence))
}

func TestSlice_SkipsZeroLengthDescriptors(t *testing.T) {
	recs := Slice([]lower.Descriptor{{Patient: "p1", Haplotype: 0, TranscriptID: "T1", OutStart: 0, OutLength: 0}}, nil)
	assert.Empty(t, recs)
}

func TestFastaID_Layout(t *testing.T) {
	assert.Equal(t, "p1_1_T1", FastaID("p1", 1, "T1"))
}
