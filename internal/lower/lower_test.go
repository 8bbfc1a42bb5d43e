package lower

import (
	"testing"

	"github.com/inodb/vcf2prot/internal/compile"
	"github.com/inodb/vcf2prot/internal/mutation"
	"github.com/inodb/vcf2prot/internal/refindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildRef(t *testing.T) *refindex.Index {
	t.Helper()
	idx := refindex.New()
	require.NoError(t, idx.Add("T1", "MKTAYQ"))
	require.NoError(t, idx.Add("T2", "ACDEFG"))
	return idx
}

func TestBuilder_AppendShiftsOutStartByGlobalCursor(t *testing.T) {
	idx := buildRef(t)
	b := NewBuilder(idx)

	r := program(t, "p1", 1, "T1", "MKTAYQ", "missense_variant|T1|protein_coding|3T>S|dna")
	b.Append(r)
	r2 := program(t, "p2", 0, "T2", "ACDEFG", "missense_variant|T2|protein_coding|1A>V|dna")
	b.Append(r2)

	ts := b.Build()
	require.Len(t, ts.Descriptors, 2)
	assert.Equal(t, 0, ts.Descriptors[0].OutStart)
	assert.Equal(t, 6, ts.Descriptors[0].OutLength)
	assert.Equal(t, 6, ts.Descriptors[1].OutStart)
	assert.Equal(t, ts.Descriptors[0].OutLength+ts.Descriptors[1].OutLength, ts.ResultLength)
}

func TestBuilder_RefStreamIsContiguousArena(t *testing.T) {
	idx := buildRef(t)
	b := NewBuilder(idx)
	assert.Equal(t, "MKTAYQACDEFG", string(b.refArena))
}

func TestBuilder_CopyRefTasksIndexIntoArenaWithTranscriptOffset(t *testing.T) {
	idx := buildRef(t)
	b := NewBuilder(idx)

	r := program(t, "p1", 0, "T2", "ACDEFG", "missense_variant|T2|protein_coding|3D>V|dna")
	b.Append(r)
	ts := b.Build()

	for i, code := range ts.ExecCode {
		if code == ExecCopyRef {
			assert.GreaterOrEqual(t, ts.SrcStart[i], 6) // T2 starts after T1's 6 bytes
		}
	}
}

func TestBuilder_AltStreamAccumulatesInsertedBytes(t *testing.T) {
	idx := buildRef(t)
	b := NewBuilder(idx)
	r := program(t, "p1", 1, "T1", "MKTAYQ", "inframe_insertion|T1|protein_coding|3T>TRR|dna")
	b.Append(r)
	ts := b.Build()
	assert.Equal(t, "RR", string(ts.AltStream))
}

func program(t *testing.T, patient string, hap int, transcriptID, ref, bcsq string) *compile.Program {
	t.Helper()
	r := mutation.Parse(bcsq)
	prog, drop := compile.Compile(patient, hap, transcriptID, ref, r.ByAllele[1])
	require.Nil(t, drop)
	require.NotNil(t, prog)
	return prog
}
