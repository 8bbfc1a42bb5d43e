package compile

import (
	"testing"

	"github.com/inodb/vcf2prot/internal/errs"
	"github.com/inodb/vcf2prot/internal/mutation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ref = "MKTAYQ"

func out(t *testing.T, prog *Program, ref string) string {
	t.Helper()
	b := make([]byte, prog.OutLength)
	for _, ins := range prog.Instructions {
		if ins.Op == CopyRef {
			copy(b[ins.OutStart:ins.OutStart+ins.Length], ref[ins.RefStart:ins.RefStart+ins.Length])
		} else {
			copy(b[ins.OutStart:ins.OutStart+ins.Length], ins.Alt)
		}
	}
	return string(b)
}

func TestCompile_Missense(t *testing.T) {
	r := mutation.Parse("missense_variant|T1|protein_coding|3T>S|dna")
	prog, drop := Compile("p1", 1, "T1", ref, r.ByAllele[1])
	require.Nil(t, drop)
	assert.Equal(t, "MKSAYQ", out(t, prog, ref))
}

func TestCompile_Insertion(t *testing.T) {
	r := mutation.Parse("inframe_insertion|T1|protein_coding|3T>TRR|dna")
	prog, drop := Compile("p1", 1, "T1", ref, r.ByAllele[1])
	require.Nil(t, drop)
	assert.Equal(t, "MKTRRAYQ", out(t, prog, ref))
}

func TestCompile_Deletion(t *testing.T) {
	r := mutation.Parse("inframe_deletion|T1|protein_coding|3TA>T|dna")
	prog, drop := Compile("p1", 0, "T1", ref, r.ByAllele[1])
	require.Nil(t, drop)
	assert.Equal(t, "MKTYQ", out(t, prog, ref))
}

func TestCompile_StopGained(t *testing.T) {
	r := mutation.Parse("stop_gained|T1|protein_coding|4A>*|dna")
	prog, drop := Compile("p1", 1, "T1", ref, r.ByAllele[1])
	require.Nil(t, drop)
	assert.Equal(t, "MKT", out(t, prog, ref))
}

func TestCompile_NoMutationsProducesNoRecord(t *testing.T) {
	prog, drop := Compile("p1", 0, "T1", ref, nil)
	assert.Nil(t, drop)
	assert.Nil(t, prog)
}

func TestCompile_SynonymousOnlyProducesNoRecord(t *testing.T) {
	r := mutation.Parse("synonymous_variant|T1|protein_coding|3T>T|dna")
	prog, drop := Compile("p1", 1, "T1", ref, r.ByAllele[1])
	assert.Nil(t, drop)
	assert.Nil(t, prog)
}

func TestCompile_MultiAnnotationConflictDrops(t *testing.T) {
	r := mutation.Parse("missense_variant|T1|protein_coding|3T>S|dna+inframe_deletion|T1|protein_coding|3TA>T|dna")
	_, drop := Compile("p1", 1, "T1", ref, r.ByAllele[1])
	require.NotNil(t, drop)
	assert.Equal(t, errs.DropMultiAnnotation, drop.Reason)
}

func TestCompile_StartLostDrops(t *testing.T) {
	r := mutation.Parse("start_lost|T1|protein_coding|1M>V|dna")
	_, drop := Compile("p1", 0, "T1", ref, r.ByAllele[1])
	require.NotNil(t, drop)
	assert.Equal(t, errs.DropStartLost, drop.Reason)
}

func TestCompile_PostTerminalMutationDrops(t *testing.T) {
	r := mutation.Parse("stop_gained|T1|protein_coding|2K>*|dna+missense_variant|T1|protein_coding|4A>V|dna")
	_, drop := Compile("p1", 1, "T1", ref, r.ByAllele[1])
	require.NotNil(t, drop)
	assert.Equal(t, errs.DropPostTerminal, drop.Reason)
}

func TestCompile_SemanticDedupCollapsesIdenticalEffect(t *testing.T) {
	r := mutation.Parse("missense_variant|T1|protein_coding|3T>S|dna+missense_variant|T1|protein_coding|3T>S|dna")
	prog, drop := Compile("p1", 1, "T1", ref, r.ByAllele[1])
	require.Nil(t, drop)
	assert.Equal(t, "MKSAYQ", out(t, prog, ref))
}

func TestCompile_TilingPartitionsOutputWithNoGapsOrOverlaps(t *testing.T) {
	r := mutation.Parse("inframe_insertion|T1|protein_coding|3T>TRR|dna")
	prog, drop := Compile("p1", 1, "T1", ref, r.ByAllele[1])
	require.Nil(t, drop)
	cursor := 0
	for _, ins := range prog.Instructions {
		assert.Equal(t, cursor, ins.OutStart)
		cursor += ins.Length
	}
	assert.Equal(t, prog.OutLength, cursor)
}
