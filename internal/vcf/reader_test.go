package vcf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleVCF = `##fileformat=VCFv4.2
##INFO=<ID=BCSQ,Number=.,Type=String,Description="consequence">
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO	FORMAT	p1	p2
1	100	.	C	T,TAA	.	PASS	BCSQ=missense_variant|T1|protein_coding|3T>S|dna,inframe_insertion|T1|protein_coding|3T>TRR|dna	PBT	%x	%x
`

func TestReader_HeaderAndSampleNames(t *testing.T) {
	r := NewReader(strings.NewReader(sampleVCF))
	require.NoError(t, r.ReadHeader())
	require.Equal(t, []string{"p1", "p2"}, r.SampleNames())
}

func TestReader_ParsesFixedFieldsAndAlts(t *testing.T) {
	body := "1\t100\t.\tC\tT,TAA\t.\tPASS\tBCSQ=missense_variant|T1|protein_coding|3T>S|dna\tPBT\t\x01\t\x02\n"
	full := "##fileformat=VCFv4.2\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tp1\tp2\n" + body

	r := NewReader(strings.NewReader(full))
	require.NoError(t, r.ReadHeader())

	rec, ok, err := r.Next()
	require.NoError(t, err)
	require.True(t, ok)

	require.Equal(t, "1", rec.Chrom)
	require.Equal(t, int64(100), rec.Pos)
	require.Equal(t, "C", rec.Ref)
	require.Equal(t, []string{"T", "TAA"}, rec.Alt)

	bcsq, ok := rec.Consequence()
	require.True(t, ok)
	require.Equal(t, "missense_variant|T1|protein_coding|3T>S|dna", bcsq)

	g0 := rec.Genotype(0)
	require.Equal(t, []byte{0x01}, g0)
	g1 := rec.Genotype(1)
	require.Equal(t, []byte{0x02}, g1)

	_, ok, err = r.Next()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestReader_MissingChromHeaderIsFatal(t *testing.T) {
	r := NewReader(strings.NewReader("##fileformat=VCFv4.2\n1\t100\t.\tC\tT\t.\tPASS\t.\n"))
	err := r.ReadHeader()
	require.Error(t, err)
}

func TestReader_SkipsBlankLines(t *testing.T) {
	full := "##fileformat=VCFv4.2\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n\n1\t5\t.\tA\tG\t.\tPASS\t.\n"
	r := NewReader(strings.NewReader(full))
	require.NoError(t, r.ReadHeader())
	rec, ok, err := r.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(5), rec.Pos)
}
