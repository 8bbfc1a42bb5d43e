// Package vcf is the upstream record reader the core pipeline consumes
// (spec.md §6): it tokenizes a phased, multi-sample VCF into Records
// and hands off allele lists, the consequence annotation INFO value,
// and raw per-sample genotype fields untouched. It does not interpret
// consequences or genotypes — that is internal/mutation and
// internal/bitmask's job.
package vcf

// ConsequenceInfoKey is the INFO key carrying the BCSQ-style packed
// consequence annotation (spec.md §4.B).
const ConsequenceInfoKey = "BCSQ"

// GenotypeFormatKey is the FORMAT key carrying the packed two-bit-per-
// haplotype genotype field (spec.md §4.C).
const GenotypeFormatKey = "PBT"

// Record is one data line of a phased VCF: the fixed columns plus the
// FORMAT-keyed per-sample fields, split but not otherwise interpreted.
type Record struct {
	Chrom  string
	Pos    int64
	ID     string
	Ref    string
	Alt    []string
	Qual   string
	Filter string
	Info   map[string]string
	Format []string

	// samples holds one map per sample, keyed by Format entry, in
	// header sample order.
	samples []map[string]string
}

// Consequence returns the raw BCSQ-style annotation string, if present.
func (r *Record) Consequence() (string, bool) {
	v, ok := r.Info[ConsequenceInfoKey]
	return v, ok
}

// SampleField returns the raw value of the named FORMAT field for the
// sample at sampleIdx (0-based, in header sample order).
func (r *Record) SampleField(sampleIdx int, key string) (string, bool) {
	if sampleIdx < 0 || sampleIdx >= len(r.samples) {
		return "", false
	}
	v, ok := r.samples[sampleIdx][key]
	return v, ok
}

// Genotype returns the raw packed genotype byte string for the sample
// at sampleIdx, ready for bitmask.Decode.
func (r *Record) Genotype(sampleIdx int) []byte {
	v, ok := r.SampleField(sampleIdx, GenotypeFormatKey)
	if !ok {
		return nil
	}
	return []byte(v)
}

// NumAlt reports how many alt alleles this record carries.
func (r *Record) NumAlt() int {
	return len(r.Alt)
}

// NewRecord builds a Record directly from already-split fields, for
// callers (tests, synthetic pipelines) that assemble records without
// going through Reader. samplePBT holds the raw packed genotype byte
// string for each sample, in header sample order.
func NewRecord(chrom string, pos int64, id, ref string, alt []string, info map[string]string, samplePBT []string) *Record {
	r := &Record{
		Chrom:  chrom,
		Pos:    pos,
		ID:     id,
		Ref:    ref,
		Alt:    alt,
		Info:   info,
		Format: []string{GenotypeFormatKey},
	}
	for _, pbt := range samplePBT {
		r.samples = append(r.samples, map[string]string{GenotypeFormatKey: pbt})
	}
	return r
}
